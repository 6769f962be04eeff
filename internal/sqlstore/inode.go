// Copyright 2025 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package sqlstore

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
)

// scanInode reads one row shaped like inodes.* (the column order schema.go
// declares them in) out of row.
func scanInode(row pgx.Row) (*Inode, error) {
	var (
		in      Inode
		kindStr string
	)
	err := row.Scan(
		&in.Ino, &in.Size, &in.Blocks,
		&in.Atime, &in.Mtime, &in.Ctime, &in.Crtime,
		&kindStr, &in.Perm, &in.Nlink, &in.UID, &in.GID, &in.Rdev, &in.Flags,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	in.Kind, err = ParseFileType(kindStr)
	if err != nil {
		return nil, err
	}
	return &in, nil
}

// CreateInode allocates a new inode of kind ft and, unless parent is zero,
// links it into parent under name. parent == 0 is reserved for
// materializing the filesystem root, which has no containing directory.
func CreateInode(ctx context.Context, q Querier, parent uint64, name string, ft FileType, rdev uint32) (*Inode, error) {
	tx, err := q.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	kindStr := ft.String()
	in, err := scanInode(tx.QueryRow(ctx,
		`INSERT INTO inodes (kind, rdev) VALUES ($1, $2) RETURNING *`,
		kindStr, int32(rdev)))
	if err != nil {
		return nil, err
	}

	if parent != 0 {
		if _, err := tx.Exec(ctx,
			`INSERT INTO dir_entries (dir_ino, child_name, child_kind, child_ino) VALUES ($1, $2, $3, $4)`,
			int64(parent), name, kindStr, int64(in.Ino)); err != nil {
			return nil, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, err
	}
	return in, nil
}

// LookupInodeKind returns just the kind column for ino, the minimal
// information readdir needs to reject non-directory inodes before paying
// for a full row scan.
func LookupInodeKind(ctx context.Context, q Querier, ino uint64) (FileType, error) {
	var kindStr string
	err := q.QueryRow(ctx, `SELECT kind FROM inodes WHERE ino = $1`, int64(ino)).Scan(&kindStr)
	if errors.Is(err, pgx.ErrNoRows) {
		return 0, ErrNotFound
	}
	if err != nil {
		return 0, err
	}
	return ParseFileType(kindStr)
}

// LookupInode fetches the full row for ino.
func LookupInode(ctx context.Context, q Querier, ino uint64) (*Inode, error) {
	return scanInode(q.QueryRow(ctx, `SELECT * FROM inodes WHERE ino = $1`, int64(ino)))
}

// UpdateInodeParams carries the optional fields update_inode may set.
// A nil pointer encodes as SQL NULL, which the statement's COALESCE turns
// into "keep the old column value."
type UpdateInodeParams struct {
	Size   *uint64
	Atime  *time.Time
	Mtime  *time.Time
	Ctime  *time.Time
	Crtime *time.Time
	Kind   *FileType
	Perm   *uint16
	UID    *uint32
	GID    *uint32
	Flags  *uint32
}

// UpdateInode applies whichever fields of p are non-nil to ino and returns
// the row as it exists after the update.
func UpdateInode(ctx context.Context, q Querier, ino uint64, p UpdateInodeParams) (*Inode, error) {
	var size *int64
	if p.Size != nil {
		v := int64(*p.Size)
		size = &v
	}
	var kindStr *string
	if p.Kind != nil {
		v := p.Kind.String()
		kindStr = &v
	}
	var perm *int16
	if p.Perm != nil {
		v := int16(*p.Perm)
		perm = &v
	}
	var uid, gid, flags *int32
	if p.UID != nil {
		v := int32(*p.UID)
		uid = &v
	}
	if p.GID != nil {
		v := int32(*p.GID)
		gid = &v
	}
	if p.Flags != nil {
		v := int32(*p.Flags)
		flags = &v
	}

	return scanInode(q.QueryRow(ctx,
		`UPDATE inodes SET
			size   = COALESCE($1, size),
			atime  = COALESCE($2, atime),
			mtime  = COALESCE($3, mtime),
			ctime  = COALESCE($4, ctime),
			crtime = COALESCE($5, crtime),
			kind   = COALESCE($6, kind),
			perm   = COALESCE($7, perm),
			uid    = COALESCE($8, uid),
			gid    = COALESCE($9, gid),
			flags  = COALESCE($10, flags)
		 WHERE ino = $11
		 RETURNING *`,
		size, p.Atime, p.Mtime, p.Ctime, p.Crtime, kindStr, perm, uid, gid, flags, int64(ino)))
}

// UpdateNlink sets the nlink column for ino directly. It is split out from
// UpdateInode because Unlink and Link need to adjust it as part of a
// larger transaction that also touches dir_entries.
func UpdateNlink(ctx context.Context, q Querier, ino uint64, nlink uint32) error {
	_, err := q.Exec(ctx, `UPDATE inodes SET nlink = $1 WHERE ino = $2`, int32(nlink), int64(ino))
	return err
}

// Unlink removes the directory entry name from parent and decrements the
// target inode's link count, deleting the inode outright once its link
// count reaches zero. It reports ok == false if no such entry exists.
func Unlink(ctx context.Context, q Querier, parent uint64, name string) (ok bool, err error) {
	tx, err := q.Begin(ctx)
	if err != nil {
		return false, err
	}
	defer tx.Rollback(ctx)

	in, err := LookupDirEnt(ctx, tx, parent, name)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if _, err := tx.Exec(ctx,
		`DELETE FROM dir_entries WHERE (dir_ino, child_name, child_ino) = ($1, $2, $3)`,
		int64(parent), name, int64(in.Ino)); err != nil {
		return false, err
	}

	in.Nlink--
	if in.Nlink == 0 {
		if _, err := tx.Exec(ctx, `DELETE FROM inodes WHERE ino = $1`, int64(in.Ino)); err != nil {
			return false, err
		}
	} else if err := UpdateNlink(ctx, tx, in.Ino, in.Nlink); err != nil {
		return false, err
	}

	return true, tx.Commit(ctx)
}

// Link adds newname in parent as a second name for the regular file ino,
// incrementing its link count. It returns ErrNotFound if ino does not
// exist and ErrNotARegularFile if it names anything but a regular file.
func Link(ctx context.Context, q Querier, ino, parent uint64, newname string) (*Inode, error) {
	tx, err := q.Begin(ctx)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback(ctx)

	in, err := LookupInode(ctx, tx, ino)
	if err != nil {
		return nil, err
	}
	if in.Kind != FileTypeRegularFile {
		return nil, ErrNotARegularFile
	}

	if _, err := tx.Exec(ctx,
		`INSERT INTO dir_entries (dir_ino, child_name, child_kind, child_ino) VALUES ($1, $2, $3, $4)`,
		int64(parent), newname, in.Kind.String(), int64(ino)); err != nil {
		return nil, err
	}

	in.Nlink++
	if err := UpdateNlink(ctx, tx, in.Ino, in.Nlink); err != nil {
		return nil, err
	}

	return in, tx.Commit(ctx)
}
