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
)

// ReadDir lists the directory entries of ino in child_name order, skipping
// the first offset rows. offset is opaque to the caller — it is whatever
// cookie fuseops.ReadDirOp last handed back, which for this filesystem is
// simply a row count.
func ReadDir(ctx context.Context, q Querier, ino uint64, offset int64) ([]DirEntry, error) {
	rows, err := q.Query(ctx,
		`SELECT * FROM dir_entries WHERE dir_ino = $1 ORDER BY child_name OFFSET $2`,
		int64(ino), offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ents []DirEntry
	for rows.Next() {
		var (
			dirIno, childIno int64
			childName        string
			childKindStr     string
		)
		if err := rows.Scan(&dirIno, &childName, &childKindStr, &childIno); err != nil {
			return nil, err
		}
		kind, err := ParseFileType(childKindStr)
		if err != nil {
			return nil, err
		}
		ents = append(ents, DirEntry{
			DirIno:    uint64(dirIno),
			ChildName: childName,
			ChildKind: kind,
			ChildIno:  uint64(childIno),
		})
	}
	return ents, rows.Err()
}

// LookupDirEnt resolves name inside parent and returns the child's full
// inode row, joining dir_entries to inodes the same way the reference
// implementation's lookup_dir_ent does.
func LookupDirEnt(ctx context.Context, q Querier, parent uint64, name string) (*Inode, error) {
	return scanInode(q.QueryRow(ctx,
		`SELECT i.* FROM inodes i
		 JOIN dir_entries d ON i.ino = d.child_ino
		 WHERE d.dir_ino = $1 AND d.child_name = $2`,
		int64(parent), name))
}

// RenameDirEnt moves the directory entry (parent, name) to
// (newParent, newName), clobbering any existing entry already at the
// destination first. It reports ok == false, with the transaction rolled
// back, if the source entry does not exist.
func RenameDirEnt(ctx context.Context, q Querier, parent uint64, name string, newParent uint64, newName string) (ok bool, err error) {
	tx, err := q.Begin(ctx)
	if err != nil {
		return false, err
	}
	defer tx.Rollback(ctx)

	if _, err := tx.Exec(ctx,
		`DELETE FROM dir_entries WHERE (dir_ino, child_name) = ($1, $2)`,
		int64(newParent), newName); err != nil {
		return false, err
	}

	tag, err := tx.Exec(ctx,
		`UPDATE dir_entries SET dir_ino = $1, child_name = $2 WHERE (dir_ino, child_name) = ($3, $4)`,
		int64(newParent), newName, int64(parent), name)
	if err != nil {
		return false, err
	}
	if tag.RowsAffected() == 0 {
		return false, nil
	}

	return true, tx.Commit(ctx)
}
