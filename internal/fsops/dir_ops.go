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

package fsops

import (
	"context"

	"github.com/jacobsa/fuse/fuseops"
	"github.com/jacobsa/fuse/fuseutil"

	"github.com/nvanbenschoten/cockroach-fuse/internal/sqlstore"
)

// direntType maps a stored FileType to the type byte fuse_dirent expects.
func direntType(ft sqlstore.FileType) fuseutil.DirentType {
	switch ft {
	case sqlstore.FileTypeDirectory:
		return fuseutil.DT_Directory
	case sqlstore.FileTypeRegularFile:
		return fuseutil.DT_File
	case sqlstore.FileTypeSymlink:
		return fuseutil.DT_Link
	case sqlstore.FileTypeNamedPipe:
		return fuseutil.DT_FIFO
	case sqlstore.FileTypeCharDevice:
		return fuseutil.DT_Char
	case sqlstore.FileTypeBlockDevice:
		return fuseutil.DT_Block
	case sqlstore.FileTypeSocket:
		return fuseutil.DT_Socket
	default:
		return fuseutil.DT_Unknown
	}
}

// MkDir creates a directory inode named op.Name inside op.Parent.
func (fs *FileSystem) MkDir(ctx context.Context, op *fuseops.MkDirOp) error {
	in, err := sqlstore.CreateInode(ctx, fs.Store.Pool(), uint64(op.Parent), op.Name, sqlstore.FileTypeDirectory, 0)
	if err != nil {
		return errno(err)
	}
	op.Entry = fs.childEntry(in)
	return nil
}

// RmDir removes the directory entry op.Name from op.Parent. It does not
// check whether the directory being removed has children of its own and
// never reports ENOTEMPTY. Because dir_entries.dir_ino references inodes,
// deleting a directory inode that still has entries fails in the database
// with a foreign-key violation; the transaction rolls back, nothing is
// removed, and errno reports it as ECONNREFUSED.
func (fs *FileSystem) RmDir(ctx context.Context, op *fuseops.RmDirOp) error {
	ok, err := sqlstore.Unlink(ctx, fs.Store.Pool(), uint64(op.Parent), op.Name)
	if err != nil {
		return errno(err)
	}
	if !ok {
		return errno(sqlstore.ErrNotFound)
	}
	return nil
}

// OpenDir has nothing to validate beyond the inode's existence; this
// filesystem keeps no open-directory state, so it mints no real handle.
func (fs *FileSystem) OpenDir(ctx context.Context, op *fuseops.OpenDirOp) error {
	kind, err := sqlstore.LookupInodeKind(ctx, fs.Store.Pool(), uint64(op.Inode))
	if err != nil {
		return errno(err)
	}
	if kind != sqlstore.FileTypeDirectory {
		return errno(sqlstore.ErrNotADirectory)
	}
	return nil
}

// ReadDir lists op.Inode's children starting at op.Offset, encoding each
// one with fuseutil.WriteDirent until op.Dst is full.
func (fs *FileSystem) ReadDir(ctx context.Context, op *fuseops.ReadDirOp) error {
	kind, err := sqlstore.LookupInodeKind(ctx, fs.Store.Pool(), uint64(op.Inode))
	if err != nil {
		return errno(err)
	}
	if kind != sqlstore.FileTypeDirectory {
		return errno(sqlstore.ErrNotADirectory)
	}

	ents, err := sqlstore.ReadDir(ctx, fs.Store.Pool(), uint64(op.Inode), int64(op.Offset))
	if err != nil {
		return errno(err)
	}

	var n int
	for i, ent := range ents {
		written := fuseutil.WriteDirent(op.Dst[n:], fuseutil.Dirent{
			Offset: op.Offset + fuseops.DirOffset(i) + 1,
			Inode:  fuseops.InodeID(ent.ChildIno),
			Name:   ent.ChildName,
			Type:   direntType(ent.ChildKind),
		})
		if written == 0 {
			break
		}
		n += written
	}
	op.BytesRead = n
	return nil
}

// ReleaseDirHandle is a no-op: OpenDir never allocated anything to free.
func (fs *FileSystem) ReleaseDirHandle(ctx context.Context, op *fuseops.ReleaseDirHandleOp) error {
	return nil
}
