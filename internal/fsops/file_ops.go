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
	"errors"

	"github.com/jacobsa/fuse/fuseops"

	"github.com/nvanbenschoten/cockroach-fuse/internal/sqlstore"
)

// MkNode creates a non-directory inode: a regular file, device, fifo, or
// socket, depending on the type bits of op.Mode. op.Rdev carries the
// device number for character and block devices.
func (fs *FileSystem) MkNode(ctx context.Context, op *fuseops.MkNodeOp) error {
	kind := decodeMode(op.Mode)
	if kind == sqlstore.FileTypeDirectory {
		kind = sqlstore.FileTypeRegularFile
	}
	in, err := sqlstore.CreateInode(ctx, fs.Store.Pool(), uint64(op.Parent), op.Name, kind, uint32(op.Rdev))
	if err != nil {
		return errno(err)
	}
	op.Entry = fs.childEntry(in)
	return nil
}

// CreateFile creates and opens a regular file named op.Name inside
// op.Parent. This filesystem keeps no per-handle state, so it mints no
// real file handle — zero is always returned.
func (fs *FileSystem) CreateFile(ctx context.Context, op *fuseops.CreateFileOp) error {
	in, err := sqlstore.CreateInode(ctx, fs.Store.Pool(), uint64(op.Parent), op.Name, sqlstore.FileTypeRegularFile, 0)
	if err != nil {
		return errno(err)
	}
	op.Entry = fs.childEntry(in)
	return nil
}

// OpenFile validates that op.Inode exists and is not a directory (a
// directory is refused with ENOTDIR; every other kind is accepted); like
// OpenDir, it mints no handle of its own.
func (fs *FileSystem) OpenFile(ctx context.Context, op *fuseops.OpenFileOp) error {
	kind, err := sqlstore.LookupInodeKind(ctx, fs.Store.Pool(), uint64(op.Inode))
	if err != nil {
		return errno(err)
	}
	if kind == sqlstore.FileTypeDirectory {
		return errno(sqlstore.ErrNotADirectory)
	}
	return nil
}

// ReadFile reads op.Dst's length worth of bytes starting at op.Offset from
// op.Inode. The block layer hands back everything from the start of the
// first block touched, so when op.Offset does not fall on a block boundary
// there are up to BlockSize-1 bytes of leading padding to trim here before
// copying into op.Dst.
func (fs *FileSystem) ReadFile(ctx context.Context, op *fuseops.ReadFileOp) error {
	aligned := op.Offset - (op.Offset % sqlstore.BlockSize)
	lead := int(op.Offset - aligned)

	data, err := sqlstore.ReadData(ctx, fs.Store.Pool(), uint64(op.Inode), aligned, lead+len(op.Dst))
	if errors.Is(err, sqlstore.ErrNotFound) {
		// ReadData refuses ranges that extend past the recorded size, so the
		// kernel asking for a full page at the tail of a short file lands
		// here. Distinguish "past EOF" from "no such inode" and retry with
		// the request clamped to what the file actually holds.
		in, lookupErr := sqlstore.LookupInode(ctx, fs.Store.Pool(), uint64(op.Inode))
		if lookupErr != nil {
			return errno(lookupErr)
		}
		if uint64(op.Offset) >= in.Size {
			op.BytesRead = 0
			return nil
		}
		clamped := int(in.Size - uint64(op.Offset))
		data, err = sqlstore.ReadData(ctx, fs.Store.Pool(), uint64(op.Inode), aligned, lead+clamped)
	}
	if err != nil {
		return errno(err)
	}

	if lead > len(data) {
		lead = len(data)
	}
	op.BytesRead = copy(op.Dst, data[lead:])
	return nil
}

// WriteFile writes op.Data at op.Offset into op.Inode.
func (fs *FileSystem) WriteFile(ctx context.Context, op *fuseops.WriteFileOp) error {
	_, err := sqlstore.WriteData(ctx, fs.Store.Pool(), uint64(op.Inode), op.Offset, op.Data)
	return errno(err)
}

// SyncFile is a no-op: every metadata and data routine in sqlstore commits
// its own transaction, so there is nothing buffered here to flush.
func (fs *FileSystem) SyncFile(ctx context.Context, op *fuseops.SyncFileOp) error {
	return nil
}

// FlushFile is a no-op for the same reason as SyncFile.
func (fs *FileSystem) FlushFile(ctx context.Context, op *fuseops.FlushFileOp) error {
	return nil
}

// ReleaseFileHandle is a no-op: OpenFile/CreateFile never allocated
// anything to free.
func (fs *FileSystem) ReleaseFileHandle(ctx context.Context, op *fuseops.ReleaseFileHandleOp) error {
	return nil
}
