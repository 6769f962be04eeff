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

	"github.com/nvanbenschoten/cockroach-fuse/internal/sqlstore"
)

// Unlink removes op.Name from op.Parent, deleting the target inode once
// its link count reaches zero.
func (fs *FileSystem) Unlink(ctx context.Context, op *fuseops.UnlinkOp) error {
	ok, err := sqlstore.Unlink(ctx, fs.Store.Pool(), uint64(op.Parent), op.Name)
	if err != nil {
		return errno(err)
	}
	if !ok {
		return errno(sqlstore.ErrNotFound)
	}
	return nil
}

// CreateLink adds op.Name in op.Parent as a second name for the regular
// file op.Target. Linking anything but a regular file reports ENOENT,
// not EPERM.
func (fs *FileSystem) CreateLink(ctx context.Context, op *fuseops.CreateLinkOp) error {
	in, err := sqlstore.Link(ctx, fs.Store.Pool(), uint64(op.Target), uint64(op.Parent), op.Name)
	if err != nil {
		return errno(err)
	}
	op.Entry = fs.childEntry(in)
	return nil
}

// Rename moves the directory entry (op.OldParent, op.OldName) to
// (op.NewParent, op.NewName), clobbering any existing entry already at
// the destination.
func (fs *FileSystem) Rename(ctx context.Context, op *fuseops.RenameOp) error {
	ok, err := sqlstore.RenameDirEnt(ctx, fs.Store.Pool(), uint64(op.OldParent), op.OldName, uint64(op.NewParent), op.NewName)
	if err != nil {
		return errno(err)
	}
	if !ok {
		return errno(sqlstore.ErrNotFound)
	}
	return nil
}
