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

// LookUpInode resolves op.Name inside op.Parent.
func (fs *FileSystem) LookUpInode(ctx context.Context, op *fuseops.LookUpInodeOp) error {
	in, err := sqlstore.LookupDirEnt(ctx, fs.Store.Pool(), uint64(op.Parent), op.Name)
	if err != nil {
		return errno(err)
	}
	op.Entry = fs.childEntry(in)
	return nil
}

// GetInodeAttributes returns the current attributes for op.Inode.
func (fs *FileSystem) GetInodeAttributes(ctx context.Context, op *fuseops.GetInodeAttributesOp) error {
	in, err := sqlstore.LookupInode(ctx, fs.Store.Pool(), uint64(op.Inode))
	if err != nil {
		return errno(err)
	}
	op.Attributes = attributesFromInode(in)
	op.AttributesExpiration = fs.expiration()
	return nil
}

// SetInodeAttributes applies whichever of op's optional fields are set and
// returns the row as it exists afterward.
func (fs *FileSystem) SetInodeAttributes(ctx context.Context, op *fuseops.SetInodeAttributesOp) error {
	var params sqlstore.UpdateInodeParams
	params.Size = op.Size
	params.Atime = op.Atime
	params.Mtime = op.Mtime
	if op.Mode != nil {
		kind := decodeMode(*op.Mode)
		params.Kind = &kind
		perm := permBits(*op.Mode)
		params.Perm = &perm
	}
	now := fs.Clock.Now()
	params.Ctime = &now

	in, err := sqlstore.UpdateInode(ctx, fs.Store.Pool(), uint64(op.Inode), params)
	if err != nil {
		return errno(err)
	}
	op.Attributes = attributesFromInode(in)
	op.AttributesExpiration = fs.expiration()
	return nil
}

// ForgetInode is a no-op: nothing is cached here beyond what the VFS
// layer keeps for itself, so there is nothing to evict.
func (fs *FileSystem) ForgetInode(ctx context.Context, op *fuseops.ForgetInodeOp) error {
	return nil
}
