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

// Package fsops turns FUSE operations into sqlstore metadata and data
// calls. Apart from the cmd wiring that opens the store and mounts the
// server, it is the only package that imports both github.com/jacobsa/fuse
// and internal/sqlstore; nothing below it knows about the kernel protocol.
package fsops

import (
	"context"
	"time"

	"github.com/jacobsa/fuse"
	"github.com/jacobsa/fuse/fuseops"
	"github.com/jacobsa/fuse/fuseutil"

	"github.com/nvanbenschoten/cockroach-fuse/clock"
	"github.com/nvanbenschoten/cockroach-fuse/internal/sqlstore"
)

// entryTTL is how long the kernel may cache a name lookup or an attribute
// fetch before re-asking us. Expirations are computed through a Clock so
// tests can control them without sleeping.
const entryTTL = time.Second

// FileSystem implements the VFS-facing handlers described by the metadata
// and block routines in internal/sqlstore. One FileSystem backs exactly
// one mount.
//
// The kernel addresses the root directory as fuseops.RootInodeID; the
// store allocates the root first on bootstrap so sqlstore.RootInodeID
// lines up with it.
//
// Operations this filesystem has no use for (symlink content, xattrs,
// fallocate) fall through to the embedded NotImplementedFileSystem and
// come back as ENOSYS.
type FileSystem struct {
	fuseutil.NotImplementedFileSystem

	Store *sqlstore.Store
	Clock clock.Clock
}

var _ fuseutil.FileSystem = (*FileSystem)(nil)

// New constructs a FileSystem backed by store, using clock as its source
// of time for cache-expiration timestamps.
func New(store *sqlstore.Store, clk clock.Clock) *FileSystem {
	return &FileSystem{Store: store, Clock: clk}
}

// NewServer wraps fs in the dispatch loop fuse.Mount expects: one
// goroutine per incoming op, each routed to the matching method.
func NewServer(fs *FileSystem) fuse.Server {
	return fuseutil.NewFileSystemServer(fs)
}

// StatFS must succeed for the mount to be usable by tools that stat the
// filesystem, but the backing cluster has no meaningful capacity numbers
// to report, so everything is left at zero.
func (fs *FileSystem) StatFS(ctx context.Context, op *fuseops.StatFSOp) error {
	return nil
}

func (fs *FileSystem) expiration() time.Time {
	return fs.Clock.Now().Add(entryTTL)
}

// attributesFromInode converts a stored inode row into the attributes
// struct the kernel expects.
func attributesFromInode(in *sqlstore.Inode) fuseops.InodeAttributes {
	return fuseops.InodeAttributes{
		Size:   in.Size,
		Nlink:  in.Nlink,
		Mode:   encodeMode(in.Kind, in.Perm),
		Rdev:   in.Rdev,
		Uid:    in.UID,
		Gid:    in.GID,
		Atime:  in.Atime,
		Mtime:  in.Mtime,
		Ctime:  in.Ctime,
		Crtime: in.Crtime,
	}
}

// childEntry builds the ChildInodeEntry the kernel wants back from any op
// that resolves or creates a name (LookUpInode, MkDir, MkNode, CreateLink).
func (fs *FileSystem) childEntry(in *sqlstore.Inode) fuseops.ChildInodeEntry {
	return fuseops.ChildInodeEntry{
		Child:                fuseops.InodeID(in.Ino),
		Attributes:           attributesFromInode(in),
		AttributesExpiration: fs.expiration(),
		EntryExpiration:      fs.expiration(),
	}
}
