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

// Package sqlstore holds the durable filesystem state in a CockroachDB (or
// any Postgres wire-compatible) cluster. It owns the inodes, dir_entries,
// and blocks tables and exposes the metadata and data routines the VFS
// handler layer calls on every operation; nothing about the kernel protocol
// leaks in here.
package sqlstore

import (
	"fmt"
	"time"
)

// BlockSize is the fixed size, in bytes, of every row in the blocks table.
// It is a compile-time constant: changing it is a schema migration, not a
// runtime option, so a single cluster must be created and read with the
// same value for its lifetime.
const BlockSize = 1024

// RootInodeID is the inode number of the filesystem root. create_inode
// special-cases parent == 0 to mean "don't add a dir_entries row," which is
// exactly what materializing the root requires.
const RootInodeID = 1

// FileType is the closed set of POSIX file kinds this filesystem knows how
// to store. It round-trips through the database as the literal macro name
// a C program would use for the corresponding S_IF* constant, so that the
// stored value is self-describing to anyone poking at the table directly.
type FileType int

const (
	FileTypeNamedPipe FileType = iota
	FileTypeCharDevice
	FileTypeBlockDevice
	FileTypeDirectory
	FileTypeRegularFile
	FileTypeSymlink
	FileTypeSocket
)

// String renders the on-the-wire column value for ft.
func (ft FileType) String() string {
	s, ok := fileTypeToStr[ft]
	if !ok {
		return fmt.Sprintf("FileType(%d)", int(ft))
	}
	return s
}

var fileTypeToStr = map[FileType]string{
	FileTypeNamedPipe:   "S_IFIFO",
	FileTypeCharDevice:  "S_IFCHR",
	FileTypeBlockDevice: "S_IFBLK",
	FileTypeDirectory:   "S_IFDIR",
	FileTypeRegularFile: "S_IFREG",
	FileTypeSymlink:     "S_IFLNK",
	FileTypeSocket:      "S_IFSOCK",
}

var strToFileType = map[string]FileType{
	"S_IFIFO":  FileTypeNamedPipe,
	"S_IFCHR":  FileTypeCharDevice,
	"S_IFBLK":  FileTypeBlockDevice,
	"S_IFDIR":  FileTypeDirectory,
	"S_IFREG":  FileTypeRegularFile,
	"S_IFLNK":  FileTypeSymlink,
	"S_IFSOCK": FileTypeSocket,
}

// ParseFileType parses the on-the-wire column value written by String.
func ParseFileType(s string) (FileType, error) {
	ft, ok := strToFileType[s]
	if !ok {
		return 0, fmt.Errorf("sqlstore: unrecognized file kind %q", s)
	}
	return ft, nil
}

// Inode mirrors a row of the inodes table.
type Inode struct {
	Ino    uint64
	Size   uint64
	Blocks uint64
	Atime  time.Time
	Mtime  time.Time
	Ctime  time.Time
	Crtime time.Time
	Kind   FileType
	Perm   uint16
	Nlink  uint32
	UID    uint32
	GID    uint32
	Rdev   uint32
	Flags  uint32
}

// DirEntry mirrors a row of the dir_entries table.
type DirEntry struct {
	DirIno    uint64
	ChildName string
	ChildKind FileType
	ChildIno  uint64
}
