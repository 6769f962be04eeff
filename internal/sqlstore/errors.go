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

import "errors"

// Sentinel errors returned by metadata routines. The fsops package is the
// only place that translates these into errno values; sqlstore itself
// knows nothing about FUSE.
var (
	// ErrNotFound is returned when a lookup by inode number or directory
	// entry name matches no row.
	ErrNotFound = errors.New("sqlstore: not found")

	// ErrNotADirectory is returned when an operation that requires a
	// directory (ReadDir) is given the inode of something else.
	ErrNotADirectory = errors.New("sqlstore: not a directory")

	// ErrNotARegularFile is returned by Link when asked to add a second
	// name for an inode that isn't a regular file.
	ErrNotARegularFile = errors.New("sqlstore: not a regular file")
)
