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
	"fmt"
)

// schemaStatements creates the sequence and three tables backing the
// filesystem. Every statement is idempotent so Init can run on every
// startup against an already-bootstrapped cluster.
//
// child_ino in dir_entries carries a foreign key, so the database itself
// enforces that a directory entry can never point at a nonexistent inode
// rather than relying solely on the metadata routines' transaction
// discipline.
var schemaStatements = []string{
	`CREATE SEQUENCE IF NOT EXISTS inode_alloc`,
	`CREATE TABLE IF NOT EXISTS inodes (
		ino    INT8      NOT NULL PRIMARY KEY DEFAULT nextval('inode_alloc'),
		size   INT8      NOT NULL DEFAULT 0,
		blocks INT8      NOT NULL DEFAULT 0,
		atime  TIMESTAMP NOT NULL DEFAULT now(),
		mtime  TIMESTAMP NOT NULL DEFAULT now(),
		ctime  TIMESTAMP NOT NULL DEFAULT now(),
		crtime TIMESTAMP NOT NULL DEFAULT now(),
		kind   STRING    NOT NULL,
		perm   INT2      NOT NULL DEFAULT 493,
		nlink  INT4      NOT NULL DEFAULT 1,
		uid    INT4      NOT NULL DEFAULT 501,
		gid    INT4      NOT NULL DEFAULT 20,
		rdev   INT4      NOT NULL DEFAULT 0,
		flags  INT4      NOT NULL DEFAULT 0
	)`,
	`CREATE TABLE IF NOT EXISTS dir_entries (
		dir_ino    INT8   NOT NULL REFERENCES inodes (ino),
		child_name STRING NOT NULL,
		child_kind STRING NOT NULL,
		child_ino  INT8   NOT NULL REFERENCES inodes (ino),
		PRIMARY KEY (dir_ino, child_name)
	)`,
	`CREATE TABLE IF NOT EXISTS blocks (
		file_ino  INT8  NOT NULL REFERENCES inodes (ino) ON DELETE CASCADE,
		block_idx INT8  NOT NULL,
		bytes     BYTES NOT NULL DEFAULT repeat(x'00'::STRING, 1024)::BYTES,
		PRIMARY KEY (file_ino, block_idx)
	)`,
}

// Init bootstraps the schema and materializes the root directory if it
// does not already exist. It is safe to call on every process startup.
func (s *Store) Init(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := s.pool.Exec(ctx, stmt); err != nil {
			return err
		}
	}

	if _, err := LookupInode(ctx, s.pool, RootInodeID); err == nil {
		return nil
	} else if err != ErrNotFound {
		return err
	}

	// parent == 0 tells CreateInode not to add a dir_entries row; the
	// root is the one inode with no containing directory.
	in, err := CreateInode(ctx, s.pool, 0, "", FileTypeDirectory, 0)
	if err != nil {
		return err
	}
	if in.Ino != RootInodeID {
		// The kernel hard-codes the root's inode number, so a fresh cluster
		// whose sequence doesn't hand out RootInodeID first is unusable.
		return fmt.Errorf("sqlstore: root allocated inode %d, expected %d", in.Ino, RootInodeID)
	}
	return nil
}

// Pool exposes the underlying Querier for callers (cmd/ wiring, tests)
// that need to pass the store's connection into another routine.
func (s *Store) Pool() Querier {
	return s.pool
}
