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
	"testing"

	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func expectSchemaStatements(mock pgxmock.PgxPoolIface) {
	mock.ExpectExec(`CREATE SEQUENCE IF NOT EXISTS inode_alloc`).
		WillReturnResult(pgxmock.NewResult("CREATE", 0))
	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS inodes`).
		WillReturnResult(pgxmock.NewResult("CREATE", 0))
	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS dir_entries`).
		WillReturnResult(pgxmock.NewResult("CREATE", 0))
	mock.ExpectExec(`CREATE TABLE IF NOT EXISTS blocks`).
		WillReturnResult(pgxmock.NewResult("CREATE", 0))
}

// TestInitFreshCluster bootstraps an empty database: all four schema
// statements run, the root lookup misses, and the root directory is
// materialized with no dir_entries row.
func TestInitFreshCluster(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	expectSchemaStatements(mock)
	mock.ExpectQuery(`SELECT \* FROM inodes WHERE ino = \$1`).
		WithArgs(int64(RootInodeID)).
		WillReturnRows(pgxmock.NewRows(inodeColumns()))
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO inodes`).
		WithArgs("S_IFDIR", int32(0)).
		WillReturnRows(inodeRow(pgxmock.NewRows(inodeColumns()), RootInodeID, FileTypeDirectory))
	mock.ExpectCommit()

	require.NoError(t, NewStore(mock).Init(context.Background()))
	require.NoError(t, mock.ExpectationsWereMet())
}

// TestInitIsIdempotent runs Init against a cluster that already has the
// schema and a root: the CREATE ... IF NOT EXISTS statements all no-op and
// no second root is created.
func TestInitIsIdempotent(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	expectSchemaStatements(mock)
	mock.ExpectQuery(`SELECT \* FROM inodes WHERE ino = \$1`).
		WithArgs(int64(RootInodeID)).
		WillReturnRows(inodeRow(pgxmock.NewRows(inodeColumns()), RootInodeID, FileTypeDirectory))

	require.NoError(t, NewStore(mock).Init(context.Background()))
	require.NoError(t, mock.ExpectationsWereMet())
}

// TestInitRejectsMisallocatedRoot covers a cluster whose sequence has
// already handed out numbers before the root was created: the root would
// not land on the inode number the kernel expects, so Init must fail
// loudly instead of serving a filesystem with an unreachable root.
func TestInitRejectsMisallocatedRoot(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	expectSchemaStatements(mock)
	mock.ExpectQuery(`SELECT \* FROM inodes WHERE ino = \$1`).
		WithArgs(int64(RootInodeID)).
		WillReturnRows(pgxmock.NewRows(inodeColumns()))
	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO inodes`).
		WithArgs("S_IFDIR", int32(0)).
		WillReturnRows(inodeRow(pgxmock.NewRows(inodeColumns()), 42, FileTypeDirectory))
	mock.ExpectCommit()

	err = NewStore(mock).Init(context.Background())
	assert.ErrorContains(t, err, "root allocated inode 42")
	require.NoError(t, mock.ExpectationsWereMet())
}
