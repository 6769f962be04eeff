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
	"time"

	"github.com/pashagolub/pgxmock/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func inodeRow(rows *pgxmock.Rows, ino uint64, kind FileType) *pgxmock.Rows {
	now := time.Unix(0, 0)
	return rows.AddRow(int64(ino), int64(0), int64(0), now, now, now, now,
		kind.String(), int16(0o755), int32(1), int32(501), int32(20), int32(0), int32(0))
}

func inodeColumns() []string {
	return []string{"ino", "size", "blocks", "atime", "mtime", "ctime", "crtime",
		"kind", "perm", "nlink", "uid", "gid", "rdev", "flags"}
}

func TestCreateInodeWithParent(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO inodes`).
		WithArgs("S_IFREG", int32(0)).
		WillReturnRows(inodeRow(pgxmock.NewRows(inodeColumns()), 5, FileTypeRegularFile))
	mock.ExpectExec(`INSERT INTO dir_entries`).
		WithArgs(int64(1), "hello.txt", "S_IFREG", int64(5)).
		WillReturnResult(pgxmock.NewResult("INSERT", 1))
	mock.ExpectCommit()

	in, err := CreateInode(context.Background(), mock, 1, "hello.txt", FileTypeRegularFile, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 5, in.Ino)
	assert.Equal(t, FileTypeRegularFile, in.Kind)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateInodeRoot(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(`INSERT INTO inodes`).
		WithArgs("S_IFDIR", int32(0)).
		WillReturnRows(inodeRow(pgxmock.NewRows(inodeColumns()), 1, FileTypeDirectory))
	mock.ExpectCommit()

	in, err := CreateInode(context.Background(), mock, 0, "", FileTypeDirectory, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 1, in.Ino)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUnlinkDropsInodeAtZeroNlink(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT i\.\* FROM inodes`).
		WithArgs(int64(1), "hello.txt").
		WillReturnRows(inodeRow(pgxmock.NewRows(inodeColumns()), 5, FileTypeRegularFile))
	mock.ExpectExec(`DELETE FROM dir_entries`).
		WithArgs(int64(1), "hello.txt", int64(5)).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectExec(`DELETE FROM inodes WHERE ino = \$1`).
		WithArgs(int64(5)).
		WillReturnResult(pgxmock.NewResult("DELETE", 1))
	mock.ExpectCommit()

	ok, err := Unlink(context.Background(), mock, 1, "hello.txt")
	require.NoError(t, err)
	assert.True(t, ok)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestUnlinkMissingEntry(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT i\.\* FROM inodes`).
		WithArgs(int64(1), "missing.txt").
		WillReturnRows(pgxmock.NewRows(inodeColumns()))
	mock.ExpectRollback()

	ok, err := Unlink(context.Background(), mock, 1, "missing.txt")
	require.NoError(t, err)
	assert.False(t, ok)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestLinkRejectsNonRegularFile(t *testing.T) {
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	defer mock.Close()

	mock.ExpectBegin()
	mock.ExpectQuery(`SELECT \* FROM inodes WHERE ino = \$1`).
		WithArgs(int64(2)).
		WillReturnRows(inodeRow(pgxmock.NewRows(inodeColumns()), 2, FileTypeDirectory))
	mock.ExpectRollback()

	_, err = Link(context.Background(), mock, 2, 1, "newname")
	assert.ErrorIs(t, err, ErrNotARegularFile)
	require.NoError(t, mock.ExpectationsWereMet())
}
