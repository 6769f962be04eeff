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
	"errors"
	"syscall"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/nvanbenschoten/cockroach-fuse/internal/sqlstore"
)

// errno is the single place that knows how to turn a sqlstore error into
// the errno FUSE reports to the kernel. Every handler in this package
// funnels its sqlstore errors through here before returning, so adding a
// new mapping never requires touching more than one file.
func errno(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, sqlstore.ErrNotFound):
		return syscall.ENOENT
	case errors.Is(err, sqlstore.ErrNotADirectory):
		return syscall.ENOTDIR
	case errors.Is(err, sqlstore.ErrNotARegularFile):
		return syscall.ENOENT
	}

	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" { // unique_violation
		return syscall.EEXIST
	}

	// Anything else is treated as a lost connection to the database.
	return syscall.ECONNREFUSED
}
