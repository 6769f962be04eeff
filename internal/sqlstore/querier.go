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

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Querier is the capability every metadata routine actually needs: enough
// to run a statement or a query. *pgxpool.Pool and pgx.Tx both implement
// it, so a routine written against Querier runs unmodified whether it is
// called standalone or as one statement inside a larger transaction.
//
// Begin is part of the interface too: pgx.Tx implements it as a savepoint,
// and *pgxpool.Pool implements it as a real transaction, so a metadata
// routine that needs an atomic multi-statement block can call q.Begin
// without caring whether q is already inside one.
type Querier interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
	Begin(ctx context.Context) (pgx.Tx, error)
}

var (
	_ Querier = (*pgxpool.Pool)(nil)
	_ Querier = (pgx.Tx)(nil)
)

// Store owns the connection pool backing the filesystem's durable state.
type Store struct {
	pool    Querier
	closeFn func()
}

// Open dials the database at the given connection string and returns a
// Store backed by a pool, without touching the schema. Call Init before
// serving any filesystem operation.
func Open(ctx context.Context, connString string) (*Store, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, err
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return &Store{pool: pool, closeFn: pool.Close}, nil
}

// NewStore wraps an existing Querier in a Store. Tests use this to stand a
// Store up over a mocked connection; production code goes through Open.
func NewStore(q Querier) *Store {
	return &Store{pool: q, closeFn: func() {}}
}

// Close releases the underlying connection pool.
func (s *Store) Close() {
	s.closeFn()
}

// BeginTx starts a transaction whose statements run against the same
// Querier interface as the pool itself.
func (s *Store) BeginTx(ctx context.Context) (pgx.Tx, error) {
	return s.pool.Begin(ctx)
}
