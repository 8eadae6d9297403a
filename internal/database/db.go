// Package database holds the PostgreSQL schema and typed queries of the
// catalog. Queries follow the sqlc layout: one method per statement on
// Queries, parameters and rows as plain structs using pgtype for NULLs.
package database

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DBTX is satisfied by *pgxpool.Pool, *pgx.Conn and pgx.Tx.
type DBTX interface {
	Exec(context.Context, string, ...interface{}) (pgconn.CommandTag, error)
	Query(context.Context, string, ...interface{}) (pgx.Rows, error)
	QueryRow(context.Context, string, ...interface{}) pgx.Row
}

// New returns Queries running against db.
func New(db DBTX) *Queries {
	return &Queries{db: db}
}

// Queries runs the catalog's statements.
type Queries struct {
	db DBTX
}

// WithTx returns Queries bound to tx.
func (q *Queries) WithTx(tx pgx.Tx) *Queries {
	return &Queries{db: tx}
}
