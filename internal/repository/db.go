package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
)

// Querier is the read half of *pgxpool.Pool. Repositories only read, so tests can
// hand them a pgxmock pool instead.
type Querier interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
}
