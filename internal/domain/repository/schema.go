package repository

import "context"

// SchemaManager covers database connectivity and schema bootstrap.
type SchemaManager interface {
	// Ping verifies the database is reachable.
	Ping(ctx context.Context) error

	// Migrate applies pending schema migrations and reports how many ran.
	Migrate(ctx context.Context) (int, error)
}
