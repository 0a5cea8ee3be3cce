// Package repository defines the interfaces for the persistence layer.
// These interfaces act as a contract between the domain/application layers and the infrastructure layer.
package repository

import (
	"context"

	"github.com/google/uuid"
)

// Repository is the generic CRUD contract every table-backed repository satisfies.
type Repository[T any] interface {
	// FindAll returns every row ordered by creation time.
	FindAll(ctx context.Context) ([]*T, error)

	// FindByID retrieves a single row by its primary key.
	FindByID(ctx context.Context, id uuid.UUID) (*T, error)

	// Create persists a new row. A zero ID is replaced with a fresh uuid.
	Create(ctx context.Context, item *T) error

	// Update modifies an existing row.
	Update(ctx context.Context, item *T) error

	// Delete removes the row with the given id.
	Delete(ctx context.Context, id uuid.UUID) error
}
