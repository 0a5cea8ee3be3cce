package repository

import (
	"context"
	"errors"

	"dealership/internal/domain/entity"

	"github.com/google/uuid"
)

// Domain-specific errors for inventory persistence.
var (
	// ErrCarNotFound is returned when a car is not found.
	ErrCarNotFound = errors.New("car not found")
	// ErrImageNotFound is returned when no image matches both the image id and the car id.
	ErrImageNotFound = errors.New("car image not found")
)

// CarRepository defines the operations for car persistence.
type CarRepository interface {
	Repository[entity.Car]

	// Count returns the number of cars stored.
	Count(ctx context.Context) (int64, error)
}

// ImageRepository defines the operations for car image persistence.
// Images are append-only: they are created in batches and deleted, never updated.
type ImageRepository interface {
	// Create inserts one image row. A zero ID is replaced with a fresh uuid.
	Create(ctx context.Context, image *entity.CarImage) error

	// ListByCar returns image metadata for a car, oldest first, without blob data.
	ListByCar(ctx context.Context, carID uuid.UUID) ([]*entity.CarImageInfo, error)

	// FindByIDAndCar returns an image including its data, scoped to its parent car.
	FindByIDAndCar(ctx context.Context, id, carID uuid.UUID) (*entity.CarImage, error)

	// DeleteByIDAndCar removes an image only when it belongs to the given car.
	DeleteByIDAndCar(ctx context.Context, id, carID uuid.UUID) error

	// DeleteByCar removes every image of a car and returns how many rows were deleted.
	DeleteByCar(ctx context.Context, carID uuid.UUID) (int64, error)
}
