package entity

import (
	"time"

	"github.com/google/uuid"
)

// Car is a vehicle listed in the dealership inventory.
// A car owns zero or more CarImage rows, scoped by CarID.
type Car struct {
	ID        uuid.UUID
	Name      string
	Brand     string
	Year      int
	Price     float64
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CarImage is one binary picture attached to a car. Images are created in
// batches tied to a single parent write and are never updated.
type CarImage struct {
	ID        uuid.UUID
	CarID     uuid.UUID
	Data      []byte
	CreatedAt time.Time
}

// CarImageInfo describes a stored image without its payload.
type CarImageInfo struct {
	ID        uuid.UUID `json:"id"`
	CarID     uuid.UUID `json:"car_id"`
	Size      int       `json:"size"`
	CreatedAt time.Time `json:"created_at"`
}
