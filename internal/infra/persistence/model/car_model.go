package model

import (
	"time"

	"github.com/google/uuid"
)

// CarModel mirrors the 'cars' table.
type CarModel struct {
	ID        uuid.UUID `gorm:"primaryKey"`
	Name      string    `gorm:"not null"`
	Brand     string    `gorm:"not null"`
	Year      int       `gorm:"not null"`
	Price     float64   `gorm:"not null"`
	CreatedAt time.Time
	UpdatedAt time.Time
}

// TableName explicitly sets the table name for GORM.
func (CarModel) TableName() string {
	return "cars"
}

// CarImageModel mirrors the 'car_images' table. Rows are insert-only.
type CarImageModel struct {
	ID        uuid.UUID `gorm:"primaryKey"`
	CarID     uuid.UUID `gorm:"not null;index"`
	ImageData []byte    `gorm:"column:image_data;not null"`
	CreatedAt time.Time
}

// TableName explicitly sets the table name for GORM.
func (CarImageModel) TableName() string {
	return "car_images"
}

// CarImageInfoRow is the projection used for image listings; the blob itself is not loaded.
type CarImageInfoRow struct {
	ID        uuid.UUID
	CarID     uuid.UUID
	Size      int
	CreatedAt time.Time
}
