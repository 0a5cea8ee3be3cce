package usecase

import (
	"context"

	"dealership/internal/domain/entity"

	"github.com/google/uuid"
)

// CreateCarInput describes a new car and, optionally, images stored with it atomically.
type CreateCarInput struct {
	Name   string
	Brand  string
	Year   int
	Price  float64
	Images [][]byte
}

// UpdateCarInput replaces the mutable fields of a car.
type UpdateCarInput struct {
	ID    uuid.UUID
	Name  string
	Brand string
	Year  int
	Price float64
}

// UploadImagesInput is a batch of image blobs for one car, stored in the given order.
type UploadImagesInput struct {
	CarID  uuid.UUID
	Images [][]byte
}

// CarOutput is a car together with the images written alongside it.
type CarOutput struct {
	Car    *entity.Car
	Images []*entity.CarImageInfo
}

// FillOutput reports whether demo cars were inserted.
type FillOutput struct {
	Filled bool
	Cars   []*entity.Car
}

// CarUsecase defines inventory operations.
type CarUsecase interface {
	ListCars(ctx context.Context) ([]*entity.Car, error)
	GetCar(ctx context.Context, id uuid.UUID) (*entity.Car, error)
	CreateCar(ctx context.Context, input *CreateCarInput) (*CarOutput, error)
	UpdateCar(ctx context.Context, input *UpdateCarInput) (*entity.Car, error)
	DeleteCar(ctx context.Context, id uuid.UUID) error
	FillCars(ctx context.Context) (*FillOutput, error)

	// UploadImages appends all images to the car in one transaction or none at all.
	UploadImages(ctx context.Context, input *UploadImagesInput) ([]*entity.CarImageInfo, error)
	ListImages(ctx context.Context, carID uuid.UUID) ([]*entity.CarImageInfo, error)
	GetImage(ctx context.Context, carID, imageID uuid.UUID) (*entity.CarImage, error)
	DeleteImage(ctx context.Context, carID, imageID uuid.UUID) error

	// ListingQR renders a PNG QR code linking to the car's listing.
	ListingQR(ctx context.Context, carID uuid.UUID) ([]byte, error)
}
