package service

import (
	"github.com/google/uuid"
)

// QRCodeService renders the QR code printed on a car's window card.
type QRCodeService interface {
	// GenerateCarListingQR renders a PNG QR code pointing at the car's listing URL
	GenerateCarListingQR(carID uuid.UUID) ([]byte, error)
}
