package qrcode

import (
	"net/url"
	"path"
	"strings"

	"dealership/internal/domain/service"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/skip2/go-qrcode"
)

const listingPathPrefix = "/cars/"

type qrcodeService struct {
	size                 int
	errorCorrectionLevel qrcode.RecoveryLevel
	baseURL              string
}

// NewQRCodeService creates a new QR code service instance.
// baseURL is the public origin listing links are built on, e.g. https://dealer.example.com
func NewQRCodeService(size int, errorCorrectionLevel, baseURL string) service.QRCodeService {
	var level qrcode.RecoveryLevel
	switch errorCorrectionLevel {
	case "L":
		level = qrcode.Low
	case "M":
		level = qrcode.Medium
	case "Q":
		level = qrcode.High
	case "H":
		level = qrcode.Highest
	default:
		level = qrcode.Medium
	}

	return &qrcodeService{
		size:                 size,
		errorCorrectionLevel: level,
		baseURL:              strings.TrimRight(baseURL, "/"),
	}
}

// ListingURL returns the link encoded for a car
func (s *qrcodeService) ListingURL(carID uuid.UUID) string {
	return s.baseURL + listingPathPrefix + carID.String()
}

// GenerateCarListingQR renders the car's listing URL as a PNG QR code
func (s *qrcodeService) GenerateCarListingQR(carID uuid.UUID) ([]byte, error) {
	qrCode, err := qrcode.New(s.ListingURL(carID), s.errorCorrectionLevel)
	if err != nil {
		return nil, errors.Wrap(err, "failed to create QR code")
	}

	pngBytes, err := qrCode.PNG(s.size)
	if err != nil {
		return nil, errors.Wrap(err, "failed to generate PNG")
	}

	return pngBytes, nil
}

// ParseListingURL extracts the car ID from a scanned listing URL. Any origin is
// accepted; only the /cars/<id> path is checked.
func ParseListingURL(qrData string) (uuid.UUID, error) {
	parsed, err := url.Parse(strings.TrimSpace(qrData))
	if err != nil {
		return uuid.Nil, errors.Wrap(err, "failed to parse listing URL")
	}

	dir, last := path.Split(parsed.Path)
	if !strings.HasSuffix(dir, listingPathPrefix) {
		return uuid.Nil, errors.Errorf("not a car listing URL: %s", qrData)
	}

	carID, err := uuid.Parse(last)
	if err != nil {
		return uuid.Nil, errors.Wrap(err, "failed to parse car ID")
	}

	return carID, nil
}
