package qrcode

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewQRCodeService(t *testing.T) {
	tests := []struct {
		name                 string
		errorCorrectionLevel string
	}{
		{"Low error correction", "L"},
		{"Medium error correction", "M"},
		{"High error correction", "Q"},
		{"Highest error correction", "H"},
		{"Default error correction", "invalid"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := NewQRCodeService(256, tt.errorCorrectionLevel, "http://localhost:3000")
			assert.NotNil(t, svc)
		})
	}
}

func TestQRCodeService_GenerateCarListingQR(t *testing.T) {
	sizes := []int{128, 256, 512}

	for _, size := range sizes {
		svc := NewQRCodeService(size, "M", "http://localhost:3000")

		pngBytes, err := svc.GenerateCarListingQR(uuid.New())
		require.NoError(t, err)
		require.Greater(t, len(pngBytes), 4)

		// PNG magic number
		assert.Equal(t, []byte{0x89, 0x50, 0x4E, 0x47}, pngBytes[:4])
	}
}

func TestQRCodeService_ListingURLRoundTrip(t *testing.T) {
	svc := NewQRCodeService(256, "M", "https://dealer.example.com/")
	carID := uuid.New()

	listing := svc.(*qrcodeService).ListingURL(carID)
	assert.Equal(t, "https://dealer.example.com/cars/"+carID.String(), listing)

	parsed, err := ParseListingURL(listing)
	require.NoError(t, err)
	assert.Equal(t, carID, parsed)
}

func TestParseListingURL_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr string
	}{
		{"not a listing path", "http://localhost:3000/users/" + uuid.NewString(), "not a car listing URL"},
		{"invalid id", "http://localhost:3000/cars/not-a-uuid", "failed to parse car ID"},
		{"bad url", "http://[::1", "failed to parse listing URL"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseListingURL(tt.input)
			assert.ErrorContains(t, err, tt.wantErr)
		})
	}
}
