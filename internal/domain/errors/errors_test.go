package errors

import (
	"net/http"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestBaseError_WrapKeepsIdentity(t *testing.T) {
	err := ErrCarNotFound.WrapMessage("car lookup failed")

	assert.True(t, errors.Is(err, ErrCarNotFound))
	assert.False(t, errors.Is(err, ErrImageNotFound))

	var appErr AppError
	assert.True(t, errors.As(err, &appErr))
	assert.Equal(t, http.StatusNotFound, appErr.HTTPCode())
	assert.Equal(t, "CAR_NOT_FOUND", appErr.ErrorCode())
}

func TestBaseError_WithDetails(t *testing.T) {
	detailed := ErrValidationFailed.WithDetails("year must be >= 1886")

	assert.Equal(t, "year must be >= 1886", detailed.Details())
	assert.Empty(t, ErrValidationFailed.Details())
	assert.True(t, errors.Is(detailed, ErrValidationFailed))
}

func TestDatabaseExecuteError(t *testing.T) {
	cause := errors.New("disk I/O error")
	err := NewDatabaseExecuteError(cause, "failed to insert car")

	assert.Equal(t, http.StatusInternalServerError, err.HTTPCode())
	assert.Equal(t, "DATABASE_EXECUTE_FAILED", err.ErrorCode())
	assert.Equal(t, "failed to insert car", err.Details())
	assert.Contains(t, err.Error(), "disk I/O error")
	assert.True(t, errors.Is(err, cause))
}
