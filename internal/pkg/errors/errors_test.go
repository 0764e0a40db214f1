package errors

import (
	stderrors "errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppError_WithDetailsDoesNotMutateSentinel(t *testing.T) {
	withDetails := ErrValidation.WithDetails(map[string]interface{}{"start_text": "required"})

	assert.Nil(t, ErrValidation.Details)
	assert.Equal(t, "required", withDetails.Details["start_text"])
	assert.True(t, stderrors.Is(withDetails, ErrValidation))
}

func TestAppError_WithCause(t *testing.T) {
	dbErr := fmt.Errorf("disk I/O error")
	err := ErrStorageUnavailable.WithCause(dbErr)

	assert.True(t, stderrors.Is(err, ErrStorageUnavailable))
	assert.True(t, stderrors.Is(err, dbErr))
	assert.Contains(t, err.Error(), "disk I/O error")
	assert.Equal(t, http.StatusServiceUnavailable, err.StatusCode)

	var appErr *AppError
	wrapped := fmt.Errorf("create route: %w", err)
	assert.True(t, stderrors.As(wrapped, &appErr))
	assert.Equal(t, "STORAGE_UNAVAILABLE", appErr.Code)
}

func TestAppError_WithStatus(t *testing.T) {
	err := ErrUpstreamProvider.WithStatus(http.StatusTooManyRequests)

	assert.Equal(t, http.StatusTooManyRequests, err.StatusCode)
	assert.Equal(t, http.StatusBadGateway, ErrUpstreamProvider.StatusCode)
	assert.False(t, stderrors.Is(err, ErrRouteNotFound))
}
