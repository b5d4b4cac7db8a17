package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAppErrorSentinels(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		sentinel error
		status   int
	}{
		{name: "not found", err: NotFound("batch", "foam-roller"), sentinel: ErrNotFound, status: http.StatusNotFound},
		{name: "invalid input", err: InvalidInput("bad handle"), sentinel: ErrInvalidInput, status: http.StatusBadRequest},
		{name: "unsupported source", err: UnsupportedSource("myspace"), sentinel: ErrUnsupported, status: http.StatusBadRequest},
		{name: "unavailable", err: Unavailable("postgres"), sentinel: ErrServiceUnavail, status: http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, errors.Is(tt.err, tt.sentinel))
			assert.Equal(t, tt.status, HTTPStatus(tt.err))
		})
	}
}

func TestHTTPStatus_WrappedAppError(t *testing.T) {
	err := fmt.Errorf("handler: %w", InvalidInput("bad"))
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(err))
}

func TestHTTPStatus_UnknownError(t *testing.T) {
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(errors.New("boom")))
}

func TestWrap(t *testing.T) {
	base := errors.New("connection refused")
	wrapped := Wrap(base, "store review batch")

	assert.True(t, errors.Is(wrapped, base))
	assert.Equal(t, "store review batch: connection refused", wrapped.Error())
}

func TestAppErrorMessage(t *testing.T) {
	err := UnsupportedSource("myspace")
	assert.Contains(t, err.Error(), "UNSUPPORTED_SOURCE")
	assert.Contains(t, err.Error(), "myspace")
}
