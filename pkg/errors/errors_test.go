package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSentinelErrors_AreDistinct(t *testing.T) {
	sentinels := []error{
		ErrNotFound, ErrAlreadyExists, ErrInvalidInput, ErrInternal, ErrUnavailable,
	}

	for i := 0; i < len(sentinels); i++ {
		for j := i + 1; j < len(sentinels); j++ {
			assert.NotEqual(t, sentinels[i], sentinels[j],
				"sentinels %d and %d should be distinct", i, j)
		}
	}
}

func TestAppError_ErrorString(t *testing.T) {
	withInner := &AppError{Code: "INTERNAL_ERROR", Message: "something broke", Err: fmt.Errorf("db connection lost")}
	assert.Contains(t, withInner.Error(), "INTERNAL_ERROR")
	assert.Contains(t, withInner.Error(), "db connection lost")

	bare := &AppError{Code: "NOT_FOUND", Message: "product not found"}
	assert.Equal(t, "NOT_FOUND: product not found", bare.Error())
}

func TestConstructors(t *testing.T) {
	tests := []struct {
		name     string
		err      *AppError
		sentinel error
		status   int
	}{
		{name: "not found", err: NotFound("product", "p1"), sentinel: ErrNotFound, status: http.StatusNotFound},
		{name: "already exists", err: AlreadyExists("product", "slug", "tomato"), sentinel: ErrAlreadyExists, status: http.StatusConflict},
		{name: "invalid input", err: InvalidInput("price must not be negative"), sentinel: ErrInvalidInput, status: http.StatusBadRequest},
		{name: "unavailable", err: Unavailable("time rule configuration", fmt.Errorf("dial tcp: refused")), sentinel: ErrUnavailable, status: http.StatusServiceUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, errors.Is(tt.err, tt.sentinel))
			assert.Equal(t, tt.status, tt.err.Status)
			assert.Equal(t, tt.status, HTTPStatus(tt.err))
		})
	}
}

func TestUnavailable_PreservesCause(t *testing.T) {
	cause := fmt.Errorf("dial tcp 127.0.0.1:5432: connection refused")
	err := Unavailable("product catalog", cause)
	assert.Contains(t, err.Error(), "connection refused")
	assert.True(t, errors.Is(err, ErrUnavailable))
}

func TestHTTPStatus_WrappedErrors(t *testing.T) {
	wrapped := Wrap(NotFound("product", "p1"), "get product for update")
	assert.Equal(t, http.StatusNotFound, HTTPStatus(wrapped))

	bareSentinel := fmt.Errorf("lookup: %w", ErrInvalidInput)
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(bareSentinel))

	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(errors.New("boom")))
}
