package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCodeOf(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want Code
	}{
		{name: "nil", err: nil, want: ""},
		{name: "plain error is internal", err: errors.New("boom"), want: CodeInternal},
		{name: "direct", err: NotFound("order not found"), want: CodeNotFound},
		{name: "wrapped by fmt", err: fmt.Errorf("create: %w", Conflict("dup")), want: CodeConflict},
		{name: "wrap keeps code", err: Wrap(errors.New("dial"), CodeUnavailable, "db down"), want: CodeUnavailable},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CodeOf(tt.err))
		})
	}
}

func TestHTTPStatus(t *testing.T) {
	assert.Equal(t, http.StatusBadRequest, HTTPStatus(CodeInvalidArgument))
	assert.Equal(t, http.StatusNotFound, HTTPStatus(CodeNotFound))
	assert.Equal(t, http.StatusConflict, HTTPStatus(CodeConflict))
	assert.Equal(t, http.StatusServiceUnavailable, HTTPStatus(CodeUnavailable))
	assert.Equal(t, StatusClientClosedRequest, HTTPStatus(CodeCanceled))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus(CodeInternal))
	assert.Equal(t, http.StatusInternalServerError, HTTPStatus("something-else"))
}

func TestPublicMessage_HidesInternalCause(t *testing.T) {
	err := Wrap(errors.New(`pq: relation "orders" does not exist`), CodeInternal, "list orders")
	assert.Equal(t, "internal server error", PublicMessage(err))
	assert.Equal(t, "internal server error", PublicMessage(errors.New("raw driver text")))
	assert.Equal(t, "rating must be between 1 and 5", PublicMessage(InvalidArgument("rating must be between 1 and 5")))
	assert.Equal(t, "request canceled", PublicMessage(Wrap(errors.New("context canceled"), CodeCanceled, "")))
}

func TestUnwrap(t *testing.T) {
	cause := errors.New("connection refused")
	err := Wrap(cause, CodeUnavailable, "database unavailable")
	assert.ErrorIs(t, err, cause)
	assert.Contains(t, err.Error(), "unavailable: database unavailable: connection refused")
}
