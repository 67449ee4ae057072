package db

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"

	"github.com/Windi-Fikriyansyah/gigmarket_be/internal/apperr"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name    string
		err     error
		want    apperr.Code
		wantMsg string
	}{
		{name: "record not found", err: gorm.ErrRecordNotFound, want: apperr.CodeNotFound, wantMsg: "order not found"},
		{name: "unique violation", err: &pgconn.PgError{Code: pgerrcode.UniqueViolation}, want: apperr.CodeConflict, wantMsg: "order not found"},
		{name: "wrapped unique violation", err: fmt.Errorf("insert: %w", &pgconn.PgError{Code: pgerrcode.UniqueViolation}), want: apperr.CodeConflict},
		{name: "check violation", err: &pgconn.PgError{Code: pgerrcode.CheckViolation}, want: apperr.CodeInvalidArgument},
		{name: "fk violation", err: &pgconn.PgError{Code: pgerrcode.ForeignKeyViolation}, want: apperr.CodeNotFound},
		{name: "too many connections", err: &pgconn.PgError{Code: pgerrcode.TooManyConnections}, want: apperr.CodeUnavailable},
		{name: "admin shutdown", err: &pgconn.PgError{Code: pgerrcode.AdminShutdown}, want: apperr.CodeUnavailable},
		{name: "syntax error", err: &pgconn.PgError{Code: pgerrcode.SyntaxError}, want: apperr.CodeInternal},
		{name: "deadline waiting on pool", err: context.DeadlineExceeded, want: apperr.CodeUnavailable},
		{name: "client went away", err: fmt.Errorf("query: %w", context.Canceled), want: apperr.CodeCanceled},
		{name: "opaque", err: errors.New("boom"), want: apperr.CodeInternal},
		{name: "already classified", err: apperr.Conflict("email already registered"), want: apperr.CodeConflict, wantMsg: "email already registered"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Classify(tt.err, "get order", "order not found")
			assert.Equal(t, tt.want, apperr.CodeOf(got))
			if tt.wantMsg != "" {
				assert.Equal(t, tt.wantMsg, apperr.PublicMessage(got))
			}
		})
	}

	assert.NoError(t, Classify(nil, "op", "msg"))
}

func TestBackoff(t *testing.T) {
	b := backoff{maxRetries: 5, delay: 500 * time.Millisecond, maxDelay: 5 * time.Second}
	assert.Equal(t, 500*time.Millisecond, b.nextDelay(0))
	assert.Equal(t, 2*time.Second, b.nextDelay(2))
	assert.Equal(t, 5*time.Second, b.nextDelay(4))
}
