package postgres

import (
	"database/sql"
	"errors"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/phrazzld/tasks-api/internal/store"
)

func TestMapError(t *testing.T) {
	other := errors.New("network down")

	tests := []struct {
		name   string
		err    error
		wantIs error
	}{
		{name: "nil", err: nil},
		{name: "no rows", err: sql.ErrNoRows, wantIs: store.ErrTaskNotFound},
		{name: "unique", err: &pgconn.PgError{Code: uniqueViolationCode}, wantIs: store.ErrInvalidEntity},
		{name: "check", err: &pgconn.PgError{Code: checkViolationCode}, wantIs: store.ErrInvalidEntity},
		{name: "not null", err: &pgconn.PgError{Code: notNullViolationCode}, wantIs: store.ErrInvalidEntity},
		{name: "too long", err: &pgconn.PgError{Code: stringTooLongCode}, wantIs: store.ErrInvalidEntity},
		{name: "other pg error", err: &pgconn.PgError{Code: "57014"}},
		{name: "other error", err: other},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := MapError(tt.err)
			switch {
			case tt.err == nil:
				assert.NoError(t, got)
			case tt.wantIs != nil:
				assert.ErrorIs(t, got, tt.wantIs)
				assert.ErrorIs(t, got, tt.err, "original error must stay in the chain")
			default:
				assert.Equal(t, tt.err, got)
			}
		})
	}
}
