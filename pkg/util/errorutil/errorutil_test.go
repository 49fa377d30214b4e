package errorutil

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
)

func TestFromStore(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		err  error
		code string
	}{
		{"no rows", pgx.ErrNoRows, CodeNotFound},
		{"wrapped no rows", fmt.Errorf("scan: %w", pgx.ErrNoRows), CodeNotFound},
		{"lock not available", &pgconn.PgError{Code: "55P03"}, CodeConcurrencyConflict},
		{"serialization failure", &pgconn.PgError{Code: "40001"}, CodeConcurrencyConflict},
		{"malformed id", &pgconn.PgError{Code: "22P02"}, CodeNotFound},
		{"other pg error", &pgconn.PgError{Code: "23505"}, CodeStore},
		{"plain error", errors.New("connection reset"), CodeStore},
		{"domain error passes through", NewPreconditionError("manager required", nil), CodePrecondition},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			mapped := FromStore(tc.err, "ticket", nil)
			require.True(t, IsCode(mapped, tc.code), "got %v", mapped)
		})
	}

	require.NoError(t, FromStore(nil, "ticket", nil))
}

func TestStoreErrorKeepsCause(t *testing.T) {
	t.Parallel()
	cause := errors.New("disk full")
	err := NewStoreError(cause)
	require.ErrorIs(t, err, cause)
	require.Equal(t, http.StatusInternalServerError, ToDomainError(err).HTTPStatus)
}

func TestInvalidTransitionDetails(t *testing.T) {
	t.Parallel()
	err := ToDomainError(NewInvalidTransition("closed", "resolve"))
	require.Equal(t, CodeInvalidTransition, err.Code)
	require.Equal(t, http.StatusConflict, err.HTTPStatus)
	require.Equal(t, "cannot resolve a ticket in state closed", err.Message)
}

func TestToDomainErrorDefaults(t *testing.T) {
	t.Parallel()
	require.Nil(t, ToDomainError(nil))
	require.Equal(t, CodeNotFound, ToDomainError(pgx.ErrNoRows).Code)
	require.Equal(t, CodeInternal, ToDomainError(errors.New("boom")).Code)
}
