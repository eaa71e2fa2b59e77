package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wxllspace/wxllspace-backend/internal/wizard"
)

var _ wizard.Submitter = (*Repo)(nil)

func TestWallSize(t *testing.T) {
	assert.Equal(t, "5x3m", WallSize(5, 3))
	assert.Equal(t, "4x2.5m", WallSize(4, 2.5))
}

func TestRetryPublicIDsRetriesUniqueViolations(t *testing.T) {
	calls := 0
	err := retryPublicIDs(5, func() error {
		calls++
		if calls < 3 {
			return fmt.Errorf("insert wall: %w", &pgconn.PgError{Code: "23505"})
		}
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 3, calls)
}

func TestRetryPublicIDsStopsOnOtherErrors(t *testing.T) {
	boom := errors.New("connection reset")
	calls := 0
	err := retryPublicIDs(5, func() error {
		calls++
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, 1, calls)
}

func TestRetryPublicIDsGivesUp(t *testing.T) {
	calls := 0
	err := retryPublicIDs(4, func() error {
		calls++
		return &pgconn.PgError{Code: "23505"}
	})
	assert.ErrorIs(t, err, errPublicIDTaken)
	assert.Equal(t, 4, calls)
}
