package pg

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestIsStatementTimeout(t *testing.T) {
	timeout := &pgconn.PgError{Code: "57014", Message: "canceling statement due to statement timeout"}

	assert.True(t, IsStatementTimeout(timeout))
	assert.True(t, IsStatementTimeout(fmt.Errorf("scenario: %w", timeout)))
	assert.False(t, IsStatementTimeout(&pgconn.PgError{Code: "42703"}))
	assert.False(t, IsStatementTimeout(errors.New("conn closed")))
	assert.False(t, IsStatementTimeout(nil))
}
