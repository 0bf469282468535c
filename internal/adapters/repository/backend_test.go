package repository

import (
	"context"
	"errors"
	"testing"

	"github.com/ogurasousui/codex-payroll-clean-arch/internal/platform/config"
	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_FallsBackWhenUnreachable(t *testing.T) {
	t.Parallel()

	calls := 0
	unreachable := func(context.Context, config.DatabaseConfig) (Pool, error) {
		calls++
		return nil, errors.New("dial tcp 127.0.0.1:5432: connect: connection refused")
	}

	b, err := Open(context.Background(), config.DatabaseConfig{Host: "127.0.0.1"}, unreachable, nil, zerolog.Nop())
	require.NoError(t, err)
	defer b.Close()

	assert.Equal(t, ModeMemory, b.Mode)
	assert.Equal(t, 1, calls, "the store is probed once")

	cred, err := b.Auth.ValidateLogin(context.Background(), "admin", "admin123")
	require.NoError(t, err)
	assert.Equal(t, "admin", cred.Username)
}

func TestOpen_UsesPostgresWhenReachable(t *testing.T) {
	t.Parallel()

	mock, err := pgxmock.NewPool()
	require.NoError(t, err)

	reachable := func(context.Context, config.DatabaseConfig) (Pool, error) {
		return mock, nil
	}

	b, err := Open(context.Background(), config.DatabaseConfig{Host: "db"}, reachable, nil, zerolog.Nop())
	require.NoError(t, err)

	assert.Equal(t, ModePostgres, b.Mode)
	assert.NotNil(t, b.Auth)
	assert.NotNil(t, b.Employees)
	assert.NotNil(t, b.Payroll)

	b.Close()
}
