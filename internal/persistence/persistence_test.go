package persistence

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/solicitud-service/internal/config"
)

func TestUnconfiguredDependencies(t *testing.T) {
	ctx := context.Background()
	logger := zap.NewNop()

	pg, err := NewPostgres(ctx, config.PostgresConfig{}, logger)
	require.NoError(t, err)
	require.Nil(t, pg.PoolHandle())
	require.ErrorIs(t, pg.Ping(ctx), ErrNotConfigured)
	pg.Close()

	rdb := NewRedis(ctx, config.RedisConfig{}, logger)
	require.Nil(t, rdb.Client)
	require.ErrorIs(t, rdb.Ping(ctx), ErrNotConfigured)
	rdb.Close()

	require.NoError(t, RunMigrations(ctx, nil, logger))
}
