package backend

import (
	"context"
	"testing"

	mr "github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"

	"github.com/akmalqodirov005/e-commerse/internal/cart"
	"github.com/akmalqodirov005/e-commerse/internal/config"
	"github.com/akmalqodirov005/e-commerse/internal/sessions"
)

func redisConfig(t *testing.T, m *mr.Miniredis, backend string) *config.Config {
	t.Helper()
	return &config.Config{
		Storage: config.StorageConfig{Backend: backend, Prefix: "t:"},
		Redis:   config.RedisConfig{Host: m.Host(), Port: m.Port()},
	}
}

func TestOpen_Memory(t *testing.T) {
	b, err := Open(context.Background(), &config.Config{Storage: config.StorageConfig{Backend: config.BackendMemory}})
	require.NoError(t, err)
	defer b.Close(context.Background())
	require.IsType(t, &sessions.MemoryStore{}, b.Sessions)
	require.IsType(t, &cart.MemoryRepository{}, b.Cart)
	require.Nil(t, b.Redis)
}

func TestOpen_Redis(t *testing.T) {
	m, err := mr.Run()
	require.NoError(t, err)
	defer m.Close()

	ctx := context.Background()
	b, err := Open(ctx, redisConfig(t, m, config.BackendRedis))
	require.NoError(t, err)
	defer b.Close(ctx)

	require.NotNil(t, b.Redis)
	require.NoError(t, b.Sessions.Set(ctx, sessions.KeyAccessToken, "a"))
	require.True(t, m.Exists("t:session:accessToken"))
	require.NoError(t, b.Cart.Save(ctx, []cart.Line{{ProductID: 1, Qty: 1}}))
	require.True(t, m.Exists("t:cart"))
}

func TestOpen_RedisUnreachable(t *testing.T) {
	m, err := mr.Run()
	require.NoError(t, err)
	cfg := redisConfig(t, m, config.BackendRedis)
	m.Close()

	_, err = Open(context.Background(), cfg)
	require.Error(t, err)

	// the limiter alone tolerates a missing Redis
	cfg.Storage.Backend = config.BackendMemory
	cfg.RateLimit.UseRedis = true
	b, err := Open(context.Background(), cfg)
	require.NoError(t, err)
	require.Nil(t, b.Redis)
}
