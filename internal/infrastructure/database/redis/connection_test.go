package redis

import (
	"context"
	"net"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/your-org/bookstore-backend/internal/config"
	"github.com/your-org/bookstore-backend/internal/pkg/logger"
)

func TestNewConnection(t *testing.T) {
	mr := miniredis.RunT(t)
	host, port, err := net.SplitHostPort(mr.Addr())
	require.NoError(t, err)

	cfg := &config.Config{Redis: config.RedisConfig{Host: host, Port: port, PoolSize: 2}}
	client, err := NewConnection(context.Background(), cfg, logger.Discard())
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	assert.NoError(t, client.Health(context.Background()))
	assert.Same(t, client.Redis, client.GetClient())

	mr.Close()
	assert.Error(t, client.Health(context.Background()))
}

func TestNewConnectionFailsWhenUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	host, port, err := net.SplitHostPort(mr.Addr())
	require.NoError(t, err)
	mr.Close()

	cfg := &config.Config{Redis: config.RedisConfig{Host: host, Port: port}}
	_, err = NewConnection(context.Background(), cfg, logger.Discard())
	assert.Error(t, err)
}
