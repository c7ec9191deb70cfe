package locking_test

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/branch-fulfillment-api/internal/infrastructure/locking"
	"github.com/jhoicas/branch-fulfillment-api/pkg/config"
	"github.com/jhoicas/branch-fulfillment-api/pkg/logger"
)

const lockKey = "fulfillment:lock:"

func newRedisLocker(t *testing.T, wait time.Duration) (*locking.RedisLocker, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	cfg := config.LockConfig{RedisAddress: mr.Addr(), TTL: 10 * time.Second, WaitTimeout: wait}
	rdb, err := locking.NewRedisClient(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { _ = rdb.Close() })
	return locking.NewRedisLocker(rdb, cfg, logger.Nop()), mr
}

func TestRedisLocker_ObtieneYLiberaTodasLasClaves(t *testing.T) {
	l, mr := newRedisLocker(t, time.Second)

	release, err := l.Lock(context.Background(), "item:b", "item:a", "item:a")
	require.NoError(t, err)
	assert.True(t, mr.Exists(lockKey+"item:a"))
	assert.True(t, mr.Exists(lockKey+"item:b"))

	release()
	assert.False(t, mr.Exists(lockKey+"item:a"))
	assert.False(t, mr.Exists(lockKey+"item:b"))
}

func TestRedisLocker_FalloParcialLiberaLoTomado(t *testing.T) {
	l, mr := newRedisLocker(t, 200*time.Millisecond)
	// otra réplica ya tiene item:b
	require.NoError(t, mr.Set(lockKey+"item:b", "otra-replica"))

	_, err := l.Lock(context.Background(), "item:a", "item:b")
	require.ErrorIs(t, err, locking.ErrLockTimeout)
	assert.Contains(t, err.Error(), "item:b")

	assert.False(t, mr.Exists(lockKey+"item:a"), "item:a se obtuvo primero y debe quedar liberada")
	v, getErr := mr.Get(lockKey + "item:b")
	require.NoError(t, getErr)
	assert.Equal(t, "otra-replica", v, "el bloqueo ajeno no se toca")
}

func TestRedisLocker_EsperaHastaQueSeLibere(t *testing.T) {
	l, _ := newRedisLocker(t, 2*time.Second)
	ctx := context.Background()

	first, err := l.Lock(ctx, "order:1")
	require.NoError(t, err)
	go func() {
		time.Sleep(100 * time.Millisecond)
		first()
	}()

	start := time.Now()
	second, err := l.Lock(ctx, "order:1")
	require.NoError(t, err)
	assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
	second()
}

func TestNewRedisClient_SinServidor(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	_, err := locking.NewRedisClient(ctx, config.LockConfig{RedisAddress: "127.0.0.1:1"})
	assert.Error(t, err)
}
