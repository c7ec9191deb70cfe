package locking_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/branch-fulfillment-api/internal/infrastructure/locking"
)

func TestLocalLocker_SerializaMismaClave(t *testing.T) {
	l := locking.NewLocalLocker()
	ctx := context.Background()

	var (
		mu      sync.Mutex
		inside  int
		maxSeen int
		wg      sync.WaitGroup
	)
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			release, err := l.Lock(ctx, "item:a", "item:b")
			if !assert.NoError(t, err) {
				return
			}
			mu.Lock()
			inside++
			if inside > maxSeen {
				maxSeen = inside
			}
			mu.Unlock()
			time.Sleep(time.Millisecond)
			mu.Lock()
			inside--
			mu.Unlock()
			release()
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, maxSeen)
}

func TestLocalLocker_RespetaCancelacion(t *testing.T) {
	l := locking.NewLocalLocker()
	release, err := l.Lock(context.Background(), "item:a")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = l.Lock(ctx, "item:b", "item:a")
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	// item:b quedó libre tras el fallo
	rb, err := l.Lock(context.Background(), "item:b")
	require.NoError(t, err)
	rb()

	release()
	release() // idempotente
	ra, err := l.Lock(context.Background(), "item:a")
	require.NoError(t, err)
	ra()
}
