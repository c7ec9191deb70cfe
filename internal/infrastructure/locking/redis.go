package locking

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"

	"github.com/jhoicas/branch-fulfillment-api/internal/application/ports"
	"github.com/jhoicas/branch-fulfillment-api/pkg/config"
	"github.com/jhoicas/branch-fulfillment-api/pkg/logger"
)

var _ ports.KeyLocker = (*RedisLocker)(nil)

// ErrLockTimeout no se obtuvo el bloqueo dentro del tiempo de espera.
var ErrLockTimeout = errors.New("no se pudo obtener el bloqueo")

const keyPrefix = "fulfillment:lock:"

// RedisLocker bloqueo por clave compartido entre réplicas (redislock sobre go-redis).
type RedisLocker struct {
	client *redislock.Client
	ttl    time.Duration
	wait   time.Duration
	log    *logger.Logger
}

// NewRedisClient abre el cliente y verifica la conexión con Ping.
func NewRedisClient(ctx context.Context, cfg config.LockConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddress,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
		PoolSize: 100,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping %s: %w", cfg.RedisAddress, err)
	}
	return rdb, nil
}

// NewRedisLocker construye el locker sobre un cliente ya conectado.
func NewRedisLocker(rdb redislock.RedisClient, cfg config.LockConfig, log *logger.Logger) *RedisLocker {
	return &RedisLocker{
		client: redislock.New(rdb),
		ttl:    cfg.TTL,
		wait:   cfg.WaitTimeout,
		log:    log.Component("locking"),
	}
}

// Lock obtiene todas las claves en orden, reintentando hasta el tiempo de espera configurado.
func (l *RedisLocker) Lock(ctx context.Context, keys ...string) (func(), error) {
	keys = ports.NormalizeKeys(keys)
	waitCtx, cancel := context.WithTimeout(ctx, l.wait)
	defer cancel()

	held := make([]*redislock.Lock, 0, len(keys))
	release := func() {
		for i := len(held) - 1; i >= 0; i-- {
			// contexto propio: la liberación debe ocurrir aunque la petición ya terminó
			relCtx, relCancel := context.WithTimeout(context.Background(), 2*time.Second)
			if err := held[i].Release(relCtx); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
				l.log.Warn().Err(err).Str("key", held[i].Key()).Msg("no se pudo liberar el bloqueo")
			}
			relCancel()
		}
	}
	for _, k := range keys {
		lock, err := l.client.Obtain(waitCtx, keyPrefix+k, l.ttl, &redislock.Options{
			RetryStrategy: redislock.LinearBackoff(50 * time.Millisecond),
		})
		if err != nil {
			release()
			if errors.Is(err, redislock.ErrNotObtained) || errors.Is(err, context.DeadlineExceeded) {
				return nil, fmt.Errorf("%w: %s", ErrLockTimeout, k)
			}
			return nil, fmt.Errorf("obtener bloqueo %s: %w", k, err)
		}
		held = append(held, lock)
	}
	return release, nil
}
