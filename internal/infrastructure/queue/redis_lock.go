package queue

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/jhoicas/catalogo-api/internal/application/recompute"
)

var _ recompute.EntryLocker = (*RedisLocker)(nil)

// ErrLockTimeout no se obtuvo el lock de la entrada dentro del TTL.
var ErrLockTimeout = errors.New("lock de entrada no obtenido")

// RedisLocker un solo escritor por entrada entre procesos, con bsm/redislock.
type RedisLocker struct {
	locker *redislock.Client
	ttl    time.Duration
	prefix string
	log    zerolog.Logger
}

// NewRedisLocker construye el locker. ttl debe superar la duración de una recomputación.
func NewRedisLocker(client *redis.Client, ttl time.Duration, log zerolog.Logger) *RedisLocker {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &RedisLocker{locker: redislock.New(client), ttl: ttl, prefix: "catalog:entry-lock:", log: log}
}

// Lock reintenta cada 100ms hasta obtener el lock o agotar el TTL.
func (l *RedisLocker) Lock(ctx context.Context, entryID string) (func(), error) {
	waitCtx, cancel := context.WithTimeout(ctx, l.ttl)
	defer cancel()
	lock, err := l.locker.Obtain(waitCtx, l.prefix+entryID, l.ttl, &redislock.Options{
		RetryStrategy: redislock.LinearBackoff(100 * time.Millisecond),
	})
	if errors.Is(err, redislock.ErrNotObtained) {
		return nil, fmt.Errorf("%w: %s", ErrLockTimeout, entryID)
	}
	if err != nil {
		return nil, fmt.Errorf("obtener lock %s: %w", entryID, err)
	}
	return func() {
		if err := lock.Release(context.Background()); err != nil && !errors.Is(err, redislock.ErrLockNotHeld) {
			l.log.Warn().Err(err).Str("entry_id", entryID).Msg("liberar lock de entrada")
		}
	}, nil
}
