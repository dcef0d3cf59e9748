package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/BruksfildServices01/clinic-scheduler/internal/timezone"
)

// ErrHeld is returned when another request is already booking the same
// doctor day.
var ErrHeld = errors.New("booking lock is held")

// Release frees a lock. It is safe to call more than once.
type Release func()

type BookingLocker interface {
	Acquire(ctx context.Context, doctorID uint, date time.Time) (Release, error)
}

// releaseScript deletes the key only if it still carries our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

type RedisLocker struct {
	client *redis.Client
	ttl    time.Duration
	logger zerolog.Logger
}

func NewRedisLocker(client *redis.Client, ttl time.Duration, logger zerolog.Logger) *RedisLocker {
	if ttl <= 0 {
		ttl = 5 * time.Second
	}
	return &RedisLocker{client: client, ttl: ttl, logger: logger}
}

func Key(doctorID uint, date time.Time) string {
	return fmt.Sprintf("booking:doctor:%d:%s", doctorID, date.Format(timezone.DateLayout))
}

func (l *RedisLocker) Acquire(ctx context.Context, doctorID uint, date time.Time) (Release, error) {
	key := Key(doctorID, date)
	token := uuid.NewString()

	ok, err := l.client.SetNX(ctx, key, token, l.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("acquire %s: %w", key, err)
	}
	if !ok {
		return nil, ErrHeld
	}

	released := false
	return func() {
		if released {
			return
		}
		released = true

		// The request context may already be cancelled.
		rctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()

		if err := releaseScript.Run(rctx, l.client, []string{key}, token).Err(); err != nil {
			l.logger.Warn().Err(err).Str("key", key).Msg("booking lock release failed")
		}
	}, nil
}

// NoopLocker is used when redis is not configured; the database
// transaction remains the only guard.
type NoopLocker struct{}

func (NoopLocker) Acquire(context.Context, uint, time.Time) (Release, error) {
	return func() {}, nil
}

var (
	_ BookingLocker = (*RedisLocker)(nil)
	_ BookingLocker = NoopLocker{}
)
