package messaging

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

// ErrLockHeld is returned by Acquire when another holder owns the lock.
var ErrLockHeld = errors.New("lock is held by another owner")

// releaseScript deletes the key only when it still holds our token.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// Lock is a single-key Redis lock with a TTL.
type Lock struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

// NewLock returns a lock on key. The TTL bounds how long a crashed holder can
// keep others out.
func NewLock(client *redis.Client, key string, ttl time.Duration) *Lock {
	return &Lock{client: client, key: key, ttl: ttl}
}

// Acquire takes the lock and returns a release func. It returns ErrLockHeld
// without waiting when the lock is taken.
func (l *Lock) Acquire(ctx context.Context) (func(context.Context) error, error) {
	token, err := gonanoid.New()
	if err != nil {
		return nil, fmt.Errorf("failed to generate lock token: %w", err)
	}

	ok, err := l.client.SetNX(ctx, l.key, token, l.ttl).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire lock %s: %w", l.key, err)
	}
	if !ok {
		return nil, ErrLockHeld
	}

	release := func(ctx context.Context) error {
		if err := releaseScript.Run(ctx, l.client, []string{l.key}, token).Err(); err != nil && !errors.Is(err, redis.Nil) {
			return fmt.Errorf("failed to release lock %s: %w", l.key, err)
		}
		return nil
	}
	return release, nil
}
