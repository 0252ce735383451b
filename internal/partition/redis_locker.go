package partition

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"

	"github.com/BruksfildServices01/barber-queue/internal/domain/queue"
)

// só remove a chave se o token ainda for nosso
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
  return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisLocker shares partition locks between API instances. The TTL bounds how
// long a crashed holder can block its day.
type RedisLocker struct {
	rdb    *redis.Client
	ttl    time.Duration
	poll   time.Duration
	prefix string
	logger *slog.Logger
}

func NewRedisLocker(rdb *redis.Client, ttl time.Duration, logger *slog.Logger) *RedisLocker {
	if ttl <= 0 {
		ttl = 5 * time.Second
	}
	return &RedisLocker{
		rdb:    rdb,
		ttl:    ttl,
		poll:   25 * time.Millisecond,
		prefix: "queue:lock",
		logger: logger,
	}
}

func (l *RedisLocker) key(k queue.Key) string {
	return fmt.Sprintf("%s:%d:%s", l.prefix, k.BarberID, k.Date)
}

func (l *RedisLocker) Lock(ctx context.Context, k queue.Key) (func(), error) {
	name := l.key(k)
	token := uuid.NewString()

	ticker := time.NewTicker(l.poll)
	defer ticker.Stop()

	for {
		ok, err := l.rdb.SetNX(ctx, name, token, l.ttl).Result()
		if err != nil {
			if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
				return nil, err
			}
			return nil, fmt.Errorf("acquire %s: %w", name, err)
		}
		if ok {
			break
		}
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-ticker.C:
		}
	}

	return func() {
		// contexto próprio: o da requisição pode já ter expirado
		rctx, cancel := context.WithTimeout(context.Background(), time.Second)
		defer cancel()
		if err := releaseScript.Run(rctx, l.rdb, []string{name}, token).Err(); err != nil && l.logger != nil {
			l.logger.Warn("partition lock release failed", "key", name, "err", err)
		}
	}, nil
}
