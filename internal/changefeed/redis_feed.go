package changefeed

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/go-redis/redis/v8"

	"github.com/BruksfildServices01/barber-queue/internal/domain/queue"
)

// RedisFeed publishes commits on one channel per barber day so every API
// instance can serve the live stream.
type RedisFeed struct {
	rdb    *redis.Client
	prefix string
	logger *slog.Logger
}

func NewRedisFeed(rdb *redis.Client, logger *slog.Logger) *RedisFeed {
	return &RedisFeed{rdb: rdb, prefix: "queue:events", logger: logger}
}

func (f *RedisFeed) channel(k queue.Key) string {
	return fmt.Sprintf("%s:%d:%s", f.prefix, k.BarberID, k.Date)
}

func (f *RedisFeed) Publish(ctx context.Context, ev Event) error {
	body, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	return f.rdb.Publish(ctx, f.channel(ev.Key()), body).Err()
}

func (f *RedisFeed) Subscribe(ctx context.Context, key queue.Key) (<-chan Event, error) {
	sub := f.rdb.Subscribe(ctx, f.channel(key))
	// espera a confirmação para não perder eventos publicados logo depois
	if _, err := sub.Receive(ctx); err != nil {
		_ = sub.Close()
		return nil, fmt.Errorf("subscribe %s: %w", f.channel(key), err)
	}

	out := make(chan Event, 16)
	go func() {
		defer close(out)
		defer sub.Close()

		msgs := sub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}
				var ev Event
				if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
					if f.logger != nil {
						f.logger.Warn("invalid change event", "channel", msg.Channel, "err", err)
					}
					continue
				}
				select {
				case out <- ev:
				default:
				}
			}
		}
	}()
	return out, nil
}
