package realtime

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	"github.com/mentorflow/mentorflow/internal/domain"
	"github.com/redis/go-redis/v9"
)

// Broker fans change notifications out over Redis pub/sub, one channel per table. Every
// API instance publishes its own writes and relays the channel to its streaming clients,
// so a write on one instance reaches subscribers on all of them.
type Broker struct {
	rdb            *redis.Client
	prefix         string
	publishTimeout time.Duration
}

func NewBroker(rdb *redis.Client, prefix string, publishTimeout time.Duration) *Broker {
	return &Broker{
		rdb:            rdb,
		prefix:         prefix,
		publishTimeout: publishTimeout,
	}
}

func (b *Broker) channel(table string) string {
	return b.prefix + table
}

func (b *Broker) Publish(ctx context.Context, event domain.ChangeEvent) error {
	if event.CommitTimestamp.IsZero() {
		event.CommitTimestamp = time.Now().UTC()
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, b.publishTimeout)
	defer cancel()

	return b.rdb.Publish(ctx, b.channel(event.Table), payload).Err()
}

// Subscribe relays events for table until ctx is done. The returned channel is closed
// afterwards. The subscription is confirmed before Subscribe returns, so nothing published
// after it returns is missed.
func (b *Broker) Subscribe(ctx context.Context, table string) (<-chan domain.ChangeEvent, error) {
	pubsub := b.rdb.Subscribe(ctx, b.channel(table))
	if _, err := pubsub.Receive(ctx); err != nil {
		_ = pubsub.Close()
		return nil, err
	}

	events := make(chan domain.ChangeEvent)
	go func() {
		defer close(events)
		defer pubsub.Close()

		msgs := pubsub.Channel()
		for {
			select {
			case <-ctx.Done():
				return
			case msg, ok := <-msgs:
				if !ok {
					return
				}

				var event domain.ChangeEvent
				if err := json.Unmarshal([]byte(msg.Payload), &event); err != nil {
					slog.Error("failed to decode change event", "channel", msg.Channel, "error", err)
					continue
				}

				select {
				case events <- event:
				case <-ctx.Done():
					return
				}
			}
		}
	}()

	return events, nil
}
