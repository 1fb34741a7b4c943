package feed

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"strings"
	"sync"

	"github.com/redis/go-redis/v9"
)

const channelPrefix = "feed:"

// RedisFeed carries record changes over redis pub/sub so both partners'
// clients observe mutations regardless of which server node handled them.
type RedisFeed struct {
	client *redis.Client
}

func NewRedisFeed(addr, password string) (*RedisFeed, error) {
	addr = strings.TrimSpace(addr)
	if addr == "" {
		return nil, errors.New("redis addr required")
	}
	return &RedisFeed{
		client: redis.NewClient(&redis.Options{Addr: addr, Password: password}),
	}, nil
}

func (f *RedisFeed) Publish(ctx context.Context, change RecordChange) error {
	payload, err := json.Marshal(change)
	if err != nil {
		return err
	}
	return f.client.Publish(ctx, channelPrefix+change.Table, payload).Err()
}

func (f *RedisFeed) Subscribe(ctx context.Context, table string, filter Filter) (*Subscription, error) {
	pubsub := f.client.Subscribe(ctx, channelPrefix+table)
	// Wait for the subscription to be confirmed before any publish can race it.
	if _, err := pubsub.Receive(ctx); err != nil {
		pubsub.Close()
		return nil, err
	}

	out := make(chan RecordChange, subscriberBuffer)
	done := make(chan struct{})

	go func() {
		defer close(out)
		src := pubsub.Channel()
		for {
			select {
			case <-done:
				return
			case msg, ok := <-src:
				if !ok {
					return
				}
				var change RecordChange
				if err := json.Unmarshal([]byte(msg.Payload), &change); err != nil {
					log.Printf("[Feed] Dropping malformed event on %s: %v", msg.Channel, err)
					continue
				}
				if !filter.Matches(change) {
					continue
				}
				select {
				case out <- change:
				case <-done:
					return
				}
			}
		}
	}()

	var once sync.Once
	return &Subscription{
		C: out,
		close: func() {
			once.Do(func() {
				close(done)
				pubsub.Close()
			})
		},
	}, nil
}

// Close releases the underlying redis connection
func (f *RedisFeed) Close() error {
	return f.client.Close()
}
