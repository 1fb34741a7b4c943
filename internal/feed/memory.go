package feed

import (
	"context"
	"log"
	"sync"
)

// subscriberBuffer bounds each subscriber channel; a consumer that falls
// this far behind starts losing events and recovers on its next refetch.
const subscriberBuffer = 32

type memorySubscriber struct {
	table  string
	filter Filter
	ch     chan RecordChange
}

// MemoryFeed is an in-process Feed for tests and single-node deployments
type MemoryFeed struct {
	mu          sync.Mutex
	subscribers map[*memorySubscriber]bool
}

func NewMemoryFeed() *MemoryFeed {
	return &MemoryFeed{
		subscribers: make(map[*memorySubscriber]bool),
	}
}

func (f *MemoryFeed) Publish(ctx context.Context, change RecordChange) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	for sub := range f.subscribers {
		if sub.table != change.Table || !sub.filter.Matches(change) {
			continue
		}
		select {
		case sub.ch <- change:
		default:
			log.Printf("[Feed] Dropping event for slow subscriber on table %s", change.Table)
		}
	}
	return nil
}

func (f *MemoryFeed) Subscribe(ctx context.Context, table string, filter Filter) (*Subscription, error) {
	sub := &memorySubscriber{
		table:  table,
		filter: filter,
		ch:     make(chan RecordChange, subscriberBuffer),
	}

	f.mu.Lock()
	f.subscribers[sub] = true
	f.mu.Unlock()

	var once sync.Once
	return &Subscription{
		C: sub.ch,
		close: func() {
			once.Do(func() {
				f.mu.Lock()
				delete(f.subscribers, sub)
				f.mu.Unlock()
				close(sub.ch)
			})
		},
	}, nil
}
