package notification

import (
	"context"
	"errors"
	"sync"
	"testing"

	authdomain "pairdle-backend/internal/auth/domain"
	"pairdle-backend/pkg/webpush"
)

// fakeSubRepo implements PushSubscriptionRepository in memory
type fakeSubRepo struct {
	mu   sync.Mutex
	subs []authdomain.PushSubscription
}

func (r *fakeSubRepo) Save(ctx context.Context, sub *authdomain.PushSubscription) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.subs = append(r.subs, *sub)
	return nil
}

func (r *fakeSubRepo) FindByUserID(ctx context.Context, userID string) ([]authdomain.PushSubscription, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []authdomain.PushSubscription
	for _, s := range r.subs {
		if s.UserID == userID {
			out = append(out, s)
		}
	}
	return out, nil
}

func (r *fakeSubRepo) DeleteByEndpoint(ctx context.Context, endpoint string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.subs[:0]
	for _, s := range r.subs {
		if s.Endpoint != endpoint {
			kept = append(kept, s)
		}
	}
	r.subs = kept
	return nil
}

func (r *fakeSubRepo) DeleteByID(ctx context.Context, userID, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	kept := r.subs[:0]
	for _, s := range r.subs {
		if !(s.ID == id && s.UserID == userID) {
			kept = append(kept, s)
		}
	}
	r.subs = kept
	return nil
}

func (r *fakeSubRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.subs)
}

// fakePusher fails the endpoints it is told to and records deliveries
type fakePusher struct {
	mu        sync.Mutex
	failWith  map[string]error
	delivered []string
}

func (p *fakePusher) Send(ctx context.Context, endpoint, p256dh, auth string, n webpush.NotificationData) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if err, ok := p.failWith[endpoint]; ok {
		return err
	}
	p.delivered = append(p.delivered, endpoint)
	return nil
}

func (p *fakePusher) deliveredCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.delivered)
}

func seedSubs(repo *fakeSubRepo, userID string, endpoints ...string) {
	for i, ep := range endpoints {
		repo.subs = append(repo.subs, authdomain.PushSubscription{
			ID:       ep + "-id",
			UserID:   userID,
			Endpoint: ep,
			P256dh:   "key",
			Auth:     "secret",
		})
		_ = i
	}
}

func TestNotifyUserFanOutIsolation(t *testing.T) {
	repo := &fakeSubRepo{}
	seedSubs(repo, "u1", "ep-1", "ep-2", "ep-3")

	pusher := &fakePusher{failWith: map[string]error{
		"ep-2": webpush.ErrEndpointGone,
	}}

	svc := NewService(repo, pusher)
	if err := svc.NotifyUser(context.Background(), "u1", "title", "body"); err != nil {
		t.Fatalf("notify: %v", err)
	}

	// The two healthy devices still got the push.
	if got := pusher.deliveredCount(); got != 2 {
		t.Fatalf("delivered to %d devices, want 2", got)
	}
	// The dead endpoint's registration was pruned.
	if got := repo.count(); got != 2 {
		t.Fatalf("%d subscriptions remain, want 2", got)
	}
	remaining, _ := repo.FindByUserID(context.Background(), "u1")
	for _, s := range remaining {
		if s.Endpoint == "ep-2" {
			t.Fatal("dead endpoint must be deleted")
		}
	}
}

func TestNotifyUserTransientFailureKeepsSubscription(t *testing.T) {
	repo := &fakeSubRepo{}
	seedSubs(repo, "u1", "ep-1", "ep-2")

	pusher := &fakePusher{failWith: map[string]error{
		"ep-1": errors.New("rate limited"),
	}}

	svc := NewService(repo, pusher)
	if err := svc.NotifyUser(context.Background(), "u1", "title", "body"); err != nil {
		t.Fatalf("notify: %v", err)
	}

	// Transient failures are dropped without pruning: no retry queue.
	if got := repo.count(); got != 2 {
		t.Fatalf("%d subscriptions remain, want 2", got)
	}
	if got := pusher.deliveredCount(); got != 1 {
		t.Fatalf("delivered to %d devices, want 1", got)
	}
}

func TestNotifyUserNoDevicesIsNoOp(t *testing.T) {
	repo := &fakeSubRepo{}
	pusher := &fakePusher{}

	svc := NewService(repo, pusher)
	if err := svc.NotifyUser(context.Background(), "nobody", "title", "body"); err != nil {
		t.Fatalf("empty subscription list must be a normal outcome: %v", err)
	}
	if pusher.deliveredCount() != 0 {
		t.Fatal("nothing should be delivered")
	}
}
