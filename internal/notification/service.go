// Package notification delivers events to every device registered for a
// user, tolerating partial failure per device and pruning endpoints the
// provider reports gone.
package notification

import (
	"context"
	"errors"
	"log"

	"pairdle-backend/internal/auth/repository"
	"pairdle-backend/pkg/webpush"

	"golang.org/x/sync/errgroup"
)

// maxConcurrentDeliveries bounds the fan-out; each attempt is already
// time-bounded by the push client's HTTP timeout.
const maxConcurrentDeliveries = 8

// Pusher performs one push delivery attempt
type Pusher interface {
	Send(ctx context.Context, endpoint, p256dh, auth string, notification webpush.NotificationData) error
}

// Service fans one logical notification out to all of a user's devices
type Service struct {
	subRepo repository.PushSubscriptionRepository
	pusher  Pusher
}

func NewService(subRepo repository.PushSubscriptionRepository, pusher Pusher) *Service {
	return &Service{
		subRepo: subRepo,
		pusher:  pusher,
	}
}

// NotifyUser resolves the user's device registrations and attempts delivery
// to each concurrently. One device's failure never blocks the others: a
// permanent failure deletes that registration, a transient one is logged
// and dropped (at-most-once, no retry queue). A user with no devices is a
// normal no-op.
func (s *Service) NotifyUser(ctx context.Context, userID, title, body string) error {
	if s.pusher == nil {
		return nil
	}

	subs, err := s.subRepo.FindByUserID(ctx, userID)
	if err != nil {
		return err
	}
	if len(subs) == 0 {
		return nil
	}

	payload := webpush.NotificationData{Title: title, Body: body}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrentDeliveries)
	for _, sub := range subs {
		sub := sub
		g.Go(func() error {
			err := s.pusher.Send(gctx, sub.Endpoint, sub.P256dh, sub.Auth, payload)
			switch {
			case err == nil:
			case errors.Is(err, webpush.ErrEndpointGone):
				log.Printf("[Push] Endpoint gone for user %s, deleting subscription %s", userID, sub.ID)
				if delErr := s.subRepo.DeleteByEndpoint(ctx, sub.Endpoint); delErr != nil {
					log.Printf("[Push] Failed to delete dead subscription %s: %v", sub.ID, delErr)
				}
			default:
				log.Printf("[Push] Transient delivery failure for user %s: %v", userID, err)
			}
			// Delivery outcomes are per-device; never fail the group.
			return nil
		})
	}
	return g.Wait()
}
