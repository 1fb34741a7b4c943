package webpush

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"

	webpush "github.com/SherClockHolmes/webpush-go"
)

// ErrEndpointGone marks a permanently dead push endpoint (provider returned
// 404/410). Callers must delete the subscription and never retry it.
var ErrEndpointGone = errors.New("push endpoint gone")

// Client wraps Web Push delivery with VAPID authentication
type Client struct {
	subject    string
	publicKey  string
	privateKey string
	ttl        int
	httpClient *http.Client
}

// NewClient creates a Web Push client. Returns an error if the VAPID key
// pair is not configured, so callers can run with push disabled.
func NewClient(subject, publicKey, privateKey string) (*Client, error) {
	if publicKey == "" || privateKey == "" {
		return nil, errors.New("VAPID keys not configured")
	}

	log.Println("[Push] Client initialized successfully")
	return &Client{
		subject:    subject,
		publicKey:  publicKey,
		privateKey: privateKey,
		ttl:        60 * 60 * 24,
		httpClient: &http.Client{Timeout: 10 * time.Second},
	}, nil
}

// NotificationData is the payload shown on the device
type NotificationData struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	URL   string `json:"url,omitempty"`
}

// Send attempts one push to one endpoint. A 404/410 response is returned as
// ErrEndpointGone; every other failure is transient.
func (c *Client) Send(ctx context.Context, endpoint, p256dh, auth string, notification NotificationData) error {
	payload, err := json.Marshal(notification)
	if err != nil {
		return err
	}

	sub := &webpush.Subscription{
		Endpoint: endpoint,
		Keys: webpush.Keys{
			P256dh: p256dh,
			Auth:   auth,
		},
	}

	resp, err := webpush.SendNotificationWithContext(ctx, payload, sub, &webpush.Options{
		HTTPClient:      c.httpClient,
		Subscriber:      c.subject,
		VAPIDPublicKey:  c.publicKey,
		VAPIDPrivateKey: c.privateKey,
		TTL:             c.ttl,
	})
	if err != nil {
		return fmt.Errorf("failed to send push: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone:
		return ErrEndpointGone
	case resp.StatusCode >= 400:
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("push rejected with status %d: %s", resp.StatusCode, string(body))
	}

	return nil
}
