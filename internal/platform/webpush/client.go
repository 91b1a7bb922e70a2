package webpush

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"

	"github.com/fatflowers/karma/pkg/config"

	"github.com/SherClockHolmes/webpush-go"
	"go.uber.org/fx"
)

var (
	ErrNotConfigured = errors.New("webpush: VAPID keys are not configured")
	// ErrGone means the push service dropped the subscription; callers should delete it.
	ErrGone = errors.New("webpush: subscription expired")
)

// Payload is the JSON document the service worker receives.
type Payload struct {
	Title string `json:"title"`
	Body  string `json:"body"`
	URL   string `json:"url,omitempty"`
}

type Endpoint struct {
	Endpoint string
	P256dh   string
	Auth     string
}

type Client struct {
	publicKey  string
	privateKey string
	subject    string
	ttl        int
	httpClient webpush.HTTPClient
}

func New(cfg *config.Config) *Client {
	return &Client{
		publicKey:  cfg.WebPush.VAPIDPublicKey,
		privateKey: cfg.WebPush.VAPIDPrivateKey,
		subject:    cfg.WebPush.Subject,
		ttl:        cfg.WebPush.TTL,
		httpClient: &http.Client{Timeout: cfg.WebPush.SendTimeout},
	}
}

// WithHTTPClient replaces the transport, used by tests.
func (c *Client) WithHTTPClient(hc webpush.HTTPClient) *Client {
	cp := *c
	cp.httpClient = hc
	return &cp
}

func (c *Client) Enabled() bool {
	return c.publicKey != "" && c.privateKey != ""
}

func (c *Client) PublicKey() string { return c.publicKey }

// Send encrypts and delivers one payload. 404 and 410 map to ErrGone.
func (c *Client) Send(ctx context.Context, ep Endpoint, p Payload) error {
	if !c.Enabled() {
		return ErrNotConfigured
	}
	body, err := json.Marshal(p)
	if err != nil {
		return fmt.Errorf("webpush: marshal payload: %w", err)
	}
	resp, err := webpush.SendNotificationWithContext(ctx, body, &webpush.Subscription{
		Endpoint: ep.Endpoint,
		Keys:     webpush.Keys{P256dh: ep.P256dh, Auth: ep.Auth},
	}, &webpush.Options{
		HTTPClient:      c.httpClient,
		Subscriber:      c.subject,
		VAPIDPublicKey:  c.publicKey,
		VAPIDPrivateKey: c.privateKey,
		TTL:             c.ttl,
		Urgency:         webpush.UrgencyNormal,
	})
	if err != nil {
		return fmt.Errorf("webpush: send: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	switch {
	case resp.StatusCode == http.StatusNotFound || resp.StatusCode == http.StatusGone:
		return ErrGone
	case resp.StatusCode >= 300:
		return fmt.Errorf("webpush: push service returned %d", resp.StatusCode)
	}
	return nil
}

var Module = fx.Options(
	fx.Provide(New),
)
