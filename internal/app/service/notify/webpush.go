package notify

import (
	"context"
	"errors"
	"fmt"

	"github.com/fatflowers/karma/internal/models"
	"github.com/fatflowers/karma/internal/platform/webpush"
	"github.com/fatflowers/karma/pkg/logctx"

	"go.uber.org/zap"
)

type Pusher interface {
	Send(ctx context.Context, ep webpush.Endpoint, p webpush.Payload) error
}

// Subscriptions is the part of the push store the sender needs.
type Subscriptions interface {
	ListByUser(ctx context.Context, userID string) ([]*models.PushSubscription, error)
	DeleteByEndpoint(ctx context.Context, endpoint string) error
}

type WebPushSender struct {
	pusher Pusher
	subs   Subscriptions
	log    *zap.SugaredLogger
}

func NewWebPushSender(p Pusher, subs Subscriptions, log *zap.SugaredLogger) *WebPushSender {
	return &WebPushSender{pusher: p, subs: subs, log: log}
}

func (s *WebPushSender) Channel() string { return ChannelWebPush }

// Send pushes to every subscription of u. Stale subscriptions are removed.
func (s *WebPushSender) Send(ctx context.Context, u *models.User, m Message) error {
	subs, err := s.subs.ListByUser(ctx, u.ID)
	if err != nil {
		return err
	}
	if len(subs) == 0 {
		return ErrNoRecipient
	}
	payload := webpush.Payload{Title: m.Title, Body: m.Body, URL: m.URL}
	var errs []error
	for _, sub := range subs {
		err := s.pusher.Send(ctx, webpush.Endpoint{Endpoint: sub.Endpoint, P256dh: sub.P256dh, Auth: sub.Auth}, payload)
		switch {
		case err == nil:
		case errors.Is(err, webpush.ErrGone):
			logctx.FromCtx(ctx, s.log).Infow("removing stale push subscription", "user_id", u.ID, "endpoint", sub.Endpoint)
			if derr := s.subs.DeleteByEndpoint(ctx, sub.Endpoint); derr != nil {
				errs = append(errs, derr)
			}
		default:
			errs = append(errs, fmt.Errorf("push to %s: %w", sub.Endpoint, err))
		}
	}
	return errors.Join(errs...)
}
