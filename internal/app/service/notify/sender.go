package notify

import (
	"context"
	"errors"

	"github.com/fatflowers/karma/internal/models"
)

// ErrNoRecipient means the user has no address on the channel; callers count it as skipped.
var ErrNoRecipient = errors.New("notify: user has no recipient on this channel")

const (
	ChannelTelegram = "telegram"
	ChannelWebPush  = "webpush"
)

// Button is an inline action. Channels without buttons ignore it.
type Button struct {
	Text string
	Data string
}

type Message struct {
	Title   string
	Body    string
	URL     string
	Buttons [][]Button
}

// NotificationSender delivers a message to one user on one channel.
type NotificationSender interface {
	Channel() string
	Send(ctx context.Context, u *models.User, m Message) error
}
