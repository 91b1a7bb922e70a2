package telegram

import (
	"context"
	"net/http"
	"time"

	"github.com/fatflowers/karma/pkg/config"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// API is the subset of the Bot API used by senders and the bot dispatcher.
type API interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

// Client owns the Bot API connection. A Client without a token is disabled and every call is a no-op.
type Client struct {
	bot *tgbotapi.BotAPI
	log *zap.SugaredLogger
}

func New(cfg *config.Config, log *zap.SugaredLogger) *Client {
	c := &Client{log: log}
	if cfg.Telegram.BotToken == "" {
		return c
	}
	client := &http.Client{Timeout: cfg.Telegram.SendTimeout + longPollTimeout*time.Second}
	bot, err := tgbotapi.NewBotAPIWithClient(cfg.Telegram.BotToken, tgbotapi.APIEndpoint, client)
	if err != nil {
		log.Errorw("telegram bot init failed, bot disabled", "err", err)
		return c
	}
	log.Infow("telegram bot authorized", "username", bot.Self.UserName)
	c.bot = bot
	return c
}

const longPollTimeout = 60

func (c *Client) Enabled() bool { return c != nil && c.bot != nil }

// API returns nil when the client is disabled.
func (c *Client) API() API {
	if !c.Enabled() {
		return nil
	}
	return c.bot
}

func (c *Client) Username() string {
	if !c.Enabled() {
		return ""
	}
	return c.bot.Self.UserName
}

// Poll delivers long-polled updates to handle until ctx is done.
func (c *Client) Poll(ctx context.Context, handle func(context.Context, tgbotapi.Update)) {
	if !c.Enabled() {
		return
	}
	u := tgbotapi.NewUpdate(0)
	u.Timeout = longPollTimeout
	updates := c.bot.GetUpdatesChan(u)
	for {
		select {
		case <-ctx.Done():
			c.bot.StopReceivingUpdates()
			return
		case upd, ok := <-updates:
			if !ok {
				return
			}
			handle(ctx, upd)
		}
	}
}

var Module = fx.Options(
	fx.Provide(New),
)
