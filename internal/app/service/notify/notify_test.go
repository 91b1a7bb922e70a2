package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/fatflowers/karma/internal/models"
	"github.com/fatflowers/karma/internal/platform/webpush"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type stubAPI struct {
	sent []tgbotapi.Chattable
	err  error
}

func (s *stubAPI) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	s.sent = append(s.sent, c)
	return tgbotapi.Message{}, s.err
}

func (s *stubAPI) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	s.sent = append(s.sent, c)
	return &tgbotapi.APIResponse{Ok: true}, s.err
}

func TestTelegramSender(t *testing.T) {
	api := &stubAPI{}
	s := NewTelegramSender(api)

	err := s.Send(context.Background(), &models.User{ID: "u-1"}, Message{Body: "hi"})
	require.ErrorIs(t, err, ErrNoRecipient)
	require.Empty(t, api.sent)

	u := &models.User{ID: "u-2", TelegramID: lo.ToPtr(int64(42))}
	err = s.Send(context.Background(), u, Message{
		Title:   "Good morning",
		Body:    "Today: Law of Humility",
		Buttons: [][]Button{{{Text: "Write", Data: "write_3"}}},
	})
	require.NoError(t, err)
	require.Len(t, api.sent, 1)
	msg := api.sent[0].(tgbotapi.MessageConfig)
	assert.Equal(t, int64(42), msg.ChatID)
	assert.Equal(t, "Good morning\n\nToday: Law of Humility", msg.Text)
	kb := msg.ReplyMarkup.(tgbotapi.InlineKeyboardMarkup)
	require.Len(t, kb.InlineKeyboard, 1)
	assert.Equal(t, "write_3", *kb.InlineKeyboard[0][0].CallbackData)

	api.err = errors.New("blocked")
	require.Error(t, s.Send(context.Background(), u, Message{Body: "x"}))
}

func TestKeyboard_Empty(t *testing.T) {
	assert.Nil(t, Keyboard(nil))
	assert.Nil(t, Keyboard([][]Button{{}}))
}

type stubPusher struct {
	results map[string]error
	got     []webpush.Payload
}

func (s *stubPusher) Send(_ context.Context, ep webpush.Endpoint, p webpush.Payload) error {
	s.got = append(s.got, p)
	return s.results[ep.Endpoint]
}

type stubSubs struct {
	subs    []*models.PushSubscription
	deleted []string
}

func (s *stubSubs) ListByUser(context.Context, string) ([]*models.PushSubscription, error) {
	return s.subs, nil
}

func (s *stubSubs) DeleteByEndpoint(_ context.Context, endpoint string) error {
	s.deleted = append(s.deleted, endpoint)
	return nil
}

func TestWebPushSender_RemovesGoneSubscriptions(t *testing.T) {
	subs := &stubSubs{subs: []*models.PushSubscription{
		{Endpoint: "https://push/a"}, {Endpoint: "https://push/gone"},
	}}
	p := &stubPusher{results: map[string]error{"https://push/gone": webpush.ErrGone}}
	s := NewWebPushSender(p, subs, zap.NewNop().Sugar())

	err := s.Send(context.Background(), &models.User{ID: "u-1"}, Message{Title: "t", Body: "b", URL: "/journal"})
	require.NoError(t, err)
	assert.Equal(t, []string{"https://push/gone"}, subs.deleted)
	require.Len(t, p.got, 2)
	assert.Equal(t, webpush.Payload{Title: "t", Body: "b", URL: "/journal"}, p.got[0])
}

func TestWebPushSender_Errors(t *testing.T) {
	s := NewWebPushSender(&stubPusher{}, &stubSubs{}, zap.NewNop().Sugar())
	require.ErrorIs(t, s.Send(context.Background(), &models.User{ID: "u-1"}, Message{}), ErrNoRecipient)

	boom := errors.New("boom")
	subs := &stubSubs{subs: []*models.PushSubscription{{Endpoint: "https://push/a"}}}
	s = NewWebPushSender(&stubPusher{results: map[string]error{"https://push/a": boom}}, subs, zap.NewNop().Sugar())
	err := s.Send(context.Background(), &models.User{ID: "u-1"}, Message{})
	require.ErrorIs(t, err, boom)
	assert.Empty(t, subs.deleted)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", truncate("abc", 5))
	assert.Equal(t, "ab", truncate("abc", 2))
}
