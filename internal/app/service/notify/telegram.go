package notify

import (
	"context"
	"fmt"

	"github.com/fatflowers/karma/internal/models"
	"github.com/fatflowers/karma/internal/platform/telegram"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

type TelegramSender struct {
	api telegram.API
}

func NewTelegramSender(api telegram.API) *TelegramSender {
	return &TelegramSender{api: api}
}

func (s *TelegramSender) Channel() string { return ChannelTelegram }

func (s *TelegramSender) Send(_ context.Context, u *models.User, m Message) error {
	chatID, ok := u.ChatID()
	if !ok {
		return ErrNoRecipient
	}
	msg := tgbotapi.NewMessage(chatID, TelegramText(m))
	if kb := Keyboard(m.Buttons); kb != nil {
		msg.ReplyMarkup = *kb
	}
	if _, err := s.api.Send(msg); err != nil {
		return fmt.Errorf("telegram send: %w", err)
	}
	return nil
}

func TelegramText(m Message) string {
	if m.Title == "" {
		return m.Body
	}
	if m.Body == "" {
		return m.Title
	}
	return m.Title + "\n\n" + m.Body
}

// Keyboard renders button rows as an inline keyboard, nil when there are none.
func Keyboard(rows [][]Button) *tgbotapi.InlineKeyboardMarkup {
	var out [][]tgbotapi.InlineKeyboardButton
	for _, row := range rows {
		if len(row) == 0 {
			continue
		}
		btns := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
		for _, b := range row {
			btns = append(btns, tgbotapi.NewInlineKeyboardButtonData(b.Text, b.Data))
		}
		out = append(out, btns)
	}
	if len(out) == 0 {
		return nil
	}
	kb := tgbotapi.NewInlineKeyboardMarkup(out...)
	return &kb
}
