package bot

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/fatflowers/karma/internal/app/service/journal"
	"github.com/fatflowers/karma/internal/app/service/notify"
	"github.com/fatflowers/karma/internal/app/service/user"
	"github.com/fatflowers/karma/internal/models"
	"github.com/fatflowers/karma/internal/platform/telegram"
	"github.com/fatflowers/karma/pkg/config"
	"github.com/fatflowers/karma/pkg/logctx"
	"github.com/fatflowers/karma/pkg/types"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

type Users interface {
	FindOrCreateByTelegram(ctx context.Context, id user.TelegramIdentity) (*models.User, bool, error)
	CompleteOnboarding(ctx context.Context, id string, now time.Time) (*models.User, *models.Subscription, error)
	AdvancePrinciple(ctx context.Context, id string) (*models.User, error)
	UpdateSettings(ctx context.Context, id string, patch user.SettingsPatch) (*models.User, error)
	SetAwaitingEntry(ctx context.Context, id string, principleID *int) error
}

type Principles interface {
	Get(ctx context.Context, number int) (*models.Principle, error)
}

type Journal interface {
	Create(ctx context.Context, userID string, in journal.CreateEntryInput) (*journal.CreateResult, error)
	Update(ctx context.Context, userID, id string, in journal.UpdateEntryInput) (*models.JournalEntry, error)
}

type Stats interface {
	Get(ctx context.Context, userID string, now time.Time, loc *time.Location) (*models.UserStats, error)
}

// Bot dispatches Telegram updates. A Bot without an API drops every update.
type Bot struct {
	api        telegram.API
	users      Users
	principles Principles
	journal    Journal
	stats      Stats
	loc        *time.Location
	log        *zap.SugaredLogger
	now        func() time.Time
}

type Deps struct {
	API        telegram.API
	Users      Users
	Principles Principles
	Journal    Journal
	Stats      Stats
}

func New(d Deps, cfg *config.Config, log *zap.SugaredLogger) *Bot {
	return &Bot{
		api:        d.API,
		users:      d.Users,
		principles: d.Principles,
		journal:    d.Journal,
		stats:      d.Stats,
		loc:        cfg.Location(),
		log:        log,
		now:        time.Now,
	}
}

func (b *Bot) Enabled() bool { return b.api != nil }

func identity(u *tgbotapi.User) user.TelegramIdentity {
	return user.TelegramIdentity{TelegramID: u.ID, Username: u.UserName, FirstName: u.FirstName, Language: u.LanguageCode}
}

// HandleUpdate processes one update. Errors are logged and reported to the chat, never returned.
func (b *Bot) HandleUpdate(ctx context.Context, upd tgbotapi.Update) {
	if !b.Enabled() {
		return
	}
	log := logctx.FromCtx(ctx, b.log).With("update_id", upd.UpdateID)
	ctx = logctx.WithLogger(ctx, log)
	defer func() {
		if r := recover(); r != nil {
			log.Errorw("panic while handling telegram update", "panic", r)
		}
	}()

	var err error
	var chatID int64
	switch {
	case upd.CallbackQuery != nil:
		if upd.CallbackQuery.Message != nil {
			chatID = upd.CallbackQuery.Message.Chat.ID
		}
		err = b.handleCallback(ctx, upd.CallbackQuery)
	case upd.Message != nil && upd.Message.From != nil:
		chatID = upd.Message.Chat.ID
		if upd.Message.IsCommand() {
			err = b.handleCommand(ctx, upd.Message)
		} else {
			err = b.handleText(ctx, upd.Message)
		}
	default:
		return
	}
	if err == nil {
		return
	}
	log.Warnw("failed to handle telegram update", "error", err)
	if chatID != 0 {
		b.send(ctx, chatID, userMessage(err), nil)
	}
}

func userMessage(err error) string {
	switch {
	case errors.Is(err, types.ErrInvalidInput):
		return "Hmm, that did not work: " + strings.TrimPrefix(err.Error(), types.ErrInvalidInput.Error()+": ")
	case errors.Is(err, types.ErrNotFound):
		return "I could not find that. Try /today."
	default:
		return "Something went wrong, please try again later."
	}
}

func (b *Bot) send(ctx context.Context, chatID int64, text string, buttons [][]notify.Button) {
	msg := tgbotapi.NewMessage(chatID, text)
	if kb := notify.Keyboard(buttons); kb != nil {
		msg.ReplyMarkup = *kb
	}
	if _, err := b.api.Send(msg); err != nil {
		logctx.FromCtx(ctx, b.log).Warnw("telegram send failed", "chat_id", chatID, "error", err)
	}
}

// edit replaces the text and keyboard of the message the callback came from.
func (b *Bot) edit(ctx context.Context, m *tgbotapi.Message, text string, buttons [][]notify.Button) {
	if m == nil {
		return
	}
	edit := tgbotapi.NewEditMessageText(m.Chat.ID, m.MessageID, text)
	if kb := notify.Keyboard(buttons); kb != nil {
		edit.ReplyMarkup = kb
	}
	if _, err := b.api.Send(edit); err != nil {
		logctx.FromCtx(ctx, b.log).Warnw("telegram edit failed", "chat_id", m.Chat.ID, "error", err)
	}
}

func (b *Bot) answer(ctx context.Context, id, text string) {
	if _, err := b.api.Request(tgbotapi.NewCallback(id, text)); err != nil {
		logctx.FromCtx(ctx, b.log).Warnw("telegram callback answer failed", "error", err)
	}
}

func (b *Bot) handleCommand(ctx context.Context, m *tgbotapi.Message) error {
	u, _, err := b.users.FindOrCreateByTelegram(ctx, identity(m.From))
	if err != nil {
		return err
	}
	chatID := m.Chat.ID
	switch m.Command() {
	case "start":
		if _, _, err := b.users.CompleteOnboarding(ctx, u.ID, b.now()); err != nil {
			return err
		}
		p, err := b.principles.Get(ctx, u.CurrentPrinciple)
		if err != nil {
			return err
		}
		b.send(ctx, chatID, welcomeText(u, p), entryButtons(p.Number))
	case "today":
		p, err := b.principles.Get(ctx, u.CurrentPrinciple)
		if err != nil {
			return err
		}
		b.send(ctx, chatID, todayText(p), entryButtons(p.Number))
	case "principle":
		p, err := b.principles.Get(ctx, u.CurrentPrinciple)
		if err != nil {
			return err
		}
		b.send(ctx, chatID, principleText(p), entryButtons(p.Number))
	case "next":
		u, err = b.users.AdvancePrinciple(ctx, u.ID)
		if err != nil {
			return err
		}
		p, err := b.principles.Get(ctx, u.CurrentPrinciple)
		if err != nil {
			return err
		}
		b.send(ctx, chatID, todayText(p), entryButtons(p.Number))
	case "stats":
		st, err := b.stats.Get(ctx, u.ID, b.now(), u.Location(b.loc))
		if err != nil {
			return err
		}
		b.send(ctx, chatID, statsText(st), nil)
	case "settings":
		b.send(ctx, chatID, settingsText(u), settingsButtons(u))
	default:
		b.send(ctx, chatID, helpText, nil)
	}
	return nil
}

// handleText stores free text as an entry when the user asked to write one.
func (b *Bot) handleText(ctx context.Context, m *tgbotapi.Message) error {
	u, _, err := b.users.FindOrCreateByTelegram(ctx, identity(m.From))
	if err != nil {
		return err
	}
	if u.AwaitingEntryPrinciple == nil {
		b.send(ctx, m.Chat.ID, "Tap ✍️ Write under today's principle to add an entry, or see /help.", nil)
		return nil
	}
	res, err := b.journal.Create(ctx, u.ID, journal.CreateEntryInput{
		PrincipleID: lo.ToPtr(*u.AwaitingEntryPrinciple),
		Content:     m.Text,
		Category:    types.EntryCategoryReflection,
		Source:      types.EntrySourceTelegram,
	})
	if err != nil {
		return err
	}
	if err := b.users.SetAwaitingEntry(ctx, u.ID, nil); err != nil {
		return err
	}
	b.send(ctx, m.Chat.ID, savedText(streakOf(res), res.Unlocked)+"\nHow was your mood?", moodButtons(res.Entry.PrincipleID, res.Entry.ID))
	return nil
}

func streakOf(res *journal.CreateResult) int {
	if res == nil || res.Stats == nil {
		return 0
	}
	return res.Stats.StreakDays
}

func (b *Bot) handleCallback(ctx context.Context, q *tgbotapi.CallbackQuery) error {
	cb, err := ParseCallback(q.Data)
	if err != nil {
		b.answer(ctx, q.ID, "This button is no longer valid")
		return nil
	}
	u, _, err := b.users.FindOrCreateByTelegram(ctx, identity(q.From))
	if err != nil {
		b.answer(ctx, q.ID, "")
		return err
	}

	switch cb.Action {
	case ActionWrite:
		if err := b.users.SetAwaitingEntry(ctx, u.ID, lo.ToPtr(cb.Principle)); err != nil {
			b.answer(ctx, q.ID, "")
			return err
		}
		b.answer(ctx, q.ID, "")
		b.edit(ctx, q.Message, "Write your reflection as a reply to this chat.", nil)
	case ActionDone, ActionSkip:
		in := journal.CreateEntryInput{PrincipleID: lo.ToPtr(cb.Principle), Source: types.EntrySourceTelegram}
		if cb.Action == ActionDone {
			in.IsCompleted = true
		} else {
			in.IsSkipped = true
		}
		res, err := b.journal.Create(ctx, u.ID, in)
		if err != nil {
			b.answer(ctx, q.ID, "")
			return err
		}
		if cb.Action == ActionSkip {
			b.answer(ctx, q.ID, "Skipped")
			b.edit(ctx, q.Message, "Skipped for today. See you tomorrow.", nil)
			return nil
		}
		b.answer(ctx, q.ID, "Done")
		b.edit(ctx, q.Message, savedText(streakOf(res), res.Unlocked)+"\nHow was your mood?", moodButtons(cb.Principle, res.Entry.ID))
	case ActionMood:
		entryID, score, err := ParseMoodExtra(cb.Extra)
		if err != nil {
			b.answer(ctx, q.ID, "This button is no longer valid")
			return nil
		}
		if _, err := b.journal.Update(ctx, u.ID, entryID, journal.UpdateEntryInput{Mood: lo.ToPtr(score)}); err != nil {
			b.answer(ctx, q.ID, "")
			return err
		}
		b.answer(ctx, q.ID, "Saved")
		b.edit(ctx, q.Message, fmt.Sprintf("Mood saved: %d/10. Thank you!", score), nil)
	case ActionNotif:
		nt := types.NotificationType(cb.Extra)
		u, err = b.users.UpdateSettings(ctx, u.ID, user.SettingsPatch{NotificationType: &nt})
		if err != nil {
			b.answer(ctx, q.ID, "")
			return err
		}
		b.answer(ctx, q.ID, "Settings updated")
		b.edit(ctx, q.Message, settingsText(u), settingsButtons(u))
	case ActionPrinciple:
		p, err := b.principles.Get(ctx, cb.Principle)
		if err != nil {
			b.answer(ctx, q.ID, "")
			return err
		}
		b.answer(ctx, q.ID, "")
		if q.Message != nil {
			b.send(ctx, q.Message.Chat.ID, principleText(p), entryButtons(p.Number))
		}
	}
	return nil
}
