package user

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fatflowers/karma/internal/app/service/principle"
	"github.com/fatflowers/karma/internal/models"
	"github.com/fatflowers/karma/pkg/config"
	"github.com/fatflowers/karma/pkg/logctx"
	"github.com/fatflowers/karma/pkg/tool"
	"github.com/fatflowers/karma/pkg/types"

	"go.uber.org/zap"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// TelegramIdentity is what Telegram tells us about a user on login or first message.
type TelegramIdentity struct {
	TelegramID int64
	Username   string
	FirstName  string
	Language   string
}

// TrialStarter grants the one-time trial when onboarding completes, inside the caller's transaction.
type TrialStarter interface {
	StartTrial(ctx context.Context, tx *gorm.DB, userID string, now time.Time) (*models.Subscription, error)
}

type Service struct {
	db     *gorm.DB
	log    *zap.SugaredLogger
	cfg    *config.Config
	trials TrialStarter
	retry  tool.RetryPolicy
}

func New(db *gorm.DB, log *zap.SugaredLogger, cfg *config.Config, trials TrialStarter) *Service {
	return &Service{
		db:     db,
		log:    log,
		cfg:    cfg,
		trials: trials,
		retry:  tool.RetryPolicy{Attempts: cfg.Database.RetryAttempts, Delay: cfg.Database.RetryDelay},
	}
}

func (s *Service) newUser(id TelegramIdentity) *models.User {
	tgID := id.TelegramID
	lang := id.Language
	if lang == "" {
		lang = "uk"
	}
	return &models.User{
		ID:               tool.GenerateUUIDV7(),
		TelegramID:       &tgID,
		TelegramUsername: id.Username,
		FirstName:        id.FirstName,
		CurrentPrinciple: 1,
		NotificationType: types.NotificationTypeDaily,
		ReminderMode:     types.ReminderModeStandard,
		MorningTime:      "09:00",
		EveningTime:      "21:00",
		Timezone:         s.cfg.Reminder.Timezone,
		Language:         lang,
		Subscription:     types.PlanNone,
		IsActive:         true,
	}
}

// FindOrCreateByTelegram returns the user for id, creating it and its stats row on first contact.
func (s *Service) FindOrCreateByTelegram(ctx context.Context, id TelegramIdentity) (*models.User, bool, error) {
	if id.TelegramID == 0 {
		return nil, false, types.InvalidInput("telegram id is required")
	}
	var (
		u       models.User
		created bool
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Where("telegram_id = ?", id.TelegramID).First(&u).Error
		switch {
		case err == nil:
			if id.Username != "" && id.Username != u.TelegramUsername {
				u.TelegramUsername = id.Username
				return tx.Model(&u).Update("telegram_username", id.Username).Error
			}
			return nil
		case !errors.Is(err, gorm.ErrRecordNotFound):
			return err
		}

		nu := s.newUser(id)
		if err := tx.Create(nu).Error; err != nil {
			return err
		}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&models.UserStats{UserID: nu.ID}).Error; err != nil {
			return err
		}
		u = *nu
		created = true
		return nil
	})
	if err != nil {
		return nil, false, fmt.Errorf("find or create telegram user %d: %w", id.TelegramID, err)
	}
	if created {
		logctx.FromCtx(ctx, s.log).Infow("user created", "user_id", u.ID, "telegram_id", id.TelegramID)
	}
	return &u, created, nil
}

func (s *Service) Get(ctx context.Context, id string) (*models.User, error) {
	return s.first(ctx, "id = ?", id)
}

func (s *Service) first(ctx context.Context, query string, arg any) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).Where(query, arg).First(&u).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("user: %w", types.ErrNotFound)
		}
		return nil, fmt.Errorf("get user: %w", err)
	}
	return &u, nil
}

// UpdateSettings applies a validated patch and returns the updated user.
func (s *Service) UpdateSettings(ctx context.Context, id string, patch SettingsPatch) (*models.User, error) {
	u, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	changed, err := patch.Apply(u)
	if err != nil {
		return nil, err
	}
	if len(changed) == 0 {
		return u, nil
	}
	if err := s.db.WithContext(ctx).Model(u).Select(changed).Updates(u).Error; err != nil {
		return nil, fmt.Errorf("update settings: %w", err)
	}
	return u, nil
}

// CompleteOnboarding marks onboarding done and grants the trial in the same transaction,
// so the flag is never set without the trial. Later calls are no-ops.
func (s *Service) CompleteOnboarding(ctx context.Context, id string, now time.Time) (*models.User, *models.Subscription, error) {
	u, err := s.Get(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	if u.HasCompletedOnboarding {
		return u, nil, nil
	}
	var trial *models.Subscription
	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&models.User{}).
			Where("id = ? AND has_completed_onboarding = ?", id, false).
			Update("has_completed_onboarding", true)
		if res.Error != nil {
			return fmt.Errorf("complete onboarding: %w", res.Error)
		}
		if res.RowsAffected == 0 {
			return nil
		}
		var err error
		if trial, err = s.trials.StartTrial(ctx, tx, id, now); err != nil {
			return fmt.Errorf("start trial: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	u.HasCompletedOnboarding = true
	if trial != nil {
		u.Subscription = trial.Plan
		logctx.FromCtx(ctx, s.log).Infow("trial started", "user_id", id, "expires_at", trial.ExpiresAt)
	}
	return u, trial, nil
}

func (s *Service) AdvancePrinciple(ctx context.Context, id string) (*models.User, error) {
	u, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	u.CurrentPrinciple = principle.Next(u.CurrentPrinciple)
	if err := s.db.WithContext(ctx).Model(u).Update("current_principle", u.CurrentPrinciple).Error; err != nil {
		return nil, fmt.Errorf("advance principle: %w", err)
	}
	return u, nil
}

func rotateStmt(db *gorm.DB) *gorm.DB {
	return db.Model(&models.User{}).
		Where("is_active = ? AND has_completed_onboarding = ?", true, true).
		UpdateColumn("current_principle", gorm.Expr(
			"CASE WHEN current_principle >= ? THEN 1 ELSE current_principle + 1 END", types.PrincipleCount))
}

// RotateAllPrinciples advances every active onboarded user in one statement.
func (s *Service) RotateAllPrinciples(ctx context.Context) (int64, error) {
	res := rotateStmt(s.db.WithContext(ctx))
	if res.Error != nil {
		return 0, fmt.Errorf("rotate principles: %w", res.Error)
	}
	return res.RowsAffected, nil
}

// ListActive returns every active user. The read is retried.
func (s *Service) ListActive(ctx context.Context) ([]*models.User, error) {
	return tool.RetryDB(ctx, s.retry, func() ([]*models.User, error) {
		var users []*models.User
		if err := s.db.WithContext(ctx).Where("is_active = ?", true).Order("created_at").Find(&users).Error; err != nil {
			return nil, fmt.Errorf("list active users: %w", err)
		}
		return users, nil
	})
}

// SetAwaitingEntry stores which principle the bot is collecting free text for; nil clears it.
func (s *Service) SetAwaitingEntry(ctx context.Context, id string, principleID *int) error {
	if principleID != nil && !types.ValidPrinciple(*principleID) {
		return types.InvalidInput("principle must be between 1 and %d", types.PrincipleCount)
	}
	err := s.db.WithContext(ctx).Model(&models.User{}).Where("id = ?", id).
		Update("awaiting_entry_principle", principleID).Error
	if err != nil {
		return fmt.Errorf("set awaiting entry: %w", err)
	}
	return nil
}
