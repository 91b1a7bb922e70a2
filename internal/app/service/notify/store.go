package notify

import (
	"context"
	"fmt"
	"strings"

	"github.com/fatflowers/karma/internal/models"
	"github.com/fatflowers/karma/pkg/tool"
	"github.com/fatflowers/karma/pkg/types"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SubscribeInput struct {
	Endpoint string `json:"endpoint" binding:"required"`
	Keys     struct {
		P256dh string `json:"p256dh" binding:"required"`
		Auth   string `json:"auth" binding:"required"`
	} `json:"keys"`
	UserAgent string `json:"-"`
}

// PushStore keeps browser push subscriptions. An endpoint belongs to the user who registered it last.
type PushStore struct {
	db    *gorm.DB
	retry tool.RetryPolicy
}

func NewPushStore(db *gorm.DB) *PushStore {
	return &PushStore{db: db, retry: tool.DefaultDBRetry}
}

func (s *PushStore) Subscribe(ctx context.Context, userID string, in SubscribeInput) (*models.PushSubscription, error) {
	if !strings.HasPrefix(in.Endpoint, "https://") {
		return nil, types.InvalidInput("push endpoint must be an https url")
	}
	if in.Keys.P256dh == "" || in.Keys.Auth == "" {
		return nil, types.InvalidInput("push keys are required")
	}
	sub := &models.PushSubscription{
		ID:        tool.GenerateUUIDV7(),
		UserID:    userID,
		Endpoint:  in.Endpoint,
		P256dh:    in.Keys.P256dh,
		Auth:      in.Keys.Auth,
		UserAgent: truncate(in.UserAgent, 255),
	}
	err := s.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "endpoint"}},
		DoUpdates: clause.AssignmentColumns([]string{"user_id", "p256dh", "auth", "user_agent", "updated_at"}),
	}).Create(sub).Error
	if err != nil {
		return nil, fmt.Errorf("save push subscription: %w", err)
	}
	return sub, nil
}

// Unsubscribe removes the endpoint if it belongs to userID.
func (s *PushStore) Unsubscribe(ctx context.Context, userID, endpoint string) error {
	res := s.db.WithContext(ctx).Where("user_id = ? AND endpoint = ?", userID, endpoint).Delete(&models.PushSubscription{})
	if res.Error != nil {
		return fmt.Errorf("delete push subscription: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("push subscription: %w", types.ErrNotFound)
	}
	return nil
}

func (s *PushStore) ListByUser(ctx context.Context, userID string) ([]*models.PushSubscription, error) {
	return tool.RetryDB(ctx, s.retry, func() ([]*models.PushSubscription, error) {
		var subs []*models.PushSubscription
		if err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at").Find(&subs).Error; err != nil {
			return nil, fmt.Errorf("list push subscriptions: %w", err)
		}
		return subs, nil
	})
}

func (s *PushStore) DeleteByEndpoint(ctx context.Context, endpoint string) error {
	if err := s.db.WithContext(ctx).Where("endpoint = ?", endpoint).Delete(&models.PushSubscription{}).Error; err != nil {
		return fmt.Errorf("delete push subscription: %w", err)
	}
	return nil
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
