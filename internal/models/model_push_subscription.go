package models

import "time"

// PushSubscription is a browser Web Push endpoint with its encryption keys.
type PushSubscription struct {
	ID        string    `gorm:"column:id;type:uuid;primary_key" json:"id"`
	UserID    string    `gorm:"column:user_id;type:uuid;not null;index" json:"user_id"`
	Endpoint  string    `gorm:"column:endpoint;type:text;not null;uniqueIndex" json:"endpoint"`
	P256dh    string    `gorm:"column:p256dh;type:varchar(255);not null" json:"p256dh"`
	Auth      string    `gorm:"column:auth;type:varchar(255);not null" json:"auth"`
	UserAgent string    `gorm:"column:user_agent;type:varchar(255)" json:"user_agent"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (PushSubscription) TableName() string { return "push_subscriptions" }
