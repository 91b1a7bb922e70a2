package models

// All lists every table managed by auto-migration.
func All() []any {
	return []any{
		&User{},
		&Principle{},
		&JournalEntry{},
		&UserStats{},
		&Subscription{},
		&SubscriptionLog{},
		&PaymentOrder{},
		&PaymentNotificationLog{},
		&AIRequest{},
		&Achievement{},
		&PushSubscription{},
	}
}
