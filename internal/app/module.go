package app

import (
	"time"

	"github.com/fatflowers/karma/internal/app/api/server"
	"github.com/fatflowers/karma/internal/app/service/achievement"
	"github.com/fatflowers/karma/internal/app/service/ai"
	"github.com/fatflowers/karma/internal/app/service/bot"
	"github.com/fatflowers/karma/internal/app/service/budget"
	"github.com/fatflowers/karma/internal/app/service/journal"
	notificationhandler "github.com/fatflowers/karma/internal/app/service/notification_handler"
	notificationlog "github.com/fatflowers/karma/internal/app/service/notification_log"
	"github.com/fatflowers/karma/internal/app/service/notify"
	"github.com/fatflowers/karma/internal/app/service/principle"
	"github.com/fatflowers/karma/internal/app/service/reminder"
	"github.com/fatflowers/karma/internal/app/service/statistics"
	"github.com/fatflowers/karma/internal/app/service/stats"
	"github.com/fatflowers/karma/internal/app/service/subscription"
	"github.com/fatflowers/karma/internal/app/service/transaction"
	"github.com/fatflowers/karma/internal/app/service/user"
	"github.com/fatflowers/karma/internal/platform/db"
	"github.com/fatflowers/karma/internal/platform/openai"
	"github.com/fatflowers/karma/internal/platform/telegram"
	"github.com/fatflowers/karma/internal/platform/wayforpay"
	"github.com/fatflowers/karma/internal/platform/webpush"
	"github.com/fatflowers/karma/pkg/auth"
	"github.com/fatflowers/karma/pkg/config"
	"github.com/fatflowers/karma/pkg/logger"

	"go.uber.org/fx"
)

const (
	DefaultStartTimeout = 15 * time.Second
	DefaultStopTimeout  = 10 * time.Second
)

var Module = fx.Options(
	logger.Module,
	config.Module,
	db.Module,
	auth.Module,

	telegram.Module,
	wayforpay.Module,
	webpush.Module,
	openai.Module,

	principle.Module,
	stats.Module,
	achievement.Module,
	user.Module,
	journal.Module,
	transaction.Module,
	subscription.Module,
	notificationlog.Module,
	notificationhandler.Module,
	budget.Module,
	ai.Module,
	notify.Module,
	reminder.Module,
	bot.Module,
	statistics.Module,

	server.Module,
)
