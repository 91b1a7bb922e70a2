package logger

import (
	"fmt"

	"github.com/fatflowers/karma/pkg/config"

	"go.uber.org/fx"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func New(cfg *config.Config) (*zap.SugaredLogger, error) {
	zcfg := zap.NewProductionConfig()
	if cfg.Env == config.EnvDev {
		zcfg.Development = true
		zcfg.Sampling = nil
	}
	if cfg.Log.Level != "" {
		level, err := zap.ParseAtomicLevel(cfg.Log.Level)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", cfg.Log.Level, err)
		}
		zcfg.Level = level
	}
	zcfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	zcfg.EncoderConfig.TimeKey = "time"
	l, err := zcfg.Build()
	if err != nil {
		return nil, err
	}
	return l.Sugar().With("service", "karma"), nil
}

// LogConfigWarnings prints the boot checklist.
func LogConfigWarnings(log *zap.SugaredLogger, cfg *config.Config) {
	for _, w := range cfg.Validate() {
		log.Warnw("config_check", "warning", w)
	}
}

var Module = fx.Options(
	fx.Provide(New),
	fx.Invoke(LogConfigWarnings),
)
