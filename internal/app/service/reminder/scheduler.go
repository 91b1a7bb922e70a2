package reminder

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fatflowers/karma/internal/app/service/notify"
	"github.com/fatflowers/karma/internal/models"
	"github.com/fatflowers/karma/pkg/config"
	"github.com/fatflowers/karma/pkg/logctx"
	"github.com/fatflowers/karma/pkg/metrics"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

type UserLister interface {
	ListActive(ctx context.Context) ([]*models.User, error)
}

type TitleResolver interface {
	Title(ctx context.Context, number int) string
}

type Rotator interface {
	RotateAllPrinciples(ctx context.Context) (int64, error)
}

type TrialSweeper interface {
	ExpireTrials(ctx context.Context, now time.Time) (int64, error)
}

// BatchResult counts one firing. A user sent on two channels counts twice in Sent.
type BatchResult struct {
	Kind    Kind `json:"kind"`
	Users   int  `json:"users"`
	Sent    int  `json:"sent"`
	Failed  int  `json:"failed"`
	Skipped int  `json:"skipped"`
}

type Scheduler struct {
	users      UserLister
	titles     TitleResolver
	rotator    Rotator
	trials     TrialSweeper
	senders    []notify.NotificationSender
	cfg        *config.Config
	loc        *time.Location
	log        *zap.SugaredLogger
	cron       *cron.Cron
	jobTimeout time.Duration
}

type Deps struct {
	Users   UserLister
	Titles  TitleResolver
	Rotator Rotator
	Trials  TrialSweeper
	Senders []notify.NotificationSender
}

func NewScheduler(d Deps, cfg *config.Config, log *zap.SugaredLogger) *Scheduler {
	loc := cfg.Location()
	cl := cronLogger{log: log.With("component", "cron")}
	return &Scheduler{
		users:      d.Users,
		titles:     d.Titles,
		rotator:    d.Rotator,
		trials:     d.Trials,
		senders:    d.Senders,
		cfg:        cfg,
		loc:        loc,
		log:        log,
		cron:       cron.New(cron.WithLocation(loc), cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl))),
		jobTimeout: 30 * time.Minute,
	}
}

// RunOnce sends one batch of kind. Users are processed sequentially; delivery errors never abort the batch.
func (s *Scheduler) RunOnce(ctx context.Context, kind Kind, now time.Time) (*BatchResult, error) {
	start := time.Now()
	defer func() {
		metrics.ReminderBatchDuration.WithLabelValues(string(kind)).Observe(float64(time.Since(start).Milliseconds()))
	}()
	log := logctx.FromCtx(ctx, s.log).With("job", "reminder", "kind", kind)

	users, err := s.users.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users for %s reminders: %w", kind, err)
	}
	res := &BatchResult{Kind: kind}
	for _, u := range users {
		if ctx.Err() != nil {
			return res, ctx.Err()
		}
		template, ok := Due(u, kind, now, s.loc)
		if !ok {
			continue
		}
		res.Users++
		msg := Render(template, u.CurrentPrinciple, s.titles.Title(ctx, u.CurrentPrinciple), s.cfg.Server.FrontendURL)
		for _, sender := range s.senders {
			err := sender.Send(ctx, u, msg)
			switch {
			case err == nil:
				res.Sent++
				metrics.ReminderSent.WithLabelValues(sender.Channel(), string(kind), "sent").Inc()
			case errors.Is(err, notify.ErrNoRecipient):
				res.Skipped++
				metrics.ReminderSent.WithLabelValues(sender.Channel(), string(kind), "skipped").Inc()
			default:
				res.Failed++
				metrics.ReminderSent.WithLabelValues(sender.Channel(), string(kind), "failed").Inc()
				log.Warnw("reminder delivery failed", "user_id", u.ID, "channel", sender.Channel(), "error", err)
			}
		}
	}
	if res.Users > 0 {
		log.Infow("reminder batch done", "users", res.Users, "sent", res.Sent, "failed", res.Failed, "skipped", res.Skipped)
	}
	return res, nil
}

func (s *Scheduler) Rotate(ctx context.Context) (int64, error) {
	n, err := s.rotator.RotateAllPrinciples(ctx)
	if err != nil {
		return 0, err
	}
	logctx.FromCtx(ctx, s.log).Infow("principles rotated", "job", "rotation", "users", n)
	return n, nil
}

func (s *Scheduler) SweepTrials(ctx context.Context, now time.Time) (int64, error) {
	return s.trials.ExpireTrials(ctx, now)
}

func (s *Scheduler) job(name string, fn func(ctx context.Context, now time.Time) error) func() {
	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), s.jobTimeout)
		defer cancel()
		ctx = logctx.WithLogger(ctx, s.log.With("job", name))
		if err := fn(ctx, time.Now().In(s.loc)); err != nil {
			s.log.Errorw("scheduled job failed", "job", name, "error", err)
		}
	}
}

func (s *Scheduler) register() error {
	sc := s.cfg.Reminder.Schedule
	specs := map[Kind]string{
		KindMorning:         sc.Morning,
		KindAfternoon:       sc.Afternoon,
		KindEvening:         sc.Evening,
		KindMorningAntidote: sc.MorningAntidote,
		KindEveningAntidote: sc.EveningAntidote,
		KindCustom:          sc.CustomTick,
	}
	for _, kind := range Kinds {
		spec := specs[kind]
		if spec == "" {
			continue
		}
		if _, err := s.cron.AddFunc(spec, s.job("reminder_"+string(kind), func(ctx context.Context, now time.Time) error {
			_, err := s.RunOnce(ctx, kind, now)
			return err
		})); err != nil {
			return fmt.Errorf("schedule %s reminders %q: %w", kind, spec, err)
		}
	}
	if sc.Rotation != "" {
		if _, err := s.cron.AddFunc(sc.Rotation, s.job("rotation", func(ctx context.Context, _ time.Time) error {
			_, err := s.Rotate(ctx)
			return err
		})); err != nil {
			return fmt.Errorf("schedule rotation %q: %w", sc.Rotation, err)
		}
	}
	if sc.TrialSweep != "" {
		if _, err := s.cron.AddFunc(sc.TrialSweep, s.job("trial_sweep", func(ctx context.Context, now time.Time) error {
			_, err := s.SweepTrials(ctx, now)
			return err
		})); err != nil {
			return fmt.Errorf("schedule trial sweep %q: %w", sc.TrialSweep, err)
		}
	}
	return nil
}

func (s *Scheduler) Start() error {
	if err := s.register(); err != nil {
		return err
	}
	s.cron.Start()
	s.log.Infow("reminder scheduler started", "timezone", s.loc.String(), "jobs", len(s.cron.Entries()))
	return nil
}

// Stop waits for running jobs until ctx is done.
func (s *Scheduler) Stop(ctx context.Context) error {
	select {
	case <-s.cron.Stop().Done():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

type cronLogger struct {
	log *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Errorw(msg, append(keysAndValues, "error", err)...)
}
