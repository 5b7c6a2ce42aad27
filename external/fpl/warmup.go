package fpl

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/fpl-team-builder/internal/platform/logging"
	"github.com/robfig/cron/v3"
)

const (
	defaultWarmupSchedule = "@every 5m"
	warmupTimeout         = 30 * time.Second
)

// Warmer refreshes the bootstrap and fixtures cache on a cron schedule so
// request paths rarely wait on the upstream API.
type Warmer struct {
	client   *Client
	cron     *cron.Cron
	schedule string
	logger   *logging.Logger
}

func NewWarmer(client *Client, schedule string, logger *logging.Logger) (*Warmer, error) {
	if client == nil {
		return nil, fmt.Errorf("fpl warmer requires a client")
	}
	if logger == nil {
		logger = logging.Default()
	}
	schedule = strings.TrimSpace(schedule)
	if schedule == "" {
		schedule = defaultWarmupSchedule
	}

	w := &Warmer{
		client:   client,
		schedule: schedule,
		logger:   logger.Named("fpl.warmer"),
	}
	cronLogger := cronLogAdapter{logger: w.logger}
	w.cron = cron.New(
		cron.WithLogger(cronLogger),
		cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)),
	)
	if _, err := w.cron.AddFunc(schedule, func() { _ = w.Refresh(context.Background()) }); err != nil {
		return nil, fmt.Errorf("parse warmup schedule %q: %w", schedule, err)
	}
	return w, nil
}

// Start kicks off one refresh in the background, then hands over to the
// scheduler. The first refresh stops when ctx is cancelled.
func (w *Warmer) Start(ctx context.Context) {
	go func() { _ = w.Refresh(ctx) }()
	w.cron.Start()
	w.logger.Info("fpl cache warmer started", "schedule", w.schedule)
}

// Stop waits for a running refresh to finish or ctx to expire.
func (w *Warmer) Stop(ctx context.Context) {
	done := w.cron.Stop()
	select {
	case <-done.Done():
	case <-ctx.Done():
	}
}

// Refresh drops the cached shared payloads and fetches them again.
func (w *Warmer) Refresh(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, warmupTimeout)
	defer cancel()

	started := time.Now()
	w.client.Invalidate(ctx, bootstrapPath)
	w.client.Invalidate(ctx, fixturesPath)

	if _, err := w.client.bootstrap(ctx); err != nil {
		w.logger.WarnContext(ctx, "fpl warmup failed", "path", bootstrapPath, "error", err)
		return err
	}
	if _, err := w.client.ListFixtures(ctx); err != nil {
		w.logger.WarnContext(ctx, "fpl warmup failed", "path", fixturesPath, "error", err)
		return err
	}

	w.logger.DebugContext(ctx, "fpl warmup complete", "duration_ms", time.Since(started).Milliseconds())
	return nil
}

type cronLogAdapter struct {
	logger *logging.Logger
}

func (a cronLogAdapter) Info(msg string, keysAndValues ...interface{}) {
	a.logger.Debug(msg, keysAndValues...)
}

func (a cronLogAdapter) Error(err error, msg string, keysAndValues ...interface{}) {
	a.logger.Error(msg, append(keysAndValues, "error", err)...)
}
