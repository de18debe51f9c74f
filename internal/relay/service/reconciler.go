package service

import (
	"context"
	"fmt"
	"sync"

	"futures-relay/internal/relay/config"
	"futures-relay/pkg/logger"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Reconciler drives the periodic broker re-sync, session refresh and the bounded
// operating horizon of the relay.
type Reconciler interface {
	Start(ctx context.Context) error
	Stop() context.Context
	Tick(ctx context.Context)
	Expired() bool
}

type reconciler struct {
	relay    RelayService
	notifier Notifier
	cfg      config.Reconciler
	log      *logger.Logger
	cron     *cron.Cron

	mu         sync.Mutex
	ticks      int
	expired    bool
	alertsSent int
	tickEntry  cron.EntryID
	alertEntry cron.EntryID
}

// NewReconciler creates a reconciler on top of the relay service.
func NewReconciler(relay RelayService, notifier Notifier, cfg config.Reconciler, log *logger.Logger) Reconciler {
	cl := cronLogger{log: log.Sugar()}
	return &reconciler{
		relay:    relay,
		notifier: notifier,
		cfg:      cfg,
		log:      log,
		cron:     cron.New(cron.WithLogger(cl), cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl))),
	}
}

// Start schedules the fast tick and starts the cron scheduler.
func (r *reconciler) Start(ctx context.Context) error {
	id, err := r.cron.AddFunc(fmt.Sprintf("@every %s", r.cfg.Interval), func() { r.Tick(ctx) })
	if err != nil {
		return fmt.Errorf("schedule reconcile tick: %w", err)
	}
	r.mu.Lock()
	r.tickEntry = id
	r.mu.Unlock()

	r.cron.Start()
	r.log.Info("Reconciler started",
		logger.StringField("interval", r.cfg.Interval.String()),
		logger.IntField("ticks_per_session", r.cfg.TicksPerSession),
		logger.IntField("session_cycles", r.cfg.SessionCycles),
	)
	return nil
}

// Stop stops the scheduler; the returned context is done once running jobs finish.
func (r *reconciler) Stop() context.Context {
	r.log.Info("Reconciler stopping")
	return r.cron.Stop()
}

// Expired reports whether the operating horizon has been reached.
func (r *reconciler) Expired() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.expired
}

// Tick runs one fast-cadence iteration. Every TicksPerSession ticks the broker
// session and contracts are refreshed; after SessionCycles sessions the relay
// is expired.
func (r *reconciler) Tick(ctx context.Context) {
	r.mu.Lock()
	if r.expired {
		r.mu.Unlock()
		return
	}
	r.ticks++
	ticks := r.ticks
	r.mu.Unlock()

	if _, err := r.relay.Reconcile(ctx); err != nil {
		r.log.ErrorContext(ctx, "Reconcile failed", logger.ErrorField(err))
	}

	if ticks%r.cfg.TicksPerSession != 0 {
		return
	}
	cycle := ticks / r.cfg.TicksPerSession
	if cycle >= r.cfg.SessionCycles {
		r.expire(ctx)
		return
	}

	r.log.InfoContext(ctx, "Refreshing broker session", logger.IntField("cycle", cycle))
	if err := r.relay.RefreshContracts(ctx); err != nil {
		r.log.ErrorContext(ctx, "Session refresh failed", logger.IntField("cycle", cycle), logger.ErrorField(err))
	}
}

func (r *reconciler) expire(ctx context.Context) {
	r.mu.Lock()
	r.expired = true
	tickEntry := r.tickEntry
	r.mu.Unlock()

	r.cron.Remove(tickEntry)
	r.relay.Expire(ctx)
	r.sendExpiryAlert(ctx)

	if r.cfg.ExpiryAlertCount <= 1 {
		return
	}
	id, err := r.cron.AddFunc(fmt.Sprintf("@every %s", r.cfg.ExpiryAlertInterval), func() { r.sendExpiryAlert(ctx) })
	if err != nil {
		r.log.ErrorContext(ctx, "Failed to schedule expiry alerts", logger.ErrorField(err))
		return
	}
	r.mu.Lock()
	r.alertEntry = id
	r.mu.Unlock()
}

func (r *reconciler) sendExpiryAlert(ctx context.Context) {
	r.mu.Lock()
	if r.alertsSent >= r.cfg.ExpiryAlertCount {
		r.mu.Unlock()
		return
	}
	r.alertsSent++
	sent := r.alertsSent
	done := sent >= r.cfg.ExpiryAlertCount
	alertEntry := r.alertEntry
	r.mu.Unlock()

	if err := r.notifier.SendMessage(ExpiryMessage); err != nil {
		r.log.ErrorContext(ctx, "Failed to send expiry alert", logger.ErrorField(err))
	}
	r.log.InfoContext(ctx, "Expiry alert sent", logger.IntField("sent", sent), logger.IntField("total", r.cfg.ExpiryAlertCount))
	if done && alertEntry != 0 {
		r.cron.Remove(alertEntry)
	}
}

// cronLogger adapts the zap logger to cron.Logger.
type cronLogger struct {
	log *zap.SugaredLogger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debugw(msg, keysAndValues...)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.log.Errorw(msg, append(keysAndValues, "error", err)...)
}
