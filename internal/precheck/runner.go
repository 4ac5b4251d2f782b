package precheck

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/antounmoubarak/fsdr-precheck/internal/logging"
	"github.com/antounmoubarak/fsdr-precheck/internal/metrics"
	"github.com/antounmoubarak/fsdr-precheck/internal/model"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RunnerConfig holds configuration for creating a Runner.
type RunnerConfig struct {
	// Factory creates region-bound API clients
	Factory ClientFactory

	// Notifier publishes failure notifications (nil disables them)
	Notifier Notifier

	// Metrics records run metrics (optional)
	Metrics *metrics.Metrics

	// Logger is the structured logger
	Logger *zap.Logger

	// PollInterval is the time between status reads (default: 30 seconds)
	PollInterval time.Duration

	// Timeout bounds each plan's precheck (default: 2 hours)
	Timeout time.Duration

	// Now returns the current time (default: time.Now)
	Now func() time.Time

	// RunID identifies the run in logs and reports (default: random UUID)
	RunID string
}

// Runner executes a full precheck run against one protection group.
type Runner struct {
	resolver   *Resolver
	enumerator *Enumerator
	invoker    *Invoker
	reporter   *Reporter
	notifier   Notifier
	metrics    *metrics.Metrics
	logger     *zap.Logger
	now        func() time.Time
	runID      string
}

// NewRunner creates a runner.
func NewRunner(config RunnerConfig) *Runner {
	now := config.Now
	if now == nil {
		now = time.Now
	}

	runID := config.RunID
	if runID == "" {
		runID = uuid.NewString()
	}

	logger := config.Logger.With(zap.String(logging.FieldRunID, runID))

	return &Runner{
		resolver:   NewResolver(config.Factory, logger),
		enumerator: NewEnumerator(logger),
		invoker: NewInvoker(InvokerConfig{
			Logger:       logger,
			PollInterval: config.PollInterval,
			Timeout:      config.Timeout,
			Now:          now,
		}),
		reporter: NewReporter(config.Notifier, config.Metrics, logger),
		notifier: config.Notifier,
		metrics:  config.Metrics,
		logger:   logger,
		now:      now,
		runID:    runID,
	}
}

// Run prechecks every active plan of the standby group for drpgID, one at a
// time in listing order, and reports the result.
//
// A non-nil error means the run aborted. Plan failures are not errors; they
// are recorded in the returned Summary.
func (r *Runner) Run(ctx context.Context, drpgID string) (*model.Summary, error) {
	summary := &model.Summary{
		RunID:       r.runID,
		RequestedID: drpgID,
		StartedAt:   r.now(),
	}

	r.logger.Info("Starting precheck run", zap.String(logging.FieldDRPGID, drpgID))

	res, err := r.resolver.Resolve(ctx, drpgID)
	if err != nil {
		return nil, r.abort(ctx, drpgID, res, err)
	}
	summary.ProtectionGroup = *res.Target

	plans, err := r.enumerator.ActivePlans(ctx, res.Client, res.Target)
	if err != nil {
		return nil, r.abort(ctx, drpgID, res, err)
	}

	for i, plan := range plans {
		r.logger.Info("Prechecking DR plan",
			zap.Int("index", i+1),
			zap.Int("total", len(plans)),
			zap.String(logging.FieldPlanName, plan.DisplayName),
		)

		outcome, err := r.invoker.Precheck(ctx, res.Client, res.Target, plan)
		if err != nil {
			r.logger.Error("Precheck run interrupted", zap.Error(err))
			return nil, fmt.Errorf("precheck run interrupted: %w", err)
		}

		summary.Outcomes = append(summary.Outcomes, outcome)
		if r.metrics != nil {
			r.metrics.ObservePrecheck(outcome)
		}
	}

	summary.FinishedAt = r.now()
	r.reporter.Report(ctx, summary)

	return summary, nil
}

// abort logs a fatal error and notifies about it when a topic is configured.
// Malformed input is not notified since the run never reached the API.
func (r *Runner) abort(ctx context.Context, drpgID string, res *Resolution, err error) error {
	r.logger.Error("Precheck run aborted", zap.String(logging.FieldDRPGID, drpgID), zap.Error(err))

	if r.notifier == nil || ctx.Err() != nil || errors.Is(err, model.ErrInvalidOCID) {
		return err
	}

	id, name := drpgID, ""
	switch {
	case res == nil:
	case !res.Switched && res.Requested.Role == model.RolePrimary && res.Requested.HasPeer():
		// The peer lookup failed; the peer is the group that could not be checked.
		id = res.Requested.PeerID
	default:
		id, name = res.Target.ID, res.Target.DisplayName
	}

	nerr := r.notifier.NotifyFatal(ctx, id, name, err)
	if r.metrics != nil {
		r.metrics.ObserveNotification(nerr)
	}
	if nerr != nil {
		r.logger.Error("Failed to send notification", zap.Error(nerr))
	}

	return err
}
