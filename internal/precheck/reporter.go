package precheck

import (
	"context"

	"github.com/antounmoubarak/fsdr-precheck/internal/logging"
	"github.com/antounmoubarak/fsdr-precheck/internal/metrics"
	"github.com/antounmoubarak/fsdr-precheck/internal/model"
	"go.uber.org/zap"
)

// Reporter logs the result of a run and publishes at most one notification.
type Reporter struct {
	notifier Notifier
	metrics  *metrics.Metrics
	logger   *zap.Logger
}

// NewReporter creates a reporter. notifier may be nil to disable notifications.
func NewReporter(notifier Notifier, m *metrics.Metrics, logger *zap.Logger) *Reporter {
	return &Reporter{
		notifier: notifier,
		metrics:  m,
		logger:   logger.With(zap.String(logging.FieldComponent, "reporter")),
	}
}

// Report records summary and notifies when any plan did not succeed.
// It returns true when a notification was published.
func (r *Reporter) Report(ctx context.Context, summary *model.Summary) bool {
	failed := summary.Failed()

	r.logger.Info("Precheck run complete",
		zap.String(logging.FieldDRPGID, summary.ProtectionGroup.ID),
		zap.String(logging.FieldDRPGName, summary.ProtectionGroup.DisplayName),
		zap.Int("total", len(summary.Outcomes)),
		zap.Int("succeeded", summary.Count(model.OutcomeSucceeded)),
		zap.Int("failed", summary.Count(model.OutcomeFailed)),
		zap.Int("timed_out", summary.Count(model.OutcomeTimedOut)),
		zap.Duration(logging.FieldDuration, summary.FinishedAt.Sub(summary.StartedAt)),
	)

	for _, o := range summary.Outcomes {
		r.logger.Info("Plan result",
			zap.String(logging.FieldPlanName, o.Plan.DisplayName),
			zap.String(logging.FieldPlanType, string(o.Plan.Type)),
			zap.String(logging.FieldOutcome, string(o.Status)),
		)
	}

	if r.metrics != nil {
		r.metrics.ObserveRun(summary)
	}

	if len(failed) == 0 {
		r.logger.Info("All prechecks succeeded")
		return false
	}

	if r.notifier == nil {
		r.logger.Info("No notification topic configured, skipping notification",
			zap.Int("failed", len(failed)))
		return false
	}

	err := r.notifier.NotifyFailures(ctx, summary)
	if r.metrics != nil {
		r.metrics.ObserveNotification(err)
	}
	if err != nil {
		r.logger.Error("Failed to send notification", zap.Error(err))
		return false
	}

	r.logger.Info("Notification sent", zap.Int("failed", len(failed)))
	return true
}
