package precheck

import (
	"context"
	"fmt"
	"time"

	"github.com/antounmoubarak/fsdr-precheck/internal/logging"
	"github.com/antounmoubarak/fsdr-precheck/internal/model"
	"go.uber.org/zap"
)

const (
	// DefaultPollInterval is the time between execution status reads.
	DefaultPollInterval = 30 * time.Second

	// DefaultTimeout bounds how long one plan's precheck may run.
	DefaultTimeout = 2 * time.Hour
)

// precheckState is the run's view of one precheck execution.
type precheckState int

const (
	stateInProgress precheckState = iota
	stateSucceeded
	stateFailed
	stateTimedOut
)

func (s precheckState) String() string {
	switch s {
	case stateInProgress:
		return "in_progress"
	case stateSucceeded:
		return "succeeded"
	case stateFailed:
		return "failed"
	case stateTimedOut:
		return "timed_out"
	}
	return fmt.Sprintf("precheckState(%d)", int(s))
}

// next returns the state that follows observing an execution state.
// Terminal states absorb.
func (s precheckState) next(observed model.ExecutionState, expired bool) precheckState {
	if s != stateInProgress {
		return s
	}

	if observed == model.ExecutionSucceeded {
		return stateSucceeded
	}
	if observed.Terminal() {
		return stateFailed
	}

	if expired {
		return stateTimedOut
	}
	return stateInProgress
}

// InvokerConfig holds configuration for creating an Invoker.
type InvokerConfig struct {
	// Logger is the structured logger
	Logger *zap.Logger

	// PollInterval is the time between status reads (default: 30 seconds)
	PollInterval time.Duration

	// Timeout bounds each plan's precheck (default: 2 hours)
	Timeout time.Duration

	// Now returns the current time (default: time.Now)
	Now func() time.Time
}

// Invoker runs the precheck of a single plan to completion.
type Invoker struct {
	logger   *zap.Logger
	interval time.Duration
	timeout  time.Duration
	now      func() time.Time
}

// NewInvoker creates an invoker.
func NewInvoker(config InvokerConfig) *Invoker {
	interval := config.PollInterval
	if interval <= 0 {
		interval = DefaultPollInterval
	}

	timeout := config.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	now := config.Now
	if now == nil {
		now = time.Now
	}

	return &Invoker{
		logger:   config.Logger.With(zap.String(logging.FieldComponent, "invoker")),
		interval: interval,
		timeout:  timeout,
		now:      now,
	}
}

// pollResult is where polling an execution stopped.
type pollResult struct {
	state    precheckState
	observed model.ExecutionState

	// err is set when the status could not be read.
	err error
}

// Precheck submits a precheck for plan, polls it until it is decided and
// then waits for group to settle back to ACTIVE within the same bound.
//
// Every per-plan problem is folded into the returned Outcome. The error is
// non-nil only when ctx is done.
func (inv *Invoker) Precheck(ctx context.Context, client DisasterRecovery, group *model.ProtectionGroup, plan model.Plan) (model.Outcome, error) {
	logger := inv.logger.With(
		zap.String(logging.FieldPlanID, plan.ID),
		zap.String(logging.FieldPlanName, plan.DisplayName),
		zap.String(logging.FieldPlanType, string(plan.Type)),
	)

	start := inv.now()
	deadline := start.Add(inv.timeout)
	outcome := model.Outcome{Plan: plan}

	finish := func(status model.OutcomeStatus, reason error, elapsed time.Duration) model.Outcome {
		outcome.Status = status
		outcome.Elapsed = elapsed
		if reason != nil {
			outcome.Error = reason.Error()
		}
		return outcome
	}

	if !plan.Type.Known() {
		err := fmt.Errorf("%w: %s", model.ErrUnknownPlanType, plan.Type)
		logger.Error("Cannot precheck DR plan", zap.Error(err))
		return finish(model.OutcomeFailed, err, inv.now().Sub(start)), nil
	}

	logger.Info("Starting precheck")

	exec, err := client.StartPrecheck(ctx, plan)
	if err != nil {
		if ctx.Err() != nil {
			return outcome, ctx.Err()
		}
		err = fmt.Errorf("failed to start precheck: %w", err)
		logger.Error("Precheck failed", zap.Error(err))
		return finish(model.OutcomeFailed, err, inv.now().Sub(start)), nil
	}

	outcome.ExecutionID = exec.ID
	outcome.FinalState = exec.LifecycleState
	logger = logger.With(zap.String(logging.FieldExecutionID, exec.ID))
	logger.Info("Precheck submitted", zap.String(logging.FieldState, string(exec.LifecycleState)))

	result, err := inv.await(ctx, client, exec, deadline, logger)
	if err != nil {
		return outcome, err
	}
	outcome.FinalState = result.observed
	// The settle wait below is not part of the precheck's duration.
	elapsed := inv.now().Sub(start)

	if err := inv.settle(ctx, client, group, deadline, logger); err != nil {
		return outcome, err
	}

	switch result.state {
	case stateSucceeded:
		outcome = finish(model.OutcomeSucceeded, nil, elapsed)
		logger.Info("Precheck succeeded", zap.Duration(logging.FieldDuration, outcome.Elapsed))

	case stateTimedOut:
		outcome = finish(model.OutcomeTimedOut,
			fmt.Errorf("%w after %s in state %s", model.ErrPrecheckTimeout, inv.timeout, result.observed), elapsed)
		logger.Error("Precheck timed out",
			zap.String(logging.FieldState, string(result.observed)),
			zap.Duration(logging.FieldDuration, outcome.Elapsed),
		)

	default:
		reason := result.err
		if reason == nil {
			reason = fmt.Errorf("precheck ended in state %s", result.observed)
		}
		outcome = finish(model.OutcomeFailed, reason, elapsed)
		logger.Error("Precheck failed",
			zap.String(logging.FieldState, string(result.observed)),
			zap.Duration(logging.FieldDuration, outcome.Elapsed),
			zap.Error(reason),
		)
	}

	return outcome, nil
}

// await polls the execution until it leaves the in-progress state.
// The error is non-nil only when ctx is done.
func (inv *Invoker) await(ctx context.Context, client DisasterRecovery, exec *model.Execution, deadline time.Time, logger *zap.Logger) (pollResult, error) {
	ticker := time.NewTicker(inv.interval)
	defer ticker.Stop()

	result := pollResult{state: stateInProgress, observed: exec.LifecycleState}

	for {
		current, err := client.GetExecution(ctx, exec.ID)
		if err != nil {
			if ctx.Err() != nil {
				return result, ctx.Err()
			}
			result.state = stateFailed
			result.err = fmt.Errorf("failed to get precheck status: %w", err)
			return result, nil
		}

		if current.LifecycleState != result.observed {
			logger.Info("Precheck state changed",
				zap.String(logging.FieldPreviousState, string(result.observed)),
				zap.String(logging.FieldState, string(current.LifecycleState)),
			)
			result.observed = current.LifecycleState
		}

		result.state = result.state.next(result.observed, !inv.now().Before(deadline))
		if result.state != stateInProgress {
			return result, nil
		}

		logger.Debug("Precheck in progress", zap.String(logging.FieldState, string(result.observed)))

		select {
		case <-ctx.Done():
			return result, ctx.Err()
		case <-ticker.C:
		}
	}
}

// settle waits for the group to return to ACTIVE so the next plan's
// execution is accepted. Giving up at the deadline is not an error.
func (inv *Invoker) settle(ctx context.Context, client DisasterRecovery, group *model.ProtectionGroup, deadline time.Time, logger *zap.Logger) error {
	ticker := time.NewTicker(inv.interval)
	defer ticker.Stop()

	for {
		current, err := client.GetProtectionGroup(ctx, group.ID)
		switch {
		case err != nil && ctx.Err() != nil:
			return ctx.Err()
		case err != nil:
			logger.Warn("Failed to read protection group state", zap.Error(err))
		case current.IsActive():
			return nil
		default:
			logger.Debug("Waiting for protection group to become ACTIVE",
				zap.String(logging.FieldState, string(current.LifecycleState)))
		}

		if !inv.now().Before(deadline) {
			logger.Warn("Protection group did not return to ACTIVE before the precheck deadline",
				zap.String(logging.FieldDRPGID, group.ID))
			return nil
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
