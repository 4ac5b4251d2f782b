package precheck

import (
	"context"
	"fmt"

	"github.com/antounmoubarak/fsdr-precheck/internal/logging"
	"github.com/antounmoubarak/fsdr-precheck/internal/model"
	"go.uber.org/zap"
)

// Enumerator selects the plans of a protection group that can be prechecked.
type Enumerator struct {
	logger *zap.Logger
}

// NewEnumerator creates an enumerator.
func NewEnumerator(logger *zap.Logger) *Enumerator {
	return &Enumerator{logger: logger.With(zap.String(logging.FieldComponent, "enumerator"))}
}

// ActivePlans returns the ACTIVE plans of group in listing order.
//
// A plan being created, updated or deleted aborts the run with
// model.ErrPlansInTransition, and a group with no ACTIVE plan aborts it with
// model.ErrNoActivePlans. Plans in any other state are skipped.
func (e *Enumerator) ActivePlans(ctx context.Context, client DisasterRecovery, group *model.ProtectionGroup) ([]model.Plan, error) {
	plans, err := client.ListPlans(ctx, group.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to list DR plans: %w", err)
	}

	var active []model.Plan
	for _, p := range plans {
		if p.InTransition() {
			e.logger.Error("DR plan is in a transitional state",
				zap.String(logging.FieldPlanID, p.ID),
				zap.String(logging.FieldPlanName, p.DisplayName),
				zap.String(logging.FieldState, string(p.LifecycleState)),
			)
			return nil, fmt.Errorf("%w: %s is %s", model.ErrPlansInTransition, p.DisplayName, p.LifecycleState)
		}

		if !p.IsActive() {
			e.logger.Debug("Skipping DR plan",
				zap.String(logging.FieldPlanName, p.DisplayName),
				zap.String(logging.FieldState, string(p.LifecycleState)),
			)
			continue
		}
		active = append(active, p)
	}

	if len(active) == 0 {
		return nil, fmt.Errorf("%w in %s (%s)", model.ErrNoActivePlans, group.DisplayName, group.ID)
	}

	e.logger.Info("Found active DR plans",
		zap.String(logging.FieldDRPGName, group.DisplayName),
		zap.Int("count", len(active)),
	)

	return active, nil
}
