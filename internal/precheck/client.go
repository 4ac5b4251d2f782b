// Package precheck orchestrates a Full Stack DR precheck run.
//
// A run resolves the protection group to precheck (switching to the standby
// peer when given the primary), enumerates its active DR plans, submits a
// precheck execution per plan and polls each one until it reaches a terminal
// state or times out. Results are aggregated into a model.Summary and
// reported once.
//
// The package talks to OCI only through the DisasterRecovery interface so it
// can be exercised with in-memory fakes.
package precheck

import (
	"context"

	"github.com/antounmoubarak/fsdr-precheck/internal/model"
)

// DisasterRecovery is the subset of the Disaster Recovery API a run needs.
// Implementations are bound to a single region.
type DisasterRecovery interface {
	// GetProtectionGroup returns the group with the given OCID.
	GetProtectionGroup(ctx context.Context, id string) (*model.ProtectionGroup, error)

	// ListPlans returns every plan of the group regardless of state.
	ListPlans(ctx context.Context, drpgID string) ([]model.Plan, error)

	// StartPrecheck submits a precheck execution for the plan.
	StartPrecheck(ctx context.Context, plan model.Plan) (*model.Execution, error)

	// GetExecution returns the current state of an execution.
	GetExecution(ctx context.Context, id string) (*model.Execution, error)
}

// ClientFactory hands out region-bound DisasterRecovery clients.
type ClientFactory interface {
	ForRegion(region string) (DisasterRecovery, error)
}

// Notifier publishes failure notifications. A nil Notifier disables them.
type Notifier interface {
	// NotifyFailures sends one message covering every failed outcome of the run.
	NotifyFailures(ctx context.Context, summary *model.Summary) error

	// NotifyFatal sends one message for a run that aborted before completing.
	NotifyFatal(ctx context.Context, drpgID, drpgName string, cause error) error
}
