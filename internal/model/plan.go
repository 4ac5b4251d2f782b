package model

// PlanType is the kind of DR plan.
type PlanType string

const (
	PlanTypeSwitchover PlanType = "SWITCHOVER"
	PlanTypeFailover   PlanType = "FAILOVER"
	PlanTypeStartDrill PlanType = "START_DRILL"
	PlanTypeStopDrill  PlanType = "STOP_DRILL"
)

// Known reports whether the type has a matching precheck option.
func (t PlanType) Known() bool {
	switch t {
	case PlanTypeSwitchover, PlanTypeFailover, PlanTypeStartDrill, PlanTypeStopDrill:
		return true
	}
	return false
}

// PlanState is the lifecycle state of a DR plan.
type PlanState string

const (
	PlanStateCreating       PlanState = "CREATING"
	PlanStateUpdating       PlanState = "UPDATING"
	PlanStateActive         PlanState = "ACTIVE"
	PlanStateInactive       PlanState = "INACTIVE"
	PlanStateNeedsAttention PlanState = "NEEDS_ATTENTION"
	PlanStateDeleting       PlanState = "DELETING"
	PlanStateDeleted        PlanState = "DELETED"
	PlanStateFailed         PlanState = "FAILED"
)

// Plan is a DR plan of a protection group.
type Plan struct {
	// ID is the plan OCID.
	ID string `yaml:"id"`

	// DisplayName is the user-facing plan name.
	DisplayName string `yaml:"display_name"`

	// Type selects which precheck option is submitted for the plan.
	Type PlanType `yaml:"type"`

	// LifecycleState is the plan's lifecycle state. Only ACTIVE plans are prechecked.
	LifecycleState PlanState `yaml:"lifecycle_state"`
}

// IsActive reports whether the plan is actionable.
func (p Plan) IsActive() bool {
	return p.LifecycleState == PlanStateActive
}

// InTransition reports whether the plan is being created, updated or deleted.
func (p Plan) InTransition() bool {
	switch p.LifecycleState {
	case PlanStateCreating, PlanStateUpdating, PlanStateDeleting:
		return true
	}
	return false
}
