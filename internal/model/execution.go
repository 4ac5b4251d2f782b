package model

// ExecutionState is the lifecycle state of a plan execution.
type ExecutionState string

const (
	ExecutionAccepted   ExecutionState = "ACCEPTED"
	ExecutionInProgress ExecutionState = "IN_PROGRESS"
	ExecutionWaiting    ExecutionState = "WAITING"
	ExecutionPausing    ExecutionState = "PAUSING"
	ExecutionPaused     ExecutionState = "PAUSED"
	ExecutionResuming   ExecutionState = "RESUMING"
	ExecutionCanceling  ExecutionState = "CANCELING"
	ExecutionCanceled   ExecutionState = "CANCELED"
	ExecutionSucceeded  ExecutionState = "SUCCEEDED"
	ExecutionFailed     ExecutionState = "FAILED"
	ExecutionDeleting   ExecutionState = "DELETING"
	ExecutionDeleted    ExecutionState = "DELETED"
)

// Terminal reports whether no further transition is expected.
func (s ExecutionState) Terminal() bool {
	switch s {
	case ExecutionSucceeded, ExecutionFailed, ExecutionCanceled, ExecutionDeleted:
		return true
	}
	return false
}

// Execution is an asynchronous plan execution handle.
type Execution struct {
	// ID is the execution OCID, used to poll for status.
	ID string

	// PlanID is the plan the execution runs.
	PlanID string

	// LifecycleState is the most recently observed state.
	LifecycleState ExecutionState
}
