// Package logging provides structured logging utilities for the precheck run.
package logging

// Standard field names for consistent logging across the run.
const (
	// FieldRunID is the unique identifier of one invocation.
	FieldRunID = "run_id"

	// FieldDRPGID is the protection group OCID the operation targets.
	FieldDRPGID = "drpg_id"

	// FieldDRPGName is the protection group display name.
	FieldDRPGName = "drpg_name"

	// FieldRole is the protection group role (PRIMARY, STANDBY, UNCONFIGURED).
	FieldRole = "role"

	// FieldRegion is the OCI region an API call is sent to.
	FieldRegion = "region"

	// FieldPlanID is the DR plan OCID.
	FieldPlanID = "plan_id"

	// FieldPlanName is the DR plan display name.
	FieldPlanName = "plan_name"

	// FieldPlanType is the DR plan type.
	FieldPlanType = "plan_type"

	// FieldExecutionID is the plan execution OCID being polled.
	FieldExecutionID = "execution_id"

	// FieldState is a lifecycle state.
	FieldState = "state"

	// FieldPreviousState is the lifecycle state before a transition.
	FieldPreviousState = "previous_state"

	// FieldOutcome is the final precheck outcome of a plan.
	FieldOutcome = "outcome"

	// FieldTopicID is the notification topic OCID.
	FieldTopicID = "topic_id"

	// FieldDuration is the elapsed time of an operation.
	FieldDuration = "duration"

	// FieldComponent identifies the component generating the log.
	FieldComponent = "component"
)
