package model

import "time"

// OutcomeStatus is the terminal result of a plan's precheck as reported by the run.
type OutcomeStatus string

const (
	OutcomeSucceeded OutcomeStatus = "SUCCEEDED"
	OutcomeFailed    OutcomeStatus = "FAILED"
	OutcomeTimedOut  OutcomeStatus = "TIMED_OUT"
)

// Outcome records what happened to one plan's precheck.
type Outcome struct {
	Plan Plan `yaml:"plan"`

	Status OutcomeStatus `yaml:"status"`

	// ExecutionID is empty when the precheck could not be submitted.
	ExecutionID string `yaml:"execution_id,omitempty"`

	// FinalState is the last execution state observed before the outcome was decided.
	FinalState ExecutionState `yaml:"final_state,omitempty"`

	Elapsed time.Duration `yaml:"elapsed"`

	// Error carries the reason for a non-successful outcome.
	Error string `yaml:"error,omitempty"`
}

// Succeeded reports whether the precheck passed.
func (o Outcome) Succeeded() bool {
	return o.Status == OutcomeSucceeded
}

// Summary is the aggregated result of one run against a protection group.
type Summary struct {
	RunID string `yaml:"run_id"`

	// ProtectionGroup is the group the prechecks ran against (the standby after resolution).
	ProtectionGroup ProtectionGroup `yaml:"protection_group"`

	// RequestedID is the OCID the run was started with.
	RequestedID string `yaml:"requested_id"`

	Outcomes []Outcome `yaml:"outcomes"`

	StartedAt  time.Time `yaml:"started_at"`
	FinishedAt time.Time `yaml:"finished_at"`
}

// Failed returns the outcomes that did not succeed, in run order.
func (s *Summary) Failed() []Outcome {
	var failed []Outcome
	for _, o := range s.Outcomes {
		if !o.Succeeded() {
			failed = append(failed, o)
		}
	}
	return failed
}

// AllSucceeded reports whether every prechecked plan passed.
func (s *Summary) AllSucceeded() bool {
	return len(s.Failed()) == 0
}

// Count returns the number of outcomes with the given status.
func (s *Summary) Count(status OutcomeStatus) int {
	n := 0
	for _, o := range s.Outcomes {
		if o.Status == status {
			n++
		}
	}
	return n
}
