package model

import "errors"

// Errors used to classify failures across the resolver, enumerator and
// cloud adapters. Callers match them with errors.Is.

var (
	// ErrInvalidOCID indicates an identifier does not have the expected OCID shape.
	// Always fatal, raised before any API call.
	ErrInvalidOCID = errors.New("invalid OCID")

	// ErrUnknownRegion indicates the region key could not be mapped to a region name.
	ErrUnknownRegion = errors.New("unknown region")

	// ErrNotFound indicates the requested resource does not exist or is not visible
	// to the caller's principal.
	ErrNotFound = errors.New("resource not found")

	// ErrUnconfigured indicates the protection group has no role yet (not paired).
	ErrUnconfigured = errors.New("protection group is unconfigured")

	// ErrMissingPeer indicates a primary protection group reports no peer.
	ErrMissingPeer = errors.New("primary protection group has no peer")

	// ErrStandbyInactive indicates the resolved standby is not in the ACTIVE state.
	ErrStandbyInactive = errors.New("standby protection group is not active")

	// ErrPlansInTransition indicates at least one plan is being created, updated or deleted.
	ErrPlansInTransition = errors.New("DR plans are in a transitional state")

	// ErrNoActivePlans indicates the protection group has no plan in the ACTIVE state.
	ErrNoActivePlans = errors.New("no active DR plans")

	// ErrUnknownPlanType indicates a plan type with no matching precheck option.
	// Per-plan, never fatal.
	ErrUnknownPlanType = errors.New("unknown DR plan type")

	// ErrPrecheckTimeout indicates a precheck did not reach a terminal state in time.
	ErrPrecheckTimeout = errors.New("precheck timed out")
)
