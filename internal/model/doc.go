// Package model provides the data structures shared by the precheck tool.
//
// The types in this package mirror the OCI Full Stack Disaster Recovery
// resources the tool reads, reduced to the fields the run needs:
//   - ProtectionGroup: a DR protection group and its pairing with a peer
//   - Plan: a DR plan belonging to a protection group
//   - Execution: an asynchronous plan execution (the precheck work request)
//   - Outcome: the terminal result of one plan's precheck
//   - Summary: the aggregated result of a single run
//
// Nothing here talks to the network. Conversion from SDK types happens in
// the oci package so the orchestration can be tested with plain values.
package model
