package model

// Role is the pairing role of a protection group.
type Role string

const (
	// RolePrimary is the active side of a pair.
	RolePrimary Role = "PRIMARY"

	// RoleStandby holds failover readiness for the primary.
	RoleStandby Role = "STANDBY"

	// RoleUnconfigured means the group has not been associated with a peer.
	RoleUnconfigured Role = "UNCONFIGURED"
)

// GroupState is the lifecycle state of a protection group.
type GroupState string

const (
	GroupStateCreating       GroupState = "CREATING"
	GroupStateActive         GroupState = "ACTIVE"
	GroupStateUpdating       GroupState = "UPDATING"
	GroupStateInactive       GroupState = "INACTIVE"
	GroupStateNeedsAttention GroupState = "NEEDS_ATTENTION"
	GroupStateDeleting       GroupState = "DELETING"
	GroupStateDeleted        GroupState = "DELETED"
	GroupStateFailed         GroupState = "FAILED"
)

// ProtectionGroup is a DR protection group as seen by the precheck run.
type ProtectionGroup struct {
	// ID is the protection group OCID.
	ID string `yaml:"id"`

	// DisplayName is the user-facing name, used in logs and notifications.
	DisplayName string `yaml:"display_name"`

	// Role is the current pairing role.
	Role Role `yaml:"role"`

	// LifecycleState is the current lifecycle state.
	LifecycleState GroupState `yaml:"lifecycle_state"`

	// PeerID is the OCID of the paired group, empty when unpaired.
	PeerID string `yaml:"peer_id,omitempty"`

	// PeerRegion is the canonical region name of the peer (e.g. "us-phoenix-1").
	PeerRegion string `yaml:"peer_region,omitempty"`

	// Region is the region the group was looked up in.
	Region string `yaml:"region"`
}

// HasPeer reports whether the group knows where its peer lives.
func (g *ProtectionGroup) HasPeer() bool {
	return g.PeerID != "" && g.PeerRegion != ""
}

// IsActive reports whether the group can accept a new plan execution.
func (g *ProtectionGroup) IsActive() bool {
	return g.LifecycleState == GroupStateActive
}
