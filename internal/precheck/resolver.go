package precheck

import (
	"context"
	"fmt"

	"github.com/antounmoubarak/fsdr-precheck/internal/logging"
	"github.com/antounmoubarak/fsdr-precheck/internal/model"
	"github.com/antounmoubarak/fsdr-precheck/internal/util"
	"go.uber.org/zap"
)

// Resolution is the protection group a run targets.
type Resolution struct {
	// Requested is the group named on the command line.
	Requested *model.ProtectionGroup

	// Target is the group prechecks run against. It differs from Requested
	// when Requested is the primary.
	Target *model.ProtectionGroup

	// Client is bound to Target's region.
	Client DisasterRecovery

	// Switched is true when Target is the peer of Requested.
	Switched bool
}

// Resolver turns a protection group OCID into the standby group to precheck.
type Resolver struct {
	factory ClientFactory
	logger  *zap.Logger
}

// NewResolver creates a resolver that looks groups up through factory.
func NewResolver(factory ClientFactory, logger *zap.Logger) *Resolver {
	return &Resolver{
		factory: factory,
		logger:  logger.With(zap.String(logging.FieldComponent, "resolver")),
	}
}

// Resolve validates drpgID, fetches the group from its home region and
// switches to the peer when the group is primary.
//
// On error the returned Resolution is non-nil once the requested group has
// been fetched, so callers can name the group in a notification.
func (r *Resolver) Resolve(ctx context.Context, drpgID string) (*Resolution, error) {
	if err := util.ValidateDRPGOCID(drpgID); err != nil {
		return nil, err
	}

	region, err := util.RegionFromOCID(drpgID)
	if err != nil {
		return nil, err
	}

	group, client, err := r.lookup(ctx, drpgID, region)
	if err != nil {
		return nil, err
	}

	r.logger.Info("Resolved protection group",
		zap.String(logging.FieldDRPGID, group.ID),
		zap.String(logging.FieldDRPGName, group.DisplayName),
		zap.String(logging.FieldRole, string(group.Role)),
		zap.String(logging.FieldRegion, region),
	)

	res := &Resolution{Requested: group, Target: group, Client: client}

	switch group.Role {
	case model.RoleUnconfigured:
		return res, fmt.Errorf("%w: %s (%s)", model.ErrUnconfigured, group.DisplayName, group.ID)

	case model.RolePrimary:
		if !group.HasPeer() {
			return res, fmt.Errorf("%w: %s (%s)", model.ErrMissingPeer, group.DisplayName, group.ID)
		}

		r.logger.Warn("Protection group is PRIMARY, switching to its standby peer",
			zap.String(logging.FieldDRPGID, group.PeerID),
			zap.String(logging.FieldRegion, group.PeerRegion),
		)

		peerRegion, err := util.NormalizeRegion(group.PeerRegion)
		if err != nil {
			return res, err
		}

		peer, peerClient, err := r.lookup(ctx, group.PeerID, peerRegion)
		if err != nil {
			return res, fmt.Errorf("failed to get peer protection group: %w", err)
		}

		res.Target = peer
		res.Client = peerClient
		res.Switched = true

		r.logger.Info("Resolved standby protection group",
			zap.String(logging.FieldDRPGID, peer.ID),
			zap.String(logging.FieldDRPGName, peer.DisplayName),
			zap.String(logging.FieldRole, string(peer.Role)),
			zap.String(logging.FieldRegion, peerRegion),
		)
	}

	if !res.Target.IsActive() {
		return res, fmt.Errorf("%w: %s (%s) is %s",
			model.ErrStandbyInactive, res.Target.DisplayName, res.Target.ID, res.Target.LifecycleState)
	}

	return res, nil
}

func (r *Resolver) lookup(ctx context.Context, id, region string) (*model.ProtectionGroup, DisasterRecovery, error) {
	client, err := r.factory.ForRegion(region)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create client for region %s: %w", region, err)
	}

	group, err := client.GetProtectionGroup(ctx, id)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to get protection group %s: %w", id, err)
	}
	group.Region = region

	return group, client, nil
}
