package oci

import (
	"fmt"

	"github.com/oracle/oci-go-sdk/v65/disasterrecovery"

	"github.com/antounmoubarak/fsdr-precheck/internal/model"
)

func protectionGroupFromSDK(g disasterrecovery.DrProtectionGroup) *model.ProtectionGroup {
	return &model.ProtectionGroup{
		ID:             deref(g.Id),
		DisplayName:    deref(g.DisplayName),
		Role:           model.Role(g.Role),
		LifecycleState: model.GroupState(g.LifecycleState),
		PeerID:         deref(g.PeerId),
		PeerRegion:     deref(g.PeerRegion),
	}
}

func planFromSDK(p disasterrecovery.DrPlanSummary) model.Plan {
	return model.Plan{
		ID:             deref(p.Id),
		DisplayName:    deref(p.DisplayName),
		Type:           model.PlanType(p.Type),
		LifecycleState: model.PlanState(p.LifecycleState),
	}
}

func executionFromSDK(e disasterrecovery.DrPlanExecution) *model.Execution {
	return &model.Execution{
		ID:             deref(e.Id),
		PlanID:         deref(e.PlanId),
		LifecycleState: model.ExecutionState(e.LifecycleState),
	}
}

// precheckOptions returns the precheck execution option for a plan type.
func precheckOptions(t model.PlanType) (disasterrecovery.DrPlanExecutionOptionDetails, error) {
	switch t {
	case model.PlanTypeSwitchover:
		return disasterrecovery.SwitchoverPrecheckExecutionOptionDetails{}, nil
	case model.PlanTypeFailover:
		return disasterrecovery.FailoverPrecheckExecutionOptionDetails{}, nil
	case model.PlanTypeStartDrill:
		return disasterrecovery.StartDrillPrecheckExecutionOptionDetails{}, nil
	case model.PlanTypeStopDrill:
		return disasterrecovery.StopDrillPrecheckExecutionOptionDetails{}, nil
	}
	return nil, fmt.Errorf("%w: %s", model.ErrUnknownPlanType, t)
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
