package precheck

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/antounmoubarak/fsdr-precheck/internal/model"
)

const (
	standbyID = "ocid1.drprotectiongroup.oc1.phx.standby"
	primaryID = "ocid1.drprotectiongroup.oc1.iad.primary"
	topicID   = "ocid1.onstopic.oc1.iad.topic"
)

// fakeDR is an in-memory Disaster Recovery API for one region.
type fakeDR struct {
	mu sync.Mutex

	groups map[string]*model.ProtectionGroup

	// groupStates overrides the lifecycle state on successive reads of a group.
	// The last entry repeats.
	groupStates map[string][]model.GroupState
	groupReads  map[string]int

	plans   []model.Plan
	listErr error

	// executions scripts the states returned by GetExecution per plan ID.
	// The last entry repeats.
	executions map[string][]model.ExecutionState
	startErr   map[string]error
	pollErr    error

	started  []string
	polls    map[string]int
	inFlight string

	// overlap is set when a precheck was started while another was running.
	overlap bool
}

func newFakeDR() *fakeDR {
	return &fakeDR{
		groups:      make(map[string]*model.ProtectionGroup),
		groupStates: make(map[string][]model.GroupState),
		groupReads:  make(map[string]int),
		executions:  make(map[string][]model.ExecutionState),
		startErr:    make(map[string]error),
		polls:       make(map[string]int),
	}
}

func (f *fakeDR) GetProtectionGroup(_ context.Context, id string) (*model.ProtectionGroup, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	g, ok := f.groups[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", model.ErrNotFound, id)
	}
	out := *g

	if states := f.groupStates[id]; len(states) > 0 {
		i := f.groupReads[id]
		if i >= len(states) {
			i = len(states) - 1
		}
		out.LifecycleState = states[i]
	}
	f.groupReads[id]++

	return &out, nil
}

func (f *fakeDR) ListPlans(_ context.Context, _ string) ([]model.Plan, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.listErr != nil {
		return nil, f.listErr
	}
	return append([]model.Plan(nil), f.plans...), nil
}

func (f *fakeDR) StartPrecheck(_ context.Context, plan model.Plan) (*model.Execution, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := f.startErr[plan.ID]; err != nil {
		return nil, err
	}
	if f.inFlight != "" {
		f.overlap = true
	}

	f.started = append(f.started, plan.ID)
	f.inFlight = plan.ID

	return &model.Execution{
		ID:             "exec-" + plan.ID,
		PlanID:         plan.ID,
		LifecycleState: model.ExecutionAccepted,
	}, nil
}

func (f *fakeDR) GetExecution(ctx context.Context, id string) (*model.Execution, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if f.pollErr != nil {
		return nil, f.pollErr
	}

	planID := strings.TrimPrefix(id, "exec-")
	states := f.executions[planID]
	if len(states) == 0 {
		return nil, errors.New("no scripted states")
	}

	i := f.polls[planID]
	if i >= len(states) {
		i = len(states) - 1
	}
	f.polls[planID]++

	state := states[i]
	if state.Terminal() {
		f.inFlight = ""
	}

	return &model.Execution{ID: id, PlanID: planID, LifecycleState: state}, nil
}

func (f *fakeDR) startedPlans() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.started...)
}

// fakeFactory maps region names to fake clients.
type fakeFactory struct {
	mu      sync.Mutex
	clients map[string]*fakeDR
	regions []string
}

func (f *fakeFactory) ForRegion(region string) (DisasterRecovery, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.regions = append(f.regions, region)
	c, ok := f.clients[region]
	if !ok {
		return nil, fmt.Errorf("no client for region %s", region)
	}
	return c, nil
}

// stepClock advances by step on every read.
type stepClock struct {
	mu   sync.Mutex
	now  time.Time
	step time.Duration
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	t := c.now
	c.now = c.now.Add(c.step)
	return t
}

func standbyGroup() *model.ProtectionGroup {
	return &model.ProtectionGroup{
		ID:             standbyID,
		DisplayName:    "app-standby",
		Role:           model.RoleStandby,
		LifecycleState: model.GroupStateActive,
		PeerID:         primaryID,
		PeerRegion:     "us-ashburn-1",
	}
}

func primaryGroup() *model.ProtectionGroup {
	return &model.ProtectionGroup{
		ID:             primaryID,
		DisplayName:    "app-primary",
		Role:           model.RolePrimary,
		LifecycleState: model.GroupStateActive,
		PeerID:         standbyID,
		PeerRegion:     "us-phoenix-1",
	}
}

func activePlan(id string, planType model.PlanType) model.Plan {
	return model.Plan{
		ID:             id,
		DisplayName:    strings.ToLower(id),
		Type:           planType,
		LifecycleState: model.PlanStateActive,
	}
}

// newPairedFactory returns a factory with the standby in phx and the primary in iad.
func newPairedFactory() (*fakeFactory, *fakeDR, *fakeDR) {
	phx := newFakeDR()
	phx.groups[standbyID] = standbyGroup()

	iad := newFakeDR()
	iad.groups[primaryID] = primaryGroup()

	return &fakeFactory{clients: map[string]*fakeDR{
		"us-phoenix-1": phx,
		"us-ashburn-1": iad,
	}}, phx, iad
}
