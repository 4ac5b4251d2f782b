package precheck

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/antounmoubarak/fsdr-precheck/internal/metrics"
	"github.com/antounmoubarak/fsdr-precheck/internal/model"
	"github.com/antounmoubarak/fsdr-precheck/internal/notify"
	"github.com/google/go-cmp/cmp"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type recordingPublisher struct {
	messages []notify.Message
	err      error
}

func (p *recordingPublisher) Publish(_ context.Context, _ string, msg notify.Message) error {
	p.messages = append(p.messages, msg)
	return p.err
}

func newTestRunner(t *testing.T, factory ClientFactory, pub *recordingPublisher, logger *zap.Logger) *Runner {
	t.Helper()

	var n Notifier
	if pub != nil {
		n = notify.New(pub, topicID, nil, logger)
	}

	return NewRunner(RunnerConfig{
		Factory:      factory,
		Notifier:     n,
		Logger:       logger,
		PollInterval: time.Millisecond,
		Timeout:      time.Minute,
		RunID:        "run-1",
	})
}

func TestRun_AllSucceeded(t *testing.T) {
	factory, phx, _ := newPairedFactory()
	phx.plans = []model.Plan{
		activePlan("SWITCH", model.PlanTypeSwitchover),
		{ID: "DRAFT", DisplayName: "draft", Type: model.PlanTypeFailover, LifecycleState: model.PlanStateInactive},
		activePlan("FAIL", model.PlanTypeFailover),
		{ID: "GONE", DisplayName: "gone", Type: model.PlanTypeStopDrill, LifecycleState: model.PlanStateDeleted},
		activePlan("DRILL", model.PlanTypeStartDrill),
	}
	for _, id := range []string{"SWITCH", "FAIL", "DRILL"} {
		phx.executions[id] = []model.ExecutionState{model.ExecutionInProgress, model.ExecutionSucceeded}
	}

	pub := &recordingPublisher{}
	r := newTestRunner(t, factory, pub, zap.NewNop())

	summary, err := r.Run(context.Background(), standbyID)
	require.NoError(t, err)

	assert.Equal(t, "run-1", summary.RunID)
	assert.Equal(t, standbyID, summary.ProtectionGroup.ID)
	assert.True(t, summary.AllSucceeded())
	assert.Empty(t, pub.messages)

	if diff := cmp.Diff([]string{"SWITCH", "FAIL", "DRILL"}, phx.startedPlans()); diff != "" {
		t.Errorf("started plans mismatch (-want +got):\n%s", diff)
	}
	assert.False(t, phx.overlap, "a precheck was started while another was in flight")
}

func TestRun_PrimaryRunsAgainstStandby(t *testing.T) {
	factory, phx, iad := newPairedFactory()
	phx.plans = []model.Plan{activePlan("SWITCH", model.PlanTypeSwitchover)}
	phx.executions["SWITCH"] = []model.ExecutionState{model.ExecutionSucceeded}
	iad.plans = []model.Plan{activePlan("PRIMARY-PLAN", model.PlanTypeSwitchover)}

	r := newTestRunner(t, factory, nil, zap.NewNop())

	summary, err := r.Run(context.Background(), primaryID)
	require.NoError(t, err)

	assert.Equal(t, primaryID, summary.RequestedID)
	assert.Equal(t, standbyID, summary.ProtectionGroup.ID)
	assert.Equal(t, []string{"SWITCH"}, phx.startedPlans())
	assert.Empty(t, iad.startedPlans())
}

func TestRun_FailuresNotifyOnce(t *testing.T) {
	factory, phx, _ := newPairedFactory()
	phx.plans = []model.Plan{
		activePlan("SWITCH", model.PlanTypeSwitchover),
		activePlan("FAIL", model.PlanTypeFailover),
		activePlan("DRILL", model.PlanTypeStartDrill),
	}
	phx.executions["SWITCH"] = []model.ExecutionState{model.ExecutionFailed}
	phx.executions["FAIL"] = []model.ExecutionState{model.ExecutionSucceeded}
	phx.executions["DRILL"] = []model.ExecutionState{model.ExecutionInProgress, model.ExecutionCanceled}

	pub := &recordingPublisher{}
	r := newTestRunner(t, factory, pub, zap.NewNop())

	summary, err := r.Run(context.Background(), standbyID)
	require.NoError(t, err)

	require.Len(t, summary.Outcomes, 3)
	assert.Len(t, summary.Failed(), 2)

	require.Len(t, pub.messages, 1)
	assert.Equal(t, "FSDR Precheck Failed for app-standby - "+standbyID, pub.messages[0].Title)
	assert.Contains(t, pub.messages[0].Body, "switch (SWITCHOVER): FAILED")
	assert.Contains(t, pub.messages[0].Body, "drill (START_DRILL): FAILED")
}

func TestRun_FailuresWithoutTopic(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	factory, phx, _ := newPairedFactory()
	phx.plans = []model.Plan{activePlan("SWITCH", model.PlanTypeSwitchover)}
	phx.executions["SWITCH"] = []model.ExecutionState{model.ExecutionFailed}

	r := newTestRunner(t, factory, nil, zap.New(core))

	summary, err := r.Run(context.Background(), standbyID)
	require.NoError(t, err)
	assert.False(t, summary.AllSucceeded())
	assert.Equal(t, 1, logs.FilterMessage("No notification topic configured, skipping notification").Len())
}

func TestRun_FatalErrorsNotify(t *testing.T) {
	tests := []struct {
		name      string
		id        string
		mutate    func(phx *fakeDR)
		wantErr   error
		wantTitle string
	}{
		{
			name:      "no active plans",
			id:        standbyID,
			wantErr:   model.ErrNoActivePlans,
			wantTitle: "FSDR Precheck Failed for app-standby - " + standbyID,
		},
		{
			name: "plans in transition",
			id:   standbyID,
			mutate: func(phx *fakeDR) {
				phx.plans = []model.Plan{{ID: "NEW", DisplayName: "new", Type: model.PlanTypeSwitchover, LifecycleState: model.PlanStateCreating}}
			},
			wantErr:   model.ErrPlansInTransition,
			wantTitle: "FSDR Precheck Failed for app-standby - " + standbyID,
		},
		{
			name: "unconfigured",
			id:   standbyID,
			mutate: func(phx *fakeDR) {
				phx.groups[standbyID].Role = model.RoleUnconfigured
			},
			wantErr:   model.ErrUnconfigured,
			wantTitle: "FSDR Precheck Failed for app-standby - " + standbyID,
		},
		{
			name:      "not found",
			id:        "ocid1.drprotectiongroup.oc1.phx.missing",
			wantErr:   model.ErrNotFound,
			wantTitle: "FSDR Precheck Failed for ocid1.drprotectiongroup.oc1.phx.missing",
		},
		{
			name: "standby peer missing",
			id:   primaryID,
			mutate: func(phx *fakeDR) {
				delete(phx.groups, standbyID)
			},
			wantErr:   model.ErrNotFound,
			wantTitle: "FSDR Precheck Failed for " + standbyID,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			factory, phx, _ := newPairedFactory()
			if tt.mutate != nil {
				tt.mutate(phx)
			}
			pub := &recordingPublisher{}
			r := newTestRunner(t, factory, pub, zap.NewNop())

			summary, err := r.Run(context.Background(), tt.id)
			require.ErrorIs(t, err, tt.wantErr)
			assert.Nil(t, summary)

			require.Len(t, pub.messages, 1)
			assert.Equal(t, tt.wantTitle, pub.messages[0].Title)
			assert.Empty(t, phx.startedPlans())
		})
	}
}

func TestRun_InvalidOCIDDoesNotNotify(t *testing.T) {
	factory, _, _ := newPairedFactory()
	pub := &recordingPublisher{}
	r := newTestRunner(t, factory, pub, zap.NewNop())

	_, err := r.Run(context.Background(), "not-an-ocid")
	require.ErrorIs(t, err, model.ErrInvalidOCID)
	assert.Empty(t, pub.messages)
	assert.Empty(t, factory.regions)
}

func TestRun_NotificationFailureIsNotFatal(t *testing.T) {
	factory, phx, _ := newPairedFactory()
	phx.plans = []model.Plan{activePlan("SWITCH", model.PlanTypeSwitchover)}
	phx.executions["SWITCH"] = []model.ExecutionState{model.ExecutionFailed}

	pub := &recordingPublisher{err: errors.New("topic not found")}
	r := newTestRunner(t, factory, pub, zap.NewNop())

	summary, err := r.Run(context.Background(), standbyID)
	require.NoError(t, err)
	assert.Len(t, summary.Failed(), 1)
	assert.Len(t, pub.messages, 1)
}

func TestRun_Interrupted(t *testing.T) {
	factory, phx, _ := newPairedFactory()
	phx.plans = []model.Plan{
		activePlan("SWITCH", model.PlanTypeSwitchover),
		activePlan("FAIL", model.PlanTypeFailover),
	}
	phx.executions["SWITCH"] = []model.ExecutionState{model.ExecutionInProgress}

	pub := &recordingPublisher{}
	r := newTestRunner(t, factory, pub, zap.NewNop())

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := r.Run(ctx, standbyID)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, []string{"SWITCH"}, phx.startedPlans())
	assert.Empty(t, pub.messages)
}

func TestRun_RecordsMetrics(t *testing.T) {
	factory, phx, _ := newPairedFactory()
	phx.plans = []model.Plan{
		activePlan("SWITCH", model.PlanTypeSwitchover),
		activePlan("FAIL", model.PlanTypeFailover),
	}
	phx.executions["SWITCH"] = []model.ExecutionState{model.ExecutionSucceeded}
	phx.executions["FAIL"] = []model.ExecutionState{model.ExecutionFailed}

	m, err := metrics.New(standbyID)
	require.NoError(t, err)

	pub := &recordingPublisher{}
	r := NewRunner(RunnerConfig{
		Factory:      factory,
		Notifier:     notify.New(pub, topicID, nil, zap.NewNop()),
		Metrics:      m,
		Logger:       zap.NewNop(),
		PollInterval: time.Millisecond,
		Timeout:      time.Minute,
	})

	summary, err := r.Run(context.Background(), standbyID)
	require.NoError(t, err)

	assert.NotEmpty(t, summary.RunID)
	assert.Equal(t, 1.0, testutil.ToFloat64(m.PrecheckOutcomes.WithLabelValues("SWITCHOVER", "SUCCEEDED")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.PrecheckOutcomes.WithLabelValues("FAILOVER", "FAILED")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.ActivePlans))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.LastRunSuccess))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Notifications.WithLabelValues("ok")))
}
