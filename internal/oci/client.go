package oci

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/oracle/oci-go-sdk/v65/common"
	"github.com/oracle/oci-go-sdk/v65/disasterrecovery"
	"go.uber.org/zap"
	"golang.org/x/time/rate"

	"github.com/antounmoubarak/fsdr-precheck/internal/logging"
	"github.com/antounmoubarak/fsdr-precheck/internal/metrics"
	"github.com/antounmoubarak/fsdr-precheck/internal/model"
	"github.com/antounmoubarak/fsdr-precheck/internal/precheck"
)

// Factory creates region-bound Disaster Recovery clients that share one
// credential provider and one rate limiter.
type Factory struct {
	provider common.ConfigurationProvider
	limiter  *rate.Limiter
	metrics  *metrics.Metrics
	logger   *zap.Logger

	mu      sync.Mutex
	clients map[string]*DRClient
}

// NewFactory creates a factory. m may be nil.
func NewFactory(provider common.ConfigurationProvider, cfg ClientConfig, m *metrics.Metrics, logger *zap.Logger) (*Factory, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &Factory{
		provider: provider,
		limiter:  rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), 1),
		metrics:  m,
		logger:   logger.With(zap.String(logging.FieldComponent, "oci")),
		clients:  make(map[string]*DRClient),
	}, nil
}

// ForRegion returns the client for region, creating it on first use.
func (f *Factory) ForRegion(region string) (precheck.DisasterRecovery, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	if c, ok := f.clients[region]; ok {
		return c, nil
	}

	client, err := disasterrecovery.NewDisasterRecoveryClientWithConfigurationProvider(f.provider)
	if err != nil {
		return nil, fmt.Errorf("failed to create disaster recovery client: %w", err)
	}
	client.SetRegion(region)

	c := &DRClient{
		client: client,
		caller: f.caller(region),
	}
	f.clients[region] = c

	f.logger.Debug("Created disaster recovery client", zap.String(logging.FieldRegion, region))
	return c, nil
}

// Publisher returns a notification publisher sharing the factory's credentials and limiter.
func (f *Factory) Publisher() *Publisher {
	return &Publisher{
		provider: f.provider,
		newCaller: func(region string) caller {
			return f.caller(region)
		},
	}
}

func (f *Factory) caller(region string) caller {
	return caller{
		region:  region,
		limiter: f.limiter,
		metrics: f.metrics,
		logger:  f.logger.With(zap.String(logging.FieldRegion, region)),
	}
}

// caller wraps every SDK request with rate limiting, metrics and error translation.
type caller struct {
	region  string
	limiter *rate.Limiter
	metrics *metrics.Metrics
	logger  *zap.Logger
}

func (c caller) call(ctx context.Context, operation string, fn func() error) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	start := time.Now()
	err := fn()
	elapsed := time.Since(start)

	if c.metrics != nil {
		c.metrics.ObserveAPICall(operation, elapsed, err)
	}

	if err != nil {
		c.logger.Debug("OCI request failed",
			zap.String("operation", operation),
			zap.Duration(logging.FieldDuration, elapsed),
			zap.Error(err),
		)
		return translateError(err)
	}

	c.logger.Debug("OCI request completed",
		zap.String("operation", operation),
		zap.Duration(logging.FieldDuration, elapsed),
	)
	return nil
}

// retryPolicy is attached to every request. Precheck submissions carry a
// retry token so retrying them is safe.
func retryPolicy() *common.RetryPolicy {
	policy := common.DefaultRetryPolicy()
	return &policy
}

// DRClient is a Disaster Recovery client bound to one region.
type DRClient struct {
	client disasterrecovery.DisasterRecoveryClient
	caller caller
}

// GetProtectionGroup returns the protection group with the given OCID.
func (c *DRClient) GetProtectionGroup(ctx context.Context, id string) (*model.ProtectionGroup, error) {
	var resp disasterrecovery.GetDrProtectionGroupResponse
	err := c.caller.call(ctx, "GetDrProtectionGroup", func() (err error) {
		resp, err = c.client.GetDrProtectionGroup(ctx, disasterrecovery.GetDrProtectionGroupRequest{
			DrProtectionGroupId: common.String(id),
			RequestMetadata:     common.RequestMetadata{RetryPolicy: retryPolicy()},
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	group := protectionGroupFromSDK(resp.DrProtectionGroup)
	group.Region = c.caller.region
	return group, nil
}

// ListPlans returns every plan of the protection group, following pagination.
func (c *DRClient) ListPlans(ctx context.Context, drpgID string) ([]model.Plan, error) {
	req := disasterrecovery.ListDrPlansRequest{
		DrProtectionGroupId: common.String(drpgID),
		RequestMetadata:     common.RequestMetadata{RetryPolicy: retryPolicy()},
	}

	var plans []model.Plan
	for {
		var resp disasterrecovery.ListDrPlansResponse
		err := c.caller.call(ctx, "ListDrPlans", func() (err error) {
			resp, err = c.client.ListDrPlans(ctx, req)
			return err
		})
		if err != nil {
			return nil, err
		}

		for _, item := range resp.Items {
			plans = append(plans, planFromSDK(item))
		}

		if resp.OpcNextPage == nil {
			return plans, nil
		}
		req.Page = resp.OpcNextPage
	}
}

// StartPrecheck submits a precheck execution for plan.
func (c *DRClient) StartPrecheck(ctx context.Context, plan model.Plan) (*model.Execution, error) {
	options, err := precheckOptions(plan.Type)
	if err != nil {
		return nil, err
	}

	req := disasterrecovery.CreateDrPlanExecutionRequest{
		CreateDrPlanExecutionDetails: disasterrecovery.CreateDrPlanExecutionDetails{
			PlanId:           common.String(plan.ID),
			ExecutionOptions: options,
		},
		OpcRetryToken:   common.String(uuid.NewString()),
		RequestMetadata: common.RequestMetadata{RetryPolicy: retryPolicy()},
	}

	var resp disasterrecovery.CreateDrPlanExecutionResponse
	err = c.caller.call(ctx, "CreateDrPlanExecution", func() (err error) {
		resp, err = c.client.CreateDrPlanExecution(ctx, req)
		return err
	})
	if err != nil {
		return nil, err
	}

	return executionFromSDK(resp.DrPlanExecution), nil
}

// GetExecution returns the current state of a plan execution.
func (c *DRClient) GetExecution(ctx context.Context, id string) (*model.Execution, error) {
	var resp disasterrecovery.GetDrPlanExecutionResponse
	err := c.caller.call(ctx, "GetDrPlanExecution", func() (err error) {
		resp, err = c.client.GetDrPlanExecution(ctx, disasterrecovery.GetDrPlanExecutionRequest{
			DrPlanExecutionId: common.String(id),
			RequestMetadata:   common.RequestMetadata{RetryPolicy: retryPolicy()},
		})
		return err
	})
	if err != nil {
		return nil, err
	}

	return executionFromSDK(resp.DrPlanExecution), nil
}
