package cmd

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/antounmoubarak/fsdr-precheck/internal/config"
	"github.com/antounmoubarak/fsdr-precheck/internal/logging"
	"github.com/antounmoubarak/fsdr-precheck/internal/metrics"
	"github.com/antounmoubarak/fsdr-precheck/internal/model"
	"github.com/antounmoubarak/fsdr-precheck/internal/notify"
	"github.com/antounmoubarak/fsdr-precheck/internal/oci"
	"github.com/antounmoubarak/fsdr-precheck/internal/precheck"
	"github.com/antounmoubarak/fsdr-precheck/internal/report"
)

func runPrecheck(cmd *cobra.Command, args []string) error {
	bootstrap, err := logging.NewLogger(logging.DefaultConfig())
	if err != nil {
		return fmt.Errorf("failed to initialize logger: %w", err)
	}
	defer bootstrap.Sync()

	cfg, err := config.Load(v, configFile)
	if err != nil {
		bootstrap.Error("Invalid configuration", zap.Error(err))
		return err
	}

	runLog, err := logging.NewRunLog(logging.RunLogConfig{
		Dir:         cfg.LogDir,
		DRPGOCID:    cfg.DRPGOCID,
		Level:       cfg.LogLevel,
		Environment: logging.EnvironmentFromFormat(cfg.LogFormat),
	})
	if err != nil {
		bootstrap.Error("Failed to open run logs", zap.Error(err))
		return err
	}
	defer runLog.Close()

	runID := uuid.NewString()
	logger := runLog.Logger.With(zap.String(logging.FieldRunID, runID))
	ctx := logging.WithLogger(cmd.Context(), logger)

	logger.Info("FSDR precheck starting",
		zap.String("version", Version),
		zap.String(logging.FieldDRPGID, cfg.DRPGOCID),
		zap.String(logging.FieldTopicID, cfg.TopicOCID),
		zap.Duration("poll_interval", cfg.PollInterval),
		zap.Duration("timeout", cfg.Timeout),
		zap.String("auth", string(cfg.Auth)),
	)

	m, err := metrics.New(cfg.DRPGOCID)
	if err != nil {
		logger.Error("Failed to create metrics", zap.Error(err))
		return err
	}

	factory, err := newFactory(cfg, m, logger)
	if err != nil {
		logger.Error("Failed to create OCI clients", zap.Error(err))
		return err
	}

	var notifier precheck.Notifier
	if cfg.TopicOCID != "" {
		notifier = notify.New(factory.Publisher(), cfg.TopicOCID, runLog, logger)
	}

	runner := precheck.NewRunner(precheck.RunnerConfig{
		Factory:      factory,
		Notifier:     notifier,
		Metrics:      m,
		Logger:       runLog.Logger, // the runner adds run_id itself
		PollInterval: cfg.PollInterval,
		Timeout:      cfg.Timeout,
		RunID:        runID,
	})

	summary, err := runner.Run(ctx, cfg.DRPGOCID)
	if err != nil {
		m.LastRunSuccess.Set(0)
		m.LastRunTimestamp.SetToCurrentTime()
		writeMetrics(ctx, cfg, m)
		return err
	}

	writeMetrics(ctx, cfg, m)
	writeReport(ctx, cfg, summary)

	if err := runLog.RemoveErrorLog(); err != nil {
		logger.Warn("Failed to remove error log", zap.Error(err))
	}

	if cfg.Strict && !summary.AllSucceeded() {
		return fmt.Errorf("%w: %d of %d", errPrecheckFailures, len(summary.Failed()), len(summary.Outcomes))
	}
	return nil
}

func newFactory(cfg *config.Config, m *metrics.Metrics, logger *zap.Logger) (*oci.Factory, error) {
	clientCfg := oci.ClientConfig{
		Auth:              cfg.Auth,
		ConfigFile:        cfg.OCIConfigFile,
		Profile:           cfg.OCIProfile,
		RequestsPerSecond: cfg.RequestsPerSecond,
	}
	if err := clientCfg.Validate(); err != nil {
		return nil, err
	}

	provider, err := oci.NewConfigurationProvider(clientCfg)
	if err != nil {
		return nil, err
	}

	return oci.NewFactory(provider, clientCfg, m, logger)
}

func writeMetrics(ctx context.Context, cfg *config.Config, m *metrics.Metrics) {
	if cfg.MetricsFile == "" {
		return
	}
	logger := logging.FromContext(ctx)
	if err := m.WriteTextfile(cfg.MetricsFile); err != nil {
		logger.Warn("Failed to write metrics", zap.Error(err))
		return
	}
	logger.Debug("Metrics written", zap.String("path", cfg.MetricsFile))
}

func writeReport(ctx context.Context, cfg *config.Config, summary *model.Summary) {
	if cfg.ReportPath == "" {
		return
	}
	logger := logging.FromContext(ctx)
	if err := report.Write(cfg.ReportPath, summary); err != nil {
		logger.Warn("Failed to write report", zap.Error(err))
		return
	}
	logger.Info("Report written", zap.String("path", cfg.ReportPath))
}
