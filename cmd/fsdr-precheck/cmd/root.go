package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/antounmoubarak/fsdr-precheck/internal/config"
)

var (
	// Version information (set at build time via ldflags)
	Version   = "dev"
	Commit    = "none"
	BuildDate = "unknown"
)

// Exit codes.
const (
	exitOK       = 0
	exitFatal    = 1
	exitFailures = 3
)

// errPrecheckFailures is returned under --strict when a plan did not pass.
var errPrecheckFailures = errors.New("one or more prechecks did not succeed")

var (
	configFile string
	v          = viper.New()
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "fsdr-precheck",
	Short: "Run OCI Full Stack DR plan prechecks for a protection group",
	Long: `fsdr-precheck runs the built-in precheck of every active DR plan of an
OCI Full Stack Disaster Recovery protection group.

Given a protection group OCID it:
  - Switches to the standby peer when the group is the primary
  - Lists the standby's active DR plans
  - Runs a precheck for each plan, one at a time, and waits for the result
  - Publishes one notification to an ONS topic when any precheck fails

Logs are written to <log-dir>/<drpg-ocid>.log. Errors of the current run are
also written to a separate error log that is sent with the notification.

Every flag can also be set in the --config YAML file or through an FSDR_*
environment variable (e.g. FSDR_DRPG_OCID).`,
	Example: `  fsdr-precheck -id ocid1.drprotectiongroup.oc1.iad.aaaa...
  fsdr-precheck --drpg-ocid ocid1.drprotectiongroup.oc1.iad.aaaa... --ons-topic-ocid ocid1.onstopic.oc1.iad.aaaa...`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runPrecheck,
}

// shortAliases are single-dash flags kept for compatibility with existing
// cron entries. pflag only supports one-letter shorthands.
var shortAliases = map[string]string{
	"-id": "--" + config.KeyDRPGOCID,
	"-nf": "--" + config.KeyTopicOCID,
}

// Execute runs the root command with args and returns the process exit code.
func Execute(args []string) int {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd.SetArgs(normalizeArgs(args))
	err := rootCmd.ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintln(rootCmd.ErrOrStderr(), "Error:", err)
	}
	return exitCode(err)
}

func init() {
	flags := rootCmd.Flags()

	flags.StringVar(&configFile, "config", "", "Path to a YAML config file")
	flags.String(config.KeyDRPGOCID, "", "OCID of the DR protection group (alias: -id)")
	flags.String(config.KeyTopicOCID, "", "OCID of the ONS topic notified on failure (alias: -nf)")
	flags.Duration(config.KeyPollInterval, config.DefaultPollInterval, "Time between precheck status polls")
	flags.Duration(config.KeyTimeout, config.DefaultTimeout, "Maximum time to wait for each plan's precheck")
	flags.String(config.KeyLogDir, config.DefaultLogDir, "Directory for log files")
	flags.String(config.KeyLogLevel, config.DefaultLogLevel, "Console log level (debug, info, warn, error)")
	flags.String(config.KeyLogFormat, config.DefaultLogFormat, "Console log format (console, json)")
	flags.String(config.KeyAuth, string(config.AuthInstancePrincipal), "OCI authentication (instance_principal, config_file)")
	flags.String(config.KeyOCIConfigFile, "", "OCI config file for config_file auth (default ~/.oci/config)")
	flags.String(config.KeyOCIProfile, config.DefaultOCIProfile, "OCI config profile for config_file auth")
	flags.Float64(config.KeyRequestsPerSecond, config.DefaultRequestsPerSecond, "Maximum OCI API requests per second")
	flags.String(config.KeyReport, "", "Write a YAML summary of the run to this path")
	flags.String(config.KeyMetricsFile, "", "Write Prometheus metrics to this path (textfile collector format)")
	flags.Bool(config.KeyStrict, false, "Exit with code 3 when any precheck fails or times out")

	if err := v.BindPFlags(flags); err != nil {
		panic(fmt.Sprintf("failed to bind flags: %v", err))
	}

	rootCmd.AddCommand(versionCmd)
}

// normalizeArgs rewrites the single-dash aliases to their long flags.
func normalizeArgs(args []string) []string {
	out := make([]string, 0, len(args))
	for i, arg := range args {
		if arg == "--" {
			out = append(out, args[i:]...)
			break
		}

		name, value, hasValue := strings.Cut(arg, "=")
		if long, ok := shortAliases[name]; ok {
			arg = long
			if hasValue {
				arg += "=" + value
			}
		}
		out = append(out, arg)
	}
	return out
}

func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, errPrecheckFailures):
		return exitFailures
	}
	return exitFatal
}

// versionString returns formatted version information
func versionString() string {
	return fmt.Sprintf("fsdr-precheck %s (commit: %s, built: %s)",
		Version, Commit, BuildDate)
}
