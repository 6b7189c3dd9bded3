// Package cli implements the penmark command line interface using cobra.
// Commands reach the core only through driving ports, which the composition
// root injects with SetServices before Execute.
package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/penmark/internal/core/domain"
	"github.com/custodia-labs/penmark/internal/core/ports/driving"
	"github.com/custodia-labs/penmark/internal/logger"
)

// version is set at build time via ldflags or SetVersion.
var version = "dev"

// verbose enables debug logging for every command.
var verbose bool

// Services injected by the composition root.
var (
	analysisService   driving.AnalysisService
	baselineService   driving.BaselineService
	assignmentService driving.AssignmentService
	rosterService     driving.RosterService
	settingsService   driving.SettingsService
	metricsHandler    http.Handler
	engineSettings    = domain.DefaultEngineSettings()
)

// Services bundles the driving ports the CLI needs.
type Services struct {
	Analysis   driving.AnalysisService
	Baseline   driving.BaselineService
	Assignment driving.AssignmentService
	Roster     driving.RosterService
	Settings   driving.SettingsService

	// Metrics serves Prometheus metrics. Optional.
	Metrics http.Handler

	// Engine holds the settings the services were built with.
	Engine *domain.EngineSettings
}

var rootCmd = &cobra.Command{
	Use:   "penmark",
	Short: "Authorship drift detection and scanned document assignment",
	Long: `Penmark builds a writing baseline for each author from earlier essays,
flags drift when a new text departs from it, and assigns batches of scanned
documents to the members of a class roster by vocabulary similarity.`,
	SilenceUsage: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Print debug logs to stderr")
}

// SetServices injects the core services used by commands.
func SetServices(s Services) {
	analysisService = s.Analysis
	baselineService = s.Baseline
	assignmentService = s.Assignment
	rosterService = s.Roster
	settingsService = s.Settings
	metricsHandler = s.Metrics
	if s.Engine != nil {
		engineSettings = *s.Engine
	}
}

// SetVersion sets the version reported by the version command.
func SetVersion(v string) {
	if v != "" {
		version = v
	}
}

// Execute runs the root command. Interrupts cancel the command context.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return rootCmd.ExecuteContext(ctx)
}
