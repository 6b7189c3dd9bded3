package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/penmark/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/penmark/internal/core/domain"
	"github.com/custodia-labs/penmark/internal/core/services"
	"github.com/custodia-labs/penmark/internal/normalisers"
)

const (
	aliceEssay = "The harbour lights flickered across the water while fishermen mended nets beside weathered boats."
	bobEssay   = "Photosynthesis converts sunlight into chemical energy stored within glucose molecules inside chloroplasts."
)

// setupTestServices wires real services over in-memory stores. The previous
// services are restored when the test ends.
func setupTestServices(t *testing.T) {
	t.Helper()

	prev := Services{
		Analysis:   analysisService,
		Baseline:   baselineService,
		Assignment: assignmentService,
		Roster:     rosterService,
		Settings:   settingsService,
		Metrics:    metricsHandler,
	}
	prevEngine := engineSettings

	settings := domain.DefaultEngineSettings()
	registry := normalisers.Default(nil)
	baselines := memory.NewBaselineStore()
	rosters := memory.NewRosterStore(baselines)
	rosters.SetExpireAfter(settings.Baseline.ExpireAfter)

	assignment := services.NewAssignmentService(registry, rosters, settings.Assignment)
	assignment.SetAssignmentStore(memory.NewAssignmentStore())

	SetServices(Services{
		Analysis:   services.NewAnalysisService(registry, settings.Analysis),
		Baseline:   services.NewBaselineService(baselines, settings),
		Assignment: assignment,
		Roster:     services.NewRosterService(rosters, baselines),
		Settings:   services.NewSettingsService(memory.NewConfigStore()),
		Engine:     &settings,
	})

	t.Cleanup(func() {
		SetServices(prev)
		engineSettings = prevEngine
	})
}

// clearServices removes every service for the duration of a test.
func clearServices(t *testing.T) {
	t.Helper()
	setupTestServices(t)
	SetServices(Services{})
}

// execute runs the root command with args and returns its output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	resetFlags(rootCmd)

	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	t.Cleanup(func() {
		rootCmd.SetOut(nil)
		rootCmd.SetErr(nil)
		rootCmd.SetArgs(nil)
	})

	err := rootCmd.Execute()
	return buf.String(), err
}

// resetFlags restores every flag of cmd and its children to its default.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// writeFile creates a file named name in a temp directory.
func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestRootCmd_HasCommands(t *testing.T) {
	names := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		names[c.Name()] = true
	}

	for _, want := range []string{
		"analyze", "assign", "baseline", "config", "confirm",
		"history", "mcp", "roster", "tui", "version", "watch",
	} {
		assert.True(t, names[want], "missing command %s", want)
	}
}

func TestRootCmd_VerboseFlag(t *testing.T) {
	f := rootCmd.PersistentFlags().Lookup("verbose")
	require.NotNil(t, f)
	assert.Equal(t, "v", f.Shorthand)
	assert.Equal(t, "false", f.DefValue)
}

func TestSetServices_KeepsEngineWhenNil(t *testing.T) {
	setupTestServices(t)
	engineSettings.Baseline.MinSamples = 7

	SetServices(Services{})

	assert.Equal(t, 7, engineSettings.Baseline.MinSamples)
	assert.Nil(t, analysisService)
}

func TestCommands_WithoutServices(t *testing.T) {
	clearServices(t)
	file := writeFile(t, "a.txt", aliceEssay)

	tests := []struct {
		args []string
		want string
	}{
		{[]string{"analyze", "--text", "hello"}, "analysis service not configured"},
		{[]string{"baseline", "list"}, "baseline service not configured"},
		{[]string{"roster", "list", "7B"}, "roster service not configured"},
		{[]string{"assign", "--class", "7B", file}, "assignment service not configured"},
		{[]string{"history", "b1"}, "assignment service not configured"},
		{[]string{"config", "list"}, "settings service not configured"},
	}

	for _, tt := range tests {
		t.Run(tt.args[0], func(t *testing.T) {
			_, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}
