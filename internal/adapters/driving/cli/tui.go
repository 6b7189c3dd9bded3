package cli

import (
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/penmark/internal/adapters/driving/tui"
)

// tuiCmd represents the tui command.
var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive terminal UI",
	Long: `Launch the interactive terminal user interface for penmark.

The TUI lists stored baselines with their aggregate metrics and shows the
progress of batches started with 'penmark assign --tui'.

Controls:
  ↑/k, ↓/j - Navigate
  Enter    - Select / Expand
  d        - Delete baseline
  r        - Reload
  Esc      - Back
  ?        - Toggle help
  q        - Quit`,
	Args: cobra.NoArgs,
	RunE: runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(cmd *cobra.Command, _ []string) (err error) {
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in TUI: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
			err = fmt.Errorf("TUI panic: %v", r)
		}
	}()

	if baselineService == nil {
		return errors.New("baseline service not configured")
	}

	app, err := tui.NewApp(tui.NewPorts(baselineService, assignmentService))
	if err != nil {
		return fmt.Errorf("failed to create TUI: %w", err)
	}
	if ctx := cmd.Context(); ctx != nil {
		app.WithContext(ctx)
	}

	if err := app.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
