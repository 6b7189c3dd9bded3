package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/custodia-labs/penmark/internal/adapters/driving/tui"
	"github.com/custodia-labs/penmark/internal/core/domain"
	"github.com/custodia-labs/penmark/internal/logger"
)

var assignCmd = &cobra.Command{
	Use:   "assign [files...]",
	Short: "Assign scanned documents to the members of a class",
	Long: `Match each document against the baselines of a class roster and assign it
to the most similar author when the similarity reaches the threshold.

Documents below the threshold are reported with their likeliest authors so
they can be confirmed by hand with 'penmark confirm'.

Examples:
  penmark assign --class 7B scans/*.pdf
  penmark assign --class 7B --threshold 0.9 --tui scans/*.pdf`,
	Args: cobra.MinimumNArgs(1),
	RunE: runAssign,
}

var historyCmd = &cobra.Command{
	Use:   "history [batch-id]",
	Short: "Show the recorded outcomes of a batch",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistory,
}

var confirmCmd = &cobra.Command{
	Use:   "confirm [batch-id] [document-id] [author-id]",
	Short: "Manually assign a document of a batch",
	Long: `Assign a predicted or unassigned document of a recorded batch to an
author. The confirmation is recorded in the batch history.`,
	Args: cobra.ExactArgs(3),
	RunE: runConfirm,
}

func init() {
	assignCmd.Flags().StringP("class", "c", "", "Class whose roster to match against (required)")
	assignCmd.Flags().Float64P("threshold", "t", 0, "Minimum similarity for auto-assignment (default from config)")
	assignCmd.Flags().Int("concurrency", 0, "Documents processed in parallel (default from config)")
	assignCmd.Flags().Bool("tui", false, "Show live progress in the terminal UI")
	_ = assignCmd.MarkFlagRequired("class")

	rootCmd.AddCommand(assignCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(confirmCmd)
}

func runAssign(cmd *cobra.Command, args []string) error {
	if assignmentService == nil {
		return errors.New("assignment service not configured")
	}

	classID, _ := cmd.Flags().GetString("class")
	threshold, _ := cmd.Flags().GetFloat64("threshold")
	concurrency, _ := cmd.Flags().GetInt("concurrency")
	useTUI, _ := cmd.Flags().GetBool("tui")

	docs, err := readDocuments(args)
	if err != nil {
		return err
	}

	opts := domain.AssignOptions{
		Threshold:   threshold,
		Concurrency: concurrency,
		OnProgress: func(p domain.BatchProgress) {
			logger.Debug("[%d/%d] %s: %s", p.Completed, p.Total, p.DocumentID, p.Status)
		},
	}

	var result *domain.AssignmentResult
	if useTUI && term.IsTerminal(int(os.Stdout.Fd())) {
		result, err = assignInteractive(cmd, classID, docs, opts)
	} else {
		result, err = assignmentService.AssignClass(cmd.Context(), classID, docs, opts)
	}

	if result != nil {
		printAssignment(cmd, result)
	}
	if err != nil {
		return fmt.Errorf("assignment failed: %w", err)
	}
	return nil
}

// assignInteractive runs the batch inside the terminal UI.
func assignInteractive(
	cmd *cobra.Command, classID string, docs []domain.RawDocument, opts domain.AssignOptions,
) (*domain.AssignmentResult, error) {
	app, err := tui.NewApp(tui.NewPorts(baselineService, assignmentService))
	if err != nil {
		return nil, fmt.Errorf("failed to create TUI: %w", err)
	}
	opts.OnProgress = nil
	if _, err := app.WithContext(cmd.Context()).WithBatch(classID, docs, opts); err != nil {
		return nil, err
	}
	if err := app.Run(); err != nil {
		return nil, fmt.Errorf("TUI error: %w", err)
	}
	return app.BatchResult(), app.Err()
}

func printAssignment(cmd *cobra.Command, result *domain.AssignmentResult) {
	s := result.Summary
	cmd.Printf("Batch %s: %d documents, %d assigned, %d not assigned",
		result.BatchID, s.Total, s.Assigned, s.Failed)
	if s.Cancelled > 0 {
		cmd.Printf(" (%d cancelled)", s.Cancelled)
	}
	cmd.Printf(", average confidence %.2f\n", s.AverageConfidence)

	if len(result.Successful) > 0 {
		cmd.Println()
		cmd.Println("Assigned:")
		for _, a := range result.Successful {
			line := fmt.Sprintf("  %-24s -> %-16s %.2f", a.DocumentID, a.AuthorID, a.Confidence)
			if len(a.Alternatives) > 0 {
				line += fmt.Sprintf("  (also: %s)", strings.Join(a.Alternatives, ", "))
			}
			cmd.Println(line)
		}
	}

	if len(result.Failed) > 0 {
		cmd.Println()
		cmd.Println("Not assigned:")
		for _, f := range result.Failed {
			cmd.Printf("  %-24s %s\n", f.DocumentID, f.Reason)
			if len(f.PossibleMatches) > 0 {
				cmd.Printf("  %-24s possible: %s\n", "", formatMatches(f.PossibleMatches))
			}
		}
	}
}

func formatMatches(matches []domain.AssignmentCandidate) string {
	parts := make([]string, len(matches))
	for i, m := range matches {
		parts[i] = fmt.Sprintf("%s %.2f", m.AuthorID, m.Confidence)
	}
	return strings.Join(parts, ", ")
}

func runHistory(cmd *cobra.Command, args []string) error {
	if assignmentService == nil {
		return errors.New("assignment service not configured")
	}

	outcomes, err := assignmentService.History(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	cmd.Printf("Batch %s (%d documents):\n", args[0], len(outcomes))
	for _, o := range outcomes {
		cmd.Printf("  %-10s %-24s %s\n", o.Status(), o.DocID(), describeOutcome(o))
	}
	return nil
}

func runConfirm(cmd *cobra.Command, args []string) error {
	if assignmentService == nil {
		return errors.New("assignment service not configured")
	}
	batchID, documentID, authorID := args[0], args[1], args[2]

	outcomes, err := assignmentService.History(cmd.Context(), batchID)
	if err != nil {
		return err
	}

	state := domain.BatchState{
		BatchID:  batchID,
		Order:    make([]string, len(outcomes)),
		Outcomes: make(map[string]domain.DocumentOutcome, len(outcomes)),
	}
	for i, o := range outcomes {
		state.Order[i] = o.DocID()
		state.Outcomes[o.DocID()] = o
	}

	if _, err := assignmentService.Confirm(cmd.Context(), state, documentID, authorID); err != nil {
		return fmt.Errorf("confirm failed: %w", err)
	}

	cmd.Printf("Assigned %s to %s\n", documentID, authorID)
	return nil
}

// describeOutcome renders the detail column of a history line.
func describeOutcome(o domain.DocumentOutcome) string {
	switch o := o.(type) {
	case domain.Assigned:
		if o.Manual {
			return fmt.Sprintf("%s (confirmed)", o.Candidate.AuthorID)
		}
		return fmt.Sprintf("%s %.2f", o.Candidate.AuthorID, o.Candidate.Confidence)
	case domain.Predicted:
		return fmt.Sprintf("%s %.2f? %s", o.Best.AuthorID, o.Best.Confidence, o.Best.Reason)
	case domain.Unassigned:
		return o.Reason
	case domain.Errored:
		if o.Err != nil {
			return o.Err.Error()
		}
		return "error"
	default:
		return ""
	}
}
