package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/penmark/internal/core/domain"
)

var baselineCmd = &cobra.Command{
	Use:   "baseline",
	Short: "Manage author writing baselines",
	Long: `Build, extend, inspect and compare against author baselines.

A baseline aggregates the metrics of an author's earlier essays. New texts
are compared against it to grade how far the writing has drifted.`,
}

var baselineBuildCmd = &cobra.Command{
	Use:   "build [author-id] [essay-files...]",
	Short: "Build a baseline from essays, replacing any existing one",
	Args:  cobra.MinimumNArgs(2),
	RunE:  runBaselineBuild,
}

var baselineAddCmd = &cobra.Command{
	Use:   "add [author-id] [essay-file]",
	Short: "Add one essay to an author's baseline",
	Args:  cobra.ExactArgs(2),
	RunE:  runBaselineAdd,
}

var baselineShowCmd = &cobra.Command{
	Use:   "show [author-id]",
	Short: "Show an author's baseline",
	Args:  cobra.ExactArgs(1),
	RunE:  runBaselineShow,
}

var baselineCompareCmd = &cobra.Command{
	Use:   "compare [author-id] [file]",
	Short: "Compare a text with an author's baseline",
	Args:  cobra.ExactArgs(2),
	RunE:  runBaselineCompare,
}

var baselineDeleteCmd = &cobra.Command{
	Use:   "delete [author-id]",
	Short: "Delete an author's baseline",
	Args:  cobra.ExactArgs(1),
	RunE:  runBaselineDelete,
}

var baselineListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all baselines",
	Args:  cobra.NoArgs,
	RunE:  runBaselineList,
}

func init() {
	baselineCmd.AddCommand(baselineBuildCmd)
	baselineCmd.AddCommand(baselineAddCmd)
	baselineCmd.AddCommand(baselineShowCmd)
	baselineCmd.AddCommand(baselineCompareCmd)
	baselineCmd.AddCommand(baselineDeleteCmd)
	baselineCmd.AddCommand(baselineListCmd)
	rootCmd.AddCommand(baselineCmd)
}

func runBaselineBuild(cmd *cobra.Command, args []string) error {
	if baselineService == nil {
		return errors.New("baseline service not configured")
	}

	essays := make([]string, 0, len(args)-1)
	for _, path := range args[1:] {
		text, err := readText(cmd.Context(), path)
		if err != nil {
			return err
		}
		essays = append(essays, text)
	}

	profile, err := baselineService.BuildBaseline(cmd.Context(), args[0], essays)
	if err != nil {
		return fmt.Errorf("failed to build baseline: %w", err)
	}

	cmd.Printf("Built baseline for %s from %d essays (confidence %.2f)\n",
		profile.AuthorID, len(profile.Samples), profile.Confidence)
	warnLowConfidence(cmd, profile)
	return nil
}

func runBaselineAdd(cmd *cobra.Command, args []string) error {
	if baselineService == nil {
		return errors.New("baseline service not configured")
	}

	text, err := readText(cmd.Context(), args[1])
	if err != nil {
		return err
	}

	profile, err := baselineService.AddSample(cmd.Context(), args[0], text)
	if err != nil {
		return fmt.Errorf("failed to add sample: %w", err)
	}

	cmd.Printf("Added sample to %s: %d samples, %d active (confidence %.2f)\n",
		profile.AuthorID, len(profile.Samples), profile.ActiveSamples, profile.Confidence)
	warnLowConfidence(cmd, profile)
	return nil
}

func runBaselineShow(cmd *cobra.Command, args []string) error {
	if baselineService == nil {
		return errors.New("baseline service not configured")
	}

	profile, err := baselineService.Get(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to get baseline: %w", err)
	}

	cmd.Printf("Author: %s\n", profile.AuthorID)
	cmd.Printf("Samples: %d (%d active)\n", len(profile.Samples), profile.ActiveSamples)
	cmd.Printf("Confidence: %.2f\n", profile.Confidence)
	cmd.Printf("Created: %s\n", profile.CreatedAt.Format("2006-01-02 15:04"))
	cmd.Printf("Updated: %s\n", profile.LastUpdated.Format("2006-01-02 15:04"))
	cmd.Println()
	printMetrics(cmd, &profile.Aggregate)
	return nil
}

func runBaselineCompare(cmd *cobra.Command, args []string) error {
	if baselineService == nil {
		return errors.New("baseline service not configured")
	}

	text, err := readText(cmd.Context(), args[1])
	if err != nil {
		return err
	}

	c, err := baselineService.CompareAuthor(cmd.Context(), args[0], text)
	if err != nil {
		return fmt.Errorf("comparison failed: %w", err)
	}

	cmd.Printf("Drift: %s\n", c.Level)
	cmd.Printf("  Vocabulary similarity: %.3f\n", c.Similarity)
	cmd.Printf("  Style drift: %.3f\n", c.StyleDrift)
	cmd.Printf("  Vocabulary shift: %.3f\n", c.VocabularyShift)
	cmd.Printf("  Grade level change: %+.1f\n", c.GradeLevelChange)
	if c.AIProbability != nil {
		cmd.Printf("  AI probability: %.2f\n", *c.AIProbability)
	}
	for _, flag := range c.Flags {
		cmd.Printf("  ! %s\n", flag)
	}
	return nil
}

func runBaselineDelete(cmd *cobra.Command, args []string) error {
	if baselineService == nil {
		return errors.New("baseline service not configured")
	}

	if err := baselineService.Delete(cmd.Context(), args[0]); err != nil {
		return fmt.Errorf("failed to delete baseline: %w", err)
	}

	cmd.Printf("Deleted baseline for %s\n", args[0])
	return nil
}

func runBaselineList(cmd *cobra.Command, _ []string) error {
	if baselineService == nil {
		return errors.New("baseline service not configured")
	}

	profiles, err := baselineService.List(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list baselines: %w", err)
	}

	if len(profiles) == 0 {
		cmd.Println("No baselines.")
		return nil
	}

	cmd.Printf("Baselines (%d):\n", len(profiles))
	for _, p := range profiles {
		cmd.Printf("  %-20s %2d samples (%d active)  confidence %.2f  updated %s\n",
			p.AuthorID, len(p.Samples), p.ActiveSamples, p.Confidence, p.LastUpdated.Format("2006-01-02"))
	}
	return nil
}

// warnLowConfidence tells the user when more essays are needed.
func warnLowConfidence(cmd *cobra.Command, profile *domain.BaselineProfile) {
	if need := engineSettings.Baseline.MinSamples; profile.ActiveSamples < need {
		cmd.Printf("Note: %d of %d recommended essays; drift results will be tentative.\n",
			profile.ActiveSamples, need)
	}
}
