package cli

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var rosterCmd = &cobra.Command{
	Use:   "roster",
	Short: "Manage class rosters",
	Long: `Enrol authors in classes. Batch assignment matches documents against
the enrolled authors that have a baseline.`,
}

var rosterAddCmd = &cobra.Command{
	Use:   "add [class-id] [author-id]",
	Short: "Enrol an author in a class",
	Args:  cobra.ExactArgs(2),
	RunE:  runRosterAdd,
}

var rosterRemoveCmd = &cobra.Command{
	Use:   "remove [class-id] [author-id]",
	Short: "Remove an author from a class",
	Args:  cobra.ExactArgs(2),
	RunE:  runRosterRemove,
}

var rosterListCmd = &cobra.Command{
	Use:   "list [class-id]",
	Short: "List the members of a class",
	Args:  cobra.ExactArgs(1),
	RunE:  runRosterList,
}

func init() {
	rosterAddCmd.Flags().StringP("name", "n", "", "Display name of the author")

	rosterCmd.AddCommand(rosterAddCmd)
	rosterCmd.AddCommand(rosterRemoveCmd)
	rosterCmd.AddCommand(rosterListCmd)
	rootCmd.AddCommand(rosterCmd)
}

func runRosterAdd(cmd *cobra.Command, args []string) error {
	if rosterService == nil {
		return errors.New("roster service not configured")
	}

	name, err := cmd.Flags().GetString("name")
	if err != nil {
		return fmt.Errorf("getting name flag: %w", err)
	}

	if err := rosterService.Enrol(cmd.Context(), args[0], args[1], name); err != nil {
		return err
	}

	cmd.Printf("Enrolled %s in %s\n", args[1], args[0])
	return nil
}

func runRosterRemove(cmd *cobra.Command, args []string) error {
	if rosterService == nil {
		return errors.New("roster service not configured")
	}

	if err := rosterService.Withdraw(cmd.Context(), args[0], args[1]); err != nil {
		return err
	}

	cmd.Printf("Removed %s from %s\n", args[1], args[0])
	return nil
}

func runRosterList(cmd *cobra.Command, args []string) error {
	if rosterService == nil {
		return errors.New("roster service not configured")
	}

	entries, err := rosterService.Members(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	if len(entries) == 0 {
		cmd.Printf("Class %s has no members.\n", args[0])
		return nil
	}

	cmd.Printf("Class %s (%d members):\n", args[0], len(entries))
	for _, e := range entries {
		status := "baseline"
		if !e.HasBaseline {
			status = "no baseline, skipped during assignment"
		}
		name := e.Name
		if name == "" {
			name = "-"
		}
		cmd.Printf("  %-20s %-24s %s\n", e.AuthorID, name, status)
	}
	return nil
}
