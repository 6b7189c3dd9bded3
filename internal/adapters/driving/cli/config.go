package cli

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show and change engine settings",
	Long: `Show and change the thresholds used for drift detection and assignment.

Settings are stored in config.toml in the penmark home directory.

Examples:
  penmark config list
  penmark config set assignment.threshold 0.9
  penmark config reset assignment.threshold`,
}

var configListCmd = &cobra.Command{
	Use:   "list",
	Short: "List all settings with their effective values",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if settingsService == nil {
			return errors.New("settings service not configured")
		}
		for _, key := range settingsService.Keys() {
			v, err := settingsService.Value(key)
			if err != nil {
				return err
			}
			cmd.Printf("%-36s %s\n", key, formatValue(v))
		}
		return nil
	},
}

var configGetCmd = &cobra.Command{
	Use:   "get [key]",
	Short: "Show the effective value of a setting",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if settingsService == nil {
			return errors.New("settings service not configured")
		}
		v, err := settingsService.Value(args[0])
		if err != nil {
			return err
		}
		cmd.Println(formatValue(v))
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set [key] [value]",
	Short: "Store a setting",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if settingsService == nil {
			return errors.New("settings service not configured")
		}
		if err := settingsService.Set(args[0], args[1]); err != nil {
			return fmt.Errorf("setting %s: %w", args[0], err)
		}
		cmd.Printf("%s = %s\n", args[0], args[1])
		return nil
	},
}

var configResetCmd = &cobra.Command{
	Use:   "reset [key]",
	Short: "Restore the default for a setting",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if settingsService == nil {
			return errors.New("settings service not configured")
		}
		if err := settingsService.Reset(args[0]); err != nil {
			return fmt.Errorf("resetting %s: %w", args[0], err)
		}
		v, err := settingsService.Value(args[0])
		if err != nil {
			return err
		}
		cmd.Printf("%s = %s (default)\n", args[0], formatValue(v))
		return nil
	},
}

func init() {
	configCmd.AddCommand(configListCmd)
	configCmd.AddCommand(configGetCmd)
	configCmd.AddCommand(configSetCmd)
	configCmd.AddCommand(configResetCmd)
	rootCmd.AddCommand(configCmd)
}

func formatValue(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
