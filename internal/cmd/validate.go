package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/LeonAquitaine/as-stagefx-sub006/internal/config"
	"github.com/LeonAquitaine/as-stagefx-sub006/internal/display"
	"github.com/LeonAquitaine/as-stagefx-sub006/internal/logger"
)

// NewValidateCommand creates the validate command
func NewValidateCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate the configuration and resolve packages without writing output",
		Long: `Load and validate the configuration, scan the source tree, and resolve
every package. Reports resolution warnings and exits non-zero on fatal
configuration errors (unknown inheritance parent, inheritance cycle,
malformed patterns). Nothing is written.`,
		Args: cobra.NoArgs,
		RunE: runValidate,
	}

	cmd.Flags().StringP("config", "c", defaultConfigName, "Path to the configuration file")

	return cmd
}

// runValidate implements the validate command logic
func runValidate(cmd *cobra.Command, args []string) error {
	configPath, _ := cmd.Flags().GetString("config")

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	log := logger.NewConsoleLogger(cmd.OutOrStdout(), "info")
	result, warnings, err := resolveAll(cfg, log)
	if err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Configuration is valid: %d package(s) resolved.\n", len(result.Packages))
	printPackageSummary(cmd, result.Packages)
	display.RenderSummary(cmd.OutOrStderr(), warnings)

	return nil
}
