package cmd

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/LeonAquitaine/as-stagefx-sub006/internal/config"
	"github.com/LeonAquitaine/as-stagefx-sub006/internal/history"
)

// NewHistoryCommand creates the history command
func NewHistoryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent build records",
		Long: `List recent builds recorded in the history database, newest first.
History recording must be enabled in the configuration (history.enabled).`,
		Args: cobra.NoArgs,
		RunE: runHistory,
	}

	cmd.Flags().StringP("config", "c", defaultConfigName, "Path to the configuration file")
	cmd.Flags().IntP("limit", "n", 20, "Maximum number of rows to show")

	return cmd
}

// runHistory implements the history command logic
func runHistory(cmd *cobra.Command, args []string) error {
	configPath, _ := cmd.Flags().GetString("config")
	limit, _ := cmd.Flags().GetInt("limit")

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if !cfg.History.Enabled {
		return fmt.Errorf("build history is disabled; set history.enabled in %s", configPath)
	}

	store, err := history.NewStore(cfg.History.DBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	records, err := store.Recent(limit)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No build history recorded yet.")
		return nil
	}

	w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "WHEN\tBUILD\tVERSION\tPACKAGE\tFILES\tTEXTURES\tWARNINGS")
	for _, rec := range records {
		fmt.Fprintf(w, "%s\t%.8s\t%s\t%s\t%d\t%d\t%d\n",
			rec.CreatedAt.Format("2006-01-02 15:04:05"),
			rec.BuildID, rec.Version, rec.Package,
			rec.FileCount, rec.TextureCount, rec.WarningCount)
	}
	return w.Flush()
}
