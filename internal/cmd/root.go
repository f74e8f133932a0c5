package cmd

import (
	"github.com/spf13/cobra"
)

// Version is injected at build time via -ldflags
var Version = "dev"

// NewRootCommand creates and returns the root cobra command for stagepack
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "stagepack",
		Short: "Release packager for StageFX shader collections",
		Long: `Stagepack builds distributable shader packages from a flat pool of
shader sources and their shared include and texture dependencies.

It scans the source tree, classifies files by the AS_<CATEGORY>_<Name>
naming convention, extracts static include and texture references, resolves
each configured package's transitive closure (with package inheritance),
and emits a deterministic JSON manifest plus one zip archive per package.`,
		Version: Version,
		// Silence usage on errors to avoid duplicate help text
		SilenceUsage: true,
	}

	cmd.AddCommand(NewBuildCommand())
	cmd.AddCommand(NewValidateCommand())
	cmd.AddCommand(NewHistoryCommand())

	return cmd
}
