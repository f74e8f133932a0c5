package cmd

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/LeonAquitaine/as-stagefx-sub006/internal/archiver"
	"github.com/LeonAquitaine/as-stagefx-sub006/internal/config"
	"github.com/LeonAquitaine/as-stagefx-sub006/internal/deps"
	"github.com/LeonAquitaine/as-stagefx-sub006/internal/display"
	"github.com/LeonAquitaine/as-stagefx-sub006/internal/filelock"
	"github.com/LeonAquitaine/as-stagefx-sub006/internal/history"
	"github.com/LeonAquitaine/as-stagefx-sub006/internal/logger"
	"github.com/LeonAquitaine/as-stagefx-sub006/internal/manifest"
	"github.com/LeonAquitaine/as-stagefx-sub006/internal/models"
	"github.com/LeonAquitaine/as-stagefx-sub006/internal/resolver"
)

// defaultConfigName is the configuration file used when -c is not given
const defaultConfigName = "stagepack.yaml"

// NewBuildCommand creates the build command
func NewBuildCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "build",
		Short: "Resolve all packages and produce archives plus the manifest",
		Long: `Run the full packaging pipeline: scan sources, extract dependencies,
resolve each configured package's closure, write one zip archive per
package, and write the build manifest.

Prior archives and staging directories are removed first, so rebuilding
with unchanged inputs always leaves exactly one archive per package.

Examples:
  stagepack build                      # uses ./stagepack.yaml
  stagepack build -c release.yaml      # explicit config
  stagepack build --dry-run            # resolve and report, write nothing
  stagepack build --out dist           # override the output directory`,
		Args: cobra.NoArgs,
		RunE: runBuild,
	}

	cmd.Flags().StringP("config", "c", defaultConfigName, "Path to the configuration file")
	cmd.Flags().Bool("dry-run", false, "Resolve packages without writing any output")
	cmd.Flags().Bool("verbose", false, "Show detailed progress")
	cmd.Flags().String("out", "", "Override the configured output directory")

	return cmd
}

// runBuild implements the build command logic
func runBuild(cmd *cobra.Command, args []string) error {
	configPath, _ := cmd.Flags().GetString("config")
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	verbose, _ := cmd.Flags().GetBool("verbose")
	outDir, _ := cmd.Flags().GetString("out")

	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if outDir != "" {
		cfg.Output.Dir = outDir
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}

	logLevel := "info"
	if verbose {
		logLevel = "debug"
	}
	log := logger.NewConsoleLogger(cmd.OutOrStdout(), logLevel)

	result, warnings, err := resolveAll(cfg, log)
	if err != nil {
		return err
	}

	if dryRun {
		log.Infof("dry-run: no output written")
		printPackageSummary(cmd, result.Packages)
		display.RenderSummary(cmd.OutOrStderr(), warnings)
		return nil
	}

	// One build at a time per output directory
	lock := filelock.NewBuildLock(cfg.Output.Dir)
	if err := lock.Acquire(); err != nil {
		return err
	}
	defer lock.Release()

	arch := archiver.New(cfg, result.Snapshot)
	if err := arch.Clean(); err != nil {
		return err
	}

	var archived []models.ResolvedPackage
	var failed []string
	for _, pkg := range result.Packages {
		path, err := arch.Archive(pkg)
		if err != nil {
			log.Errorf("package %s: %v", pkg.Name, err)
			failed = append(failed, pkg.Name)
			continue
		}
		log.Infof("archived %s (%d file(s)) -> %s", pkg.Name, pkg.FileCount, path)
	}
	for _, pkg := range result.Packages {
		if !contains(failed, pkg.Name) {
			archived = append(archived, pkg)
		}
	}

	// The manifest lists only packages whose archives exist
	doc, orderWarnings := manifest.Build(cfg.Version, archived, cfg.DisplayOrder)
	warnings = append(warnings, orderWarnings...)

	manifestPath := filepath.Join(cfg.Output.Dir, cfg.Output.ManifestName)
	if err := manifest.Write(doc, manifestPath); err != nil {
		return err
	}
	log.Infof("manifest written to %s", manifestPath)

	if err := arch.Sweep(); err != nil {
		return err
	}

	if cfg.History.Enabled {
		if err := recordHistory(cfg, doc, len(warnings)); err != nil {
			log.Warnf("failed to record build history: %v", err)
		}
	}

	display.RenderSummary(cmd.OutOrStderr(), warnings)

	if len(failed) > 0 {
		return fmt.Errorf("%d package(s) failed to archive: %s", len(failed), strings.Join(failed, ", "))
	}

	log.Infof("build complete: %d package(s)", len(archived))
	return nil
}

// buildResult bundles the resolved packages with the snapshot they were
// resolved against
type buildResult struct {
	Packages []models.ResolvedPackage
	Snapshot *deps.Snapshot
}

// resolveAll runs scan, extraction and resolution, returning the packages
// in discovery order and every warning accumulated so far
func resolveAll(cfg *config.Config, log *logger.ConsoleLogger) (*buildResult, []models.Warning, error) {
	log.Debugf("scanning %s", cfg.Source.Root)
	snap, warnings, err := deps.Build(cfg)
	if err != nil {
		return nil, nil, err
	}
	log.Debugf("scanned %d file(s), %d texture(s)", len(snap.Names), len(snap.TextureNames))

	res, err := resolver.New(cfg, snap).Resolve()
	if err != nil {
		return nil, nil, err
	}
	warnings = append(warnings, res.Warnings...)

	return &buildResult{Packages: res.Packages, Snapshot: snap}, warnings, nil
}

// printPackageSummary writes a short per-package breakdown
func printPackageSummary(cmd *cobra.Command, packages []models.ResolvedPackage) {
	fmt.Fprintf(cmd.OutOrStdout(), "\nResolved packages:\n")
	for _, pkg := range packages {
		line := fmt.Sprintf("  %s: %d file(s)", pkg.Name, pkg.FileCount)
		if pkg.Textures != nil {
			line += fmt.Sprintf(", %d texture(s)", pkg.Textures.Count)
		}
		fmt.Fprintln(cmd.OutOrStdout(), line)
	}
}

// recordHistory appends the finished build to the history store
func recordHistory(cfg *config.Config, doc *models.Manifest, warningCount int) error {
	store, err := history.NewStore(cfg.History.DBPath)
	if err != nil {
		return err
	}
	defer store.Close()
	return store.RecordBuild(doc, warningCount)
}

// contains reports whether list holds name
func contains(list []string, name string) bool {
	for _, item := range list {
		if item == name {
			return true
		}
	}
	return false
}
