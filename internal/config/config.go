package config

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/LeonAquitaine/as-stagefx-sub006/internal/models"
)

// SourceConfig describes where shader sources live and how they are filtered
type SourceConfig struct {
	// Root is the directory scanned for shader sources
	Root string `yaml:"root"`

	// Extensions is the list of allowed file extensions (e.g., ".fx", ".fxh")
	Extensions []string `yaml:"extensions"`

	// IncludeExtensions marks extensions classified as shared includes
	IncludeExtensions []string `yaml:"include_extensions"`

	// Exclude is a list of regex patterns matched against relative paths;
	// a matching file is dropped from the scan
	Exclude []string `yaml:"exclude"`

	// PrereleasePrefix marks files excluded from normal distribution
	// (e.g., "[PRE]")
	PrereleasePrefix string `yaml:"prerelease_prefix"`
}

// TextureConfig describes the auxiliary texture pool
type TextureConfig struct {
	// Dir is the directory holding texture assets; may be assembled
	// separately from the shader tree
	Dir string `yaml:"dir"`

	// Extensions is the list of allowed texture extensions
	Extensions []string `yaml:"extensions"`
}

// DependencyConfig holds the reference-extraction patterns and the
// always-required global dependency list
type DependencyConfig struct {
	// IncludePattern captures the path token of an include directive;
	// must contain exactly one capture group
	IncludePattern string `yaml:"include_pattern"`

	// AssetPattern captures the source identifier of a texture declaration;
	// must contain exactly one capture group
	AssetPattern string `yaml:"asset_pattern"`

	// Globals are file names unconditionally unioned into every package
	Globals []string `yaml:"globals"`
}

// PackageDef is one package definition from the configuration. Exactly one
// of the two shapes applies: explicit (Files set) or dynamic (Categories
// and/or Inherits set). The distinction is fixed at load time so the
// resolver never branches on field presence.
type PackageDef struct {
	// Name is the package key; unique across the configuration
	Name string `yaml:"name"`

	// Description is carried into the manifest entry
	Description string `yaml:"description"`

	// Files is the explicit member list; presence makes the package explicit
	Files []string `yaml:"files"`

	// Categories lists category tags whose files seed a dynamic package
	Categories []string `yaml:"categories"`

	// Inherits names a package whose resolved members seed this one
	Inherits string `yaml:"inherits"`

	// IncludePrerelease disables the default pre-release exclusion
	IncludePrerelease bool `yaml:"include_prerelease"`

	// IncludeTextures attaches textures referenced by the package's closure
	IncludeTextures bool `yaml:"include_textures"`

	// AllTextures attaches the entire texture pool instead of only the
	// referenced textures; implies IncludeTextures
	AllTextures bool `yaml:"all_textures"`
}

// IsExplicit reports whether the definition is an explicit member list
func (p *PackageDef) IsExplicit() bool {
	return len(p.Files) > 0
}

// TexturesWanted reports whether any texture attachment applies
func (p *PackageDef) TexturesWanted() bool {
	return p.IncludeTextures || p.AllTextures
}

// OutputConfig describes the output path layout and the readme template
type OutputConfig struct {
	// Dir is the directory receiving archives and the manifest
	Dir string `yaml:"dir"`

	// ShaderSubdir is the archive subdirectory for shader files
	ShaderSubdir string `yaml:"shader_subdir"`

	// TextureSubdir is the archive subdirectory for texture files
	TextureSubdir string `yaml:"texture_subdir"`

	// ManifestName is the manifest file name within Dir
	ManifestName string `yaml:"manifest_name"`

	// ReadmeName is the generated readme file name within each archive
	ReadmeName string `yaml:"readme_name"`

	// ReadmeTemplate is the readme body with {version}, {description},
	// {textureNote} and {supportUrl} placeholders
	ReadmeTemplate string `yaml:"readme_template"`
}

// HistoryConfig controls the optional build-history store
type HistoryConfig struct {
	// Enabled turns build-history recording on
	Enabled bool `yaml:"enabled"`

	// DBPath is the path to the history database
	DBPath string `yaml:"db_path"`
}

// Config is the full stagepack configuration
type Config struct {
	// Version is the global release version stamped on every package
	Version string `yaml:"version"`

	// SupportURL is substituted for {supportUrl} in readmes
	SupportURL string `yaml:"support_url"`

	// Source configures shader scanning
	Source SourceConfig `yaml:"source"`

	// Textures configures the texture pool
	Textures TextureConfig `yaml:"textures"`

	// Dependencies configures reference extraction and global dependencies
	Dependencies DependencyConfig `yaml:"dependencies"`

	// Packages is the ordered list of package definitions
	Packages []PackageDef `yaml:"packages"`

	// DisplayOrder lists package names placed first in the manifest
	DisplayOrder []string `yaml:"display_order"`

	// Output configures the output layout
	Output OutputConfig `yaml:"output"`

	// History configures the build-history store
	History HistoryConfig `yaml:"history"`
}

// DefaultConfig returns a Config with sensible defaults for everything
// except the release version and the package list, which a build cannot
// invent.
func DefaultConfig() *Config {
	return &Config{
		Source: SourceConfig{
			Root:              "shaders",
			Extensions:        []string{".fx", ".fxh"},
			IncludeExtensions: []string{".fxh"},
			PrereleasePrefix:  "[PRE]",
		},
		Textures: TextureConfig{
			Dir:        "textures",
			Extensions: []string{".png", ".jpg", ".jpeg", ".dds"},
		},
		Dependencies: DependencyConfig{
			IncludePattern: `#include\s+["<]([^">]+)[">]`,
			AssetPattern:   `source\s*=\s*"([^"]+)"`,
		},
		Output: OutputConfig{
			Dir:           "release",
			ShaderSubdir:  "shaders",
			TextureSubdir: "textures",
			ManifestName:  "manifest.json",
			ReadmeName:    "README.txt",
			ReadmeTemplate: "StageFX shader package {version}\n\n{description}\n\n" +
				"{textureNote}\n\nSupport: {supportUrl}\n",
		},
		History: HistoryConfig{
			Enabled: false,
			DBPath:  ".stagepack/history.db",
		},
	}
}

// Load reads and parses a configuration file. A missing or malformed file
// is a configuration error: the package definitions drive the whole build
// and there is no useful default set.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return cfg, nil
}

// Validate checks the configuration for errors that must abort the build
// before any output is written
func (c *Config) Validate() error {
	if c.Version == "" {
		return fmt.Errorf("version is required")
	}
	if len(c.Packages) == 0 {
		return fmt.Errorf("at least one package definition is required")
	}

	for _, pattern := range c.Source.Exclude {
		if _, err := regexp.Compile(pattern); err != nil {
			return fmt.Errorf("invalid exclude pattern %q: %w", pattern, err)
		}
	}

	if err := validateCapturePattern("dependencies.include_pattern", c.Dependencies.IncludePattern); err != nil {
		return err
	}
	if err := validateCapturePattern("dependencies.asset_pattern", c.Dependencies.AssetPattern); err != nil {
		return err
	}

	names := make(map[string]bool)
	for i := range c.Packages {
		pkg := &c.Packages[i]
		if pkg.Name == "" {
			return fmt.Errorf("packages[%d]: name is required", i)
		}
		if names[pkg.Name] {
			return fmt.Errorf("package %q: duplicate package name", pkg.Name)
		}
		names[pkg.Name] = true

		if pkg.IsExplicit() && (len(pkg.Categories) > 0 || pkg.Inherits != "") {
			return fmt.Errorf("package %q: explicit file list cannot be combined with categories or inherits", pkg.Name)
		}
		if !pkg.IsExplicit() && len(pkg.Categories) == 0 && pkg.Inherits == "" {
			return fmt.Errorf("package %q: needs an explicit file list, categories, or a parent to inherit from", pkg.Name)
		}
		if pkg.Inherits == pkg.Name {
			return fmt.Errorf("package %q: cannot inherit from itself", pkg.Name)
		}
	}

	// Parent references must name a defined package; longer cycles are
	// caught by the resolver's ordering pass.
	for i := range c.Packages {
		pkg := &c.Packages[i]
		if pkg.Inherits != "" && !names[pkg.Inherits] {
			return fmt.Errorf("package %q: inherits unknown package %q", pkg.Name, pkg.Inherits)
		}
	}

	if c.Output.Dir == "" {
		return fmt.Errorf("output.dir is required")
	}
	if c.Output.ManifestName == "" {
		return fmt.Errorf("output.manifest_name is required")
	}
	if c.History.Enabled && c.History.DBPath == "" {
		return fmt.Errorf("history.db_path cannot be empty when history is enabled")
	}

	return nil
}

// UnknownCategories returns the configured category strings across all
// dynamic packages that name no known category tag. These contribute zero
// files and are surfaced as warnings rather than errors.
func (c *Config) UnknownCategories() []string {
	var unknown []string
	seen := make(map[string]bool)
	for i := range c.Packages {
		for _, cat := range c.Packages[i].Categories {
			if _, ok := models.ParseCategory(cat); !ok && !seen[cat] {
				seen[cat] = true
				unknown = append(unknown, cat)
			}
		}
	}
	return unknown
}

// validateCapturePattern checks that a reference pattern compiles and
// carries exactly one capture group
func validateCapturePattern(key, pattern string) error {
	if pattern == "" {
		return fmt.Errorf("%s is required", key)
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return fmt.Errorf("invalid %s %q: %w", key, pattern, err)
	}
	if re.NumSubexp() != 1 {
		return fmt.Errorf("%s must contain exactly one capture group, got %d", key, re.NumSubexp())
	}
	return nil
}

// NormalizeExtension lower-cases an extension and ensures a leading dot
func NormalizeExtension(ext string) string {
	ext = strings.ToLower(strings.TrimSpace(ext))
	if ext != "" && !strings.HasPrefix(ext, ".") {
		ext = "." + ext
	}
	return ext
}
