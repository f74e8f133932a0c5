package deps

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/LeonAquitaine/as-stagefx-sub006/internal/classify"
	"github.com/LeonAquitaine/as-stagefx-sub006/internal/config"
	"github.com/LeonAquitaine/as-stagefx-sub006/internal/models"
	"github.com/LeonAquitaine/as-stagefx-sub006/internal/scanner"
)

// Snapshot is the immutable scan-and-extract result for one build run.
// It is produced once, then passed read-only into the resolver; nothing
// mutates it mid-resolution.
type Snapshot struct {
	// Files maps base file name to its scanned record (shaders and includes)
	Files map[string]models.SourceFile

	// Names is the sorted list of keys of Files, the stable iteration order
	Names []string

	// Deps maps file name to the base names of its include references
	Deps map[string][]string

	// Assets maps file name to the base names of its texture references
	Assets map[string][]string

	// Textures maps texture base name to its scanned record
	Textures map[string]models.SourceFile

	// TextureNames is the sorted list of keys of Textures
	TextureNames []string
}

// HasFile reports whether a shader or include with the given name was scanned
func (s *Snapshot) HasFile(name string) bool {
	_, ok := s.Files[name]
	return ok
}

// HasTexture reports whether a texture with the given name was scanned
func (s *Snapshot) HasTexture(name string) bool {
	_, ok := s.Textures[name]
	return ok
}

// ByCategory returns the sorted names of all files tagged with the category
func (s *Snapshot) ByCategory(cat models.Category) []string {
	var names []string
	for _, name := range s.Names {
		if s.Files[name].Category == cat {
			names = append(names, name)
		}
	}
	return names
}

// Build scans the source tree and the texture pool, classifies every
// candidate, and extracts each file's dependency references. Scan and
// extraction problems that do not prevent a build (unreadable file,
// missing texture directory, duplicate base name) come back as warnings.
func Build(cfg *config.Config) (*Snapshot, []models.Warning, error) {
	var warnings []models.Warning

	ext, err := NewExtractor(cfg.Dependencies.IncludePattern, cfg.Dependencies.AssetPattern)
	if err != nil {
		return nil, nil, err
	}

	scan, err := scanner.Scan(cfg.Source.Root, scanner.Options{
		Extensions:      cfg.Source.Extensions,
		ExcludePatterns: cfg.Source.Exclude,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to scan source root: %w", err)
	}
	for _, scanErr := range scan.Errors {
		warnings = append(warnings, models.Warnf("", "scan: %v", scanErr))
	}

	cl := classify.New(cfg.Source.IncludeExtensions, cfg.Source.PrereleasePrefix)

	snap := &Snapshot{
		Files:    make(map[string]models.SourceFile),
		Deps:     make(map[string][]string),
		Assets:   make(map[string][]string),
		Textures: make(map[string]models.SourceFile),
	}

	for _, rel := range scan.Files {
		file := cl.Classify(rel)
		if prev, dup := snap.Files[file.Name]; dup {
			warnings = append(warnings, models.Warning{
				Message: fmt.Sprintf("duplicate file name %q (%s shadows %s)", file.Name, file.RelPath, prev.RelPath),
				Files:   []string{file.Name},
			})
			continue
		}
		snap.Files[file.Name] = file

		data, err := os.ReadFile(filepath.Join(cfg.Source.Root, filepath.FromSlash(rel)))
		if err != nil {
			warnings = append(warnings, models.Warnf("", "failed to read %s: %v", rel, err))
			continue
		}

		refs := ext.Extract(string(data))
		snap.Deps[file.Name] = uniqueBaseNames(refs.Includes)
		snap.Assets[file.Name] = uniqueBaseNames(refs.Assets)
	}

	for name := range snap.Files {
		snap.Names = append(snap.Names, name)
	}
	sort.Strings(snap.Names)

	if err := buildTexturePool(cfg, snap, &warnings); err != nil {
		return nil, nil, err
	}

	return snap, warnings, nil
}

// buildTexturePool scans the texture directory into the snapshot. The
// directory may be assembled separately from the shader tree, so a missing
// directory is a warning with an empty pool, not an error.
func buildTexturePool(cfg *config.Config, snap *Snapshot, warnings *[]models.Warning) error {
	dir := cfg.Textures.Dir
	if dir == "" {
		return nil
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		*warnings = append(*warnings, models.Warnf("", "texture directory %s not found; texture pool is empty", dir))
		return nil
	}

	scan, err := scanner.Scan(dir, scanner.Options{Extensions: cfg.Textures.Extensions})
	if err != nil {
		return fmt.Errorf("failed to scan texture directory: %w", err)
	}
	for _, scanErr := range scan.Errors {
		*warnings = append(*warnings, models.Warnf("", "texture scan: %v", scanErr))
	}

	for _, rel := range scan.Files {
		name := filepath.Base(filepath.FromSlash(rel))
		if _, dup := snap.Textures[name]; dup {
			*warnings = append(*warnings, models.Warning{
				Message: fmt.Sprintf("duplicate texture name %q", name),
				Files:   []string{name},
			})
			continue
		}
		snap.Textures[name] = models.SourceFile{
			Name:     name,
			RelPath:  rel,
			Category: models.CategoryOther,
			Kind:     models.KindTexture,
		}
		snap.TextureNames = append(snap.TextureNames, name)
	}
	sort.Strings(snap.TextureNames)

	return nil
}

// uniqueBaseNames normalizes reference tokens to base names, dropping
// duplicates while preserving first-seen order
func uniqueBaseNames(refs []string) []string {
	if len(refs) == 0 {
		return nil
	}
	seen := make(map[string]bool, len(refs))
	var out []string
	for _, ref := range refs {
		name := BaseName(ref)
		if name == "" || name == "." || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	return out
}
