// Package manifest assembles and writes the build manifest: the single
// structured document summarizing every resolved package for a build.
package manifest

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/LeonAquitaine/as-stagefx-sub006/internal/filelock"
	"github.com/LeonAquitaine/as-stagefx-sub006/internal/models"
)

// Build produces the manifest document for a set of resolved packages.
// Packages named in displayOrder come first, in that order; the remaining
// packages follow in their discovery order. A display-order key matching
// no resolved package is a warning, not an error.
func Build(version string, packages []models.ResolvedPackage, displayOrder []string) (*models.Manifest, []models.Warning) {
	var warnings []models.Warning

	byName := make(map[string]int, len(packages))
	for i := range packages {
		byName[packages[i].Name] = i
	}

	placed := make(map[string]bool, len(packages))
	ordered := make([]models.ResolvedPackage, 0, len(packages))

	for _, key := range displayOrder {
		idx, ok := byName[key]
		if !ok {
			warnings = append(warnings, models.Warnf("", "display_order names unknown package %q", key))
			continue
		}
		if placed[key] {
			continue
		}
		placed[key] = true
		ordered = append(ordered, packages[idx])
	}

	for i := range packages {
		if !placed[packages[i].Name] {
			ordered = append(ordered, packages[i])
		}
	}

	return &models.Manifest{
		Version:     version,
		BuildID:     uuid.NewString(),
		GeneratedAt: time.Now().UTC().Truncate(time.Second),
		Packages:    ordered,
	}, warnings
}

// Write serializes the manifest as indented JSON and writes it whole via
// an atomic temp-file-and-rename, so downstream consumers never observe a
// partial manifest.
func Write(m *models.Manifest, path string) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}
	data = append(data, '\n')

	if err := filelock.AtomicWrite(path, data); err != nil {
		return fmt.Errorf("failed to write manifest: %w", err)
	}
	return nil
}
