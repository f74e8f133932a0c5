// Package classify derives category tags and pre-release flags from the
// shader file naming convention.
package classify

import (
	"path/filepath"
	"strings"

	"github.com/LeonAquitaine/as-stagefx-sub006/internal/models"
)

// Classifier assigns categories and pre-release flags to scanned files
type Classifier struct {
	includeExts      map[string]bool
	prereleasePrefix string
}

// New creates a Classifier. includeExtensions marks shared-include
// extensions (tagged fxh regardless of name); prereleasePrefix marks
// pre-release files by name prefix (empty disables the check).
func New(includeExtensions []string, prereleasePrefix string) *Classifier {
	exts := make(map[string]bool, len(includeExtensions))
	for _, ext := range includeExtensions {
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		exts[strings.ToLower(ext)] = true
	}
	return &Classifier{
		includeExts:      exts,
		prereleasePrefix: prereleasePrefix,
	}
}

// Classify produces the SourceFile record for one scanned relative path.
// Classification never fails: files without a recognizable category token
// fall into the "other" category rather than being dropped.
func (c *Classifier) Classify(relPath string) models.SourceFile {
	name := filepath.Base(filepath.FromSlash(relPath))

	file := models.SourceFile{
		Name:       name,
		RelPath:    relPath,
		Prerelease: c.IsPrerelease(name),
	}

	if c.includeExts[strings.ToLower(filepath.Ext(name))] {
		file.Category = models.CategoryInclude
		file.Kind = models.KindInclude
		return file
	}

	// The marker is orthogonal to the category: strip it so a pre-release
	// file still lands in its family when a package opts in.
	file.Category = Categorize(strings.TrimPrefix(name, c.prereleasePrefix))
	file.Kind = models.KindShader
	return file
}

// IsPrerelease reports whether a file name carries the pre-release marker
func (c *Classifier) IsPrerelease(name string) bool {
	return c.prereleasePrefix != "" && strings.HasPrefix(name, c.prereleasePrefix)
}

// Categorize derives the category tag from a name of the form
// <prefix>_<CATEGORY>_<rest>. Names without a known category token in the
// second position yield CategoryOther.
func Categorize(name string) models.Category {
	parts := strings.Split(name, "_")
	if len(parts) < 3 {
		return models.CategoryOther
	}

	tag, ok := models.ParseCategory(parts[1])
	if !ok {
		return models.CategoryOther
	}
	// The include tag is reserved for shared-include extensions; a shader
	// named with it still counts as uncategorized.
	if tag == models.CategoryInclude || tag == models.CategoryOther {
		return models.CategoryOther
	}
	return tag
}
