package models

import "time"

// ResolvedPackage is the output of resolving one package definition:
// the full transitive member set, sorted and duplicate-free.
type ResolvedPackage struct {
	// Name is the package key from the configuration.
	Name string `json:"name"`

	// Description comes from the package definition.
	Description string `json:"description"`

	// Version is the global release version copied from the configuration.
	Version string `json:"version"`

	// FileCount is len(Files); kept explicit because downstream consumers
	// key off the counts without walking the lists.
	FileCount int `json:"file_count"`

	// Files is the sorted list of member file names (primary files plus
	// transitively required shared files).
	Files []string `json:"files"`

	// Textures is present only for texture-inclusive packages.
	Textures *TextureSet `json:"textures,omitempty"`
}

// TextureSet is the nested texture sub-object of a manifest entry.
type TextureSet struct {
	// Count is len(Files).
	Count int `json:"count"`

	// Files is the sorted list of texture file names.
	Files []string `json:"files"`
}

// HasTextures reports whether the package carries a non-empty texture set.
func (p *ResolvedPackage) HasTextures() bool {
	return p.Textures != nil && p.Textures.Count > 0
}

// Manifest is the full build output document. Regenerated whole on every
// build; field names and nesting are stable for downstream consumers
// (release-note generator, CI uploader).
type Manifest struct {
	// Version is the global release version.
	Version string `json:"version"`

	// BuildID uniquely identifies this build run.
	BuildID string `json:"build_id"`

	// GeneratedAt is the build timestamp in RFC 3339 form.
	GeneratedAt time.Time `json:"generated_at"`

	// Packages is the ordered package sequence: display-order keys first,
	// then remaining packages in discovery order.
	Packages []ResolvedPackage `json:"packages"`
}
