package models

import "strings"

// Category identifies the functional family a shader file belongs to,
// derived from the AS_<CATEGORY>_<Name> naming convention.
type Category string

// Known categories. Shared include files are tagged CategoryInclude
// regardless of name; anything unrecognized falls into CategoryOther.
const (
	CategoryBackground Category = "bgx"
	CategoryVisual     Category = "vfx"
	CategoryLighting   Category = "lfx"
	CategoryGraphic    Category = "gfx"
	CategoryAudio      Category = "afx"
	CategoryInclude    Category = "fxh"
	CategoryOther      Category = "other"
)

// KnownCategories returns the fixed set of categories derivable from the
// naming convention (excludes the include tag and the fallback).
func KnownCategories() []Category {
	return []Category{
		CategoryBackground,
		CategoryVisual,
		CategoryLighting,
		CategoryGraphic,
		CategoryAudio,
	}
}

// ParseCategory normalizes a configured category string to a Category.
// Returns false if the string names no known tag.
func ParseCategory(s string) (Category, bool) {
	switch Category(strings.ToLower(strings.TrimSpace(s))) {
	case CategoryBackground:
		return CategoryBackground, true
	case CategoryVisual:
		return CategoryVisual, true
	case CategoryLighting:
		return CategoryLighting, true
	case CategoryGraphic:
		return CategoryGraphic, true
	case CategoryAudio:
		return CategoryAudio, true
	case CategoryInclude:
		return CategoryInclude, true
	case CategoryOther:
		return CategoryOther, true
	}
	return "", false
}

// FileKind distinguishes primary shader sources from shared includes and
// auxiliary texture assets.
type FileKind int

const (
	// KindShader is a primary distributable effect file.
	KindShader FileKind = iota
	// KindInclude is a shared library file pulled in via include directives.
	KindInclude
	// KindTexture is an auxiliary asset referenced by source = "..." declarations.
	KindTexture
)

// String returns a human-readable kind name for logs and warnings.
func (k FileKind) String() string {
	switch k {
	case KindShader:
		return "shader"
	case KindInclude:
		return "include"
	case KindTexture:
		return "texture"
	default:
		return "unknown"
	}
}

// SourceFile is one scanned file. Immutable once produced by the scanner;
// the resolver only reads these.
type SourceFile struct {
	// Name is the base file name, the identity used in package member lists.
	Name string

	// RelPath is the path relative to the scan root, slash-separated.
	RelPath string

	// Category is the tag derived from the naming convention.
	Category Category

	// Kind distinguishes shaders, includes, and textures.
	Kind FileKind

	// Prerelease marks files excluded from packages that request
	// pre-release exclusion (the default).
	Prerelease bool
}
