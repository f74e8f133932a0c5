// Package resolver computes each package's full member closure from the
// scanned snapshot and the configured package definitions.
package resolver

import (
	"fmt"
	"sort"

	"github.com/LeonAquitaine/as-stagefx-sub006/internal/config"
	"github.com/LeonAquitaine/as-stagefx-sub006/internal/deps"
	"github.com/LeonAquitaine/as-stagefx-sub006/internal/models"
)

// Result is the outcome of resolving every configured package
type Result struct {
	// Packages holds the resolved packages in discovery (configuration)
	// order; the manifest builder applies display ordering on top
	Packages []models.ResolvedPackage

	// Warnings are the recoverable problems accumulated during resolution
	Warnings []models.Warning
}

// memberSet is the working state for one package: shader/include members
// and attached texture candidates
type memberSet struct {
	files    map[string]bool
	textures map[string]bool
}

func newMemberSet() *memberSet {
	return &memberSet{
		files:    make(map[string]bool),
		textures: make(map[string]bool),
	}
}

// Resolver closes package definitions over the dependency snapshot. The
// snapshot is read-only; all mutable state lives in the per-package
// member sets.
type Resolver struct {
	cfg      *config.Config
	snap     *deps.Snapshot
	resolved map[string]*memberSet
	warnings []models.Warning
}

// New creates a Resolver over a configuration and snapshot
func New(cfg *config.Config, snap *deps.Snapshot) *Resolver {
	return &Resolver{
		cfg:      cfg,
		snap:     snap,
		resolved: make(map[string]*memberSet),
	}
}

// Resolve computes every package's closure. Packages are processed in
// inheritance-topological order so parents are fully resolved before any
// child reads their member sets; an inheritance cycle aborts before any
// output is written.
func (r *Resolver) Resolve() (*Result, error) {
	ordered, err := orderByInheritance(r.cfg.Packages)
	if err != nil {
		return nil, err
	}

	defs := make(map[string]*config.PackageDef, len(r.cfg.Packages))
	for i := range r.cfg.Packages {
		defs[r.cfg.Packages[i].Name] = &r.cfg.Packages[i]
	}

	for _, name := range ordered {
		if err := r.resolvePackage(defs[name]); err != nil {
			return nil, err
		}
	}

	r.warnUnreachableOther(defs)

	// Emit in configuration order regardless of resolution order
	result := &Result{Warnings: r.warnings}
	for i := range r.cfg.Packages {
		def := &r.cfg.Packages[i]
		result.Packages = append(result.Packages, r.finalize(def))
	}

	return result, nil
}

// resolvePackage runs the seed / closure / global-injection / texture
// steps for one definition and stores the member set
func (r *Resolver) resolvePackage(def *config.PackageDef) error {
	set := newMemberSet()

	if def.IsExplicit() {
		r.seedExplicit(def, set)
	} else {
		if err := r.seedDynamic(def, set); err != nil {
			return err
		}
	}

	// Global dependencies join the closure frontier so their own includes
	// are pulled in as well
	for _, global := range r.cfg.Dependencies.Globals {
		if !r.snap.HasFile(global) {
			r.warnf(def.Name, "global dependency %q not found in scanned set", global)
			continue
		}
		set.files[global] = true
	}

	r.close(def, set)

	r.resolved[def.Name] = set
	return nil
}

// seedExplicit seeds from a configured member-name list, filtered to the
// files actually scanned. Missing members are reported, not fatal.
func (r *Resolver) seedExplicit(def *config.PackageDef, set *memberSet) {
	var missing []string
	for _, name := range def.Files {
		if r.snap.HasFile(name) {
			set.files[name] = true
			continue
		}
		missing = append(missing, name)
	}
	if len(missing) > 0 {
		r.warnings = append(r.warnings, models.Warning{
			Package: def.Name,
			Message: fmt.Sprintf("%d explicit member(s) not found in scanned set", len(missing)),
			Files:   missing,
		})
	}
}

// seedDynamic seeds from the parent's resolved members plus every scanned
// file matching the configured categories, honoring pre-release exclusion
func (r *Resolver) seedDynamic(def *config.PackageDef, set *memberSet) error {
	if def.Inherits != "" {
		parent, ok := r.resolved[def.Inherits]
		if !ok {
			return fmt.Errorf("package %q: parent %q is not resolved", def.Name, def.Inherits)
		}
		for name := range parent.files {
			set.files[name] = true
		}
		for name := range parent.textures {
			set.textures[name] = true
		}
	}

	matched := 0
	for _, raw := range def.Categories {
		cat, ok := models.ParseCategory(raw)
		if !ok {
			r.warnf(def.Name, "unknown category %q contributes no files", raw)
			continue
		}
		for _, name := range r.snap.ByCategory(cat) {
			file := r.snap.Files[name]
			if file.Prerelease && !def.IncludePrerelease {
				continue
			}
			set.files[name] = true
			matched++
		}
	}

	if len(def.Categories) > 0 && matched == 0 {
		r.warnf(def.Name, "category rule matched zero files")
	}

	return nil
}

// close unions in every member's dependency targets until a fixpoint.
// The visited set makes the walk cycle-safe; dangling references become
// warnings and are never revisited.
func (r *Resolver) close(def *config.PackageDef, set *memberSet) {
	queue := make([]string, 0, len(set.files))
	for name := range set.files {
		queue = append(queue, name)
	}
	sort.Strings(queue)

	visited := make(map[string]bool, len(queue))
	danglingSeen := make(map[string]bool)
	var dangling []string

	for len(queue) > 0 {
		name := queue[0]
		queue = queue[1:]
		if visited[name] {
			continue
		}
		visited[name] = true

		for _, target := range r.snap.Deps[name] {
			if r.snap.HasFile(target) {
				if !set.files[target] {
					set.files[target] = true
					queue = append(queue, target)
				}
				continue
			}
			if !danglingSeen[target] {
				danglingSeen[target] = true
				dangling = append(dangling, target)
			}
		}

		for _, asset := range r.snap.Assets[name] {
			if r.snap.HasTexture(asset) {
				set.textures[asset] = true
				continue
			}
			if !danglingSeen[asset] {
				danglingSeen[asset] = true
				dangling = append(dangling, asset)
			}
		}
	}

	if len(dangling) > 0 {
		sort.Strings(dangling)
		r.warnings = append(r.warnings, models.Warning{
			Package: def.Name,
			Message: fmt.Sprintf("%d dangling reference(s) not found in scanned set", len(dangling)),
			Files:   dangling,
		})
	}
}

// finalize produces the sorted, duplicate-free ResolvedPackage for a
// definition. Texture membership is emitted only for texture-inclusive
// packages; all_textures swaps the referenced set for the whole pool.
func (r *Resolver) finalize(def *config.PackageDef) models.ResolvedPackage {
	set := r.resolved[def.Name]

	files := make([]string, 0, len(set.files))
	for name := range set.files {
		files = append(files, name)
	}
	sort.Strings(files)

	pkg := models.ResolvedPackage{
		Name:        def.Name,
		Description: def.Description,
		Version:     r.cfg.Version,
		FileCount:   len(files),
		Files:       files,
	}

	if def.TexturesWanted() {
		textures := make([]string, 0)
		if def.AllTextures {
			textures = append(textures, r.snap.TextureNames...)
		} else {
			for name := range set.textures {
				textures = append(textures, name)
			}
			sort.Strings(textures)
		}
		pkg.Textures = &models.TextureSet{
			Count: len(textures),
			Files: textures,
		}
	}

	return pkg
}

// warnUnreachableOther surfaces uncategorized shader files that no
// category rule names and no explicit list claims. Scope-limiting by
// intent, but reported rather than silently omitted.
func (r *Resolver) warnUnreachableOther(defs map[string]*config.PackageDef) {
	claimed := make(map[string]bool)
	reachable := false
	for _, def := range defs {
		for _, name := range def.Files {
			claimed[name] = true
		}
		for _, raw := range def.Categories {
			if cat, ok := models.ParseCategory(raw); ok && cat == models.CategoryOther {
				reachable = true
			}
		}
	}
	if reachable {
		return
	}

	var orphaned []string
	for _, name := range r.snap.ByCategory(models.CategoryOther) {
		if r.snap.Files[name].Kind == models.KindShader && !claimed[name] {
			orphaned = append(orphaned, name)
		}
	}
	if len(orphaned) > 0 {
		r.warnings = append(r.warnings, models.Warning{
			Message: fmt.Sprintf("%d uncategorized file(s) are not reachable by any package rule", len(orphaned)),
			Files:   orphaned,
		})
	}
}

// warnf appends a formatted warning for a package
func (r *Resolver) warnf(pkg, format string, args ...interface{}) {
	r.warnings = append(r.warnings, models.Warnf(pkg, format, args...))
}
