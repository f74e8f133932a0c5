package resolver

import (
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/LeonAquitaine/as-stagefx-sub006/internal/config"
	"github.com/LeonAquitaine/as-stagefx-sub006/internal/deps"
	"github.com/LeonAquitaine/as-stagefx-sub006/internal/models"
)

// snapshotBuilder assembles test snapshots without touching the filesystem
type snapshotBuilder struct {
	snap *deps.Snapshot
}

func newSnapshotBuilder() *snapshotBuilder {
	return &snapshotBuilder{snap: &deps.Snapshot{
		Files:    make(map[string]models.SourceFile),
		Deps:     make(map[string][]string),
		Assets:   make(map[string][]string),
		Textures: make(map[string]models.SourceFile),
	}}
}

func (b *snapshotBuilder) file(name string, cat models.Category, kind models.FileKind, prerelease bool) *snapshotBuilder {
	b.snap.Files[name] = models.SourceFile{
		Name: name, RelPath: name, Category: cat, Kind: kind, Prerelease: prerelease,
	}
	return b
}

func (b *snapshotBuilder) dep(from string, to ...string) *snapshotBuilder {
	b.snap.Deps[from] = append(b.snap.Deps[from], to...)
	return b
}

func (b *snapshotBuilder) asset(from string, to ...string) *snapshotBuilder {
	b.snap.Assets[from] = append(b.snap.Assets[from], to...)
	return b
}

func (b *snapshotBuilder) texture(name string) *snapshotBuilder {
	b.snap.Textures[name] = models.SourceFile{Name: name, RelPath: name, Kind: models.KindTexture}
	return b
}

func (b *snapshotBuilder) build() *deps.Snapshot {
	for name := range b.snap.Files {
		b.snap.Names = append(b.snap.Names, name)
	}
	sort.Strings(b.snap.Names)
	for name := range b.snap.Textures {
		b.snap.TextureNames = append(b.snap.TextureNames, name)
	}
	sort.Strings(b.snap.TextureNames)
	return b.snap
}

// testConfig wraps packages into a minimal valid configuration
func testConfig(packages ...config.PackageDef) *config.Config {
	cfg := config.DefaultConfig()
	cfg.Version = "2.0.0"
	cfg.Packages = packages
	return cfg
}

// byName indexes a result's packages for assertions
func byName(result *Result) map[string]models.ResolvedPackage {
	out := make(map[string]models.ResolvedPackage)
	for _, pkg := range result.Packages {
		out[pkg.Name] = pkg
	}
	return out
}

func TestClosurePullsInclude(t *testing.T) {
	// A category rule never matches the shared include directly; the
	// closure must pull it in through the dependency edge.
	snap := newSnapshotBuilder().
		file("AS_VFX_Alpha.1.fx", models.CategoryVisual, models.KindShader, false).
		file("AS_VFX_Beta.1.fx", models.CategoryVisual, models.KindShader, false).
		file("AS_Utils.1.fxh", models.CategoryInclude, models.KindInclude, false).
		dep("AS_VFX_Alpha.1.fx", "AS_Utils.1.fxh").
		build()

	cfg := testConfig(config.PackageDef{Name: "all", Categories: []string{"vfx"}})
	result, err := New(cfg, snap).Resolve()
	require.NoError(t, err)

	pkg := byName(result)["all"]
	assert.Equal(t, []string{"AS_Utils.1.fxh", "AS_VFX_Alpha.1.fx", "AS_VFX_Beta.1.fx"}, pkg.Files)
	assert.Equal(t, 3, pkg.FileCount)
	assert.Empty(t, result.Warnings)
}

func TestInheritanceMonotonicity(t *testing.T) {
	snap := newSnapshotBuilder().
		file("AS_BGX_A.1.fx", models.CategoryBackground, models.KindShader, false).
		file("AS_BGX_B.1.fx", models.CategoryBackground, models.KindShader, false).
		file("AS_GFX_C.1.fx", models.CategoryGraphic, models.KindShader, false).
		build()

	cfg := testConfig(
		config.PackageDef{Name: "parent", Categories: []string{"bgx"}},
		config.PackageDef{Name: "child", Inherits: "parent", Categories: []string{"gfx"}},
	)
	result, err := New(cfg, snap).Resolve()
	require.NoError(t, err)

	packages := byName(result)
	parent := packages["parent"]
	child := packages["child"]

	for _, member := range parent.Files {
		assert.Contains(t, child.Files, member, "child must contain every parent member")
	}
	assert.Contains(t, child.Files, "AS_GFX_C.1.fx")
	assert.Equal(t, 3, child.FileCount)
}

func TestChildDeclaredBeforeParent(t *testing.T) {
	// Configuration order must not matter; parents resolve first.
	snap := newSnapshotBuilder().
		file("AS_BGX_A.1.fx", models.CategoryBackground, models.KindShader, false).
		file("AS_GFX_C.1.fx", models.CategoryGraphic, models.KindShader, false).
		build()

	cfg := testConfig(
		config.PackageDef{Name: "child", Inherits: "parent", Categories: []string{"gfx"}},
		config.PackageDef{Name: "parent", Categories: []string{"bgx"}},
	)
	result, err := New(cfg, snap).Resolve()
	require.NoError(t, err)

	child := byName(result)["child"]
	assert.Contains(t, child.Files, "AS_BGX_A.1.fx")

	// Output stays in configuration (discovery) order
	assert.Equal(t, "child", result.Packages[0].Name)
	assert.Equal(t, "parent", result.Packages[1].Name)
}

func TestMissingExplicitMemberWarns(t *testing.T) {
	snap := newSnapshotBuilder().
		file("AS_VFX_Real.1.fx", models.CategoryVisual, models.KindShader, false).
		build()

	cfg := testConfig(config.PackageDef{
		Name:  "showcase",
		Files: []string{"AS_VFX_Real.1.fx", "AS_VFX_Ghost.1.fx"},
	})
	result, err := New(cfg, snap).Resolve()
	require.NoError(t, err)

	pkg := byName(result)["showcase"]
	assert.Equal(t, []string{"AS_VFX_Real.1.fx"}, pkg.Files)
	assert.Equal(t, 1, pkg.FileCount)

	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0].Message, "explicit member")
	assert.Equal(t, []string{"AS_VFX_Ghost.1.fx"}, result.Warnings[0].Files)
}

func TestPrereleaseExclusion(t *testing.T) {
	snap := newSnapshotBuilder().
		file("AS_VFX_Stable.1.fx", models.CategoryVisual, models.KindShader, false).
		file("[PRE]AS_VFX_Next.1.fx", models.CategoryVisual, models.KindShader, true).
		build()

	cfg := testConfig(
		config.PackageDef{Name: "release", Categories: []string{"vfx"}},
		config.PackageDef{Name: "preview", Categories: []string{"vfx"}, IncludePrerelease: true},
	)
	result, err := New(cfg, snap).Resolve()
	require.NoError(t, err)

	packages := byName(result)
	assert.Equal(t, []string{"AS_VFX_Stable.1.fx"}, packages["release"].Files)
	assert.Equal(t, []string{"AS_VFX_Stable.1.fx", "[PRE]AS_VFX_Next.1.fx"}, packages["preview"].Files)
}

func TestGlobalDependencyInjection(t *testing.T) {
	// Globals join every package and are themselves closed over.
	snap := newSnapshotBuilder().
		file("AS_VFX_One.1.fx", models.CategoryVisual, models.KindShader, false).
		file("AS_Utils.1.fxh", models.CategoryInclude, models.KindInclude, false).
		file("AS_Noise.1.fxh", models.CategoryInclude, models.KindInclude, false).
		dep("AS_Utils.1.fxh", "AS_Noise.1.fxh").
		build()

	cfg := testConfig(config.PackageDef{Name: "vfx", Categories: []string{"vfx"}})
	cfg.Dependencies.Globals = []string{"AS_Utils.1.fxh", "AS_Missing.fxh"}

	result, err := New(cfg, snap).Resolve()
	require.NoError(t, err)

	pkg := byName(result)["vfx"]
	assert.Contains(t, pkg.Files, "AS_Utils.1.fxh")
	assert.Contains(t, pkg.Files, "AS_Noise.1.fxh")

	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0].Message, "global dependency")
}

func TestUnknownCategoryWarns(t *testing.T) {
	snap := newSnapshotBuilder().
		file("AS_VFX_One.1.fx", models.CategoryVisual, models.KindShader, false).
		build()

	cfg := testConfig(config.PackageDef{Name: "odd", Categories: []string{"vfx", "sfx"}})
	result, err := New(cfg, snap).Resolve()
	require.NoError(t, err)

	found := false
	for _, w := range result.Warnings {
		if strings.Contains(w.Message, `unknown category "sfx"`) {
			found = true
		}
	}
	assert.True(t, found, "warnings: %v", result.Warnings)
	assert.Equal(t, []string{"AS_VFX_One.1.fx"}, byName(result)["odd"].Files)
}

func TestZeroMatchRuleWarns(t *testing.T) {
	snap := newSnapshotBuilder().
		file("AS_VFX_One.1.fx", models.CategoryVisual, models.KindShader, false).
		build()

	cfg := testConfig(config.PackageDef{Name: "empty", Categories: []string{"lfx"}})
	result, err := New(cfg, snap).Resolve()
	require.NoError(t, err)

	found := false
	for _, w := range result.Warnings {
		if strings.Contains(w.Message, "matched zero files") {
			found = true
		}
	}
	assert.True(t, found, "warnings: %v", result.Warnings)
}

func TestDanglingReferenceWarns(t *testing.T) {
	snap := newSnapshotBuilder().
		file("AS_VFX_One.1.fx", models.CategoryVisual, models.KindShader, false).
		dep("AS_VFX_One.1.fx", "Vanished.fxh").
		asset("AS_VFX_One.1.fx", "missing.png").
		build()

	cfg := testConfig(config.PackageDef{Name: "vfx", Categories: []string{"vfx"}, IncludeTextures: true})
	result, err := New(cfg, snap).Resolve()
	require.NoError(t, err)

	pkg := byName(result)["vfx"]
	assert.Equal(t, []string{"AS_VFX_One.1.fx"}, pkg.Files)
	require.NotNil(t, pkg.Textures)
	assert.Equal(t, 0, pkg.Textures.Count)

	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0].Message, "dangling")
	assert.ElementsMatch(t, []string{"Vanished.fxh", "missing.png"}, result.Warnings[0].Files)
}

func TestTextureAttachment(t *testing.T) {
	snap := newSnapshotBuilder().
		file("AS_VFX_One.1.fx", models.CategoryVisual, models.KindShader, false).
		asset("AS_VFX_One.1.fx", "noise.png").
		texture("noise.png").
		texture("unreferenced.png").
		build()

	cfg := testConfig(
		config.PackageDef{Name: "plain", Categories: []string{"vfx"}},
		config.PackageDef{Name: "referenced", Categories: []string{"vfx"}, IncludeTextures: true},
		config.PackageDef{Name: "everything", Categories: []string{"vfx"}, AllTextures: true},
	)
	result, err := New(cfg, snap).Resolve()
	require.NoError(t, err)

	packages := byName(result)
	assert.Nil(t, packages["plain"].Textures)

	require.NotNil(t, packages["referenced"].Textures)
	assert.Equal(t, []string{"noise.png"}, packages["referenced"].Textures.Files)

	require.NotNil(t, packages["everything"].Textures)
	assert.Equal(t, []string{"noise.png", "unreferenced.png"}, packages["everything"].Textures.Files)
	assert.Equal(t, 2, packages["everything"].Textures.Count)
}

func TestInheritanceCycleFatal(t *testing.T) {
	snap := newSnapshotBuilder().build()

	cfg := testConfig(
		config.PackageDef{Name: "a", Inherits: "b", Categories: []string{"vfx"}},
		config.PackageDef{Name: "b", Inherits: "a", Categories: []string{"bgx"}},
	)
	_, err := New(cfg, snap).Resolve()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "inheritance cycle")
}

func TestDependencyCycleTerminates(t *testing.T) {
	// Include cycles are not expected in real sources but must not hang.
	snap := newSnapshotBuilder().
		file("AS_VFX_A.1.fx", models.CategoryVisual, models.KindShader, false).
		file("AS_A.1.fxh", models.CategoryInclude, models.KindInclude, false).
		file("AS_B.1.fxh", models.CategoryInclude, models.KindInclude, false).
		dep("AS_VFX_A.1.fx", "AS_A.1.fxh").
		dep("AS_A.1.fxh", "AS_B.1.fxh").
		dep("AS_B.1.fxh", "AS_A.1.fxh").
		build()

	cfg := testConfig(config.PackageDef{Name: "vfx", Categories: []string{"vfx"}})
	result, err := New(cfg, snap).Resolve()
	require.NoError(t, err)

	pkg := byName(result)["vfx"]
	assert.Equal(t, []string{"AS_A.1.fxh", "AS_B.1.fxh", "AS_VFX_A.1.fx"}, pkg.Files)
}

func TestNoDuplicateMembers(t *testing.T) {
	// Two shaders referencing the same include yield one member entry.
	snap := newSnapshotBuilder().
		file("AS_VFX_A.1.fx", models.CategoryVisual, models.KindShader, false).
		file("AS_VFX_B.1.fx", models.CategoryVisual, models.KindShader, false).
		file("AS_Utils.1.fxh", models.CategoryInclude, models.KindInclude, false).
		dep("AS_VFX_A.1.fx", "AS_Utils.1.fxh").
		dep("AS_VFX_B.1.fx", "AS_Utils.1.fxh").
		build()

	cfg := testConfig(config.PackageDef{Name: "vfx", Categories: []string{"vfx"}})
	result, err := New(cfg, snap).Resolve()
	require.NoError(t, err)

	pkg := byName(result)["vfx"]
	seen := make(map[string]int)
	for _, name := range pkg.Files {
		seen[name]++
	}
	for name, count := range seen {
		assert.Equal(t, 1, count, "member %s appears %d times", name, count)
	}
	assert.True(t, sort.StringsAreSorted(pkg.Files))
}

func TestUnreachableOtherWarning(t *testing.T) {
	snap := newSnapshotBuilder().
		file("AS_VFX_A.1.fx", models.CategoryVisual, models.KindShader, false).
		file("helper.fx", models.CategoryOther, models.KindShader, false).
		build()

	cfg := testConfig(config.PackageDef{Name: "vfx", Categories: []string{"vfx"}})
	result, err := New(cfg, snap).Resolve()
	require.NoError(t, err)

	found := false
	for _, w := range result.Warnings {
		if strings.Contains(w.Message, "uncategorized") {
			found = true
			assert.Equal(t, []string{"helper.fx"}, w.Files)
		}
	}
	assert.True(t, found, "warnings: %v", result.Warnings)
}

func TestOtherReachableViaRuleNoWarning(t *testing.T) {
	snap := newSnapshotBuilder().
		file("helper.fx", models.CategoryOther, models.KindShader, false).
		build()

	cfg := testConfig(config.PackageDef{Name: "complete", Categories: []string{"other"}})
	result, err := New(cfg, snap).Resolve()
	require.NoError(t, err)

	for _, w := range result.Warnings {
		assert.NotContains(t, w.Message, "uncategorized")
	}
	assert.Equal(t, []string{"helper.fx"}, byName(result)["complete"].Files)
}

func TestDeterministicResolution(t *testing.T) {
	snap := newSnapshotBuilder().
		file("AS_VFX_A.1.fx", models.CategoryVisual, models.KindShader, false).
		file("AS_VFX_B.1.fx", models.CategoryVisual, models.KindShader, false).
		file("AS_Utils.1.fxh", models.CategoryInclude, models.KindInclude, false).
		dep("AS_VFX_A.1.fx", "AS_Utils.1.fxh").
		build()

	cfg := testConfig(config.PackageDef{Name: "vfx", Categories: []string{"vfx"}})

	first, err := New(cfg, snap).Resolve()
	require.NoError(t, err)
	second, err := New(cfg, snap).Resolve()
	require.NoError(t, err)

	assert.Equal(t, first.Packages, second.Packages)
}
