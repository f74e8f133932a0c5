package classify

import (
	"testing"

	"github.com/LeonAquitaine/as-stagefx-sub006/internal/models"
)

// TestCategorize verifies category derivation from the naming convention
func TestCategorize(t *testing.T) {
	tests := []struct {
		name string
		want models.Category
	}{
		{"AS_BGX_Corridor.1.fx", models.CategoryBackground},
		{"AS_VFX_Sparkle.1.fx", models.CategoryVisual},
		{"AS_LFX_Laser.1.fx", models.CategoryLighting},
		{"AS_GFX_Frame.1.fx", models.CategoryGraphic},
		{"AS_AFX_Pulse.1.fx", models.CategoryAudio},
		{"AS_vfx_Lower.1.fx", models.CategoryVisual},
		{"ReShade.fx", models.CategoryOther},
		{"AS_Frame.fx", models.CategoryOther},
		{"AS_XYZ_Unknown.fx", models.CategoryOther},
		{"", models.CategoryOther},
		// The fxh tag is reserved for include extensions
		{"AS_FXH_Weird.fx", models.CategoryOther},
	}

	for _, tt := range tests {
		if got := Categorize(tt.name); got != tt.want {
			t.Errorf("Categorize(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}

// TestClassifyIncludeExtension verifies shared includes are tagged fxh
// regardless of name
func TestClassifyIncludeExtension(t *testing.T) {
	cl := New([]string{".fxh"}, "[PRE]")

	file := cl.Classify("lib/AS_Utils.1.fxh")
	if file.Category != models.CategoryInclude {
		t.Errorf("Category = %q, want %q", file.Category, models.CategoryInclude)
	}
	if file.Kind != models.KindInclude {
		t.Errorf("Kind = %v, want KindInclude", file.Kind)
	}
	if file.Name != "AS_Utils.1.fxh" {
		t.Errorf("Name = %q, want AS_Utils.1.fxh", file.Name)
	}
	if file.RelPath != "lib/AS_Utils.1.fxh" {
		t.Errorf("RelPath = %q, want lib/AS_Utils.1.fxh", file.RelPath)
	}
}

// TestClassifyPrerelease verifies the marker flags files and still
// categorizes them by the underlying name
func TestClassifyPrerelease(t *testing.T) {
	cl := New([]string{".fxh"}, "[PRE]")

	file := cl.Classify("[PRE]AS_VFX_Experimental.1.fx")
	if !file.Prerelease {
		t.Error("Prerelease = false, want true")
	}
	if file.Category != models.CategoryVisual {
		t.Errorf("Category = %q, want %q", file.Category, models.CategoryVisual)
	}

	stable := cl.Classify("AS_VFX_Stable.1.fx")
	if stable.Prerelease {
		t.Error("Prerelease = true for unmarked file, want false")
	}
}

// TestClassifyEmptyMarkerDisablesCheck verifies no file is flagged when
// the marker is unset
func TestClassifyEmptyMarkerDisablesCheck(t *testing.T) {
	cl := New(nil, "")
	if cl.Classify("[PRE]AS_VFX_X.fx").Prerelease {
		t.Error("Prerelease = true with empty marker, want false")
	}
}

// TestClassifyUncategorizedNotDropped verifies unknown names fall into
// the other category rather than failing
func TestClassifyUncategorizedNotDropped(t *testing.T) {
	cl := New([]string{".fxh"}, "[PRE]")
	file := cl.Classify("random_helper.fx")
	if file.Category != models.CategoryOther {
		t.Errorf("Category = %q, want %q", file.Category, models.CategoryOther)
	}
	if file.Kind != models.KindShader {
		t.Errorf("Kind = %v, want KindShader", file.Kind)
	}
}
