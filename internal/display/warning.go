package display

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/LeonAquitaine/as-stagefx-sub006/internal/models"
)

// RenderWarning writes one formatted warning block in yellow
func RenderWarning(out io.Writer, w models.Warning) {
	var b strings.Builder

	b.WriteString("Warning: ")
	if w.Package != "" {
		b.WriteString(fmt.Sprintf("[%s] ", w.Package))
	}
	b.WriteString(w.Message)
	b.WriteString("\n")

	if len(w.Files) > 0 {
		if len(w.Files) == 1 {
			b.WriteString("    Affected file:\n")
		} else {
			b.WriteString("    Affected files:\n")
		}
		for i, file := range w.Files {
			b.WriteString(fmt.Sprintf("      %d. %s\n", i+1, file))
		}
	}

	yellow := color.New(color.FgYellow)
	yellow.Fprint(out, b.String())
}

// RenderSummary writes the end-of-run warning summary. A run with no
// warnings prints nothing.
func RenderSummary(out io.Writer, warnings []models.Warning) {
	if len(warnings) == 0 {
		return
	}

	yellow := color.New(color.FgYellow)
	yellow.Fprintf(out, "\n%d warning(s):\n", len(warnings))
	for _, w := range warnings {
		RenderWarning(out, w)
	}
}
