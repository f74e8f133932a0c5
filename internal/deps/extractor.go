// Package deps extracts static dependency references from shader sources
// and assembles the immutable build snapshot the resolver works from.
//
// Extraction is regex-driven text matching, not a parser: conditionally
// compiled or macro-constructed references are invisible to it. The
// resulting closure is best-effort by design; dangling references are
// recorded and surfaced as warnings at resolution time.
package deps

import (
	"bufio"
	"fmt"
	"path"
	"regexp"
	"strings"
)

// References holds the raw reference names extracted from one file
type References struct {
	// Includes are the path tokens captured by the include pattern
	Includes []string

	// Assets are the source-identifier tokens captured by the asset pattern
	Assets []string
}

// Extractor matches include directives and asset declarations in file text
type Extractor struct {
	includeRe *regexp.Regexp
	assetRe   *regexp.Regexp
}

// NewExtractor compiles the two configured reference patterns. Each must
// carry exactly one capture group holding the referenced name.
func NewExtractor(includePattern, assetPattern string) (*Extractor, error) {
	includeRe, err := regexp.Compile(includePattern)
	if err != nil {
		return nil, fmt.Errorf("invalid include pattern %q: %w", includePattern, err)
	}
	assetRe, err := regexp.Compile(assetPattern)
	if err != nil {
		return nil, fmt.Errorf("invalid asset pattern %q: %w", assetPattern, err)
	}
	return &Extractor{includeRe: includeRe, assetRe: assetRe}, nil
}

// Extract scans contents line by line and returns every referenced name.
// Multiple matches per line are collected; files with zero matches return
// empty reference lists.
func (e *Extractor) Extract(contents string) References {
	var refs References

	sc := bufio.NewScanner(strings.NewReader(contents))
	// Shader lines are short, but a packed texture atlas declaration can
	// exceed the default token size.
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for sc.Scan() {
		line := sc.Text()
		for _, m := range e.includeRe.FindAllStringSubmatch(line, -1) {
			if name := strings.TrimSpace(m[1]); name != "" {
				refs.Includes = append(refs.Includes, name)
			}
		}
		for _, m := range e.assetRe.FindAllStringSubmatch(line, -1) {
			if name := strings.TrimSpace(m[1]); name != "" {
				refs.Assets = append(refs.Assets, name)
			}
		}
	}

	return refs
}

// BaseName reduces a captured reference token (possibly a relative or
// quoted path) to the base file name used as member identity.
func BaseName(ref string) string {
	ref = strings.ReplaceAll(ref, "\\", "/")
	return path.Base(ref)
}
