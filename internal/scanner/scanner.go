// Package scanner discovers candidate source files for a build. It is a
// pure read of the filesystem: the same tree snapshot always yields the
// same (sorted) result set.
package scanner

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

// Options configures a directory scan
type Options struct {
	// Extensions is the list of file extensions to include (e.g., ".fx");
	// empty means every file qualifies
	Extensions []string

	// ExcludePatterns is a list of regex patterns matched against the
	// slash-separated path relative to the scan root; a match drops the file
	ExcludePatterns []string
}

// Result contains the outcome of a directory scan
type Result struct {
	// Files contains the slash-separated relative paths of all matched
	// files, sorted for deterministic output
	Files []string

	// Errors contains non-fatal errors encountered while walking
	Errors []error
}

// Scan walks root and returns every file whose extension is allowed and
// whose relative path matches no exclusion pattern.
func Scan(root string, opts Options) (*Result, error) {
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("failed to access directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("path is not a directory: %s", root)
	}

	excludes := make([]*regexp.Regexp, 0, len(opts.ExcludePatterns))
	for _, pattern := range opts.ExcludePatterns {
		re, err := regexp.Compile(pattern)
		if err != nil {
			return nil, fmt.Errorf("invalid exclude pattern %q: %w", pattern, err)
		}
		excludes = append(excludes, re)
	}

	extMap := make(map[string]bool)
	for _, ext := range opts.Extensions {
		if !strings.HasPrefix(ext, ".") {
			ext = "." + ext
		}
		extMap[strings.ToLower(ext)] = true
	}

	result := &Result{
		Files:  make([]string, 0),
		Errors: make([]error, 0),
	}

	err = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("error accessing %s: %w", path, err))
			return nil // Continue walking
		}

		if path == root {
			return nil
		}

		rel, err := filepath.Rel(root, path)
		if err != nil {
			result.Errors = append(result.Errors, fmt.Errorf("failed to resolve path %s: %w", path, err))
			return nil
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			// Hidden directories never contribute distributable files
			if strings.HasPrefix(d.Name(), ".") {
				return filepath.SkipDir
			}
			return nil
		}

		if len(extMap) > 0 {
			ext := strings.ToLower(filepath.Ext(d.Name()))
			if !extMap[ext] {
				return nil
			}
		}

		for _, re := range excludes {
			if re.MatchString(rel) {
				return nil
			}
		}

		result.Files = append(result.Files, rel)
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk directory: %w", err)
	}

	sort.Strings(result.Files)
	return result, nil
}
