package models

import "fmt"

// Warning is a recoverable resolution problem. Warnings accumulate over a
// build run and are surfaced as a summary at the end; they never abort
// resolution.
type Warning struct {
	// Package is the package being resolved when the warning arose;
	// empty for scan/extract-stage warnings.
	Package string

	// Message describes the problem.
	Message string

	// Files lists the affected file names, if any.
	Files []string
}

// String renders the warning for plain log output.
func (w Warning) String() string {
	if w.Package == "" {
		return w.Message
	}
	return fmt.Sprintf("package %q: %s", w.Package, w.Message)
}

// Warnf builds a Warning with a formatted message.
func Warnf(pkg, format string, args ...interface{}) Warning {
	return Warning{Package: pkg, Message: fmt.Sprintf(format, args...)}
}
