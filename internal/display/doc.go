// Package display renders user-facing warning blocks and the end-of-run
// warning summary for build output.
package display
