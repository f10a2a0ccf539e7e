// Package source provides line-oriented access to access-log sources.
package source

// Line is a raw log line read from a source.
type Line struct {
	// Text is the line content without the trailing newline.
	Text string

	// Source is the name of the source this line came from.
	Source string

	// LineNum is the 1-based line number in the source.
	LineNum int
}
