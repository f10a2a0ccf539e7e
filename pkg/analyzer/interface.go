package analyzer

import (
	"github.com/ccollicutt/logtally/pkg/source"
)

// Opener creates the line source for a path. The analyzer closes every source
// it opens.
type Opener func(path string) source.LineSource

// FileOpener opens paths as local (optionally compressed) files.
func FileOpener(path string) source.LineSource {
	return source.NewFileSource(path)
}
