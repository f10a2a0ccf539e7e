package source

import (
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"sort"

	"github.com/bmatcuk/doublestar/v4"
)

// ErrUnsupportedSource is returned for sources that are not local paths, such as URLs.
var ErrUnsupportedSource = errors.New("unsupported source")

// ExpandGlobs expands a list of file paths, directories and glob patterns into a
// deduplicated list of matching file paths. Patterns may use ** to match any
// number of directories, and a directory stands for every file directly inside it.
// Patterns that don't match any files are returned as-is
// (the caller should handle file-not-found errors).
func ExpandGlobs(patterns []string) ([]string, error) {
	seen := make(map[string]bool)
	var result []string

	for _, pattern := range patterns {
		if IsURL(pattern) {
			return nil, fmt.Errorf("%w: %s (only local files are read)", ErrUnsupportedSource, pattern)
		}

		if info, err := os.Stat(pattern); err == nil && info.IsDir() {
			pattern = filepath.Join(pattern, "*")
		}

		matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, fmt.Errorf("invalid glob pattern %q: %w", pattern, err)
		}

		if len(matches) == 0 {
			// Pattern didn't match anything - include it as literal path
			// This allows for explicit file paths and better error messages later
			if !seen[pattern] {
				seen[pattern] = true
				result = append(result, pattern)
			}
			continue
		}

		for _, match := range matches {
			if !seen[match] {
				seen[match] = true
				result = append(result, match)
			}
		}
	}

	// Sort for deterministic ordering
	sort.Strings(result)

	return result, nil
}

// IsURL reports whether s looks like a network location rather than a path.
func IsURL(s string) bool {
	u, err := url.Parse(s)
	if err != nil {
		return false
	}
	switch u.Scheme {
	case "http", "https", "ftp", "ftps":
		return u.Host != ""
	default:
		return false
	}
}
