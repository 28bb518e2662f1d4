// Package marker parses error-marker files produced by failed batch jobs.
//
// A marker file signals that processing of one card image failed. Its name
// carries a leading job identifier of the form <digits>_<digits> followed by
// a kind suffix, e.g. "123_456.parse_error" or "123_456.model_error".
package marker

import (
	"fmt"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
)

// idPattern matches the leading job identifier in a marker filename.
var idPattern = regexp.MustCompile(`^[0-9]+_[0-9]+`)

// Marker represents a single error-marker file.
type Marker struct {
	// Path is the marker file path as selected by the glob pattern
	Path string
	// ID is the leading job identifier, empty when the filename has no
	// leading <digits>_<digits> token
	ID string
	// Kind is the remainder of the filename after the identifier and its
	// separating dot (e.g. "parse_error"), empty for malformed names
	Kind string
}

// Malformed reports whether the marker filename carried no job identifier.
func (m Marker) Malformed() bool {
	return m.ID == ""
}

// Parse derives a Marker from a marker file path.
// The identifier is extracted from the base filename; anything after the
// identifier and a separating dot becomes the marker kind.
func Parse(path string) Marker {
	base := filepath.Base(path)

	id := idPattern.FindString(base)
	if id == "" {
		return Marker{Path: path}
	}

	kind := strings.TrimPrefix(base, id)
	kind = strings.TrimPrefix(kind, ".")

	return Marker{
		Path: path,
		ID:   id,
		Kind: kind,
	}
}

// Expand resolves a glob pattern to a sorted list of marker file paths.
// An empty result is not an error; the caller decides how to surface it.
func Expand(pattern string) ([]string, error) {
	matches, err := filepath.Glob(pattern)
	if err != nil {
		return nil, fmt.Errorf("invalid marker pattern %q: %w", pattern, err)
	}

	sort.Strings(matches)
	return matches, nil
}
