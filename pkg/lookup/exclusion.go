package lookup

import (
	"go.uber.org/zap"
	"strings"
)

// ExclusionFile is the ordered list of literal substrings that silence an event
// if found in its long output.
//
// Blank lines are ignored. Every other line is a pattern taken verbatim,
// i.e. without trimming, since patterns need not be whole words.
type ExclusionFile struct {
	path   string
	logger *zap.SugaredLogger
}

// NewExclusionFile returns a new ExclusionFile reading from path.
func NewExclusionFile(path string, logger *zap.SugaredLogger) *ExclusionFile {
	return &ExclusionFile{path: path, logger: logger}
}

// Patterns returns all non-blank lines of the file in file order.
func (e *ExclusionFile) Patterns() ([]string, error) {
	lines, err := readLines(e.path)
	if err != nil {
		return nil, err
	}

	patterns := lines[:0]
	for _, line := range lines {
		if strings.TrimSpace(line) != "" {
			patterns = append(patterns, line)
		}
	}

	return patterns, nil
}

// Excludes reports whether any pattern is a substring of output.
func (e *ExclusionFile) Excludes(output string) (bool, error) {
	patterns, err := e.Patterns()
	if err != nil {
		return false, err
	}

	for _, pattern := range patterns {
		if strings.Contains(output, pattern) {
			e.logger.Debugw("Output matches exclusion pattern", zap.String("pattern", pattern), zap.String("file", e.path))

			return true, nil
		}
	}

	return false, nil
}
