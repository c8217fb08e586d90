package lookup

import (
	"go.uber.org/zap"
	"strings"
)

// AcknowledgementFile is the set of problem IDs an operator has acknowledged.
//
// The file is newline-delimited free text. A problem ID counts as acknowledged
// if it occurs anywhere in any line, e.g. "42 acknowledged by opX" acknowledges 42.
type AcknowledgementFile struct {
	path   string
	logger *zap.SugaredLogger
}

// NewAcknowledgementFile returns a new AcknowledgementFile reading from path.
func NewAcknowledgementFile(path string, logger *zap.SugaredLogger) *AcknowledgementFile {
	return &AcknowledgementFile{path: path, logger: logger}
}

// IsAcknowledged reports whether problemID has been acknowledged.
// An empty problemID is never acknowledged.
func (a *AcknowledgementFile) IsAcknowledged(problemID string) (bool, error) {
	lines, err := readLines(a.path)
	if err != nil {
		return false, err
	}

	if problemID == "" {
		return false, nil
	}

	for i, line := range lines {
		if strings.Contains(line, problemID) {
			a.logger.Debugw("Problem is acknowledged",
				zap.String("problem_id", problemID), zap.String("file", a.path), zap.Int("line", i+1))

			return true, nil
		}
	}

	return false, nil
}
