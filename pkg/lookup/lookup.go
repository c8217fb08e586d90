// Package lookup implements the operator-maintained flat files consulted per invocation.
//
// Both files are read completely on every query and never cached,
// so that edits take effect for the very next event.
package lookup

import (
	"bufio"
	"bytes"
	"github.com/icinga/icingacase/internal"
	"github.com/pkg/errors"
	"os"
)

// readLines reads the file at path and returns its lines without line terminators.
// Any read error is reported as internal.ErrLookupUnavailable.
func readLines(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, internal.LookupUnavailable(errors.Wrapf(err, "can't read %s", path))
	}

	var lines []string
	scanner := bufio.NewScanner(bytes.NewReader(data))
	scanner.Buffer(nil, len(data)+1)
	for scanner.Scan() {
		lines = append(lines, string(bytes.TrimSuffix(scanner.Bytes(), []byte{'\r'})))
	}

	if err := scanner.Err(); err != nil {
		return nil, internal.LookupUnavailable(errors.Wrapf(err, "can't scan %s", path))
	}

	return lines, nil
}
