package logging

import (
	"go.uber.org/zap/zapcore"
	"os"
)

// Config defines Logger configuration.
type Config struct {
	// zapcore.Level at 0 is for info level.
	Level  zapcore.Level `yaml:"level" default:"0"`
	Output string        `yaml:"output"`

	Options `yaml:"options"`
}

// Validate checks constraints in the supplied Config configuration and returns an error if they are violated.
// Also configures the log output if it is not configured:
// systemd-journald is used when stderr isn't available but the journal is, otherwise stderr.
func (l *Config) Validate() error {
	if l.Output == "" {
		if _, ok := os.LookupEnv("JOURNAL_STREAM"); ok {
			// systemd sets JOURNAL_STREAM if stderr of the process (or the monitoring daemon it inherited it from)
			// is connected to the journal. Sending structured entries there directly keeps the fields intact.
			l.Output = JOURNAL
		} else {
			l.Output = CONSOLE
		}
	}

	return AssertOutput(l.Output)
}
