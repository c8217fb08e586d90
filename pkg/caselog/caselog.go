// Package caselog records created cases.
package caselog

import (
	"bytes"
	"fmt"
	"github.com/google/uuid"
	"github.com/icinga/icingacase/pkg/event"
	"github.com/pkg/errors"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/sys/unix"
	"os"
	"time"
)

// TimeLayout is the timestamp layout used in the log file and in notifications, i.e. dd/mm/yyyy HH:MM:SS.
const TimeLayout = "02/01/2006 15:04:05"

// Case is one notification that has been dispatched.
type Case struct {
	ID                 uuid.UUID `db:"id"`
	ProblemID          string    `db:"problem_id"`
	HostName           string    `db:"host_name"`
	ServiceDisplayName string    `db:"service_display_name"`
	CreatedAt          time.Time `db:"created_at"`
}

// NewCase returns a new Case with a random ID for ev created at createdAt.
func NewCase(ev *event.ServiceEvent, createdAt time.Time) *Case {
	return &Case{
		ID:                 uuid.New(),
		ProblemID:          ev.ProblemID,
		HostName:           ev.HostName,
		ServiceDisplayName: ev.ServiceDisplayName,
		CreatedAt:          createdAt,
	}
}

// MarshalLogObject implements the zapcore.ObjectMarshaler interface.
func (c *Case) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("id", c.ID.String())
	enc.AddString("problem_id", c.ProblemID)
	enc.AddString("host", c.HostName)
	enc.AddString("service", c.ServiceDisplayName)
	enc.AddTime("created_at", c.CreatedAt)

	return nil
}

// Log is the append-only case log file.
//
// Each append opens the file anew and holds an exclusive flock(2) while writing,
// so lines written by concurrent invocations never interleave.
type Log struct {
	path   string
	logger *zap.SugaredLogger
}

// NewLog returns a new Log appending to path.
func NewLog(path string, logger *zap.SugaredLogger) *Log {
	return &Log{path: path, logger: logger}
}

// AppendCase appends the line "<timestamp> Case Created with Problem ID: <id>".
func (l *Log) AppendCase(c *Case) error {
	line := fmt.Sprintf("%s Case Created with Problem ID: %s\n", c.CreatedAt.Format(TimeLayout), c.ProblemID)

	return l.append([]byte(line))
}

// AppendParams appends a block dumping all parameters of ev, as written in debug mode.
func (l *Log) AppendParams(ev *event.ServiceEvent, now time.Time) error {
	var buf bytes.Buffer

	_, _ = fmt.Fprintf(&buf, "***** %s *****\n", now.Format(TimeLayout))
	buf.WriteString("Script called with following arguments:\n")
	for _, p := range ev.Params() {
		_, _ = fmt.Fprintf(&buf, "%s: %s\n", p.Name, p.Value)
	}

	return l.append(buf.Bytes())
}

// AppendError appends err, as written in debug mode when the run fails.
func (l *Log) AppendError(err error, now time.Time) error {
	return l.append([]byte(fmt.Sprintf("%s Error: %s\n", now.Format(TimeLayout), err)))
}

func (l *Log) append(p []byte) error {
	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o640)
	if err != nil {
		return errors.Wrapf(err, "can't open case log %s", l.path)
	}
	defer func() { _ = f.Close() }()

	if err := unix.Flock(int(f.Fd()), unix.LOCK_EX); err != nil {
		return errors.Wrapf(err, "can't lock case log %s", l.path)
	}
	// Closing the file releases the lock as well, but unlock explicitly before the deferred Close().
	defer func() { _ = unix.Flock(int(f.Fd()), unix.LOCK_UN) }()

	if _, err := f.Write(p); err != nil {
		return errors.Wrapf(err, "can't write case log %s", l.path)
	}

	l.logger.Debugw("Appended to case log", zap.String("file", l.path), zap.Int("bytes", len(p)))

	return nil
}

// Assert interface compliance.
var (
	_ zapcore.ObjectMarshaler = (*Case)(nil)
)
