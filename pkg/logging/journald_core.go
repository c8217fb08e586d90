package logging

import (
	"github.com/pkg/errors"
	"github.com/ssgreg/journald"
	"go.uber.org/zap/zapcore"
	"strings"
)

// journaldPriorities maps zapcore.Level to journald.Priority.
var journaldPriorities = map[zapcore.Level]journald.Priority{
	zapcore.DebugLevel:  journald.PriorityDebug,
	zapcore.InfoLevel:   journald.PriorityInfo,
	zapcore.WarnLevel:   journald.PriorityWarning,
	zapcore.ErrorLevel:  journald.PriorityErr,
	zapcore.DPanicLevel: journald.PriorityCrit,
	zapcore.PanicLevel:  journald.PriorityCrit,
	zapcore.FatalLevel:  journald.PriorityCrit,
}

// NewJournaldCore returns a zapcore.Core sending entries to systemd-journald as SYSLOG_IDENTIFIER identifier.
// Structured fields become journal fields prefixed with the upper-cased identifier,
// e.g. "problem_id" logged by icingacase becomes ICINGACASE_PROBLEM_ID.
func NewJournaldCore(identifier string, enab zapcore.LevelEnabler) zapcore.Core {
	return &journaldCore{
		LevelEnabler: enab,
		identifier:   identifier,
		fieldPrefix:  journalFieldName(identifier) + "_",
	}
}

type journaldCore struct {
	zapcore.LevelEnabler
	identifier  string
	fieldPrefix string
	// with holds the fields added via With, already converted to journal fields.
	with map[string]interface{}
}

// With implements the zapcore.Core interface.
func (c *journaldCore) With(fields []zapcore.Field) zapcore.Core {
	with := make(map[string]interface{}, len(c.with)+len(fields))
	for k, v := range c.with {
		with[k] = v
	}
	c.encode(with, fields)

	return &journaldCore{LevelEnabler: c.LevelEnabler, identifier: c.identifier, fieldPrefix: c.fieldPrefix, with: with}
}

// Check implements the zapcore.Core interface.
func (c *journaldCore) Check(ent zapcore.Entry, ce *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if !c.Enabled(ent.Level) {
		return ce
	}

	return ce.AddCore(ent, c)
}

// Write implements the zapcore.Core interface.
func (c *journaldCore) Write(ent zapcore.Entry, fields []zapcore.Field) error {
	pri, ok := journaldPriorities[ent.Level]
	if !ok {
		return errors.Errorf("no journald priority for log level %q", ent.Level)
	}

	journalFields := make(map[string]interface{}, len(c.with)+len(fields)+1)
	for k, v := range c.with {
		journalFields[k] = v
	}
	c.encode(journalFields, fields)
	journalFields["SYSLOG_IDENTIFIER"] = c.identifier

	msg := ent.Message
	if ent.LoggerName != "" && ent.LoggerName != c.identifier {
		msg = ent.LoggerName + ": " + msg
	}

	return journald.Send(msg, pri, journalFields)
}

// Sync implements the zapcore.Core interface. journald.Send doesn't buffer.
func (c *journaldCore) Sync() error {
	return nil
}

// encode adds fields to dst under their journal field names.
func (c *journaldCore) encode(dst map[string]interface{}, fields []zapcore.Field) {
	enc := zapcore.NewMapObjectEncoder()
	for _, field := range fields {
		field.AddTo(enc)
	}

	for k, v := range enc.Fields {
		dst[c.fieldPrefix+journalFieldName(k)] = v
	}
}

// journalFieldName converts a zap field key such as "problem_id" or "state-type" into
// the upper-case, underscore-only form journald requires for field names.
func journalFieldName(key string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z':
			return r - 'a' + 'A'
		case r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			return r
		default:
			return '_'
		}
	}, key)
}

// Assert interface compliance.
var (
	_ zapcore.Core = (*journaldCore)(nil)
)
