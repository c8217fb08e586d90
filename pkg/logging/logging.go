// Package logging provides the zap loggers of icingacase.
package logging

import (
	"fmt"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"os"
	"sync"
)

// Supported log outputs.
const (
	CONSOLE = "console"
	JOURNAL = "systemd-journald"
)

// consoleEncConfig is used for CONSOLE output.
var consoleEncConfig = zapcore.EncoderConfig{
	TimeKey:        "ts",
	LevelKey:       "level",
	NameKey:        "logger",
	CallerKey:      "caller",
	MessageKey:     "msg",
	StacktraceKey:  "stacktrace",
	LineEnding:     zapcore.DefaultLineEnding,
	EncodeLevel:    zapcore.CapitalLevelEncoder,
	EncodeTime:     zapcore.ISO8601TimeEncoder,
	EncodeDuration: zapcore.StringDurationEncoder,
	EncodeCaller:   zapcore.ShortCallerEncoder,
}

// Options map component names (caselog, decision, lookup, notifier) to the level their logger should use.
type Options map[string]zapcore.Level

// Logging hands out the loggers of one run:
// a default logger named after the program and one named child logger per component.
//
// Children without an entry in Options share the default logger's level,
// so raising that level via Debug also affects them.
type Logging struct {
	logger  *zap.SugaredLogger
	level   zap.AtomicLevel
	options Options
	newCore func(zapcore.LevelEnabler) zapcore.Core

	mu       sync.Mutex
	children map[string]*zap.SugaredLogger
}

// NewLogging returns a new Logging whose default logger is called name,
// logs at level and writes to output, which must be either CONSOLE or JOURNAL.
func NewLogging(name string, level zapcore.Level, output string, options Options) (*Logging, error) {
	var newCore func(zapcore.LevelEnabler) zapcore.Core

	switch output {
	case CONSOLE:
		enc := zapcore.NewConsoleEncoder(consoleEncConfig)
		stderr := zapcore.Lock(os.Stderr)
		newCore = func(enab zapcore.LevelEnabler) zapcore.Core {
			return zapcore.NewCore(enc, stderr, enab)
		}
	case JOURNAL:
		newCore = func(enab zapcore.LevelEnabler) zapcore.Core {
			return NewJournaldCore(name, enab)
		}
	default:
		return nil, invalidOutput(output)
	}

	atom := zap.NewAtomicLevelAt(level)

	return &Logging{
		logger:   zap.New(newCore(atom)).Named(name).Sugar(),
		level:    atom,
		options:  options,
		newCore:  newCore,
		children: make(map[string]*zap.SugaredLogger),
	}, nil
}

// GetLogger returns the default logger.
func (l *Logging) GetLogger() *zap.SugaredLogger {
	return l.logger
}

// GetChildLogger returns the logger of the named component, creating it on first use.
func (l *Logging) GetChildLogger(component string) *zap.SugaredLogger {
	l.mu.Lock()
	defer l.mu.Unlock()

	if child, ok := l.children[component]; ok {
		return child
	}

	var enab zapcore.LevelEnabler = l.level
	if level, ok := l.options[component]; ok {
		enab = level
	}

	child := zap.New(l.newCore(enab)).Named(component).Sugar()
	l.children[component] = child

	return child
}

// Debug lowers the default level to debug unless it's already there.
// Components with a level of their own in Options keep it.
func (l *Logging) Debug() {
	if l.level.Level() > zapcore.DebugLevel {
		l.level.SetLevel(zapcore.DebugLevel)
	}
}

// Sync flushes all loggers handed out so far.
func (l *Logging) Sync() {
	l.mu.Lock()
	defer l.mu.Unlock()

	_ = l.logger.Sync()
	for _, child := range l.children {
		_ = child.Sync()
	}
}

// AssertOutput returns an error if output is not a valid logger output.
func AssertOutput(output string) error {
	switch output {
	case CONSOLE, JOURNAL:
		return nil
	default:
		return invalidOutput(output)
	}
}

func invalidOutput(output string) error {
	return fmt.Errorf("%q is not a valid logger output, must be either %q or %q", output, CONSOLE, JOURNAL)
}
