package logging

import (
	"github.com/sirupsen/logrus"
)

// Logger is the logging interface accepted by the components that can be
// given a custom logger, e.g. in tests.
type Logger interface {
	Error(...any)
	Errorf(string, ...any)
	Warn(...any)
	Warnf(string, ...any)
	Info(...any)
	Infof(string, ...any)
	Debug(...any)
	Debugf(string, ...any)
}

// DefaultLog implements Logger with a logrus entry. The level methods are
// promoted from the entry.
type DefaultLog struct {
	*logrus.Entry
}

var _ Logger = (*DefaultLog)(nil)

// New creates a logger writing to the standard logrus logger.
func New() *DefaultLog {
	return &DefaultLog{Entry: logrus.NewEntry(logrus.StandardLogger())}
}

// WithFields returns a logger that adds fields to every entry.
func (dl *DefaultLog) WithFields(fields map[string]any) *DefaultLog {
	return &DefaultLog{Entry: dl.Entry.WithFields(fields)}
}
