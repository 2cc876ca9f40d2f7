// Package stdlogger adapts the global zerolog logger to printf style logger interfaces,
// e.g. the gorm logger writer.
package stdlogger

import (
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Logger forwards printf style calls to the global zerolog logger.
type Logger struct {
	component string
}

// New returns a Logger tagged with component "std".
func New() *Logger {
	return &Logger{component: "std"}
}

// NewWithComponent returns a Logger tagged with the given component name.
func NewWithComponent(component string) *Logger {
	return &Logger{component: component}
}

func (l *Logger) write(level zerolog.Level, format string, args ...any) {
	log.WithLevel(level).Str("component", l.component).Msgf(strings.TrimRight(format, "\n"), args...)
}

// Debugf logs at debug level.
func (l *Logger) Debugf(format string, args ...any) {
	l.write(zerolog.DebugLevel, format, args...)
}

// Infof logs at info level.
func (l *Logger) Infof(format string, args ...any) {
	l.write(zerolog.InfoLevel, format, args...)
}

// Warningf logs at warn level.
func (l *Logger) Warningf(format string, args ...any) {
	l.write(zerolog.WarnLevel, format, args...)
}

// Errorf logs at error level.
func (l *Logger) Errorf(format string, args ...any) {
	l.write(zerolog.ErrorLevel, format, args...)
}

// Printf logs at info level. It satisfies gorm.io/gorm/logger.Writer.
func (l *Logger) Printf(format string, args ...any) {
	l.write(zerolog.InfoLevel, format, args...)
}
