// Package log provides structured logging for the expoci CLI
package log

import (
	"io"
	"os"
	"strings"

	"github.com/caarlos0/log"
)

// Level represents log severity
type Level = log.Level

// Entry is a log entry carrying fields
type Entry = log.Entry

// Log levels
const (
	DebugLevel = log.DebugLevel
	InfoLevel  = log.InfoLevel
	WarnLevel  = log.WarnLevel
	ErrorLevel = log.ErrorLevel
)

// currentLevel holds the current log level for IsDebug check
var currentLevel = InfoLevel

// SetLevel sets the global log level
func SetLevel(level Level) {
	currentLevel = level
	log.SetLevel(level)
}

// SetLevelFromString sets the log level from a string.
// Supported values: debug, info, warn (or warning), error.
func SetLevelFromString(level string) error {
	if strings.EqualFold(level, "warning") {
		level = "warn"
	}
	l, err := log.ParseLevel(strings.ToLower(level))
	if err != nil {
		return err
	}
	SetLevel(l)
	return nil
}

// SetOutput redirects log output, keeping the current level
func SetOutput(w io.Writer) {
	log.Log = log.New(w)
	log.SetLevel(currentLevel)
}

// Debug logs a debug message
func Debug(msg string) {
	log.Debug(msg)
}

// Debugf logs a formatted debug message
func Debugf(format string, args ...any) {
	log.Debugf(format, args...)
}

// Info logs an info message
func Info(msg string) {
	log.Info(msg)
}

// Warn logs a warning message
func Warn(msg string) {
	log.Warn(msg)
}

// Error logs an error message
func Error(msg string) {
	log.Error(msg)
}

// WithField returns an entry with the given field
func WithField(key string, value any) *Entry {
	return log.WithField(key, value)
}

// WithError returns an entry with the given error
func WithError(err error) *Entry {
	return log.WithError(err)
}

// IncreasePadding increases log output indentation
func IncreasePadding() {
	log.IncreasePadding()
}

// DecreasePadding decreases log output indentation
func DecreasePadding() {
	log.DecreasePadding()
}

// ResetPadding resets log output indentation
func ResetPadding() {
	log.ResetPadding()
}

// Section logs title and runs fn with increased padding
func Section(title string, fn func() error) error {
	log.Info(title)
	log.IncreasePadding()
	defer log.DecreasePadding()
	return fn()
}

// IsDebug returns true if debug level is enabled
func IsDebug() bool {
	return currentLevel <= DebugLevel
}

// Init initializes the logger on stderr at info level
func Init() {
	currentLevel = InfoLevel
	SetOutput(os.Stderr)
}
