package logx

import (
	"fmt"
	"io"
)

// defaultLogger is the process-wide logger instance.
var defaultLogger = NewLogger()

// SetDefaultLogger replaces the default logger.
func SetDefaultLogger(logger *Logger) {
	defaultLogger = logger
}

// SetLevel sets the log level of the default logger.
func SetLevel(level Level) {
	defaultLogger.SetLevel(level)
}

// SetOutput sets the output of the default logger.
func SetOutput(w io.Writer) {
	defaultLogger.SetOutput(w)
}

// Debug logs a debug level message.
func Debug(msg string) {
	defaultLogger.log(LevelDebug, msg, nil)
}

// Info logs an info level message.
func Info(msg string) {
	defaultLogger.log(LevelInfo, msg, nil)
}

// Warn logs a warning level message.
func Warn(msg string) {
	defaultLogger.log(LevelWarn, msg, nil)
}

// Error logs an error level message.
func Error(msg string) {
	defaultLogger.log(LevelError, msg, nil)
}

// Fatal logs a fatal message and exits.
func Fatal(msg string) {
	defaultLogger.log(LevelFatal, msg, nil)
	defaultLogger.exitFunc(1)
}

// Debugf logs a formatted debug message.
func Debugf(format string, args ...interface{}) {
	defaultLogger.log(LevelDebug, fmt.Sprintf(format, args...), nil)
}

// Infof logs a formatted info message.
func Infof(format string, args ...interface{}) {
	defaultLogger.log(LevelInfo, fmt.Sprintf(format, args...), nil)
}

// Warnf logs a formatted warning message.
func Warnf(format string, args ...interface{}) {
	defaultLogger.log(LevelWarn, fmt.Sprintf(format, args...), nil)
}

// Errorf logs a formatted error message.
func Errorf(format string, args ...interface{}) {
	defaultLogger.log(LevelError, fmt.Sprintf(format, args...), nil)
}

// Fatalf logs a formatted fatal message and exits.
func Fatalf(format string, args ...interface{}) {
	defaultLogger.log(LevelFatal, fmt.Sprintf(format, args...), nil)
	defaultLogger.exitFunc(1)
}

// WithFields creates an entry with the given fields on the default logger.
func WithFields(fields Fields) *Entry {
	return defaultLogger.WithFields(fields)
}

// WithField creates an entry with one field on the default logger.
func WithField(key string, value interface{}) *Entry {
	return defaultLogger.WithField(key, value)
}

// WithError creates an entry carrying an error on the default logger.
func WithError(err error) *Entry {
	return defaultLogger.WithError(err)
}
