package logx

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"sync"
	"time"
)

// Fields is a set of structured key/value pairs attached to a log entry.
type Fields map[string]interface{}

// Logger is a leveled logger writing either console or JSON lines.
type Logger struct {
	mu       sync.Mutex
	level    Level
	writer   io.Writer
	json     bool
	exitFunc func(int)
}

// NewLogger creates a logger. Format and level come from the environment
// (LOG_FORMAT=json|console, LOG_LEVEL=debug|info|warn|error).
func NewLogger() *Logger {
	return &Logger{
		level:    ParseLevel(os.Getenv("LOG_LEVEL")),
		writer:   os.Stdout,
		json:     os.Getenv("LOG_FORMAT") == "json",
		exitFunc: os.Exit,
	}
}

// SetLevel sets the minimum level this logger emits.
func (l *Logger) SetLevel(level Level) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

// SetOutput sets the output writer.
func (l *Logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.writer = w
}

func (l *Logger) log(level Level, msg string, fields Fields) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if !l.level.Enabled(level) {
		return
	}

	now := time.Now()
	if l.json {
		payload := map[string]interface{}{
			"time":    now.Format(time.RFC3339Nano),
			"level":   level.String(),
			"message": msg,
		}
		for k, v := range fields {
			payload[k] = v
		}
		line, err := json.Marshal(payload)
		if err != nil {
			fmt.Fprintf(os.Stderr, "logx: failed to marshal entry: %v\n", err)
			return
		}
		fmt.Fprintf(l.writer, "%s\n", line)
		return
	}

	fmt.Fprintf(l.writer, "%s [%s] %s%s\n",
		now.Format("2006-01-02 15:04:05"), level.String(), msg, formatFields(fields))
}

func formatFields(fields Fields) string {
	if len(fields) == 0 {
		return ""
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	out := " |"
	for _, k := range keys {
		out += fmt.Sprintf(" %s=%v", k, fields[k])
	}
	return out
}

// Entry is a logger with pre-attached fields.
type Entry struct {
	logger *Logger
	fields Fields
}

// WithFields returns an entry carrying the given fields.
func (l *Logger) WithFields(fields Fields) *Entry {
	merged := make(Fields, len(fields))
	for k, v := range fields {
		merged[k] = v
	}
	return &Entry{logger: l, fields: merged}
}

// WithField returns an entry carrying one field.
func (l *Logger) WithField(key string, value interface{}) *Entry {
	return l.WithFields(Fields{key: value})
}

// WithError returns an entry carrying the error under the "error" key.
func (l *Logger) WithError(err error) *Entry {
	return l.WithField("error", err)
}

// WithField adds a field to the entry.
func (e *Entry) WithField(key string, value interface{}) *Entry {
	e.fields[key] = value
	return e
}

// WithError adds the error under the "error" key.
func (e *Entry) WithError(err error) *Entry {
	return e.WithField("error", err)
}

func (e *Entry) Debug(msg string)                          { e.logger.log(LevelDebug, msg, e.fields) }
func (e *Entry) Info(msg string)                           { e.logger.log(LevelInfo, msg, e.fields) }
func (e *Entry) Warn(msg string)                           { e.logger.log(LevelWarn, msg, e.fields) }
func (e *Entry) Error(msg string)                          { e.logger.log(LevelError, msg, e.fields) }
func (e *Entry) Debugf(format string, args ...interface{}) { e.Debug(fmt.Sprintf(format, args...)) }
func (e *Entry) Infof(format string, args ...interface{})  { e.Info(fmt.Sprintf(format, args...)) }
func (e *Entry) Warnf(format string, args ...interface{})  { e.Warn(fmt.Sprintf(format, args...)) }
func (e *Entry) Errorf(format string, args ...interface{}) { e.Error(fmt.Sprintf(format, args...)) }
