package common

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// LogLevel represents the severity level of a log message
type LogLevel int

const (
	// DebugLevel is for debug messages
	DebugLevel LogLevel = iota
	// InfoLevel is for informational messages
	InfoLevel
	// WarnLevel is for warning messages
	WarnLevel
	// ErrorLevel is for error messages
	ErrorLevel
)

// String returns the string representation of the log level
func (l LogLevel) String() string {
	switch l {
	case DebugLevel:
		return "DEBUG"
	case InfoLevel:
		return "INFO"
	case WarnLevel:
		return "WARN"
	case ErrorLevel:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// toZerologLevel maps our level onto zerolog's, defaulting unknown values to info.
// This lets callers that already carry a zerolog.Logger (cmd/attach's structured
// sink, see NewStructured) stay in sync with the level a plain *Logger is set to.
func (l LogLevel) toZerologLevel() zerolog.Level {
	switch l {
	case DebugLevel:
		return zerolog.DebugLevel
	case InfoLevel:
		return zerolog.InfoLevel
	case WarnLevel:
		return zerolog.WarnLevel
	case ErrorLevel:
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// ZerologLevel exposes toZerologLevel to other packages that need to align a
// zerolog.Logger with a LogLevel without duplicating the mapping.
func ZerologLevel(l LogLevel) zerolog.Level {
	return l.toZerologLevel()
}

// NewStructured builds a zerolog.Logger at the equivalent level, for callers
// that want structured fields alongside the plain entity-tagged stream that
// Logger produces. The two are independent sinks; nothing here duplicates
// onto the other's writer.
func NewStructured(out io.Writer, level LogLevel) zerolog.Logger {
	return zerolog.New(out).Level(level.toZerologLevel()).With().Timestamp().Logger()
}

// CustomFormatter renders "[timestamp][LEVEL][entity] message" lines to Out.
// Prefix identifies the entity; it is normalized (trimmed, unbracketed,
// lowercased) and defaults to "main" when empty.
type CustomFormatter struct {
	Out    io.Writer
	Prefix string
}

// Write passes bytes straight through to Out, so CustomFormatter can also be
// used anywhere an io.Writer is expected (e.g. as a *log.Logger sink).
func (f *CustomFormatter) Write(p []byte) (int, error) {
	return f.Out.Write(p)
}

// WriteLevel writes one formatted log line.
func (f *CustomFormatter) WriteLevel(level, message string) {
	ts := time.Now().Format("2006-01-02 15:04:05.000")
	fmt.Fprintf(f.Out, "[%s][%s][%s] %s\n", ts, level, entityName(f.Prefix), message)
}

func entityName(prefix string) string {
	p := strings.TrimSpace(prefix)
	p = strings.TrimPrefix(p, "[")
	p = strings.TrimSuffix(p, "]")
	p = strings.ToLower(p)
	if p == "" {
		return "main"
	}
	return p
}

// Logger represents a logger instance
type Logger struct {
	mu        sync.Mutex
	level     LogLevel
	formatter *CustomFormatter
}

// defaultLogger is the default logger instance
var defaultLogger *Logger

// init initializes the default logger
func init() {
	defaultLogger = NewLogger(os.Stdout, "", InfoLevel)
}

// NewLogger creates a new Logger instance
func NewLogger(out io.Writer, prefix string, level LogLevel) *Logger {
	return &Logger{
		level:     level,
		formatter: &CustomFormatter{Out: out, Prefix: prefix},
	}
}

// NewLoggerWithFile opens path for append and returns a Logger writing to it.
func NewLoggerWithFile(path, prefix string, level LogLevel) (*Logger, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("open log file %s: %w", path, err)
	}
	return NewLogger(f, prefix, level), nil
}

// SetLevel sets the minimum log level
func (l *Logger) SetLevel(level LogLevel) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
}

// GetLevel returns the current log level
func (l *Logger) GetLevel() LogLevel {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.level
}

// SetOutput sets the output destination for the logger
func (l *Logger) SetOutput(w io.Writer) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.formatter.Out = w
}

// log is the internal logging method
func (l *Logger) log(level LogLevel, format string, v ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if level < l.level {
		return
	}

	msg := fmt.Sprintf(format, v...)
	l.formatter.WriteLevel(level.String(), msg)
}

// Debug logs a debug message
func (l *Logger) Debug(format string, v ...interface{}) {
	l.log(DebugLevel, format, v...)
}

// Info logs an informational message
func (l *Logger) Info(format string, v ...interface{}) {
	l.log(InfoLevel, format, v...)
}

// Warn logs a warning message
func (l *Logger) Warn(format string, v ...interface{}) {
	l.log(WarnLevel, format, v...)
}

// Error logs an error message
func (l *Logger) Error(format string, v ...interface{}) {
	l.log(ErrorLevel, format, v...)
}

// Fatal logs an error message and exits the program
func (l *Logger) Fatal(format string, v ...interface{}) {
	l.log(ErrorLevel, format, v...)
	os.Exit(1)
}

// Default logger functions

// SetLevel sets the minimum log level for the default logger
func SetLevel(level LogLevel) {
	defaultLogger.SetLevel(level)
}

// GetLevel returns the current log level of the default logger
func GetLevel() LogLevel {
	return defaultLogger.GetLevel()
}

// SetOutput sets the output destination for the default logger
func SetOutput(w io.Writer) {
	defaultLogger.SetOutput(w)
}

// Debug logs a debug message using the default logger
func Debug(format string, v ...interface{}) {
	defaultLogger.Debug(format, v...)
}

// Info logs an informational message using the default logger
func Info(format string, v ...interface{}) {
	defaultLogger.Info(format, v...)
}

// Warn logs a warning message using the default logger
func Warn(format string, v ...interface{}) {
	defaultLogger.Warn(format, v...)
}

// Error logs an error message using the default logger
func Error(format string, v ...interface{}) {
	defaultLogger.Error(format, v...)
}

// Fatal logs an error message using the default logger and exits the program
func Fatal(format string, v ...interface{}) {
	defaultLogger.Fatal(format, v...)
}
