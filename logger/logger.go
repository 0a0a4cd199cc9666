package logger

import (
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/coreos/go-systemd/v22/journal"
)

type Level int

const (
	DEBUG Level = iota
	INFO
	WARN
	ERROR
	FATAL
)

var levelNames = map[Level]string{
	DEBUG: "DEBUG",
	INFO:  "INFO ",
	WARN:  "WARN ",
	ERROR: "ERROR",
	FATAL: "FATAL",
}

var journalPriorities = map[Level]journal.Priority{
	DEBUG: journal.PriDebug,
	INFO:  journal.PriInfo,
	WARN:  journal.PriWarning,
	ERROR: journal.PriErr,
	FATAL: journal.PriCrit,
}

type Logger struct {
	level         Level
	packageLevels map[string]Level
	logger        *log.Logger
	journal       bool
}

// Global logger instance
var defaultLogger *Logger

func init() {
	defaultLogger = New(INFO)
}

// New creates a new logger with the specified level
func New(level Level) *Logger {
	return &Logger{
		level:         level,
		packageLevels: map[string]Level{},
		logger:        log.New(os.Stderr, "", log.LstdFlags),
	}
}

// SetLevel sets the global logger level
func SetLevel(level Level) {
	defaultLogger.level = level
}

// SetPackageLevels sets per-component level overrides.
// Keys match the [component] prefix used in log messages (e.g. "power", "api", "ui").
func SetPackageLevels(levels map[string]Level) {
	if levels == nil {
		levels = map[string]Level{}
	}
	defaultLogger.packageLevels = levels
}

// SetJournal mirrors log entries to journald. It is a no-op when the journal
// socket is not reachable, and reports whether mirroring is active.
func SetJournal(enabled bool) bool {
	defaultLogger.journal = enabled && journal.Enabled()
	return defaultLogger.journal
}

// extractComponent returns the component name from a "[component] ..." message, or "".
func extractComponent(msg string) string {
	if len(msg) < 3 || msg[0] != '[' {
		return ""
	}
	end := strings.IndexByte(msg[1:], ']')
	if end < 0 {
		return ""
	}
	return msg[1 : end+1]
}

// shouldLog checks if a message at this level should be logged,
// applying a component-specific override when the message carries a [component] prefix.
func (l *Logger) shouldLog(level Level, msg string) bool {
	if pkg := extractComponent(msg); pkg != "" {
		if pkgLevel, ok := l.packageLevels[pkg]; ok {
			return level >= pkgLevel
		}
	}
	return level >= l.level
}

// format creates a formatted message with level prefix
func (l *Logger) format(level Level, msg string) string {
	return fmt.Sprintf("[%s] %s", levelNames[level], msg)
}

func (l *Logger) write(level Level, msg string, args ...interface{}) {
	if level != FATAL && !l.shouldLog(level, msg) {
		return
	}
	formatted := fmt.Sprintf(msg, args...)
	if l.journal {
		vars := map[string]string{"SYSLOG_IDENTIFIER": "powermenu"}
		if component := extractComponent(formatted); component != "" {
			vars["POWERMENU_COMPONENT"] = component
		}
		// stderr still gets the line, a journal failure is not worth reporting
		_ = journal.Send(formatted, journalPriorities[level], vars)
	}
	if level == FATAL {
		l.logger.Fatalln(l.format(level, formatted))
	}
	l.logger.Println(l.format(level, formatted))
}

// Debug logs a debug message
func Debug(msg string, args ...interface{}) {
	defaultLogger.write(DEBUG, msg, args...)
}

// Info logs an info message
func Info(msg string, args ...interface{}) {
	defaultLogger.write(INFO, msg, args...)
}

// Warn logs a warning message
func Warn(msg string, args ...interface{}) {
	defaultLogger.write(WARN, msg, args...)
}

// Error logs an error message
func Error(msg string, args ...interface{}) {
	defaultLogger.write(ERROR, msg, args...)
}

// Fatal logs a fatal message and exits
func Fatal(msg string, args ...interface{}) {
	defaultLogger.write(FATAL, msg, args...)
}
