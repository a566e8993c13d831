package internal

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	globalLogger *Logger
	once         sync.Once
)

const (
	LogLevelDebug LogLevel = iota
	LogLevelInfo
	LogLevelWarn
	LogLevelError
	LogLevelFatal
)

type Component string
type LogLevel int

const (
	ComponentGeneral Component = "General"
	ComponentConfig  Component = "Config"
	ComponentLedger  Component = "Ledger"
	ComponentEngine  Component = "Engine"
	ComponentStorage Component = "Storage"
	ComponentNATS    Component = "NATS"
	ComponentCLI     Component = "CLI"
)

// AllComponents lists every component; the default logger enables all of them.
var AllComponents = []Component{
	ComponentGeneral,
	ComponentConfig,
	ComponentLedger,
	ComponentEngine,
	ComponentStorage,
	ComponentNATS,
	ComponentCLI,
}

// ParseLogLevel maps a config value onto a LogLevel.
func ParseLogLevel(s string) (LogLevel, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return LogLevelDebug, nil
	case "info", "":
		return LogLevelInfo, nil
	case "warn", "warning":
		return LogLevelWarn, nil
	case "error":
		return LogLevelError, nil
	case "fatal":
		return LogLevelFatal, nil
	default:
		return LogLevelInfo, fmt.Errorf("unknown log level %q", s)
	}
}

func (l LogLevel) zerolog() zerolog.Level {
	switch l {
	case LogLevelDebug:
		return zerolog.DebugLevel
	case LogLevelInfo:
		return zerolog.InfoLevel
	case LogLevelWarn:
		return zerolog.WarnLevel
	case LogLevelError:
		return zerolog.ErrorLevel
	default:
		return zerolog.FatalLevel
	}
}

// Logger tags every line with a component and drops lines from disabled
// components. Output goes through zerolog.
type Logger struct {
	mu                sync.RWMutex
	zl                zerolog.Logger
	file              *os.File
	level             LogLevel
	enabledComponents map[Component]bool
	exit              func(int)
}

func InitGlobalLogger(logDir string, level LogLevel, components []Component) error {
	var err error
	once.Do(func() {
		globalLogger, err = NewLogger(logDir, level, components)
	})
	return err
}

func GetLogger() *Logger {
	if globalLogger == nil {
		globalLogger = NewWriterLogger(consoleWriter(os.Stderr), LogLevelWarn, AllComponents)
	}
	return globalLogger
}

// SetGlobalLogger replaces the logger returned by GetLogger.
func SetGlobalLogger(l *Logger) {
	globalLogger = l
}

func consoleWriter(w io.Writer) io.Writer {
	return zerolog.ConsoleWriter{Out: w, TimeFormat: time.RFC3339, NoColor: true}
}

// NewWriterLogger logs to w only.
func NewWriterLogger(w io.Writer, level LogLevel, components []Component) *Logger {
	enabledComponents := make(map[Component]bool)
	for _, component := range components {
		enabledComponents[component] = true
	}

	return &Logger{
		zl:                zerolog.New(w).With().Timestamp().Logger().Level(level.zerolog()),
		level:             level,
		enabledComponents: enabledComponents,
		exit:              os.Exit,
	}
}

// NewLogger logs to stderr and, when logDir is set, to a timestamped JSON
// file inside it.
func NewLogger(logDir string, level LogLevel, components []Component) (*Logger, error) {
	if logDir == "" {
		return NewWriterLogger(consoleWriter(os.Stderr), level, components), nil
	}
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	timestamp := time.Now().Format("2006-01-02_15-04-05")
	logPath := filepath.Join(logDir, fmt.Sprintf("toytxs_%s.log", timestamp))
	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to open log file: %w", err)
	}

	logger := NewWriterLogger(zerolog.MultiLevelWriter(file, consoleWriter(os.Stderr)), level, components)
	logger.file = file
	return logger, nil
}

func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.file != nil {
		err := l.file.Close()
		l.file = nil
		return err
	}
	return nil
}

func (l *Logger) SetLevel(level LogLevel) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.level = level
	l.zl = l.zl.Level(level.zerolog())
}

func (l *Logger) EnableComponent(component Component) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.enabledComponents[component] = true
}

func (l *Logger) DisableComponent(component Component) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.enabledComponents[component] = false
}

func (l *Logger) IsComponentEnabled(component Component) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.enabledComponents[component]
}

// With starts a child zerolog logger sharing this logger's output and level.
func (l *Logger) With() zerolog.Context {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.zl.With()
}

func (l *Logger) log(level LogLevel, component Component, format string, args ...interface{}) {
	l.mu.RLock()
	if level < l.level || !l.enabledComponents[component] {
		l.mu.RUnlock()
		return
	}
	zl := l.zl
	exit := l.exit
	l.mu.RUnlock()

	// WithLevel does not exit on fatal; that is handled below
	zl.WithLevel(level.zerolog()).Str("component", string(component)).Msgf(format, args...)

	if level == LogLevelFatal {
		exit(1)
	}
}

func (l *Logger) Debug(component Component, format string, args ...interface{}) {
	l.log(LogLevelDebug, component, format, args...)
}

func (l *Logger) Info(component Component, format string, args ...interface{}) {
	l.log(LogLevelInfo, component, format, args...)
}

func (l *Logger) Warn(component Component, format string, args ...interface{}) {
	l.log(LogLevelWarn, component, format, args...)
}

func (l *Logger) Error(component Component, format string, args ...interface{}) {
	l.log(LogLevelError, component, format, args...)
}

func (l *Logger) Fatal(component Component, format string, args ...interface{}) {
	l.log(LogLevelFatal, component, format, args...)
}
