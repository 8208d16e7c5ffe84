package folio

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"
	"time"
)

type LogLevel int

const (
	LogDebug LogLevel = iota
	LogInfo
	LogWarn
	LogError
	LogOff
)

var logLevels = map[string]LogLevel{
	"debug": LogDebug,
	"info":  LogInfo,
	"warn":  LogWarn,
	"error": LogError,
	"off":   LogOff,
}

func (l LogLevel) String() string {
	switch l {
	case LogDebug:
		return "DEBUG"
	case LogInfo:
		return "INFO"
	case LogWarn:
		return "WARN"
	case LogError:
		return "ERROR"
	case LogOff:
		return "OFF"
	default:
		return "UNKNOWN"
	}
}

// ParseLogLevel maps a level name onto a LogLevel, defaulting to LogInfo.
func ParseLogLevel(levelStr string) LogLevel {
	if level, ok := logLevels[strings.ToLower(levelStr)]; ok {
		return level
	}
	return LogInfo
}

type Fields map[string]interface{}

// Logger is a small leveled logger. Derived loggers created with WithField
// share the writer and level of their parent.
type Logger struct {
	out    *logOutput
	fields Fields
}

type logOutput struct {
	mu     sync.Mutex
	writer io.Writer
	level  LogLevel
}

var (
	globalLogger     *Logger
	globalLoggerOnce sync.Once
)

func initGlobalLogger() {
	globalLoggerOnce.Do(func() {
		config := GetGlobalConfig()
		globalLogger = NewLogger(os.Stderr, ParseLogLevel(config.LogLevel))
	})
}

func NewLogger(w io.Writer, level LogLevel) *Logger {
	if w == nil {
		w = io.Discard
	}
	return &Logger{
		out:    &logOutput{writer: w, level: level},
		fields: make(Fields),
	}
}

func (l *Logger) SetLevel(level LogLevel) {
	l.out.mu.Lock()
	defer l.out.mu.Unlock()
	l.out.level = level
}

func (l *Logger) IsDebugMode() bool {
	l.out.mu.Lock()
	defer l.out.mu.Unlock()
	return l.out.level == LogDebug
}

func (l *Logger) WithField(key string, value interface{}) *Logger {
	return l.WithFields(Fields{key: value})
}

func (l *Logger) WithFields(fields Fields) *Logger {
	merged := make(Fields, len(l.fields)+len(fields))
	for k, v := range l.fields {
		merged[k] = v
	}
	for k, v := range fields {
		merged[k] = v
	}
	return &Logger{out: l.out, fields: merged}
}

func (l *Logger) log(level LogLevel, format string, args ...interface{}) {
	l.out.mu.Lock()
	defer l.out.mu.Unlock()

	if level < l.out.level {
		return
	}

	var line strings.Builder
	line.WriteString(time.Now().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&line, " [%s] ", level)
	fmt.Fprintf(&line, format, args...)

	// fields are sorted so repeated runs produce comparable logs
	keys := make([]string, 0, len(l.fields))
	for k := range l.fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		fmt.Fprintf(&line, " %s=%v", k, l.fields[k])
	}

	fmt.Fprintln(l.out.writer, line.String())
}

func (l *Logger) Debug(format string, args ...interface{}) {
	l.log(LogDebug, format, args...)
}

func (l *Logger) Info(format string, args ...interface{}) {
	l.log(LogInfo, format, args...)
}

func (l *Logger) Warn(format string, args ...interface{}) {
	l.log(LogWarn, format, args...)
}

func (l *Logger) Error(format string, args ...interface{}) {
	l.log(LogError, format, args...)
}

// SetLogger replaces the package logger
func SetLogger(logger *Logger) {
	initGlobalLogger()
	globalLogger = logger
}

func GetLogger() *Logger {
	initGlobalLogger()
	return globalLogger
}

// UpdateLoggerFromConfig updates the global logger based on the current global configuration
func UpdateLoggerFromConfig() {
	initGlobalLogger()
	globalLogger.SetLevel(ParseLogLevel(GetGlobalConfig().LogLevel))
}

// DiagnosticSink receives non-fatal warnings. The text is already formatted,
// including its trailing newline.
type DiagnosticSink interface {
	Warning(text string)
}

// WriterSink writes warnings verbatim to an io.Writer.
type WriterSink struct {
	W io.Writer
}

func (s WriterSink) Warning(text string) {
	w := s.W
	if w == nil {
		w = os.Stderr
	}
	io.WriteString(w, text)
}

// StderrSink returns the default diagnostic sink.
func StderrSink() DiagnosticSink {
	return WriterSink{W: os.Stderr}
}
