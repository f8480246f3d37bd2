package out

import "strings"

type LogLevel string

const (
	LogLevelDebug LogLevel = "DEBUG"
	LogLevelInfo  LogLevel = "INFO"
	LogLevelWarn  LogLevel = "WARN"
	LogLevelError LogLevel = "ERROR"
)

var logLevelWeight = map[LogLevel]int{
	LogLevelDebug: 0,
	LogLevelInfo:  1,
	LogLevelWarn:  2,
	LogLevelError: 3,
}

// ParseLogLevel неизвестный уровень считается INFO
func ParseLogLevel(s string) LogLevel {
	level := LogLevel(strings.ToUpper(strings.TrimSpace(s)))
	if _, ok := logLevelWeight[level]; !ok {
		return LogLevelInfo
	}
	return level
}

// Enabled пишется ли level при минимальном уровне l
func (l LogLevel) Enabled(level LogLevel) bool {
	return logLevelWeight[level] >= logLevelWeight[l]
}

type LogFields map[string]interface{}

type LoggerPort interface {
	Debug(event string, fields LogFields)
	Info(event string, fields LogFields)
	Warn(event string, fields LogFields)
	Error(event string, fields LogFields)
	WithFields(fields LogFields) LoggerPort
	WithModule(module string) LoggerPort
}

// NopLogger для тестов и выключенного логирования
type NopLogger struct{}

func (NopLogger) Debug(string, LogFields)           {}
func (NopLogger) Info(string, LogFields)            {}
func (NopLogger) Warn(string, LogFields)            {}
func (NopLogger) Error(string, LogFields)           {}
func (n NopLogger) WithFields(LogFields) LoggerPort { return n }
func (n NopLogger) WithModule(string) LoggerPort    { return n }
