package zigtooling

import "fmt"

// LogLevel ranks the verbosity of a single log call against a LoggingConfig's
// MinLevel filter.
type LogLevel int

const (
	LogLevelDebug LogLevel = iota
	LogLevelInfo
	LogLevelWarn
	LogLevelError
)

func (l LogLevel) String() string {
	switch l {
	case LogLevelDebug:
		return "debug"
	case LogLevelInfo:
		return "info"
	case LogLevelWarn:
		return "warn"
	case LogLevelError:
		return "error"
	default:
		return "unknown"
	}
}

// logger dispatches to a LoggingConfig's callback, synchronously and only
// when enabled and at or above the configured minimum level. A nil logger
// (zero value) is safe to call log on; it is a no-op.
type logger struct {
	cfg LoggingConfig
}

func newLogger(cfg LoggingConfig) *logger {
	return &logger{cfg: cfg}
}

func (l *logger) log(level LogLevel, format string, args ...any) {
	if l == nil || !l.cfg.Enabled || l.cfg.Callback == nil {
		return
	}
	if level < l.cfg.MinLevel {
		return
	}
	l.cfg.Callback(level, fmt.Sprintf(format, args...))
}

func (l *logger) debug(format string, args ...any) { l.log(LogLevelDebug, format, args...) }
func (l *logger) info(format string, args ...any)   { l.log(LogLevelInfo, format, args...) }
func (l *logger) warn(format string, args ...any)   { l.log(LogLevelWarn, format, args...) }
func (l *logger) error(format string, args ...any)  { l.log(LogLevelError, format, args...) }
