package zigtooling

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLogger_FiltersBelowMinLevel(t *testing.T) {
	var messages []string
	cfg := LoggingConfig{
		Enabled:  true,
		MinLevel: LogLevelWarn,
		Callback: func(level LogLevel, message string) { messages = append(messages, message) },
	}
	log := newLogger(cfg)
	log.debug("debug message")
	log.info("info message")
	log.warn("warn message")
	log.error("error message")
	assert.Equal(t, []string{"warn message", "error message"}, messages)
}

func TestLogger_DisabledNeverCalls(t *testing.T) {
	called := false
	cfg := LoggingConfig{
		Enabled:  false,
		Callback: func(LogLevel, string) { called = true },
	}
	log := newLogger(cfg)
	log.error("should not fire")
	assert.False(t, called)
}
