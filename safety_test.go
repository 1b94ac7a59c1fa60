package zigtooling

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestProcessLineSafely_RecoversWhenContinueOnError(t *testing.T) {
	var messages []string
	log := newLogger(LoggingConfig{
		Enabled:  true,
		MinLevel: LogLevelWarn,
		Callback: func(level LogLevel, message string) { messages = append(messages, message) },
	})
	ok := processLineSafely(func() { panic("boom") }, log, 7, true)
	assert.True(t, ok)
	assert.Len(t, messages, 1)
}

func TestProcessLineSafely_AbortsWhenContinueOnErrorFalse(t *testing.T) {
	ok := processLineSafely(func() { panic("boom") }, nil, 3, false)
	assert.False(t, ok)
}

func TestProcessLineSafely_NoPanicReturnsTrue(t *testing.T) {
	ok := processLineSafely(func() {}, nil, 1, false)
	assert.True(t, ok)
}
