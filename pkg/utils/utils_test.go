package utils

import (
	"testing"
	"time"

	"futures-relay/pkg/logger"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestGoSafe_LogsPanic(t *testing.T) {
	core, logs := observer.New(zapcore.ErrorLevel)
	log := &logger.Logger{Logger: zap.New(core)}

	GoSafe(log, func() { panic("boom") })

	require.Eventually(t, func() bool { return logs.Len() == 1 }, time.Second, 5*time.Millisecond)
	entry := logs.All()[0]
	assert.Equal(t, "Recovered from panic", entry.Message)
	assert.Equal(t, "boom", entry.ContextMap()["panic"])
	assert.Contains(t, entry.ContextMap(), "stack")
}

func TestGoSafe_RunsFunction(t *testing.T) {
	done := make(chan struct{})
	GoSafe(logger.NewNop(), func() { close(done) })

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("function did not run")
	}
}
