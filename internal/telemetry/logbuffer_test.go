package telemetry_test

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zeventbooks/event-gateway/internal/telemetry"
)

func TestLogBuffer_TailOrdersOldestFirst(t *testing.T) {
	buf := telemetry.NewLogBuffer(10)
	logger, err := telemetry.NewLogger("info", buf)
	require.NoError(t, err)

	logger.Info("first")
	logger.Info("second")
	logger.Info("third")

	tail := buf.Tail(0)
	require.Len(t, tail, 3)
	assert.Contains(t, tail[0], "first")
	assert.Contains(t, tail[2], "third")
}

func TestLogBuffer_OverwritesOldest(t *testing.T) {
	buf := telemetry.NewLogBuffer(5)
	logger, err := telemetry.NewLogger("info", buf)
	require.NoError(t, err)

	for i := 0; i < 12; i++ {
		logger.Info(fmt.Sprintf("line-%d", i))
	}

	tail := buf.Tail(0)
	require.Len(t, tail, 5)
	assert.Contains(t, tail[0], "line-7")
	assert.Contains(t, tail[4], "line-11")
}

func TestLogBuffer_TailLimit(t *testing.T) {
	buf := telemetry.NewLogBuffer(10)
	logger, err := telemetry.NewLogger("info", buf)
	require.NoError(t, err)

	for i := 0; i < 6; i++ {
		logger.Info(fmt.Sprintf("line-%d", i))
	}

	tail := buf.Tail(2)
	require.Len(t, tail, 2)
	assert.Contains(t, tail[1], "line-5")
}

func TestNewLogger_RespectsLevel(t *testing.T) {
	buf := telemetry.NewLogBuffer(10)
	logger, err := telemetry.NewLogger("warn", buf)
	require.NoError(t, err)

	logger.Info("quiet")
	logger.Warn("loud")

	tail := buf.Tail(0)
	require.Len(t, tail, 1)
	assert.Contains(t, tail[0], "loud")
}

func TestNewLogger_BadLevelFallsBackToInfo(t *testing.T) {
	buf := telemetry.NewLogBuffer(10)
	logger, err := telemetry.NewLogger("nonsense", buf)
	require.NoError(t, err)
	logger.Info("hello")
	assert.Len(t, buf.Tail(0), 1)
}
