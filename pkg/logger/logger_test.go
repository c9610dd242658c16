package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func TestInit(t *testing.T) {
	err := Init(zapcore.InfoLevel, zap.String("service", "logger-test"))
	require.NoError(t, err)
	require.NotNil(t, Log)

	first := Log

	// A second Init is a no-op and keeps the existing instance.
	err = Init(zapcore.DebugLevel)
	require.NoError(t, err)
	assert.Same(t, first, Log)

	assert.True(t, Log.Core().Enabled(zapcore.InfoLevel))
}
