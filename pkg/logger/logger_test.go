package logger

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		"INFO":    zapcore.InfoLevel,
		"warning": zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"":        zapcore.InfoLevel,
		"bogus":   zapcore.InfoLevel,
	}
	for in, want := range tests {
		assert.Equal(t, want, parseLevel(in), "level %q", in)
	}
}

func TestNew(t *testing.T) {
	log, err := New("debug", true)
	require.NoError(t, err)
	require.NotNil(t, log)

	child := log.With("family", "dhun")
	assert.NotNil(t, child.SugaredLogger)
	assert.NotPanics(t, func() { child.Info("refreshed", "count", 3) })
}

func TestNop(t *testing.T) {
	assert.NotPanics(t, func() {
		Nop().Warn("ignored", "key", "value")
	})
}
