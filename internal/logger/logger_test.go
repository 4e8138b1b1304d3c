package logger

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewDevelopment(t *testing.T) {
	t.Setenv(EnvVar, "DEV")

	l := New()
	require.NotNil(t, l)
	assert.True(t, l.Core().Enabled(zapcore.DebugLevel))
}

func TestNewProduction(t *testing.T) {
	t.Setenv(EnvVar, "")

	l := New()
	require.NotNil(t, l)
	assert.False(t, l.Core().Enabled(zapcore.DebugLevel))
	assert.True(t, l.Core().Enabled(zapcore.InfoLevel))
}

func TestContextRoundTrip(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	l := zap.New(core)

	ctx := WithContext(context.Background(), l)
	FromContext(ctx).Info("hello")

	require.Equal(t, 1, logs.Len())
	assert.Equal(t, "hello", logs.All()[0].Message)
}

func TestFromContextFallsBackToGlobal(t *testing.T) {
	assert.Same(t, zap.L(), FromContext(context.Background()))
}
