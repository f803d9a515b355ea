package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestFieldConstructors(t *testing.T) {
	assert.Equal(t, Field{Key: "k", Value: "v"}, String("k", "v"))
	assert.Equal(t, Field{Key: "n", Value: 3}, Int("n", 3))
	assert.Equal(t, "error", Err(nil).Key)
	assert.Equal(t, "<nil>", Err(nil).Value)
}

func TestZapLogger_Fields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	l := NewLoggerFromCore(core)

	l.Info("parsed molecule", String("smiles", "CCO"), Int("atoms", 3))
	require.Equal(t, 1, logs.Len())
	entry := logs.All()[0]
	assert.Equal(t, "parsed molecule", entry.Message)
	assert.Equal(t, "CCO", entry.ContextMap()["smiles"])

	l.With(String("component", "parser")).Warn("slow input")
	assert.Equal(t, "parser", logs.All()[1].ContextMap()["component"])
}

func TestNewLogger_Defaults(t *testing.T) {
	l, err := NewLogger(Config{})
	require.NoError(t, err)
	require.NotNil(t, l)
	l.Info("startup")
}

func TestNopLoggerAndDefault(t *testing.T) {
	n := NewNopLogger()
	n.Info("discarded")
	assert.Equal(t, n, n.With(String("a", "b")))

	SetDefault(n)
	assert.Equal(t, n, Default())
	SetDefault(nil)
	assert.Equal(t, n, Default(), "nil is ignored")
}
