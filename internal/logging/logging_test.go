package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew_FiltersByLevel(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(&buf, Options{Level: "warn"})
	require.NoError(t, err)

	logger.Info("hidden")
	logger.Warn("shown", "key", "value")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
	assert.Contains(t, out, "key=value")
	assert.Contains(t, out, "summon")
}

func TestNew_Logfmt(t *testing.T) {
	var buf bytes.Buffer
	logger, err := New(&buf, Options{Level: "debug", Format: "logfmt"})
	require.NoError(t, err)

	logger.Debug("run started", "run", "abc")
	assert.Contains(t, buf.String(), "msg=\"run started\"")
	assert.Contains(t, buf.String(), "run=abc")
}

func TestNew_InvalidOptions(t *testing.T) {
	_, err := New(&bytes.Buffer{}, Options{Level: "loud"})
	assert.Error(t, err)

	_, err = New(&bytes.Buffer{}, Options{Format: "json"})
	assert.Error(t, err)
}

func TestOpen_AppendsToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "summon.log")

	logger, closer, err := Open(path, Options{Level: "info"})
	require.NoError(t, err)
	logger.Info("first")
	require.NoError(t, closer.Close())

	logger, closer, err = Open(path, Options{Level: "info"})
	require.NoError(t, err)
	logger.Info("second")
	require.NoError(t, closer.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "first")
	assert.Contains(t, string(data), "second")
}

func TestDiscard(t *testing.T) {
	assert.NotPanics(t, func() { Discard().Error("nothing") })
}
