package logging

import (
	"bytes"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupLevelAndPrefix(t *testing.T) {
	prev := log.Default()
	t.Cleanup(func() { log.SetDefault(prev) })

	var buf bytes.Buffer
	require.NoError(t, Setup(&buf, "warn"))

	l := Named("tts")
	l.Info("hidden")
	l.Warn("shown", "chunk", 2)

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "tts")
	assert.Contains(t, out, "shown")
	assert.Contains(t, out, "chunk=2")
}

func TestSetupRejectsUnknownLevel(t *testing.T) {
	assert.Error(t, Setup(nil, "loud"))
}
