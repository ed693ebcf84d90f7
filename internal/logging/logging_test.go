package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	assert.Equal(t, LevelDebug, ParseLevel("debug"))
	assert.Equal(t, LevelInfo, ParseLevel("info"))
	assert.Equal(t, LevelError, ParseLevel("error"))
	assert.Equal(t, LevelWarn, ParseLevel("nonsense"))
}

func TestLoggerRespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, LevelWarn)
	log.Debugf("hidden %d", 1)
	log.Infof("also hidden")
	log.Warnf("visible")
	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "visible")
}

func TestLoggerWithPrefixesComponent(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, LevelDebug).With("scanner").With("worker")
	log.Errorf("boom")
	assert.True(t, strings.Contains(buf.String(), "scanner.worker"))
}
