package logger

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"docsign/internal/config"
)

func TestNewWithWriter(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, config.LogConfig{Level: "debug", Timezone: "UTC"})

	l.WithField("component", "test").Debug("hello")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "hello", entry["msg"])
	assert.Equal(t, "debug", entry["level"])
	assert.Equal(t, "test", entry["component"])
	assert.NotEmpty(t, entry["ts"])
}

func TestNewWithWriter_InvalidLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, config.LogConfig{Level: "loud"})

	l.Debug("hidden")
	assert.Zero(t, buf.Len())

	l.Info("shown")
	assert.NotZero(t, buf.Len())
}

func TestLocation(t *testing.T) {
	assert.Equal(t, time.UTC, Location(""))
	assert.Equal(t, time.UTC, Location("Not/AZone"))
	assert.Equal(t, "UTC", Location("UTC").String())
}
