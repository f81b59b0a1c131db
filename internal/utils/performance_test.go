package utils

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lastLine(t *testing.T, buf *bytes.Buffer) map[string]interface{} {
	t.Helper()
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(lines[len(lines)-1]), &entry))
	return entry
}

func TestTimer_StopWithContext(t *testing.T) {
	var buf bytes.Buffer
	log := zerolog.New(&buf).Level(zerolog.DebugLevel)

	d := NewTimer("ingest", log).StopWithContext(map[string]interface{}{
		"rows":   12,
		"source": "sales.xlsx",
	})
	assert.GreaterOrEqual(t, d, time.Duration(0))

	entry := lastLine(t, &buf)
	assert.Equal(t, "debug", entry["level"])
	assert.Equal(t, "ingest", entry["operation"])
	assert.Equal(t, float64(12), entry["rows"])
	assert.Equal(t, "sales.xlsx", entry["source"])
}

func TestTimer_SlowOperationWarns(t *testing.T) {
	prev := SlowThreshold
	SlowThreshold = -1
	defer func() { SlowThreshold = prev }()

	var buf bytes.Buffer
	log := zerolog.New(&buf).Level(zerolog.DebugLevel)
	OperationTimer("rollup", log)()

	entry := lastLine(t, &buf)
	assert.Equal(t, "warn", entry["level"])
	assert.Equal(t, "Slow operation detected", entry["message"])
}
