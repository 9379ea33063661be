package utils

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoggerLevels(t *testing.T) {
	var buf bytes.Buffer
	log := NewLoggerTo(&buf, "warn")

	log.Info("[pipeline] %d files", 3)
	log.Debug("[pipeline] hidden")
	log.Warn("[extractor] skipping %s", "bad.csv")
	log.Error("[postgres] %v", "boom")

	out := buf.String()
	assert.NotContains(t, out, "3 files")
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"level":"warn"`)
	assert.Contains(t, out, "[extractor] skipping bad.csv")
	assert.Contains(t, out, "[postgres] boom")
}

func TestLoggerSetLevel(t *testing.T) {
	var buf bytes.Buffer
	log := NewLoggerTo(&buf, "not-a-level")

	log.Debug("before")
	log.SetLevel("debug")
	log.Debug("after")

	assert.NotContains(t, buf.String(), "before")
	assert.Contains(t, buf.String(), "after")
}
