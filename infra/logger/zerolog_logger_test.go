package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZerologLoggerMethods(t *testing.T) {
	assert.NoError(t, os.Setenv("APP_ENV", "dev"))
	defer func() { assert.NoError(t, os.Unsetenv("APP_ENV")) }()
	l := NewZerologLogger("test")
	require.NotNil(t, l)
	l.Debugf("debug %d", 1)
	l.Debugw("debug", map[string]any{"k": 1})
	l.Infof("info %s", "test")
	l.Warnf("warn")
	l.Errorf("error")
}

func TestZerologLoggerComponentField(t *testing.T) {
	var buf bytes.Buffer
	l := NewWithWriter(&buf, "allocation")
	l.Infof("allocated %d recipients", 3)
	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "allocation", entry["component"])
	assert.Equal(t, "allocated 3 recipients", entry["message"])
	assert.Equal(t, "info", entry["level"])
}

func TestZerologLoggerDebugwFields(t *testing.T) {
	prev := zerolog.GlobalLevel()
	t.Cleanup(func() { zerolog.SetGlobalLevel(prev) })
	require.NoError(t, SetLevel("debug"))
	var buf bytes.Buffer
	l := NewWithWriter(&buf, "engine")
	l.Debugw("planned", map[string]any{"recipient": "A", "capacity": 30})
	line := buf.String()
	assert.True(t, strings.Index(line, `"capacity"`) < strings.Index(line, `"recipient"`), "fields should be ordered: %s", line)
}

func TestSetLevel(t *testing.T) {
	prev := zerolog.GlobalLevel()
	t.Cleanup(func() { zerolog.SetGlobalLevel(prev) })
	require.NoError(t, SetLevel("warn"))
	assert.Equal(t, zerolog.WarnLevel, zerolog.GlobalLevel())
	assert.NoError(t, SetLevel(""))
	assert.Error(t, SetLevel("loud"))
}
