package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"":        slog.LevelInfo,
		"DEBUG":   slog.LevelDebug,
		"warning": slog.LevelWarn,
		"error":   slog.LevelError,
	}
	for in, want := range cases {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}
	_, err := ParseLevel("trace")
	assert.Error(t, err)
}

func TestNewJSONHonorsLevel(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(&buf, slog.LevelInfo, "json")
	require.NoError(t, err)

	l.Debug("hidden")
	l.Info("loaded", "rows", 3)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "loaded", rec["msg"])
	assert.Equal(t, float64(3), rec["rows"])
}

func TestNewText(t *testing.T) {
	var buf bytes.Buffer
	l, err := New(&buf, slog.LevelDebug, "")
	require.NoError(t, err)
	l.Debug("stage", "stage", "pivot")
	assert.Contains(t, buf.String(), "stage=pivot")

	_, err = New(&buf, slog.LevelInfo, "xml")
	assert.Error(t, err)
}

func TestSetupInstallsDefault(t *testing.T) {
	prev := slog.Default()
	defer slog.SetDefault(prev)

	var buf bytes.Buffer
	_, err := Setup(&buf, "debug", "text")
	require.NoError(t, err)
	slog.Debug("via default")
	assert.Contains(t, buf.String(), "via default")

	_, err = Setup(&buf, "loud", "text")
	assert.Error(t, err)
}
