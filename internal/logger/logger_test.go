package logger

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

// TestParseLogLevel verifies mapping from strings to zapcore.Level and handling of unknown values.
func TestParseLogLevel(t *testing.T) {
	t.Parallel()

	cases := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		"info":    zapcore.InfoLevel,
		"":        zapcore.InfoLevel,
		"WARN":    zapcore.WarnLevel,
		"warning": zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
	}
	for s, lvl := range cases {
		got, ok := ParseLogLevel(s)
		require.True(t, ok, s)
		require.Equal(t, lvl, got)
	}

	_, ok := ParseLogLevel("unknown")
	require.False(t, ok)
}

// TestParseFormat verifies format names and the error for unknown encoders.
func TestParseFormat(t *testing.T) {
	t.Parallel()

	f, err := ParseFormat("")
	require.NoError(t, err)
	require.Equal(t, FormatConsole, f)

	f, err = ParseFormat("JSON")
	require.NoError(t, err)
	require.Equal(t, FormatJSON, f)

	_, err = ParseFormat("xml")
	require.ErrorIs(t, err, errUnknownFormat)
}

// TestContextLogger ensures the logger stored in a context carries its key-value pairs.
func TestContextLogger(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	ctx := ToContext(context.Background(), New(zapcore.DebugLevel, FormatJSON, &buf))
	ctx = WithName(ctx, "classifier")
	ctx = WithKV(ctx, "release_id", 123)

	InfoKV(ctx, "Classified assets", "platforms", 2)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	require.Equal(t, "Classified assets", entry["message"])
	require.Equal(t, "classifier", entry["logger"])
	require.InDelta(t, 123, entry["release_id"], 0)
	require.InDelta(t, 2, entry["platforms"], 0)
}

// TestLevelHelpers checks the formatted and key-value helpers and level filtering.
func TestLevelHelpers(t *testing.T) {
	t.Parallel()

	var buf bytes.Buffer

	ctx := ToContext(context.Background(), New(zapcore.InfoLevel, FormatJSON, &buf))

	Debugf(ctx, "page %d", 1)
	require.Zero(t, buf.Len())

	Infof(ctx, "manifest %s", "latest.json")
	ErrorKV(ctx, "run failed", "error", "boom")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 2)

	var info, failure map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &info))
	require.NoError(t, json.Unmarshal(lines[1], &failure))
	require.Equal(t, "manifest latest.json", info["message"])
	require.Equal(t, "run failed", failure["message"])
	require.Equal(t, "boom", failure["error"])
}

// TestFromContext_FallsBackToGlobal checks that a bare context yields the global logger.
func TestFromContext_FallsBackToGlobal(t *testing.T) {
	t.Parallel()

	require.Same(t, global, FromContext(context.Background()))
}
