package logger

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"INFO":    slog.LevelInfo,
		"warning": slog.LevelWarn,
		"warn":    slog.LevelWarn,
		"error":   slog.LevelError,
		"bogus":   slog.LevelInfo,
		"":        slog.LevelInfo,
	}
	for in, want := range tests {
		assert.Equal(t, want, ParseLevel(in), in)
	}
}

func TestNew_JSON(t *testing.T) {
	var buf bytes.Buffer
	log := New(&buf, Config{Level: "info", Format: "json"})

	log.Debug("hidden")
	log.Info("scored", slog.String("label", "Medium"))

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &entry))
	assert.Equal(t, "scored", entry["msg"])
	assert.Equal(t, "Medium", entry["label"])
}

func TestNew_Text(t *testing.T) {
	var buf bytes.Buffer
	New(&buf, Config{Level: "debug", Format: "text"}).Debug("hello")
	assert.Contains(t, buf.String(), "msg=hello")
}

func TestInit_FileOutput(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "risk.log")
	log, err := Init(Config{Level: "info", Format: "json", Output: "file", FilePath: path, MaxSize: 1})
	require.NoError(t, err)
	t.Cleanup(func() { slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, nil))) })

	log.Info("written to file")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "written to file")
}

func TestInit_UnknownOutput(t *testing.T) {
	_, err := Init(Config{Output: "syslog"})
	require.Error(t, err)
}
