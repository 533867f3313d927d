package logging

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in      string
		want    slog.Level
		wantErr bool
	}{
		{"debug", slog.LevelDebug, false},
		{"INFO", slog.LevelInfo, false},
		{"", slog.LevelInfo, false},
		{"warning", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"loud", slog.LevelInfo, true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseLevel(tt.in)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNew_FileOutputAndLevelChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "logs", "browsetree.log")
	l, err := New(Config{Level: "warn", Format: FormatJSON, Output: "file", FilePath: path, Component: "test"})
	require.NoError(t, err)

	l.Info("hidden")
	l.Warn("shown", "n", 1)

	l.SetLevel(slog.LevelDebug)
	assert.True(t, l.Enabled(context.Background(), slog.LevelDebug))
	l.Debug("now visible")
	require.NoError(t, l.Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, `"msg":"shown"`)
	assert.Contains(t, out, `"component":"test"`)
	assert.Contains(t, out, "now visible")
	assert.Equal(t, 2, strings.Count(out, "\n"))
}

func TestNew_RejectsUnknownSettings(t *testing.T) {
	_, err := New(Config{Level: "info", Format: "xml"})
	assert.Error(t, err)

	_, err = New(Config{Level: "info", Output: "syslog"})
	assert.Error(t, err)

	_, err = New(Config{Level: "info", Output: "file"})
	assert.Error(t, err)
}
