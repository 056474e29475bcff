package logger

import (
	"bytes"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want zerolog.Level
	}{
		{"debug", zerolog.DebugLevel},
		{"INFO", zerolog.InfoLevel},
		{" warn ", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"off", zerolog.Disabled},
		{"nonsense", zerolog.WarnLevel},
		{"", zerolog.WarnLevel},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseLevel(tt.in), "level %q", tt.in)
	}
}

func TestNewFiltersBelowLevel(t *testing.T) {
	var buf bytes.Buffer
	log := New(Config{Level: "warn", Output: &buf})

	log.Info().Msg("hidden")
	assert.Empty(t, buf.String())

	log.Warn().Str("component", "test").Msg("shown")
	assert.Contains(t, buf.String(), `"component":"test"`)
	assert.Contains(t, buf.String(), `"message":"shown"`)
}

func TestOpenFileCreatesParents(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "earned.log")
	log, closer, err := OpenFile(path, Config{Level: "info"})
	require.NoError(t, err)
	log.Info().Msg("hello")
	require.NoError(t, closer.Close())
	assert.FileExists(t, path)
}
