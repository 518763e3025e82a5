package logger

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"DEBUG", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"warning", slog.LevelWarn},
		{"error", slog.LevelError},
		{"  error  ", slog.LevelError},
		{"", slog.LevelInfo},
		{"verbose", slog.LevelInfo},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, ParseLevel(tt.input), "input=%q", tt.input)
	}
}

func TestNew(t *testing.T) {
	log := New(Options{Level: "debug", Format: FormatText, Service: "test"})
	assert.NotNil(t, log)
	assert.True(t, log.Enabled(nil, slog.LevelDebug))

	log = New(Options{Level: "error", Format: FormatJSON})
	assert.False(t, log.Enabled(nil, slog.LevelInfo))
}

func TestErr(t *testing.T) {
	attr := Err(nil)
	assert.Equal(t, slog.Attr{}, attr)

	attr = Err(assert.AnError)
	assert.Equal(t, "error", attr.Key)
}
