package logging_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/km-arc/go-entry/framework/logging"
)

func TestParseLevel(t *testing.T) {
	tests := []struct {
		raw    string
		want   zerolog.Level
		wantOK bool
	}{
		{"", zerolog.InfoLevel, false},
		{"debug", zerolog.DebugLevel, true},
		{" WARN ", zerolog.WarnLevel, true},
		{"warning", zerolog.WarnLevel, true},
		{"off", zerolog.Disabled, true},
		{"loud", zerolog.InfoLevel, false},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, ok := logging.ParseLevel(tt.raw)
			assert.Equal(t, tt.want, got)
			assert.Equal(t, tt.wantOK, ok)
		})
	}
}

func TestDefaultConfig(t *testing.T) {
	rt := logging.DefaultConfig(logging.ProfileRuntime)
	assert.Equal(t, zerolog.InfoLevel, rt.Level)
	assert.True(t, rt.Timestamp)

	tc := logging.DefaultConfig(logging.ProfileTest)
	assert.Equal(t, zerolog.DebugLevel, tc.Level)
	assert.False(t, tc.Timestamp)
}

func TestApplyEnv(t *testing.T) {
	t.Setenv(logging.EnvLogLevel, "error")
	t.Setenv(logging.EnvLogJSON, "true")
	t.Setenv(logging.EnvLogNoColor, "nope")

	cfg := logging.DefaultConfig(logging.ProfileRuntime)
	logging.ApplyEnv(&cfg)

	assert.Equal(t, zerolog.ErrorLevel, cfg.Level)
	assert.True(t, cfg.JSON)
	assert.False(t, cfg.NoColor, "malformed bool leaves the default")
}

func TestNew_JSONOutput(t *testing.T) {
	var buf bytes.Buffer
	log := logging.New(logging.Config{Level: zerolog.InfoLevel, JSON: true, Out: &buf})

	log.Debug().Msg("hidden")
	log.Info().Str("key", "value").Msg("shown")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "shown", entry["message"])
	assert.Equal(t, "value", entry["key"])
}

func TestNew_ConsoleOutput(t *testing.T) {
	var buf bytes.Buffer
	log := logging.New(logging.Config{Level: zerolog.InfoLevel, NoColor: true, Out: &buf})

	log.Warn().Msg("careful")
	assert.Contains(t, buf.String(), "careful")
	assert.Contains(t, buf.String(), "WRN")
}
