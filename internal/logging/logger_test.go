package logging

import (
	"bytes"
	"context"
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
		{"trace", zerolog.TraceLevel},
		{"DEBUG", zerolog.DebugLevel},
		{" warn ", zerolog.WarnLevel},
		{"warning", zerolog.WarnLevel},
		{"error", zerolog.ErrorLevel},
		{"off", zerolog.Disabled},
		{"", zerolog.InfoLevel},
		{"verbose", zerolog.InfoLevel},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLevel(tt.in))
		})
	}
}

func TestTruncateURL(t *testing.T) {
	assert.Equal(t, "https://example.com", TruncateURL("https://example.com", 60))
	assert.Equal(t, "https://e...", TruncateURL("https://example.com/long/path", 12))
	assert.Equal(t, "abcdef", TruncateURL("abcdef", 3))
}

func TestNew_JSONOutputCarriesComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: zerolog.DebugLevel, Format: "json", Output: &buf})

	ctx := WithComponent(WithContext(context.Background(), logger), "scheduler")
	FromContext(ctx).Debug().Msg("batch done")

	out := buf.String()
	require.NotEmpty(t, out)
	assert.Contains(t, out, `"component":"scheduler"`)
	assert.Contains(t, out, `"message":"batch done"`)
}

func TestFromContext_WithoutLoggerIsNoop(t *testing.T) {
	logger := FromContext(context.Background())
	require.NotNil(t, logger)
	logger.Info().Msg("dropped")
}

func TestValidLevel(t *testing.T) {
	assert.True(t, ValidLevel("debug"))
	assert.True(t, ValidLevel(" WARN "))
	assert.False(t, ValidLevel("verbose"))
	assert.False(t, ValidLevel(""))
}
