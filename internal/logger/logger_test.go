package logger

import (
	"bytes"
	"context"
	"strings"
	"testing"

	zlog "github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitWithWriter_JSON(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter(&buf, "debug", "json")

	assert.Equal(t, "debug", Logger.GetLevel().String())
	assert.Equal(t, Logger.GetLevel(), zlog.Logger.GetLevel())

	Logger.Info().Str("k", "v").Msg("hello")
	out := strings.TrimSpace(buf.String())
	require.NotEmpty(t, out)
	assert.True(t, strings.HasPrefix(out, "{"), "expected json, got %q", out)
	assert.Contains(t, out, `"message":"hello"`)
	assert.Contains(t, out, `"k":"v"`)
}

func TestInitWithWriter_InvalidLevelFallsBackToInfo(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter(&buf, "not-a-level", "console")

	assert.Equal(t, "info", Logger.GetLevel().String())

	Logger.Debug().Msg("debug-should-not-print")
	Logger.Info().Msg("info-should-print")
	out := buf.String()
	assert.NotContains(t, out, "debug-should-not-print")
	assert.Contains(t, out, "info-should-print")
	assert.False(t, strings.HasPrefix(strings.TrimSpace(out), "{"))
}

func TestWithCtx_AddsRequestID(t *testing.T) {
	var buf bytes.Buffer
	InitWithWriter(&buf, "info", "json")

	ctx := WithRequestID(context.Background(), "req-123")
	assert.Equal(t, "req-123", RequestID(ctx))

	WithCtx(ctx).Info().Msg("tagged")
	assert.Contains(t, buf.String(), `"request_id":"req-123"`)

	buf.Reset()
	WithCtx(context.Background()).Info().Msg("untagged")
	assert.NotContains(t, buf.String(), "request_id")
}
