package logging

import (
	"bytes"
	"context"
	"testing"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitWritesJSONAtLevel(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "info", Format: "json", Output: &buf})
	t.Cleanup(func() { Init(Config{Level: "info"}) })

	L().Debug().Msg("hidden")
	L().Info().Str("movie", "Inception").Msg("booked")

	lines := bytes.Split(bytes.TrimSpace(buf.Bytes()), []byte("\n"))
	require.Len(t, lines, 1)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(lines[0], &entry))
	assert.Equal(t, "info", entry["level"])
	assert.Equal(t, "booked", entry["message"])
	assert.Equal(t, "Inception", entry["movie"])
	assert.Contains(t, entry, "time")
}

func TestCtxFallsBackToGlobal(t *testing.T) {
	var buf bytes.Buffer
	Init(Config{Level: "debug", Output: &buf})
	t.Cleanup(func() { Init(Config{Level: "info"}) })

	Ctx(context.Background()).Info().Msg("global")
	assert.Contains(t, buf.String(), `"message":"global"`)

	var scoped bytes.Buffer
	ctx := WithContext(context.Background(), zerolog.New(&scoped).With().Str("request_id", "r-1").Logger())
	Ctx(ctx).Info().Msg("scoped")
	assert.Contains(t, scoped.String(), `"request_id":"r-1"`)
	assert.NotContains(t, buf.String(), "scoped")
}

func TestParseLevel(t *testing.T) {
	assert.Equal(t, zerolog.WarnLevel, parseLevel("WARNING"))
	assert.Equal(t, zerolog.TraceLevel, parseLevel("trace"))
	assert.Equal(t, zerolog.InfoLevel, parseLevel("bogus"))
}
