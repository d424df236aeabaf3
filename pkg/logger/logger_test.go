package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProductionHandlerWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(newHandler("production", &buf))

	log.Info("payment recorded", slog.String("payment_id", "pay-1"), Err(errors.New("boom")))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	assert.Equal(t, "payment recorded", entry["msg"])
	assert.Equal(t, "pay-1", entry["payment_id"])
	assert.Equal(t, "boom", entry["error"])
}

func TestDevelopmentHandlerIsColored(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(newHandler("development", &buf))

	log.Debug("seeding fixtures")
	assert.Contains(t, buf.String(), "seeding fixtures")
}

func TestDefaultLoggerUsableBeforeSetup(t *testing.T) {
	assert.NotPanics(t, func() { Info("hello") })
}
