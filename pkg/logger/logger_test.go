package logger_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/recepcion-activa/pkg/logger"
)

func TestLogger_JSONConComponente(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Env: "production", Level: "info", Output: &buf}).WithComponent("facturas")

	log.Debug().Msg("no se emite")
	log.Info().Str("numero", "2024-A-00001").Msg("factura creada")

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "facturas", entry["component"])
	assert.Equal(t, "2024-A-00001", entry["numero"])
	assert.Equal(t, "info", entry["level"])
}

func TestLogger_Nop(t *testing.T) {
	assert.NotPanics(t, func() { logger.Nop().WithComponent("x").Error().Msg("descartado") })
}
