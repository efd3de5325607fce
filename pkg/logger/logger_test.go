package logger_test

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/catalogo-api/pkg/logger"
)

func TestNew_JSONConServicioYComponente(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Env: "production", Level: "warn", Service: "catalogo", Output: &buf})

	log.Info().Msg("descartado por nivel")
	assert.Zero(t, buf.Len())

	c := log.Component("recompute")
	c.Warn().Str("entry_id", "e1").Msg("reintento")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))
	assert.Equal(t, "catalogo", line["service"])
	assert.Equal(t, "recompute", line["component"])
	assert.Equal(t, "e1", line["entry_id"])
	assert.Equal(t, "warn", line["level"])
}

func TestNew_NivelInvalidoUsaInfo(t *testing.T) {
	var buf bytes.Buffer
	log := logger.New(logger.Config{Level: "ruidoso", Output: &buf})
	log.Debug().Msg("no")
	assert.Zero(t, buf.Len())
	log.Info().Msg("sí")
	assert.NotZero(t, buf.Len())
}
