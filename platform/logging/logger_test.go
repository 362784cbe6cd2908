package logging

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNew_JSONAddsServiceAndEnv(t *testing.T) {
	var buf bytes.Buffer

	logger, err := New(Config{
		ServiceName: "storefront",
		Env:         "docker",
		Output:      &buf,
	})
	require.NoError(t, err)

	logger.Info("cart created", zap.String("cart_id", "c-1"))
	Sync(logger)

	var entry map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	require.Equal(t, "storefront", entry["service"])
	require.Equal(t, "docker", entry["env"])
	require.Equal(t, "cart created", entry["msg"])
	require.Equal(t, "c-1", entry["cart_id"])
	require.NotContains(t, entry, "caller")
}

func TestNew_LevelFiltersDebug(t *testing.T) {
	var buf bytes.Buffer

	logger, err := New(Config{ServiceName: "storefront", Env: "docker", Level: "warn", Output: &buf})
	require.NoError(t, err)

	logger.Info("skipped")
	require.Zero(t, buf.Len())

	logger.Warn("kept")
	require.Contains(t, buf.String(), "kept")
}

func TestNew_InvalidConfig(t *testing.T) {
	_, err := New(Config{Level: "verbose"})
	require.Error(t, err)

	_, err = New(Config{Format: "xml"})
	require.Error(t, err)
}
