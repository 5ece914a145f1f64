package log

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"

	"github.com/bisegni/jframe/pkg/perrors"
)

func TestConfigureJSONFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "jframe.log")
	cfg := Config{Format: "json", Level: "debug", File: path}
	require.NoError(t, cfg.Configure())
	defer func() {
		def := DefaultConfig()
		require.NoError(t, def.Configure())
	}()

	require.Equal(t, log.DebugLevel, log.GetLevel())
	log.WithField("rows", 3).Debug("applied")

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	var entry map[string]interface{}
	require.NoError(t, json.Unmarshal(b, &entry))
	require.Equal(t, "applied", entry["msg"])
	require.Equal(t, float64(3), entry["rows"])
}

func TestConfigureInvalid(t *testing.T) {
	cfg := Config{Format: "xml"}
	require.True(t, perrors.HasCode(cfg.Configure(), perrors.InvalidConfiguration))

	cfg = Config{Level: "loud"}
	require.True(t, perrors.HasCode(cfg.Configure(), perrors.InvalidConfiguration))

	def := DefaultConfig()
	require.NoError(t, def.Configure())
	require.Equal(t, log.WarnLevel, log.GetLevel())
}
