package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaultsAndFlags(t *testing.T) {
	cfg, err := loadConfig(&serveFlags{protos: []string{"a.proto"}})
	require.NoError(t, err)
	assert.Equal(t, ":50051", cfg.Addr)
	assert.Equal(t, []string{"a.proto"}, cfg.Protos)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadConfigFlagsOverrideFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "grpcwire.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
addr: ":7000"
protos:
  - from-file.proto
encoding: gzip
`), 0o644))

	cfg, err := loadConfig(&serveFlags{
		configPath: path,
		addr:       ":7001",
		protos:     []string{"from-flag.proto"},
		logLevel:   "debug",
	})
	require.NoError(t, err)
	assert.Equal(t, ":7001", cfg.Addr)
	assert.Equal(t, []string{"from-file.proto", "from-flag.proto"}, cfg.Protos)
	assert.Equal(t, "gzip", cfg.Encoding)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestLoadConfigRejectsEmpty(t *testing.T) {
	_, err := loadConfig(&serveFlags{})
	assert.Error(t, err)
}
