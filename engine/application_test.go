package engine

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bastion3d/bastion/engine/core"
)

func TestLoadApplicationConfigMissingFileUsesDefaults(t *testing.T) {
	config, err := LoadApplicationConfig(filepath.Join(t.TempDir(), "nope.toml"))
	require.NoError(t, err)

	defaults := DefaultApplicationConfig()
	assert.Equal(t, defaults, config)
}

func TestLoadApplicationConfigOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bastion.toml")
	contents := `
name = "Override"
start_width = 1920
start_height = 1080
ring_depth = 2
object_capacity = 128
vsync = false
log_level = "warn"
`
	require.NoError(t, os.WriteFile(path, []byte(contents), 0o644))

	config, err := LoadApplicationConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "Override", config.Name)
	assert.Equal(t, uint32(1920), config.StartWidth)
	assert.Equal(t, uint32(1080), config.StartHeight)
	assert.Equal(t, uint32(2), config.RingDepth)
	assert.Equal(t, uint32(128), config.ObjectCapacity)
	assert.False(t, config.VSync)
	assert.Equal(t, core.WarnLevel, config.ParsedLogLevel())
}

func TestLoadApplicationConfigPartialKeepsDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bastion.toml")
	require.NoError(t, os.WriteFile(path, []byte(`name = "Partial"`), 0o644))

	config, err := LoadApplicationConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "Partial", config.Name)
	assert.Equal(t, uint32(3), config.RingDepth)
	assert.True(t, config.VSync)
}

func TestLoadApplicationConfigMalformed(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bastion.toml")
	require.NoError(t, os.WriteFile(path, []byte(`name = [broken`), 0o644))

	_, err := LoadApplicationConfig(path)
	assert.Error(t, err)
}

func TestParsedLogLevelUnknownFallsBackToInfo(t *testing.T) {
	config := DefaultApplicationConfig()
	config.LogLevel = "chatty"
	assert.Equal(t, core.InfoLevel, config.ParsedLogLevel())
}
