package engine

import (
	"os"

	"github.com/charmbracelet/log"
	"github.com/pelletier/go-toml/v2"

	"github.com/bastion3d/bastion/engine/core"
)

type ApplicationConfig struct {
	// Window starting position x axis, if applicable.
	StartPosX uint32 `toml:"start_pos_x"`
	// Window starting position y axis, if applicable.
	StartPosY uint32 `toml:"start_pos_y"`
	// Window starting width, if applicable.
	StartWidth uint32 `toml:"start_width"`
	// Window starting height, if applicable.
	StartHeight uint32 `toml:"start_height"`
	// The application name used in windowing, if applicable.
	Name string `toml:"name"`

	// Number of frame slots the renderer cycles through. Values below 2
	// are rejected at startup.
	RingDepth uint32 `toml:"ring_depth"`
	// Fixed number of drawable instances provisioned per frame slot.
	ObjectCapacity uint32 `toml:"object_capacity"`
	// Present with vertical sync.
	VSync bool `toml:"vsync"`

	LogLevel string `toml:"log_level"`
}

// DefaultApplicationConfig mirrors what an absent or partial bastion.toml
// falls back to.
func DefaultApplicationConfig() *ApplicationConfig {
	return &ApplicationConfig{
		StartPosX:      100,
		StartPosY:      100,
		StartWidth:     1280,
		StartHeight:    720,
		Name:           "Bastion",
		RingDepth:      3,
		ObjectCapacity: 64,
		VSync:          true,
		LogLevel:       "debug",
	}
}

// LoadApplicationConfig reads a TOML config file, layering it over the
// defaults. A missing file is not an error; a malformed one is.
func LoadApplicationConfig(path string) (*ApplicationConfig, error) {
	config := DefaultApplicationConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			core.LogInfo("No config at %s, using defaults.", path)
			return config, nil
		}
		return nil, err
	}
	if err := toml.Unmarshal(data, config); err != nil {
		core.LogError("failed to parse %s: %s", path, err.Error())
		return nil, err
	}
	return config, nil
}

func (ac *ApplicationConfig) ParsedLogLevel() core.LogLevel {
	level, err := log.ParseLevel(ac.LogLevel)
	if err != nil {
		core.LogWarn("unknown log level %q, defaulting to info", ac.LogLevel)
		return core.InfoLevel
	}
	return level
}
