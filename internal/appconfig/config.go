package appconfig

import (
	"os"
	"path/filepath"

	"github.com/phanxgames/spectro"
)

// Config is the top-level application configuration.
type Config struct {
	ConfigVersion int            `mapstructure:"config_version" yaml:"config_version"`
	Session       spectro.Config `mapstructure:"session" yaml:"session"`
	View          ViewConfig     `mapstructure:"view" yaml:"view"`
	Demo          DemoConfig     `mapstructure:"demo" yaml:"demo"`
	Audio         AudioConfig    `mapstructure:"audio" yaml:"audio"`
}

// CurrentConfigVersion marks the supported config version.
const CurrentConfigVersion = 1

// ViewConfig sizes the viewer window.
type ViewConfig struct {
	Title  string `mapstructure:"title" yaml:"title"`
	Width  int    `mapstructure:"width" yaml:"width"`
	Height int    `mapstructure:"height" yaml:"height"`
	// Tags lists the tag names offered by the tag hotkeys 1-9.
	Tags []string `mapstructure:"tags" yaml:"tags"`
}

// DemoConfig shapes the synthetic recording used when no input is given.
type DemoConfig struct {
	SampleRate int     `mapstructure:"sample_rate" yaml:"sample_rate"`
	Seconds    float64 `mapstructure:"seconds" yaml:"seconds"`
	Seed       int64   `mapstructure:"seed" yaml:"seed"`
	WindowSize int     `mapstructure:"window_size" yaml:"window_size"`
	Hop        int     `mapstructure:"hop" yaml:"hop"`
}

// AudioConfig configures the output device.
type AudioConfig struct {
	Enabled    bool `mapstructure:"enabled" yaml:"enabled"`
	OutputRate int  `mapstructure:"output_rate" yaml:"output_rate"`
}

// DefaultConfig returns a config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		ConfigVersion: CurrentConfigVersion,
		Session:       spectro.DefaultConfig(),
		View: ViewConfig{
			Title:  "spectro",
			Width:  1024,
			Height: 512,
			Tags:   []string{"call", "noise", "chirp"},
		},
		Demo: DemoConfig{
			SampleRate: 22050,
			Seconds:    60,
			Seed:       1,
			WindowSize: 512,
			Hop:        256,
		},
		Audio: AudioConfig{
			Enabled:    true,
			OutputRate: 48000,
		},
	}
}

// DefaultConfigPath returns the standard config path.
func DefaultConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".spectro", "config.yaml"), nil
}
