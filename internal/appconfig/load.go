package appconfig

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
	"gopkg.in/yaml.v3"
)

// Load reads configuration from the provided path. If path is empty, uses
// DefaultConfigPath. A missing file yields the defaults.
func Load(path string) (Config, error) {
	if path == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			return Config{}, err
		}
		path = defaultPath
	}

	cfg := DefaultConfig()

	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("yaml")
	v.SetDefault("config_version", cfg.ConfigVersion)
	v.SetDefault("session.drag_dead_zone", cfg.Session.DragDeadZone)
	v.SetDefault("session.double_click_millis", cfg.Session.DoubleClickMillis)
	v.SetDefault("session.double_click_distance", cfg.Session.DoubleClickDistance)
	v.SetDefault("session.min_box_size", cfg.Session.MinBoxSize)
	v.SetDefault("session.history_depth", cfg.Session.HistoryDepth)
	v.SetDefault("session.wheel_zoom_factor", cfg.Session.WheelZoomFactor)
	v.SetDefault("session.double_click_zoom", cfg.Session.DoubleClickZoom)
	v.SetDefault("session.scroll_fraction", cfg.Session.ScrollFraction)
	v.SetDefault("session.wheel_notch", cfg.Session.WheelNotch)
	v.SetDefault("session.transition_seconds", cfg.Session.TransitionSeconds)
	v.SetDefault("session.transition_ease", cfg.Session.TransitionEase)
	v.SetDefault("session.follow_playback", cfg.Session.FollowPlayback)
	v.SetDefault("session.min_playback_rate", cfg.Session.MinPlaybackRate)
	v.SetDefault("session.max_playback_rate", cfg.Session.MaxPlaybackRate)
	v.SetDefault("view.title", cfg.View.Title)
	v.SetDefault("view.width", cfg.View.Width)
	v.SetDefault("view.height", cfg.View.Height)
	v.SetDefault("view.tags", cfg.View.Tags)
	v.SetDefault("demo.sample_rate", cfg.Demo.SampleRate)
	v.SetDefault("demo.seconds", cfg.Demo.Seconds)
	v.SetDefault("demo.seed", cfg.Demo.Seed)
	v.SetDefault("demo.window_size", cfg.Demo.WindowSize)
	v.SetDefault("demo.hop", cfg.Demo.Hop)
	v.SetDefault("audio.enabled", cfg.Audio.Enabled)
	v.SetDefault("audio.output_rate", cfg.Audio.OutputRate)

	if _, err := os.Stat(path); err == nil {
		if err := v.ReadInConfig(); err != nil {
			if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
				return Config{}, err
			}
		}
		if !v.IsSet("config_version") {
			return Config{}, fmt.Errorf("config_version is required; expected %d", CurrentConfigVersion)
		}
		if v.GetInt("config_version") != CurrentConfigVersion {
			return Config{}, fmt.Errorf("unsupported config_version %d; expected %d", v.GetInt("config_version"), CurrentConfigVersion)
		}
	} else if !errors.Is(err, fs.ErrNotExist) {
		return Config{}, err
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks every section.
func (c Config) Validate() error {
	var errs []error
	if err := c.Session.Validate(); err != nil {
		errs = append(errs, fmt.Errorf("session: %w", err))
	}
	if c.View.Width <= 0 || c.View.Height <= 0 {
		errs = append(errs, fmt.Errorf("view size %dx%d must be positive", c.View.Width, c.View.Height))
	}
	if len(c.View.Tags) > 9 {
		errs = append(errs, fmt.Errorf("view.tags holds %d tags; at most 9 have hotkeys", len(c.View.Tags)))
	}
	if c.Demo.SampleRate <= 0 || c.Demo.Seconds <= 0 {
		errs = append(errs, fmt.Errorf("demo sample_rate and seconds must be positive"))
	}
	if c.Demo.WindowSize < 2 || c.Demo.Hop <= 0 {
		errs = append(errs, fmt.Errorf("demo window_size must be at least 2 and hop positive"))
	}
	if c.Audio.Enabled && c.Audio.OutputRate <= 0 {
		errs = append(errs, fmt.Errorf("audio.output_rate must be positive"))
	}
	return errors.Join(errs...)
}

// WriteDefault writes the default config to the target path.
func WriteDefault(path string, overwrite bool) (string, error) {
	if path == "" {
		defaultPath, err := DefaultConfigPath()
		if err != nil {
			return "", err
		}
		path = defaultPath
	}

	if !overwrite {
		if _, err := os.Stat(path); err == nil {
			return "", fmt.Errorf("config already exists at %s", path)
		}
	}

	data, err := yaml.Marshal(DefaultConfig())
	if err != nil {
		return "", err
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	if err := os.WriteFile(path, data, 0o600); err != nil {
		return "", err
	}
	return path, nil
}
