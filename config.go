package spectro

import (
	"errors"
	"fmt"
	"time"

	"github.com/tanema/gween/ease"
)

// Config holds the tunable heuristics of a session. The zero value is not
// usable; start from DefaultConfig.
type Config struct {
	// DragDeadZone is the minimum pointer travel in pixels before a press
	// becomes a drag.
	DragDeadZone float64 `mapstructure:"drag_dead_zone" yaml:"drag_dead_zone"`
	// DoubleClickMillis is the longest gap between two clicks that still
	// counts as a double click.
	DoubleClickMillis int `mapstructure:"double_click_millis" yaml:"double_click_millis"`
	// DoubleClickDistance is the largest pointer distance in pixels between
	// the two clicks of a double click.
	DoubleClickDistance float64 `mapstructure:"double_click_distance" yaml:"double_click_distance"`
	// MinBoxSize is the minimum box side in pixels for a drawn annotation or
	// a zoom box to be accepted.
	MinBoxSize float64 `mapstructure:"min_box_size" yaml:"min_box_size"`

	HistoryDepth    int     `mapstructure:"history_depth" yaml:"history_depth"`
	WheelZoomFactor float64 `mapstructure:"wheel_zoom_factor" yaml:"wheel_zoom_factor"`
	DoubleClickZoom float64 `mapstructure:"double_click_zoom" yaml:"double_click_zoom"`
	// ScrollFraction is the fraction of the window shifted per wheel notch.
	ScrollFraction float64 `mapstructure:"scroll_fraction" yaml:"scroll_fraction"`
	// WheelNotch is the wheel delta that counts as one notch.
	WheelNotch float64 `mapstructure:"wheel_notch" yaml:"wheel_notch"`

	// TransitionSeconds animates the displayed window toward each committed
	// window. Zero disables animation.
	TransitionSeconds float64 `mapstructure:"transition_seconds" yaml:"transition_seconds"`
	TransitionEase    string  `mapstructure:"transition_ease" yaml:"transition_ease"`

	// FollowPlayback pages the window forward when the play cursor reaches
	// its right edge.
	FollowPlayback bool `mapstructure:"follow_playback" yaml:"follow_playback"`

	MinPlaybackRate int `mapstructure:"min_playback_rate" yaml:"min_playback_rate"`
	MaxPlaybackRate int `mapstructure:"max_playback_rate" yaml:"max_playback_rate"`
}

// DefaultConfig returns the default session configuration.
func DefaultConfig() Config {
	return Config{
		DragDeadZone:        4,
		DoubleClickMillis:   300,
		DoubleClickDistance: 6,
		MinBoxSize:          5,
		HistoryDepth:        defaultHistoryDepth,
		WheelZoomFactor:     1.2,
		DoubleClickZoom:     2,
		ScrollFraction:      0.1,
		WheelNotch:          1,
		TransitionSeconds:   0,
		TransitionEase:      "outQuad",
		FollowPlayback:      false,
		MinPlaybackRate:     3000,
		MaxPlaybackRate:     384000,
	}
}

// DoubleClickInterval returns DoubleClickMillis as a duration.
func (c Config) DoubleClickInterval() time.Duration {
	return time.Duration(c.DoubleClickMillis) * time.Millisecond
}

// Validate reports every invalid setting.
func (c Config) Validate() error {
	var errs []error
	if c.DragDeadZone < 0 {
		errs = append(errs, fmt.Errorf("drag_dead_zone must not be negative"))
	}
	if c.DoubleClickMillis < 0 {
		errs = append(errs, fmt.Errorf("double_click_millis must not be negative"))
	}
	if c.MinBoxSize < 0 {
		errs = append(errs, fmt.Errorf("min_box_size must not be negative"))
	}
	if c.HistoryDepth < 1 {
		errs = append(errs, fmt.Errorf("history_depth must be at least 1"))
	}
	if c.WheelZoomFactor <= 1 {
		errs = append(errs, fmt.Errorf("wheel_zoom_factor must be greater than 1"))
	}
	if c.DoubleClickZoom <= 1 {
		errs = append(errs, fmt.Errorf("double_click_zoom must be greater than 1"))
	}
	if c.ScrollFraction <= 0 || c.ScrollFraction > 1 {
		errs = append(errs, fmt.Errorf("scroll_fraction must be in (0, 1]"))
	}
	if c.WheelNotch <= 0 {
		errs = append(errs, fmt.Errorf("wheel_notch must be positive"))
	}
	if c.TransitionSeconds < 0 {
		errs = append(errs, fmt.Errorf("transition_seconds must not be negative"))
	}
	if _, ok := easings[c.TransitionEase]; !ok {
		errs = append(errs, fmt.Errorf("unknown transition_ease %q", c.TransitionEase))
	}
	if c.MinPlaybackRate <= 0 || c.MaxPlaybackRate < c.MinPlaybackRate {
		errs = append(errs, fmt.Errorf("playback rate range [%d, %d] is invalid", c.MinPlaybackRate, c.MaxPlaybackRate))
	}
	return errors.Join(errs...)
}

var easings = map[string]ease.TweenFunc{
	"linear":    ease.Linear,
	"inQuad":    ease.InQuad,
	"outQuad":   ease.OutQuad,
	"inOutQuad": ease.InOutQuad,
	"outCubic":  ease.OutCubic,
	"outExpo":   ease.OutExpo,
	"outSine":   ease.OutSine,
}

// easing returns the configured easing function, defaulting to OutQuad.
func (c Config) easing() ease.TweenFunc {
	if fn, ok := easings[c.TransitionEase]; ok {
		return fn
	}
	return ease.OutQuad
}
