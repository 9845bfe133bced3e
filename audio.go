package spectro

import (
	"errors"
	"fmt"
	"math"
)

// ErrInvalidSpeed is returned by SetSpeed for a value outside the offered
// speed options.
var ErrInvalidSpeed = errors.New("speed is not one of the offered options")

// PlaybackState is a snapshot of the audio controller.
// StartTime <= CurrentTime <= EndTime always holds.
type PlaybackState struct {
	CurrentTime float64
	StartTime   float64
	EndTime     float64
	Speed       float64
	Playing     bool
	Loop        bool
}

// MediaPlayer is the host media output. All calls are fire-and-forget
// requests; the player reports back through AudioEvent notifications
// delivered to AudioSync.Handle.
type MediaPlayer interface {
	Play(from, speed float64)
	Pause()
	Seek(t float64)
	SetSpeed(speed float64)
}

type nopPlayer struct{}

func (nopPlayer) Play(float64, float64) {}
func (nopPlayer) Pause()                {}
func (nopPlayer) Seek(float64)          {}
func (nopPlayer) SetSpeed(float64)      {}

// AudioEventKind identifies a media notification.
type AudioEventKind uint8

const (
	AudioPositionUpdated AudioEventKind = iota // the media reports a new position
	AudioStarted                               // the media started producing output
	AudioPaused                                // the media stopped producing output
	AudioEnded                                 // the media ran out of data
)

func (k AudioEventKind) String() string {
	switch k {
	case AudioPositionUpdated:
		return "position"
	case AudioStarted:
		return "started"
	case AudioPaused:
		return "paused"
	case AudioEnded:
		return "ended"
	default:
		return fmt.Sprintf("audio(%d)", uint8(k))
	}
}

// ParseAudioEventKind returns the AudioEventKind with the given name.
func ParseAudioEventKind(s string) (AudioEventKind, error) {
	for k := AudioPositionUpdated; k <= AudioEnded; k++ {
		if k.String() == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("unknown audio event %q", s)
}

// AudioEvent is a notification from the media player.
type AudioEvent struct {
	Kind AudioEventKind
	// Time is the reported position in recording seconds.
	Time float64
}

// PositionUpdated returns a position notification.
func PositionUpdated(t float64) AudioEvent {
	return AudioEvent{Kind: AudioPositionUpdated, Time: t}
}

// AudioSync owns the playback position, speed and loop flag of one session.
// The playable range follows the visible time interval.
type AudioSync struct {
	state  PlaybackState
	speeds []SpeedOption
	player MediaPlayer
}

// NewAudioSync creates a paused controller for the given playable range.
// A nil player drops every request.
func NewAudioSync(speeds []SpeedOption, span Interval, player MediaPlayer) *AudioSync {
	if player == nil {
		player = nopPlayer{}
	}
	span = span.Normalized()
	return &AudioSync{
		state: PlaybackState{
			CurrentTime: span.Min,
			StartTime:   span.Min,
			EndTime:     span.Max,
			Speed:       DefaultSpeed(speeds),
		},
		speeds: speeds,
		player: player,
	}
}

// State returns a snapshot of the playback state.
func (a *AudioSync) State() PlaybackState { return a.state }

// Speeds returns the offered speed options.
func (a *AudioSync) Speeds() []SpeedOption { return a.speeds }

// Play requests playback from the current position. Playback that already
// sits at the end of the range restarts from StartTime.
func (a *AudioSync) Play() bool {
	if a.state.Playing {
		return false
	}
	if a.state.CurrentTime >= a.state.EndTime {
		a.state.CurrentTime = a.state.StartTime
	}
	a.state.Playing = true
	a.player.Play(a.state.CurrentTime, a.state.Speed)
	return true
}

// Pause requests playback to stop at the current position.
func (a *AudioSync) Pause() bool {
	if !a.state.Playing {
		return false
	}
	a.state.Playing = false
	a.player.Pause()
	return true
}

// Toggle plays when paused and pauses when playing.
func (a *AudioSync) Toggle() bool {
	if a.state.Playing {
		return a.Pause()
	}
	return a.Play()
}

// Seek moves the position, clamped into [StartTime, EndTime].
func (a *AudioSync) Seek(t float64) {
	if math.IsNaN(t) {
		return
	}
	a.state.CurrentTime = a.span().Clamp(t)
	a.player.Seek(a.state.CurrentTime)
}

// ToggleLoop flips the loop flag and returns the new value.
func (a *AudioSync) ToggleLoop() bool {
	a.state.Loop = !a.state.Loop
	return a.state.Loop
}

// SetSpeed selects one of the offered speeds. Other values return
// ErrInvalidSpeed and leave the state unchanged.
func (a *AudioSync) SetSpeed(speed float64) error {
	if !hasSpeed(a.speeds, speed) {
		return fmt.Errorf("set speed %g: %w", speed, ErrInvalidSpeed)
	}
	a.state.Speed = speed
	a.player.SetSpeed(speed)
	return nil
}

// SetRange makes span the playable range. A position outside span is
// clamped to its nearest edge; playback continues from there.
func (a *AudioSync) SetRange(span Interval) {
	span = span.Normalized()
	a.state.StartTime = span.Min
	a.state.EndTime = span.Max
	if t := span.Clamp(a.state.CurrentTime); t != a.state.CurrentTime {
		a.state.CurrentTime = t
		if a.state.Playing {
			a.player.Seek(t)
		}
	}
}

// Handle applies a media notification. It reports whether the state changed.
func (a *AudioSync) Handle(ev AudioEvent) bool {
	before := a.state
	switch ev.Kind {
	case AudioPositionUpdated:
		if math.IsNaN(ev.Time) {
			return false
		}
		if a.state.Playing && ev.Time >= a.state.EndTime {
			a.reachEnd()
		} else {
			a.state.CurrentTime = a.span().Clamp(ev.Time)
		}
	case AudioStarted:
		a.state.Playing = true
	case AudioPaused:
		a.state.Playing = false
	case AudioEnded:
		if a.state.Playing {
			a.reachEnd()
		}
	}
	return a.state != before
}

func (a *AudioSync) reachEnd() {
	if a.state.Loop {
		a.state.CurrentTime = a.state.StartTime
		a.player.Seek(a.state.StartTime)
		return
	}
	a.state.CurrentTime = a.state.EndTime
	a.state.Playing = false
	a.player.Pause()
}

func (a *AudioSync) span() Interval {
	return Interval{Min: a.state.StartTime, Max: a.state.EndTime}
}
