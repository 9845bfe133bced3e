package spectro

import (
	"fmt"
	"math"
)

// Interval is a closed [Min, Max] range on one axis. Both the time axis
// (seconds) and the frequency axis (Hz) use it.
type Interval struct {
	Min, Max float64
}

// Size returns Max - Min.
func (i Interval) Size() float64 {
	return i.Max - i.Min
}

// Center returns the midpoint of the interval.
func (i Interval) Center() float64 {
	return (i.Min + i.Max) / 2
}

// Contains reports whether v lies inside the interval. Endpoints are inside.
func (i Interval) Contains(v float64) bool {
	return v >= i.Min && v <= i.Max
}

// Clamp limits v to the interval.
func (i Interval) Clamp(v float64) float64 {
	return math.Max(i.Min, math.Min(v, i.Max))
}

// Normalized returns the interval with Min and Max swapped if they are out of order.
func (i Interval) Normalized() Interval {
	if i.Min > i.Max {
		return Interval{Min: i.Max, Max: i.Min}
	}
	return i
}

func (i Interval) String() string {
	return fmt.Sprintf("[%g, %g]", i.Min, i.Max)
}

// Window is a rectangle in time/frequency space. It describes both the
// currently visible region of a spectrogram and the full extent of a
// recording (its bounds).
type Window struct {
	Time Interval
	Freq Interval
}

// Contains reports whether p lies inside the window. Edges are inside.
func (w Window) Contains(p Point) bool {
	return w.Time.Contains(p.Time) && w.Freq.Contains(p.Freq)
}

// Covers reports whether o lies entirely inside w.
func (w Window) Covers(o Window) bool {
	return o.Time.Min >= w.Time.Min && o.Time.Max <= w.Time.Max &&
		o.Freq.Min >= w.Freq.Min && o.Freq.Max <= w.Freq.Max
}

// Overlaps reports whether w and o share an area. Touching edges do not
// overlap.
func (w Window) Overlaps(o Window) bool {
	return w.Time.Min < o.Time.Max && o.Time.Min < w.Time.Max &&
		w.Freq.Min < o.Freq.Max && o.Freq.Min < w.Freq.Max
}

// Center returns the midpoint of the window.
func (w Window) Center() Point {
	return Point{Time: w.Time.Center(), Freq: w.Freq.Center()}
}

// Extent returns the window's size on both axes.
func (w Window) Extent() Extent {
	return Extent{Time: w.Time.Size(), Freq: w.Freq.Size()}
}

// Normalized returns the window with both intervals in order.
func (w Window) Normalized() Window {
	return Window{Time: w.Time.Normalized(), Freq: w.Freq.Normalized()}
}

func (w Window) String() string {
	return fmt.Sprintf("time=%v freq=%v", w.Time, w.Freq)
}

// Point is a location in time/frequency space.
type Point struct {
	Time, Freq float64
}

// Extent is a window size on both axes.
type Extent struct {
	Time, Freq float64
}

// Vec2 is a canvas-space (pixel) position or offset. The origin is the
// top-left corner with Y increasing downward.
type Vec2 struct {
	X, Y float64
}

// Rect is an axis-aligned pixel rectangle.
type Rect struct {
	X, Y, Width, Height float64
}

// Contains reports whether the point (x, y) lies inside the rectangle.
// Points on the edge are considered inside.
func (r Rect) Contains(x, y float64) bool {
	return x >= r.X && x <= r.X+r.Width &&
		y >= r.Y && y <= r.Y+r.Height
}

// Recording is the immutable description of an opened recording as supplied
// by the recording/task provider.
type Recording struct {
	SampleRate   int
	Duration     float64
	ChannelCount int
}

// Bounds returns the full time/frequency extent of the recording: time from
// zero to the duration, frequency from zero to the Nyquist frequency.
func (r Recording) Bounds() Window {
	return Window{
		Time: Interval{Min: 0, Max: r.Duration},
		Freq: Interval{Min: 0, Max: float64(r.SampleRate) / 2},
	}
}

// Validate reports whether the recording can seed a session.
func (r Recording) Validate() error {
	if r.SampleRate <= 0 {
		return fmt.Errorf("recording: sample rate must be positive, got %d", r.SampleRate)
	}
	if r.Duration <= 0 || math.IsNaN(r.Duration) || math.IsInf(r.Duration, 0) {
		return fmt.Errorf("recording: duration must be positive, got %g", r.Duration)
	}
	return nil
}

// Mode names an interaction state. The annotation machine uses Idle,
// Drawing, Selecting, Editing and Deleting; the viewport sub-machine uses
// Panning, Zooming and Playing.
type Mode uint8

const (
	ModeIdle      Mode = iota // no annotation tool active; navigation gestures honored
	ModePanning               // drags pan the window
	ModeZooming               // drags define a box to zoom into
	ModeDrawing               // drags define a new bounding box annotation
	ModeSelecting             // clicks pick an annotation for editing
	ModeEditing               // an annotation is bound for tag edits
	ModeDeleting              // clicks remove the annotation under the pointer
	ModePlaying               // audio is playing; drags pan
)

func (m Mode) String() string {
	switch m {
	case ModeIdle:
		return "idle"
	case ModePanning:
		return "panning"
	case ModeZooming:
		return "zooming"
	case ModeDrawing:
		return "drawing"
	case ModeSelecting:
		return "selecting"
	case ModeEditing:
		return "editing"
	case ModeDeleting:
		return "deleting"
	case ModePlaying:
		return "playing"
	default:
		return fmt.Sprintf("mode(%d)", uint8(m))
	}
}

// ParseMode returns the Mode with the given name.
func ParseMode(s string) (Mode, error) {
	for m := ModeIdle; m <= ModePlaying; m++ {
		if m.String() == s {
			return m, nil
		}
	}
	return ModeIdle, fmt.Errorf("unknown mode %q", s)
}

// MouseButton identifies a mouse button.
type MouseButton uint8

const (
	MouseButtonLeft   MouseButton = iota // primary (left) mouse button
	MouseButtonRight                     // secondary (right) mouse button
	MouseButtonMiddle                    // middle mouse button (scroll wheel click)
)

// KeyModifiers is a bitmask of keyboard modifier keys.
// Values can be combined with bitwise OR (e.g. ModShift | ModCtrl).
type KeyModifiers uint8

const (
	ModShift KeyModifiers = 1 << iota // Shift key
	ModCtrl                           // Control key
	ModAlt                            // Alt / Option key
	ModMeta                           // Meta / Command / Windows key
)

// CallbackHandle allows removing a registered callback.
type CallbackHandle struct {
	remove func()
}

// Remove unregisters the callback so it no longer fires. Removing twice is
// harmless.
func (h CallbackHandle) Remove() {
	if h.remove != nil {
		h.remove()
	}
}
