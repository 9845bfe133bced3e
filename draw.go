package spectro

import "slices"

// Frame is an immutable snapshot of everything a draw callback needs.
// Slices are copies; mutating them does not affect the session.
type Frame struct {
	// Window is the displayed window. It differs from the committed window
	// only while an animated transition runs.
	Window      Window
	Bounds      Window
	Annotations []Annotation
	// Drag is the box being dragged out in canvas pixels.
	Drag     DragState
	Mode     Mode
	ViewMode Mode
	Selected AnnotationID
	Playback PlaybackState
	Width    float64
	Height   float64
}

// Projection returns the pixel mapping of the frame's window.
func (f Frame) Projection() Projection {
	return NewProjection(f.Window, f.Width, f.Height)
}

// DrawFunc renders a frame into a host rendering context. It must not
// retain or mutate the frame.
type DrawFunc[C any] func(rc C, f Frame)

// Dispatcher invokes a DrawFunc once per render tick when the state has
// changed since the last draw.
type Dispatcher[C any] struct {
	draw   DrawFunc[C]
	dirty  bool
	frames int
}

// NewDispatcher creates a dispatcher. The first frame is always drawn.
func NewDispatcher[C any](fn DrawFunc[C]) *Dispatcher[C] {
	return &Dispatcher[C]{draw: fn, dirty: true}
}

// Invalidate marks the state as changed.
func (d *Dispatcher[C]) Invalidate() { d.dirty = true }

// Dirty reports whether a draw is pending.
func (d *Dispatcher[C]) Dirty() bool { return d.dirty }

// Frames returns how many times the callback has run.
func (d *Dispatcher[C]) Frames() int { return d.frames }

// Draw runs the callback unconditionally.
func (d *Dispatcher[C]) Draw(rc C, f Frame) {
	d.dirty = false
	if d.draw == nil {
		return
	}
	d.frames++
	d.draw(rc, f.clone())
}

// DrawIfDirty runs the callback only if the state changed. It reports
// whether it drew.
func (d *Dispatcher[C]) DrawIfDirty(rc C, f Frame) bool {
	if !d.dirty {
		return false
	}
	d.Draw(rc, f)
	return true
}

func (f Frame) clone() Frame {
	f.Annotations = slices.Clone(f.Annotations)
	for i := range f.Annotations {
		f.Annotations[i].Tags = slices.Clone(f.Annotations[i].Tags)
	}
	return f
}
