package spectro

import (
	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// windowAnim holds the tweens easing the displayed window toward the
// committed one, one per interval edge.
type windowAnim struct {
	tweens [4]*gween.Tween
	done   [4]bool
}

// WindowChangeFunc is notified after the committed window changes.
type WindowChangeFunc func(from, to Window)

type windowListener struct {
	id uint32
	fn WindowChangeFunc
}

// Viewport owns the visible window, the recording bounds and the navigation
// history. Its drag interpretation is one of ModePanning, ModeZooming or
// ModePlaying.
type Viewport struct {
	window  Window
	bounds  Window
	history *History
	state   Mode
	// resume is the drag mode restored when playback stops.
	resume Mode

	dragging bool
	dragFrom Window

	listeners []windowListener
	nextID    uint32

	display    Window
	anim       *windowAnim
	animSecs   float32
	animEasing ease.TweenFunc
}

// NewViewport creates a viewport showing initial clamped to bounds.
func NewViewport(bounds, initial Window, cfg Config) *Viewport {
	w := Clamp(initial, bounds)
	return &Viewport{
		window:     w,
		bounds:     bounds,
		history:    NewHistory(cfg.HistoryDepth),
		state:      ModePanning,
		resume:     ModePanning,
		display:    w,
		animSecs:   float32(cfg.TransitionSeconds),
		animEasing: cfg.easing(),
	}
}

// Window returns the committed window.
func (v *Viewport) Window() Window { return v.window }

// Bounds returns the recording bounds.
func (v *Viewport) Bounds() Window { return v.bounds }

// State returns the current drag interpretation.
func (v *Viewport) State() Mode { return v.state }

// History returns the navigation history.
func (v *Viewport) History() *History { return v.history }

// DisplayWindow returns the window to draw. It equals Window unless an
// animated transition is running.
func (v *Viewport) DisplayWindow() Window {
	if v.anim == nil {
		return v.window
	}
	return v.display
}

// OnChange registers fn to run after every committed window change.
func (v *Viewport) OnChange(fn WindowChangeFunc) CallbackHandle {
	v.nextID++
	id := v.nextID
	v.listeners = append(v.listeners, windowListener{id: id, fn: fn})
	return CallbackHandle{remove: func() { v.removeListener(id) }}
}

func (v *Viewport) removeListener(id uint32) {
	for i := range v.listeners {
		if v.listeners[i].id == id {
			copy(v.listeners[i:], v.listeners[i+1:])
			v.listeners[len(v.listeners)-1] = windowListener{}
			v.listeners = v.listeners[:len(v.listeners)-1]
			return
		}
	}
}

// Reset shows the full bounds and clears the history. Reset cannot be
// undone with Back. It reports whether the window changed.
func (v *Viewport) Reset() bool {
	v.dragging = false
	v.history.Clear()
	return v.commit(v.bounds)
}

// Back restores the most recent history entry. When the history is empty it
// returns the current window and false.
func (v *Viewport) Back() (Window, bool) {
	prev, ok := v.history.Pop()
	if !ok {
		return v.window, false
	}
	v.commit(Clamp(prev, v.bounds))
	return v.window, true
}

// PanTo shows w, clamped to bounds, recording the current window in history.
func (v *Viewport) PanTo(w Window) bool {
	return v.push(Clamp(w, v.bounds))
}

// ShiftBy pans by delta, either absolute or as a fraction of the window size.
func (v *Viewport) ShiftBy(delta Point, relative bool) bool {
	return v.push(RelativeShift(v.bounds, v.window, delta, relative))
}

// PanBy pans by an absolute time/frequency delta.
func (v *Viewport) PanBy(deltaTime, deltaFreq float64) bool {
	return v.push(Pan(v.window, v.bounds, deltaTime, deltaFreq))
}

// ZoomBy scales the window around anchor. factor > 1 zooms in.
func (v *Viewport) ZoomBy(factor float64, anchor Point) bool {
	return v.push(Zoom(v.window, v.bounds, factor, anchor))
}

// ZoomTimeBy scales only the time axis around anchor.
func (v *Viewport) ZoomTimeBy(factor, anchor float64) bool {
	return v.push(ZoomTime(v.window, v.bounds, factor, anchor))
}

// ZoomTo shows box, clamped to bounds.
func (v *Viewport) ZoomTo(box Window) bool {
	return v.push(ZoomToBox(v.bounds, box))
}

// CenterOn shows a window of the current size divided by factor, centered
// on p. Used for double-click zoom.
func (v *Viewport) CenterOn(p Point, factor float64) bool {
	if !validFactor(factor) {
		return false
	}
	size := v.window.Extent()
	size.Time /= factor
	size.Freq /= factor
	return v.push(CenterOn(v.bounds, p, size))
}

// BeginDrag starts a continuous pan. The window at drag start is recorded
// in history by EndDrag, so a whole drag is one Back step.
func (v *Viewport) BeginDrag() {
	if v.dragging {
		return
	}
	v.dragging = true
	v.dragFrom = v.window
}

// Drag pans by a delta without recording history. It starts a drag if
// none is in progress.
func (v *Viewport) Drag(deltaTime, deltaFreq float64) bool {
	v.BeginDrag()
	return v.commit(Pan(v.window, v.bounds, deltaTime, deltaFreq))
}

// EndDrag finishes a drag. It reports whether the drag moved the window.
func (v *Viewport) EndDrag() bool {
	if !v.dragging {
		return false
	}
	v.dragging = false
	if v.window == v.dragFrom {
		return false
	}
	v.history.Push(v.dragFrom)
	return true
}

// Dragging reports whether a drag is in progress.
func (v *Viewport) Dragging() bool { return v.dragging }

// Page shifts the time axis by whole windows without recording history.
// Used to follow the play cursor.
func (v *Viewport) Page(windows float64) bool {
	return v.commit(Pan(v.window, v.bounds, windows*v.window.Time.Size(), 0))
}

// EnablePanning makes subsequent drags pan the window.
func (v *Viewport) EnablePanning() {
	v.setDragMode(ModePanning)
}

// EnableZooming makes subsequent drags define a zoom box.
func (v *Viewport) EnableZooming() {
	v.setDragMode(ModeZooming)
}

func (v *Viewport) setDragMode(m Mode) {
	if v.state == ModePlaying {
		v.resume = m
		return
	}
	v.state = m
	v.resume = m
}

// SetPlaying enters or leaves ModePlaying. Leaving restores the drag mode
// active before playback.
func (v *Viewport) SetPlaying(playing bool) {
	switch {
	case playing && v.state != ModePlaying:
		v.resume = v.state
		v.state = ModePlaying
	case !playing && v.state == ModePlaying:
		v.state = v.resume
	}
}

// Update advances the display transition by dt seconds.
func (v *Viewport) Update(dt float32) {
	if v.anim == nil {
		return
	}
	vals := [4]*float64{&v.display.Time.Min, &v.display.Time.Max, &v.display.Freq.Min, &v.display.Freq.Max}
	all := true
	for i, tw := range v.anim.tweens {
		if v.anim.done[i] {
			continue
		}
		val, done := tw.Update(dt)
		*vals[i] = float64(val)
		v.anim.done[i] = done
		all = all && done
	}
	if all {
		v.anim = nil
		v.display = v.window
	}
}

// Animating reports whether a display transition is running.
func (v *Viewport) Animating() bool {
	return v.anim != nil
}

func (v *Viewport) push(w Window) bool {
	if w == v.window {
		return false
	}
	v.history.Push(v.window)
	return v.commit(w)
}

func (v *Viewport) commit(w Window) bool {
	if w == v.window {
		return false
	}
	from := v.window
	v.window = w
	v.startTransition(from, w)
	for _, l := range v.listeners {
		l.fn(from, w)
	}
	return true
}

func (v *Viewport) startTransition(from, to Window) {
	if v.animSecs <= 0 {
		v.display = to
		return
	}
	start := from
	if v.anim != nil {
		start = v.display
	}
	d := v.animSecs
	v.display = start
	v.anim = &windowAnim{tweens: [4]*gween.Tween{
		gween.New(float32(start.Time.Min), float32(to.Time.Min), d, v.animEasing),
		gween.New(float32(start.Time.Max), float32(to.Time.Max), d, v.animEasing),
		gween.New(float32(start.Freq.Min), float32(to.Freq.Min), d, v.animEasing),
		gween.New(float32(start.Freq.Max), float32(to.Freq.Max), d, v.animEasing),
	}}
}
