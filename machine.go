package spectro

import (
	"context"
	"fmt"
	"slices"

	"pkt.systems/pslog"
)

// EventKind identifies an event dispatched to the Machine.
type EventKind uint8

const (
	EventDraw          EventKind = iota // enter drawing
	EventSelect                         // enter selecting
	EventDelete                         // enter deleting
	EventIdle                           // leave any annotation tool
	EventIntent                         // a gesture intent; see Event.Intent
	EventReset                          // show the full bounds
	EventBack                           // restore the previous window
	EventEnablePanning                  // drags pan
	EventEnableZooming                  // drags define a zoom box
	EventShiftBy                        // scrollbar shift; see Event.Shift
	EventPlay
	EventPause
	EventTogglePlay
	EventSeek // see Event.Time
	EventToggleLoop
	EventSetSpeed // see Event.Speed
	EventAudio    // media notification; see Event.Audio
	EventAddTag
	EventRemoveTag
)

var eventNames = [...]string{
	EventDraw:          "draw",
	EventSelect:        "select",
	EventDelete:        "delete",
	EventIdle:          "idle",
	EventIntent:        "intent",
	EventReset:         "reset",
	EventBack:          "back",
	EventEnablePanning: "enable_panning",
	EventEnableZooming: "enable_zooming",
	EventShiftBy:       "shift_by",
	EventPlay:          "play",
	EventPause:         "pause",
	EventTogglePlay:    "toggle_play",
	EventSeek:          "seek",
	EventToggleLoop:    "toggle_loop",
	EventSetSpeed:      "set_speed",
	EventAudio:         "audio",
	EventAddTag:        "add_tag",
	EventRemoveTag:     "remove_tag",
}

func (k EventKind) String() string {
	if int(k) < len(eventNames) {
		return eventNames[k]
	}
	return fmt.Sprintf("event(%d)", uint8(k))
}

// ParseEventKind returns the EventKind with the given name.
func ParseEventKind(s string) (EventKind, error) {
	for i, name := range eventNames {
		if name == s {
			return EventKind(i), nil
		}
	}
	return 0, fmt.Errorf("unknown event %q", s)
}

// Event is the single input type of Machine.Dispatch. Only the fields
// relevant to Kind are read.
type Event struct {
	Kind     EventKind
	Intent   Intent
	Shift    Point
	Relative bool
	Time     float64
	Speed    float64
	Audio    AudioEvent
	Tag      string
	// ID targets a tag edit at a specific annotation. When empty the
	// selected annotation is used.
	ID AnnotationID
}

// Result describes what a dispatched event did.
type Result struct {
	Mode Mode
	// Redraw is set when anything a frame depends on changed.
	Redraw  bool
	Created *Annotation
	Removed AnnotationID
	Updated *Annotation
}

// Machine is the annotation mode machine. It owns the top-level mode and
// composes the Viewport and AudioSync sub-machines. Navigation gestures
// reach the viewport only while the mode is ModeIdle.
type Machine struct {
	mode     Mode
	selected AnnotationID
	// draft is the box being dragged out in drawing or zoom mode.
	draft DragState
	// press is the press whose drag intents are being applied; dropped is a
	// press cancelled by a mode change, whose remaining intents are ignored.
	press   uint32
	dropped uint32

	vp    *Viewport
	audio *AudioSync
	store AnnotationStore

	annotations []Annotation
	cfg         Config
	width       float64
	height      float64
	onWindow    CallbackHandle
}

// NewMachine creates a machine in ModeIdle. The audio range follows the
// viewport window from now on; call Close to detach.
func NewMachine(vp *Viewport, audio *AudioSync, store AnnotationStore, cfg Config) *Machine {
	m := &Machine{
		mode:  ModeIdle,
		vp:    vp,
		audio: audio,
		store: store,
		cfg:   cfg,
	}
	audio.SetRange(vp.Window().Time)
	m.onWindow = vp.OnChange(func(_, to Window) {
		m.audio.SetRange(to.Time)
	})
	return m
}

// Close detaches the machine from its viewport.
func (m *Machine) Close() {
	m.onWindow.Remove()
}

// Mode returns the top-level mode.
func (m *Machine) Mode() Mode { return m.mode }

// Viewport returns the viewport sub-machine.
func (m *Machine) Viewport() *Viewport { return m.vp }

// Audio returns the audio sub-machine.
func (m *Machine) Audio() *AudioSync { return m.audio }

// Draft returns the box being dragged out, in canvas pixels.
func (m *Machine) Draft() DragState { return m.draft }

// Annotations returns the current annotation set.
func (m *Machine) Annotations() []Annotation { return m.annotations }

// Selected returns the annotation bound in ModeEditing.
func (m *Machine) Selected() (AnnotationID, bool) {
	return m.selected, m.selected != ""
}

// SetAnnotations replaces the annotation set used for hit tests and drawing.
func (m *Machine) SetAnnotations(list []Annotation) {
	m.annotations = slices.Clone(list)
	if m.selected != "" && m.indexOf(m.selected) < 0 {
		m.selected = ""
		if m.mode == ModeEditing {
			m.mode = ModeSelecting
		}
	}
}

// SetCanvasSize sets the pixel size pointer intents are measured in.
func (m *Machine) SetCanvasSize(width, height float64) {
	m.width = width
	m.height = height
}

// Projection maps canvas pixels to the displayed window, so pointer input
// lands where it is drawn while a transition runs.
func (m *Machine) Projection() Projection {
	return NewProjection(m.vp.DisplayWindow(), m.width, m.height)
}

type machineSnapshot struct {
	mode     Mode
	selected AnnotationID
	draft    DragState
	window   Window
	vpState  Mode
	audio    PlaybackState
}

func (m *Machine) snapshot() machineSnapshot {
	return machineSnapshot{
		mode:     m.mode,
		selected: m.selected,
		draft:    m.draft,
		window:   m.vp.Window(),
		vpState:  m.vp.State(),
		audio:    m.audio.State(),
	}
}

// Dispatch processes one event to completion. Collaborator failures are
// returned as *CollaboratorError; the mode and window are not rolled back.
func (m *Machine) Dispatch(ctx context.Context, ev Event) (Result, error) {
	log := pslog.Ctx(ctx)
	before := m.snapshot()
	var (
		res Result
		err error
	)
	switch ev.Kind {
	case EventDraw:
		m.transition(log, ev.Kind.String(), ModeDrawing, ModeIdle)
	case EventSelect:
		m.transition(log, ev.Kind.String(), ModeSelecting, ModeIdle, ModeEditing)
	case EventDelete:
		m.transition(log, ev.Kind.String(), ModeDeleting, ModeIdle)
	case EventIdle:
		m.transition(log, ev.Kind.String(), ModeIdle, ModeDrawing, ModeSelecting, ModeDeleting, ModeEditing)
	case EventIntent:
		res, err = m.handleIntent(ctx, ev.Intent)
	case EventReset:
		m.vp.Reset()
	case EventBack:
		m.vp.Back()
	case EventEnablePanning:
		if m.mode == ModeIdle {
			m.vp.EnablePanning()
		}
	case EventEnableZooming:
		if m.mode == ModeIdle {
			m.vp.EnableZooming()
		}
	case EventShiftBy:
		m.vp.ShiftBy(ev.Shift, ev.Relative)
	case EventPlay:
		m.audio.Play()
	case EventPause:
		m.audio.Pause()
	case EventTogglePlay:
		m.audio.Toggle()
	case EventSeek:
		m.audio.Seek(ev.Time)
	case EventToggleLoop:
		m.audio.ToggleLoop()
	case EventSetSpeed:
		err = m.audio.SetSpeed(ev.Speed)
	case EventAudio:
		m.handleAudio(ev.Audio)
	case EventAddTag:
		res, err = m.editTag(ctx, ev.ID, ev.Tag, true)
	case EventRemoveTag:
		res, err = m.editTag(ctx, ev.ID, ev.Tag, false)
	default:
		err = fmt.Errorf("dispatch: unknown event %v", ev.Kind)
	}
	m.vp.SetPlaying(m.audio.State().Playing && m.mode == ModeIdle)
	res.Mode = m.mode
	res.Redraw = res.Redraw || m.snapshot() != before
	return res, err
}

// transition moves to `to` if the current mode is one of from.
func (m *Machine) transition(log pslog.Logger, trigger string, to Mode, from ...Mode) bool {
	if !slices.Contains(from, m.mode) {
		log.Debug("event ignored", "event", trigger, "mode", m.mode.String())
		return false
	}
	m.setMode(log, trigger, to)
	return true
}

func (m *Machine) setMode(log pslog.Logger, trigger string, to Mode) {
	if to != m.mode && m.press != 0 && (m.draft.Started || m.vp.Dragging()) {
		m.dropped = m.press
		log.Debug("drag cancelled", "press", m.press)
	}
	// Any mode change discards an in-flight draft.
	m.draft = DragState{}
	if to == m.mode {
		return
	}
	log.Debug("mode transition", "from", m.mode.String(), "to", to.String(), "event", trigger)
	if m.mode == ModeIdle {
		m.vp.EndDrag()
	}
	m.mode = to
	if to != ModeEditing {
		m.selected = ""
	}
}

func (m *Machine) handleIntent(ctx context.Context, in Intent) (Result, error) {
	switch in.Kind {
	case IntentPanBy, IntentDragRelease, IntentClickAt, IntentDoubleClickAt, IntentZoomTo:
		// Pixel intents mean nothing until the canvas has a size.
		if !m.Projection().valid() {
			pslog.Ctx(ctx).Debug("pointer intent ignored", "intent", in.Kind.String(), "reason", "no canvas size")
			return Result{}, nil
		}
	}
	switch in.Kind {
	case IntentPanBy:
		if m.ownsDrag(in.Drag) {
			m.dragMove(in)
		}
	case IntentDragRelease:
		if !m.ownsDrag(in.Drag) {
			return Result{}, nil
		}
		m.press = 0
		return m.dragRelease(ctx, in)
	case IntentClickAt:
		return m.click(ctx, in, false)
	case IntentDoubleClickAt:
		return m.click(ctx, in, true)
	case IntentZoomTo:
		if m.mode == ModeIdle {
			at := m.Projection().ToDomain(in.At)
			if in.Scroll.ShiftKey {
				m.vp.ZoomTimeBy(in.Factor, at.Time)
			} else {
				m.vp.ZoomBy(in.Factor, at)
			}
		}
	case IntentScroll:
		if m.mode == ModeIdle {
			m.scroll(in.Scroll)
		}
	case IntentDelete:
		if m.mode == ModeEditing && in.Target.Column == "" {
			return m.removeSelected(ctx)
		}
	}
	return Result{}, nil
}

// ownsDrag reports whether a drag intent belongs to a press that was not
// cancelled by a mode change, and records it as the current press.
func (m *Machine) ownsDrag(d DragState) bool {
	if d.Press != 0 && d.Press == m.dropped {
		return false
	}
	m.press = d.Press
	return true
}

func (m *Machine) dragMove(in Intent) {
	switch m.mode {
	case ModeIdle:
		if m.vp.State() == ModeZooming {
			m.draft = in.Drag
			return
		}
		// Dragging content right reveals earlier time.
		d := m.Projection().DeltaToDomain(in.Delta)
		m.vp.Drag(-d.Time, -d.Freq)
	case ModeDrawing:
		m.draft = in.Drag
	}
}

func (m *Machine) dragRelease(ctx context.Context, in Intent) (Result, error) {
	m.draft = DragState{}
	switch m.mode {
	case ModeIdle:
		if m.vp.State() != ModeZooming {
			m.vp.EndDrag()
			return Result{}, nil
		}
		if ValidBox(in.Drag.Start, in.Drag.End, m.cfg.MinBoxSize) {
			m.vp.ZoomTo(m.Projection().RectToWindow(in.Drag.Start, in.Drag.End))
		}
	case ModeDrawing:
		return m.commitDraw(ctx, in.Drag)
	}
	return Result{}, nil
}

func (m *Machine) commitDraw(ctx context.Context, drag DragState) (Result, error) {
	log := pslog.Ctx(ctx)
	m.setMode(log, "drag_release", ModeIdle)
	if !ValidBox(drag.Start, drag.End, m.cfg.MinBoxSize) {
		log.Debug("draft discarded", "reason", "below minimum size")
		return Result{}, nil
	}
	box := m.Projection().RectToWindow(drag.Start, drag.End)
	bounds := m.vp.Bounds()
	if !box.Overlaps(bounds) {
		log.Debug("draft discarded", "reason", "outside bounds")
		return Result{}, nil
	}
	box = Clamp(box, bounds)
	a, err := m.store.Create(ctx, box)
	if err != nil {
		log.Warn("annotation create failed", "err", err)
		return Result{}, &CollaboratorError{Op: "create", Err: err}
	}
	log.Info("annotation created", "id", string(a.ID), "geometry", a.Geometry.String())
	m.refresh(ctx, func() { m.annotations = append(m.annotations, a) })
	return Result{Created: &a, Redraw: true}, nil
}

func (m *Machine) click(ctx context.Context, in Intent, double bool) (Result, error) {
	log := pslog.Ctx(ctx)
	p := m.Projection().ToDomain(in.At)
	switch m.mode {
	case ModeIdle:
		if double {
			m.vp.CenterOn(p, m.cfg.DoubleClickZoom)
		}
	case ModeDrawing:
		// A click is a zero-area draw.
		m.setMode(log, "click", ModeIdle)
	case ModeSelecting:
		if a, ok := HitTest(m.annotations, p); ok {
			m.setMode(log, "click", ModeEditing)
			m.selected = a.ID
		}
	case ModeDeleting:
		a, ok := HitTest(m.annotations, p)
		if !ok {
			return Result{}, nil
		}
		m.setMode(log, "click", ModeIdle)
		return m.remove(ctx, a.ID)
	}
	return Result{}, nil
}

func (m *Machine) removeSelected(ctx context.Context) (Result, error) {
	id := m.selected
	res, err := m.remove(ctx, id)
	if err != nil {
		return res, err
	}
	m.setMode(pslog.Ctx(ctx), "delete_key", ModeSelecting)
	return res, nil
}

func (m *Machine) remove(ctx context.Context, id AnnotationID) (Result, error) {
	log := pslog.Ctx(ctx)
	if err := m.store.Remove(ctx, id); err != nil {
		log.Warn("annotation remove failed", "id", string(id), "err", err)
		return Result{}, &CollaboratorError{Op: "remove", ID: id, Err: err}
	}
	log.Info("annotation removed", "id", string(id))
	m.refresh(ctx, func() {
		if i := m.indexOf(id); i >= 0 {
			m.annotations = slices.Delete(m.annotations, i, i+1)
		}
	})
	return Result{Removed: id, Redraw: true}, nil
}

func (m *Machine) editTag(ctx context.Context, id AnnotationID, tag string, add bool) (Result, error) {
	if id == "" {
		if m.mode != ModeEditing || m.selected == "" {
			return Result{}, ErrNoSelection
		}
		id = m.selected
	}
	op := "remove_tag"
	call := m.store.RemoveTag
	if add {
		op = "add_tag"
		call = m.store.AddTag
	}
	log := pslog.Ctx(ctx).With("id", string(id), "tag", tag)
	a, err := call(ctx, id, tag)
	if err != nil {
		log.Warn("annotation tag edit failed", "op", op, "err", err)
		return Result{}, &CollaboratorError{Op: op, ID: id, Err: err}
	}
	log.Info("annotation tags updated", "op", op)
	m.refresh(ctx, func() {
		if i := m.indexOf(a.ID); i >= 0 {
			m.annotations[i] = a
		}
	})
	return Result{Updated: &a, Redraw: true}, nil
}

// refresh reloads the annotation set from the store when it can list,
// otherwise applies the local update.
func (m *Machine) refresh(ctx context.Context, local func()) {
	lister, ok := m.store.(AnnotationLister)
	if !ok {
		local()
		return
	}
	list, err := lister.List(ctx)
	if err != nil {
		pslog.Ctx(ctx).Warn("annotation list failed", "err", err)
		local()
		return
	}
	m.SetAnnotations(list)
}

func (m *Machine) indexOf(id AnnotationID) int {
	return slices.IndexFunc(m.annotations, func(a Annotation) bool { return a.ID == id })
}

// scroll maps wheel motion to a relative shift. Shift+wheel moves the
// frequency axis, plain wheel the time axis.
func (m *Machine) scroll(s ScrollState) {
	frac := m.cfg.ScrollFraction / m.cfg.WheelNotch
	if s.ShiftKey {
		m.vp.ShiftBy(Point{Freq: -s.DeltaY * frac}, true)
		return
	}
	m.vp.ShiftBy(Point{Time: (s.DeltaY + s.DeltaX) * frac}, true)
}

func (m *Machine) handleAudio(ev AudioEvent) {
	st := m.audio.State()
	if m.cfg.FollowPlayback && st.Playing && ev.Kind == AudioPositionUpdated && ev.Time >= st.EndTime {
		if m.vp.Window().Time.Max < m.vp.Bounds().Time.Max {
			m.vp.Page(1)
		}
	}
	m.audio.Handle(ev)
}
