package spectro

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"pkt.systems/pslog"
)

// fakeStore is an AnnotationStore without List, so the machine applies
// writes to its local set.
type fakeStore struct {
	next    int
	fail    error
	created []Window
	removed []AnnotationID
	tags    map[AnnotationID][]string
}

func (s *fakeStore) Create(_ context.Context, g Window) (Annotation, error) {
	if err := s.take(); err != nil {
		return Annotation{}, err
	}
	s.next++
	s.created = append(s.created, g)
	return Annotation{ID: AnnotationID(fmt.Sprintf("a%d", s.next)), Geometry: g}, nil
}

func (s *fakeStore) Remove(_ context.Context, id AnnotationID) error {
	if err := s.take(); err != nil {
		return err
	}
	s.removed = append(s.removed, id)
	return nil
}

func (s *fakeStore) AddTag(_ context.Context, id AnnotationID, tag string) (Annotation, error) {
	if err := s.take(); err != nil {
		return Annotation{}, err
	}
	s.tags[id] = append(s.tags[id], tag)
	return Annotation{ID: id, Tags: slices.Clone(s.tags[id])}, nil
}

func (s *fakeStore) RemoveTag(_ context.Context, id AnnotationID, tag string) (Annotation, error) {
	if err := s.take(); err != nil {
		return Annotation{}, err
	}
	s.tags[id] = slices.DeleteFunc(s.tags[id], func(t string) bool { return t == tag })
	return Annotation{ID: id, Tags: slices.Clone(s.tags[id])}, nil
}

func (s *fakeStore) take() error {
	if s.tags == nil {
		s.tags = make(map[AnnotationID][]string)
	}
	err := s.fail
	s.fail = nil
	return err
}

type logEntry struct {
	Level   string
	Message string
	Fields  map[string]any
}

type logCapture struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (c *logCapture) Write(p []byte) (int, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.buf.Write(p)
}

func (c *logCapture) Entries() []logEntry {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []logEntry
	for _, line := range strings.Split(strings.TrimSpace(c.buf.String()), "\n") {
		payload := map[string]any{}
		if err := json.Unmarshal([]byte(line), &payload); err != nil {
			continue
		}
		e := logEntry{Fields: payload}
		if v, ok := payload["level"].(string); ok {
			e.Level = v
		} else if v, ok := payload["lvl"].(string); ok {
			e.Level = v
		}
		if v, ok := payload["message"].(string); ok {
			e.Message = v
		} else if v, ok := payload["msg"].(string); ok {
			e.Message = v
		}
		out = append(out, e)
	}
	return out
}

func (c *logCapture) Has(levelPrefix, message string) bool {
	for _, e := range c.Entries() {
		if strings.HasPrefix(e.Level, levelPrefix) && e.Message == message {
			return true
		}
	}
	return false
}

// rig drives a machine through the translator the way a session does.
// The canvas is 600x800 over bounds [0, 60] s x [0, 8000] Hz, so one pixel
// is 0.1 s horizontally and 10 Hz vertically.
type rig struct {
	t     *testing.T
	ctx   context.Context
	logs  *logCapture
	m     *Machine
	store *fakeStore
	tr    Translator
	st    GestureState
	clock time.Duration
}

func newRig(t *testing.T, cfg Config) *rig {
	t.Helper()
	logs := &logCapture{}
	logger := pslog.NewWithOptions(logs, pslog.Options{
		Mode:          pslog.ModeStructured,
		NoColor:       true,
		VerboseFields: true,
		MinLevel:      pslog.DebugLevel,
	})
	store := &fakeStore{}
	vp := NewViewport(testBounds, testBounds, cfg)
	audio := NewAudioSync(SpeedOptions(16000, cfg.MinPlaybackRate, cfg.MaxPlaybackRate), vp.Window().Time, nil)
	m := NewMachine(vp, audio, store, cfg)
	m.SetCanvasSize(600, 800)
	t.Cleanup(m.Close)
	return &rig{
		t:     t,
		ctx:   pslog.ContextWithLogger(context.Background(), logger),
		logs:  logs,
		m:     m,
		store: store,
		tr:    NewTranslator(cfg, nil),
	}
}

func (r *rig) send(kind EventKind) Result {
	r.t.Helper()
	res, err := r.m.Dispatch(r.ctx, Event{Kind: kind})
	if err != nil {
		r.t.Fatalf("dispatch %s: %v", kind, err)
	}
	return res
}

func (r *rig) pointer(events ...PointerEvent) error {
	var errs []error
	for _, ev := range events {
		ev.Time = r.clock
		r.clock += 10 * time.Millisecond
		var intents []Intent
		r.st, intents = r.tr.Pointer(r.st, ev)
		for _, in := range intents {
			if _, err := r.m.Dispatch(r.ctx, Event{Kind: EventIntent, Intent: in}); err != nil {
				errs = append(errs, err)
			}
		}
	}
	return errors.Join(errs...)
}

func (r *rig) drag(x0, y0, x1, y1 float64) error {
	return r.pointer(
		pointer(PointerDown, x0, y0, 0),
		pointer(PointerMove, (x0+x1)/2, (y0+y1)/2, 0),
		pointer(PointerMove, x1, y1, 0),
		pointer(PointerUp, x1, y1, 0),
	)
}

func (r *rig) click(x, y float64) error {
	r.clock += time.Second
	return r.pointer(pointer(PointerDown, x, y, 0), pointer(PointerUp, x, y, 0))
}

func TestMachineDrawValidReleaseCreatesOnce(t *testing.T) {
	r := newRig(t, DefaultConfig())
	if res := r.send(EventDraw); res.Mode != ModeDrawing {
		t.Fatalf("mode = %s, want drawing", res.Mode)
	}
	if err := r.drag(100, 100, 200, 300); err != nil {
		t.Fatalf("drag: %v", err)
	}
	if r.m.Mode() != ModeIdle {
		t.Errorf("mode = %s, want idle", r.m.Mode())
	}
	if len(r.store.created) != 1 {
		t.Fatalf("creates = %d, want 1", len(r.store.created))
	}
	assertWindow(t, "created", r.store.created[0], win(10, 20, 5000, 7000))
	if len(r.m.Annotations()) != 1 {
		t.Errorf("annotations = %d, want 1", len(r.m.Annotations()))
	}
	if r.m.Viewport().Window() != testBounds {
		t.Errorf("drawing moved the window to %v", r.m.Viewport().Window())
	}
	if !r.logs.Has("info", "annotation created") {
		t.Error("missing annotation created log")
	}
}

func TestMachineDrawInvalidReleaseCreatesNothing(t *testing.T) {
	tests := []struct {
		name string
		run  func(r *rig) error
	}{
		{"zero area click", func(r *rig) error { return r.click(100, 100) }},
		{"thin box", func(r *rig) error { return r.drag(100, 100, 200, 102) }},
		{"outside bounds", func(r *rig) error { return r.drag(-50, -50, -10, -10) }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newRig(t, DefaultConfig())
			r.send(EventDraw)
			if err := tt.run(r); err != nil {
				t.Fatalf("gesture: %v", err)
			}
			if r.m.Mode() != ModeIdle {
				t.Errorf("mode = %s, want idle", r.m.Mode())
			}
			if len(r.store.created) != 0 {
				t.Errorf("creates = %d, want 0", len(r.store.created))
			}
		})
	}
}

func TestMachineDrawClampsToBounds(t *testing.T) {
	r := newRig(t, DefaultConfig())
	r.send(EventDraw)
	if err := r.drag(550, -20, 650, 100); err != nil {
		t.Fatalf("drag: %v", err)
	}
	if len(r.store.created) != 1 {
		t.Fatalf("creates = %d, want 1", len(r.store.created))
	}
	assertWindow(t, "clamped", r.store.created[0], win(55, 60, 7000, 8000))
}

func TestMachineCreateFailure(t *testing.T) {
	r := newRig(t, DefaultConfig())
	r.store.fail = errors.New("backend down")
	r.send(EventDraw)
	err := r.drag(100, 100, 200, 300)
	var ce *CollaboratorError
	if !errors.As(err, &ce) || ce.Op != "create" {
		t.Fatalf("err = %v, want create CollaboratorError", err)
	}
	if r.m.Mode() != ModeIdle {
		t.Errorf("mode = %s, want idle", r.m.Mode())
	}
	if len(r.m.Annotations()) != 0 {
		t.Errorf("annotations = %d after failed create", len(r.m.Annotations()))
	}
	if !r.logs.Has("warn", "annotation create failed") {
		t.Error("missing warn log for failed create")
	}
}

func TestMachineModeGuards(t *testing.T) {
	tests := []struct {
		name   string
		events []EventKind
		want   Mode
	}{
		{"draw from idle", []EventKind{EventDraw}, ModeDrawing},
		{"draw from selecting ignored", []EventKind{EventSelect, EventDraw}, ModeSelecting},
		{"delete from drawing ignored", []EventKind{EventDraw, EventDelete}, ModeDrawing},
		{"idle from deleting", []EventKind{EventDelete, EventIdle}, ModeIdle},
		{"select twice", []EventKind{EventSelect, EventSelect}, ModeSelecting},
		{"reset keeps mode", []EventKind{EventDraw, EventReset}, ModeDrawing},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := newRig(t, DefaultConfig())
			for _, k := range tt.events {
				r.send(k)
			}
			if r.m.Mode() != tt.want {
				t.Errorf("mode = %s, want %s", r.m.Mode(), tt.want)
			}
		})
	}
}

func seedAnnotations(r *rig) {
	r.m.SetAnnotations([]Annotation{
		{ID: "low", Geometry: win(10, 20, 1000, 3000)},
		{ID: "high", Geometry: win(30, 40, 5000, 7000)},
	})
}

func TestMachineSelectEditDelete(t *testing.T) {
	r := newRig(t, DefaultConfig())
	seedAnnotations(r)
	r.send(EventSelect)

	// Miss: stays selecting.
	if err := r.click(500, 50); err != nil {
		t.Fatal(err)
	}
	if r.m.Mode() != ModeSelecting {
		t.Fatalf("mode = %s, want selecting", r.m.Mode())
	}

	// (150, 600) is t=15 s, f=2000 Hz inside "low".
	if err := r.click(150, 600); err != nil {
		t.Fatal(err)
	}
	id, ok := r.m.Selected()
	if r.m.Mode() != ModeEditing || !ok || id != "low" {
		t.Fatalf("mode = %s, selected = %q", r.m.Mode(), id)
	}

	res, err := r.m.Dispatch(r.ctx, Event{Kind: EventAddTag, Tag: "call"})
	if err != nil {
		t.Fatalf("add tag: %v", err)
	}
	if res.Updated == nil || !slices.Equal(res.Updated.Tags, []string{"call"}) {
		t.Errorf("updated = %+v", res.Updated)
	}

	_, err = r.m.Dispatch(r.ctx, Event{Kind: EventIntent, Intent: Intent{Kind: IntentDelete}})
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if r.m.Mode() != ModeSelecting {
		t.Errorf("mode after delete = %s, want selecting", r.m.Mode())
	}
	if !slices.Equal(r.store.removed, []AnnotationID{"low"}) {
		t.Errorf("removed = %v", r.store.removed)
	}
	if len(r.m.Annotations()) != 1 {
		t.Errorf("annotations = %d, want 1", len(r.m.Annotations()))
	}
}

func TestMachineEditingDeleteFailureKeepsSelection(t *testing.T) {
	r := newRig(t, DefaultConfig())
	seedAnnotations(r)
	r.send(EventSelect)
	if err := r.click(150, 600); err != nil {
		t.Fatal(err)
	}
	r.store.fail = errors.New("locked")
	_, err := r.m.Dispatch(r.ctx, Event{Kind: EventIntent, Intent: Intent{Kind: IntentDelete}})
	var ce *CollaboratorError
	if !errors.As(err, &ce) || ce.ID != "low" {
		t.Fatalf("err = %v", err)
	}
	if r.m.Mode() != ModeEditing {
		t.Errorf("mode = %s, want editing", r.m.Mode())
	}
}

func TestMachineDeletingClick(t *testing.T) {
	r := newRig(t, DefaultConfig())
	seedAnnotations(r)
	r.send(EventDelete)
	if err := r.click(10, 10); err != nil {
		t.Fatal(err)
	}
	if r.m.Mode() != ModeDeleting || len(r.store.removed) != 0 {
		t.Fatalf("miss: mode = %s, removed = %v", r.m.Mode(), r.store.removed)
	}
	// (350, 200) is t=35 s, f=6000 Hz inside "high".
	if err := r.click(350, 200); err != nil {
		t.Fatal(err)
	}
	if r.m.Mode() != ModeIdle {
		t.Errorf("mode = %s, want idle", r.m.Mode())
	}
	if !slices.Equal(r.store.removed, []AnnotationID{"high"}) {
		t.Errorf("removed = %v", r.store.removed)
	}
}

func TestMachineTagEditRequiresSelection(t *testing.T) {
	r := newRig(t, DefaultConfig())
	seedAnnotations(r)
	_, err := r.m.Dispatch(r.ctx, Event{Kind: EventAddTag, Tag: "call"})
	if !errors.Is(err, ErrNoSelection) {
		t.Errorf("err = %v, want ErrNoSelection", err)
	}
	// An explicit id works in any mode.
	if _, err := r.m.Dispatch(r.ctx, Event{Kind: EventAddTag, Tag: "call", ID: "high"}); err != nil {
		t.Errorf("explicit id: %v", err)
	}
}

func TestMachineSetAnnotationsUnbindsMissingSelection(t *testing.T) {
	r := newRig(t, DefaultConfig())
	seedAnnotations(r)
	r.send(EventSelect)
	if err := r.click(150, 600); err != nil {
		t.Fatal(err)
	}
	r.m.SetAnnotations(nil)
	if _, ok := r.m.Selected(); ok || r.m.Mode() != ModeSelecting {
		t.Errorf("mode = %s, selected = %t", r.m.Mode(), ok)
	}
}

func TestMachineNavigationOnlyInIdle(t *testing.T) {
	r := newRig(t, DefaultConfig())
	r.m.Viewport().ZoomTo(win(20, 40, 2000, 6000))
	start := r.m.Viewport().Window()

	r.send(EventSelect)
	if err := r.drag(100, 100, 300, 100); err != nil {
		t.Fatal(err)
	}
	r.m.Dispatch(r.ctx, Event{Kind: EventIntent, Intent: Intent{Kind: IntentScroll, Scroll: ScrollState{DeltaY: 1}}})
	r.m.Dispatch(r.ctx, Event{Kind: EventIntent, Intent: Intent{Kind: IntentZoomTo, Factor: 2}})
	if r.m.Viewport().Window() != start {
		t.Fatalf("window moved outside idle: %v", r.m.Viewport().Window())
	}

	// Scrollbar shifts are honored in any mode.
	r.m.Dispatch(r.ctx, Event{Kind: EventShiftBy, Shift: Point{Time: 0.5}, Relative: true})
	assertWindow(t, "shift", r.m.Viewport().Window(), win(30, 50, 2000, 6000))
}

func TestMachineIdleDragPans(t *testing.T) {
	r := newRig(t, DefaultConfig())
	r.m.Viewport().ZoomTo(win(20, 40, 2000, 6000))
	// Window is 20 s over 600 px; dragging 150 px right reveals 5 s earlier.
	if err := r.drag(300, 400, 450, 400); err != nil {
		t.Fatal(err)
	}
	assertWindow(t, "panned", r.m.Viewport().Window(), win(15, 35, 2000, 6000))
	if r.m.Viewport().Dragging() {
		t.Error("drag still in progress after release")
	}
	if r.m.Viewport().History().Len() != 2 {
		t.Errorf("history = %d, want 2", r.m.Viewport().History().Len())
	}
}

func TestMachineZoomBox(t *testing.T) {
	r := newRig(t, DefaultConfig())
	r.send(EventEnableZooming)
	if r.m.Viewport().State() != ModeZooming {
		t.Fatalf("view mode = %s", r.m.Viewport().State())
	}
	if err := r.drag(100, 400, 300, 600); err != nil {
		t.Fatal(err)
	}
	assertWindow(t, "zoomed", r.m.Viewport().Window(), win(10, 30, 2000, 4000))
	if r.m.Draft().Started {
		t.Error("draft left behind after zoom")
	}
}

func TestMachineScrollAndDoubleClick(t *testing.T) {
	r := newRig(t, DefaultConfig())
	r.m.Viewport().ZoomTo(win(20, 40, 2000, 6000))

	r.m.Dispatch(r.ctx, Event{Kind: EventIntent, Intent: Intent{Kind: IntentScroll, Scroll: ScrollState{DeltaY: 1}}})
	assertWindow(t, "scroll time", r.m.Viewport().Window(), win(22, 42, 2000, 6000))

	r.m.Dispatch(r.ctx, Event{Kind: EventIntent, Intent: Intent{Kind: IntentScroll, Scroll: ScrollState{DeltaY: -1, ShiftKey: true}}})
	assertWindow(t, "scroll freq", r.m.Viewport().Window(), win(22, 42, 2400, 6400))

	// Center on t=30 s, f=4000 Hz at half the current size.
	at := r.m.Projection().ToPixel(Point{Time: 30, Freq: 4000})
	r.m.Dispatch(r.ctx, Event{Kind: EventIntent, Intent: Intent{Kind: IntentDoubleClickAt, At: at}})
	assertWindow(t, "double click", r.m.Viewport().Window(), win(25, 35, 3000, 5000))
}

func TestMachineWindowChangeClampsPlayback(t *testing.T) {
	r := newRig(t, DefaultConfig())
	r.m.Dispatch(r.ctx, Event{Kind: EventSeek, Time: 50})
	r.m.Viewport().ZoomTo(win(10, 20, 0, 8000))
	st := r.m.Audio().State()
	if st.CurrentTime != 20 || st.StartTime != 10 || st.EndTime != 20 {
		t.Errorf("playback = %+v, want current 20 in [10, 20]", st)
	}
}

func TestMachinePlayingViewMode(t *testing.T) {
	r := newRig(t, DefaultConfig())
	r.send(EventPlay)
	if r.m.Viewport().State() != ModePlaying {
		t.Fatalf("view mode = %s, want playing", r.m.Viewport().State())
	}
	r.send(EventDraw)
	if r.m.Viewport().State() != ModePanning {
		t.Errorf("view mode in drawing = %s, want panning", r.m.Viewport().State())
	}
	r.send(EventIdle)
	if r.m.Viewport().State() != ModePlaying {
		t.Errorf("view mode = %s, want playing", r.m.Viewport().State())
	}
	r.send(EventPause)
	if r.m.Viewport().State() != ModePanning {
		t.Errorf("view mode after pause = %s, want panning", r.m.Viewport().State())
	}
}

func TestMachineSetSpeedRejectsUnknown(t *testing.T) {
	r := newRig(t, DefaultConfig())
	_, err := r.m.Dispatch(r.ctx, Event{Kind: EventSetSpeed, Speed: 7})
	if !errors.Is(err, ErrInvalidSpeed) {
		t.Errorf("err = %v, want ErrInvalidSpeed", err)
	}
}

func TestMachineFollowPlayback(t *testing.T) {
	cfg := DefaultConfig()
	cfg.FollowPlayback = true
	r := newRig(t, cfg)
	r.m.Viewport().ZoomTo(win(0, 10, 0, 8000))
	r.send(EventPlay)
	r.m.Dispatch(r.ctx, Event{Kind: EventAudio, Audio: PositionUpdated(10)})
	assertWindow(t, "paged", r.m.Viewport().Window(), win(10, 20, 0, 8000))
	st := r.m.Audio().State()
	if !st.Playing || st.CurrentTime != 10 {
		t.Errorf("playback = %+v, want playing at 10", st)
	}
}

func TestMachineRedrawFlag(t *testing.T) {
	r := newRig(t, DefaultConfig())
	if res := r.send(EventDraw); !res.Redraw {
		t.Error("mode change did not request a redraw")
	}
	if res := r.send(EventDraw); res.Redraw {
		t.Error("ignored event requested a redraw")
	}
	if !r.logs.Has("debug", "event ignored") {
		t.Error("missing debug log for ignored event")
	}
}

func TestParseEventKind(t *testing.T) {
	for i := range eventNames {
		k := EventKind(i)
		got, err := ParseEventKind(k.String())
		if err != nil || got != k {
			t.Errorf("ParseEventKind(%q) = %v, %v", k.String(), got, err)
		}
	}
	if _, err := ParseEventKind("zoom"); err == nil {
		t.Error("expected error")
	}
}

func TestMachineModeChangeDropsPressInFlight(t *testing.T) {
	t.Run("idle during a draw drag", func(t *testing.T) {
		r := newRig(t, DefaultConfig())
		r.m.Viewport().PanTo(win(20, 40, 2000, 6000))
		before, history := r.m.Viewport().Window(), r.m.Viewport().History().Len()
		r.send(EventDraw)
		if err := r.pointer(pointer(PointerDown, 100, 100, 0), pointer(PointerMove, 200, 300, 0)); err != nil {
			t.Fatal(err)
		}
		r.send(EventIdle)
		if err := r.pointer(pointer(PointerMove, 300, 400, 0), pointer(PointerUp, 300, 400, 0)); err != nil {
			t.Fatal(err)
		}
		if got := r.m.Viewport().Window(); got != before {
			t.Errorf("window = %v, want %v", got, before)
		}
		if got := r.m.Viewport().History().Len(); got != history {
			t.Errorf("history = %d, want %d", got, history)
		}
		if len(r.store.created) != 0 || r.m.Draft().Started {
			t.Errorf("creates = %d, draft = %+v", len(r.store.created), r.m.Draft())
		}
		if !r.logs.Has("debug", "drag cancelled") {
			t.Error("missing drag cancelled log")
		}
	})

	t.Run("draw during an idle pan", func(t *testing.T) {
		r := newRig(t, DefaultConfig())
		r.m.Viewport().PanTo(win(20, 40, 2000, 6000))
		if err := r.pointer(pointer(PointerDown, 300, 400, 0), pointer(PointerMove, 200, 400, 0)); err != nil {
			t.Fatal(err)
		}
		panned := r.m.Viewport().Window()
		r.send(EventDraw)
		if err := r.pointer(pointer(PointerMove, 100, 400, 0), pointer(PointerUp, 100, 100, 0)); err != nil {
			t.Fatal(err)
		}
		if len(r.store.created) != 0 {
			t.Errorf("creates = %d, want 0", len(r.store.created))
		}
		if r.m.Mode() != ModeDrawing {
			t.Errorf("mode = %s, want drawing", r.m.Mode())
		}
		if got := r.m.Viewport().Window(); got != panned {
			t.Errorf("window = %v, want %v", got, panned)
		}
	})

	t.Run("next press is honored", func(t *testing.T) {
		r := newRig(t, DefaultConfig())
		r.send(EventDraw)
		if err := r.pointer(pointer(PointerDown, 100, 100, 0), pointer(PointerMove, 200, 300, 0)); err != nil {
			t.Fatal(err)
		}
		r.send(EventIdle)
		r.send(EventDraw)
		if err := r.drag(100, 100, 200, 300); err != nil {
			t.Fatal(err)
		}
		if len(r.store.created) != 1 {
			t.Fatalf("creates = %d, want 1", len(r.store.created))
		}
	})
}

func TestMachineCtrlShiftWheelZoomsTime(t *testing.T) {
	r := newRig(t, DefaultConfig())
	for _, in := range r.tr.Scroll(ScrollEvent{X: 300, Y: 400, DeltaY: -1, CtrlKey: true, ShiftKey: true}) {
		if _, err := r.m.Dispatch(r.ctx, Event{Kind: EventIntent, Intent: in}); err != nil {
			t.Fatal(err)
		}
	}
	assertWindow(t, "window", r.m.Viewport().Window(), win(5, 55, 0, 8000))
}

func TestMachineIgnoresPointerWithoutCanvas(t *testing.T) {
	r := newRig(t, DefaultConfig())
	r.m.SetCanvasSize(0, 0)
	r.send(EventDraw)
	if err := r.drag(100, 100, 200, 300); err != nil {
		t.Fatal(err)
	}
	if len(r.store.created) != 0 {
		t.Errorf("creates = %d, want 0", len(r.store.created))
	}
	if r.m.Mode() != ModeDrawing {
		t.Errorf("mode = %s, want drawing", r.m.Mode())
	}
	if !r.logs.Has("debug", "pointer intent ignored") {
		t.Error("missing pointer intent ignored log")
	}
}

func TestMachinePointerFollowsDisplayedWindow(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TransitionSeconds = 1
	cfg.TransitionEase = "linear"
	r := newRig(t, cfg)
	r.m.SetAnnotations([]Annotation{{ID: "early", Geometry: win(11, 13, 3000, 5000)}})
	r.m.Viewport().PanTo(win(20, 40, 0, 8000))
	r.m.Viewport().Update(0.5)
	// Halfway through the transition the canvas shows [10, 50] s, so
	// x = 30 is 12 s; against the committed window it would be 21 s.
	if got := r.m.Projection().Window; got != r.m.Viewport().DisplayWindow() {
		t.Fatalf("projection window = %v, want displayed %v", got, r.m.Viewport().DisplayWindow())
	}
	r.send(EventSelect)
	if err := r.click(30, 400); err != nil {
		t.Fatal(err)
	}
	if id, ok := r.m.Selected(); !ok || id != "early" {
		t.Errorf("selected = %q, %v; want early", id, ok)
	}
}
