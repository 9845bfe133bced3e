package spectro

import (
	"context"
	"errors"
	"fmt"
	"time"

	"pkt.systems/pslog"
)

// SessionOptions configures NewSession. Zero fields take defaults.
type SessionOptions struct {
	Config Config
	// Store receives annotation writes. Required.
	Store AnnotationStore
	// Player receives playback requests. Nil drops them.
	Player MediaPlayer
	// Clipboard defaults to a session-scoped MemoryClipboard.
	Clipboard Clipboard
	// Initial is the first visible window. Nil shows the full bounds.
	Initial *Window
	// Cells lists the editable columns. Nil registers only the tags column.
	Cells *CellRegistry
	// Width and Height give the canvas size in pixels.
	Width, Height float64
}

// Session owns every component of one open recording: the gesture
// translator, the mode machine with its viewport and audio sub-machines,
// the cell registry and the clipboard. It is single-threaded; hosts call it
// from one goroutine.
type Session struct {
	cfg        Config
	recording  Recording
	translator Translator
	gesture    GestureState
	machine    *Machine
	cells      *CellRegistry
	clipboard  Clipboard

	// clock advances with Tick and timestamps injected pointer events.
	clock       time.Duration
	injectQueue []syntheticEvent
	runner      *ReplayRunner
	redraw      bool
}

// NewSession opens a session for rec.
func NewSession(ctx context.Context, rec Recording, opts SessionOptions) (*Session, error) {
	if err := rec.Validate(); err != nil {
		return nil, err
	}
	cfg := opts.Config
	if cfg == (Config{}) {
		cfg = DefaultConfig()
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("session config: %w", err)
	}
	if opts.Store == nil {
		return nil, errors.New("session: annotation store is required")
	}
	if opts.Width <= 0 || opts.Height <= 0 {
		return nil, fmt.Errorf("session: canvas size %gx%g must be positive", opts.Width, opts.Height)
	}

	bounds := rec.Bounds()
	initial := bounds
	if opts.Initial != nil {
		initial = *opts.Initial
	}
	speeds := SpeedOptions(rec.SampleRate, cfg.MinPlaybackRate, cfg.MaxPlaybackRate)
	vp := NewViewport(bounds, initial, cfg)
	audio := NewAudioSync(speeds, vp.Window().Time, opts.Player)

	s := &Session{
		cfg:       cfg,
		recording: rec,
		machine:   NewMachine(vp, audio, opts.Store, cfg),
		cells:     opts.Cells,
		clipboard: opts.Clipboard,
		redraw:    true,
	}
	if s.clipboard == nil {
		s.clipboard = &MemoryClipboard{}
	}
	if s.cells == nil {
		s.cells = NewCellRegistry()
		s.cells.Register("tags", TagsCell(s.Send))
	}
	s.translator = NewTranslator(cfg, s.cells.Columns())
	s.machine.SetCanvasSize(opts.Width, opts.Height)

	if lister, ok := opts.Store.(AnnotationLister); ok {
		list, err := lister.List(ctx)
		if err != nil {
			return nil, fmt.Errorf("session: load annotations: %w", err)
		}
		s.machine.SetAnnotations(list)
	}

	pslog.Ctx(ctx).Info("session opened",
		"sample_rate", rec.SampleRate,
		"duration", rec.Duration,
		"speeds", len(speeds),
		"annotations", len(s.machine.Annotations()),
	)
	return s, nil
}

// Close releases the session's listeners.
func (s *Session) Close() {
	s.machine.Close()
}

func (s *Session) Config() Config { return s.cfg }

func (s *Session) Recording() Recording { return s.recording }

func (s *Session) Machine() *Machine { return s.machine }

func (s *Session) Viewport() *Viewport { return s.machine.Viewport() }

func (s *Session) Audio() *AudioSync { return s.machine.Audio() }

func (s *Session) Cells() *CellRegistry { return s.cells }

func (s *Session) Clipboard() Clipboard { return s.clipboard }

// Gesture returns the translator state threaded between pointer events.
func (s *Session) Gesture() GestureState { return s.gesture }

// RegisterCell adds an editable column and refreshes the translator's
// allow-list.
func (s *Session) RegisterCell(column string, h CellHandler) {
	s.cells.Register(column, h)
	s.translator = NewTranslator(s.cfg, s.cells.Columns())
}

// SetCanvasSize updates the canvas size pointer events are measured in.
// Pointer input is ignored while either side is not positive.
func (s *Session) SetCanvasSize(width, height float64) {
	s.machine.SetCanvasSize(width, height)
	s.redraw = true
}

// Send dispatches ev to the mode machine. A mode change drops the press in
// progress, so the rest of that drag has no effect.
func (s *Session) Send(ctx context.Context, ev Event) (Result, error) {
	before := s.machine.Mode()
	res, err := s.machine.Dispatch(ctx, ev)
	if s.machine.Mode() != before {
		s.gesture = s.translator.Cancel(s.gesture)
	}
	if res.Redraw {
		s.redraw = true
	}
	return res, err
}

// HandlePointer translates a pointer event and dispatches its intents.
func (s *Session) HandlePointer(ctx context.Context, ev PointerEvent) error {
	var intents []Intent
	s.gesture, intents = s.translator.Pointer(s.gesture, ev)
	return s.dispatchIntents(ctx, intents)
}

// HandleScroll translates a wheel event and dispatches its intents.
func (s *Session) HandleScroll(ctx context.Context, ev ScrollEvent) error {
	return s.dispatchIntents(ctx, s.translator.Scroll(ev))
}

// HandleKey translates a keyboard event. Intents aimed at a cell run
// through the cell registry and clipboard; canvas intents go to the
// machine. A shortcut aimed at a column that is not editable returns
// ErrNotEditable.
func (s *Session) HandleKey(ctx context.Context, ev KeyEvent) error {
	intents := s.translator.Key(ev)
	if len(intents) == 0 {
		if ev.Target.Column != "" && shortcut(ev) != IntentNone {
			return fmt.Errorf("column %q: %w", ev.Target.Column, ErrNotEditable)
		}
		return nil
	}
	var errs []error
	for _, in := range intents {
		if in.Target.Column == "" {
			if _, err := s.Send(ctx, Event{Kind: EventIntent, Intent: in}); err != nil {
				errs = append(errs, err)
			}
			continue
		}
		if err := s.applyCell(ctx, in); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func (s *Session) applyCell(ctx context.Context, in Intent) error {
	switch in.Kind {
	case IntentCopy:
		return s.clipboard.WriteText(in.Target.Value)
	case IntentPaste:
		text, err := s.clipboard.ReadText()
		if err != nil {
			return fmt.Errorf("read clipboard: %w", err)
		}
		err = s.cells.Paste(ctx, in.Target, text)
		s.redraw = true
		return err
	case IntentDelete:
		err := s.cells.Clear(ctx, in.Target)
		s.redraw = true
		return err
	}
	return nil
}

// HandleAudio delivers a media notification.
func (s *Session) HandleAudio(ctx context.Context, ev AudioEvent) error {
	_, err := s.Send(ctx, Event{Kind: EventAudio, Audio: ev})
	return err
}

func (s *Session) dispatchIntents(ctx context.Context, intents []Intent) error {
	var errs []error
	for _, in := range intents {
		if _, err := s.Send(ctx, Event{Kind: EventIntent, Intent: in}); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Tick advances the session by dt seconds: it steps an attached replay
// runner, consumes one injected event and advances display transitions.
// While audio plays or a transition runs every tick requests a redraw.
func (s *Session) Tick(ctx context.Context, dt float32) error {
	s.clock += time.Duration(float64(dt) * float64(time.Second))
	if s.runner != nil {
		s.runner.step(ctx, s)
	}
	err := s.processInjected(ctx)
	vp := s.Viewport()
	animating := vp.Animating()
	vp.Update(dt)
	if animating || s.Audio().State().Playing {
		s.redraw = true
	}
	return err
}

// TakeRedraw reports whether the state changed since the last call and
// clears the flag.
func (s *Session) TakeRedraw() bool {
	r := s.redraw
	s.redraw = false
	return r
}

// Frame returns a snapshot for the draw callback.
func (s *Session) Frame() Frame {
	m := s.machine
	vp := m.Viewport()
	sel, _ := m.Selected()
	p := m.Projection()
	return Frame{
		Window:      vp.DisplayWindow(),
		Bounds:      vp.Bounds(),
		Annotations: m.Annotations(),
		Drag:        m.Draft(),
		Mode:        m.Mode(),
		ViewMode:    vp.State(),
		Selected:    sel,
		Playback:    m.Audio().State(),
		Width:       p.Width,
		Height:      p.Height,
	}
}
