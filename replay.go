package spectro

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math"
)

// replayStep is a single action in a replay script.
type replayStep struct {
	Action string  `json:"action"`
	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
	FromX  float64 `json:"fromX,omitempty"`
	FromY  float64 `json:"fromY,omitempty"`
	ToX    float64 `json:"toX,omitempty"`
	ToY    float64 `json:"toY,omitempty"`
	Frames int     `json:"frames,omitempty"`

	// scroll
	DeltaX float64 `json:"deltaX,omitempty"`
	DeltaY float64 `json:"deltaY,omitempty"`
	Ctrl   bool    `json:"ctrl,omitempty"`
	Shift  bool    `json:"shift,omitempty"`

	// key
	Key    string `json:"key,omitempty"`
	Meta   bool   `json:"meta,omitempty"`
	Row    string `json:"row,omitempty"`
	Column string `json:"column,omitempty"`
	Value  string `json:"value,omitempty"`

	// event
	Event     string  `json:"event,omitempty"`
	Time      float64 `json:"time,omitempty"`
	Speed     float64 `json:"speed,omitempty"`
	Tag       string  `json:"tag,omitempty"`
	ID        string  `json:"id,omitempty"`
	ShiftTime float64 `json:"shiftTime,omitempty"`
	ShiftFreq float64 `json:"shiftFreq,omitempty"`
	Relative  bool    `json:"relative,omitempty"`
	Audio     string  `json:"audio,omitempty"`

	// ExpectError marks an event whose dispatch is expected to fail.
	ExpectError bool `json:"expectError,omitempty"`

	Expect *replayExpect `json:"expect,omitempty"`
}

// replayExpect is checked by an "expect" step. Nil fields are not checked.
type replayExpect struct {
	Mode        string      `json:"mode,omitempty"`
	ViewMode    string      `json:"viewMode,omitempty"`
	Time        *[2]float64 `json:"time,omitempty"`
	Freq        *[2]float64 `json:"freq,omitempty"`
	CurrentTime *float64    `json:"currentTime,omitempty"`
	Playing     *bool       `json:"playing,omitempty"`
	Loop        *bool       `json:"loop,omitempty"`
	Speed       *float64    `json:"speed,omitempty"`
	Annotations *int        `json:"annotations,omitempty"`
	History     *int        `json:"history,omitempty"`
	Selected    *bool       `json:"selected,omitempty"`
	Clipboard   *string     `json:"clipboard,omitempty"`
}

type replayScript struct {
	Steps []replayStep `json:"steps"`
}

// ReplayRunner sequences scripted input across ticks for headless runs
// and end-to-end tests. Attach it with Session.SetReplayRunner.
type ReplayRunner struct {
	steps     []replayStep
	cursor    int
	waitCount int
	done      bool
	failures  []error
}

// LoadReplayScript parses a JSON replay script.
func LoadReplayScript(jsonData []byte) (*ReplayRunner, error) {
	var script replayScript
	if err := json.Unmarshal(jsonData, &script); err != nil {
		return nil, fmt.Errorf("parse replay script: %w", err)
	}
	if len(script.Steps) == 0 {
		return nil, fmt.Errorf("parse replay script: no steps")
	}
	for i, st := range script.Steps {
		if err := st.validate(); err != nil {
			return nil, fmt.Errorf("parse replay script: step %d: %w", i, err)
		}
	}
	return &ReplayRunner{steps: script.Steps}, nil
}

func (st replayStep) validate() error {
	switch st.Action {
	case "press", "move", "release", "click", "drag", "scroll", "key", "tick", "wait":
		return nil
	case "event":
		if _, err := ParseEventKind(st.Event); err != nil {
			return err
		}
		if st.Event == EventAudio.String() {
			if _, err := ParseAudioEventKind(st.Audio); err != nil {
				return err
			}
		}
		return nil
	case "expect":
		if st.Expect == nil {
			return errors.New("expect step without expectations")
		}
		return nil
	}
	return fmt.Errorf("unknown action %q", st.Action)
}

// SetReplayRunner attaches runner; its next step runs at the start of each
// Tick.
func (s *Session) SetReplayRunner(runner *ReplayRunner) {
	s.runner = runner
}

// Done reports whether every step has run.
func (r *ReplayRunner) Done() bool {
	return r.done
}

// Err returns the failed expectations and unexpected dispatch errors.
func (r *ReplayRunner) Err() error {
	return errors.Join(r.failures...)
}

func (r *ReplayRunner) fail(err error) {
	r.failures = append(r.failures, fmt.Errorf("step %d: %w", r.cursor-1, err))
}

// step advances the runner by one tick.
func (r *ReplayRunner) step(ctx context.Context, s *Session) {
	if r.done {
		return
	}
	// Injected input drains before the next step runs.
	if len(s.injectQueue) > 0 {
		return
	}
	if r.waitCount > 0 {
		r.waitCount--
		return
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return
	}

	st := r.steps[r.cursor]
	r.cursor++

	switch st.Action {
	case "press":
		s.InjectPress(st.X, st.Y)
	case "move":
		s.InjectMove(st.X, st.Y)
	case "release":
		s.InjectRelease(st.X, st.Y)
	case "click":
		s.InjectClick(st.X, st.Y)
	case "drag":
		s.InjectDrag(st.FromX, st.FromY, st.ToX, st.ToY, st.Frames)
	case "scroll":
		s.InjectScroll(ScrollEvent{X: st.X, Y: st.Y, DeltaX: st.DeltaX, DeltaY: st.DeltaY, CtrlKey: st.Ctrl, ShiftKey: st.Shift})
	case "key":
		s.InjectKey(KeyEvent{
			Key:     st.Key,
			CtrlKey: st.Ctrl,
			MetaKey: st.Meta,
			Target:  CellTarget{Row: st.Row, Column: st.Column, Value: st.Value},
		})
	case "event":
		r.dispatch(ctx, s, st)
	case "expect":
		if err := st.Expect.check(s); err != nil {
			r.fail(err)
		}
	case "tick", "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1 // this tick counts as one
		}
	}

	if r.cursor >= len(r.steps) && r.waitCount == 0 && len(s.injectQueue) == 0 {
		r.done = true
	}
}

func (r *ReplayRunner) dispatch(ctx context.Context, s *Session, st replayStep) {
	kind, _ := ParseEventKind(st.Event)
	ev := Event{
		Kind:     kind,
		Shift:    Point{Time: st.ShiftTime, Freq: st.ShiftFreq},
		Relative: st.Relative,
		Time:     st.Time,
		Speed:    st.Speed,
		Tag:      st.Tag,
		ID:       AnnotationID(st.ID),
	}
	if kind == EventAudio {
		ak, _ := ParseAudioEventKind(st.Audio)
		ev.Audio = AudioEvent{Kind: ak, Time: st.Time}
	}
	_, err := s.Send(ctx, ev)
	switch {
	case err != nil && !st.ExpectError:
		r.fail(err)
	case err == nil && st.ExpectError:
		r.fail(fmt.Errorf("event %s: expected an error", st.Event))
	}
}

const replayTolerance = 1e-6

func (e *replayExpect) check(s *Session) error {
	var errs []error
	m := s.Machine()
	vp := s.Viewport()
	st := s.Audio().State()
	w := vp.Window()
	if e.Mode != "" && m.Mode().String() != e.Mode {
		errs = append(errs, fmt.Errorf("mode = %s, want %s", m.Mode(), e.Mode))
	}
	if e.ViewMode != "" && vp.State().String() != e.ViewMode {
		errs = append(errs, fmt.Errorf("view mode = %s, want %s", vp.State(), e.ViewMode))
	}
	if e.Time != nil && !intervalNear(w.Time, *e.Time) {
		errs = append(errs, fmt.Errorf("time = %v, want %v", w.Time, *e.Time))
	}
	if e.Freq != nil && !intervalNear(w.Freq, *e.Freq) {
		errs = append(errs, fmt.Errorf("freq = %v, want %v", w.Freq, *e.Freq))
	}
	if e.CurrentTime != nil && math.Abs(st.CurrentTime-*e.CurrentTime) > replayTolerance {
		errs = append(errs, fmt.Errorf("current time = %g, want %g", st.CurrentTime, *e.CurrentTime))
	}
	if e.Playing != nil && st.Playing != *e.Playing {
		errs = append(errs, fmt.Errorf("playing = %t, want %t", st.Playing, *e.Playing))
	}
	if e.Loop != nil && st.Loop != *e.Loop {
		errs = append(errs, fmt.Errorf("loop = %t, want %t", st.Loop, *e.Loop))
	}
	if e.Speed != nil && math.Abs(st.Speed-*e.Speed) > replayTolerance {
		errs = append(errs, fmt.Errorf("speed = %g, want %g", st.Speed, *e.Speed))
	}
	if e.Annotations != nil && len(m.Annotations()) != *e.Annotations {
		errs = append(errs, fmt.Errorf("annotations = %d, want %d", len(m.Annotations()), *e.Annotations))
	}
	if e.History != nil && vp.History().Len() != *e.History {
		errs = append(errs, fmt.Errorf("history = %d, want %d", vp.History().Len(), *e.History))
	}
	if e.Selected != nil {
		if _, ok := m.Selected(); ok != *e.Selected {
			errs = append(errs, fmt.Errorf("selected = %t, want %t", ok, *e.Selected))
		}
	}
	if e.Clipboard != nil {
		text, err := s.Clipboard().ReadText()
		if err != nil {
			errs = append(errs, err)
		} else if text != *e.Clipboard {
			errs = append(errs, fmt.Errorf("clipboard = %q, want %q", text, *e.Clipboard))
		}
	}
	return errors.Join(errs...)
}

func intervalNear(i Interval, want [2]float64) bool {
	return math.Abs(i.Min-want[0]) <= replayTolerance && math.Abs(i.Max-want[1]) <= replayTolerance
}

// Replay runs runner against s until it finishes or maxTicks pass, ticking
// with dt seconds. It returns the runner's failures, tick errors and a
// timeout error.
func Replay(ctx context.Context, s *Session, runner *ReplayRunner, dt float32, maxTicks int) error {
	s.SetReplayRunner(runner)
	defer s.SetReplayRunner(nil)
	var errs []error
	for i := 0; i < maxTicks && !runner.Done(); i++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := s.Tick(ctx, dt); err != nil {
			errs = append(errs, fmt.Errorf("tick %d: %w", i, err))
		}
	}
	if !runner.Done() {
		errs = append(errs, fmt.Errorf("replay did not finish within %d ticks", maxTicks))
	}
	errs = append(errs, runner.Err())
	return errors.Join(errs...)
}
