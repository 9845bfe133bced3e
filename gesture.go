package spectro

import (
	"math"
	"strings"
	"time"
)

// --- Raw events ---

// PointerKind distinguishes raw pointer events.
type PointerKind uint8

const (
	PointerDown PointerKind = iota // a button was pressed
	PointerMove                    // the pointer moved
	PointerUp                      // the button was released
)

// PointerEvent is a raw pointer event in canvas pixels. Only the fields
// listed are read; anything else the host runtime reports is ignored.
type PointerEvent struct {
	Kind      PointerKind
	X, Y      float64
	Button    MouseButton
	Modifiers KeyModifiers
	// Time is the event timestamp relative to any fixed origin.
	Time time.Duration
}

// ScrollEvent is a raw wheel event. X and Y locate the pointer in canvas
// pixels and anchor zooming.
type ScrollEvent struct {
	X, Y     float64
	DeltaX   float64
	DeltaY   float64
	CtrlKey  bool
	ShiftKey bool
}

// ScrollState is the transient per-event part of a wheel event.
type ScrollState struct {
	DeltaX   float64
	DeltaY   float64
	CtrlKey  bool
	ShiftKey bool
}

// KeyEvent is a raw keyboard event aimed at an interaction surface.
type KeyEvent struct {
	Key     string
	CtrlKey bool
	MetaKey bool
	Target  CellTarget
}

// CellTarget identifies the surface a key event was aimed at: a cell of a
// row in some column, and its current value. The zero value is the canvas.
type CellTarget struct {
	Row    string
	Column string
	Value  string
}

// --- Intents ---

// IntentKind identifies an abstract user action.
type IntentKind uint8

const (
	IntentNone          IntentKind = iota
	IntentPanBy                    // drag movement; Delta holds the pixel offset since the last move
	IntentDragRelease              // a drag ended; Drag holds start and end
	IntentZoomTo                   // zoom by Factor around At
	IntentClickAt                  // single click at At
	IntentDoubleClickAt            // second click of a double click at At
	IntentScroll                   // wheel scroll at At
	IntentCopy                     // copy Target.Value
	IntentPaste                    // paste into Target
	IntentDelete                   // clear Target
)

func (k IntentKind) String() string {
	switch k {
	case IntentPanBy:
		return "PAN_BY"
	case IntentDragRelease:
		return "DRAG_RELEASE"
	case IntentZoomTo:
		return "ZOOM_TO"
	case IntentClickAt:
		return "CLICK_AT"
	case IntentDoubleClickAt:
		return "DOUBLE_CLICK_AT"
	case IntentScroll:
		return "SCROLL"
	case IntentCopy:
		return "COPY"
	case IntentPaste:
		return "PASTE"
	case IntentDelete:
		return "DELETE"
	default:
		return "NONE"
	}
}

// Intent is an abstract action produced by the Translator.
type Intent struct {
	Kind      IntentKind
	At        Vec2
	Delta     Vec2
	Factor    float64
	Drag      DragState
	Scroll    ScrollState
	Target    CellTarget
	Modifiers KeyModifiers
}

// DragState is the raw pixel extent of the current press. Pressed means
// Start is set; Started means the pointer left the dead zone and the press
// became a drag. Press numbers presses from 1 so consumers can tell the
// intents of one press from the next; 0 means unnumbered.
type DragState struct {
	Pressed bool
	Started bool
	Start   Vec2
	End     Vec2
	Button  MouseButton
	Press   uint32
}

// GestureState is the explicit memory a Translator threads between events.
type GestureState struct {
	Drag      DragState
	presses   uint32
	lastClick clickRecord
}

type clickRecord struct {
	valid bool
	at    Vec2
	time  time.Duration
}

// Translator maps raw pointer, scroll and keyboard events to intents. It
// keeps no state of its own; callers pass the GestureState returned by the
// previous call.
type Translator struct {
	deadZone      float64
	clickInterval time.Duration
	clickDistance float64
	wheelFactor   float64
	editable      map[string]bool
}

// NewTranslator creates a translator. Keyboard intents are produced only
// for targets whose column is in editableColumns.
func NewTranslator(cfg Config, editableColumns []string) Translator {
	cols := make(map[string]bool, len(editableColumns))
	for _, c := range editableColumns {
		cols[c] = true
	}
	return Translator{
		deadZone:      cfg.DragDeadZone,
		clickInterval: cfg.DoubleClickInterval(),
		clickDistance: cfg.DoubleClickDistance,
		wheelFactor:   cfg.WheelZoomFactor,
		editable:      cols,
	}
}

// Editable reports whether column accepts keyboard intents.
func (t Translator) Editable(column string) bool {
	return t.editable[column]
}

// Pointer runs the press/drag/release state machine for one pointer event.
func (t Translator) Pointer(st GestureState, ev PointerEvent) (GestureState, []Intent) {
	pos := Vec2{X: ev.X, Y: ev.Y}
	d := &st.Drag
	switch ev.Kind {
	case PointerDown:
		st.presses++
		*d = DragState{Pressed: true, Start: pos, End: pos, Button: ev.Button, Press: st.presses}
		return st, nil

	case PointerMove:
		if !d.Pressed {
			return st, nil
		}
		last := d.End
		if !d.Started {
			if distance(pos, d.Start) <= t.deadZone {
				return st, nil
			}
			d.Started = true
			last = d.Start
		}
		d.End = pos
		return st, []Intent{{
			Kind:      IntentPanBy,
			At:        pos,
			Delta:     Vec2{X: pos.X - last.X, Y: pos.Y - last.Y},
			Drag:      *d,
			Modifiers: ev.Modifiers,
		}}

	case PointerUp:
		if !d.Pressed {
			return st, nil
		}
		drag := *d
		last := drag.End
		drag.End = pos
		*d = DragState{}
		if drag.Started || distance(pos, drag.Start) > t.deadZone {
			drag.Started = true
			st.lastClick = clickRecord{}
			var out []Intent
			// The release point may lie past the last reported move.
			if pos != last {
				out = append(out, Intent{
					Kind:      IntentPanBy,
					At:        pos,
					Delta:     Vec2{X: pos.X - last.X, Y: pos.Y - last.Y},
					Drag:      drag,
					Modifiers: ev.Modifiers,
				})
			}
			out = append(out, Intent{Kind: IntentDragRelease, At: pos, Drag: drag, Modifiers: ev.Modifiers})
			return st, out
		}
		kind := IntentClickAt
		if t.isDoubleClick(st.lastClick, pos, ev.Time) {
			kind = IntentDoubleClickAt
			st.lastClick = clickRecord{}
		} else {
			st.lastClick = clickRecord{valid: true, at: pos, time: ev.Time}
		}
		return st, []Intent{{Kind: kind, At: pos, Drag: drag, Modifiers: ev.Modifiers}}
	}
	return st, nil
}

func (t Translator) isDoubleClick(last clickRecord, pos Vec2, now time.Duration) bool {
	if !last.valid {
		return false
	}
	elapsed := now - last.time
	if elapsed < 0 || elapsed > t.clickInterval {
		return false
	}
	return distance(pos, last.at) <= t.clickDistance
}

// Cancel drops any in-flight press without producing intents.
func (t Translator) Cancel(st GestureState) GestureState {
	st.Drag = DragState{}
	return st
}

// Scroll maps a wheel event. Ctrl+wheel zooms around the pointer, with
// shift held only the time axis; any other wheel motion scrolls.
func (t Translator) Scroll(ev ScrollEvent) []Intent {
	if ev.DeltaX == 0 && ev.DeltaY == 0 {
		return nil
	}
	at := Vec2{X: ev.X, Y: ev.Y}
	scroll := ScrollState{DeltaX: ev.DeltaX, DeltaY: ev.DeltaY, CtrlKey: ev.CtrlKey, ShiftKey: ev.ShiftKey}
	if ev.CtrlKey && ev.DeltaY != 0 {
		// Wheel up (negative delta in DOM convention) zooms in.
		factor := math.Pow(t.wheelFactor, -math.Copysign(1, ev.DeltaY))
		return []Intent{{Kind: IntentZoomTo, At: at, Factor: factor, Scroll: scroll}}
	}
	return []Intent{{Kind: IntentScroll, At: at, Scroll: scroll}}
}

// Key maps copy, paste and delete shortcuts aimed at an editable column.
// Events whose target has no column are aimed at the canvas and always map.
func (t Translator) Key(ev KeyEvent) []Intent {
	kind := shortcut(ev)
	if kind == IntentNone {
		return nil
	}
	if ev.Target.Column != "" && !t.editable[ev.Target.Column] {
		return nil
	}
	var mods KeyModifiers
	if ev.CtrlKey {
		mods |= ModCtrl
	}
	if ev.MetaKey {
		mods |= ModMeta
	}
	return []Intent{{Kind: kind, Target: ev.Target, Modifiers: mods}}
}

// shortcut returns the intent a key combination stands for, ignoring the
// target.
func shortcut(ev KeyEvent) IntentKind {
	command := ev.CtrlKey || ev.MetaKey
	switch key := strings.ToLower(ev.Key); {
	case command && key == "c":
		return IntentCopy
	case command && key == "v":
		return IntentPaste
	case key == "delete" || key == "backspace":
		return IntentDelete
	}
	return IntentNone
}

func distance(a, b Vec2) float64 {
	dx := a.X - b.X
	dy := a.Y - b.Y
	return math.Sqrt(dx*dx + dy*dy)
}
