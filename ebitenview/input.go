package ebitenview

import (
	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/phanxgames/spectro"
)

// hotkeys map plain key presses to machine events.
var hotkeys = map[ebiten.Key]spectro.EventKind{
	ebiten.KeyD:      spectro.EventDraw,
	ebiten.KeyS:      spectro.EventSelect,
	ebiten.KeyX:      spectro.EventDelete,
	ebiten.KeyEscape: spectro.EventIdle,
	ebiten.KeyR:      spectro.EventReset,
	ebiten.KeyB:      spectro.EventBack,
	ebiten.KeyP:      spectro.EventEnablePanning,
	ebiten.KeyZ:      spectro.EventEnableZooming,
	ebiten.KeySpace:  spectro.EventTogglePlay,
	ebiten.KeyL:      spectro.EventToggleLoop,
}

// readModifiers reads the current keyboard modifier state.
func readModifiers() spectro.KeyModifiers {
	var mods spectro.KeyModifiers
	if ebiten.IsKeyPressed(ebiten.KeyShift) {
		mods |= spectro.ModShift
	}
	if ebiten.IsKeyPressed(ebiten.KeyControl) {
		mods |= spectro.ModCtrl
	}
	if ebiten.IsKeyPressed(ebiten.KeyAlt) {
		mods |= spectro.ModAlt
	}
	if ebiten.IsKeyPressed(ebiten.KeyMeta) {
		mods |= spectro.ModMeta
	}
	return mods
}

// pointerEvents returns the raw events for this tick's left-button state.
// A move is reported only while the button is held.
func pointerEvents(x, y float64, mods spectro.KeyModifiers, pressed, released, held bool) []spectro.PointerEvent {
	ev := spectro.PointerEvent{X: x, Y: y, Button: spectro.MouseButtonLeft, Modifiers: mods}
	switch {
	case pressed:
		ev.Kind = spectro.PointerDown
	case released:
		ev.Kind = spectro.PointerUp
	case held:
		ev.Kind = spectro.PointerMove
	default:
		return nil
	}
	return []spectro.PointerEvent{ev}
}

// wheelEvent converts ebiten wheel offsets, where positive y is wheel up,
// to the scroll delta convention where positive y scrolls down.
func wheelEvent(x, y, xoff, yoff float64, mods spectro.KeyModifiers) (spectro.ScrollEvent, bool) {
	if xoff == 0 && yoff == 0 {
		return spectro.ScrollEvent{}, false
	}
	return spectro.ScrollEvent{
		X:        x,
		Y:        y,
		DeltaX:   -xoff,
		DeltaY:   -yoff,
		CtrlKey:  mods&(spectro.ModCtrl|spectro.ModMeta) != 0,
		ShiftKey: mods&spectro.ModShift != 0,
	}, true
}

// canvasKey builds a key event aimed at the canvas.
func canvasKey(k ebiten.Key, mods spectro.KeyModifiers) spectro.KeyEvent {
	return spectro.KeyEvent{
		Key:     k.String(),
		CtrlKey: mods&spectro.ModCtrl != 0,
		MetaKey: mods&spectro.ModMeta != 0,
	}
}

// tagKey maps the digit keys 1-9 to a tag index.
func tagKey(k ebiten.Key) (int, bool) {
	if k >= ebiten.KeyDigit1 && k <= ebiten.KeyDigit9 {
		return int(k - ebiten.KeyDigit1), true
	}
	return 0, false
}

// nextSpeed returns the option after (or before) current.
func nextSpeed(opts []spectro.SpeedOption, current float64, up bool) (float64, bool) {
	idx := -1
	for i, o := range opts {
		if o.Value == current {
			idx = i
			break
		}
	}
	switch {
	case idx < 0:
		return 0, false
	case up && idx+1 < len(opts):
		return opts[idx+1].Value, true
	case !up && idx > 0:
		return opts[idx-1].Value, true
	}
	return 0, false
}

func justPressedKeys(buf []ebiten.Key) []ebiten.Key {
	return inpututil.AppendJustPressedKeys(buf[:0])
}

func leftJustPressed() bool {
	return inpututil.IsMouseButtonJustPressed(ebiten.MouseButtonLeft)
}

func leftJustReleased() bool {
	return inpututil.IsMouseButtonJustReleased(ebiten.MouseButtonLeft)
}
