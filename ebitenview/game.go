// Package ebitenview hosts a spectro.Session in an Ebitengine window: it
// polls mouse, wheel and keyboard state into raw events, draws frames with
// vector primitives and plays audio through an ebiten audio context.
package ebitenview

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"pkt.systems/pslog"

	"github.com/phanxgames/spectro"
)

// Options configures a Game.
type Options struct {
	Title  string
	Width  int
	Height int
	// Tags are bound to the digit hotkeys while an annotation is selected.
	// Shift+digit removes the tag.
	Tags []string
	// Player is polled for position updates. Nil disables audio.
	Player *Player
	// ScreenshotDir receives F12 screenshots.
	ScreenshotDir string
}

// Game implements ebiten.Game for a session.
type Game struct {
	ctx      context.Context
	session  *spectro.Session
	renderer *Renderer
	dispatch *spectro.Dispatcher[*ebiten.Image]
	player   *Player
	tags     []string
	keys     []ebiten.Key
	width    int
	height   int
	title    string
	quit     bool

	ScreenshotDir   string
	screenshotQueue []string
}

// NewGame wires a session to an ebiten window. The session's canvas size
// follows the window layout.
func NewGame(ctx context.Context, s *spectro.Session, r *Renderer, opts Options) *Game {
	g := &Game{
		ctx:           ctx,
		session:       s,
		renderer:      r,
		player:        opts.Player,
		tags:          opts.Tags,
		width:         opts.Width,
		height:        opts.Height,
		title:         opts.Title,
		ScreenshotDir: opts.ScreenshotDir,
	}
	if g.ScreenshotDir == "" {
		g.ScreenshotDir = "screenshots"
	}
	g.dispatch = spectro.NewDispatcher(r.Draw)
	s.SetCanvasSize(float64(opts.Width), float64(opts.Height))
	return g
}

// Update polls input, delivers media notifications and advances the session.
func (g *Game) Update() error {
	if g.quit {
		return ebiten.Termination
	}
	ctx := g.ctx
	var errs []error
	mods := readModifiers()
	cx, cy := ebiten.CursorPosition()
	x, y := float64(cx), float64(cy)

	for _, ev := range pointerEvents(x, y, mods,
		leftJustPressed(), leftJustReleased(), ebiten.IsMouseButtonPressed(ebiten.MouseButtonLeft)) {
		ev.Time = time.Duration(ebiten.Tick()) * time.Second / time.Duration(ebiten.TPS())
		errs = append(errs, g.session.HandlePointer(ctx, ev))
	}
	wx, wy := ebiten.Wheel()
	if ev, ok := wheelEvent(x, y, wx, wy, mods); ok {
		errs = append(errs, g.session.HandleScroll(ctx, ev))
	}
	g.keys = justPressedKeys(g.keys)
	for _, k := range g.keys {
		errs = append(errs, g.handleKey(ctx, k, mods))
	}
	if g.player != nil {
		if ev, ok := g.player.Poll(); ok {
			errs = append(errs, g.session.HandleAudio(ctx, ev))
		}
		errs = append(errs, g.player.Err())
	}
	errs = append(errs, g.session.Tick(ctx, float32(1.0/float64(ebiten.TPS()))))

	if err := errors.Join(errs...); err != nil {
		pslog.Ctx(ctx).Warn("input handling failed", "err", err)
		g.renderer.Status = err.Error()
		g.dispatch.Invalidate()
	}
	if g.session.TakeRedraw() {
		g.dispatch.Invalidate()
	}
	return nil
}

func (g *Game) handleKey(ctx context.Context, k ebiten.Key, mods spectro.KeyModifiers) error {
	command := mods&(spectro.ModCtrl|spectro.ModMeta) != 0
	switch {
	case k == ebiten.KeyQ && command:
		g.quit = true
		return nil
	case k == ebiten.KeyF12:
		g.Screenshot(g.session.Machine().Mode().String())
		return nil
	case k == ebiten.KeyC && command:
		return g.copySelection()
	case command:
		return g.session.HandleKey(ctx, canvasKey(k, mods))
	}
	g.renderer.Status = ""
	if kind, ok := hotkeys[k]; ok {
		_, err := g.session.Send(ctx, spectro.Event{Kind: kind})
		return err
	}
	if i, ok := tagKey(k); ok && i < len(g.tags) {
		kind := spectro.EventAddTag
		if mods&spectro.ModShift != 0 {
			kind = spectro.EventRemoveTag
		}
		_, err := g.session.Send(ctx, spectro.Event{Kind: kind, Tag: g.tags[i]})
		return err
	}
	switch k {
	case ebiten.KeyArrowLeft, ebiten.KeyArrowRight:
		dir := 0.5
		if k == ebiten.KeyArrowLeft {
			dir = -0.5
		}
		_, err := g.session.Send(ctx, spectro.Event{Kind: spectro.EventShiftBy, Shift: spectro.Point{Time: dir}, Relative: true})
		return err
	case ebiten.KeyArrowUp, ebiten.KeyArrowDown:
		st := g.session.Audio().State()
		if v, ok := nextSpeed(g.session.Audio().Speeds(), st.Speed, k == ebiten.KeyArrowUp); ok {
			_, err := g.session.Send(ctx, spectro.Event{Kind: spectro.EventSetSpeed, Speed: v})
			return err
		}
		return nil
	}
	return g.session.HandleKey(ctx, canvasKey(k, mods))
}

// copySelection copies the selected annotation's geometry as JSON.
func (g *Game) copySelection() error {
	m := g.session.Machine()
	id, ok := m.Selected()
	if !ok {
		return nil
	}
	for _, a := range m.Annotations() {
		if a.ID != id {
			continue
		}
		data, err := spectro.EncodeGeometry(a.Geometry)
		if err != nil {
			return fmt.Errorf("copy selection: %w", err)
		}
		return g.session.Clipboard().WriteText(data)
	}
	return nil
}

// Draw renders the session when it changed since the last frame.
func (g *Game) Draw(screen *ebiten.Image) {
	g.dispatch.DrawIfDirty(screen, g.session.Frame())
	g.flushScreenshots(g.ctx, screen)
}

// Layout keeps the canvas at the window size.
func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	if outsideWidth != g.width || outsideHeight != g.height {
		g.width, g.height = outsideWidth, outsideHeight
		g.session.SetCanvasSize(float64(outsideWidth), float64(outsideHeight))
		g.dispatch.Invalidate()
	}
	return outsideWidth, outsideHeight
}

// Run opens a window and runs the game until it is closed.
func Run(g *Game) error {
	ebiten.SetWindowTitle(g.title)
	ebiten.SetWindowSize(g.width, g.height)
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	// Frames are redrawn only when the session changes.
	ebiten.SetScreenClearedEveryFrame(false)
	err := ebiten.RunGame(g)
	if errors.Is(err, ebiten.Termination) {
		return nil
	}
	return err
}
