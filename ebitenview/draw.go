package ebitenview

import (
	"fmt"
	"image/color"
	"strings"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/text/v2"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/font/basicfont"

	"github.com/phanxgames/spectro"
)

var (
	colorBackground = color.RGBA{0x10, 0x10, 0x14, 0xff}
	colorBox        = color.RGBA{0x4c, 0xc9, 0xf0, 0xff}
	colorSelected   = color.RGBA{0xff, 0xd1, 0x66, 0xff}
	colorDraft      = color.RGBA{0xef, 0x47, 0x6f, 0xff}
	colorZoomDraft  = color.RGBA{0xff, 0xff, 0xff, 0xc0}
	colorCursor     = color.RGBA{0x06, 0xd6, 0xa0, 0xff}
	colorLabelBg    = color.RGBA{0x00, 0x00, 0x00, 0xa0}
)

// Renderer draws frames over a precomputed spectrogram image.
type Renderer struct {
	// Spectrogram covers the recording bounds: columns span time, row 0 is
	// the highest frequency. Nil draws a blank canvas.
	Spectrogram *ebiten.Image
	face        *text.GoXFace
	// Status is drawn in the bottom-left corner.
	Status string
}

// NewRenderer creates a renderer for the given spectrogram image.
func NewRenderer(spectrogram *ebiten.Image) *Renderer {
	return &Renderer{
		Spectrogram: spectrogram,
		face:        text.NewGoXFace(basicfont.Face7x13),
	}
}

// Draw is a spectro.DrawFunc for ebiten screens.
func (r *Renderer) Draw(screen *ebiten.Image, f spectro.Frame) {
	screen.Fill(colorBackground)
	proj := f.Projection()
	r.drawSpectrogram(screen, f)

	for _, a := range f.Annotations {
		if !a.Geometry.Overlaps(f.Window) {
			continue
		}
		rect := proj.WindowToRect(a.Geometry)
		clr := colorBox
		if a.ID == f.Selected {
			clr = colorSelected
		}
		vector.StrokeRect(screen, float32(rect.X), float32(rect.Y), float32(rect.Width), float32(rect.Height), 1.5, clr, false)
		if len(a.Tags) > 0 {
			r.label(screen, rect.X+2, rect.Y+2, strings.Join(a.Tags, ", "), clr)
		}
	}

	if f.Drag.Started {
		clr := colorDraft
		if f.Mode == spectro.ModeIdle {
			clr = colorZoomDraft
		}
		x0, y0 := min(f.Drag.Start.X, f.Drag.End.X), min(f.Drag.Start.Y, f.Drag.End.Y)
		x1, y1 := max(f.Drag.Start.X, f.Drag.End.X), max(f.Drag.Start.Y, f.Drag.End.Y)
		vector.StrokeRect(screen, float32(x0), float32(y0), float32(x1-x0), float32(y1-y0), 1, clr, false)
	}

	if f.Window.Time.Contains(f.Playback.CurrentTime) {
		x := proj.ToPixel(spectro.Point{Time: f.Playback.CurrentTime}).X
		vector.StrokeLine(screen, float32(x), 0, float32(x), float32(f.Height), 1, colorCursor, false)
	}

	status := fmt.Sprintf("%s/%s  t=%.2fs  %gx", f.Mode, f.ViewMode, f.Playback.CurrentTime, f.Playback.Speed)
	if f.Playback.Loop {
		status += "  loop"
	}
	if r.Status != "" {
		status += "  " + r.Status
	}
	r.label(screen, 4, f.Height-17, status, color.White)
}

func (r *Renderer) drawSpectrogram(screen *ebiten.Image, f spectro.Frame) {
	if r.Spectrogram == nil || f.Bounds.Time.Size() <= 0 || f.Bounds.Freq.Size() <= 0 {
		return
	}
	b := r.Spectrogram.Bounds()
	iw, ih := float64(b.Dx()), float64(b.Dy())
	// Source pixels of the window inside the full-bounds image.
	x0 := (f.Window.Time.Min - f.Bounds.Time.Min) / f.Bounds.Time.Size() * iw
	x1 := (f.Window.Time.Max - f.Bounds.Time.Min) / f.Bounds.Time.Size() * iw
	y0 := (f.Bounds.Freq.Max - f.Window.Freq.Max) / f.Bounds.Freq.Size() * ih
	y1 := (f.Bounds.Freq.Max - f.Window.Freq.Min) / f.Bounds.Freq.Size() * ih
	if x1 <= x0 || y1 <= y0 {
		return
	}
	op := &ebiten.DrawImageOptions{}
	op.GeoM.Translate(-x0, -y0)
	op.GeoM.Scale(f.Width/(x1-x0), f.Height/(y1-y0))
	op.Filter = ebiten.FilterLinear
	screen.DrawImage(r.Spectrogram, op)
}

func (r *Renderer) label(screen *ebiten.Image, x, y float64, s string, clr color.Color) {
	w, h := text.Measure(s, r.face, 0)
	vector.DrawFilledRect(screen, float32(x-2), float32(y-1), float32(w+4), float32(h+2), colorLabelBg, false)
	op := &text.DrawOptions{}
	op.GeoM.Translate(x, y)
	op.ColorScale.ScaleWithColor(clr)
	text.Draw(screen, s, r.face, op)
}
