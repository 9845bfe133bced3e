package spectro

import (
	"math"
	"testing"
)

const epsilon = 1e-9

func approxEqual(a, b, eps float64) bool {
	return math.Abs(a-b) < eps
}

func assertWindow(t *testing.T, name string, got, want Window) {
	t.Helper()
	if !approxEqual(got.Time.Min, want.Time.Min, 1e-6) || !approxEqual(got.Time.Max, want.Time.Max, 1e-6) ||
		!approxEqual(got.Freq.Min, want.Freq.Min, 1e-6) || !approxEqual(got.Freq.Max, want.Freq.Max, 1e-6) {
		t.Errorf("%s = %v, want %v", name, got, want)
	}
}

func win(t0, t1, f0, f1 float64) Window {
	return Window{Time: Interval{Min: t0, Max: t1}, Freq: Interval{Min: f0, Max: f1}}
}

var testBounds = win(0, 60, 0, 8000)

func TestClampContainedInBounds(t *testing.T) {
	tests := []struct {
		name string
		w    Window
		want Window
	}{
		{"inside", win(10, 20, 100, 200), win(10, 20, 100, 200)},
		{"partial", win(-10, 20, 7000, 9000), win(0, 20, 7000, 8000)},
		{"fully outside time", win(70, 80, 100, 200), win(0, 60, 100, 200)},
		{"fully outside both", win(-20, -10, -5, -1), testBounds},
		{"reversed", win(20, 10, 200, 100), win(10, 20, 100, 200)},
		{"bounds", testBounds, testBounds},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Clamp(tt.w, testBounds)
			assertWindow(t, "Clamp", got, tt.want)
			if !testBounds.Covers(got) {
				t.Errorf("Clamp(%v) = %v escapes bounds", tt.w, got)
			}
			if got.Time.Size() <= 0 || got.Freq.Size() <= 0 {
				t.Errorf("Clamp(%v) = %v has an empty axis", tt.w, got)
			}
		})
	}
}

func TestClampIdempotentOnBounds(t *testing.T) {
	if got := Clamp(testBounds, testBounds); got != testBounds {
		t.Errorf("Clamp(b, b) = %v, want %v", got, testBounds)
	}
}

func TestFitPreservesSize(t *testing.T) {
	got := Fit(win(-5, 25, 100, 300), testBounds)
	assertWindow(t, "Fit", got, win(0, 30, 100, 300))

	got = Fit(win(50, 70, 7900, 8100), testBounds)
	assertWindow(t, "Fit", got, win(40, 60, 7800, 8000))

	got = Fit(win(-10, 100, 0, 100), testBounds)
	assertWindow(t, "Fit oversized", got, win(0, 60, 0, 100))
}

func TestZoomInverseRoundTrip(t *testing.T) {
	w := win(10, 40, 1000, 5000)
	anchors := []Point{
		w.Center(),
		{Time: 12, Freq: 1500},
		{Time: 39, Freq: 4900},
	}
	for _, a := range anchors {
		for _, f := range []float64{1.2, 2, 4} {
			in := Zoom(w, testBounds, f, a)
			out := Zoom(in, testBounds, 1/f, a)
			assertWindow(t, "zoom round trip", out, w)
		}
	}
}

func TestZoomInvalidFactor(t *testing.T) {
	w := win(10, 40, 1000, 5000)
	for _, f := range []float64{0, -1, math.Inf(1), math.NaN()} {
		if got := Zoom(w, testBounds, f, w.Center()); got != w {
			t.Errorf("Zoom(factor=%g) = %v, want unchanged", f, got)
		}
	}
}

func TestZoomTimeKeepsFrequency(t *testing.T) {
	w := win(10, 40, 1000, 5000)
	got := ZoomTime(w, testBounds, 2, 25)
	assertWindow(t, "ZoomTime", got, win(17.5, 32.5, 1000, 5000))
}

func TestPanConvergesToEdge(t *testing.T) {
	w := win(20, 30, 1000, 2000)
	for range 100 {
		next := Pan(w, testBounds, -3, 250)
		if !testBounds.Covers(next) {
			t.Fatalf("Pan escaped bounds: %v", next)
		}
		w = next
	}
	assertWindow(t, "pinned", w, win(0, 10, 7000, 8000))
	if got := Pan(w, testBounds, -3, 250); got != w {
		t.Errorf("Pan at edge = %v, want no-op", got)
	}
}

func TestPanAtEdgeAllowsOppositeDirection(t *testing.T) {
	w := win(0, 10, 0, 1000)
	got := Pan(w, testBounds, 5, 0)
	assertWindow(t, "Pan away from edge", got, win(5, 15, 0, 1000))
}

func TestZoomThenPanScenario(t *testing.T) {
	w := Zoom(testBounds, testBounds, 2, testBounds.Center())
	if !approxEqual(w.Time.Min, 15, epsilon) || !approxEqual(w.Time.Max, 45, epsilon) {
		t.Fatalf("zoom time = %v, want [15, 45]", w.Time)
	}
	w = Pan(w, testBounds, -20, 0)
	if !approxEqual(w.Time.Min, 0, epsilon) || !approxEqual(w.Time.Max, 30, epsilon) {
		t.Errorf("pan time = %v, want [0, 30]", w.Time)
	}
}

func TestCenterOn(t *testing.T) {
	tests := []struct {
		name string
		p    Point
		want Window
	}{
		{"middle", Point{Time: 30, Freq: 4000}, win(25, 35, 3000, 5000)},
		{"near start", Point{Time: 1, Freq: 100}, win(0, 10, 0, 2000)},
		{"near end", Point{Time: 59, Freq: 7999}, win(50, 60, 6000, 8000)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CenterOn(testBounds, tt.p, Extent{Time: 10, Freq: 2000})
			assertWindow(t, "CenterOn", got, tt.want)
		})
	}
}

func TestRelativeShift(t *testing.T) {
	w := win(10, 20, 1000, 3000)
	got := RelativeShift(testBounds, w, Point{Time: 0.5, Freq: -0.25}, true)
	assertWindow(t, "relative", got, win(15, 25, 500, 2500))

	got = RelativeShift(testBounds, w, Point{Time: 0.5, Freq: -0.25}, false)
	assertWindow(t, "absolute", got, win(10.5, 20.5, 999.75, 2999.75))
}

func TestZoomToBox(t *testing.T) {
	got := ZoomToBox(testBounds, win(50, 40, 9000, 7000))
	assertWindow(t, "ZoomToBox", got, win(40, 50, 7000, 8000))
}

func TestWindowOverlaps(t *testing.T) {
	a := win(0, 10, 0, 10)
	if !a.Overlaps(win(5, 15, 5, 15)) {
		t.Error("expected overlap")
	}
	if a.Overlaps(win(10, 20, 0, 10)) {
		t.Error("touching edges must not overlap")
	}
}

func TestProjectionRoundTrip(t *testing.T) {
	p := NewProjection(win(10, 20, 1000, 5000), 1000, 400)
	corners := []struct {
		pt   Point
		want Vec2
	}{
		{Point{Time: 10, Freq: 5000}, Vec2{X: 0, Y: 0}},
		{Point{Time: 20, Freq: 1000}, Vec2{X: 1000, Y: 400}},
		{Point{Time: 15, Freq: 3000}, Vec2{X: 500, Y: 200}},
	}
	for _, c := range corners {
		px := p.ToPixel(c.pt)
		if !approxEqual(px.X, c.want.X, 1e-6) || !approxEqual(px.Y, c.want.Y, 1e-6) {
			t.Errorf("ToPixel(%v) = %v, want %v", c.pt, px, c.want)
		}
		back := p.ToDomain(px)
		if !approxEqual(back.Time, c.pt.Time, 1e-6) || !approxEqual(back.Freq, c.pt.Freq, 1e-6) {
			t.Errorf("ToDomain(ToPixel(%v)) = %v", c.pt, back)
		}
	}
}

func TestProjectionDeltaAndRects(t *testing.T) {
	p := NewProjection(win(10, 20, 1000, 5000), 1000, 400)
	d := p.DeltaToDomain(Vec2{X: 100, Y: 40})
	if !approxEqual(d.Time, 1, epsilon) || !approxEqual(d.Freq, -400, epsilon) {
		t.Errorf("DeltaToDomain = %v, want {1 -400}", d)
	}

	w := p.RectToWindow(Vec2{X: 500, Y: 300}, Vec2{X: 100, Y: 100})
	assertWindow(t, "RectToWindow", w, win(11, 15, 2000, 4000))

	r := p.WindowToRect(w)
	if !approxEqual(r.X, 100, 1e-6) || !approxEqual(r.Y, 100, 1e-6) ||
		!approxEqual(r.Width, 400, 1e-6) || !approxEqual(r.Height, 200, 1e-6) {
		t.Errorf("WindowToRect = %+v, want {100 100 400 200}", r)
	}
}

func TestProjectionDegenerate(t *testing.T) {
	p := NewProjection(win(10, 20, 1000, 5000), 0, 0)
	if d := p.DeltaToDomain(Vec2{X: 5, Y: 5}); d != (Point{}) {
		t.Errorf("DeltaToDomain on empty canvas = %v, want zero", d)
	}
	m := invertAffine([6]float64{0, 0, 0, 0, 1, 1})
	if m != identityTransform {
		t.Errorf("invertAffine(singular) = %v, want identity", m)
	}
}
