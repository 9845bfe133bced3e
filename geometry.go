package spectro

import "math"

// Clamp intersects w with bounds on each axis. An axis of w that lies
// entirely outside bounds (or would intersect it in an empty interval) is
// replaced by the bounds interval, so the result never has zero size unless
// bounds does.
func Clamp(w, bounds Window) Window {
	return Window{
		Time: clampInterval(w.Time, bounds.Time),
		Freq: clampInterval(w.Freq, bounds.Freq),
	}
}

func clampInterval(i, b Interval) Interval {
	i = i.Normalized()
	lo := math.Max(i.Min, b.Min)
	hi := math.Min(i.Max, b.Max)
	if !(hi > lo) {
		return b
	}
	return Interval{Min: lo, Max: hi}
}

// Fit moves w inside bounds without changing its size. An axis larger than
// the bounds on that axis collapses to the bounds.
func Fit(w, bounds Window) Window {
	return Window{
		Time: fitInterval(w.Time, bounds.Time),
		Freq: fitInterval(w.Freq, bounds.Freq),
	}
}

func fitInterval(i, b Interval) Interval {
	i = i.Normalized()
	size := i.Size()
	if !(size > 0) || size >= b.Size() {
		return b
	}
	switch {
	case i.Min < b.Min:
		return Interval{Min: b.Min, Max: b.Min + size}
	case i.Max > b.Max:
		return Interval{Min: b.Max - size, Max: b.Max}
	}
	return i
}

// Zoom scales both axes of w by 1/factor around anchor and fits the result
// inside bounds. A factor above 1 zooms in. Non-positive or non-finite
// factors leave w unchanged.
func Zoom(w, bounds Window, factor float64, anchor Point) Window {
	if !validFactor(factor) {
		return w
	}
	scale := 1 / factor
	return Fit(Window{
		Time: scaleInterval(w.Time, anchor.Time, scale),
		Freq: scaleInterval(w.Freq, anchor.Freq, scale),
	}, bounds)
}

// ZoomTime scales only the time axis around anchor. Used for ctrl+shift+wheel.
func ZoomTime(w, bounds Window, factor, anchor float64) Window {
	if !validFactor(factor) {
		return w
	}
	return Fit(Window{
		Time: scaleInterval(w.Time, anchor, 1/factor),
		Freq: w.Freq,
	}, bounds)
}

func validFactor(f float64) bool {
	return f > 0 && !math.IsInf(f, 0) && !math.IsNaN(f)
}

func scaleInterval(i Interval, anchor, scale float64) Interval {
	return Interval{
		Min: anchor + (i.Min-anchor)*scale,
		Max: anchor + (i.Max-anchor)*scale,
	}
}

// Pan translates w by the given deltas and fits the result inside bounds.
// Motion toward an edge the window already touches is a no-op on that axis.
func Pan(w, bounds Window, deltaTime, deltaFreq float64) Window {
	return Window{
		Time: panInterval(w.Time, bounds.Time, deltaTime),
		Freq: panInterval(w.Freq, bounds.Freq, deltaFreq),
	}
}

func panInterval(i, b Interval, d float64) Interval {
	if d == 0 || math.IsNaN(d) {
		return i
	}
	if (d < 0 && i.Min <= b.Min) || (d > 0 && i.Max >= b.Max) {
		return i
	}
	return fitInterval(Interval{Min: i.Min + d, Max: i.Max + d}, b)
}

// CenterOn builds a window of the given size centered at p, fit inside bounds.
func CenterOn(bounds Window, p Point, size Extent) Window {
	return Fit(Window{
		Time: Interval{Min: p.Time - size.Time/2, Max: p.Time + size.Time/2},
		Freq: Interval{Min: p.Freq - size.Freq/2, Max: p.Freq + size.Freq/2},
	}, bounds)
}

// RelativeShift pans w by shift. When relative is true shift is a fraction
// of the current window size on each axis; otherwise it is an absolute
// time/frequency delta.
func RelativeShift(bounds, w Window, shift Point, relative bool) Window {
	dt, df := shift.Time, shift.Freq
	if relative {
		dt *= w.Time.Size()
		df *= w.Freq.Size()
	}
	return Pan(w, bounds, dt, df)
}

// ZoomToBox returns the box clamped to bounds.
func ZoomToBox(bounds, box Window) Window {
	return Clamp(box.Normalized(), bounds)
}
