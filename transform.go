package spectro

// identityTransform is the identity affine matrix.
var identityTransform = [6]float64{1, 0, 0, 1, 0, 0}

// Projection maps between time/frequency space and canvas pixels for one
// window drawn into a canvas of Width x Height pixels. Time grows to the
// right; frequency grows upward, so the top pixel row is Window.Freq.Max.
type Projection struct {
	Window Window
	Width  float64
	Height float64
}

// NewProjection returns the projection of w onto a canvas of the given size.
func NewProjection(w Window, width, height float64) Projection {
	return Projection{Window: w, Width: width, Height: height}
}

// valid reports whether the projection can be inverted.
func (p Projection) valid() bool {
	return p.Width > 0 && p.Height > 0 && p.Window.Time.Size() > 0 && p.Window.Freq.Size() > 0
}

// matrix returns the domain->pixel affine matrix.
//
//	x = (time - tmin) * W/dt
//	y = (fmax - freq) * H/df
func (p Projection) matrix() [6]float64 {
	if !p.valid() {
		return identityTransform
	}
	sx := p.Width / p.Window.Time.Size()
	sy := -p.Height / p.Window.Freq.Size()
	return [6]float64{sx, 0, 0, sy, -p.Window.Time.Min * sx, -p.Window.Freq.Max * sy}
}

// ToPixel converts a time/frequency point to canvas coordinates.
func (p Projection) ToPixel(pt Point) Vec2 {
	x, y := transformPoint(p.matrix(), pt.Time, pt.Freq)
	return Vec2{X: x, Y: y}
}

// ToDomain converts canvas coordinates to a time/frequency point.
func (p Projection) ToDomain(v Vec2) Point {
	t, f := transformPoint(invertAffine(p.matrix()), v.X, v.Y)
	return Point{Time: t, Freq: f}
}

// DeltaToDomain converts a pixel offset to a time/frequency offset. A
// downward pixel offset is a negative frequency offset.
func (p Projection) DeltaToDomain(d Vec2) Point {
	if !p.valid() {
		return Point{}
	}
	return Point{
		Time: d.X / p.Width * p.Window.Time.Size(),
		Freq: -d.Y / p.Height * p.Window.Freq.Size(),
	}
}

// RectToWindow converts two opposite canvas corners into a normalized window.
func (p Projection) RectToWindow(a, b Vec2) Window {
	pa := p.ToDomain(a)
	pb := p.ToDomain(b)
	return Window{
		Time: Interval{Min: pa.Time, Max: pb.Time},
		Freq: Interval{Min: pa.Freq, Max: pb.Freq},
	}.Normalized()
}

// WindowToRect converts a window into a canvas rectangle.
func (p Projection) WindowToRect(w Window) Rect {
	tl := p.ToPixel(Point{Time: w.Time.Min, Freq: w.Freq.Max})
	br := p.ToPixel(Point{Time: w.Time.Max, Freq: w.Freq.Min})
	return Rect{X: tl.X, Y: tl.Y, Width: br.X - tl.X, Height: br.Y - tl.Y}
}

// invertAffine computes the inverse of a 2D affine matrix.
// Returns the identity matrix if the matrix is singular (determinant ~ 0).
func invertAffine(m [6]float64) [6]float64 {
	det := m[0]*m[3] - m[2]*m[1]
	if det > -1e-12 && det < 1e-12 {
		return identityTransform
	}
	invDet := 1.0 / det
	a := m[3] * invDet
	b := -m[1] * invDet
	c := -m[2] * invDet
	d := m[0] * invDet
	return [6]float64{
		a, b, c, d,
		-(a*m[4] + c*m[5]),
		-(b*m[4] + d*m[5]),
	}
}

// transformPoint applies an affine matrix to a point.
func transformPoint(m [6]float64, x, y float64) (float64, float64) {
	return m[0]*x + m[2]*y + m[4], m[1]*x + m[3]*y + m[5]
}
