package spectro

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/tidwall/gjson"
	"github.com/tidwall/sjson"
)

// AnnotationID identifies an annotation held by the annotation store.
type AnnotationID string

// Annotation is a bounding box in time/frequency space with its tags.
type Annotation struct {
	ID       AnnotationID
	Geometry Window
	Tags     []string
}

// AnnotationStore is the annotation-data collaborator. The core calls it
// only after a locally valid gesture and never assumes a write succeeded
// until the call returns.
type AnnotationStore interface {
	Create(ctx context.Context, geometry Window) (Annotation, error)
	Remove(ctx context.Context, id AnnotationID) error
	AddTag(ctx context.Context, id AnnotationID, tag string) (Annotation, error)
	RemoveTag(ctx context.Context, id AnnotationID, tag string) (Annotation, error)
}

// AnnotationLister is implemented by stores that can report their current
// annotation set. Sessions refresh from it after each successful write.
type AnnotationLister interface {
	List(ctx context.Context) ([]Annotation, error)
}

var (
	// ErrNoSelection is returned for tag edits when no annotation is bound.
	ErrNoSelection = errors.New("no annotation selected")
	// ErrNotEditable is returned when a key intent targets a column that
	// has not been registered as editable.
	ErrNotEditable = errors.New("column is not editable")
	// ErrUnknownColumn is returned when no cell handler is registered for a
	// column.
	ErrUnknownColumn = errors.New("unknown column")
)

// CollaboratorError reports a write rejected by the annotation store.
type CollaboratorError struct {
	Op  string
	ID  AnnotationID
	Err error
}

func (e *CollaboratorError) Error() string {
	if e.ID == "" {
		return fmt.Sprintf("annotation %s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("annotation %s %s: %v", e.Op, e.ID, e.Err)
}

func (e *CollaboratorError) Unwrap() error { return e.Err }

// HitTest returns the annotation under p. When boxes overlap the one drawn
// last (the topmost) wins.
func HitTest(annotations []Annotation, p Point) (Annotation, bool) {
	for i := len(annotations) - 1; i >= 0; i-- {
		if annotations[i].Geometry.Contains(p) {
			return annotations[i], true
		}
	}
	return Annotation{}, false
}

// ValidBox reports whether the pixel rectangle spanned by a and b is at
// least minSize on both sides.
func ValidBox(a, b Vec2, minSize float64) bool {
	w := math.Abs(b.X - a.X)
	h := math.Abs(b.Y - a.Y)
	if minSize <= 0 {
		return w > 0 && h > 0
	}
	return w >= minSize && h >= minSize
}

const geometryType = "BoundingBox"

// EncodeGeometry encodes a bounding box as
// {"type":"BoundingBox","coordinates":[t0,f0,t1,f1]}.
func EncodeGeometry(w Window) (string, error) {
	w = w.Normalized()
	out, err := sjson.Set("", "type", geometryType)
	if err != nil {
		return "", err
	}
	out, err = sjson.Set(out, "coordinates", []float64{w.Time.Min, w.Freq.Min, w.Time.Max, w.Freq.Max})
	if err != nil {
		return "", err
	}
	return out, nil
}

// DecodeGeometry parses a bounding box produced by EncodeGeometry.
func DecodeGeometry(data string) (Window, error) {
	if !gjson.Valid(data) {
		return Window{}, errors.New("geometry: invalid json")
	}
	res := gjson.Parse(data)
	if typ := res.Get("type").String(); typ != geometryType {
		return Window{}, fmt.Errorf("geometry: unsupported type %q", typ)
	}
	coords := res.Get("coordinates").Array()
	if len(coords) != 4 {
		return Window{}, fmt.Errorf("geometry: expected 4 coordinates, got %d", len(coords))
	}
	for i, c := range coords {
		if c.Type != gjson.Number {
			return Window{}, fmt.Errorf("geometry: coordinate %d is not a number", i)
		}
	}
	return Window{
		Time: Interval{Min: coords[0].Float(), Max: coords[2].Float()},
		Freq: Interval{Min: coords[1].Float(), Max: coords[3].Float()},
	}.Normalized(), nil
}
