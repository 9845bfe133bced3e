package spectro

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/tidwall/gjson"
)

// Clipboard is the text clipboard a session copies to and pastes from.
type Clipboard interface {
	ReadText() (string, error)
	WriteText(text string) error
}

// MemoryClipboard is a session-scoped Clipboard.
type MemoryClipboard struct {
	text string
}

func (c *MemoryClipboard) ReadText() (string, error) { return c.text, nil }

func (c *MemoryClipboard) WriteText(text string) error {
	c.text = text
	return nil
}

// CellHandler is the paste/clear capability of one editable column.
type CellHandler struct {
	// Parse converts pasted text into the value Apply expects.
	Parse func(text string) (any, error)
	// Apply writes value into the target cell. A nil value clears it.
	Apply func(ctx context.Context, target CellTarget, value any) error
}

// CellRegistry maps column identifiers to their handlers. It is built once
// per session; its columns form the translator's editable allow-list.
type CellRegistry struct {
	handlers map[string]CellHandler
}

// NewCellRegistry returns an empty registry.
func NewCellRegistry() *CellRegistry {
	return &CellRegistry{handlers: make(map[string]CellHandler)}
}

// Register installs h for column, replacing any earlier handler.
func (r *CellRegistry) Register(column string, h CellHandler) {
	r.handlers[column] = h
}

// Columns returns the registered columns in sorted order.
func (r *CellRegistry) Columns() []string {
	cols := make([]string, 0, len(r.handlers))
	for c := range r.handlers {
		cols = append(cols, c)
	}
	slices.Sort(cols)
	return cols
}

func (r *CellRegistry) lookup(column string) (CellHandler, error) {
	h, ok := r.handlers[column]
	if !ok {
		return CellHandler{}, fmt.Errorf("column %q: %w", column, ErrUnknownColumn)
	}
	return h, nil
}

// Paste parses text with the column's handler and applies it to target.
func (r *CellRegistry) Paste(ctx context.Context, target CellTarget, text string) error {
	h, err := r.lookup(target.Column)
	if err != nil {
		return err
	}
	v, err := h.Parse(text)
	if err != nil {
		return fmt.Errorf("paste into %s: %w", target.Column, err)
	}
	return h.Apply(ctx, target, v)
}

// Clear empties the target cell.
func (r *CellRegistry) Clear(ctx context.Context, target CellTarget) error {
	h, err := r.lookup(target.Column)
	if err != nil {
		return err
	}
	return h.Apply(ctx, target, nil)
}

// DispatchFunc sends an event to a machine.
type DispatchFunc func(ctx context.Context, ev Event) (Result, error)

// ParseTags accepts a JSON array of strings or a comma separated list.
// Blank and duplicate tags are dropped.
func ParseTags(text string) ([]string, error) {
	text = strings.TrimSpace(text)
	var raw []string
	if strings.HasPrefix(text, "[") {
		if !gjson.Valid(text) {
			return nil, errors.New("tags: invalid json array")
		}
		for _, v := range gjson.Parse(text).Array() {
			if v.Type != gjson.String {
				return nil, fmt.Errorf("tags: %s is not a string", v.Raw)
			}
			raw = append(raw, v.String())
		}
	} else {
		raw = strings.Split(text, ",")
	}
	var tags []string
	for _, t := range raw {
		t = strings.TrimSpace(t)
		if t != "" && !slices.Contains(tags, t) {
			tags = append(tags, t)
		}
	}
	return tags, nil
}

// TagsCell fans a pasted tag list into one add-tag event per tag on the
// target row's annotation. Clearing removes every tag in the cell's value.
func TagsCell(dispatch DispatchFunc) CellHandler {
	return CellHandler{
		Parse: func(text string) (any, error) {
			return ParseTags(text)
		},
		Apply: func(ctx context.Context, target CellTarget, value any) error {
			kind := EventAddTag
			tags, _ := value.([]string)
			if value == nil {
				kind = EventRemoveTag
				var err error
				if tags, err = ParseTags(target.Value); err != nil {
					return err
				}
			}
			var errs []error
			for _, tag := range tags {
				_, err := dispatch(ctx, Event{Kind: kind, ID: AnnotationID(target.Row), Tag: tag})
				if err != nil {
					errs = append(errs, err)
				}
			}
			return errors.Join(errs...)
		},
	}
}

// Location is a latitude/longitude pair in degrees.
type Location struct {
	Lat, Lng float64
}

func (l Location) String() string {
	return strconv.FormatFloat(l.Lat, 'f', -1, 64) + ", " + strconv.FormatFloat(l.Lng, 'f', -1, 64)
}

// ParseLocation parses "lat, lng".
func ParseLocation(text string) (Location, error) {
	parts := strings.Split(text, ",")
	if len(parts) != 2 {
		return Location{}, fmt.Errorf("location %q: want \"lat, lng\"", text)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(parts[0]), 64)
	if err != nil {
		return Location{}, fmt.Errorf("location latitude: %w", err)
	}
	lng, err := strconv.ParseFloat(strings.TrimSpace(parts[1]), 64)
	if err != nil {
		return Location{}, fmt.Errorf("location longitude: %w", err)
	}
	if lat < -90 || lat > 90 {
		return Location{}, fmt.Errorf("latitude %g out of range", lat)
	}
	if lng < -180 || lng > 180 {
		return Location{}, fmt.Errorf("longitude %g out of range", lng)
	}
	return Location{Lat: lat, Lng: lng}, nil
}

// LocationFunc stores a row's location; a nil location clears it.
type LocationFunc func(ctx context.Context, row string, loc *Location) error

// LocationCell splits a pasted "lat, lng" string into its two fields.
func LocationCell(set LocationFunc) CellHandler {
	return CellHandler{
		Parse: func(text string) (any, error) {
			return ParseLocation(text)
		},
		Apply: func(ctx context.Context, target CellTarget, value any) error {
			if value == nil {
				return set(ctx, target.Row, nil)
			}
			loc, ok := value.(Location)
			if !ok {
				return fmt.Errorf("location: unexpected value %T", value)
			}
			return set(ctx, target.Row, &loc)
		},
	}
}
