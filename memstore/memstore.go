// Package memstore is an in-memory annotation store. It backs the CLI and
// tests, and can be told to fail the next write.
package memstore

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/phanxgames/spectro"
)

// ErrNotFound is returned for an unknown annotation id.
var ErrNotFound = errors.New("annotation not found")

// Store keeps annotations in creation order. It is safe for concurrent use.
type Store struct {
	mu       sync.RWMutex
	items    []spectro.Annotation
	failNext error
	calls    map[string]int
}

// New returns an empty store.
func New() *Store {
	return &Store{calls: make(map[string]int)}
}

// FailNext makes the next write return err.
func (s *Store) FailNext(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failNext = err
}

// Calls returns how many times op was called, failed calls included.
func (s *Store) Calls(op string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.calls[op]
}

func (s *Store) begin(op string) error {
	s.calls[op]++
	err := s.failNext
	s.failNext = nil
	return err
}

// Create stores a new annotation with a random id.
func (s *Store) Create(ctx context.Context, geometry spectro.Window) (spectro.Annotation, error) {
	if err := ctx.Err(); err != nil {
		return spectro.Annotation{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.begin("create"); err != nil {
		return spectro.Annotation{}, err
	}
	a := spectro.Annotation{
		ID:       spectro.AnnotationID(uuid.New().String()),
		Geometry: geometry,
	}
	s.items = append(s.items, a)
	return clone(a), nil
}

// Remove deletes the annotation with the given id.
func (s *Store) Remove(ctx context.Context, id spectro.AnnotationID) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.begin("remove"); err != nil {
		return err
	}
	i := s.index(id)
	if i < 0 {
		return fmt.Errorf("remove %s: %w", id, ErrNotFound)
	}
	s.items = slices.Delete(s.items, i, i+1)
	return nil
}

// AddTag adds tag to the annotation. Adding a present tag is a no-op.
func (s *Store) AddTag(ctx context.Context, id spectro.AnnotationID, tag string) (spectro.Annotation, error) {
	return s.editTags(ctx, "add_tag", id, func(tags []string) []string {
		if slices.Contains(tags, tag) {
			return tags
		}
		return append(tags, tag)
	})
}

// RemoveTag removes tag from the annotation. Removing an absent tag is a
// no-op.
func (s *Store) RemoveTag(ctx context.Context, id spectro.AnnotationID, tag string) (spectro.Annotation, error) {
	return s.editTags(ctx, "remove_tag", id, func(tags []string) []string {
		return slices.DeleteFunc(tags, func(t string) bool { return t == tag })
	})
}

func (s *Store) editTags(ctx context.Context, op string, id spectro.AnnotationID, edit func([]string) []string) (spectro.Annotation, error) {
	if err := ctx.Err(); err != nil {
		return spectro.Annotation{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.begin(op); err != nil {
		return spectro.Annotation{}, err
	}
	i := s.index(id)
	if i < 0 {
		return spectro.Annotation{}, fmt.Errorf("%s %s: %w", op, id, ErrNotFound)
	}
	s.items[i].Tags = edit(s.items[i].Tags)
	return clone(s.items[i]), nil
}

// List returns a copy of every annotation in creation order.
func (s *Store) List(ctx context.Context) ([]spectro.Annotation, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]spectro.Annotation, len(s.items))
	for i, a := range s.items {
		out[i] = clone(a)
	}
	return out, nil
}

// Get returns the annotation with the given id.
func (s *Store) Get(id spectro.AnnotationID) (spectro.Annotation, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	i := s.index(id)
	if i < 0 {
		return spectro.Annotation{}, false
	}
	return clone(s.items[i]), true
}

func (s *Store) index(id spectro.AnnotationID) int {
	return slices.IndexFunc(s.items, func(a spectro.Annotation) bool { return a.ID == id })
}

func clone(a spectro.Annotation) spectro.Annotation {
	a.Tags = slices.Clone(a.Tags)
	return a
}
