package spectro_test

import (
	"context"
	"testing"

	"github.com/phanxgames/spectro"
	"github.com/phanxgames/spectro/memstore"
)

func TestInjectConsumesOneEventPerTick(t *testing.T) {
	s := newTestSession(t, memstore.New())
	s.InjectDrag(0, 0, 100, 0, 5)
	if s.Pending() != 5 {
		t.Fatalf("pending = %d, want 5", s.Pending())
	}
	for want := 4; want >= 0; want-- {
		if err := s.Tick(context.Background(), 1.0/60); err != nil {
			t.Fatalf("Tick: %v", err)
		}
		if s.Pending() != want {
			t.Fatalf("pending = %d, want %d", s.Pending(), want)
		}
	}
}

func TestInjectDragMinimumFrames(t *testing.T) {
	s := newTestSession(t, memstore.New())
	s.InjectDrag(0, 0, 10, 10, 0)
	if s.Pending() != 2 {
		t.Errorf("pending = %d, want press and release", s.Pending())
	}
	s.InjectClick(5, 5)
	if s.Pending() != 4 {
		t.Errorf("pending = %d, want 4", s.Pending())
	}
}

func TestInjectDragPansInIdle(t *testing.T) {
	s := newTestSession(t, memstore.New())
	// Full bounds cannot pan; zoom first so there is room.
	s.InjectScroll(spectro.ScrollEvent{X: 300, Y: 400, DeltaY: -1, CtrlKey: true})
	if err := drain(t, s); err != nil {
		t.Fatalf("scroll: %v", err)
	}
	zoomed := s.Viewport().Window()
	if zoomed.Time.Size() >= 60 || !zoomed.Time.Contains(30) {
		t.Fatalf("ctrl+wheel window = %+v, want a zoomed window around 30 s", zoomed)
	}

	s.InjectDrag(300, 400, 200, 400, 3)
	if err := drain(t, s); err != nil {
		t.Fatalf("drag: %v", err)
	}
	got := s.Viewport().Window()
	if got.Time.Min <= zoomed.Time.Min {
		t.Errorf("dragging left did not move later in time: %+v -> %+v", zoomed.Time, got.Time)
	}
}

func TestInjectKeyReachesCanvas(t *testing.T) {
	s := newTestSession(t, memstore.New())
	a := drawBox(t, s)
	send(t, s, spectro.EventSelect)
	s.InjectClick(150, 200)
	if err := drain(t, s); err != nil {
		t.Fatalf("select: %v", err)
	}
	if id, ok := s.Machine().Selected(); !ok || id != a.ID {
		t.Fatalf("selected = %q, %v", id, ok)
	}
	s.InjectKey(spectro.KeyEvent{Key: "Delete"})
	if err := drain(t, s); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if n := len(s.Machine().Annotations()); n != 0 {
		t.Errorf("annotations = %d, want 0", n)
	}
}
