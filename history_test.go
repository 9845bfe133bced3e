package spectro

import "testing"

func TestHistoryLIFO(t *testing.T) {
	h := NewHistory(4)
	for i := range 3 {
		h.Push(win(float64(i), float64(i+1), 0, 1))
	}
	if h.Len() != 3 {
		t.Fatalf("Len = %d, want 3", h.Len())
	}
	if w, ok := h.Peek(); !ok || w.Time.Min != 2 {
		t.Errorf("Peek = %v, %t; want time.min 2", w, ok)
	}
	for want := 2; want >= 0; want-- {
		w, ok := h.Pop()
		if !ok || w.Time.Min != float64(want) {
			t.Errorf("Pop = %v, %t; want time.min %d", w, ok, want)
		}
	}
	if _, ok := h.Pop(); ok {
		t.Error("Pop on empty history succeeded")
	}
}

func TestHistoryDropsOldest(t *testing.T) {
	h := NewHistory(2)
	h.Push(win(0, 1, 0, 1))
	h.Push(win(1, 2, 0, 1))
	h.Push(win(2, 3, 0, 1))
	if h.Len() != 2 {
		t.Fatalf("Len = %d, want 2", h.Len())
	}
	h.Pop()
	if w, _ := h.Pop(); w.Time.Min != 1 {
		t.Errorf("oldest kept = %v, want time.min 1", w)
	}
}

func TestHistoryDefaultDepth(t *testing.T) {
	if d := NewHistory(0).Depth(); d != defaultHistoryDepth {
		t.Errorf("Depth = %d, want %d", d, defaultHistoryDepth)
	}
	h := NewHistory(3)
	h.Push(testBounds)
	h.Clear()
	if h.Len() != 0 {
		t.Errorf("Len after Clear = %d", h.Len())
	}
}
