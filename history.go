package spectro

// defaultHistoryDepth bounds the viewport history when no depth is configured.
const defaultHistoryDepth = 64

// History is a bounded stack of previously visited windows. The oldest
// entry is dropped once the depth is exceeded.
type History struct {
	entries []Window
	depth   int
}

// NewHistory creates an empty history holding at most depth windows.
func NewHistory(depth int) *History {
	if depth <= 0 {
		depth = defaultHistoryDepth
	}
	return &History{entries: make([]Window, 0, min(depth, 16)), depth: depth}
}

// Push records w as the most recent entry.
func (h *History) Push(w Window) {
	if len(h.entries) == h.depth {
		copy(h.entries, h.entries[1:])
		h.entries = h.entries[:len(h.entries)-1]
	}
	h.entries = append(h.entries, w)
}

// Pop removes and returns the most recent entry. ok is false when empty.
func (h *History) Pop() (w Window, ok bool) {
	if len(h.entries) == 0 {
		return Window{}, false
	}
	w = h.entries[len(h.entries)-1]
	h.entries = h.entries[:len(h.entries)-1]
	return w, true
}

// Peek returns the most recent entry without removing it.
func (h *History) Peek() (Window, bool) {
	if len(h.entries) == 0 {
		return Window{}, false
	}
	return h.entries[len(h.entries)-1], true
}

// Len returns the number of stored entries.
func (h *History) Len() int {
	return len(h.entries)
}

// Depth returns the maximum number of entries.
func (h *History) Depth() int {
	return h.depth
}

// Clear drops every entry.
func (h *History) Clear() {
	h.entries = h.entries[:0]
}
