package spectro

import "context"

type syntheticKind uint8

const (
	syntheticPointer syntheticKind = iota
	syntheticScroll
	syntheticKey
)

// syntheticEvent is one queued input event. Pointer events are timestamped
// with the session clock when consumed, so queued clicks two ticks apart
// still form a double click.
type syntheticEvent struct {
	kind    syntheticKind
	pointer PointerEvent
	scroll  ScrollEvent
	key     KeyEvent
}

// InjectPress queues a left-button press at canvas coordinates. Queued
// events are consumed one per Tick.
func (s *Session) InjectPress(x, y float64) {
	s.injectPointer(PointerDown, x, y)
}

// InjectMove queues a pointer move with the button held.
func (s *Session) InjectMove(x, y float64) {
	s.injectPointer(PointerMove, x, y)
}

// InjectRelease queues a left-button release.
func (s *Session) InjectRelease(x, y float64) {
	s.injectPointer(PointerUp, x, y)
}

// InjectClick queues a press followed by a release at the same point.
// Consumes two ticks.
func (s *Session) InjectClick(x, y float64) {
	s.InjectPress(x, y)
	s.InjectRelease(x, y)
}

// InjectDrag queues a press at (fromX, fromY), frames-2 linearly
// interpolated moves and a release at (toX, toY). Minimum frames is 2.
func (s *Session) InjectDrag(fromX, fromY, toX, toY float64, frames int) {
	if frames < 2 {
		frames = 2
	}
	s.InjectPress(fromX, fromY)
	steps := frames - 2
	for i := 1; i <= steps; i++ {
		t := float64(i) / float64(steps+1)
		s.InjectMove(fromX+(toX-fromX)*t, fromY+(toY-fromY)*t)
	}
	s.InjectRelease(toX, toY)
}

// InjectScroll queues a wheel event.
func (s *Session) InjectScroll(ev ScrollEvent) {
	s.injectQueue = append(s.injectQueue, syntheticEvent{kind: syntheticScroll, scroll: ev})
}

// InjectKey queues a keyboard event.
func (s *Session) InjectKey(ev KeyEvent) {
	s.injectQueue = append(s.injectQueue, syntheticEvent{kind: syntheticKey, key: ev})
}

// Pending returns the number of queued events.
func (s *Session) Pending() int {
	return len(s.injectQueue)
}

func (s *Session) injectPointer(kind PointerKind, x, y float64) {
	s.injectQueue = append(s.injectQueue, syntheticEvent{
		kind:    syntheticPointer,
		pointer: PointerEvent{Kind: kind, X: x, Y: y, Button: MouseButtonLeft},
	})
}

// processInjected pops one event from the queue and handles it like real
// input. It returns the handler's error.
func (s *Session) processInjected(ctx context.Context) error {
	if len(s.injectQueue) == 0 {
		return nil
	}
	ev := s.injectQueue[0]
	copy(s.injectQueue, s.injectQueue[1:])
	s.injectQueue = s.injectQueue[:len(s.injectQueue)-1]

	switch ev.kind {
	case syntheticScroll:
		return s.HandleScroll(ctx, ev.scroll)
	case syntheticKey:
		return s.HandleKey(ctx, ev.key)
	default:
		p := ev.pointer
		p.Time = s.clock
		return s.HandlePointer(ctx, p)
	}
}
