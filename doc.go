// Package spectro coordinates navigation and annotation of a recording's
// spectrogram.
//
// A [Session] owns one open recording. Hosts feed it raw pointer, wheel,
// keyboard and media events; it translates them into intents, runs them
// through the annotation mode machine and keeps the viewport and playback
// state consistent. Drawing is left to the host through a [Dispatcher].
//
// # Quick start
//
//	s, err := spectro.NewSession(ctx, spectro.Recording{
//		SampleRate: 48000, Duration: 30, ChannelCount: 1,
//	}, spectro.SessionOptions{Store: store, Width: 1000, Height: 500})
//	if err != nil {
//		return err
//	}
//	defer s.Close()
//
//	_ = s.HandlePointer(ctx, spectro.PointerEvent{Kind: spectro.PointerDown, X: 10, Y: 10})
//	_ = s.Tick(ctx, 1.0/60)
//
// # Windows and geometry
//
// A [Window] is a rectangle in (time, frequency) space. The pure helpers in
// geometry.go ([Zoom], [Pan], [CenterOn], [Fit], [ZoomToBox]) return new
// windows and keep them inside the recording bounds. A [Projection] maps
// windows to canvas pixels, with frequency growing upward.
//
// # Modes
//
// The [Machine] has five modes: idle, drawing, selecting, editing and
// deleting. Navigation gestures act only in idle; drawing creates a
// bounding-box annotation through the [AnnotationStore]; selecting and
// deleting act on the topmost annotation under the cursor.
//
// The [Viewport] keeps its own panning, zooming and playing sub-state and a
// bounded history that [Viewport.Back] walks.
//
// # Playback
//
// [AudioSync] tracks the current time, speed and loop flag and drives a
// [MediaPlayer]. Positions reported by the player are reconciled into the
// visible time range.
//
// # Scripted input
//
// Inject* methods queue synthetic events consumed one per Tick, and
// [LoadReplayScript] with [Replay] runs JSON scripts with expectations
// against a headless session.
package spectro
