package spectro

import "testing"

func TestSpeedOptions(t *testing.T) {
	tests := []struct {
		name       string
		sampleRate int
		wantFirst  float64
		wantLast   float64
		wantCount  int
		wantSpeed  float64
	}{
		{"cd audio", 44100, 0.1, 3, 10, 1},
		{"narrowband", 8000, 0.5, 3, 8, 1},
		{"ultrasonic", 384000, 0.1, 1, 5, 1},
		{"too fast", 768000, 0.057, 0.5, 4, 0.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			opts := SpeedOptions(tt.sampleRate, 3000, 384000)
			if len(opts) != tt.wantCount {
				t.Fatalf("count = %d (%v), want %d", len(opts), opts, tt.wantCount)
			}
			if opts[0].Value != tt.wantFirst || opts[len(opts)-1].Value != tt.wantLast {
				t.Errorf("range = [%g, %g], want [%g, %g]", opts[0].Value, opts[len(opts)-1].Value, tt.wantFirst, tt.wantLast)
			}
			if got := DefaultSpeed(opts); got != tt.wantSpeed {
				t.Errorf("DefaultSpeed = %g, want %g", got, tt.wantSpeed)
			}
			for i := 1; i < len(opts); i++ {
				if opts[i-1].Value >= opts[i].Value {
					t.Errorf("options not sorted: %v", opts)
				}
			}
		})
	}
}

func TestSpeedOptionsTimeExpansion(t *testing.T) {
	opts := SpeedOptions(768000, 3000, 384000)
	if !hasSpeed(opts, roundSpeed(44100.0/768000)) {
		t.Errorf("options %v lack the time-expansion speed", opts)
	}
}

func TestSpeedOptionsNeverEmpty(t *testing.T) {
	opts := SpeedOptions(0, 3000, 384000)
	if len(opts) != 1 || opts[0].Value != 1 {
		t.Errorf("SpeedOptions(0) = %v, want [1x]", opts)
	}
}
