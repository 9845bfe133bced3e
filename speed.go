package spectro

import (
	"fmt"
	"math"
	"slices"
)

// speedFactors are the playback speed multipliers offered when the
// resulting playback sample rate is playable.
var speedFactors = []float64{0.1, 0.25, 0.5, 0.75, 1, 1.25, 1.5, 1.75, 2, 3}

// expansionRate is the playback rate a time-expanded recording is mapped to.
const expansionRate = 44100

// SpeedOption is one selectable playback speed.
type SpeedOption struct {
	Label string
	Value float64
}

// SpeedOptions returns the playback speeds valid for a recording sampled at
// sampleRate. A factor is offered only if sampleRate*factor lies within
// [minRate, maxRate]. For recordings whose native rate is outside that range
// an extra option maps the recording onto a 44.1 kHz playback rate, which
// makes ultrasonic content audible. The result is sorted by value and never
// empty.
func SpeedOptions(sampleRate, minRate, maxRate int) []SpeedOption {
	var opts []SpeedOption
	sr := float64(sampleRate)
	for _, f := range speedFactors {
		rate := sr * f
		if rate >= float64(minRate) && rate <= float64(maxRate) {
			opts = append(opts, SpeedOption{Label: fmt.Sprintf("%gx", f), Value: f})
		}
	}
	if sampleRate > 0 && !hasSpeed(opts, 1) {
		f := roundSpeed(expansionRate / sr)
		if !hasSpeed(opts, f) {
			opts = append(opts, SpeedOption{Label: fmt.Sprintf("%gx (TE)", f), Value: f})
		}
	}
	if len(opts) == 0 {
		opts = append(opts, SpeedOption{Label: "1x", Value: 1})
	}
	slices.SortFunc(opts, func(a, b SpeedOption) int {
		switch {
		case a.Value < b.Value:
			return -1
		case a.Value > b.Value:
			return 1
		}
		return 0
	})
	return opts
}

// DefaultSpeed returns the option closest to real time.
func DefaultSpeed(opts []SpeedOption) float64 {
	best := 1.0
	bestDist := math.Inf(1)
	for _, o := range opts {
		if d := math.Abs(math.Log(o.Value)); d < bestDist {
			best, bestDist = o.Value, d
		}
	}
	return best
}

func hasSpeed(opts []SpeedOption, v float64) bool {
	for _, o := range opts {
		if math.Abs(o.Value-v) < 1e-9 {
			return true
		}
	}
	return false
}

func roundSpeed(v float64) float64 {
	return math.Round(v*1000) / 1000
}
