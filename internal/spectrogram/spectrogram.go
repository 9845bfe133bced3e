// Package spectrogram synthesizes demo recordings and renders their
// short-time Fourier transform magnitude as a grayscale image.
package spectrogram

import (
	"encoding/binary"
	"fmt"
	"image"
	"image/color"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/dsp/fourier"
	"gonum.org/v1/gonum/floats"

	"github.com/phanxgames/spectro"
)

// Signal is a mono recording held in memory.
type Signal struct {
	Samples    []float64
	SampleRate int
}

// Recording describes the signal for a session.
func (s Signal) Recording() spectro.Recording {
	return spectro.Recording{
		SampleRate:   s.SampleRate,
		Duration:     float64(len(s.Samples)) / float64(s.SampleRate),
		ChannelCount: 1,
	}
}

// DemoOptions shapes the synthetic demo signal.
type DemoOptions struct {
	SampleRate int
	Seconds    float64
	// Seed makes the noise floor reproducible.
	Seed int64
}

// Demo synthesizes a signal with a steady tone, a rising chirp, repeated
// short calls and a low noise floor.
func Demo(opts DemoOptions) (Signal, error) {
	if opts.SampleRate <= 0 {
		return Signal{}, fmt.Errorf("demo: sample rate must be positive, got %d", opts.SampleRate)
	}
	if opts.Seconds <= 0 {
		return Signal{}, fmt.Errorf("demo: duration must be positive, got %g", opts.Seconds)
	}
	sr := float64(opts.SampleRate)
	n := int(opts.Seconds * sr)
	nyq := sr / 2
	rng := rand.New(rand.NewSource(opts.Seed))
	out := make([]float64, n)

	toneHz := nyq * 0.1
	chirpLo, chirpHi := nyq*0.05, nyq*0.8
	callHz := nyq * 0.5
	callLen := 0.08
	callEvery := 0.75

	var chirpPhase float64
	for i := range out {
		t := float64(i) / sr
		v := 0.2 * math.Sin(2*math.Pi*toneHz*t)

		f := chirpLo + (chirpHi-chirpLo)*t/opts.Seconds
		chirpPhase += 2 * math.Pi * f / sr
		v += 0.15 * math.Sin(chirpPhase)

		if c := math.Mod(t, callEvery); c < callLen {
			env := math.Sin(math.Pi * c / callLen)
			sweep := callHz * (1 - 0.3*c/callLen)
			v += 0.3 * env * math.Sin(2*math.Pi*sweep*c)
		}
		v += 0.01 * rng.NormFloat64()
		out[i] = v
	}
	return Signal{Samples: out, SampleRate: opts.SampleRate}, nil
}

// Options controls the transform.
type Options struct {
	// WindowSize is the FFT length in samples. It must be at least 2.
	WindowSize int
	// Hop is the step between frames in samples.
	Hop int
	// FloorDB is the magnitude mapped to black, relative to the peak.
	FloorDB float64
}

// DefaultOptions returns a 512-sample Hann window with 75% overlap and an
// 80 dB range.
func DefaultOptions() Options {
	return Options{WindowSize: 512, Hop: 128, FloorDB: -80}
}

// Render returns the STFT magnitude of s in dB as a grayscale image. Each
// column is one frame; row 0 holds the highest frequency bin so the image
// can be drawn with frequency growing upward.
func Render(s Signal, opts Options) (*image.Gray, error) {
	if opts.WindowSize < 2 {
		return nil, fmt.Errorf("render: window size %d too small", opts.WindowSize)
	}
	if opts.Hop <= 0 {
		return nil, fmt.Errorf("render: hop must be positive, got %d", opts.Hop)
	}
	if opts.FloorDB >= 0 {
		return nil, fmt.Errorf("render: floor must be negative, got %g dB", opts.FloorDB)
	}
	if len(s.Samples) < opts.WindowSize {
		return nil, fmt.Errorf("render: %d samples is shorter than one window", len(s.Samples))
	}

	frames := 1 + (len(s.Samples)-opts.WindowSize)/opts.Hop
	bins := opts.WindowSize/2 + 1
	fft := fourier.NewFFT(opts.WindowSize)
	window := hann(opts.WindowSize)

	mags := make([][]float64, frames)
	frame := make([]float64, opts.WindowSize)
	var coeff []complex128
	peak := math.Inf(-1)
	for f := range mags {
		start := f * opts.Hop
		copy(frame, s.Samples[start:start+opts.WindowSize])
		floats.Mul(frame, window)
		coeff = fft.Coefficients(coeff, frame)
		col := make([]float64, bins)
		for b, c := range coeff {
			col[b] = 20 * math.Log10(math.Hypot(real(c), imag(c))+1e-12)
		}
		peak = math.Max(peak, floats.Max(col))
		mags[f] = col
	}

	img := image.NewGray(image.Rect(0, 0, frames, bins))
	for f, col := range mags {
		for b, db := range col {
			v := (db - peak - opts.FloorDB) / -opts.FloorDB
			v = math.Max(0, math.Min(1, v))
			img.SetGray(f, bins-1-b, color.Gray{Y: uint8(v * 255)})
		}
	}
	return img, nil
}

func hann(n int) []float64 {
	w := make([]float64, n)
	for i := range w {
		w[i] = 0.5 - 0.5*math.Cos(2*math.Pi*float64(i)/float64(n-1))
	}
	return w
}

// PCM16Stereo encodes s as interleaved little-endian signed 16-bit stereo,
// the layout audio players consume. Samples are clipped to [-1, 1].
func PCM16Stereo(s Signal) []byte {
	out := make([]byte, len(s.Samples)*4)
	for i, v := range s.Samples {
		v = math.Max(-1, math.Min(1, v))
		x := uint16(int16(math.Round(v * math.MaxInt16)))
		binary.LittleEndian.PutUint16(out[4*i:], x)
		binary.LittleEndian.PutUint16(out[4*i+2:], x)
	}
	return out
}
