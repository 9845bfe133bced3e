package ebitenview

import (
	"bytes"
	"math"
	"time"

	"github.com/hajimehoshi/ebiten/v2/audio"

	"github.com/phanxgames/spectro"
)

// Player plays 16-bit stereo PCM through an ebiten audio context. Speed is
// applied by resampling: the source is treated as recorded at
// sampleRate*speed and converted to the context rate.
type Player struct {
	ctx    *audio.Context
	pcm    []byte
	rate   int
	speed  float64
	player *audio.Player
	// want is true between Play and Pause requests.
	want bool
	err  error
}

// NewPlayer creates a paused player for pcm sampled at sampleRate.
func NewPlayer(ctx *audio.Context, pcm []byte, sampleRate int) *Player {
	return &Player{ctx: ctx, pcm: pcm, rate: sampleRate, speed: 1}
}

func (p *Player) open(at float64) {
	if p.player != nil {
		_ = p.player.Close()
		p.player = nil
	}
	from := int(math.Round(float64(p.rate) * p.speed))
	src := audio.Resample(bytes.NewReader(p.pcm), int64(len(p.pcm)), from, p.ctx.SampleRate())
	pl, err := p.ctx.NewPlayer(src)
	if err != nil {
		p.err = err
		return
	}
	p.player = pl
	p.seek(at)
}

// seek positions the output; output time runs 1/speed as fast as
// recording time.
func (p *Player) seek(t float64) {
	if p.player == nil {
		return
	}
	off := time.Duration(t / p.speed * float64(time.Second))
	if err := p.player.SetPosition(off); err != nil {
		p.err = err
	}
}

// Play implements spectro.MediaPlayer.
func (p *Player) Play(from, speed float64) {
	if p.player == nil || speed != p.speed {
		p.speed = speed
		p.open(from)
	} else {
		p.seek(from)
	}
	if p.player == nil {
		return
	}
	p.want = true
	p.player.Play()
}

// Pause implements spectro.MediaPlayer.
func (p *Player) Pause() {
	p.want = false
	if p.player != nil {
		p.player.Pause()
	}
}

// Seek implements spectro.MediaPlayer. A seek after the stream ended
// restarts output if playback is still requested.
func (p *Player) Seek(t float64) {
	if p.player == nil {
		p.open(t)
		return
	}
	p.seek(t)
	if p.want && !p.player.IsPlaying() {
		p.player.Play()
	}
}

// SetSpeed implements spectro.MediaPlayer.
func (p *Player) SetSpeed(speed float64) {
	if speed == p.speed {
		return
	}
	pos := p.Position()
	p.speed = speed
	if p.player == nil {
		return
	}
	p.open(pos)
	if p.want && p.player != nil {
		p.player.Play()
	}
}

// Position returns the playback position in recording seconds.
func (p *Player) Position() float64 {
	if p.player == nil {
		return 0
	}
	return p.player.Position().Seconds() * p.speed
}

// Poll reports the media state once per tick: a position update while
// playing, or an end notification when output stopped on its own.
func (p *Player) Poll() (spectro.AudioEvent, bool) {
	if !p.want || p.player == nil {
		return spectro.AudioEvent{}, false
	}
	if !p.player.IsPlaying() {
		return spectro.AudioEvent{Kind: spectro.AudioEnded, Time: p.Position()}, true
	}
	return spectro.PositionUpdated(p.Position()), true
}

// Err returns and clears the last output error.
func (p *Player) Err() error {
	err := p.err
	p.err = nil
	return err
}

// Close releases the output.
func (p *Player) Close() error {
	if p.player == nil {
		return nil
	}
	err := p.player.Close()
	p.player = nil
	return err
}
