package main

import (
	"encoding/binary"
	"math"
	"sync/atomic"
	"time"

	"github.com/ebitengine/oto/v3"
)

const (
	sampleRate = 48000
	toneHz     = 440
	toneVolume = 0.25
)

// Beeper plays a square-wave tone while the sound timer is nonzero. It
// implements io.Reader; oto pulls samples from a separate goroutine, so the
// gate is the only shared state and is atomic.
type Beeper struct {
	ctx    *oto.Context
	player *oto.Player

	active atomic.Bool
	phase  float64 // only touched by the player goroutine
}

func NewBeeper() (*Beeper, error) {
	op := &oto.NewContextOptions{
		SampleRate:   sampleRate,
		ChannelCount: 1,
		Format:       oto.FormatFloat32LE,
		BufferSize:   50 * time.Millisecond,
	}

	ctx, ready, err := oto.NewContext(op)
	if err != nil {
		return nil, err
	}
	<-ready

	b := &Beeper{ctx: ctx}
	b.player = ctx.NewPlayer(b)
	b.player.Play()
	return b, nil
}

// SetActive opens or closes the tone gate. Safe to call from the frame
// loop while the player goroutine reads.
func (b *Beeper) SetActive(on bool) {
	b.active.Store(on)
}

// Read generates float32 mono samples: the tone while the gate is open,
// silence otherwise.
func (b *Beeper) Read(p []byte) (int, error) {
	numSamples := len(p) / 4
	active := b.active.Load()

	for i := 0; i < numSamples; i++ {
		var sample float32
		if active {
			if b.phase < 0.5 {
				sample = toneVolume
			} else {
				sample = -toneVolume
			}
		}
		b.phase += toneHz / float64(sampleRate)
		if b.phase >= 1 {
			b.phase -= 1
		}
		binary.LittleEndian.PutUint32(p[4*i:], math.Float32bits(sample))
	}
	return numSamples * 4, nil
}

func (b *Beeper) Close() {
	if b.player != nil {
		_ = b.player.Close()
	}
}
