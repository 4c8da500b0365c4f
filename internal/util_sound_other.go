//go:build !linux

package internal

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
)

// SoundEvent represents different types of sound events in the client
type SoundEvent int

const (
	SoundMention SoundEvent = iota
	SoundDisconnect
)

const sampleRate = beep.SampleRate(44100)

// tone is a short sine beep: pitch in Hz and length.
type tone struct {
	freq     float64
	duration time.Duration
}

var soundTones = map[SoundEvent]tone{
	SoundMention:    {freq: 880, duration: 120 * time.Millisecond},
	SoundDisconnect: {freq: 220, duration: 300 * time.Millisecond},
}

// SoundPlayer plays short synthesized tones for client events
type SoundPlayer struct {
	enabled bool
	sounds  map[SoundEvent]*beep.Buffer
	mu      sync.Mutex
}

// NewSoundPlayer initializes the speaker and renders every tone into memory.
// Speaker initialization failure is fatal.
func NewSoundPlayer(enabled bool) (*SoundPlayer, error) {
	sp := &SoundPlayer{
		enabled: enabled,
		sounds:  make(map[SoundEvent]*beep.Buffer),
	}

	// 44.1kHz sample rate, 4096 buffer size
	if err := speaker.Init(sampleRate, 4096); err != nil {
		return nil, fmt.Errorf("failed to initialize speaker: %w", err)
	}

	format := beep.Format{SampleRate: sampleRate, NumChannels: 2, Precision: 2}
	for event, t := range soundTones {
		buffer := beep.NewBuffer(format)
		buffer.Append(sine(t.freq, sampleRate.N(t.duration)))
		sp.sounds[event] = buffer
	}

	return sp, nil
}

// sine streams n samples of a sine wave at freq, fading out towards the end.
func sine(freq float64, n int) beep.Streamer {
	pos := 0
	return beep.StreamerFunc(func(samples [][2]float64) (int, bool) {
		if pos >= n {
			return 0, false
		}
		i := 0
		for ; i < len(samples) && pos < n; i++ {
			fade := 1 - float64(pos)/float64(n)
			v := 0.3 * fade * math.Sin(2*math.Pi*freq*float64(pos)/float64(sampleRate))
			samples[i][0], samples[i][1] = v, v
			pos++
		}
		return i, true
	})
}

// PlayAsync plays a sound asynchronously without blocking
func (sp *SoundPlayer) PlayAsync(event SoundEvent) {
	sp.mu.Lock()
	enabled := sp.enabled
	buffer, exists := sp.sounds[event]
	sp.mu.Unlock()

	if !enabled || !exists {
		return
	}

	// Play sound in a goroutine to avoid blocking
	go func() {
		streamer := buffer.Streamer(0, buffer.Len())
		done := make(chan bool)

		speaker.Play(beep.Seq(streamer, beep.Callback(func() {
			done <- true
		})))

		// Wait for playback to complete with timeout to prevent goroutine leak
		select {
		case <-done:
		case <-time.After(5 * time.Second):
		}
	}()
}

// SetEnabled enables or disables sound playback
func (sp *SoundPlayer) SetEnabled(enabled bool) {
	sp.mu.Lock()
	defer sp.mu.Unlock()
	sp.enabled = enabled
}

// Close cleans up the sound player resources
func (sp *SoundPlayer) Close() {
	speaker.Clear()
}
