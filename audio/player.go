package audio

import (
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"

	"github.com/gopxl/beep"
)

const resampleQuality = 4

// Player plays the sounds of a catalog on a sink, one at a time. A new
// Play replaces whatever is playing.
type Player struct {
	catalog    *Catalog
	sink       Sink
	mu         sync.Mutex
	current    beep.StreamSeekCloser
	generation atomic.Uint64
	playing    atomic.Bool
}

func NewPlayer(catalog *Catalog, sink Sink) *Player {
	return &Player{
		catalog: catalog,
		sink:    sink,
	}
}

// Play starts sound index, looping forever if loop is set. If the sound
// can't be opened an error is returned and the current sound keeps
// playing.
func (p *Player) Play(index int, loop bool) error {
	stream, format, err := p.catalog.Open(index)
	if err != nil {
		return err
	}

	var s beep.Streamer = stream
	if loop {
		s = beep.Loop(-1, stream)
	}
	if rate := p.sink.SampleRate(); format.SampleRate != rate {
		s = beep.Resample(resampleQuality, format.SampleRate, rate, s)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	gen := p.generation.Add(1)
	p.playing.Store(true)
	// The callback runs on the sink's goroutine and must not take p.mu
	p.sink.Play(beep.Seq(s, beep.Callback(func() {
		if p.generation.Load() == gen {
			p.playing.Store(false)
		}
	})))
	p.closeCurrent()
	p.current = stream

	slog.Debug("Playing sound", "index", index, "file", p.catalog.Name(index), "loop", loop)
	return nil
}

// Stop silences the player. Calling it when nothing plays is fine.
func (p *Player) Stop() {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.generation.Add(1)
	p.sink.Clear()
	p.playing.Store(false)
	p.closeCurrent()
}

// IsPlaying is true until a non-looping sound has played to its end or
// the player is stopped.
func (p *Player) IsPlaying() bool {
	return p.playing.Load()
}

// Close stops playback and releases the sink.
func (p *Player) Close() error {
	p.Stop()
	if err := p.sink.Close(); err != nil {
		return fmt.Errorf("failed to close audio sink: %w", err)
	}
	return nil
}

func (p *Player) closeCurrent() {
	if p.current == nil {
		return
	}
	if err := p.current.Close(); err != nil {
		slog.Warn("Failed to close sound stream", "error", err)
	}
	p.current = nil
}
