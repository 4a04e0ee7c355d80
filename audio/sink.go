package audio

import (
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gopxl/beep/speaker"
)

// Sink is an audio output. Play replaces the streamer currently
// playing.
type Sink interface {
	Play(s beep.Streamer)
	Clear()
	SampleRate() beep.SampleRate
	Close() error
}

// NewSink creates the sink named by backend: "speaker", "portaudio" or
// "silent".
func NewSink(backend string, rate beep.SampleRate, buffer time.Duration) (Sink, error) {
	switch strings.ToLower(backend) {
	case "speaker":
		return newSpeakerSink(rate, buffer)
	case "portaudio":
		return newPortaudioSink(rate, buffer)
	case "silent":
		return NewSilentSink(rate, buffer), nil
	default:
		return nil, fmt.Errorf("unknown audio backend: %s", backend)
	}
}

// slot is a never ending streamer that plays its current streamer and
// silence when there is none. The sinks keep one slot running and only
// exchange its content, guarded by their own lock.
type slot struct {
	current beep.Streamer
}

func (s *slot) Stream(samples [][2]float64) (int, bool) {
	n := 0
	if s.current != nil {
		var ok bool
		n, ok = s.current.Stream(samples)
		if !ok {
			s.current = nil
		}
	}
	for i := n; i < len(samples); i++ {
		samples[i] = [2]float64{}
	}
	return len(samples), true
}

func (s *slot) Err() error {
	return nil
}

// speakerSink plays through beep's speaker package.
type speakerSink struct {
	rate beep.SampleRate
	slot *slot
}

func newSpeakerSink(rate beep.SampleRate, buffer time.Duration) (Sink, error) {
	if err := speaker.Init(rate, rate.N(buffer)); err != nil {
		return nil, fmt.Errorf("failed to initialise speaker: %w", err)
	}
	s := &speakerSink{rate: rate, slot: &slot{}}
	speaker.Play(s.slot)
	return s, nil
}

func (s *speakerSink) Play(st beep.Streamer) {
	speaker.Lock()
	s.slot.current = st
	speaker.Unlock()
}

func (s *speakerSink) Clear() {
	s.Play(nil)
}

func (s *speakerSink) SampleRate() beep.SampleRate {
	return s.rate
}

func (s *speakerSink) Close() error {
	speaker.Clear()
	speaker.Close()
	return nil
}

// SilentSink consumes the streamers in real time without producing any
// sound. It keeps the timing of effects intact on machines without a
// sound device.
type SilentSink struct {
	rate     beep.SampleRate
	period   time.Duration
	mu       sync.Mutex
	slot     *slot
	stopChan chan struct{}
	wg       sync.WaitGroup
}

func NewSilentSink(rate beep.SampleRate, period time.Duration) *SilentSink {
	s := &SilentSink{
		rate:     rate,
		period:   period,
		slot:     &slot{},
		stopChan: make(chan struct{}),
	}
	s.wg.Add(1)
	go s.drain()
	return s
}

func (s *SilentSink) drain() {
	defer s.wg.Done()
	ticker := time.NewTicker(s.period)
	defer ticker.Stop()
	buf := make([][2]float64, s.rate.N(s.period))
	for {
		select {
		case <-s.stopChan:
			return
		case <-ticker.C:
			s.mu.Lock()
			s.slot.Stream(buf)
			s.mu.Unlock()
		}
	}
}

func (s *SilentSink) Play(st beep.Streamer) {
	s.mu.Lock()
	s.slot.current = st
	s.mu.Unlock()
}

func (s *SilentSink) Clear() {
	s.Play(nil)
}

func (s *SilentSink) SampleRate() beep.SampleRate {
	return s.rate
}

func (s *SilentSink) Close() error {
	close(s.stopChan)
	s.wg.Wait()
	return nil
}
