//go:build cgo

package audio

import (
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/gopxl/beep"
	"github.com/gordonklaus/portaudio"
)

// portaudioSink plays through the default PortAudio output device.
type portaudioSink struct {
	rate   beep.SampleRate
	mu     sync.Mutex
	slot   *slot
	buf    [][2]float64
	stream *portaudio.Stream
}

func newPortaudioSink(rate beep.SampleRate, buffer time.Duration) (Sink, error) {
	if err := portaudio.Initialize(); err != nil {
		return nil, fmt.Errorf("failed to initialize portaudio: %w", err)
	}
	frames := rate.N(buffer)
	s := &portaudioSink{
		rate: rate,
		slot: &slot{},
		buf:  make([][2]float64, frames),
	}
	stream, err := portaudio.OpenDefaultStream(0, 2, float64(rate), frames, s.process)
	if err != nil {
		portaudio.Terminate()
		return nil, fmt.Errorf("failed to open portaudio stream: %w", err)
	}
	if err := stream.Start(); err != nil {
		stream.Close()
		portaudio.Terminate()
		return nil, fmt.Errorf("failed to start portaudio stream: %w", err)
	}
	s.stream = stream
	slog.Info("PortAudio output started", "sampleRate", int(rate), "framesPerBuffer", frames)
	return s, nil
}

// process is the PortAudio callback filling the non-interleaved output
// buffers.
func (s *portaudioSink) process(out [][]float32) {
	s.mu.Lock()
	defer s.mu.Unlock()

	frames := len(out[0])
	if cap(s.buf) < frames {
		s.buf = make([][2]float64, frames)
	}
	buf := s.buf[:frames]
	s.slot.Stream(buf)
	for i := range buf {
		out[0][i] = float32(buf[i][0])
		out[1][i] = float32(buf[i][1])
	}
}

func (s *portaudioSink) Play(st beep.Streamer) {
	s.mu.Lock()
	s.slot.current = st
	s.mu.Unlock()
}

func (s *portaudioSink) Clear() {
	s.Play(nil)
}

func (s *portaudioSink) SampleRate() beep.SampleRate {
	return s.rate
}

func (s *portaudioSink) Close() error {
	var firstErr error
	if err := s.stream.Stop(); err != nil {
		firstErr = err
	}
	if err := s.stream.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	if err := portaudio.Terminate(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}
