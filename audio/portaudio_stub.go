//go:build !cgo

package audio

import (
	"errors"
	"time"

	"github.com/gopxl/beep"
)

func newPortaudioSink(rate beep.SampleRate, buffer time.Duration) (Sink, error) {
	return nil, errors.New("the portaudio backend requires a cgo build")
}
