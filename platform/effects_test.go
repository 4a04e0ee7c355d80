package platform

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"lautenbacher.net/gosaber/led"
)

type fakeSounds struct {
	played  []int
	looped  []bool
	stopped int
	playing bool
	err     error
}

func (f *fakeSounds) Play(index int, loop bool) error {
	if f.err != nil {
		return f.err
	}
	f.played = append(f.played, index)
	f.looped = append(f.looped, loop)
	f.playing = true
	return nil
}

func (f *fakeSounds) Stop() {
	f.stopped++
	f.playing = false
}

func (f *fakeSounds) IsPlaying() bool {
	return f.playing
}

type recordingDisplay struct {
	frames [][]led.Led
	err    error
}

func (d *recordingDisplay) DisplayLeds(leds []led.Led) error {
	if d.err != nil {
		return d.err
	}
	d.frames = append(d.frames, append([]led.Led(nil), leds...))
	return nil
}

func TestEffects(t *testing.T) {
	layout, err := led.NewLayout(4, nil)
	require.NoError(t, err)
	display := &recordingDisplay{}
	sounds := &fakeSounds{}
	effects := NewEffects(sounds, led.NewStrip(layout, display))

	assert.Equal(t, 4, effects.PixelCount())

	require.NoError(t, effects.Play(1, true))
	assert.True(t, effects.IsPlaying())
	effects.Stop()
	assert.False(t, effects.IsPlaying())
	assert.Equal(t, []int{1}, sounds.played)
	assert.Equal(t, []bool{true}, sounds.looped)

	effects.Fill(led.Blue)
	effects.SetPixel(2, led.Red)
	require.NoError(t, effects.Flush())
	require.Len(t, display.frames, 1)
	assert.Equal(t, []led.Led{led.Blue, led.Blue, led.Red, led.Blue}, display.frames[0])

	sounds.err = errors.New("no such sound")
	assert.EqualError(t, effects.Play(42, false), "no such sound")

	display.err = errors.New("spi gone")
	assert.ErrorContains(t, effects.Flush(), "spi gone")
}
