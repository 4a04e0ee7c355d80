package platform

import (
	"lautenbacher.net/gosaber/led"
)

// SoundPlayer is the audio half of the effects.
type SoundPlayer interface {
	Play(index int, loop bool) error
	Stop()
	IsPlaying() bool
}

// Effects combines the sound player and the blade strip into the single
// output facade the mode controller talks to.
type Effects struct {
	sounds SoundPlayer
	strip  *led.Strip
}

func NewEffects(sounds SoundPlayer, strip *led.Strip) *Effects {
	return &Effects{
		sounds: sounds,
		strip:  strip,
	}
}

func (s *Effects) Play(index int, loop bool) error {
	return s.sounds.Play(index, loop)
}

func (s *Effects) Stop() {
	s.sounds.Stop()
}

func (s *Effects) IsPlaying() bool {
	return s.sounds.IsPlaying()
}

func (s *Effects) SetPixel(index int, value led.Led) {
	s.strip.SetPixel(index, value)
}

func (s *Effects) Fill(value led.Led) {
	s.strip.Fill(value)
}

func (s *Effects) Flush() error {
	return s.strip.Flush()
}

func (s *Effects) PixelCount() int {
	return s.strip.Len()
}
