package led

import "fmt"

// Display is the hardware (or simulated) sink of a strip. The slice
// passed to DisplayLeds is reused by the strip and must not be retained.
type Display interface {
	DisplayLeds(leds []Led) error
}

// Strip buffers the pixel values of the blade. Writes only become
// visible with Flush.
type Strip struct {
	layout   *Layout
	display  Display
	pixels   []Led
	physical []Led
}

func NewStrip(layout *Layout, display Display) *Strip {
	return &Strip{
		layout:   layout,
		display:  display,
		pixels:   make([]Led, layout.Len()),
		physical: make([]Led, layout.LedsTotal()),
	}
}

// Len returns the number of pixels of the blade.
func (s *Strip) Len() int {
	return len(s.pixels)
}

// SetPixel sets a single buffered pixel. An index outside the strip is
// a programming error and panics.
func (s *Strip) SetPixel(index int, value Led) {
	if index < 0 || index >= len(s.pixels) {
		panic(fmt.Sprintf("pixel index %d out of range [0,%d)", index, len(s.pixels)))
	}
	s.pixels[index] = value
}

// Fill sets all buffered pixels to value.
func (s *Strip) Fill(value Led) {
	for i := range s.pixels {
		s.pixels[i] = value
	}
}

// Pixels returns a copy of the buffered pixels.
func (s *Strip) Pixels() []Led {
	ret := make([]Led, len(s.pixels))
	copy(ret, s.pixels)
	return ret
}

// Flush commits the buffer to the display.
func (s *Strip) Flush() error {
	s.layout.apply(s.pixels, s.physical)
	if err := s.display.DisplayLeds(s.physical); err != nil {
		return fmt.Errorf("failed to display leds: %w", err)
	}
	return nil
}
