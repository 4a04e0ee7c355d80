package platform

import (
	"math"

	"lautenbacher.net/gosaber/config"
	"lautenbacher.net/gosaber/led"
)

// ledDriver turns the physical LED values into the wire format of a
// strip type.
type ledDriver interface {
	write(leds []led.Led) error
	close()
}

// exchangeFunc transmits one frame over SPI.
type exchangeFunc func(data []byte)

// channelFactors combines color correction and brightness into one
// factor per channel.
func channelFactors(displayConfig config.DisplayConfig) [3]float64 {
	var factors [3]float64
	for i := range factors {
		factors[i] = displayConfig.ColorCorrection[i] * displayConfig.Brightness
	}
	return factors
}

func corrected(value byte, factor float64) byte {
	return byte(math.Min(math.Round(float64(value)*factor), 255))
}

type ws2801Driver struct {
	factors  [3]float64
	buffer   []byte
	exchange exchangeFunc
}

func newWs2801Driver(displayConfig config.DisplayConfig, exchange exchangeFunc) *ws2801Driver {
	return &ws2801Driver{
		factors:  channelFactors(displayConfig),
		buffer:   make([]byte, 3*displayConfig.LedsTotal),
		exchange: exchange,
	}
}

func (d *ws2801Driver) write(leds []led.Led) error {
	display := d.buffer[:3*len(leds)]

	for idx := range leds {
		display[3*idx] = corrected(leds[idx].Red, d.factors[0])
		display[(3*idx)+1] = corrected(leds[idx].Green, d.factors[1])
		display[(3*idx)+2] = corrected(leds[idx].Blue, d.factors[2])
	}
	d.exchange(display)
	return nil
}

func (d *ws2801Driver) close() {}

type apa102Driver struct {
	factors    [3]float64
	brightness byte
	buffer     []byte
	exchange   exchangeFunc
}

func newApa102Driver(displayConfig config.DisplayConfig, exchange exchangeFunc) *apa102Driver {
	frameEndLength := (displayConfig.LedsTotal / 16) + 1
	return &apa102Driver{
		factors:    channelFactors(displayConfig),
		brightness: displayConfig.APA102_Brightness | 0xE0,
		buffer:     make([]byte, 4+(4*displayConfig.LedsTotal)+frameEndLength),
		exchange:   exchange,
	}
}

func (d *apa102Driver) write(leds []led.Led) error {
	frameEndLength := (len(leds) / 16) + 1
	requiredSize := 4 + (4 * len(leds)) + frameEndLength
	display := d.buffer[:requiredSize]

	// Frame start: 4 zero bytes
	copy(display[0:4], []byte{0x00, 0x00, 0x00, 0x00})

	offset := 4
	for i := range leds {
		// protocol: brightness byte, blue, green, red
		display[offset] = d.brightness
		display[offset+1] = corrected(leds[i].Blue, d.factors[2])
		display[offset+2] = corrected(leds[i].Green, d.factors[1])
		display[offset+3] = corrected(leds[i].Red, d.factors[0])
		offset += 4
	}

	// Frame end
	for i := offset; i < requiredSize; i++ {
		display[i] = 0xFF
	}

	d.exchange(display)
	return nil
}

func (d *apa102Driver) close() {}

// packRGB encodes a led as 0x00RRGGBB, the word format of the ws281x
// library.
func packRGB(value led.Led, correction [3]float64) uint32 {
	return uint32(corrected(value.Red, correction[0]))<<16 |
		uint32(corrected(value.Green, correction[1]))<<8 |
		uint32(corrected(value.Blue, correction[2]))
}
