//go:build cgo

package platform

import (
	"fmt"

	ws2811 "github.com/rpi-ws281x/rpi-ws281x-go"
	"lautenbacher.net/gosaber/config"
	"lautenbacher.net/gosaber/led"
)

// ws2812Driver drives a NeoPixel strip through the PWM/DMA engine of
// the Pi. Brightness is handled by the library, so only the color
// correction is applied here.
type ws2812Driver struct {
	dev        *ws2811.WS2811
	correction [3]float64
}

func newWs2812Driver(displayConfig config.DisplayConfig) (ledDriver, error) {
	opt := ws2811.DefaultOptions
	opt.Channels[0].GpioPin = displayConfig.GpioPin
	opt.Channels[0].LedCount = displayConfig.LedsTotal
	opt.Channels[0].Brightness = int(displayConfig.Brightness * 255)

	dev, err := ws2811.MakeWS2811(&opt)
	if err != nil {
		return nil, fmt.Errorf("failed to create ws2811 device: %w", err)
	}
	if err := dev.Init(); err != nil {
		return nil, fmt.Errorf("failed to init ws2811 device: %w", err)
	}
	d := &ws2812Driver{dev: dev}
	copy(d.correction[:], displayConfig.ColorCorrection)
	return d, nil
}

func (d *ws2812Driver) write(leds []led.Led) error {
	out := d.dev.Leds(0)
	for i := range out {
		if i >= len(leds) {
			out[i] = 0
			continue
		}
		out[i] = packRGB(leds[i], d.correction)
	}
	if err := d.dev.Render(); err != nil {
		return fmt.Errorf("failed to render ws2811: %w", err)
	}
	return nil
}

func (d *ws2812Driver) close() {
	d.dev.Fini()
}
