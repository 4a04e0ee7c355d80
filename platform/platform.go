package platform

import (
	"lautenbacher.net/gosaber/input"
	"lautenbacher.net/gosaber/led"
)

// Platform defines the interface for abstracting away the real hardware
// from the TUI simulation.
type Platform interface {
	// Start initializes the platform (e.g., opens GPIO/SPI/I2C, or starts the TUI).
	Start() error

	// Stop cleans up all platform resources.
	Stop()

	// Ready is closed once the platform can be used.
	Ready() <-chan bool

	// DisplayLeds sends the complete state of all LEDs to the output device.
	DisplayLeds(leds []led.Led) error

	input.Sampler

	// SetPower drives the power-enable output of the external components.
	SetPower(on bool)

	// ShowColor mirrors the blade color on the indicator LED, if there is one.
	ShowColor(value led.Led)

	// ShowMode is a diagnostics hook called on every mode change.
	ShowMode(mode string)
}
