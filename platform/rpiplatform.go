package platform

import (
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/stianeikeland/go-rpio/v4"
	"lautenbacher.net/gosaber/config"
	"lautenbacher.net/gosaber/input"
	"lautenbacher.net/gosaber/led"
	"periph.io/x/host/v3"
)

type RaspberryPiPlatform struct {
	*AbstractPlatform
	ledDriver    ledDriver
	rpioOpen     bool
	spiOpen      bool
	button       rpio.Pin
	power        rpio.Pin
	debouncer    *input.Button
	accel        *lis3dh
	indicator    *pwmIndicator
	motionViewer *MotionViewer
	viewerWg     sync.WaitGroup
	viewerStop   chan struct{}
}

func NewRaspberryPiPlatform(conf *config.Config) *RaspberryPiPlatform {
	return &RaspberryPiPlatform{
		AbstractPlatform: newAbstractPlatform(conf),
		debouncer: input.NewButton(
			conf.Saber.Debounce,
			conf.Saber.LongPress,
			conf.Saber.ShortPressWindow,
		),
		viewerStop: make(chan struct{}),
	}
}

// SetMotionViewer attaches an optional TUI viewer for accelerometer data.
func (s *RaspberryPiPlatform) SetMotionViewer(v *MotionViewer) {
	s.motionViewer = v
	v.attach(s.history)
}

func (s *RaspberryPiPlatform) Start() error {
	hw := s.config.Hardware

	slog.Info("Initialise GPIO, Spi and I2C...")
	if err := rpio.Open(); err != nil {
		return fmt.Errorf("failed to open rpio: %w", err)
	}
	s.rpioOpen = true

	s.power = rpio.Pin(hw.Power.Pin)
	s.power.Output()
	s.button = rpio.Pin(hw.Button.Pin)
	s.button.Input()
	s.button.PullUp()

	if _, err := host.Init(); err != nil {
		return fmt.Errorf("failed to init periph: %w", err)
	}

	var err error
	s.accel, err = openLis3dh(hw.Accelerometer, s.config.Saber.TapThreshold)
	if err != nil {
		return err
	}

	if hw.Indicator.Enabled {
		if s.indicator, err = newPwmIndicator(hw.Indicator); err != nil {
			return err
		}
	}

	switch strings.ToUpper(hw.LEDType) {
	case "WS2812":
		if s.ledDriver, err = newWs2812Driver(hw.Display); err != nil {
			return err
		}
	case "APA102":
		if err := s.beginSpi(); err != nil {
			return err
		}
		s.ledDriver = newApa102Driver(hw.Display, s.spiExchange)
	case "WS2801":
		if err := s.beginSpi(); err != nil {
			return err
		}
		s.ledDriver = newWs2801Driver(hw.Display, s.spiExchange)
	default:
		return fmt.Errorf("unknown LED type: %s", hw.LEDType)
	}

	if s.motionViewer != nil {
		s.viewerWg.Add(1)
		go s.motionViewer.Start(s.viewerStop, &s.viewerWg)
	}

	close(s.readyChan) // For RPi, we are ready immediately.
	return nil
}

func (s *RaspberryPiPlatform) beginSpi() error {
	if err := rpio.SpiBegin(rpio.Spi0); err != nil {
		return fmt.Errorf("failed to begin spi: %w", err)
	}
	rpio.SpiSpeed(s.config.Hardware.SPIFrequency)
	s.spiOpen = true
	return nil
}

func (s *RaspberryPiPlatform) spiExchange(data []byte) {
	rpio.SpiExchange(data)
}

func (s *RaspberryPiPlatform) Stop() {
	if s.ledDriver != nil {
		blank := make([]led.Led, s.GetLedsTotal())
		if err := s.ledDriver.write(blank); err != nil {
			slog.Error("Error blanking LEDs", "error", err)
		}
		s.ledDriver.close()
		s.ledDriver = nil
	}
	if s.spiOpen {
		rpio.SpiEnd(rpio.Spi0)
		s.spiOpen = false
	}
	if s.accel != nil {
		if err := s.accel.close(); err != nil {
			slog.Error("Error closing i2c bus", "error", err)
		}
		s.accel = nil
	}
	if s.indicator != nil {
		s.indicator.halt()
		s.indicator = nil
	}
	if s.rpioOpen {
		s.power.Low()
		if err := rpio.Close(); err != nil {
			slog.Error("Error closing rpio", "error", err)
		}
		s.rpioOpen = false
	}

	if s.motionViewer != nil {
		close(s.viewerStop)
		s.viewerWg.Wait()
	}
}

func (s *RaspberryPiPlatform) DisplayLeds(leds []led.Led) error {
	return s.ledDriver.write(leds)
}

func (s *RaspberryPiPlatform) SampleMotion() (input.MotionSample, error) {
	sample, err := s.accel.sample()
	if err != nil {
		return sample, err
	}
	s.history.add(sample)
	if s.motionViewer != nil {
		s.motionViewer.Update()
	}
	return sample, nil
}

// SampleButton reads the active-low button pin and returns the
// debounced event since the last call.
func (s *RaspberryPiPlatform) SampleButton() input.ButtonEvent {
	s.debouncer.Update(s.button.Read() == rpio.Low, time.Now())
	return s.debouncer.Event()
}

func (s *RaspberryPiPlatform) SetPower(on bool) {
	if on {
		s.power.High()
	} else {
		s.power.Low()
	}
}

func (s *RaspberryPiPlatform) ShowColor(value led.Led) {
	if s.indicator == nil {
		return
	}
	if err := s.indicator.show(value); err != nil {
		slog.Error("Error setting indicator color", "error", err)
	}
}

func (s *RaspberryPiPlatform) ShowMode(mode string) {}
