package platform

import (
	"encoding/binary"
	"fmt"

	"lautenbacher.net/gosaber/config"
	"lautenbacher.net/gosaber/input"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2creg"
)

// LIS3DH registers
const (
	regWhoAmI      = 0x0F
	regCtrl1       = 0x20
	regCtrl3       = 0x22
	regCtrl4       = 0x23
	regCtrl5       = 0x24
	regOutXL       = 0x28
	regClickCfg    = 0x38
	regClickSrc    = 0x39
	regClickThs    = 0x3A
	regTimeLimit   = 0x3B
	regTimeLatency = 0x3C
	regTimeWindow  = 0x3D

	lis3dhDeviceID  = 0x33
	autoIncrement   = 0x80
	standardGravity = 9.80665
)

// registerConn is the part of an i2c device the sensor needs.
type registerConn interface {
	Tx(w, r []byte) error
}

// lis3dh reads acceleration and single taps from the accelerometer.
type lis3dh struct {
	bus     i2c.BusCloser
	dev     registerConn
	divider float64
}

// rangeSettings maps the measuring range in G to the CTRL_REG4 range
// bits and the raw value divider.
var rangeSettings = map[int]struct {
	bits    byte
	divider float64
}{
	2:  {0b00, 16380},
	4:  {0b01, 8190},
	8:  {0b10, 4096},
	16: {0b11, 1365},
}

func openLis3dh(cfg config.AccelerometerConfig, tapThreshold int) (*lis3dh, error) {
	bus, err := i2creg.Open(cfg.Bus)
	if err != nil {
		return nil, fmt.Errorf("failed to open i2c bus %q: %w", cfg.Bus, err)
	}
	sensor, err := newLis3dh(&i2c.Dev{Addr: cfg.Address, Bus: bus}, cfg.Range, tapThreshold)
	if err != nil {
		bus.Close()
		return nil, err
	}
	sensor.bus = bus
	return sensor, nil
}

func newLis3dh(dev registerConn, gRange int, tapThreshold int) (*lis3dh, error) {
	setting, ok := rangeSettings[gRange]
	if !ok {
		return nil, fmt.Errorf("unsupported accelerometer range %dG", gRange)
	}
	s := &lis3dh{dev: dev, divider: setting.divider}

	id, err := s.readRegister(regWhoAmI)
	if err != nil {
		return nil, fmt.Errorf("failed to read accelerometer id: %w", err)
	}
	if id != lis3dhDeviceID {
		return nil, fmt.Errorf("unexpected accelerometer id 0x%02x, want 0x%02x", id, lis3dhDeviceID)
	}

	ctrl3, err := s.readRegister(regCtrl3)
	if err != nil {
		return nil, fmt.Errorf("failed to read accelerometer CTRL_REG3: %w", err)
	}

	init := []struct {
		reg, value byte
	}{
		// 400Hz, all axes enabled
		{regCtrl1, 0x77},
		// block data update, high resolution
		{regCtrl4, 0x88 | setting.bits<<4},
		// click interrupt on INT1
		{regCtrl3, ctrl3 | 0x80},
		// latch interrupt on INT1
		{regCtrl5, 0x08},
		// single tap on all axes
		{regClickCfg, 0x15},
		{regClickThs, byte(tapThreshold) | 0x80},
		{regTimeLimit, 10},
		{regTimeLatency, 20},
		{regTimeWindow, 255},
	}
	for _, w := range init {
		if err := s.writeRegister(w.reg, w.value); err != nil {
			return nil, fmt.Errorf("failed to configure accelerometer register 0x%02x: %w", w.reg, err)
		}
	}
	return s, nil
}

func (s *lis3dh) readRegister(reg byte) (byte, error) {
	read := make([]byte, 1)
	if err := s.dev.Tx([]byte{reg}, read); err != nil {
		return 0, err
	}
	return read[0], nil
}

func (s *lis3dh) writeRegister(reg, value byte) error {
	return s.dev.Tx([]byte{reg, value}, nil)
}

// sample reads the tap latch and the acceleration of all three axes.
func (s *lis3dh) sample() (input.MotionSample, error) {
	click, err := s.readRegister(regClickSrc)
	if err != nil {
		return input.MotionSample{}, fmt.Errorf("failed to read click source: %w", err)
	}

	raw := make([]byte, 6)
	if err := s.dev.Tx([]byte{regOutXL | autoIncrement}, raw); err != nil {
		return input.MotionSample{}, fmt.Errorf("failed to read acceleration: %w", err)
	}

	axis := func(i int) float64 {
		return float64(int16(binary.LittleEndian.Uint16(raw[2*i:]))) / s.divider * standardGravity
	}
	return input.MotionSample{
		Tapped: click&0x40 != 0,
		X:      axis(0),
		Y:      axis(1),
		Z:      axis(2),
	}, nil
}

func (s *lis3dh) close() error {
	if s.bus == nil {
		return nil
	}
	return s.bus.Close()
}
