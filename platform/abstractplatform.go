package platform

import (
	c "lautenbacher.net/gosaber/config"
)

// AbstractPlatform holds what the real and the simulated platform have
// in common.
type AbstractPlatform struct {
	config    *c.Config
	readyChan chan bool
	history   *motionHistory
}

func newAbstractPlatform(conf *c.Config) *AbstractPlatform {
	return &AbstractPlatform{
		config:    conf,
		readyChan: make(chan bool),
		history:   newMotionHistory(maxMotionHistory, conf.Saber.SwingThreshold),
	}
}

func (s *AbstractPlatform) Ready() <-chan bool {
	return s.readyChan
}

// GetLedsTotal returns the number of physical LEDs.
func (s *AbstractPlatform) GetLedsTotal() int {
	return s.config.Hardware.Display.LedsTotal
}
