package platform

import (
	"fmt"

	"lautenbacher.net/gosaber/config"
	"lautenbacher.net/gosaber/led"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/physic"
)

// pwmIndicator drives a common anode RGB LED with three PWM pins.
type pwmIndicator struct {
	pins [3]gpio.PinIO
	freq physic.Frequency
}

func newPwmIndicator(cfg config.IndicatorConfig) (*pwmIndicator, error) {
	ind := &pwmIndicator{}
	if err := ind.freq.Set(cfg.Frequency); err != nil {
		return nil, fmt.Errorf("invalid indicator frequency %q: %w", cfg.Frequency, err)
	}
	for i, num := range []int{cfg.RedPin, cfg.GreenPin, cfg.BluePin} {
		pin := gpioreg.ByName(fmt.Sprintf("GPIO%d", num))
		if pin == nil {
			return nil, fmt.Errorf("failed to find pin %d", num)
		}
		ind.pins[i] = pin
	}
	return ind, nil
}

func (ind *pwmIndicator) show(value led.Led) error {
	for i, v := range []byte{value.Red, value.Green, value.Blue} {
		if err := ind.pins[i].PWM(invertedDuty(v), ind.freq); err != nil {
			return fmt.Errorf("failed to set indicator pin %s: %w", ind.pins[i], err)
		}
	}
	return nil
}

func (ind *pwmIndicator) halt() {
	for _, pin := range ind.pins {
		pin.Halt()
	}
}

// invertedDuty maps a channel value to the duty cycle of a common
// anode LED: full brightness means the pin is low all the time.
func invertedDuty(value byte) gpio.Duty {
	return gpio.DutyMax - gpio.Duty(int64(value)*int64(gpio.DutyMax)/255)
}
