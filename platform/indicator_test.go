package platform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"periph.io/x/conn/v3/gpio"
)

func TestInvertedDuty(t *testing.T) {
	assert.Equal(t, gpio.DutyMax, invertedDuty(0))
	assert.Equal(t, gpio.Duty(0), invertedDuty(255))
	assert.InDelta(t, float64(gpio.DutyHalf), float64(invertedDuty(128)), float64(gpio.DutyMax)/255)
}
