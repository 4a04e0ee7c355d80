package input

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

const (
	testDebounce = 10 * time.Millisecond
	testLong     = 1000 * time.Millisecond
	testWindow   = 200 * time.Millisecond
)

var t0 = time.Unix(1700000000, 0)

func at(ms int) time.Time {
	return t0.Add(time.Duration(ms) * time.Millisecond)
}

// press simulates a clean press from down to up (both in ms).
func press(b *Button, down, up int) {
	b.Update(true, at(down))
	b.Update(true, at(down+10))
	b.Update(false, at(up))
	b.Update(false, at(up+10))
}

func TestButton_ShortPress(t *testing.T) {
	b := NewButton(testDebounce, testLong, testWindow)

	press(b, 0, 100)
	assert.True(t, b.Event().IsEmpty(), "short press must wait for the window to pass")

	b.Update(false, at(310))
	assert.Equal(t, ButtonEvent{ShortCount: 1}, b.Event())
	assert.True(t, b.Event().IsEmpty(), "event must be cleared after reading")
}

func TestButton_DoublePress(t *testing.T) {
	b := NewButton(testDebounce, testLong, testWindow)

	press(b, 0, 100)
	press(b, 150, 200)
	b.Update(false, at(300))
	assert.True(t, b.Event().IsEmpty())

	b.Update(false, at(410))
	assert.Equal(t, ButtonEvent{ShortCount: 2}, b.Event())
}

func TestButton_LongPress(t *testing.T) {
	b := NewButton(testDebounce, testLong, testWindow)

	b.Update(true, at(0))
	b.Update(true, at(10))
	b.Update(true, at(500))
	assert.True(t, b.Event().IsEmpty())
	assert.True(t, b.Pressed())

	b.Update(true, at(1010))
	assert.Equal(t, ButtonEvent{LongPress: true}, b.Event())

	// Still held: long press is only reported once
	b.Update(true, at(2500))
	assert.True(t, b.Event().IsEmpty())

	// Release after a long press is no short press
	b.Update(false, at(2600))
	b.Update(false, at(2610))
	b.Update(false, at(3000))
	assert.True(t, b.Event().IsEmpty())
	assert.False(t, b.Pressed())
}

func TestButton_BounceIsIgnored(t *testing.T) {
	b := NewButton(testDebounce, testLong, testWindow)

	b.Update(true, at(0))
	b.Update(false, at(2))
	b.Update(true, at(4))
	b.Update(false, at(6))
	b.Update(false, at(20))
	b.Update(false, at(500))

	assert.False(t, b.Pressed())
	assert.True(t, b.Event().IsEmpty())
}

func TestButton_UnreadEventsAccumulate(t *testing.T) {
	b := NewButton(testDebounce, testLong, testWindow)

	press(b, 0, 100)
	b.Update(false, at(400))
	press(b, 500, 600)
	b.Update(false, at(900))

	assert.Equal(t, ButtonEvent{ShortCount: 2}, b.Event())
}

func TestButton_NoDebounce(t *testing.T) {
	b := NewButton(0, testLong, 0)

	b.Update(true, at(0))
	assert.True(t, b.Pressed())
	b.Update(false, at(50))
	assert.Equal(t, ButtonEvent{ShortCount: 1}, b.Event())
}

func TestMotionSample_Magnitude(t *testing.T) {
	m := MotionSample{X: 3, Y: 100, Z: 4}
	// y is not part of the swing magnitude and there is no square root
	assert.Equal(t, float64(25), m.Magnitude())
}
