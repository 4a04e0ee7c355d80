package input

import "fmt"

// MotionSample is one reading of the accelerometer.
type MotionSample struct {
	// Tapped reports the accelerometer's latched click detector.
	Tapped bool
	// Acceleration in m/s²
	X, Y, Z float64
}

// Magnitude returns the sum of the squared lateral and vertical
// acceleration. It is deliberately not a vector length; the swing
// threshold is tuned against the squared value.
func (m MotionSample) Magnitude() float64 {
	return m.X*m.X + m.Z*m.Z
}

func (m MotionSample) String() string {
	return fmt.Sprintf("tapped=%t x=%.2f y=%.2f z=%.2f", m.Tapped, m.X, m.Y, m.Z)
}

// ButtonEvent is the debounced button activity since the last sample.
type ButtonEvent struct {
	ShortCount int
	LongPress  bool
}

// IsEmpty is true if nothing happened.
func (e ButtonEvent) IsEmpty() bool {
	return e.ShortCount == 0 && !e.LongPress
}

// Sampler is the input side of the device. SampleButton consumes the
// pending button event, so it must be called exactly once per control
// loop tick. An error from SampleMotion means the sensor is gone.
type Sampler interface {
	SampleMotion() (MotionSample, error)
	SampleButton() ButtonEvent
}
