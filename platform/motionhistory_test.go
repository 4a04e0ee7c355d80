package platform

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"lautenbacher.net/gosaber/input"
)

func TestCalculateStats(t *testing.T) {
	stats := calculateStats([]float64{10, 20, 30, 40, 50})

	assert.Equal(t, 10.0, stats.min)
	assert.Equal(t, 50.0, stats.max)
	assert.Equal(t, 30.0, stats.mean)
	assert.Equal(t, 30.0, stats.median)
	// sqrt((400+100+0+100+400)/5)
	assert.InDelta(t, math.Sqrt(200), stats.stdDev, 1e-9)
}

func TestCalculateStats_Empty(t *testing.T) {
	assert.Equal(t, motionStats{}, calculateStats([]float64{}))
}

func TestCalculateStats_EvenLength(t *testing.T) {
	stats := calculateStats([]float64{40, 10, 30, 20})
	assert.Equal(t, 25.0, stats.median)
}

func TestMotionHistoryCapacity(t *testing.T) {
	h := newMotionHistory(3, 130)
	for i := 1; i <= 5; i++ {
		h.add(input.MotionSample{X: float64(i)})
	}
	h.add(input.MotionSample{Tapped: true})

	stats := h.stats()
	// magnitudes 16, 25, 0 remain
	assert.Equal(t, 0.0, stats.min)
	assert.Equal(t, 25.0, stats.max)
	assert.Equal(t, 3, h.values.Len())
	assert.Equal(t, 1, h.taps)
}

func TestMotionHistoryLines(t *testing.T) {
	h := newMotionHistory(10, 130)
	h.add(input.MotionSample{Tapped: true, X: 3, Y: 9.81, Z: 4})

	line1, line2, line3 := h.lines()
	assert.Contains(t, line1, "[   25|   25|   25]")
	assert.Contains(t, line2, "0.0")
	assert.Contains(t, line3, "1[-] | 130")
	assert.Contains(t, line2, "y:  9.81")
}

func TestMotionHistoryLinesShowMedian(t *testing.T) {
	h := newMotionHistory(10, 130)
	for _, x := range []float64{10, 1, 2} {
		h.add(input.MotionSample{X: x})
	}

	_, line2, _ := h.lines()
	// magnitudes 100, 1, 4
	assert.Contains(t, line2, "     4 |")
	assert.Contains(t, line2, "Median")
}
