package platform

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"sync"

	"github.com/gammazero/deque"
	"lautenbacher.net/gosaber/input"
)

const (
	maxMotionHistory = 500
	colWidth         = 22
)

// motionHistory keeps the most recent swing magnitudes and the number
// of taps seen so far. It is safe for concurrent use.
type motionHistory struct {
	mu        sync.Mutex
	values    *deque.Deque[float64]
	taps      int
	last      input.MotionSample
	threshold float64
	capacity  int
}

type motionStats struct {
	min    float64
	max    float64
	mean   float64
	median float64
	stdDev float64
}

func newMotionHistory(capacity int, threshold float64) *motionHistory {
	values := new(deque.Deque[float64])
	values.Grow(capacity)
	return &motionHistory{
		values:    values,
		threshold: threshold,
		capacity:  capacity,
	}
}

func (h *motionHistory) add(sample input.MotionSample) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.values.Len() == h.capacity {
		h.values.PopFront()
	}
	h.values.PushBack(sample.Magnitude())
	if sample.Tapped {
		h.taps++
	}
	h.last = sample
}

func (h *motionHistory) stats() motionStats {
	h.mu.Lock()
	defer h.mu.Unlock()

	data := make([]float64, h.values.Len())
	for i := range h.values.Len() {
		data[i] = h.values.At(i)
	}
	return calculateStats(data)
}

// lines renders the history as three fixed-width text lines with tview
// color tags.
func (h *motionHistory) lines() (string, string, string) {
	stats := h.stats()

	h.mu.Lock()
	taps, last, threshold := h.taps, h.last, h.threshold
	h.mu.Unlock()

	var buft, bufm, bufb strings.Builder
	buft.WriteString(fmt.Sprintf("[yellow]%-*s[white]", colWidth, " [min|mean|max]"))
	bufm.WriteString(fmt.Sprintf("[yellow]%-*s[white]", colWidth, " Median | Std. Dev."))
	bufb.WriteString(fmt.Sprintf("[yellow]%-*s[white]", colWidth, " Taps | Swing at"))

	buft.WriteString(fmt.Sprintf(" [%5.0f|%5.0f|%5.0f]", stats.min, math.Round(stats.mean), stats.max))
	bufm.WriteString(fmt.Sprintf(" %5.0f | %6.1f", stats.median, stats.stdDev))
	bufb.WriteString(fmt.Sprintf("   [blue]%4d[-] | %-5.0f", taps, threshold))

	buft.WriteString(fmt.Sprintf("   x:%6.2f", last.X))
	bufm.WriteString(fmt.Sprintf("     y:%6.2f", last.Y))
	bufb.WriteString(fmt.Sprintf("   z:%6.2f", last.Z))

	return buft.String(), bufm.String(), bufb.String()
}

func calculateStats(data []float64) motionStats {
	if len(data) == 0 {
		return motionStats{}
	}

	var sum float64
	min, max := data[0], data[0]
	for _, v := range data {
		if v < min {
			min = v
		}
		if v > max {
			max = v
		}
		sum += v
	}

	mean := sum / float64(len(data))

	sort.Float64s(data)
	var median float64
	mid := len(data) / 2
	if len(data)%2 == 0 {
		median = (data[mid-1] + data[mid]) / 2.0
	} else {
		median = data[mid]
	}

	var sumOfSquares float64
	for _, v := range data {
		sumOfSquares += (v - mean) * (v - mean)
	}
	stdDev := math.Sqrt(sumOfSquares / float64(len(data)))

	return motionStats{
		min:    min,
		max:    max,
		mean:   mean,
		median: median,
		stdDev: stdDev,
	}
}
