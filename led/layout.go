package led

import (
	"fmt"
	"log/slog"
	"sort"

	c "lautenbacher.net/gosaber/config"
)

// Layout maps the logical blade (index 0 at the hilt) onto the physical
// LED chain. A blade is made of one or more segments, each covering a
// contiguous range of physical LEDs. A reversed segment runs from its
// last LED back to its first one, which is how a strip folded back
// down the blade is wired. Physical LEDs not covered by any segment
// stay dark.
type Layout struct {
	ledsTotal int
	segments  []*segment
	gaps      []*segment
	length    int
}

// segment represents a single run of physical LEDs.
type segment struct {
	firstLed int
	lastLed  int
	reverse  bool
	visible  bool
	// offset of the segment's first pixel in the logical blade
	offset int
}

// NewLayout builds the layout for ledsTotal physical LEDs. An empty
// segment list maps the blade 1:1 onto the chain.
func NewLayout(ledsTotal int, segcfg []c.SegmentCfg) (*Layout, error) {
	if ledsTotal <= 0 {
		return nil, fmt.Errorf("number of LEDs must be positive, got %d", ledsTotal)
	}
	l := &Layout{ledsTotal: ledsTotal}
	if len(segcfg) == 0 {
		segcfg = []c.SegmentCfg{{FirstLed: 0, LastLed: ledsTotal - 1}}
	}

	used := make([]bool, ledsTotal)
	offset := 0
	for _, cfg := range segcfg {
		seg := newSegment(cfg.FirstLed, cfg.LastLed, cfg.Reverse, true, ledsTotal)
		for i := seg.firstLed; i <= seg.lastLed; i++ {
			if used[i] {
				return nil, fmt.Errorf("overlapping display segments at index %d", i)
			}
			used[i] = true
		}
		seg.offset = offset
		offset += seg.len()
		l.segments = append(l.segments, seg)
	}
	l.length = offset

	// The gaps are only kept so that they are explicitly blanked.
	start := -1
	for index, elem := range used {
		if start == -1 && !elem {
			start = index
		} else if start != -1 && elem {
			l.gaps = append(l.gaps, newSegment(start, index-1, false, false, ledsTotal))
			start = -1
		}
	}
	if start != -1 {
		l.gaps = append(l.gaps, newSegment(start, len(used)-1, false, false, ledsTotal))
	}
	sort.Slice(l.gaps, func(i, j int) bool { return l.gaps[i].firstLed < l.gaps[j].firstLed })

	return l, nil
}

// Len is the number of logical blade pixels.
func (l *Layout) Len() int {
	return l.length
}

// LedsTotal is the number of physical LEDs.
func (l *Layout) LedsTotal() int {
	return l.ledsTotal
}

// apply copies the logical pixels into their physical positions.
func (l *Layout) apply(pixels []Led, physical []Led) {
	for _, seg := range l.segments {
		for i := 0; i < seg.len(); i++ {
			physical[seg.physicalIndex(i)] = pixels[seg.offset+i]
		}
	}
	for _, gap := range l.gaps {
		for i := gap.firstLed; i <= gap.lastLed; i++ {
			physical[i] = Off
		}
	}
}

// newSegment creates a new segment instance.
func newSegment(firstled, lastled int, reverse bool, visible bool, ledsTotal int) *segment {
	if firstled > lastled {
		slog.Warn("First led index is bigger than last led index - reversing", "first", firstled, "last", lastled)
		firstled, lastled = lastled, firstled
	}
	return &segment{
		firstLed: clamp(firstled, ledsTotal),
		lastLed:  clamp(lastled, ledsTotal),
		reverse:  reverse,
		visible:  visible,
	}
}

func (s *segment) len() int {
	return s.lastLed - s.firstLed + 1
}

// physicalIndex translates the i-th pixel of the segment to the chain.
func (s *segment) physicalIndex(i int) int {
	if s.reverse {
		return s.lastLed - i
	}
	return s.firstLed + i
}

// clamp ensures the LED index is within bounds.
func clamp(led int, ledsTotal int) int {
	if led < 0 {
		slog.Warn("led index is smaller than 0 - using 0", "index", led)
		return 0
	} else if led <= ledsTotal-1 {
		return led
	}
	slog.Warn("led index is bigger than max index - using max", "index", led, "max", ledsTotal-1)
	return ledsTotal - 1
}
