package input

import "time"

// Button debounces a raw button level and turns it into short and long
// press events.
//
// A press that is released before the long press duration counts as a
// short press. Consecutive short presses are collected and only
// reported once no new press started within the short press window, so
// a double click is reported as ShortCount 2. Holding the button past
// the long press duration reports LongPress once; the following release
// does not count as a short press.
type Button struct {
	debounce    time.Duration
	longPress   time.Duration
	shortWindow time.Duration

	raw         bool
	rawChanged  time.Time
	stable      bool
	pressStart  time.Time
	longFired   bool
	shortCount  int
	lastRelease time.Time
	pending     ButtonEvent
}

func NewButton(debounce, longPress, shortWindow time.Duration) *Button {
	return &Button{
		debounce:    debounce,
		longPress:   longPress,
		shortWindow: shortWindow,
	}
}

// Update feeds the current level of the button; pressed is true while
// the button is held down. It must be called regularly, typically once
// per control loop tick.
func (b *Button) Update(pressed bool, now time.Time) {
	if pressed != b.raw {
		b.raw = pressed
		b.rawChanged = now
	}

	if b.raw != b.stable && now.Sub(b.rawChanged) >= b.debounce {
		b.stable = b.raw
		if b.stable {
			b.pressStart = now
			b.longFired = false
		} else if !b.longFired {
			b.shortCount++
			b.lastRelease = now
		}
	}

	if b.stable && !b.longFired && now.Sub(b.pressStart) >= b.longPress {
		b.longFired = true
		b.pending.LongPress = true
		// short presses leading into a long press are dropped
		b.shortCount = 0
	}

	if b.shortCount > 0 && !b.stable && now.Sub(b.lastRelease) >= b.shortWindow {
		b.pending.ShortCount += b.shortCount
		b.shortCount = 0
	}
}

// Event returns the pending event and clears it.
func (b *Button) Event() ButtonEvent {
	ev := b.pending
	b.pending = ButtonEvent{}
	return ev
}

// Pressed returns the debounced level.
func (b *Button) Pressed() bool {
	return b.stable
}
