package led

var (
	Red    = Led{Red: 255, Green: 0, Blue: 0}
	Yellow = Led{Red: 125, Green: 255, Blue: 0}
	Green  = Led{Red: 0, Green: 255, Blue: 0}
	Cyan   = Led{Red: 0, Green: 125, Blue: 255}
	Blue   = Led{Red: 0, Green: 0, Blue: 255}
	Purple = Led{Red: 125, Green: 0, Blue: 255}
	White  = Led{Red: 255, Green: 255, Blue: 255}
	Off    = Led{}
)

// Palette is the fixed, ordered list of blade colors. Only the first
// SelectableColors entries can be chosen by the user; the last one is
// reserved for the clash flash.
var Palette = [...]Led{Red, Yellow, Green, Cyan, Blue, Purple, White}

const (
	DefaultColor     = 3
	ClashColor       = 6
	SelectableColors = 6
)

var colorNames = [...]string{"red", "yellow", "green", "cyan", "blue", "purple", "white"}

// Color returns the palette entry for index. Panics on an index
// outside the palette.
func Color(index int) Led {
	return Palette[index]
}

// ColorName returns the human readable name of a palette index.
func ColorName(index int) string {
	if index < 0 || index >= len(colorNames) {
		return "unknown"
	}
	return colorNames[index]
}

// NextColor rotates through the selectable part of the palette.
func NextColor(index int) int {
	return (index + 1) % SelectableColors
}
