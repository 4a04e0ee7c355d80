package led

type Led struct {
	Red   byte
	Green byte
	Blue  byte
}

// True if all components are zero, false otherwise
func (s Led) IsEmpty() bool {
	return s.Red == 0 && s.Green == 0 && s.Blue == 0
}

// Return the Led with every component multiplied by factor, clamped
// to the byte range
func (s Led) Scale(factor float64) Led {
	return Led{
		Red:   scaleComponent(s.Red, factor),
		Green: scaleComponent(s.Green, factor),
		Blue:  scaleComponent(s.Blue, factor),
	}
}

func scaleComponent(v byte, factor float64) byte {
	f := float64(v) * factor
	if f <= 0 {
		return 0
	}
	if f >= 255 {
		return 255
	}
	return byte(f + 0.5)
}

// Local Variables:
// compile-command: "cd .. && go build"
// End:
