package controller

// Mode is the operating mode of the saber. Exactly one is current.
type Mode int

const (
	Startup Mode = iota
	Active
	Hit
	Swing
	ShuttingDown
	Off
	ColorSelect
)

var modeNames = [...]string{
	Startup:      "Startup",
	Active:       "Active",
	Hit:          "Hit",
	Swing:        "Swing",
	ShuttingDown: "ShuttingDown",
	Off:          "Off",
	ColorSelect:  "ColorSelect",
}

func (m Mode) String() string {
	if m < 0 || int(m) >= len(modeNames) {
		return "Unknown"
	}
	return modeNames[m]
}
