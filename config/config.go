package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const CONFILE = "config.yml"

type Config struct {
	RealHW     bool           `yaml:"-"`
	Configfile string         `yaml:"-"`
	Saber      SaberConfig    `yaml:"Saber"`
	Sounds     SoundsConfig   `yaml:"Sounds"`
	Hardware   HardwareConfig `yaml:"Hardware"`
	Logging    LoggingConfig  `yaml:"Logging"`
}

type SaberConfig struct {
	TapThreshold      int           `yaml:"TapThreshold"`
	SwingThreshold    float64       `yaml:"SwingThreshold"`
	LongPress         time.Duration `yaml:"LongPress"`
	ShortPressWindow  time.Duration `yaml:"ShortPressWindow"`
	Debounce          time.Duration `yaml:"Debounce"`
	SettleTime        time.Duration `yaml:"SettleTime"`
	LoopDelay         time.Duration `yaml:"LoopDelay"`
	ReactionPollDelay time.Duration `yaml:"ReactionPollDelay"`
	SaberColor        int           `yaml:"SaberColor"`
}

type SoundsConfig struct {
	Directory  string        `yaml:"Directory"`
	Backend    string        `yaml:"Backend"`
	SampleRate int           `yaml:"SampleRate"`
	BufferSize time.Duration `yaml:"BufferSize"`
}

type HardwareConfig struct {
	LEDType       string              `yaml:"LEDType"`
	SPIFrequency  int                 `yaml:"SPIFrequency"`
	Display       DisplayConfig       `yaml:"Display"`
	Button        ButtonConfig        `yaml:"Button"`
	Power         PowerConfig         `yaml:"Power"`
	Accelerometer AccelerometerConfig `yaml:"Accelerometer"`
	Indicator     IndicatorConfig     `yaml:"Indicator"`
}

type DisplayConfig struct {
	LedsTotal         int          `yaml:"LedsTotal"`
	Brightness        float64      `yaml:"Brightness"`
	ColorCorrection   []float64    `yaml:"ColorCorrection"`
	APA102_Brightness byte         `yaml:"APA102_Brightness"`
	GpioPin           int          `yaml:"GpioPin"`
	Segments          []SegmentCfg `yaml:"Segments"`
}

type SegmentCfg struct {
	FirstLed int  `yaml:"FirstLed"`
	LastLed  int  `yaml:"LastLed"`
	Reverse  bool `yaml:"Reverse"`
}

type ButtonConfig struct {
	Pin int `yaml:"Pin"`
}

type PowerConfig struct {
	Pin int `yaml:"Pin"`
}

type AccelerometerConfig struct {
	Bus     string `yaml:"Bus"`
	Address uint16 `yaml:"Address"`
	Range   int    `yaml:"Range"`
}

type IndicatorConfig struct {
	Enabled   bool   `yaml:"Enabled"`
	RedPin    int    `yaml:"RedPin"`
	GreenPin  int    `yaml:"GreenPin"`
	BluePin   int    `yaml:"BluePin"`
	Frequency string `yaml:"Frequency"`
}

type LoggingConfig struct {
	TUI LogConfig `yaml:"TUI"`
	HW  LogConfig `yaml:"HW"`
}

type LogConfig struct {
	Level  string `yaml:"Level"`
	Format string `yaml:"Format"`
	File   string `yaml:"File"`
}

// Default returns the configuration of the reference device. Values
// read from a config file are decoded on top of it.
func Default() *Config {
	return &Config{
		Saber: SaberConfig{
			TapThreshold:      120,
			SwingThreshold:    130,
			LongPress:         1000 * time.Millisecond,
			ShortPressWindow:  200 * time.Millisecond,
			Debounce:          10 * time.Millisecond,
			SettleTime:        1 * time.Second,
			LoopDelay:         5 * time.Millisecond,
			ReactionPollDelay: 2 * time.Millisecond,
			SaberColor:        3,
		},
		Sounds: SoundsConfig{
			Directory:  "sounds",
			Backend:    "speaker",
			SampleRate: 22050,
			BufferSize: 50 * time.Millisecond,
		},
		Hardware: HardwareConfig{
			LEDType:      "WS2812",
			SPIFrequency: 1000000,
			Display: DisplayConfig{
				LedsTotal:         100,
				Brightness:        0.8,
				ColorCorrection:   []float64{1, 1, 1},
				APA102_Brightness: 31,
				GpioPin:           18,
			},
			Button:        ButtonConfig{Pin: 17},
			Power:         PowerConfig{Pin: 27},
			Accelerometer: AccelerometerConfig{Address: 0x18, Range: 2},
			Indicator: IndicatorConfig{
				RedPin:    12,
				GreenPin:  13,
				BluePin:   19,
				Frequency: "1kHz",
			},
		},
		Logging: LoggingConfig{
			TUI: LogConfig{Level: "DEBUG", Format: "text"},
			HW:  LogConfig{Level: "INFO", Format: "text"},
		},
	}
}

// ReadConfig reads and validates the config file cfile.
func ReadConfig(cfile string) (*Config, error) {
	f, err := os.Open(cfile)
	if err != nil {
		return nil, fmt.Errorf("can't find config file %s: %w", cfile, err)
	}
	defer f.Close()

	conf := Default()
	decoder := yaml.NewDecoder(f)
	decoder.KnownFields(true)
	if err := decoder.Decode(conf); err != nil {
		return nil, fmt.Errorf("can't decode config file %s: %w", cfile, err)
	}
	if err := conf.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", cfile, err)
	}
	conf.Configfile = cfile
	return conf, nil
}

// Validate checks the semantic consistency of the configuration and
// returns all problems found joined into one error.
func (c *Config) Validate() error {
	var errs []error

	s := c.Saber
	if s.TapThreshold < 0 || s.TapThreshold > 127 {
		errs = append(errs, fmt.Errorf("Saber.TapThreshold %d must be between 0 and 127", s.TapThreshold))
	}
	if s.SwingThreshold <= 0 {
		errs = append(errs, fmt.Errorf("Saber.SwingThreshold must be positive"))
	}
	if s.LongPress <= 0 {
		errs = append(errs, fmt.Errorf("Saber.LongPress must be positive"))
	}
	if s.ShortPressWindow < 0 || s.Debounce < 0 || s.SettleTime < 0 || s.LoopDelay < 0 || s.ReactionPollDelay < 0 {
		errs = append(errs, fmt.Errorf("Saber durations must not be negative"))
	}
	if s.Debounce >= s.LongPress {
		errs = append(errs, fmt.Errorf("Saber.Debounce %s must be shorter than Saber.LongPress %s", s.Debounce, s.LongPress))
	}
	// SaberColor 6 (white) is displayable but not selectable
	if s.SaberColor < 0 || s.SaberColor > 6 {
		errs = append(errs, fmt.Errorf("Saber.SaberColor %d must be between 0 and 6", s.SaberColor))
	}

	switch strings.ToLower(c.Sounds.Backend) {
	case "speaker", "portaudio", "silent":
	default:
		errs = append(errs, fmt.Errorf("unknown Sounds.Backend %q", c.Sounds.Backend))
	}
	if c.Sounds.SampleRate <= 0 {
		errs = append(errs, fmt.Errorf("Sounds.SampleRate must be positive"))
	}
	if c.Sounds.BufferSize <= 0 {
		errs = append(errs, fmt.Errorf("Sounds.BufferSize must be positive"))
	}

	h := c.Hardware
	switch strings.ToUpper(h.LEDType) {
	case "WS2812", "APA102", "WS2801":
	default:
		errs = append(errs, fmt.Errorf("unknown LED type: %s", h.LEDType))
	}
	d := h.Display
	if d.LedsTotal <= 0 {
		errs = append(errs, fmt.Errorf("Hardware.Display.LedsTotal must be positive"))
	}
	if d.Brightness < 0 || d.Brightness > 1 {
		errs = append(errs, fmt.Errorf("Hardware.Display.Brightness %g must be between 0 and 1", d.Brightness))
	}
	if len(d.ColorCorrection) != 3 {
		errs = append(errs, fmt.Errorf("Hardware.Display.ColorCorrection must have exactly 3 values"))
	}
	for i, factor := range d.ColorCorrection {
		if factor < 0 {
			errs = append(errs, fmt.Errorf("Hardware.Display.ColorCorrection[%d] %g must not be negative", i, factor))
		}
	}
	if d.APA102_Brightness > 31 {
		errs = append(errs, fmt.Errorf("Hardware.Display.APA102_Brightness %d must be between 0 and 31", d.APA102_Brightness))
	}
	for i, seg := range d.Segments {
		for _, idx := range []int{seg.FirstLed, seg.LastLed} {
			if idx < 0 || idx >= d.LedsTotal {
				errs = append(errs, fmt.Errorf("Hardware.Display.Segments[%d]: led index %d must be between 0 and %d", i, idx, d.LedsTotal-1))
			}
		}
	}
	if h.Accelerometer.Range != 2 && h.Accelerometer.Range != 4 && h.Accelerometer.Range != 8 && h.Accelerometer.Range != 16 {
		errs = append(errs, fmt.Errorf("Hardware.Accelerometer.Range %d must be one of 2, 4, 8, 16", h.Accelerometer.Range))
	}

	return errors.Join(errs...)
}
