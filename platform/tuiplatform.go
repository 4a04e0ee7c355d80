package platform

import (
	"fmt"
	"log/slog"
	"math"
	"os"
	"slices"
	"strings"
	"sync"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/rivo/tview"
	"golang.org/x/exp/maps"

	"lautenbacher.net/gosaber/config"
	"lautenbacher.net/gosaber/input"
	"lautenbacher.net/gosaber/led"
	"lautenbacher.net/gosaber/logging"
)

const (
	standingGravity = 9.81
	swingStep       = 10
)

var keyHelp = map[string]string{
	"b": "short press",
	"l": "long press",
	"t": "tap",
	"s": "swing",
}

type TUIPlatform struct {
	*AbstractPlatform
	tviewapp     *tview.Application
	intro        *tview.TextView
	ledDisplay   *tview.TextView
	status       *tview.TextView
	motionView   *tview.TextView
	logView      *tview.TextView
	ossignalChan chan os.Signal
	logFlushOnce sync.Once

	mu             sync.Mutex
	leds           []led.Led
	button         input.ButtonEvent
	tapPending     bool
	swingPending   bool
	swingMagnitude float64
	powered        bool
	indicator      led.Led
	mode           string
	lastMotionDraw time.Time
}

func NewTUIPlatform(conf *config.Config, ossignalchan chan os.Signal) *TUIPlatform {
	return &TUIPlatform{
		AbstractPlatform: newAbstractPlatform(conf),
		ossignalChan:     ossignalchan,
		leds:             make([]led.Led, conf.Hardware.Display.LedsTotal),
		swingMagnitude:   conf.Saber.SwingThreshold + 5*swingStep,
	}
}

func (s *TUIPlatform) Start() error {
	s.initSimulationTUI()
	return nil
}

func (s *TUIPlatform) Stop() {
	if s.tviewapp != nil {
		s.tviewapp.Stop()
	}
}

func (s *TUIPlatform) DisplayLeds(leds []led.Led) error {
	s.mu.Lock()
	copy(s.leds, leds)
	s.mu.Unlock()

	if s.tviewapp != nil {
		s.tviewapp.QueueUpdateDraw(s.simulateLedDisplay)
	}
	return nil
}

// SampleMotion returns a resting saber unless a tap or swing key was
// hit since the last sample.
func (s *TUIPlatform) SampleMotion() (input.MotionSample, error) {
	s.mu.Lock()
	sample := input.MotionSample{Tapped: s.tapPending, Y: standingGravity}
	if s.swingPending {
		sample.Z = math.Sqrt(s.swingMagnitude)
	}
	s.tapPending = false
	s.swingPending = false
	redraw := time.Since(s.lastMotionDraw) >= viewerRefresh || sample.Tapped || sample.Z != 0
	if redraw {
		s.lastMotionDraw = time.Now()
	}
	s.mu.Unlock()

	s.history.add(sample)
	if redraw && s.motionView != nil {
		line1, line2, line3 := s.history.lines()
		s.tviewapp.QueueUpdateDraw(func() {
			s.motionView.SetText(fmt.Sprintf("%s\n%s\n%s", line1, line2, line3))
		})
	}
	return sample, nil
}

func (s *TUIPlatform) SampleButton() input.ButtonEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	event := s.button
	s.button = input.ButtonEvent{}
	return event
}

func (s *TUIPlatform) SetPower(on bool) {
	s.mu.Lock()
	s.powered = on
	s.mu.Unlock()
	s.queueStatus()
}

func (s *TUIPlatform) ShowColor(value led.Led) {
	s.mu.Lock()
	s.indicator = value
	s.mu.Unlock()
	s.queueStatus()
}

func (s *TUIPlatform) ShowMode(mode string) {
	s.mu.Lock()
	s.mode = mode
	s.mu.Unlock()
	s.queueStatus()
}

func (s *TUIPlatform) queueStatus() {
	if s.tviewapp == nil {
		return
	}
	text := s.getStatusText()
	s.tviewapp.QueueUpdateDraw(func() {
		s.status.SetText(text)
	})
}

// handleKey applies a simulated input. It returns false for keys it
// does not know.
func (s *TUIPlatform) handleKey(key string) bool {
	s.mu.Lock()
	switch key {
	case "b", "B":
		s.button.ShortCount++
	case "l", "L":
		s.button.LongPress = true
	case "t", "T":
		s.tapPending = true
	case "s", "S":
		s.swingPending = true
	case "+":
		s.swingMagnitude += swingStep
	case "-":
		s.swingMagnitude = max(s.swingMagnitude-swingStep, 0)
	default:
		s.mu.Unlock()
		return false
	}
	s.mu.Unlock()

	slog.Debug("Simulated input", "key", key)
	if s.intro != nil {
		s.intro.SetText(s.getIntroText())
	}
	return true
}

// getIntroText generates the dynamic text for the top info pane.
func (s *TUIPlatform) getIntroText() string {
	s.mu.Lock()
	magnitude := s.swingMagnitude
	s.mu.Unlock()

	names := maps.Keys(keyHelp)
	slices.Sort(names)
	keys := make([]string, 0, len(names))
	for _, key := range names {
		keys = append(keys, fmt.Sprintf("[#ff0000]%s[-] %s", key, keyHelp[key]))
	}

	line1 := fmt.Sprintf("Swing magnitude: [#ffff00]%-5.0f[white] (threshold %.0f) | Hit [#ff0000]+[white]/[#ff0000]-[white] to change",
		magnitude, s.config.Saber.SwingThreshold)
	line2 := "Hit " + strings.Join(keys, ", ")
	line3 := "Hit [#ff0000]q[-] to exit, [#ff0000]r[-] to reload, [#ff0000]Up/Down[-] to scroll logs"

	return fmt.Sprintf("%s\n%s\n%s", line1, line2, line3)
}

func (s *TUIPlatform) getStatusText() string {
	s.mu.Lock()
	defer s.mu.Unlock()

	power := "[#ff0000]OFF[-]"
	if s.powered {
		power = "[#00ff00]ON[-]"
	}
	return fmt.Sprintf(" Power: %s | Indicator: %s●[-] | Mode: [#ffff00]%s[-]",
		power, tagColor(s.indicator), s.mode)
}

func (s *TUIPlatform) initSimulationTUI() {
	s.tviewapp = tview.NewApplication()

	// --- Intro Pane ---
	s.intro = tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignCenter)
	s.intro.SetText(s.getIntroText())
	s.intro.SetBorder(true).SetTitle(" GOSABER Simulation ").SetTitleColor(tcell.ColorLightBlue)
	s.intro.SetBackgroundColor(tcell.NewRGBColor(20, 20, 20))

	// --- Blade Pane ---
	s.ledDisplay = tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignLeft)
	s.ledDisplay.SetBorder(true).SetTitle(" Blade ")
	s.ledDisplay.SetBackgroundColor(tcell.NewRGBColor(30, 30, 30))

	// --- Status Pane ---
	s.status = tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignLeft)
	s.status.SetText(s.getStatusText())
	s.status.SetBackgroundColor(tcell.NewRGBColor(30, 30, 30))

	// --- Motion Pane ---
	s.motionView = tview.NewTextView().
		SetDynamicColors(true).
		SetTextAlign(tview.AlignLeft)
	s.motionView.SetBorder(true).SetTitle(" Motion ")
	s.motionView.SetBackgroundColor(tcell.NewRGBColor(30, 30, 30))

	// --- Log Pane ---
	s.logView = tview.NewTextView().
		SetDynamicColors(true).
		SetScrollable(true).
		SetChangedFunc(func() {
			s.logView.ScrollToEnd()
			s.tviewapp.Draw()
		})
	s.logView.SetBorder(true).SetTitle(" Logs ").SetTitleColor(tcell.ColorLightBlue)
	s.logView.SetBackgroundColor(tcell.NewRGBColor(40, 40, 40))

	// --- Layout ---
	layout := tview.NewFlex().SetDirection(tview.FlexRow).
		AddItem(s.intro, 5, 0, false).
		AddItem(s.ledDisplay, 3, 0, false).
		AddItem(s.status, 1, 0, false).
		AddItem(s.motionView, 5, 0, false).
		AddItem(s.logView, 0, 1, true)

	// --- Flush logs after first draw ---
	s.tviewapp.SetAfterDrawFunc(func(screen tcell.Screen) {
		s.logFlushOnce.Do(func() {
			logWriter := tview.ANSIWriter(s.logView)
			if err := logging.SetOutput(logWriter); err != nil {
				slog.Error("Error flushing logs to TUI", "error", err)
			}
			close(s.readyChan)
		})
	})

	// --- Input Handling ---
	s.tviewapp.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch event.Key() {
		case tcell.KeyCtrlC:
			s.ossignalChan <- os.Interrupt
			return nil
		case tcell.KeyRune:
			key := string(event.Rune())
			switch key {
			case "q", "Q":
				s.ossignalChan <- os.Interrupt
				return nil
			case "r", "R":
				s.ossignalChan <- syscall.SIGHUP
				return nil
			}
			if s.handleKey(key) {
				return nil
			}
		case tcell.KeyUp:
			row, col := s.logView.GetScrollOffset()
			s.logView.ScrollTo(row-1, col)
			return nil
		case tcell.KeyDown:
			row, col := s.logView.GetScrollOffset()
			s.logView.ScrollTo(row+1, col)
			return nil
		}
		return event
	})

	// --- Start TUI ---
	go func() {
		if err := s.tviewapp.SetRoot(layout, true).Run(); err != nil {
			slog.Error("Error running TUI", "error", err)
			s.ossignalChan <- os.Interrupt
		}
	}()
}

// simulateLedDisplay redraws the blade pane.
// This function must be called on the main TUI thread via app.QueueUpdateDraw().
func (s *TUIPlatform) simulateLedDisplay() {
	s.mu.Lock()
	line := renderBlade(s.leds, s.config.Hardware.Display.Brightness)
	s.mu.Unlock()
	s.ledDisplay.SetText(" " + line)
}

// renderBlade draws one character per physical LED, dimmed by the
// strip brightness.
func renderBlade(leds []led.Led, brightness float64) string {
	var buf strings.Builder
	buf.Grow(len(leds) * (len("[#000000]█") + 3))
	for _, v := range leds {
		if v.IsEmpty() {
			buf.WriteString("[#404040]·[-]")
			continue
		}
		col := toColorful(v).BlendRgb(colorful.Color{}, 1-brightness)
		buf.WriteString("[" + col.Clamped().Hex() + "]█[-]")
	}
	return buf.String()
}

func toColorful(v led.Led) colorful.Color {
	return colorful.Color{
		R: float64(v.Red) / 255,
		G: float64(v.Green) / 255,
		B: float64(v.Blue) / 255,
	}
}

func tagColor(v led.Led) string {
	if v.IsEmpty() {
		return "[#404040]"
	}
	return "[" + toColorful(v).Hex() + "]"
}
