package platform

import (
	"fmt"
	"log/slog"
	"os"
	"sync"
	"syscall"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

const (
	viewerTitle   = " GOSABER Motion Viewer "
	viewerRefresh = 100 * time.Millisecond
)

// MotionViewer is a small TUI showing live accelerometer statistics
// while running on real hardware. It helps tuning the tap and swing
// thresholds.
type MotionViewer struct {
	tuiApp   *tview.Application
	view     *tview.TextView
	history  *motionHistory
	ossignal chan os.Signal
	mu       sync.Mutex
	lastDraw time.Time
}

func NewMotionViewer(ossignal chan os.Signal) *MotionViewer {
	return &MotionViewer{
		tuiApp:   tview.NewApplication(),
		ossignal: ossignal,
	}
}

// attach binds the viewer to the history it renders. The platform does
// this before starting the viewer.
func (mv *MotionViewer) attach(history *motionHistory) {
	mv.mu.Lock()
	defer mv.mu.Unlock()
	mv.history = history
}

// Start runs the TUI until stopSignal is closed. It should be called as
// a goroutine.
func (mv *MotionViewer) Start(stopSignal chan struct{}, wg *sync.WaitGroup) {
	defer wg.Done()

	mv.setupUI()

	go func() {
		<-stopSignal
		slog.Info("Stopping MotionViewer TUI...")
		mv.tuiApp.Stop()
	}()

	if err := mv.tuiApp.Run(); err != nil {
		slog.Error("Error running MotionViewer TUI", "error", err)
		mv.ossignal <- os.Interrupt
		return
	}
	slog.Info("MotionViewer TUI has stopped.")
}

// Update schedules a redraw, at most once per refresh interval. Safe
// for concurrent use.
func (mv *MotionViewer) Update() {
	mv.mu.Lock()
	if mv.history == nil || time.Since(mv.lastDraw) < viewerRefresh {
		mv.mu.Unlock()
		return
	}
	mv.lastDraw = time.Now()
	line1, line2, line3 := mv.history.lines()
	mv.mu.Unlock()

	mv.tuiApp.QueueUpdateDraw(func() {
		mv.view.SetText(fmt.Sprintf("%s\n%s\n%s", line1, line2, line3))
	})
}

func (mv *MotionViewer) setupUI() {
	mv.view = tview.NewTextView()
	mv.view.SetDynamicColors(true)
	mv.view.SetTextAlign(tview.AlignLeft)
	mv.view.SetBackgroundColor(tcell.ColorDarkSlateGray)
	mv.view.SetBorder(true).SetTitle(viewerTitle).SetTitleColor(tcell.ColorLightBlue)

	intro := tview.NewTextView()
	intro.SetBorder(true).SetTitle(" GOSABER ").SetTitleColor(tcell.ColorLightBlue)
	intro.SetText("Displaying real accelerometer values.\nHit [#ff0000]q[-] to exit, [#ff0000]r[-] to reload config file and restart")
	intro.SetTextAlign(tview.AlignCenter)
	intro.SetDynamicColors(true)
	intro.SetBackgroundColor(tcell.ColorDarkSlateGray)

	layout := tview.NewFlex().SetDirection(tview.FlexRow)
	layout.AddItem(intro, 4, 1, false)
	layout.AddItem(mv.view, 5, 1, true)
	layout.SetRect(1, 1, 2*colWidth+16, 10)

	mv.tuiApp.SetRoot(layout, true).SetFocus(mv.view)
	mv.tuiApp.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		switch string(event.Rune()) {
		case "q", "Q":
			mv.tuiApp.Stop()
			mv.ossignal <- os.Interrupt
		case "r", "R":
			mv.tuiApp.Stop()
			mv.ossignal <- syscall.SIGHUP
		}
		return event
	})
}
