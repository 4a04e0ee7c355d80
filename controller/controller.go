// Package controller contains the ModeController, the state machine
// that turns motion and button input into light and sound.
//
// # Modes
//
// The saber starts in Startup, which ignites the blade pixel by pixel
// and then settles in Active. Active is the only mode that looks at the
// accelerometer: a tap moves to Hit, a swing to Swing. Both reactions
// play a random sound of their pool and block until it has finished,
// re-rendering the blade on every poll, and then return to Active. The
// button shuts the saber down (short press) or enters ColorSelect (long
// press); in Off a short press powers the saber up again. In
// ColorSelect short presses rotate through the selectable colors and a
// long press returns to Active.
//
// # Ticks
//
// Step is one pass through the state machine. The button is sampled
// exactly once per tick, because reading it consumes its pending
// events. The reactions and the ignition/retraction animations run
// within a single tick; no input is serviced meanwhile.
package controller

import (
	"context"
	"fmt"
	"log/slog"
	"math/rand/v2"
	"time"

	"lautenbacher.net/gosaber/audio"
	"lautenbacher.net/gosaber/config"
	"lautenbacher.net/gosaber/input"
	"lautenbacher.net/gosaber/led"
)

// EffectPlayer is the output side of the device: one audio channel and
// the pixel strip of the blade.
type EffectPlayer interface {
	Play(index int, loop bool) error
	Stop()
	IsPlaying() bool
	SetPixel(index int, value led.Led)
	Fill(value led.Led)
	Flush() error
	PixelCount() int
}

// PowerSwitch drives the power-enable output of the external
// components.
type PowerSwitch interface {
	SetPower(on bool)
}

// Indicator mirrors the selected color, e.g. on an RGB LED in the hilt.
type Indicator interface {
	ShowColor(value led.Led)
}

// RandomRange returns a uniformly distributed integer in [lo, hi].
type RandomRange func(lo, hi int) int

// SleepFunc pauses for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

type Options struct {
	SwingThreshold    float64
	SettleTime        time.Duration
	LoopDelay         time.Duration
	ReactionPollDelay time.Duration
	ColorIndex        int
	Random            RandomRange
	Sleep             SleepFunc
	// ModeChanged is called after every mode change, if set.
	ModeChanged func(from, to Mode)
}

// OptionsFromConfig returns the options for the saber section of the
// config file.
func OptionsFromConfig(cfg config.SaberConfig) Options {
	return Options{
		SwingThreshold:    cfg.SwingThreshold,
		SettleTime:        cfg.SettleTime,
		LoopDelay:         cfg.LoopDelay,
		ReactionPollDelay: cfg.ReactionPollDelay,
		ColorIndex:        cfg.SaberColor,
	}
}

type ModeController struct {
	sampler    input.Sampler
	effects    EffectPlayer
	power      PowerSwitch
	indicator  Indicator
	opts       Options
	mode       Mode
	colorIndex int
	powered    bool
}

// New creates the controller in Startup mode. It switches the power on
// and shows the initial color on the indicator, which may be nil.
func New(sampler input.Sampler, effects EffectPlayer, power PowerSwitch, indicator Indicator, opts Options) *ModeController {
	if opts.Random == nil {
		opts.Random = uniformRange
	}
	if opts.Sleep == nil {
		opts.Sleep = sleepCtx
	}
	s := &ModeController{
		sampler:    sampler,
		effects:    effects,
		power:      power,
		indicator:  indicator,
		opts:       opts,
		mode:       Startup,
		colorIndex: opts.ColorIndex,
	}
	s.setPower(true)
	s.showIndicator()
	slog.Info("Saber initialised", "color", s.colorIndex, "colorName", led.ColorName(s.colorIndex),
		"swingThreshold", opts.SwingThreshold, "pixels", effects.PixelCount())
	return s
}

func (s *ModeController) Mode() Mode {
	return s.mode
}

func (s *ModeController) ColorIndex() int {
	return s.colorIndex
}

func (s *ModeController) Power() bool {
	return s.powered
}

// Run calls Step until ctx is done or a hardware error occurs. A done
// context is a regular end and returns nil.
func (s *ModeController) Run(ctx context.Context) error {
	slog.Info("Starting main loop")
	for {
		if ctx.Err() != nil {
			return nil
		}
		if err := s.Step(ctx); err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}
		if err := s.opts.Sleep(ctx, s.opts.LoopDelay); err != nil {
			return nil
		}
	}
}

// Step runs one tick of the state machine. Errors are hardware failures
// the saber can't recover from, or the end of ctx during a blocking
// mode.
func (s *ModeController) Step(ctx context.Context) error {
	button := s.sampler.SampleButton()

	switch s.mode {
	case Startup:
		return s.startup(ctx)
	case Active:
		return s.active(button)
	case Hit:
		return s.react(ctx, audio.ClashFirst, audio.ClashLast, led.Color(led.ClashColor))
	case Swing:
		return s.react(ctx, audio.SwingFirst, audio.SwingLast, s.saberColor())
	case ShuttingDown:
		return s.shutdown(ctx)
	case Off:
		s.off(button)
	case ColorSelect:
		return s.colorSelect(button)
	default:
		panic(fmt.Sprintf("invalid mode %d", s.mode))
	}
	return nil
}

func (s *ModeController) startup(ctx context.Context) error {
	slog.Info("Igniting blade")
	s.play(audio.SoundPowerOn, false)
	color := s.saberColor()
	for i := 0; i < s.effects.PixelCount(); i++ {
		s.effects.SetPixel(i, color)
		if err := s.effects.Flush(); err != nil {
			return err
		}
	}
	if err := s.opts.Sleep(ctx, s.opts.SettleTime); err != nil {
		return err
	}
	s.play(audio.SoundIdle, true)
	s.setMode(Active)
	return nil
}

// active is the only place where motion is sampled. Later checks win:
// a short press beats a motion and a long press beats everything.
func (s *ModeController) active(button input.ButtonEvent) error {
	motion, err := s.sampler.SampleMotion()
	if err != nil {
		return fmt.Errorf("failed to sample motion: %w", err)
	}

	next := Active
	if motion.Tapped {
		slog.Info("Clash detected")
		next = Hit
	} else if mag := motion.Magnitude(); mag >= s.opts.SwingThreshold {
		slog.Info("Swing detected", "accel", fmt.Sprintf("%.1f", mag))
		next = Swing
	}
	if button.ShortCount == 1 {
		slog.Info("Short press, shutting down")
		next = ShuttingDown
	}
	if button.LongPress {
		slog.Info("Long press, entering color select")
		s.effects.Stop()
		s.play(audio.SoundColorSelect, true)
		next = ColorSelect
	}
	s.setMode(next)
	return nil
}

// react plays a random sound out of [first, last] and holds the blade
// at color until the sound has finished.
func (s *ModeController) react(ctx context.Context, first, last int, color led.Led) error {
	s.effects.Stop()
	s.play(s.opts.Random(first, last), false)
	if err := s.awaitReaction(ctx, color); err != nil {
		return err
	}
	if err := s.render(s.saberColor()); err != nil {
		return err
	}
	s.play(audio.SoundIdle, true)
	s.setMode(Active)
	return nil
}

// awaitReaction re-renders color until the reaction sound stops. There
// is no timeout: a sound that never ends keeps the saber here.
func (s *ModeController) awaitReaction(ctx context.Context, color led.Led) error {
	for s.effects.IsPlaying() {
		if err := s.render(color); err != nil {
			return err
		}
		if err := s.opts.Sleep(ctx, s.opts.ReactionPollDelay); err != nil {
			return err
		}
	}
	return nil
}

func (s *ModeController) shutdown(ctx context.Context) error {
	slog.Info("Retracting blade")
	s.effects.Stop()
	s.play(audio.SoundPowerOff, false)
	for i := s.effects.PixelCount() - 1; i >= 0; i-- {
		s.effects.SetPixel(i, led.Off)
		if err := s.effects.Flush(); err != nil {
			return err
		}
	}
	if err := s.opts.Sleep(ctx, s.opts.SettleTime); err != nil {
		return err
	}
	s.setPower(false)
	s.setMode(Off)
	return nil
}

func (s *ModeController) off(button input.ButtonEvent) {
	if button.ShortCount == 1 {
		slog.Info("Short press, powering on")
		s.setPower(true)
		s.setMode(Startup)
	}
}

func (s *ModeController) colorSelect(button input.ButtonEvent) error {
	if button.ShortCount == 1 {
		s.colorIndex = led.NextColor(s.colorIndex)
		slog.Info("Color changed", "index", s.colorIndex, "color", led.ColorName(s.colorIndex))
		if err := s.render(s.saberColor()); err != nil {
			return err
		}
		s.showIndicator()
	}
	if button.LongPress {
		slog.Info("Long press, leaving color select")
		s.play(audio.SoundIdle, true)
		if err := s.render(s.saberColor()); err != nil {
			return err
		}
		s.showIndicator()
		s.setMode(Active)
	}
	return nil
}

func (s *ModeController) saberColor() led.Led {
	return led.Color(s.colorIndex)
}

func (s *ModeController) render(color led.Led) error {
	s.effects.Fill(color)
	return s.effects.Flush()
}

// play logs a failing sound and carries on; the effect stays silent.
func (s *ModeController) play(index int, loop bool) {
	if err := s.effects.Play(index, loop); err != nil {
		slog.Error("Error playing sound", "index", index, "loop", loop, "error", err)
	}
}

func (s *ModeController) setPower(on bool) {
	s.powered = on
	s.power.SetPower(on)
	slog.Info("External power", "enabled", on)
}

func (s *ModeController) showIndicator() {
	if s.indicator != nil {
		s.indicator.ShowColor(s.saberColor())
	}
}

func (s *ModeController) setMode(next Mode) {
	if next == s.mode {
		return
	}
	prev := s.mode
	s.mode = next
	slog.Info("Mode change", "from", prev, "to", next)
	if s.opts.ModeChanged != nil {
		s.opts.ModeChanged(prev, next)
	}
}

func uniformRange(lo, hi int) int {
	return lo + rand.IntN(hi-lo+1)
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
