package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/gopxl/beep"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"lautenbacher.net/gosaber/audio"
	c "lautenbacher.net/gosaber/config"
	"lautenbacher.net/gosaber/controller"
	"lautenbacher.net/gosaber/led"
	"lautenbacher.net/gosaber/logging"
	pl "lautenbacher.net/gosaber/platform"
)

var version = "dev"

type App struct {
	ossignal    chan os.Signal
	platform    pl.Platform
	sink        audio.Sink
	player      *audio.Player
	controller  *controller.ModeController
	cancel      context.CancelFunc
	done        chan struct{}
	runErr      error
	motionShow  bool
	logsStarted bool
}

func NewApp(ossignal chan os.Signal) *App {
	return &App{ossignal: ossignal}
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		cfile      string
		realp      bool
		motionShow bool
	)
	cmd := &cobra.Command{
		Use:   "gosaber",
		Short: "Light saber controller for the Raspberry Pi",
		Long: `gosaber drives the blade LEDs, the sound and the power switch of a
light saber from its accelerometer and button. Without --real it runs a
terminal simulation of the saber.`,
		Version:      version,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ossignal := make(chan os.Signal, 1)
			signal.Notify(ossignal, os.Interrupt, syscall.SIGTERM, syscall.SIGHUP)
			defer signal.Stop(ossignal)

			app := NewApp(ossignal)
			app.motionShow = motionShow
			return app.Run(cmd.Context(), cfile, realp)
		},
	}
	cmd.Flags().StringVarP(&cfile, "config", "c", c.CONFILE, "config file to use")
	cmd.Flags().BoolVarP(&realp, "real", "r", false, "run on real hardware instead of the simulation")
	cmd.Flags().BoolVarP(&motionShow, "motion", "m", false, "show live accelerometer values (real hardware only)")
	return cmd
}

// Run starts the saber and keeps it running until the process is asked
// to exit or a fatal error happens. A SIGHUP rebuilds everything from
// the re-read config file.
func (a *App) Run(ctx context.Context, cfile string, realHW bool) error {
	for {
		conf, err := c.ReadConfig(cfile)
		if err != nil {
			return err
		}
		conf.RealHW = realHW

		if err := a.initialise(ctx, conf); err != nil {
			a.shutdown()
			return err
		}

		reload, err := a.wait(ctx)
		a.shutdown()
		if !reload {
			return err
		}
	}
}

func (a *App) initialise(ctx context.Context, conf *c.Config) error {
	logcfg, buffer := conf.Logging.TUI, true
	if conf.RealHW {
		logcfg, buffer = conf.Logging.HW, a.motionShow
	}
	if err := logging.Init(buffer, logcfg); err != nil {
		return err
	}
	a.logsStarted = true

	slog.Info("Starting gosaber", "version", version, "config", conf.Configfile, "realHW", conf.RealHW)

	if conf.RealHW {
		rpi := pl.NewRaspberryPiPlatform(conf)
		if a.motionShow {
			rpi.SetMotionViewer(pl.NewMotionViewer(a.ossignal))
		}
		a.platform = rpi
	} else {
		a.platform = pl.NewTUIPlatform(conf, a.ossignal)
	}

	if err := a.platform.Start(); err != nil {
		return fmt.Errorf("failed to start platform: %w", err)
	}
	<-a.platform.Ready()

	return a.startSaber(ctx, conf)
}

// startSaber builds the effects and the mode controller on top of the
// already started platform and runs them.
func (a *App) startSaber(ctx context.Context, conf *c.Config) error {
	catalog, err := audio.LoadCatalog(conf.Sounds.Directory)
	if err != nil {
		return err
	}
	a.sink, err = audio.NewSink(conf.Sounds.Backend, beep.SampleRate(conf.Sounds.SampleRate), conf.Sounds.BufferSize)
	if err != nil {
		return err
	}
	a.player = audio.NewPlayer(catalog, a.sink)

	layout, err := led.NewLayout(conf.Hardware.Display.LedsTotal, conf.Hardware.Display.Segments)
	if err != nil {
		return err
	}
	effects := pl.NewEffects(a.player, led.NewStrip(layout, a.platform))

	opts := controller.OptionsFromConfig(conf.Saber)
	opts.ModeChanged = func(_, to controller.Mode) {
		a.platform.ShowMode(to.String())
	}
	a.controller = controller.New(a.platform, effects, a.platform, a.platform, opts)

	runCtx, cancel := context.WithCancel(ctx)
	a.cancel = cancel
	a.done = make(chan struct{})

	g, gctx := errgroup.WithContext(runCtx)
	g.Go(func() error {
		return a.controller.Run(gctx)
	})
	if conf.Configfile != "" {
		g.Go(func() error {
			return c.Watch(gctx, conf.Configfile, a.ossignal)
		})
	}
	go func() {
		a.runErr = g.Wait()
		close(a.done)
	}()
	return nil
}

// wait blocks until a signal arrives, the context ends or the saber
// stopped on its own. It reports whether a reload was requested.
func (a *App) wait(ctx context.Context) (bool, error) {
	select {
	case <-ctx.Done():
		return false, nil
	case <-a.done:
		if a.runErr != nil {
			slog.Error("Saber stopped", "error", a.runErr)
			return false, fmt.Errorf("saber stopped: %w", a.runErr)
		}
		return false, errors.New("saber stopped unexpectedly")
	case sig := <-a.ossignal:
		if sig == syscall.SIGHUP {
			slog.Info("Reloading config file")
			return true, nil
		}
		slog.Info("Exiting", "signal", sig.String())
		return false, nil
	}
}

// shutdown stops everything started by initialise, in reverse order.
func (a *App) shutdown() {
	if a.cancel != nil {
		a.cancel()
		<-a.done
		a.cancel = nil
	}
	if a.player != nil {
		// closes the sink, too
		if err := a.player.Close(); err != nil {
			slog.Error("Error closing sound player", "error", err)
		}
	} else if a.sink != nil {
		if err := a.sink.Close(); err != nil {
			slog.Error("Error closing audio output", "error", err)
		}
	}
	a.player, a.sink = nil, nil
	if a.logsStarted {
		// the log pane goes away with the platform
		logging.BufferOutput()
	}
	if a.platform != nil {
		a.platform.Stop()
		a.platform = nil
	}
	a.controller = nil
	if a.logsStarted {
		if err := logging.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "error flushing logs: %v\n", err)
		}
		a.logsStarted = false
	}
}
