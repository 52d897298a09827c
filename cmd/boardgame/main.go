package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"periph.io/x/host/v3"

	"github.com/coreman2200/funtimes-boardgame/internal/app"
	"github.com/coreman2200/funtimes-boardgame/internal/config"
	"github.com/coreman2200/funtimes-boardgame/internal/pins"
	"github.com/coreman2200/funtimes-boardgame/internal/selftest"
	"github.com/coreman2200/funtimes-boardgame/internal/strip"
)

type flags struct {
	configPath string
	driver     string
	variant    string
	pins       []int
	tickMs     int
	stepMs     int
	strip      bool
	logLevel   string
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	f := &flags{}
	root := &cobra.Command{
		Use:          "boardgame",
		Short:        "Board game LED and event controller",
		SilenceUsage: true,
	}
	pf := root.PersistentFlags()
	pf.StringVar(&f.configPath, "config", "config.yaml", "path to config.yaml")
	pf.StringVar(&f.driver, "driver", "", "pin driver: gpio | sim")
	pf.StringVar(&f.variant, "variant", "", "board revision: indexed | plain")
	pf.IntSliceVar(&f.pins, "pins", nil, "LED pin numbers, in strip order")
	pf.IntVar(&f.tickMs, "tick-ms", 0, "dispatch tick (ms)")
	pf.IntVar(&f.stepMs, "step-ms", 0, "effect step interval (ms)")
	pf.BoolVar(&f.strip, "strip", false, "mirror the LED array on an SPI NRZ strip")
	pf.StringVar(&f.logLevel, "log-level", "", "debug | info | warn | error")

	var steps int
	run := &cobra.Command{
		Use:   "run",
		Short: "Run the chase effect until interrupted",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return withCore(cmd, f, func(ctx context.Context, core *app.Core, cfg *config.Config) error {
				if err := core.Chase(steps, time.Duration(cfg.StepMs)*time.Millisecond); err != nil {
					return err
				}
				<-ctx.Done()
				return nil
			})
		},
	}
	run.Flags().IntVar(&steps, "steps", 1000, "number of chase steps")

	var kind string
	test := &cobra.Command{
		Use:   "selftest",
		Short: "Walk every pin once and exit",
		RunE: func(cmd *cobra.Command, _ []string) error {
			k, err := selftest.ParseKind(kind)
			if err != nil {
				return err
			}
			return withCore(cmd, f, func(ctx context.Context, core *app.Core, cfg *config.Config) error {
				r, err := core.SelfTest(k, time.Duration(cfg.StepMs)*time.Millisecond)
				if err != nil {
					return err
				}
				select {
				case <-ctx.Done():
					return ctx.Err()
				case <-r.Done():
				}
				core.Shutdown()
				return r.Err()
			})
		},
	}
	test.Flags().StringVar(&kind, "kind", string(selftest.IndexSweep), "index_sweep | blink")

	root.AddCommand(run, test)
	return root
}

// loadConfig reads the config file, falling back to defaults, then applies
// any flags that were set explicitly.
func loadConfig(cmd *cobra.Command, f *flags) (*config.Config, error) {
	cfg, err := config.Load(f.configPath)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
		log.Warn().Str("path", f.configPath).Msg("config not found; using defaults")
		cfg = config.Default()
	}
	pf := cmd.Flags()
	if pf.Changed("driver") {
		cfg.Driver = f.driver
	}
	if pf.Changed("variant") {
		cfg.Variant = f.variant
	}
	if pf.Changed("pins") {
		cfg.Pins = f.pins
	}
	if pf.Changed("tick-ms") {
		cfg.TickMs = f.tickMs
	}
	if pf.Changed("step-ms") {
		cfg.StepMs = f.stepMs
	}
	if pf.Changed("strip") {
		cfg.Strip.Enabled = f.strip
	}
	if pf.Changed("log-level") {
		cfg.LogLevel = f.logLevel
	}
	return cfg, cfg.Validate()
}

func setupLogging(level string) {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
}

func openDriver(cfg *config.Config) pins.Driver {
	if cfg.Driver != "gpio" {
		return pins.NewSim()
	}
	if _, err := host.Init(); err != nil {
		log.Warn().Err(err).Msg("periph host init failed; falling back to SIM")
		return pins.NewSim()
	}
	return pins.NewGPIO(nil)
}

func withCore(cmd *cobra.Command, f *flags, body func(context.Context, *app.Core, *config.Config) error) error {
	setupLogging("")
	cfg, err := loadConfig(cmd, f)
	if err != nil {
		return err
	}
	setupLogging(cfg.LogLevel)

	drv := openDriver(cfg)
	var rend *strip.Renderer
	if cfg.Strip.Enabled {
		if _, err := host.Init(); err != nil {
			log.Warn().Err(err).Msg("periph host init failed")
		}
		if rend, err = strip.Open(cfg.Strip.Port, len(cfg.Pins)); err != nil {
			log.Warn().Err(err).Msg("strip unavailable")
			rend = nil
		} else {
			if rend.Fallback != nil {
				log.Warn().Err(rend.Fallback).Msg("no SPI strip; drawing on the console")
			}
			log.Info().Bool("spi", rend.Spi).Str("drawer", rend.String()).Msg("strip ready")
		}
	}

	core, err := app.InitCore(cfg, drv, rend, log.Logger)
	if err != nil {
		_ = drv.Close()
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	core.Start(ctx)

	err = body(ctx, core, cfg)
	core.Shutdown()
	return err
}
