package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/urfave/cli"
	"github.com/valerio/go-chip8/chip8"
	"github.com/valerio/go-chip8/chip8/backend"
	"github.com/valerio/go-chip8/chip8/backend/headless"
	"github.com/valerio/go-chip8/chip8/backend/sdl2"
	"github.com/valerio/go-chip8/chip8/backend/terminal"
	"github.com/valerio/go-chip8/chip8/cpu"
	"github.com/valerio/go-chip8/chip8/display"
	"github.com/valerio/go-chip8/chip8/timing"
)

var errNoROM = errors.New("no ROM path provided")

// options is everything the flags resolve to before any state is built.
type options struct {
	romPath          string
	headless         bool
	frames           int
	backendName      string
	ipf              int
	trace            bool
	debug            bool
	snapshotInterval int
	snapshotDir      string
	scale            int
	palette          display.Palette
	outlines         bool
	limiter          timing.Kind
}

func main() {
	app := newApp()
	app.Action = runEmulator

	if err := app.Run(os.Args); err != nil {
		slog.Error("Error running emulator", "error", err)
		os.Exit(1)
	}
}

func newApp() *cli.App {
	app := cli.NewApp()
	app.Name = "chip8"
	app.Description = "A CHIP-8 virtual machine"
	app.Usage = "chip8 [options] <ROM file>"
	app.Version = "1.0.0"
	app.Flags = []cli.Flag{
		cli.StringFlag{
			Name:  "rom",
			Usage: "Path to the ROM file",
		},
		cli.BoolFlag{
			Name:  "headless",
			Usage: "Run the machine without a graphical interface",
		},
		cli.IntFlag{
			Name:  "frames",
			Usage: "Number of frames to run in headless mode (required for headless)",
		},
		cli.StringFlag{
			Name:  "backend",
			Usage: "Interactive backend: terminal or sdl2",
			Value: "terminal",
		},
		cli.IntFlag{
			Name:  "ipf",
			Usage: "Instructions executed per 60 Hz frame",
			Value: chip8.DefaultInstructionsPerFrame,
		},
		cli.BoolFlag{
			Name:  "trace",
			Usage: "Log every executed instruction",
		},
		cli.BoolFlag{
			Name:  "debug",
			Usage: "Enable debug logging and debug views",
		},
		cli.IntFlag{
			Name:  "snapshot-interval",
			Usage: "Save frame snapshots every N frames in headless mode (0 = disabled)",
		},
		cli.StringFlag{
			Name:  "snapshot-dir",
			Usage: "Directory to save frame snapshots (default: temp directory)",
		},
		cli.IntFlag{
			Name:  "scale",
			Usage: "Window pixels per display pixel (sdl2)",
			Value: display.DefaultPixelScale,
		},
		cli.StringFlag{
			Name:  "fg",
			Usage: "Foreground colour as RRGGBBAA",
			Value: display.DefaultForeground.String(),
		},
		cli.StringFlag{
			Name:  "bg",
			Usage: "Background colour as RRGGBBAA",
			Value: display.DefaultBackground.String(),
		},
		cli.BoolFlag{
			Name:  "no-outlines",
			Usage: "Disable pixel outlines (sdl2)",
		},
		cli.StringFlag{
			Name:  "limiter",
			Usage: "Frame limiter: adaptive, ticker or none (default: none when headless, adaptive otherwise)",
		},
	}
	return app
}

func parseOptions(c *cli.Context) (options, error) {
	opts := options{
		romPath:          c.String("rom"),
		headless:         c.Bool("headless"),
		frames:           c.Int("frames"),
		backendName:      c.String("backend"),
		ipf:              c.Int("ipf"),
		trace:            c.Bool("trace"),
		debug:            c.Bool("debug"),
		snapshotInterval: c.Int("snapshot-interval"),
		snapshotDir:      c.String("snapshot-dir"),
		scale:            c.Int("scale"),
		outlines:         !c.Bool("no-outlines"),
		limiter:          timing.Kind(c.String("limiter")),
	}

	if opts.romPath == "" && c.NArg() > 0 {
		opts.romPath = c.Args().First()
	}
	if opts.romPath == "" {
		return opts, errNoROM
	}

	fg, err := display.ParseColor(c.String("fg"))
	if err != nil {
		return opts, fmt.Errorf("invalid --fg: %w", err)
	}
	bg, err := display.ParseColor(c.String("bg"))
	if err != nil {
		return opts, fmt.Errorf("invalid --bg: %w", err)
	}
	opts.palette = display.Palette{Foreground: fg, Background: bg}

	if opts.headless && opts.frames <= 0 {
		return opts, errors.New("headless mode requires --frames option with a positive value")
	}
	if opts.limiter == "" {
		opts.limiter = timing.KindAdaptive
		if opts.headless {
			opts.limiter = timing.KindNone
		}
	}

	return opts, nil
}

func runEmulator(c *cli.Context) error {
	opts, err := parseOptions(c)
	if errors.Is(err, errNoROM) {
		fmt.Fprintf(os.Stderr, "No ROM selected. Correct Usage: %s <rom_name>\n", c.App.Name)
		return err
	}
	if err != nil {
		return err
	}

	level := slog.LevelInfo
	if opts.debug || opts.trace {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	cfg := chip8.DefaultConfig()
	cfg.InstructionsPerFrame = opts.ipf
	cfg.Limiter = timing.New(opts.limiter)

	machine, err := chip8.NewWithFileConfig(opts.romPath, cfg)
	if err != nil {
		return err
	}

	b, err := newBackend(opts)
	if err != nil {
		return err
	}

	err = b.Init(backend.BackendConfig{
		Title:         "CHIP-8 - " + opts.romPath,
		Scale:         opts.scale,
		Palette:       opts.palette,
		PixelOutlines: opts.outlines,
		ShowDebug:     opts.debug,
		DebugProvider: machine,
		Sound:         machine,
	})
	if err != nil {
		return fmt.Errorf("failed to initialize backend: %w", err)
	}
	defer func() {
		if err := b.Cleanup(); err != nil {
			slog.Warn("Backend cleanup failed", "error", err)
		}
	}()

	// Backends may replace the default logger, so the tracer picks it up afterwards
	if opts.trace {
		machine.SetTracer(cpu.NewLogTracer(slog.Default()))
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	slog.Info("Starting", "rom", opts.romPath, "ipf", opts.ipf, "headless", opts.headless)
	if err := chip8.Run(ctx, machine, b); err != nil {
		return err
	}
	slog.Info("Stopped", "frames", machine.Frames())
	return nil
}

func newBackend(opts options) (backend.Backend, error) {
	if opts.headless {
		snapshots, err := headless.CreateSnapshotConfig(opts.snapshotInterval, opts.snapshotDir, opts.romPath)
		if err != nil {
			return nil, err
		}
		return headless.New(opts.frames, snapshots), nil
	}

	switch opts.backendName {
	case "terminal":
		return terminal.New(), nil
	case "sdl2":
		return sdl2.New(), nil
	default:
		return nil, fmt.Errorf("unknown backend %q", opts.backendName)
	}
}
