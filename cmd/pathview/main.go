// pathview - Progressive Path Tracer for the Terminal
// Walk through a path traced scene; the image refines while you stand still.
//
// Controls:
//
//	W/A/S/D     - Move forward/left/back/right
//	Space       - Move up
//	Shift / C   - Move down (Shift needs a terminal that reports modifier keys)
//	Mouse       - Look around while captured
//	Esc         - Toggle mouse capture
//	P           - Save a snapshot
//	R           - Reset camera and accumulation
//	?           - Toggle HUD overlay
//	Q, Ctrl+C   - Quit
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/taigrr/pathview/pkg/config"
	"github.com/taigrr/pathview/pkg/render"
	"github.com/taigrr/pathview/pkg/snapshot"
	"github.com/taigrr/pathview/pkg/stage"
)

var (
	configPath  = flag.String("config", "", "Path to JSON config file")
	renderStage = flag.String("render", "", "Render stage document (default: built-in scene)")
	drawStage   = flag.String("draw", "", "Draw stage document (default: built-in tonemapper)")
	targetFPS   = flag.Int("fps", 0, "Target FPS (default 75)")
	maxSamples  = flag.Int("samples", 0, "Stop accumulating after N samples (0 = never)")
	mouseScale  = flag.Float64("mouse-scale", 0, "Mouse units per terminal cell (default 8)")
	seed        = flag.Int64("seed", 0, "Seed for the per-frame random uniform (0 = from clock)")
	logFile     = flag.String("log", "", "Write logs to this file")
	verbose     = flag.Bool("v", false, "Log debug messages")
	snapDir     = flag.String("snapshot-dir", "", "Directory for snapshots (default .)")
	snapFormat  = flag.String("snapshot-format", "", "Snapshot format: png or webp")
	snapScale   = flag.Int("snapshot-scale", 0, "Upscale snapshots by this factor")

	headlessFrames = flag.Int("frames", 0, "Render N frames without a terminal and exit")
	headlessOut    = flag.String("out", "", "Output image for -frames (.png or .webp)")
	headlessSize   = flag.String("size", "160x90", "Image size for -frames, WxH")
)

func main() {
	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "pathview - Progressive Path Tracer for the Terminal\n\n")
		fmt.Fprintf(os.Stderr, "Usage: pathview [options]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, "\nControls:\n")
		fmt.Fprintf(os.Stderr, "  W/A/S/D     - Move\n")
		fmt.Fprintf(os.Stderr, "  Space       - Up\n")
		fmt.Fprintf(os.Stderr, "  Shift / C   - Down\n")
		fmt.Fprintf(os.Stderr, "  Mouse       - Look (while captured)\n")
		fmt.Fprintf(os.Stderr, "  Esc         - Toggle mouse capture\n")
		fmt.Fprintf(os.Stderr, "  P           - Snapshot\n")
		fmt.Fprintf(os.Stderr, "  R           - Reset view\n")
		fmt.Fprintf(os.Stderr, "  ?           - Toggle HUD overlay\n")
		fmt.Fprintf(os.Stderr, "  Q           - Quit\n")
	}
	flag.Parse()

	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig() (config.Config, error) {
	var cfg config.Config
	if *configPath != "" {
		var err error
		if cfg, err = config.Load(*configPath); err != nil {
			return cfg, err
		}
	}
	cfg.Resolve(config.Flags{
		FPS:            *targetFPS,
		MaxSamples:     *maxSamples,
		MouseScale:     *mouseScale,
		Seed:           *seed,
		RenderStage:    *renderStage,
		DrawStage:      *drawStage,
		SnapshotDir:    *snapDir,
		SnapshotFormat: *snapFormat,
		SnapshotScale:  *snapScale,
		LogFile:        *logFile,
	})
	return cfg, cfg.Validate()
}

// setupLogging points the shared logger at the log file. The terminal
// belongs to the viewer, so without a file nothing is logged unless running
// headless, where stderr is free.
func setupLogging(path string, headless bool) (io.Closer, error) {
	level := slog.LevelInfo
	if *verbose {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}

	switch {
	case path != "":
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		render.SetLogger(slog.New(slog.NewTextHandler(f, opts)))
		return f, nil
	case headless:
		render.SetLogger(slog.New(slog.NewTextHandler(os.Stderr, opts)))
	}
	return io.NopCloser(nil), nil
}

func compileStages(cfg config.Config) (render.Kernel, render.Presenter, error) {
	renderSrc, err := stage.Resolve(stage.RenderStage, cfg.RenderStage)
	if err != nil {
		return nil, nil, err
	}
	drawSrc, err := stage.Resolve(stage.DrawStage, cfg.DrawStage)
	if err != nil {
		return nil, nil, err
	}

	kernel, presenter, err := stage.Compile(renderSrc, drawSrc)
	var ce *stage.CompileError
	if errors.As(err, &ce) {
		for _, d := range ce.Diagnostics {
			render.Logger().Error("stage diagnostic", "stage", ce.Stage, "origin", ce.Origin, "msg", d)
		}
	}
	return kernel, presenter, err
}

func run() error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	headless := *headlessFrames > 0
	closer, err := setupLogging(cfg.LogFile, headless)
	if err != nil {
		return err
	}
	defer closer.Close()

	if cfg.Seed == 0 && !headless {
		cfg.Seed = time.Now().UnixNano()
	}
	render.Logger().Info("starting", "fps", cfg.FPS, "max_samples", cfg.MaxSamples, "seed", cfg.Seed, "headless", headless)

	kernel, presenter, err := compileStages(cfg)
	if err != nil {
		return err
	}

	// Context for clean shutdown
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	if headless {
		return runHeadless(ctx, cfg, kernel, presenter)
	}
	return runViewer(ctx, cfg, kernel, presenter)
}

func parseSize(s string) (int, int, error) {
	var w, h int
	if _, err := fmt.Sscanf(strings.ToLower(s), "%dx%d", &w, &h); err != nil {
		return 0, 0, fmt.Errorf("parse size %q: %w", s, err)
	}
	if w <= 0 || h <= 0 {
		return 0, 0, fmt.Errorf("parse size %q: %w", s, render.ErrInvalidSize)
	}
	return w, h, nil
}

// runHeadless renders still frames at a fixed size and writes the result.
func runHeadless(ctx context.Context, cfg config.Config, kernel render.Kernel, presenter render.Presenter) error {
	if *headlessOut == "" {
		return errors.New("-frames needs -out")
	}
	if _, err := snapshot.FormatFor(*headlessOut, ""); err != nil {
		return err
	}
	w, h, err := parseSize(*headlessSize)
	if err != nil {
		return err
	}

	rc, err := render.NewContext(render.Options{
		Width:      w,
		Height:     h,
		MaxSamples: cfg.MaxSamples,
		Seed:       cfg.Seed,
		Kernel:     kernel,
		Presenter:  presenter,
	})
	if err != nil {
		return err
	}

	start := time.Now()
	if err := renderStill(ctx, rc, *headlessFrames, w, h); err != nil {
		return err
	}
	render.Logger().Info("rendered", "frames", rc.Frames(), "elapsed", time.Since(start).Round(time.Millisecond))

	opts := snapshot.Options{Scale: cfg.SnapshotScale}
	if err := snapshot.Save(*headlessOut, rc.Framebuffer().ToImage(), opts); err != nil {
		return fmt.Errorf("save image: %w", err)
	}
	render.Logger().Info("image saved", "path", *headlessOut)
	return nil
}

// renderStill ticks rc n times with no input.
func renderStill(ctx context.Context, rc *render.Context, n, w, h int) error {
	for i := range n {
		if err := ctx.Err(); err != nil {
			return err
		}
		res, err := rc.Tick(ctx, render.TickInput{Width: w, Height: h})
		if err != nil {
			return fmt.Errorf("tick %d: %w", i+1, err)
		}
		if res.Converged {
			break
		}
	}
	return nil
}
