package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	uv "github.com/charmbracelet/ultraviolet"
	"github.com/charmbracelet/x/ansi"

	"github.com/taigrr/pathview/pkg/config"
	"github.com/taigrr/pathview/pkg/render"
	"github.com/taigrr/pathview/pkg/snapshot"
)

// Terminal modes the viewer needs: any-event mouse tracking in SGR encoding
// so motion arrives without a button held, and kitty keyboard reporting of
// event types so key releases arrive.
const kittyFlags = ansi.KittyDisambiguateEscapeCodes | ansi.KittyReportEventTypes | ansi.KittyReportAllKeysAsEscapeCodes

func enableModes(w io.Writer) {
	io.WriteString(w, ansi.SetWindowTitle("pathview"))
	io.WriteString(w, ansi.SetModeMouseAnyEvent)
	io.WriteString(w, ansi.SetModeMouseExtSgr)
	io.WriteString(w, ansi.PushKittyKeyboard(kittyFlags))
}

func disableModes(w io.Writer) {
	io.WriteString(w, ansi.PopKittyKeyboard(1))
	io.WriteString(w, ansi.ResetModeMouseExtSgr)
	io.WriteString(w, ansi.ResetModeMouseAnyEvent)
}

// runViewer drives the interactive loop: drain input, tick, draw, display,
// sleep out the rest of the frame.
func runViewer(ctx context.Context, cfg config.Config, kernel render.Kernel, presenter render.Presenter) error {
	// Create terminal
	term := uv.DefaultTerminal()

	cols, rows, err := term.GetSize()
	if err != nil {
		return fmt.Errorf("get terminal size: %w", err)
	}

	if err := term.Start(); err != nil {
		return fmt.Errorf("start terminal: %w", err)
	}

	term.EnterAltScreen()
	term.HideCursor()
	term.Resize(cols, rows)
	enableModes(os.Stdout)

	cleanup := func() {
		disableModes(os.Stdout)
		term.ExitAltScreen()
		term.ShowCursor()
		term.Shutdown(context.Background())
	}
	defer cleanup()

	rc, err := render.NewContext(render.Options{
		Width:      cols,
		Height:     rows * 2,
		MaxSamples: cfg.MaxSamples,
		Seed:       cfg.Seed,
		Kernel:     kernel,
		Presenter:  presenter,
	})
	if err != nil {
		return err
	}
	render.Logger().Info("viewer started", "cols", cols, "rows", rows)

	input := newControls(cfg.MouseScale)
	hud := NewHUD(cfg.FPS)
	events := term.Events()

	// Main loop
	targetDuration := time.Second / time.Duration(cfg.FPS)
	for {
		select {
		case <-ctx.Done():
			return nil
		default:
		}
		now := time.Now()

	drain:
		for {
			select {
			case ev, ok := <-events:
				if !ok {
					return nil
				}
				if size, ok := ev.(uv.WindowSizeEvent); ok {
					cols, rows = size.Width, size.Height
					term.Erase()
					term.Resize(cols, rows)
					continue
				}
				switch input.handle(ev) {
				case actionQuit:
					render.Logger().Info("quit")
					return nil
				case actionToggleHUD:
					hud.Visible = !hud.Visible
				case actionReset:
					rc.Camera().Reset()
					rc.ResetAccumulation()
				case actionSnapshot:
					opts := snapshot.Options{Format: cfg.SnapshotFormat, Scale: cfg.SnapshotScale}
					if _, err := snapshot.Capture(rc.Framebuffer(), cfg.SnapshotDir, opts, now); err != nil {
						render.Logger().Warn("snapshot failed", "err", err)
					}
				}
			default:
				break drain
			}
		}

		res, err := rc.Tick(ctx, input.take(cols, rows*2))
		if err != nil {
			if ctx.Err() != nil {
				return nil
			}
			return err
		}

		// Display
		area := uv.Rect(0, 0, cols, rows)
		rc.Framebuffer().Draw(term, area)

		hud.UpdateFPS(now)
		hud.Animate(res.Frames, rc.MaxSamples())
		hud.Draw(term, area, status{
			Frames:    res.Frames,
			Limit:     rc.MaxSamples(),
			Converged: res.Converged,
			Captured:  input.captured,
			Camera:    *rc.Camera(),
		})

		if err := term.Display(); err != nil {
			return fmt.Errorf("display: %w", err)
		}

		// Frame timing
		elapsed := time.Since(now)
		if elapsed < targetDuration {
			time.Sleep(targetDuration - elapsed)
		}
	}
}
