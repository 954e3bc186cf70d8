package main

import (
	"math"
	"strings"
	"testing"
	"time"

	uv "github.com/charmbracelet/ultraviolet"

	"github.com/taigrr/pathview/pkg/render"
)

func rowText(scr uv.ScreenBuffer, y, width int) string {
	var sb strings.Builder
	for x := range width {
		if c := scr.CellAt(x, y); c != nil {
			sb.WriteString(c.Content)
		}
	}
	return sb.String()
}

func TestConvergence(t *testing.T) {
	tests := []struct {
		name          string
		frames, limit int
		want          float64
	}{
		{"nothing", 0, 0, 0},
		{"first", 1, 0, 0},
		{"unbounded", 100, 0, 0.9},
		{"half cap", 50, 100, 0.5},
		{"cap", 100, 100, 1},
		{"over cap", 150, 100, 1},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := convergence(tc.frames, tc.limit); math.Abs(got-tc.want) > 1e-9 {
				t.Errorf("convergence(%d, %d) = %v, want %v", tc.frames, tc.limit, got, tc.want)
			}
		})
	}
}

func TestHUDAnimateSettles(t *testing.T) {
	h := NewHUD(60)
	for range 300 {
		h.Animate(50, 100)
	}
	if math.Abs(h.progress-0.5) > 1e-3 {
		t.Errorf("progress = %v, want 0.5", h.progress)
	}

	// A reset eases back rather than jumping.
	h.Animate(1, 100)
	if h.progress <= 0.01 || h.progress >= 0.5 {
		t.Errorf("progress after reset = %v", h.progress)
	}
}

func TestHUDUpdateFPS(t *testing.T) {
	h := NewHUD(60)
	start := h.fpsTime
	for i := range 30 {
		h.UpdateFPS(start.Add(time.Duration(i) * 10 * time.Millisecond))
	}
	h.UpdateFPS(start.Add(time.Second))
	if math.Abs(h.fps-31) > 1e-9 {
		t.Errorf("fps = %v, want 31", h.fps)
	}
}

func TestHUDDraw(t *testing.T) {
	scr := uv.NewScreenBuffer(80, 5)
	area := uv.Rect(0, 0, 80, 5)

	h := NewHUD(60)
	h.progress = 0.5
	h.Draw(scr, area, status{
		Frames:   12,
		Limit:    100,
		Captured: true,
		Camera:   render.Camera{},
	})

	top := rowText(scr, 0, 80)
	if !strings.Contains(top, "FPS") || !strings.Contains(top, "12/100 spp") {
		t.Errorf("top row = %q", top)
	}
	bottom := rowText(scr, 4, 80)
	if !strings.Contains(bottom, "captured") || !strings.Contains(bottom, "converging") {
		t.Errorf("bottom row = %q", bottom)
	}
	if !strings.Contains(bottom, "█") || !strings.Contains(bottom, "░") {
		t.Errorf("bar missing from %q", bottom)
	}
	if mid := rowText(scr, 2, 80); strings.TrimSpace(mid) != "" {
		t.Errorf("middle row touched: %q", mid)
	}
}

func TestHUDHidden(t *testing.T) {
	scr := uv.NewScreenBuffer(20, 3)
	h := NewHUD(60)
	h.Visible = false
	h.Draw(scr, uv.Rect(0, 0, 20, 3), status{Frames: 5})
	if top := rowText(scr, 0, 20); strings.Contains(top, "FPS") {
		t.Errorf("hidden HUD drew %q", top)
	}
}
