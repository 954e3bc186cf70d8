package main

import (
	"fmt"
	"image/color"
	"math"
	"time"

	"github.com/charmbracelet/harmonica"
	uv "github.com/charmbracelet/ultraviolet"

	"github.com/taigrr/pathview/pkg/render"
)

var (
	hudFg     = color.RGBA{235, 235, 235, 255}
	hudDim    = color.RGBA{150, 150, 160, 255}
	hudBg     = color.RGBA{0, 0, 0, 255}
	hudGood   = color.RGBA{110, 220, 120, 255}
	hudAccent = color.RGBA{240, 200, 80, 255}
)

// HUD draws status lines over the rendered image: FPS, sample count and
// camera pose on top, capture state and a convergence bar at the bottom.
type HUD struct {
	Visible bool

	fps       float64
	fpsFrames int
	fpsTime   time.Time

	// The bar eases toward the real progress with a critically damped
	// spring so a reset slides back instead of jumping.
	spring   harmonica.Spring
	progress float64
	velocity float64
}

// NewHUD creates a HUD animated at the given tick rate.
func NewHUD(fps int) *HUD {
	return &HUD{
		Visible: true,
		fpsTime: time.Now(),
		spring:  harmonica.NewSpring(harmonica.FPS(fps), 6.0, 1.0),
	}
}

// UpdateFPS updates the FPS counter (call once per frame)
func (h *HUD) UpdateFPS(now time.Time) {
	h.fpsFrames++
	elapsed := now.Sub(h.fpsTime)
	if elapsed >= time.Second {
		h.fps = float64(h.fpsFrames) / elapsed.Seconds()
		h.fpsFrames = 0
		h.fpsTime = now
	}
}

// convergence maps a sample count to [0, 1]. Without a cap noise falls
// off as 1/sqrt(n), which is what the bar shows.
func convergence(frames, limit int) float64 {
	if frames < 1 {
		return 0
	}
	if limit > 0 {
		return math.Min(float64(frames)/float64(limit), 1)
	}
	return 1 - 1/math.Sqrt(float64(frames))
}

// Animate advances the convergence bar one tick toward its target.
func (h *HUD) Animate(frames, limit int) {
	h.progress, h.velocity = h.spring.Update(h.progress, h.velocity, convergence(frames, limit))
}

// status is what the HUD reports for one tick.
type status struct {
	Frames    int
	Limit     int
	Converged bool
	Captured  bool
	Camera    render.Camera
}

// Draw renders the HUD onto the top and bottom rows of area.
func (h *HUD) Draw(scr uv.Screen, area uv.Rectangle, st status) {
	if !h.Visible || area.Dx() <= 0 || area.Dy() <= 0 {
		return
	}
	top, bottom := area.Min.Y, area.Max.Y-1

	samples := fmt.Sprintf(" %d spp ", st.Frames)
	if st.Limit > 0 {
		samples = fmt.Sprintf(" %d/%d spp ", st.Frames, st.Limit)
	}
	x := drawText(scr, area, area.Min.X, top, fmt.Sprintf(" %.0f FPS ", h.fps), hudGood)
	x = drawText(scr, area, x, top, samples, hudFg)

	yaw := math.Mod(st.Camera.Yaw()*180/math.Pi, 360)
	pos := st.Camera.Position
	drawText(scr, area, x, top, fmt.Sprintf(" (%.2f, %.2f, %.2f) yaw %.0f° pitch %.0f° ",
		pos.X, pos.Y, pos.Z, yaw, st.Camera.Pitch()*180/math.Pi), hudDim)

	if bottom == top {
		return
	}
	mouse := " mouse: free (esc to capture) "
	if st.Captured {
		mouse = " mouse: captured (esc to release) "
	}
	x = drawText(scr, area, area.Min.X, bottom, mouse, hudDim)

	label := " converging "
	fg := hudAccent
	if st.Converged {
		label, fg = " converged ", hudGood
	}
	x = drawText(scr, area, x, bottom, label, fg)
	drawBar(scr, area, x, bottom, area.Max.X-x-1, h.progress, fg)
}

// drawText writes s starting at (x, y), clipped to area, and returns the
// column after the last cell written.
func drawText(scr uv.Screen, area uv.Rectangle, x, y int, s string, fg color.Color) int {
	for _, r := range s {
		if x >= area.Max.X {
			break
		}
		scr.SetCell(x, y, &uv.Cell{
			Content: string(r),
			Width:   1,
			Style:   uv.Style{Fg: fg, Bg: hudBg},
		})
		x++
	}
	return x
}

func drawBar(scr uv.Screen, area uv.Rectangle, x, y, width int, progress float64, fg color.Color) {
	if width <= 0 {
		return
	}
	progress = math.Max(0, math.Min(progress, 1))
	filled := int(math.Round(progress * float64(width)))
	for i := range width {
		if x+i >= area.Max.X {
			break
		}
		content := "░"
		if i < filled {
			content = "█"
		}
		scr.SetCell(x+i, y, &uv.Cell{
			Content: content,
			Width:   1,
			Style:   uv.Style{Fg: fg, Bg: hudBg},
		})
	}
}
