package render

import (
	"image/color"

	uv "github.com/charmbracelet/ultraviolet"
)

var _ uv.Drawable = (*Framebuffer)(nil)

// Draw converts the framebuffer to terminal cells and draws them on the
// screen. Row r of the area shows pixel rows 2r and 2r+1.
func (fb *Framebuffer) Draw(scr uv.Screen, area uv.Rectangle) {
	// We use ▀ (upper half block) with fg=top color and bg=bottom color
	for row := area.Min.Y; row < area.Max.Y; row++ {
		topY := (row - area.Min.Y) * 2
		botY := topY + 1
		if topY >= fb.Height {
			break
		}

		for col := area.Min.X; col < area.Max.X; col++ {
			x := col - area.Min.X
			if x >= fb.Width {
				break
			}
			scr.SetCell(col, row, &uv.Cell{
				Content: "▀",
				Width:   1,
				Style: uv.Style{
					Fg: rgbaToColor(fb.GetPixel(x, topY)),
					Bg: rgbaToColor(fb.GetPixel(x, botY)),
				},
			})
		}
	}
}

// rgbaToColor converts color.RGBA to Go's color.Color interface.
func rgbaToColor(c color.RGBA) color.Color {
	if c.A == 0 {
		return nil // Transparent = no color
	}
	return c
}

// RGB8 creates an opaque color from 8-bit channels.
func RGB8(r, g, b uint8) color.RGBA {
	return color.RGBA{r, g, b, 255}
}
