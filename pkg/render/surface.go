package render

import (
	"errors"
	"fmt"
)

// ErrInvalidSize is returned when a surface is requested with a
// non-positive dimension.
var ErrInvalidSize = errors.New("render: invalid surface size")

// RGB is a linear-light color sample.
type RGB [3]float32

// Surface is a 3-channel floating point image holding accumulated radiance.
// Pixels are stored row-major, three floats per pixel.
type Surface struct {
	Width  int
	Height int
	Pix    []float32
}

// NewSurface allocates a cleared surface.
func NewSurface(width, height int) (*Surface, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrInvalidSize, width, height)
	}
	return &Surface{
		Width:  width,
		Height: height,
		Pix:    make([]float32, width*height*3),
	}, nil
}

func (s *Surface) offset(x, y int) int {
	return (y*s.Width + x) * 3
}

// At returns the pixel at (x, y), or black when out of bounds.
func (s *Surface) At(x, y int) RGB {
	if x < 0 || x >= s.Width || y < 0 || y >= s.Height {
		return RGB{}
	}
	i := s.offset(x, y)
	return RGB{s.Pix[i], s.Pix[i+1], s.Pix[i+2]}
}

// Set writes the pixel at (x, y). Out of bounds writes are ignored.
func (s *Surface) Set(x, y int, c RGB) {
	if x < 0 || x >= s.Width || y < 0 || y >= s.Height {
		return
	}
	i := s.offset(x, y)
	s.Pix[i], s.Pix[i+1], s.Pix[i+2] = c[0], c[1], c[2]
}

// Row returns the backing slice for row y (3*Width floats).
func (s *Surface) Row(y int) []float32 {
	start := s.offset(0, y)
	return s.Pix[start : start+s.Width*3]
}

// Clear sets every pixel to black.
func (s *Surface) Clear() {
	clear(s.Pix)
}

// Fill sets every pixel to c.
func (s *Surface) Fill(c RGB) {
	for i := 0; i < len(s.Pix); i += 3 {
		s.Pix[i], s.Pix[i+1], s.Pix[i+2] = c[0], c[1], c[2]
	}
}

// SameSize reports whether the surface is width×height.
func (s *Surface) SameSize(width, height int) bool {
	return s.Width == width && s.Height == height
}
