// Package snapshot writes presented frames to disk as PNG or WebP.
package snapshot

import (
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/HugoSmits86/nativewebp"
	"golang.org/x/image/draw"

	"github.com/taigrr/pathview/pkg/render"
)

// Image formats.
const (
	PNG  = "png"
	WebP = "webp"
)

// ErrUnknownFormat is returned for formats other than PNG and WebP.
var ErrUnknownFormat = errors.New("unknown snapshot format")

// Options control how a snapshot is encoded.
type Options struct {
	Format  string // PNG or WebP; empty picks from the file extension
	Scale   int    // integer upscale factor, 0 or 1 keeps the size
	Nearest bool   // upscale with hard pixel edges instead of CatmullRom
}

// Encode writes img to w in the given format.
func Encode(w io.Writer, img image.Image, format string) error {
	switch strings.ToLower(format) {
	case PNG:
		return png.Encode(w, img)
	case WebP:
		if err := nativewebp.Encode(w, img, nil); err != nil {
			return fmt.Errorf("webp encode: %w", err)
		}
		return nil
	}
	return fmt.Errorf("%w %q", ErrUnknownFormat, format)
}

// FormatFor returns the format a file at path is written in: format when
// set, otherwise the path's extension.
func FormatFor(path, format string) (string, error) {
	if format == "" {
		format = strings.TrimPrefix(filepath.Ext(path), ".")
	}
	switch f := strings.ToLower(format); f {
	case PNG, WebP:
		return f, nil
	}
	return "", fmt.Errorf("%s: %w %q", path, ErrUnknownFormat, format)
}

// Upscale enlarges img by an integer factor.
func Upscale(img image.Image, scale int, nearest bool) image.Image {
	if scale <= 1 {
		return img
	}
	b := img.Bounds()
	dst := image.NewRGBA(image.Rect(0, 0, b.Dx()*scale, b.Dy()*scale))
	var scaler draw.Scaler = draw.CatmullRom
	if nearest {
		scaler = draw.NearestNeighbor
	}
	scaler.Scale(dst, dst.Bounds(), img, b, draw.Src, nil)
	return dst
}

// Save writes img to path, creating parent directories as needed.
func Save(path string, img image.Image, opts Options) error {
	format, err := FormatFor(path, opts.Format)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create snapshot dir: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create snapshot: %w", err)
	}
	defer f.Close()

	if err := Encode(f, Upscale(img, opts.Scale, opts.Nearest), format); err != nil {
		return err
	}
	return f.Close()
}

// Name returns a timestamped file name for a snapshot taken at t.
func Name(dir, format string, t time.Time) string {
	return filepath.Join(dir, fmt.Sprintf("pathview-%s.%s", t.Format("20060102-150405.000"), strings.ToLower(format)))
}

// Capture saves the framebuffer into dir and returns the written path.
func Capture(fb *render.Framebuffer, dir string, opts Options, now time.Time) (string, error) {
	if fb.Width == 0 || fb.Height == 0 {
		return "", fmt.Errorf("capture %dx%d frame: %w", fb.Width, fb.Height, render.ErrInvalidSize)
	}
	format := opts.Format
	if format == "" {
		format = PNG
	}
	path := Name(dir, format, now)
	opts.Format = format
	if err := Save(path, fb.ToImage(), opts); err != nil {
		return "", err
	}
	render.Logger().Info("snapshot saved", "path", path, "width", fb.Width*max(opts.Scale, 1), "height", fb.Height*max(opts.Scale, 1))
	return path, nil
}
