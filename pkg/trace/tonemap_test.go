package trace

import (
	"math"
	"testing"

	"github.com/taigrr/pathview/pkg/render"
)

func TestTonemapperOperators(t *testing.T) {
	tests := []struct {
		name string
		tm   Tonemapper
		in   float32
		want uint8
	}{
		{"clamp linear mid", Tonemapper{Operator: ClampOnly, Gamma: 1}, 0.5, 128},
		{"clamp overexposed", Tonemapper{Operator: ClampOnly, Gamma: 1}, 7, 255},
		{"clamp black", Tonemapper{Operator: ClampOnly}, 0, 0},
		{"negative", Tonemapper{Operator: ClampOnly}, -3, 0},
		{"reinhard one", Tonemapper{Operator: Reinhard, Gamma: 1}, 1, 128},
		{"reinhard exposure", Tonemapper{Operator: Reinhard, Gamma: 1, Exposure: 1}, 0.5, 128},
		{"aces white", Tonemapper{Operator: ACES, Gamma: 1}, 100, 255},
		{"default gamma", Tonemapper{Operator: ClampOnly}, 0.5, uint8(math.Pow(0.5, 1/2.2)*255 + 0.5)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			s, err := render.NewSurface(1, 1)
			if err != nil {
				t.Fatal(err)
			}
			s.Fill(render.RGB{tc.in, tc.in, tc.in})
			fb := render.NewFramebuffer(1, 1)
			tc.tm.Present(render.PresentUniforms{Resolution: [2]int{1, 1}}, s, fb)

			got := fb.GetPixel(0, 0)
			if got.R != tc.want || got.G != tc.want || got.B != tc.want || got.A != 255 {
				t.Errorf("got %v, want %d", got, tc.want)
			}
		})
	}
}

func TestTonemapperResizesOutput(t *testing.T) {
	s, err := render.NewSurface(5, 3)
	if err != nil {
		t.Fatal(err)
	}
	s.Set(4, 2, render.RGB{1, 0, 0})
	fb := render.NewFramebuffer(2, 2)

	tm := &Tonemapper{Operator: ClampOnly}
	tm.Present(render.PresentUniforms{Resolution: [2]int{5, 3}}, s, fb)

	if fb.Width != 5 || fb.Height != 3 {
		t.Fatalf("framebuffer is %dx%d", fb.Width, fb.Height)
	}
	if got := fb.GetPixel(4, 2); got.R != 255 || got.G != 0 {
		t.Errorf("pixel = %v", got)
	}
}

func TestACESMonotonic(t *testing.T) {
	prev := -1.0
	for x := 0.0; x < 20; x += 0.05 {
		v := aces(x)
		if v < prev {
			t.Fatalf("aces decreases at %v", x)
		}
		prev = v
	}
}

func TestParseOperator(t *testing.T) {
	for o := Reinhard; o <= ClampOnly; o++ {
		got, err := ParseOperator(o.String())
		if err != nil || got != o {
			t.Errorf("%v: got %v, %v", o, got, err)
		}
	}
	if _, err := ParseOperator("filmic"); err == nil {
		t.Error("unknown operator accepted")
	}
}
