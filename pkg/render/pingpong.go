package render

import "fmt"

// PingPong owns the two accumulation surfaces. On every tick one of them is
// read as the previous accumulated image and the other is written with the
// next one. Which is which depends only on the parity of the stillness
// count, so consecutive ticks alternate roles.
type PingPong struct {
	surfaces [2]*Surface
}

// NewPingPong allocates both surfaces at width×height.
func NewPingPong(width, height int) (*PingPong, error) {
	p := &PingPong{}
	if err := p.alloc(width, height); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *PingPong) alloc(width, height int) error {
	for i := range p.surfaces {
		s, err := NewSurface(width, height)
		if err != nil {
			return fmt.Errorf("allocate surface %d: %w", i, err)
		}
		p.surfaces[i] = s
	}
	return nil
}

// Write returns the surface written on a tick with the given count.
func (p *PingPong) Write(frames int) *Surface {
	return p.surfaces[parity(frames)]
}

// Read returns the surface read on a tick with the given count: the one not
// being written.
func (p *PingPong) Read(frames int) *Surface {
	return p.surfaces[parity(frames+1)]
}

// Surface returns surface i (0 or 1).
func (p *PingPong) Surface(i int) *Surface {
	return p.surfaces[i]
}

// Size returns the current surface dimensions.
func (p *PingPong) Size() (width, height int) {
	return p.surfaces[0].Width, p.surfaces[0].Height
}

// Resize reallocates both surfaces when the size differs from the current
// one and reports whether it did. Previous contents are discarded.
func (p *PingPong) Resize(width, height int) (bool, error) {
	if p.surfaces[0].SameSize(width, height) && p.surfaces[1].SameSize(width, height) {
		return false, nil
	}
	if err := p.alloc(width, height); err != nil {
		return false, err
	}
	return true, nil
}

func parity(n int) int {
	if n < 0 {
		n = -n
	}
	return n % 2
}
