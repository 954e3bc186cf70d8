package render

// Stillness counts consecutive ticks without camera motion, including the
// current one. The count doubles as the accumulation weight handed to the
// render kernel, and its parity picks the ping-pong surface to write.
type Stillness struct {
	frames int
	limit  int
}

// NewStillness returns a counter starting at 1. A positive limit caps the
// count: once reached, the counter holds there and Converged reports true.
// A limit of zero or less never caps.
func NewStillness(limit int) *Stillness {
	if limit < 0 {
		limit = 0
	}
	return &Stillness{frames: 1, limit: limit}
}

// Observe records one tick and returns the updated count. Any motion resets
// the count to 1; otherwise it grows by one.
func (s *Stillness) Observe(moved bool) int {
	switch {
	case moved:
		s.frames = 1
	case s.limit > 0 && s.frames >= s.limit:
		// Held: nothing new to accumulate.
	default:
		s.frames++
	}
	return s.frames
}

// Frames returns the current count.
func (s *Stillness) Frames() int { return s.frames }

// Parity returns Frames mod 2.
func (s *Stillness) Parity() int { return s.frames % 2 }

// Limit returns the configured cap, 0 when unbounded.
func (s *Stillness) Limit() int { return s.limit }

// Converged reports whether the counter has reached its cap.
func (s *Stillness) Converged() bool {
	return s.limit > 0 && s.frames >= s.limit
}

// Reset restarts accumulation at 1.
func (s *Stillness) Reset() { s.frames = 1 }
