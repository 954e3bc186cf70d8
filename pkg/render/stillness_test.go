package render

import "testing"

func TestStillnessSequence(t *testing.T) {
	s := NewStillness(0)
	if s.Frames() != 1 {
		t.Fatalf("initial frames = %d, want 1", s.Frames())
	}

	// The first still tick after startup observes 2.
	for want := 2; want <= 10; want++ {
		if got := s.Observe(false); got != want {
			t.Fatalf("frames = %d, want %d", got, want)
		}
	}
	if got := s.Observe(true); got != 1 {
		t.Errorf("after motion frames = %d, want 1", got)
	}
	if got := s.Observe(false); got != 2 {
		t.Errorf("frames = %d, want 2", got)
	}
}

func TestStillnessParity(t *testing.T) {
	s := NewStillness(0)
	for range 20 {
		n := s.Observe(false)
		if s.Parity() != n%2 {
			t.Fatalf("parity = %d at frames %d", s.Parity(), n)
		}
	}
}

func TestStillnessLimit(t *testing.T) {
	s := NewStillness(4)
	for range 10 {
		s.Observe(false)
	}
	if s.Frames() != 4 {
		t.Errorf("frames = %d, want 4", s.Frames())
	}
	if !s.Converged() {
		t.Error("not converged at limit")
	}

	s.Observe(true)
	if s.Converged() || s.Frames() != 1 {
		t.Errorf("after motion frames = %d converged = %v", s.Frames(), s.Converged())
	}
}

func TestStillnessUnbounded(t *testing.T) {
	for _, limit := range []int{0, -3} {
		s := NewStillness(limit)
		for range 1000 {
			s.Observe(false)
		}
		if s.Converged() {
			t.Errorf("limit %d: converged", limit)
		}
		if s.Limit() != 0 {
			t.Errorf("limit %d: Limit() = %d, want 0", limit, s.Limit())
		}
	}
}
