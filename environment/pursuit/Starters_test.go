package pursuit

import (
	"errors"
	"testing"
)

func TestSingleStart(t *testing.T) {
	s := NewSingleStart(Cell{2, 3})

	first := s.Start()
	if first.AtVec(0) != 2 || first.AtVec(1) != 3 {
		t.Errorf("expected the start (2, 3), got (%v, %v)", first.AtVec(0),
			first.AtVec(1))
	}

	// The returned vector is a copy: mutating it must not move the start
	first.SetVec(0, 99)
	second := s.Start()
	if second.AtVec(0) != 2 || second.AtVec(1) != 3 {
		t.Error("mutating a returned start state changed the Starter")
	}
}

func TestUniformStartLegalAndDeterministic(t *testing.T) {
	g, err := NewGrid(5, 5, []Cell{{1, 1}, {2, 2}, {3, 3}}, Cell{0, 0},
		Cell{4, 4})
	if err != nil {
		t.Fatalf("could not create grid: %v", err)
	}

	const seed uint64 = 42
	a, err := NewUniformStart(g, seed)
	if err != nil {
		t.Fatalf("could not create starter: %v", err)
	}
	b, err := NewUniformStart(g, seed)
	if err != nil {
		t.Fatalf("could not create starter: %v", err)
	}

	for i := 0; i < 25; i++ {
		va, vb := a.Start(), b.Start()
		if va.AtVec(0) != vb.AtVec(0) || va.AtVec(1) != vb.AtVec(1) {
			t.Fatalf("draw %d: equal seeds diverged: (%v, %v) vs (%v, %v)",
				i, va.AtVec(0), va.AtVec(1), vb.AtVec(0), vb.AtVec(1))
		}

		c := Cell{int(va.AtVec(0)), int(va.AtVec(1))}
		if !g.Contains(c) {
			t.Fatalf("draw %d: start %v is not a free cell", i, c)
		}
		if c == g.Goal() {
			t.Fatalf("draw %d: start %v is the goal cell", i, c)
		}
	}
}

// TestUniformStartNeedsDrawableCell checks that a grid whose only free cell
// is the goal is rejected at construction rather than looping forever in
// Start.
func TestUniformStartNeedsDrawableCell(t *testing.T) {
	g, err := NewGrid(1, 1, nil, Cell{0, 0}, Cell{0, 0})
	if err != nil {
		t.Fatalf("could not create grid: %v", err)
	}

	if _, err := NewUniformStart(g, 42); !errors.Is(err, ErrInvalidConfig) {
		t.Errorf("expected ErrInvalidConfig, got %v", err)
	}
}
