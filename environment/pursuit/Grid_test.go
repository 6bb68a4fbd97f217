package pursuit

import (
	"errors"
	"testing"
)

func TestNewGridValidation(t *testing.T) {
	tests := []struct {
		name      string
		width     int
		height    int
		obstacles []Cell
		start     Cell
		goal      Cell
	}{
		{"zero width", 0, 5, nil, Cell{0, 0}, Cell{0, 4}},
		{"negative height", 5, -1, nil, Cell{0, 0}, Cell{4, 0}},
		{"obstacle out of bounds", 5, 5, []Cell{{5, 0}}, Cell{0, 0}, Cell{4, 4}},
		{"duplicate obstacle", 5, 5, []Cell{{2, 2}, {2, 2}}, Cell{0, 0}, Cell{4, 4}},
		{"start out of bounds", 5, 5, nil, Cell{-1, 0}, Cell{4, 4}},
		{"goal out of bounds", 5, 5, nil, Cell{0, 0}, Cell{4, 5}},
		{"start on obstacle", 5, 5, []Cell{{0, 0}}, Cell{0, 0}, Cell{4, 4}},
		{"goal on obstacle", 5, 5, []Cell{{4, 4}}, Cell{0, 0}, Cell{4, 4}},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := NewGrid(test.width, test.height, test.obstacles,
				test.start, test.goal)
			if err == nil {
				t.Fatal("expected an error, got nil")
			}
			if !errors.Is(err, ErrInvalidConfig) {
				t.Errorf("expected ErrInvalidConfig, got %v", err)
			}
		})
	}
}

func TestGridQueries(t *testing.T) {
	g, err := NewGrid(5, 4, []Cell{{2, 2}}, Cell{0, 0}, Cell{4, 3})
	if err != nil {
		t.Fatalf("could not create grid: %v", err)
	}

	if !g.InBounds(Cell{0, 0}) || !g.InBounds(Cell{4, 3}) {
		t.Error("corner cells should be in bounds")
	}
	for _, c := range []Cell{{-1, 0}, {0, -1}, {5, 0}, {0, 4}} {
		if g.InBounds(c) {
			t.Errorf("%v should be out of bounds", c)
		}
		if g.IsObstacle(c) {
			t.Errorf("out-of-range query %v should not be an obstacle", c)
		}
		if g.Contains(c) {
			t.Errorf("grid should not contain %v", c)
		}
	}

	if !g.IsObstacle(Cell{2, 2}) {
		t.Error("(2, 2) should be an obstacle")
	}
	if g.Contains(Cell{2, 2}) {
		t.Error("grid should not contain the obstacle cell")
	}
	if !g.Contains(Cell{2, 1}) {
		t.Error("grid should contain the free cell (2, 1)")
	}
}

func TestMinMovesEmptyGrid(t *testing.T) {
	g, err := NewGrid(5, 5, nil, Cell{0, 0}, Cell{4, 4})
	if err != nil {
		t.Fatalf("could not create grid: %v", err)
	}

	moves, ok := g.MinMoves(Cell{0, 0}, Cell{4, 4})
	if !ok {
		t.Fatal("goal should be reachable")
	}
	if moves != 4 {
		t.Errorf("expected 4 diagonal moves, got %d", moves)
	}

	moves, ok = g.MinMoves(Cell{2, 2}, Cell{2, 2})
	if !ok || moves != 0 {
		t.Errorf("expected 0 moves to the same cell, got (%d, %v)", moves, ok)
	}
}

func TestMinMovesDetour(t *testing.T) {
	// A wall on x = 2 with a single gap at (2, 4)
	wall := []Cell{{2, 0}, {2, 1}, {2, 2}, {2, 3}}
	g, err := NewGrid(5, 5, wall, Cell{0, 0}, Cell{4, 0})
	if err != nil {
		t.Fatalf("could not create grid: %v", err)
	}

	moves, ok := g.MinMoves(Cell{0, 0}, Cell{4, 0})
	if !ok {
		t.Fatal("goal should be reachable through the gap")
	}
	if moves != 8 {
		t.Errorf("expected 8 moves through the gap, got %d", moves)
	}
}

func TestMinMovesUnreachable(t *testing.T) {
	// The goal corner is sealed off
	seal := []Cell{{3, 3}, {3, 4}, {4, 3}}
	g, err := NewGrid(5, 5, seal, Cell{0, 0}, Cell{4, 4})
	if err != nil {
		t.Fatalf("could not create grid: %v", err)
	}

	if _, ok := g.MinMoves(Cell{0, 0}, Cell{4, 4}); ok {
		t.Error("sealed goal should be unreachable")
	}
}
