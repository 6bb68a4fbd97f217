package pursuit

import (
	"math"
)

// SeekerSpec configures a single seeker: its start cell and the number of
// unit moves it takes per tick. A speed of 0 yields a stationary seeker.
type SeekerSpec struct {
	Start Cell
	Speed int
}

// chase returns a seeker's position after one tick of pursuit toward
// target. The seeker takes up to speed unit moves; each unit move is
// selected by chaseStep. Seekers pursue blindly: they move through obstacle
// cells, but never leave the grid.
func chase(g *Grid, seeker, target Cell, speed int) Cell {
	pos := seeker
	for i := 0; i < speed; i++ {
		pos = chaseStep(g, pos, target)
	}
	return pos
}

// chaseStep returns the in-bounds cell one unit move from pos which
// minimizes the Euclidean distance to target. Candidate moves are
// considered in moveOrder, and the first minimizing move wins, so the
// selection is deterministic even between equally good moves.
func chaseStep(g *Grid, pos, target Cell) Cell {
	best := pos
	bestDist := math.Inf(1)
	for _, a := range moveOrder {
		next := pos.add(a.delta())
		if !g.InBounds(next) {
			continue
		}
		if d := next.dist(target); d < bestDist {
			best = next
			bestDist = d
		}
	}
	return best
}
