package pursuit

// Sighting pairs an entity index with its position relative to the agent
type Sighting struct {
	Index  int
	DX, DY int
}

// Visibility computes which obstacles and seekers the agent perceives. An
// entity is visible when its Euclidean distance from the agent is at most
// the visibility radius (the boundary is inclusive) and no obstacle cell
// lies on the discretized line segment strictly between the agent and the
// entity. The computation is pure: for a fixed state the visible set and
// its ordering (ascending entity index) are fully determined.
type Visibility struct {
	grid   *Grid
	radius float64
}

// NewVisibility returns a Visibility over g with the given radius
func NewVisibility(g *Grid, radius float64) *Visibility {
	return &Visibility{g, radius}
}

// Visible returns whether the cell to can be seen from the cell from
func (v *Visibility) Visible(from, to Cell) bool {
	return from.dist(to) <= v.radius && v.lineOfSight(from, to)
}

// VisibleObstacles returns sightings of the obstacle cells visible from
// the argument cell, ordered by obstacle index
func (v *Visibility) VisibleObstacles(from Cell) []Sighting {
	var sightings []Sighting
	for i, c := range v.grid.obstacles {
		if v.Visible(from, c) {
			sightings = append(sightings, Sighting{i, c.X - from.X, c.Y - from.Y})
		}
	}
	return sightings
}

// VisibleSeekers returns sightings of the visible seekers, ordered by
// seeker index
func (v *Visibility) VisibleSeekers(from Cell, seekers []Cell) []Sighting {
	var sightings []Sighting
	for i, c := range seekers {
		if v.Visible(from, c) {
			sightings = append(sightings, Sighting{i, c.X - from.X, c.Y - from.Y})
		}
	}
	return sightings
}

// lineOfSight walks the Bresenham line from one cell to another and reports
// whether it is free of obstacles. The endpoints themselves are not tested,
// so an obstacle does not occlude itself.
func (v *Visibility) lineOfSight(from, to Cell) bool {
	x, y := from.X, from.Y
	dx := intAbs(to.X - x)
	dy := -intAbs(to.Y - y)

	sx, sy := 1, 1
	if x > to.X {
		sx = -1
	}
	if y > to.Y {
		sy = -1
	}

	err := dx + dy
	for x != to.X || y != to.Y {
		e2 := 2 * err
		if e2 >= dy {
			err += dy
			x += sx
		}
		if e2 <= dx {
			err += dx
			y += sy
		}
		if x == to.X && y == to.Y {
			break
		}
		if v.grid.IsObstacle(Cell{x, y}) {
			return false
		}
	}
	return true
}

func intAbs(a int) int {
	if a < 0 {
		return -a
	}
	return a
}
