// Package pursuit implements a deterministic two-dimensional pursuit-evasion
// gridworld environment. An agent moves on a bounded grid of cells, some of
// which are obstacles, and must reach a fixed goal cell while a number of
// seekers chase it. The agent perceives obstacles and seekers only within a
// limited visibility radius and line of sight; the goal is always observable.
//
// The environment is single-threaded and fully deterministic: given an equal
// configuration and an equal action sequence, two instances produce identical
// timestep streams. Run many independent instances for parallelism.
package pursuit

import (
	"errors"
	"fmt"
	"math"
)

// Errors reported by the environment. All are returned wrapped, so callers
// should test them with errors.Is.
var (
	// ErrInvalidConfig is returned when a grid, seeker, or episode
	// configuration violates an invariant. No partial construction succeeds.
	ErrInvalidConfig = errors.New("invalid configuration")

	// ErrEpisodeEnded is returned by Step after a terminal timestep and
	// before the next Reset.
	ErrEpisodeEnded = errors.New("episode ended")

	// ErrInvalidAction is returned by Step for action values outside the
	// action space. The step has no effect on the environment.
	ErrInvalidAction = errors.New("invalid action")
)

// Cell is a grid cell position. X grows eastward and Y grows northward.
type Cell struct {
	X, Y int
}

func (c Cell) String() string {
	return fmt.Sprintf("(%d, %d)", c.X, c.Y)
}

func (c Cell) add(d Cell) Cell {
	return Cell{c.X + d.X, c.Y + d.Y}
}

// dist returns the Euclidean distance between two cells
func (c Cell) dist(o Cell) float64 {
	return math.Hypot(float64(c.X-o.X), float64(c.Y-o.Y))
}

// Grid is the static layout of the gridworld: its dimensions, obstacle
// cells, and the start and goal cells. A Grid is immutable after
// construction and may be shared between environment instances.
type Grid struct {
	width, height int
	obstacles     []Cell // index order is fixed and drives observation layout
	obstacleSet   map[Cell]struct{}
	start, goal   Cell
}

// NewGrid validates and returns a new Grid. The obstacle cells must be
// unique, lie within the grid bounds, and be disjoint from the start and
// goal cells, which themselves must lie within bounds.
func NewGrid(width, height int, obstacles []Cell, start, goal Cell) (*Grid, error) {
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("newGrid: dimensions (%d, %d) must be "+
			"positive: %w", width, height, ErrInvalidConfig)
	}

	g := &Grid{
		width:       width,
		height:      height,
		obstacles:   make([]Cell, len(obstacles)),
		obstacleSet: make(map[Cell]struct{}, len(obstacles)),
		start:       start,
		goal:        goal,
	}
	copy(g.obstacles, obstacles)

	for _, c := range g.obstacles {
		if !g.InBounds(c) {
			return nil, fmt.Errorf("newGrid: obstacle %v out of bounds: %w",
				c, ErrInvalidConfig)
		}
		if _, ok := g.obstacleSet[c]; ok {
			return nil, fmt.Errorf("newGrid: duplicate obstacle %v: %w", c,
				ErrInvalidConfig)
		}
		g.obstacleSet[c] = struct{}{}
	}

	if !g.InBounds(start) {
		return nil, fmt.Errorf("newGrid: start %v out of bounds: %w", start,
			ErrInvalidConfig)
	}
	if !g.InBounds(goal) {
		return nil, fmt.Errorf("newGrid: goal %v out of bounds: %w", goal,
			ErrInvalidConfig)
	}
	if g.IsObstacle(start) {
		return nil, fmt.Errorf("newGrid: start %v is an obstacle: %w", start,
			ErrInvalidConfig)
	}
	if g.IsObstacle(goal) {
		return nil, fmt.Errorf("newGrid: goal %v is an obstacle: %w", goal,
			ErrInvalidConfig)
	}

	return g, nil
}

// Width returns the number of columns in the grid
func (g *Grid) Width() int {
	return g.width
}

// Height returns the number of rows in the grid
func (g *Grid) Height() int {
	return g.height
}

// Start returns the agent's start cell
func (g *Grid) Start() Cell {
	return g.start
}

// Goal returns the goal cell
func (g *Grid) Goal() Cell {
	return g.goal
}

// InBounds returns whether c lies within the grid bounds
func (g *Grid) InBounds(c Cell) bool {
	return c.X >= 0 && c.X < g.width && c.Y >= 0 && c.Y < g.height
}

// IsObstacle returns whether c is an obstacle cell. Out-of-range cells are
// not obstacles.
func (g *Grid) IsObstacle(c Cell) bool {
	_, ok := g.obstacleSet[c]
	return ok
}

// Contains returns whether c is a free cell: in bounds and not an obstacle
func (g *Grid) Contains(c Cell) bool {
	return g.InBounds(c) && !g.IsObstacle(c)
}

// NumObstacles returns the number of obstacle cells
func (g *Grid) NumObstacles() int {
	return len(g.obstacles)
}

// Obstacles returns a copy of the obstacle cells in index order
func (g *Grid) Obstacles() []Cell {
	obstacles := make([]Cell, len(g.obstacles))
	copy(obstacles, g.obstacles)
	return obstacles
}

// MinMoves returns the minimum number of unit moves from one cell to
// another without entering obstacle cells, where a unit move is a single
// step in any of the cardinal or diagonal directions. The second return
// value is false if no such path exists.
func (g *Grid) MinMoves(from, to Cell) (int, bool) {
	if !g.Contains(from) || !g.Contains(to) {
		return 0, false
	}
	if from == to {
		return 0, true
	}

	type node struct {
		cell  Cell
		moves int
	}

	queue := []node{{from, 0}}
	visited := map[Cell]struct{}{from: {}}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for _, a := range moveOrder[:NumActions-1] {
			next := current.cell.add(a.delta())
			if !g.Contains(next) {
				continue
			}
			if _, ok := visited[next]; ok {
				continue
			}
			if next == to {
				return current.moves + 1, true
			}
			visited[next] = struct{}{}
			queue = append(queue, node{next, current.moves + 1})
		}
	}
	return 0, false
}

func (g *Grid) String() string {
	return fmt.Sprintf("Grid | Bounds: (%d, %d)  |  Obstacles: %d  |  "+
		"Start: %v  |  Goal: %v", g.width, g.height, len(g.obstacles),
		g.start, g.goal)
}
