package pursuit

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"

	env "github.com/tylerdoan2004/ReactiveAvoidanceRL/environment"
	"github.com/tylerdoan2004/ReactiveAvoidanceRL/utils/matutils"
)

// SingleStart starts every episode from the same cell
type SingleStart struct {
	state *mat.VecDense
}

// NewSingleStart returns a Starter which always starts episodes at c
func NewSingleStart(c Cell) SingleStart {
	state := mat.NewVecDense(2, []float64{float64(c.X), float64(c.Y)})
	return SingleStart{state}
}

// Start returns the starting cell as an (x, y) vector
func (s SingleStart) Start() *mat.VecDense {
	return mat.VecDenseCopyOf(s.state)
}

func (s SingleStart) String() string {
	return fmt.Sprintf("SingleStart | At: %v", matutils.Format(s.state))
}

// UniformStart draws the agent's starting cell uniformly from the free
// cells of a grid, excluding the goal cell. The draw stream is fully
// determined by the seed, so episodes remain reproducible.
type UniformStart struct {
	grid    *Grid
	starter env.UniformStarter
}

// NewUniformStart returns a seeded Starter drawing start cells from g. The
// grid must have at least one free cell besides the goal, or the rejection
// sampling in Start could never terminate.
func NewUniformStart(g *Grid, seed uint64) (*UniformStart, error) {
	drawable := false
	for x := 0; x < g.Width() && !drawable; x++ {
		for y := 0; y < g.Height(); y++ {
			if c := (Cell{x, y}); g.Contains(c) && c != g.Goal() {
				drawable = true
				break
			}
		}
	}
	if !drawable {
		return nil, fmt.Errorf("newUniformStart: no free cell other than "+
			"the goal to start from: %w", ErrInvalidConfig)
	}

	bounds := []r1.Interval{
		{Min: 0, Max: float64(g.Width())},
		{Min: 0, Max: float64(g.Height())},
	}
	return &UniformStart{g, env.NewUniformStarter(bounds, seed)}, nil
}

// Start samples free cells until one is neither an obstacle nor the goal
// and returns it as an (x, y) vector
func (u *UniformStart) Start() *mat.VecDense {
	for {
		v := u.starter.Start()

		// Samples lie in [0, width) x [0, height); flooring yields a cell.
		c := Cell{int(math.Floor(v.AtVec(0))), int(math.Floor(v.AtVec(1)))}

		if u.grid.Contains(c) && c != u.grid.Goal() {
			return mat.NewVecDense(2, []float64{float64(c.X), float64(c.Y)})
		}
	}
}
