// Package envconfig loads, validates, and instantiates YAML system
// configurations describing pursuit environments. A system configuration
// names the agent (start and goal cells, velocity, visibility radius), the
// seekers (start cells and velocities), and the environment (grid
// dimensions, obstacle cells, episode time limit). Configurations are
// validated once, at load or creation time; the environments built from
// them perform no further I/O.
package envconfig

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	env "github.com/tylerdoan2004/ReactiveAvoidanceRL/environment"
	"github.com/tylerdoan2004/ReactiveAvoidanceRL/environment/pursuit"
	ts "github.com/tylerdoan2004/ReactiveAvoidanceRL/timestep"
)

// Version is the configuration format version this package accepts
const Version int = 1

// AgentConfig configures the agent of a pursuit environment
type AgentConfig struct {
	StartCoordinates []int `yaml:"start_coordinates"`
	GoalCoordinates  []int `yaml:"goal_coordinates"`
	Velocity         int   `yaml:"velocity"`
	VisibilityRadius int   `yaml:"visibility_radius"`
	HistoryLength    int   `yaml:"history_length"`
}

// SeekerConfig configures a single seeker
type SeekerConfig struct {
	StartCoordinates []int `yaml:"start_coordinates"`
	Velocity         int   `yaml:"velocity"`
}

// GridDimensions holds the width and height of the grid
type GridDimensions struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// EnvironmentConfig configures the gridworld itself
type EnvironmentConfig struct {
	GridDimensions       GridDimensions `yaml:"grid_dimensions"`
	ObstaclesCoordinates [][]int        `yaml:"obstacles_coordinates"`
	EpisodeTimeLimit     int            `yaml:"episode_time_limit"`
}

// SystemConfig is a complete agent-seeker-gridworld system configuration
type SystemConfig struct {
	Version     int               `yaml:"version"`
	Agent       AgentConfig       `yaml:"agent"`
	Seekers     []SeekerConfig    `yaml:"seekers"`
	Environment EnvironmentConfig `yaml:"environment"`
}

// Load reads, parses, and validates the YAML system configuration at path
func Load(path string) (*SystemConfig, error) {
	if filepath.Ext(path) != ".yaml" {
		return nil, fmt.Errorf("load: %v is not a YAML file: %w", path,
			pursuit.ErrInvalidConfig)
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("load: could not open %v: %v", path, err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	decoder.KnownFields(true)

	var config SystemConfig
	if err := decoder.Decode(&config); err != nil {
		return nil, fmt.Errorf("load: could not parse %v: %v: %w", path, err,
			pursuit.ErrInvalidConfig)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}
	return &config, nil
}

// Validate checks the configuration deeply, returning an error wrapping
// pursuit.ErrInvalidConfig describing the first violated invariant. Beyond
// structural checks, Validate verifies that the goal is reachable from the
// agent's start around the obstacles and that the episode time limit is
// large enough for the agent to reach it.
func (c *SystemConfig) Validate() error {
	if c.Version != Version {
		return fmt.Errorf("validate: config version %d is not %d: %w",
			c.Version, Version, pursuit.ErrInvalidConfig)
	}

	if c.Agent.Velocity <= 0 {
		return fmt.Errorf("validate: agent velocity %d must be positive: %w",
			c.Agent.Velocity, pursuit.ErrInvalidConfig)
	}
	if c.Agent.VisibilityRadius <= 0 {
		return fmt.Errorf("validate: visibility radius %d must be "+
			"positive: %w", c.Agent.VisibilityRadius, pursuit.ErrInvalidConfig)
	}
	if c.Agent.HistoryLength < 0 {
		return fmt.Errorf("validate: history length %d must be "+
			"non-negative: %w", c.Agent.HistoryLength, pursuit.ErrInvalidConfig)
	}
	if !validCoordinates(c.Agent.StartCoordinates) {
		return fmt.Errorf("validate: agent start coordinates %v are not a "+
			"pair of non-negative integers: %w", c.Agent.StartCoordinates,
			pursuit.ErrInvalidConfig)
	}
	if !validCoordinates(c.Agent.GoalCoordinates) {
		return fmt.Errorf("validate: agent goal coordinates %v are not a "+
			"pair of non-negative integers: %w", c.Agent.GoalCoordinates,
			pursuit.ErrInvalidConfig)
	}
	if cell(c.Agent.StartCoordinates) == cell(c.Agent.GoalCoordinates) {
		return fmt.Errorf("validate: agent start %v is the goal cell: %w",
			cell(c.Agent.StartCoordinates), pursuit.ErrInvalidConfig)
	}

	dims := c.Environment.GridDimensions
	if dims.Width <= 0 || dims.Height <= 0 {
		return fmt.Errorf("validate: grid dimensions (%d, %d) must be "+
			"positive: %w", dims.Width, dims.Height, pursuit.ErrInvalidConfig)
	}
	if c.Environment.EpisodeTimeLimit <= 0 {
		return fmt.Errorf("validate: episode time limit %d must be "+
			"positive: %w", c.Environment.EpisodeTimeLimit,
			pursuit.ErrInvalidConfig)
	}
	if largest := maxInt(dims.Width, dims.Height); c.Agent.VisibilityRadius > largest {
		return fmt.Errorf("validate: visibility radius %d exceeds largest "+
			"grid dimension %d: %w", c.Agent.VisibilityRadius, largest,
			pursuit.ErrInvalidConfig)
	}

	for i, coords := range c.Environment.ObstaclesCoordinates {
		if !validCoordinates(coords) {
			return fmt.Errorf("validate: obstacle %d coordinates %v are not "+
				"a pair of non-negative integers: %w", i, coords,
				pursuit.ErrInvalidConfig)
		}
	}

	// NewGrid checks obstacle uniqueness and bounds, and that the start and
	// goal cells are in bounds and free.
	grid, err := c.grid()
	if err != nil {
		return fmt.Errorf("validate: %w", err)
	}

	start := cell(c.Agent.StartCoordinates)
	seen := make(map[pursuit.Cell]struct{}, len(c.Seekers))
	for i, seeker := range c.Seekers {
		if !validCoordinates(seeker.StartCoordinates) {
			return fmt.Errorf("validate: seeker %d start coordinates %v are "+
				"not a pair of non-negative integers: %w", i,
				seeker.StartCoordinates, pursuit.ErrInvalidConfig)
		}
		if seeker.Velocity <= 0 {
			return fmt.Errorf("validate: seeker %d velocity %d must be "+
				"positive: %w", i, seeker.Velocity, pursuit.ErrInvalidConfig)
		}

		seekerStart := cell(seeker.StartCoordinates)
		if !grid.Contains(seekerStart) {
			return fmt.Errorf("validate: seeker %d start %v is not a free "+
				"cell: %w", i, seekerStart, pursuit.ErrInvalidConfig)
		}
		if seekerStart == start {
			return fmt.Errorf("validate: seeker %d starts on the agent's "+
				"start cell %v: %w", i, seekerStart, pursuit.ErrInvalidConfig)
		}
		if _, ok := seen[seekerStart]; ok {
			return fmt.Errorf("validate: duplicate seeker start %v: %w",
				seekerStart, pursuit.ErrInvalidConfig)
		}
		seen[seekerStart] = struct{}{}
	}

	moves, reachable := grid.MinMoves(start, cell(c.Agent.GoalCoordinates))
	if !reachable {
		return fmt.Errorf("validate: no obstacle-free path from start %v to "+
			"goal %v: %w", start, cell(c.Agent.GoalCoordinates),
			pursuit.ErrInvalidConfig)
	}
	if steps := minTimeSteps(moves, c.Agent.Velocity); steps >
		c.Environment.EpisodeTimeLimit {
		return fmt.Errorf("validate: episode time limit %d is below the %d "+
			"timesteps needed to reach the goal: %w",
			c.Environment.EpisodeTimeLimit, steps, pursuit.ErrInvalidConfig)
	}

	return nil
}

// Create builds the environment the configuration describes and returns it
// along with the first timestep of its first episode
func (c *SystemConfig) Create(discount float64) (env.Environment,
	ts.TimeStep, error) {

	if err := c.Validate(); err != nil {
		return nil, ts.TimeStep{}, err
	}

	grid, err := c.grid()
	if err != nil {
		return nil, ts.TimeStep{}, fmt.Errorf("create: %w", err)
	}

	seekers := make([]pursuit.SeekerSpec, len(c.Seekers))
	for i, seeker := range c.Seekers {
		seekers[i] = pursuit.SeekerSpec{
			Start: cell(seeker.StartCoordinates),
			Speed: seeker.Velocity,
		}
	}

	starter := pursuit.NewSingleStart(grid.Start())
	task := pursuit.NewEvade(starter, c.Environment.EpisodeTimeLimit,
		pursuit.DefaultRewards())

	cfg := pursuit.Config{
		AgentSpeed:       c.Agent.Velocity,
		VisibilityRadius: float64(c.Agent.VisibilityRadius),
		HistoryLen:       c.Agent.HistoryLength,
	}

	return pursuit.New(task, grid, seekers, cfg, discount)
}

// grid builds the pursuit.Grid the configuration describes
func (c *SystemConfig) grid() (*pursuit.Grid, error) {
	obstacles := make([]pursuit.Cell, len(c.Environment.ObstaclesCoordinates))
	for i, coords := range c.Environment.ObstaclesCoordinates {
		obstacles[i] = cell(coords)
	}

	return pursuit.NewGrid(c.Environment.GridDimensions.Width,
		c.Environment.GridDimensions.Height, obstacles,
		cell(c.Agent.StartCoordinates), cell(c.Agent.GoalCoordinates))
}

// validCoordinates returns whether coords is an [x, y] pair of
// non-negative integers
func validCoordinates(coords []int) bool {
	if len(coords) != 2 {
		return false
	}
	return coords[0] >= 0 && coords[1] >= 0
}

// cell converts an [x, y] coordinate pair to a Cell
func cell(coords []int) pursuit.Cell {
	return pursuit.Cell{X: coords[0], Y: coords[1]}
}

// minTimeSteps returns the minimum number of timesteps needed to take the
// argument number of unit moves at the argument velocity
func minTimeSteps(moves, velocity int) int {
	return (moves + velocity - 1) / velocity
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
