// Package environment outlines the interfaces and structs needed to implement
// concrete environments
package environment

import (
	"gonum.org/v1/gonum/mat"

	ts "github.com/tylerdoan2004/ReactiveAvoidanceRL/timestep"
)

// Starter implements a distribution of starting states and samples starting
// states for environments
type Starter interface {
	Start() *mat.VecDense
}

// Ender determines whether a timestep is the last of its episode. An Ender
// that ends an episode modifies the timestep so that its StepType field is
// timestep.Last and its EndType records why the episode ended.
type Ender interface {
	End(*ts.TimeStep) bool
}

// Task implements the reward scheme for taking actions in some environment,
// along with the starting state distribution and the episode ending
// conditions for the task
type Task interface {
	Starter
	Ender

	// GetReward returns the reward for taking some action in some state,
	// resulting in some next state
	GetReward(state, action, nextState mat.Vector) float64

	// AtGoal returns whether the argument state is a goal state
	AtGoal(state mat.Matrix) bool

	// Min and Max return the minimum and maximum attainable rewards over
	// all timesteps
	Min() float64
	Max() float64

	RewardSpec() Spec
}

// Environment implements a simulated environment, which includes a Task to
// complete. Step and Reset are blocking, synchronous calls: an Environment
// performs no internal concurrency, so parallelism is achieved by running
// many independent Environment instances.
type Environment interface {
	Task

	// Reset resets the environment between episodes and returns the first
	// timestep of the new episode
	Reset() (ts.TimeStep, error)

	// Step takes one environmental step given a 1-dimensional action vector
	// and returns the next timestep and whether it is the last timestep of
	// the episode
	Step(action *mat.VecDense) (ts.TimeStep, bool, error)

	// CurrentTimeStep returns the last timestep returned by Reset or Step
	CurrentTimeStep() ts.TimeStep

	DiscountSpec() Spec
	ObservationSpec() Spec
	ActionSpec() Spec
}
