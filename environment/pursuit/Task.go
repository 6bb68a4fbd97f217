package pursuit

import (
	"math"

	"gonum.org/v1/gonum/mat"

	env "github.com/tylerdoan2004/ReactiveAvoidanceRL/environment"
	ts "github.com/tylerdoan2004/ReactiveAvoidanceRL/timestep"
	"github.com/tylerdoan2004/ReactiveAvoidanceRL/utils/floatutils"
)

// Default reward magnitudes
const (
	DefaultStepCost         float64 = -1.0
	DefaultProgressScale    float64 = 0.5
	DefaultGoalReward       float64 = 100.0
	DefaultCapturePenalty   float64 = -100.0
	DefaultCollisionPenalty float64 = -100.0
)

// Rewards parameterizes the Evade task's reward function. StepCost is added
// on every non-terminal timestep, and ProgressScale scales the net
// reduction in the agent's distance to the goal since the previous tick.
// Goal, Capture, and Collision are the terminal rewards for the respective
// episode outcomes; a timeout yields the ordinary per-step reward.
type Rewards struct {
	StepCost      float64
	ProgressScale float64
	Goal          float64
	Capture       float64
	Collision     float64
}

// DefaultRewards returns the default reward scheme
func DefaultRewards() Rewards {
	return Rewards{
		StepCost:      DefaultStepCost,
		ProgressScale: DefaultProgressScale,
		Goal:          DefaultGoalReward,
		Capture:       DefaultCapturePenalty,
		Collision:     DefaultCollisionPenalty,
	}
}

// Evade implements the pursuit-evasion task: reach the goal cell before the
// episode step limit while avoiding capture by the seekers and collision
// with obstacles.
//
// Terminal conditions are evaluated in a fixed priority order, first match
// winning: capture, then collision, then goal arrival, then the step limit.
// Capture and collision are safety critical and dominate a simultaneous
// goal arrival.
type Evade struct {
	env.Starter
	rewards   Rewards
	stepLimit env.Ender

	p          *Pursuit
	registered bool
}

// NewEvade returns a new Evade task with start state distribution s and an
// episode step limit of cutoff timesteps. The task must be registered with
// a Pursuit environment before use; pursuit.New does this automatically.
func NewEvade(s env.Starter, cutoff int, rewards Rewards) *Evade {
	return &Evade{
		Starter:   s,
		rewards:   rewards,
		stepLimit: env.NewStepLimit(cutoff),
	}
}

// register gives the task access to the environment state it scores
func (e *Evade) register(p *Pursuit) {
	e.p = p
	e.registered = true
}

func (e *Evade) environment() *Pursuit {
	if !e.registered {
		panic("evade: task not registered with a Pursuit environment")
	}
	return e.p
}

// GetReward returns the reward for the transition that the environment just
// completed. The argument vectors are unused: the task reads the registered
// environment's positions directly, which already determine the transition.
func (e *Evade) GetReward(_, _, _ mat.Vector) float64 {
	p := e.environment()
	switch {
	case p.captured():
		return e.rewards.Capture
	case p.collided:
		return e.rewards.Collision
	case p.agent == p.grid.goal:
		return e.rewards.Goal
	}

	progress := p.prevAgent.dist(p.grid.goal) - p.agent.dist(p.grid.goal)
	return e.rewards.StepCost + e.rewards.ProgressScale*progress
}

// AtGoal returns whether the argument state, whose first two components are
// the agent's (x, y) cell, is a goal state
func (e *Evade) AtGoal(state mat.Matrix) bool {
	goal := e.environment().grid.goal
	return int(state.At(0, 0)) == goal.X && int(state.At(1, 0)) == goal.Y
}

// End determines if a timestep is the last timestep in the episode,
// evaluating the terminal conditions in priority order. If so, it changes
// the TimeStep's StepType to timestep.Last and sets its EndType to the
// appropriate ending type. This function returns true if the argument
// timestep is the last timestep in the episode and false otherwise.
func (e *Evade) End(t *ts.TimeStep) bool {
	p := e.environment()
	switch {
	case p.captured():
		t.StepType = ts.Last
		t.SetEnd(ts.Captured)
		return true

	case p.collided:
		t.StepType = ts.Last
		t.SetEnd(ts.Collided)
		return true

	case p.agent == p.grid.goal:
		t.StepType = ts.Last
		t.SetEnd(ts.TerminalStateReached)
		return true
	}

	return e.stepLimit.End(t)
}

// maxProgress is the largest per-tick reduction in distance to goal the
// agent can achieve: a full-speed diagonal move.
func (e *Evade) maxProgress() float64 {
	return math.Sqrt2 * float64(e.environment().cfg.AgentSpeed)
}

// Min returns the minimum attainable reward over all timesteps
func (e *Evade) Min() float64 {
	return floatutils.Min(
		e.rewards.Capture,
		e.rewards.Collision,
		e.rewards.StepCost-e.rewards.ProgressScale*e.maxProgress(),
	)
}

// Max returns the maximum attainable reward over all timesteps
func (e *Evade) Max() float64 {
	return floatutils.Max(
		e.rewards.Goal,
		e.rewards.StepCost+e.rewards.ProgressScale*e.maxProgress(),
	)
}

// RewardSpec returns the reward specification of the Task
func (e *Evade) RewardSpec() env.Spec {
	shape := mat.NewVecDense(1, nil)
	lowerBound := mat.NewVecDense(1, []float64{e.Min()})
	upperBound := mat.NewVecDense(1, []float64{e.Max()})

	return env.NewSpec(shape, env.Reward, lowerBound, upperBound,
		env.Continuous)
}
