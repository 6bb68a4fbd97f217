package pursuit

import (
	"fmt"

	"github.com/google/uuid"
	"gonum.org/v1/gonum/mat"

	env "github.com/tylerdoan2004/ReactiveAvoidanceRL/environment"
	ts "github.com/tylerdoan2004/ReactiveAvoidanceRL/timestep"
	"github.com/tylerdoan2004/ReactiveAvoidanceRL/utils/matutils"
)

// Outcome reports how an episode ended. An episode has outcome Ongoing
// until a terminal timestep is produced; exactly one terminal outcome is
// ever produced per episode and it is immutable until the next Reset.
type Outcome int

const (
	Ongoing Outcome = iota
	Success
	Captured
	Collided
	TimedOut
)

func (o Outcome) String() string {
	switch o {
	case Success:
		return "Success"
	case Captured:
		return "Captured"
	case Collided:
		return "Collided"
	case TimedOut:
		return "TimedOut"
	default:
		return "Ongoing"
	}
}

// outcomeOf maps an episode ending type to its Outcome
func outcomeOf(e ts.EndType) Outcome {
	switch e {
	case ts.TerminalStateReached:
		return Success
	case ts.Timeout:
		return TimedOut
	case ts.Captured:
		return Captured
	case ts.Collided:
		return Collided
	default:
		return Ongoing
	}
}

// Config holds the per-episode parameters of a Pursuit environment. The
// episode time limit is not part of Config: it belongs to the task's step
// limit ender (see NewEvade).
type Config struct {
	// AgentSpeed is the number of unit moves the agent takes per tick
	AgentSpeed int

	// VisibilityRadius bounds the Euclidean distance at which the agent
	// perceives obstacles and seekers. The boundary is inclusive.
	VisibilityRadius float64

	// CaptureRadius is the distance at or within which a seeker captures
	// the agent. 0 means capture requires sharing a cell.
	CaptureRadius float64

	// HistoryLen is the number of prior observation frames included in
	// each observation, zero padded early in the episode
	HistoryLen int
}

// phase is the lifecycle state of a Pursuit environment
type phase int

const (
	running phase = iota
	terminated
)

// Pursuit implements the pursuit-evasion gridworld environment. It owns all
// mutable episode state (agent and seeker positions, observation history)
// exclusively: instances share no state, so independent instances may run
// concurrently without locking.
//
// Pursuit implements the environment.Environment interface.
type Pursuit struct {
	env.Task
	grid        *Grid
	seekerSpecs []SeekerSpec
	cfg         Config
	discount    float64
	vis         *Visibility
	id          uuid.UUID

	phase       phase
	agent       Cell
	prevAgent   Cell
	seekers     []Cell
	collided    bool
	outcome     Outcome
	history     *history
	currentStep ts.TimeStep
}

// New validates the configuration and returns a new Pursuit environment
// along with the first timestep of its first episode. If t is an *Evade
// task it is registered with the returned environment.
func New(t env.Task, g *Grid, seekers []SeekerSpec, cfg Config,
	discount float64) (*Pursuit, ts.TimeStep, error) {

	if t == nil {
		return nil, ts.TimeStep{}, fmt.Errorf("new: no task: %w",
			ErrInvalidConfig)
	}
	if g == nil {
		return nil, ts.TimeStep{}, fmt.Errorf("new: no grid: %w",
			ErrInvalidConfig)
	}
	if cfg.AgentSpeed < 1 {
		return nil, ts.TimeStep{}, fmt.Errorf("new: agent speed %d must be "+
			"at least 1: %w", cfg.AgentSpeed, ErrInvalidConfig)
	}
	if cfg.VisibilityRadius < 0 {
		return nil, ts.TimeStep{}, fmt.Errorf("new: visibility radius %v "+
			"must be non-negative: %w", cfg.VisibilityRadius, ErrInvalidConfig)
	}
	if cfg.CaptureRadius < 0 {
		return nil, ts.TimeStep{}, fmt.Errorf("new: capture radius %v must "+
			"be non-negative: %w", cfg.CaptureRadius, ErrInvalidConfig)
	}
	if cfg.HistoryLen < 0 {
		return nil, ts.TimeStep{}, fmt.Errorf("new: history length %d must "+
			"be non-negative: %w", cfg.HistoryLen, ErrInvalidConfig)
	}
	for i, s := range seekers {
		if !g.InBounds(s.Start) {
			return nil, ts.TimeStep{}, fmt.Errorf("new: seeker %d start %v "+
				"out of bounds: %w", i, s.Start, ErrInvalidConfig)
		}
		if g.IsObstacle(s.Start) {
			return nil, ts.TimeStep{}, fmt.Errorf("new: seeker %d start %v "+
				"is an obstacle: %w", i, s.Start, ErrInvalidConfig)
		}
		if s.Speed < 0 {
			return nil, ts.TimeStep{}, fmt.Errorf("new: seeker %d speed %d "+
				"must be non-negative: %w", i, s.Speed, ErrInvalidConfig)
		}
	}

	specs := make([]SeekerSpec, len(seekers))
	copy(specs, seekers)

	p := &Pursuit{
		Task:        t,
		grid:        g,
		seekerSpecs: specs,
		cfg:         cfg,
		discount:    discount,
		vis:         NewVisibility(g, cfg.VisibilityRadius),
		id:          uuid.New(),
		seekers:     make([]Cell, len(seekers)),
	}
	p.history = newHistory(cfg.HistoryLen, p.frameSize())

	if evade, ok := t.(*Evade); ok {
		evade.register(p)
	}

	firstStep, err := p.Reset()
	if err != nil {
		return nil, ts.TimeStep{}, err
	}
	return p, firstStep, nil
}

// Reset resets the environment between episodes, drawing the agent's
// starting cell from the task's Starter, and returns the first timestep of
// the new episode. No state persists across Reset except configuration.
func (p *Pursuit) Reset() (ts.TimeStep, error) {
	start := p.Start()
	if start.Len() != 2 {
		return ts.TimeStep{}, fmt.Errorf("reset: starting state must have "+
			"2 features \n\twant(2) \n\thave(%v)", start.Len())
	}

	agent := Cell{int(start.AtVec(0)), int(start.AtVec(1))}
	if !p.grid.Contains(agent) {
		return ts.TimeStep{}, fmt.Errorf("reset: start %v is not a free "+
			"cell: %w", agent, ErrInvalidConfig)
	}

	p.agent = agent
	p.prevAgent = agent
	for i, s := range p.seekerSpecs {
		p.seekers[i] = s.Start
	}
	p.collided = false
	p.outcome = Ongoing
	p.history.clear()
	p.phase = running

	firstStep := ts.New(ts.First, 0, p.discount, p.observe(), 0)
	p.currentStep = firstStep
	return firstStep, nil
}

// Step advances the environment by one tick given a 1-dimensional action
// vector holding one of the nine discrete actions. It applies the agent's
// displacement, advances each seeker one tick of pursuit toward the agent's
// pre-move position, and evaluates the terminal conditions, returning the
// next timestep and whether it is the last of the episode.
//
// Step fails with ErrEpisodeEnded once the episode has terminated and with
// ErrInvalidAction for actions outside the action space; in both cases the
// environment state is unchanged.
func (p *Pursuit) Step(action *mat.VecDense) (ts.TimeStep, bool, error) {
	if p.phase == terminated {
		return ts.TimeStep{}, true, fmt.Errorf("step: %w", ErrEpisodeEnded)
	}
	if action.Len() != 1 {
		return ts.TimeStep{}, false, fmt.Errorf("step: actions must be "+
			"1-dimensional \n\twant(1) \n\thave(%v): %w", action.Len(),
			ErrInvalidAction)
	}
	a := Action(int(action.AtVec(0)))
	if !a.Valid() {
		return ts.TimeStep{}, false, fmt.Errorf("step: no action %v in "+
			"action space: %w", int(action.AtVec(0)), ErrInvalidAction)
	}

	p.prevAgent = p.agent
	p.collided = false
	p.moveAgent(a)

	// Seekers pursue the agent's pre-move position
	for i := range p.seekers {
		p.seekers[i] = chase(p.grid, p.seekers[i], p.prevAgent,
			p.seekerSpecs[i].Speed)
	}

	nextObs := p.observe()
	reward := p.GetReward(p.currentStep.Observation, action, nextObs)
	nextStep := ts.New(ts.Mid, reward, p.discount, nextObs,
		p.currentStep.Number+1)

	last := p.End(&nextStep)
	if last {
		p.phase = terminated
		p.outcome = outcomeOf(nextStep.EndType())
	}

	p.currentStep = nextStep
	return nextStep, last, nil
}

// moveAgent applies the agent's displacement as AgentSpeed unit moves.
// Each unit move is clamped to the grid bounds per axis, so moving into a
// wall or edge is a no-op displacement along that axis. If a unit move
// lands on an obstacle cell the agent stops on the last free cell and the
// collision is recorded; checking unit moves rather than the endpoint
// prevents tunneling through single-cell obstacles at higher speeds.
func (p *Pursuit) moveAgent(a Action) {
	d := a.delta()
	for i := 0; i < p.cfg.AgentSpeed; i++ {
		next := p.agent.add(d)
		next.X = clampInt(next.X, 0, p.grid.width-1)
		next.Y = clampInt(next.Y, 0, p.grid.height-1)

		if p.grid.IsObstacle(next) {
			p.collided = true
			return
		}
		p.agent = next
	}
}

// captured returns whether any seeker is within the capture radius of the
// agent's current position
func (p *Pursuit) captured() bool {
	for _, s := range p.seekers {
		if p.agent.dist(s) <= p.cfg.CaptureRadius {
			return true
		}
	}
	return false
}

// CurrentTimeStep returns the last timestep returned by Reset or Step
func (p *Pursuit) CurrentTimeStep() ts.TimeStep {
	return p.currentStep
}

// frameSize returns the number of values in one observation frame
func (p *Pursuit) frameSize() int {
	return 4 + 3*(p.grid.NumObstacles()+len(p.seekerSpecs))
}

// frame builds the current observation frame: the agent's absolute
// position, the goal's relative vector, and one [visible, dx, dy] slot per
// obstacle and per seeker in entity index order. Slots of entities outside
// the visibility radius or line of sight are zero.
func (p *Pursuit) frame() []float64 {
	f := make([]float64, p.frameSize())
	f[0] = float64(p.agent.X)
	f[1] = float64(p.agent.Y)
	f[2] = float64(p.grid.goal.X - p.agent.X)
	f[3] = float64(p.grid.goal.Y - p.agent.Y)

	for _, s := range p.vis.VisibleObstacles(p.agent) {
		i := 4 + 3*s.Index
		f[i] = 1
		f[i+1] = float64(s.DX)
		f[i+2] = float64(s.DY)
	}
	numObstacles := p.grid.NumObstacles()
	for _, s := range p.vis.VisibleSeekers(p.agent, p.seekers) {
		i := 4 + 3*(numObstacles+s.Index)
		f[i] = 1
		f[i+1] = float64(s.DX)
		f[i+2] = float64(s.DY)
	}
	return f
}

// observe builds the observation for the current state, the buffered prior
// frames oldest-first followed by the current frame, and records the
// current frame in the history buffer.
func (p *Pursuit) observe() *mat.VecDense {
	frame := p.frame()
	data := append(p.history.ordered(), frame...)
	p.history.push(frame)
	return mat.NewVecDense(len(data), data)
}

// Report summarizes the current episode for external evaluation tooling
type Report struct {
	// ID identifies the environment instance that ran the episode
	ID uuid.UUID

	// Outcome is the episode's outcome, Ongoing if it has not ended
	Outcome Outcome

	// Steps is the number of completed ticks
	Steps int
}

// Report returns an episode-end report for the current episode
func (p *Pursuit) Report() Report {
	return Report{
		ID:      p.id,
		Outcome: p.outcome,
		Steps:   p.currentStep.Number,
	}
}

// ObservationSpec returns the observation specification of the environment
func (p *Pursuit) ObservationSpec() env.Spec {
	frames := p.cfg.HistoryLen + 1
	n := frames * p.frameSize()

	w := float64(p.grid.width - 1)
	h := float64(p.grid.height - 1)

	frameLow := make([]float64, 0, p.frameSize())
	frameHigh := make([]float64, 0, p.frameSize())

	// Agent absolute position, then goal relative vector
	frameLow = append(frameLow, 0, 0, -w, -h)
	frameHigh = append(frameHigh, w, h, w, h)

	// Entity slots: visibility flag then relative vector
	for i := 0; i < p.grid.NumObstacles()+len(p.seekerSpecs); i++ {
		frameLow = append(frameLow, 0, -w, -h)
		frameHigh = append(frameHigh, 1, w, h)
	}

	low := make([]float64, 0, n)
	high := make([]float64, 0, n)
	for i := 0; i < frames; i++ {
		low = append(low, frameLow...)
		high = append(high, frameHigh...)
	}

	shape := mat.NewVecDense(n, nil)
	lowerBound := mat.NewVecDense(n, low)
	upperBound := mat.NewVecDense(n, high)

	return env.NewSpec(shape, env.Observation, lowerBound, upperBound,
		env.Discrete)
}

// ActionSpec returns the action specification of the environment
func (p *Pursuit) ActionSpec() env.Spec {
	shape := mat.NewVecDense(1, nil)
	lowerBound := mat.NewVecDense(1, []float64{float64(Stay)})
	upperBound := mat.NewVecDense(1, []float64{float64(NumActions - 1)})

	return env.NewSpec(shape, env.Action, lowerBound, upperBound,
		env.Discrete)
}

// DiscountSpec returns the discounting specification of the environment
func (p *Pursuit) DiscountSpec() env.Spec {
	shape := mat.NewVecDense(1, nil)
	bound := mat.NewVecDense(1, []float64{p.discount})

	return env.NewSpec(shape, env.Discount, bound, bound, env.Continuous)
}

// String returns a string representation of the environment
func (p *Pursuit) String() string {
	agent := matutils.Format(mat.NewVecDense(2, []float64{
		float64(p.agent.X),
		float64(p.agent.Y),
	}))

	return fmt.Sprintf("Pursuit | Agent: %v  |  Seekers: %d  |  Goal: %v  "+
		"|  Bounds: (%d, %d)", agent, len(p.seekers), p.grid.goal,
		p.grid.width, p.grid.height)
}

func clampInt(v, min, max int) int {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}
