package pursuit

import (
	"github.com/google/uuid"
)

// Snapshot is a read-only copy of an environment's state for external
// visualizers. The environment itself performs no rendering; mutating a
// Snapshot has no effect on the environment it was taken from.
type Snapshot struct {
	ID            uuid.UUID
	Width, Height int
	Obstacles     []Cell
	Goal          Cell
	Agent         Cell
	Seekers       []Cell
	Tick          int
	Outcome       Outcome
}

// Snapshot captures the environment's current state
func (p *Pursuit) Snapshot() Snapshot {
	seekers := make([]Cell, len(p.seekers))
	copy(seekers, p.seekers)

	return Snapshot{
		ID:        p.id,
		Width:     p.grid.width,
		Height:    p.grid.height,
		Obstacles: p.grid.Obstacles(),
		Goal:      p.grid.goal,
		Agent:     p.agent,
		Seekers:   seekers,
		Tick:      p.currentStep.Number,
		Outcome:   p.outcome,
	}
}
