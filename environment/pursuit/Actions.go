package pursuit

// Action identifies one of the nine discrete moves available each tick:
// staying put or moving one cell in a cardinal or diagonal direction.
//
// The integer encoding is fixed, since external policy code indexes action
// distributions by these values: 0 Stay, 1 North, 2 NorthEast, 3 East,
// 4 SouthEast, 5 South, 6 SouthWest, 7 West, 8 NorthWest.
type Action int

const (
	Stay Action = iota
	North
	NorthEast
	East
	SouthEast
	South
	SouthWest
	West
	NorthWest
)

// NumActions is the size of the action space
const NumActions int = 9

// displacements maps each Action to its unit displacement. North is +Y and
// east is +X.
var displacements = [NumActions]Cell{
	Stay:      {0, 0},
	North:     {0, 1},
	NorthEast: {1, 1},
	East:      {1, 0},
	SouthEast: {1, -1},
	South:     {0, -1},
	SouthWest: {-1, -1},
	West:      {-1, 0},
	NorthWest: {-1, 1},
}

// moveOrder fixes the priority order in which moves are considered by the
// seekers' pursuit rule and by shortest path search: straight axes before
// diagonals, clockwise from north, staying put last. The order breaks ties
// between equally good moves, so seeker trajectories are reproducible.
var moveOrder = [NumActions]Action{
	North, East, South, West,
	NorthEast, SouthEast, SouthWest, NorthWest,
	Stay,
}

// Valid returns whether a is within the action space
func (a Action) Valid() bool {
	return a >= 0 && int(a) < NumActions
}

// delta returns the unit displacement of the action
func (a Action) delta() Cell {
	return displacements[a]
}

func (a Action) String() string {
	switch a {
	case Stay:
		return "Stay"
	case North:
		return "North"
	case NorthEast:
		return "NorthEast"
	case East:
		return "East"
	case SouthEast:
		return "SouthEast"
	case South:
		return "South"
	case SouthWest:
		return "SouthWest"
	case West:
		return "West"
	case NorthWest:
		return "NorthWest"
	default:
		return "Invalid"
	}
}
