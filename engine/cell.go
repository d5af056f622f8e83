package engine

import (
	"fmt"

	"wildfire/landcover"
)

// State is a cell's position in the fire lifecycle.
type State int

const (
	Forest State = iota
	Ignition
	Fire
	BurningOut
	Ash
)

func (s State) String() string {
	switch s {
	case Forest:
		return "FOREST"
	case Ignition:
		return "IGNITION"
	case Fire:
		return "FIRE"
	case BurningOut:
		return "BURNING_OUT"
	case Ash:
		return "ASH"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// Burning reports whether a cell in this state counts as a
// "potentially contributing burning neighbor" per §4.3's neighbor scan.
func (s State) Burning() bool {
	return s == Ignition || s == Fire || s == BurningOut
}

// Cell holds one grid position's current state, staged next state, and
// burn-duration counter. NextState is written during the decision
// phase (and by the direct seeding setters, which keep it equal to
// State) and consumed only at commit; no other method may read it.
type Cell struct {
	State        State
	NextState    State
	BurnDuration int
	LandType     landcover.Class
}
