// Package wind derives the 3x3 directional weight stencil the automaton
// applies to a cell's neighborhood, from a cardinal direction and speed.
package wind

import (
	"fmt"
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Direction is one of the eight cardinal/intercardinal wind directions.
type Direction int

const (
	N Direction = iota
	NE
	E
	SE
	S
	SW
	W
	NW
)

func (d Direction) String() string {
	switch d {
	case N:
		return "N"
	case NE:
		return "NE"
	case E:
		return "E"
	case SE:
		return "SE"
	case S:
		return "S"
	case SW:
		return "SW"
	case W:
		return "W"
	case NW:
		return "NW"
	default:
		return fmt.Sprintf("Direction(%d)", int(d))
	}
}

// unitVectors gives each direction's downwind offset as a unit vector in
// (dx, dy) screen space (+y south), matching the table in §4.1: the
// stencil's downwind cell for N is (dy=-1, dx=0), etc.
var unitVectors = [8]mgl64.Vec2{
	N:  {0, -1},
	NE: {0.7071067811865476, -0.7071067811865476},
	E:  {1, 0},
	SE: {0.7071067811865476, 0.7071067811865476},
	S:  {0, 1},
	SW: {-0.7071067811865476, 0.7071067811865476},
	W:  {-1, 0},
	NW: {-0.7071067811865476, -0.7071067811865476},
}

// ringOffsets lists the 8 non-center 3x3 stencil cells, in (dx, dy) order,
// normalized to unit length so their dot product with a direction's unit
// vector classifies them as downwind (~1), flank (~0.71) or upwind (~-1).
var ringOffsets = [8]mgl64.Vec2{
	{0, -1},
	{0.7071067811865476, -0.7071067811865476},
	{1, 0},
	{0.7071067811865476, 0.7071067811865476},
	{0, 1},
	{-0.7071067811865476, 0.7071067811865476},
	{-1, 0},
	{-0.7071067811865476, -0.7071067811865476},
}

// Policy names the two named stencil-derivation strategies spec.md
// requires a compliant implementation to provide.
type Policy int

const (
	// ScaledIsotropic is Policy A: unsigned, speed-scaled main/flank weights.
	ScaledIsotropic Policy = iota
	// SignedDirectional is Policy B: signed +1/+0.5/-1/-0.5 weights, used to
	// derive the scalar wind_dir the fuzzy controller's signed wind antecedent expects.
	SignedDirectional
)

func (p Policy) String() string {
	switch p {
	case ScaledIsotropic:
		return "scaled_isotropic"
	case SignedDirectional:
		return "signed_directional"
	default:
		return fmt.Sprintf("Policy(%d)", int(p))
	}
}

// Stencil is a 3x3 matrix of signed weights, indexed [dy+1][dx+1]; the
// center (dy=0,dx=0) is always 0.
type Stencil [3][3]float64

// dotClass classifies a ring offset against the chosen direction's unit
// vector: downwind (dot ~ 1), flank (dot ~ 0.71 = cos 45deg), upwind
// (dot ~ -1 or ~ -0.71, the three cells reflecting the downwind triple),
// or neither (the two remaining off-axis cells, dot ~ 0).
func dotClass(dir mgl64.Vec2, offset mgl64.Vec2) float64 {
	return dir.Dot(offset)
}

// Build derives the 3x3 stencil for the given policy, direction, and
// nonnegative speed, per spec.md §4.1.
func Build(policy Policy, dir Direction, speed float64) Stencil {
	if speed <= 0 {
		return isotropicStencil()
	}
	switch policy {
	case SignedDirectional:
		return signedStencil(dir)
	default:
		return scaledStencil(dir, speed)
	}
}

func isotropicStencil() (s Stencil) {
	for dy := -1; dy <= 1; dy++ {
		for dx := -1; dx <= 1; dx++ {
			if dy == 0 && dx == 0 {
				continue
			}
			s[dy+1][dx+1] = 1.0
		}
	}
	return
}

// scaledStencil implements Policy A: the downwind cell and its two flanks
// are scaled down from speed; every other off-center cell stays at 1.0.
func scaledStencil(dir Direction, speed float64) (s Stencil) {
	s = isotropicStencil()
	main := math.Max(0.1, 1-speed/30)
	side := math.Max(0.3, 1-speed/40)

	dv := unitVectors[dir]
	for _, off := range ringOffsets {
		dy, dx := int(math.Round(off.Y())), int(math.Round(off.X()))
		dot := dotClass(dv, off)
		switch {
		case dot > 0.99:
			s[dy+1][dx+1] = main
		case dot > 0.5 && dot < 0.99:
			s[dy+1][dx+1] = side
		}
	}
	return
}

// signedStencil implements Policy B: downwind +1, flanks +0.5, the three
// upwind cells -1, and the remaining off-center cells -0.5.
func signedStencil(dir Direction) (s Stencil) {
	dv := unitVectors[dir]
	for _, off := range ringOffsets {
		dy, dx := int(math.Round(off.Y())), int(math.Round(off.X()))
		dot := dotClass(dv, off)
		switch {
		case dot > 0.99:
			s[dy+1][dx+1] = 1.0
		case dot > 0.5:
			s[dy+1][dx+1] = 0.5
		case dot < -0.5:
			s[dy+1][dx+1] = -1.0
		default:
			s[dy+1][dx+1] = -0.5
		}
	}
	return
}

// WindDirScalar folds the signed stencil weights of a cell's admitted
// burning neighbors, visited in fixed scan order, into the scalar
// {-0.6, 0, +1} the richer reference forwards to the fuzzy controller's
// signed wind antecedent (spec.md §4.3's weighted-stochastic admission
// policy). Once the fold reaches +1 it is sticky: later neighbors cannot
// overwrite it, but 0 and -0.6 can still overwrite each other as later
// neighbors are visited, matching the reference's per-neighbor loop.
func WindDirScalar(weights []float64) float64 {
	windDir := 0.0
	for _, w := range weights {
		switch {
		case w == 1.0:
			windDir = 1.0
		case w == 0.5 && windDir != 1.0:
			windDir = 0.0
		case (w == -1.0 || w == -0.5) && windDir != 1.0:
			windDir = -0.6
		}
	}
	return windDir
}
