// Package engine implements the wildfire cellular automaton: a dense
// grid of Cells advanced by a two-phase synchronous Step(), with
// per-cell ignition probability supplied by a fuzzy controller and a
// directional wind stencil.
package engine

import (
	"context"
	"crypto/rand"
	"encoding/binary"
	"math"
	randv2 "math/rand/v2"

	"github.com/google/uuid"

	"wildfire/engine/atomicstat"
	"wildfire/engine/pcgrand"
	"wildfire/fuzzy"
	"wildfire/landcover"
	"wildfire/wind"
)

// NeighborPolicy selects how a FOREST cell counts its burning
// neighbors, per spec.md §4.3.
type NeighborPolicy int

const (
	// Simple counts admitted burning neighbors unweighted.
	Simple NeighborPolicy = iota
	// WeightedStochastic weights each admitted neighbor by the wind
	// stencil and terrain height delta, including it probabilistically.
	WeightedStochastic
)

func (p NeighborPolicy) String() string {
	if p == WeightedStochastic {
		return "weighted_stochastic"
	}
	return "simple"
}

// DefaultDFire and DefaultDOut are the recommended burn-duration
// thresholds (steps since ignition) spec.md §3 names.
const (
	DefaultDFire = 8
	DefaultDOut  = 9
)

// Config holds everything needed to construct an Engine. Zero-valued
// DFire/DOut/NWorkers fall back to their documented defaults.
type Config struct {
	LandCover *landcover.Raster
	// Terrain is an optional height map, same shape as LandCover; nil
	// means all height deltas are treated as zero (spec.md §6).
	Terrain [][]float64

	WindDir     wind.Direction
	WindSpeed   float64
	Humidity    float64
	Temperature float64

	NeighborPolicy NeighborPolicy
	WindPolicy     wind.Policy
	FuzzyVariant   fuzzy.Variant

	DFire, DOut int
	Seed        uint64
	// NWorkers bounds the decision-phase worker pool; <=1 runs sequentially.
	NWorkers int
}

// Engine owns the grid, environment, wind stencil, and fuzzy
// controller for one simulation run.
type Engine struct {
	id uuid.UUID

	grid *Grid

	windDir     wind.Direction
	windSpeed   float64
	humidity    float64
	temperature float64

	neighborPolicy NeighborPolicy
	windPolicy     wind.Policy
	stencil        wind.Stencil

	fuzzyVariant fuzzy.Variant
	controller   *fuzzy.Controller

	terrain [][]float64

	dFire, dOut int
	seed        uint64
	nworkers    int

	step      int
	seedRand  *randv2.Rand
	lastStats *atomicstat.StepStats
}

// New validates cfg and constructs an Engine with all cells FOREST,
// seeded from cfg.LandCover.
func New(cfg Config) (*Engine, error) {
	if cfg.LandCover == nil {
		return nil, &DataError{Reason: "land cover raster is required"}
	}
	if cfg.Terrain != nil {
		if len(cfg.Terrain) != cfg.LandCover.Height {
			return nil, &DataError{Reason: "terrain height does not match land cover raster"}
		}
		for y, row := range cfg.Terrain {
			if len(row) != cfg.LandCover.Width {
				return nil, &DataError{Reason: "terrain row width does not match land cover raster"}
			}
			_ = y
		}
	}

	signed := cfg.WindPolicy == wind.SignedDirectional
	signedVariant := cfg.FuzzyVariant == fuzzy.VariantT
	if signed != signedVariant {
		return nil, &ConfigError{Reason: "wind_policy and fuzzy_variant are incompatible: " +
			"signed_directional requires Variant T, scaled_isotropic requires Variant S"}
	}

	controller, err := fuzzy.New(cfg.FuzzyVariant)
	if err != nil {
		return nil, &ConfigError{Reason: err.Error()}
	}

	dFire, dOut := cfg.DFire, cfg.DOut
	if dFire <= 0 {
		dFire = DefaultDFire
	}
	if dOut <= 0 {
		dOut = DefaultDOut
	}

	nworkers := cfg.NWorkers
	if nworkers < 1 {
		nworkers = 1
	}

	seed := cfg.Seed
	if seed == 0 {
		seed = randomSeed()
	}

	e := &Engine{
		id:             uuid.New(),
		grid:           newGrid(cfg.LandCover),
		windDir:        cfg.WindDir,
		windSpeed:      cfg.WindSpeed,
		humidity:       cfg.Humidity,
		temperature:    cfg.Temperature,
		neighborPolicy: cfg.NeighborPolicy,
		windPolicy:     cfg.WindPolicy,
		stencil:        wind.Build(cfg.WindPolicy, cfg.WindDir, cfg.WindSpeed),
		fuzzyVariant:   cfg.FuzzyVariant,
		controller:     controller,
		terrain:        cfg.Terrain,
		dFire:          dFire,
		dOut:           dOut,
		seed:           seed,
		nworkers:       nworkers,
		seedRand:       randv2.New(randv2.NewPCG(seed, seed^0x9e3779b97f4a7c15)),
	}
	return e, nil
}

// randomSeed draws a 64-bit seed from the system CSPRNG, used when the
// caller does not pin one down (spec.md §6's "default system-random").
func randomSeed() uint64 {
	var buf [8]byte
	if _, err := rand.Read(buf[:]); err != nil {
		return 1
	}
	return binary.LittleEndian.Uint64(buf[:])
}

// RunID identifies this simulation run, assigned once at construction.
func (e *Engine) RunID() uuid.UUID { return e.id }

func (e *Engine) Width() int               { return e.grid.Width }
func (e *Engine) Height() int              { return e.grid.Height }
func (e *Engine) WindDirection() wind.Direction { return e.windDir }
func (e *Engine) WindSpeed() float64       { return e.windSpeed }
func (e *Engine) Humidity() float64        { return e.humidity }
func (e *Engine) Temperature() float64     { return e.temperature }

// Stats reports the aggregate counters from the most recently
// completed Step(), or a zeroed StepStats before the first call.
func (e *Engine) Stats() *atomicstat.StepStats {
	if e.lastStats == nil {
		return atomicstat.NewStepStats()
	}
	return e.lastStats
}

func (e *Engine) checkBounds(x, y int) error {
	if !e.grid.inBounds(x, y) {
		return &BoundsError{X: x, Y: y, Width: e.grid.Width, Height: e.grid.Height}
	}
	return nil
}

// GetState returns the current state of cell (x,y).
func (e *Engine) GetState(x, y int) (State, error) {
	if err := e.checkBounds(x, y); err != nil {
		return Forest, err
	}
	return e.grid.at(x, y).State, nil
}

// SetState directly sets a cell's state with zero burn_duration, the
// deterministic-seeding form spec.md §4.3 names.
func (e *Engine) SetState(x, y int, s State) error {
	return e.SetStateWithDuration(x, y, s, 0)
}

// SetStateWithDuration sets a cell's state and burn_duration
// directly. A negative duration is accepted: it lets an operator seed
// a fire already partway through a dwell before the first Step(),
// converging to ordinary behavior once incremented past zero at
// commit time.
func (e *Engine) SetStateWithDuration(x, y int, s State, duration int) error {
	if err := e.checkBounds(x, y); err != nil {
		return err
	}
	c := e.grid.at(x, y)
	c.State = s
	c.NextState = s
	c.BurnDuration = duration
	return nil
}

// IgniteRandom draws n independent uniform (x,y) pairs and sets each
// to IGNITION only if it is currently FOREST.
func (e *Engine) IgniteRandom(n int) {
	for i := 0; i < n; i++ {
		x := e.seedRand.IntN(e.grid.Width)
		y := e.seedRand.IntN(e.grid.Height)
		c := e.grid.at(x, y)
		if c.State == Forest {
			c.State = Ignition
			c.NextState = Ignition
			c.BurnDuration = 0
		}
	}
}

// Step advances the automaton by one synchronous time step: a
// decision phase that computes every cell's NextState from State
// alone, followed by a commit phase that publishes NextState and
// advances burn_duration.
func (e *Engine) Step() error {
	stepIdx := e.step
	stats := atomicstat.NewStepStats()

	if err := runDecisionPhase(context.Background(), e, stepIdx, e.nworkers); err != nil {
		return err
	}

	for y := 0; y < e.grid.Height; y++ {
		for x := 0; x < e.grid.Width; x++ {
			c := e.grid.at(x, y)
			prev := c.State
			c.State = c.NextState
			if c.State.Burning() {
				c.BurnDuration++
			}
			if prev != Ash && c.State == Ash {
				stats.Consumed.Add(1)
			}
			if prev == Forest && c.State == Ignition {
				stats.Ignited.Add(1)
			}
		}
	}

	e.lastStats = stats
	e.step++
	return nil
}

// decideCell computes (but does not write) the NextState for (x,y),
// reading only State fields of the cell and its neighbors -- never
// NextState -- per the decision-phase/commit-phase separation
// invariant.
func (e *Engine) decideCell(x, y int, stepIdx int) State {
	c := e.grid.at(x, y)
	switch c.State {
	case Forest:
		return e.decideForest(x, y, c, stepIdx)
	case Ignition:
		if c.BurnDuration >= 1 {
			return Fire
		}
		return Ignition
	case Fire:
		if c.BurnDuration >= e.dFire {
			return BurningOut
		}
		return Fire
	case BurningOut:
		if c.BurnDuration >= e.dOut {
			return Ash
		}
		return BurningOut
	default: // Ash is absorbing.
		return Ash
	}
}

func (e *Engine) heightAt(x, y int) float64 {
	if e.terrain == nil {
		return 0
	}
	return e.terrain[y][x]
}

// decideForest scans the 8-neighborhood for burning neighbors, admits
// them per the configured NeighborPolicy, and rolls a fuzzy-weighted
// ignition probability scaled by the cell's land-cover modifier.
func (e *Engine) decideForest(x, y int, c *Cell, stepIdx int) State {
	rng := pcgrand.Source(e.seed, stepIdx, x, y)

	count := 0
	var admittedWeights []float64

	for _, off := range neighborOffsets {
		nx, ny := x+off.dx, y+off.dy
		if !e.grid.inBounds(nx, ny) {
			continue
		}
		n := e.grid.at(nx, ny)
		if !n.State.Burning() {
			continue
		}
		sw := e.stencil[off.dy+1][off.dx+1]

		switch e.neighborPolicy {
		case WeightedStochastic:
			w := sw * (1 + 0.05*(e.heightAt(nx, ny)-e.heightAt(x, y)))
			prob := math.Min(1, math.Max(0, w))
			if rng.Float64() < prob {
				count++
				admittedWeights = append(admittedWeights, sw)
			}
		default: // Simple
			count++
		}
	}

	if count == 0 {
		return Forest
	}

	var p float64
	switch e.fuzzyVariant {
	case fuzzy.VariantT:
		windDir := wind.WindDirScalar(admittedWeights)
		windSignal := e.windSpeed * windDir
		p = e.controller.Evaluate(windSignal, e.humidity, float64(count), e.temperature) * c.LandType.Modifier()
	default:
		p = e.controller.Evaluate(e.windSpeed, e.humidity, float64(count)) * c.LandType.Modifier()
	}

	u := rng.Float64()
	if 100*u < p {
		return Ignition
	}
	return Forest
}

// Snapshot returns a caller-owned H x W integer encoding of the grid:
// FOREST cells carry their land_type (1-17), and IGNITION/FIRE/
// BURNING_OUT/ASH map to 18/19/20/21. It never mutates the grid.
func (e *Engine) Snapshot() [][]int {
	out := make([][]int, e.grid.Height)
	for y := 0; y < e.grid.Height; y++ {
		out[y] = make([]int, e.grid.Width)
		for x := 0; x < e.grid.Width; x++ {
			c := e.grid.at(x, y)
			switch c.State {
			case Forest:
				out[y][x] = int(c.LandType)
			case Ignition:
				out[y][x] = landcover.StateIgnition
			case Fire:
				out[y][x] = landcover.StateFire
			case BurningOut:
				out[y][x] = landcover.StateBurningOut
			case Ash:
				out[y][x] = landcover.StateAsh
			}
		}
	}
	return out
}
