// Package landcover holds the vegetation/terrain taxonomy that seeds a
// grid and the fire-state codes used by the snapshot encoding.
package landcover

import "fmt"

// Class is a land-cover classification code in [1,17], or one of the
// reserved fire-state codes 18-21 used only by snapshots.
type Class int

const (
	EvergreenNeedleleaf Class = 1
	EvergreenBroadleaf  Class = 2
	DeciduousNeedleleaf Class = 3
	DeciduousBroadleaf  Class = 4
	MixedForest         Class = 5
	ClosedShrubland     Class = 6
	OpenShrubland       Class = 7
	WoodySavanna        Class = 8
	Savanna             Class = 9
	Grassland           Class = 10
	PermanentWetland    Class = 11
	Cropland            Class = 12
	Urban               Class = 13
	CroplandMosaic      Class = 14
	SnowIce             Class = 15
	Barren              Class = 16
	Water               Class = 17
)

// Fire-state codes reserved by the snapshot adapter; never valid as a
// raster's land_type.
const (
	StateIgnition    = 18
	StateFire        = 19
	StateBurningOut  = 20
	StateAsh         = 21
	MinClass         = 1
	MaxClass         = 17
	MinSnapshotValue = MinClass
	MaxSnapshotValue = StateAsh
)

// modifiers is the fixed ignition-susceptibility table, indexed by
// Class-1. Classes 15 (snow/ice) and 17 (water) carry modifier 0.0 and
// can never ignite, regardless of neighbors.
var modifiers = [MaxClass]float64{
	EvergreenNeedleleaf - 1: 0.90,
	EvergreenBroadleaf - 1:  0.70,
	DeciduousNeedleleaf - 1: 0.80,
	DeciduousBroadleaf - 1:  0.60,
	MixedForest - 1:         0.75,
	ClosedShrubland - 1:     0.50,
	OpenShrubland - 1:       0.50,
	WoodySavanna - 1:        0.40,
	Savanna - 1:             0.30,
	Grassland - 1:           0.20,
	PermanentWetland - 1:    0.10,
	Cropland - 1:            0.30,
	Urban - 1:               0.05,
	CroplandMosaic - 1:      0.25,
	SnowIce - 1:             0.00,
	Barren - 1:              0.05,
	Water - 1:               0.00,
}

var names = [MaxClass]string{
	EvergreenNeedleleaf - 1: "evergreen needleleaf",
	EvergreenBroadleaf - 1:  "evergreen broadleaf",
	DeciduousNeedleleaf - 1: "deciduous needleleaf",
	DeciduousBroadleaf - 1:  "deciduous broadleaf",
	MixedForest - 1:         "mixed forest",
	ClosedShrubland - 1:     "closed shrubland",
	OpenShrubland - 1:       "open shrubland",
	WoodySavanna - 1:        "woody savanna",
	Savanna - 1:             "savanna",
	Grassland - 1:           "grassland",
	PermanentWetland - 1:    "permanent wetland",
	Cropland - 1:            "cropland",
	Urban - 1:               "urban",
	CroplandMosaic - 1:      "cropland mosaic",
	SnowIce - 1:             "snow/ice",
	Barren - 1:              "barren",
	Water - 1:               "water",
}

// Valid reports whether k is a legal land-cover class, [1,17].
func (k Class) Valid() bool {
	return k >= MinClass && k <= MaxClass
}

// Modifier returns the ignition-susceptibility modifier for k, in [0,1].
// Panics if k is not Valid; callers must validate raster input via
// LoadRaster before constructing cells from it.
func (k Class) Modifier() float64 {
	if !k.Valid() {
		panic(fmt.Sprintf("landcover: class %d out of range [%d,%d]", k, MinClass, MaxClass))
	}
	return modifiers[k-1]
}

// Flammable reports whether a FOREST cell of this class can ever ignite.
func (k Class) Flammable() bool {
	return k.Modifier() > 0.0
}

func (k Class) String() string {
	if !k.Valid() {
		return fmt.Sprintf("landcover.Class(%d)", int(k))
	}
	return names[k-1]
}

// Raster is a validated, row-major land-cover grid: Classes[y][x].
type Raster struct {
	Width, Height int
	Classes       [][]Class
}

// DataError reports a malformed raster: wrong shape or an out-of-range class.
type DataError struct {
	Reason string
}

func (e *DataError) Error() string {
	return fmt.Sprintf("landcover: data error: %s", e.Reason)
}

// LoadRaster validates a decoded (H, W, int[H][W]) land-cover grid and
// wraps it as a Raster. Decoding the raster itself (TIFF, GeoTIFF, ...)
// is the caller's responsibility; this only validates the class values
// spec.md requires: every cell in [1,17], nonzero area.
func LoadRaster(grid [][]int) (*Raster, error) {
	height := len(grid)
	if height == 0 {
		return nil, &DataError{Reason: "raster has zero height"}
	}
	width := len(grid[0])
	if width == 0 {
		return nil, &DataError{Reason: "raster has zero width"}
	}

	classes := make([][]Class, height)
	for y, row := range grid {
		if len(row) != width {
			return nil, &DataError{Reason: fmt.Sprintf("raster row %d has width %d, want %d", y, len(row), width)}
		}
		classes[y] = make([]Class, width)
		for x, v := range row {
			if v < MinClass || v > MaxClass {
				return nil, &DataError{Reason: fmt.Sprintf("cell (%d,%d) class %d outside [%d,%d]", x, y, v, MinClass, MaxClass)}
			}
			classes[y][x] = Class(v)
		}
	}

	return &Raster{Width: width, Height: height, Classes: classes}, nil
}

// Uniform returns a width x height raster where every cell carries class k,
// used by tests and by scenarios that don't require a heterogeneous raster.
func Uniform(width, height int, k Class) (*Raster, error) {
	if !k.Valid() {
		return nil, &DataError{Reason: fmt.Sprintf("class %d outside [%d,%d]", k, MinClass, MaxClass)}
	}
	grid := make([][]int, height)
	for y := range grid {
		grid[y] = make([]int, width)
		for x := range grid[y] {
			grid[y][x] = int(k)
		}
	}
	return LoadRaster(grid)
}
