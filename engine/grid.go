package engine

import "wildfire/landcover"

// Grid is a dense, row-major array of Cells: Cells[y][x]. The origin
// (0,0) is top-left; +x east, +y south. The grid is not toroidal --
// only in-bounds neighbors are considered.
type Grid struct {
	Width, Height int
	Cells         [][]Cell
}

func newGrid(raster *landcover.Raster) *Grid {
	g := &Grid{Width: raster.Width, Height: raster.Height}
	g.Cells = make([][]Cell, g.Height)
	for y := 0; y < g.Height; y++ {
		g.Cells[y] = make([]Cell, g.Width)
		for x := 0; x < g.Width; x++ {
			g.Cells[y][x] = Cell{
				State:     Forest,
				NextState: Forest,
				LandType:  raster.Classes[y][x],
			}
		}
	}
	return g
}

func (g *Grid) inBounds(x, y int) bool {
	return x >= 0 && x < g.Width && y >= 0 && y < g.Height
}

func (g *Grid) at(x, y int) *Cell {
	return &g.Cells[y][x]
}

// neighborOffsets lists the 8-neighborhood in the same (dy,dx) order
// as wind.Direction N..NW, so a neighbor's offset indexes directly
// into a wind.Stencil as stencil[dy+1][dx+1].
var neighborOffsets = [8]struct{ dy, dx int }{
	{-1, 0},
	{-1, 1},
	{0, 1},
	{1, 1},
	{1, 0},
	{1, -1},
	{0, -1},
	{-1, -1},
}
