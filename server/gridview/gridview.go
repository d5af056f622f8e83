// Package gridview renders an engine snapshot as a grid of colored
// svg rects, pushing an EleUpdate for every cell to the browser on
// each snapshot. Grounded on the shape of tabular/server/cell_views:
// a Convert function maps a raw data model into a slice of view-model
// cells, and a ViewComponent turns each view-model into per-element
// attribute updates.
package gridview

import (
	"fmt"
	"html/template"
	"strings"

	"wildfire/landcover"
	"wildfire/server/fastview"

	channerics "github.com/niceyeti/channerics/channels"
)

// Cell is one grid position's renderable state: its land cover or
// fire-state code, and the fill color that code maps to.
type Cell struct {
	X, Y int
	Code int
	Fill string
}

// Convert maps an engine snapshot (landcover.Class codes for FOREST
// cells, 18-21 for burning/ash cells) into view-model cells.
func Convert(snapshot [][]int) [][]Cell {
	cells := make([][]Cell, len(snapshot))
	for y, row := range snapshot {
		cells[y] = make([]Cell, len(row))
		for x, code := range row {
			cells[y][x] = Cell{X: x, Y: y, Code: code, Fill: getFill(code)}
		}
	}
	return cells
}

// getFill maps a snapshot code to a CSS color: burning states get a
// fixed fire palette, FOREST cells are shaded by land-cover class, and
// drier/sparser classes read lighter to hint at fuel load.
func getFill(code int) string {
	switch code {
	case landcover.StateIgnition:
		return "orangered"
	case landcover.StateFire:
		return "red"
	case landcover.StateBurningOut:
		return "dimgray"
	case landcover.StateAsh:
		return "black"
	}

	switch landcover.Class(code) {
	case landcover.EvergreenNeedleleaf, landcover.EvergreenBroadleaf, landcover.MixedForest:
		return "darkgreen"
	case landcover.DeciduousNeedleleaf, landcover.DeciduousBroadleaf:
		return "forestgreen"
	case landcover.ClosedShrubland, landcover.OpenShrubland, landcover.WoodySavanna, landcover.Savanna:
		return "olivedrab"
	case landcover.Grassland:
		return "yellowgreen"
	case landcover.PermanentWetland:
		return "teal"
	case landcover.Cropland, landcover.CroplandMosaic:
		return "khaki"
	case landcover.Urban:
		return "slategray"
	case landcover.SnowIce:
		return "white"
	case landcover.Barren:
		return "tan"
	case landcover.Water:
		return "steelblue"
	default:
		return "magenta"
	}
}

// FireGrid is the ViewComponent rendering the wildfire grid as svg
// rects, one per cell, updated in place as their fill color changes.
type FireGrid struct {
	id      string
	updates <-chan []fastview.EleUpdate

	width, height int
	cellDim       int
}

// NewFireGrid wires a FireGrid to a stream of view-model snapshots.
// cellDim is the pixel size of one grid cell in the rendered svg.
func NewFireGrid(done <-chan struct{}, cells <-chan [][]Cell, cellDim int) *FireGrid {
	fg := &FireGrid{id: "firegrid", cellDim: cellDim}
	fg.updates = channerics.Convert(done, cells, fg.onUpdate)
	return fg
}

func (fg *FireGrid) Updates() <-chan []fastview.EleUpdate {
	return fg.updates
}

// onUpdate emits one EleUpdate per cell on every tick, changed or not;
// batchify downstream keeps only the latest value per element id
// between flushes, so each flush still carries an update for every
// cell.
func (fg *FireGrid) onUpdate(cells [][]Cell) []fastview.EleUpdate {
	if fg.width == 0 && len(cells) > 0 {
		fg.height = len(cells)
		fg.width = len(cells[0])
	}

	ops := make([]fastview.EleUpdate, 0, fg.width*fg.height)
	for _, row := range cells {
		for _, cell := range row {
			ops = append(ops, fastview.EleUpdate{
				EleId: cellID(cell.X, cell.Y),
				Ops: []fastview.Op{
					{Key: "fill", Value: cell.Fill},
				},
			})
		}
	}
	return ops
}

func cellID(x, y int) string {
	return fmt.Sprintf("cell-%d-%d", x, y)
}

// Parse renders the initial svg grid: one rect per cell, sized by
// cellDim, addressed by the same ids onUpdate later targets.
func (fg *FireGrid) Parse(t *template.Template) (name string, err error) {
	name = fg.id
	if strings.Contains(name, "-") {
		return "", fmt.Errorf("gridview: template name %q must not contain '-'", name)
	}

	_, err = t.Parse(
		`{{ define "` + name + `" }}
		<div style="padding:20px;">
			{{ $cellDim := ` + fmt.Sprintf("%d", fg.cellDim) + ` }}
			{{ $rows := len . }}
			{{ $cols := len (index . 0) }}
			<svg id="` + fg.id + `" xmlns="http://www.w3.org/2000/svg"
				width="{{ mult $cols $cellDim }}px"
				height="{{ mult $rows $cellDim }}px"
				style="shape-rendering: crispEdges;">
				{{ range $row := . }}
					{{ range $cell := $row }}
						<rect id="cell-{{ $cell.X }}-{{ $cell.Y }}"
							x="{{ mult $cell.X $cellDim }}" y="{{ mult $cell.Y $cellDim }}"
							width="` + fmt.Sprintf("%d", fg.cellDim) + `" height="` + fmt.Sprintf("%d", fg.cellDim) + `"
							fill="{{ $cell.Fill }}" />
					{{ end }}
				{{ end }}
			</svg>
		</div>
		{{ end }}`)
	return
}
