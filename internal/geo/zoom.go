// Package geo holds the cartographic helpers used when exporting a map view:
// scale to zoom conversion and reprojection into Web Mercator.
package geo

import "math"

// MaxZoom is the deepest zoom level ScaleToZoom can return.
const MaxZoom = 18

// scaleZoom pairs a scale denominator with its web map zoom level.
type scaleZoom struct {
	scale float64
	zoom  int
}

// scaleTable follows https://wiki.openstreetmap.org/wiki/Zoom_levels,
// sorted by ascending scale so equal distances resolve to the smaller key.
var scaleTable = []scaleZoom{
	{2000, 18},
	{4000, 17},
	{8000, 16},
	{15000, 15},
	{35000, 14},
	{70000, 13},
	{150000, 12},
	{250000, 11},
	{500000, 10},
	{1000000, 9},
	{2000000, 8},
	{4000000, 7},
	{10000000, 6},
	{15000000, 5},
	{35000000, 4},
	{70000000, 3},
	{150000000, 2},
	{250000000, 1},
	{500000000, 0},
}

// ScaleToZoom approximates the zoom level for a 1:scale map view by picking
// the nearest entry of the scale table.
func ScaleToZoom(scale float64) int {
	best := scaleTable[0]
	bestDist := math.Abs(best.scale - scale)
	for _, e := range scaleTable[1:] {
		if d := math.Abs(e.scale - scale); d < bestDist {
			best, bestDist = e, d
		}
	}
	return best.zoom
}
