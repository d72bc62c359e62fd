package geo

import (
	"sort"

	"github.com/golang/geo/s2"
)

// S2 cell levels offered to map clients. Level 12 cells are roughly
// neighborhood sized (~3-6 km^2).
const (
	MinCellLevel     = 6
	MaxCellLevel     = 16
	DefaultCellLevel = 12
)

// HeatCell is one aggregated bucket of report density for map rendering.
type HeatCell struct {
	CellId         string  `json:"cell_id"`
	Latitude       float64 `json:"latitude"`
	Longitude      float64 `json:"longitude"`
	Count          int64   `json:"count"`
	SeverityWeight float64 `json:"severity_weight"`
}

type heatUnit struct {
	cnt      int64
	weight   float64
	origCell s2.CellID
}

// HeatAggregator buckets points into S2 cells of a fixed level.
type HeatAggregator struct {
	level int
	cells map[s2.CellID]*heatUnit
}

// ClampCellLevel forces a client-supplied level into the supported range.
func ClampCellLevel(level int) int {
	if level < MinCellLevel {
		return MinCellLevel
	}
	if level > MaxCellLevel {
		return MaxCellLevel
	}
	return level
}

func NewHeatAggregator(level int) *HeatAggregator {
	return &HeatAggregator{
		level: ClampCellLevel(level),
		cells: make(map[s2.CellID]*heatUnit),
	}
}

// AddPoint buckets one point with a severity weight into its parent cell.
func (a *HeatAggregator) AddPoint(lat, lng, weight float64) {
	pc := s2.CellIDFromLatLng(s2.LatLngFromDegrees(lat, lng))
	parent := pc.Parent(a.level)
	unit, ok := a.cells[parent]
	if !ok {
		unit = &heatUnit{}
		a.cells[parent] = unit
	}
	unit.cnt++
	unit.weight += weight
	unit.origCell = pc
}

// Cells returns the aggregated buckets ordered by cell token. Singleton
// cells keep the original point position instead of the cell center.
func (a *HeatAggregator) Cells() []HeatCell {
	out := make([]HeatCell, 0, len(a.cells))
	for c, unit := range a.cells {
		ll := c.LatLng()
		if unit.cnt == 1 {
			ll = unit.origCell.LatLng()
		}
		out = append(out, HeatCell{
			CellId:         c.ToToken(),
			Latitude:       ll.Lat.Degrees(),
			Longitude:      ll.Lng.Degrees(),
			Count:          unit.cnt,
			SeverityWeight: unit.weight / float64(unit.cnt),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CellId < out[j].CellId })
	return out
}
