package region

import (
	"encoding/gob"
	"fmt"

	"github.com/utcompling/textgrounder-sub011/core/gazetteer"
)

// Region is a rectangular lat/long cell of the grid model.  A region
// is created lazily the first time a candidate location falls into its
// cell and persists for the life of the model.  Its center is the
// running mean of the member locations, which usually sits closer to
// the populated part of the cell than the geometric midpoint.
type Region struct {
	Id      int32
	MinLat  float64
	MaxLat  float64
	MinLong float64
	MaxLong float64

	SumLat  float64
	SumLong float64
	Members int
}

// Center returns the mean coordinate of the locations added so far.
func (r *Region) Center() gazetteer.Coordinate {
	if r.Members == 0 {
		return gazetteer.Coordinate{
			Lat:  (r.MinLat + r.MaxLat) / 2,
			Long: (r.MinLong + r.MaxLong) / 2,
		}
	}
	return gazetteer.Coordinate{
		Lat:  r.SumLat / float64(r.Members),
		Long: r.SumLong / float64(r.Members),
	}
}

func (r *Region) addMember(c gazetteer.Coordinate) {
	r.SumLat += c.Lat
	r.SumLong += c.Long
	r.Members++
}

// Grid partitions the globe into cells of DegreesPerRegion degrees on
// each side and assigns region ids to cells on first use.  Region
// identity is keyed by cell, so two locations in the same cell share a
// region.
type Grid struct {
	DegreesPerRegion float64
	Width            int // cells along the longitude axis
	Height           int // cells along the latitude axis
	CellToRegion     map[int32]int32
	Regions          []*Region
}

func init() {
	gob.Register(&Grid{})
}

func NewGrid(degreesPerRegion float64) *Grid {
	if degreesPerRegion <= 0 || degreesPerRegion > 180 {
		panic(fmt.Sprintf("degreesPerRegion = %f out of (0, 180]",
			degreesPerRegion))
	}
	return &Grid{
		DegreesPerRegion: degreesPerRegion,
		Width:            int(360 / degreesPerRegion),
		Height:           int(180 / degreesPerRegion),
		CellToRegion:     make(map[int32]int32),
		Regions:          make([]*Region, 0),
	}
}

func (g *Grid) cell(c gazetteer.Coordinate) int32 {
	x := int((c.Long + 180) / g.DegreesPerRegion)
	y := int((c.Lat + 90) / g.DegreesPerRegion)
	if x >= g.Width {
		x = g.Width - 1
	}
	if y >= g.Height {
		y = g.Height - 1
	}
	return int32(y*g.Width + x)
}

// AddLocation returns the region id of the cell containing c, creating
// the region on first use.
func (g *Grid) AddLocation(c gazetteer.Coordinate) int32 {
	cell := g.cell(c)
	id, ok := g.CellToRegion[cell]
	if !ok {
		x := int(cell) % g.Width
		y := int(cell) / g.Width
		r := &Region{
			Id:      int32(len(g.Regions)),
			MinLat:  float64(y)*g.DegreesPerRegion - 90,
			MaxLat:  float64(y+1)*g.DegreesPerRegion - 90,
			MinLong: float64(x)*g.DegreesPerRegion - 180,
			MaxLong: float64(x+1)*g.DegreesPerRegion - 180,
		}
		g.Regions = append(g.Regions, r)
		id = r.Id
		g.CellToRegion[cell] = id
	}
	g.Regions[id].addMember(c)
	return id
}

// RegionAt returns the region id of the cell containing c without
// creating it.  The second return value is false when the cell has no
// region, which callers bridging two models map to a missing id.
func (g *Grid) RegionAt(c gazetteer.Coordinate) (int32, bool) {
	id, ok := g.CellToRegion[g.cell(c)]
	return id, ok
}

func (g *Grid) NumRegions() int {
	return len(g.Regions)
}

func (g *Grid) Region(id int32) *Region {
	if id < 0 || int(id) >= len(g.Regions) {
		panic(fmt.Sprintf("region id=%d out of range [0, %d)",
			id, len(g.Regions)))
	}
	return g.Regions[id]
}
