package region

import (
	"encoding/gob"
	"log"
	"math"

	"github.com/utcompling/textgrounder-sub011/core/corpus"
	"github.com/utcompling/textgrounder-sub011/core/gazetteer"
)

// CoordinateEpsilon bounds the placeholder filter: a candidate whose
// latitude and longitude are both within epsilon of zero is a gazetteer
// null-island artifact, not a real place.
const CoordinateEpsilon = 0.01

// SaneCoordinate reports whether a candidate survives the placeholder
// filter.
func SaneCoordinate(c gazetteer.Coordinate) bool {
	return math.Abs(c.Lat) > CoordinateEpsilon ||
		math.Abs(c.Long) > CoordinateEpsilon
}

// Table holds, for every distinct toponym word type of a corpus, its
// sane gazetteer candidates and the region-by-toponym filter.  All
// region creation happens in one pass over the whole corpus before any
// sampling begins, so the region set the sampler iterates is closed
// and static once training starts.
type Table struct {
	Grid *Grid

	// Candidates maps a toponym word id to its candidate locations,
	// in gazetteer order.  The position of a location in this slice is
	// its coordinate-candidate index.
	Candidates map[int32][]gazetteer.Location

	// Filters maps a toponym word id to its region reachability row.
	// A nil row means unconstrained: the toponym is absent from the
	// gazetteer, or every candidate was a placeholder, and every
	// region is legal for it.
	Filters map[int32][]int8

	byRegion map[int32]map[int32][]gazetteer.Location
}

func init() {
	gob.Register(&Table{})
}

// BuildTable resolves every distinct toponym word of the token stream
// against the gazetteer and materializes the grid regions of all sane
// candidates.  Toponyms with zero sane candidates degrade to
// unconstrained rather than fail.
func BuildTable(ts *corpus.TokenStream, lex *corpus.Lexicon,
	gaz gazetteer.Gazetteer, degreesPerRegion float64) *Table {

	t := &Table{
		Grid:       NewGrid(degreesPerRegion),
		Candidates: make(map[int32][]gazetteer.Location),
		Filters:    make(map[int32][]int8),
	}

	// First pass: create every region any candidate can fall into.
	misses := 0
	for i := 0; i < ts.Len(); i++ {
		if ts.ToponymVector[i] == 0 {
			continue
		}
		w := ts.WordVector[i]
		if _, seen := t.Candidates[w]; seen {
			continue
		}

		var sane []gazetteer.Location
		for _, id := range gaz.Get(lex.Token(w)) {
			loc, ok := gaz.Location(id)
			if !ok {
				continue
			}
			if SaneCoordinate(loc.Coord) {
				t.Grid.AddLocation(loc.Coord)
				sane = append(sane, loc)
			}
		}
		t.Candidates[w] = sane
		if len(sane) == 0 {
			misses++
		}
	}
	if misses > 0 {
		log.Printf("%d of %d toponym types have no usable candidates; "+
			"treating them as unconstrained", misses, len(t.Candidates))
	}

	// Second pass: with the region set closed, fill the filter rows.
	numRegions := t.Grid.NumRegions()
	for w, sane := range t.Candidates {
		if len(sane) == 0 {
			t.Filters[w] = nil // unconstrained
			continue
		}
		row := make([]int8, numRegions)
		for _, loc := range sane {
			j, ok := t.Grid.RegionAt(loc.Coord)
			if !ok {
				panic("candidate region disappeared between passes")
			}
			row[j] = 1
		}
		t.Filters[w] = row
	}
	return t
}

func (t *Table) NumRegions() int {
	return t.Grid.NumRegions()
}

// IsToponym reports whether word appeared as a toponym in the corpus
// the table was built from.
func (t *Table) IsToponym(word int32) bool {
	_, ok := t.Candidates[word]
	return ok
}

// Unconstrained reports whether a toponym word may go to any region.
// The nil filter row survives gob as an empty one, so both spellings
// of "no filter" count.
func (t *Table) Unconstrained(word int32) bool {
	row, ok := t.Filters[word]
	return !ok || len(row) == 0
}

// Reachable reports whether a region is legal for a toponym word.
// Non-toponym words and unconstrained toponyms reach every region.
func (t *Table) Reachable(word int32, region int) bool {
	row := t.Filters[word]
	if len(row) == 0 {
		return true
	}
	return row[region] == 1
}

// CandidatesIn returns the candidate locations of a toponym word that
// fall inside a region.
func (t *Table) CandidatesIn(word, region int32) []gazetteer.Location {
	if t.byRegion == nil {
		t.byRegion = make(map[int32]map[int32][]gazetteer.Location)
		for w, sane := range t.Candidates {
			m := make(map[int32][]gazetteer.Location)
			for _, loc := range sane {
				if j, ok := t.Grid.RegionAt(loc.Coord); ok {
					m[j] = append(m[j], loc)
				}
			}
			t.byRegion[w] = m
		}
	}
	return t.byRegion[word][region]
}
