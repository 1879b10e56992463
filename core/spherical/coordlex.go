package spherical

import (
	"github.com/utcompling/textgrounder-sub011/core/corpus"
	"github.com/utcompling/textgrounder-sub011/core/gazetteer"
	"github.com/utcompling/textgrounder-sub011/core/geom"
	"github.com/utcompling/textgrounder-sub011/core/region"
)

// CoordinateLexicon maps every toponym word of a corpus to the unit
// cartesian vectors of its sane gazetteer candidates.  The spherical
// samplers pick a (region, candidate) pair jointly, so the candidate
// order here is the coordinate id space of a word.
type CoordinateLexicon struct {
	// Cartesian[w][c] is the unit 3-vector of candidate c of word w,
	// or nil for words that are not toponyms or have no candidates.
	Cartesian [][][]float64

	// Locations[w][c] is the gazetteer record behind the vector.
	Locations [][]gazetteer.Location
}

// BuildCoordinateLexicon resolves every distinct toponym word against
// the gazetteer, like the grid model's toponym table but keeping exact
// coordinates instead of cells.  Toponyms with no sane candidate get
// an empty candidate list; the samplers treat them as unconstrained
// ordinary words.
func BuildCoordinateLexicon(ts *corpus.TokenStream, lex *corpus.Lexicon,
	gaz gazetteer.Gazetteer) *CoordinateLexicon {

	words := lex.Len()
	cl := &CoordinateLexicon{
		Cartesian: make([][][]float64, words),
		Locations: make([][]gazetteer.Location, words),
	}

	seen := make(map[int32]bool)
	for i := 0; i < ts.Len(); i++ {
		if ts.ToponymVector[i] == 0 {
			continue
		}
		w := ts.WordVector[i]
		if seen[w] {
			continue
		}
		seen[w] = true

		for _, id := range gaz.Get(lex.Token(w)) {
			loc, ok := gaz.Location(id)
			if !ok || !region.SaneCoordinate(loc.Coord) {
				continue
			}
			spherical := geom.GeographicToSpherical(loc.Coord.Lat,
				loc.Coord.Long)
			cl.Cartesian[w] = append(cl.Cartesian[w],
				geom.SphericalToCartesian(spherical[0], spherical[1]))
			cl.Locations[w] = append(cl.Locations[w], loc)
		}
	}
	return cl
}

// NumCandidates returns the candidate count of a word, zero for
// non-toponyms.
func (cl *CoordinateLexicon) NumCandidates(w int32) int {
	return len(cl.Cartesian[w])
}

// Constrained reports whether a toponym word has at least one
// candidate coordinate.
func (cl *CoordinateLexicon) Constrained(w int32) bool {
	return len(cl.Cartesian[w]) > 0
}
