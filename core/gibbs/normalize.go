package gibbs

import (
	"github.com/utcompling/textgrounder-sub011/core/gazetteer"
)

// A Placement binds one toponym token to the gazetteer location chosen
// for it: the most populous candidate inside the token's assigned
// region.
type Placement struct {
	TokenIndex int
	DocId      int32
	Word       int32
	Region     int32
	Location   gazetteer.Location
}

// NormalizeLocations turns the decoded region assignments into
// concrete locations.  Toponyms without a candidate in their assigned
// region, such as toponyms missing from the gazetteer, are skipped
// rather than failing: they carry no placement.
func (m *Model) NormalizeLocations() []Placement {
	ts := m.Tokens
	var placements []Placement

	for i := 0; i < ts.Len(); i++ {
		if ts.StopwordVector[i] == 1 || ts.ToponymVector[i] == 0 {
			continue
		}
		wordid := ts.WordVector[i]
		regionid := m.RegionVector[i]

		best, ok := bestCandidate(m.Table.CandidatesIn(wordid, regionid))
		if !ok {
			continue
		}
		placements = append(placements, Placement{
			TokenIndex: i,
			DocId:      ts.DocVector[i],
			Word:       wordid,
			Region:     regionid,
			Location:   best,
		})
	}
	return placements
}
