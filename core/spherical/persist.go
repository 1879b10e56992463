package spherical

import (
	"bytes"
	"encoding/gob"
	"sort"

	"github.com/utcompling/textgrounder-sub011/core/corpus"
)

// SavedModel bundles everything a later process needs to decode or
// inspect a trained spherical model: the final state, the posterior
// averages and the sampler variant they were trained under.
type SavedModel struct {
	Variant  Variant
	State    *ModelState
	Averages *Averages
}

// Saved snapshots the sampler for serialization.  The snapshot shares
// memory with the live sampler; callers persist it or keep sampling,
// not both.
func (s *Sampler) Saved() *SavedModel {
	return &SavedModel{
		Variant:  s.variant,
		State:    s.model,
		Averages: s.averages,
	}
}

// NewSavedSampler rebuilds a sampler from a snapshot.  The restored
// sampler can decode and emit placements; resuming training restarts
// the resampling chains of the fully Bayesian variant from scratch.
func NewSavedSampler(sm *SavedModel) *Sampler {
	s := NewSampler(sm.State, sm.Variant)
	s.averages = sm.Averages
	return s
}

// modelStateWire mirrors ModelState for gob, with the empty-region set
// flattened into a sorted slice.
type modelStateWire struct {
	CRPAlpha float64
	Alpha    float64
	Beta     float64
	BetaW    float64

	Kappas []float64

	ExpectedR    int
	CurrentR     int
	EmptyRegions []int

	NumDocuments int
	VocabSize    int

	Tokens      *corpus.TokenStream
	Coordinates *CoordinateLexicon

	RegionVector     []int32
	CoordinateVector []int32

	RegionCounts            []int32
	ToponymRegionCounts     []int32
	WordByRegionCounts      []int32
	RegionByDocumentCounts  []int32
	ToponymCoordinateCounts [][]int32
	RegionMeans             [][]float64
}

func (s *ModelState) GobEncode() ([]byte, error) {
	empty := make([]int, 0, len(s.emptySet))
	for j := range s.emptySet {
		empty = append(empty, j)
	}
	sort.Ints(empty)

	w := &modelStateWire{
		CRPAlpha:                s.CRPAlpha,
		Alpha:                   s.Alpha,
		Beta:                    s.Beta,
		BetaW:                   s.BetaW,
		Kappas:                  s.Kappas,
		ExpectedR:               s.ExpectedR,
		CurrentR:                s.CurrentR,
		EmptyRegions:            empty,
		NumDocuments:            s.NumDocuments,
		VocabSize:               s.VocabSize,
		Tokens:                  s.Tokens,
		Coordinates:             s.Coordinates,
		RegionVector:            s.RegionVector,
		CoordinateVector:        s.CoordinateVector,
		RegionCounts:            s.RegionCounts,
		ToponymRegionCounts:     s.ToponymRegionCounts,
		WordByRegionCounts:      s.WordByRegionCounts,
		RegionByDocumentCounts:  s.RegionByDocumentCounts,
		ToponymCoordinateCounts: s.ToponymCoordinateCounts,
		RegionMeans:             s.RegionMeans,
	}

	var buf bytes.Buffer
	if e := gob.NewEncoder(&buf).Encode(w); e != nil {
		return nil, e
	}
	return buf.Bytes(), nil
}

func (s *ModelState) GobDecode(b []byte) error {
	w := new(modelStateWire)
	if e := gob.NewDecoder(bytes.NewReader(b)).Decode(w); e != nil {
		return e
	}

	s.CRPAlpha = w.CRPAlpha
	s.Alpha = w.Alpha
	s.Beta = w.Beta
	s.BetaW = w.BetaW
	s.Kappas = w.Kappas
	s.ExpectedR = w.ExpectedR
	s.CurrentR = w.CurrentR
	s.NumDocuments = w.NumDocuments
	s.VocabSize = w.VocabSize
	s.Tokens = w.Tokens
	s.Coordinates = w.Coordinates
	s.RegionVector = w.RegionVector
	s.CoordinateVector = w.CoordinateVector
	s.RegionCounts = w.RegionCounts
	s.ToponymRegionCounts = w.ToponymRegionCounts
	s.WordByRegionCounts = w.WordByRegionCounts
	s.RegionByDocumentCounts = w.RegionByDocumentCounts
	s.ToponymCoordinateCounts = w.ToponymCoordinateCounts
	s.RegionMeans = w.RegionMeans

	s.emptySet = make(map[int]bool, len(w.EmptyRegions))
	for _, j := range w.EmptyRegions {
		s.emptySet[j] = true
	}
	return nil
}
