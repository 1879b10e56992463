package spherical

import (
	"fmt"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/utcompling/textgrounder-sub011/core/corpus"
	"github.com/utcompling/textgrounder-sub011/core/geom"
)

// ExpansionFactor controls region capacity growth.  Capacity expands
// whenever the free headroom ExpectedR-CurrentR falls under
// ExpansionFactor/(1+ExpansionFactor) of ExpectedR, to
// ceil(ExpectedR*(1+ExpansionFactor)) slots.
const ExpansionFactor = 0.25

// uniformSphereDensity is the density of a point under a vMF with
// undefined mean, i.e. the uniform density on the unit sphere.  Empty
// regions emit coordinates at this rate.
const uniformSphereDensity = 1 / (4 * math.Pi)

// ModelState holds the count tables of the Dirichlet-process spherical
// models.  Regions are vMF clusters on the sphere rather than grid
// cells; their number grows as the restaurant process opens new ones,
// so every region-keyed table is allocated to capacity ExpectedR and
// reallocated with a larger stride when headroom runs out.
type ModelState struct {
	CRPAlpha float64
	Alpha    float64
	Beta     float64
	BetaW    float64

	// Kappas[j] is the vMF concentration of region j.  The
	// uniform-concentration sampler keeps every entry equal; the
	// varying-concentration samplers resample entries between sweeps.
	Kappas []float64

	ExpectedR int
	CurrentR  int
	emptySet  map[int]bool

	NumDocuments int
	VocabSize    int

	Tokens      *corpus.TokenStream
	Coordinates *CoordinateLexicon

	RegionVector     []int32
	CoordinateVector []int32

	RegionCounts           []int32 // length ExpectedR
	ToponymRegionCounts    []int32 // length ExpectedR, toponym tokens only
	WordByRegionCounts     []int32 // word*ExpectedR + region
	RegionByDocumentCounts []int32 // doc*ExpectedR + region

	// ToponymCoordinateCounts[w][j*C_w+c] counts assignments of word
	// w's candidate c in region j; nil for words with no candidates.
	ToponymCoordinateCounts [][]int32

	// RegionMeans[j] is the running vector sum of the candidate
	// coordinates assigned to region j, reset to zero when the region
	// empties.  Densities normalize it on the fly.
	RegionMeans [][]float64
}

func NewModelState(ts *corpus.TokenStream, cl *CoordinateLexicon,
	expectedR int, crpAlpha, alpha, beta, kappa float64) *ModelState {

	if ts.Len() == 0 {
		panic("building a model over an empty token stream")
	}
	if expectedR < 1 {
		panic(fmt.Sprintf("expectedR = %d, less than 1", expectedR))
	}
	if crpAlpha <= 0 || alpha <= 0 || beta <= 0 || kappa <= 0 {
		panic(fmt.Sprintf(
			"crpAlpha = %f, alpha = %f, beta = %f, kappa = %f: "+
				"all must be positive", crpAlpha, alpha, beta, kappa))
	}

	words := len(cl.Cartesian)
	vocab := sampledVocabSize(ts)
	s := &ModelState{
		CRPAlpha:  crpAlpha,
		Alpha:     alpha,
		Beta:      beta,
		BetaW:     beta * float64(vocab),
		ExpectedR: expectedR,
		CurrentR:  0,
		emptySet:  make(map[int]bool),

		NumDocuments: ts.NumDocs,
		VocabSize:    vocab,
		Tokens:       ts,
		Coordinates:  cl,

		RegionVector:     make([]int32, ts.Len()),
		CoordinateVector: make([]int32, ts.Len()),

		Kappas:                  make([]float64, expectedR),
		RegionCounts:            make([]int32, expectedR),
		ToponymRegionCounts:     make([]int32, expectedR),
		WordByRegionCounts:      make([]int32, words*expectedR),
		RegionByDocumentCounts:  make([]int32, ts.NumDocs*expectedR),
		ToponymCoordinateCounts: make([][]int32, words),
		RegionMeans:             make([][]float64, expectedR),
	}
	for j := 0; j < expectedR; j++ {
		s.Kappas[j] = kappa
		s.RegionMeans[j] = make([]float64, 3)
	}
	for w := 0; w < words; w++ {
		if c := cl.NumCandidates(int32(w)); c > 0 {
			s.ToponymCoordinateCounts[w] = make([]int32, expectedR*c)
		}
	}
	return s
}

func sampledVocabSize(ts *corpus.TokenStream) int {
	seen := make(map[int32]bool)
	for i := 0; i < ts.Len(); i++ {
		if ts.StopwordVector[i] == 0 {
			seen[ts.WordVector[i]] = true
		}
	}
	return len(seen)
}

// EmptyRegion returns the region id a newly opened table would take:
// the lowest empty slot, or CurrentR when no active slot is empty.
func (s *ModelState) EmptyRegion() int {
	empty := s.CurrentR
	for j := range s.emptySet {
		if j < empty {
			empty = j
		}
	}
	return empty
}

// IsEmpty reports whether region j holds no tokens.
func (s *ModelState) IsEmpty(j int) bool {
	return j >= s.CurrentR || s.emptySet[j]
}

// AddToken assigns token i to region j with candidate coordinate c
// (-1 for tokens without coordinates).  Only toponym assignments seat
// a region: assigning a toponym to the empty slot activates it and may
// trigger capacity expansion, while ordinary words never open or close
// regions.
func (s *ModelState) AddToken(i int, j int, c int32, hooks ...ExpansionHook) {
	ts := s.Tokens
	w := ts.WordVector[i]

	s.RegionVector[i] = int32(j)
	s.CoordinateVector[i] = c
	s.RegionCounts[j]++
	s.WordByRegionCounts[int(w)*s.ExpectedR+j]++
	s.RegionByDocumentCounts[int(ts.DocVector[i])*s.ExpectedR+j]++
	if c >= 0 {
		s.ToponymRegionCounts[j]++
		cands := s.Coordinates.NumCandidates(w)
		s.ToponymCoordinateCounts[w][j*cands+int(c)]++
		floats.Add(s.RegionMeans[j], s.Coordinates.Cartesian[w][c])

		if s.emptySet[j] {
			delete(s.emptySet, j)
		}
		if j == s.CurrentR {
			s.CurrentR++
		}
		s.ensureHeadroom(hooks...)
	}
}

// RemoveToken takes token i out of the tables.  A region whose last
// toponym leaves is recycled: its mean resets to zero, it joins the
// empty set, and the active high-water mark is compacted past trailing
// empties.
func (s *ModelState) RemoveToken(i int) {
	ts := s.Tokens
	w := ts.WordVector[i]
	j := int(s.RegionVector[i])
	c := s.CoordinateVector[i]

	s.RegionCounts[j]--
	if s.RegionCounts[j] < 0 {
		panic(fmt.Sprintf("count of region %d fell below zero", j))
	}
	s.WordByRegionCounts[int(w)*s.ExpectedR+j]--
	s.RegionByDocumentCounts[int(ts.DocVector[i])*s.ExpectedR+j]--
	if c >= 0 {
		s.ToponymRegionCounts[j]--
		if s.ToponymRegionCounts[j] < 0 {
			panic(fmt.Sprintf("toponym count of region %d fell below zero", j))
		}
		cands := s.Coordinates.NumCandidates(w)
		s.ToponymCoordinateCounts[w][j*cands+int(c)]--
		floats.Sub(s.RegionMeans[j], s.Coordinates.Cartesian[w][c])

		if s.ToponymRegionCounts[j] == 0 {
			s.emptySet[j] = true
			for k := range s.RegionMeans[j] {
				s.RegionMeans[j][k] = 0
			}
			for s.emptySet[s.CurrentR-1] {
				s.CurrentR--
				delete(s.emptySet, s.CurrentR)
			}
		}
	}
}

// RegionCenter returns the degrees latitude/longitude of the mean
// direction of region j.  Panics on an empty region, whose mean is the
// zero vector.
func (s *ModelState) RegionCenter(j int) []float64 {
	if s.IsEmpty(j) {
		panic(fmt.Sprintf("region %d is empty and has no center", j))
	}
	return geom.CartesianToGeographic(geom.NormalizeVector(s.RegionMeans[j]))
}

// ExpansionHook lets the annealer grow its region-keyed accumulation
// arrays in step with the model's tables.
type ExpansionHook interface {
	Expand(oldExpectedR, newExpectedR int)
}

// ensureHeadroom grows every region-keyed table when free capacity
// falls under the expansion threshold.  Checked after every token, so
// the sampler never runs out of slots mid-sweep.
func (s *ModelState) ensureHeadroom(hooks ...ExpansionHook) {
	threshold := ExpansionFactor / (1 + ExpansionFactor) *
		float64(s.ExpectedR)
	if float64(s.ExpectedR-s.CurrentR) >= threshold {
		return
	}

	oldR := s.ExpectedR
	newR := int(math.Ceil(float64(oldR) * (1 + ExpansionFactor)))

	s.RegionCounts = growInt32(s.RegionCounts, 1, oldR, newR)
	s.ToponymRegionCounts = growInt32(s.ToponymRegionCounts, 1, oldR, newR)
	s.WordByRegionCounts = growInt32(
		s.WordByRegionCounts, len(s.WordByRegionCounts)/oldR, oldR, newR)
	s.RegionByDocumentCounts = growInt32(
		s.RegionByDocumentCounts, s.NumDocuments, oldR, newR)
	for w := range s.ToponymCoordinateCounts {
		if s.ToponymCoordinateCounts[w] != nil {
			cands := s.Coordinates.NumCandidates(int32(w))
			s.ToponymCoordinateCounts[w] = growCoordInt32(
				s.ToponymCoordinateCounts[w], cands, oldR, newR)
		}
	}

	means := make([][]float64, newR)
	copy(means, s.RegionMeans)
	for j := oldR; j < newR; j++ {
		means[j] = make([]float64, 3)
	}
	s.RegionMeans = means

	kappas := make([]float64, newR)
	copy(kappas, s.Kappas)
	for j := oldR; j < newR; j++ {
		kappas[j] = s.Kappas[0]
	}
	s.Kappas = kappas

	s.ExpectedR = newR
	for _, h := range hooks {
		h.Expand(oldR, newR)
	}
}

// growInt32 reallocates a table of rows strided by oldR regions into
// newR, copying each row and zeroing the new slots.
func growInt32(old []int32, rows, oldR, newR int) []int32 {
	grown := make([]int32, rows*newR)
	for r := 0; r < rows; r++ {
		copy(grown[r*newR:r*newR+oldR], old[r*oldR:(r+1)*oldR])
	}
	return grown
}

// growCoordInt32 reallocates a region-major coordinate table, where
// each region owns cands consecutive cells.
func growCoordInt32(old []int32, cands, oldR, newR int) []int32 {
	grown := make([]int32, newR*cands)
	copy(grown, old[:oldR*cands])
	return grown
}
