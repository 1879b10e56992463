package gibbs

import (
	"fmt"
	"math"
	"math/rand"

	"github.com/utcompling/textgrounder-sub011/core/corpus"
	"github.com/utcompling/textgrounder-sub011/core/region"
)

// Model holds the count tables of the grid-region topic model.  Every
// grid region is a topic; toponym tokens are restricted to the regions
// holding one of their gazetteer candidates, while ordinary words roam
// freely.  The tables are flat row-major arrays over (word, region)
// and (document, region), which keeps the inner sampling loop free of
// indirection.
type Model struct {
	Alpha float64
	Beta  float64
	// BetaW is Beta times the sampled vocabulary size, the normalizer
	// of the word-by-region multinomials.
	BetaW float64

	NumRegions   int
	NumDocuments int
	VocabSize    int

	Tokens *corpus.TokenStream
	Table  *region.Table

	// RegionVector[i] is the region assigned to token i.  Stopword
	// positions are never sampled and stay 0.
	RegionVector []int32

	WordByRegionCounts     []int32 // word*NumRegions + region
	RegionByDocumentCounts []int32 // doc*NumRegions + region
	RegionCounts           []int32

	// Posterior means filled in by Sampler.Train once the annealer
	// finishes collecting samples.  Decoding and evaluation read
	// these, never the raw counts.
	AveragedWordByRegionCounts     []float64
	AveragedRegionByDocumentCounts []float64
	AveragedRegionCounts           []float64
}

func NewModel(ts *corpus.TokenStream, table *region.Table,
	alpha, beta float64) *Model {

	if ts.Len() == 0 {
		panic("building a model over an empty token stream")
	}
	if table.NumRegions() < 1 {
		panic("building a model over a grid with no regions")
	}
	if alpha <= 0.0 {
		panic(fmt.Sprintf("alpha = %f, not positive", alpha))
	}
	if beta <= 0.0 {
		panic(fmt.Sprintf("beta = %f, not positive", beta))
	}

	vocab := sampledVocabSize(ts)
	t := table.NumRegions()
	m := &Model{
		Alpha:                  alpha,
		Beta:                   beta,
		BetaW:                  beta * float64(vocab),
		NumRegions:             t,
		NumDocuments:           ts.NumDocs,
		VocabSize:              vocab,
		Tokens:                 ts,
		Table:                  table,
		RegionVector:           make([]int32, ts.Len()),
		WordByRegionCounts:     make([]int32, maxWordId(ts)*t),
		RegionByDocumentCounts: make([]int32, ts.NumDocs*t),
		RegionCounts:           make([]int32, t),
	}
	return m
}

// sampledVocabSize counts the distinct words that occur at least once
// outside stopword positions.  Stopword-only words never enter the
// tables, so they must not inflate the smoothing normalizer.
func sampledVocabSize(ts *corpus.TokenStream) int {
	seen := make(map[int32]bool)
	for i := 0; i < ts.Len(); i++ {
		if ts.StopwordVector[i] == 0 {
			seen[ts.WordVector[i]] = true
		}
	}
	return len(seen)
}

func maxWordId(ts *corpus.TokenStream) int {
	var max int32 = -1
	for _, w := range ts.WordVector {
		if w > max {
			max = w
		}
	}
	return int(max) + 1
}

// RandomInitialize assigns every non-stopword token a starting region,
// drawn uniformly from the regions its toponym filter admits, and
// applies the assignments to the count tables.  This is the insert-only
// pass: nothing is decremented.
func (m *Model) RandomInitialize(rng *rand.Rand) {
	ts := m.Tokens
	for i := 0; i < ts.Len(); i++ {
		if ts.StopwordVector[i] == 1 {
			continue
		}
		wordid := ts.WordVector[i]

		var regionid int32
		if ts.ToponymVector[i] == 1 && !m.Table.Unconstrained(wordid) {
			regionid = m.sampleFilteredUniform(wordid, rng)
		} else {
			regionid = int32(rng.Intn(m.NumRegions))
		}

		m.RegionVector[i] = regionid
		m.adjustCounts(i, regionid, 1)
	}
}

func (m *Model) sampleFilteredUniform(wordid int32, rng *rand.Rand) int32 {
	filter := m.Table.Filters[wordid]
	total := 0
	for j := range filter {
		total += int(filter[j])
	}
	draw := rng.Intn(total)
	for j := range filter {
		if filter[j] == 1 {
			if draw == 0 {
				return int32(j)
			}
			draw--
		}
	}
	panic(fmt.Sprintf("filter of word %d admits no region", wordid))
}

// adjustCounts moves token i in or out of region regionid.  delta is
// +1 or -1.
func (m *Model) adjustCounts(i int, regionid int32, delta int32) {
	ts := m.Tokens
	wordoff := int(ts.WordVector[i]) * m.NumRegions
	docoff := int(ts.DocVector[i]) * m.NumRegions

	m.WordByRegionCounts[wordoff+int(regionid)] += delta
	m.RegionByDocumentCounts[docoff+int(regionid)] += delta
	m.RegionCounts[regionid] += delta
	if m.RegionCounts[regionid] < 0 {
		panic(fmt.Sprintf("count of region %d fell below zero", regionid))
	}
}

// DocumentRegionHist returns the non-zero region counts of a document
// as a sparse histogram over region ids.
func (m *Model) DocumentRegionHist(doc int) map[int32]int32 {
	h := make(map[int32]int32)
	docoff := doc * m.NumRegions
	for j := 0; j < m.NumRegions; j++ {
		if c := m.RegionByDocumentCounts[docoff+j]; c != 0 {
			h[int32(j)] = c
		}
	}
	return h
}

// Averaged reports whether posterior sample averages are available.
func (m *Model) Averaged() bool {
	return m.AveragedRegionCounts != nil
}

// LogLikelihood computes the joint log-likelihood of the current
// assignments under the collapsed conditionals, from the raw count
// tables.  It is cheap enough to run between sweeps, unlike the
// Evaluator, which needs the posterior means and only exists after
// training.  The second return value is the number of sampled tokens.
func (m *Model) LogLikelihood() (float64, int) {
	t := m.NumRegions
	alphaT := m.Alpha * float64(t)

	docLens := make([]float64, m.NumDocuments)
	for d := 0; d < m.NumDocuments; d++ {
		docoff := d * t
		var n int32
		for j := 0; j < t; j++ {
			n += m.RegionByDocumentCounts[docoff+j]
		}
		docLens[d] = float64(n)
	}

	ts := m.Tokens
	logl, tokens := 0.0, 0
	for i := 0; i < ts.Len(); i++ {
		if ts.StopwordVector[i] == 1 {
			continue
		}
		j := int(m.RegionVector[i])
		wordoff := int(ts.WordVector[i]) * t
		docoff := int(ts.DocVector[i]) * t

		logl += math.Log(
			(float64(m.WordByRegionCounts[wordoff+j]) + m.Beta) /
				(float64(m.RegionCounts[j]) + m.BetaW) *
				(float64(m.RegionByDocumentCounts[docoff+j]) + m.Alpha) /
				(docLens[ts.DocVector[i]] + alphaT))
		tokens++
	}
	return logl, tokens
}

// WordRegionProb is the smoothed posterior-mean probability of word w
// under region j.
func (m *Model) WordRegionProb(w int32, j int) float64 {
	wordoff := int(w) * m.NumRegions
	return (m.AveragedWordByRegionCounts[wordoff+j] + m.Beta) /
		(m.AveragedRegionCounts[j] + m.BetaW)
}
