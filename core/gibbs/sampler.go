package gibbs

import (
	"log"
	"math/rand"

	"github.com/utcompling/textgrounder-sub011/core/anneal"
)

// Sampler runs collapsed Gibbs sweeps over the token stream of a
// grid-region model.  A sweep is a systematic scan: tokens are visited
// in stream order, each one removed from the count tables, resampled
// from its full conditional, and reinserted.  The conditional of a
// constrained toponym is masked by its candidate-region filter.
type Sampler struct {
	model *Model
	probs []float64
}

func NewSampler(m *Model) *Sampler {
	return &Sampler{
		model: m,
		probs: make([]float64, m.NumRegions),
	}
}

// Train sweeps until the annealer's schedule is exhausted, handing the
// count tables to the annealer after every sweep so it can accumulate
// posterior samples past burn-in.  The collected averages are stored
// on the model.
func (s *Sampler) Train(a anneal.Annealer, rng *rand.Rand) {
	m := s.model
	for a.NextIter() {
		s.sweep(a, rng)
		a.CollectSamples(m.RegionCounts, m.WordByRegionCounts,
			m.RegionByDocumentCounts)
	}
	if rc, wbrc, rbdc := a.Collected(); rc != nil {
		m.AveragedRegionCounts = rc
		m.AveragedWordByRegionCounts = wbrc
		m.AveragedRegionByDocumentCounts = rbdc
	}
}

func (s *Sampler) sweep(a anneal.Annealer, rng *rand.Rand) {
	m := s.model
	ts := m.Tokens
	t := m.NumRegions

	for i := 0; i < ts.Len(); i++ {
		if ts.StopwordVector[i] == 1 {
			continue
		}
		wordid := ts.WordVector[i]
		docid := ts.DocVector[i]
		istoponym := ts.ToponymVector[i] == 1

		m.adjustCounts(i, m.RegionVector[i], -1)

		wordoff := int(wordid) * t
		docoff := int(docid) * t
		if istoponym && !m.Table.Unconstrained(wordid) {
			filter := m.Table.Filters[wordid]
			for j := 0; j < t; j++ {
				s.probs[j] = (float64(m.WordByRegionCounts[wordoff+j]) + m.Beta) /
					(float64(m.RegionCounts[j]) + m.BetaW) *
					(float64(m.RegionByDocumentCounts[docoff+j]) + m.Alpha) *
					float64(filter[j])
			}
		} else {
			for j := 0; j < t; j++ {
				s.probs[j] = (float64(m.WordByRegionCounts[wordoff+j]) + m.Beta) /
					(float64(m.RegionCounts[j]) + m.BetaW) *
					(float64(m.RegionByDocumentCounts[docoff+j]) + m.Alpha)
			}
		}

		totalprob := a.AnnealProbs(s.probs)
		regionid := inverseCDF(s.probs, rng.Float64()*totalprob, t)

		m.RegionVector[i] = regionid
		m.adjustCounts(i, regionid, 1)
	}
}

// inverseCDF walks the unnormalized distribution until the draw is
// covered.  The walk is bounded by the vector length; float underflow
// at the tail resolves to the last region.
func inverseCDF(probs []float64, draw float64, t int) int32 {
	max := probs[0]
	regionid := 0
	for draw > max && regionid < t-1 {
		regionid++
		max += probs[regionid]
	}
	if probs[regionid] == 0 {
		log.Fatalf("Failed in sampling: region %d has zero probability",
			regionid)
	}
	return int32(regionid)
}

// Decode replaces every non-stopword token's assignment with the mode
// of its conditional under the posterior-mean tables.  The count
// tables are left untouched, so decoding is repeatable: a second call
// yields the same assignments.
func (s *Sampler) Decode() {
	m := s.model
	if !m.Averaged() {
		panic("decoding before posterior samples were collected")
	}

	d := anneal.NewMaximumPosteriorDecoder()
	ts := m.Tokens
	t := m.NumRegions

	for i := 0; i < ts.Len(); i++ {
		if ts.StopwordVector[i] == 1 {
			continue
		}
		wordid := ts.WordVector[i]
		docid := ts.DocVector[i]
		istoponym := ts.ToponymVector[i] == 1

		wordoff := int(wordid) * t
		docoff := int(docid) * t
		if istoponym && !m.Table.Unconstrained(wordid) {
			filter := m.Table.Filters[wordid]
			for j := 0; j < t; j++ {
				s.probs[j] = (m.AveragedWordByRegionCounts[wordoff+j] + m.Beta) /
					(m.AveragedRegionCounts[j] + m.BetaW) *
					(m.AveragedRegionByDocumentCounts[docoff+j] + m.Alpha) *
					float64(filter[j])
			}
		} else {
			for j := 0; j < t; j++ {
				s.probs[j] = (m.AveragedWordByRegionCounts[wordoff+j] + m.Beta) /
					(m.AveragedRegionCounts[j] + m.BetaW) *
					(m.AveragedRegionByDocumentCounts[docoff+j] + m.Alpha)
			}
		}

		d.AnnealProbs(s.probs)
		for j := 0; j < t; j++ {
			if s.probs[j] == 1 {
				m.RegionVector[i] = int32(j)
				break
			}
		}
	}
}
