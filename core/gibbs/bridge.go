package gibbs

import (
	"fmt"
	"math/rand"

	"github.com/utcompling/textgrounder-sub011/core/anneal"
	"github.com/utcompling/textgrounder-sub011/core/corpus"
	"github.com/utcompling/textgrounder-sub011/core/region"
)

// IdMapping aligns the lexicon and grid of a held-out corpus with
// those of a trained model.  Both sides build their own id spaces;
// the mapping is partial, and -1 marks an eval id with no counterpart
// on the training side.
type IdMapping struct {
	WordMap   []int32
	RegionMap []int32
}

func BuildIdMapping(trainLex, evalLex *corpus.Lexicon,
	trainGrid, evalGrid *region.Grid) *IdMapping {

	if trainGrid.DegreesPerRegion != evalGrid.DegreesPerRegion {
		panic(fmt.Sprintf("grid mismatch: %f vs %f degrees per region",
			trainGrid.DegreesPerRegion, evalGrid.DegreesPerRegion))
	}

	m := &IdMapping{
		WordMap:   make([]int32, evalLex.Len()),
		RegionMap: make([]int32, evalGrid.NumRegions()),
	}
	for w := 0; w < evalLex.Len(); w++ {
		m.WordMap[w] = trainLex.Id(evalLex.Token(int32(w)))
	}
	for j := 0; j < evalGrid.NumRegions(); j++ {
		if id, ok := trainGrid.RegionAt(evalGrid.Region(int32(j)).Center()); ok {
			m.RegionMap[j] = id
		} else {
			m.RegionMap[j] = -1
		}
	}
	return m
}

// EvalSampler runs fixed-temperature Gibbs sweeps over a held-out
// corpus against a frozen trained model.  The word-by-region
// probabilities are bridged through the id mapping once, up front:
// an eval (word, region) pair with a trained counterpart gets the
// posterior-mean count plus smoothing, and a pair the trained model
// never saw falls back to smoothing alone.
type EvalSampler struct {
	model *Model
	phi   []float64
	probs []float64
}

func NewEvalSampler(train, eval *Model, mapping *IdMapping) *EvalSampler {
	if !train.Averaged() {
		panic("bridging a model before posterior samples were collected")
	}

	t := eval.NumRegions
	words := len(eval.WordByRegionCounts) / t
	phi := make([]float64, words*t)
	for w := 0; w < words; w++ {
		var tw int32 = -1
		if w < len(mapping.WordMap) {
			tw = mapping.WordMap[w]
		}
		for j := 0; j < t; j++ {
			tj := mapping.RegionMap[j]
			num, den := train.Beta, train.BetaW
			if tj >= 0 {
				den += train.AveragedRegionCounts[tj]
				if tw >= 0 {
					num += train.AveragedWordByRegionCounts[int(tw)*
						train.NumRegions+int(tj)]
				}
			}
			phi[w*t+j] = num / den
		}
	}

	return &EvalSampler{
		model: eval,
		phi:   phi,
		probs: make([]float64, t),
	}
}

// Train sweeps the held-out corpus with the evaluation annealer and
// stores the collected averages on the eval model.
func (s *EvalSampler) Train(a *anneal.EvalAnnealer, rng *rand.Rand) {
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

func (s *EvalSampler) sweep(a anneal.Annealer, rng *rand.Rand) {
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
				s.probs[j] = s.phi[wordoff+j] *
					(float64(m.RegionByDocumentCounts[docoff+j]) + m.Alpha) *
					float64(filter[j])
			}
		} else {
			for j := 0; j < t; j++ {
				s.probs[j] = s.phi[wordoff+j] *
					(float64(m.RegionByDocumentCounts[docoff+j]) + m.Alpha)
			}
		}

		totalprob := a.AnnealProbs(s.probs)
		regionid := inverseCDF(s.probs, rng.Float64()*totalprob, t)

		m.RegionVector[i] = regionid
		m.adjustCounts(i, regionid, 1)
	}
}

// Decode replaces every eval token's assignment with the mode of its
// conditional under the bridged probabilities and the averaged eval
// document tables.
func (s *EvalSampler) Decode() {
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
				s.probs[j] = s.phi[wordoff+j] *
					(m.AveragedRegionByDocumentCounts[docoff+j] + m.Alpha) *
					float64(filter[j])
			}
		} else {
			for j := 0; j < t; j++ {
				s.probs[j] = s.phi[wordoff+j] *
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
