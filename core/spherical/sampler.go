package spherical

import (
	"fmt"
	"log"
	"math/rand"

	"github.com/utcompling/textgrounder-sub011/core/gazetteer"
	"github.com/utcompling/textgrounder-sub011/core/geom"
)

// Variant selects the proposal density of the joint (region, candidate)
// sampling step.
type Variant int

const (
	// UniformKappa weighs a candidate by the document-region affinity
	// and the vMF density of its coordinate alone, with one shared
	// concentration across regions.
	UniformKappa Variant = iota

	// VaryingKappa additionally weighs the word-region statistics and
	// scales the new-region pseudo-count by the vocabulary prior, with
	// per-region concentrations.
	VaryingKappa

	// Topical layers posterior parameter resampling on top of
	// VaryingKappa: after every sweep the region means move by a
	// Metropolis step, concentrations by a reflected Gaussian
	// perturbation, and the stick-breaking weights are redrawn.
	Topical
)

// Sampler runs collapsed Gibbs sweeps over the token stream, seating
// toponyms jointly into a region and a candidate coordinate.  The
// systematic scan mutates shared count tables token by token, so one
// goroutine owns the whole sweep.
type Sampler struct {
	model     *ModelState
	variant   Variant
	resampler *Resampler
	hooks     []ExpansionHook
	probs     []float64
	averages  *Averages
}

func NewSampler(model *ModelState, variant Variant) *Sampler {
	s := &Sampler{model: model, variant: variant}
	if variant == Topical {
		s.resampler = NewResampler(model)
		s.hooks = []ExpansionHook{s.resampler}
	}
	return s
}

// RandomInitialize seats every token once, without any removal step.
// Toponyms run a restaurant process: a uniform choice among the active
// regions against a CRPAlpha pseudo-count for a fresh one, with a
// uniform candidate coordinate.  Ordinary words then spread uniformly
// over the regions the toponyms opened.
func (s *Sampler) RandomInitialize(rng *rand.Rand) {
	m := s.model
	ts := m.Tokens

	for i := 0; i < ts.Len(); i++ {
		if ts.StopwordVector[i] != 0 || ts.ToponymVector[i] == 0 {
			continue
		}
		w := ts.WordVector[i]
		if !m.Coordinates.Constrained(w) {
			continue
		}
		r := rng.Float64() * (float64(m.CurrentR) + m.CRPAlpha)
		j := int(r)
		if j > m.CurrentR {
			j = m.CurrentR
		}
		c := int32(rng.Intn(m.Coordinates.NumCandidates(w)))
		m.AddToken(i, j, c, s.hooks...)
	}
	if m.CurrentR == 0 {
		panic("no toponym tokens: nothing can seat a region")
	}

	for i := 0; i < ts.Len(); i++ {
		if ts.StopwordVector[i] != 0 {
			continue
		}
		w := ts.WordVector[i]
		if ts.ToponymVector[i] == 1 && m.Coordinates.Constrained(w) {
			continue
		}
		m.AddToken(i, rng.Intn(m.CurrentR), -1, s.hooks...)
	}

	if s.resampler != nil {
		s.resampler.Initialize(m, rng)
	}
}

// Train runs Gibbs sweeps for as long as the annealer's schedule
// allows, collecting posterior samples past burn-in.  The annealer is
// registered as an expansion hook so its accumulation arrays track
// capacity growth.
func (s *Sampler) Train(a Annealer, rng *rand.Rand) {
	m := s.model
	s.hooks = append(s.hooks, a)
	for a.NextIter() {
		s.sweep(a, rng)
		a.CollectSamples(m)
		if s.resampler != nil {
			s.resampler.Resample(m, rng)
		}
	}
	s.hooks = s.hooks[:len(s.hooks)-1]
	s.averages = a.Collected()
	log.Printf("Training finished with %d active regions (capacity %d)",
		m.CurrentR, m.ExpectedR)
}

func (s *Sampler) sweep(a Annealer, rng *rand.Rand) {
	m := s.model
	ts := m.Tokens

	for i := 0; i < ts.Len(); i++ {
		if ts.StopwordVector[i] != 0 {
			continue
		}
		w := ts.WordVector[i]
		if ts.ToponymVector[i] == 1 && m.Coordinates.Constrained(w) {
			s.sampleToponym(i, a, rng)
		} else {
			s.sampleWord(i, a, rng)
		}
	}
}

// sampleToponym redraws the joint (region, candidate) assignment of
// toponym token i.  The proposal ranges over all active regions plus
// one empty slot offered at the CRP pseudo-count; a region left empty
// by the removal is itself the cheapest slot to reuse.
func (s *Sampler) sampleToponym(i int, a Annealer, rng *rand.Rand) {
	m := s.model
	ts := m.Tokens
	w := ts.WordVector[i]
	d := int(ts.DocVector[i])

	m.RemoveToken(i)

	coords := m.Coordinates.Cartesian[w]
	cands := len(coords)
	emptyid := m.EmptyRegion()

	limit := m.CurrentR
	if emptyid == limit {
		limit++
	}
	probs := s.grow(limit * cands)

	docoff := d * m.ExpectedR
	wordoff := int(w) * m.ExpectedR
	if s.variant == Topical {
		// Stick-breaking weights cover every slot, occupied or not, and
		// the Metropolis means give even an unseated region a density.
		for j := 0; j < limit; j++ {
			ldw := s.resampler.LocalWeights[docoff+j]
			for c := 0; c < cands; c++ {
				probs[j*cands+c] = ldw *
					geom.VMFDensity(coords[c], s.resampler.Means[j],
						m.Kappas[j])
			}
		}
	} else {
		for j := 0; j < m.CurrentR; j++ {
			if m.emptySet[j] {
				for c := 0; c < cands; c++ {
					probs[j*cands+c] = 0
				}
				continue
			}
			affinity := float64(m.RegionByDocumentCounts[docoff+j])
			if s.variant == VaryingKappa {
				affinity *= (float64(m.WordByRegionCounts[wordoff+j]) +
					m.Beta) / (float64(m.RegionCounts[j]) + m.BetaW)
			}
			for c := 0; c < cands; c++ {
				probs[j*cands+c] = affinity *
					geom.UnnormalizedVMFDensity(coords[c], m.RegionMeans[j],
						m.Kappas[j])
			}
		}

		fresh := m.CRPAlpha * uniformSphereDensity / float64(cands)
		if s.variant == VaryingKappa {
			fresh *= m.Beta / m.BetaW
		}
		for c := 0; c < cands; c++ {
			probs[emptyid*cands+c] = fresh
		}
	}

	total := a.AnnealProbs(probs)
	j, c := jointInverseCDF(probs, rng.Float64()*total, cands)
	m.AddToken(i, j, int32(c), s.hooks...)
}

// sampleWord redraws the region of an ordinary (or unconstrained
// toponym) token over the active regions only; ordinary words never
// open a region.
func (s *Sampler) sampleWord(i int, a Annealer, rng *rand.Rand) {
	m := s.model
	ts := m.Tokens
	w := ts.WordVector[i]
	d := int(ts.DocVector[i])

	m.RemoveToken(i)

	probs := s.grow(m.CurrentR)
	docoff := d * m.ExpectedR
	wordoff := int(w) * m.ExpectedR
	for j := 0; j < m.CurrentR; j++ {
		probs[j] = (float64(m.WordByRegionCounts[wordoff+j]) + m.Beta) /
			(float64(m.RegionCounts[j]) + m.BetaW)
		if s.variant == Topical {
			probs[j] *= s.resampler.LocalWeights[docoff+j]
		} else {
			probs[j] *= float64(m.RegionByDocumentCounts[docoff+j]) + m.Alpha
		}
	}

	total := a.AnnealProbs(probs)
	j, _ := jointInverseCDF(probs, rng.Float64()*total, 1)
	m.AddToken(i, j, -1, s.hooks...)
}

// Decode assigns every token its maximum-posterior region, and every
// toponym its coordinate, from the averaged tables.  It mutates only
// the assignment vectors; counts stay untouched, so decoding is
// repeatable.
func (s *Sampler) Decode() {
	if s.averages == nil {
		panic("decoding before posterior samples were collected")
	}
	m := s.model
	ts := m.Tokens
	avg := s.averages
	decoder := NewMaximumPosteriorDecoder()

	for i := 0; i < ts.Len(); i++ {
		if ts.StopwordVector[i] != 0 {
			continue
		}
		w := ts.WordVector[i]
		d := int(ts.DocVector[i])
		docoff := d * avg.ExpectedR
		wordoff := int(w) * avg.ExpectedR

		if ts.ToponymVector[i] == 1 && m.Coordinates.Constrained(w) {
			coords := m.Coordinates.Cartesian[w]
			cands := len(coords)
			probs := s.grow(m.CurrentR * cands)
			for j := 0; j < m.CurrentR; j++ {
				if m.emptySet[j] {
					for c := 0; c < cands; c++ {
						probs[j*cands+c] = 0
					}
					continue
				}
				affinity := avg.RegionByDocumentCounts[docoff+j]
				if s.variant != UniformKappa {
					affinity *= (avg.WordByRegionCounts[wordoff+j] + m.Beta) /
						(avg.RegionCounts[j] + m.BetaW)
				}
				for c := 0; c < cands; c++ {
					probs[j*cands+c] = affinity *
						geom.UnnormalizedVMFDensity(coords[c],
							avg.RegionMeans[j], m.Kappas[j])
				}
			}
			decoder.AnnealProbs(probs)
			j, c := onehotIndex(probs, cands)
			m.RegionVector[i] = int32(j)
			m.CoordinateVector[i] = int32(c)
		} else {
			probs := s.grow(m.CurrentR)
			for j := 0; j < m.CurrentR; j++ {
				probs[j] = (avg.WordByRegionCounts[wordoff+j] + m.Beta) /
					(avg.RegionCounts[j] + m.BetaW) *
					(avg.RegionByDocumentCounts[docoff+j] + m.Alpha)
			}
			decoder.AnnealProbs(probs)
			j, _ := onehotIndex(probs, 1)
			m.RegionVector[i] = int32(j)
		}
	}
}

// Averaged reports whether Train has stored posterior-mean tables.
func (s *Sampler) Averaged() bool {
	return s.averages != nil
}

// Placement grounds one decoded toponym token in a gazetteer location.
type Placement struct {
	TokenIndex int
	DocId      int32
	Word       int32
	Region     int32
	Location   gazetteer.Location
}

// Placements maps every decoded toponym token to the location behind
// its sampled coordinate candidate.
func (s *Sampler) Placements() []Placement {
	m := s.model
	ts := m.Tokens
	var out []Placement
	for i := 0; i < ts.Len(); i++ {
		if ts.StopwordVector[i] != 0 || ts.ToponymVector[i] == 0 {
			continue
		}
		w := ts.WordVector[i]
		c := m.CoordinateVector[i]
		if c < 0 {
			continue
		}
		out = append(out, Placement{
			TokenIndex: i,
			DocId:      ts.DocVector[i],
			Word:       w,
			Region:     m.RegionVector[i],
			Location:   m.Coordinates.Locations[w][c],
		})
	}
	return out
}

// grow returns the scratch probability buffer re-sliced to n, so
// capacity expansion between tokens never loses the allocation.
func (s *Sampler) grow(n int) []float64 {
	if cap(s.probs) < n {
		s.probs = make([]float64, n)
	}
	return s.probs[:n]
}

// jointInverseCDF walks the cumulative sum of a flattened
// (region, candidate) matrix with cands columns and returns the cell a
// uniform draw lands in.
func jointInverseCDF(probs []float64, draw float64, cands int) (int, int) {
	max := probs[0]
	j, c := 0, 0
	for draw > max {
		c++
		if c == cands {
			j++
			c = 0
		}
		if j*cands+c == len(probs) {
			j, c = lastPositive(probs, cands)
			break
		}
		max += probs[j*cands+c]
	}
	if probs[j*cands+c] == 0 {
		log.Fatalf("Inverse CDF landed on cell (%d, %d) with zero probability",
			j, c)
	}
	return j, c
}

// lastPositive backstops floating-point drift in the cumulative walk by
// returning the highest-index cell with positive mass.
func lastPositive(probs []float64, cands int) (int, int) {
	for i := len(probs) - 1; i >= 0; i-- {
		if probs[i] > 0 {
			return i / cands, i % cands
		}
	}
	panic("degenerate all-zero probability vector")
}

// onehotIndex locates the single unit cell the decoder produced.
func onehotIndex(probs []float64, cands int) (int, int) {
	for i := range probs {
		if probs[i] == 1 {
			return i / cands, i % cands
		}
	}
	panic(fmt.Sprintf("no argmax cell among %d decoded probabilities",
		len(probs)))
}
