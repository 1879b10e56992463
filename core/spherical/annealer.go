package spherical

import (
	"github.com/utcompling/textgrounder-sub011/core/anneal"
)

// Annealer is the spherical counterpart of the grid model's annealer.
// The spherical models carry more per-region state than the grid
// model, so samples are collected straight off the ModelState, and the
// accumulation arrays grow through the ExpansionHook when region
// capacity expands mid-collection.
type Annealer interface {
	AnnealProbs(probs []float64) float64
	NextIter() bool
	CollectSamples(s *ModelState)
	Collected() *Averages
	ExpansionHook
}

// Averages holds the posterior-mean tables of a spherical model.
type Averages struct {
	RegionCounts           []float64
	WordByRegionCounts     []float64
	RegionByDocumentCounts []float64
	RegionMeans            [][]float64
	// ExpectedR is the capacity the tables are strided by.
	ExpectedR int
}

// SimulatedAnnealer delegates the temperature schedule to the shared
// annealing machinery and adds spherical sample collection.
type SimulatedAnnealer struct {
	sched *anneal.SimulatedAnnealer
	averages
}

func NewSimulatedAnnealer(initialTemperature, temperatureDecrement,
	targetTemperature float64, iterations, samples, lag int) *SimulatedAnnealer {

	return &SimulatedAnnealer{
		sched: anneal.NewSimulatedAnnealer(initialTemperature,
			temperatureDecrement, targetTemperature, iterations, samples, lag),
	}
}

func (a *SimulatedAnnealer) AnnealProbs(probs []float64) float64 {
	return a.sched.AnnealProbs(probs)
}

func (a *SimulatedAnnealer) NextIter() bool {
	return a.sched.NextIter()
}

func (a *SimulatedAnnealer) CollectSamples(s *ModelState) {
	if !a.sched.Collecting() {
		return
	}
	a.add(s)
	if a.sched.TakeSample() {
		a.average(a.sched.SampleCount())
	}
}

func (a *SimulatedAnnealer) Collected() *Averages {
	if !a.sched.FinishedCollection() {
		return nil
	}
	return a.averaged()
}

// MaximumPosteriorDecoder is the zero-temperature annealer of the
// spherical models: one sweep, argmax assignments, no collection.
type MaximumPosteriorDecoder struct {
	inner *anneal.MaximumPosteriorDecoder
}

func NewMaximumPosteriorDecoder() *MaximumPosteriorDecoder {
	return &MaximumPosteriorDecoder{inner: anneal.NewMaximumPosteriorDecoder()}
}

func (d *MaximumPosteriorDecoder) AnnealProbs(probs []float64) float64 {
	return d.inner.AnnealProbs(probs)
}

func (d *MaximumPosteriorDecoder) NextIter() bool {
	return d.inner.NextIter()
}

func (d *MaximumPosteriorDecoder) CollectSamples(_ *ModelState) {}

func (d *MaximumPosteriorDecoder) Collected() *Averages { return nil }

func (d *MaximumPosteriorDecoder) Expand(_, _ int) {}

// averages accumulates first moments of a spherical model's tables,
// growing with the model when region capacity expands.
type averages struct {
	regionCounts           []float64
	wordByRegionCounts     []float64
	regionByDocumentCounts []float64
	regionMeans            [][]float64
	expectedR              int
	numDocuments           int
	done                   *Averages
}

func (c *averages) add(s *ModelState) {
	if c.regionCounts == nil {
		c.expectedR = s.ExpectedR
		c.numDocuments = s.NumDocuments
		c.regionCounts = make([]float64, len(s.RegionCounts))
		c.wordByRegionCounts = make([]float64, len(s.WordByRegionCounts))
		c.regionByDocumentCounts =
			make([]float64, len(s.RegionByDocumentCounts))
		c.regionMeans = make([][]float64, s.ExpectedR)
		for j := range c.regionMeans {
			c.regionMeans[j] = make([]float64, 3)
		}
	}
	for i := range s.RegionCounts {
		c.regionCounts[i] += float64(s.RegionCounts[i])
	}
	for i := range s.WordByRegionCounts {
		c.wordByRegionCounts[i] += float64(s.WordByRegionCounts[i])
	}
	for i := range s.RegionByDocumentCounts {
		c.regionByDocumentCounts[i] += float64(s.RegionByDocumentCounts[i])
	}
	for j := range s.RegionMeans {
		for k := range s.RegionMeans[j] {
			c.regionMeans[j][k] += s.RegionMeans[j][k]
		}
	}
}

func (c *averages) average(sampleCount int) {
	n := float64(sampleCount)
	for i := range c.regionCounts {
		c.regionCounts[i] /= n
	}
	for i := range c.wordByRegionCounts {
		c.wordByRegionCounts[i] /= n
	}
	for i := range c.regionByDocumentCounts {
		c.regionByDocumentCounts[i] /= n
	}
	for j := range c.regionMeans {
		for k := range c.regionMeans[j] {
			c.regionMeans[j][k] /= n
		}
	}
	c.done = &Averages{
		RegionCounts:           c.regionCounts,
		WordByRegionCounts:     c.wordByRegionCounts,
		RegionByDocumentCounts: c.regionByDocumentCounts,
		RegionMeans:            c.regionMeans,
		ExpectedR:              c.expectedR,
	}
}

func (c *averages) averaged() *Averages {
	return c.done
}

// Expand grows the accumulation arrays in step with the model's
// tables, preserving every accumulated value and zeroing new slots.
func (c *averages) Expand(oldExpectedR, newExpectedR int) {
	if c.regionCounts == nil {
		return
	}
	c.regionCounts = growFloat64(c.regionCounts, 1,
		oldExpectedR, newExpectedR)
	c.wordByRegionCounts = growFloat64(c.wordByRegionCounts,
		len(c.wordByRegionCounts)/oldExpectedR, oldExpectedR, newExpectedR)
	c.regionByDocumentCounts = growFloat64(c.regionByDocumentCounts,
		c.numDocuments, oldExpectedR, newExpectedR)

	means := make([][]float64, newExpectedR)
	copy(means, c.regionMeans)
	for j := oldExpectedR; j < newExpectedR; j++ {
		means[j] = make([]float64, 3)
	}
	c.regionMeans = means
	c.expectedR = newExpectedR
}

func growFloat64(old []float64, rows, oldR, newR int) []float64 {
	grown := make([]float64, rows*newR)
	for r := 0; r < rows; r++ {
		copy(grown[r*newR:r*newR+oldR], old[r*oldR:(r+1)*oldR])
	}
	return grown
}
