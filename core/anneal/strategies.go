package anneal

import (
	"fmt"
	"math"
)

// SimulatedAnnealer runs the full cooling schedule: probabilities are
// normalized, raised to the power 1/temperature, and renormalized, so
// low temperatures sharpen the distribution toward its mode.
type SimulatedAnnealer struct {
	Schedule
	collector
}

func NewSimulatedAnnealer(initialTemperature, temperatureDecrement,
	targetTemperature float64, iterations, samples, lag int) *SimulatedAnnealer {

	if initialTemperature < targetTemperature {
		panic(fmt.Sprintf("initial temperature %f below target %f",
			initialTemperature, targetTemperature))
	}
	return &SimulatedAnnealer{
		Schedule: NewSchedule(initialTemperature, temperatureDecrement,
			targetTemperature, iterations, samples, lag),
	}
}

func (a *SimulatedAnnealer) AnnealProbs(probs []float64) float64 {
	sum := 0.0
	for i := range probs {
		sum += probs[i]
	}
	if sum == 0 {
		panic("annealing a degenerate all-zero probability vector")
	}
	if a.temperatureReciprocal != 1 {
		sumw := 0.0
		for i := range probs {
			probs[i] = math.Pow(probs[i]/sum, a.temperatureReciprocal)
			sumw += probs[i]
		}
		sum = sumw
	}
	for i := range probs {
		probs[i] /= sum
	}
	return 1
}

func (a *SimulatedAnnealer) CollectSamples(regionCounts,
	wordByRegionCounts, regionByDocumentCounts []int32) {

	if !a.Collecting() {
		return
	}
	a.add(regionCounts, wordByRegionCounts, regionByDocumentCounts)
	if a.TakeSample() {
		a.average(a.sampleCount)
	}
}

func (a *SimulatedAnnealer) Collected() ([]float64, []float64, []float64) {
	if !a.finishedCollection {
		return nil, nil, nil
	}
	return a.regionCountsFirstMoment, a.wordByRegionFirstMoment,
		a.regionByDocumentFirstMoment
}

// MaximumPosteriorDecoder is the zero-temperature annealer: it turns
// the probability vector into a one-hot argmax indicator and allows
// exactly one sweep.  Running the sampler under it is the decoding
// pass.
type MaximumPosteriorDecoder struct {
	spent bool
}

func NewMaximumPosteriorDecoder() *MaximumPosteriorDecoder {
	return &MaximumPosteriorDecoder{}
}

func (d *MaximumPosteriorDecoder) AnnealProbs(probs []float64) float64 {
	max, maxid := 0.0, -1
	for i := range probs {
		if probs[i] > max {
			max = probs[i]
			maxid = i
		}
	}
	if maxid < 0 {
		panic("decoding a degenerate all-zero probability vector")
	}
	for i := range probs {
		probs[i] = 0
	}
	probs[maxid] = 1
	return 1
}

func (d *MaximumPosteriorDecoder) NextIter() bool {
	if d.spent {
		return false
	}
	d.spent = true
	return true
}

func (d *MaximumPosteriorDecoder) CollectSamples(_, _, _ []int32) {}

func (d *MaximumPosteriorDecoder) Collected() ([]float64, []float64, []float64) {
	return nil, nil, nil
}

// EvalAnnealer runs a fixed number of unit-temperature sweeps.  It is
// the schedule for evaluation-only training against a frozen model,
// where no cooling is wanted.
type EvalAnnealer struct {
	Schedule
	collector
}

func NewEvalAnnealer(iterations, samples, lag int) *EvalAnnealer {
	return &EvalAnnealer{
		Schedule: NewSchedule(1, 0.1, 1, iterations, samples, lag),
	}
}

// AnnealProbs leaves the vector untouched and returns its sum; at unit
// temperature annealing is the identity.
func (a *EvalAnnealer) AnnealProbs(probs []float64) float64 {
	sum := 0.0
	for i := range probs {
		sum += probs[i]
	}
	if sum == 0 {
		panic("annealing a degenerate all-zero probability vector")
	}
	return sum
}

func (a *EvalAnnealer) CollectSamples(regionCounts,
	wordByRegionCounts, regionByDocumentCounts []int32) {

	if !a.Collecting() {
		return
	}
	a.add(regionCounts, wordByRegionCounts, regionByDocumentCounts)
	if a.TakeSample() {
		a.average(a.sampleCount)
	}
}

func (a *EvalAnnealer) Collected() ([]float64, []float64, []float64) {
	if !a.finishedCollection {
		return nil, nil, nil
	}
	return a.regionCountsFirstMoment, a.wordByRegionFirstMoment,
		a.regionByDocumentFirstMoment
}
