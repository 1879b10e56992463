package anneal

import (
	"log"
	"math"
)

// temperatureEpsilon decides when a drifting float temperature is
// close enough to 1 to be snapped there, so the hot path can test
// reciprocal != 1 exactly.
const temperatureEpsilon = 1e-9

// An Annealer controls the temperature schedule applied to sampling
// probabilities across Gibbs sweeps and, past burn-in, accumulates
// posterior sample averages of the count tables.
//
// The sampler owns no stopping condition: it sweeps for as long as
// NextIter returns true.
type Annealer interface {
	// AnnealProbs adjusts an unnormalized probability vector in place
	// for the current temperature and returns the sum of the mutated
	// vector, the normalizer for inverse-CDF sampling.
	AnnealProbs(probs []float64) float64

	// NextIter advances the schedule.  False signals exhaustion.
	NextIter() bool

	// CollectSamples accumulates one posterior sample of the count
	// tables when the schedule is in a collection iteration, and
	// averages the accumulated samples when the last one arrives.
	CollectSamples(regionCounts, wordByRegionCounts,
		regionByDocumentCounts []int32)

	// Collected returns the posterior-mean count tables, or nils
	// before collection finished.
	Collected() (regionCounts, wordByRegionCounts,
		regionByDocumentCounts []float64)
}

// Schedule is the iteration state machine shared by the annealer
// strategies: outer iterations step the temperature from
// InitialTemperature down to TargetTemperature by TemperatureDecrement,
// each running innerIterationsMax sweeps; after the last outer
// iteration the schedule switches into a sampling phase of
// samples*lag sweeps at the target temperature.
type Schedule struct {
	temperature           float64
	temperatureReciprocal float64
	initialTemperature    float64
	temperatureDecrement  float64
	targetTemperature     float64

	innerIter          int
	outerIter          int
	innerIterationsMax int
	outerIterationsMax int

	samples         int
	lag             int
	sampleIteration bool
	sampleCount     int

	finishedCollection bool
}

func NewSchedule(initialTemperature, temperatureDecrement,
	targetTemperature float64, iterations, samples, lag int) Schedule {

	return Schedule{
		temperature:           initialTemperature,
		temperatureReciprocal: 1 / initialTemperature,
		initialTemperature:    initialTemperature,
		temperatureDecrement:  temperatureDecrement,
		targetTemperature:     targetTemperature,
		innerIterationsMax:    iterations,
		outerIterationsMax: int(math.Round((initialTemperature-
			targetTemperature)/temperatureDecrement)) + 1,
		samples: samples,
		lag:     lag,
	}
}

// stabilizeTemperature snaps the reciprocal to exactly 1 once the
// decrements bring it within epsilon, so AnnealProbs can skip the
// power step on the common unit-temperature sweeps.
func (s *Schedule) stabilizeTemperature() {
	if math.Abs(s.temperatureReciprocal-1) < temperatureEpsilon {
		s.temperatureReciprocal = 1
	}
}

func (s *Schedule) Temperature() float64 {
	return s.temperature
}

func (s *Schedule) NextIter() bool {
	if s.outerIter == s.outerIterationsMax {
		if s.samples != 0 && !s.finishedCollection && !s.sampleIteration {
			log.Printf("Burn in complete, beginning sampling")
			s.outerIter = 0
			s.innerIter = 0
			s.temperatureReciprocal = 1 / s.targetTemperature
			s.stabilizeTemperature()
			s.innerIterationsMax = s.samples * s.lag
			s.outerIterationsMax = 1
			s.sampleIteration = true
			return true
		}
		return false
	}

	if s.innerIter == s.innerIterationsMax {
		s.outerIter++
		if s.outerIter == s.outerIterationsMax {
			return s.NextIter()
		}
		s.innerIter = 0
		s.temperature -= s.temperatureDecrement
		s.temperatureReciprocal = 1 / s.temperature
		s.stabilizeTemperature()
		log.Printf("Outer iteration %d (temperature %.2f)",
			s.outerIter, s.temperature)
	}
	s.innerIter++
	return true
}

// Collecting reports whether the current sweep's counts are a sample
// to accumulate.
func (s *Schedule) Collecting() bool {
	return s.sampleIteration && !s.finishedCollection &&
		s.innerIter%s.lag == 0
}

// TakeSample advances the collection state and reports whether this
// sample was the last one.
func (s *Schedule) TakeSample() bool {
	s.sampleCount++
	if s.sampleCount == s.samples {
		s.finishedCollection = true
	}
	return s.finishedCollection
}

// SampleCount returns the number of samples accumulated so far.
func (s *Schedule) SampleCount() int {
	return s.sampleCount
}

// FinishedCollection reports whether sample collection is complete.
func (s *Schedule) FinishedCollection() bool {
	return s.finishedCollection
}

// collector accumulates first moments of the grid model's count
// tables.
type collector struct {
	regionCountsFirstMoment     []float64
	wordByRegionFirstMoment     []float64
	regionByDocumentFirstMoment []float64
}

func (c *collector) add(regionCounts, wordByRegionCounts,
	regionByDocumentCounts []int32) {

	if c.regionCountsFirstMoment == nil {
		c.regionCountsFirstMoment = make([]float64, len(regionCounts))
		c.wordByRegionFirstMoment = make([]float64, len(wordByRegionCounts))
		c.regionByDocumentFirstMoment =
			make([]float64, len(regionByDocumentCounts))
	}
	for i := range regionCounts {
		c.regionCountsFirstMoment[i] += float64(regionCounts[i])
	}
	for i := range wordByRegionCounts {
		c.wordByRegionFirstMoment[i] += float64(wordByRegionCounts[i])
	}
	for i := range regionByDocumentCounts {
		c.regionByDocumentFirstMoment[i] += float64(regionByDocumentCounts[i])
	}
}

func (c *collector) average(sampleCount int) {
	for i := range c.regionCountsFirstMoment {
		c.regionCountsFirstMoment[i] /= float64(sampleCount)
	}
	for i := range c.wordByRegionFirstMoment {
		c.wordByRegionFirstMoment[i] /= float64(sampleCount)
	}
	for i := range c.regionByDocumentFirstMoment {
		c.regionByDocumentFirstMoment[i] /= float64(sampleCount)
	}
}
