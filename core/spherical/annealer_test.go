package spherical

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCollectedIsNilBeforeSampling(t *testing.T) {
	a := NewSimulatedAnnealer(2, 1, 1, 3, 2, 1)
	assert.Nil(t, a.Collected())
}

func TestCollectSamplesAveragesTables(t *testing.T) {
	m, _ := CreateTestingState(t)
	s := NewSampler(m, UniformKappa)
	s.RandomInitialize(rand.New(rand.NewSource(1)))

	// One unit-temperature burn-in sweep, then 3 samples at lag 2.
	a := NewSimulatedAnnealer(1, 0.1, 1, 1, 3, 2)
	for a.NextIter() {
		a.CollectSamples(m)
	}

	avg := a.Collected()
	require.NotNil(t, avg)
	assert.Equal(t, m.ExpectedR, avg.ExpectedR)

	// The state never changed between samples, so every average must
	// equal the constant table it was collected from.
	for j, c := range m.RegionCounts {
		assert.InDelta(t, float64(c), avg.RegionCounts[j], 1e-9)
	}
	for i, c := range m.WordByRegionCounts {
		assert.InDelta(t, float64(c), avg.WordByRegionCounts[i], 1e-9)
	}
	for i, c := range m.RegionByDocumentCounts {
		assert.InDelta(t, float64(c), avg.RegionByDocumentCounts[i], 1e-9)
	}
	for j := range m.RegionMeans {
		assert.InDeltaSlice(t, m.RegionMeans[j], avg.RegionMeans[j], 1e-9)
	}
}

func TestAccumulatorExpandPreservesSums(t *testing.T) {
	m, _ := CreateTestingState(t)
	s := NewSampler(m, UniformKappa)
	s.RandomInitialize(rand.New(rand.NewSource(1)))

	a := NewSimulatedAnnealer(1, 0.1, 1, 1, 2, 1)
	require.True(t, a.NextIter()) // burn-in sweep
	require.True(t, a.NextIter()) // first sampling sweep
	a.CollectSamples(m)

	oldR := m.ExpectedR
	newR := oldR + 3
	a.Expand(oldR, newR)

	assert.Len(t, a.regionCounts, newR)
	assert.Len(t, a.regionMeans, newR)
	assert.Len(t, a.regionByDocumentCounts, m.NumDocuments*newR)
	for j := 0; j < oldR; j++ {
		assert.InDelta(t, float64(m.RegionCounts[j]), a.regionCounts[j], 1e-9)
	}
	for j := oldR; j < newR; j++ {
		assert.Zero(t, a.regionCounts[j])
		assert.Equal(t, []float64{0, 0, 0}, a.regionMeans[j])
	}
	for d := 0; d < m.NumDocuments; d++ {
		for j := 0; j < oldR; j++ {
			assert.InDelta(t, float64(m.RegionByDocumentCounts[d*oldR+j]),
				a.regionByDocumentCounts[d*newR+j], 1e-9,
				"document %d region %d moved during expansion", d, j)
		}
	}
}

func TestDecoderCollectsNothing(t *testing.T) {
	m, _ := CreateTestingState(t)
	d := NewMaximumPosteriorDecoder()
	d.CollectSamples(m)
	d.Expand(1, 2)
	assert.Nil(t, d.Collected())
	assert.True(t, d.NextIter())
	assert.False(t, d.NextIter())
}
