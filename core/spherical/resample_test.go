package spherical

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gonum.org/v1/gonum/floats"

	"github.com/utcompling/textgrounder-sub011/core/geom"
)

func TestUniformSphereVectorIsUnit(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	for i := 0; i < 100; i++ {
		v := uniformSphereVector(rng)
		assert.InDelta(t, 1.0, floats.Norm(v, 2), 1e-9)
	}
}

func TestVMFDrawConcentratesAroundMean(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	mu := geom.NormalizeVector([]float64{1, 2, 3})

	sum := 0.0
	for i := 0; i < 200; i++ {
		v := vmfDraw(mu, 50, rng)
		assert.InDelta(t, 1.0, floats.Norm(v, 2), 1e-9)
		sum += floats.Dot(v, mu)
	}
	assert.Greater(t, sum/200, 0.9,
		"high-concentration draws wandered from the mean")
}

func TestVMFDrawLowConcentrationSpreads(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	mu := []float64{0, 0, 1}

	sum := 0.0
	for i := 0; i < 200; i++ {
		sum += floats.Dot(vmfDraw(mu, 0.1, rng), mu)
	}
	assert.Less(t, sum/200, 0.3,
		"near-uniform draws clustered around the mean")
}

func TestRotateToPoleMapsPoleToMean(t *testing.T) {
	mu := geom.NormalizeVector([]float64{-1, 0.5, 0.25})
	out := rotateToPole([]float64{0, 0, 1}, mu)
	assert.InDeltaSlice(t, mu, out, 1e-9)

	// Identity frame: mu already at the pole.
	out = rotateToPole([]float64{0.6, 0.8, 0}, []float64{0, 0, 1})
	assert.InDeltaSlice(t, []float64{0.6, 0.8, 0}, out, 1e-9)
}

func TestBreakSticks(t *testing.T) {
	weights := make([]float64, 3)
	breakSticks(weights, []float64{0.5, 0.5, 1})
	assert.InDeltaSlice(t, []float64{0.5, 0.25, 0.25}, weights, 1e-9)
	assert.InDelta(t, 1.0, floats.Sum(weights), 1e-9)
}

func TestBetaDrawGuardsDegenerateShapes(t *testing.T) {
	assert.Equal(t, 0.0, betaDraw(0, 1))
	assert.Equal(t, 1.0, betaDraw(1, 0))
	v := betaDraw(2, 3)
	assert.GreaterOrEqual(t, v, 0.0)
	assert.LessOrEqual(t, v, 1.0)
}

func TestResampleKeepsInvariants(t *testing.T) {
	m, _ := CreateTestingState(t)
	s := NewSampler(m, Topical)
	rng := rand.New(rand.NewSource(1))
	s.RandomInitialize(rng)

	r := s.resampler
	require.NotNil(t, r.Means)
	for sweep := 0; sweep < 3; sweep++ {
		r.Resample(m, rng)
	}

	assert.Greater(t, r.AlphaH, 0.0)
	for d := range r.DocAlphas {
		assert.Greater(t, r.DocAlphas[d], 0.0)
	}
	assert.LessOrEqual(t, floats.Sum(r.GlobalWeights), 1+1e-6)
	for j := 0; j < m.CurrentR; j++ {
		if m.IsEmpty(j) {
			continue
		}
		assert.Greater(t, m.Kappas[j], 0.0)
		assert.InDelta(t, 1.0, floats.Norm(r.Means[j], 2), 1e-9)
	}
}

func TestResamplerExpandSeedsFreshSlots(t *testing.T) {
	m, _ := CreateTestingState(t)
	s := NewSampler(m, Topical)
	rng := rand.New(rand.NewSource(1))
	s.RandomInitialize(rng)

	r := s.resampler
	oldR := m.ExpectedR
	globals := append([]float64(nil), r.GlobalWeights...)
	r.Expand(oldR, oldR+2)

	assert.Len(t, r.Means, oldR+2)
	assert.Len(t, r.GlobalWeights, oldR+2)
	assert.Len(t, r.LocalWeights, m.NumDocuments*(oldR+2))
	assert.InDeltaSlice(t, globals, r.GlobalWeights[:oldR], 1e-12)
	for j := oldR; j < oldR+2; j++ {
		assert.InDelta(t, 1.0, floats.Norm(r.Means[j], 2), 1e-9)
	}
}
