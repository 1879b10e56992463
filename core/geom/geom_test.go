package geom

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRadianConversions(t *testing.T) {
	assert.InDelta(t, math.Pi/2, LatToRadians(0), 1e-12)
	assert.InDelta(t, 0.0, LatToRadians(90), 1e-12)
	assert.InDelta(t, math.Pi, LatToRadians(-90), 1e-12)
	assert.InDelta(t, 0.0, LongToRadians(0), 1e-12)
	assert.InDelta(t, math.Pi, LongToRadians(180), 1e-12)
	assert.InDelta(t, -math.Pi/2, LongToRadians(-90), 1e-12)
}

func TestGeographicRoundTrip(t *testing.T) {
	for _, p := range [][2]float64{
		{48.85, 2.35},   // Paris, France
		{33.66, -95.55}, // Paris, Texas
		{-33.87, 151.2}, // Sydney
		{0.0, 0.0},
	} {
		spher := GeographicToSpherical(p[0], p[1])
		cart := SphericalToCartesian(spher[0], spher[1])
		assert.InDelta(t, 1.0, floatsNorm(cart), 1e-12)
		geo := CartesianToGeographic(cart)
		assert.InDelta(t, p[0], geo[0], 1e-9)
		assert.InDelta(t, p[1], geo[1], 1e-9)
	}
}

func floatsNorm(x []float64) float64 {
	s := 0.0
	for _, v := range x {
		s += v * v
	}
	return math.Sqrt(s)
}

func TestVMFDensityBranchesAgree(t *testing.T) {
	x := SphericalToCartesian(1.1, 0.3)
	mu := SphericalToCartesian(1.0, 0.4)

	// Just around the branch point the two closed forms must agree.
	lo := VMFDensity(x, mu, 4.999999)
	hi := VMFDensity(x, mu, 5.000001)
	assert.InEpsilon(t, lo, hi, 1e-4)

	logLo := LogVMFDensity(x, mu, 4.999999)
	logHi := LogVMFDensity(x, mu, 5.000001)
	assert.InDelta(t, logLo, logHi, 1e-4)
}

func TestVMFDensityHighKappaFinite(t *testing.T) {
	x := SphericalToCartesian(1.1, 0.3)
	mu := SphericalToCartesian(1.1, 0.3)

	// The sinh form overflows above kappa ~700; the asymptotic form
	// must stay finite and integrate sensibly.
	d := VMFDensity(x, mu, 1000)
	assert.False(t, math.IsInf(d, 0))
	assert.False(t, math.IsNaN(d))
	assert.True(t, d > 0)

	ld := LogVMFDensity(x, mu, 1000)
	assert.False(t, math.IsInf(ld, 0))
	assert.InDelta(t, math.Log(d), ld, 1e-9)
}

func TestUnnormalizedVMFDensityScalesMean(t *testing.T) {
	x := SphericalToCartesian(0.7, -0.2)
	mu := SphericalToCartesian(0.7, -0.2)
	scaled := []float64{mu[0] * 17, mu[1] * 17, mu[2] * 17}

	assert.InDelta(t, UnnormalizedVMFDensity(x, mu, 2),
		UnnormalizedVMFDensity(x, scaled, 2), 1e-9)
	assert.InDelta(t, math.Exp(2), UnnormalizedVMFDensity(x, scaled, 2), 1e-9)
}

func TestHaversine(t *testing.T) {
	// Paris, France to Paris, Texas is roughly 7700 km.
	d := Haversine(48.85, 2.35, 33.66, -95.55)
	assert.InDelta(t, 7730, d, 100)
	assert.InDelta(t, 0, Haversine(10, 20, 10, 20), 1e-9)
}

func TestStableSum(t *testing.T) {
	assert.InDelta(t, 0.3, StableSum(0.1, 0.2), 1e-12)
	assert.InDelta(t, 0.6, StableSumSlice([]float64{0.1, 0.2, 0.3}, 0, 3), 1e-12)
	assert.InDelta(t, 0.5, StableSumSlice([]float64{0.1, 0.2, 0.3}, 0, 2), 1e-12)
	assert.Equal(t, 0.0, StableSumSlice([]float64{0, 0}, 0, 2))

	// Adding a tiny probability to a dominant one must not lose it.
	s := StableSumSlice([]float64{1e-300, 1e-300}, 0, 2)
	assert.InDelta(t, 2e-300, s, 1e-310)
}

func TestStableLogSum(t *testing.T) {
	inf := math.Inf(-1)
	assert.True(t, math.IsInf(StableLogSum(inf, inf), -1))
	assert.InDelta(t, math.Log(0.3),
		StableLogSum(math.Log(0.1), math.Log(0.2)), 1e-12)
}

func TestStableProdDiv(t *testing.T) {
	assert.InDelta(t, 0.006, StableProd(0.1, 0.2, 0.3), 1e-12)
	assert.InDelta(t, 0.5, StableDiv(0.1, 0.2), 1e-12)
}

func TestCumSum(t *testing.T) {
	cs := CumSum([]float64{1, 2, 3})
	assert.Equal(t, []float64{1, 3, 6}, cs)

	ics := InverseCumSum([]int{1, 2, 3})
	assert.Equal(t, []int{6, 5, 3}, ics)
}
