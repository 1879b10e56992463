package geom

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// EarthRadiusKm is the mean earth radius used by Haversine.
const EarthRadiusKm = 6372.8

// LatToRadians maps a latitude in [-90, 90] to a polar angle in
// [0, pi], measured from the north pole.
func LatToRadians(lat float64) float64 {
	return (lat/-180 + 0.5) * math.Pi
}

// LongToRadians maps a longitude in [-180, 180] to an azimuthal angle
// in [-pi, pi].
func LongToRadians(long float64) float64 {
	return (long / 180) * math.Pi
}

// GeographicToSpherical converts degrees latitude/longitude into
// (theta, phi) spherical coordinates on the unit sphere.
func GeographicToSpherical(lat, long float64) []float64 {
	return []float64{LatToRadians(lat), LongToRadians(long)}
}

// SphericalToCartesian converts (theta, phi) into a unit vector.
func SphericalToCartesian(theta, phi float64) []float64 {
	return []float64{
		math.Sin(theta) * math.Cos(phi),
		math.Sin(theta) * math.Sin(phi),
		math.Cos(theta),
	}
}

// CartesianToSpherical converts a unit vector into (theta, phi).
func CartesianToSpherical(x []float64) []float64 {
	return []float64{math.Acos(x[2]), math.Atan2(x[1], x[0])}
}

// SphericalToGeographic converts (theta, phi) back into degrees
// latitude/longitude.
func SphericalToGeographic(spher []float64) []float64 {
	return []float64{
		(spher[0]/-math.Pi)*180 + 90,
		(spher[1] / math.Pi) * 180,
	}
}

// CartesianToGeographic converts a unit vector into degrees
// latitude/longitude.
func CartesianToGeographic(x []float64) []float64 {
	return SphericalToGeographic(CartesianToSpherical(x))
}

// NormalizeVector returns mu scaled to unit length.
func NormalizeVector(mu []float64) []float64 {
	nrm := make([]float64, len(mu))
	floats.AddScaled(nrm, 1/floats.Norm(mu, 2), mu)
	return nrm
}

// VMFDensity evaluates the von Mises-Fisher density of unit vector x
// under mean direction mu with concentration kappa.  For kappa above 5
// the sinh normalizer overflows its useful range, so the density is
// computed through its asymptotic form; dropping the branch silently
// degrades high-concentration regions.
func VMFDensity(x, mu []float64, kappa float64) float64 {
	if kappa > 5 {
		return 0.5 * kappa / math.Pi * math.Exp(kappa*floats.Dot(x, mu)-kappa)
	}
	return kappa * math.Exp(kappa*floats.Dot(x, mu)) /
		(4 * math.Pi * math.Sinh(kappa))
}

// LogVMFDensity is the logarithm of VMFDensity, computed directly in
// log space for the high-kappa branch.
func LogVMFDensity(x, mu []float64, kappa float64) float64 {
	if kappa > 5 {
		return math.Log(0.5*kappa/math.Pi) + kappa*floats.Dot(x, mu) - kappa
	}
	return math.Log(VMFDensity(x, mu, kappa))
}

// ProportionalVMFDensity is the vMF density without its normalization
// constant.  It is valid whenever densities are compared under a fixed
// kappa, as in the joint (region, coordinate) sampling step.
func ProportionalVMFDensity(x, mu []float64, kappa float64) float64 {
	return math.Exp(kappa * floats.Dot(x, mu))
}

// LogProportionalVMFDensity is the logarithm of ProportionalVMFDensity.
func LogProportionalVMFDensity(x, mu []float64, kappa float64) float64 {
	return kappa * floats.Dot(x, mu)
}

// UnnormalizedVMFDensity evaluates the proportional density after
// scaling mu to unit length.  Region means are maintained as count
// sums, not unit vectors, so this is the form the samplers use.
func UnnormalizedVMFDensity(x, mu []float64, kappa float64) float64 {
	return math.Exp(kappa * floats.Dot(x, NormalizeVector(mu)))
}

// Haversine returns the great-circle distance in kilometers between
// two (lat, long) points given in degrees.
func Haversine(lat1, long1, lat2, long2 float64) float64 {
	dLat := (lat2 - lat1) * math.Pi / 180
	dLong := (long2 - long1) * math.Pi / 180
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*math.Pi/180)*math.Cos(lat2*math.Pi/180)*
			math.Sin(dLong/2)*math.Sin(dLong/2)
	return 2 * EarthRadiusKm * math.Asin(math.Sqrt(a))
}
