package spherical

import (
	"math"
	"math/rand"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/distuv"

	"github.com/utcompling/textgrounder-sub011/core/geom"
)

// Resampler carries the parameters the Topical variant keeps outside
// the collapsed count tables: explicit region means and concentrations
// moved by Metropolis steps, stick-breaking weights over regions, and
// the concentration hyperparameters they hang from.  All of it is
// redrawn once per sweep, after the Gibbs pass.
type Resampler struct {
	// AlphaH is the global Dirichlet-process concentration;
	// DocAlphas are the per-document concentrations.
	AlphaH    float64
	DocAlphas []float64

	// GlobalWeights and LocalWeights are the truncated stick-breaking
	// weights over regions, globally and per document (doc*ExpectedR+j).
	GlobalWeights []float64
	LocalWeights  []float64

	// Means[j] is the unit mean direction of region j, moved by a
	// symmetric vMF proposal rather than tracked as a count sum.
	Means [][]float64

	// Metropolis proposal parameters.
	MeanProposalKappa float64
	KappaProposalStd  float64

	// Gamma hyperparameters of the concentration updates.
	ShapeHyper float64
	RateHyper  float64

	expectedR int
	rng       *rand.Rand
}

const (
	defaultMeanProposalKappa = 100
	defaultKappaProposalStd  = 1
	defaultShapeHyper        = 1
	defaultRateHyper         = 0.1
)

func NewResampler(m *ModelState) *Resampler {
	return &Resampler{
		AlphaH:            m.CRPAlpha,
		DocAlphas:         make([]float64, m.NumDocuments),
		MeanProposalKappa: defaultMeanProposalKappa,
		KappaProposalStd:  defaultKappaProposalStd,
		ShapeHyper:        defaultShapeHyper,
		RateHyper:         defaultRateHyper,
		expectedR:         m.ExpectedR,
	}
}

// Initialize draws the starting parameters: uniform-sphere region
// means, Gamma concentrations, and one round of stick-breaking weights
// from the priors.
func (r *Resampler) Initialize(m *ModelState, rng *rand.Rand) {
	r.expectedR = m.ExpectedR
	r.rng = rng
	r.Means = make([][]float64, m.ExpectedR)
	for j := range r.Means {
		r.Means[j] = uniformSphereVector(rng)
	}
	for d := range r.DocAlphas {
		r.DocAlphas[d] = m.CRPAlpha
	}
	r.GlobalWeights = make([]float64, m.ExpectedR)
	r.LocalWeights = make([]float64, m.NumDocuments*m.ExpectedR)
	r.resampleWeights(m)
}

// Resample runs the per-sweep posterior updates: concentrations by the
// auxiliary-variable Gamma scheme, stick-breaking weights by truncated
// Beta draws, region means by a symmetric vMF Metropolis proposal, and
// region concentrations by a Gaussian perturbation reflected at zero.
func (r *Resampler) Resample(m *ModelState, rng *rand.Rand) {
	r.resampleAlphaH(m, rng)
	r.resampleDocAlphas(m, rng)
	r.resampleWeights(m)
	r.resampleMeans(m, rng)
	r.resampleKappas(m, rng)
}

// Expand grows the region-keyed parameter arrays when the model's
// capacity does, seeding fresh slots from the priors.
func (r *Resampler) Expand(oldExpectedR, newExpectedR int) {
	if r.Means == nil {
		r.expectedR = newExpectedR
		return
	}
	means := make([][]float64, newExpectedR)
	copy(means, r.Means)
	for j := oldExpectedR; j < newExpectedR; j++ {
		means[j] = uniformSphereVector(r.rng)
	}
	r.Means = means

	r.GlobalWeights = growFloat64(r.GlobalWeights, 1,
		oldExpectedR, newExpectedR)
	r.LocalWeights = growFloat64(r.LocalWeights, len(r.DocAlphas),
		oldExpectedR, newExpectedR)
	r.expectedR = newExpectedR
}

func (r *Resampler) resampleAlphaH(m *ModelState, rng *rand.Rand) {
	active := 0
	n := 0
	for j := 0; j < m.CurrentR; j++ {
		if m.RegionCounts[j] > 0 {
			active++
		}
		n += int(m.RegionCounts[j])
	}
	if n == 0 || active == 0 {
		return
	}

	q := distuv.Beta{Alpha: r.AlphaH + 1, Beta: float64(n)}.Rand()
	pq := (r.ShapeHyper + float64(active) - 1) /
		(float64(n) * (r.RateHyper - math.Log(q)))
	s := 0.0
	if rng.Float64() < pq {
		s = 1
	}
	r.AlphaH = distuv.Gamma{
		Alpha: r.ShapeHyper + float64(active) + s - 1,
		Beta:  r.RateHyper - math.Log(q),
	}.Rand()
}

func (r *Resampler) resampleDocAlphas(m *ModelState, rng *rand.Rand) {
	for d := range r.DocAlphas {
		docoff := d * m.ExpectedR
		occupied := 0
		for j := 0; j < m.CurrentR; j++ {
			if m.RegionByDocumentCounts[docoff+j] > 0 {
				occupied++
			}
		}
		if occupied == 0 {
			continue
		}

		q := distuv.Beta{
			Alpha: r.DocAlphas[d] + 1,
			Beta:  float64(occupied),
		}.Rand()
		s := 0.0
		if rng.Float64() < q {
			s = 1
		}
		r.DocAlphas[d] = distuv.Gamma{
			Alpha: r.ShapeHyper + float64(occupied) - s,
			Beta:  r.RateHyper - math.Log(q),
		}.Rand()
	}
}

// resampleWeights redraws the truncated stick-breaking construction:
// global sticks from the region occupancies under AlphaH, then one
// local stick per document conditioned on the global weights.
func (r *Resampler) resampleWeights(m *ModelState) {
	R := m.ExpectedR
	tails := make([]int, R+1)
	for j := R - 1; j >= 0; j-- {
		tails[j] = tails[j+1] + int(m.RegionCounts[j])
	}
	sticks := make([]float64, R)
	for j := 0; j < R-1; j++ {
		sticks[j] = betaDraw(1+float64(m.RegionCounts[j]),
			r.AlphaH+float64(tails[j+1]))
	}
	sticks[R-1] = 1
	breakSticks(r.GlobalWeights, sticks)

	cum := make([]float64, R)
	floats.CumSum(cum, r.GlobalWeights)

	docTails := make([]int, R+1)
	for d := range r.DocAlphas {
		docoff := d * R
		docTails[R] = 0
		for j := R - 1; j >= 0; j-- {
			docTails[j] = docTails[j+1] +
				int(m.RegionByDocumentCounts[docoff+j])
		}
		ad := r.DocAlphas[d]
		for j := 0; j < R-1; j++ {
			sticks[j] = betaDraw(
				ad*r.GlobalWeights[j]+
					float64(m.RegionByDocumentCounts[docoff+j]),
				ad*(1-cum[j])+float64(docTails[j+1]))
		}
		sticks[R-1] = 1
		breakSticks(r.LocalWeights[docoff:docoff+R], sticks)
	}
}

// resampleMeans proposes a new mean for every active region from a vMF
// centered on the current one and accepts with probability
// min(1, exp(loglik(new)-loglik(old))).
func (r *Resampler) resampleMeans(m *ModelState, rng *rand.Rand) {
	for j := 0; j < m.CurrentR; j++ {
		if m.IsEmpty(j) {
			continue
		}
		proposal := vmfDraw(r.Means[j], r.MeanProposalKappa, rng)
		u := m.assignmentDotSum(j, proposal) - m.assignmentDotSum(j, r.Means[j])
		if u > 0 || rng.Float64() < math.Exp(u) {
			r.Means[j] = proposal
		}
	}
}

// resampleKappas perturbs each active concentration by a Gaussian step
// reflected at zero and accepts by the same Metropolis rule, using the
// fully normalized vMF likelihood since kappa changes the normalizer.
func (r *Resampler) resampleKappas(m *ModelState, rng *rand.Rand) {
	for j := 0; j < m.CurrentR; j++ {
		if m.IsEmpty(j) {
			continue
		}
		proposal := m.Kappas[j] + r.KappaProposalStd*rng.NormFloat64()
		for proposal < 0 {
			proposal = m.Kappas[j] + r.KappaProposalStd*rng.NormFloat64()
		}
		u := m.kappaLogLikelihood(j, r.Means[j], proposal) -
			m.kappaLogLikelihood(j, r.Means[j], m.Kappas[j])
		if u > 0 || rng.Float64() < math.Exp(u) {
			m.Kappas[j] = proposal
		}
	}
}

// assignmentDotSum sums the dot products of region j's assigned
// coordinates with a candidate mean direction.
func (s *ModelState) assignmentDotSum(j int, mu []float64) float64 {
	ts := s.Tokens
	sum := 0.0
	for i := 0; i < ts.Len(); i++ {
		if s.CoordinateVector[i] < 0 || int(s.RegionVector[i]) != j {
			continue
		}
		w := ts.WordVector[i]
		sum += floats.Dot(s.Coordinates.Cartesian[w][s.CoordinateVector[i]], mu)
	}
	return sum
}

// kappaLogLikelihood is the log likelihood of region j's assigned
// coordinates under mean mu and concentration kappa.
func (s *ModelState) kappaLogLikelihood(j int, mu []float64,
	kappa float64) float64 {

	ts := s.Tokens
	sum := 0.0
	for i := 0; i < ts.Len(); i++ {
		if s.CoordinateVector[i] < 0 || int(s.RegionVector[i]) != j {
			continue
		}
		w := ts.WordVector[i]
		sum += geom.LogVMFDensity(
			s.Coordinates.Cartesian[w][s.CoordinateVector[i]], mu, kappa)
	}
	return sum
}

// breakSticks turns stick proportions into weights in place, keeping
// the tail products in log space.
func breakSticks(weights, sticks []float64) {
	logRemainder := 0.0
	for j := range sticks {
		weights[j] = math.Exp(math.Log(sticks[j]) + logRemainder)
		logRemainder += math.Log(1 - sticks[j])
	}
}

// betaDraw guards the Beta sampler against degenerate shape parameters,
// which the truncated construction produces at the tail.
func betaDraw(alpha, beta float64) float64 {
	if alpha <= 0 {
		return 0
	}
	if beta <= 0 {
		return 1
	}
	v := distuv.Beta{Alpha: alpha, Beta: beta}.Rand()
	if math.IsNaN(v) {
		return 0
	}
	return v
}

// uniformSphereVector draws a unit vector uniformly on the sphere.
func uniformSphereVector(rng *rand.Rand) []float64 {
	z := 2*rng.Float64() - 1
	phi := 2 * math.Pi * rng.Float64()
	s := math.Sqrt(1 - z*z)
	return []float64{s * math.Cos(phi), s * math.Sin(phi), z}
}

// vmfDraw samples from a von Mises-Fisher distribution on the unit
// sphere by inverting the closed-form cosine CDF and rotating the
// result onto the mean direction.
func vmfDraw(mu []float64, kappa float64, rng *rand.Rand) []float64 {
	u := rng.Float64()
	w := 1 + math.Log(u+(1-u)*math.Exp(-2*kappa))/kappa
	phi := 2 * math.Pi * rng.Float64()
	s := math.Sqrt(1 - w*w)
	local := []float64{s * math.Cos(phi), s * math.Sin(phi), w}
	return rotateToPole(local, mu)
}

// rotateToPole maps a vector sampled around the north pole onto the
// frame whose pole is mu.
func rotateToPole(x, mu []float64) []float64 {
	// Householder reflection taking e3 to mu.
	v := []float64{mu[0], mu[1], mu[2] - 1}
	n := floats.Norm(v, 2)
	if n < 1e-12 {
		return []float64{x[0], x[1], x[2]}
	}
	for k := range v {
		v[k] /= n
	}
	d := floats.Dot(v, x)
	out := make([]float64, 3)
	for k := range out {
		out[k] = x[k] - 2*d*v[k]
	}
	return out
}
