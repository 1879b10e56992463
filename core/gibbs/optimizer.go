package gibbs

import (
	"github.com/utcompling/textgrounder-sub011/core/hist"
)

// Optimizer collects statistics for optimizing the symmetric Dirichlet
// region prior between sweeps.
type Optimizer struct {
	// docLenHist is the histogram of document lengths, counted over
	// sampled tokens only.
	docLenHist hist.Sparse
	// regionDocHists[j] is a histogram of the number of documents in
	// which region j occurs n times.
	regionDocHists []hist.Sparse
}

func NewOptimizer(numRegions int) *Optimizer {
	o := &Optimizer{
		docLenHist:     hist.NewSparse(),
		regionDocHists: make([]hist.Sparse, numRegions),
	}
	for i := range o.regionDocHists {
		o.regionDocHists[i] = hist.NewSparse()
	}
	return o
}

// CollectDocumentStatistics folds one document's region histogram into
// the optimizer's statistics.
func (o *Optimizer) CollectDocumentStatistics(m *Model, doc int) {
	length := int32(0)
	docoff := doc * m.NumRegions
	for j := 0; j < m.NumRegions; j++ {
		if c := m.RegionByDocumentCounts[docoff+j]; c > 0 {
			o.regionDocHists[j][c]++
			length += c
		}
	}
	if length > 0 {
		o.docLenHist[length]++
	}
}

// approximateHist creates a dense histogram that approximates a
// sparse histogram.  The length of the histogram is the maximum index
// value in the sparse histogram.  This function is only used to
// compute the Digamma function used in prior optimization.
func approximateHist(s hist.Sparse) hist.Dense {
	if len(s) == 0 {
		return nil
	}

	var maxIdx int32 = 0
	for k := range s {
		if k > maxIdx {
			maxIdx = k
		}
	}

	d := hist.NewDense(int(maxIdx) + 1)
	s.ForEach(func(k int, v int64) error {
		d.Inc(k, int(v))
		return nil
	})
	return d
}

// OptimizeRegionPrior updates the symmetric Dirichlet-Multinomial
// region prior using Minka's fixed-point iteration and the digamma
// recurrence relation, as described in
//
//	Hanna M. Wallach. Structured Topic Models for Language. Ph.D.
//	thesis, University of Cambridge, 2008.
//
// The asymmetric update is collapsed to a single scalar by summing the
// per-region numerators and scaling the denominator by the number of
// regions.
func (o *Optimizer) OptimizeRegionPrior(
	m *Model, shape, scale float64, iterations int) {

	t := float64(m.NumRegions)
	for it := 0; it < iterations; it++ {
		diffDigamma, denominator := 0.0, 0.0
		alphaSum := m.Alpha * t
		d := approximateHist(o.docLenHist)
		for i := 1; i < len(d); i++ {
			diffDigamma += 1.0 / (float64(i) - 1.0 + alphaSum)
			denominator += float64(d[i]) * diffDigamma
		}
		denominator -= 1.0 / scale

		numerator := 0.0
		for _, h := range o.regionDocHists {
			diffDigamma = 0.0
			d := approximateHist(h)
			for i := 1; i < len(d); i++ {
				diffDigamma += 1.0 / (float64(i) - 1.0 + m.Alpha)
				numerator += float64(d[i]) * diffDigamma
			}
		}
		m.Alpha = (m.Alpha*numerator + shape) / (t * denominator)
	}
}

// Reset clears the collected statistics so the optimizer can be reused
// across sweeps.
func (o *Optimizer) Reset() {
	o.docLenHist = hist.NewSparse()
	for i := range o.regionDocHists {
		o.regionDocHists[i] = hist.NewSparse()
	}
}
