package gibbs

import (
	"math"
	"runtime"

	"github.com/wangkuiyi/parallel"
)

// Evaluator computes log-likelihood and perplexity of documents given
// a trained model.
//
// The likelihood of a token w in document d is
/*
                              n_dj + alpha
   L(d,w) = \sum_j \phi_jw ------------------
                            L_d + alpha * T

                    1           [                                          ]
          = ----------------    [ \sum_j \phi_jw alpha + \sum_j \phi_jw n_dj ]
            L_d + alpha * T     [                                          ]

                    1           [                            ]
          = ----------------    [ o(w) + \sum_j \phi_jw n_dj ]
            L_d + alpha * T     [                            ]
*/
// which runs fast because o(w) = alpha \sum_j \phi_jw is
// pre-computable per word, and n_dj is sparse: a document touches few
// regions, so the remaining sum is over the non-zero entries of the
// document's region histogram only.
type Evaluator struct {
	model       *ModelAccessor
	cachedCoeff []float64
}

func NewEvaluator(model *Model, cacheSizeMB int) *Evaluator {
	accessor := NewModelAccessor(model, cacheSizeMB)
	return &Evaluator{
		model:       accessor,
		cachedCoeff: calculateEvaluationCoeff(accessor),
	}
}

func calculateEvaluationCoeff(model *ModelAccessor) []float64 {
	coeff := make([]float64, len(model.WordRegionDists))
	parallel.ForN(0, len(coeff), 1, 2*runtime.NumCPU(), func(word int) {
		dist := model.WordRegionDist(int32(word))
		for j := range dist {
			coeff[word] += dist[j] * model.Alpha
		}
	})
	return coeff
}

// Perplexity computes the log-likelihood of one document under the
// posterior-mean tables.  It returns the log-likelihood and the number
// of sampled tokens, which, when divided, get to the perplexity of the
// document, or when aggregated along documents then divided, get to
// the perplexity of the corpus.
func (e *Evaluator) Perplexity(doc int) (float64, int) {
	m := e.model.Model
	regionHist := m.DocumentRegionHist(doc)
	length := 0
	for _, c := range regionHist {
		length += int(c)
	}
	if length <= 0 {
		return 0.0, 0
	}
	norm := float64(length) + m.Alpha*float64(m.NumRegions)

	logl := 0.0
	cache := newDistCache(e.model)
	ts := m.Tokens
	for i := 0; i < ts.Len(); i++ {
		if ts.StopwordVector[i] == 1 || int(ts.DocVector[i]) != doc {
			continue
		}
		word := ts.WordVector[i]
		dist := cache.Get(word)
		prob := 0.0
		for j, c := range regionHist {
			prob += dist[j] * float64(c)
		}
		logl += math.Log((e.cachedCoeff[word] + prob) / norm)
	}
	return logl, length
}

// CorpusPerplexity aggregates Perplexity over every document and
// returns exp of the negated per-token log-likelihood.
func (e *Evaluator) CorpusPerplexity() float64 {
	logl, tokens := 0.0, 0
	for d := 0; d < e.model.NumDocuments; d++ {
		l, n := e.Perplexity(d)
		logl += l
		tokens += n
	}
	if tokens == 0 {
		return math.Inf(1)
	}
	return math.Exp(-logl / float64(tokens))
}

type distCache struct {
	accessor *ModelAccessor
	cache    map[int32][]float64
}

func newDistCache(a *ModelAccessor) *distCache {
	return &distCache{
		accessor: a,
		cache:    make(map[int32][]float64)}
}

func (c *distCache) Get(word int32) []float64 {
	if dist, ok := c.cache[word]; ok {
		return dist
	}
	dist := c.accessor.WordRegionDist(word)
	c.cache[word] = dist
	return dist
}
