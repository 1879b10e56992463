package gibbs

import (
	"math"
	"testing"
)

func TestPerplexityIsFinite(t *testing.T) {
	m, _ := CreateTestingTrainedModel(t)
	e := NewEvaluator(m, -1)

	total := 0
	for d := 0; d < m.NumDocuments; d++ {
		logl, n := e.Perplexity(d)
		if n <= 0 {
			t.Errorf("Expecting doc %d to hold sampled tokens", d)
		}
		if logl >= 0 || math.IsInf(logl, 0) || math.IsNaN(logl) {
			t.Errorf("Doc %d log-likelihood %f out of range", d, logl)
		}
		total += n
	}
	if total != m.Tokens.NumNonStopwords() {
		t.Errorf("Expecting %d sampled tokens, got %d",
			m.Tokens.NumNonStopwords(), total)
	}

	pp := e.CorpusPerplexity()
	if math.IsInf(pp, 0) || math.IsNaN(pp) || pp <= 1 {
		t.Errorf("Corpus perplexity %f out of range", pp)
	}
}

func TestPerplexityCacheAgnostic(t *testing.T) {
	m, _ := CreateTestingTrainedModel(t)
	full := NewEvaluator(m, -1)
	none := NewEvaluator(m, 0)

	for d := 0; d < m.NumDocuments; d++ {
		a, _ := full.Perplexity(d)
		b, _ := none.Perplexity(d)
		if math.Abs(a-b) > 1e-9 {
			t.Errorf("Doc %d: cached %f vs uncached %f", d, a, b)
		}
	}
}
