package spherical

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/utcompling/textgrounder-sub011/core/corpus"
	"github.com/utcompling/textgrounder-sub011/core/gazetteer"
)

const (
	testingCRPAlpha  = 1.0
	testingAlpha     = 0.1
	testingBeta      = 0.01
	testingKappa     = 10.0
	testingExpectedR = 4

	testingIterations = 50
	testingSamples    = 5
	testingLag        = 2
)

// testingGazetteerTSV holds two homonymous cities plus one
// single-candidate anchor toponym near each of them.
const testingGazetteerTSV = `paris	48.85	2.35	2140000	city	france
paris	33.66	-95.55	24000	city	texas
versailles	48.80	2.13	85000	city	france
dallas	32.78	-96.80	1300000	city	texas
`

// testingCorpus mentions the ambiguous toponym alongside an anchor
// whose single candidate pins its document to one side of the
// Atlantic.
const testingCorpus = `the eiffel tower stands in Paris/LOC near Versailles/LOC
royal gardens of Versailles/LOC draw visitors to Paris/LOC
rodeo fans drive from Dallas/LOC to Paris/LOC
cowboys from Paris/LOC compete in the Dallas/LOC rodeo
`

const testingStopwords = "the\nin\nof\nto\nfrom\nnear\n"

func CreateTestingStream(t *testing.T, text string) (
	*corpus.TokenStream, *corpus.Lexicon, *CoordinateLexicon) {

	gaz, e := gazetteer.LoadMemory(strings.NewReader(testingGazetteerTSV))
	if e != nil {
		t.Fatalf("LoadMemory failed: %v", e)
	}
	sw, e := corpus.LoadStopwords(strings.NewReader(testingStopwords))
	if e != nil {
		t.Fatalf("LoadStopwords failed: %v", e)
	}

	tk := corpus.NewTokenizer("")
	tokens, e := corpus.ScanTokens(strings.NewReader(text), tk)
	if e != nil {
		t.Fatalf("ScanTokens failed: %v", e)
	}
	lex := corpus.NewLexicon().Assign(tokens)
	ts, e := corpus.BuildTokenStream(strings.NewReader(text), tk, lex, sw)
	if e != nil {
		t.Fatalf("BuildTokenStream failed: %v", e)
	}

	return ts, lex, BuildCoordinateLexicon(ts, lex, gaz)
}

func CreateTestingState(t *testing.T) (*ModelState, *corpus.Lexicon) {
	ts, lex, cl := CreateTestingStream(t, testingCorpus)
	return NewModelState(ts, cl, testingExpectedR,
		testingCRPAlpha, testingAlpha, testingBeta, testingKappa), lex
}

// CreateTestingTrainedSampler initializes, trains, and decodes a model
// of the given variant over the testing corpus.
func CreateTestingTrainedSampler(t *testing.T, variant Variant) (
	*Sampler, *ModelState, *corpus.Lexicon) {

	m, lex := CreateTestingState(t)
	s := NewSampler(m, variant)
	rng := rand.New(rand.NewSource(1))
	s.RandomInitialize(rng)
	a := NewSimulatedAnnealer(1, 0.1, 1,
		testingIterations, testingSamples, testingLag)
	s.Train(a, rng)
	s.Decode()
	return s, m, lex
}

// trainingSweeps returns an annealer good for burn-in-only tests.
func trainingSweeps(iterations int) *SimulatedAnnealer {
	return NewSimulatedAnnealer(2, 1, 1, iterations, 0, 0)
}

// sumCounts is the total mass of a count table.
func sumCounts(counts []int32) int {
	total := 0
	for _, c := range counts {
		total += int(c)
	}
	return total
}
