package gibbs

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/utcompling/textgrounder-sub011/core/anneal"
	"github.com/utcompling/textgrounder-sub011/core/corpus"
	"github.com/utcompling/textgrounder-sub011/core/gazetteer"
	"github.com/utcompling/textgrounder-sub011/core/region"
)

const (
	testingAlpha   = 0.1
	testingBeta    = 0.01
	testingDegrees = 10.0

	testingIterations = 50
	testingSamples    = 5
	testingLag        = 2
)

// testingGazetteerTSV holds two homonymous cities plus one
// single-candidate anchor toponym in each of their grid cells.
const testingGazetteerTSV = `paris	48.85	2.35	2140000	city	france
paris	33.66	-95.55	24000	city	texas
versailles	48.80	2.13	85000	city	france
dallas	32.78	-96.80	1300000	city	texas
`

// testingCorpus mentions the ambiguous toponym alongside an anchor
// that pins its document to one of the two regions.
const testingCorpus = `the eiffel tower stands in Paris/LOC near Versailles/LOC
royal gardens of Versailles/LOC draw visitors to Paris/LOC
rodeo fans drive from Dallas/LOC to Paris/LOC
cowboys from Paris/LOC compete in the Dallas/LOC rodeo
`

const testingStopwords = "the\nin\nof\nto\nfrom\nnear\n"

func CreateTestingCorpus(t *testing.T, text string) (
	*corpus.TokenStream, *corpus.Lexicon, *region.Table) {

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

	return ts, lex, region.BuildTable(ts, lex, gaz, testingDegrees)
}

func CreateTestingModel(t *testing.T) (*Model, *corpus.Lexicon) {
	ts, lex, table := CreateTestingCorpus(t, testingCorpus)
	m := NewModel(ts, table, testingAlpha, testingBeta)
	m.RandomInitialize(rand.New(rand.NewSource(1)))
	return m, lex
}

// CreateTestingTrainedModel trains and decodes the testing corpus.
func CreateTestingTrainedModel(t *testing.T) (*Model, *corpus.Lexicon) {
	m, lex := CreateTestingModel(t)
	s := NewSampler(m)
	a := anneal.NewSimulatedAnnealer(1, 0.1, 1,
		testingIterations, testingSamples, testingLag)
	s.Train(a, rand.New(rand.NewSource(1)))
	s.Decode()
	return m, lex
}

// sumCounts is the total mass of a count table.
func sumCounts(counts []int32) int {
	total := 0
	for _, c := range counts {
		total += int(c)
	}
	return total
}
