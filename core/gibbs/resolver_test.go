package gibbs

import (
	"strings"
	"testing"

	"github.com/utcompling/textgrounder-sub011/core/corpus"
)

const (
	testingBurnin      = 10
	testingResolveIter = 60
)

func createTestingResolver(t *testing.T) *Resolver {
	m, lex := CreateTestingTrainedModel(t)
	sw, e := corpus.LoadStopwords(strings.NewReader(testingStopwords))
	if e != nil {
		t.Fatalf("LoadStopwords failed: %v", e)
	}
	return NewResolver(m, lex, sw, -1)
}

func TestResolveGroundsAnchoredToponym(t *testing.T) {
	r := createTestingResolver(t)
	tk := corpus.NewTokenizer("")
	tokens := tk.Tokenize(
		"the eiffel tower near Paris/LOC and Versailles/LOC")

	resolutions, dist, e := r.Resolve(tokens, testingBurnin,
		testingResolveIter)
	if e != nil {
		t.Fatalf("Resolve failed: %v", e)
	}
	if len(dist) == 0 {
		t.Errorf("Expecting a non-empty region distribution")
	}

	found := false
	for _, res := range resolutions {
		if res.Token != "paris" {
			continue
		}
		found = true
		if !res.Grounded {
			t.Fatalf("Expecting paris to be grounded")
		}
		if res.Location.Population != 2140000 {
			t.Errorf("Expecting the French paris, got %+v", res.Location)
		}
	}
	if !found {
		t.Errorf("Expecting a resolution for paris")
	}
}

func TestResolveIsDeterministic(t *testing.T) {
	r := createTestingResolver(t)
	tk := corpus.NewTokenizer("")
	tokens := tk.Tokenize("rodeo cowboys near Paris/LOC")

	a, _, e := r.Resolve(tokens, testingBurnin, testingResolveIter)
	if e != nil {
		t.Fatalf("Resolve failed: %v", e)
	}
	b, _, e := r.Resolve(tokens, testingBurnin, testingResolveIter)
	if e != nil {
		t.Fatalf("Resolve failed: %v", e)
	}
	if len(a) != len(b) {
		t.Fatalf("Expecting identical resolutions, got %d and %d",
			len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Errorf("Resolution %d differs: %+v vs %+v", i, a[i], b[i])
		}
	}
}

func TestResolveUnknownTextFails(t *testing.T) {
	r := createTestingResolver(t)
	tk := corpus.NewTokenizer("")

	_, _, e := r.Resolve(tk.Tokenize("zyzzyva quux"), testingBurnin,
		testingResolveIter)
	if e == nil || e.Error() != ErrEmptyDoc {
		t.Errorf("Expecting ErrEmptyDoc, got %v", e)
	}
}

func TestResolveUngazetteeredToponym(t *testing.T) {
	r := createTestingResolver(t)
	tk := corpus.NewTokenizer("")

	// "gotham" is not in the training lexicon at all, so it is dropped;
	// the rest of the text still resolves.
	resolutions, _, e := r.Resolve(
		tk.Tokenize("cowboys near Gotham/LOC and Paris/LOC"),
		testingBurnin, testingResolveIter)
	if e != nil {
		t.Fatalf("Resolve failed: %v", e)
	}
	for _, res := range resolutions {
		if res.Token == "gotham" {
			t.Errorf("Expecting gotham to be dropped, got %+v", res)
		}
	}
}
