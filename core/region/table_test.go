package region

import (
	"strings"
	"testing"

	"github.com/utcompling/textgrounder-sub011/core/corpus"
	"github.com/utcompling/textgrounder-sub011/core/gazetteer"
)

const testingGazetteerTSV = `paris	48.85	2.35	2140000	city	france
paris	33.66	-95.55	24000	city	texas
sydney	-33.87	151.2	5300000	city	australia
nullisland	0.0	0.0	0	locality	nowhere
`

func CreateTestingTable(t *testing.T, text string) (
	*Table, *corpus.Lexicon, *corpus.TokenStream) {

	gaz, e := gazetteer.LoadMemory(strings.NewReader(testingGazetteerTSV))
	if e != nil {
		t.Fatalf("LoadMemory failed: %v", e)
	}

	tk := corpus.NewTokenizer("")
	tokens, e := corpus.ScanTokens(strings.NewReader(text), tk)
	if e != nil {
		t.Fatalf("ScanTokens failed: %v", e)
	}
	lex := corpus.NewLexicon().Assign(tokens)
	ts, e := corpus.BuildTokenStream(strings.NewReader(text), tk, lex, nil)
	if e != nil {
		t.Fatalf("BuildTokenStream failed: %v", e)
	}

	return BuildTable(ts, lex, gaz, 3.0), lex, ts
}

func TestBuildTableFilters(t *testing.T) {
	table, lex, _ := CreateTestingTable(t,
		"eiffel tower in Paris/LOC\nrodeo in Paris/LOC\nopera in Sydney/LOC")

	// paris: two sane candidates, two regions; sydney: one.
	if table.NumRegions() != 3 {
		t.Errorf("Expecting 3 regions, got %d", table.NumRegions())
	}

	paris := lex.Id("paris")
	if table.Unconstrained(paris) {
		t.Errorf("paris must be constrained")
	}
	reachable := 0
	for j := 0; j < table.NumRegions(); j++ {
		if table.Reachable(paris, j) {
			reachable++
		}
	}
	if reachable != 2 {
		t.Errorf("Expecting paris to reach 2 regions, got %d", reachable)
	}

	sydney := lex.Id("sydney")
	reachable = 0
	for j := 0; j < table.NumRegions(); j++ {
		if table.Reachable(sydney, j) {
			reachable++
		}
	}
	if reachable != 1 {
		t.Errorf("Expecting sydney to reach 1 region, got %d", reachable)
	}

	// Non-toponym words reach everything.
	opera := lex.Id("opera")
	if table.IsToponym(opera) {
		t.Errorf("opera must not be a toponym type")
	}
	for j := 0; j < table.NumRegions(); j++ {
		if !table.Reachable(opera, j) {
			t.Errorf("Non-toponym word must reach region %d", j)
		}
	}
}

func TestMissingToponymIsUnconstrained(t *testing.T) {
	table, lex, _ := CreateTestingTable(t, "visiting Gotham/LOC today")

	gotham := lex.Id("gotham")
	if !table.IsToponym(gotham) {
		t.Fatalf("gotham must be recorded as a toponym type")
	}
	if !table.Unconstrained(gotham) {
		t.Errorf("gotham is not in the gazetteer, must be unconstrained")
	}
	for j := 0; j < table.NumRegions(); j++ {
		if !table.Reachable(gotham, j) {
			t.Errorf("Unconstrained toponym must reach region %d", j)
		}
	}
}

func TestPlaceholderCandidatesDegradeToUnconstrained(t *testing.T) {
	table, lex, _ := CreateTestingTable(t, "sailing to Nullisland/LOC")

	// nullisland's only candidate sits at (0, 0): filtered, so the
	// toponym degrades to unconstrained instead of failing.
	null := lex.Id("nullisland")
	if !table.Unconstrained(null) {
		t.Errorf("nullisland must degrade to unconstrained")
	}
	if table.NumRegions() != 0 {
		t.Errorf("Placeholder candidates must not create regions, got %d",
			table.NumRegions())
	}
}

func TestSaneCoordinate(t *testing.T) {
	if SaneCoordinate(gazetteer.Coordinate{Lat: 0, Long: 0}) {
		t.Errorf("(0, 0) must be insane")
	}
	if SaneCoordinate(gazetteer.Coordinate{Lat: 0.005, Long: -0.005}) {
		t.Errorf("Coordinates within epsilon of (0, 0) must be insane")
	}
	if !SaneCoordinate(gazetteer.Coordinate{Lat: 0, Long: 2.35}) {
		t.Errorf("Points on the equator are real places")
	}
	if !SaneCoordinate(gazetteer.Coordinate{Lat: 48.85, Long: 2.35}) {
		t.Errorf("(48.85, 2.35) must be sane")
	}
}

func TestCandidatesIn(t *testing.T) {
	table, lex, _ := CreateTestingTable(t, "Paris/LOC and Paris/LOC")

	paris := lex.Id("paris")
	total := 0
	for j := int32(0); int(j) < table.NumRegions(); j++ {
		for _, loc := range table.CandidatesIn(paris, j) {
			if loc.Name != "paris" {
				t.Errorf("Unexpected candidate %v in region %d", loc, j)
			}
			total++
		}
	}
	if total != 2 {
		t.Errorf("Expecting 2 candidates across regions, got %d", total)
	}
}
