package corpus

import (
	"strings"
	"testing"
)

func TestTokenStreamAppend(t *testing.T) {
	ts := NewTokenStream()
	ts.Append(0, 3, true, false)
	ts.Append(0, 1, false, true)
	ts.Append(1, 2, false, false)

	if ts.Len() != 3 {
		t.Errorf("Expecting ts.Len() = 3, got %d", ts.Len())
	}
	if ts.NumDocs != 2 {
		t.Errorf("Expecting ts.NumDocs = 2, got %d", ts.NumDocs)
	}
	if ts.NumNonStopwords() != 2 {
		t.Errorf("Expecting 2 non-stopwords, got %d", ts.NumNonStopwords())
	}
	if ts.ToponymVector[0] != 1 || ts.ToponymVector[1] != 0 {
		t.Errorf("Wrong toponym flags: %v", ts.ToponymVector)
	}
	if ts.StopwordVector[1] != 1 {
		t.Errorf("Wrong stopword flags: %v", ts.StopwordVector)
	}
}

func TestTokenizeTags(t *testing.T) {
	tk := NewTokenizer("")
	tokens := tk.Tokenize("Soldiers marched to Paris/LOC in the rain")
	if len(tokens) != 7 {
		t.Fatalf("Expecting 7 tokens, got %d: %v", len(tokens), tokens)
	}
	if tokens[3].Text != "paris" || !tokens[3].Toponym {
		t.Errorf("Expecting toponym paris, got %v", tokens[3])
	}
	if tokens[0].Text != "soldiers" || tokens[0].Toponym {
		t.Errorf("Expecting plain soldiers, got %v", tokens[0])
	}
}

func TestBuildTokenStream(t *testing.T) {
	tk := NewTokenizer("")
	corpus := "eiffel tower near Paris/LOC\nthe rodeo in Paris/LOC the"

	tokens, e := ScanTokens(strings.NewReader(corpus), tk)
	if e != nil {
		t.Fatalf("ScanTokens failed: %v", e)
	}
	lex := NewLexicon().Assign(tokens)

	sw, e := LoadStopwords(strings.NewReader("the\nin\nnear"))
	if e != nil {
		t.Fatalf("LoadStopwords failed: %v", e)
	}

	ts, e := BuildTokenStream(strings.NewReader(corpus), tk, lex, sw)
	if e != nil {
		t.Fatalf("BuildTokenStream failed: %v", e)
	}

	if ts.NumDocs != 2 {
		t.Errorf("Expecting 2 documents, got %d", ts.NumDocs)
	}
	if ts.Len() != 9 {
		t.Errorf("Expecting 9 tokens, got %d", ts.Len())
	}

	// "paris" is a toponym in both documents and never a stopword.
	paris := lex.Id("paris")
	for i := 0; i < ts.Len(); i++ {
		if ts.WordVector[i] == paris {
			if ts.ToponymVector[i] != 1 {
				t.Errorf("Token %d: paris must be a toponym", i)
			}
			if ts.StopwordVector[i] != 0 {
				t.Errorf("Token %d: paris must not be a stopword", i)
			}
		}
	}

	// "the", "in", "near" are stopwords.
	if got := ts.Len() - ts.NumNonStopwords(); got != 4 {
		t.Errorf("Expecting 4 stopword tokens, got %d", got)
	}
}
