package corpus

import (
	"strings"
	"testing"
)

const (
	testingAppleFP  uint64 = 17819163333647859135
	testingOrangeFP uint64 = 12023831162993772011
)

func CreateTestingLexicon() (*Lexicon, error) {
	r := strings.NewReader("apple 100\norange	whatever\n\ncat\ntiger")
	l := NewLexicon()
	e := l.Load(r)
	return l, e
}

func TestLexiconFingerprint(t *testing.T) {
	l := NewLexicon()
	if l.fingerprint("apple") != testingAppleFP {
		t.Errorf("Expecting fingerprint(\"apple\") = %d, got %d",
			testingAppleFP, l.fingerprint("apple"))
	}
	if l.fingerprint("apple") != testingAppleFP {
		t.Errorf("Expecting fingerprint(\"apple\") = %d, got %d",
			testingAppleFP, l.fingerprint("apple"))
	}

	if l.fingerprint("orange") != testingOrangeFP {
		t.Errorf("Expecting fingerprint(\"orange\") = %d, got %d",
			testingOrangeFP, l.fingerprint("orange"))
	}
}

func TestLexiconLoad(t *testing.T) {
	l, e := CreateTestingLexicon()
	if e != nil {
		t.Errorf("Load failed: %v", e)
	}

	if l.Len() != 4 {
		t.Errorf("Expecting l.Len() = 4, got %d", l.Len())
	}
}

func TestLexiconTokenAndId(t *testing.T) {
	l, e := CreateTestingLexicon()
	if e != nil {
		t.Errorf("Load failed: %v", e)
	}

	for i := 0; i < l.Len(); i++ {
		if l.Id(l.Token(int32(i))) != int32(i) {
			t.Errorf("Expecting Id(Token(%d)) = %d, got %d",
				i, i, l.Id(l.Token(int32(i))))
		}
	}
	if l.Id("unknown") != -1 {
		t.Errorf("Expecting l.Id(\"unknown\") = -1, got %d", l.Id("unknown"))
	}
}

func TestLexiconAssignMatchesLoad(t *testing.T) {
	loaded, e := CreateTestingLexicon()
	if e != nil {
		t.Errorf("Load failed: %v", e)
	}
	assigned := NewLexicon().Assign(
		[]string{"tiger", "apple", "cat", "orange"})

	if loaded.Len() != assigned.Len() {
		t.Fatalf("Expecting equal sizes, got %d and %d",
			loaded.Len(), assigned.Len())
	}
	for i := range loaded.Tokens {
		if loaded.Tokens[i] != assigned.Tokens[i] {
			t.Errorf("Tokens[%d]: expecting %s, got %s",
				i, loaded.Tokens[i], assigned.Tokens[i])
		}
	}
}
