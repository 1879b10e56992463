package corpus

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// TokenStream is the flattened per-token view of a corpus: four
// parallel arrays of equal length, indexed 0..N-1.  The samplers
// re-read and re-write every token once per sweep, so tokens stay in
// flat arrays rather than per-document structures.
type TokenStream struct {
	DocVector      []int32
	WordVector     []int32
	ToponymVector  []int8
	StopwordVector []int8
	NumDocs        int
}

func NewTokenStream() *TokenStream {
	return &TokenStream{}
}

func (ts *TokenStream) Len() int {
	return len(ts.WordVector)
}

// Append adds one token occurrence.  Documents must be appended in
// order; NumDocs tracks the largest document id seen plus one.
func (ts *TokenStream) Append(doc, word int32, toponym, stopword bool) {
	if doc < 0 || word < 0 {
		panic(fmt.Sprintf("Append(doc=%d, word=%d): negative id", doc, word))
	}
	ts.DocVector = append(ts.DocVector, doc)
	ts.WordVector = append(ts.WordVector, word)
	ts.ToponymVector = append(ts.ToponymVector, bit(toponym))
	ts.StopwordVector = append(ts.StopwordVector, bit(stopword))
	if int(doc)+1 > ts.NumDocs {
		ts.NumDocs = int(doc) + 1
	}
}

func bit(b bool) int8 {
	if b {
		return 1
	}
	return 0
}

// NumNonStopwords counts the tokens the samplers actually assign.
func (ts *TokenStream) NumNonStopwords() int {
	n := 0
	for i := range ts.StopwordVector {
		if ts.StopwordVector[i] == 0 {
			n++
		}
	}
	return n
}

// Stopwords is the set of tokens excluded from sampling.
type Stopwords map[string]bool

// LoadStopwords reads one stopword per line.
func LoadStopwords(reader io.Reader) (Stopwords, error) {
	sw := make(Stopwords)
	scanner := bufio.NewScanner(reader)
	for scanner.Scan() {
		fs := strings.Fields(scanner.Text())
		if len(fs) > 0 {
			sw[strings.ToLower(fs[0])] = true
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return sw, nil
}
