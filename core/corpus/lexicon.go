package corpus

import (
	"bufio"
	"fmt"
	"hash"
	"hash/fnv"
	"io"
	"sort"
	"strings"
)

// Lexicon maintains the bi-directional mapping between word strings
// and ids.  Ids are assigned to strings randomly and are in the range
// of [0, N), where N is the lexicon size.  This mapping is stored as a
// sorted slice of strings.  The order of a token becomes its ID.
// Sorting order is the ascending order of string hashes + lexical
// order; thus shuffles highly-frequent and long-tail tokens.
type Lexicon struct {
	Tokens []string
	hasher hash.Hash64
	ids    map[string]int
}

func NewLexicon() *Lexicon {
	return &Lexicon{
		Tokens: make([]string, 0),
		hasher: fnv.New64a(),
	}
}

// Load reads one token per line, taking only the first column.
func (l *Lexicon) Load(reader io.Reader) error {
	scanner := bufio.NewScanner(reader)
	for scanner.Scan() {
		fs := strings.Fields(scanner.Text())
		if len(fs) > 0 {
			l.Tokens = append(l.Tokens, fs[0])
		}
	}
	if err := scanner.Err(); err != nil {
		return err
	}
	sort.Sort(l)
	l.buildIdMap()
	return nil
}

// Assign rebuilds the lexicon from a token set, typically collected by
// the preprocessing pass over a raw corpus.
func (l *Lexicon) Assign(tokens []string) *Lexicon {
	l.Tokens = append(l.Tokens[:0], tokens...)
	sort.Sort(l)
	l.buildIdMap()
	return l
}

func (l *Lexicon) buildIdMap() {
	l.ids = make(map[string]int)
	for i := range l.Tokens {
		l.ids[l.Tokens[i]] = i
	}
}

func (l *Lexicon) Len() int {
	return len(l.Tokens)
}

// fingerprint returns the FNV-1a hash of a token.
func (l *Lexicon) fingerprint(s string) uint64 {
	l.hasher.Write([]byte(s))
	sum := l.hasher.Sum64()
	l.hasher.Reset()
	return sum
}

func (l *Lexicon) Less(i, j int) bool {
	a, b := l.fingerprint(l.Tokens[i]), l.fingerprint(l.Tokens[j])
	if a == b {
		return l.Tokens[i] < l.Tokens[j]
	}
	return a < b
}

func (l *Lexicon) Swap(i, j int) {
	l.Tokens[i], l.Tokens[j] = l.Tokens[j], l.Tokens[i]
}

func (l *Lexicon) Token(id int32) string {
	if int(id) < 0 || int(id) >= len(l.Tokens) {
		panic(fmt.Sprintf("id=%d out of range [0, %d)", id, len(l.Tokens)))
	}
	return l.Tokens[id]
}

// Id returns the index of token.  If token is not in the lexicon, it
// returns a negative value.
func (l *Lexicon) Id(token string) int32 {
	if l.ids == nil {
		l.buildIdMap()
	}
	if id, ok := l.ids[token]; ok {
		return int32(id)
	}
	return int32(-1)
}
