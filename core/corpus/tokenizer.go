package corpus

import (
	"bufio"
	"io"
	"sort"
	"strings"

	"github.com/huichen/sego"
)

// ToponymTag marks tokens the upstream named-entity pipeline
// identified as place names, e.g. "paris/LOC".
const ToponymTag = "/LOC"

// Token is one corpus token together with its toponym mark.
type Token struct {
	Text    string
	Toponym bool
}

// Tokenizer splits a document line into tokens.  With a segmenter
// dictionary it further segments untagged CJK text; without one it
// splits on whitespace only.  Tagged toponym fields are never
// re-segmented.
type Tokenizer struct {
	seg *sego.Segmenter
}

func NewTokenizer(dictionary string) *Tokenizer {
	t := &Tokenizer{}
	if len(dictionary) > 0 {
		t.seg = new(sego.Segmenter)
		t.seg.LoadDictionary(dictionary)
	}
	return t
}

func (t *Tokenizer) Tokenize(line string) []Token {
	tokens := make([]Token, 0, len(line)/4)
	for _, f := range strings.Fields(line) {
		if strings.HasSuffix(f, ToponymTag) {
			name := strings.ToLower(strings.TrimSuffix(f, ToponymTag))
			if len(name) > 0 {
				tokens = append(tokens, Token{name, true})
			}
			continue
		}
		if t.seg != nil {
			for _, s := range t.seg.Segment([]byte(f)) {
				text := strings.ToLower(s.Token().Text())
				if len(strings.TrimSpace(text)) > 0 {
					tokens = append(tokens, Token{text, false})
				}
			}
		} else {
			tokens = append(tokens, Token{strings.ToLower(f), false})
		}
	}
	return tokens
}

// ScanTokens makes the first preprocessing pass: it tokenizes every
// document line and returns the sorted distinct token strings, the
// input of Lexicon.Assign.
func ScanTokens(reader io.Reader, tk *Tokenizer) ([]string, error) {
	seen := make(map[string]bool)
	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 0, 1024*1024), 16*1024*1024)
	for scanner.Scan() {
		for _, tok := range tk.Tokenize(scanner.Text()) {
			seen[tok.Text] = true
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}

	tokens := make([]string, 0, len(seen))
	for tok := range seen {
		tokens = append(tokens, tok)
	}
	sort.Strings(tokens)
	return tokens, nil
}

// BuildTokenStream makes the second preprocessing pass: one document
// per line, every token resolved against the lexicon and flagged as
// toponym/stopword.  Toponyms are never stopword-filtered, whatever
// the stopword list says.
func BuildTokenStream(reader io.Reader, tk *Tokenizer, lex *Lexicon,
	sw Stopwords) (*TokenStream, error) {

	ts := NewTokenStream()
	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 0, 1024*1024), 16*1024*1024)
	doc := int32(0)
	for scanner.Scan() {
		for _, tok := range tk.Tokenize(scanner.Text()) {
			id := lex.Id(tok.Text)
			if id < 0 {
				continue
			}
			stop := !tok.Toponym && sw != nil && sw[tok.Text]
			ts.Append(doc, id, tok.Toponym, stop)
		}
		doc++
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	ts.NumDocs = int(doc)
	return ts, nil
}
