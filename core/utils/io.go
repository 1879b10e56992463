package utils

import (
	"bufio"
	"encoding/gob"
	"log"
	"os"
	"path"
	"strings"

	cmprs "github.com/wangkuiyi/compress_io"

	"github.com/utcompling/textgrounder-sub011/core/corpus"
	"github.com/utcompling/textgrounder-sub011/core/gazetteer"
	"github.com/utcompling/textgrounder-sub011/core/gibbs"
)

func LoadLexiconOrDie(filename string) *corpus.Lexicon {
	log.Printf("Loading lexicon %s ... ", filename)

	f, e := os.Open(filename)
	r := cmprs.NewReader(f, e, path.Ext(filename))
	if r == nil {
		log.Fatalf("Cannot open lexicon file %s: %v", filename, e)
	}

	defer r.Close()
	lex := corpus.NewLexicon()
	if e := lex.Load(r); e != nil {
		log.Fatalf("Failed loading lexicon file %s: %v", filename, e)
	}

	log.Println("Done loading lexicon.")
	return lex
}

func SaveLexicon(lex *corpus.Lexicon, filename string) {
	if len(filename) > 0 {
		f, e := os.Create(filename)
		w := cmprs.NewWriter(f, e, path.Ext(filename))
		if w == nil {
			log.Printf("Cannot create file %s: %v", filename, e)
			return
		}
		defer func() {
			w.Close()
			log.Printf("Saved lexicon to %s.", filename)
		}()
		if _, e := w.Write(
			[]byte(strings.Join(lex.Tokens, "\n") + "\n")); e != nil {
			log.Printf("Failed writing lexicon: %v", e)
		}
	}
}

// LoadStopwordsOrDie loads a stopword list, or returns nil for an
// empty filename so callers can make stopword filtering optional.
func LoadStopwordsOrDie(filename string) corpus.Stopwords {
	if len(filename) == 0 {
		return nil
	}
	log.Printf("Loading stopwords %s ... ", filename)

	f, e := os.Open(filename)
	r := cmprs.NewReader(f, e, path.Ext(filename))
	if r == nil {
		log.Fatalf("Cannot open stopword file %s: %v", filename, e)
	}

	defer r.Close()
	sw, e := corpus.LoadStopwords(r)
	if e != nil {
		log.Fatalf("Failed loading stopword file %s: %v", filename, e)
	}

	log.Printf("Done loading %d stopwords.", len(sw))
	return sw
}

func LoadGazetteerOrDie(filename string) *gazetteer.Memory {
	log.Printf("Loading gazetteer %s ... ", filename)

	f, e := os.Open(filename)
	r := cmprs.NewReader(f, e, path.Ext(filename))
	if r == nil {
		log.Fatalf("Cannot open gazetteer file %s: %v", filename, e)
	}

	defer r.Close()
	gaz, e := gazetteer.LoadMemory(r)
	if e != nil {
		log.Fatalf("Failed loading gazetteer file %s: %v", filename, e)
	}

	log.Printf("Done loading gazetteer: %d locations.", len(gaz.Locations))
	return gaz
}

// ScanCorpusOrDie makes the preprocessing pass over a raw corpus file
// and returns its sorted distinct tokens.
func ScanCorpusOrDie(filename string, tk *corpus.Tokenizer) []string {
	log.Printf("Scanning corpus %s ... ", filename)

	f, e := os.Open(filename)
	r := cmprs.NewReader(f, e, path.Ext(filename))
	if r == nil {
		log.Fatalf("Cannot open corpus file %s: %v", filename, e)
	}

	defer r.Close()
	tokens, e := corpus.ScanTokens(r, tk)
	if e != nil {
		log.Fatalf("Failed scanning corpus file %s: %v", filename, e)
	}

	log.Printf("Done scanning corpus: %d distinct tokens.", len(tokens))
	return tokens
}

func LoadCorpusOrDie(filename string, tk *corpus.Tokenizer,
	lex *corpus.Lexicon, sw corpus.Stopwords) *corpus.TokenStream {

	log.Printf("Loading corpus %s ... ", filename)

	f, e := os.Open(filename)
	r := cmprs.NewReader(f, e, path.Ext(filename))
	if r == nil {
		log.Fatalf("Cannot open corpus file %s: %v", filename, e)
	}

	defer r.Close()
	ts, e := corpus.BuildTokenStream(r, tk, lex, sw)
	if e != nil {
		log.Fatalf("Failed loading corpus file %s: %v", filename, e)
	}
	if ts.Len() == 0 {
		log.Fatal("corpus contains no valid token!")
	}

	log.Printf("Done loading corpus: %d docs, %d tokens, %d sampled.",
		ts.NumDocs, ts.Len(), ts.NumNonStopwords())
	return ts
}

func LoadModelOrDie(filename string) *gibbs.Model {
	log.Printf("Loading model %s ...", filename)
	m := new(gibbs.Model)

	f, e := os.Open(filename)
	r := cmprs.NewReader(f, e, path.Ext(filename))
	if r == nil {
		log.Fatalf("Cannot open model file %s: %v", filename, e)
	}
	defer r.Close()

	dec := gob.NewDecoder(r)
	if e := dec.Decode(m); e != nil {
		log.Fatalf("Cannot decode model: %v", e)
	}

	log.Printf("Done. %d regions %d documents.", m.NumRegions, m.NumDocuments)
	return m
}

func SaveModel(model *gibbs.Model, filename string) {
	if len(filename) > 0 {
		f, e := os.Create(filename)
		w := cmprs.NewWriter(f, e, path.Ext(filename))
		if w == nil {
			log.Printf("Cannot create file %s: %v", filename, e)
		} else {
			defer func() {
				w.Close()
				log.Printf("Saved model to %s.", filename)
			}()
			enc := gob.NewEncoder(w)
			if e := enc.Encode(model); e != nil {
				log.Printf("Failed encoding model: %v", e)
			}
		}
	}
}

// Trans maps corpus tokens to display strings, e.g. romanizations of a
// segmented CJK corpus.
type Trans map[string]string

func TranslatedLexicon(lex *corpus.Lexicon, tr Trans) *corpus.Lexicon {
	log.Printf("Translating lexicon ... ")
	for i, s := range lex.Tokens {
		if t, exist := tr[s]; exist {
			lex.Tokens[i] = t
		} else {
			log.Printf("Cannot translate %s", s)
		}
	}
	log.Printf("Done with translating lexicon.")
	return lex
}

func LoadTranslationOrDie(filename string) Trans {
	log.Printf("Loading translation %s ...", filename)
	trans := make(map[string]string)

	f, e := os.Open(filename)
	if r := cmprs.NewReader(f, e, path.Ext(filename)); r == nil {
		log.Fatalf("Cannot load from %s", filename)
	} else {
		defer r.Close()
		s := bufio.NewScanner(r)
		for s.Scan() {
			fs := strings.Fields(s.Text())
			if len(fs) < 2 {
				log.Fatalf("%v has less than 2 fields", fs)
			}
			if _, exist := trans[fs[0]]; exist {
				log.Fatalf("Found duplicated token (%s) in %s", fs[0], fs)
			}
			trans[fs[0]] = strings.Join(fs[1:len(fs)], " ")
		}
		if e := s.Err(); e != nil {
			log.Fatalf("Reading %s error: %v", filename, e)
		}
	}

	log.Printf("Done loading translation,  %d entries.", len(trans))
	return trans
}
