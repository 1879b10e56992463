// preprocess makes the offline pass over a tagged corpus: it builds
// and saves the lexicon every other command loads, validates that the
// corpus parses into a token stream, and reports how well a gazetteer
// covers the corpus toponyms.  Defaults for the file flags can come
// from a .env file, so the pipeline commands share one configuration.
// Usage:
/*
  $GOPATH/bin/preprocess \
    -corpus=./corpus.gz -lexicon=./lexicon.gz -gazetteer=./gazetteer.tsv.gz
*/
package main

import (
	"flag"
	"log"
	"os"

	"github.com/cheggaaa/pb/v3"
	"github.com/joho/godotenv"

	"github.com/utcompling/textgrounder-sub011/core/corpus"
	"github.com/utcompling/textgrounder-sub011/core/gazetteer"
	"github.com/utcompling/textgrounder-sub011/core/utils"
)

func main() {
	if e := godotenv.Load(); e == nil {
		log.Printf("Loaded flag defaults from .env")
	}

	flagCorpus := flag.String("corpus", os.Getenv("CORPUS_FILE"),
		"Tagged corpus file")
	flagLexicon := flag.String("lexicon", os.Getenv("LEXICON_FILE"),
		"Lexicon output file")
	flagStopwords := flag.String("stopwords", os.Getenv("STOPWORD_FILE"),
		"Stopword file, optional")
	flagSegmenter := flag.String("segmenter", os.Getenv("SEGMENTER_DICT"),
		"sego dictionary for untagged CJK text")
	flagGazetteer := flag.String("gazetteer", os.Getenv("GAZETTEER_FILE"),
		"Gazetteer TSV file, optional; enables the coverage report")
	flagGazetteerAddr := flag.String("gazetteer_addr", "",
		"Address of a gazetteerd server, overrides -gazetteer")
	flag.Parse()

	tk := corpus.NewTokenizer(*flagSegmenter)
	tokens := utils.ScanCorpusOrDie(*flagCorpus, tk)
	lex := corpus.NewLexicon().Assign(tokens)
	utils.SaveLexicon(lex, *flagLexicon)

	sw := utils.LoadStopwordsOrDie(*flagStopwords)
	ts := utils.LoadCorpusOrDie(*flagCorpus, tk, lex, sw)

	var gaz gazetteer.Gazetteer
	if len(*flagGazetteerAddr) > 0 {
		remote, e := gazetteer.DialRemote(*flagGazetteerAddr)
		if e != nil {
			log.Fatalf("Cannot dial gazetteerd %s: %v", *flagGazetteerAddr, e)
		}
		defer remote.Close()
		gaz = remote
	} else if len(*flagGazetteer) > 0 {
		gaz = utils.LoadGazetteerOrDie(*flagGazetteer)
	} else {
		return
	}

	seen := make(map[int32]bool)
	var toponyms []int32
	for i := 0; i < ts.Len(); i++ {
		if w := ts.WordVector[i]; ts.ToponymVector[i] == 1 && !seen[w] {
			seen[w] = true
			toponyms = append(toponyms, w)
		}
	}

	bar := pb.StartNew(len(toponyms))
	covered, ambiguous := 0, 0
	for _, w := range toponyms {
		if ids := gaz.Get(lex.Token(w)); len(ids) > 0 {
			covered++
			if len(ids) > 1 {
				ambiguous++
			}
		}
		bar.Increment()
	}
	bar.Finish()

	log.Printf("Gazetteer covers %d of %d toponym types, %d ambiguous.",
		covered, len(toponyms), ambiguous)
}
