package utils

import (
	"log"
	"os"
	"path"
	"reflect"
	"strings"
	"testing"

	cmprs "github.com/wangkuiyi/compress_io"

	"github.com/utcompling/textgrounder-sub011/core/corpus"
	"github.com/utcompling/textgrounder-sub011/core/gibbs"
)

const testingCorpusText = "eiffel tower in Paris/LOC\nrodeo in Paris/LOC\n"

func TestSaveAndLoadLexicon(t *testing.T) {
	dir := t.TempDir()

	tk := corpus.NewTokenizer("")
	tokens, e := corpus.ScanTokens(strings.NewReader(testingCorpusText), tk)
	if e != nil {
		t.Fatalf("ScanTokens: %v", e)
	}
	lex := corpus.NewLexicon().Assign(tokens)

	for _, ext := range []string{".gz", ""} {
		filename := path.Join(dir, "lexicon"+ext)
		SaveLexicon(lex, filename)
		lex2 := LoadLexiconOrDie(filename)
		if !reflect.DeepEqual(lex.Tokens, lex2.Tokens) {
			t.Errorf("Expecting\n%v\ngot\n%v\n", lex.Tokens, lex2.Tokens)
		}
	}
}

func TestLoadCorpusOrDie(t *testing.T) {
	dir := t.TempDir()

	tk := corpus.NewTokenizer("")
	tokens, e := corpus.ScanTokens(strings.NewReader(testingCorpusText), tk)
	if e != nil {
		t.Fatalf("ScanTokens: %v", e)
	}
	lex := corpus.NewLexicon().Assign(tokens)
	want, e := corpus.BuildTokenStream(
		strings.NewReader(testingCorpusText), tk, lex, nil)
	if e != nil {
		t.Fatalf("BuildTokenStream: %v", e)
	}

	for _, ext := range []string{".gz", ""} {
		filename := createTempFile(dir, "corpus", ext, testingCorpusText)
		if len(filename) == 0 {
			t.Fatalf("createTempFile failed")
		}
		ts := LoadCorpusOrDie(filename, tk, lex, nil)
		if !reflect.DeepEqual(want, ts) {
			t.Errorf("Expecting\n%v\ngot\n%v\n", want, ts)
		}
	}
}

func TestSaveAndLoadModelOrDie(t *testing.T) {
	dir := t.TempDir()

	m, _ := gibbs.CreateTestingModel(t)

	for _, name := range []string{"model.gz", "model"} {
		filename := path.Join(dir, name)
		SaveModel(m, filename)
		m1 := LoadModelOrDie(filename)
		if !reflect.DeepEqual(m.RegionVector, m1.RegionVector) {
			t.Errorf("Region vectors differ after reload")
		}
		if !reflect.DeepEqual(m.WordByRegionCounts, m1.WordByRegionCounts) {
			t.Errorf("Word-by-region counts differ after reload")
		}
		if m.NumRegions != m1.NumRegions || m.BetaW != m1.BetaW {
			t.Errorf("Model shape differs after reload")
		}
		if m1.Table == nil || m1.Table.NumRegions() != m.Table.NumRegions() {
			t.Errorf("Toponym table lost in reload")
		}
	}
}

func TestLoadTranslationOrDie(t *testing.T) {
	dir := t.TempDir()

	tk := corpus.NewTokenizer("")
	tokens, e := corpus.ScanTokens(strings.NewReader(testingCorpusText), tk)
	if e != nil {
		t.Fatalf("ScanTokens: %v", e)
	}
	lex := corpus.NewLexicon().Assign(tokens)

	trans := make([]string, len(lex.Tokens))
	truth := make([]string, len(lex.Tokens))
	for i, tok := range lex.Tokens {
		trans[i] = tok + " " + "The " + tok
		truth[i] = "The " + tok
	}
	transFile := createTempFile(dir, "trans", ".gz", strings.Join(trans, "\n"))
	if len(transFile) == 0 {
		t.Fatalf("createTempFile failed")
	}

	tr := LoadTranslationOrDie(transFile)
	translated := TranslatedLexicon(lex, tr)
	if !reflect.DeepEqual(translated.Tokens, truth) {
		t.Errorf("Expecting\n%v\ngot\n%v\n", truth, translated.Tokens)
	}
}

func TestDescribeRegions(t *testing.T) {
	m, lex := gibbs.CreateTestingModel(t)
	descs := DescribeRegions(m, lex, 3)
	if len(descs) != m.NumRegions {
		t.Fatalf("Expecting %d descriptions, got %d", m.NumRegions, len(descs))
	}
	for _, d := range descs {
		if len(d.Tokens) > 3 {
			t.Errorf("Region %d holds %d words, expecting at most 3",
				d.Id, len(d.Tokens))
		}
		if d.Nt != int64(m.RegionCounts[d.Id]) {
			t.Errorf("Region %d Nt = %d, expecting %d",
				d.Id, d.Nt, m.RegionCounts[d.Id])
		}
	}
}

func createTempFile(dir, name, ext, content string) string {
	filename := path.Join(dir, name+ext)
	f, e := os.Create(filename)
	w := cmprs.NewWriter(f, e, path.Ext(filename))
	if w == nil {
		log.Printf("NewCompressWriter failed")
		return ""
	}
	defer w.Close()

	if _, e := w.Write([]byte(content)); e != nil {
		log.Printf("Failed writing to temp file %s: %v", filename, e)
	}

	return filename
}
