// Package heavy_tests holds end-to-end tests that train full models
// on a synthetic two-region world and check that the samplers recover
// the geography that generated the corpus.  They are slower than the
// package-level unit tests but still finish in seconds.
package heavy_tests

import (
	"math/rand"
	"strings"
)

const (
	kDegrees = 3.0
	kAlpha   = 0.1
	kBeta    = 0.01

	kCRPAlpha = 1.0
	kKappa    = 100.0
	kRegions  = 8

	kNumDocs     = 100
	kWordsPerDoc = 8

	// Decoded placements of the ambiguous toponym must land in the
	// right hemisphere at least this often.
	kMinAccuracy = 0.9
)

// The synthetic world: "springfield" is ambiguous between a
// northeastern and a southwestern entry, each sharing a grid cell
// with an unambiguous anchor city.
const kGazetteerTSV = `boston	42.36	-71.06	650000	city	usa
austin	30.27	-97.74	960000	city	usa
springfield	42.10	-71.50	155000	city	usa
springfield	30.50	-97.60	60000	city	usa
`

const (
	kEastLat = 42.10
	kWestLat = 30.50
)

var (
	kEastWords = []string{
		"chowder", "harbor", "foliage", "subway", "brownstone"}
	kWestWords = []string{
		"brisket", "rodeo", "pecan", "ranch", "bluebonnet"}
)

// syntheticCorpus writes one document per line: theme words drawn
// from the document's hemisphere, an unambiguous anchor toponym, and
// a mention of the ambiguous toponym.  Even documents are eastern.
func syntheticCorpus(numDocs int, rng *rand.Rand) string {
	var b strings.Builder
	for d := 0; d < numDocs; d++ {
		words, anchor := kEastWords, "Boston/LOC"
		if d%2 == 1 {
			words, anchor = kWestWords, "Austin/LOC"
		}
		for i := 0; i < kWordsPerDoc; i++ {
			b.WriteString(words[rng.Intn(len(words))])
			b.WriteByte(' ')
		}
		b.WriteString(anchor)
		b.WriteString(" Springfield/LOC\n")
	}
	return b.String()
}

// eastern reports whether a document of the synthetic corpus belongs
// to the northeastern hemisphere.
func eastern(doc int32) bool {
	return doc%2 == 0
}
