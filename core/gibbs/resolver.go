package gibbs

import (
	"errors"
	"fmt"
	"hash/fnv"
	"math/rand"
	"sort"
	"strings"

	"github.com/utcompling/textgrounder-sub011/core/corpus"
	"github.com/utcompling/textgrounder-sub011/core/gazetteer"
)

const (
	ErrEmptyDoc = "Resolve empty document."
)

// Resolver grounds toponyms in fresh text against a frozen trained
// model.  The document is Gibbs-sampled on its own against the
// posterior-mean word-by-region tables; after burn-in, each token's
// visited regions are accumulated and its mode is taken.
type Resolver struct {
	model *ModelAccessor
	lex   *corpus.Lexicon
	sw    corpus.Stopwords
}

// A Resolution grounds one toponym occurrence of the input text.
type Resolution struct {
	Position int
	Token    string
	Region   int32
	Location gazetteer.Location
	// Grounded is false when the toponym has no candidate in its
	// modal region, such as a toponym missing from the gazetteer.
	Grounded bool
}

func NewResolver(m *Model, lex *corpus.Lexicon, sw corpus.Stopwords,
	cacheSizeMB int) *Resolver {

	return &Resolver{
		model: NewModelAccessor(m, cacheSizeMB),
		lex:   lex,
		sw:    sw,
	}
}

// Resolve samples region assignments for the given tokens and returns
// one Resolution per toponym occurrence, plus the document's region
// distribution.  The rng is seeded from the token text, so resolving
// the same text twice gives the same answer.
func (r *Resolver) Resolve(tokens []corpus.Token, burnin, iter int) (
	[]Resolution, SparseDist, error) {

	if iter <= burnin {
		panic(fmt.Sprintf("iter (%d) <= burnin (%d)", iter, burnin))
	}

	words, positions := r.admit(tokens)
	if len(words) == 0 {
		return nil, nil, errors.New(ErrEmptyDoc)
	}

	hasher := fnv.New64()
	for _, p := range positions {
		hasher.Write([]byte(tokens[p].Text))
		hasher.Write([]byte("\t"))
	}
	rng := rand.New(rand.NewSource(int64(hasher.Sum64())))

	t := r.model.NumRegions
	assignments := make([]int32, len(words))
	docHist := make(map[int32]int32)
	for i, w := range words {
		regionid := r.initialRegion(w, tokens[positions[i]].Toponym, rng)
		assignments[i] = regionid
		docHist[regionid]++
	}

	cache := newDistCache(r.model)
	perToken := make([]map[int32]int32, len(words))
	for i := range perToken {
		perToken[i] = make(map[int32]int32)
	}
	accumulated := make(map[int32]int32)
	norm := 0.0
	probs := make([]float64, t)

	for it := 0; it < iter; it++ {
		for i, w := range words {
			docHist[assignments[i]]--
			if docHist[assignments[i]] == 0 {
				delete(docHist, assignments[i])
			}

			dist := cache.Get(w)
			istoponym := tokens[positions[i]].Toponym
			for j := 0; j < t; j++ {
				probs[j] = dist[j] * r.model.Alpha
			}
			for j, c := range docHist {
				probs[j] += dist[j] * float64(c)
			}
			if istoponym && !r.model.Table.Unconstrained(w) {
				filter := r.model.Table.Filters[w]
				for j := 0; j < t; j++ {
					probs[j] *= float64(filter[j])
				}
			}

			total := 0.0
			for j := 0; j < t; j++ {
				total += probs[j]
			}
			regionid := inverseCDF(probs, rng.Float64()*total, t)
			assignments[i] = regionid
			docHist[regionid]++
		}

		if it > burnin {
			for i, regionid := range assignments {
				perToken[i][regionid]++
			}
			for regionid, c := range docHist {
				accumulated[regionid] += c
				norm += float64(c)
			}
		}
	}

	var resolutions []Resolution
	for i, w := range words {
		if !tokens[positions[i]].Toponym {
			continue
		}
		regionid := modalRegion(perToken[i])
		res := Resolution{
			Position: positions[i],
			Token:    tokens[positions[i]].Text,
			Region:   regionid,
		}
		if best, ok := bestCandidate(
			r.model.Table.CandidatesIn(w, regionid)); ok {
			res.Location = best
			res.Grounded = true
		}
		resolutions = append(resolutions, res)
	}

	dist := make(SparseDist, 0, len(accumulated))
	for regionid, c := range accumulated {
		dist = append(dist, Prob{regionid, float64(c) / norm})
	}
	sort.Sort(dist)
	return resolutions, dist, nil
}

// admit keeps the tokens the model can sample: in-lexicon and, unless
// toponymic, not a stopword.
func (r *Resolver) admit(tokens []corpus.Token) ([]int32, []int) {
	var words []int32
	var positions []int
	for i, tok := range tokens {
		text := strings.ToLower(tok.Text)
		if !tok.Toponym && r.sw != nil && r.sw[text] {
			continue
		}
		if id := r.lex.Id(text); id >= 0 {
			words = append(words, id)
			positions = append(positions, i)
		}
	}
	return words, positions
}

func (r *Resolver) initialRegion(w int32, istoponym bool,
	rng *rand.Rand) int32 {

	if istoponym && !r.model.Table.Unconstrained(w) {
		return r.model.Model.sampleFilteredUniform(w, rng)
	}
	return int32(rng.Intn(r.model.NumRegions))
}

func modalRegion(counts map[int32]int32) int32 {
	var best int32 = -1
	var bestCount int32 = -1
	for regionid, c := range counts {
		if c > bestCount || (c == bestCount && regionid < best) {
			best = regionid
			bestCount = c
		}
	}
	return best
}

func bestCandidate(candidates []gazetteer.Location) (
	gazetteer.Location, bool) {

	if len(candidates) == 0 {
		return gazetteer.Location{}, false
	}
	best := candidates[0]
	for _, c := range candidates[1:] {
		if c.Population > best.Population {
			best = c
		}
	}
	return best, true
}

type Prob struct {
	Region int32
	Prob   float64
}
type SparseDist []Prob

func (a SparseDist) Len() int           { return len(a) }
func (a SparseDist) Swap(i, j int)      { a[i], a[j] = a[j], a[i] }
func (a SparseDist) Less(i, j int) bool { return a[i].Prob > a[j].Prob }
