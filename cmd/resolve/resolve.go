// resolve grounds the toponyms of text the model never trained on.
// In its default mode it reads a held-out corpus file, bridges its
// lexicon and grid onto the trained model's id spaces, decodes, and
// writes per-token placements.  With -http it serves a form instead
// and resolves pasted text on the fly.
// Usage:
/*
  $GOPATH/bin/resolve \
    -model=./model.gz -lexicon=./lexicon.gz -gazetteer=./gazetteer.tsv.gz \
    -corpus=./heldout.gz -placements=./heldout_placements.tsv
*/
package main

import (
	"flag"
	"html/template"
	"log"
	"math/rand"
	"net/http"

	"github.com/utcompling/textgrounder-sub011/core/anneal"
	"github.com/utcompling/textgrounder-sub011/core/corpus"
	"github.com/utcompling/textgrounder-sub011/core/gazetteer"
	"github.com/utcompling/textgrounder-sub011/core/gibbs"
	"github.com/utcompling/textgrounder-sub011/core/region"
	"github.com/utcompling/textgrounder-sub011/core/utils"
)

func main() {
	flagModel := flag.String("model", "", "Trained model file")
	flagLexicon := flag.String("lexicon", "", "Lexicon of the trained model")
	flagStopwords := flag.String("stopwords", "", "Stopword file, optional")
	flagGazetteer := flag.String("gazetteer", "", "Gazetteer TSV file")
	flagGazetteerAddr := flag.String("gazetteer_addr", "",
		"Address of a gazetteerd server, overrides -gazetteer")
	flagSegmenter := flag.String("segmenter", "",
		"sego dictionary for untagged CJK text")
	flagCorpus := flag.String("corpus", "", "Held-out corpus file")
	flagPlacements := flag.String("placements", "",
		"Per-token placement TSV output")
	flagIterations := flag.Int("iterations", 50,
		"Burn-in sweeps over the held-out corpus")
	flagSamples := flag.Int("samples", 10, "Posterior samples to average")
	flagLag := flag.Int("lag", 5, "Sweeps between posterior samples")
	flagCache := flag.Int("cache", 0, "Smoothing model cache in MB")
	flagHttp := flag.String("http", "",
		"Serve interactive resolution on this address instead")
	flagBurnin := flag.Int("burnin", 50,
		"Burn-in sweeps per interactive query")
	flagQueryIter := flag.Int("query_iter", 150,
		"Total sweeps per interactive query")
	flagSeed := flag.Int64("seed", -1, "Seed of the sampling rng")
	flag.Parse()

	m := utils.LoadModelOrDie(*flagModel)
	if !m.Averaged() {
		log.Fatalf("Model %s carries no posterior averages; it was "+
			"trained with -samples=0 or interrupted", *flagModel)
	}
	lex := utils.LoadLexiconOrDie(*flagLexicon)
	sw := utils.LoadStopwordsOrDie(*flagStopwords)
	tk := corpus.NewTokenizer(*flagSegmenter)

	if len(*flagHttp) > 0 {
		serve(*flagHttp, m, lex, sw, tk, *flagCache,
			*flagBurnin, *flagQueryIter)
		return
	}

	var gaz gazetteer.Gazetteer
	if len(*flagGazetteerAddr) > 0 {
		remote, e := gazetteer.DialRemote(*flagGazetteerAddr)
		if e != nil {
			log.Fatalf("Cannot dial gazetteerd %s: %v", *flagGazetteerAddr, e)
		}
		defer remote.Close()
		gaz = remote
	} else {
		gaz = utils.LoadGazetteerOrDie(*flagGazetteer)
	}

	// The held-out corpus builds its own lexicon and grid; BuildIdMapping
	// aligns both onto the trained model's id spaces.
	tokens := utils.ScanCorpusOrDie(*flagCorpus, tk)
	evalLex := corpus.NewLexicon().Assign(tokens)
	ts := utils.LoadCorpusOrDie(*flagCorpus, tk, evalLex, sw)
	evalTable := region.BuildTable(ts, evalLex, gaz,
		m.Table.Grid.DegreesPerRegion)

	evalModel := gibbs.NewModel(ts, evalTable, m.Alpha, m.Beta)
	rng := rand.New(rand.NewSource(*flagSeed))
	evalModel.RandomInitialize(rng)

	mapping := gibbs.BuildIdMapping(lex, evalLex, m.Table.Grid,
		evalTable.Grid)
	es := gibbs.NewEvalSampler(m, evalModel, mapping)
	es.Train(anneal.NewEvalAnnealer(*flagIterations, *flagSamples, *flagLag),
		rng)
	es.Decode()

	eval := gibbs.NewEvaluator(evalModel, *flagCache)
	log.Printf("Held-out perplexity %f", eval.CorpusPerplexity())

	utils.SavePlacements(evalModel.NormalizeLocations(), evalLex,
		*flagPlacements)
}

func serve(addr string, m *gibbs.Model, lex *corpus.Lexicon,
	sw corpus.Stopwords, tk *corpus.Tokenizer, cache, burnin, iter int) {

	log.Printf("Smoothing model and creating resolver ...")
	resolver := gibbs.NewResolver(m, lex, sw, cache)
	log.Printf("Done")

	http.HandleFunc("/", makeSafe(newHandler(resolver, m, tk, burnin, iter)))
	log.Printf("Listening on %s", addr)
	if e := http.ListenAndServe(addr, nil); e != nil {
		log.Fatalf("ListenAndServe failed: %v", e)
	}
}

func makeSafe(h http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if e, ok := recover().(error); ok {
				http.Error(w, e.Error(), http.StatusInternalServerError)
				log.Printf("panic: %v", e)
			}
		}()
		h(w, r)
	}
}

type page struct {
	Resolutions []gibbs.Resolution
	Regions     []regionWeight
}

type regionWeight struct {
	Center gazetteer.Coordinate
	Weight float64
}

func newHandler(resolver *gibbs.Resolver, m *gibbs.Model,
	tk *corpus.Tokenizer, burnin, iter int) http.HandlerFunc {

	tmpl, e := template.New("resolve").Parse(kTemplate)
	if e != nil {
		log.Fatal("Cannot parse template resolve from kTemplate.")
	}

	return func(w http.ResponseWriter, r *http.Request) {
		var data page

		if q := r.FormValue("q"); len(q) > 0 {
			tokens := tk.Tokenize(q)
			log.Printf("query tokens: %v", tokens)

			resolutions, dist, e := resolver.Resolve(tokens, burnin, iter)
			if e != nil {
				http.Error(w, e.Error(), http.StatusInternalServerError)
				log.Printf("Failed resolving %q: %v", q, e)
				return
			}

			data.Resolutions = resolutions
			top := len(dist)
			if top > 10 {
				top = 10
			}
			for _, p := range dist[:top] {
				data.Regions = append(data.Regions, regionWeight{
					Center: m.Table.Grid.Region(p.Region).Center(),
					Weight: p.Prob,
				})
			}
		}

		if e := tmpl.Execute(w, data); e != nil {
			http.Error(w, e.Error(), http.StatusInternalServerError)
			log.Printf("Cannot execute HTML template.")
			return
		}
	}
}

const kTemplate = `<html>
  <head>
    <style type="text/css">
      td {font-family:Courier 10px;}
    </style>
  </head>
  <body style="background-color: #B0E2FF;">
    <form name="input" action="/" method="get" >
      <input type="textarea" name="q" size=80>
      <input type="submit" value="Resolve"></input>
    </form>
    <table>
      <thead style="border: 1px; background-color: #0198E1; color: yellow;">
        <tr>
          <td>Toponym</td>
          <td>Location</td>
          <td>Latitude</td>
          <td>Longitude</td>
        </tr>
      </thead>
      <tbody style="background-color: #BFEFFF; border: 1px;">
        {{range .Resolutions}}
        <tr>
          <td>{{.Token}}</td>
          {{if .Grounded}}
          <td>{{.Location.Name}}</td>
          <td>{{.Location.Coord.Lat}}</td>
          <td>{{.Location.Coord.Long}}</td>
          {{else}}
          <td colspan=3>(not in gazetteer)</td>
          {{end}}
        </tr>
      {{end}}
      </tbody>
    </table>
    <table>
      <thead style="border: 1px; background-color: #0198E1; color: yellow;">
        <tr>
          <td>P(region|input)</td>
          <td>Region center</td>
        </tr>
      </thead>
      <tbody style="background-color: #BFEFFF; border: 1px;">
        {{range .Regions}}
        <tr>
          <td>{{.Weight}}</td>
          <td>{{.Center.Lat}}, {{.Center.Long}}</td>
        </tr>
      {{end}}
      </tbody>
    </table>
  </body>
</html>
`
