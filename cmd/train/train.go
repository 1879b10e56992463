// train is the single-process grid-region trainer.  It expects a
// corpus whose toponyms carry the /LOC tag and a lexicon built by
// preprocess.
// Usage:
/*
  $GOPATH/bin/train \
    -corpus=./corpus.gz -lexicon=./lexicon.gz -stopwords=./stopwords \
    -gazetteer=./gazetteer.tsv.gz -degrees=3 \
    -iterations=10 -samples=10 -lag=5 \
    -model=./model.gz -placements=./placements.tsv
*/
package main

import (
	"flag"
	"fmt"
	"log"
	"math"
	"math/rand"
	"os"
	"os/signal"

	"github.com/utcompling/textgrounder-sub011/core/anneal"
	"github.com/utcompling/textgrounder-sub011/core/corpus"
	"github.com/utcompling/textgrounder-sub011/core/gazetteer"
	"github.com/utcompling/textgrounder-sub011/core/gibbs"
	"github.com/utcompling/textgrounder-sub011/core/region"
	"github.com/utcompling/textgrounder-sub011/core/utils"
)

func main() {
	flagAddr := flag.String("addr", ":6060", "HTTP status page address")
	flagCorpus := flag.String("corpus", "", "Tagged corpus file")
	flagLexicon := flag.String("lexicon", "", "Lexicon file")
	flagStopwords := flag.String("stopwords", "", "Stopword file, optional")
	flagGazetteer := flag.String("gazetteer", "", "Gazetteer TSV file")
	flagGazetteerAddr := flag.String("gazetteer_addr", "",
		"Address of a gazetteerd server, overrides -gazetteer")
	flagSegmenter := flag.String("segmenter", "",
		"sego dictionary for untagged CJK text")
	flagDegrees := flag.Float64("degrees", 3.0, "Grid cell side in degrees")
	flagAlpha := flag.Float64("alpha", 0.1, "Region prior")
	flagBeta := flag.Float64("beta", 0.01, "Word prior")
	flagInitTemp := flag.Float64("initial_temperature", 1.0,
		"Starting annealing temperature")
	flagDecrement := flag.Float64("temperature_decrement", 0.1,
		"Temperature decrement per outer iteration")
	flagTargetTemp := flag.Float64("target_temperature", 1.0,
		"Final annealing temperature")
	flagIterations := flag.Int("iterations", 10,
		"Gibbs sweeps per temperature level")
	flagSamples := flag.Int("samples", 10, "Posterior samples to average")
	flagLag := flag.Int("lag", 5, "Sweeps between posterior samples")
	flagOptimStart := flag.Int("optim_start", -1,
		"Sweep to start optimizing the region prior, negative disables")
	flagShape := flag.Float64("shape", 0.0, "Gamma shape of the alpha prior")
	flagScale := flag.Float64("scale", 1e7, "Gamma scale of the alpha prior")
	flagOptimIter := flag.Int("optim_iter", 10,
		"Fixed point iterations per optimization")
	flagLogllPeriod := flag.Int("logll_period", 10,
		"Sweeps between log-likelihood evaluations")
	flagLogll := flag.String("logll", "", "Log-likelihood output file")
	flagModel := flag.String("model", "", "The model output")
	flagPlacements := flag.String("placements", "",
		"Per-token placement TSV output")
	flagSeed := flag.Int64("seed", -1, "Seed of the sampling rng")
	flag.Parse()

	is := utils.EnableExpvar(*flagAddr)
	log.Printf("Initialization start at %s", is.Start().StartTime)

	tk := corpus.NewTokenizer(*flagSegmenter)
	lex := utils.LoadLexiconOrDie(*flagLexicon)
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
	} else {
		gaz = utils.LoadGazetteerOrDie(*flagGazetteer)
	}

	table := region.BuildTable(ts, lex, gaz, *flagDegrees)
	log.Printf("Grid holds %d regions.", table.NumRegions())

	m := gibbs.NewModel(ts, table, *flagAlpha, *flagBeta)
	rng := rand.New(rand.NewSource(*flagSeed))
	m.RandomInitialize(rng)
	sampler := gibbs.NewSampler(m)

	log.Printf("Initialization done in %s", is.End(0.0).Duration)

	sigs := make(chan os.Signal, 1)
	exit := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt)
	go func() {
		for sig := range sigs {
			log.Printf("Caught signal, will checkpoint and exit ...")
			exit <- sig
		}
	}()

	var logll *os.File
	if len(*flagLogll) > 0 {
		f, e := os.Create(*flagLogll)
		if e != nil {
			log.Fatalf("Cannot create log-likelihood file %s: %v",
				*flagLogll, e)
		}
		defer f.Close()
		logll = f
	}

	optimizer := gibbs.NewOptimizer(m.NumRegions)
	w := &watchdog{
		SimulatedAnnealer: anneal.NewSimulatedAnnealer(*flagInitTemp,
			*flagDecrement, *flagTargetTemp,
			*flagIterations, *flagSamples, *flagLag),
		betweenSweeps: func(sweep int) bool {
			select {
			case <-exit:
				log.Printf("Early terminated by signal.")
				return false
			default:
			}

			if *flagOptimStart >= 0 && sweep > *flagOptimStart {
				for d := 0; d < m.NumDocuments; d++ {
					optimizer.CollectDocumentStatistics(m, d)
				}
				optimizer.OptimizeRegionPrior(m, *flagShape, *flagScale,
					*flagOptimIter)
				optimizer.Reset()
			}

			pp := 0.0
			if sweep%*flagLogllPeriod == 0 {
				logl, n := m.LogLikelihood()
				pp = math.Exp(-logl / float64(n))
				log.Printf("Sweep %04d perplexity %f", sweep, pp)
				if logll != nil {
					fmt.Fprintf(logll, "%f\t%d\n", logl, n)
				}
			}

			log.Printf("Sweep %04d done in %s", sweep, is.End(pp).Duration)
			is.Start()
			return true
		},
	}

	log.Printf("Training start at %s", is.Start().StartTime)
	sampler.Train(w, rng)
	log.Printf("Training done in %s", is.End(0.0).Duration)

	if m.Averaged() {
		sampler.Decode()
		utils.SavePlacements(m.NormalizeLocations(), lex, *flagPlacements)
	} else {
		log.Printf("No posterior samples collected; skipping decode.")
	}
	utils.SaveModel(m, *flagModel)
}

// watchdog wraps the annealing schedule so the trainer can log
// progress, optimize the region prior and stop on SIGINT between
// sweeps, without the sampler giving up control of its loop.  The
// callback runs after every completed sweep; returning false ends
// training early.
type watchdog struct {
	*anneal.SimulatedAnnealer
	betweenSweeps func(sweep int) bool
	sweep         int
}

func (w *watchdog) NextIter() bool {
	if w.sweep > 0 && !w.betweenSweeps(w.sweep) {
		return false
	}
	w.sweep++
	return w.SimulatedAnnealer.NextIter()
}
