// sphere trains a Dirichlet-process spherical model: regions are von
// Mises-Fisher clusters on the unit sphere instead of grid cells, and
// their number grows with the data.
// Usage:
/*
  $GOPATH/bin/sphere \
    -corpus=./corpus.gz -lexicon=./lexicon.gz -gazetteer=./gazetteer.tsv.gz \
    -variant=uniform -regions=50 \
    -iterations=10 -samples=10 -lag=5 \
    -model=./sphere.gz -placements=./placements.tsv
*/
package main

import (
	"flag"
	"log"
	"math"
	"math/rand"
	"os"
	"os/signal"

	"github.com/cheggaaa/pb/v3"

	"github.com/utcompling/textgrounder-sub011/core/corpus"
	"github.com/utcompling/textgrounder-sub011/core/gazetteer"
	"github.com/utcompling/textgrounder-sub011/core/spherical"
	"github.com/utcompling/textgrounder-sub011/core/utils"
)

func main() {
	flagCorpus := flag.String("corpus", "", "Tagged corpus file")
	flagLexicon := flag.String("lexicon", "", "Lexicon file")
	flagStopwords := flag.String("stopwords", "", "Stopword file, optional")
	flagGazetteer := flag.String("gazetteer", "", "Gazetteer TSV file")
	flagGazetteerAddr := flag.String("gazetteer_addr", "",
		"Address of a gazetteerd server, overrides -gazetteer")
	flagSegmenter := flag.String("segmenter", "",
		"sego dictionary for untagged CJK text")
	flagVariant := flag.String("variant", "uniform",
		"uniform | varying | topical")
	flagRegions := flag.Int("regions", 50, "Initial region capacity")
	flagCRPAlpha := flag.Float64("crp_alpha", 1.0,
		"Concentration of the restaurant process")
	flagAlpha := flag.Float64("alpha", 0.1, "Region-by-document prior")
	flagBeta := flag.Float64("beta", 0.01, "Word prior")
	flagKappa := flag.Float64("kappa", 100.0, "vMF concentration")
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
	flagModel := flag.String("model", "", "The model output")
	flagPlacements := flag.String("placements", "",
		"Per-token placement TSV output")
	flagSeed := flag.Int64("seed", -1, "Seed of the sampling rng")
	flag.Parse()

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

	cl := spherical.BuildCoordinateLexicon(ts, lex, gaz)
	m := spherical.NewModelState(ts, cl, *flagRegions, *flagCRPAlpha,
		*flagAlpha, *flagBeta, *flagKappa)
	s := spherical.NewSampler(m, parseVariant(*flagVariant))

	rng := rand.New(rand.NewSource(*flagSeed))
	s.RandomInitialize(rng)
	log.Printf("Initialized with %d active regions.", m.CurrentR)

	sigs := make(chan os.Signal, 1)
	exit := make(chan os.Signal, 1)
	signal.Notify(sigs, os.Interrupt)
	go func() {
		for sig := range sigs {
			log.Printf("Caught signal, will checkpoint and exit ...")
			exit <- sig
		}
	}()

	levels := int(math.Round(
		(*flagInitTemp-*flagTargetTemp) / *flagDecrement)) + 1
	total := levels**flagIterations + *flagSamples**flagLag
	bar := pb.StartNew(total)

	p := &progress{
		SimulatedAnnealer: spherical.NewSimulatedAnnealer(*flagInitTemp,
			*flagDecrement, *flagTargetTemp,
			*flagIterations, *flagSamples, *flagLag),
		bar:  bar,
		exit: exit,
	}
	s.Train(p, rng)
	bar.Finish()
	log.Printf("Training done: %d active of %d region slots.",
		m.CurrentR, m.ExpectedR)

	if s.Averaged() {
		s.Decode()
		utils.SaveSphericalPlacements(s.Placements(), lex, *flagPlacements)
	} else {
		log.Printf("No posterior samples collected; skipping decode.")
	}
	utils.SaveSphericalModel(s.Saved(), *flagModel)
}

func parseVariant(s string) spherical.Variant {
	switch s {
	case "uniform":
		return spherical.UniformKappa
	case "varying":
		return spherical.VaryingKappa
	case "topical":
		return spherical.Topical
	}
	log.Fatalf("Unknown variant %q: want uniform, varying or topical", s)
	return 0
}

// progress wraps the annealing schedule to tick the progress bar and
// stop on SIGINT between sweeps.
type progress struct {
	*spherical.SimulatedAnnealer
	bar   *pb.ProgressBar
	exit  chan os.Signal
	sweep int
}

func (p *progress) NextIter() bool {
	if p.sweep > 0 {
		p.bar.Increment()
		select {
		case <-p.exit:
			log.Printf("Early terminated by signal.")
			return false
		default:
		}
	}
	p.sweep++
	return p.SimulatedAnnealer.NextIter()
}
