// plot renders training curves as PNG images: the perplexity trace
// scraped from a trainer's log, and the log-likelihood file the
// trainer writes with -logll.
// Usage:
/*
  $GOPATH/bin/plot -log=./train.log -logll=./logll -outdir=./figures
*/
package main

import (
	"bufio"
	"flag"
	"log"
	"math"
	"os"
	"path"
	"regexp"
	"strconv"
	"strings"
	"sync"

	cmprs "github.com/wangkuiyi/compress_io"
	"gonum.org/v1/plot/plotter"

	"github.com/utcompling/textgrounder-sub011/core/utils"
)

func main() {
	flagLog := flag.String("log", "", "The trainer log file")
	flagLogll := flag.String("logll", "", "The log-likelihood file")
	flagOut := flag.String("outdir", "", "Output directory")
	flag.Parse()

	var wg sync.WaitGroup
	outFile := func(dir, inFile string) string {
		return path.Join(dir, path.Base(inFile)+".png")
	}
	if len(*flagLog) > 0 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			plotLog(*flagLog, outFile(*flagOut, *flagLog))
		}()
	}
	if len(*flagLogll) > 0 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			plotLogll(*flagLogll, outFile(*flagOut, *flagLogll))
		}()
	}
	wg.Wait()
}

var perplexityLine = regexp.MustCompile(
	`Sweep ([0-9]+) perplexity ([0-9.eE+-]+)$`)

func plotLog(logFile, imageFile string) {
	f, e := os.Open(logFile)
	if e != nil {
		log.Fatalf("Cannot open input file %s: %v", logFile, e)
	}
	defer f.Close()

	log.Printf("Loading log file: %s ...", logFile)
	pts := make(plotter.XYs, 0)
	prevSweep := int(^uint(0) >> 1)

	s := bufio.NewScanner(f)
	for s.Scan() {
		sweep, pp, ok := parsePerplexityLine(s.Text())
		if !ok {
			continue
		}
		// A restarted run truncates the trace back to its beginning.
		if sweep <= prevSweep {
			pts = make(plotter.XYs, 0)
		}
		pts = append(pts, plotter.XY{X: float64(sweep), Y: pp})
		prevSweep = sweep
	}
	log.Printf("Done loading log file: %d points.", len(pts))

	saveFigure(pts, "Sweep", "Perplexity", imageFile)
}

func parsePerplexityLine(line string) (int, float64, bool) {
	ms := perplexityLine.FindStringSubmatch(line)
	if len(ms) != 3 {
		return 0, 0, false
	}
	sweep, e := strconv.Atoi(ms[1])
	if e != nil {
		log.Fatalf("Parsing sweep seq in %s: %v", line, e)
	}
	pp, e := strconv.ParseFloat(ms[2], 64)
	if e != nil {
		log.Fatalf("Parsing perplexity in %s: %v", line, e)
	}
	return sweep, pp, true
}

func plotLogll(logllFile, imageFile string) {
	f, e := os.Open(logllFile)
	r := cmprs.NewReader(f, e, path.Ext(logllFile))
	if r == nil {
		log.Fatalf("Cannot read file %s: %v", logllFile, e)
	}
	defer r.Close()

	log.Printf("Loading log-likelihood file: %s ...", logllFile)
	pts := make(plotter.XYs, 0)
	s := bufio.NewScanner(r)
	for s.Scan() {
		pts = append(pts, plotter.XY{
			X: float64(len(pts)),
			Y: parseLogllLine(s.Text()),
		})
	}
	log.Printf("Done loading log-likelihood file: %d points.", len(pts))

	saveFigure(pts, "Evaluation", "Perplexity", imageFile)
}

// parseLogllLine turns one "log-likelihood <tab> tokens" line into the
// perplexity it implies.
func parseLogllLine(line string) float64 {
	fs := strings.Fields(line)
	if len(fs) != 2 {
		log.Fatalf("Log-likelihood line contains not 2 fields: %s", line)
	}
	logl, e := strconv.ParseFloat(fs[0], 64)
	if e != nil {
		log.Fatalf("Cannot parse log-likelihood in line %s: %v", line, e)
	}
	n, e := strconv.Atoi(fs[1])
	if e != nil {
		log.Fatalf("Cannot parse token count in line %s: %v", line, e)
	}
	return math.Exp(-logl / float64(n))
}

func saveFigure(pts plotter.XYs, xLabel, yLabel, imageFile string) {
	log.Printf("Plotting to %s ...", imageFile)
	f, e := os.Create(imageFile)
	if e != nil {
		log.Fatalf("Cannot create image file %s: %v", imageFile, e)
	}
	defer f.Close()

	if e := utils.PlotFigure(f, pts, xLabel, yLabel); e != nil {
		log.Fatalf("Cannot plot to %s: %v", imageFile, e)
	}
	log.Printf("Done plotting to %s.", imageFile)
}
