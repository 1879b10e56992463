package utils

import (
	"bufio"
	"encoding/gob"
	"fmt"
	"log"
	"os"
	"path"

	cmprs "github.com/wangkuiyi/compress_io"

	"github.com/utcompling/textgrounder-sub011/core/corpus"
	"github.com/utcompling/textgrounder-sub011/core/gibbs"
	"github.com/utcompling/textgrounder-sub011/core/spherical"
)

func LoadSphericalModelOrDie(filename string) *spherical.SavedModel {
	log.Printf("Loading spherical model %s ...", filename)
	sm := new(spherical.SavedModel)

	f, e := os.Open(filename)
	r := cmprs.NewReader(f, e, path.Ext(filename))
	if r == nil {
		log.Fatalf("Cannot open model file %s: %v", filename, e)
	}
	defer r.Close()

	if e := gob.NewDecoder(r).Decode(sm); e != nil {
		log.Fatalf("Cannot decode spherical model: %v", e)
	}

	log.Printf("Done. %d active of %d region slots, %d documents.",
		sm.State.CurrentR, sm.State.ExpectedR, sm.State.NumDocuments)
	return sm
}

func SaveSphericalModel(sm *spherical.SavedModel, filename string) {
	if len(filename) == 0 {
		return
	}
	f, e := os.Create(filename)
	w := cmprs.NewWriter(f, e, path.Ext(filename))
	if w == nil {
		log.Printf("Cannot create file %s: %v", filename, e)
		return
	}
	defer func() {
		w.Close()
		log.Printf("Saved spherical model to %s.", filename)
	}()
	if e := gob.NewEncoder(w).Encode(sm); e != nil {
		log.Printf("Failed encoding spherical model: %v", e)
	}
}

// SavePlacements writes grid-model placements as TSV, one line per
// grounded toponym token: document id, token, location name, latitude
// and longitude.
func SavePlacements(ps []gibbs.Placement, lex *corpus.Lexicon,
	filename string) {

	if len(filename) == 0 {
		return
	}
	f, e := os.Create(filename)
	if e != nil {
		log.Printf("Cannot create placement file %s: %v", filename, e)
		return
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	defer w.Flush()
	for _, p := range ps {
		fmt.Fprintf(w, "%d\t%s\t%s\t%f\t%f\n", p.DocId, lex.Token(p.Word),
			p.Location.Name, p.Location.Coord.Lat, p.Location.Coord.Long)
	}
	log.Printf("Wrote %d placements to %s.", len(ps), filename)
}

// SaveSphericalPlacements is the spherical counterpart of
// SavePlacements.  The location is the sampled candidate itself, so
// unlike the grid model there is no in-cell population tie break.
func SaveSphericalPlacements(ps []spherical.Placement, lex *corpus.Lexicon,
	filename string) {

	if len(filename) == 0 {
		return
	}
	f, e := os.Create(filename)
	if e != nil {
		log.Printf("Cannot create placement file %s: %v", filename, e)
		return
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	defer w.Flush()
	for _, p := range ps {
		fmt.Fprintf(w, "%d\t%s\t%s\t%f\t%f\n", p.DocId, lex.Token(p.Word),
			p.Location.Name, p.Location.Coord.Lat, p.Location.Coord.Long)
	}
	log.Printf("Wrote %d placements to %s.", len(ps), filename)
}
