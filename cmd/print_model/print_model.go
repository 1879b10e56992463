// print_model shows a trained model in human readable format: one
// line per region with its center and top words by count.  It prints
// text to stdout by default and serves an HTML table when -html is
// set.  To make the printed model readable for a segmented CJK
// corpus, you can specify a translation file in addition to the
// lexicon file.
// Usage:
/*
  $GOPATH/bin/print_model -model=./model.gz -lexicon=./lexicon.gz
  $GOPATH/bin/print_model -model=./sphere.gz -lexicon=./lexicon.gz -sphere
*/
package main

import (
	"flag"
	"fmt"
	"html/template"
	"io"
	"log"
	"net/http"
	"os"

	"github.com/utcompling/textgrounder-sub011/core/corpus"
	"github.com/utcompling/textgrounder-sub011/core/hist"
	"github.com/utcompling/textgrounder-sub011/core/spherical"
	"github.com/utcompling/textgrounder-sub011/core/utils"
)

func main() {
	flagModel := flag.String("model", "", "The binary format model file")
	flagSphere := flag.Bool("sphere", false,
		"The model file holds a spherical model")
	flagLexicon := flag.String("lexicon", "", "The lexicon file")
	flagTrans := flag.String("trans", "", "The token translation file")
	flagMaxWords := flag.Int("len", 50, "Max # tokens shown per region")
	flagHtml := flag.String("html", "",
		"Serve HTML on this address instead of printing text")
	flag.Parse()

	lex := utils.LoadLexiconOrDie(*flagLexicon)
	if len(*flagTrans) > 0 {
		lex = utils.TranslatedLexicon(lex,
			utils.LoadTranslationOrDie(*flagTrans))
	}

	if *flagSphere {
		sm := utils.LoadSphericalModelOrDie(*flagModel)
		printSphericalRegions(os.Stdout, sm.State, lex, *flagMaxWords)
		return
	}

	m := utils.LoadModelOrDie(*flagModel)
	descs := utils.DescribeRegions(m, lex, *flagMaxWords)

	if len(*flagHtml) == 0 {
		printRegions(os.Stdout, descs)
		return
	}

	tmpl, e := template.New("regions").Parse(kRegionDescTemplate)
	if e != nil {
		log.Fatal("Cannot parse template regions from kRegionDescTemplate.")
	}
	http.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if e := tmpl.Execute(w, descs); e != nil {
			http.Error(w, e.Error(), http.StatusInternalServerError)
			log.Printf("Cannot execute HTML template: %v", e)
			return
		}
	})

	log.Printf("Listening on %s", *flagHtml)
	if e := http.ListenAndServe(*flagHtml, nil); e != nil {
		log.Fatalf("ListenAndServe failed: %v", e)
	}
}

func printRegions(w io.Writer, descs []*utils.RegionDesc) {
	for _, d := range descs {
		if d.Nt == 0 {
			continue
		}
		fmt.Fprintf(w, "Region %05d (%.2f, %.2f) Nt %d:",
			d.Id, d.Center.Lat, d.Center.Long, d.Nt)
		for _, tok := range d.Tokens {
			fmt.Fprintf(w, " %s (%d)", tok.Word, tok.Count)
		}
		fmt.Fprintln(w)
	}
}

func printSphericalRegions(w io.Writer, m *spherical.ModelState,
	lex *corpus.Lexicon, maxWords int) {

	words := len(m.WordByRegionCounts) / m.ExpectedR
	for j := 0; j < m.CurrentR; j++ {
		if m.IsEmpty(j) {
			continue
		}
		center := m.RegionCenter(j)
		fmt.Fprintf(w, "Region %05d (%.2f, %.2f) kappa %.1f Nt %d:",
			j, center[0], center[1], m.Kappas[j], m.RegionCounts[j])

		counts := hist.NewSparse()
		for v := 0; v < words; v++ {
			if c := m.WordByRegionCounts[v*m.ExpectedR+j]; c > 0 {
				counts.Inc(v, int(c))
			}
		}
		i := 0
		hist.NewOrderedSparse().Assign(counts).ForEach(
			func(v int, c int64) error {
				if i < maxWords {
					fmt.Fprintf(w, " %s (%d)", lex.Token(int32(v)), c)
				}
				i++
				return nil
			})
		fmt.Fprintln(w)
	}
}

const kRegionDescTemplate = `<html>
<body style="background-color: #CFEDFB">
  <table>
    <thead style="background-color: #046293; color: white;">
      <tr>
        <td>ID</td>
        <td>Center</td>
        <td>Bounds</td>
        <td>Frequency</td>
        <td colspan=100>Words</td>
      </tr>
    </thead>
    <tbody style="background-color: #046293; color: white;">
    {{range .}}
      <tr>
        <td>{{.Id}}</td>
        <td>{{printf "%.2f" .Center.Lat}}, {{printf "%.2f" .Center.Long}}</td>
        <td>[{{.MinLat}}, {{.MaxLat}}] x [{{.MinLong}}, {{.MaxLong}}]</td>
        <td>{{.Nt}}</td>
        {{range .Tokens}}
          <td style="background-color: #BFEFFF;">{{.Word}}</td>
          <td style="background-color: #00A0DC; color: white;">{{.Count}}</td>
        {{end}}
      </tr>
    {{end}}
    </tbody>
  </body>
</html>
`
