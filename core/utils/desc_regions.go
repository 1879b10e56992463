package utils

import (
	"html/template"
	"log"
	"runtime"

	"github.com/wangkuiyi/parallel"

	"github.com/utcompling/textgrounder-sub011/core/corpus"
	"github.com/utcompling/textgrounder-sub011/core/gazetteer"
	"github.com/utcompling/textgrounder-sub011/core/gibbs"
	"github.com/utcompling/textgrounder-sub011/core/hist"
)

// DescribeRegions summarizes a trained model as, per region, its
// bounds, center, and top words by count.
func DescribeRegions(m *gibbs.Model, lex *corpus.Lexicon,
	maxWordsPerRegion int) []*RegionDesc {

	log.Printf("Generating region descriptions ... ")
	descs := make([]*RegionDesc, m.NumRegions)
	words := len(m.WordByRegionCounts) / m.NumRegions

	parallel.ForN(0, m.NumRegions, 1, 2*runtime.NumCPU(), func(j int) {
		r := m.Table.Grid.Region(int32(j))
		descs[j] = &RegionDesc{
			Id:     j,
			Nt:     int64(m.RegionCounts[j]),
			Center: r.Center(),
			MinLat: r.MinLat, MaxLat: r.MaxLat,
			MinLong: r.MinLong, MaxLong: r.MaxLong,
			Tokens: make([]TokenDesc, 0, maxWordsPerRegion)}

		counts := hist.NewSparse()
		for w := 0; w < words; w++ {
			if c := m.WordByRegionCounts[w*m.NumRegions+j]; c > 0 {
				counts.Inc(w, int(c))
			}
		}
		if counts.Len() == 0 {
			return
		}
		ordered := hist.NewOrderedSparse().Assign(counts)
		i := 0
		ordered.ForEach(func(w int, count int64) error {
			if i < maxWordsPerRegion {
				descs[j].Tokens = append(descs[j].Tokens,
					TokenDesc{template.HTML(lex.Token(int32(w))), count})
			}
			i++
			return nil
		})
	})

	log.Printf("Done generating region descriptions.")
	return descs
}

type RegionDesc struct {
	Id      int
	Nt      int64
	Center  gazetteer.Coordinate
	MinLat  float64
	MaxLat  float64
	MinLong float64
	MaxLong float64
	Tokens  []TokenDesc
}
type TokenDesc struct {
	Word  template.HTML
	Count int64
}
