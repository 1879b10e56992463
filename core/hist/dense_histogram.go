package hist

import (
	"encoding/gob"
	"fmt"
	"math"
)

// Dense is a plain histogram represented by a count array.  It
// represents region-keyed totals, where most regions carry mass, such
// as the all-words-by-region counts of a region model.
type Dense []int64

func init() {
	gob.Register(Dense{})
}

func NewDense(dim int) Dense {
	return make(Dense, int(dim), int(dim))
}

func (d Dense) At(region int) int64 {
	return d[region]
}

func (d Dense) Inc(region, count int) {
	if count < 0 {
		panic(fmt.Sprintf("count (%d) is negative", count))
	}
	if d[region] >= math.MaxInt64-int64(count) {
		panic(fmt.Sprintf("d[%d] = %d overflow", region, d[region]))
	}
	d[region] += int64(count)
}

func (d Dense) Dec(region, count int) {
	if count < 0 {
		panic(fmt.Sprintf("count (%d) is negative", count))
	}
	if d[region] < int64(count) {
		panic(fmt.Sprintf("d[%d] = %d underflow by %d", region, d[region], count))
	}
	d[region] -= int64(count)
}

func (d Dense) Len() int {
	return len(d)
}

func (d Dense) ForEach(p func(region int, count int64) error) error {
	for i, v := range d {
		if e := p(i, int64(v)); e != nil {
			return e
		}
	}
	return nil
}

func (d Dense) Clone() Hist {
	n := NewDense(d.Len())
	copy(n, d)
	return n
}
