package hist

import (
	"encoding/gob"
	"fmt"
	"math"
)

// Sparse represents a histogram using a Go map.  Word-by-region
// histograms are sparse because a word type visits few regions.
type Sparse map[int32]int32

func init() {
	gob.Register(Sparse{})
}

func NewSparse() Sparse {
	return make(Sparse)
}

func (s Sparse) Clear() {
	for k := range s {
		delete(s, k)
	}
}

func (s Sparse) AssignOrdered(o *OrderedSparse) Sparse {
	s.Clear()
	for i := 0; i < o.Len(); i++ {
		s[o.Regions[i]] = o.Counts[i]
	}
	return s
}

func (s Sparse) Add(o Sparse) {
	for k, v := range o {
		s[k] += v
	}
}

func (s Sparse) Equal(o Sparse) bool {
	if len(s) != len(o) {
		return false
	}
	for k, v := range s {
		if v2, ok := o[k]; !ok || v2 != v {
			return false
		}
	}
	return true
}

func (s Sparse) Len() int {
	return len(s)
}

func (s Sparse) At(region int) int64 {
	return int64(s[int32(region)])
}

func (s Sparse) Inc(region, count int) {
	if count <= 0 {
		panic(fmt.Sprintf("Inc(region=%d, count=%d): count must > 0",
			region, count))
	}
	if count > int(math.MaxInt32) {
		panic(fmt.Sprintf("count (%d) larger than MaxInt32", count))
	}
	r := int32(region)
	if s[r] >= math.MaxInt32-int32(count) {
		panic(fmt.Sprintf("s[%d] = %d overflow", region, s[r]))
	}
	s[r] += int32(count)
}

func (s Sparse) Dec(region, count int) {
	if count <= 0 {
		panic(fmt.Sprintf("Dec(region=%d, count=%d): count must > 0",
			region, count))
	}
	r := int32(region)
	if s[r] < int32(count) {
		panic(fmt.Sprintf("s[%d] = %d underflow by %d", region, s[r], count))
	}
	s[r] -= int32(count)
	if s[r] == 0 {
		delete(s, r)
	}
}

func (s Sparse) ForEach(p func(region int, count int64) error) error {
	for i, v := range s {
		if e := p(int(i), int64(v)); e != nil {
			return e
		}
	}
	return nil
}

func (s Sparse) Clone() Hist {
	n := NewSparse()
	for k, v := range s {
		n[k] = v
	}
	return n
}
