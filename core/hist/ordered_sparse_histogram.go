package hist

import (
	"fmt"
	"math"
	"sort"
)

// OrderedSparse represents a histogram using two arrays, Regions and
// Counts, where Counts is in descending order.  This property
// accelerates inverse-CDF sampling over document histograms, so it
// represents document region-histograms.
type OrderedSparse struct {
	Regions []int32
	Counts  []int32
}

func NewOrderedSparse() *OrderedSparse {
	return &OrderedSparse{nil, nil}
}

// In some cases, we know the maximum number of non-zeros in the
// histogram.  For example, when we use OrderedSparse as a document
// region histogram, the maximum number of non-zeros is min(numRegions,
// docLength).  In such cases, we can reserve capacity in order to
// reduce the cost of memory re-allocation.
func NewOrderedSparseAndReserve(cap int) *OrderedSparse {
	return &OrderedSparse{
		Regions: make([]int32, 0, cap),
		Counts:  make([]int32, 0, cap)}
}

// Len makes OrderedSparse compatible with sort.Interface.
func (o *OrderedSparse) Len() int {
	return len(o.Regions)
}

// Less allows package sort to sort elements in OrderedSparse
// descreasing order.
func (o *OrderedSparse) Less(i, j int) bool {
	return o.Counts[i] > o.Counts[j] ||
		(o.Counts[i] == o.Counts[j] &&
			o.Regions[i] < o.Regions[j])
}

// Swap makes OrderedSparse compatible with interface sort.Interface.
func (o *OrderedSparse) Swap(i, j int) {
	o.Regions[i], o.Regions[j] = o.Regions[j], o.Regions[i]
	o.Counts[i], o.Counts[j] = o.Counts[j], o.Counts[i]
}

// Assign clears and recreates an OrderedSparse variable, and makes it
// represent s.
func (o *OrderedSparse) Assign(s Hist) *OrderedSparse {
	o.Regions = make([]int32, 0, s.Len())
	o.Counts = make([]int32, 0, s.Len())
	s.ForEach(func(region int, count int64) error {
		o.Regions = append(o.Regions, int32(region))
		o.Counts = append(o.Counts, int32(count))
		return nil
	})
	sort.Sort(o)
	return o
}

// String prints an OrderedSparse variable the same format as a slice.
func (o OrderedSparse) String() string {
	out := "[ "
	for i, region := range o.Regions {
		out += fmt.Sprintf("%d:%d ", region, o.Counts[i])
	}
	out += "]"
	return out
}

// At returns the count of a region.
func (o OrderedSparse) At(region int) int64 {
	for i := range o.Regions {
		if int(o.Regions[i]) == region {
			return int64(o.Counts[i])
		}
	}
	return 0
}

// Inc increases the count of a region.  It reallocates
// OrderedSparse.Regions and OrderedSparse.Counts if necessary.
func (o *OrderedSparse) Inc(region, count int) {
	if region < 0 {
		panic(fmt.Sprintf("region (%d) < 0", region))
	}
	if count <= 0 {
		panic(fmt.Sprintf("count (%d) <= 0", count))
	}
	if count > int(math.MaxInt32) {
		panic(fmt.Sprintf("count (%d) larger than MaxInt32", count))
	}

	// Increase an existing non-zero or append one.
	r := int32(region)
	c := int32(count)
	var i int = 0
	for i < len(o.Regions) && o.Regions[i] != r {
		i++
	}
	if i < len(o.Regions) { // found
		if o.Counts[i] >= math.MaxInt32-c {
			panic(fmt.Sprintf("o[%d] = %d overflow", i, o.Counts[i]))
		}
		o.Counts[i] += c
	} else {
		o.Regions = append(o.Regions, r)
		o.Counts = append(o.Counts, c)
	}

	// Ensures that non-zeros are sorted in descending order.
	c = o.Counts[i]
	for i > 0 && c > o.Counts[i-1] {
		o.Regions[i], o.Counts[i] = o.Regions[i-1], o.Counts[i-1]
		i--
	}
	o.Regions[i] = r
	o.Counts[i] = c
}

// Dec decreases the count of a region.  It might reslice
// OrderedSparse.Regions and OrderedSparse.Counts to reduce their
// len(), but it does not reallocate memory.
func (o *OrderedSparse) Dec(region, count int) {
	if region < 0 {
		panic(fmt.Sprintf("region (%d) < 0", region))
	}
	if count <= 0 {
		panic(fmt.Sprintf("count (%d) <= 0", count))
	}

	r := int32(region)
	c := int32(count)
	var i int = 0
	for i < len(o.Regions) && o.Regions[i] != r {
		i++
	}
	if i >= len(o.Regions) {
		panic(fmt.Sprintf("region %d does not exist", r))
	}
	if o.Counts[i] < c {
		panic(fmt.Sprintf("existing count (%d) < delta count (%d)",
			o.Counts[i], c))
	}
	o.Counts[i] -= c

	c = o.Counts[i]
	for i+1 < len(o.Regions) && c < o.Counts[i+1] {
		o.Regions[i], o.Counts[i] = o.Regions[i+1], o.Counts[i+1]
		i++
	}
	o.Regions[i] = r
	o.Counts[i] = c

	if c == 0 {
		o.Regions = o.Regions[:i]
		o.Counts = o.Counts[:i]
	}
}

// ForEach goes over elements in the order of descending count.
func (o *OrderedSparse) ForEach(p func(region int, count int64) error) error {
	for i := 0; i < len(o.Regions); i++ {
		if e := p(int(o.Regions[i]), int64(o.Counts[i])); e != nil {
			return e
		}
	}
	return nil
}

// Clone creates a new OrderedSparse variable, makes it represent o.
func (o *OrderedSparse) Clone() Hist {
	n := NewOrderedSparse()
	n.Regions = make([]int32, len(o.Regions))
	n.Counts = make([]int32, len(o.Counts))
	copy(n.Regions, o.Regions)
	copy(n.Counts, o.Counts)
	return n
}
