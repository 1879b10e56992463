package hist

// Hist is a histogram over region ids.  The sampler keeps one
// histogram per word and per document, so implementations trade
// memory for access speed differently.
type Hist interface {
	At(region int) int64
	Inc(region, count int)
	Dec(region, count int)
	Len() int

	// ForEach access elements in the histogram one-by-one. For each
	// element <region, count>, it calls p(region, count).  If p returns
	// nil, it goes on to rest elements; otherwise, it stops the
	// traversal and returns the error from p.
	ForEach(p func(region int, count int64) error) error

	Clone() Hist
}
