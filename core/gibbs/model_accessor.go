package gibbs

import (
	"container/heap"
	"unsafe"
)

// ModelAccessor wraps a trained model with a cache of per-word region
// distributions computed from the posterior-mean tables.  The cache is
// bounded by cacheSizeMB and filled with the most frequent words, so
// evaluation and resolution of typical text stay off the slow path.
type ModelAccessor struct {
	*Model
	WordRegionDists [][]float64
	smoothingOnly   []float64
}

// NewModelAccessor builds the accessor and pre-computes region
// distributions for as many of the highest-frequency words as fit in
// cacheSizeMB.  A negative cacheSizeMB caches the whole vocabulary.
func NewModelAccessor(model *Model, cacheSizeMB int) *ModelAccessor {
	if !model.Averaged() {
		panic("accessing a model before posterior samples were collected")
	}
	words := len(model.WordByRegionCounts) / model.NumRegions
	a := &ModelAccessor{
		model,
		make([][]float64, words),
		nil}

	// The maximum number C of region distributions that can be cached.
	cached := words
	if cacheSizeMB >= 0 {
		var f64 float64
		cached = (cacheSizeMB*1024*1024 -
			words*int(unsafe.Sizeof(a.WordRegionDists[0]))) /
			(model.NumRegions * int(unsafe.Sizeof(f64)))
	}

	if cached > 0 {
		// Count the word frequencies and select the largest C words.
		h := newMinHeap(words)
		heap.Init(h)
		for word := 0; word < words; word++ {
			var freq int64
			wordoff := word * model.NumRegions
			for j := 0; j < model.NumRegions; j++ {
				freq += int64(model.WordByRegionCounts[wordoff+j])
			}

			if len(*h) < cached {
				heap.Push(h, wordFreq{word, freq})
			} else if freq > (*h)[0].freq {
				heap.Pop(h)
				heap.Push(h, wordFreq{word, freq})
			}
		}

		// Cache region distributions of the largest C words.
		for h.Len() > 0 {
			wf := heap.Pop(h).(wordFreq)
			dist := a.buildSmoothingOnly()
			a.cumulatePosterior(dist, int32(wf.word))
			a.WordRegionDists[wf.word] = dist
		}
	}
	return a
}

func (a *ModelAccessor) buildSmoothingOnly() []float64 {
	if len(a.smoothingOnly) <= 0 {
		dist := make([]float64, a.NumRegions)
		for j := 0; j < a.NumRegions; j++ {
			dist[j] = a.Beta / (a.AveragedRegionCounts[j] + a.BetaW)
		}
		a.smoothingOnly = dist
	}

	dist := make([]float64, a.NumRegions)
	copy(dist, a.smoothingOnly)
	return dist
}

func (a *ModelAccessor) cumulatePosterior(dist []float64, word int32) {
	wordoff := int(word) * a.NumRegions
	for j := 0; j < a.NumRegions; j++ {
		if c := a.AveragedWordByRegionCounts[wordoff+j]; c != 0 {
			dist[j] = (c + a.Beta) / (a.AveragedRegionCounts[j] + a.BetaW)
		}
	}
}

// WordRegionDist returns the smoothed posterior-mean distribution over
// regions of one word, cached or rebuilt on the fly.
func (a *ModelAccessor) WordRegionDist(word int32) []float64 {
	if dist := a.WordRegionDists[word]; dist != nil {
		return dist
	}

	dist := a.buildSmoothingOnly()
	a.cumulatePosterior(dist, word)
	return dist
}

type minHeap []wordFreq
type wordFreq struct {
	word int
	freq int64
}

func newMinHeap(size int) *minHeap {
	h := new(minHeap)
	*h = make(minHeap, 0, size)
	return h
}

func (h minHeap) Len() int            { return len(h) }
func (h minHeap) Less(i, j int) bool  { return h[i].freq < h[j].freq }
func (h minHeap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *minHeap) Push(x interface{}) { *h = append(*h, x.(wordFreq)) }
func (h *minHeap) Pop() interface{} {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[0 : n-1]
	return x
}
