package spherical

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gonum.org/v1/gonum/floats"
)

func TestNewModelStatePanicsOnBadPriors(t *testing.T) {
	ts, _, cl := CreateTestingStream(t, testingCorpus)
	assert.Panics(t, func() {
		NewModelState(ts, cl, testingExpectedR, 0, testingAlpha,
			testingBeta, testingKappa)
	})
	assert.Panics(t, func() {
		NewModelState(ts, cl, 0, testingCRPAlpha, testingAlpha,
			testingBeta, testingKappa)
	})
}

func TestAddTokenConservesCounts(t *testing.T) {
	m, _ := CreateTestingState(t)
	s := NewSampler(m, UniformKappa)
	s.RandomInitialize(rand.New(rand.NewSource(1)))

	n := m.Tokens.NumNonStopwords()
	assert.Equal(t, n, sumCounts(m.RegionCounts))
	assert.Equal(t, n, sumCounts(m.WordByRegionCounts))
	assert.Equal(t, n, sumCounts(m.RegionByDocumentCounts))

	toponyms := 0
	for i := 0; i < m.Tokens.Len(); i++ {
		if m.CoordinateVector[i] >= 0 {
			toponyms++
		}
	}
	assert.Equal(t, toponyms, sumCounts(m.ToponymRegionCounts))
	placed := 0
	for _, counts := range m.ToponymCoordinateCounts {
		placed += sumCounts(counts)
	}
	assert.Equal(t, toponyms, placed)
}

func TestRegionMeansTrackAssignments(t *testing.T) {
	m, _ := CreateTestingState(t)
	s := NewSampler(m, UniformKappa)
	s.RandomInitialize(rand.New(rand.NewSource(1)))

	want := make([][]float64, m.ExpectedR)
	for j := range want {
		want[j] = make([]float64, 3)
	}
	for i := 0; i < m.Tokens.Len(); i++ {
		c := m.CoordinateVector[i]
		if c < 0 {
			continue
		}
		w := m.Tokens.WordVector[i]
		floats.Add(want[m.RegionVector[i]], m.Coordinates.Cartesian[w][c])
	}
	for j := range want {
		assert.InDeltaSlice(t, want[j], m.RegionMeans[j], 1e-9,
			"mean of region %d drifted from its assignments", j)
	}
}

func TestEmptyRegionRecycling(t *testing.T) {
	m, lex := CreateTestingState(t)
	paris := lex.Id("paris")
	require.GreaterOrEqual(t, paris, int32(0))

	var i int
	for i = 0; i < m.Tokens.Len(); i++ {
		if m.Tokens.WordVector[i] == paris {
			break
		}
	}

	m.AddToken(i, 0, 0)
	assert.Equal(t, 1, m.CurrentR)
	assert.False(t, m.IsEmpty(0))

	m.RemoveToken(i)
	assert.True(t, m.IsEmpty(0))
	assert.Equal(t, 0, m.CurrentR, "trailing empty region not compacted")
	assert.Equal(t, 0, m.EmptyRegion())
	assert.Equal(t, []float64{0, 0, 0}, m.RegionMeans[0])
}

func TestEmptyRegionPrefersLowestSlot(t *testing.T) {
	m, _ := CreateTestingState(t)

	var toponyms []int
	for i := 0; i < m.Tokens.Len(); i++ {
		if m.Tokens.ToponymVector[i] == 1 && m.Tokens.StopwordVector[i] == 0 {
			toponyms = append(toponyms, i)
		}
	}
	require.GreaterOrEqual(t, len(toponyms), 3)

	m.AddToken(toponyms[0], 0, 0)
	m.AddToken(toponyms[1], 1, 0)
	m.AddToken(toponyms[2], 2, 0)
	require.Equal(t, 3, m.CurrentR)

	m.RemoveToken(toponyms[1])
	assert.True(t, m.IsEmpty(1))
	assert.Equal(t, 3, m.CurrentR, "interior empty must not compact")
	assert.Equal(t, 1, m.EmptyRegion())
}

func TestCapacityExpansionPreservesState(t *testing.T) {
	ts, _, cl := CreateTestingStream(t, testingCorpus)
	m := NewModelState(ts, cl, 1, testingCRPAlpha, testingAlpha,
		testingBeta, testingKappa)
	s := NewSampler(m, UniformKappa)
	s.RandomInitialize(rand.New(rand.NewSource(1)))

	assert.Greater(t, m.ExpectedR, 1, "capacity never expanded")
	assert.Less(t, m.CurrentR, m.ExpectedR)

	n := m.Tokens.NumNonStopwords()
	assert.Equal(t, n, sumCounts(m.RegionCounts))
	assert.Equal(t, n, sumCounts(m.WordByRegionCounts))
	assert.Equal(t, n, sumCounts(m.RegionByDocumentCounts))
	assert.Len(t, m.Kappas, m.ExpectedR)
	assert.Len(t, m.RegionMeans, m.ExpectedR)
	for j := m.CurrentR; j < m.ExpectedR; j++ {
		assert.Equal(t, int32(0), m.RegionCounts[j],
			"expansion must zero fresh slot %d", j)
	}
}

type recordingHook struct {
	oldR, newR int
	calls      int
}

func (h *recordingHook) Expand(oldExpectedR, newExpectedR int) {
	h.oldR, h.newR = oldExpectedR, newExpectedR
	h.calls++
}

func TestExpansionHookFires(t *testing.T) {
	ts, _, cl := CreateTestingStream(t, testingCorpus)
	m := NewModelState(ts, cl, 1, testingCRPAlpha, testingAlpha,
		testingBeta, testingKappa)

	hook := &recordingHook{}
	var i int
	for i = 0; i < ts.Len(); i++ {
		if ts.ToponymVector[i] == 1 && ts.StopwordVector[i] == 0 {
			break
		}
	}
	m.AddToken(i, 0, 0, hook)

	require.Equal(t, 1, hook.calls)
	assert.Equal(t, 1, hook.oldR)
	assert.Equal(t, 2, hook.newR)
	assert.Equal(t, 2, m.ExpectedR)
}

func TestRegionCenter(t *testing.T) {
	m, lex := CreateTestingState(t)
	versailles := lex.Id("versailles")
	require.GreaterOrEqual(t, versailles, int32(0))

	var i int
	for i = 0; i < m.Tokens.Len(); i++ {
		if m.Tokens.WordVector[i] == versailles {
			break
		}
	}
	m.AddToken(i, 0, 0)

	center := m.RegionCenter(0)
	assert.InDelta(t, 48.80, center[0], 0.01)
	assert.InDelta(t, 2.13, center[1], 0.01)

	m.RemoveToken(i)
	assert.Panics(t, func() { m.RegionCenter(0) })
}
