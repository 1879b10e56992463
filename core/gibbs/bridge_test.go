package gibbs

import (
	"math/rand"
	"testing"

	"github.com/utcompling/textgrounder-sub011/core/anneal"
)

const testingEvalCorpus = `the eiffel tower of Paris/LOC
rodeo weekend in Paris/LOC with cowboys from Dallas/LOC
`

func TestBuildIdMapping(t *testing.T) {
	_, trainLex, trainTable := CreateTestingCorpus(t, testingCorpus)
	_, evalLex, evalTable := CreateTestingCorpus(t, testingEvalCorpus)

	mapping := BuildIdMapping(trainLex, evalLex,
		trainTable.Grid, evalTable.Grid)

	// Shared words map to the training ids; "weekend" never occurs in
	// the training corpus.
	if got := mapping.WordMap[evalLex.Id("paris")]; got != trainLex.Id("paris") {
		t.Errorf("Expecting paris to map to %d, got %d",
			trainLex.Id("paris"), got)
	}
	if got := mapping.WordMap[evalLex.Id("weekend")]; got != -1 {
		t.Errorf("Expecting weekend to map to -1, got %d", got)
	}

	// Both eval regions exist on the training side too.
	for j, mapped := range mapping.RegionMap {
		if mapped < 0 {
			t.Errorf("Expecting eval region %d to map to a trained region", j)
		}
	}
}

func TestEvalSamplerRuns(t *testing.T) {
	train, trainLex := CreateTestingTrainedModel(t)
	evalTS, evalLex, evalTable := CreateTestingCorpus(t, testingEvalCorpus)

	eval := NewModel(evalTS, evalTable, testingAlpha, testingBeta)
	eval.RandomInitialize(rand.New(rand.NewSource(1)))

	mapping := BuildIdMapping(trainLex, evalLex,
		train.Table.Grid, evalTable.Grid)
	s := NewEvalSampler(train, eval, mapping)
	s.Train(anneal.NewEvalAnnealer(10, 2, 1), rand.New(rand.NewSource(1)))
	s.Decode()

	if !eval.Averaged() {
		t.Fatalf("Expecting posterior averages after evaluation sweeps")
	}

	n := eval.Tokens.NumNonStopwords()
	if got := sumCounts(eval.RegionCounts); got != n {
		t.Errorf("Expecting region counts to sum to %d, got %d", n, got)
	}
	for i := 0; i < evalTS.Len(); i++ {
		if evalTS.StopwordVector[i] == 1 || evalTS.ToponymVector[i] == 0 {
			continue
		}
		w := evalTS.WordVector[i]
		if !eval.Table.Reachable(w, int(eval.RegionVector[i])) {
			t.Errorf("Eval toponym token %d decoded to filtered region %d",
				i, eval.RegionVector[i])
		}
	}
}

func TestBuildIdMappingPanicsOnGridMismatch(t *testing.T) {
	_, trainLex, trainTable := CreateTestingCorpus(t, testingCorpus)
	_, evalLex, evalTable := CreateTestingCorpus(t, testingEvalCorpus)
	evalTable.Grid.DegreesPerRegion = testingDegrees / 2

	defer func() {
		if recover() == nil {
			t.Errorf("Expecting a panic on mismatched grid resolutions")
		}
	}()
	BuildIdMapping(trainLex, evalLex, trainTable.Grid, evalTable.Grid)
}
