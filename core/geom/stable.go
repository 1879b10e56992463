package geom

import "math"

// StableLogSum returns log(exp(a) + exp(b)) without leaving log space.
func StableLogSum(logprob1, logprob2 float64) float64 {
	if math.IsInf(logprob1, -1) && math.IsInf(logprob2, -1) {
		return logprob1 // both probabilities are 0, return log 0
	}
	if logprob1 > logprob2 {
		return logprob1 + math.Log(1+math.Exp(logprob2-logprob1))
	}
	return logprob2 + math.Log(1+math.Exp(logprob1-logprob2))
}

// StableSum adds probabilities through log space.
func StableSum(prob1, prob2 float64) float64 {
	return math.Exp(StableLogSum(math.Log(prob1), math.Log(prob2)))
}

// StableSumSlice adds vals[starti:endi] after factoring out the
// largest element, so that tiny probabilities do not vanish against a
// dominant one.
func StableSumSlice(vals []float64, starti, endi int) float64 {
	max := vals[starti]
	for i := starti; i < endi; i++ {
		if vals[i] > max {
			max = vals[i]
		}
	}
	if max == 0 {
		return 0
	}

	max = math.Log(max)
	p := 0.0
	for i := starti; i < endi; i++ {
		p += math.Exp(math.Log(vals[i]) - max)
	}
	return math.Exp(max + math.Log(p))
}

// StableProd multiplies probabilities through log space.
func StableProd(vals ...float64) float64 {
	sum := 0.0
	for _, v := range vals {
		sum += math.Log(v)
	}
	return math.Exp(sum)
}

// StableDiv divides probabilities through log space.
func StableDiv(val1, val2 float64) float64 {
	return math.Exp(math.Log(val1) - math.Log(val2))
}

// CumSum returns the running sums of vec.
func CumSum(vec []float64) []float64 {
	cs := make([]float64, len(vec))
	cs[0] = vec[0]
	for i := 1; i < len(vec); i++ {
		cs[i] = cs[i-1] + vec[i]
	}
	return cs
}

// InverseCumSum accumulates vec backwards, so cs[i] holds the sum of
// vec[i:].
func InverseCumSum(vec []int) []int {
	cs := make([]int, len(vec))
	cs[len(vec)-1] = vec[len(vec)-1]
	for i := len(vec) - 2; i >= 0; i-- {
		cs[i] = cs[i+1] + vec[i]
	}
	return cs
}
