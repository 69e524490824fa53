package summary

import (
	"math/rand/v2"

	"gonum.org/v1/gonum/stat/distuv"
)

// Common fixtures for summary tests

var outlierExample = Sample{10, 12, 14, 15, 18, 19, 20, 1000}

// generateHeights draws n values from N(mean, stdDev) with a fixed seed
func generateHeights(n int, mean, stdDev float64, seed uint64) Sample {
	dist := distuv.Normal{Mu: mean, Sigma: stdDev, Src: rand.NewPCG(seed, seed+1)}
	out := make(Sample, n)
	for i := range out {
		out[i] = dist.Rand()
	}
	return out
}
