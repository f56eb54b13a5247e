package csprng

import (
	"math"
	"slices"
)

// tailCut bounds the support of the table to tailCut * stdDev.
const tailCut = 9

// GaussianSampler samples from centered Discrete Gaussian Distribution
// truncated to [-bound, bound].
type GaussianSampler struct {
	baseSampler *UniformSampler

	stdDev float64
	bound  int64

	tableBound int64
	table      []uint64
}

// NewGaussianSampler creates a new GaussianSampler drawing randomness from baseSampler.
func NewGaussianSampler(baseSampler *UniformSampler, stdDev float64, bound int64) *GaussianSampler {
	if stdDev <= 0 || bound < 0 {
		panic("invalid gaussian parameters")
	}

	tableBound := min(bound, int64(math.Ceil(tailCut*stdDev)))

	return &GaussianSampler{
		baseSampler: baseSampler,

		stdDev: stdDev,
		bound:  bound,

		tableBound: tableBound,
		table:      computeCDT(stdDev, tableBound),
	}
}

// computeCDT computes the Cumulative Distribution Table of the truncated distribution.
// The last entry is always MaxUint64.
func computeCDT(sigma float64, bound int64) []uint64 {
	rho := make([]float64, 2*bound+1)
	total := 0.0
	for i, x := 0, -bound; x <= bound; i, x = i+1, x+1 {
		xf := float64(x)
		rho[i] = math.Exp(-xf * xf / (2 * sigma * sigma))
		total += rho[i]
	}

	table := make([]uint64, len(rho))
	cdf := 0.0
	for i := range rho {
		cdf += rho[i] / total
		if cdf >= 1 {
			table[i] = math.MaxUint64
		} else {
			table[i] = uint64(math.Round(cdf * math.Exp2(64)))
		}
	}
	table[len(table)-1] = math.MaxUint64

	return table
}

// StdDev returns the standard deviation of the sampler.
func (s *GaussianSampler) StdDev() float64 {
	return s.stdDev
}

// Bound returns the truncation bound of the sampler.
func (s *GaussianSampler) Bound() int64 {
	return s.bound
}

// Sample samples from the truncated Discrete Gaussian Distribution.
func (s *GaussianSampler) Sample() int64 {
	u := s.baseSampler.Sample()

	i, ok := slices.BinarySearch(s.table, u)
	if ok {
		i++
	}
	i = min(i, len(s.table)-1)

	return int64(i) - s.tableBound
}
