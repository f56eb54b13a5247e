package tfhe

import (
	"github.com/sp301415/ringo-sdlp/bigring"
)

// NewPoly returns a zero torus polynomial.
func (p GlweDef) NewPoly() []uint64 {
	return make([]uint64, p.PolynomialDegree)
}

// addAssign assigns pOut = p0 + p1.
func (p GlweDef) addAssign(p0, p1, pOut []uint64) {
	mask := p.mask()
	for i := range pOut {
		pOut[i] = (p0[i] + p1[i]) & mask
	}
}

// subAssign assigns pOut = p0 - p1.
func (p GlweDef) subAssign(p0, p1, pOut []uint64) {
	mask := p.mask()
	for i := range pOut {
		pOut[i] = (p0[i] - p1[i]) & mask
	}
}

// neg returns -p0.
func (p GlweDef) neg(p0 []uint64) []uint64 {
	mask := p.mask()
	pOut := make([]uint64, len(p0))
	for i := range p0 {
		pOut[i] = -p0[i] & mask
	}
	return pOut
}

// mulAssign assigns pOut = p0 * p1 mod X^N + 1.
// pOut must not alias p0 or p1.
func (p GlweDef) mulAssign(p0, p1, pOut []uint64) {
	N := p.PolynomialDegree
	mask := p.mask()

	for i := range pOut {
		pOut[i] = 0
	}

	for i := 0; i < N; i++ {
		if p0[i] == 0 {
			continue
		}
		for j := 0; j < N; j++ {
			c := p0[i] * p1[j]
			if i+j < N {
				pOut[i+j] += c
			} else {
				pOut[i+j-N] -= c
			}
		}
	}

	for i := range pOut {
		pOut[i] &= mask
	}
}

// toBigPoly returns p0 as a BigPoly with coefficients in [0, 2^TorusBits).
func (p GlweDef) toBigPoly(p0 []uint64) bigring.BigPoly {
	mask := p.mask()
	pOut := bigring.NewBigPoly(len(p0))
	for i := range p0 {
		pOut.Coeffs[i].SetUint64(p0[i] & mask)
	}
	return pOut
}
