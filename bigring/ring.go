package bigring

import (
	"math/big"
)

// Ring implements arithmetic over Z_Q[X].
// Results are never reduced by a defining polynomial;
// use [Ring.DivRem] to do so.
type Ring struct {
	reducer *Reducer

	buffer ringBuffer
}

type ringBuffer struct {
	mul *big.Int
	lc  *big.Int
}

func newRingBuffer() ringBuffer {
	return ringBuffer{
		mul: big.NewInt(0),
		lc:  big.NewInt(0),
	}
}

// NewRing creates a new Ring modulo Q.
func NewRing(Q *big.Int) *Ring {
	return &Ring{
		reducer: NewReducer(Q),
		buffer:  newRingBuffer(),
	}
}

// ShallowCopy creates a shallow copy of Ring that is thread-safe.
func (r *Ring) ShallowCopy() *Ring {
	return &Ring{
		reducer: r.reducer.ShallowCopy(),
		buffer:  newRingBuffer(),
	}
}

// Modulus returns the modulus of the Ring.
func (r *Ring) Modulus() *big.Int {
	return r.reducer.Q
}

// Reduce returns p with every coefficient reduced to [0, Q).
func (r *Ring) Reduce(p BigPoly) BigPoly {
	pOut := p.Copy()
	r.ReduceAssign(pOut)
	return pOut
}

// ReduceAssign reduces every coefficient of p to [0, Q) in place.
func (r *Ring) ReduceAssign(p BigPoly) {
	for i := range p.Coeffs {
		r.reducer.Reduce(p.Coeffs[i])
	}
}

// IsReduced returns true if every coefficient of p is in [0, Q).
func (r *Ring) IsReduced(p BigPoly) bool {
	for i := range p.Coeffs {
		if p.Coeffs[i].Sign() < 0 || p.Coeffs[i].Cmp(r.reducer.Q) >= 0 {
			return false
		}
	}
	return true
}

// Add returns pOut = p0 + p1.
func (r *Ring) Add(p0, p1 BigPoly) BigPoly {
	pOut := NewBigPoly(max(p0.Len(), p1.Len()))
	r.AddAssign(p0, p1, pOut)
	return pOut
}

// AddAssign assigns pOut = p0 + p1.
// pOut should have at least max(p0.Len(), p1.Len()) coefficients.
func (r *Ring) AddAssign(p0, p1, pOut BigPoly) {
	for i := 0; i < pOut.Len(); i++ {
		pOut.Coeffs[i].Add(p0.Coeff(i), p1.Coeff(i))
		if pOut.Coeffs[i].Cmp(r.reducer.Q) >= 0 {
			pOut.Coeffs[i].Sub(pOut.Coeffs[i], r.reducer.Q)
		}
	}
}

// Sub returns pOut = p0 - p1.
func (r *Ring) Sub(p0, p1 BigPoly) BigPoly {
	pOut := NewBigPoly(max(p0.Len(), p1.Len()))
	r.SubAssign(p0, p1, pOut)
	return pOut
}

// SubAssign assigns pOut = p0 - p1.
// pOut should have at least max(p0.Len(), p1.Len()) coefficients.
func (r *Ring) SubAssign(p0, p1, pOut BigPoly) {
	for i := 0; i < pOut.Len(); i++ {
		pOut.Coeffs[i].Sub(p0.Coeff(i), p1.Coeff(i))
		if pOut.Coeffs[i].Sign() < 0 {
			pOut.Coeffs[i].Add(pOut.Coeffs[i], r.reducer.Q)
		}
	}
}

// Neg returns pOut = -p.
func (r *Ring) Neg(p BigPoly) BigPoly {
	pOut := NewBigPoly(p.Len())
	for i := 0; i < p.Len(); i++ {
		if p.Coeffs[i].Sign() != 0 {
			pOut.Coeffs[i].Sub(r.reducer.Q, p.Coeffs[i])
		}
	}
	return pOut
}

// ScalarMul returns pOut = c * p.
func (r *Ring) ScalarMul(p BigPoly, c *big.Int) BigPoly {
	pOut := NewBigPoly(p.Len())
	for i := 0; i < p.Len(); i++ {
		pOut.Coeffs[i].Mul(p.Coeffs[i], c)
		r.reducer.Reduce(pOut.Coeffs[i])
	}
	return pOut
}

// Mul returns pOut = p0 * p1, without reduction by any polynomial.
func (r *Ring) Mul(p0, p1 BigPoly) BigPoly {
	if p0.Len() == 0 || p1.Len() == 0 {
		return BigPoly{}
	}
	pOut := NewBigPoly(p0.Len() + p1.Len() - 1)
	r.MulAddAssign(p0, p1, pOut)
	return pOut
}

// MulAddAssign assigns pOut += p0 * p1.
// pOut should have at least p0.Len() + p1.Len() - 1 coefficients.
func (r *Ring) MulAddAssign(p0, p1, pOut BigPoly) {
	for i := 0; i < p0.Len(); i++ {
		if p0.Coeffs[i].Sign() == 0 {
			continue
		}
		for j := 0; j < p1.Len(); j++ {
			r.buffer.mul.Mul(p0.Coeffs[i], p1.Coeffs[j])
			pOut.Coeffs[i+j].Add(pOut.Coeffs[i+j], r.buffer.mul)
			r.reducer.Reduce(pOut.Coeffs[i+j])
		}
	}
}

// DivRem returns the quotient and remainder of p divided by f.
// f must be monic. The remainder has exactly deg(f) coefficients,
// and the quotient has max(p.Len() - deg(f), 0) coefficients.
func (r *Ring) DivRem(p, f BigPoly) (quo, rem BigPoly) {
	deg := f.Degree()
	if deg < 0 || f.Coeffs[deg].Cmp(big.NewInt(1)) != 0 {
		panic("divisor must be monic")
	}

	rem = NewBigPoly(max(p.Len(), deg))
	for i := 0; i < p.Len(); i++ {
		rem.Coeffs[i].Set(p.Coeffs[i])
		r.reducer.Reduce(rem.Coeffs[i])
	}

	quo = NewBigPoly(max(p.Len()-deg, 0))
	for i := p.Len() - 1; i >= deg; i-- {
		r.buffer.lc.Set(rem.Coeffs[i])
		if r.buffer.lc.Sign() == 0 {
			continue
		}
		quo.Coeffs[i-deg].Set(r.buffer.lc)
		for j := 0; j <= deg; j++ {
			r.buffer.mul.Mul(r.buffer.lc, f.Coeffs[j])
			rem.Coeffs[i-deg+j].Sub(rem.Coeffs[i-deg+j], r.buffer.mul)
			r.reducer.Reduce(rem.Coeffs[i-deg+j])
		}
	}

	return quo, BigPoly{Coeffs: rem.Coeffs[:deg]}
}

// Evaluate returns p(x) mod Q.
func (r *Ring) Evaluate(p BigPoly, x *big.Int) *big.Int {
	y := big.NewInt(0)
	for i := p.Len() - 1; i >= 0; i-- {
		y.Mul(y, x)
		y.Add(y, p.Coeffs[i])
		r.reducer.Reduce(y)
	}
	return y
}

// Center returns p with coefficients mapped from [0, Q) to (-Q/2, Q/2].
func (r *Ring) Center(p BigPoly) BigPoly {
	pOut := p.Copy()
	for i := range pOut.Coeffs {
		r.reducer.Center(pOut.Coeffs[i])
	}
	return pOut
}

// InfNorm returns the infinity norm of p under the centered representation.
func (r *Ring) InfNorm(p BigPoly) *big.Int {
	norm := big.NewInt(0)
	c := big.NewInt(0)
	for i := range p.Coeffs {
		c.Set(p.Coeffs[i])
		r.reducer.Center(c)
		c.Abs(c)
		if c.Cmp(norm) > 0 {
			norm.Set(c)
		}
	}
	return norm
}
