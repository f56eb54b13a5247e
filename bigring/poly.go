package bigring

import "math/big"

// BigPoly is a polynomial with bigint coefficients.
// Coeffs[i] is the coefficient of X^i.
// Empty Coeffs represents the zero polynomial.
type BigPoly struct {
	Coeffs []*big.Int
}

// NewBigPoly creates a new BigPoly with N zero coefficients.
func NewBigPoly(N int) BigPoly {
	coeffs := make([]*big.Int, N)
	for i := 0; i < N; i++ {
		coeffs[i] = big.NewInt(0)
	}

	return BigPoly{
		Coeffs: coeffs,
	}
}

// NewBigPolyFromInt64 creates a new BigPoly from int64 coefficients.
func NewBigPolyFromInt64(c ...int64) BigPoly {
	p := NewBigPoly(len(c))
	for i := range c {
		p.Coeffs[i].SetInt64(c[i])
	}
	return p
}

// Len returns the number of stored coefficients of the BigPoly.
func (p BigPoly) Len() int {
	return len(p.Coeffs)
}

// Degree returns the degree of the BigPoly.
// Zero polynomial has degree -1.
func (p BigPoly) Degree() int {
	for i := len(p.Coeffs) - 1; i >= 0; i-- {
		if p.Coeffs[i].Sign() != 0 {
			return i
		}
	}
	return -1
}

// Coeff returns the i-th coefficient, which is zero when out of range.
// The returned value must not be modified.
func (p BigPoly) Coeff(i int) *big.Int {
	if i < len(p.Coeffs) {
		return p.Coeffs[i]
	}
	return zero
}

// IsZero returns true if every coefficient is zero.
func (p BigPoly) IsZero() bool {
	return p.Degree() < 0
}

// Copy returns a deep copy of the BigPoly.
func (p BigPoly) Copy() BigPoly {
	pOut := NewBigPoly(len(p.Coeffs))
	for i := range p.Coeffs {
		pOut.Coeffs[i].Set(p.Coeffs[i])
	}
	return pOut
}

// Trim returns p without trailing zero coefficients.
// Returned BigPoly shares coefficients with p.
func (p BigPoly) Trim() BigPoly {
	return BigPoly{Coeffs: p.Coeffs[:p.Degree()+1]}
}

// Pad returns a copy of p with exactly N coefficients.
// Panics if the degree of p is at least N.
func (p BigPoly) Pad(N int) BigPoly {
	if p.Degree() >= N {
		panic("degree too large to pad")
	}

	pOut := NewBigPoly(N)
	for i := 0; i < N && i < len(p.Coeffs); i++ {
		pOut.Coeffs[i].Set(p.Coeffs[i])
	}
	return pOut
}

// Equal returns true if p and q represent the same polynomial,
// ignoring trailing zeros.
func (p BigPoly) Equal(q BigPoly) bool {
	n := max(len(p.Coeffs), len(q.Coeffs))
	for i := 0; i < n; i++ {
		if p.Coeff(i).Cmp(q.Coeff(i)) != 0 {
			return false
		}
	}
	return true
}

// Clear clears the BigPoly.
func (p *BigPoly) Clear() {
	for i := 0; i < len(p.Coeffs); i++ {
		p.Coeffs[i].SetInt64(0)
	}
}

// BigNTTPoly is a NTT form of BigPoly.
type BigNTTPoly struct {
	Coeffs []*big.Int
}

// NewBigNTTPoly creates a new BigNTTPoly.
func NewBigNTTPoly(N int) BigNTTPoly {
	coeffs := make([]*big.Int, N)
	for i := 0; i < N; i++ {
		coeffs[i] = big.NewInt(0)
	}

	return BigNTTPoly{
		Coeffs: coeffs,
	}
}

// Clear clears the BigNTTPoly.
func (p *BigNTTPoly) Clear() {
	for i := 0; i < len(p.Coeffs); i++ {
		p.Coeffs[i].SetInt64(0)
	}
}

var zero = big.NewInt(0)
