package bigring

import (
	"math/big"

	"github.com/sp301415/ringo-sdlp/num"
)

// CyclicRing is the cyclic ring Z_Q[X]/(X^N - 1), with NTT.
// Products of polynomials whose degrees sum to less than N
// are exact products in Z_Q[X].
type CyclicRing struct {
	reducer *Reducer
	degree  int

	root      *big.Int
	tw        []*big.Int
	twInv     []*big.Int
	degreeInv *big.Int

	buffer cyclicRingBuffer
}

type cyclicRingBuffer struct {
	u *big.Int
	v *big.Int
}

func newCyclicRingBuffer() cyclicRingBuffer {
	return cyclicRingBuffer{
		u: big.NewInt(0),
		v: big.NewInt(0),
	}
}

// NewCyclicRing creates a new CyclicRing with the given degree and modulus.
// N must be a power of two at least 2, dividing Q - 1.
func NewCyclicRing(N int, Q *big.Int) *CyclicRing {
	if N < 2 || N&(N-1) != 0 {
		panic("degree must be a power of two at least 2")
	}

	QSubOne := big.NewInt(0).Sub(Q, big.NewInt(1))
	if big.NewInt(0).Mod(QSubOne, big.NewInt(int64(N))).Sign() != 0 {
		panic("no Nth root of unity")
	}

	exp1 := big.NewInt(0).Div(QSubOne, big.NewInt(int64(N)))
	exp2 := big.NewInt(int64(N / 2))
	g := big.NewInt(0)
	gPow := big.NewInt(0)
	for x := big.NewInt(2); x.Cmp(Q) < 0; x.Add(x, big.NewInt(1)) {
		g.Exp(x, exp1, Q)
		gPow.Exp(g, exp2, Q)
		if gPow.Cmp(big.NewInt(1)) != 0 {
			break
		}
	}

	return NewCyclicRingFromRoot(N, Q, g)
}

// NewCyclicRingFromRoot creates a new CyclicRing from a given primitive Nth root of unity.
func NewCyclicRingFromRoot(N int, Q *big.Int, root *big.Int) *CyclicRing {
	rootPowNHalf := big.NewInt(0).Exp(root, big.NewInt(int64(N/2)), Q)
	rootPowN := big.NewInt(0).Exp(root, big.NewInt(int64(N)), Q)
	if rootPowNHalf.Cmp(big.NewInt(1)) == 0 || rootPowN.Cmp(big.NewInt(1)) != 0 {
		panic("root is not a primitive Nth root of unity")
	}

	tw := make([]*big.Int, N/2)
	twInv := make([]*big.Int, N/2)
	for i := 0; i < N/2; i++ {
		tw[i] = big.NewInt(0).Exp(root, big.NewInt(int64(i)), Q)
		twInv[i] = big.NewInt(0).Exp(root, big.NewInt(int64(N-i)), Q)
	}
	num.BitReverseInPlace(tw)
	num.BitReverseInPlace(twInv)

	degreeInv := big.NewInt(0).ModInverse(big.NewInt(int64(N)), Q)

	return &CyclicRing{
		reducer: NewReducer(Q),
		degree:  N,

		root:      root,
		tw:        tw,
		twInv:     twInv,
		degreeInv: degreeInv,

		buffer: newCyclicRingBuffer(),
	}
}

// ShallowCopy creates a shallow copy of CyclicRing that is thread-safe.
func (r *CyclicRing) ShallowCopy() *CyclicRing {
	return &CyclicRing{
		reducer: r.reducer.ShallowCopy(),
		degree:  r.degree,

		root:      r.root,
		tw:        r.tw,
		twInv:     r.twInv,
		degreeInv: r.degreeInv,

		buffer: newCyclicRingBuffer(),
	}
}

// N returns the degree of the CyclicRing.
func (r *CyclicRing) N() int {
	return r.degree
}

// Modulus returns the modulus of the CyclicRing.
func (r *CyclicRing) Modulus() *big.Int {
	return r.reducer.Q
}

// NthRoot returns the Nth primitive root of unity.
func (r *CyclicRing) NthRoot() *big.Int {
	return r.root
}

// NewNTTPoly creates a new BigNTTPoly of this ring.
func (r *CyclicRing) NewNTTPoly() BigNTTPoly {
	return NewBigNTTPoly(r.degree)
}

// ToNTTPoly computes NTT of p.
func (r *CyclicRing) ToNTTPoly(p BigPoly) BigNTTPoly {
	pOut := r.NewNTTPoly()
	r.ToNTTPolyAssign(p, pOut)
	return pOut
}

// ToNTTPolyAssign computes NTT of p and assigns it to pOut.
// p may have fewer than N coefficients, and may hold any integers.
func (r *CyclicRing) ToNTTPolyAssign(p BigPoly, pOut BigNTTPoly) {
	if p.Len() > r.degree {
		panic("polynomial longer than ring degree")
	}

	for i := 0; i < r.degree; i++ {
		pOut.Coeffs[i].Set(p.Coeff(i))
		r.reducer.Reduce(pOut.Coeffs[i])
	}
	r.NTTInPlace(pOut.Coeffs)
}

// ToPoly computes inverse NTT of p.
func (r *CyclicRing) ToPoly(p BigNTTPoly) BigPoly {
	pOut := NewBigPoly(r.degree)
	r.ToPolyAssign(p, pOut)
	return pOut
}

// ToPolyAssign computes inverse NTT of p and assigns it to pOut.
func (r *CyclicRing) ToPolyAssign(p BigNTTPoly, pOut BigPoly) {
	for i := 0; i < r.degree; i++ {
		pOut.Coeffs[i].Set(p.Coeffs[i])
	}
	r.InvNTTInPlace(pOut.Coeffs)
	r.NormalizeInPlace(pOut.Coeffs)
}

// MulAddNTTAssign assigns pOut += p0 * p1.
func (r *CyclicRing) MulAddNTTAssign(p0, p1, pOut BigNTTPoly) {
	for i := 0; i < r.degree; i++ {
		r.buffer.u.Mul(p0.Coeffs[i], p1.Coeffs[i])
		r.reducer.Reduce(r.buffer.u)
		pOut.Coeffs[i].Add(pOut.Coeffs[i], r.buffer.u)
		if pOut.Coeffs[i].Cmp(r.reducer.Q) >= 0 {
			pOut.Coeffs[i].Sub(pOut.Coeffs[i], r.reducer.Q)
		}
	}
}

// NTTInPlace computes the NTT of a bigint vector in-place.
func (r *CyclicRing) NTTInPlace(coeffs []*big.Int) {
	t := r.degree
	for m := 1; m < r.degree; m <<= 1 {
		t >>= 1
		for i := 0; i < m; i++ {
			j1 := 2 * i * t
			j2 := j1 + t
			for j := j1; j < j2; j++ {
				r.buffer.u.Set(coeffs[j])
				r.buffer.v.Mul(coeffs[j+t], r.tw[i])
				r.reducer.Reduce(r.buffer.v)

				coeffs[j].Add(r.buffer.u, r.buffer.v)
				if coeffs[j].Cmp(r.reducer.Q) >= 0 {
					coeffs[j].Sub(coeffs[j], r.reducer.Q)
				}

				coeffs[j+t].Sub(r.buffer.u, r.buffer.v)
				if coeffs[j+t].Sign() < 0 {
					coeffs[j+t].Add(coeffs[j+t], r.reducer.Q)
				}
			}
		}
	}

	num.BitReverseInPlace(coeffs)
}

// InvNTTInPlace computes the inverse NTT of a bigint vector in-place,
// without normalization.
func (r *CyclicRing) InvNTTInPlace(coeffs []*big.Int) {
	num.BitReverseInPlace(coeffs)

	t := 1
	for m := r.degree >> 1; m >= 1; m >>= 1 {
		for i := 0; i < m; i++ {
			j1 := 2 * i * t
			j2 := j1 + t
			for j := j1; j < j2; j++ {
				r.buffer.u.Set(coeffs[j])
				r.buffer.v.Set(coeffs[j+t])

				coeffs[j].Add(r.buffer.u, r.buffer.v)
				if coeffs[j].Cmp(r.reducer.Q) >= 0 {
					coeffs[j].Sub(coeffs[j], r.reducer.Q)
				}

				coeffs[j+t].Sub(r.buffer.u, r.buffer.v)
				coeffs[j+t].Add(coeffs[j+t], r.reducer.Q)
				coeffs[j+t].Mul(coeffs[j+t], r.twInv[i])
				r.reducer.Reduce(coeffs[j+t])
			}
		}
		t <<= 1
	}
}

// NormalizeInPlace multiplies a vector of bigints by N^-1 in-place.
func (r *CyclicRing) NormalizeInPlace(coeffs []*big.Int) {
	for i := 0; i < r.degree; i++ {
		coeffs[i].Mul(coeffs[i], r.degreeInv)
		r.reducer.Reduce(coeffs[i])
	}
}
