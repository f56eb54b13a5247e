package bigring

import (
	"math/big"
)

// Reducer reduces bigints modulo Q.
// Inputs in [-2Q^2, 2Q^2) take the Barrett path,
// and everything else falls back to division.
type Reducer struct {
	Q *big.Int

	qHalf    *big.Int
	rBound   *big.Int
	qBitLen  uint
	barConst *big.Int

	quo  *big.Int
	quoQ *big.Int
}

// NewReducer creates a new Reducer for the given modulus q.
func NewReducer(q *big.Int) *Reducer {
	if q.Sign() <= 0 {
		panic("modulus must be positive")
	}

	qBitLen := uint(q.BitLen())
	exp := big.NewInt(0).Lsh(big.NewInt(1), (qBitLen<<1)+1)
	barConst := big.NewInt(0).Div(exp, q)

	rBound := big.NewInt(0).Mul(q, q)
	rBound.Lsh(rBound, 1)

	return &Reducer{
		Q: q,

		qHalf:    big.NewInt(0).Rsh(q, 1),
		rBound:   rBound,
		qBitLen:  qBitLen,
		barConst: barConst,

		quo:  big.NewInt(0),
		quoQ: big.NewInt(0),
	}
}

// ShallowCopy creates a copy of Reducer that is thread-safe.
func (r *Reducer) ShallowCopy() *Reducer {
	return &Reducer{
		Q: r.Q,

		qHalf:    r.qHalf,
		rBound:   r.rBound,
		qBitLen:  r.qBitLen,
		barConst: r.barConst,

		quo:  big.NewInt(0),
		quoQ: big.NewInt(0),
	}
}

// Reduce reduces x to [0, Q) in place.
func (r *Reducer) Reduce(x *big.Int) {
	if x.Sign() < 0 {
		x.Add(x, r.rBound)
	}

	if x.Sign() < 0 || x.Cmp(r.rBound) >= 0 {
		x.Mod(x, r.Q)
		return
	}

	r.quo.Mul(x, r.barConst)
	r.quo.Rsh(r.quo, (r.qBitLen<<1)+1)
	r.quoQ.Mul(r.quo, r.Q)
	x.Sub(x, r.quoQ)
	for x.Cmp(r.Q) >= 0 {
		x.Sub(x, r.Q)
	}
}

// Center maps x in [0, Q) to its representative in (-Q/2, Q/2] in place.
func (r *Reducer) Center(x *big.Int) {
	if x.Cmp(r.qHalf) > 0 {
		x.Sub(x, r.Q)
	}
}

// QHalf returns floor(Q/2).
func (r *Reducer) QHalf() *big.Int {
	return r.qHalf
}
