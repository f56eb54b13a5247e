// Package sdlp implements the short discrete log proof,
// a zero-knowledge proof of knowledge of S with short coefficients
// such that A * S = T over Z_q[X]/(f).
package sdlp

import (
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/pkg/errors"
	"github.com/sp301415/ringo-sdlp/bigring"
	"github.com/sp301415/ringo-sdlp/matrix"
	"github.com/sp301415/ringo-sdlp/num"
)

// Bounds is a list of inclusive magnitude bounds,
// one for each coefficient of a polynomial in S.
type Bounds []uint64

// UniformBounds returns a Bounds of length d, all set to B.
func UniformBounds(d int, B uint64) Bounds {
	bounds := make(Bounds, d)
	for i := range bounds {
		bounds[i] = B
	}
	return bounds
}

// RelationLength returns the length of the binary witness of a relation
// with A of size n x m, T of size n x k, degree d,
// and uniform coefficient width b for S.
// The witness holds m*k*d coefficients of S with b bits,
// n*k*(2d-1) coefficients of R1 with b1 bits,
// and n*k*(d-1) coefficients of R2 with b2 bits.
func RelationLength(m, n, k, d, b, b1, b2 uint64) (uint64, error) {
	if d == 0 {
		return 0, errors.Wrap(ErrConfiguration, "zero degree")
	}

	d2, okd := num.CheckedMul(2, d)
	l0, ok0 := num.CheckedMulAll(m, k, d, b)
	l1, ok1 := num.CheckedMulAll(n, k, d2-1, b1)
	l2, ok2 := num.CheckedMulAll(n, k, d-1, b2)
	if !okd || !ok0 || !ok1 || !ok2 {
		return 0, errors.Wrap(ErrConfiguration, "relation length overflows")
	}

	l, ok := num.CheckedAdd(l0, l1)
	if !ok {
		return 0, errors.Wrap(ErrConfiguration, "relation length overflows")
	}
	if l, ok = num.CheckedAdd(l, l2); !ok {
		return 0, errors.Wrap(ErrConfiguration, "relation length overflows")
	}
	return l, nil
}

// VerifierKnowledge is the public statement A * S = T mod (f, q),
// together with the bounds on the coefficients of S.
// It is read-only after creation, and can be reused across verifications.
type VerifierKnowledge struct {
	q *big.Int
	f bigring.BigPoly

	a      *matrix.PolyMatrix
	t      *matrix.PolyMatrix
	bounds *matrix.Matrix[Bounds]

	n int
	m int
	k int
	d int

	// widths[(j*k+c)*d+i] is the bit width of the i-th coefficient of S[j][c].
	widths []int
	bSum   uint64
	b1     int
	b2     int
	l      uint64

	fNorm *big.Int
}

// NewVerifierKnowledge creates a new VerifierKnowledge.
// A is n x m, T is n x k, bounds is m x k, and f is monic.
// Every coefficient must be reduced modulo q,
// and every entry of A and T must have degree less than deg(f).
func NewVerifierKnowledge(q *big.Int, f bigring.BigPoly, A, T *matrix.PolyMatrix, bounds *matrix.Matrix[Bounds]) (*VerifierKnowledge, error) {
	if q == nil || q.Cmp(big.NewInt(2)) < 0 {
		return nil, errors.Wrap(ErrConfiguration, "modulus must be at least 2")
	}

	r := bigring.NewRing(q)
	d := f.Degree()
	if d < 1 || !r.IsReduced(f) || f.Coeffs[d].Cmp(big.NewInt(1)) != 0 {
		return nil, errors.Wrap(ErrConfiguration, "f must be monic, reduced, and of degree at least 1")
	}

	n, m, k := A.Rows(), A.Cols(), T.Cols()
	if n == 0 || m == 0 || k == 0 {
		return nil, errors.Wrapf(ErrConfiguration, "empty relation: A is %d x %d, T is %d x %d", n, m, T.Rows(), k)
	}
	if T.Rows() != n {
		return nil, errors.Wrapf(ErrConfiguration, "A has %d rows, T has %d rows", n, T.Rows())
	}
	if bounds.Rows() != m || bounds.Cols() != k {
		return nil, errors.Wrapf(ErrConfiguration, "bounds is %d x %d, want %d x %d", bounds.Rows(), bounds.Cols(), m, k)
	}

	for _, mat := range []*matrix.PolyMatrix{A, T} {
		for _, p := range mat.Entries() {
			if p.Degree() >= d || !r.IsReduced(p) {
				return nil, errors.Wrap(ErrConfiguration, "polynomial not reduced modulo (f, q)")
			}
		}
	}

	vk := &VerifierKnowledge{
		q: q,
		f: f.Trim().Copy(),

		a:      A,
		t:      T,
		bounds: bounds,

		n: n,
		m: m,
		k: k,
		d: d,

		widths: make([]int, m*k*d),
	}

	// Column sums of bounds, for the bound on R1.
	colSum := make([]*big.Int, k)
	for c := range colSum {
		colSum[c] = big.NewInt(0)
	}
	B := big.NewInt(0)
	for j := 0; j < m; j++ {
		for c := 0; c < k; c++ {
			bs := bounds.At(j, c)
			if len(bs) != d {
				return nil, errors.Wrapf(ErrConfiguration, "bounds at (%d, %d) has length %d, want %d", j, c, len(bs), d)
			}
			for i := 0; i < d; i++ {
				w := num.SignedWidth(bs[i])
				vk.widths[(j*k+c)*d+i] = int(w)

				var ok bool
				if vk.bSum, ok = num.CheckedAdd(vk.bSum, w); !ok {
					return nil, errors.Wrap(ErrConfiguration, "relation length overflows")
				}
				colSum[c].Add(colSum[c], B.SetUint64(bs[i]))
			}
		}
	}

	maxColSum := big.NewInt(0)
	for c := range colSum {
		if colSum[c].Cmp(maxColSum) > 0 {
			maxColSum.Set(colSum[c])
		}
	}

	vk.fNorm = r.InfNorm(vk.f)

	// |R1| <= (maxColSum + d * |f| + 1) / 2.
	r1Bound := big.NewInt(0).Mul(vk.fNorm, big.NewInt(int64(d)))
	r1Bound.Add(r1Bound, maxColSum)
	r1Bound.Add(r1Bound, big.NewInt(1))
	vk.b1 = r1Bound.BitLen()
	vk.b2 = big.NewInt(0).Rsh(q, 1).BitLen() + 1

	// The integer identity must not wrap around in the scalar field.
	headroom := big.NewInt(0).Rsh(q, 1)
	headroom.Mul(headroom, r1Bound)
	if headroom.Cmp(big.NewInt(0).Rsh(fr.Modulus(), 1)) >= 0 {
		return nil, errors.Wrap(ErrConfiguration, "modulus too large for the scalar field")
	}

	l1, err := RelationLength(0, uint64(n), uint64(k), uint64(d), 0, uint64(vk.b1), uint64(vk.b2))
	if err != nil {
		return nil, err
	}
	l, ok := num.CheckedAdd(vk.bSum, l1)
	if !ok || l > uint64(maxInt) {
		return nil, errors.Wrap(ErrConfiguration, "relation length overflows")
	}
	vk.l = l

	return vk, nil
}

const maxInt = int(^uint(0) >> 1)

// Modulus returns the ciphertext modulus q.
func (vk *VerifierKnowledge) Modulus() *big.Int {
	return vk.q
}

// F returns the defining polynomial f.
func (vk *VerifierKnowledge) F() bigring.BigPoly {
	return vk.f
}

// A returns the public matrix A.
func (vk *VerifierKnowledge) A() *matrix.PolyMatrix {
	return vk.a
}

// T returns the public matrix T.
func (vk *VerifierKnowledge) T() *matrix.PolyMatrix {
	return vk.t
}

// Bounds returns the coefficient bounds of S.
func (vk *VerifierKnowledge) Bounds() *matrix.Matrix[Bounds] {
	return vk.bounds
}

// N returns the number of rows of A.
func (vk *VerifierKnowledge) N() int {
	return vk.n
}

// M returns the number of columns of A.
func (vk *VerifierKnowledge) M() int {
	return vk.m
}

// K returns the number of columns of T.
func (vk *VerifierKnowledge) K() int {
	return vk.k
}

// D returns the degree of f.
func (vk *VerifierKnowledge) D() int {
	return vk.d
}

// Width returns the bit width of the i-th coefficient of S[j][c].
func (vk *VerifierKnowledge) Width(j, c, i int) int {
	return vk.widths[(j*vk.k+c)*vk.d+i]
}

// BSum returns the total bit width of S.
func (vk *VerifierKnowledge) BSum() uint64 {
	return vk.bSum
}

// B1 returns the bit width of a coefficient of R1.
func (vk *VerifierKnowledge) B1() int {
	return vk.b1
}

// B2 returns the bit width of a coefficient of R2.
func (vk *VerifierKnowledge) B2() int {
	return vk.b2
}

// L returns the length of the binary witness,
// which is also the number of generators required.
func (vk *VerifierKnowledge) L() int {
	return int(vk.l)
}

// ProverKnowledge is the secret S together with its statement.
// A ProverKnowledge should be used for one proof only.
type ProverKnowledge struct {
	*VerifierKnowledge

	s *matrix.PolyMatrix
}

// NewProverKnowledge creates a new ProverKnowledge.
// S is m x k, with every coefficient reduced modulo q and degree less than deg(f).
// Whether S satisfies the relation and its bounds is checked when proving.
func NewProverKnowledge(vk *VerifierKnowledge, S *matrix.PolyMatrix) (*ProverKnowledge, error) {
	if S.Rows() != vk.m || S.Cols() != vk.k {
		return nil, errors.Wrapf(ErrConfiguration, "S is %d x %d, want %d x %d", S.Rows(), S.Cols(), vk.m, vk.k)
	}

	r := bigring.NewRing(vk.q)
	for _, p := range S.Entries() {
		if p.Degree() >= vk.d || !r.IsReduced(p) {
			return nil, errors.Wrap(ErrConfiguration, "polynomial not reduced modulo (f, q)")
		}
	}

	return &ProverKnowledge{
		VerifierKnowledge: vk,
		s:                 S,
	}, nil
}

// S returns the secret matrix S.
func (pk *ProverKnowledge) S() *matrix.PolyMatrix {
	return pk.s
}
