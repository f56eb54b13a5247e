package bfv

import (
	"math/big"

	"github.com/sp301415/ringo-sdlp/bigring"
	"github.com/tuneinsight/lattigo/v6/ring"
)

// RNSReconstructor converts polynomials between RNS and bigint representations.
// Polynomials are in the coefficient domain.
type RNSReconstructor struct {
	params  Parameters
	reducer *bigring.Reducer

	rnsGadget []*big.Int

	buffer rnsReconstructorBuffer
}

type rnsReconstructorBuffer struct {
	mul   *big.Int
	coeff *big.Int
	qi    *big.Int
}

// NewRNSReconstructor creates a new RNSReconstructor.
func NewRNSReconstructor(params Parameters) *RNSReconstructor {
	ringQ := params.ringQ

	rnsGadget := make([]*big.Int, ringQ.ModuliChainLength())
	qFull := ringQ.Modulus()
	for i := 0; i <= ringQ.Level(); i++ {
		qi := big.NewInt(0).SetUint64(ringQ.SubRings[i].Modulus)
		qDiv := big.NewInt(0).Div(qFull, qi)
		qInv := big.NewInt(0).ModInverse(qDiv, qi)
		rnsGadget[i] = big.NewInt(0).Mul(qDiv, qInv)
	}

	return &RNSReconstructor{
		params:  params,
		reducer: bigring.NewReducer(qFull),

		rnsGadget: rnsGadget,

		buffer: rnsReconstructorBuffer{
			mul:   big.NewInt(0),
			coeff: big.NewInt(0),
			qi:    big.NewInt(0),
		},
	}
}

// ShallowCopy returns a shallow copy of this RNSReconstructor that is thread-safe.
func (r *RNSReconstructor) ShallowCopy() *RNSReconstructor {
	return &RNSReconstructor{
		params:  r.params,
		reducer: r.reducer.ShallowCopy(),

		rnsGadget: r.rnsGadget,

		buffer: rnsReconstructorBuffer{
			mul:   big.NewInt(0),
			coeff: big.NewInt(0),
			qi:    big.NewInt(0),
		},
	}
}

// Reconstruct returns p as a BigPoly with coefficients in [0, Q).
func (r *RNSReconstructor) Reconstruct(p ring.Poly) bigring.BigPoly {
	pOut := bigring.NewBigPoly(r.params.Degree())
	r.ReconstructAssign(p, pOut)
	return pOut
}

// ReconstructAssign reconstructs p to pOut with coefficients in [0, Q).
func (r *RNSReconstructor) ReconstructAssign(p ring.Poly, pOut bigring.BigPoly) {
	ringQ := r.params.ringQ
	for i := 0; i < ringQ.N(); i++ {
		isSmall := true
		cInt64 := toBalanced(p.Coeffs[0][i], ringQ.SubRings[0].Modulus)
		for j := 1; j <= ringQ.Level(); j++ {
			if cInt64 != toBalanced(p.Coeffs[j][i], ringQ.SubRings[j].Modulus) {
				isSmall = false
				break
			}
		}

		if isSmall {
			pOut.Coeffs[i].SetInt64(cInt64)
			r.reducer.Reduce(pOut.Coeffs[i])
			continue
		}

		pOut.Coeffs[i].SetInt64(0)
		for j := 0; j <= ringQ.Level(); j++ {
			r.buffer.mul.SetUint64(p.Coeffs[j][i])
			r.buffer.coeff.Mul(r.buffer.mul, r.rnsGadget[j])
			pOut.Coeffs[i].Add(pOut.Coeffs[i], r.buffer.coeff)
			r.reducer.Reduce(pOut.Coeffs[i])
		}
	}
}

// Decompose returns p in RNS representation.
func (r *RNSReconstructor) Decompose(p bigring.BigPoly) ring.Poly {
	pOut := r.params.ringQ.NewPoly()
	r.DecomposeAssign(p, pOut)
	return pOut
}

// DecomposeAssign writes p in RNS representation to pOut.
// p may hold negative coefficients, and must have at most N coefficients.
func (r *RNSReconstructor) DecomposeAssign(p bigring.BigPoly, pOut ring.Poly) {
	ringQ := r.params.ringQ
	for j := 0; j <= ringQ.Level(); j++ {
		r.buffer.qi.SetUint64(ringQ.SubRings[j].Modulus)
		for i := 0; i < ringQ.N(); i++ {
			r.buffer.coeff.Mod(p.Coeff(i), r.buffer.qi)
			pOut.Coeffs[j][i] = r.buffer.coeff.Uint64()
		}
	}
}

// toBalanced returns x in [-q/2, q/2).
func toBalanced(x, q uint64) int64 {
	if x >= q>>1 {
		return int64(x) - int64(q)
	}
	return int64(x)
}
