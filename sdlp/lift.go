package sdlp

import (
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/pkg/errors"
	"github.com/sp301415/ringo-sdlp/bigring"
	"github.com/sp301415/ringo-sdlp/matrix"
	"github.com/sp301415/ringo-sdlp/num"
)

// lifted is the integer witness of A * S + q * R1 + f * R2 = T,
// where A, S and T are centered lifts.
type lifted struct {
	// r1[i*k+c] has 2d-1 integer coefficients.
	r1 []bigring.BigPoly
	// r2[i*k+c] has d-1 coefficients, reduced modulo q.
	r2 []bigring.BigPoly
}

// centerAll returns the centered lifts of every entry of mat, padded to d coefficients.
func centerAll(r *bigring.Ring, mat *matrix.PolyMatrix, d int) []bigring.BigPoly {
	entries := mat.Entries()
	out := make([]bigring.BigPoly, len(entries))
	for i := range entries {
		out[i] = r.Center(entries[i].Pad(d))
	}
	return out
}

// checkBounds returns ErrEncoding if a centered coefficient of S exceeds its bound.
func checkBounds(vk *VerifierKnowledge, sCentered []bigring.BigPoly) error {
	abs := big.NewInt(0)
	B := big.NewInt(0)
	for j := 0; j < vk.m; j++ {
		for c := 0; c < vk.k; c++ {
			bs := vk.bounds.At(j, c)
			p := sCentered[j*vk.k+c]
			for i := 0; i < vk.d; i++ {
				abs.Abs(p.Coeffs[i])
				if abs.Cmp(B.SetUint64(bs[i])) > 0 {
					return errors.Wrapf(ErrEncoding, "S[%d][%d] coefficient %d out of bounds", j, c, i)
				}
			}
		}
	}
	return nil
}

// lift computes R1 and R2 for pk.
// Products are computed exactly as integers in the bn254 scalar field.
func lift(pk *ProverKnowledge) (lifted, error) {
	vk := pk.VerifierKnowledge
	n, m, k, d := vk.n, vk.m, vk.k, vk.d

	ringQ := bigring.NewRing(vk.q)
	aCentered := centerAll(ringQ, vk.a, d)
	sCentered := centerAll(ringQ, pk.s, d)
	tCentered := centerAll(ringQ, vk.t, d)
	fCentered := ringQ.Center(vk.f)

	if err := checkBounds(vk, sCentered); err != nil {
		return lifted{}, err
	}

	ringP := bigring.NewCyclicRing(max(num.NextPowerOfTwo(2*d-1), 2), fr.Modulus())
	reducerP := bigring.NewReducer(fr.Modulus())

	workSize := numWorkers(max(n*m+m*k, n*k))
	ringPPool := make([]*bigring.CyclicRing, workSize)
	ringQPool := make([]*bigring.Ring, workSize)
	reducerPPool := make([]*bigring.Reducer, workSize)
	for i := 0; i < workSize; i++ {
		ringPPool[i] = ringP.ShallowCopy()
		ringQPool[i] = ringQ.ShallowCopy()
		reducerPPool[i] = reducerP.ShallowCopy()
	}

	aNTT := make([]bigring.BigNTTPoly, n*m)
	sNTT := make([]bigring.BigNTTPoly, m*k)
	if err := runJobs(n*m+m*k, func(w, i int) error {
		if i < n*m {
			aNTT[i] = ringPPool[w].ToNTTPoly(aCentered[i])
		} else {
			sNTT[i-n*m] = ringPPool[w].ToNTTPoly(sCentered[i-n*m])
		}
		return nil
	}); err != nil {
		return lifted{}, err
	}

	res := lifted{
		r1: make([]bigring.BigPoly, n*k),
		r2: make([]bigring.BigPoly, n*k),
	}

	err := runJobs(n*k, func(w, idx int) error {
		i, c := idx/k, idx%k
		ringP, ringQ, reducerP := ringPPool[w], ringQPool[w], reducerPPool[w]

		acc := ringP.NewNTTPoly()
		for j := 0; j < m; j++ {
			ringP.MulAddNTTAssign(aNTT[i*m+j], sNTT[j*k+c], acc)
		}
		as := ringP.ToPoly(acc)

		// diff = T - A * S over the integers, with 2d - 1 coefficients.
		diff := bigring.NewBigPoly(2*d - 1)
		for t := 0; t < 2*d-1; t++ {
			reducerP.Center(as.Coeffs[t])
			diff.Coeffs[t].Sub(tCentered[idx].Coeff(t), as.Coeffs[t])
		}

		quo, rem := ringQ.DivRem(diff, vk.f)
		if !rem.IsZero() {
			return errors.Wrapf(ErrEncoding, "A * S != T at (%d, %d)", i, c)
		}
		res.r2[idx] = quo

		r2Centered := ringQ.Center(quo)
		prod := big.NewInt(0)
		for u := range fCentered.Coeffs {
			if fCentered.Coeffs[u].Sign() == 0 {
				continue
			}
			for t := range r2Centered.Coeffs {
				prod.Mul(fCentered.Coeffs[u], r2Centered.Coeffs[t])
				diff.Coeffs[u+t].Sub(diff.Coeffs[u+t], prod)
			}
		}

		rem1 := big.NewInt(0)
		for t := range diff.Coeffs {
			diff.Coeffs[t].QuoRem(diff.Coeffs[t], vk.q, rem1)
			if rem1.Sign() != 0 {
				return errors.Wrapf(ErrEncoding, "T - A * S - f * R2 not divisible by q at (%d, %d)", i, c)
			}
		}
		res.r1[idx] = diff

		return nil
	})
	if err != nil {
		return lifted{}, err
	}

	return res, nil
}
