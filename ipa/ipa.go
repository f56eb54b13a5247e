// Package ipa implements a zero-knowledge inner product argument over bn254.
//
// Given a commitment T = <V1, G> + <V2, H> + Rho * U,
// the prover convinces the verifier that <V1, V2> = X
// with a proof of logarithmic size.
package ipa

import (
	"math/big"
	"runtime"
	"sync"

	"github.com/consensys/gnark-crypto/ecc"
	"github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/pkg/errors"
)

var (
	// ErrVerification is returned when a proof does not verify.
	ErrVerification = errors.New("ipa: proof verification failed")
	// ErrLength is returned when the vectors and generators disagree in length.
	ErrLength = errors.New("ipa: length mismatch")
)

// ProverKnowledge is the witness of the inner product argument.
type ProverKnowledge struct {
	V1  []fr.Element
	V2  []fr.Element
	Rho fr.Element

	// T is the commitment <V1, G> + <V2, H> + Rho * U.
	T bn254.G1Affine
}

// VerifierKnowledge is the statement of the inner product argument.
type VerifierKnowledge struct {
	// T is the commitment <V1, G> + <V2, H> + Rho * U.
	T bn254.G1Affine
	// X is the claimed inner product <V1, V2>.
	X fr.Element
}

// Proof is an inner product argument.
type Proof struct {
	TMinus1 []bn254.G1Affine
	T1      []bn254.G1Affine

	W      bn254.G1Affine
	WPrime bn254.G1Affine

	Z1  fr.Element
	Z2  fr.Element
	Tau fr.Element
}

// Rounds returns the number of folding rounds for vectors of length n.
func Rounds(n int) int {
	r := 0
	for m := 1; m < n; m <<= 1 {
		r++
	}
	return r
}

// InnerProduct returns <a, b>.
func InnerProduct(a, b []fr.Element) fr.Element {
	var res, tmp fr.Element
	for i := range a {
		tmp.Mul(&a[i], &b[i])
		res.Add(&res, &tmp)
	}
	return res
}

// MultiExp returns sum scalars[i] * points[i].
// Points at infinity are skipped. Scalars are never inspected, so secret scalars may be zero.
func MultiExp(points []bn254.G1Affine, scalars []fr.Element) (bn254.G1Affine, error) {
	if len(points) != len(scalars) {
		return bn254.G1Affine{}, errors.Wrapf(ErrLength, "%d points and %d scalars", len(points), len(scalars))
	}

	ps := make([]bn254.G1Affine, 0, len(points))
	ss := make([]fr.Element, 0, len(scalars))
	for i := range points {
		if points[i].IsInfinity() {
			continue
		}
		ps = append(ps, points[i])
		ss = append(ss, scalars[i])
	}

	var res bn254.G1Affine
	if len(ps) == 0 {
		return res, nil
	}
	if _, err := res.MultiExp(ps, ss, ecc.MultiExpConfig{}); err != nil {
		return bn254.G1Affine{}, errors.Wrap(err, "ipa: multi-exponentiation failed")
	}
	return res, nil
}

// ScaleAssign assigns pOut[i] = s[i] * p[i], in parallel.
func ScaleAssign(p []bn254.G1Affine, s []fr.Element, pOut []bn254.G1Affine) {
	jac := make([]bn254.G1Jac, len(p))
	parallelFor(len(p), func(start, end int) {
		sBig := big.NewInt(0)
		for i := start; i < end; i++ {
			s[i].BigInt(sBig)
			jac[i].FromAffine(&p[i])
			jac[i].ScalarMultiplication(&jac[i], sBig)
		}
	})
	copy(pOut, bn254.BatchJacobianToAffineG1(jac))
}

// foldPoints returns pTop[i] + c * pBot[i], in parallel.
func foldPoints(pTop, pBot []bn254.G1Affine, c *fr.Element) []bn254.G1Affine {
	cBig := c.BigInt(big.NewInt(0))

	jac := make([]bn254.G1Jac, len(pTop))
	parallelFor(len(pTop), func(start, end int) {
		for i := start; i < end; i++ {
			jac[i].FromAffine(&pBot[i])
			jac[i].ScalarMultiplication(&jac[i], cBig)
			jac[i].AddMixed(&pTop[i])
		}
	})
	return bn254.BatchJacobianToAffineG1(jac)
}

// foldScalars returns vTop[i] + c * vBot[i].
func foldScalars(vTop, vBot []fr.Element, c *fr.Element) []fr.Element {
	vOut := make([]fr.Element, len(vTop))
	for i := range vOut {
		vOut[i].Mul(&vBot[i], c)
		vOut[i].Add(&vOut[i], &vTop[i])
	}
	return vOut
}

// parallelFor splits [0, n) into contiguous chunks processed by runtime.NumCPU() workers.
func parallelFor(n int, f func(start, end int)) {
	if n == 0 {
		return
	}

	workSize := min(runtime.NumCPU(), n)
	chunk := (n + workSize - 1) / workSize

	var wg sync.WaitGroup
	for start := 0; start < n; start += chunk {
		wg.Add(1)
		go func(start, end int) {
			defer wg.Done()
			f(start, end)
		}(start, min(start+chunk, n))
	}
	wg.Wait()
}
