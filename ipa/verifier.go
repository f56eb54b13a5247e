package ipa

import (
	"github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/pkg/errors"
	"github.com/sp301415/ringo-sdlp/num"
	"github.com/sp301415/ringo-sdlp/transcript"
)

// Verify verifies proof against vk, with respect to generators g, h, u.
// The transcript must be in the same state as the prover's when Prove was called.
func Verify(ts *transcript.Transcript, vk VerifierKnowledge, proof Proof, g, h []bn254.G1Affine, u bn254.G1Affine) error {
	n := len(g)
	if len(h) != n {
		return errors.Wrapf(ErrLength, "generators of length %d, %d", len(g), len(h))
	}

	rounds := Rounds(num.NextPowerOfTwo(n))
	if len(proof.TMinus1) != rounds || len(proof.T1) != rounds {
		return errors.Wrapf(ErrVerification, "expected %d rounds, got %d and %d", rounds, len(proof.TMinus1), len(proof.T1))
	}

	ts.AppendMessage("dom-sep", []byte("ipp v1"))
	ts.AppendPoint("t", &vk.T)
	ts.AppendScalar("x", &vk.X)
	a := ts.ChallengePoint("a")

	cs := make([]fr.Element, rounds)
	for r := 0; r < rounds; r++ {
		ts.AppendPoint("t-1", &proof.TMinus1[r])
		ts.AppendPoint("t1", &proof.T1[r])
		cs[r] = ts.ChallengeScalar("c")
		if cs[r].IsZero() {
			return errors.Wrap(ErrVerification, "zero challenge")
		}
	}
	csInv := fr.BatchInvert(cs)

	ts.AppendPoint("w", &proof.W)
	ts.AppendPoint("w'", &proof.WPrime)
	c := ts.ChallengeScalar("c")
	if c.IsZero() {
		return errors.Wrap(ErrVerification, "zero challenge")
	}
	var cInv fr.Element
	cInv.Inverse(&c)

	// After all rounds, g collapses to sum s[i] * g[i] where s[i] is the product of
	// round challenges whose split sent index i to the bottom half.
	// Round 0 splits on the most significant bit.
	s := make([]fr.Element, n)
	for i := 0; i < n; i++ {
		s[i].SetOne()
		for r := 0; r < rounds; r++ {
			if (i>>(rounds-1-r))&1 == 1 {
				s[i].Mul(&s[i], &cs[r])
			}
		}
	}
	sInv := fr.BatchInvert(s)

	// c * (T + X * a + sum (c_r^-1 T_-1,r + c_r T_1,r)) + W + c^-1 W'
	// - (z1 <s, g> + z2 <s^-1, h> + c^-1 z1 z2 a + tau u) == 0
	points := make([]bn254.G1Affine, 0, 2*n+2*rounds+5)
	scalars := make([]fr.Element, 0, 2*n+2*rounds+5)

	var tmp fr.Element

	points = append(points, vk.T)
	scalars = append(scalars, c)

	var aScalar fr.Element
	aScalar.Mul(&c, &vk.X)
	tmp.Mul(&proof.Z1, &proof.Z2)
	tmp.Mul(&tmp, &cInv)
	aScalar.Sub(&aScalar, &tmp)
	points = append(points, a)
	scalars = append(scalars, aScalar)

	for r := 0; r < rounds; r++ {
		points = append(points, proof.TMinus1[r], proof.T1[r])
		var sm1, s1 fr.Element
		sm1.Mul(&c, &csInv[r])
		s1.Mul(&c, &cs[r])
		scalars = append(scalars, sm1, s1)
	}

	var one fr.Element
	one.SetOne()
	points = append(points, proof.W, proof.WPrime)
	scalars = append(scalars, one, cInv)

	var negZ1, negZ2 fr.Element
	negZ1.Neg(&proof.Z1)
	negZ2.Neg(&proof.Z2)
	for i := 0; i < n; i++ {
		var gs, hs fr.Element
		gs.Mul(&negZ1, &s[i])
		hs.Mul(&negZ2, &sInv[i])
		points = append(points, g[i], h[i])
		scalars = append(scalars, gs, hs)
	}

	var negTau fr.Element
	negTau.Neg(&proof.Tau)
	points = append(points, u)
	scalars = append(scalars, negTau)

	res, err := MultiExp(points, scalars)
	if err != nil {
		return err
	}
	if !res.IsInfinity() {
		return ErrVerification
	}
	return nil
}
