package sdlp

import (
	"math/big"

	"github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/pkg/errors"
	"github.com/sp301415/ringo-sdlp/csprng"
	"github.com/sp301415/ringo-sdlp/ipa"
	"github.com/sp301415/ringo-sdlp/transcript"
)

// LogProof is a proof of knowledge of a short S with A * S = T mod (f, q).
type LogProof struct {
	// W is the commitment to the binary witness.
	W bn254.G1Affine
	// InnerProductProof proves the linear relation on the witness.
	InnerProductProof ipa.Proof
}

// Create proves knowledge of pk.
// g and h must have exactly pk.VerifierKnowledge.L() elements.
func Create(ts *transcript.Transcript, pk *ProverKnowledge, g, h []bn254.G1Affine, u bn254.G1Affine) (*LogProof, error) {
	vk := pk.VerifierKnowledge
	l := vk.L()
	if len(g) != l || len(h) != l {
		return nil, errors.Wrapf(ErrDimensionMismatch, "want %d generators, got %d and %d", l, len(g), len(h))
	}

	lf, err := lift(pk)
	if err != nil {
		return nil, err
	}

	s1, err := expandWitness(pk, lf)
	if err != nil {
		return nil, err
	}

	sampler := csprng.NewUniformSampler()
	rho := sampler.SampleScalar()

	// w = sum s2[i] * g[i] + s1[i] * h[i] + rho * u, where s2 = 1 - s1.
	points := make([]bn254.G1Affine, 0, 2*l+1)
	points = append(points, g...)
	points = append(points, h...)
	points = append(points, u)
	scalars := make([]fr.Element, 2*l+1)
	for i := 0; i < l; i++ {
		bit := getBit(s1, i)
		scalars[i].SetUint64(1 - bit)
		scalars[l+i].SetUint64(bit)
	}
	scalars[2*l] = rho

	w, err := ipa.MultiExp(points, scalars)
	if err != nil {
		return nil, err
	}

	appendStatement(ts, vk)
	ts.AppendPoint("w", &w)
	ch := squeezeChallenges(ts, vk)

	gPrime := scaleGenerators(g, ch.phi)
	v := linearVector(vk, ch)

	v1 := make([]fr.Element, l)
	v2 := make([]fr.Element, l)
	var psiPhi, b1, b2 fr.Element
	for i := 0; i < l; i++ {
		bit := getBit(s1, i)
		b1.SetUint64(bit)
		b2.SetUint64(1 - bit)

		// v1 = v + psi * phi + phi * s2, v2 = psi + s1.
		psiPhi.Mul(&ch.psi, &ch.phi[i])
		b2.Mul(&b2, &ch.phi[i])
		v1[i].Add(&v[i], &psiPhi)
		v1[i].Add(&v1[i], &b2)
		v2[i].Add(&ch.psi, &b1)
	}

	t, err := foldedCommitment(w, gPrime, h, v, ch)
	if err != nil {
		return nil, err
	}

	ipk := ipa.ProverKnowledge{
		V1:  v1,
		V2:  v2,
		Rho: rho,
		T:   t,
	}
	ipp, err := ipa.NewProver().Prove(ts, ipk, gPrime, h, u)
	if err != nil {
		return nil, err
	}

	return &LogProof{
		W:                 w,
		InnerProductProof: ipp,
	}, nil
}

// Verify verifies the proof against vk.
// g and h must have exactly vk.L() elements.
func (p *LogProof) Verify(ts *transcript.Transcript, vk *VerifierKnowledge, g, h []bn254.G1Affine, u bn254.G1Affine) error {
	l := vk.L()
	if len(g) != l || len(h) != l {
		return errors.Wrapf(ErrDimensionMismatch, "want %d generators, got %d and %d", l, len(g), len(h))
	}

	appendStatement(ts, vk)
	ts.AppendPoint("w", &p.W)
	ch := squeezeChallenges(ts, vk)

	gPrime := scaleGenerators(g, ch.phi)
	v := linearVector(vk, ch)

	t, err := foldedCommitment(p.W, gPrime, h, v, ch)
	if err != nil {
		return err
	}

	ivk := ipa.VerifierKnowledge{
		T: t,
		X: innerProductClaim(vk, ch, v),
	}
	if err := ipa.Verify(ts, ivk, p.InnerProductProof, gPrime, h, u); err != nil {
		return errors.Wrap(ErrVerification, err.Error())
	}
	return nil
}

var oneScalar = func() fr.Element {
	var one fr.Element
	one.SetOne()
	return one
}()

// scaleGenerators returns g[i] * phi[i]^-1.
func scaleGenerators(g []bn254.G1Affine, phi []fr.Element) []bn254.G1Affine {
	phiInv := fr.BatchInvert(phi)
	gPrime := make([]bn254.G1Affine, len(g))
	ipa.ScaleAssign(g, phiInv, gPrime)
	return gPrime
}

// foldedCommitment returns w + sum (v[i] + psi * phi[i]) * gPrime[i] + psi * sum h[i],
// which commits to v1 under gPrime and v2 under h.
func foldedCommitment(w bn254.G1Affine, gPrime, h []bn254.G1Affine, v []fr.Element, ch challenges) (bn254.G1Affine, error) {
	l := len(gPrime)

	points := make([]bn254.G1Affine, 0, 2*l+1)
	scalars := make([]fr.Element, 0, 2*l+1)

	points = append(points, w)
	scalars = append(scalars, oneScalar)

	var s fr.Element
	for i := 0; i < l; i++ {
		s.Mul(&ch.psi, &ch.phi[i])
		s.Add(&s, &v[i])
		points = append(points, gPrime[i], h[i])
		scalars = append(scalars, s, ch.psi)
	}

	return ipa.MultiExp(points, scalars)
}

// expandWitness writes the two's complement expansions of S, R1 and R2 into L bits,
// packed into 64-bit words.
func expandWitness(pk *ProverKnowledge, lf lifted) ([]uint64, error) {
	vk := pk.VerifierKnowledge
	n, m, k, d := vk.n, vk.m, vk.k, vk.d

	s1 := make([]uint64, (vk.L()+63)/64)
	offset := uint(0)

	encQ := newTwosEncoder(vk.q)
	for j := 0; j < m; j++ {
		for c := 0; c < k; c++ {
			s := pk.s.At(j, c)
			for t := 0; t < d; t++ {
				w := vk.Width(j, c, t)
				if !encQ.encode(s.Coeff(t), w, s1, offset) {
					return nil, errors.Wrapf(ErrEncoding, "S[%d][%d] coefficient %d does not fit in %d bits", j, c, t, w)
				}
				offset += uint(w)
			}
		}
	}

	encP := newTwosEncoder(fr.Modulus())
	r1 := big.NewInt(0)
	for i := 0; i < n*k; i++ {
		for t := 0; t < 2*d-1; t++ {
			r1.Mod(lf.r1[i].Coeffs[t], encP.modulus)
			if !encP.encode(r1, vk.b1, s1, offset) {
				return nil, errors.Wrapf(ErrEncoding, "R1[%d][%d] coefficient %d does not fit in %d bits", i/k, i%k, t, vk.b1)
			}
			offset += uint(vk.b1)
		}
	}

	for i := 0; i < n*k; i++ {
		for t := 0; t < d-1; t++ {
			if !encQ.encode(lf.r2[i].Coeffs[t], vk.b2, s1, offset) {
				return nil, errors.Wrapf(ErrEncoding, "R2[%d][%d] coefficient %d does not fit in %d bits", i/k, i%k, t, vk.b2)
			}
			offset += uint(vk.b2)
		}
	}

	return s1, nil
}
