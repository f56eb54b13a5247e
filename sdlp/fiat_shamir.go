package sdlp

import (
	"encoding/binary"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/sp301415/ringo-sdlp/bigring"
	"github.com/sp301415/ringo-sdlp/transcript"
	"github.com/zeebo/blake3"
)

// challenges are the verifier challenges of a proof.
type challenges struct {
	alpha fr.Element
	beta  []fr.Element
	gamma []fr.Element
	phi   []fr.Element
	psi   fr.Element
}

// digest returns the blake3 hash of the statement,
// including the bit widths of the witness.
func (vk *VerifierKnowledge) digest() []byte {
	hasher := blake3.New()

	var lenBuf [8]byte
	writeBytes := func(b []byte) {
		binary.LittleEndian.PutUint64(lenBuf[:], uint64(len(b)))
		hasher.Write(lenBuf[:])
		hasher.Write(b)
	}
	writeInt := func(x uint64) {
		binary.LittleEndian.PutUint64(lenBuf[:], x)
		hasher.Write(lenBuf[:])
	}
	writePoly := func(p bigring.BigPoly) {
		for i := 0; i < vk.d; i++ {
			writeBytes(p.Coeff(i).Bytes())
		}
	}

	writeBytes(vk.q.Bytes())
	writeInt(uint64(vk.f.Len()))
	for _, c := range vk.f.Coeffs {
		writeBytes(c.Bytes())
	}

	for _, p := range vk.a.Entries() {
		writePoly(p)
	}
	for _, p := range vk.t.Entries() {
		writePoly(p)
	}

	for _, w := range vk.widths {
		writeInt(uint64(w))
	}
	writeInt(uint64(vk.b1))
	writeInt(uint64(vk.b2))

	return hasher.Sum(nil)
}

// appendStatement binds the transcript to vk.
func appendStatement(ts *transcript.Transcript, vk *VerifierKnowledge) {
	ts.AppendMessage("dom-sep", []byte("sdlp v1"))
	ts.AppendU64("m", uint64(vk.m))
	ts.AppendU64("k", uint64(vk.k))
	ts.AppendU64("n", uint64(vk.n))
	ts.AppendU64("d", uint64(vk.d))
	ts.AppendMessage("statement", vk.digest())
}

// squeezeChallenges samples the challenges of the linear relation.
func squeezeChallenges(ts *transcript.Transcript, vk *VerifierKnowledge) challenges {
	return challenges{
		alpha: ts.ChallengeScalar("alpha"),
		beta:  ts.ChallengeScalars("beta", vk.k),
		gamma: ts.ChallengeScalars("gamma", vk.n),
		phi:   ts.ChallengeScalars("phi", vk.L()),
		psi:   ts.ChallengeScalar("psi"),
	}
}

// evaluateCentered returns p(alpha) in the scalar field,
// where p is lifted to the integers with centered coefficients.
func evaluateCentered(r *bigring.Ring, p bigring.BigPoly, alpha *fr.Element) fr.Element {
	pc := r.Center(p)

	var res, c fr.Element
	for i := pc.Len() - 1; i >= 0; i-- {
		res.Mul(&res, alpha)
		c.SetBigInt(pc.Coeffs[i])
		res.Add(&res, &c)
	}
	return res
}

// twosWeights returns the weights of a width-bit two's complement expansion,
// which is [1, 2, ..., 2^(width-2), -2^(width-1)].
func twosWeights(width int) []fr.Element {
	weights := make([]fr.Element, width)
	var two fr.Element
	two.SetUint64(2)
	for i := range weights {
		if i == 0 {
			weights[i].SetOne()
		} else {
			weights[i].Mul(&weights[i-1], &two)
		}
	}
	if width > 0 {
		weights[width-1].Neg(&weights[width-1])
	}
	return weights
}

// linearVector returns the vector v such that <v, s1> = gamma^T * T(alpha) * beta,
// where s1 is the binary witness of an honest prover.
// v is laid out in the same order as s1: S, then R1, then R2.
func linearVector(vk *VerifierKnowledge, ch challenges) []fr.Element {
	n, m, k, d := vk.n, vk.m, vk.k, vk.d
	r := bigring.NewRing(vk.q)

	alphaPow := make([]fr.Element, max(2*d-1, 1))
	alphaPow[0].SetOne()
	for i := 1; i < len(alphaPow); i++ {
		alphaPow[i].Mul(&alphaPow[i-1], &ch.alpha)
	}

	// aGamma[j] = sum_i gamma_i * A_ij(alpha).
	aGamma := make([]fr.Element, m)
	for i := 0; i < n; i++ {
		for j := 0; j < m; j++ {
			aij := evaluateCentered(r, vk.a.At(i, j), &ch.alpha)
			aij.Mul(&aij, &ch.gamma[i])
			aGamma[j].Add(&aGamma[j], &aij)
		}
	}

	weightsCache := make(map[int][]fr.Element)
	weights := func(w int) []fr.Element {
		if ws, ok := weightsCache[w]; ok {
			return ws
		}
		weightsCache[w] = twosWeights(w)
		return weightsCache[w]
	}

	v := make([]fr.Element, 0, vk.L())
	var coef, tmp fr.Element

	for j := 0; j < m; j++ {
		for c := 0; c < k; c++ {
			for t := 0; t < d; t++ {
				coef.Mul(&aGamma[j], &ch.beta[c])
				coef.Mul(&coef, &alphaPow[t])
				for _, w := range weights(vk.Width(j, c, t)) {
					tmp.Mul(&coef, &w)
					v = append(v, tmp)
				}
			}
		}
	}

	var q fr.Element
	q.SetBigInt(vk.q)
	b1Weights := weights(vk.b1)
	for i := 0; i < n; i++ {
		for c := 0; c < k; c++ {
			for t := 0; t < 2*d-1; t++ {
				coef.Mul(&q, &ch.gamma[i])
				coef.Mul(&coef, &ch.beta[c])
				coef.Mul(&coef, &alphaPow[t])
				for _, w := range b1Weights {
					tmp.Mul(&coef, &w)
					v = append(v, tmp)
				}
			}
		}
	}

	fAlpha := evaluateCentered(r, vk.f, &ch.alpha)
	b2Weights := weights(vk.b2)
	for i := 0; i < n; i++ {
		for c := 0; c < k; c++ {
			for t := 0; t < d-1; t++ {
				coef.Mul(&fAlpha, &ch.gamma[i])
				coef.Mul(&coef, &ch.beta[c])
				coef.Mul(&coef, &alphaPow[t])
				for _, w := range b2Weights {
					tmp.Mul(&coef, &w)
					v = append(v, tmp)
				}
			}
		}
	}

	return v
}

// innerProductClaim returns gamma^T * T(alpha) * beta + psi * sum(v) + (psi + psi^2) * sum(phi).
func innerProductClaim(vk *VerifierKnowledge, ch challenges, v []fr.Element) fr.Element {
	r := bigring.NewRing(vk.q)

	var x, tmp fr.Element
	for i := 0; i < vk.n; i++ {
		for c := 0; c < vk.k; c++ {
			tmp = evaluateCentered(r, vk.t.At(i, c), &ch.alpha)
			tmp.Mul(&tmp, &ch.gamma[i])
			tmp.Mul(&tmp, &ch.beta[c])
			x.Add(&x, &tmp)
		}
	}

	var vSum, phiSum fr.Element
	for i := range v {
		vSum.Add(&vSum, &v[i])
		phiSum.Add(&phiSum, &ch.phi[i])
	}

	tmp.Mul(&ch.psi, &vSum)
	x.Add(&x, &tmp)

	var psiPsi2 fr.Element
	psiPsi2.Square(&ch.psi)
	psiPsi2.Add(&psiPsi2, &ch.psi)
	tmp.Mul(&psiPsi2, &phiSum)
	x.Add(&x, &tmp)

	return x
}
