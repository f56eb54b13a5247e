package ipa

import (
	"github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/pkg/errors"
	"github.com/sp301415/ringo-sdlp/csprng"
	"github.com/sp301415/ringo-sdlp/num"
	"github.com/sp301415/ringo-sdlp/transcript"
)

// Prover proves inner product relations.
// It is not safe for concurrent use.
type Prover struct {
	sampler *csprng.UniformSampler
}

// NewProver creates a new Prover with a fresh blinding sampler.
func NewProver() *Prover {
	return &Prover{
		sampler: csprng.NewUniformSampler(),
	}
}

// Prove proves that <pk.V1, pk.V2> is the inner product committed in pk.T,
// with respect to generators g, h, u.
// Vectors of length not a power of two are padded with zeros and points at infinity.
func (p *Prover) Prove(ts *transcript.Transcript, pk ProverKnowledge, g, h []bn254.G1Affine, u bn254.G1Affine) (Proof, error) {
	n := len(pk.V1)
	if len(pk.V2) != n || len(g) != n || len(h) != n {
		return Proof{}, errors.Wrapf(ErrLength, "vectors of length %d, %d and generators of length %d, %d", len(pk.V1), len(pk.V2), len(g), len(h))
	}

	nPadded := num.NextPowerOfTwo(n)
	v1 := make([]fr.Element, nPadded)
	v2 := make([]fr.Element, nPadded)
	gs := make([]bn254.G1Affine, nPadded)
	hs := make([]bn254.G1Affine, nPadded)
	copy(v1, pk.V1)
	copy(v2, pk.V2)
	copy(gs, g)
	copy(hs, h)

	x := InnerProduct(v1, v2)
	ts.AppendMessage("dom-sep", []byte("ipp v1"))
	ts.AppendPoint("t", &pk.T)
	ts.AppendScalar("x", &x)
	a := ts.ChallengePoint("a")

	rounds := Rounds(nPadded)
	proof := Proof{
		TMinus1: make([]bn254.G1Affine, rounds),
		T1:      make([]bn254.G1Affine, rounds),
	}

	rho := pk.Rho
	for r := 0; r < rounds; r++ {
		half := len(v1) / 2
		v1Top, v1Bot := v1[:half], v1[half:]
		v2Top, v2Bot := v2[:half], v2[half:]
		gTop, gBot := gs[:half], gs[half:]
		hTop, hBot := hs[:half], hs[half:]

		xMinus1 := InnerProduct(v1Bot, v2Top)
		x1 := InnerProduct(v1Top, v2Bot)
		sigmaMinus1 := p.sampler.SampleScalar()
		sigma1 := p.sampler.SampleScalar()

		tMinus1, err := commitFold(gTop, hBot, v1Bot, v2Top, a, u, xMinus1, sigmaMinus1)
		if err != nil {
			return Proof{}, err
		}
		t1, err := commitFold(gBot, hTop, v1Top, v2Bot, a, u, x1, sigma1)
		if err != nil {
			return Proof{}, err
		}
		proof.TMinus1[r] = tMinus1
		proof.T1[r] = t1

		ts.AppendPoint("t-1", &tMinus1)
		ts.AppendPoint("t1", &t1)
		c := ts.ChallengeScalar("c")
		if c.IsZero() {
			return Proof{}, errors.New("ipa: zero challenge")
		}
		var cInv fr.Element
		cInv.Inverse(&c)

		gs = foldPoints(gTop, gBot, &c)
		hs = foldPoints(hTop, hBot, &cInv)
		v1 = foldScalars(v1Top, v1Bot, &cInv)
		v2 = foldScalars(v2Top, v2Bot, &c)

		var tmp fr.Element
		tmp.Mul(&cInv, &sigmaMinus1)
		rho.Add(&rho, &tmp)
		tmp.Mul(&c, &sigma1)
		rho.Add(&rho, &tmp)
	}

	y1 := p.sampler.SampleScalar()
	y2 := p.sampler.SampleScalar()
	sigma := p.sampler.SampleScalar()
	sigmaPrime := p.sampler.SampleScalar()

	var cross, tmp fr.Element
	cross.Mul(&y1, &v2[0])
	tmp.Mul(&y2, &v1[0])
	cross.Add(&cross, &tmp)

	w, err := MultiExp([]bn254.G1Affine{gs[0], hs[0], a, u}, []fr.Element{y1, y2, cross, sigma})
	if err != nil {
		return Proof{}, err
	}

	var y1y2 fr.Element
	y1y2.Mul(&y1, &y2)
	wPrime, err := MultiExp([]bn254.G1Affine{a, u}, []fr.Element{y1y2, sigmaPrime})
	if err != nil {
		return Proof{}, err
	}
	proof.W = w
	proof.WPrime = wPrime

	ts.AppendPoint("w", &w)
	ts.AppendPoint("w'", &wPrime)
	c := ts.ChallengeScalar("c")
	if c.IsZero() {
		return Proof{}, errors.New("ipa: zero challenge")
	}
	var cInv fr.Element
	cInv.Inverse(&c)

	proof.Z1.Mul(&c, &v1[0])
	proof.Z1.Add(&proof.Z1, &y1)

	proof.Z2.Mul(&c, &v2[0])
	proof.Z2.Add(&proof.Z2, &y2)

	proof.Tau.Mul(&c, &rho)
	proof.Tau.Add(&proof.Tau, &sigma)
	tmp.Mul(&cInv, &sigmaPrime)
	proof.Tau.Add(&proof.Tau, &tmp)

	return proof, nil
}

// commitFold returns <v1, g> + <v2, h> + x * a + sigma * u.
func commitFold(g, h []bn254.G1Affine, v1, v2 []fr.Element, a, u bn254.G1Affine, x, sigma fr.Element) (bn254.G1Affine, error) {
	points := make([]bn254.G1Affine, 0, len(g)+len(h)+2)
	points = append(points, g...)
	points = append(points, h...)
	points = append(points, a, u)

	scalars := make([]fr.Element, 0, len(v1)+len(v2)+2)
	scalars = append(scalars, v1...)
	scalars = append(scalars, v2...)
	scalars = append(scalars, x, sigma)

	return MultiExp(points, scalars)
}
