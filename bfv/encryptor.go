package bfv

import (
	"math/big"

	"github.com/pkg/errors"
	"github.com/sp301415/ringo-sdlp/bigring"
	"github.com/tuneinsight/lattigo/v6/ring"
	"github.com/tuneinsight/lattigo/v6/utils/sampling"
)

// SecretKey is a BFV secret key in the coefficient domain.
type SecretKey struct {
	S ring.Poly
}

// PublicKey is a BFV public key (p0, p1) = (-(a * s + e), a) in the coefficient domain.
type PublicKey struct {
	P0 ring.Poly
	P1 ring.Poly
}

// Ciphertext is a BFV ciphertext (c0, c1) in the coefficient domain.
type Ciphertext struct {
	C0 ring.Poly
	C1 ring.Poly
}

// Encryptor generates keys and encrypts messages,
// returning the witness of each encryption.
// It is not thread-safe.
type Encryptor struct {
	params Parameters
	rns    *RNSReconstructor

	secretSampler  ring.Sampler
	errorSampler   ring.Sampler
	uniformSampler ring.Sampler

	buffer encryptorBuffer
}

type encryptorBuffer struct {
	p0NTT ring.Poly
	p1NTT ring.Poly
}

// NewEncryptor creates a new Encryptor that samples from prng.
func NewEncryptor(params Parameters, prng sampling.PRNG) (*Encryptor, error) {
	ringQ := params.ringQ

	secretSampler, err := ring.NewSampler(prng, ringQ, params.SecretDistribution(), false)
	if err != nil {
		return nil, errors.Wrap(err, "secret sampler")
	}
	errorSampler, err := ring.NewSampler(prng, ringQ, params.ErrorDistribution(), false)
	if err != nil {
		return nil, errors.Wrap(err, "error sampler")
	}
	uniformSampler, err := ring.NewSampler(prng, ringQ, ring.Uniform{}, false)
	if err != nil {
		return nil, errors.Wrap(err, "uniform sampler")
	}

	return &Encryptor{
		params: params,
		rns:    NewRNSReconstructor(params),

		secretSampler:  secretSampler,
		errorSampler:   errorSampler,
		uniformSampler: uniformSampler,

		buffer: encryptorBuffer{
			p0NTT: ringQ.NewPoly(),
			p1NTT: ringQ.NewPoly(),
		},
	}, nil
}

// GenSecretKey samples a ternary secret key.
func (e *Encryptor) GenSecretKey() SecretKey {
	return SecretKey{S: e.secretSampler.ReadNew()}
}

// GenPublicKey returns a public key of sk.
func (e *Encryptor) GenPublicKey(sk SecretKey) PublicKey {
	ringQ := e.params.ringQ

	a := e.uniformSampler.ReadNew()
	p0 := ringQ.NewPoly()
	e.mulAssign(a, sk.S, p0)
	ringQ.Add(p0, e.errorSampler.ReadNew(), p0)
	ringQ.Neg(p0, p0)

	return PublicKey{P0: p0, P1: a}
}

// EncryptPublic encrypts m under pk.
// It returns c0 = Delta * m + r + u * p0 + e0 and c1 = u * p1 + e1,
// together with the witness (u, e0, e1).
func (e *Encryptor) EncryptPublic(m []uint64, pk PublicKey) (Ciphertext, Witness, error) {
	scaled, err := e.scaledPlaintext(m)
	if err != nil {
		return Ciphertext{}, Witness{}, err
	}

	ringQ := e.params.ringQ

	u := e.secretSampler.ReadNew()
	e0 := e.errorSampler.ReadNew()
	e1 := e.errorSampler.ReadNew()

	c0 := ringQ.NewPoly()
	e.mulAssign(u, pk.P0, c0)
	ringQ.Add(c0, scaled, c0)
	ringQ.Add(c0, e0, c0)

	c1 := ringQ.NewPoly()
	e.mulAssign(u, pk.P1, c1)
	ringQ.Add(c1, e1, c1)

	return Ciphertext{C0: c0, C1: c1}, NewPublicKeyEncryptionWitness(u, e0, e1), nil
}

// EncryptPrivate encrypts m under sk.
// It returns c0 = Delta * m + r - (c1 * s + e) with uniform c1, together with the witness (s, e).
func (e *Encryptor) EncryptPrivate(m []uint64, sk SecretKey) (Ciphertext, Witness, error) {
	scaled, err := e.scaledPlaintext(m)
	if err != nil {
		return Ciphertext{}, Witness{}, err
	}

	ringQ := e.params.ringQ

	c1 := e.uniformSampler.ReadNew()
	errPoly := e.errorSampler.ReadNew()

	c0 := ringQ.NewPoly()
	e.mulAssign(c1, sk.S, c0)
	ringQ.Add(c0, errPoly, c0)
	ringQ.Sub(scaled, c0, c0)

	return Ciphertext{C0: c0, C1: c1}, NewPrivateKeyEncryptionWitness(sk, errPoly), nil
}

// Decrypt returns round(t * (c0 + c1 * s) / Q) mod t.
func (e *Encryptor) Decrypt(ct Ciphertext, sk SecretKey) []uint64 {
	ringQ := e.params.ringQ

	v := ringQ.NewPoly()
	e.mulAssign(ct.C1, sk.S, v)
	ringQ.Add(v, ct.C0, v)
	vBig := e.rns.Reconstruct(v)

	Q := e.params.CiphertextModulus()
	t := e.params.plainModulus
	qHalf := big.NewInt(0).Rsh(Q, 1)

	m := make([]uint64, ringQ.N())
	for i := range m {
		c := vBig.Coeffs[i]
		c.Mul(c, t)
		c.Add(c, qHalf)
		c.Quo(c, Q)
		c.Mod(c, t)
		m[i] = c.Uint64()
	}
	return m
}

// mulAssign assigns pOut = p0 * p1.
func (e *Encryptor) mulAssign(p0, p1, pOut ring.Poly) {
	ringQ := e.params.ringQ

	ringQ.NTT(p0, e.buffer.p0NTT)
	ringQ.NTT(p1, e.buffer.p1NTT)
	ringQ.MulCoeffsBarrett(e.buffer.p0NTT, e.buffer.p1NTT, e.buffer.p0NTT)
	ringQ.INTT(e.buffer.p0NTT, pOut)
}

// scaledPlaintext returns round(Q * m / t) in RNS representation.
func (e *Encryptor) scaledPlaintext(m []uint64) (ring.Poly, error) {
	mBig, err := plaintextToBigPoly(e.params, m)
	if err != nil {
		return ring.Poly{}, err
	}

	Q := e.params.CiphertextModulus()
	t := e.params.plainModulus
	tHalf := big.NewInt(0).Rsh(t, 1)
	for i := range mBig.Coeffs {
		mBig.Coeffs[i].Mul(mBig.Coeffs[i], Q)
		mBig.Coeffs[i].Add(mBig.Coeffs[i], tHalf)
		mBig.Coeffs[i].Quo(mBig.Coeffs[i], t)
	}
	return e.rns.Decompose(mBig), nil
}

// plaintextToBigPoly returns m as a BigPoly with N coefficients.
func plaintextToBigPoly(params Parameters, m []uint64) (bigring.BigPoly, error) {
	if len(m) > params.Degree() {
		return bigring.BigPoly{}, errors.Errorf("bfv: message has %d coefficients, want at most %d", len(m), params.Degree())
	}

	t := params.plainModulus.Uint64()
	p := bigring.NewBigPoly(params.Degree())
	for i := range m {
		if m[i] >= t {
			return bigring.BigPoly{}, errors.Errorf("bfv: message coefficient %d is not reduced modulo %d", m[i], t)
		}
		p.Coeffs[i].SetUint64(m[i])
	}
	return p, nil
}
