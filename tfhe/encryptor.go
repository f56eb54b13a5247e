package tfhe

import (
	"github.com/pkg/errors"
	"github.com/sp301415/ringo-sdlp/csprng"
)

// SecretKey is a binary GLWE secret key.
type SecretKey struct {
	S []uint64
}

// PublicKey is an RLWE public key (A, B) with B = A * s + e.
type PublicKey struct {
	A []uint64
	B []uint64
}

// Ciphertext is a GLWE ciphertext (A, B) with B = A * s + e + Delta * m.
type Ciphertext struct {
	A []uint64
	B []uint64
}

// Encryptor generates keys and encrypts messages,
// returning the witness of each encryption.
// It is not thread-safe.
type Encryptor struct {
	params          GlweDef
	sampler         *csprng.UniformSampler
	gaussianSampler *csprng.GaussianSampler

	buffer []uint64
}

// NewEncryptor creates a new Encryptor.
// If seed is nil, it samples from a random seed.
func NewEncryptor(params GlweDef, seed []byte) (*Encryptor, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	sampler := csprng.NewUniformSampler()
	if seed != nil {
		sampler = csprng.NewUniformSamplerWithSeed(seed)
	}

	return &Encryptor{
		params:          params,
		sampler:         sampler,
		gaussianSampler: csprng.NewGaussianSampler(sampler, params.errorStdDev(), int64(params.errorBound())),

		buffer: params.NewPoly(),
	}, nil
}

// GenSecretKey samples a binary secret key.
func (e *Encryptor) GenSecretKey() SecretKey {
	s := e.params.NewPoly()
	for i := range s {
		s[i] = e.sampler.Sample() & 1
	}
	return SecretKey{S: s}
}

// GenPublicKey returns a public key of sk.
func (e *Encryptor) GenPublicKey(sk SecretKey) PublicKey {
	a := e.uniformPoly()
	b := e.params.NewPoly()
	e.params.mulAssign(a, sk.S, b)
	e.params.addAssign(b, e.errorPoly(), b)
	return PublicKey{A: a, B: b}
}

// EncryptPublic encrypts m under pk.
// It returns A = u * pk.A + e1 and B = u * pk.B + e0 + Delta * m,
// together with the witness (u, e0, e1).
func (e *Encryptor) EncryptPublic(m []uint64, pk PublicKey) (Ciphertext, Witness, error) {
	scaled, err := e.scaledPlaintext(m)
	if err != nil {
		return Ciphertext{}, Witness{}, err
	}

	u := e.params.NewPoly()
	for i := range u {
		u[i] = e.sampler.Sample() & 1
	}
	e0 := e.errorPoly()
	e1 := e.errorPoly()

	a := e.params.NewPoly()
	e.params.mulAssign(u, pk.A, a)
	e.params.addAssign(a, e1, a)

	b := e.params.NewPoly()
	e.params.mulAssign(u, pk.B, b)
	e.params.addAssign(b, e0, b)
	e.params.addAssign(b, scaled, b)

	return Ciphertext{A: a, B: b}, NewPublicKeyEncryptionWitness(u, e0, e1), nil
}

// EncryptPrivate encrypts m under sk.
// It returns A uniform and B = A * s + e + Delta * m, together with the witness (s, e).
func (e *Encryptor) EncryptPrivate(m []uint64, sk SecretKey) (Ciphertext, Witness, error) {
	scaled, err := e.scaledPlaintext(m)
	if err != nil {
		return Ciphertext{}, Witness{}, err
	}

	a := e.uniformPoly()
	errPoly := e.errorPoly()

	b := e.params.NewPoly()
	e.params.mulAssign(a, sk.S, b)
	e.params.addAssign(b, errPoly, b)
	e.params.addAssign(b, scaled, b)

	return Ciphertext{A: a, B: b}, NewPrivateKeyEncryptionWitness(sk, errPoly), nil
}

// Decrypt returns round((B - A * s) / Delta) mod t.
func (e *Encryptor) Decrypt(ct Ciphertext, sk SecretKey) []uint64 {
	e.params.mulAssign(ct.A, sk.S, e.buffer)
	e.params.subAssign(ct.B, e.buffer, e.buffer)

	shift := uint(e.params.TorusBits - e.params.PlaintextBits)
	tMask := uint64(1)<<e.params.PlaintextBits - 1
	m := e.params.NewPoly()
	for i := range m {
		m[i] = ((e.buffer[i] + 1<<(shift-1)) >> shift) & tMask
	}
	return m
}

func (e *Encryptor) uniformPoly() []uint64 {
	p := e.params.NewPoly()
	mask := e.params.mask()
	for i := range p {
		p[i] = e.sampler.Sample() & mask
	}
	return p
}

// errorPoly samples coefficients from the Gaussian distribution truncated to the error bound.
func (e *Encryptor) errorPoly() []uint64 {
	mask := e.params.mask()
	p := e.params.NewPoly()
	for i := range p {
		p[i] = uint64(e.gaussianSampler.Sample()) & mask
	}
	return p
}

func (e *Encryptor) scaledPlaintext(m []uint64) ([]uint64, error) {
	if len(m) > e.params.PolynomialDegree {
		return nil, errors.Errorf("tfhe: message has %d coefficients, want at most %d", len(m), e.params.PolynomialDegree)
	}

	t := uint64(1) << e.params.PlaintextBits
	shift := uint(e.params.TorusBits - e.params.PlaintextBits)
	p := e.params.NewPoly()
	for i := range m {
		if m[i] >= t {
			return nil, errors.Errorf("tfhe: message coefficient %d is not reduced modulo %d", m[i], t)
		}
		p[i] = m[i] << shift
	}
	return p, nil
}
