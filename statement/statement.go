// Package statement encodes RLWE encryption statements into short discrete log relations.
//
// A statement claims that a ciphertext encrypts a message,
// under either a public key or a secret key.
// Statements and their witnesses are laid out as A * S = T,
// where the columns of A are grouped in blocks
//
//	[messages][remainders][public key][public e0][public e1][private secret][private error]
//
// Public key statements take two rows of A, and private key statements take one.
package statement

import (
	"math/big"

	"github.com/sp301415/ringo-sdlp/bigring"
	"github.com/sp301415/ringo-sdlp/sdlp"
)

// Kind is the kind of a statement.
type Kind int

const (
	// PrivateKeyEncryption claims that c0 = Delta * m + r - (c1 * s + e).
	PrivateKeyEncryption Kind = iota
	// PublicKeyEncryption claims that c0 = Delta * m + r + u * p0 + e0 and c1 = u * p1 + e1.
	PublicKeyEncryption
	// Decryption claims that a ciphertext decrypts to m under s.
	// It is a private key encryption statement whose error is recomputed by the prover.
	Decryption
)

// String implements the [fmt.Stringer] interface.
func (k Kind) String() string {
	switch k {
	case PrivateKeyEncryption:
		return "PrivateKeyEncryption"
	case PublicKeyEncryption:
		return "PublicKeyEncryption"
	case Decryption:
		return "Decryption"
	}
	return "Unknown"
}

// IsPublic returns true if k takes two rows of A.
func (k Kind) IsPublic() bool {
	return k == PublicKeyEncryption
}

// Statement is a scheme independent encryption statement.
// Every polynomial is reduced modulo q and has degree less than the ring degree.
type Statement struct {
	Kind Kind
	// MessageID is the index of the message this statement refers to.
	// Statements sharing a MessageID share the message column.
	MessageID int

	// C0 and C1 are the ciphertext components.
	C0 bigring.BigPoly
	C1 bigring.BigPoly

	// P0 and P1 are the public key components.
	// Only used for PublicKeyEncryption.
	P0 bigring.BigPoly
	P1 bigring.BigPoly
}

// Witness is a scheme independent witness of a Statement.
// Polynomials may hold negative coefficients.
type Witness struct {
	Kind Kind

	// U, E0 and E1 are the encryption randomness.
	// Only used for PublicKeyEncryption.
	U  bigring.BigPoly
	E0 bigring.BigPoly
	E1 bigring.BigPoly

	// SecretKey is used for PrivateKeyEncryption and Decryption.
	SecretKey bigring.BigPoly
	// E is the encryption error.
	// Only used for PrivateKeyEncryption.
	E bigring.BigPoly
}

// Message is a plaintext message with an optional bound.
type Message struct {
	// Plaintext has coefficients in [0, t).
	Plaintext bigring.BigPoly
	// Bounds overrides the default message bound if not nil.
	Bounds sdlp.Bounds
}

// BoundConstants are the coefficient bounds of each block of S.
type BoundConstants struct {
	// Message is the default bound of the message block.
	Message uint64
	// Remainder is the bound of the remainder block.
	Remainder uint64
	// Uniform is the bound of the public key encryption randomness u.
	Uniform uint64
	// Secret is the bound of the secret key.
	Secret uint64
	// Error is the bound of the encryption errors.
	Error uint64
	// DecryptionError is the bound of the error in Decryption statements.
	DecryptionError uint64
}

// Scheme supplies the constants of an RLWE encryption scheme over Z_q[X]/(X^d + 1).
type Scheme interface {
	// Degree returns the ring degree d.
	Degree() int
	// CiphertextModulus returns q.
	CiphertextModulus() *big.Int
	// PlaintextModulus returns t.
	PlaintextModulus() *big.Int
	// Delta returns the scaling factor of messages.
	Delta() *big.Int
	// Remainder returns r such that Delta * m + r is the scaled encoding of m modulo q.
	Remainder(m bigring.BigPoly) bigring.BigPoly
	// BoundConstants returns the coefficient bounds of S.
	BoundConstants() BoundConstants
}

// ScaledRemainder returns round(q * m / t) - delta * m,
// for m with coefficients in [0, t).
func ScaledRemainder(q, t, delta *big.Int, m bigring.BigPoly) bigring.BigPoly {
	tHalf := big.NewInt(0).Rsh(t, 1)
	r := bigring.NewBigPoly(m.Len())
	dm := big.NewInt(0)
	for i := range m.Coeffs {
		r.Coeffs[i].Mul(q, m.Coeffs[i])
		r.Coeffs[i].Add(r.Coeffs[i], tHalf)
		r.Coeffs[i].Quo(r.Coeffs[i], t)
		dm.Mul(delta, m.Coeffs[i])
		r.Coeffs[i].Sub(r.Coeffs[i], dm)
	}
	return r
}
