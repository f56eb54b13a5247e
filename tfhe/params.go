// Package tfhe encodes GLWE encryption and decryption statements over the discretized torus
// into short discrete log relations.
//
// Torus polynomials are []uint64 slices of length PolynomialDegree,
// interpreted modulo 2^TorusBits.
// Only GLWE dimension 1 is supported.
package tfhe

import (
	"math"
	"math/big"
	"math/bits"

	"github.com/pkg/errors"
	"github.com/sp301415/ringo-sdlp/bigring"
	"github.com/sp301415/ringo-sdlp/sdlp"
	"github.com/sp301415/ringo-sdlp/statement"
)

const (
	// DefaultErrorStdDev is the default standard deviation of encryption errors.
	DefaultErrorStdDev = 3.2
	// DefaultErrorBound is the default bound of encryption errors.
	DefaultErrorBound = 19
)

// GlweDef defines a GLWE scheme of dimension 1 over Z_{2^TorusBits}[X]/(X^N + 1).
type GlweDef struct {
	// PolynomialDegree is the ring degree N.
	// Must be a power of two.
	PolynomialDegree int
	// TorusBits is the (log2 value of) ciphertext modulus.
	// Must be 32 or 64.
	TorusBits int
	// PlaintextBits is the (log2 value of) plaintext modulus.
	PlaintextBits int

	// ErrorStdDev is the standard deviation of encryption errors.
	// Zero means DefaultErrorStdDev.
	ErrorStdDev float64
	// ErrorBound is the bound of encryption errors.
	// Zero means DefaultErrorBound.
	ErrorBound uint64
}

var (
	// ParamsGlweN1024 is a GLWE scheme with 2^10 ring degree, 64-bit torus, and 4-bit plaintexts.
	ParamsGlweN1024 = GlweDef{
		PolynomialDegree: 1 << 10,
		TorusBits:        64,
		PlaintextBits:    4,
	}

	// ParamsGlweN2048 is a GLWE scheme with 2^11 ring degree, 64-bit torus, and 4-bit plaintexts.
	ParamsGlweN2048 = GlweDef{
		PolynomialDegree: 1 << 11,
		TorusBits:        64,
		PlaintextBits:    4,
	}
)

// Validate returns an error wrapping sdlp.ErrConfiguration if p is invalid.
func (p GlweDef) Validate() error {
	switch {
	case p.PolynomialDegree < 1 || p.PolynomialDegree&(p.PolynomialDegree-1) != 0:
		return errors.Wrapf(sdlp.ErrConfiguration, "polynomial degree %d is not a power of two", p.PolynomialDegree)
	case p.TorusBits != 32 && p.TorusBits != 64:
		return errors.Wrapf(sdlp.ErrConfiguration, "torus bits must be 32 or 64, got %d", p.TorusBits)
	case p.PlaintextBits < 1 || p.PlaintextBits >= p.TorusBits:
		return errors.Wrapf(sdlp.ErrConfiguration, "plaintext bits must be in [1, %d), got %d", p.TorusBits, p.PlaintextBits)
	case p.ErrorStdDev < 0:
		return errors.Wrapf(sdlp.ErrConfiguration, "negative error standard deviation %v", p.ErrorStdDev)
	case p.ErrorBound > math.MaxInt64:
		return errors.Wrapf(sdlp.ErrConfiguration, "error bound %d does not fit in int64", p.ErrorBound)
	}
	return nil
}

// Degree returns the ring degree N.
func (p GlweDef) Degree() int {
	return p.PolynomialDegree
}

// CiphertextModulus returns 2^TorusBits.
func (p GlweDef) CiphertextModulus() *big.Int {
	return big.NewInt(0).Lsh(big.NewInt(1), uint(p.TorusBits))
}

// PlaintextModulus returns 2^PlaintextBits.
func (p GlweDef) PlaintextModulus() *big.Int {
	return big.NewInt(0).Lsh(big.NewInt(1), uint(p.PlaintextBits))
}

// Delta returns 2^(TorusBits - PlaintextBits).
func (p GlweDef) Delta() *big.Int {
	return big.NewInt(0).Lsh(big.NewInt(1), uint(p.TorusBits-p.PlaintextBits))
}

// Remainder returns round(q * m / t) - Delta * m, which is always zero.
func (p GlweDef) Remainder(m bigring.BigPoly) bigring.BigPoly {
	return statement.ScaledRemainder(p.CiphertextModulus(), p.PlaintextModulus(), p.Delta(), m)
}

// BoundConstants returns the coefficient bounds of S.
// The decryption error bound is floor(Delta / 2) + t, saturated at 2^63 - 1.
func (p GlweDef) BoundConstants() statement.BoundConstants {
	t := uint64(1) << p.PlaintextBits

	decErr, carry := bits.Add64(uint64(1)<<(p.TorusBits-p.PlaintextBits-1), t, 0)
	if carry != 0 || decErr > math.MaxInt64 {
		decErr = math.MaxInt64
	}

	return statement.BoundConstants{
		Message:         t,
		Remainder:       t,
		Uniform:         1,
		Secret:          1,
		Error:           p.errorBound(),
		DecryptionError: decErr,
	}
}

func (p GlweDef) errorStdDev() float64 {
	if p.ErrorStdDev == 0 {
		return DefaultErrorStdDev
	}
	return p.ErrorStdDev
}

func (p GlweDef) errorBound() uint64 {
	if p.ErrorBound == 0 {
		return DefaultErrorBound
	}
	return p.ErrorBound
}

// mask returns 2^TorusBits - 1.
func (p GlweDef) mask() uint64 {
	if p.TorusBits == 64 {
		return math.MaxUint64
	}
	return 1<<p.TorusBits - 1
}
