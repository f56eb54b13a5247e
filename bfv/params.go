// Package bfv encodes BFV encryption and decryption statements into short discrete log relations.
package bfv

import (
	"math"
	"math/big"

	"github.com/sp301415/ringo-sdlp/bigring"
	"github.com/sp301415/ringo-sdlp/statement"
	"github.com/tuneinsight/lattigo/v6/core/rlwe"
	"github.com/tuneinsight/lattigo/v6/ring"
)

const (
	// DefaultErrorStdDev is the default standard deviation of encryption errors.
	DefaultErrorStdDev = 3.2
	// DefaultErrorBound is the default truncation bound of encryption errors.
	DefaultErrorBound = 19
)

// ParametersLiteral is a structure for BFV parameters.
type ParametersLiteral struct {
	// LogN is the (log2 value of) ring degree.
	LogN int
	// LogQ is the (log2 value of) RNS moduli.
	// If there is more than one modulus, the last one is the special modulus
	// and is excluded from the ciphertext modulus.
	LogQ []int
	// PlainModulus is the plaintext modulus t.
	PlainModulus uint64

	// ErrorStdDev is the standard deviation of encryption errors.
	// Zero means DefaultErrorStdDev.
	ErrorStdDev float64
	// ErrorBound is the truncation bound of encryption errors.
	// Zero means DefaultErrorBound.
	ErrorBound uint64
}

// Compile transforms ParametersLiteral to read-only Parameters.
// If there is any invalid parameter in the literal, it panics.
// Default parameters are guaranteed to be compiled without panics.
func (p ParametersLiteral) Compile() Parameters {
	switch {
	case p.LogN < 1:
		panic("LogN must be positive")
	case len(p.LogQ) == 0:
		panic("LogQ must not be empty")
	case p.PlainModulus < 2:
		panic("PlainModulus must be at least 2")
	}

	moduli, _, err := rlwe.GenModuli(p.LogN+1, p.LogQ, nil)
	if err != nil {
		panic(err)
	}

	dataModuli := moduli
	if len(moduli) > 1 {
		dataModuli = moduli[:len(moduli)-1]
	}

	ringQ, err := ring.NewRing(1<<p.LogN, dataModuli)
	if err != nil {
		panic(err)
	}

	delta := Delta(p.PlainModulus, moduli)
	if delta.Sign() == 0 {
		panic("PlainModulus larger than ciphertext modulus")
	}

	errorStdDev := p.ErrorStdDev
	if errorStdDev == 0 {
		errorStdDev = DefaultErrorStdDev
	}
	errorBound := p.ErrorBound
	if errorBound == 0 {
		errorBound = DefaultErrorBound
	}

	return Parameters{
		logN:   p.LogN,
		moduli: moduli,
		ringQ:  ringQ,

		plainModulus: big.NewInt(0).SetUint64(p.PlainModulus),
		delta:        delta,

		errorStdDev: errorStdDev,
		errorBound:  errorBound,
	}
}

// Parameters is a read-only structure for BFV parameters.
type Parameters struct {
	logN int
	// moduli includes the special modulus.
	moduli []uint64
	// ringQ is defined over the ciphertext modulus.
	ringQ *ring.Ring

	plainModulus *big.Int
	delta        *big.Int

	errorStdDev float64
	errorBound  uint64
}

// Delta returns floor(Q / t), where Q is the ciphertext modulus given by moduli.
// If there is more than one modulus, the last one is excluded from Q.
func Delta(t uint64, moduli []uint64) *big.Int {
	if len(moduli) > 1 {
		moduli = moduli[:len(moduli)-1]
	}

	Q := big.NewInt(1)
	qi := big.NewInt(0)
	for _, m := range moduli {
		Q.Mul(Q, qi.SetUint64(m))
	}
	return Q.Quo(Q, big.NewInt(0).SetUint64(t))
}

// LogN returns the (log2 value of) ring degree.
func (p Parameters) LogN() int {
	return p.logN
}

// Degree returns the ring degree.
func (p Parameters) Degree() int {
	return 1 << p.logN
}

// Moduli returns the RNS moduli, including the special modulus.
func (p Parameters) Moduli() []uint64 {
	return p.moduli
}

// RingQ returns the ring over the ciphertext modulus.
func (p Parameters) RingQ() *ring.Ring {
	return p.ringQ
}

// CiphertextModulus returns the ciphertext modulus Q.
func (p Parameters) CiphertextModulus() *big.Int {
	return p.ringQ.Modulus()
}

// PlaintextModulus returns the plaintext modulus t.
func (p Parameters) PlaintextModulus() *big.Int {
	return p.plainModulus
}

// Delta returns floor(Q / t).
func (p Parameters) Delta() *big.Int {
	return p.delta
}

// Remainder returns round(Q * m / t) - Delta * m.
func (p Parameters) Remainder(m bigring.BigPoly) bigring.BigPoly {
	return statement.ScaledRemainder(p.CiphertextModulus(), p.plainModulus, p.delta, m)
}

// ErrorStdDev returns the standard deviation of encryption errors.
func (p Parameters) ErrorStdDev() float64 {
	return p.errorStdDev
}

// ErrorBound returns the truncation bound of encryption errors.
func (p Parameters) ErrorBound() uint64 {
	return p.errorBound
}

// ErrorDistribution returns the distribution of encryption errors.
func (p Parameters) ErrorDistribution() ring.DiscreteGaussian {
	return ring.DiscreteGaussian{Sigma: p.errorStdDev, Bound: float64(p.errorBound)}
}

// SecretDistribution returns the distribution of secret keys and public key encryption randomness.
func (p Parameters) SecretDistribution() ring.Ternary {
	return ring.Ternary{P: 2.0 / 3.0}
}

// BoundConstants returns the coefficient bounds of S.
// The decryption error bound is floor(Delta / 2) + t, saturated at 2^63 - 1.
func (p Parameters) BoundConstants() statement.BoundConstants {
	t := p.plainModulus.Uint64()

	decErr := big.NewInt(0).Rsh(p.delta, 1)
	decErr.Add(decErr, p.plainModulus)
	decErrBound := uint64(math.MaxInt64)
	if decErr.IsUint64() && decErr.Uint64() < decErrBound {
		decErrBound = decErr.Uint64()
	}

	return statement.BoundConstants{
		Message:         t,
		Remainder:       t,
		Uniform:         1,
		Secret:          1,
		Error:           p.errorBound,
		DecryptionError: decErrBound,
	}
}
