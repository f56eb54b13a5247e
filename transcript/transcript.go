// Package transcript implements a Fiat-Shamir transcript over blake2b XOF.
package transcript

import (
	"encoding/binary"

	"github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/sp301415/ringo-sdlp/csprng"
)

// pointDST is the hash-to-curve domain separation tag of challenge points.
var pointDST = []byte("RINGO-SDLP-V01-CS01-with-BN254G1_XMD:SHA-256_SVDW_RO_")

// Transcript absorbs prover messages and squeezes challenges.
// It is not safe for concurrent use,
// and must not be shared between two proofs.
type Transcript struct {
	oracle *csprng.UniformSampler

	lenBuf [8]byte
}

// New creates a new Transcript bound to label.
func New(label string) *Transcript {
	t := &Transcript{
		oracle: csprng.NewUniformSamplerWithSeed(nil),
	}
	t.AppendMessage("dom-sep", []byte(label))
	return t
}

// AppendMessage absorbs msg under label.
// Both are length prefixed, so distinct sequences of calls never collide.
func (t *Transcript) AppendMessage(label string, msg []byte) {
	t.writeWithLength([]byte(label))
	t.writeWithLength(msg)
}

// AppendU64 absorbs x under label.
func (t *Transcript) AppendU64(label string, x uint64) {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], x)
	t.AppendMessage(label, b[:])
}

// AppendPoint absorbs the compressed encoding of p under label.
func (t *Transcript) AppendPoint(label string, p *bn254.G1Affine) {
	b := p.Bytes()
	t.AppendMessage(label, b[:])
}

// AppendScalar absorbs x under label.
func (t *Transcript) AppendScalar(label string, x *fr.Element) {
	b := x.Bytes()
	t.AppendMessage(label, b[:])
}

// ChallengeScalar squeezes a scalar challenge under label.
func (t *Transcript) ChallengeScalar(label string) fr.Element {
	return t.ChallengeScalars(label, 1)[0]
}

// ChallengeScalars squeezes n scalar challenges under label.
func (t *Transcript) ChallengeScalars(label string, n int) []fr.Element {
	t.AppendU64(label, uint64(n))
	t.oracle.Finalize()

	xs := t.oracle.SampleScalars(n)
	for i := range xs {
		b := xs[i].Bytes()
		t.oracle.Write(b[:])
	}

	return xs
}

// ChallengeBytes squeezes n bytes under label.
func (t *Transcript) ChallengeBytes(label string, n int) []byte {
	t.AppendU64(label, uint64(n))
	t.oracle.Finalize()

	b := make([]byte, n)
	if _, err := t.oracle.Read(b); err != nil {
		panic(err)
	}
	t.oracle.Write(b)

	return b
}

// ChallengePoint squeezes a bn254 G1 point with unknown discrete log under label.
func (t *Transcript) ChallengePoint(label string) bn254.G1Affine {
	seed := t.ChallengeBytes(label, 64)
	p, err := bn254.HashToG1(seed, pointDST)
	if err != nil {
		panic(err)
	}
	return p
}

func (t *Transcript) writeWithLength(b []byte) {
	binary.LittleEndian.PutUint64(t.lenBuf[:], uint64(len(b)))
	t.oracle.Write(t.lenBuf[:])
	t.oracle.Write(b)
}
