package ipa

import (
	"encoding/binary"

	"github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/pkg/errors"
)

// ErrMalformedProof is returned when a proof cannot be decoded.
var ErrMalformedProof = errors.New("ipa: malformed proof")

// ByteSize returns the size of the encoded proof in bytes.
func (p Proof) ByteSize() int {
	return 4 + (2*len(p.TMinus1)+2)*bn254.SizeOfG1AffineCompressed + 3*fr.Bytes
}

// MarshalBinary encodes the proof.
// The encoding is the number of rounds as big endian uint32,
// followed by the compressed round points, W, W', Z1, Z2 and Tau.
func (p Proof) MarshalBinary() ([]byte, error) {
	if len(p.TMinus1) != len(p.T1) {
		return nil, errors.Wrapf(ErrMalformedProof, "round count mismatch: %d and %d", len(p.TMinus1), len(p.T1))
	}

	buf := make([]byte, 0, p.ByteSize())
	buf = binary.BigEndian.AppendUint32(buf, uint32(len(p.TMinus1)))
	for r := range p.TMinus1 {
		b := p.TMinus1[r].Bytes()
		buf = append(buf, b[:]...)
		b = p.T1[r].Bytes()
		buf = append(buf, b[:]...)
	}

	for _, pt := range []*bn254.G1Affine{&p.W, &p.WPrime} {
		b := pt.Bytes()
		buf = append(buf, b[:]...)
	}

	for _, x := range []*fr.Element{&p.Z1, &p.Z2, &p.Tau} {
		b := x.Bytes()
		buf = append(buf, b[:]...)
	}

	return buf, nil
}

// UnmarshalBinary decodes the proof.
// Points are checked to be in the prime order subgroup,
// and scalars to be canonical.
func (p *Proof) UnmarshalBinary(data []byte) error {
	if len(data) < 4 {
		return errors.Wrap(ErrMalformedProof, "missing round count")
	}
	rounds := int(binary.BigEndian.Uint32(data))
	data = data[4:]

	// Upper bound on rounds rejects absurd counts before allocation.
	if rounds > 64 {
		return errors.Wrapf(ErrMalformedProof, "too many rounds: %d", rounds)
	}

	want := (2*rounds+2)*bn254.SizeOfG1AffineCompressed + 3*fr.Bytes
	if len(data) != want {
		return errors.Wrapf(ErrMalformedProof, "expected %d bytes, got %d", want, len(data))
	}

	readPoint := func(pt *bn254.G1Affine) error {
		if _, err := pt.SetBytes(data[:bn254.SizeOfG1AffineCompressed]); err != nil {
			return errors.Wrap(ErrMalformedProof, err.Error())
		}
		data = data[bn254.SizeOfG1AffineCompressed:]
		return nil
	}

	readScalar := func(x *fr.Element) error {
		if err := x.SetBytesCanonical(data[:fr.Bytes]); err != nil {
			return errors.Wrap(ErrMalformedProof, err.Error())
		}
		data = data[fr.Bytes:]
		return nil
	}

	p.TMinus1 = make([]bn254.G1Affine, rounds)
	p.T1 = make([]bn254.G1Affine, rounds)
	for r := 0; r < rounds; r++ {
		if err := readPoint(&p.TMinus1[r]); err != nil {
			return err
		}
		if err := readPoint(&p.T1[r]); err != nil {
			return err
		}
	}

	for _, pt := range []*bn254.G1Affine{&p.W, &p.WPrime} {
		if err := readPoint(pt); err != nil {
			return err
		}
	}

	for _, x := range []*fr.Element{&p.Z1, &p.Z2, &p.Tau} {
		if err := readScalar(x); err != nil {
			return err
		}
	}

	return nil
}
