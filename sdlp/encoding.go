package sdlp

import (
	"github.com/consensys/gnark-crypto/ecc/bn254"
	"github.com/pkg/errors"
)

// ByteSize returns the size of the encoded proof in bytes.
func (p *LogProof) ByteSize() int {
	return bn254.SizeOfG1AffineCompressed + p.InnerProductProof.ByteSize()
}

// MarshalBinary encodes the proof as the compressed W followed by the inner product proof.
func (p *LogProof) MarshalBinary() ([]byte, error) {
	ipp, err := p.InnerProductProof.MarshalBinary()
	if err != nil {
		return nil, err
	}

	w := p.W.Bytes()
	buf := make([]byte, 0, len(w)+len(ipp))
	buf = append(buf, w[:]...)
	buf = append(buf, ipp...)
	return buf, nil
}

// UnmarshalBinary decodes the proof.
// Malformed encodings return ErrVerification.
func (p *LogProof) UnmarshalBinary(data []byte) error {
	if len(data) < bn254.SizeOfG1AffineCompressed {
		return errors.Wrap(ErrVerification, "proof too short")
	}

	if _, err := p.W.SetBytes(data[:bn254.SizeOfG1AffineCompressed]); err != nil {
		return errors.Wrap(ErrVerification, err.Error())
	}

	if err := p.InnerProductProof.UnmarshalBinary(data[bn254.SizeOfG1AffineCompressed:]); err != nil {
		return errors.Wrap(ErrVerification, err.Error())
	}
	return nil
}
