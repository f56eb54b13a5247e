package sdlp

import (
	"math/big"

	"github.com/bits-and-blooms/bitset"
)

// TwosComplement returns the width-bit two's complement expansion of v,
// least significant bit first.
// v is read modulo modulus: values above modulus/2 are negative.
// It returns false if v does not fit in width bits.
func TwosComplement(v, modulus *big.Int, width int) ([]bool, bool) {
	words := make([]uint64, (width+63)/64)
	enc := newTwosEncoder(modulus)
	if !enc.encode(v, width, words, 0) {
		return nil, false
	}
	bs := bitset.From(words)

	bits := make([]bool, width)
	for i := range bits {
		bits[i] = bs.Test(uint(i))
	}
	return bits, true
}

// FromTwosComplement decodes a two's complement expansion, least significant bit first.
func FromTwosComplement(bits []bool) *big.Int {
	v := big.NewInt(0)
	if len(bits) == 0 {
		return v
	}

	for i := len(bits) - 2; i >= 0; i-- {
		v.Lsh(v, 1)
		if bits[i] {
			v.SetBit(v, 0, 1)
		}
	}

	if bits[len(bits)-1] {
		sign := big.NewInt(0).Lsh(big.NewInt(1), uint(len(bits)-1))
		v.Sub(v, sign)
	}
	return v
}

var bigOne = big.NewInt(1)

// twosEncoder writes two's complement expansions of values modulo a fixed modulus.
// Negative values -x are represented as modulus - x, and expanded as the complement of x - 1.
type twosEncoder struct {
	modulus *big.Int
	half    *big.Int

	neg *big.Int
}

func newTwosEncoder(modulus *big.Int) *twosEncoder {
	return &twosEncoder{
		modulus: modulus,
		half:    big.NewInt(0).Rsh(modulus, 1),

		neg: big.NewInt(0),
	}
}

// encode ORs the width-bit expansion of v into words starting at offset.
// The bits are selected with masks, so the loop does not branch on v.
// It returns false if v does not fit.
func (e *twosEncoder) encode(v *big.Int, width int, words []uint64, offset uint) bool {
	isNeg := uint((v.Cmp(e.half) + 1) >> 1)

	e.neg.Sub(e.modulus, v)
	e.neg.Sub(e.neg, bigOne)

	if width == 0 {
		return v.Sign() == 0
	}

	// Magnitude must fit in width - 1 bits.
	posLen, negLen := v.BitLen(), e.neg.BitLen()
	magLen := posLen ^ ((posLen ^ negLen) & -int(isNeg))
	if magLen > width-1 {
		return false
	}

	for i := 0; i < width-1; i++ {
		pos := v.Bit(i)
		neg := 1 - e.neg.Bit(i)
		setBit(words, offset+uint(i), pos^((pos^neg)&isNeg))
	}
	setBit(words, offset+uint(width-1), isNeg)
	return true
}

// setBit ORs bit into the i-th bit of words.
func setBit(words []uint64, i uint, bit uint) {
	words[i>>6] |= uint64(bit) << (i & 63)
}

// getBit returns the i-th bit of words.
func getBit(words []uint64, i int) uint64 {
	return (words[i>>6] >> (uint(i) & 63)) & 1
}
