package bigring_test

import (
	"math/big"
	"math/rand"
	"testing"

	"github.com/consensys/gnark-crypto/ecc/bn254/fr"
	"github.com/sp301415/ringo-sdlp/bigring"
	"github.com/stretchr/testify/assert"
)

func randomPoly(rng *rand.Rand, N int, q *big.Int) bigring.BigPoly {
	p := bigring.NewBigPoly(N)
	for i := 0; i < N; i++ {
		p.Coeffs[i].Rand(rng, q)
	}
	return p
}

func TestReducer(t *testing.T) {
	q := big.NewInt(12289)
	r := bigring.NewReducer(q)
	rng := rand.New(rand.NewSource(0))

	for i := 0; i < 1000; i++ {
		x := big.NewInt(rng.Int63n(4*12289*12289) - 2*12289*12289)
		want := big.NewInt(0).Mod(x, q)
		r.Reduce(x)
		assert.Equal(t, want, x)
	}

	t.Run("OutOfRange", func(t *testing.T) {
		x := big.NewInt(0).Lsh(big.NewInt(1), 100)
		want := big.NewInt(0).Mod(x, q)
		r.Reduce(x)
		assert.Equal(t, want, x)
	})

	t.Run("Center", func(t *testing.T) {
		x := big.NewInt(6144)
		r.Center(x)
		assert.Equal(t, int64(6144), x.Int64())

		x.SetInt64(6145)
		r.Center(x)
		assert.Equal(t, int64(-6144), x.Int64())
	})
}

func TestRing(t *testing.T) {
	q := big.NewInt(257)
	r := bigring.NewRing(q)
	rng := rand.New(rand.NewSource(1))

	t.Run("DivRem", func(t *testing.T) {
		d := 8
		f := bigring.NewBigPoly(d + 1)
		f.Coeffs[0].SetInt64(1)
		f.Coeffs[d].SetInt64(1)

		p := randomPoly(rng, 2*d-1, q)
		quo, rem := r.DivRem(p, f)
		assert.Equal(t, d-1, quo.Len())
		assert.Equal(t, d, rem.Len())

		back := r.Add(r.Mul(quo, f), rem)
		assert.True(t, back.Equal(p))
	})

	t.Run("DivRemExact", func(t *testing.T) {
		f := bigring.NewBigPolyFromInt64(1, 0, 0, 1)
		g := bigring.NewBigPolyFromInt64(3, 5, 7)
		quo, rem := r.DivRem(r.Mul(f, g), f)
		assert.True(t, rem.IsZero())
		assert.True(t, quo.Equal(g))
	})

	t.Run("Evaluate", func(t *testing.T) {
		p := bigring.NewBigPolyFromInt64(1, 2, 3)
		assert.Equal(t, int64(1+2*2+3*4), r.Evaluate(p, big.NewInt(2)).Int64())
	})

	t.Run("InfNorm", func(t *testing.T) {
		p := bigring.NewBigPolyFromInt64(3, 250, 1)
		assert.Equal(t, int64(7), r.InfNorm(p).Int64())
		assert.True(t, r.Center(p).Equal(bigring.NewBigPolyFromInt64(3, -7, 1)))
	})

	t.Run("AddSubNeg", func(t *testing.T) {
		p0 := randomPoly(rng, 5, q)
		p1 := randomPoly(rng, 3, q)
		assert.True(t, r.Sub(r.Add(p0, p1), p1).Equal(p0))
		assert.True(t, r.Add(p0, r.Neg(p0)).IsZero())
	})
}

func TestCyclicRing(t *testing.T) {
	p := fr.Modulus()
	rng := rand.New(rand.NewSource(2))

	N := 16
	ringP := bigring.NewCyclicRing(N, p)
	r := bigring.NewRing(p)

	t.Run("NTT", func(t *testing.T) {
		x := randomPoly(rng, N, p)
		xNTT := ringP.ToNTTPoly(x)
		assert.True(t, ringP.ToPoly(xNTT).Equal(x))
	})

	t.Run("Mul", func(t *testing.T) {
		x := randomPoly(rng, N/2, p)
		y := randomPoly(rng, N/2, p)

		xy := ringP.NewNTTPoly()
		ringP.MulAddNTTAssign(ringP.ToNTTPoly(x), ringP.ToNTTPoly(y), xy)

		assert.True(t, ringP.ToPoly(xy).Equal(r.Mul(x, y)))
	})

	t.Run("Negative", func(t *testing.T) {
		x := bigring.NewBigPolyFromInt64(-1, 2)
		y := bigring.NewBigPolyFromInt64(3, -4)

		xy := ringP.NewNTTPoly()
		ringP.MulAddNTTAssign(ringP.ToNTTPoly(x), ringP.ToNTTPoly(y), xy)

		want := r.Reduce(bigring.NewBigPolyFromInt64(-3, 10, -8))
		assert.True(t, ringP.ToPoly(xy).Equal(want))
	})
}
