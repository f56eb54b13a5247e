package matrix_test

import (
	"math/big"
	"testing"

	"github.com/pkg/errors"
	"github.com/sp301415/ringo-sdlp/bigring"
	"github.com/sp301415/ringo-sdlp/matrix"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMatrix(t *testing.T) {
	t.Run("WriteOnce", func(t *testing.T) {
		m := matrix.New[int](2, 3)
		assert.False(t, m.IsSet(1, 2))

		require.NoError(t, m.Set(1, 2, 7))
		assert.True(t, m.IsSet(1, 2))
		assert.Equal(t, 7, m.At(1, 2))

		err := m.Set(1, 2, 8)
		assert.True(t, errors.Is(err, matrix.ErrDoubleWrite))
		assert.Equal(t, 7, m.At(1, 2))
	})

	t.Run("ZeroDefault", func(t *testing.T) {
		m := matrix.New[int](2, 2)
		assert.Equal(t, []int{0, 0, 0, 0}, m.Entries())
	})

	t.Run("FromRows", func(t *testing.T) {
		m, err := matrix.NewFromRows([][]int{{1, 2}, {3, 4}, {5, 6}})
		require.NoError(t, err)
		assert.Equal(t, 3, m.Rows())
		assert.Equal(t, 2, m.Cols())
		assert.Equal(t, []int{2, 4, 6}, m.Col(1))
		assert.Equal(t, []int{3, 4}, m.Row(1))

		_, err = matrix.NewFromRows([][]int{{1, 2}, {3}})
		assert.Error(t, err)
	})

	t.Run("Map", func(t *testing.T) {
		m := matrix.NewColumn([]int{1, 2, 3})
		mm := matrix.Map(m, func(x int) int { return 2 * x })
		assert.Equal(t, []int{2, 4, 6}, mm.Entries())
		assert.True(t, mm.IsSet(2, 0))
	})
}

func TestMulMod(t *testing.T) {
	q := big.NewInt(97)
	r := bigring.NewRing(q)
	f := bigring.NewBigPolyFromInt64(1, 0, 1)

	// [x, 1] * [x, 1]^T = x^2 + 1 = 0 mod x^2 + 1
	a, err := matrix.NewFromRows([][]bigring.BigPoly{{
		bigring.NewBigPolyFromInt64(0, 1),
		bigring.NewBigPolyFromInt64(1),
	}})
	require.NoError(t, err)
	b := matrix.NewColumn([]bigring.BigPoly{
		bigring.NewBigPolyFromInt64(0, 1),
		bigring.NewBigPolyFromInt64(1),
	})

	ab, err := matrix.MulMod(r, f, a, b)
	require.NoError(t, err)
	assert.True(t, ab.At(0, 0).IsZero())
	assert.Equal(t, 2, ab.At(0, 0).Len())

	ba, err := matrix.MulMod(r, f, b, a)
	require.NoError(t, err)
	// x * x = -1
	assert.True(t, ba.At(0, 0).Equal(bigring.NewBigPolyFromInt64(96)))
	assert.True(t, ba.At(1, 1).Equal(bigring.NewBigPolyFromInt64(1)))

	_, err = matrix.MulMod(r, f, a, a)
	assert.Error(t, err)

	assert.True(t, matrix.EqualMod(r, ba, ba))
	assert.False(t, matrix.EqualMod(r, ab, ba))
}
