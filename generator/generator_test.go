package generator_test

import (
	"testing"

	"github.com/sp301415/ringo-sdlp/generator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDerive(t *testing.T) {
	gens, err := generator.Derive("test", 8)
	require.NoError(t, err)
	assert.Len(t, gens.G, 8)
	assert.Len(t, gens.H, 8)

	t.Run("Deterministic", func(t *testing.T) {
		again, err := generator.Derive("test", 8)
		require.NoError(t, err)
		for i := range gens.G {
			assert.True(t, gens.G[i].Equal(&again.G[i]))
			assert.True(t, gens.H[i].Equal(&again.H[i]))
		}
		assert.True(t, gens.U.Equal(&again.U))
	})

	t.Run("Distinct", func(t *testing.T) {
		seen := make(map[[32]byte]bool)
		for i := range gens.G {
			for _, p := range []*[32]byte{ptr(gens.G[i].Bytes()), ptr(gens.H[i].Bytes())} {
				assert.False(t, seen[*p])
				seen[*p] = true
			}
		}
		assert.False(t, seen[gens.U.Bytes()])
	})

	t.Run("Subgroup", func(t *testing.T) {
		for i := range gens.G {
			assert.True(t, gens.G[i].IsInSubGroup())
			assert.True(t, gens.H[i].IsInSubGroup())
		}
	})

	t.Run("Label", func(t *testing.T) {
		other, err := generator.Derive("other", 1)
		require.NoError(t, err)
		assert.False(t, other.G[0].Equal(&gens.G[0]))
	})
}

func ptr(b [32]byte) *[32]byte {
	return &b
}
