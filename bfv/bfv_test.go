package bfv_test

import (
	"math/big"
	"testing"

	"github.com/sp301415/ringo-sdlp/bfv"
	"github.com/sp301415/ringo-sdlp/bigring"
	"github.com/sp301415/ringo-sdlp/generator"
	"github.com/sp301415/ringo-sdlp/matrix"
	"github.com/sp301415/ringo-sdlp/sdlp"
	"github.com/sp301415/ringo-sdlp/statement"
	"github.com/sp301415/ringo-sdlp/transcript"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tuneinsight/lattigo/v6/utils/sampling"
)

var (
	testParams = bfv.ParametersLiteral{
		LogN:         4,
		LogQ:         []int{27},
		PlainModulus: 256,
	}.Compile()

	testParamsRNS = bfv.ParametersLiteral{
		LogN:         4,
		LogQ:         []int{27, 27, 28},
		PlainModulus: 256,
	}.Compile()
)

func newEncryptor(t *testing.T, params bfv.Parameters) *bfv.Encryptor {
	prng, err := sampling.NewKeyedPRNG([]byte("bfv-test"))
	require.NoError(t, err)

	enc, err := bfv.NewEncryptor(params, prng)
	require.NoError(t, err)
	return enc
}

func testMessage(params bfv.Parameters, seed uint64) []uint64 {
	t := params.PlaintextModulus().Uint64()
	m := make([]uint64, params.Degree())
	for i := range m {
		m[i] = (seed*31 + uint64(i)*7) % t
	}
	return m
}

func TestDelta(t *testing.T) {
	assert.Equal(t, big.NewInt(3), bfv.Delta(3, []uint64{11}))
	assert.Equal(t, big.NewInt(53*53/4), bfv.Delta(4, []uint64{53, 53, 11}))
}

func TestParameters(t *testing.T) {
	for _, lit := range []bfv.ParametersLiteral{bfv.ParamsLogN10, bfv.ParamsLogN11, bfv.ParamsLogN12} {
		params := lit.Compile()

		Q := big.NewInt(1)
		moduli := params.Moduli()
		if len(moduli) > 1 {
			moduli = moduli[:len(moduli)-1]
		}
		for _, qi := range moduli {
			Q.Mul(Q, big.NewInt(0).SetUint64(qi))
		}

		assert.Equal(t, 1<<lit.LogN, params.Degree())
		assert.Equal(t, 0, Q.Cmp(params.CiphertextModulus()))
		assert.Equal(t, 0, bfv.Delta(lit.PlainModulus, params.Moduli()).Cmp(params.Delta()))
	}

	t.Run("BoundConstants", func(t *testing.T) {
		bc := testParams.BoundConstants()
		assert.Equal(t, uint64(256), bc.Message)
		assert.Equal(t, uint64(256), bc.Remainder)
		assert.Equal(t, uint64(bfv.DefaultErrorBound), bc.Error)

		delta := testParams.Delta().Uint64()
		assert.Equal(t, delta/2+256, bc.DecryptionError)
	})
}

func TestRNSReconstructor(t *testing.T) {
	for _, params := range []bfv.Parameters{testParams, testParamsRNS} {
		rns := bfv.NewRNSReconstructor(params)
		Q := params.CiphertextModulus()

		p := bigring.NewBigPoly(params.Degree())
		for i := range p.Coeffs {
			p.Coeffs[i].Rsh(Q, uint(i%5))
			p.Coeffs[i].Sub(p.Coeffs[i], big.NewInt(int64(i+1)))
		}

		assert.True(t, p.Equal(rns.Reconstruct(rns.Decompose(p))))

		neg := bigring.NewBigPolyFromInt64(-1, 2, -3)
		want := bigring.NewRing(Q).Reduce(neg)
		assert.True(t, want.Equal(rns.Reconstruct(rns.Decompose(neg))))
	}
}

func TestEncryptor(t *testing.T) {
	for _, params := range []bfv.Parameters{testParams, testParamsRNS} {
		enc := newEncryptor(t, params)
		sk := enc.GenSecretKey()
		pk := enc.GenPublicKey(sk)
		m := testMessage(params, 1)

		ctPub, _, err := enc.EncryptPublic(m, pk)
		require.NoError(t, err)
		assert.Equal(t, m, enc.Decrypt(ctPub, sk))

		ctPriv, _, err := enc.EncryptPrivate(m, sk)
		require.NoError(t, err)
		assert.Equal(t, m, enc.Decrypt(ctPriv, sk))
	}

	t.Run("InvalidMessage", func(t *testing.T) {
		enc := newEncryptor(t, testParams)
		sk := enc.GenSecretKey()
		_, _, err := enc.EncryptPrivate([]uint64{256}, sk)
		assert.Error(t, err)
		_, _, err = enc.EncryptPrivate(make([]uint64, testParams.Degree()+1), sk)
		assert.Error(t, err)
	})
}

func TestStatements(t *testing.T) {
	for _, params := range []bfv.Parameters{testParams, testParamsRNS} {
		enc := newEncryptor(t, params)
		sk := enc.GenSecretKey()
		pk := enc.GenPublicKey(sk)

		m0, m1 := testMessage(params, 1), testMessage(params, 2)
		messages := []bfv.Message{{Plaintext: m0}, {Plaintext: m1}}

		ctPub0, wPub0, err := enc.EncryptPublic(m0, pk)
		require.NoError(t, err)
		ctPub1, wPub1, err := enc.EncryptPublic(m1, pk)
		require.NoError(t, err)
		ctPriv, wPriv, err := enc.EncryptPrivate(m0, sk)
		require.NoError(t, err)

		pub0 := bfv.NewPublicKeyEncryptionStatement(0, ctPub0, pk)
		pub1 := bfv.NewPublicKeyEncryptionStatement(1, ctPub1, pk)
		priv := bfv.NewPrivateKeyEncryptionStatement(0, ctPriv)
		dec := bfv.NewDecryptionStatement(1, ctPub1)
		wDec := bfv.NewDecryptionWitness(sk)

		tests := []struct {
			name       string
			statements []bfv.Statement
			witnesses  []bfv.Witness
			messages   []bfv.Message
		}{
			{"Public", []bfv.Statement{pub0}, []bfv.Witness{wPub0}, messages[:1]},
			{"Private", []bfv.Statement{priv}, []bfv.Witness{wPriv}, messages[:1]},
			{"Decryption", []bfv.Statement{dec}, []bfv.Witness{wDec}, messages},
			{"Mixed", []bfv.Statement{pub0, pub1, priv}, []bfv.Witness{wPub0, wPub1, wPriv}, messages},
			{"SharedMessage", []bfv.Statement{pub0, priv}, []bfv.Witness{wPub0, wPriv}, messages[:1]},
		}

		r := bigring.NewRing(params.CiphertextModulus())
		f := statement.Cyclotomic(params.Degree())

		for _, tc := range tests {
			t.Run(tc.name, func(t *testing.T) {
				prover, err := bfv.GenerateProverKnowledge(tc.statements, tc.messages, tc.witnesses, params)
				require.NoError(t, err)

				AS, err := matrix.MulMod(r, f, prover.A(), prover.S())
				require.NoError(t, err)
				assert.True(t, matrix.EqualMod(r, AS, prover.T()))

				verifier, err := bfv.GenerateVerifierKnowledge(tc.statements, nil, params)
				require.NoError(t, err)
				assert.Equal(t, prover.L(), verifier.L())
			})
		}

		t.Run("InvalidMessage", func(t *testing.T) {
			_, err := bfv.GenerateProverKnowledge([]bfv.Statement{priv}, []bfv.Message{{Plaintext: []uint64{1 << 20}}}, []bfv.Witness{wPriv}, params)
			assert.ErrorIs(t, err, sdlp.ErrConfiguration)
		})

		t.Run("WrongRing", func(t *testing.T) {
			other := bfv.ParametersLiteral{
				LogN:         params.LogN() + 1,
				LogQ:         []int{27},
				PlainModulus: 256,
			}.Compile()
			encOther := newEncryptor(t, other)
			skOther := encOther.GenSecretKey()
			ctOther, wOther, err := encOther.EncryptPrivate(testMessage(other, 1), skOther)
			require.NoError(t, err)

			_, err = bfv.GenerateVerifierKnowledge([]bfv.Statement{bfv.NewPrivateKeyEncryptionStatement(0, ctOther)}, nil, params)
			assert.ErrorIs(t, err, sdlp.ErrConfiguration)

			_, err = bfv.GenerateProverKnowledge([]bfv.Statement{priv}, messages[:1], []bfv.Witness{wOther}, params)
			assert.ErrorIs(t, err, sdlp.ErrConfiguration)
		})

		t.Run("WrongMessage", func(t *testing.T) {
			prover, err := bfv.GenerateProverKnowledge([]bfv.Statement{priv}, messages[1:], []bfv.Witness{wPriv}, params)
			require.NoError(t, err)

			AS, err := matrix.MulMod(r, f, prover.A(), prover.S())
			require.NoError(t, err)
			assert.False(t, matrix.EqualMod(r, AS, prover.T()))
		})
	}
}

func TestProof(t *testing.T) {
	params := testParams
	enc := newEncryptor(t, params)
	sk := enc.GenSecretKey()
	pk := enc.GenPublicKey(sk)
	m := testMessage(params, 3)

	ctPub, wPub, err := enc.EncryptPublic(m, pk)
	require.NoError(t, err)
	ctPriv, wPriv, err := enc.EncryptPrivate(m, sk)
	require.NoError(t, err)

	statements := []bfv.Statement{
		bfv.NewPublicKeyEncryptionStatement(0, ctPub, pk),
		bfv.NewPrivateKeyEncryptionStatement(0, ctPriv),
		bfv.NewDecryptionStatement(0, ctPriv),
	}
	witnesses := []bfv.Witness{wPub, wPriv, bfv.NewDecryptionWitness(sk)}
	messages := []bfv.Message{{Plaintext: m}}

	prover, err := bfv.GenerateProverKnowledge(statements, messages, witnesses, params)
	require.NoError(t, err)
	verifier, err := bfv.GenerateVerifierKnowledge(statements, nil, params)
	require.NoError(t, err)

	gens, err := generator.Derive("bfv-test", verifier.L())
	require.NoError(t, err)

	proof, err := sdlp.Create(transcript.New("bfv"), prover, gens.G, gens.H, gens.U)
	require.NoError(t, err)

	t.Run("Verify", func(t *testing.T) {
		assert.NoError(t, proof.Verify(transcript.New("bfv"), verifier, gens.G, gens.H, gens.U))
	})

	t.Run("Marshal", func(t *testing.T) {
		data, err := proof.MarshalBinary()
		require.NoError(t, err)

		var decoded sdlp.LogProof
		require.NoError(t, decoded.UnmarshalBinary(data))
		assert.NoError(t, decoded.Verify(transcript.New("bfv"), verifier, gens.G, gens.H, gens.U))
	})

	t.Run("OtherCiphertext", func(t *testing.T) {
		ctOther, _, err := enc.EncryptPrivate(m, sk)
		require.NoError(t, err)

		other := append([]bfv.Statement{}, statements...)
		other[1] = bfv.NewPrivateKeyEncryptionStatement(0, ctOther)
		vkOther, err := bfv.GenerateVerifierKnowledge(other, nil, params)
		require.NoError(t, err)
		assert.ErrorIs(t, proof.Verify(transcript.New("bfv"), vkOther, gens.G, gens.H, gens.U), sdlp.ErrVerification)
	})
}
