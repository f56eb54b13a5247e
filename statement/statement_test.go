package statement_test

import (
	"math/big"
	"testing"

	"github.com/sp301415/ringo-sdlp/bigring"
	"github.com/sp301415/ringo-sdlp/csprng"
	"github.com/sp301415/ringo-sdlp/generator"
	"github.com/sp301415/ringo-sdlp/matrix"
	"github.com/sp301415/ringo-sdlp/sdlp"
	"github.com/sp301415/ringo-sdlp/statement"
	"github.com/sp301415/ringo-sdlp/transcript"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// toyScheme is a BFV-like scheme over Z_q[X]/(X^d + 1).
type toyScheme struct {
	d int
	q *big.Int
	t *big.Int
}

func newToyScheme() toyScheme {
	return toyScheme{d: 4, q: big.NewInt(12289), t: big.NewInt(16)}
}

func (s toyScheme) Degree() int { return s.d }
func (s toyScheme) CiphertextModulus() *big.Int { return s.q }
func (s toyScheme) PlaintextModulus() *big.Int { return s.t }
func (s toyScheme) Delta() *big.Int { return big.NewInt(0).Quo(s.q, s.t) }

func (s toyScheme) Remainder(m bigring.BigPoly) bigring.BigPoly {
	return statement.ScaledRemainder(s.q, s.t, s.Delta(), m)
}

func (s toyScheme) BoundConstants() statement.BoundConstants {
	return statement.BoundConstants{
		Message:         s.t.Uint64(),
		Remainder:       s.t.Uint64(),
		Uniform:         1,
		Secret:          1,
		Error:           2,
		DecryptionError: s.Delta().Uint64()/2 + s.t.Uint64(),
	}
}

// fixture encrypts messages under toyScheme.
type fixture struct {
	scheme  toyScheme
	ring    *bigring.Ring
	f       bigring.BigPoly
	sampler *csprng.UniformSampler

	sk bigring.BigPoly
	p0 bigring.BigPoly
	p1 bigring.BigPoly
}

func newFixture() *fixture {
	fx := &fixture{
		scheme:  newToyScheme(),
		sampler: csprng.NewUniformSamplerWithSeed([]byte("statement-test")),
	}
	fx.ring = bigring.NewRing(fx.scheme.q)
	fx.f = statement.Cyclotomic(fx.scheme.d)

	fx.sk = fx.small(1)
	fx.p1 = fx.uniform()
	fx.p0 = fx.ring.Neg(fx.ring.Add(fx.mul(fx.p1, fx.sk), fx.ring.Reduce(fx.small(2))))
	return fx
}

func (fx *fixture) small(B uint64) bigring.BigPoly {
	p := bigring.NewBigPoly(fx.scheme.d)
	for i := range p.Coeffs {
		p.Coeffs[i].SetInt64(int64(fx.sampler.SampleN(2*B+1)) - int64(B))
	}
	return p
}

func (fx *fixture) uniform() bigring.BigPoly {
	p := bigring.NewBigPoly(fx.scheme.d)
	for i := range p.Coeffs {
		p.Coeffs[i].SetUint64(fx.sampler.SampleN(fx.scheme.q.Uint64()))
	}
	return p
}

func (fx *fixture) message() bigring.BigPoly {
	p := bigring.NewBigPoly(fx.scheme.d)
	for i := range p.Coeffs {
		p.Coeffs[i].SetUint64(fx.sampler.SampleN(fx.scheme.t.Uint64()))
	}
	return p
}

func (fx *fixture) mul(p0, p1 bigring.BigPoly) bigring.BigPoly {
	_, rem := fx.ring.DivRem(fx.ring.Mul(fx.ring.Reduce(p0), fx.ring.Reduce(p1)), fx.f)
	return rem
}

// scaled returns Delta * m + r.
func (fx *fixture) scaled(m bigring.BigPoly) bigring.BigPoly {
	dm := fx.ring.ScalarMul(m, fx.scheme.Delta())
	return fx.ring.Add(dm, fx.ring.Reduce(fx.scheme.Remainder(m)))
}

func (fx *fixture) encryptPublic(id int, m bigring.BigPoly) (statement.Statement, statement.Witness) {
	u, e0, e1 := fx.small(1), fx.small(2), fx.small(2)
	c0 := fx.ring.Add(fx.ring.Add(fx.scaled(m), fx.mul(u, fx.p0)), fx.ring.Reduce(e0))
	c1 := fx.ring.Add(fx.mul(u, fx.p1), fx.ring.Reduce(e1))

	return statement.Statement{
			Kind:      statement.PublicKeyEncryption,
			MessageID: id,
			C0:        c0,
			C1:        c1,
			P0:        fx.p0,
			P1:        fx.p1,
		}, statement.Witness{
			Kind: statement.PublicKeyEncryption,
			U:    u,
			E0:   e0,
			E1:   e1,
		}
}

func (fx *fixture) encryptPrivate(id int, m bigring.BigPoly) (statement.Statement, statement.Witness) {
	c1 := fx.uniform()
	e := fx.small(2)
	c0 := fx.ring.Sub(fx.scaled(m), fx.ring.Add(fx.mul(c1, fx.sk), fx.ring.Reduce(e)))

	return statement.Statement{
			Kind:      statement.PrivateKeyEncryption,
			MessageID: id,
			C0:        c0,
			C1:        c1,
		}, statement.Witness{
			Kind:      statement.PrivateKeyEncryption,
			SecretKey: fx.sk,
			E:         e,
		}
}

func (fx *fixture) decrypt(id int, m bigring.BigPoly) (statement.Statement, statement.Witness) {
	st, _ := fx.encryptPrivate(id, m)
	st.Kind = statement.Decryption
	return st, statement.Witness{
		Kind:      statement.Decryption,
		SecretKey: fx.sk,
	}
}

func TestIdxOffsets(t *testing.T) {
	statements := []statement.Statement{
		{Kind: statement.PublicKeyEncryption, MessageID: 0},
		{Kind: statement.PublicKeyEncryption, MessageID: 1},
		{Kind: statement.PrivateKeyEncryption, MessageID: 0},
	}

	offsets := statement.NewIdxOffsets(statements)
	assert.Equal(t, statement.IdxOffsets{
		Remainder: 2,
		PublicKey: 5,
		PublicE0:  7,
		PublicE1:  9,
		PrivateA:  11,
		PrivateE:  12,
	}, offsets)

	rows, cols := offsets.AShape()
	assert.Equal(t, 5, rows)
	assert.Equal(t, 13, cols)

	t.Run("Inc", func(t *testing.T) {
		o := offsets
		o.IncPublic()
		assert.Equal(t, statement.IdxOffsets{Remainder: 3, PublicKey: 6, PublicE0: 8, PublicE1: 10, PrivateA: 11, PrivateE: 12}, o)
		o.IncPrivate()
		assert.Equal(t, statement.IdxOffsets{Remainder: 4, PublicKey: 6, PublicE0: 8, PublicE1: 10, PrivateA: 12, PrivateE: 13}, o)
	})

	t.Run("NumMessages", func(t *testing.T) {
		assert.Equal(t, 2, statement.NumMessages(statements))
		assert.Equal(t, 4, statement.NumMessages([]statement.Statement{{MessageID: 3}}))
	})
}

func TestScaledRemainder(t *testing.T) {
	s := newToyScheme()
	m := bigring.NewBigPolyFromInt64(0, 1, 8, 15)
	r := statement.ScaledRemainder(s.q, s.t, s.Delta(), m)
	assert.True(t, r.Equal(bigring.NewBigPolyFromInt64(0, 0, 1, 1)))
}

func TestGenerateKnowledge(t *testing.T) {
	fx := newFixture()
	m0, m1 := fx.message(), fx.message()

	pub0, wPub0 := fx.encryptPublic(0, m0)
	pub1, wPub1 := fx.encryptPublic(1, m1)
	priv, wPriv := fx.encryptPrivate(0, m0)
	dec, wDec := fx.decrypt(1, m1)

	messages := []statement.Message{{Plaintext: m0}, {Plaintext: m1}}

	tests := []struct {
		name       string
		statements []statement.Statement
		witnesses  []statement.Witness
		messages   []statement.Message
	}{
		{"Public", []statement.Statement{pub0}, []statement.Witness{wPub0}, messages[:1]},
		{"Private", []statement.Statement{priv}, []statement.Witness{wPriv}, messages[:1]},
		{"Decryption", []statement.Statement{dec}, []statement.Witness{wDec}, messages},
		{"Mixed", []statement.Statement{pub0, pub1, priv}, []statement.Witness{wPub0, wPub1, wPriv}, messages},
		{"SharedMessage", []statement.Statement{pub0, priv}, []statement.Witness{wPub0, wPriv}, messages[:1]},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			pk, err := statement.GenerateProverKnowledge(fx.scheme, tc.statements, tc.messages, tc.witnesses)
			require.NoError(t, err)

			AS, err := matrix.MulMod(fx.ring, fx.f, pk.A(), pk.S())
			require.NoError(t, err)
			assert.True(t, matrix.EqualMod(fx.ring, AS, pk.T()))

			vk, err := statement.GenerateVerifierKnowledge(fx.scheme, tc.statements, nil)
			require.NoError(t, err)
			assert.Equal(t, pk.L(), vk.L())
		})
	}

	t.Run("Prove", func(t *testing.T) {
		statements := []statement.Statement{pub0, pub1, priv}
		pk, err := statement.GenerateProverKnowledge(fx.scheme, statements, messages, []statement.Witness{wPub0, wPub1, wPriv})
		require.NoError(t, err)
		vk, err := statement.GenerateVerifierKnowledge(fx.scheme, statements, nil)
		require.NoError(t, err)

		gens, err := generator.Derive("statement-test", vk.L())
		require.NoError(t, err)

		proof, err := sdlp.Create(transcript.New("test"), pk, gens.G, gens.H, gens.U)
		require.NoError(t, err)
		assert.NoError(t, proof.Verify(transcript.New("test"), vk, gens.G, gens.H, gens.U))

		wrong := []statement.Statement{pub1, pub0, priv}
		vkWrong, err := statement.GenerateVerifierKnowledge(fx.scheme, wrong, nil)
		require.NoError(t, err)
		assert.ErrorIs(t, proof.Verify(transcript.New("test"), vkWrong, gens.G, gens.H, gens.U), sdlp.ErrVerification)
	})

	t.Run("MessageBounds", func(t *testing.T) {
		tight := sdlp.UniformBounds(fx.scheme.d, 15)
		pk, err := statement.GenerateProverKnowledge(fx.scheme, []statement.Statement{pub0}, []statement.Message{{Plaintext: m0, Bounds: tight}}, []statement.Witness{wPub0})
		require.NoError(t, err)

		vk, err := statement.GenerateVerifierKnowledge(fx.scheme, []statement.Statement{pub0}, nil)
		require.NoError(t, err)
		assert.Less(t, pk.L(), vk.L())
	})
}

func TestGenerateKnowledgeErrors(t *testing.T) {
	fx := newFixture()
	m := fx.message()
	pub, wPub := fx.encryptPublic(0, m)
	priv, wPriv := fx.encryptPrivate(0, m)
	messages := []statement.Message{{Plaintext: m}}

	t.Run("NoStatements", func(t *testing.T) {
		_, err := statement.GenerateVerifierKnowledge(fx.scheme, nil, nil)
		assert.ErrorIs(t, err, sdlp.ErrConfiguration)
	})

	t.Run("KindMismatch", func(t *testing.T) {
		_, err := statement.GenerateProverKnowledge(fx.scheme, []statement.Statement{pub}, messages, []statement.Witness{wPriv})
		assert.ErrorIs(t, err, sdlp.ErrConfiguration)
	})

	t.Run("WitnessCount", func(t *testing.T) {
		_, err := statement.GenerateProverKnowledge(fx.scheme, []statement.Statement{pub, priv}, messages, []statement.Witness{wPub})
		assert.ErrorIs(t, err, sdlp.ErrConfiguration)
	})

	t.Run("MessageCount", func(t *testing.T) {
		_, err := statement.GenerateProverKnowledge(fx.scheme, []statement.Statement{pub}, nil, []statement.Witness{wPub})
		assert.ErrorIs(t, err, sdlp.ErrConfiguration)
	})

	t.Run("NegativeMessageID", func(t *testing.T) {
		bad := pub
		bad.MessageID = -1
		_, err := statement.GenerateVerifierKnowledge(fx.scheme, []statement.Statement{bad}, nil)
		assert.ErrorIs(t, err, sdlp.ErrConfiguration)
	})

	t.Run("DegreeTooLarge", func(t *testing.T) {
		bad := priv
		bad.C1 = bigring.NewBigPolyFromInt64(0, 0, 0, 0, 1)
		_, err := statement.GenerateVerifierKnowledge(fx.scheme, []statement.Statement{bad}, nil)
		assert.ErrorIs(t, err, sdlp.ErrConfiguration)
	})

	t.Run("WrongWitness", func(t *testing.T) {
		bad := wPub
		bad.E0 = fx.small(2)
		bad.E0.Coeffs[0].Add(bad.E0.Coeffs[0], big.NewInt(100))
		pk, err := statement.GenerateProverKnowledge(fx.scheme, []statement.Statement{pub}, messages, []statement.Witness{bad})
		require.NoError(t, err)

		gens, err := generator.Derive("statement-test", pk.L())
		require.NoError(t, err)
		_, err = sdlp.Create(transcript.New("test"), pk, gens.G, gens.H, gens.U)
		assert.ErrorIs(t, err, sdlp.ErrEncoding)
	})
}
