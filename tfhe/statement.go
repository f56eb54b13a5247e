package tfhe

import (
	"github.com/pkg/errors"
	"github.com/sp301415/ringo-sdlp/bigring"
	"github.com/sp301415/ringo-sdlp/sdlp"
	"github.com/sp301415/ringo-sdlp/statement"
)

// Statement is a GLWE encryption or decryption statement.
//
// A ciphertext (A, B) is encoded as (c0, c1) = (B, -A),
// and a public key (A, B) as (p0, p1) = (B, -A).
type Statement struct {
	Kind      statement.Kind
	MessageID int

	Ciphertext Ciphertext
	// PublicKey is only used for PublicKeyEncryption.
	PublicKey PublicKey
}

// NewPublicKeyEncryptionStatement claims that ct encrypts message msgID under pk.
func NewPublicKeyEncryptionStatement(msgID int, ct Ciphertext, pk PublicKey) Statement {
	return Statement{
		Kind:       statement.PublicKeyEncryption,
		MessageID:  msgID,
		Ciphertext: ct,
		PublicKey:  pk,
	}
}

// NewPrivateKeyEncryptionStatement claims that ct encrypts message msgID under a secret key.
func NewPrivateKeyEncryptionStatement(msgID int, ct Ciphertext) Statement {
	return Statement{
		Kind:       statement.PrivateKeyEncryption,
		MessageID:  msgID,
		Ciphertext: ct,
	}
}

// NewDecryptionStatement claims that ct decrypts to message msgID under a secret key.
func NewDecryptionStatement(msgID int, ct Ciphertext) Statement {
	return Statement{
		Kind:       statement.Decryption,
		MessageID:  msgID,
		Ciphertext: ct,
	}
}

// Witness is the witness of a Statement.
type Witness struct {
	Kind statement.Kind

	U  []uint64
	E0 []uint64
	E1 []uint64

	SecretKey SecretKey
	E         []uint64
}

// NewPublicKeyEncryptionWitness returns the witness of a public key encryption.
func NewPublicKeyEncryptionWitness(u, e0, e1 []uint64) Witness {
	return Witness{
		Kind: statement.PublicKeyEncryption,
		U:    u,
		E0:   e0,
		E1:   e1,
	}
}

// NewPrivateKeyEncryptionWitness returns the witness of a private key encryption.
func NewPrivateKeyEncryptionWitness(sk SecretKey, e []uint64) Witness {
	return Witness{
		Kind:      statement.PrivateKeyEncryption,
		SecretKey: sk,
		E:         e,
	}
}

// NewDecryptionWitness returns the witness of a decryption.
func NewDecryptionWitness(sk SecretKey) Witness {
	return Witness{
		Kind:      statement.Decryption,
		SecretKey: sk,
	}
}

// Message is a plaintext message with coefficients in [0, 2^PlaintextBits).
type Message struct {
	Plaintext []uint64
	// Bounds overrides the default message bound if not nil.
	Bounds sdlp.Bounds
}

// GenerateVerifierKnowledge encodes statements into a relation.
// msgBounds[j] overrides the default bound of message j if present and not nil.
func GenerateVerifierKnowledge(statements []Statement, msgBounds []sdlp.Bounds, params GlweDef) (*sdlp.VerifierKnowledge, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	sts := make([]statement.Statement, len(statements))
	for i := range statements {
		sts[i] = params.convertStatement(statements[i])
	}
	return statement.GenerateVerifierKnowledge(params, sts, msgBounds)
}

// GenerateProverKnowledge encodes statements together with their messages and witnesses.
// messages[j] is the message with MessageID j, and witnesses[i] is the witness of statements[i].
func GenerateProverKnowledge(statements []Statement, messages []Message, witnesses []Witness, params GlweDef) (*sdlp.ProverKnowledge, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}

	sts := make([]statement.Statement, len(statements))
	for i := range statements {
		sts[i] = params.convertStatement(statements[i])
	}

	ws := make([]statement.Witness, len(witnesses))
	for i := range witnesses {
		ws[i] = params.convertWitness(witnesses[i])
	}

	t := uint64(1) << params.PlaintextBits
	msgs := make([]statement.Message, len(messages))
	for j := range messages {
		for _, c := range messages[j].Plaintext {
			if c >= t {
				return nil, errors.Wrapf(sdlp.ErrConfiguration, "message %d has coefficient %d, want less than %d", j, c, t)
			}
		}
		msgs[j] = statement.Message{
			Plaintext: params.toBigPoly(messages[j].Plaintext),
			Bounds:    messages[j].Bounds,
		}
	}

	return statement.GenerateProverKnowledge(params, sts, msgs, ws)
}

func (p GlweDef) convertStatement(s Statement) statement.Statement {
	st := statement.Statement{
		Kind:      s.Kind,
		MessageID: s.MessageID,
		C0:        p.toBigPoly(s.Ciphertext.B),
		C1:        p.negBigPoly(s.Ciphertext.A),
	}
	if s.Kind.IsPublic() {
		st.P0 = p.toBigPoly(s.PublicKey.B)
		st.P1 = p.negBigPoly(s.PublicKey.A)
	}
	return st
}

// convertWitness negates e1 and e, following (c0, c1) = (B, -A).
func (p GlweDef) convertWitness(w Witness) statement.Witness {
	ws := statement.Witness{Kind: w.Kind}
	switch w.Kind {
	case statement.PublicKeyEncryption:
		ws.U = p.toBigPoly(w.U)
		ws.E0 = p.toBigPoly(w.E0)
		ws.E1 = p.negBigPoly(w.E1)
	case statement.PrivateKeyEncryption:
		ws.SecretKey = p.toBigPoly(w.SecretKey.S)
		ws.E = p.negBigPoly(w.E)
	case statement.Decryption:
		ws.SecretKey = p.toBigPoly(w.SecretKey.S)
	}
	return ws
}

func (p GlweDef) negBigPoly(p0 []uint64) bigring.BigPoly {
	return p.toBigPoly(p.neg(p0))
}
