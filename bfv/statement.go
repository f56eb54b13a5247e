package bfv

import (
	"github.com/pkg/errors"
	"github.com/sp301415/ringo-sdlp/bigring"
	"github.com/sp301415/ringo-sdlp/sdlp"
	"github.com/sp301415/ringo-sdlp/statement"
	"github.com/tuneinsight/lattigo/v6/ring"
)

// Statement is a BFV encryption or decryption statement.
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

	U  ring.Poly
	E0 ring.Poly
	E1 ring.Poly

	SecretKey SecretKey
	E         ring.Poly
}

// NewPublicKeyEncryptionWitness returns the witness of a public key encryption.
func NewPublicKeyEncryptionWitness(u, e0, e1 ring.Poly) Witness {
	return Witness{
		Kind: statement.PublicKeyEncryption,
		U:    u,
		E0:   e0,
		E1:   e1,
	}
}

// NewPrivateKeyEncryptionWitness returns the witness of a private key encryption.
func NewPrivateKeyEncryptionWitness(sk SecretKey, e ring.Poly) Witness {
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

// Message is a plaintext message with coefficients in [0, t).
type Message struct {
	Plaintext []uint64
	// Bounds overrides the default message bound if not nil.
	Bounds sdlp.Bounds
}

// GenerateVerifierKnowledge encodes statements into a relation.
// msgBounds[j] overrides the default bound of message j if present and not nil.
func GenerateVerifierKnowledge(statements []Statement, msgBounds []sdlp.Bounds, params Parameters) (*sdlp.VerifierKnowledge, error) {
	rns := NewRNSReconstructor(params)

	sts := make([]statement.Statement, len(statements))
	for i := range statements {
		st, err := params.convertStatement(rns, statements[i])
		if err != nil {
			return nil, errors.Wrapf(err, "statement %d", i)
		}
		sts[i] = st
	}
	return statement.GenerateVerifierKnowledge(params, sts, msgBounds)
}

// GenerateProverKnowledge encodes statements together with their messages and witnesses.
// messages[j] is the message with MessageID j, and witnesses[i] is the witness of statements[i].
func GenerateProverKnowledge(statements []Statement, messages []Message, witnesses []Witness, params Parameters) (*sdlp.ProverKnowledge, error) {
	if len(witnesses) != len(statements) {
		return nil, errors.Wrapf(sdlp.ErrConfiguration, "%d witnesses for %d statements", len(witnesses), len(statements))
	}

	rns := NewRNSReconstructor(params)

	sts := make([]statement.Statement, len(statements))
	ws := make([]statement.Witness, len(witnesses))
	for i := range statements {
		st, err := params.convertStatement(rns, statements[i])
		if err != nil {
			return nil, errors.Wrapf(err, "statement %d", i)
		}
		w, err := params.convertWitness(rns, witnesses[i])
		if err != nil {
			return nil, errors.Wrapf(err, "witness %d", i)
		}
		sts[i], ws[i] = st, w
	}

	msgs := make([]statement.Message, len(messages))
	for j := range messages {
		m, err := plaintextToBigPoly(params, messages[j].Plaintext)
		if err != nil {
			return nil, errors.Wrap(sdlp.ErrConfiguration, err.Error())
		}
		msgs[j] = statement.Message{Plaintext: m, Bounds: messages[j].Bounds}
	}

	return statement.GenerateProverKnowledge(params, sts, msgs, ws)
}

func (p Parameters) convertStatement(rns *RNSReconstructor, s Statement) (statement.Statement, error) {
	st := statement.Statement{Kind: s.Kind, MessageID: s.MessageID}

	polys := []ring.Poly{s.Ciphertext.C0, s.Ciphertext.C1}
	outs := []*bigring.BigPoly{&st.C0, &st.C1}
	names := []string{"c0", "c1"}
	if s.Kind.IsPublic() {
		polys = append(polys, s.PublicKey.P0, s.PublicKey.P1)
		outs = append(outs, &st.P0, &st.P1)
		names = append(names, "p0", "p1")
	}

	for i := range polys {
		out, err := p.reconstruct(rns, polys[i], names[i])
		if err != nil {
			return statement.Statement{}, err
		}
		*outs[i] = out
	}
	return st, nil
}

func (p Parameters) convertWitness(rns *RNSReconstructor, w Witness) (statement.Witness, error) {
	ws := statement.Witness{Kind: w.Kind}

	var polys []ring.Poly
	var outs []*bigring.BigPoly
	var names []string
	switch w.Kind {
	case statement.PublicKeyEncryption:
		polys = []ring.Poly{w.U, w.E0, w.E1}
		outs = []*bigring.BigPoly{&ws.U, &ws.E0, &ws.E1}
		names = []string{"u", "e0", "e1"}
	case statement.PrivateKeyEncryption:
		polys = []ring.Poly{w.SecretKey.S, w.E}
		outs = []*bigring.BigPoly{&ws.SecretKey, &ws.E}
		names = []string{"s", "e"}
	case statement.Decryption:
		polys = []ring.Poly{w.SecretKey.S}
		outs = []*bigring.BigPoly{&ws.SecretKey}
		names = []string{"s"}
	}

	for i := range polys {
		out, err := p.reconstruct(rns, polys[i], names[i])
		if err != nil {
			return statement.Witness{}, err
		}
		*outs[i] = out
	}
	return ws, nil
}

// reconstruct returns poly as a BigPoly modulo Q.
// poly must be defined over RingQ.
func (p Parameters) reconstruct(rns *RNSReconstructor, poly ring.Poly, name string) (bigring.BigPoly, error) {
	if poly.Level() < p.ringQ.Level() || poly.N() != p.ringQ.N() {
		return bigring.BigPoly{}, errors.Wrapf(sdlp.ErrConfiguration, "%s is not defined over the ring of degree %d and level %d", name, p.ringQ.N(), p.ringQ.Level())
	}
	return rns.Reconstruct(poly), nil
}
