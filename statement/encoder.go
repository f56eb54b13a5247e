package statement

import (
	"math/big"

	"github.com/pkg/errors"
	"github.com/sp301415/ringo-sdlp/bigring"
	"github.com/sp301415/ringo-sdlp/matrix"
	"github.com/sp301415/ringo-sdlp/sdlp"
)

// Cyclotomic returns X^d + 1.
func Cyclotomic(d int) bigring.BigPoly {
	f := bigring.NewBigPoly(d + 1)
	f.Coeffs[0].SetInt64(1)
	f.Coeffs[d].SetInt64(1)
	return f
}

// encoder holds the constants shared by the encoding of A, S and T.
type encoder struct {
	scheme Scheme
	ring   *bigring.Ring
	f      bigring.BigPoly
	d      int
	q      *big.Int
}

func newEncoder(scheme Scheme) (*encoder, error) {
	d := scheme.Degree()
	if d < 1 {
		return nil, errors.Wrapf(sdlp.ErrConfiguration, "invalid ring degree %d", d)
	}
	q := scheme.CiphertextModulus()
	if q == nil || q.Cmp(big.NewInt(2)) < 0 {
		return nil, errors.Wrap(sdlp.ErrConfiguration, "ciphertext modulus must be at least 2")
	}

	return &encoder{
		scheme: scheme,
		ring:   bigring.NewRing(q),
		f:      Cyclotomic(d),
		d:      d,
		q:      q,
	}, nil
}

// reduce returns p reduced modulo q with exactly d coefficients.
func (e *encoder) reduce(p bigring.BigPoly, name string, idx int) (bigring.BigPoly, error) {
	if p.Degree() >= e.d {
		return bigring.BigPoly{}, errors.Wrapf(sdlp.ErrConfiguration, "%s of statement %d has degree %d, want less than %d", name, idx, p.Degree(), e.d)
	}
	return e.ring.Reduce(p).Pad(e.d), nil
}

// constant returns the constant polynomial c mod q.
func (e *encoder) constant(c *big.Int) bigring.BigPoly {
	p := bigring.NewBigPoly(1)
	p.Coeffs[0].Mod(c, e.q)
	return p
}

func validateStatements(statements []Statement) error {
	if len(statements) == 0 {
		return errors.Wrap(sdlp.ErrConfiguration, "no statements")
	}
	for i, s := range statements {
		if s.MessageID < 0 {
			return errors.Wrapf(sdlp.ErrConfiguration, "statement %d has negative message id %d", i, s.MessageID)
		}
		switch s.Kind {
		case PrivateKeyEncryption, PublicKeyEncryption, Decryption:
		default:
			return errors.Wrapf(sdlp.ErrConfiguration, "statement %d has unknown kind %d", i, s.Kind)
		}
	}
	return nil
}

func set(m *matrix.PolyMatrix, i, j int, p bigring.BigPoly) error {
	if err := m.Set(i, j, p); err != nil {
		return errors.Wrap(sdlp.ErrEncoding, err.Error())
	}
	return nil
}

// computeA places the public polynomials of every statement into A.
func (e *encoder) computeA(statements []Statement) (*matrix.PolyMatrix, error) {
	offsets := NewIdxOffsets(statements)
	rows, cols := offsets.AShape()
	a := matrix.NewPoly(rows, cols)

	delta := e.constant(e.scheme.Delta())
	one := e.constant(big.NewInt(1))

	row := 0
	for i, s := range statements {
		if err := set(a, row, s.MessageID, delta); err != nil {
			return nil, err
		}
		if err := set(a, row, offsets.Remainder, one); err != nil {
			return nil, err
		}

		switch s.Kind {
		case PublicKeyEncryption:
			p0, err := e.reduce(s.P0, "p0", i)
			if err != nil {
				return nil, err
			}
			p1, err := e.reduce(s.P1, "p1", i)
			if err != nil {
				return nil, err
			}

			if err := set(a, row, offsets.PublicKey, p0); err != nil {
				return nil, err
			}
			if err := set(a, row+1, offsets.PublicKey, p1); err != nil {
				return nil, err
			}
			if err := set(a, row, offsets.PublicE0, one); err != nil {
				return nil, err
			}
			if err := set(a, row+1, offsets.PublicE1, one); err != nil {
				return nil, err
			}
			row += 2
		default:
			c1, err := e.reduce(s.C1, "c1", i)
			if err != nil {
				return nil, err
			}

			if err := set(a, row, offsets.PrivateA, c1); err != nil {
				return nil, err
			}
			if err := set(a, row, offsets.PrivateE, one); err != nil {
				return nil, err
			}
			row++
		}
		offsets.Inc(s.Kind)
	}

	return a, nil
}

// computeT stacks the ciphertexts of every statement into a column.
func (e *encoder) computeT(statements []Statement) (*matrix.PolyMatrix, error) {
	col := make([]bigring.BigPoly, 0, 2*len(statements))
	for i, s := range statements {
		c0, err := e.reduce(s.C0, "c0", i)
		if err != nil {
			return nil, err
		}
		col = append(col, c0)

		if s.Kind.IsPublic() {
			c1, err := e.reduce(s.C1, "c1", i)
			if err != nil {
				return nil, err
			}
			col = append(col, c1)
		}
	}
	return matrix.NewColumn(col), nil
}

// computeBounds returns the bounds of S as a column.
func (e *encoder) computeBounds(statements []Statement, msgBounds []sdlp.Bounds) (*matrix.Matrix[sdlp.Bounds], error) {
	offsets := NewIdxOffsets(statements)
	_, cols := offsets.AShape()
	bounds := matrix.New[sdlp.Bounds](cols, 1)
	bc := e.scheme.BoundConstants()

	setBounds := func(j int, B uint64) error {
		if err := bounds.Set(j, 0, sdlp.UniformBounds(e.d, B)); err != nil {
			return errors.Wrap(sdlp.ErrEncoding, err.Error())
		}
		return nil
	}

	numMessages := NumMessages(statements)
	for j := 0; j < numMessages; j++ {
		if j < len(msgBounds) && msgBounds[j] != nil {
			if err := bounds.Set(j, 0, msgBounds[j]); err != nil {
				return nil, errors.Wrap(sdlp.ErrEncoding, err.Error())
			}
			continue
		}
		if err := setBounds(j, bc.Message); err != nil {
			return nil, err
		}
	}

	for _, s := range statements {
		if err := setBounds(offsets.Remainder, bc.Remainder); err != nil {
			return nil, err
		}

		switch s.Kind {
		case PublicKeyEncryption:
			if err := setBounds(offsets.PublicKey, bc.Uniform); err != nil {
				return nil, err
			}
			if err := setBounds(offsets.PublicE0, bc.Error); err != nil {
				return nil, err
			}
			if err := setBounds(offsets.PublicE1, bc.Error); err != nil {
				return nil, err
			}
		case PrivateKeyEncryption:
			if err := setBounds(offsets.PrivateA, bc.Secret); err != nil {
				return nil, err
			}
			if err := setBounds(offsets.PrivateE, bc.Error); err != nil {
				return nil, err
			}
		case Decryption:
			if err := setBounds(offsets.PrivateA, bc.Secret); err != nil {
				return nil, err
			}
			if err := setBounds(offsets.PrivateE, bc.DecryptionError); err != nil {
				return nil, err
			}
		}
		offsets.Inc(s.Kind)
	}

	return bounds, nil
}

// computeS places the messages and witnesses into S.
func (e *encoder) computeS(statements []Statement, messages []Message, witnesses []Witness) (*matrix.PolyMatrix, error) {
	offsets := NewIdxOffsets(statements)
	_, cols := offsets.AShape()
	s := matrix.NewPoly(cols, 1)

	plaintexts := make([]bigring.BigPoly, len(messages))
	for j, msg := range messages {
		if msg.Plaintext.Degree() >= e.d {
			return nil, errors.Wrapf(sdlp.ErrConfiguration, "message %d has degree %d, want less than %d", j, msg.Plaintext.Degree(), e.d)
		}
		plaintexts[j] = msg.Plaintext.Pad(e.d)
		if err := set(s, j, 0, e.ring.Reduce(plaintexts[j])); err != nil {
			return nil, err
		}
	}

	for i, st := range statements {
		w := witnesses[i]
		m := plaintexts[st.MessageID]

		r, err := e.reduce(e.scheme.Remainder(m), "remainder", i)
		if err != nil {
			return nil, err
		}
		if err := set(s, offsets.Remainder, 0, r); err != nil {
			return nil, err
		}

		switch st.Kind {
		case PublicKeyEncryption:
			for _, b := range []struct {
				name string
				p    bigring.BigPoly
				idx  int
			}{
				{"u", w.U, offsets.PublicKey},
				{"e0", w.E0, offsets.PublicE0},
				{"e1", w.E1, offsets.PublicE1},
			} {
				p, err := e.reduce(b.p, b.name, i)
				if err != nil {
					return nil, err
				}
				if err := set(s, b.idx, 0, p); err != nil {
					return nil, err
				}
			}
		case PrivateKeyEncryption, Decryption:
			sk, err := e.reduce(w.SecretKey, "secret key", i)
			if err != nil {
				return nil, err
			}

			var errPoly bigring.BigPoly
			if st.Kind == Decryption {
				if errPoly, err = e.decryptionError(st, m, r, sk, i); err != nil {
					return nil, err
				}
			} else if errPoly, err = e.reduce(w.E, "e", i); err != nil {
				return nil, err
			}

			if err := set(s, offsets.PrivateA, 0, e.ring.Neg(sk)); err != nil {
				return nil, err
			}
			if err := set(s, offsets.PrivateE, 0, e.ring.Neg(errPoly)); err != nil {
				return nil, err
			}
		}
		offsets.Inc(st.Kind)
	}

	return s, nil
}

// decryptionError returns Delta * m + r - c0 - c1 * s mod (f, q),
// the error that makes a decryption statement hold.
func (e *encoder) decryptionError(st Statement, m, r, sk bigring.BigPoly, idx int) (bigring.BigPoly, error) {
	c0, err := e.reduce(st.C0, "c0", idx)
	if err != nil {
		return bigring.BigPoly{}, err
	}
	c1, err := e.reduce(st.C1, "c1", idx)
	if err != nil {
		return bigring.BigPoly{}, err
	}

	_, c1s := e.ring.DivRem(e.ring.Mul(c1, sk), e.f)

	errPoly := e.ring.ScalarMul(e.ring.Reduce(m), e.scheme.Delta())
	e.ring.AddAssign(errPoly, r, errPoly)
	e.ring.SubAssign(errPoly, c0, errPoly)
	e.ring.SubAssign(errPoly, c1s, errPoly)
	return errPoly, nil
}

// GenerateVerifierKnowledge encodes statements into a relation.
// msgBounds[j] overrides the default bound of message j if present and not nil.
func GenerateVerifierKnowledge(scheme Scheme, statements []Statement, msgBounds []sdlp.Bounds) (*sdlp.VerifierKnowledge, error) {
	if err := validateStatements(statements); err != nil {
		return nil, err
	}
	if len(msgBounds) > NumMessages(statements) {
		return nil, errors.Wrapf(sdlp.ErrConfiguration, "%d message bounds for %d messages", len(msgBounds), NumMessages(statements))
	}

	e, err := newEncoder(scheme)
	if err != nil {
		return nil, err
	}

	a, err := e.computeA(statements)
	if err != nil {
		return nil, err
	}
	t, err := e.computeT(statements)
	if err != nil {
		return nil, err
	}
	bounds, err := e.computeBounds(statements, msgBounds)
	if err != nil {
		return nil, err
	}

	return sdlp.NewVerifierKnowledge(e.q, e.f, a, t, bounds)
}

// GenerateProverKnowledge encodes statements together with their messages and witnesses.
// messages[j] is the message with MessageID j, and witnesses[i] is the witness of statements[i].
func GenerateProverKnowledge(scheme Scheme, statements []Statement, messages []Message, witnesses []Witness) (*sdlp.ProverKnowledge, error) {
	if err := validateStatements(statements); err != nil {
		return nil, err
	}
	if len(messages) != NumMessages(statements) {
		return nil, errors.Wrapf(sdlp.ErrConfiguration, "%d messages for %d message ids", len(messages), NumMessages(statements))
	}
	if len(witnesses) != len(statements) {
		return nil, errors.Wrapf(sdlp.ErrConfiguration, "%d witnesses for %d statements", len(witnesses), len(statements))
	}
	for i := range statements {
		if witnesses[i].Kind != statements[i].Kind {
			return nil, errors.Wrapf(sdlp.ErrConfiguration, "witness %d has kind %v, statement has kind %v", i, witnesses[i].Kind, statements[i].Kind)
		}
	}

	msgBounds := make([]sdlp.Bounds, len(messages))
	for j := range messages {
		msgBounds[j] = messages[j].Bounds
	}

	vk, err := GenerateVerifierKnowledge(scheme, statements, msgBounds)
	if err != nil {
		return nil, err
	}

	e, err := newEncoder(scheme)
	if err != nil {
		return nil, err
	}
	s, err := e.computeS(statements, messages, witnesses)
	if err != nil {
		return nil, err
	}

	return sdlp.NewProverKnowledge(vk, s)
}
