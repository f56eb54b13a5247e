package statement

// IdxOffsets are the column offsets of A, or equivalently the row offsets of S,
// for the blocks that follow the message block.
// The offsets advance as statements and witnesses are placed in lockstep.
type IdxOffsets struct {
	// Remainder is the offset of the remainder block, which follows the message block.
	Remainder int
	// PublicKey is the offset of the public key block, which follows the remainders.
	PublicKey int
	// PublicE0 is the offset of the first error block of public key statements.
	PublicE0 int
	// PublicE1 is the offset of the second error block of public key statements.
	PublicE1 int
	// PrivateA is the offset of the secret key block of private key statements.
	PrivateA int
	// PrivateE is the offset of the error block of private key statements, which comes last.
	PrivateE int
}

// NewIdxOffsets returns the initial offsets for statements.
func NewIdxOffsets(statements []Statement) IdxOffsets {
	numMessages := NumMessages(statements)
	numPublic := NumPublic(statements)
	numPrivate := len(statements) - numPublic

	remainder := numMessages
	publicKey := remainder + len(statements)
	publicE0 := publicKey + numPublic
	publicE1 := publicE0 + numPublic
	privateA := publicE1 + numPublic
	privateE := privateA + numPrivate

	return IdxOffsets{
		Remainder: remainder,
		PublicKey: publicKey,
		PublicE0:  publicE0,
		PublicE1:  publicE1,
		PrivateA:  privateA,
		PrivateE:  privateE,
	}
}

// AShape returns the shape of A.
// Only valid on initial offsets.
func (o IdxOffsets) AShape() (rows, cols int) {
	numPrivate := o.PrivateE - o.PrivateA
	numPublic := o.PublicE0 - o.PublicKey
	return 2*numPublic + numPrivate, o.PrivateE + numPrivate
}

// IncPrivate advances the offsets past a private key statement.
func (o *IdxOffsets) IncPrivate() {
	o.Remainder++
	o.PrivateA++
	o.PrivateE++
}

// IncPublic advances the offsets past a public key statement.
func (o *IdxOffsets) IncPublic() {
	o.Remainder++
	o.PublicKey++
	o.PublicE0++
	o.PublicE1++
}

// Inc advances the offsets past a statement of kind k.
func (o *IdxOffsets) Inc(k Kind) {
	if k.IsPublic() {
		o.IncPublic()
	} else {
		o.IncPrivate()
	}
}

// NumMessages returns the number of message columns,
// which is one more than the largest MessageID.
func NumMessages(statements []Statement) int {
	n := 0
	for _, s := range statements {
		n = max(n, s.MessageID+1)
	}
	return n
}

// NumPublic returns the number of public key statements.
func NumPublic(statements []Statement) int {
	n := 0
	for _, s := range statements {
		if s.Kind.IsPublic() {
			n++
		}
	}
	return n
}
