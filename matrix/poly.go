package matrix

import (
	"runtime"
	"sync"

	"github.com/pkg/errors"
	"github.com/sp301415/ringo-sdlp/bigring"
)

// PolyMatrix is a matrix of polynomials.
type PolyMatrix = Matrix[bigring.BigPoly]

// NewPoly creates a new rows x cols PolyMatrix.
func NewPoly(rows, cols int) *PolyMatrix {
	return New[bigring.BigPoly](rows, cols)
}

// MulMod returns a * b mod (f, Q), where Q is the modulus of r.
// Every output entry has exactly deg(f) coefficients.
// Rows of the output are computed in parallel.
func MulMod(r *bigring.Ring, f bigring.BigPoly, a, b *PolyMatrix) (*PolyMatrix, error) {
	if a.Cols() != b.Rows() {
		return nil, errors.Errorf("matrix: cannot multiply %d x %d by %d x %d", a.Rows(), a.Cols(), b.Rows(), b.Cols())
	}

	out := NewPoly(a.Rows(), b.Cols())
	if out.Rows() == 0 || out.Cols() == 0 {
		return out, nil
	}

	workSize := min(runtime.NumCPU(), a.Rows())
	ringPool := make([]*bigring.Ring, workSize)
	for i := 0; i < workSize; i++ {
		ringPool[i] = r.ShallowCopy()
	}

	rowChan := make(chan int)
	go func() {
		defer close(rowChan)
		for i := 0; i < a.Rows(); i++ {
			rowChan <- i
		}
	}()

	accLen := max(maxPolyLen(a)+maxPolyLen(b)-1, 0)

	var wg sync.WaitGroup
	wg.Add(workSize)
	for w := 0; w < workSize; w++ {
		go func(idx int) {
			defer wg.Done()
			ring := ringPool[idx]
			for i := range rowChan {
				for j := 0; j < b.Cols(); j++ {
					acc := bigring.NewBigPoly(accLen)
					for k := 0; k < a.Cols(); k++ {
						ring.MulAddAssign(a.At(i, k), b.At(k, j), acc)
					}
					_, rem := ring.DivRem(acc, f)
					out.data[i*out.cols+j] = rem
				}
			}
		}(w)
	}
	wg.Wait()

	for i := range out.data {
		out.dirty.Set(uint(i))
	}

	return out, nil
}

// EqualMod returns true if every entry of a and b agrees modulo Q,
// ignoring trailing zeros.
func EqualMod(r *bigring.Ring, a, b *PolyMatrix) bool {
	if !DimsMatch(a, b) {
		return false
	}
	for i := range a.data {
		if !r.Reduce(a.data[i]).Equal(r.Reduce(b.data[i])) {
			return false
		}
	}
	return true
}

func maxPolyLen(m *PolyMatrix) int {
	l := 0
	for i := range m.data {
		l = max(l, m.data[i].Len())
	}
	return l
}
