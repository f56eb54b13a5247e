// Package matrix implements row-major matrices whose cells are written at most once.
package matrix

import (
	"fmt"

	"github.com/bits-and-blooms/bitset"
	"github.com/pkg/errors"
)

// ErrDoubleWrite is returned when a cell of a Matrix is written twice.
var ErrDoubleWrite = errors.New("matrix: cell written twice")

// Matrix is a row-major matrix.
// Unwritten cells hold the zero value of T.
type Matrix[T any] struct {
	rows  int
	cols  int
	data  []T
	dirty *bitset.BitSet
}

// New creates a new rows x cols Matrix.
func New[T any](rows, cols int) *Matrix[T] {
	if rows < 0 || cols < 0 {
		panic("negative dimension")
	}

	return &Matrix[T]{
		rows:  rows,
		cols:  cols,
		data:  make([]T, rows*cols),
		dirty: bitset.New(uint(rows * cols)),
	}
}

// NewFromRows creates a new Matrix from a slice of rows.
// All rows must have the same length.
func NewFromRows[T any](rows [][]T) (*Matrix[T], error) {
	cols := 0
	if len(rows) > 0 {
		cols = len(rows[0])
	}

	m := New[T](len(rows), cols)
	for i := range rows {
		if len(rows[i]) != cols {
			return nil, errors.Errorf("matrix: row %d has length %d, want %d", i, len(rows[i]), cols)
		}
		for j := range rows[i] {
			m.data[i*cols+j] = rows[i][j]
			m.dirty.Set(uint(i*cols + j))
		}
	}
	return m, nil
}

// NewColumn creates a new len(v) x 1 Matrix.
func NewColumn[T any](v []T) *Matrix[T] {
	m := New[T](len(v), 1)
	for i := range v {
		m.data[i] = v[i]
		m.dirty.Set(uint(i))
	}
	return m
}

// Rows returns the number of rows.
func (m *Matrix[T]) Rows() int {
	return m.rows
}

// Cols returns the number of columns.
func (m *Matrix[T]) Cols() int {
	return m.cols
}

// DimsMatch returns true if m and n have the same dimensions.
func DimsMatch[T, U any](m *Matrix[T], n *Matrix[U]) bool {
	return m.rows == n.rows && m.cols == n.cols
}

// At returns the (i, j)-th entry.
func (m *Matrix[T]) At(i, j int) T {
	return m.data[m.index(i, j)]
}

// IsSet returns true if the (i, j)-th entry has been written.
func (m *Matrix[T]) IsSet(i, j int) bool {
	return m.dirty.Test(uint(m.index(i, j)))
}

// Set writes v to the (i, j)-th entry.
// It returns ErrDoubleWrite if the entry was already written.
func (m *Matrix[T]) Set(i, j int, v T) error {
	idx := m.index(i, j)
	if m.dirty.Test(uint(idx)) {
		return errors.Wrapf(ErrDoubleWrite, "cell (%d, %d)", i, j)
	}
	m.data[idx] = v
	m.dirty.Set(uint(idx))
	return nil
}

// Entries returns the entries in row-major order.
// The returned slice shares memory with m.
func (m *Matrix[T]) Entries() []T {
	return m.data
}

// Row returns the i-th row.
// The returned slice shares memory with m.
func (m *Matrix[T]) Row(i int) []T {
	return m.data[i*m.cols : (i+1)*m.cols]
}

// Col returns a copy of the j-th column.
func (m *Matrix[T]) Col(j int) []T {
	col := make([]T, m.rows)
	for i := 0; i < m.rows; i++ {
		col[i] = m.data[i*m.cols+j]
	}
	return col
}

// Map returns a new Matrix with f applied to every entry.
// Every cell of the output counts as written.
func Map[T, U any](m *Matrix[T], f func(T) U) *Matrix[U] {
	mOut := New[U](m.rows, m.cols)
	for i := range m.data {
		mOut.data[i] = f(m.data[i])
		mOut.dirty.Set(uint(i))
	}
	return mOut
}

func (m *Matrix[T]) index(i, j int) int {
	if i < 0 || i >= m.rows || j < 0 || j >= m.cols {
		panic(fmt.Sprintf("index (%d, %d) out of range for %d x %d matrix", i, j, m.rows, m.cols))
	}
	return i*m.cols + j
}
