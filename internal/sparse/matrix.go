// Package sparse implements the row-compressed matrices backing the MDP
// transition and reward tables. Rows are kept as slices of column/value
// entries sorted by column, so lookups are binary searches and iteration
// touches only stored entries.
package sparse

import (
	"math"
	"sort"
)

// #region types

// Entry is one stored value in a row.
type Entry struct {
	Col int
	Val float64
}

// Vector is a sparse row: entries sorted by column, absent columns are zero.
type Vector []Entry

// Matrix is a sparse 2D matrix. Row indices must be within [0, Rows());
// out-of-range access is a caller contract violation and panics on the
// underlying slice.
type Matrix struct {
	rows []Vector
	cols int
}

// #endregion types

// #region constructor

// NewMatrix returns an empty rows×cols matrix.
func NewMatrix(rows, cols int) *Matrix {
	return &Matrix{
		rows: make([]Vector, rows),
		cols: cols,
	}
}

// #endregion constructor

// #region accessors

// Rows returns the number of rows.
func (m *Matrix) Rows() int { return len(m.rows) }

// Cols returns the number of columns.
func (m *Matrix) Cols() int { return m.cols }

// At returns the stored value at (r, c), or 0 if absent.
func (m *Matrix) At(r, c int) float64 {
	row := m.rows[r]
	i := sort.Search(len(row), func(i int) bool { return row[i].Col >= c })
	if i < len(row) && row[i].Col == c {
		return row[i].Val
	}
	return 0
}

// Row returns the stored entries of row r. The returned slice is a view;
// callers must not modify it.
func (m *Matrix) Row(r int) Vector { return m.rows[r] }

// RowSum returns the sum of the stored entries of row r.
func (m *Matrix) RowSum(r int) float64 {
	var sum float64
	for _, e := range m.rows[r] {
		sum += e.Val
	}
	return sum
}

// NNZ returns the total number of stored entries.
func (m *Matrix) NNZ() int {
	n := 0
	for _, row := range m.rows {
		n += len(row)
	}
	return n
}

// #endregion accessors

// #region mutators

// Insert sets (r, c) to v, overwriting any stored value and keeping the row
// sorted by column.
func (m *Matrix) Insert(r, c int, v float64) {
	row := m.rows[r]
	i := sort.Search(len(row), func(i int) bool { return row[i].Col >= c })
	if i < len(row) && row[i].Col == c {
		row[i].Val = v
		return
	}
	row = append(row, Entry{})
	copy(row[i+1:], row[i:])
	row[i] = Entry{Col: c, Val: v}
	m.rows[r] = row
}

// Add accumulates v into (r, c), inserting the entry if absent.
func (m *Matrix) Add(r, c int, v float64) {
	row := m.rows[r]
	i := sort.Search(len(row), func(i int) bool { return row[i].Col >= c })
	if i < len(row) && row[i].Col == c {
		row[i].Val += v
		return
	}
	row = append(row, Entry{})
	copy(row[i+1:], row[i:])
	row[i] = Entry{Col: c, Val: v}
	m.rows[r] = row
}

// ClearRow removes every stored entry of row r.
func (m *Matrix) ClearRow(r int) { m.rows[r] = nil }

// Compact drops entries whose absolute value is within tol of zero and
// trims each row's capacity to its length.
func (m *Matrix) Compact(tol float64) {
	for r, row := range m.rows {
		kept := row[:0]
		for _, e := range row {
			if math.Abs(e.Val) > tol {
				kept = append(kept, e)
			}
		}
		if len(kept) == 0 {
			m.rows[r] = nil
			continue
		}
		out := make(Vector, len(kept))
		copy(out, kept)
		m.rows[r] = out
	}
}

// #endregion mutators
