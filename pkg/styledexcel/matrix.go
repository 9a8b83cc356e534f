// Package styledexcel exports tables to spreadsheets with per-cell styles taken from a
// style matrix aligned to the table's rows and columns.
package styledexcel

import (
	"errors"
	"fmt"

	"github.com/locvowork/excelstyler/pkg/excelformat"
)

var (
	ErrShapeMismatch = errors.New("style matrix shape does not match table")
	ErrOutOfRange    = errors.New("style matrix position out of range")
)

// Coord addresses one matrix entry.
type Coord struct {
	Row int
	Col int
}

// Matrix is a sparse grid of style descriptors. A position without an entry has no style.
type Matrix struct {
	rows  int
	cols  int
	cells map[Coord]excelformat.Descriptor
}

// NewMatrix returns an empty matrix of the given shape.
func NewMatrix(rows, cols int) *Matrix {
	if rows < 0 {
		rows = 0
	}
	if cols < 0 {
		cols = 0
	}
	return &Matrix{rows: rows, cols: cols, cells: make(map[Coord]excelformat.Descriptor)}
}

// MatrixFor returns an empty matrix shaped to t's data columns.
func MatrixFor(t excelformat.Table) *Matrix {
	return NewMatrix(t.Nrow(), t.Ncol())
}

func (m *Matrix) Shape() (rows, cols int) {
	return m.rows, m.cols
}

// Len returns the number of styled positions.
func (m *Matrix) Len() int {
	return len(m.cells)
}

func (m *Matrix) check(row, col int) error {
	if row < 0 || row >= m.rows || col < 0 || col >= m.cols {
		return fmt.Errorf("%w: (%d, %d) in %dx%d", ErrOutOfRange, row, col, m.rows, m.cols)
	}
	return nil
}

// Set stores d at (row, col). An empty descriptor clears the position.
func (m *Matrix) Set(row, col int, d excelformat.Descriptor) error {
	if err := m.check(row, col); err != nil {
		return err
	}
	if d.IsEmpty() {
		delete(m.cells, Coord{row, col})
		return nil
	}
	m.cells[Coord{row, col}] = d
	return nil
}

// Merge merges d over whatever is stored at (row, col).
func (m *Matrix) Merge(row, col int, d excelformat.Descriptor) error {
	if err := m.check(row, col); err != nil {
		return err
	}
	if d.IsEmpty() {
		return nil
	}
	cur, ok := m.cells[Coord{row, col}]
	if !ok {
		m.cells[Coord{row, col}] = d.Clone()
		return nil
	}
	merged := cur.Clone()
	merged.Merge(d)
	m.cells[Coord{row, col}] = merged
	return nil
}

// At returns the descriptor stored at (row, col).
func (m *Matrix) At(row, col int) (excelformat.Descriptor, bool) {
	d, ok := m.cells[Coord{row, col}]
	return d, ok
}

func (m *Matrix) Clear(row, col int) {
	delete(m.cells, Coord{row, col})
}

// SetWhere stores d in column col of every row where mask is true.
func (m *Matrix) SetWhere(col int, mask []bool, d excelformat.Descriptor) error {
	if len(mask) != m.rows {
		return fmt.Errorf("%w: mask of %d rows for %d", ErrShapeMismatch, len(mask), m.rows)
	}
	for r, hit := range mask {
		if !hit {
			continue
		}
		if err := m.Set(r, col, d); err != nil {
			return err
		}
	}
	return nil
}

// CheckShape verifies m against t. The matrix must have t.Nrow() rows and t.Ncol()
// columns, or t.Ncol()+1 when index is set; column 0 then addresses the index column.
// It returns the column shift from table to matrix coordinates.
func CheckShape(m *Matrix, t excelformat.Table, index bool) (int, error) {
	nrow, ncol := t.Nrow(), t.Ncol()
	switch {
	case m.rows != nrow:
	case m.cols == ncol:
		return 0, nil
	case index && m.cols == ncol+1:
		return 1, nil
	}
	want := fmt.Sprintf("%dx%d", nrow, ncol)
	if index {
		want += fmt.Sprintf(" or %dx%d", nrow, ncol+1)
	}
	return 0, fmt.Errorf("%w: matrix is %dx%d, table needs %s", ErrShapeMismatch, m.rows, m.cols, want)
}
