package styledexcel

import (
	"iter"

	"github.com/locvowork/excelstyler/pkg/excelformat"
)

// StyledFormatter yields the cells of an excelformat.Formatter with the matrix styles
// applied to data cells.
type StyledFormatter struct {
	base   *excelformat.Formatter
	matrix *Matrix
	shift  int
}

// NewStyledFormatter builds the base formatter and checks the matrix shape. A nil matrix
// styles nothing.
func NewStyledFormatter(t excelformat.Table, m *Matrix, opts excelformat.Options) (*StyledFormatter, error) {
	shift := 0
	if m != nil {
		var err error
		if shift, err = CheckShape(m, t, opts.Index); err != nil {
			return nil, err
		}
	}
	base, err := excelformat.NewFormatter(t, opts)
	if err != nil {
		return nil, err
	}
	return &StyledFormatter{base: base, matrix: m, shift: shift}, nil
}

func (f *StyledFormatter) Layout() excelformat.Layout {
	return f.base.Layout()
}

// Cells is a single pass over the formatted cells.
func (f *StyledFormatter) Cells() iter.Seq[*excelformat.Cell] {
	return WithStyles(f.base.Cells(), f.base.Layout(), f.matrix, f.shift)
}

// WithStyles decorates seq: every data cell whose table position has a matrix entry gets
// that descriptor, assigned when the cell has no style and merged over it otherwise.
// shift is added to table columns to get matrix columns.
func WithStyles(seq iter.Seq[*excelformat.Cell], layout excelformat.Layout, m *Matrix, shift int) iter.Seq[*excelformat.Cell] {
	if m == nil || m.Len() == 0 {
		return seq
	}
	return func(yield func(*excelformat.Cell) bool) {
		for c := range seq {
			if c.Kind == excelformat.KindData {
				applyStyle(c, layout, m, shift)
			}
			if !yield(c) {
				return
			}
		}
	}
}

func applyStyle(c *excelformat.Cell, layout excelformat.Layout, m *Matrix, shift int) {
	row, col, ok := layout.Locate(c.Row, c.Col)
	if !ok {
		return
	}
	d, ok := m.At(row, col+shift)
	if !ok || d.IsEmpty() {
		return
	}
	if c.Style == nil {
		c.Style = d.Clone()
		return
	}
	c.Style.Merge(d)
}
