// Package frame adapts gota data frames to the table shape the excel formatter walks,
// adding the optional row index gota does not have.
package frame

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/go-gota/gota/dataframe"
	"github.com/go-gota/gota/series"
)

var (
	ErrUnknownColumn = errors.New("column not found")
	ErrNotBoolean    = errors.New("column is not boolean")
	ErrIndexLength   = errors.New("index length does not match row count")
	ErrUnknownOp     = errors.New("unknown comparison operator")
)

// Frame is a gota DataFrame plus an optional row index.
type Frame struct {
	df        dataframe.DataFrame
	indexName string
	labels    []interface{} // nil means row numbers
}

// New wraps df. The index defaults to the row number.
func New(df dataframe.DataFrame) *Frame {
	return &Frame{df: df}
}

// FromCSV reads a CSV document with a header line; column types are detected by gota.
func FromCSV(r io.Reader) (*Frame, error) {
	df := dataframe.ReadCSV(r)
	if df.Err != nil {
		return nil, fmt.Errorf("read csv: %w", df.Err)
	}
	return New(df), nil
}

// FromRecords builds a frame from string records, the first record being the header.
func FromRecords(records [][]string) (*Frame, error) {
	df := dataframe.LoadRecords(records)
	if df.Err != nil {
		return nil, fmt.Errorf("load records: %w", df.Err)
	}
	return New(df), nil
}

// WithIndex sets the row labels. The number of labels must equal the row count.
func (f *Frame) WithIndex(name string, labels []string) (*Frame, error) {
	if len(labels) != f.Nrow() {
		return nil, fmt.Errorf("%w: %d labels for %d rows", ErrIndexLength, len(labels), f.Nrow())
	}
	f.indexName = name
	f.labels = make([]interface{}, len(labels))
	for i, l := range labels {
		f.labels[i] = l
	}
	return f, nil
}

// SetIndexColumn turns a data column into the row index and removes it from the data.
func (f *Frame) SetIndexColumn(name string) error {
	col := f.ColumnIndex(name)
	if col < 0 {
		return fmt.Errorf("%w: %q", ErrUnknownColumn, name)
	}
	labels := make([]interface{}, f.Nrow())
	for r := range labels {
		labels[r] = f.Value(r, col)
	}
	if err := f.DropColumns(col); err != nil {
		return err
	}
	f.indexName = name
	f.labels = labels
	return nil
}

// DataFrame returns the wrapped gota frame.
func (f *Frame) DataFrame() dataframe.DataFrame {
	return f.df
}

func (f *Frame) Nrow() int { return f.df.Nrow() }
func (f *Frame) Ncol() int { return f.df.Ncol() }
func (f *Frame) Names() []string { return f.df.Names() }
func (f *Frame) Types() []series.Type { return f.df.Types() }
func (f *Frame) IndexName() string { return f.indexName }
func (f *Frame) HasExplicitIndex() bool { return f.labels != nil }
func (f *Frame) String() string { return f.df.String() }

// IndexLabel returns the label of row, the row number when no index was set.
func (f *Frame) IndexLabel(row int) interface{} {
	if f.labels == nil {
		return row
	}
	return f.labels[row]
}

// Value returns the typed value at (row, col), nil for NA.
func (f *Frame) Value(row, col int) interface{} {
	e := f.df.Elem(row, col)
	if e.IsNA() {
		return nil
	}
	return e.Val()
}

// ColumnIndex returns the position of the named column or -1.
func (f *Frame) ColumnIndex(name string) int {
	for i, n := range f.df.Names() {
		if n == name {
			return i
		}
	}
	return -1
}

// Bools returns column col as booleans. NA entries count as true.
func (f *Frame) Bools(col int) ([]bool, error) {
	if col < 0 || col >= f.Ncol() {
		return nil, fmt.Errorf("%w: index %d", ErrUnknownColumn, col)
	}
	out := make([]bool, f.Nrow())
	for r := range out {
		e := f.df.Elem(r, col)
		if e.IsNA() {
			out[r] = true
			continue
		}
		b, err := e.Bool()
		if err != nil {
			return nil, fmt.Errorf("%w: %q row %d: %v", ErrNotBoolean, f.df.Names()[col], r, err)
		}
		out[r] = b
	}
	return out, nil
}

// DropColumns removes the given columns in one pass.
func (f *Frame) DropColumns(cols ...int) error {
	if len(cols) == 0 {
		return nil
	}
	df := f.df.Drop(cols)
	if df.Err != nil {
		return fmt.Errorf("drop columns %v: %w", cols, df.Err)
	}
	f.df = df
	return nil
}

var comparators = map[string]series.Comparator{
	"==": series.Eq,
	"!=": series.Neq,
	">":  series.Greater,
	">=": series.GreaterEq,
	"<":  series.Less,
	"<=": series.LessEq,
	"in": series.In,
}

// Mask compares every value of column col against value and returns the result per row.
func (f *Frame) Mask(col, op string, value interface{}) ([]bool, error) {
	if f.ColumnIndex(col) < 0 {
		return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, col)
	}
	cmp, ok := comparators[strings.ToLower(strings.TrimSpace(op))]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownOp, op)
	}
	res := f.df.Col(col).Compare(cmp, value)
	if res.Err != nil {
		return nil, fmt.Errorf("compare %q %s %v: %w", col, op, value, res.Err)
	}
	return res.Bool()
}
