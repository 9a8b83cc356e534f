package excelformat

import (
	"errors"
	"fmt"
	"iter"
	"math"
	"strconv"
)

var (
	ErrUnknownColumn = errors.New("column not found in table")
	ErrHeaderAliases = errors.New("header aliases do not match columns")
)

// Table is the tabular data the formatter walks. Values are plain Go values, nil for NA.
type Table interface {
	Nrow() int
	Ncol() int
	Names() []string
	Value(row, col int) interface{}
	IndexName() string
	IndexLabel(row int) interface{}
}

// Options controls how a table is laid out as cells.
type Options struct {
	NaRep       string
	FloatFormat string // printf verb applied to floats, e.g. "%.2f"
	Columns     []string
	Header      bool
	HeaderNames []string // aliases written instead of the column names
	Index       bool
	IndexLabel  string
	MergeCells  bool
	InfRep      string
	DataStyle   Descriptor // default style of every data cell
}

// DefaultOptions mirrors the usual export defaults: header and index written, merging on.
func DefaultOptions() Options {
	return Options{
		Header:     true,
		Index:      true,
		MergeCells: true,
		InfRep:     "inf",
	}
}

// Layout describes where table data lands in output coordinates.
type Layout struct {
	HeaderRows int   // rows above the first data row
	IndexCols  int   // columns left of the first data column
	Columns    []int // output data column -> table column
}

// Locate maps an output coordinate to table coordinates. ok is false for header and
// index positions and for anything outside the data block's columns.
func (l Layout) Locate(row, col int) (tableRow, tableCol int, ok bool) {
	r := row - l.HeaderRows
	c := col - l.IndexCols
	if r < 0 || c < 0 || c >= len(l.Columns) {
		return 0, 0, false
	}
	return r, l.Columns[c], true
}

// Formatter turns a Table into a row-major sequence of cells.
type Formatter struct {
	table   Table
	opts    Options
	layout  Layout
	headers []string
}

// NewFormatter validates the column selection and header aliases against t.
func NewFormatter(t Table, opts Options) (*Formatter, error) {
	names := t.Names()
	var cols []int
	if len(opts.Columns) == 0 {
		cols = make([]int, len(names))
		for i := range names {
			cols[i] = i
		}
	} else {
		pos := make(map[string]int, len(names))
		for i, n := range names {
			pos[n] = i
		}
		for _, want := range opts.Columns {
			i, ok := pos[want]
			if !ok {
				return nil, fmt.Errorf("%w: %q", ErrUnknownColumn, want)
			}
			cols = append(cols, i)
		}
	}

	headers := make([]string, len(cols))
	if len(opts.HeaderNames) > 0 {
		if len(opts.HeaderNames) != len(cols) {
			return nil, fmt.Errorf("%w: %d aliases for %d columns", ErrHeaderAliases, len(opts.HeaderNames), len(cols))
		}
		copy(headers, opts.HeaderNames)
	} else {
		for i, c := range cols {
			headers[i] = names[c]
		}
	}

	layout := Layout{Columns: cols}
	if opts.Header {
		layout.HeaderRows = 1
	}
	if opts.Index {
		layout.IndexCols = 1
	}

	return &Formatter{table: t, opts: opts, layout: layout, headers: headers}, nil
}

// Layout returns the output layout of the formatted cells.
func (f *Formatter) Layout() Layout {
	return f.layout
}

// Options returns the options the formatter was built with.
func (f *Formatter) Options() Options {
	return f.opts
}

// Cells yields the header row and then every data row, left to right.
func (f *Formatter) Cells() iter.Seq[*Cell] {
	return func(yield func(*Cell) bool) {
		if f.opts.Header && !f.headerCells(yield) {
			return
		}
		f.rowCells(yield)
	}
}

func (f *Formatter) headerCells(yield func(*Cell) bool) bool {
	if f.opts.Index {
		label := f.opts.IndexLabel
		if label == "" {
			label = f.table.IndexName()
		}
		if label != "" {
			if !yield(&Cell{Row: 0, Col: 0, Value: label, Style: HeaderStyle(), Kind: KindHeader}) {
				return false
			}
		}
	}
	for i, h := range f.headers {
		c := &Cell{Row: 0, Col: i + f.layout.IndexCols, Value: h, Style: HeaderStyle(), Kind: KindHeader}
		if !yield(c) {
			return false
		}
	}
	return true
}

func (f *Formatter) rowCells(yield func(*Cell) bool) {
	nrow := f.table.Nrow()
	runEnd := -1
	for r := 0; r < nrow; r++ {
		outRow := r + f.layout.HeaderRows
		if f.opts.Index && r > runEnd {
			cell := &Cell{Row: outRow, Col: 0, Value: f.table.IndexLabel(r), Style: HeaderStyle(), Kind: KindIndex}
			runEnd = r
			if f.opts.MergeCells {
				runEnd = f.indexRunEnd(r)
				if runEnd > r {
					cell.MergeEndRow = runEnd + f.layout.HeaderRows
					cell.MergeEndCol = 0
				}
			}
			if !yield(cell) {
				return
			}
		}
		for i, c := range f.layout.Columns {
			cell := &Cell{
				Row:   outRow,
				Col:   i + f.layout.IndexCols,
				Value: f.formatValue(f.table.Value(r, c)),
				Kind:  KindData,
			}
			if f.opts.DataStyle != nil {
				cell.Style = f.opts.DataStyle.Clone()
			}
			if !yield(cell) {
				return
			}
		}
	}
}

// indexRunEnd returns the last row of the run of identical index labels starting at r.
func (f *Formatter) indexRunEnd(r int) int {
	label := f.table.IndexLabel(r)
	end := r
	for next := r + 1; next < f.table.Nrow(); next++ {
		if !sameLabel(label, f.table.IndexLabel(next)) {
			break
		}
		end = next
	}
	return end
}

func sameLabel(a, b interface{}) bool {
	if a == nil || b == nil {
		return false
	}
	return fmt.Sprint(a) == fmt.Sprint(b)
}

func (f *Formatter) formatValue(v interface{}) interface{} {
	switch val := v.(type) {
	case nil:
		return f.opts.NaRep
	case float64:
		return f.formatFloat(val)
	case float32:
		return f.formatFloat(float64(val))
	}
	return v
}

func (f *Formatter) formatFloat(v float64) interface{} {
	switch {
	case math.IsNaN(v):
		return f.opts.NaRep
	case math.IsInf(v, 1):
		return f.opts.InfRep
	case math.IsInf(v, -1):
		return "-" + f.opts.InfRep
	}
	if f.opts.FloatFormat != "" {
		s := fmt.Sprintf(f.opts.FloatFormat, v)
		if parsed, err := strconv.ParseFloat(s, 64); err == nil {
			return parsed
		}
		return s
	}
	return v
}
