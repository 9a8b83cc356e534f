package styledexcel

import (
	"context"
	"iter"
	"os"
	"path/filepath"
	"testing"

	"github.com/locvowork/excelstyler/pkg/excelformat"
	"github.com/locvowork/excelstyler/pkg/frame"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

type recorder struct {
	cells    []excelformat.Cell
	sheet    string
	startRow int
	startCol int
	saved    bool
}

func (r *recorder) WriteCells(seq iter.Seq[*excelformat.Cell], sheet string, startRow, startCol int) error {
	r.sheet, r.startRow, r.startCol = sheet, startRow, startCol
	for c := range seq {
		r.cells = append(r.cells, *c)
	}
	return nil
}

func (r *recorder) Save() error  { r.saved = true; return nil }
func (r *recorder) Close() error { return nil }

func (r *recorder) at(row, col int) *excelformat.Cell {
	for i := range r.cells {
		if r.cells[i].Row == row && r.cells[i].Col == col {
			return &r.cells[i]
		}
	}
	return nil
}

func sampleTable(t *testing.T) *frame.Frame {
	t.Helper()
	f, err := frame.FromRecords([][]string{
		{"one", "two", "three"},
		{"0.5", "1", "a"},
		{"1.5", "2", "b"},
		{"2.5", "3", "c"},
	})
	require.NoError(t, err)
	return f
}

var (
	bold    = excelformat.Descriptor{excelformat.AspectFont: {"bold": true}}
	redFont = excelformat.Descriptor{excelformat.AspectFont: {"color": "red"}}
)

func TestToWriter_StylesOnlyMatrixPositions(t *testing.T) {
	tbl := sampleTable(t)
	m := MatrixFor(tbl)
	require.NoError(t, m.Set(0, tbl.ColumnIndex("one"), bold))
	require.NoError(t, m.Set(1, tbl.ColumnIndex("two"), redFont))

	rec := &recorder{}
	require.NoError(t, ToWriter(context.Background(), tbl, rec, m))

	assert.Equal(t, "Sheet1", rec.sheet)
	assert.False(t, rec.saved)
	require.Len(t, rec.cells, 3+3*4)

	// header row 0, index column 0
	assert.Equal(t, bold, rec.at(1, 1).Style)
	assert.Equal(t, redFont, rec.at(2, 2).Style)

	styled := 0
	for _, c := range rec.cells {
		if c.Kind == excelformat.KindData && c.Style != nil {
			styled++
		}
	}
	assert.Equal(t, 2, styled)

	rec.at(1, 1).Style[excelformat.AspectFont]["bold"] = false
	d, _ := m.At(0, 0)
	assert.Equal(t, true, d[excelformat.AspectFont]["bold"], "cells never alias matrix entries")
}

func TestToWriter_HeaderAndIndexUntouched(t *testing.T) {
	tbl := sampleTable(t)
	m := NewMatrix(tbl.Nrow(), tbl.Ncol()+1)
	for r := 0; r < tbl.Nrow(); r++ {
		for c := 0; c <= tbl.Ncol(); c++ {
			require.NoError(t, m.Set(r, c, redFont))
		}
	}

	rec := &recorder{}
	require.NoError(t, ToWriter(context.Background(), tbl, rec, m))
	for _, c := range rec.cells {
		switch c.Kind {
		case excelformat.KindData:
			assert.Equal(t, "red", c.Style[excelformat.AspectFont]["color"])
		default:
			assert.Equal(t, excelformat.HeaderStyle(), c.Style)
		}
	}
}

func TestToWriter_IndexAddressingMatrix(t *testing.T) {
	tbl := sampleTable(t)
	m := NewMatrix(tbl.Nrow(), tbl.Ncol()+1)
	require.NoError(t, m.Set(0, 1, bold))

	rec := &recorder{}
	require.NoError(t, ToWriter(context.Background(), tbl, rec, m))
	assert.Equal(t, bold, rec.at(1, 1).Style)

	_, err := CheckShape(m, tbl, false)
	assert.ErrorIs(t, err, ErrShapeMismatch)
	err = ToWriter(context.Background(), tbl, &recorder{}, m, WithIndex(false))
	assert.ErrorIs(t, err, ErrShapeMismatch)
}

func TestToWriter_MergesOverDataStyle(t *testing.T) {
	tbl := sampleTable(t)
	m := MatrixFor(tbl)
	require.NoError(t, m.Set(2, 2, excelformat.Descriptor{
		excelformat.AspectFont:    {"color": "red"},
		excelformat.AspectPattern: {"pattern": "solid_fill", "fore_color": "yellow"},
	}))

	rec := &recorder{}
	err := ToWriter(context.Background(), tbl, rec, m,
		WithDataStyle(excelformat.Descriptor{excelformat.AspectFont: {"color": "black", "italic": true}}))
	require.NoError(t, err)

	got := rec.at(3, 3).Style
	assert.Equal(t, "red", got[excelformat.AspectFont]["color"])
	assert.Equal(t, true, got[excelformat.AspectFont]["italic"])
	assert.Equal(t, "yellow", got[excelformat.AspectPattern]["fore_color"])

	other := rec.at(1, 1).Style
	assert.Equal(t, "black", other[excelformat.AspectFont]["color"])
}

func TestToWriter_ColumnSubsetUsesTableColumns(t *testing.T) {
	tbl := sampleTable(t)
	m := MatrixFor(tbl)
	require.NoError(t, m.Set(0, tbl.ColumnIndex("three"), bold))

	rec := &recorder{}
	err := ToWriter(context.Background(), tbl, rec, m, WithColumns("three", "one"), WithIndex(false))
	require.NoError(t, err)

	assert.Equal(t, "a", rec.at(1, 0).Value)
	assert.Equal(t, bold, rec.at(1, 0).Style)
	assert.Nil(t, rec.at(1, 1).Style)
}

func TestToWriter_EmptyMatrixMatchesNoMatrix(t *testing.T) {
	tbl := sampleTable(t)

	plain := &recorder{}
	require.NoError(t, ToWriter(context.Background(), tbl, plain, nil))
	empty := &recorder{}
	require.NoError(t, ToWriter(context.Background(), tbl, empty, MatrixFor(tbl)))

	assert.Equal(t, plain.cells, empty.cells)
}

func TestToWriter_ShapeMismatchWritesNothing(t *testing.T) {
	tbl := sampleTable(t)
	m := NewMatrix(tbl.Nrow()-1, tbl.Ncol())

	rec := &recorder{}
	err := ToWriter(context.Background(), tbl, rec, m)
	assert.ErrorIs(t, err, ErrShapeMismatch)
	assert.Empty(t, rec.cells)

	path := filepath.Join(t.TempDir(), "never.xlsx")
	err = ToExcel(context.Background(), tbl, path, m)
	assert.ErrorIs(t, err, ErrShapeMismatch)
	_, statErr := os.Stat(path)
	assert.True(t, os.IsNotExist(statErr))
}

func TestToWriter_RejectsNegativeStart(t *testing.T) {
	err := ToWriter(context.Background(), sampleTable(t), &recorder{}, nil, WithStartCell(-1, 0))
	assert.Error(t, err)
}

func TestToWriter_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rec := &recorder{}
	err := ToWriter(ctx, sampleTable(t), rec, nil)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, rec.cells)
}

func TestToExcel_WritesStyledWorkbook(t *testing.T) {
	tbl := sampleTable(t)
	m := MatrixFor(tbl)
	require.NoError(t, m.Set(0, 0, bold))

	path := filepath.Join(t.TempDir(), "styled.xlsx")
	err := ToExcel(context.Background(), tbl, path, m, WithSheetName("Report"), WithStartCell(1, 1))
	require.NoError(t, err)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	v, err := f.GetCellValue("Report", "C2")
	require.NoError(t, err)
	assert.Equal(t, "one", v)

	id, err := f.GetCellStyle("Report", "C3")
	require.NoError(t, err)
	style, err := f.GetStyle(id)
	require.NoError(t, err)
	require.NotNil(t, style.Font)
	assert.True(t, style.Font.Bold)

	plainID, _ := f.GetCellStyle("Report", "D3")
	assert.Equal(t, 0, plainID)
}

func TestToExcel_LegacyFormatSurfacesWriterError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "legacy.xls")
	err := ToExcel(context.Background(), sampleTable(t), path, nil)
	assert.ErrorIs(t, err, excelize.ErrWorkbookFileFormat)
}

func TestToExcel_CSVEngine(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.csv")
	err := ToExcel(context.Background(), sampleTable(t), path, nil, WithIndex(false))
	require.NoError(t, err)

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "one,two,three\n0.5,1,a\n1.5,2,b\n2.5,3,c\n", string(b))
}
