package excelformat

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sliceTable struct {
	names     []string
	rows      [][]interface{}
	indexName string
	labels    []interface{}
}

func (t *sliceTable) Nrow() int { return len(t.rows) }
func (t *sliceTable) Ncol() int { return len(t.names) }
func (t *sliceTable) Names() []string { return t.names }
func (t *sliceTable) Value(row, col int) interface{} { return t.rows[row][col] }
func (t *sliceTable) IndexName() string { return t.indexName }
func (t *sliceTable) IndexLabel(row int) interface{} {
	if t.labels != nil {
		return t.labels[row]
	}
	return row
}

func collect(f *Formatter) []*Cell {
	var out []*Cell
	for c := range f.Cells() {
		out = append(out, c)
	}
	return out
}

func sampleTable() *sliceTable {
	return &sliceTable{
		names: []string{"one", "two", "three"},
		rows: [][]interface{}{
			{0.5, 3, "a"},
			{nil, 7, "b"},
		},
	}
}

func TestFormatter_HeaderAndIndexLayout(t *testing.T) {
	f, err := NewFormatter(sampleTable(), DefaultOptions())
	require.NoError(t, err)

	cells := collect(f)
	// 3 header cells (no index name) + 2 rows x (1 index + 3 data)
	require.Len(t, cells, 3+2*4)

	assert.Equal(t, KindHeader, cells[0].Kind)
	assert.Equal(t, 0, cells[0].Row)
	assert.Equal(t, 1, cells[0].Col)
	assert.Equal(t, "one", cells[0].Value)
	assert.Equal(t, true, cells[0].Style[AspectFont]["bold"])

	idx := cells[3]
	assert.Equal(t, KindIndex, idx.Kind)
	assert.Equal(t, 1, idx.Row)
	assert.Equal(t, 0, idx.Col)
	assert.Equal(t, 0, idx.Value)

	data := cells[4]
	assert.Equal(t, KindData, data.Kind)
	assert.Equal(t, 1, data.Row)
	assert.Equal(t, 1, data.Col)
	assert.Equal(t, 0.5, data.Value)
	assert.Nil(t, data.Style)

	assert.Equal(t, Layout{HeaderRows: 1, IndexCols: 1, Columns: []int{0, 1, 2}}, f.Layout())
}

func TestFormatter_IndexLabelCell(t *testing.T) {
	tbl := sampleTable()
	tbl.indexName = "id"
	f, err := NewFormatter(tbl, DefaultOptions())
	require.NoError(t, err)

	first := collect(f)[0]
	assert.Equal(t, 0, first.Col)
	assert.Equal(t, "id", first.Value)

	opts := DefaultOptions()
	opts.IndexLabel = "row"
	f, err = NewFormatter(tbl, opts)
	require.NoError(t, err)
	assert.Equal(t, "row", collect(f)[0].Value)
}

func TestFormatter_NoHeaderNoIndex(t *testing.T) {
	opts := DefaultOptions()
	opts.Header = false
	opts.Index = false
	f, err := NewFormatter(sampleTable(), opts)
	require.NoError(t, err)

	cells := collect(f)
	require.Len(t, cells, 6)
	assert.Equal(t, 0, cells[0].Row)
	assert.Equal(t, 0, cells[0].Col)
	assert.Equal(t, KindData, cells[0].Kind)
}

func TestFormatter_ValueRepresentations(t *testing.T) {
	tbl := &sliceTable{
		names: []string{"x"},
		rows:  [][]interface{}{{nil}, {math.NaN()}, {math.Inf(1)}, {math.Inf(-1)}, {1.23456}},
	}
	opts := DefaultOptions()
	opts.Header = false
	opts.Index = false
	opts.NaRep = "n/a"
	opts.InfRep = "INF"
	opts.FloatFormat = "%.2f"
	f, err := NewFormatter(tbl, opts)
	require.NoError(t, err)

	var vals []interface{}
	for c := range f.Cells() {
		vals = append(vals, c.Value)
	}
	assert.Equal(t, []interface{}{"n/a", "n/a", "INF", "-INF", 1.23}, vals)
}

func TestFormatter_ColumnSubsetAndAliases(t *testing.T) {
	opts := DefaultOptions()
	opts.Index = false
	opts.Columns = []string{"three", "one"}
	opts.HeaderNames = []string{"Letter", "Number"}
	f, err := NewFormatter(sampleTable(), opts)
	require.NoError(t, err)

	cells := collect(f)
	assert.Equal(t, "Letter", cells[0].Value)
	assert.Equal(t, "Number", cells[1].Value)
	assert.Equal(t, "a", cells[2].Value)
	assert.Equal(t, 0.5, cells[3].Value)

	r, c, ok := f.Layout().Locate(1, 0)
	assert.True(t, ok)
	assert.Equal(t, 0, r)
	assert.Equal(t, 2, c)
}

func TestFormatter_Errors(t *testing.T) {
	opts := DefaultOptions()
	opts.Columns = []string{"missing"}
	_, err := NewFormatter(sampleTable(), opts)
	assert.ErrorIs(t, err, ErrUnknownColumn)

	opts = DefaultOptions()
	opts.HeaderNames = []string{"only one"}
	_, err = NewFormatter(sampleTable(), opts)
	assert.ErrorIs(t, err, ErrHeaderAliases)
}

func TestFormatter_MergedIndexRuns(t *testing.T) {
	tbl := &sliceTable{
		names:  []string{"v"},
		rows:   [][]interface{}{{1}, {2}, {3}},
		labels: []interface{}{"a", "a", "b"},
	}
	f, err := NewFormatter(tbl, DefaultOptions())
	require.NoError(t, err)

	var index []*Cell
	for c := range f.Cells() {
		if c.Kind == KindIndex {
			index = append(index, c)
		}
	}
	require.Len(t, index, 2)
	assert.True(t, index[0].Merged())
	assert.Equal(t, 2, index[0].MergeEndRow)
	assert.Equal(t, "b", index[1].Value)
	assert.False(t, index[1].Merged())

	opts := DefaultOptions()
	opts.MergeCells = false
	f, err = NewFormatter(tbl, opts)
	require.NoError(t, err)
	count := 0
	for c := range f.Cells() {
		if c.Kind == KindIndex {
			count++
		}
	}
	assert.Equal(t, 3, count)
}

func TestFormatter_DataStyleIsCopiedPerCell(t *testing.T) {
	opts := DefaultOptions()
	opts.DataStyle = Descriptor{AspectFont: {"italic": true}}
	f, err := NewFormatter(sampleTable(), opts)
	require.NoError(t, err)

	var data []*Cell
	for c := range f.Cells() {
		if c.Kind == KindData {
			data = append(data, c)
		}
	}
	data[0].Style[AspectFont]["italic"] = false
	assert.Equal(t, true, data[1].Style[AspectFont]["italic"])
	assert.Equal(t, true, opts.DataStyle[AspectFont]["italic"])
}

func TestDescriptor_MergeOverridesPerProperty(t *testing.T) {
	d := Descriptor{AspectFont: {"bold": true, "color": "black"}}
	d.Merge(Descriptor{
		AspectFont:    {"color": "red"},
		AspectPattern: {"pattern": "solid_fill"},
	})

	assert.Equal(t, true, d[AspectFont]["bold"])
	assert.Equal(t, "red", d[AspectFont]["color"])
	assert.Equal(t, "solid_fill", d[AspectPattern]["pattern"])
	assert.False(t, d.IsEmpty())
	assert.True(t, Descriptor{AspectFont: {}}.IsEmpty())
}
