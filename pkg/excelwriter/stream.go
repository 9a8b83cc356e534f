package excelwriter

import (
	"fmt"
	"io"
	"iter"

	"github.com/locvowork/excelstyler/pkg/excelformat"
	"github.com/xuri/excelize/v2"
)

// StreamWriter writes rows through excelize's stream writer, keeping only the current row
// in memory. Cells must arrive row by row in ascending order, and each sheet takes a single
// WriteCells call.
type StreamWriter struct {
	file       *excelize.File
	path       string
	output     io.Writer
	streams    map[string]*excelize.StreamWriter
	order      []string
	styleCache map[string]int
	closed     bool
}

// NewStreamWriter returns a streaming writer saving to path.
func NewStreamWriter(path string) *StreamWriter {
	return newStreamWriter(path, &config{})
}

func newStreamWriter(path string, cfg *config) *StreamWriter {
	return &StreamWriter{
		file:       excelize.NewFile(),
		path:       path,
		output:     cfg.output,
		streams:    make(map[string]*excelize.StreamWriter),
		styleCache: make(map[string]int),
	}
}

func (w *StreamWriter) addSheet(name string) (*excelize.StreamWriter, error) {
	if _, ok := w.streams[name]; ok {
		return nil, fmt.Errorf("%w: %s", ErrSheetWritten, name)
	}

	index, err := w.file.GetSheetIndex(name)
	if index == -1 {
		if _, err = w.file.NewSheet(name); err != nil {
			return nil, err
		}
	}

	sw, err := w.file.NewStreamWriter(name)
	if err != nil {
		return nil, err
	}
	w.streams[name] = sw
	w.order = append(w.order, name)
	return sw, nil
}

func (w *StreamWriter) WriteCells(cells iter.Seq[*excelformat.Cell], sheet string, startRow, startCol int) error {
	if w.closed {
		return ErrClosed
	}
	if err := checkAnchor(startRow, startCol); err != nil {
		return err
	}
	sw, err := w.addSheet(sheet)
	if err != nil {
		return err
	}

	current := -1
	var row []interface{}
	flush := func() error {
		if current < 0 {
			return nil
		}
		addr, err := excelize.CoordinatesToCellName(startCol+1, startRow+current+1)
		if err != nil {
			return err
		}
		return sw.SetRow(addr, row)
	}

	for c := range cells {
		if c.Row < current {
			return fmt.Errorf("%w: row %d after row %d", ErrRowOrder, c.Row, current)
		}
		if c.Row > current {
			if err := flush(); err != nil {
				return err
			}
			current = c.Row
			row = row[:0]
		}
		for len(row) <= c.Col {
			row = append(row, nil)
		}

		var value interface{} = c.Value
		if !c.Style.IsEmpty() {
			styleID, err := w.createStyle(c.Style)
			if err != nil {
				return fmt.Errorf("style %s row %d col %d: %w", sheet, c.Row, c.Col, err)
			}
			value = excelize.Cell{StyleID: styleID, Value: c.Value}
		}
		row[c.Col] = value

		if c.Merged() {
			top, _ := excelize.CoordinatesToCellName(startCol+c.Col+1, startRow+c.Row+1)
			bottom, _ := excelize.CoordinatesToCellName(startCol+c.MergeEndCol+1, startRow+c.MergeEndRow+1)
			if err := sw.MergeCell(top, bottom); err != nil {
				return err
			}
		}
	}
	return flush()
}

func (w *StreamWriter) createStyle(d excelformat.Descriptor) (int, error) {
	key := styleKey(d)
	if id, ok := w.styleCache[key]; ok {
		return id, nil
	}
	style, err := ExcelizeStyle(d)
	if err != nil {
		return 0, err
	}
	id, err := w.file.NewStyle(style)
	if err != nil {
		return 0, err
	}
	w.styleCache[key] = id
	return id, nil
}

// Save flushes every sheet stream and writes the workbook.
func (w *StreamWriter) Save() error {
	if w.closed {
		return ErrClosed
	}
	for _, name := range w.order {
		if err := w.streams[name].Flush(); err != nil {
			return err
		}
	}

	// Remove default Sheet1 if it wasn't used
	if _, ok := w.streams[defaultSheet]; !ok && len(w.streams) > 0 {
		_ = w.file.DeleteSheet(defaultSheet)
	}

	switch {
	case w.path != "":
		return w.file.SaveAs(w.path)
	case w.output != nil:
		return w.file.Write(w.output)
	}
	return ErrNoDestination
}

func (w *StreamWriter) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	return w.file.Close()
}
