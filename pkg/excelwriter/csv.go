package excelwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"iter"
	"os"
	"strconv"

	"github.com/locvowork/excelstyler/pkg/excelformat"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/htmlindex"
)

// CSVWriter lays cells out on a grid and writes it as CSV on Save. Styles and merges are
// dropped; only one sheet can be written.
type CSVWriter struct {
	path     string
	output   io.Writer
	encoding encoding.Encoding
	sheet    string
	grid     [][]string
	width    int
	closed   bool
}

func newCSVWriter(path string, cfg *config) (*CSVWriter, error) {
	w := &CSVWriter{path: path, output: cfg.output}
	if cfg.encoding != "" {
		enc, err := htmlindex.Get(cfg.encoding)
		if err != nil {
			return nil, fmt.Errorf("csv encoding %q: %w", cfg.encoding, err)
		}
		w.encoding = enc
	}
	return w, nil
}

func (w *CSVWriter) WriteCells(cells iter.Seq[*excelformat.Cell], sheet string, startRow, startCol int) error {
	if w.closed {
		return ErrClosed
	}
	if err := checkAnchor(startRow, startCol); err != nil {
		return err
	}
	if w.sheet != "" && w.sheet != sheet {
		return fmt.Errorf("%w: already wrote %q, got %q", ErrMultipleSheets, w.sheet, sheet)
	}
	w.sheet = sheet

	for c := range cells {
		r, col := startRow+c.Row, startCol+c.Col
		for len(w.grid) <= r {
			w.grid = append(w.grid, nil)
		}
		for len(w.grid[r]) <= col {
			w.grid[r] = append(w.grid[r], "")
		}
		w.grid[r][col] = csvValue(c.Value)
		if col+1 > w.width {
			w.width = col + 1
		}
	}
	return nil
}

func csvValue(v interface{}) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(val)
	}
	return fmt.Sprint(v)
}

func (w *CSVWriter) Save() error {
	if w.closed {
		return ErrClosed
	}

	var out io.Writer
	switch {
	case w.path != "":
		f, err := os.Create(w.path)
		if err != nil {
			return err
		}
		defer f.Close()
		out = f
	case w.output != nil:
		out = w.output
	default:
		return ErrNoDestination
	}
	if w.encoding != nil {
		out = w.encoding.NewEncoder().Writer(out)
	}

	csvWriter := csv.NewWriter(out)
	for _, row := range w.grid {
		record := make([]string, w.width)
		copy(record, row)
		if err := csvWriter.Write(record); err != nil {
			return err
		}
	}
	csvWriter.Flush()
	if err := csvWriter.Error(); err != nil {
		return err
	}
	if c, ok := out.(io.Closer); ok && w.encoding != nil {
		return c.Close()
	}
	return nil
}

func (w *CSVWriter) Close() error {
	w.closed = true
	return nil
}
