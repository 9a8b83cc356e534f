package excelwriter

import (
	"bytes"
	"fmt"
	"io"
	"iter"

	"github.com/locvowork/excelstyler/pkg/excelformat"
	"github.com/xuri/excelize/v2"
)

const defaultSheet = "Sheet1"

// ExcelizeWriter writes cells into an in-memory excelize workbook. Styles are created
// once per distinct descriptor.
type ExcelizeWriter struct {
	file       *excelize.File
	path       string
	output     io.Writer
	styleCache map[string]int
	sheets     map[string]bool
	closed     bool
}

// NewExcelizeWriter returns a writer saving to path, or only usable through Write and
// Bytes when path is empty.
func NewExcelizeWriter(path string) *ExcelizeWriter {
	return newExcelizeWriter(path, &config{})
}

func newExcelizeWriter(path string, cfg *config) *ExcelizeWriter {
	return &ExcelizeWriter{
		file:       excelize.NewFile(),
		path:       path,
		output:     cfg.output,
		styleCache: make(map[string]int),
		sheets:     make(map[string]bool),
	}
}

// File exposes the underlying workbook.
func (w *ExcelizeWriter) File() *excelize.File {
	return w.file
}

func (w *ExcelizeWriter) WriteCells(cells iter.Seq[*excelformat.Cell], sheet string, startRow, startCol int) error {
	if w.closed {
		return ErrClosed
	}
	if err := checkAnchor(startRow, startCol); err != nil {
		return err
	}
	if err := w.ensureSheet(sheet); err != nil {
		return err
	}

	for c := range cells {
		addr, err := excelize.CoordinatesToCellName(startCol+c.Col+1, startRow+c.Row+1)
		if err != nil {
			return err
		}
		if err := w.file.SetCellValue(sheet, addr, c.Value); err != nil {
			return fmt.Errorf("set %s!%s: %w", sheet, addr, err)
		}

		end := addr
		if c.Merged() {
			end, err = excelize.CoordinatesToCellName(startCol+c.MergeEndCol+1, startRow+c.MergeEndRow+1)
			if err != nil {
				return err
			}
			if err := w.file.MergeCell(sheet, addr, end); err != nil {
				return fmt.Errorf("merge %s!%s:%s: %w", sheet, addr, end, err)
			}
		}

		if c.Style.IsEmpty() {
			continue
		}
		styleID, err := w.createStyle(c.Style)
		if err != nil {
			return fmt.Errorf("style %s!%s: %w", sheet, addr, err)
		}
		if err := w.file.SetCellStyle(sheet, addr, end, styleID); err != nil {
			return fmt.Errorf("style %s!%s: %w", sheet, addr, err)
		}
	}
	return nil
}

// ensureSheet renames the default sheet for the first sheet written and adds the others.
func (w *ExcelizeWriter) ensureSheet(name string) error {
	if w.sheets[name] {
		return nil
	}
	if len(w.sheets) == 0 && name != defaultSheet {
		if err := w.file.SetSheetName(defaultSheet, name); err != nil {
			return fmt.Errorf("rename sheet %s: %w", name, err)
		}
	} else if idx, _ := w.file.GetSheetIndex(name); idx == -1 {
		if _, err := w.file.NewSheet(name); err != nil {
			return fmt.Errorf("add sheet %s: %w", name, err)
		}
	}
	w.sheets[name] = true
	return nil
}

func (w *ExcelizeWriter) createStyle(d excelformat.Descriptor) (int, error) {
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

// Save writes the workbook to its path, or to the output given at Open. A path with an
// extension excelize cannot write fails with excelize.ErrWorkbookFileFormat.
func (w *ExcelizeWriter) Save() error {
	if w.closed {
		return ErrClosed
	}
	switch {
	case w.path != "":
		return w.file.SaveAs(w.path)
	case w.output != nil:
		return w.file.Write(w.output)
	}
	return ErrNoDestination
}

// Write writes the workbook to out.
func (w *ExcelizeWriter) Write(out io.Writer) error {
	if w.closed {
		return ErrClosed
	}
	return w.file.Write(out)
}

// Bytes returns the workbook as xlsx bytes.
func (w *ExcelizeWriter) Bytes() ([]byte, error) {
	buf := new(bytes.Buffer)
	if err := w.Write(buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func (w *ExcelizeWriter) Close() error {
	if w.closed {
		return nil
	}
	w.closed = true
	return w.file.Close()
}
