package excelwriter

import (
	"fmt"
	"io"
	"iter"

	"github.com/locvowork/excelstyler/pkg/excelformat"
	"github.com/tealeg/xlsx"
	"github.com/xuri/excelize/v2"
)

// XLSXWriter writes cells with tealeg/xlsx.
type XLSXWriter struct {
	file       *xlsx.File
	path       string
	output     io.Writer
	sheets     map[string]*xlsx.Sheet
	styleCache map[string]*xlsx.Style
	closed     bool
}

func newXLSXWriter(path string, cfg *config) *XLSXWriter {
	return &XLSXWriter{
		file:       xlsx.NewFile(),
		path:       path,
		output:     cfg.output,
		sheets:     make(map[string]*xlsx.Sheet),
		styleCache: make(map[string]*xlsx.Style),
	}
}

func (w *XLSXWriter) WriteCells(cells iter.Seq[*excelformat.Cell], sheet string, startRow, startCol int) error {
	if w.closed {
		return ErrClosed
	}
	if err := checkAnchor(startRow, startCol); err != nil {
		return err
	}
	sh, ok := w.sheets[sheet]
	if !ok {
		var err error
		sh, err = w.file.AddSheet(sheet)
		if err != nil {
			return fmt.Errorf("add sheet %s: %w", sheet, err)
		}
		w.sheets[sheet] = sh
	}

	for c := range cells {
		cell := sh.Cell(startRow+c.Row, startCol+c.Col)
		switch v := c.Value.(type) {
		case bool:
			cell.SetBool(v)
		default:
			cell.SetValue(v)
		}
		if c.Merged() {
			cell.Merge(c.MergeEndCol-c.Col, c.MergeEndRow-c.Row)
		}
		if c.Style.IsEmpty() {
			continue
		}
		style, err := w.createStyle(c.Style)
		if err != nil {
			return fmt.Errorf("style %s row %d col %d: %w", sheet, c.Row, c.Col, err)
		}
		cell.SetStyle(style)
	}
	return nil
}

// createStyle reuses the excelize translation so both engines read descriptors alike.
func (w *XLSXWriter) createStyle(d excelformat.Descriptor) (*xlsx.Style, error) {
	key := styleKey(d)
	if s, ok := w.styleCache[key]; ok {
		return s, nil
	}
	es, err := ExcelizeStyle(d)
	if err != nil {
		return nil, err
	}
	s := tealegStyle(es)
	w.styleCache[key] = s
	return s, nil
}

func tealegStyle(es *excelize.Style) *xlsx.Style {
	s := xlsx.NewStyle()
	if f := es.Font; f != nil {
		s.Font.Bold = f.Bold
		s.Font.Italic = f.Italic
		s.Font.Underline = f.Underline != ""
		if f.Color != "" {
			s.Font.Color = "FF" + f.Color
		}
		if f.Family != "" {
			s.Font.Name = f.Family
		}
		if f.Size > 0 {
			s.Font.Size = int(f.Size)
		}
		s.ApplyFont = true
	}
	if es.Fill.Pattern > 0 && es.Fill.Pattern < len(patternNames) {
		s.Fill.PatternType = patternNames[es.Fill.Pattern]
		if len(es.Fill.Color) > 0 {
			s.Fill.FgColor = "FF" + es.Fill.Color[0]
		}
		if len(es.Fill.Color) > 1 {
			s.Fill.BgColor = "FF" + es.Fill.Color[1]
		}
		s.ApplyFill = true
	}
	if a := es.Alignment; a != nil {
		s.Alignment.Horizontal = a.Horizontal
		s.Alignment.Vertical = a.Vertical
		s.Alignment.WrapText = a.WrapText
		s.ApplyAlignment = true
	}
	for _, b := range es.Border {
		name := borderNames[b.Style]
		color := ""
		if b.Color != "" {
			color = "FF" + b.Color
		}
		switch b.Type {
		case "left":
			s.Border.Left, s.Border.LeftColor = name, color
		case "right":
			s.Border.Right, s.Border.RightColor = name, color
		case "top":
			s.Border.Top, s.Border.TopColor = name, color
		case "bottom":
			s.Border.Bottom, s.Border.BottomColor = name, color
		}
		s.ApplyBorder = true
	}
	return s
}

func (w *XLSXWriter) Save() error {
	if w.closed {
		return ErrClosed
	}
	switch {
	case w.path != "":
		return w.file.Save(w.path)
	case w.output != nil:
		return w.file.Write(w.output)
	}
	return ErrNoDestination
}

func (w *XLSXWriter) Close() error {
	w.closed = true
	return nil
}
