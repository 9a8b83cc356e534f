// Package excelwriter writes formatted cells to spreadsheet destinations. The default
// engine is excelize; a streaming excelize engine, a tealeg/xlsx engine and a CSV engine
// share the same Writer interface.
package excelwriter

import (
	"errors"
	"fmt"
	"io"
	"iter"
	"path/filepath"
	"strings"

	"github.com/locvowork/excelstyler/pkg/excelformat"
)

const (
	EngineExcelize       = "excelize"
	EngineExcelizeStream = "excelize-stream"
	EngineXLSX           = "xlsx"
	EngineCSV            = "csv"
)

var (
	ErrUnknownEngine  = errors.New("unknown writer engine")
	ErrMultipleSheets = errors.New("csv writer holds a single sheet")
	ErrNoDestination  = errors.New("writer has neither a path nor an output")
	ErrClosed         = errors.New("writer is closed")
	ErrRowOrder       = errors.New("stream writer needs ascending rows")
	ErrSheetWritten   = errors.New("sheet already streamed")
	ErrNegativeAnchor = errors.New("start row and column must not be negative")
)

// Writer receives formatted cells and serializes them on Save.
type Writer interface {
	// WriteCells places every cell of cells on sheet, shifted by startRow/startCol.
	WriteCells(cells iter.Seq[*excelformat.Cell], sheet string, startRow, startCol int) error
	Save() error
	Close() error
}

// Option configures a writer opened with Open.
type Option func(*config)

type config struct {
	encoding string
	output   io.Writer
}

// WithEncoding sets the text encoding of engines that write text (csv). Names follow the
// WHATWG encoding labels, e.g. "utf-8", "windows-1252", "shift_jis".
func WithEncoding(name string) Option {
	return func(c *config) {
		c.encoding = name
	}
}

// WithOutput makes Save write the document to w instead of a file.
func WithOutput(w io.Writer) Option {
	return func(c *config) {
		c.output = w
	}
}

// Open creates a writer for path. An empty engine is chosen from the file extension:
// ".csv" selects the csv engine, anything else excelize. Path may be empty when
// WithOutput is given.
func Open(path, engine string, opts ...Option) (Writer, error) {
	cfg := &config{}
	for _, opt := range opts {
		opt(cfg)
	}
	if path == "" && cfg.output == nil {
		return nil, ErrNoDestination
	}

	if engine == "" {
		engine = EngineFor(path)
	}

	switch strings.ToLower(engine) {
	case EngineExcelize:
		return newExcelizeWriter(path, cfg), nil
	case EngineExcelizeStream:
		return newStreamWriter(path, cfg), nil
	case EngineXLSX:
		return newXLSXWriter(path, cfg), nil
	case EngineCSV:
		return newCSVWriter(path, cfg)
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownEngine, engine)
}

// EngineFor returns the default engine for a destination path.
func EngineFor(path string) string {
	if strings.EqualFold(filepath.Ext(path), ".csv") {
		return EngineCSV
	}
	return EngineExcelize
}

func checkAnchor(startRow, startCol int) error {
	if startRow < 0 || startCol < 0 {
		return fmt.Errorf("%w: row %d, col %d", ErrNegativeAnchor, startRow, startCol)
	}
	return nil
}
