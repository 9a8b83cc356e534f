package styledexcel

import (
	"context"
	"fmt"
	"iter"

	"github.com/locvowork/excelstyler/pkg/excelformat"
	"github.com/locvowork/excelstyler/pkg/excelwriter"
	"github.com/rs/zerolog"
)

// ExportOptions are the pass-through formatting and writer options of an export.
type ExportOptions struct {
	SheetName   string                 `yaml:"sheet_name"`
	NaRep       string                 `yaml:"na_rep"`
	FloatFormat string                 `yaml:"float_format"`
	Columns     []string               `yaml:"columns"`
	Header      bool                   `yaml:"header"`
	HeaderNames []string               `yaml:"header_names"`
	Index       bool                   `yaml:"index"`
	IndexLabel  string                 `yaml:"index_label"`
	StartRow    int                    `yaml:"start_row"`
	StartCol    int                    `yaml:"start_col"`
	Engine      string                 `yaml:"engine"`
	MergeCells  bool                   `yaml:"merge_cells"`
	Encoding    string                 `yaml:"encoding"`
	InfRep      string                 `yaml:"inf_rep"`
	DataStyle   excelformat.Descriptor `yaml:"data_style"`
}

// DefaultExportOptions returns the defaults: sheet "Sheet1", header and index written,
// merged index runs, infinity written as "inf".
func DefaultExportOptions() ExportOptions {
	return ExportOptions{
		SheetName:  "Sheet1",
		Header:     true,
		Index:      true,
		MergeCells: true,
		InfRep:     "inf",
	}
}

func (o ExportOptions) formatOptions() excelformat.Options {
	return excelformat.Options{
		NaRep:       o.NaRep,
		FloatFormat: o.FloatFormat,
		Columns:     o.Columns,
		Header:      o.Header,
		HeaderNames: o.HeaderNames,
		Index:       o.Index,
		IndexLabel:  o.IndexLabel,
		MergeCells:  o.MergeCells,
		InfRep:      o.InfRep,
		DataStyle:   o.DataStyle,
	}
}

// ExportOption configures an export.
type ExportOption func(*ExportOptions)

func WithSheetName(name string) ExportOption {
	return func(o *ExportOptions) {
		if name != "" {
			o.SheetName = name
		}
	}
}

func WithNaRep(rep string) ExportOption {
	return func(o *ExportOptions) { o.NaRep = rep }
}

// WithFloatFormat sets a printf verb for floats, e.g. "%.2f".
func WithFloatFormat(format string) ExportOption {
	return func(o *ExportOptions) { o.FloatFormat = format }
}

// WithColumns writes only the named columns, in that order.
func WithColumns(cols ...string) ExportOption {
	return func(o *ExportOptions) { o.Columns = cols }
}

// WithHeader toggles the header row. Aliases, when given, replace the column names.
func WithHeader(header bool, aliases ...string) ExportOption {
	return func(o *ExportOptions) {
		o.Header = header
		o.HeaderNames = aliases
	}
}

func WithIndex(index bool) ExportOption {
	return func(o *ExportOptions) { o.Index = index }
}

func WithIndexLabel(label string) ExportOption {
	return func(o *ExportOptions) { o.IndexLabel = label }
}

// WithStartCell sets the 0-based upper left cell of the export.
func WithStartCell(row, col int) ExportOption {
	return func(o *ExportOptions) {
		o.StartRow = row
		o.StartCol = col
	}
}

func WithEngine(engine string) ExportOption {
	return func(o *ExportOptions) { o.Engine = engine }
}

func WithMergeCells(merge bool) ExportOption {
	return func(o *ExportOptions) { o.MergeCells = merge }
}

func WithEncoding(encoding string) ExportOption {
	return func(o *ExportOptions) { o.Encoding = encoding }
}

func WithInfRep(rep string) ExportOption {
	return func(o *ExportOptions) { o.InfRep = rep }
}

// WithDataStyle sets the default style of every data cell. Matrix styles merge over it.
func WithDataStyle(d excelformat.Descriptor) ExportOption {
	return func(o *ExportOptions) { o.DataStyle = d }
}

// WithExportOptions replaces all options, e.g. with ones loaded from configuration.
func WithExportOptions(opts ExportOptions) ExportOption {
	return func(o *ExportOptions) { *o = opts }
}

func buildOptions(opts []ExportOption) ExportOptions {
	o := DefaultExportOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if o.SheetName == "" {
		o.SheetName = "Sheet1"
	}
	return o
}

// ToExcel writes t to path with the styles of m. The writer is opened for the call and
// always closed; it is saved only when every cell was written. m may be nil.
func ToExcel(ctx context.Context, t excelformat.Table, path string, m *Matrix, opts ...ExportOption) error {
	o := buildOptions(opts)
	f, err := prepare(ctx, t, m, o)
	if err != nil {
		return err
	}

	w, err := excelwriter.Open(path, o.Engine, excelwriter.WithEncoding(o.Encoding))
	if err != nil {
		return err
	}
	if err := write(ctx, f, w, o); err != nil {
		_ = w.Close()
		return err
	}
	if err := w.Save(); err != nil {
		_ = w.Close()
		return fmt.Errorf("save %s: %w", path, err)
	}
	return w.Close()
}

// ToWriter writes t into an open writer. Saving and closing stay with the caller.
func ToWriter(ctx context.Context, t excelformat.Table, w excelwriter.Writer, m *Matrix, opts ...ExportOption) error {
	o := buildOptions(opts)
	f, err := prepare(ctx, t, m, o)
	if err != nil {
		return err
	}
	return write(ctx, f, w, o)
}

func prepare(ctx context.Context, t excelformat.Table, m *Matrix, o ExportOptions) (*StyledFormatter, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if o.StartRow < 0 || o.StartCol < 0 {
		return nil, fmt.Errorf("%w: row %d, col %d", excelwriter.ErrNegativeAnchor, o.StartRow, o.StartCol)
	}
	return NewStyledFormatter(t, m, o.formatOptions())
}

func write(ctx context.Context, f *StyledFormatter, w excelwriter.Writer, o ExportOptions) error {
	log := zerolog.Ctx(ctx)
	styled := 0
	if f.matrix != nil {
		styled = f.matrix.Len()
	}
	log.Debug().
		Str("sheet", o.SheetName).
		Int("start_row", o.StartRow).
		Int("start_col", o.StartCol).
		Int("styled", styled).
		Msg("writing styled cells")

	if err := w.WriteCells(untilDone(ctx, f.Cells()), o.SheetName, o.StartRow, o.StartCol); err != nil {
		return fmt.Errorf("write sheet %s: %w", o.SheetName, err)
	}
	return ctx.Err()
}

// untilDone stops seq once ctx is cancelled.
func untilDone(ctx context.Context, seq iter.Seq[*excelformat.Cell]) iter.Seq[*excelformat.Cell] {
	return func(yield func(*excelformat.Cell) bool) {
		for c := range seq {
			if ctx.Err() != nil || !yield(c) {
				return
			}
		}
	}
}
