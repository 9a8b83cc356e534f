package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"

	"github.com/locvowork/excelstyler/internal/config"
	"github.com/locvowork/excelstyler/internal/logger"
	"github.com/locvowork/excelstyler/pkg/excelwriter"
	"github.com/locvowork/excelstyler/pkg/frame"
	"github.com/locvowork/excelstyler/pkg/styledexcel"
)

var (
	ErrReportNotFound = errors.New("report not found")
	ErrNoDatabase     = errors.New("no database configured")
)

// ExportRequest describes how an uploaded table is styled and written.
type ExportRequest struct {
	IndexColumn string
	Validation  config.Validation
	Rules       []styledexcel.Rule
	Options     styledexcel.ExportOptions
}

// NewExportRequest returns a request with the default export options.
func NewExportRequest() ExportRequest {
	return ExportRequest{Options: styledexcel.DefaultExportOptions()}
}

// RequestFromReport returns the export settings of a configured report.
func RequestFromReport(r *config.Report) ExportRequest {
	return ExportRequest{
		IndexColumn: r.IndexColumn,
		Validation:  r.Validation,
		Rules:       r.Rules,
		Options:     r.Export,
	}
}

type ReportService interface {
	// ExportCSV reads a CSV table from r and writes the styled workbook to w.
	ExportCSV(ctx context.Context, r io.Reader, req ExportRequest, w io.Writer) error
	// ExportReport runs the named report's query and writes the styled workbook to w.
	ExportReport(ctx context.Context, name string, w io.Writer) error
	Reports() []string
}

type reportService struct {
	db      *sql.DB
	reports *config.ReportConfig
}

// NewReportService builds the service. db and reports may be nil; named reports are then
// unavailable.
func NewReportService(db *sql.DB, reports *config.ReportConfig) ReportService {
	return &reportService{db: db, reports: reports}
}

func (s *reportService) Reports() []string {
	if s.reports == nil {
		return nil
	}
	names := make([]string, 0, len(s.reports.Reports))
	for _, r := range s.reports.Reports {
		names = append(names, r.Name)
	}
	return names
}

func (s *reportService) ExportCSV(ctx context.Context, r io.Reader, req ExportRequest, w io.Writer) error {
	f, err := frame.FromCSV(r)
	if err != nil {
		return err
	}
	return s.export(ctx, f, req, w)
}

func (s *reportService) ExportReport(ctx context.Context, name string, w io.Writer) error {
	report, ok := s.reports.Find(name)
	if !ok {
		return fmt.Errorf("%w: %s", ErrReportNotFound, name)
	}
	if s.db == nil {
		return ErrNoDatabase
	}

	logger.InfoLog(ctx, "Running report %s", name)
	rows, err := s.db.QueryContext(ctx, report.Query)
	if err != nil {
		return fmt.Errorf("failed to query report %s: %w", name, err)
	}
	defer rows.Close()

	f, err := frame.FromRows(rows)
	if err != nil {
		return fmt.Errorf("failed to read report %s: %w", name, err)
	}

	return s.export(ctx, f, RequestFromReport(report), w)
}

func (s *reportService) export(ctx context.Context, f *frame.Frame, req ExportRequest, w io.Writer) error {
	ctx = logger.Context(ctx)

	if req.IndexColumn != "" {
		if err := f.SetIndexColumn(req.IndexColumn); err != nil {
			return err
		}
	}

	m, err := styledexcel.ValidationStyles(f, req.Validation.Options()...)
	if err != nil {
		return err
	}
	if err := styledexcel.ApplyRules(m, f, req.Rules); err != nil {
		return err
	}

	engine := req.Options.Engine
	if engine == "" {
		engine = excelwriter.EngineExcelize
	}
	out, err := excelwriter.Open("", engine,
		excelwriter.WithOutput(w),
		excelwriter.WithEncoding(req.Options.Encoding))
	if err != nil {
		return err
	}
	defer out.Close()

	if err := styledexcel.ToWriter(ctx, f, out, m, styledexcel.WithExportOptions(req.Options)); err != nil {
		return err
	}
	if err := out.Save(); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	logger.DebugLog(ctx, "Exported %d rows, %d styled cells", f.Nrow(), m.Len())
	return nil
}
