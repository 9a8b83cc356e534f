package main

import (
	"fmt"
	"os"

	"github.com/locvowork/excelstyler/internal/config"
	"github.com/locvowork/excelstyler/internal/logger"
	"github.com/locvowork/excelstyler/internal/service"
	"github.com/locvowork/excelstyler/pkg/excelwriter"
	"github.com/spf13/cobra"
)

type exportFlags struct {
	in         string
	out        string
	suffix     string
	errorStyle string
	remove     bool
	sheet      string
	noIndex    bool
	engine     string
	encoding   string
	indexCol   string
	configPath string
	report     string
}

func newExportCommand() *cobra.Command {
	var fl exportFlags

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Style a CSV file by its validation columns and write a spreadsheet",
		Example: `  excelstyler export --in data.csv --out data.xlsx --remove-validation
  excelstyler export --in data.csv --out data.xlsx --config reports.yaml --report stock`,
		RunE: func(cmd *cobra.Command, args []string) error {
			req, err := fl.request(cmd)
			if err != nil {
				return err
			}
			return runExport(cmd, fl, req)
		},
	}

	f := cmd.Flags()
	f.StringVar(&fl.in, "in", "", "Input CSV file")
	f.StringVar(&fl.out, "out", "", "Output file (.xlsx or .csv)")
	f.StringVar(&fl.suffix, "suffix", "", "Suffix of validation columns (default \"_valid\")")
	f.StringVar(&fl.errorStyle, "error-style", "", "Background color of invalid cells (default \"red\")")
	f.BoolVar(&fl.remove, "remove-validation", false, "Drop validation columns from the output")
	f.StringVar(&fl.sheet, "sheet", "", "Sheet name")
	f.BoolVar(&fl.noIndex, "no-index", false, "Do not write the index column")
	f.StringVar(&fl.engine, "engine", "", "Writer engine (excelize, excelize-stream, xlsx, csv)")
	f.StringVar(&fl.encoding, "encoding", "", "Text encoding of csv output")
	f.StringVar(&fl.indexCol, "index-col", "", "Column to use as the row index")
	f.StringVar(&fl.configPath, "config", "", "Report configuration file")
	f.StringVar(&fl.report, "report", "", "Report in --config whose settings are applied")
	_ = cmd.MarkFlagRequired("in")
	_ = cmd.MarkFlagRequired("out")
	cmd.MarkFlagsRequiredTogether("config", "report")

	return cmd
}

// request starts from the named report when one is given; explicit flags override it.
func (fl exportFlags) request(cmd *cobra.Command) (service.ExportRequest, error) {
	req := service.NewExportRequest()
	if fl.configPath != "" {
		reports, err := config.LoadReportConfig(fl.configPath)
		if err != nil {
			return req, err
		}
		report, ok := reports.Find(fl.report)
		if !ok {
			return req, fmt.Errorf("%w: %s", service.ErrReportNotFound, fl.report)
		}
		req = service.RequestFromReport(report)
	}

	changed := cmd.Flags().Changed
	if changed("suffix") {
		req.Validation.Suffix = fl.suffix
	}
	if changed("error-style") {
		req.Validation.ErrorStyle = fl.errorStyle
	}
	if changed("remove-validation") {
		req.Validation.Remove = fl.remove
	}
	if changed("sheet") {
		req.Options.SheetName = fl.sheet
	}
	if changed("no-index") {
		req.Options.Index = !fl.noIndex
	}
	if changed("engine") {
		req.Options.Engine = fl.engine
	}
	if changed("encoding") {
		req.Options.Encoding = fl.encoding
	}
	if changed("index-col") {
		req.IndexColumn = fl.indexCol
	}
	if req.Options.Engine == "" {
		req.Options.Engine = excelwriter.EngineFor(fl.out)
	}
	return req, nil
}

func runExport(cmd *cobra.Command, fl exportFlags, req service.ExportRequest) error {
	ctx := logger.Context(cmd.Context())

	in, err := os.Open(fl.in)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.Create(fl.out)
	if err != nil {
		return err
	}

	svc := service.NewReportService(nil, nil)
	if err := svc.ExportCSV(ctx, in, req, out); err != nil {
		out.Close()
		os.Remove(fl.out)
		logger.ErrorLog(ctx, "Export failed: %v", err)
		return err
	}
	if err := out.Close(); err != nil {
		return err
	}

	logger.InfoLog(ctx, "Wrote %s", fl.out)
	return nil
}
