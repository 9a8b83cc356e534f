package handler

import (
	"bytes"
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/labstack/echo/v4"
	"github.com/locvowork/excelstyler/internal/logger"
	"github.com/locvowork/excelstyler/internal/service"
	"github.com/locvowork/excelstyler/internal/service/serviceutils"
	"github.com/locvowork/excelstyler/pkg/excelformat"
	"github.com/locvowork/excelstyler/pkg/excelwriter"
	"github.com/locvowork/excelstyler/pkg/frame"
	"github.com/locvowork/excelstyler/pkg/styledexcel"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type ExportHandler struct {
	svc service.ReportService
}

func NewExportHandler(svc service.ReportService) *ExportHandler {
	return &ExportHandler{svc: svc}
}

// ExportStyledHandler styles an uploaded CSV by its validation columns and returns xlsx.
func (h *ExportHandler) ExportStyledHandler(c echo.Context) error {
	ctx := c.Request().Context()

	file, err := c.FormFile("file")
	if err != nil {
		return serviceutils.ResponseError(c, http.StatusBadRequest, "Missing file upload", err)
	}

	req, err := exportRequestFromQuery(c)
	if err != nil {
		return serviceutils.ResponseError(c, http.StatusBadRequest, "Invalid export parameters", err)
	}

	src, err := file.Open()
	if err != nil {
		return serviceutils.ResponseError(c, http.StatusBadRequest, "Failed to open upload", err)
	}
	defer src.Close()

	logger.InfoLog(ctx, "Exporting styled workbook for %s", file.Filename)
	var buf bytes.Buffer
	if err := h.svc.ExportCSV(ctx, src, req, &buf); err != nil {
		logger.ErrorLog(ctx, "Styled export failed: %v", err)
		return serviceutils.ResponseError(c, statusFor(err), "Failed to generate Excel file", err)
	}

	name := strings.TrimSuffix(filepath.Base(file.Filename), filepath.Ext(file.Filename)) + "_styled.xlsx"
	return sendWorkbook(c, name, buf.Bytes())
}

// ExportReportHandler exports a report defined in the report configuration.
func (h *ExportHandler) ExportReportHandler(c echo.Context) error {
	ctx := c.Request().Context()
	name := c.Param("name")

	var buf bytes.Buffer
	if err := h.svc.ExportReport(ctx, name, &buf); err != nil {
		logger.ErrorLog(ctx, "Report %s failed: %v", name, err)
		return serviceutils.ResponseError(c, statusFor(err), "Failed to export report", err)
	}
	return sendWorkbook(c, name+".xlsx", buf.Bytes())
}

func (h *ExportHandler) ListReportsHandler(c echo.Context) error {
	return serviceutils.ResponseSuccess(c, http.StatusOK, "Reports", h.svc.Reports())
}

func HealthHandler(c echo.Context) error {
	return serviceutils.ResponseSuccess(c, http.StatusOK, "ok", nil)
}

func sendWorkbook(c echo.Context, filename string, b []byte) error {
	c.Response().Header().Set(echo.HeaderContentDisposition, fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Response().Header().Set(echo.HeaderContentLength, strconv.Itoa(len(b)))
	return c.Blob(http.StatusOK, xlsxContentType, b)
}

func exportRequestFromQuery(c echo.Context) (service.ExportRequest, error) {
	req := service.NewExportRequest()
	req.Validation.Suffix = c.QueryParam("suffix")
	req.IndexColumn = c.QueryParam("index_col")
	if v := c.QueryParam("error_style"); v != "" {
		req.Validation.ErrorStyle = v
	}
	if v := c.QueryParam("sheet"); v != "" {
		req.Options.SheetName = v
	}

	var err error
	if req.Validation.Remove, err = boolParam(c, "remove", false); err != nil {
		return req, err
	}
	if req.Options.Index, err = boolParam(c, "index", true); err != nil {
		return req, err
	}
	return req, nil
}

func boolParam(c echo.Context, name string, def bool) (bool, error) {
	v := c.QueryParam(name)
	if v == "" {
		return def, nil
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, fmt.Errorf("%s: %w", name, err)
	}
	return b, nil
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrReportNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrNoDatabase):
		return http.StatusServiceUnavailable
	case errors.Is(err, styledexcel.ErrInvalidErrorStyle),
		errors.Is(err, styledexcel.ErrEmptySuffix),
		errors.Is(err, styledexcel.ErrShapeMismatch),
		errors.Is(err, excelformat.ErrUnknownColumn),
		errors.Is(err, frame.ErrUnknownColumn),
		errors.Is(err, frame.ErrNotBoolean),
		errors.Is(err, excelwriter.ErrUnknownColor),
		errors.Is(err, excelwriter.ErrUnsupportedStyle):
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}
