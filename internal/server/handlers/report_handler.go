package handlers

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/resaledesk/internal/domain/models"
	"github.com/mamadbah2/resaledesk/internal/service/export"
	"github.com/mamadbah2/resaledesk/internal/service/reporting"
)

// ReportingService is the analytics surface used over HTTP.
type ReportingService interface {
	Dashboard(ctx context.Context) (reporting.Dashboard, error)
	Performance(ctx context.Context) (reporting.Performance, error)
	Optimizer(ctx context.Context) (reporting.OptimizerReport, error)
	WeeklyReport(ctx context.Context) (models.WeeklyReport, error)
}

// ExportService moves whole-store snapshots in and out.
type ExportService interface {
	Export(ctx context.Context) (export.Bundle, error)
	Import(ctx context.Context, bundle export.Bundle) (export.ImportResult, error)
	WriteWorkbook(ctx context.Context, w io.Writer) error
}

// ReportHandler serves dashboards, analytics and data export.
type ReportHandler struct {
	reports ReportingService
	exports ExportService
	logger  *zap.Logger
}

func NewReportHandler(reports ReportingService, exports ExportService, logger *zap.Logger) *ReportHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportHandler{reports: reports, exports: exports, logger: logger}
}

func (h *ReportHandler) Dashboard(c *gin.Context) {
	d, err := h.reports.Dashboard(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, "failed to build dashboard", err)
		return
	}
	c.JSON(http.StatusOK, d)
}

func (h *ReportHandler) Performance(c *gin.Context) {
	p, err := h.reports.Performance(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, "failed to analyze performance", err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *ReportHandler) Optimizer(c *gin.Context) {
	o, err := h.reports.Optimizer(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, "failed to optimize inventory", err)
		return
	}
	c.JSON(http.StatusOK, o)
}

// Weekly generates and archives the weekly summary on demand.
func (h *ReportHandler) Weekly(c *gin.Context) {
	r, err := h.reports.WeeklyReport(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, "failed to generate weekly report", err)
		return
	}
	c.JSON(http.StatusOK, r)
}

// Export returns the whole store as a JSON bundle.
func (h *ReportHandler) Export(c *gin.Context) {
	bundle, err := h.exports.Export(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, "failed to export data", err)
		return
	}
	c.JSON(http.StatusOK, bundle)
}

// ExportWorkbook returns the whole store as an xlsx download.
func (h *ReportHandler) ExportWorkbook(c *gin.Context) {
	var buf bytes.Buffer
	if err := h.exports.WriteWorkbook(c.Request.Context(), &buf); err != nil {
		respondError(c, h.logger, "failed to export workbook", err)
		return
	}
	filename := fmt.Sprintf("resale-export-%s.xlsx", time.Now().Format(models.DateLayout))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet", buf.Bytes())
}

// Import replaces every collection present in the posted bundle.
func (h *ReportHandler) Import(c *gin.Context) {
	var bundle export.Bundle
	if err := c.ShouldBindJSON(&bundle); err != nil {
		badRequest(c, h.logger, err)
		return
	}
	result, err := h.exports.Import(c.Request.Context(), bundle)
	if err != nil {
		respondError(c, h.logger, "failed to import data", err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "imported": result})
}
