package handler

import (
	"time"

	reportapp "github.com/crm/backend/internal/application/report"
	"github.com/crm/backend/internal/domain/report"
	"github.com/crm/backend/internal/interfaces/http/middleware"
	"github.com/gin-gonic/gin"
)

// ReportHandler handles reporting and dashboard endpoints
type ReportHandler struct {
	BaseHandler
	reportService *reportapp.ReportService
}

// NewReportHandler creates a new ReportHandler
func NewReportHandler(reportService *reportapp.ReportService) *ReportHandler {
	return &ReportHandler{reportService: reportService}
}

// RegisterRoutes registers report routes
func (h *ReportHandler) RegisterRoutes(rg *gin.RouterGroup) {
	reports := rg.Group("/reports")
	reports.Use(middleware.RequirePermission("reports:read"))
	{
		reports.GET("/dashboard", h.Dashboard)
		reports.GET("/sales-by-month", h.SalesByMonth)
		reports.GET("/sales", h.Sales)
		reports.GET("/leads", h.Leads)
		reports.GET("/activities", h.Activities)
	}
}

// dateRangeQuery binds optional start/end date query parameters. A named
// range derives the window from now; explicit dates override it.
type dateRangeQuery struct {
	StartDate *time.Time `form:"start_date" time_format:"2006-01-02"`
	EndDate   *time.Time `form:"end_date" time_format:"2006-01-02"`
	Range     string     `form:"range" binding:"omitempty,oneof=weekly monthly quarterly yearly"`
}

func (q dateRangeQuery) toFilter() report.DateRangeFilter {
	filter := report.DateRangeFilter{}
	if q.Range != "" {
		end := time.Now()
		filter.EndDate = end
		switch q.Range {
		case "weekly":
			filter.StartDate = end.AddDate(0, 0, -7)
		case "monthly":
			filter.StartDate = end.AddDate(0, -1, 0)
		case "quarterly":
			filter.StartDate = end.AddDate(0, -3, 0)
		case "yearly":
			filter.StartDate = end.AddDate(-1, 0, 0)
		}
	}
	if q.StartDate != nil {
		filter.StartDate = *q.StartDate
	}
	if q.EndDate != nil {
		filter.EndDate = *q.EndDate
	}
	return filter
}

// Dashboard returns the dashboard overview stats
func (h *ReportHandler) Dashboard(c *gin.Context) {
	stats, err := h.reportService.DashboardStats(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, stats)
}

// SalesByMonth returns the monthly sales trend
func (h *ReportHandler) SalesByMonth(c *gin.Context) {
	months, err := h.reportService.SalesByMonth(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, months)
}

// Sales returns the sales report for a date range
func (h *ReportHandler) Sales(c *gin.Context) {
	var query dateRangeQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.reportService.SalesReport(c.Request.Context(), query.toFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Leads returns the leads report
func (h *ReportHandler) Leads(c *gin.Context) {
	result, err := h.reportService.LeadsReport(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}

// Activities returns the activity report for a date range
func (h *ReportHandler) Activities(c *gin.Context) {
	var query dateRangeQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	result, err := h.reportService.ActivityReport(c.Request.Context(), query.toFilter())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, result)
}
