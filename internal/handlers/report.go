// internal/handlers/report.go
package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/cellcare/pos-backend/internal/services"
	"github.com/cellcare/pos-backend/internal/utils"
)

type ReportHandler struct {
	reportService *services.ReportService
}

func NewReportHandler(reportService *services.ReportService) *ReportHandler {
	return &ReportHandler{
		reportService: reportService,
	}
}

// GET /reports/overview
func (h *ReportHandler) GetOverview(c *gin.Context) {
	ownerID, ok := requireUserID(c)
	if !ok {
		return
	}

	overview, err := h.reportService.GetSalesOverview(ownerID)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"overview": overview,
	})
}

// GET /reports/daily?date=2026-08-29
func (h *ReportHandler) GetDailyReport(c *gin.Context) {
	ownerID, ok := requireUserID(c)
	if !ok {
		return
	}

	date := time.Now()
	if dateStr := c.Query("date"); dateStr != "" {
		parsed, err := time.Parse("2006-01-02", dateStr)
		if err != nil {
			utils.BadRequestResponse(c, "Invalid date, expected YYYY-MM-DD", nil)
			return
		}
		date = parsed
	}

	report, err := h.reportService.GetDailySalesReport(ownerID, date)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"report": report,
	})
}

// GET /reports/monthly?month=8&year=2026
func (h *ReportHandler) GetMonthlyReport(c *gin.Context) {
	ownerID, ok := requireUserID(c)
	if !ok {
		return
	}

	now := time.Now()
	month, _ := strconv.Atoi(c.DefaultQuery("month", strconv.Itoa(int(now.Month()))))
	year, _ := strconv.Atoi(c.DefaultQuery("year", strconv.Itoa(now.Year())))

	report, err := h.reportService.GetMonthlySalesReport(ownerID, month, year)
	if err != nil {
		utils.BadRequestResponse(c, err.Error(), nil)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"report": report,
	})
}

// GET /reports/products
func (h *ReportHandler) GetProductReport(c *gin.Context) {
	ownerID, ok := requireUserID(c)
	if !ok {
		return
	}

	report, err := h.reportService.GetProductSalesReport(ownerID)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"report": report,
	})
}

// GET /reports/range?start=2026-08-01&end=2026-08-29
func (h *ReportHandler) GetSalesByDateRange(c *gin.Context) {
	ownerID, ok := requireUserID(c)
	if !ok {
		return
	}

	start, err := time.Parse("2006-01-02", c.Query("start"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid start date, expected YYYY-MM-DD", nil)
		return
	}
	end, err := time.Parse("2006-01-02", c.Query("end"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid end date, expected YYYY-MM-DD", nil)
		return
	}
	if end.Before(start) {
		utils.BadRequestResponse(c, "End date must not be before start date", nil)
		return
	}

	sales, err := h.reportService.GetSalesByDateRange(ownerID, start, end)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"sales": sales,
	})
}

// GET /reports/inventory-analysis
func (h *ReportHandler) GetInventoryAnalysis(c *gin.Context) {
	ownerID, ok := requireUserID(c)
	if !ok {
		return
	}

	analysis, err := h.reportService.GetInventoryAnalysis(ownerID)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"analysis": analysis,
	})
}

// GET /reports/analytics
func (h *ReportHandler) GetAnalytics(c *gin.Context) {
	ownerID, ok := requireUserID(c)
	if !ok {
		return
	}

	analytics, err := h.reportService.GetAnalytics(ownerID)
	if err != nil {
		utils.InternalErrorResponse(c, err.Error())
		return
	}

	utils.SuccessResponse(c, gin.H{
		"analytics": analytics,
	})
}
