// internal/handlers/compliance.go
package handlers

import (
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/brightcover/agency-backend/internal/i18n"
	"github.com/brightcover/agency-backend/internal/models"
	"github.com/brightcover/agency-backend/internal/services"
	"github.com/brightcover/agency-backend/internal/utils"
)

type ComplianceHandler struct {
	complianceService *services.ComplianceService
}

func NewComplianceHandler(complianceService *services.ComplianceService) *ComplianceHandler {
	return &ComplianceHandler{
		complianceService: complianceService,
	}
}

// GET /admin/compliance/report
func (h *ComplianceHandler) GetReport(c *gin.Context) {
	filter := services.ComplianceReportFilter{
		PaginationParams: utils.GetPaginationParams(c),
	}

	if rs := models.ComplianceReviewStatus(c.Query("review_status")); rs != "" && rs.Valid() {
		filter.ReviewStatus = &rs
	}
	filter.Category = c.Query("category")
	if raw := c.Query("min_score"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			filter.MinScore = &v
		}
	}
	if raw := c.Query("max_score"); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil {
			filter.MaxScore = &v
		}
	}

	scored, total, computedAt, err := h.complianceService.Report(filter, time.Now())
	if err != nil {
		logrus.WithError(err).Error("Failed to build compliance report")
		utils.InternalErrorResponse(c, "")
		return
	}

	result := utils.CreatePaginationResult(scored, total, filter.PaginationParams)
	utils.SetPaginationHeaders(c, result)
	utils.SuccessResponseWithMeta(c, scored, gin.H{
		"computed_at": computedAt,
		"pagination": gin.H{
			"page":        result.Page,
			"limit":       result.Limit,
			"total":       result.Total,
			"total_pages": result.TotalPages,
		},
	})
}

// POST /admin/compliance/snapshot
func (h *ComplianceHandler) GenerateSnapshot(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	count, err := h.complianceService.GenerateSnapshot(time.Now())
	if err != nil {
		logrus.WithError(err).Error("Failed to generate compliance snapshot")
		utils.InternalErrorResponse(c, "")
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message":       i18n.T(lang, i18n.KeyComplianceReportGenerated),
		"reports_count": count,
	})
}

// GET /admin/dashboard/stats
func (h *ComplianceHandler) GetDashboardStats(c *gin.Context) {
	stats, err := h.complianceService.GetDashboardStats(time.Now())
	if err != nil {
		logrus.WithError(err).Error("Failed to load dashboard stats")
		utils.InternalErrorResponse(c, "")
		return
	}

	utils.SuccessResponse(c, stats)
}
