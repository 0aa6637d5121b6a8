// internal/handlers/lead.go
package handlers

import (
	"errors"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/brightcover/agency-backend/internal/compliance"
	"github.com/brightcover/agency-backend/internal/i18n"
	"github.com/brightcover/agency-backend/internal/models"
	"github.com/brightcover/agency-backend/internal/services"
	"github.com/brightcover/agency-backend/internal/utils"
)

type LeadHandler struct {
	leadService *services.LeadService
}

func NewLeadHandler(leadService *services.LeadService) *LeadHandler {
	return &LeadHandler{
		leadService: leadService,
	}
}

// GET /admin/leads
func (h *LeadHandler) GetLeads(c *gin.Context) {
	filter := leadFilterFromQuery(c)

	leads, total, err := h.leadService.GetLeads(filter)
	if err != nil {
		logrus.WithError(err).Error("Failed to list leads")
		utils.InternalErrorResponse(c, "")
		return
	}

	result := utils.CreatePaginationResult(leads, total, filter.PaginationParams)
	utils.PaginatedResponse(c, result)
}

// GET /admin/leads/:id
func (h *LeadHandler) GetLead(c *gin.Context) {
	leadID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid lead ID", nil)
		return
	}

	lead, err := h.leadService.GetLeadByID(leadID)
	if err != nil {
		if errors.Is(err, services.ErrLeadNotFound) {
			utils.NotFoundResponse(c, "lead")
			return
		}
		logrus.WithError(err).Error("Failed to get lead")
		utils.InternalErrorResponse(c, "")
		return
	}

	score, category, days := compliance.ScoreLead(lead, time.Now())
	utils.SuccessResponse(c, gin.H{
		"lead": lead,
		"compliance": gin.H{
			"score":              score,
			"category":           category,
			"days_since_consent": days,
		},
	})
}

// PUT /admin/leads/:id
func (h *LeadHandler) UpdateLead(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	leadID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid lead ID", nil)
		return
	}

	var req services.UpdateLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	if validationErrors := utils.GetValidationErrors(utils.ValidateStruct(&req)); len(validationErrors) > 0 {
		utils.ValidationErrorResponse(c, validationErrors)
		return
	}

	lead, err := h.leadService.UpdateLead(leadID, &req)
	if err != nil {
		if errors.Is(err, services.ErrLeadNotFound) {
			utils.NotFoundResponse(c, "lead")
			return
		}
		logrus.WithError(err).Error("Failed to update lead")
		utils.InternalErrorResponse(c, "")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyLeadUpdated),
		"lead":    lead,
	})
}

// DELETE /admin/leads/:id
func (h *LeadHandler) DeleteLead(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	leadID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid lead ID", nil)
		return
	}

	if err := h.leadService.DeleteLead(leadID); err != nil {
		if errors.Is(err, services.ErrLeadNotFound) {
			utils.NotFoundResponse(c, "lead")
			return
		}
		logrus.WithError(err).Error("Failed to delete lead")
		utils.InternalErrorResponse(c, "")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyLeadDeleted),
	})
}

// PUT /admin/leads/:id/review
func (h *LeadHandler) ReviewLead(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	leadID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		utils.BadRequestResponse(c, "Invalid lead ID", nil)
		return
	}

	var req struct {
		ReviewStatus models.ComplianceReviewStatus `json:"review_status" binding:"required"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}
	if !req.ReviewStatus.Valid() {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "review_status"), nil)
		return
	}

	update := services.UpdateLeadRequest{ComplianceReviewStatus: &req.ReviewStatus}
	lead, err := h.leadService.UpdateLead(leadID, &update)
	if err != nil {
		if errors.Is(err, services.ErrLeadNotFound) {
			utils.NotFoundResponse(c, "lead")
			return
		}
		logrus.WithError(err).Error("Failed to update lead review status")
		utils.InternalErrorResponse(c, "")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyComplianceReviewUpdated),
		"lead":    lead,
	})
}

// GET /admin/leads/export
func (h *LeadHandler) ExportLeads(c *gin.Context) {
	filter := leadFilterFromQuery(c)

	filename := fmt.Sprintf("leads_%s.csv", time.Now().Format("2006-01-02"))
	c.Header("Content-Type", "text/csv")
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))

	if err := h.leadService.ExportCSV(c.Writer, filter); err != nil {
		// Headers may already be out; log and abort the stream.
		logrus.WithError(err).Error("Failed to export leads")
		c.Abort()
	}
}

func leadFilterFromQuery(c *gin.Context) services.LeadFilter {
	filter := services.LeadFilter{
		PaginationParams: utils.GetPaginationParams(c),
	}

	if s := models.LeadStatus(c.Query("status")); s != "" && s.Valid() {
		filter.Status = &s
	}
	if ct := models.CoverageType(c.Query("coverage_type")); ct != "" && ct.Valid() {
		filter.CoverageType = &ct
	}
	if rs := models.ComplianceReviewStatus(c.Query("review_status")); rs != "" && rs.Valid() {
		filter.ReviewStatus = &rs
	}
	if after := c.Query("created_after"); after != "" {
		if t, err := time.Parse("2006-01-02", after); err == nil {
			filter.CreatedAfter = &t
		}
	}
	if before := c.Query("created_before"); before != "" {
		if t, err := time.Parse("2006-01-02", before); err == nil {
			filter.CreatedBefore = &t
		}
	}

	return filter
}
