// internal/handlers/quote.go
package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"github.com/brightcover/agency-backend/internal/compliance"
	"github.com/brightcover/agency-backend/internal/i18n"
	"github.com/brightcover/agency-backend/internal/services"
	"github.com/brightcover/agency-backend/internal/utils"
)

type QuoteHandler struct {
	leadService *services.LeadService
}

func NewQuoteHandler(leadService *services.LeadService) *QuoteHandler {
	return &QuoteHandler{
		leadService: leadService,
	}
}

// POST /quotes
func (h *QuoteHandler) SubmitQuote(c *gin.Context) {
	lang := utils.GetLangFromContext(c)

	var req services.QuoteSubmission
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.BadRequestResponse(c, i18n.T(lang, i18n.KeyValidationInvalid, "input"), err.Error())
		return
	}

	meta := compliance.RequestMeta{
		ClientIP:  c.ClientIP(),
		UserAgent: c.GetHeader("User-Agent"),
	}

	lead, err := h.leadService.CreateFromSubmission(c.Request.Context(), &req, meta)
	if err != nil {
		switch {
		case errors.Is(err, compliance.ErrConsentMissing):
			utils.ConsentRequiredResponse(c)
		case errors.Is(err, services.ErrDuplicateSubmission):
			// A resubmitted email is not an error the visitor needs to see.
			utils.SuccessResponse(c, gin.H{
				"message": i18n.T(lang, i18n.KeyQuoteAlreadyOnFile),
			})
		default:
			var validationErrs validator.ValidationErrors
			if errors.As(err, &validationErrs) {
				utils.ValidationErrorResponse(c, utils.GetValidationErrors(validationErrs))
				return
			}
			logrus.WithError(err).Error("Failed to create lead from quote submission")
			utils.InternalErrorResponse(c, "")
		}
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyQuoteReceived),
		"lead_id": lead.ID,
	})
}

// GET /unsubscribe/:token
func (h *QuoteHandler) Unsubscribe(c *gin.Context) {
	lang := utils.GetLangFromContext(c)
	token := c.Param("token")

	_, err := h.leadService.Unsubscribe(token)
	if err != nil {
		if errors.Is(err, services.ErrInvalidUnsubscribeToken) {
			utils.ErrorResponse(c, http.StatusNotFound, "INVALID_TOKEN",
				i18n.T(lang, i18n.KeyUnsubscribeInvalidToken), nil)
			return
		}
		logrus.WithError(err).Error("Failed to process unsubscribe request")
		utils.InternalErrorResponse(c, "")
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(lang, i18n.KeyUnsubscribeSuccess),
	})
}
