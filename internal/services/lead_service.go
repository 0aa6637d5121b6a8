// internal/services/lead_service.go
package services

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"

	"github.com/brightcover/agency-backend/internal/compliance"
	"github.com/brightcover/agency-backend/internal/config"
	"github.com/brightcover/agency-backend/internal/models"
	"github.com/brightcover/agency-backend/internal/utils"
)

type LeadService struct {
	db                  *gorm.DB
	cfg                 *config.Config
	notificationService *NotificationService
}

// QuoteSubmission is the raw quote-form payload. Binding gives structural
// validation; the validate tags carry the business rules, and the consent
// gate runs between the two.
type QuoteSubmission struct {
	FirstName          string              `json:"first_name" validate:"required,person_name"`
	LastName           string              `json:"last_name" validate:"required,person_name"`
	Email              string              `json:"email" validate:"required,email"`
	Phone              string              `json:"phone" validate:"required,phone_digits"`
	DateOfBirth        string              `json:"date_of_birth" validate:"required,applicant_age"`
	Sex                string              `json:"sex" validate:"omitempty,oneof=male female"`
	City               string              `json:"city" validate:"omitempty,max=100"`
	State              string              `json:"state" validate:"omitempty,len=2"`
	Height             float64             `json:"height" validate:"required,height_feet_inches"`
	Weight             float64             `json:"weight" validate:"required,min=50,max=500"`
	CoverageType       models.CoverageType `json:"coverage_type" validate:"required,oneof=term_life whole_life final_expense mortgage_protection iul"`
	HealthConditions   string              `json:"health_conditions"`
	CurrentMedications string              `json:"current_medications"`
	Message            string              `json:"message"`
	LoanAmount         *float64            `json:"loan_amount,omitempty" validate:"omitempty,min=0"`

	TCPAConsent           bool   `json:"tcpa_consent"`
	TCPAText              string `json:"tcpa_text,omitempty"`
	EmailMarketingConsent bool   `json:"email_marketing_consent,omitempty"`
	FormVersion           string `json:"form_version,omitempty"`
}

// UpdateLeadRequest covers the only fields an agent may change after intake.
// The consent audit columns are write-once and never appear here.
type UpdateLeadRequest struct {
	Status                 *models.LeadStatus             `json:"status,omitempty" validate:"omitempty,oneof=new contacted quoted closed_won closed_lost"`
	AgentNotes             *string                        `json:"agent_notes,omitempty"`
	ComplianceReviewStatus *models.ComplianceReviewStatus `json:"compliance_review_status,omitempty" validate:"omitempty,oneof=pending reviewed flagged"`
}

type LeadFilter struct {
	utils.PaginationParams
	Status        *models.LeadStatus             `json:"status,omitempty"`
	CoverageType  *models.CoverageType           `json:"coverage_type,omitempty"`
	ReviewStatus  *models.ComplianceReviewStatus `json:"review_status,omitempty"`
	CreatedAfter  *time.Time                     `json:"created_after,omitempty"`
	CreatedBefore *time.Time                     `json:"created_before,omitempty"`
}

func NewLeadService(db *gorm.DB, cfg *config.Config, notificationService *NotificationService) *LeadService {
	return &LeadService{
		db:                  db,
		cfg:                 cfg,
		notificationService: notificationService,
	}
}

// CreateFromSubmission runs the intake pipeline: consent gate, rule
// validation, atomic insert, then best-effort notification emails. Nothing is
// persisted unless consent was explicitly given and every rule passed.
func (s *LeadService) CreateFromSubmission(ctx context.Context, req *QuoteSubmission, meta compliance.RequestMeta) (*models.Lead, error) {
	record, err := compliance.Capture(
		compliance.CaptureConfig{
			DefaultFormVersion: s.cfg.Compliance.DefaultFormVersion,
			DefaultConsentText: s.cfg.Compliance.DefaultConsentText,
		},
		compliance.SubmissionConsent{
			TCPAConsent:           req.TCPAConsent,
			TCPAText:              req.TCPAText,
			EmailMarketingConsent: req.EmailMarketingConsent,
			FormVersion:           req.FormVersion,
		},
		meta,
		time.Now(),
	)
	if err != nil {
		return nil, err
	}

	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}

	// Already on file? Short-circuit before the insert.
	var existing models.Lead
	if err := s.db.Where("email = ?", req.Email).First(&existing).Error; err == nil {
		return nil, ErrDuplicateSubmission
	}

	dob, err := time.Parse("2006-01-02", req.DateOfBirth)
	if err != nil {
		return nil, fmt.Errorf("invalid date of birth: %w", err)
	}

	token, err := utils.GenerateUnsubscribeToken()
	if err != nil {
		return nil, fmt.Errorf("failed to generate unsubscribe token: %w", err)
	}

	lead := &models.Lead{
		FirstName:          strings.TrimSpace(req.FirstName),
		LastName:           strings.TrimSpace(req.LastName),
		Email:              strings.ToLower(strings.TrimSpace(req.Email)),
		Phone:              req.Phone,
		DateOfBirth:        dob,
		Sex:                req.Sex,
		City:               req.City,
		State:              strings.ToUpper(req.State),
		Height:             req.Height,
		Weight:             req.Weight,
		CoverageType:       req.CoverageType,
		HealthConditions:   req.HealthConditions,
		CurrentMedications: req.CurrentMedications,
		Message:            req.Message,
		LoanAmount:         req.LoanAmount,
		Status:             models.LeadStatusNew,
		UnsubscribeToken:   token,
	}
	record.Apply(lead)

	insert := func() error {
		return s.db.WithContext(ctx).Create(lead).Error
	}
	if err := utils.Retry(ctx, 2, 100*time.Millisecond, insert); err != nil {
		if isDuplicateKeyError(err) {
			return nil, ErrDuplicateSubmission
		}
		return nil, fmt.Errorf("failed to create lead: %w", err)
	}

	// Email dispatch is independent of persistence: a send failure must
	// never surface to the submitter once the lead is durably stored.
	go s.notificationService.NotifyNewLead(lead)

	return lead, nil
}

func (s *LeadService) GetLeadByID(id uuid.UUID) (*models.Lead, error) {
	var lead models.Lead
	if err := s.db.First(&lead, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrLeadNotFound
		}
		return nil, fmt.Errorf("database error: %w", err)
	}
	return &lead, nil
}

func (s *LeadService) GetLeads(filter LeadFilter) ([]models.Lead, int64, error) {
	query := s.db.Model(&models.Lead{})

	if filter.Status != nil {
		query = query.Where("status = ?", *filter.Status)
	}
	if filter.CoverageType != nil {
		query = query.Where("coverage_type = ?", *filter.CoverageType)
	}
	if filter.ReviewStatus != nil {
		query = query.Where("compliance_review_status = ?", *filter.ReviewStatus)
	}
	if filter.CreatedAfter != nil {
		query = query.Where("created_at >= ?", *filter.CreatedAfter)
	}
	if filter.CreatedBefore != nil {
		query = query.Where("created_at <= ?", *filter.CreatedBefore)
	}
	if filter.Search != "" {
		search := "%" + strings.ToLower(filter.Search) + "%"
		query = query.Where(
			"LOWER(first_name) LIKE ? OR LOWER(last_name) LIKE ? OR LOWER(email) LIKE ?",
			search, search, search,
		)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count leads: %w", err)
	}

	allowedSortFields := []string{"created_at", "updated_at", "last_name", "status", "coverage_type", "tcpa_consent_timestamp"}
	query = utils.ApplySort(query, filter.PaginationParams, allowedSortFields)
	query = utils.ApplyPagination(query, filter.PaginationParams)

	var leads []models.Lead
	if err := query.Find(&leads).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list leads: %w", err)
	}

	return leads, total, nil
}

func (s *LeadService) UpdateLead(id uuid.UUID, req *UpdateLeadRequest) (*models.Lead, error) {
	if err := utils.ValidateStruct(req); err != nil {
		return nil, err
	}

	lead, err := s.GetLeadByID(id)
	if err != nil {
		return nil, err
	}

	if req.Status != nil {
		lead.Status = *req.Status
	}
	if req.AgentNotes != nil {
		lead.AgentNotes = *req.AgentNotes
	}
	if req.ComplianceReviewStatus != nil {
		lead.ComplianceReviewStatus = *req.ComplianceReviewStatus
	}

	if err := s.db.Save(lead).Error; err != nil {
		return nil, fmt.Errorf("failed to update lead: %w", err)
	}

	return lead, nil
}

// DeleteLead removes the lead and, through the FK cascade, its compliance
// report rows.
func (s *LeadService) DeleteLead(id uuid.UUID) error {
	lead, err := s.GetLeadByID(id)
	if err != nil {
		return err
	}

	return deleteLeadCascade(s.db, lead)
}

// Unsubscribe clears marketing consent. Setting unsubscribed_at forces
// email_marketing_consent false; repeated calls keep the original timestamp.
func (s *LeadService) Unsubscribe(token string) (*models.Lead, error) {
	var lead models.Lead
	if err := s.db.Where("unsubscribe_token = ?", token).First(&lead).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidUnsubscribeToken
		}
		return nil, fmt.Errorf("database error: %w", err)
	}

	if lead.UnsubscribedAt == nil {
		now := time.Now()
		lead.UnsubscribedAt = &now
	}
	lead.EmailMarketingConsent = false

	if err := s.db.Save(&lead).Error; err != nil {
		return nil, fmt.Errorf("failed to unsubscribe lead: %w", err)
	}

	logrus.WithFields(logrus.Fields{
		"lead_id": lead.ID,
	}).Info("Lead unsubscribed from marketing emails")

	return &lead, nil
}

// ExportCSV streams the filtered leads, consent audit columns included, for
// the admin dashboard's download.
func (s *LeadService) ExportCSV(w io.Writer, filter LeadFilter) error {
	// Export ignores pagination; the filter still applies.
	filter.Page = 1
	filter.Limit = 100
	writer := csv.NewWriter(w)

	header := []string{
		"id", "created_at", "first_name", "last_name", "email", "phone",
		"date_of_birth", "city", "state", "coverage_type", "status",
		"tcpa_consent", "tcpa_consent_timestamp", "form_version",
		"email_marketing_consent", "unsubscribed_at", "ip_address",
		"compliance_review_status",
	}
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("failed to write csv header: %w", err)
	}

	for {
		leads, _, err := s.GetLeads(filter)
		if err != nil {
			return err
		}
		if len(leads) == 0 {
			break
		}

		for i := range leads {
			if err := writer.Write(csvRow(&leads[i])); err != nil {
				return fmt.Errorf("failed to write csv row: %w", err)
			}
		}

		if len(leads) < filter.Limit {
			break
		}
		filter.Page++
	}

	writer.Flush()
	return writer.Error()
}

func csvRow(lead *models.Lead) []string {
	unsubscribedAt := ""
	if lead.UnsubscribedAt != nil {
		unsubscribedAt = lead.UnsubscribedAt.Format(time.RFC3339)
	}

	return []string{
		lead.ID.String(),
		lead.CreatedAt.Format(time.RFC3339),
		lead.FirstName,
		lead.LastName,
		lead.Email,
		lead.Phone,
		lead.DateOfBirth.Format("2006-01-02"),
		lead.City,
		lead.State,
		string(lead.CoverageType),
		string(lead.Status),
		strconv.FormatBool(lead.TCPAConsent),
		lead.TCPAConsentTimestamp.Format(time.RFC3339),
		lead.FormVersion,
		strconv.FormatBool(lead.EmailMarketingConsent),
		unsubscribedAt,
		lead.IPAddress,
		string(lead.ComplianceReviewStatus),
	}
}

func isDuplicateKeyError(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" {
		return true
	}

	// sqlite (tests) reports unique violations as plain errors.
	return err != nil && strings.Contains(err.Error(), "UNIQUE constraint failed")
}

func deleteLeadCascade(db *gorm.DB, lead *models.Lead) error {
	return db.Transaction(func(tx *gorm.DB) error {
		// sqlite test databases do not enforce the FK cascade.
		if err := tx.Where("lead_id = ?", lead.ID).Delete(&models.ComplianceReport{}).Error; err != nil {
			return fmt.Errorf("failed to delete compliance reports: %w", err)
		}
		if err := tx.Unscoped().Delete(lead).Error; err != nil {
			return fmt.Errorf("failed to delete lead: %w", err)
		}
		return nil
	})
}
