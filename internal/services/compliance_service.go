// internal/services/compliance_service.go
package services

import (
	"fmt"
	"sort"
	"time"

	"gorm.io/gorm"

	"github.com/brightcover/agency-backend/internal/compliance"
	"github.com/brightcover/agency-backend/internal/models"
	"github.com/brightcover/agency-backend/internal/utils"
)

type ComplianceService struct {
	db *gorm.DB
}

// ScoredLead pairs a lead with its score at report time. Scores are computed
// read-side: the recency input drifts with the clock, so nothing here is
// stored as ground truth.
type ScoredLead struct {
	Lead             models.Lead `json:"lead"`
	Score            int         `json:"score"`
	Category         string      `json:"category"`
	DaysSinceConsent int         `json:"days_since_consent"`
}

type ComplianceReportFilter struct {
	utils.PaginationParams
	ReviewStatus *models.ComplianceReviewStatus `json:"review_status,omitempty"`
	Category     string                         `json:"category,omitempty"`
	MinScore     *int                           `json:"min_score,omitempty"`
	MaxScore     *int                           `json:"max_score,omitempty"`
}

type ComplianceDashboardStats struct {
	TotalLeads        int64          `json:"total_leads"`
	PendingReview     int64          `json:"pending_review"`
	Reviewed          int64          `json:"reviewed"`
	Flagged           int64          `json:"flagged"`
	Unsubscribed      int64          `json:"unsubscribed"`
	NewThisMonth      int64          `json:"new_this_month"`
	ScoreDistribution map[string]int `json:"score_distribution"`
	AverageScore      float64        `json:"average_score"`
}

func NewComplianceService(db *gorm.DB) *ComplianceService {
	return &ComplianceService{db: db}
}

// Report scores every matching lead at read time and sorts/filters on the
// derived score. Each response carries the computation timestamp.
func (s *ComplianceService) Report(filter ComplianceReportFilter, now time.Time) ([]ScoredLead, int64, time.Time, error) {
	query := s.db.Model(&models.Lead{})
	if filter.ReviewStatus != nil {
		query = query.Where("compliance_review_status = ?", *filter.ReviewStatus)
	}

	var leads []models.Lead
	if err := query.Order("tcpa_consent_timestamp DESC").Find(&leads).Error; err != nil {
		return nil, 0, now, fmt.Errorf("failed to load leads for report: %w", err)
	}

	scored := make([]ScoredLead, 0, len(leads))
	for i := range leads {
		score, category, days := compliance.ScoreLead(&leads[i], now)
		if filter.Category != "" && category != filter.Category {
			continue
		}
		if filter.MinScore != nil && score < *filter.MinScore {
			continue
		}
		if filter.MaxScore != nil && score > *filter.MaxScore {
			continue
		}
		scored = append(scored, ScoredLead{
			Lead:             leads[i],
			Score:            score,
			Category:         category,
			DaysSinceConsent: days,
		})
	}

	sortScored(scored, filter.Order)

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 20
	}

	total := int64(len(scored))
	start := (filter.Page - 1) * filter.Limit
	if start > len(scored) {
		start = len(scored)
	}
	end := start + filter.Limit
	if end > len(scored) {
		end = len(scored)
	}

	return scored[start:end], total, now, nil
}

// sortScored orders by score, ties broken by consent recency.
func sortScored(scored []ScoredLead, order string) {
	less := func(a, b ScoredLead) bool {
		if a.Score != b.Score {
			return a.Score > b.Score
		}
		return a.DaysSinceConsent < b.DaysSinceConsent
	}
	if order == "asc" {
		inner := less
		less = func(a, b ScoredLead) bool { return inner(b, a) }
	}

	sort.SliceStable(scored, func(i, j int) bool {
		return less(scored[i], scored[j])
	})
}

// GenerateSnapshot persists one ComplianceReport row per lead with the
// computation timestamp, since the score is only meaningful alongside the
// moment it was derived.
func (s *ComplianceService) GenerateSnapshot(now time.Time) (int, error) {
	var leads []models.Lead
	if err := s.db.Find(&leads).Error; err != nil {
		return 0, fmt.Errorf("failed to load leads for snapshot: %w", err)
	}

	count := 0
	err := s.db.Transaction(func(tx *gorm.DB) error {
		for i := range leads {
			score, category, days := compliance.ScoreLead(&leads[i], now)
			report := &models.ComplianceReport{
				LeadID:           leads[i].ID,
				Score:            score,
				Category:         category,
				DaysSinceConsent: days,
				ComputedAt:       now,
			}
			if err := tx.Create(report).Error; err != nil {
				return fmt.Errorf("failed to create report row: %w", err)
			}
			count++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	return count, nil
}

func (s *ComplianceService) GetDashboardStats(now time.Time) (*ComplianceDashboardStats, error) {
	stats := &ComplianceDashboardStats{
		ScoreDistribution: map[string]int{
			compliance.CategoryHigh:   0,
			compliance.CategoryMedium: 0,
			compliance.CategoryLow:    0,
		},
	}
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())

	s.db.Model(&models.Lead{}).Count(&stats.TotalLeads)
	s.db.Model(&models.Lead{}).Where("compliance_review_status = ?", models.ComplianceReviewStatusPending).Count(&stats.PendingReview)
	s.db.Model(&models.Lead{}).Where("compliance_review_status = ?", models.ComplianceReviewStatusReviewed).Count(&stats.Reviewed)
	s.db.Model(&models.Lead{}).Where("compliance_review_status = ?", models.ComplianceReviewStatusFlagged).Count(&stats.Flagged)
	s.db.Model(&models.Lead{}).Where("unsubscribed_at IS NOT NULL").Count(&stats.Unsubscribed)
	s.db.Model(&models.Lead{}).Where("created_at >= ?", monthStart).Count(&stats.NewThisMonth)

	var leads []models.Lead
	if err := s.db.Find(&leads).Error; err != nil {
		return nil, fmt.Errorf("failed to load leads for stats: %w", err)
	}

	sum := 0
	for i := range leads {
		score, category, _ := compliance.ScoreLead(&leads[i], now)
		stats.ScoreDistribution[category]++
		sum += score
	}
	if len(leads) > 0 {
		stats.AverageScore = float64(sum) / float64(len(leads))
	}

	return stats, nil
}
