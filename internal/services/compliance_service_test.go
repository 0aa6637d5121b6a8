// internal/services/compliance_service_test.go
package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"
	"gorm.io/gorm"

	"github.com/brightcover/agency-backend/internal/compliance"
	"github.com/brightcover/agency-backend/internal/models"
)

type ComplianceServiceTestSuite struct {
	suite.Suite
	db      *gorm.DB
	service *ComplianceService
	now     time.Time
}

func (suite *ComplianceServiceTestSuite) SetupTest() {
	suite.db = setupTestDB(suite.T())
	suite.service = NewComplianceService(suite.db)
	suite.now = time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)
}

func (suite *ComplianceServiceTestSuite) seedLead(email string, daysAgo int, text, ip string, unsubscribed bool) *models.Lead {
	lead := &models.Lead{
		FirstName:              "Test",
		LastName:               "Lead",
		Email:                  email,
		Phone:                  "5551234567",
		DateOfBirth:            time.Date(1980, 1, 1, 0, 0, 0, 0, time.UTC),
		CoverageType:           models.CoverageTypeTermLife,
		Status:                 models.LeadStatusNew,
		TCPAConsent:            true,
		TCPAText:               text,
		TCPAConsentTimestamp:   suite.now.AddDate(0, 0, -daysAgo),
		IPAddress:              ip,
		FormVersion:            "v1.0",
		ComplianceReviewStatus: models.ComplianceReviewStatusPending,
		UnsubscribeToken:       "token-" + email,
	}
	if unsubscribed {
		at := suite.now.AddDate(0, 0, -1)
		lead.UnsubscribedAt = &at
	}
	assert.NoError(suite.T(), suite.db.Create(lead).Error)
	return lead
}

func (suite *ComplianceServiceTestSuite) TestReportScoresAndSorts() {
	// 3+2+1+3 = 9
	suite.seedLead("high@example.com", 5, "I agree.", "203.0.113.10", false)
	// 3+2+1+3-5 = 4
	suite.seedLead("unsub@example.com", 5, "I agree.", "203.0.113.10", true)
	// 3+0+0+1 = 4 but older consent than the unsubscribed lead
	suite.seedLead("aged@example.com", 120, "", "", false)

	scored, total, computedAt, err := suite.service.Report(ComplianceReportFilter{}, suite.now)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(3), total)
	assert.Equal(suite.T(), suite.now, computedAt)
	assert.Len(suite.T(), scored, 3)

	assert.Equal(suite.T(), "high@example.com", scored[0].Lead.Email)
	assert.Equal(suite.T(), 9, scored[0].Score)
	assert.Equal(suite.T(), compliance.CategoryHigh, scored[0].Category)

	// Tie on score 4: newer consent wins.
	assert.Equal(suite.T(), "unsub@example.com", scored[1].Lead.Email)
	assert.Equal(suite.T(), "aged@example.com", scored[2].Lead.Email)
}

func (suite *ComplianceServiceTestSuite) TestReportAscendingOrder() {
	suite.seedLead("high@example.com", 5, "I agree.", "203.0.113.10", false)
	suite.seedLead("aged@example.com", 120, "", "", false)

	filter := ComplianceReportFilter{}
	filter.Order = "asc"
	scored, _, _, err := suite.service.Report(filter, suite.now)

	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), scored, 2)
	assert.Equal(suite.T(), "aged@example.com", scored[0].Lead.Email)
	assert.Equal(suite.T(), "high@example.com", scored[1].Lead.Email)
}

func (suite *ComplianceServiceTestSuite) TestReportFilters() {
	suite.seedLead("high@example.com", 5, "I agree.", "203.0.113.10", false)
	suite.seedLead("medium@example.com", 5, "I agree.", "203.0.113.10", true)

	filter := ComplianceReportFilter{Category: compliance.CategoryHigh}
	scored, total, _, err := suite.service.Report(filter, suite.now)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(1), total)
	assert.Equal(suite.T(), "high@example.com", scored[0].Lead.Email)

	minScore := 5
	scored, _, _, err = suite.service.Report(ComplianceReportFilter{MinScore: &minScore}, suite.now)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), scored, 1)
	assert.Equal(suite.T(), 9, scored[0].Score)

	maxScore := 5
	scored, _, _, err = suite.service.Report(ComplianceReportFilter{MaxScore: &maxScore}, suite.now)
	assert.NoError(suite.T(), err)
	assert.Len(suite.T(), scored, 1)
	assert.Equal(suite.T(), "medium@example.com", scored[0].Lead.Email)
}

func (suite *ComplianceServiceTestSuite) TestReportPagination() {
	for i := 0; i < 5; i++ {
		suite.seedLead(string(rune('a'+i))+"@example.com", i*10, "I agree.", "203.0.113.10", false)
	}

	filter := ComplianceReportFilter{}
	filter.Page = 2
	filter.Limit = 2
	scored, total, _, err := suite.service.Report(filter, suite.now)

	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(5), total)
	assert.Len(suite.T(), scored, 2)
}

func (suite *ComplianceServiceTestSuite) TestGenerateSnapshot() {
	suite.seedLead("high@example.com", 5, "I agree.", "203.0.113.10", false)
	suite.seedLead("aged@example.com", 120, "", "", false)

	count, err := suite.service.GenerateSnapshot(suite.now)
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 2, count)

	var reports []models.ComplianceReport
	assert.NoError(suite.T(), suite.db.Find(&reports).Error)
	assert.Len(suite.T(), reports, 2)
	for _, r := range reports {
		assert.Equal(suite.T(), suite.now.UTC(), r.ComputedAt.UTC())
		assert.GreaterOrEqual(suite.T(), r.Score, compliance.MinScore)
		assert.LessOrEqual(suite.T(), r.Score, compliance.MaxScore)
	}
}

func (suite *ComplianceServiceTestSuite) TestDashboardStats() {
	suite.seedLead("high@example.com", 5, "I agree.", "203.0.113.10", false)
	suite.seedLead("unsub@example.com", 5, "I agree.", "203.0.113.10", true)
	aged := suite.seedLead("aged@example.com", 250, "", "", false)

	flagged := models.ComplianceReviewStatusFlagged
	assert.NoError(suite.T(), suite.db.Model(aged).Update("compliance_review_status", flagged).Error)

	stats, err := suite.service.GetDashboardStats(suite.now)
	assert.NoError(suite.T(), err)

	assert.Equal(suite.T(), int64(3), stats.TotalLeads)
	assert.Equal(suite.T(), int64(2), stats.PendingReview)
	assert.Equal(suite.T(), int64(1), stats.Flagged)
	assert.Equal(suite.T(), int64(1), stats.Unsubscribed)

	// scores: 9 (high), 4 (medium), 3 (low)
	assert.Equal(suite.T(), 1, stats.ScoreDistribution[compliance.CategoryHigh])
	assert.Equal(suite.T(), 1, stats.ScoreDistribution[compliance.CategoryMedium])
	assert.Equal(suite.T(), 1, stats.ScoreDistribution[compliance.CategoryLow])
	assert.InDelta(suite.T(), 16.0/3.0, stats.AverageScore, 0.001)
}

func TestComplianceServiceTestSuite(t *testing.T) {
	suite.Run(t, new(ComplianceServiceTestSuite))
}
