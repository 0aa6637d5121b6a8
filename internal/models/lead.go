// internal/models/lead.go
package models

import (
	"strings"
	"time"
)

// Lead is one quote submission. The consent/audit columns are written once at
// creation; only Status, AgentNotes, ComplianceReviewStatus and the
// unsubscribe pair may change afterwards.
type Lead struct {
	BaseModel
	FirstName          string       `json:"first_name" gorm:"size:100;not null"`
	LastName           string       `json:"last_name" gorm:"size:100;not null"`
	Email              string       `json:"email" gorm:"uniqueIndex;size:255;not null"`
	Phone              string       `json:"phone" gorm:"size:32;not null"`
	DateOfBirth        time.Time    `json:"date_of_birth" gorm:"not null"`
	Sex                string       `json:"sex" gorm:"size:10"`
	City               string       `json:"city" gorm:"size:100"`
	State              string       `json:"state" gorm:"size:2"`
	Height             float64      `json:"height"`
	Weight             float64      `json:"weight"`
	CoverageType       CoverageType `json:"coverage_type" gorm:"type:varchar(30);not null;index"`
	HealthConditions   string       `json:"health_conditions" gorm:"type:text"`
	CurrentMedications string       `json:"current_medications" gorm:"type:text"`
	Message            string       `json:"message" gorm:"type:text"`
	LoanAmount         *float64     `json:"loan_amount,omitempty"`

	Status     LeadStatus `json:"status" gorm:"type:varchar(20);default:'new';index"`
	AgentNotes string     `json:"agent_notes" gorm:"type:text"`

	// TCPA consent audit trail, immutable after creation.
	TCPAConsent            bool                   `json:"tcpa_consent" gorm:"not null"`
	TCPAText               string                 `json:"tcpa_text" gorm:"type:text"`
	TCPAConsentTimestamp   time.Time              `json:"tcpa_consent_timestamp" gorm:"not null"`
	EmailMarketingConsent  bool                   `json:"email_marketing_consent" gorm:"default:false"`
	IPAddress              string                 `json:"ip_address" gorm:"size:45"`
	UserAgent              string                 `json:"user_agent" gorm:"type:text"`
	FormVersion            string                 `json:"form_version" gorm:"size:20;default:'v1.0'"`
	UnsubscribedAt         *time.Time             `json:"unsubscribed_at"`
	ComplianceReviewStatus ComplianceReviewStatus `json:"compliance_review_status" gorm:"type:varchar(20);default:'pending';index"`
	UnsubscribeToken       string                 `json:"-" gorm:"uniqueIndex;size:64"`

	// Relationships
	ComplianceReports []ComplianceReport `json:"compliance_reports,omitempty" gorm:"foreignKey:LeadID;constraint:OnDelete:CASCADE"`
}

func (l *Lead) FullName() string {
	return strings.TrimSpace(l.FirstName + " " + l.LastName)
}

// Age at the given instant, accounting for a birthday not yet reached.
func (l *Lead) Age(now time.Time) int {
	age := now.Year() - l.DateOfBirth.Year()
	anniversary := time.Date(now.Year(), l.DateOfBirth.Month(), l.DateOfBirth.Day(), 0, 0, 0, 0, time.UTC)
	if now.Before(anniversary) {
		age--
	}
	return age
}

// DaysSinceConsent is the scorer's recency input.
func (l *Lead) DaysSinceConsent(now time.Time) int {
	return int(now.Sub(l.TCPAConsentTimestamp).Hours() / 24)
}
