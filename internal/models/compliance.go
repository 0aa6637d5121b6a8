// internal/models/compliance.go
package models

import (
	"time"

	"github.com/google/uuid"
)

// ComplianceReport is a denormalized score snapshot. The scorer's recency
// input drifts with the clock, so every row records when it was computed;
// the live audit report recomputes instead of reading these back.
type ComplianceReport struct {
	BaseModel
	LeadID           uuid.UUID `json:"lead_id" gorm:"type:uuid;not null;index"`
	Score            int       `json:"score" gorm:"not null"`
	Category         string    `json:"category" gorm:"size:20;not null"`
	DaysSinceConsent int       `json:"days_since_consent" gorm:"not null"`
	ComputedAt       time.Time `json:"computed_at" gorm:"not null"`

	Lead *Lead `json:"lead,omitempty" gorm:"foreignKey:LeadID;constraint:OnDelete:CASCADE"`
}
