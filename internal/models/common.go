// internal/models/common.go
package models

import (
	"database/sql/driver"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Base model with common fields
type BaseModel struct {
	ID        uuid.UUID      `json:"id" gorm:"type:uuid;primary_key"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"deleted_at,omitempty" gorm:"index"`
}

// BeforeCreate assigns the primary key so inserts behave the same on
// Postgres and on the sqlite databases used in tests.
func (b *BaseModel) BeforeCreate(tx *gorm.DB) error {
	if b.ID == uuid.Nil {
		b.ID = uuid.New()
	}
	return nil
}

// JSONB type for PostgreSQL
type JSONB map[string]interface{}

func (j JSONB) Value() (driver.Value, error) {
	if j == nil {
		return nil, nil
	}
	return json.Marshal(j)
}

func (j *JSONB) Scan(value interface{}) error {
	if value == nil {
		*j = nil
		return nil
	}

	bytes, ok := value.([]byte)
	if !ok {
		return nil
	}

	return json.Unmarshal(bytes, j)
}

// Enums
type LeadStatus string

const (
	LeadStatusNew        LeadStatus = "new"
	LeadStatusContacted  LeadStatus = "contacted"
	LeadStatusQuoted     LeadStatus = "quoted"
	LeadStatusClosedWon  LeadStatus = "closed_won"
	LeadStatusClosedLost LeadStatus = "closed_lost"
)

type CoverageType string

const (
	CoverageTypeTermLife           CoverageType = "term_life"
	CoverageTypeWholeLife          CoverageType = "whole_life"
	CoverageTypeFinalExpense       CoverageType = "final_expense"
	CoverageTypeMortgageProtection CoverageType = "mortgage_protection"
	CoverageTypeIUL                CoverageType = "iul"
)

type ComplianceReviewStatus string

const (
	ComplianceReviewStatusPending  ComplianceReviewStatus = "pending"
	ComplianceReviewStatusReviewed ComplianceReviewStatus = "reviewed"
	ComplianceReviewStatusFlagged  ComplianceReviewStatus = "flagged"
)

type AdminRole string

const (
	AdminRoleAgent AdminRole = "agent"
	AdminRoleAdmin AdminRole = "admin"
)

func ValidCoverageTypes() []CoverageType {
	return []CoverageType{
		CoverageTypeTermLife,
		CoverageTypeWholeLife,
		CoverageTypeFinalExpense,
		CoverageTypeMortgageProtection,
		CoverageTypeIUL,
	}
}

func (s LeadStatus) Valid() bool {
	switch s {
	case LeadStatusNew, LeadStatusContacted, LeadStatusQuoted, LeadStatusClosedWon, LeadStatusClosedLost:
		return true
	}
	return false
}

func (t CoverageType) Valid() bool {
	for _, valid := range ValidCoverageTypes() {
		if t == valid {
			return true
		}
	}
	return false
}

func (s ComplianceReviewStatus) Valid() bool {
	switch s {
	case ComplianceReviewStatusPending, ComplianceReviewStatusReviewed, ComplianceReviewStatusFlagged:
		return true
	}
	return false
}
