// internal/compliance/scorer.go

// Package compliance implements the TCPA consent-audit subsystem: assembling
// the consent record at submission time and scoring how well-documented a
// lead's consent is for the audit dashboard.
package compliance

import (
	"time"

	"github.com/brightcover/agency-backend/internal/models"
)

// ScoreInput holds the consent fields the scorer reads. DaysSinceConsent is
// derived by the caller from the consent timestamp and "now".
type ScoreInput struct {
	TCPAConsent      bool
	TCPAText         string
	IPAddress        string
	DaysSinceConsent int
	Unsubscribed     bool
}

const (
	MinScore = 1
	MaxScore = 10
)

// Score category labels for the dashboard.
const (
	CategoryHigh   = "high"
	CategoryMedium = "medium"
	CategoryLow    = "low"
)

// Score computes the compliance score for one lead. Pure: identical inputs
// always produce identical output. The result is clamped to [1,10], so even
// an unsubscribed lead with nothing documented scores 1.
func Score(in ScoreInput) int {
	score := 0

	if in.TCPAConsent {
		score += 3
	}
	if in.TCPAText != "" {
		score += 2
	}
	if in.IPAddress != "" {
		score++
	}

	// Recency bonus, mutually exclusive buckets.
	switch {
	case in.DaysSinceConsent <= 30:
		score += 3
	case in.DaysSinceConsent <= 90:
		score += 2
	case in.DaysSinceConsent <= 180:
		score++
	}

	if in.Unsubscribed {
		score -= 5
	}

	if score < MinScore {
		return MinScore
	}
	if score > MaxScore {
		return MaxScore
	}
	return score
}

// Category buckets a score for display and filtering.
func Category(score int) string {
	switch {
	case score >= 8:
		return CategoryHigh
	case score >= 4:
		return CategoryMedium
	default:
		return CategoryLow
	}
}

// ScoreLead derives the scorer input from a persisted lead at read time.
func ScoreLead(lead *models.Lead, now time.Time) (score int, category string, days int) {
	days = lead.DaysSinceConsent(now)
	score = Score(ScoreInput{
		TCPAConsent:      lead.TCPAConsent,
		TCPAText:         lead.TCPAText,
		IPAddress:        lead.IPAddress,
		DaysSinceConsent: days,
		Unsubscribed:     lead.UnsubscribedAt != nil,
	})
	return score, Category(score), days
}
