// internal/compliance/capture.go
package compliance

import (
	"errors"
	"time"

	"github.com/brightcover/agency-backend/internal/models"
)

// ErrConsentMissing is returned when a submission arrives without an explicit
// TCPA consent flag. It must short-circuit before any persistence attempt.
var ErrConsentMissing = errors.New("tcpa consent is required")

// CaptureConfig holds the capture defaults, passed in at call time rather
// than read from ambient state.
type CaptureConfig struct {
	DefaultFormVersion string
	DefaultConsentText string
}

// SubmissionConsent is the consent portion of a raw submission payload.
type SubmissionConsent struct {
	TCPAConsent           bool
	TCPAText              string
	EmailMarketingConsent bool
	FormVersion           string
}

// RequestMeta is the network metadata taken from the originating request.
type RequestMeta struct {
	ClientIP  string
	UserAgent string
}

// ConsentRecord is the fully-populated consent/audit fragment of a lead,
// assembled before the persistence call.
type ConsentRecord struct {
	TCPAConsent            bool
	TCPAText               string
	TCPAConsentTimestamp   time.Time
	EmailMarketingConsent  bool
	IPAddress              string
	UserAgent              string
	FormVersion            string
	ComplianceReviewStatus models.ComplianceReviewStatus
}

// Capture assembles the consent record for a submission. The consent flag is
// a hard gate: without it no lead may be created.
func Capture(cfg CaptureConfig, sub SubmissionConsent, meta RequestMeta, now time.Time) (ConsentRecord, error) {
	if !sub.TCPAConsent {
		return ConsentRecord{}, ErrConsentMissing
	}

	text := sub.TCPAText
	if text == "" {
		text = cfg.DefaultConsentText
	}

	version := sub.FormVersion
	if version == "" {
		version = cfg.DefaultFormVersion
	}
	if version == "" {
		version = "v1.0"
	}

	return ConsentRecord{
		TCPAConsent:            true,
		TCPAText:               text,
		TCPAConsentTimestamp:   now,
		EmailMarketingConsent:  sub.EmailMarketingConsent,
		IPAddress:              meta.ClientIP,
		UserAgent:              meta.UserAgent,
		FormVersion:            version,
		ComplianceReviewStatus: models.ComplianceReviewStatusPending,
	}, nil
}

// Apply copies the record onto a lead before the insert.
func (r ConsentRecord) Apply(lead *models.Lead) {
	lead.TCPAConsent = r.TCPAConsent
	lead.TCPAText = r.TCPAText
	lead.TCPAConsentTimestamp = r.TCPAConsentTimestamp
	lead.EmailMarketingConsent = r.EmailMarketingConsent
	lead.IPAddress = r.IPAddress
	lead.UserAgent = r.UserAgent
	lead.FormVersion = r.FormVersion
	lead.ComplianceReviewStatus = r.ComplianceReviewStatus
}
