// internal/i18n/keys.go
package i18n

// Translation keys constants
const (
	// Common
	KeySuccess = "success"
	KeyError   = "error"

	// Validation
	KeyValidationInvalid  = "validation.invalid"
	KeyValidationRequired = "validation.required"

	// Authentication
	KeyAuthRequired           = "auth.required"
	KeyAuthInvalidToken       = "auth.invalid_token"
	KeyAuthTokenExpired       = "auth.token_expired"
	KeyAuthInvalidCredentials = "auth.invalid_credentials"
	KeyAuthLoginSuccess       = "auth.login_success"
	KeyAdminAccessDenied      = "admin.access_denied"
	KeyAdminNotFound          = "admin.not_found"

	// Quote submissions
	KeyQuoteReceived        = "quote.received"
	KeyQuoteAlreadyOnFile   = "quote.already_on_file"
	KeyQuoteConsentRequired = "quote.consent_required"

	// Leads
	KeyLeadNotFound = "lead.not_found"
	KeyLeadUpdated  = "lead.updated"
	KeyLeadDeleted  = "lead.deleted"

	// Unsubscribe
	KeyUnsubscribeSuccess      = "unsubscribe.success"
	KeyUnsubscribeInvalidToken = "unsubscribe.invalid_token"

	// Compliance
	KeyComplianceReviewUpdated   = "compliance.review_updated"
	KeyComplianceReportGenerated = "compliance.report_generated"
)
