// internal/services/errors.go
package services

import "errors"

var (
	// ErrDuplicateSubmission means the store already holds a lead with this
	// email. Handlers soften it into an "already on file" message instead of
	// a hard failure.
	ErrDuplicateSubmission = errors.New("a lead with this email already exists")

	ErrLeadNotFound            = errors.New("lead not found")
	ErrInvalidUnsubscribeToken = errors.New("invalid unsubscribe token")
	ErrAdminNotFound           = errors.New("admin not found")
	ErrInvalidCredentials      = errors.New("invalid username or password")
)
