// Package handlers defines HTTP-layer error codes used across all API endpoints.
//
// This file centralizes symbolic error code constants that are mapped to HTTP
// responses (via the `fail()` helper in this package). These codes provide
// clients with a stable, machine-readable error taxonomy that supplements
// human-readable messages.
//
// Conventions:
//   - Codes are lowercase, snake_case, and stable across releases.
//   - Generic codes (e.g., bad_request, not_found, conflict) mirror common
//     HTTP status semantics to aid interoperability.
//   - Validation codes (invalid_phone_format, invalid_time_format, ...) match
//     the admission-gate reason strings exactly, so a client sees the same
//     code whether a request was rejected at the webhook or at the REST API.
//   - All error responses must include both an HTTP status and one of these codes.
//
// Example response:
//
//	{
//	  "request_id": "e1b9be03-4999-4289-9f03-999b042d65d6",
//	  "code": "outside_business_hours",
//	  "message": "requested time is outside business hours"
//	}
package handlers

const (
	ErrCodeBadRequest       = "bad_request"
	ErrCodeNotFound         = "not_found"
	ErrCodeConflict         = "conflict"
	ErrCodeInternal         = "internal_error"
	ErrCodeMethodNotAllowed = "method_not_allowed"
	ErrCodeRateLimited      = "rate_limited"

	// Validation codes (aligned with admission-gate reasons):
	ErrCodeInvalidPhone  = "invalid_phone_format"
	ErrCodeInvalidEmail  = "invalid_email_format"
	ErrCodeInvalidTime   = "invalid_time_format"
	ErrCodeOutsideHours  = "outside_business_hours"
	ErrCodeInvalidAmount = "invalid_amount"

	// Booking-specific:
	ErrCodeUnknownService   = "unknown_service"
	ErrCodeAlreadyCancelled = "already_cancelled"
	ErrCodeListFailed       = "list_failed"
)
