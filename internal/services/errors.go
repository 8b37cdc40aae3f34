// Package services defines the business logic for users and reservations.
// This file centralizes common service-level error values so that they can be
// consistently returned by service methods and checked by callers.
//
// These errors are intended for internal use by the service layer and translation
// into user-facing messages or HTTP status codes should be performed at the
// handler/controller layer.
package services

import "errors"

// User-related errors.
var (
	// ErrEmptyName is returned when a registration request carries no
	// display name.
	ErrEmptyName = errors.New("name is empty")

	// ErrInvalidPhone is returned when a phone identity does not match the
	// canonical +<country><subscriber> form.
	ErrInvalidPhone = errors.New("invalid phone format")

	// ErrInvalidEmail is returned when a contact address fails the email
	// shape check.
	ErrInvalidEmail = errors.New("invalid email format")

	// ErrDuplicateUser is returned when the phone identity is already
	// registered.
	ErrDuplicateUser = errors.New("user already exists")

	// ErrUserNotFound indicates that the requested user does not exist.
	ErrUserNotFound = errors.New("user not found")
)

// Reservation-related errors.
var (
	// ErrInvalidTime is returned when a draft's start or end time is not a
	// valid 24-hour HH:MM, or the end does not come after the start.
	ErrInvalidTime = errors.New("invalid time format")

	// ErrOutsideHours is returned when a draft's times fall outside the
	// configured business hours.
	ErrOutsideHours = errors.New("outside business hours")

	// ErrAmountTooLow / ErrAmountTooHigh are the monetary bound violations.
	ErrAmountTooLow  = errors.New("amount too low")
	ErrAmountTooHigh = errors.New("amount too high")

	// ErrUnknownService is returned when a draft names a service type that
	// is not in the catalog.
	ErrUnknownService = errors.New("unknown service type")

	// ErrReservationNotFound indicates that the requested reservation does
	// not exist or is not accessible to the current user.
	ErrReservationNotFound = errors.New("reservation not found")

	// ErrAlreadyCancelled is returned when cancelling a reservation that is
	// already cancelled.
	ErrAlreadyCancelled = errors.New("reservation already cancelled")
)
