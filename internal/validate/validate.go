// Package validate provides the pure admission predicates used before a
// reservation request is allowed to reach booking logic: phone and email
// format checks, 24-hour time parsing, business-hour bounds, and monetary
// amount bounds.
//
// Design goals:
//   - Total functions: malformed input yields false, never a panic
//   - No side effects, no logging, no I/O
//   - Tunable bounds (hours, amounts) injected via Rules, not hard-coded
//   - Deterministic: same input, same verdict
//
// The predicates are deliberately permissive where the upstream conversation
// layer is the real gatekeeper (e.g. Email does not attempt RFC 5322).
package validate

import (
	"math"
	"regexp"
	"strconv"
)

var (
	// phoneRE matches canonical E.164-style identities: a leading '+'
	// followed by 10 to 15 digits. No spaces, letters, or punctuation.
	phoneRE = regexp.MustCompile(`^\+\d{10,15}$`)

	// emailRE is the pragmatic "something@something.something" shape:
	// non-whitespace/non-@ runs around a single '@' and at least one dot
	// in the domain part.
	emailRE = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

	// timeRE matches 24-hour HH:MM with both components zero-padded.
	timeRE = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d$`)
)

// Phone reports whether s is a canonical sender identity: '+' followed by
// 10–15 digits. Empty strings, missing '+', letters, and out-of-range digit
// counts all fail.
func Phone(s string) bool {
	return phoneRE.MatchString(s)
}

// Email reports whether s looks like an email address. The check is
// intentionally permissive; it guarantees only one '@' with non-empty,
// whitespace-free local and domain parts and a dotted domain.
func Email(s string) bool {
	return emailRE.MatchString(s)
}

// TimeFormat reports whether s is a valid 24-hour clock string "HH:MM"
// with HH in [00,23] and MM in [00,59].
func TimeFormat(s string) bool {
	return timeRE.MatchString(s)
}

// Rules carries the tenant-tunable bounds consumed by the stateful checks.
// Zero values are not meaningful; construct via DefaultRules or from config.
type Rules struct {
	// MinAmount is the exclusive lower bound for monetary amounts.
	MinAmount float64
	// MaxAmount is the inclusive upper bound for monetary amounts.
	MaxAmount float64
	// HourStart is the first admissible booking hour (inclusive).
	HourStart int
	// HourEnd is the last admissible booking hour (inclusive; see the
	// configuration note on the 18:00 boundary).
	HourEnd int
}

// DefaultRules returns the stock bounds: amounts in (0, 1000], bookings
// between 08:00 and 18:00 inclusive.
func DefaultRules() Rules {
	return Rules{
		MinAmount: 0,
		MaxAmount: 1000,
		HourStart: 8,
		HourEnd:   18,
	}
}

// WithinBusinessHours reports whether the hour component of a pre-validated
// "HH:MM" string lies inside [HourStart, HourEnd]. Malformed input fails
// closed (returns false) rather than panicking; callers are still expected
// to run TimeFormat first so that a format problem surfaces with the right
// rejection reason.
func (r Rules) WithinBusinessHours(s string) bool {
	if !TimeFormat(s) {
		return false
	}
	hour, err := strconv.Atoi(s[:2])
	if err != nil {
		return false
	}
	return hour >= r.HourStart && hour <= r.HourEnd
}

// Amount reports whether n is a bookable monetary amount: strictly greater
// than MinAmount, at most MaxAmount, and finite. Zero, negatives, NaN and
// infinities are all invalid.
func (r Rules) Amount(n float64) bool {
	if math.IsNaN(n) || math.IsInf(n, 0) {
		return false
	}
	return n > r.MinAmount && n <= r.MaxAmount
}
