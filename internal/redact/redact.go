// Package redact implements the sensitive-field masking codec and the
// credential log guard. Every log call site that would emit a phone number
// or an email address must route the value through Phone or Email first;
// these are the only sanctioned paths to sensitive-field logging.
//
// Masking is one-way and deterministic: the same input always yields the
// same masked output, and there is no inverse. It is an operator-readability
// aid, not an anonymization or encryption primitive. Credential values
// (passwords, tokens, API keys) must never reach this codec at all — the
// guard in this package refuses to emit any log line that looks like one.
package redact

import (
	"errors"
	"regexp"
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog"
)

const (
	// phoneKeepHead / phoneKeepTail are the visible prefix/suffix lengths
	// of a masked phone. 4+3 keeps the country code and the trailing digits
	// operators use to recognize a repeat identity.
	phoneKeepHead = 4
	phoneKeepTail = 3

	// emailKeepLocal is the number of local-part characters left visible.
	emailKeepLocal = 2

	// fullMask replaces values too short or too malformed to mask
	// structurally. Failing closed beats indexing out of bounds.
	fullMask = "****"
)

// credentialRE matches log lines that appear to carry credential material.
// Matching is case-insensitive and deliberately broad: a false positive
// costs one suppressed log line, a false negative leaks a secret.
var credentialRE = regexp.MustCompile(`(?i)password|token|secret|key`)

// ErrCredentialLeak is returned by CheckLine when a log line matches the
// credential-term pattern. It signals an upstream programming bug (a secret
// reached the logging path), not a user input problem.
var ErrCredentialLeak = errors.New("credential-bearing value reached the logger")

// guardRejections counts log lines refused by the credential guard. A
// non-zero value is an alert condition: some call site is trying to log
// secrets.
var guardRejections = prometheus.NewCounter(prometheus.CounterOpts{
	Name: "log_guard_rejections_total",
	Help: "Total log lines refused because they matched the credential-term pattern.",
})

func init() {
	prometheus.MustRegister(guardRejections)
}

// Phone masks a canonical phone number for display: the first 4 characters,
// a literal "****", and the last 3 characters. Inputs shorter than the kept
// head+tail are fully masked rather than partially revealed.
//
//	Phone("+593999999999") == "+593****999"
func Phone(phone string) string {
	if len(phone) < phoneKeepHead+phoneKeepTail {
		return fullMask
	}
	return phone[:phoneKeepHead] + "****" + phone[len(phone)-phoneKeepTail:]
}

// Email masks the identity-bearing local part of an address: the first 2
// characters followed by "***@" and the domain unchanged. The domain stays
// visible on purpose — it is operationally useful for routing diagnostics
// and carries little identity on its own. Inputs without an '@' or with a
// local part shorter than 2 characters are fully masked.
//
//	Email("maria@example.com") == "ma***@example.com"
func Email(email string) string {
	at := strings.Index(email, "@")
	if at < emailKeepLocal {
		return fullMask
	}
	return email[:emailKeepLocal] + "***@" + email[at+1:]
}

// CheckLine reports whether msg is safe to emit. It returns ErrCredentialLeak
// when msg matches the credential-term pattern and nil otherwise.
func CheckLine(msg string) error {
	if credentialRE.MatchString(msg) {
		return ErrCredentialLeak
	}
	return nil
}

// Guard wraps a zerolog.Logger and refuses to emit messages that fail
// CheckLine. A refused message is replaced by an error-level alert (with the
// offending content omitted) and counted in log_guard_rejections_total.
//
// Guard is cheap to copy and safe for concurrent use.
type Guard struct {
	base zerolog.Logger
}

// NewGuard returns a Guard emitting through base.
func NewGuard(base zerolog.Logger) Guard {
	return Guard{base: base}
}

// Info emits msg at info level, subject to the credential check.
func (g Guard) Info(msg string) error { return g.emit(g.base.Info(), msg) }

// Warn emits msg at warn level, subject to the credential check.
func (g Guard) Warn(msg string) error { return g.emit(g.base.Warn(), msg) }

// Error emits msg at error level, subject to the credential check.
func (g Guard) Error(msg string) error { return g.emit(g.base.Error(), msg) }

// emit finalizes ev with msg when the line is clean. On a credential match
// the event is discarded, an alert is logged instead, and ErrCredentialLeak
// is returned so callers can surface the contract violation.
func (g Guard) emit(ev *zerolog.Event, msg string) error {
	if err := CheckLine(msg); err != nil {
		ev.Discard()
		guardRejections.Inc()
		g.base.Error().
			Str("alert", "credential_leak_blocked").
			Msg("log line rejected: credential-term pattern matched")
		return err
	}
	ev.Msg(msg)
	return nil
}
