// Package gate composes the validators and the per-sender rate limiter into
// the single admission decision downstream conversation logic calls before
// acting on an inbound event or a reservation draft.
//
// Checks short-circuit on first failure in a fixed order, cheapest and
// most-likely-to-reject first:
//
//	rate limit → sender phone format → time format → business hours → amount
//
// The ordering is a deliberate tie-break: the rate limiter shields the system
// under abuse before any CPU is spent on format validation, and it determines
// which rejection reason a caller observes when several conditions fail at
// once. Rejection is a first-class return value, never a panic — the
// conversation layer re-prompts the sender on user-facing reasons and stays
// silent on rate limiting to avoid amplifying loops.
package gate

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/aurora-assist/go-booking-backend/internal/domain"
	"github.com/aurora-assist/go-booking-backend/internal/ratelimit"
	"github.com/aurora-assist/go-booking-backend/internal/validate"
)

// Reason tags a rejection with its taxonomy kind. Values double as stable
// wire-level error codes.
type Reason string

// Rejection taxonomy. All are recoverable; only ReasonRateLimited asks the
// caller to suppress replies instead of re-prompting.
const (
	ReasonRateLimited   Reason = "rate_limited"
	ReasonInvalidPhone  Reason = "invalid_phone_format"
	ReasonInvalidEmail  Reason = "invalid_email_format"
	ReasonInvalidTime   Reason = "invalid_time_format"
	ReasonOutsideHours  Reason = "outside_business_hours"
	ReasonInvalidAmount Reason = "invalid_amount"
)

// Amount sub-reasons carried in Verdict.Detail.
const (
	DetailAmountTooLow  = "too_low"
	DetailAmountTooHigh = "too_high"
)

// Verdict is the tagged outcome of an admission check.
//
// Exactly one of the two shapes occurs:
//   - Admitted == true: all other fields are zero.
//   - Admitted == false: Reason is set, Detail optionally narrows it, and
//     RetryAfter is non-zero only for ReasonRateLimited.
type Verdict struct {
	Admitted   bool
	Reason     Reason
	Detail     string
	RetryAfter time.Duration
}

// decisions counts gate outcomes by reason ("admitted" for admissions).
// Kept package-level like the HTTP metrics collectors.
var decisions = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "gate_decisions_total",
		Help: "Total session gate decisions by outcome reason.",
	},
	[]string{"reason"},
)

func init() {
	prometheus.MustRegister(decisions)
}

// Gate is the admission front door. Construct with New; the zero value is
// not usable.
type Gate struct {
	limiter *ratelimit.Limiter
	rules   validate.Rules
}

// New builds a Gate over an explicitly owned limiter instance and rule set,
// so tests and multi-tenant deployments construct isolated gates.
func New(l *ratelimit.Limiter, rules validate.Rules) *Gate {
	return &Gate{limiter: l, rules: rules}
}

// Rules exposes the bounds this gate enforces. Services re-check drafts at
// the persistence boundary with the same rules.
func (g *Gate) Rules() validate.Rules { return g.rules }

// Check runs the full admission sequence for msg and, when draft is non-nil,
// for the draft's time and amount fields.
//
// Side effects: an admission consumes one rate-limit slot for msg.SenderID
// (a byproduct of the limiter's Admit). When the rate-limit step rejects, no
// further validator runs and no other state is mutated; all remaining checks
// are pure.
func (g *Gate) Check(msg domain.InboundMessage, draft *domain.ReservationDraft) Verdict {
	d := g.limiter.Admit(msg.SenderID, msg.ReceivedAt)
	if !d.Allowed {
		return g.reject(Verdict{
			Reason:     ReasonRateLimited,
			Detail:     fmt.Sprintf("retry after %s", d.RetryAfter.Round(time.Second)),
			RetryAfter: d.RetryAfter,
		})
	}

	if !validate.Phone(msg.SenderID) {
		return g.reject(Verdict{
			Reason: ReasonInvalidPhone,
			Detail: "sender id must be +<country><subscriber> with 10-15 digits",
		})
	}

	if draft != nil {
		if v := g.checkDraft(*draft); !v.Admitted {
			return v
		}
	}

	decisions.WithLabelValues("admitted").Inc()
	return Verdict{Admitted: true}
}

// checkDraft validates the time and amount fields of a draft. It is pure:
// no limiter slot is consumed here.
func (g *Gate) checkDraft(d domain.ReservationDraft) Verdict {
	for _, tc := range []struct {
		field, value string
	}{
		{"start_time", d.StartTime},
		{"end_time", d.EndTime},
	} {
		if !validate.TimeFormat(tc.value) {
			return g.reject(Verdict{
				Reason: ReasonInvalidTime,
				Detail: tc.field + " must be 24-hour HH:MM",
			})
		}
	}

	for _, tc := range []struct {
		field, value string
	}{
		{"start_time", d.StartTime},
		{"end_time", d.EndTime},
	} {
		if !g.rules.WithinBusinessHours(tc.value) {
			return g.reject(Verdict{
				Reason: ReasonOutsideHours,
				Detail: fmt.Sprintf("%s outside business hours %02d:00-%02d:59",
					tc.field, g.rules.HourStart, g.rules.HourEnd),
			})
		}
	}

	// Complimentary bookings skip the amount bounds.
	if !d.WasFree && !g.rules.Amount(d.TotalPrice) {
		detail := DetailAmountTooHigh
		if d.TotalPrice <= g.rules.MinAmount {
			detail = DetailAmountTooLow
		}
		return g.reject(Verdict{Reason: ReasonInvalidAmount, Detail: detail})
	}

	return Verdict{Admitted: true}
}

// reject stamps the metrics counter and returns v unchanged otherwise.
func (g *Gate) reject(v Verdict) Verdict {
	decisions.WithLabelValues(string(v.Reason)).Inc()
	return v
}
