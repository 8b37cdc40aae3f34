// Package middleware contains shared Gin middleware used by the HTTP layer.
//
// This file implements webhook delivery deduplication. WhatsApp gateways
// re-deliver an event whenever they miss an acknowledgment (timeouts, app
// restarts, provider retries), so the webhook endpoint must recognize a
// delivery it has already processed. The middleware validates the
// X-Delivery-ID request header, performs a user-defined lookup to detect a
// previously recorded delivery, and annotates the request context so
// downstream components can:
//   - read the normalized delivery id (GetDeliveryID)
//   - detect replayed deliveries (IsReplay)
//   - bypass the edge rate limiter when a replay is served (internal flag)
//
// Replays bypass rate limiting on purpose: a provider retry is not sender
// traffic and must not burn the sender's window.
package middleware

import (
	"context"
	"net/http"
	"regexp"
	"time"

	"github.com/gin-gonic/gin"
)

// HeaderDeliveryID is the request header that carries the gateway's unique
// id for one webhook delivery (e.g., a Twilio message SID). The value is
// stable across re-deliveries of the same event.
const HeaderDeliveryID = "X-Delivery-ID"

// Context keys used internally to stash dedupe state.
// These keys are intentionally unexported and referenced via accessor helpers.
const (
	ctxKeyDeliveryID = "delivery.id"
	ctxKeyReplay     = "delivery.replay" // bool: true when already processed
	ctxKeyRateBypass = "rate.bypass"     // bool: true to skip rate limiting
)

// GetDeliveryID returns the validated delivery id stored in the Gin context
// by DedupeValidator. The second return value indicates presence.
//
// Handlers should prefer this function over reading the header directly.
func GetDeliveryID(c *gin.Context) (string, bool) {
	v, ok := c.Get(ctxKeyDeliveryID)
	if !ok {
		return "", false
	}
	s, _ := v.(string)
	return s, s != ""
}

// IsReplay reports whether the middleware detected that this request
// re-delivers an event that was already processed.
//
// When true, upstream components (handlers, rate limiters) may short-circuit
// and serve the previously recorded outcome.
func IsReplay(c *gin.Context) bool {
	v, ok := c.Get(ctxKeyReplay)
	if !ok {
		return false
	}
	b, _ := v.(bool)
	return b
}

// DedupeOptions configures header validation behavior for DedupeValidator.
type DedupeOptions struct {
	// MaxLen caps the accepted id length. Values <= 0 default to 200.
	MaxLen int
	// Pattern restricts allowed characters. If nil, a conservative
	// token pattern is used: ^[A-Za-z0-9._~\-:]+$
	Pattern *regexp.Regexp
}

// DeliveryLookup answers whether a delivery with this id on this channel was
// already processed at the given time. Implementations typically consult the
// deliveries table, honoring its TTL window.
//
// Return exists=true when the prior outcome can be replayed; return an error
// only for lookup failures (which should not block normal processing).
type DeliveryLookup func(ctx context.Context, channel, deliveryID string, now time.Time) (exists bool, err error)

// DedupeValidator validates the X-Delivery-ID header (if present), stashes it
// in the request context, and checks for a prior processed delivery via the
// supplied lookup. When a replay is detected, it marks the context so
// downstream components can detect the replay and skip rate limiting.
//
// Behavior:
//   - If the header is absent: the middleware is a no-op (manual simulator
//     requests without ids are still served, just without dedupe).
//   - If the header fails validation: responds 400 with a compact error body.
//   - If lookup reports a prior delivery: sets replay + rate-bypass flags.
//   - Always invokes the next handler unless validation fails.
//
// This middleware does not itself return the recorded outcome; handlers
// remain in control of how a replay is served.
func DedupeValidator(opts DedupeOptions, channel string, lookup DeliveryLookup) gin.HandlerFunc {
	maxLen := opts.MaxLen
	if maxLen <= 0 {
		maxLen = 200
	}
	pat := opts.Pattern
	if pat == nil {
		pat = regexp.MustCompile(`^[A-Za-z0-9._~\-:]+$`)
	}

	return func(c *gin.Context) {
		id := c.GetHeader(HeaderDeliveryID)
		if id == "" {
			c.Next()
			return
		}
		if len(id) > maxLen || !pat.MatchString(id) {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{
				"code":    "bad_delivery_id",
				"message": "invalid X-Delivery-ID",
			})
			return
		}

		c.Set(ctxKeyDeliveryID, id)

		if lookup != nil {
			now := time.Now().UTC()
			if exists, _ := lookup(c.Request.Context(), channel, id, now); exists {
				c.Set(ctxKeyReplay, true)
				c.Set(ctxKeyRateBypass, true) // provider retry; not sender traffic
			}
		}

		c.Next()
	}
}
