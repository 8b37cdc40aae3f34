// Webhook HTTP handlers.
//
// This file exposes the inbound message endpoint for the booking assistant:
//   - POST /webhook/whatsapp   (inbound message event, optional draft)
//
// Handlers are transport-thin: they validate input, run the admission gate,
// call application services, and translate results into HTTP responses.
//
// Delivery semantics: messaging gateways retry a webhook whenever the
// endpoint answers with a non-2xx status, so a rejected or rate-limited
// message is still acknowledged with 200 and the outcome is carried in the
// response body. Only malformed requests (bad JSON, invalid ids) and real
// server faults earn an error status.
package handlers

import (
	"context"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/aurora-assist/go-booking-backend/internal/domain"
	"github.com/aurora-assist/go-booking-backend/internal/gate"
	"github.com/aurora-assist/go-booking-backend/internal/http/middleware"
	"github.com/aurora-assist/go-booking-backend/internal/repo"
	"github.com/aurora-assist/go-booking-backend/internal/services"
)

//
// Service contracts (context-aware)
//

// UserService defines account operations consumed by HTTP handlers.
//
// Implementations should be safe for concurrent use and must honor the
// provided context for cancellation and timeouts.
type UserService interface {
	// Register creates an account after validating name, phone, and email.
	Register(ctx context.Context, name, phone, email string) (*domain.User, error)
	// Get returns a user by id.
	Get(ctx context.Context, id string) (*domain.User, error)
	// GetByPhone returns a user by canonical phone identity.
	GetByPhone(ctx context.Context, phone string) (*domain.User, error)
	// List returns one page of users (oldest first) and the total count.
	List(ctx context.Context, page, pageSize int) ([]domain.User, int64, error)
}

// ReservationService defines booking lifecycle operations consumed by HTTP
// handlers.
type ReservationService interface {
	// Confirm validates a draft end to end and persists it as confirmed.
	Confirm(ctx context.Context, draft domain.ReservationDraft) (*domain.Reservation, error)
	// ListPage returns a page of a user's reservations and the total count.
	ListPage(ctx context.Context, userID string, page, pageSize int) ([]domain.Reservation, int64, error)
	// Cancel marks a reservation cancelled when it belongs to userID.
	Cancel(ctx context.Context, userID, reservationID string) error
}

// SessionGate runs the fixed admission sequence for an inbound message.
type SessionGate interface {
	Check(msg domain.InboundMessage, draft *domain.ReservationDraft) gate.Verdict
}

//
// Handler wiring
//

// Handlers groups the HTTP endpoints for the webhook, users, and
// reservations. It depends on abstract service interfaces to keep transport
// concerns separate from business logic. DB is used only for cheap
// read-side concerns (ETag stats, delivery records).
type Handlers struct {
	userSvc   UserService
	resvSvc   ReservationService
	gate      SessionGate
	db        *gorm.DB
	dedupeTTL time.Duration
}

// New constructs a Handlers instance bound to the given services.
// dedupeTTL controls how long processed webhook deliveries are remembered;
// values <= 0 default to 24h.
func New(userSvc UserService, resvSvc ReservationService, g SessionGate, db *gorm.DB, dedupeTTL time.Duration) *Handlers {
	if dedupeTTL <= 0 {
		dedupeTTL = 24 * time.Hour
	}
	return &Handlers{userSvc: userSvc, resvSvc: resvSvc, gate: g, db: db, dedupeTTL: dedupeTTL}
}

//
// DTOs
//

// WebhookRequest is the JSON payload the webhook receiver posts for each
// inbound message event. Draft is present only when the upstream
// conversation engine has assembled a complete booking attempt.
type WebhookRequest struct {
	// SenderID is the originator's phone identity in E.164 form.
	SenderID string `json:"sender_id" binding:"required" example:"+593987654321"`
	// Text is the raw message body; never interpreted here.
	Text string `json:"text" example:"Quiero reservar un corte"`
	// ReceivedAt is the gateway receive timestamp; defaults to now.
	ReceivedAt time.Time `json:"received_at,omitempty"`
	// Draft carries the assembled booking attempt, when the conversation
	// reached the confirmation step.
	Draft *domain.ReservationDraft `json:"draft,omitempty"`
}

// Webhook outcome states returned in WebhookResponse.Status.
const (
	WebhookAccepted   = "accepted"   // message admitted, no booking attempted
	WebhookConfirmed  = "confirmed"  // draft admitted and persisted
	WebhookRejected   = "rejected"   // validation failed; code says why
	WebhookSuppressed = "suppressed" // sender over the message window
	WebhookDuplicate  = "duplicate"  // replay of a processed delivery
)

// WebhookResponse reports the processing outcome of one inbound message.
//
// The HTTP status is 200 for every processed message; Status plus Code carry
// the actual outcome so the gateway never retries business rejections.
type WebhookResponse struct {
	Status string `json:"status" example:"confirmed"`
	// Code identifies the rejection reason when Status is "rejected" or
	// "suppressed" (see errors.go constants).
	Code string `json:"code,omitempty" example:"outside_business_hours"`
	// Detail refines Code (e.g. "too_low" / "too_high" for invalid_amount).
	Detail string `json:"detail,omitempty" example:"too_high"`
	// RetryAfterSeconds tells the conversation layer when the sender's
	// window frees up; set only when Status is "suppressed".
	RetryAfterSeconds int `json:"retry_after_seconds,omitempty" example:"42"`
	// Reservation is the persisted booking when Status is "confirmed".
	Reservation *domain.Reservation `json:"reservation,omitempty"`
}

//
// Handlers
//

// InboundWhatsApp godoc
// @ID          inboundWhatsApp
// @Summary     Process an inbound WhatsApp message event
// @Description Runs the admission gate (rate window, sender identity, time and amount checks) and, when a draft is attached, confirms the booking. Always answers 200 for processed messages; the body carries the outcome.
// @Tags        Webhook
// @Accept      json
// @Produce     json
//
// @Param       X-Delivery-ID  header  string  false "Gateway delivery id (dedupe key)"  example(SM9f27c1)
// @Param       body           body    handlers.WebhookRequest  true  "Inbound message event"
//
// @Success     200  {object}  handlers.WebhookResponse
// @Failure     400  {object}  handlers.ErrorResponse  "Bad request"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /webhook/whatsapp [post]
func (h *Handlers) InboundWhatsApp(c *gin.Context) {
	var req WebhookRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}
	req.SenderID = strings.TrimSpace(req.SenderID)
	middleware.SetSenderID(c, req.SenderID)

	// Replays are acknowledged without re-running side effects.
	if middleware.IsReplay(c) {
		ok(c, http.StatusOK, WebhookResponse{Status: WebhookDuplicate})
		return
	}

	now := req.ReceivedAt
	if now.IsZero() {
		now = time.Now().UTC()
	}
	msg := domain.InboundMessage{
		SenderID:   req.SenderID,
		RawText:    req.Text,
		ReceivedAt: now,
		Channel:    domain.ChannelWhatsApp,
	}

	verdict := h.gate.Check(msg, req.Draft)
	if !verdict.Admitted {
		resp := WebhookResponse{
			Status: WebhookRejected,
			Code:   string(verdict.Reason),
			Detail: verdict.Detail,
		}
		if verdict.Reason == gate.ReasonRateLimited {
			resp.Status = WebhookSuppressed
			resp.RetryAfterSeconds = int(verdict.RetryAfter.Round(time.Second) / time.Second)
		}
		h.recordDelivery(c, req.SenderID, http.StatusOK)
		ok(c, http.StatusOK, resp)
		return
	}

	if req.Draft == nil {
		h.recordDelivery(c, req.SenderID, http.StatusOK)
		ok(c, http.StatusOK, WebhookResponse{Status: WebhookAccepted})
		return
	}

	res, err := h.resvSvc.Confirm(c.Request.Context(), *req.Draft)
	if err != nil {
		if code, detail, isClient := confirmErrorCode(err); isClient {
			h.recordDelivery(c, req.SenderID, http.StatusOK)
			ok(c, http.StatusOK, WebhookResponse{Status: WebhookRejected, Code: code, Detail: detail})
			return
		}
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "could not confirm reservation")
		return
	}

	h.recordDelivery(c, req.SenderID, http.StatusOK)
	ok(c, http.StatusOK, WebhookResponse{Status: WebhookConfirmed, Reservation: res})
}

// recordDelivery persists the (channel, delivery id) tuple so gateway
// retries of this event are recognized as replays. Best effort: a write
// failure only disables dedupe for this event.
func (h *Handlers) recordDelivery(c *gin.Context, senderID string, status int) {
	id, hasID := middleware.GetDeliveryID(c)
	if !hasID || h.db == nil {
		return
	}
	if _, err := repo.CreateDelivery(c.Request.Context(), h.db, domain.ChannelWhatsApp, id, senderID, status, h.dedupeTTL); err != nil && !errors.Is(err, repo.ErrDuplicate) {
		middleware.LoggerFrom(c).Warn().
			Err(err).
			Str("delivery_id", id).
			Msg("delivery record write failed")
	}
}

// confirmErrorCode maps booking validation failures to response codes.
// The third return is false for faults that are not the caller's doing.
func confirmErrorCode(err error) (code, detail string, isClient bool) {
	switch {
	case errors.Is(err, services.ErrInvalidTime):
		return ErrCodeInvalidTime, "", true
	case errors.Is(err, services.ErrOutsideHours):
		return ErrCodeOutsideHours, "", true
	case errors.Is(err, services.ErrAmountTooLow):
		return ErrCodeInvalidAmount, "too_low", true
	case errors.Is(err, services.ErrAmountTooHigh):
		return ErrCodeInvalidAmount, "too_high", true
	case errors.Is(err, services.ErrUnknownService):
		return ErrCodeUnknownService, "", true
	case errors.Is(err, services.ErrUserNotFound):
		return ErrCodeNotFound, "", true
	default:
		return "", "", false
	}
}
