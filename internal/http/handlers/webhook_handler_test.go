package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/aurora-assist/go-booking-backend/internal/domain"
	"github.com/aurora-assist/go-booking-backend/internal/gate"
	"github.com/aurora-assist/go-booking-backend/internal/http/middleware"
	"github.com/aurora-assist/go-booking-backend/internal/ratelimit"
	"github.com/aurora-assist/go-booking-backend/internal/services"
	"github.com/aurora-assist/go-booking-backend/internal/validate"
)

// ---------- stubs ----------

type stubUserSvc struct {
	user  *domain.User
	users []domain.User
	total int64
	err   error
}

func (s stubUserSvc) Register(ctx context.Context, name, phone, email string) (*domain.User, error) {
	return s.user, s.err
}
func (s stubUserSvc) Get(ctx context.Context, id string) (*domain.User, error) {
	return s.user, s.err
}
func (s stubUserSvc) GetByPhone(ctx context.Context, phone string) (*domain.User, error) {
	return s.user, s.err
}
func (s stubUserSvc) List(ctx context.Context, page, pageSize int) ([]domain.User, int64, error) {
	return s.users, s.total, s.err
}

type stubResvSvc struct {
	res     *domain.Reservation
	err     error
	lastDra domain.ReservationDraft
}

func (s *stubResvSvc) Confirm(ctx context.Context, draft domain.ReservationDraft) (*domain.Reservation, error) {
	s.lastDra = draft
	return s.res, s.err
}
func (s *stubResvSvc) ListPage(ctx context.Context, userID string, page, pageSize int) ([]domain.Reservation, int64, error) {
	return nil, 0, nil
}
func (s *stubResvSvc) Cancel(ctx context.Context, userID, reservationID string) error {
	return s.err
}

// newWebhookRouter wires a real gate (tunable window size) over stub services.
func newWebhookRouter(resv *stubResvSvc, maxPerWindow int) *gin.Engine {
	gin.SetMode(gin.TestMode)
	g := gate.New(
		ratelimit.New(ratelimit.Config{MaxPerWindow: maxPerWindow, Window: time.Minute, StaleTTL: 10 * time.Minute}),
		validate.DefaultRules(),
	)
	h := New(stubUserSvc{}, resv, g, nil, 0)

	r := gin.New()
	r.POST("/webhook/whatsapp", h.InboundWhatsApp)
	return r
}

func postWebhook(t *testing.T, r *gin.Engine, body any) (*httptest.ResponseRecorder, WebhookResponse) {
	t.Helper()
	raw, err := json.Marshal(body)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/webhook/whatsapp", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	var resp WebhookResponse
	if w.Code == http.StatusOK {
		if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
			t.Fatalf("unmarshal response: %v", err)
		}
	}
	return w, resp
}

// ---------- tests ----------

func TestInboundWhatsApp_MessageWithoutDraft_Accepted(t *testing.T) {
	r := newWebhookRouter(&stubResvSvc{}, 5)

	w, resp := postWebhook(t, r, WebhookRequest{SenderID: "+593999111001", Text: "hola"})
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	if resp.Status != WebhookAccepted {
		t.Fatalf("status=%q; want accepted", resp.Status)
	}
}

func TestInboundWhatsApp_DraftConfirmed(t *testing.T) {
	resv := &stubResvSvc{res: &domain.Reservation{ID: "res-1", Status: domain.ReservationConfirmed}}
	r := newWebhookRouter(resv, 5)

	draft := &domain.ReservationDraft{
		UserID:      "u1",
		StartTime:   "09:00",
		EndTime:     "11:00",
		ServiceType: "corte",
		TotalPrice:  50,
	}
	w, resp := postWebhook(t, r, WebhookRequest{SenderID: "+593999111002", Text: "confirmo", Draft: draft})
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	if resp.Status != WebhookConfirmed {
		t.Fatalf("status=%q; want confirmed", resp.Status)
	}
	if resp.Reservation == nil || resp.Reservation.ID != "res-1" {
		t.Fatalf("reservation missing from response: %+v", resp)
	}
	if resv.lastDra.StartTime != "09:00" {
		t.Fatalf("draft not forwarded to service: %+v", resv.lastDra)
	}
}

func TestInboundWhatsApp_InvalidSender_Rejected(t *testing.T) {
	r := newWebhookRouter(&stubResvSvc{}, 5)

	w, resp := postWebhook(t, r, WebhookRequest{SenderID: "0991234567", Text: "hola"})
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d; rejections still answer 200", w.Code)
	}
	if resp.Status != WebhookRejected || resp.Code != ErrCodeInvalidPhone {
		t.Fatalf("got %q/%q; want rejected/invalid_phone_format", resp.Status, resp.Code)
	}
}

func TestInboundWhatsApp_InvalidDraftTime_Rejected(t *testing.T) {
	r := newWebhookRouter(&stubResvSvc{}, 5)

	draft := &domain.ReservationDraft{StartTime: "9am", EndTime: "11:00", TotalPrice: 50}
	w, resp := postWebhook(t, r, WebhookRequest{SenderID: "+593999111003", Draft: draft})
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	if resp.Status != WebhookRejected || resp.Code != ErrCodeInvalidTime {
		t.Fatalf("got %q/%q; want rejected/invalid_time_format", resp.Status, resp.Code)
	}
}

func TestInboundWhatsApp_OverWindow_Suppressed(t *testing.T) {
	r := newWebhookRouter(&stubResvSvc{}, 1)

	if _, resp := postWebhook(t, r, WebhookRequest{SenderID: "+593999111004", Text: "hola"}); resp.Status != WebhookAccepted {
		t.Fatalf("first message should be accepted, got %q", resp.Status)
	}

	w, resp := postWebhook(t, r, WebhookRequest{SenderID: "+593999111004", Text: "hola"})
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d; suppressions must not trigger gateway retries", w.Code)
	}
	if resp.Status != WebhookSuppressed || resp.Code != ErrCodeRateLimited {
		t.Fatalf("got %q/%q; want suppressed/rate_limited", resp.Status, resp.Code)
	}
	if resp.RetryAfterSeconds <= 0 || resp.RetryAfterSeconds > 60 {
		t.Fatalf("retry_after_seconds = %d; want within (0,60]", resp.RetryAfterSeconds)
	}
}

func TestInboundWhatsApp_ConfirmFailure_Mapped(t *testing.T) {
	cases := []struct {
		name       string
		err        error
		wantCode   string
		wantDetail string
	}{
		{"outside hours", services.ErrOutsideHours, ErrCodeOutsideHours, ""},
		{"amount too high", services.ErrAmountTooHigh, ErrCodeInvalidAmount, "too_high"},
		{"amount too low", services.ErrAmountTooLow, ErrCodeInvalidAmount, "too_low"},
		{"unknown service", services.ErrUnknownService, ErrCodeUnknownService, ""},
		{"owner missing", services.ErrUserNotFound, ErrCodeNotFound, ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			r := newWebhookRouter(&stubResvSvc{err: tc.err}, 5)

			draft := &domain.ReservationDraft{StartTime: "09:00", EndTime: "11:00", TotalPrice: 50}
			w, resp := postWebhook(t, r, WebhookRequest{SenderID: "+593999111005", Draft: draft})
			if w.Code != http.StatusOK {
				t.Fatalf("status=%d", w.Code)
			}
			if resp.Status != WebhookRejected || resp.Code != tc.wantCode || resp.Detail != tc.wantDetail {
				t.Fatalf("got %q/%q/%q; want rejected/%s/%s", resp.Status, resp.Code, resp.Detail, tc.wantCode, tc.wantDetail)
			}
		})
	}
}

func TestInboundWhatsApp_ConfirmInternalError_500(t *testing.T) {
	r := newWebhookRouter(&stubResvSvc{err: context.DeadlineExceeded}, 5)

	draft := &domain.ReservationDraft{StartTime: "09:00", EndTime: "11:00", TotalPrice: 50}
	w, _ := postWebhook(t, r, WebhookRequest{SenderID: "+593999111006", Draft: draft})
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status=%d; want 500 for non-validation faults", w.Code)
	}
}

func TestInboundWhatsApp_BadJSON_400(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := newWebhookRouter(&stubResvSvc{}, 5)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/webhook/whatsapp", bytes.NewReader([]byte("{not json")))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status=%d; want 400", w.Code)
	}
}

func TestInboundWhatsApp_Replay_AnsweredAsDuplicate(t *testing.T) {
	gin.SetMode(gin.TestMode)

	g := gate.New(
		ratelimit.New(ratelimit.Config{MaxPerWindow: 1, Window: time.Minute, StaleTTL: 10 * time.Minute}),
		validate.DefaultRules(),
	)
	resv := &stubResvSvc{}
	h := New(stubUserSvc{}, resv, g, nil, 0)

	r := gin.New()
	r.Use(middleware.DedupeValidator(middleware.DedupeOptions{}, domain.ChannelWhatsApp,
		func(ctx context.Context, channel, id string, now time.Time) (bool, error) {
			return true, nil
		}))
	r.POST("/webhook/whatsapp", h.InboundWhatsApp)

	raw, _ := json.Marshal(WebhookRequest{SenderID: "+593999111007", Text: "hola"})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/webhook/whatsapp", bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(middleware.HeaderDeliveryID, "SM-replayed")
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status=%d", w.Code)
	}
	var resp WebhookResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if resp.Status != WebhookDuplicate {
		t.Fatalf("status=%q; want duplicate", resp.Status)
	}
}
