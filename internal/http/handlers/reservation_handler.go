// Reservation HTTP handlers.
//
// This file exposes REST endpoints for booking resources:
//   - POST /reservations               (confirm a draft directly)
//   - GET  /reservations               (list for a user, paginated, ETag support)
//   - POST /reservations/{id}/cancel   (cancel)
//
// The POST endpoint exists for operator tooling and the local simulator; the
// conversational path goes through the webhook handler, which runs the
// admission gate first.
package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/aurora-assist/go-booking-backend/internal/domain"
	"github.com/aurora-assist/go-booking-backend/internal/repo"
	"github.com/aurora-assist/go-booking-backend/internal/services"
	"github.com/aurora-assist/go-booking-backend/internal/utils"
)

// Pagination carries pagination metadata for list responses.
type Pagination struct {
	Page       int   `json:"page"`
	PageSize   int   `json:"page_size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
	HasNext    bool  `json:"has_next"`
}

// ListReservationsResponse wraps a page of reservations and pagination
// information.
type ListReservationsResponse struct {
	Reservations []domain.Reservation `json:"reservations"`
	Pagination   Pagination           `json:"pagination"`
}

// clampPagination parses and bounds page and page_size query params to sane
// defaults and limits, returning (page, pageSize).
func clampPagination(c *gin.Context) (page, pageSize int) {
	const (
		defaultPage     = 1
		defaultPageSize = 20
		maxPageSize     = 100
	)
	page = utils.AtoiDefault(c.Query("page"), defaultPage)
	if page < 1 {
		page = 1
	}
	pageSize = utils.AtoiDefault(c.Query("page_size"), defaultPageSize)
	if pageSize < 1 {
		pageSize = 1
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}
	return
}

// ConfirmReservation godoc
// @ID          confirmReservation
// @Summary     Confirm a reservation draft
// @Description Validates the draft (time formats, business hours, amount bounds, service type) and persists it as confirmed.
// @Tags        Reservations
// @Accept      json
// @Produce     json
//
// @Param       body  body  domain.ReservationDraft  true  "Reservation draft"
//
// @Success     201  {object}  domain.Reservation
// @Failure     400  {object}  handlers.ErrorResponse  "Malformed body or unknown service type"
// @Failure     404  {object}  handlers.ErrorResponse  "Owner not found"
// @Failure     422  {object}  handlers.ErrorResponse  "Time, business-hour, or amount validation failed"
// @Failure     500  {object}  handlers.ErrorResponse  "Internal error"
// @Router      /reservations [post]
func (h *Handlers) ConfirmReservation(c *gin.Context) {
	var draft domain.ReservationDraft
	if err := c.ShouldBindJSON(&draft); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "invalid JSON body")
		return
	}

	res, err := h.resvSvc.Confirm(c.Request.Context(), draft)
	switch {
	case err == nil:
		ok(c, http.StatusCreated, res)
	case errors.Is(err, services.ErrInvalidTime):
		fail(c, http.StatusUnprocessableEntity, ErrCodeInvalidTime, "times must be HH:MM with start before end")
	case errors.Is(err, services.ErrOutsideHours):
		fail(c, http.StatusUnprocessableEntity, ErrCodeOutsideHours, "requested time is outside business hours")
	case errors.Is(err, services.ErrAmountTooLow):
		failDetail(c, http.StatusUnprocessableEntity, ErrCodeInvalidAmount, "amount must be positive", "too_low")
	case errors.Is(err, services.ErrAmountTooHigh):
		failDetail(c, http.StatusUnprocessableEntity, ErrCodeInvalidAmount, "amount exceeds the booking ceiling", "too_high")
	case errors.Is(err, services.ErrUnknownService):
		fail(c, http.StatusBadRequest, ErrCodeUnknownService, "service type is not in the catalog")
	case errors.Is(err, services.ErrUserNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, "owner account not found")
	default:
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "could not confirm reservation")
	}
}

// failDetail appends a detail qualifier to the message before delegating to
// fail, keeping the envelope shape unchanged.
func failDetail(c *gin.Context, status int, code, msg, detail string) {
	fail(c, status, code, msg+" ("+detail+")")
}

// ListReservations godoc
// @ID          listReservations
// @Summary     List a user's reservations (paginated)
// @Description Returns a page of reservations for ?user_id=. Supports weak ETag via If-None-Match and may return 304.
// @Tags        Reservations
// @Produce     json
//
// @Param       user_id        query   string  true  "Owner user ID (UUID)"         format(uuid)
// @Param       If-None-Match  header  string  false "Return 304 if ETag matches"   example(W/\"abc123\")
// @Param       page           query   int     false "Page number"                  minimum(1) default(1)
// @Param       page_size      query   int     false "Items per page"               minimum(1) maximum(100) default(20)
//
// @Success     200  {object} handlers.ListReservationsResponse
// @Header      200  {string} ETag  "Weak ETag for current result"
// @Success     304  {string} string "Not Modified"
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /reservations [get]
func (h *Handlers) ListReservations(c *gin.Context) {
	ctx := c.Request.Context()
	userID := strings.TrimSpace(c.Query("user_id"))
	if _, err := uuid.Parse(userID); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "user_id must be a UUID")
		return
	}
	page, pageSize := clampPagination(c)

	// ETag pre-check (best effort).
	if h.db != nil {
		count, maxTS, err := repo.ReservationsStats(ctx, h.db, userID)
		if err == nil {
			var ts int64
			if maxTS != nil {
				ts = maxTS.Unix()
			}
			etag := fmt.Sprintf(`W/"reservations:%s:%d:%d"`, userID, count, ts)
			c.Header("ETag", etag)
			if inm := c.GetHeader("If-None-Match"); inm != "" && inm == etag {
				c.Status(http.StatusNotModified)
				return
			}
		}
	}

	items, total, err := h.resvSvc.ListPage(ctx, userID, page, pageSize)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, err.Error())
		return
	}

	totalPages := int((total + int64(pageSize) - 1) / int64(pageSize))
	ok(c, http.StatusOK, ListReservationsResponse{
		Reservations: items,
		Pagination: Pagination{
			Page:       page,
			PageSize:   pageSize,
			Total:      total,
			TotalPages: totalPages,
			HasNext:    page < totalPages,
		},
	})
}

// CancelReservationRequest is the JSON payload for cancelling a reservation.
type CancelReservationRequest struct {
	// UserID identifies the owner; cancellation is refused for anyone else.
	UserID string `json:"user_id" binding:"required" format:"uuid"`
}

// CancelReservation godoc
// @ID          cancelReservation
// @Summary     Cancel a reservation
// @Description Marks a confirmed reservation as cancelled when it belongs to the given user. Cancelling twice yields 409.
// @Tags        Reservations
// @Accept      json
// @Produce     json
//
// @Param       id    path  string  true  "Reservation ID (UUID)"  format(uuid)
// @Param       body  body  handlers.CancelReservationRequest  true  "Owner"
//
// @Success     204  {string} string "No Content"
// @Failure     400  {object} handlers.ErrorResponse "Bad request"
// @Failure     404  {object} handlers.ErrorResponse "Reservation not found"
// @Failure     409  {object} handlers.ErrorResponse "Already cancelled"
// @Failure     500  {object} handlers.ErrorResponse "Internal error"
// @Router      /reservations/{id}/cancel [post]
func (h *Handlers) CancelReservation(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "reservation id must be a UUID")
		return
	}

	var req CancelReservationRequest
	if err := c.ShouldBindJSON(&req); err != nil || strings.TrimSpace(req.UserID) == "" {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, "user_id required")
		return
	}

	err := h.resvSvc.Cancel(c.Request.Context(), req.UserID, id)
	switch {
	case err == nil:
		noContent(c)
	case errors.Is(err, services.ErrReservationNotFound):
		fail(c, http.StatusNotFound, ErrCodeNotFound, "reservation not found")
	case errors.Is(err, services.ErrAlreadyCancelled):
		fail(c, http.StatusConflict, ErrCodeAlreadyCancelled, "reservation already cancelled")
	default:
		fail(c, http.StatusInternalServerError, ErrCodeInternal, "could not cancel reservation")
	}
}
