// Package services – ReservationService
//
// This file implements ReservationService, the application-level component
// that turns an admitted ReservationDraft into a confirmed Reservation. It
// re-checks the time and amount bounds at the persistence boundary (the
// session gate admits requests, but drafts can also arrive through the REST
// API), resolves the service type against the catalog, derives the duration
// when the conversation layer omitted it, and persists atomically.
//
// Observability: public methods are OpenTelemetry-instrumented; spans carry
// user identifiers and pagination parameters where applicable.
package services

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"gorm.io/gorm"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/aurora-assist/go-booking-backend/internal/catalog"
	"github.com/aurora-assist/go-booking-backend/internal/domain"
	"github.com/aurora-assist/go-booking-backend/internal/repo"
	"github.com/aurora-assist/go-booking-backend/internal/validate"
)

// ReservationService coordinates draft validation, catalog resolution, and
// reservation persistence.
type ReservationService struct {
	DB      *gorm.DB
	Catalog *catalog.Catalog
	Rules   validate.Rules
}

// Confirm validates draft and persists it as a confirmed reservation.
//
// The sequence mirrors the session gate's draft checks (format → hours →
// amount) so both entry points reject with the same reason for the same
// input, then adds the persistence-only concerns: owner existence, catalog
// resolution, and duration derivation.
func (s *ReservationService) Confirm(ctx context.Context, draft domain.ReservationDraft) (*domain.Reservation, error) {
	tr := otel.Tracer("services/ReservationService")
	ctx, span := tr.Start(ctx, "Confirm",
		trace.WithAttributes(attribute.String("user.id", draft.UserID)),
	)
	defer span.End()

	startMin, err := minutesOf(draft.StartTime)
	if err != nil {
		return nil, ErrInvalidTime
	}
	endMin, err := minutesOf(draft.EndTime)
	if err != nil {
		return nil, ErrInvalidTime
	}
	if endMin <= startMin {
		return nil, ErrInvalidTime
	}
	if !s.Rules.WithinBusinessHours(draft.StartTime) || !s.Rules.WithinBusinessHours(draft.EndTime) {
		return nil, ErrOutsideHours
	}

	// Owner must exist; the draft's user name defaults from the account.
	owner, err := repo.GetUser(ctx, s.DB, draft.UserID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(draft.UserName) == "" {
		draft.UserName = owner.Name
	}

	if s.Catalog != nil && strings.TrimSpace(draft.ServiceType) != "" {
		svc, ok := s.Catalog.Lookup(draft.ServiceType)
		if !ok {
			return nil, ErrUnknownService
		}
		draft.ServiceType = svc.Name
		if draft.TotalPrice == 0 && !draft.WasFree {
			draft.TotalPrice = svc.Price
			draft.WasFree = svc.Free
		}
		if draft.DurationHours == 0 {
			draft.DurationHours = svc.DurationHours
		}
	}
	if draft.DurationHours == 0 {
		draft.DurationHours = float64(endMin-startMin) / 60.0
	}

	if !draft.WasFree && !s.Rules.Amount(draft.TotalPrice) {
		if draft.TotalPrice <= s.Rules.MinAmount {
			return nil, ErrAmountTooLow
		}
		return nil, ErrAmountTooHigh
	}

	var out *domain.Reservation
	err = s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		r, err := repo.CreateReservation(ctx, tx, draft)
		if err != nil {
			return err
		}
		out = r
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}

// ListPage returns one page of a user's reservations plus the total count.
// Page and pageSize are clamped to sane values.
func (s *ReservationService) ListPage(ctx context.Context, userID string, page, pageSize int) ([]domain.Reservation, int64, error) {
	tr := otel.Tracer("services/ReservationService")
	ctx, span := tr.Start(ctx, "ListPage",
		trace.WithAttributes(
			attribute.String("user.id", userID),
			attribute.Int("page", page),
			attribute.Int("page_size", pageSize),
		),
	)
	defer span.End()

	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	if pageSize > 100 {
		pageSize = 100
	}

	total, err := repo.CountReservations(ctx, s.DB, userID)
	if err != nil {
		return nil, 0, err
	}
	items, err := repo.ListReservationsPage(ctx, s.DB, userID, (page-1)*pageSize, pageSize)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

// Cancel transitions a reservation owned by userID to cancelled.
func (s *ReservationService) Cancel(ctx context.Context, userID, reservationID string) error {
	tr := otel.Tracer("services/ReservationService")
	ctx, span := tr.Start(ctx, "Cancel",
		trace.WithAttributes(
			attribute.String("user.id", userID),
			attribute.String("reservation.id", reservationID),
		),
	)
	defer span.End()

	r, err := repo.GetReservation(ctx, s.DB, reservationID, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrReservationNotFound
	}
	if err != nil {
		return err
	}
	if r.Status == domain.ReservationCancelled {
		return ErrAlreadyCancelled
	}

	n, err := repo.UpdateReservationStatus(ctx, s.DB, reservationID, userID, domain.ReservationCancelled)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrReservationNotFound
	}
	return nil
}

// minutesOf converts a validated "HH:MM" into minutes since midnight. A
// format failure is reported as an error so callers map it to ErrInvalidTime.
func minutesOf(s string) (int, error) {
	if !validate.TimeFormat(s) {
		return 0, ErrInvalidTime
	}
	h, err := strconv.Atoi(s[:2])
	if err != nil {
		return 0, err
	}
	m, err := strconv.Atoi(s[3:])
	if err != nil {
		return 0, err
	}
	return h*60 + m, nil
}
