// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository functions for the
// Reservation model.
package repo

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aurora-assist/go-booking-backend/internal/domain"
)

// CreateReservation inserts a confirmed reservation row built from an
// admitted draft. Validation happens upstream (session gate + service); the
// repository persists what it is given.
func CreateReservation(ctx context.Context, db *gorm.DB, d domain.ReservationDraft) (*domain.Reservation, error) {
	r := &domain.Reservation{
		ID:            uuid.NewString(),
		UserID:        d.UserID,
		UserName:      d.UserName,
		Date:          d.Date,
		StartTime:     d.StartTime,
		EndTime:       d.EndTime,
		DurationHours: d.DurationHours,
		ServiceType:   d.ServiceType,
		TotalPrice:    d.TotalPrice,
		WasFree:       d.WasFree,
		Status:        domain.ReservationConfirmed,
		CreatedAt:     time.Now().UTC(),
	}
	return r, db.WithContext(ctx).Create(r).Error
}

// GetReservation fetches a reservation by ID ensuring it belongs to the user.
func GetReservation(ctx context.Context, db *gorm.DB, id, userID string) (*domain.Reservation, error) {
	var r domain.Reservation
	err := db.WithContext(ctx).
		Where("id = ? AND user_id = ?", id, userID).
		First(&r).Error
	if err != nil {
		return nil, err
	}
	return &r, nil
}

// CountReservations returns the total reservations for a user (pagination).
func CountReservations(ctx context.Context, db *gorm.DB, userID string) (int64, error) {
	var total int64
	err := db.WithContext(ctx).
		Model(&domain.Reservation{}).
		Where("user_id = ?", userID).
		Count(&total).Error
	return total, err
}

// ListReservationsPage returns a page of a user's reservations ordered
// deterministically (CreatedAt ASC, ID ASC).
func ListReservationsPage(ctx context.Context, db *gorm.DB, userID string, offset, limit int) ([]domain.Reservation, error) {
	var out []domain.Reservation
	err := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC, id ASC").
		Offset(offset).
		Limit(limit).
		Find(&out).Error
	return out, err
}

// UpdateReservationStatus transitions a reservation's status. Rows affected
// is returned so callers can distinguish "not found / not owned" from a
// successful update without an extra read.
func UpdateReservationStatus(ctx context.Context, db *gorm.DB, id, userID, status string) (int64, error) {
	res := db.WithContext(ctx).
		Model(&domain.Reservation{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("status", status)
	return res.RowsAffected, res.Error
}
