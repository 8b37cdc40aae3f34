// Package repo implements the data persistence layer for domain entities,
// backed by GORM. This file provides repository helpers for the Delivery
// model used to deduplicate re-delivered webhook events.
package repo

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/aurora-assist/go-booking-backend/internal/domain"
)

// ErrNotFound indicates the requested row does not exist (or has expired).
var ErrNotFound = errors.New("not found")

// ErrDuplicate indicates that a delivery record already exists for the
// given (channel, message_id) tuple.
var ErrDuplicate = errors.New("duplicate")

// GetDelivery returns a non-expired delivery record or ErrNotFound.
func GetDelivery(ctx context.Context, db *gorm.DB, channel, messageID string, now time.Time) (*domain.Delivery, error) {
	if strings.TrimSpace(messageID) == "" {
		return nil, ErrNotFound
	}
	var rec domain.Delivery
	err := db.WithContext(ctx).
		Where("channel = ? AND message_id = ? AND expires_at > ?", channel, messageID, now).
		First(&rec).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	return &rec, err
}

// CreateDelivery inserts a record and returns ErrDuplicate on unique violation.
func CreateDelivery(ctx context.Context, db *gorm.DB, channel, messageID, senderID string, status int, ttl time.Duration) (*domain.Delivery, error) {
	now := time.Now().UTC()
	rec := &domain.Delivery{
		ID:        uuid.NewString(),
		Channel:   channel,
		MessageID: messageID,
		SenderID:  senderID,
		Status:    status,
		CreatedAt: now,
		ExpiresAt: now.Add(ttl),
	}
	if err := db.WithContext(ctx).Create(rec).Error; err != nil {
		// glebarez/sqlite often returns plain-text errors for UNIQUE violations.
		low := strings.ToLower(err.Error())
		if errors.Is(err, gorm.ErrDuplicatedKey) ||
			strings.Contains(low, "unique constraint failed") ||
			strings.Contains(low, "constraint failed: unique") {
			return nil, ErrDuplicate
		}
		return nil, err
	}
	return rec, nil
}

// PurgeExpiredDeliveries deletes rows whose TTL elapsed before now. Memory
// hygiene only; correctness never depends on it running.
func PurgeExpiredDeliveries(ctx context.Context, db *gorm.DB, now time.Time) (int64, error) {
	res := db.WithContext(ctx).
		Where("expires_at <= ?", now).
		Delete(&domain.Delivery{})
	return res.RowsAffected, res.Error
}
