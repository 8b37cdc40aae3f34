// Package domain defines the core persistence models for the application.
// These types are used by GORM for database schema mapping and are shared
// across the repository and service layers.
package domain

import "time"

// Delivery records a processed webhook delivery, keyed by (channel,
// message_id). WhatsApp gateways re-deliver events on timeouts and restarts;
// this record lets the webhook endpoint recognize a replay and serve it
// without re-running side effects or consuming a rate-limit slot.
type Delivery struct {
	ID        string    `gorm:"type:TEXT NOT NULL;primaryKey"`
	Channel   string    `gorm:"type:TEXT NOT NULL;uniqueIndex:ux_channel_message,priority:1"`
	MessageID string    `gorm:"type:TEXT NOT NULL;uniqueIndex:ux_channel_message,priority:2"`
	SenderID  string    `gorm:"type:TEXT NOT NULL"`
	Status    int       `gorm:"type:INTEGER NOT NULL"`
	CreatedAt time.Time `gorm:"type:DATETIME NOT NULL;autoCreateTime"`
	ExpiresAt time.Time `gorm:"type:DATETIME NOT NULL;index"`
}

// TableName implements the GORM tabler interface.
func (Delivery) TableName() string { return "deliveries" }
