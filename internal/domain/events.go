// Package domain – webhook boundary value types.
//
// These types are produced by the external webhook receiver and the upstream
// conversation engine; the core never parses the transport envelope itself.
// They are plain values: immutable once created, never persisted directly.
package domain

import "time"

// Channels an inbound message may arrive on.
const (
	ChannelWhatsApp = "whatsapp"
)

// InboundMessage is a single message event delivered by the webhook
// receiver. SenderID is the canonical phone identity of the originator.
type InboundMessage struct {
	SenderID   string    `json:"sender_id"`
	RawText    string    `json:"raw_text"`
	ReceivedAt time.Time `json:"received_at"`
	Channel    string    `json:"channel"`
}

// ReservationDraft is an in-progress, not-yet-confirmed booking assembled by
// the upstream conversation logic. The core only validates its time and
// amount fields before the draft may become a Reservation; it never infers
// dates, times, or prices itself.
type ReservationDraft struct {
	UserID        string  `json:"user_id"`
	UserName      string  `json:"user_name"`
	Date          string  `json:"date"`
	StartTime     string  `json:"start_time"`
	EndTime       string  `json:"end_time"`
	DurationHours float64 `json:"duration_hours"`
	ServiceType   string  `json:"service_type"`
	TotalPrice    float64 `json:"total_price"`
	WasFree       bool    `json:"was_free"`
}
