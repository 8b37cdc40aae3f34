// Package domain defines the persistence models for users and reservations
// plus the value types that cross the webhook boundary. The persisted types
// are mapped with GORM and form the core data layer of the booking backend.
package domain

import (
	"time"

	"gorm.io/gorm"
)

// Reservation lifecycle states.
const (
	ReservationConfirmed = "confirmed"
	ReservationCancelled = "cancelled"
)

// User represents a registered sender identity. Users are keyed by their
// canonical phone number (the senderId on the WhatsApp channel), which must
// pass the phone validator before a row is ever created.
//
// Fields:
//   - ID: stable UUID primary key (char(36)).
//   - Name: display name, title-cased at registration.
//   - Phone: canonical +<country><subscriber> identity; unique.
//   - Email: contact address; validated when present.
//   - CreatedAt / UpdatedAt: timestamps managed by GORM.
//   - DeletedAt: soft deletion marker (retains row for audit/history).
type User struct {
	ID        string         `json:"id"     gorm:"type:char(36);primaryKey"`
	Name      string         `json:"name"   gorm:"type:varchar(120);not null"`
	Phone     string         `json:"phone"  gorm:"type:varchar(16);not null;uniqueIndex:ux_user_phone"`
	Email     string         `json:"email"  gorm:"type:varchar(255)"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `json:"-"      gorm:"index"`
}

// TableName returns the database table name for User.
func (User) TableName() string { return "users" }

// Reservation is the confirmed form of a ReservationDraft. Rows are only
// created after the session gate has admitted the draft, so the time and
// amount fields are always within the configured bounds at rest.
//
// Fields:
//   - ID: UUID primary key (char(36)).
//   - UserID: owner of the booking; indexed for per-user listings.
//   - UserName: denormalized display name at booking time.
//   - Date: calendar day in YYYY-MM-DD form.
//   - StartTime / EndTime: 24-hour HH:MM within business hours.
//   - DurationHours: booked span; derived from the times when omitted.
//   - ServiceType: catalog entry name resolved at confirmation.
//   - TotalPrice: charged amount; zero only when WasFree.
//   - WasFree: marks complimentary bookings.
//   - Status: confirmed | cancelled (enforced by DB constraint).
type Reservation struct {
	ID            string         `json:"id"             gorm:"type:char(36);primaryKey"`
	UserID        string         `json:"user_id"        gorm:"type:char(36);not null;index:idx_user_reservations"`
	UserName      string         `json:"user_name"      gorm:"type:varchar(120);not null"`
	Date          string         `json:"date"           gorm:"type:varchar(10);not null"`
	StartTime     string         `json:"start_time"     gorm:"type:varchar(5);not null"`
	EndTime       string         `json:"end_time"       gorm:"type:varchar(5);not null"`
	DurationHours float64        `json:"duration_hours" gorm:"not null"`
	ServiceType   string         `json:"service_type"   gorm:"type:varchar(120);not null"`
	TotalPrice    float64        `json:"total_price"    gorm:"not null"`
	WasFree       bool           `json:"was_free"       gorm:"not null;default:false"`
	Status        string         `json:"status"         gorm:"type:varchar(16);not null;default:'confirmed';check:status IN ('confirmed','cancelled')"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `json:"-"              gorm:"index"`
}

// TableName returns the database table name for Reservation.
func (Reservation) TableName() string { return "reservations" }
