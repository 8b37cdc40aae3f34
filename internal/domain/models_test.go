package domain

import "testing"

func TestTableNames(t *testing.T) {
	if got := (User{}).TableName(); got != "users" {
		t.Fatalf("User table = %q", got)
	}
	if got := (Reservation{}).TableName(); got != "reservations" {
		t.Fatalf("Reservation table = %q", got)
	}
	if got := (Delivery{}).TableName(); got != "deliveries" {
		t.Fatalf("Delivery table = %q", got)
	}
}

func TestReservationStatusConstants(t *testing.T) {
	if ReservationConfirmed == ReservationCancelled {
		t.Fatal("status constants must differ")
	}
	if ReservationConfirmed != "confirmed" || ReservationCancelled != "cancelled" {
		t.Fatal("status constants must match the DB check constraint")
	}
}
