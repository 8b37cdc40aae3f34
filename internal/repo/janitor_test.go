package repo

import (
	"context"
	"testing"
	"time"

	"github.com/aurora-assist/go-booking-backend/internal/domain"
)

func TestRunDeliveryJanitor_PurgesOnStartAndStopsOnCancel(t *testing.T) {
	db := newTestDB(t, &domain.Delivery{})
	ctx, cancel := context.WithCancel(context.Background())

	if _, err := CreateDelivery(ctx, db, "whatsapp", "STALE", "+111", 200, -time.Hour); err != nil {
		t.Fatalf("seed expired: %v", err)
	}
	if _, err := CreateDelivery(ctx, db, "whatsapp", "LIVE", "+222", 200, time.Hour); err != nil {
		t.Fatalf("seed live: %v", err)
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		RunDeliveryJanitor(ctx, db, time.Hour)
	}()

	// The first purge runs before the first tick; wait for it to land.
	deadline := time.Now().Add(2 * time.Second)
	for {
		var n int64
		if err := db.Model(&domain.Delivery{}).Count(&n).Error; err != nil {
			t.Fatalf("count: %v", err)
		}
		if n == 1 {
			break
		}
		if time.Now().After(deadline) {
			t.Fatalf("expired row still present, count = %d", n)
		}
		time.Sleep(10 * time.Millisecond)
	}

	if _, err := GetDelivery(ctx, db, "whatsapp", "LIVE", time.Now().UTC()); err != nil {
		t.Fatalf("live record should remain: %v", err)
	}

	cancel()
	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("janitor did not stop after cancel")
	}
}
