package services

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"testing"
	"time"

	sqlite "github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/aurora-assist/go-booking-backend/internal/domain"
	"github.com/aurora-assist/go-booking-backend/internal/validate"
)

func newServiceDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), fmt.Sprintf("svc_test_%d.db", time.Now().UnixNano()))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	if err := db.AutoMigrate(&domain.User{}, &domain.Reservation{}); err != nil {
		t.Fatalf("automigrate: %v", err)
	}
	return db
}

func TestRegister_HappyPath(t *testing.T) {
	svc := NewUserService(newServiceDB(t), validate.DefaultRules())

	u, err := svc.Register(context.Background(), "maria lopez", "+593999999999", "maria@example.com")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if u.Name != "Maria Lopez" {
		t.Fatalf("name not title-cased: %q", u.Name)
	}
	if u.Phone != "+593999999999" {
		t.Fatalf("phone = %q", u.Phone)
	}
}

func TestRegister_ValidationFailures(t *testing.T) {
	svc := NewUserService(newServiceDB(t), validate.DefaultRules())
	ctx := context.Background()

	cases := []struct {
		name, phone, email string
		want               error
	}{
		{"", "+593999999999", "", ErrEmptyName},
		{"   ", "+593999999999", "", ErrEmptyName},
		{"Maria", "593999999999", "", ErrInvalidPhone},
		{"Maria", "+59399", "", ErrInvalidPhone},
		{"Maria", "+593999999999", "not-an-email", ErrInvalidEmail},
		{"Maria", "+593999999999", "user@nodot", ErrInvalidEmail},
	}
	for _, tc := range cases {
		if _, err := svc.Register(ctx, tc.name, tc.phone, tc.email); !errors.Is(err, tc.want) {
			t.Errorf("Register(%q,%q,%q) = %v, want %v", tc.name, tc.phone, tc.email, err, tc.want)
		}
	}
}

func TestRegister_EmailOptional(t *testing.T) {
	svc := NewUserService(newServiceDB(t), validate.DefaultRules())

	if _, err := svc.Register(context.Background(), "Maria", "+593999999999", ""); err != nil {
		t.Fatalf("empty email should be accepted: %v", err)
	}
}

func TestRegister_DuplicatePhone(t *testing.T) {
	svc := NewUserService(newServiceDB(t), validate.DefaultRules())
	ctx := context.Background()

	if _, err := svc.Register(ctx, "Maria", "+593999999999", ""); err != nil {
		t.Fatalf("first registration: %v", err)
	}
	if _, err := svc.Register(ctx, "Other", "+593999999999", ""); !errors.Is(err, ErrDuplicateUser) {
		t.Fatalf("expected ErrDuplicateUser, got %v", err)
	}
}

func TestGet_NotFound(t *testing.T) {
	svc := NewUserService(newServiceDB(t), validate.DefaultRules())

	if _, err := svc.Get(context.Background(), "missing"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound, got %v", err)
	}
	if _, err := svc.GetByPhone(context.Background(), "+111111111111"); !errors.Is(err, ErrUserNotFound) {
		t.Fatalf("expected ErrUserNotFound by phone, got %v", err)
	}
}

func TestGetByPhone_RoundTrip(t *testing.T) {
	svc := NewUserService(newServiceDB(t), validate.DefaultRules())
	ctx := context.Background()

	created, err := svc.Register(ctx, "Maria", "+593999999999", "")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	got, err := svc.GetByPhone(ctx, "+593999999999")
	if err != nil {
		t.Fatalf("GetByPhone: %v", err)
	}
	if got.ID != created.ID {
		t.Fatal("lookup returned a different user")
	}
}

func TestList_Pagination(t *testing.T) {
	svc := NewUserService(newServiceDB(t), validate.DefaultRules())
	ctx := context.Background()

	users, total, err := svc.List(ctx, 1, 20)
	if err != nil || total != 0 || len(users) != 0 {
		t.Fatalf("empty list = (%d items, total %d, %v)", len(users), total, err)
	}

	for i := 0; i < 3; i++ {
		if _, err := svc.Register(ctx, fmt.Sprintf("User %d", i), fmt.Sprintf("+59399999990%d", i), ""); err != nil {
			t.Fatalf("seed %d: %v", i, err)
		}
	}

	users, total, err = svc.List(ctx, 1, 2)
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if total != 3 || len(users) != 2 {
		t.Fatalf("page 1 = (%d items, total %d)", len(users), total)
	}

	users, total, err = svc.List(ctx, 2, 2)
	if err != nil {
		t.Fatalf("List page 2: %v", err)
	}
	if total != 3 || len(users) != 1 {
		t.Fatalf("page 2 = (%d items, total %d)", len(users), total)
	}
}

func TestRegister_ClipsLongNames(t *testing.T) {
	svc := NewUserService(newServiceDB(t), validate.DefaultRules())
	svc.NameMaxLen = 5

	u, err := svc.Register(context.Background(), "abcdefghij", "+593999999999", "")
	if err != nil {
		t.Fatalf("Register: %v", err)
	}
	if got := len([]rune(u.Name)); got != 5 {
		t.Fatalf("name rune length = %d, want 5 (%q)", got, u.Name)
	}
}
