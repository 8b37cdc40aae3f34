// Package services – UserService
//
// This file implements the UserService, which manages sender identities. It
// validates phone and email formats before anything touches the database,
// normalizes display names, and enforces one account per phone identity.
//
// Logging note: user phone numbers and emails are sensitive; every log call
// in this file routes them through the redact codec. The raw values exist
// only in the database and in the response to the caller.
package services

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/aurora-assist/go-booking-backend/internal/domain"
	"github.com/aurora-assist/go-booking-backend/internal/redact"
	"github.com/aurora-assist/go-booking-backend/internal/repo"
	"github.com/aurora-assist/go-booking-backend/internal/validate"
)

// UserService provides registration and lookup of sender identities.
type UserService struct {
	// DB is the GORM handle used for persistence.
	DB *gorm.DB

	// Rules carries the validation bounds (unused fields are ignored here;
	// the same rule set flows through the whole admission path).
	Rules validate.Rules

	// NameMaxLen caps stored display names by rune length.
	NameMaxLen int
	// NameLocale drives title casing of display names.
	NameLocale language.Tag
}

// NewUserService constructs a UserService with sane defaults for name handling.
func NewUserService(db *gorm.DB, rules validate.Rules) *UserService {
	return &UserService{
		DB:         db,
		Rules:      rules,
		NameMaxLen: 120,
		NameLocale: language.Und,
	}
}

// Register validates and creates a new user. The phone must be canonical;
// the email is optional but must be well-formed when present. Display names
// are trimmed, title-cased, and clipped.
func (s *UserService) Register(ctx context.Context, name, phone, email string) (*domain.User, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, ErrEmptyName
	}
	if !validate.Phone(phone) {
		return nil, ErrInvalidPhone
	}
	email = strings.TrimSpace(email)
	if email != "" && !validate.Email(email) {
		return nil, ErrInvalidEmail
	}

	if _, err := repo.GetUserByPhone(ctx, s.DB, phone); err == nil {
		return nil, ErrDuplicateUser
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	name = s.clip(cases.Title(s.NameLocale).String(name))

	u, err := repo.CreateUser(ctx, s.DB, name, phone, email)
	if err != nil {
		// A concurrent registration can still hit the unique index.
		low := strings.ToLower(err.Error())
		if strings.Contains(low, "unique constraint") || strings.Contains(low, "constraint failed") {
			return nil, ErrDuplicateUser
		}
		return nil, err
	}

	log.Info().
		Str("user_id", u.ID).
		Str("phone", redact.Phone(u.Phone)).
		Str("email", redact.Email(u.Email)).
		Msg("user registered")
	return u, nil
}

// Get fetches a user by ID.
func (s *UserService) Get(ctx context.Context, id string) (*domain.User, error) {
	u, err := repo.GetUser(ctx, s.DB, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	return u, err
}

// GetByPhone fetches a user by canonical phone identity.
func (s *UserService) GetByPhone(ctx context.Context, phone string) (*domain.User, error) {
	u, err := repo.GetUserByPhone(ctx, s.DB, phone)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	return u, err
}

// List returns one page of users (oldest first) plus the total row count so
// callers can compute pagination metadata. page and pageSize must already be
// clamped to sane bounds by the transport layer.
func (s *UserService) List(ctx context.Context, page, pageSize int) ([]domain.User, int64, error) {
	total, err := repo.CountUsers(ctx, s.DB)
	if err != nil {
		return nil, 0, err
	}
	if total == 0 {
		return []domain.User{}, 0, nil
	}
	users, err := repo.ListUsersPage(ctx, s.DB, (page-1)*pageSize, pageSize)
	if err != nil {
		return nil, 0, err
	}
	return users, total, nil
}

// clip truncates name to NameMaxLen runes.
func (s *UserService) clip(name string) string {
	if s.NameMaxLen <= 0 || utf8.RuneCountInString(name) <= s.NameMaxLen {
		return name
	}
	runes := []rune(name)
	return string(runes[:s.NameMaxLen])
}
