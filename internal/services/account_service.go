// Package services – AccountService
//
// This file implements AccountService, which owns user registration and
// profile lookup. Usernames are unique case-insensitively: a folded name key
// is stored alongside the display form and backed by a unique index, so
// "Alice" and "ALICE" cannot coexist while the original casing is preserved
// for display. Emails are folded the same way. Passwords are hashed with
// bcrypt before they ever reach the database.
package services

import (
	"context"
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/plumage/go-tweet-backend/internal/domain"
	"github.com/plumage/go-tweet-backend/internal/repo"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"golang.org/x/text/cases"
)

const (
	maxUsernameRunes = 20
	minPasswordChars = 6
)

var (
	usernameRe = regexp.MustCompile(`^[A-Za-z0-9_]+$`)
	emailRe    = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)
)

// AccountService coordinates account registration and profile reads.
type AccountService struct {
	DB *gorm.DB

	// BcryptCost overrides the hashing cost; zero uses bcrypt.DefaultCost.
	BcryptCost int
}

func (s *AccountService) cost() int {
	if s.BcryptCost > 0 {
		return s.BcryptCost
	}
	return bcrypt.DefaultCost
}

// fold produces the canonical case-insensitive key for usernames and emails.
func fold(s string) string { return cases.Fold().String(s) }

// Register validates the signup payload, enforces case-insensitive
// uniqueness of username and email, and creates the account with a bcrypt
// password hash. All field failures are collected into one ValidationError.
func (s *AccountService) Register(ctx context.Context, username, email, password string) (*domain.User, error) {
	tr := otel.Tracer("services/AccountService")
	ctx, span := tr.Start(ctx, "Register",
		trace.WithAttributes(attribute.String("user.name", username)),
	)
	defer span.End()

	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)

	ve := &ValidationError{}
	switch {
	case username == "":
		ve.Add("username", "This field is required.")
	case utf8.RuneCountInString(username) > maxUsernameRunes:
		ve.Add("username", "Ensure this field has no more than 20 characters.")
	case !usernameRe.MatchString(username):
		ve.Add("username", "Only letters, digits and underscore are allowed.")
	}
	switch {
	case email == "":
		ve.Add("email", "This field is required.")
	case !emailRe.MatchString(email):
		ve.Add("email", "Enter a valid email address.")
	}
	if len(password) < minPasswordChars {
		ve.Add("password", "Ensure this field has at least 6 characters.")
	}

	nameKey := fold(username)
	emailKey := fold(email)

	if _, ok := ve.Fields["username"]; !ok {
		if _, err := repo.GetUserByNameKey(ctx, s.DB, nameKey); err == nil {
			ve.Add("username", "This username has been occupied.")
		} else if err != repo.ErrNotFound {
			return nil, err
		}
	}
	if _, ok := ve.Fields["email"]; !ok {
		if _, err := repo.GetUserByEmail(ctx, s.DB, emailKey); err == nil {
			ve.Add("email", "This email address has been occupied.")
		} else if err != repo.ErrNotFound {
			return nil, err
		}
	}
	if !ve.Empty() {
		return nil, ve
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), s.cost())
	if err != nil {
		return nil, err
	}

	u, err := repo.CreateUser(ctx, s.DB, username, nameKey, emailKey, string(hash))
	if err != nil {
		// Lost a race against a concurrent signup with the same key.
		if err == repo.ErrDuplicate {
			return nil, NewValidationError("username", "This username has been occupied.")
		}
		return nil, err
	}
	return u, nil
}

// GetProfile returns the public profile of a user.
func (s *AccountService) GetProfile(ctx context.Context, userID string) (*domain.User, error) {
	tr := otel.Tracer("services/AccountService")
	ctx, span := tr.Start(ctx, "GetProfile",
		trace.WithAttributes(attribute.String("user.id", userID)),
	)
	defer span.End()

	u, err := repo.GetUser(ctx, s.DB, userID)
	if err != nil {
		return nil, ErrUserNotFound
	}
	return u, nil
}

// CheckPassword verifies a plaintext password against the stored hash.
func (s *AccountService) CheckPassword(u *domain.User, password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}
