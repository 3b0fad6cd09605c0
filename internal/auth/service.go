package auth

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"github.com/golang-jwt/jwt/v5"

	"github.com/skolarin/skolarin-api/internal/shared"
)

// Service wraps authentication business rules: credential validation on
// login and uniqueness-checked registration on signup.
type Service struct {
	repo   Repository
	hasher *Hasher
	issuer *Issuer
}

// NewService constructs a new Service.
func NewService(repo Repository, hasher *Hasher, issuer *Issuer) *Service {
	return &Service{repo: repo, hasher: hasher, issuer: issuer}
}

// SignupParams carries the fields accepted at registration.
type SignupParams struct {
	Email    string
	Password string
	Username *string
}

// Signup registers a new account. The lookups are an optimization only;
// the database uniqueness constraints arbitrate concurrent signups and a
// violation on insert surfaces as the same conflict errors.
func (s *Service) Signup(ctx context.Context, params SignupParams) (*User, error) {
	if params.Email == "" || params.Password == "" {
		return nil, shared.ErrValidation
	}

	if _, err := s.repo.FindByEmail(ctx, params.Email); err == nil {
		return nil, ErrEmailTaken
	} else if !errors.Is(err, shared.ErrNotFound) {
		return nil, fmt.Errorf("signup email lookup: %w", err)
	}

	if params.Username != nil && *params.Username != "" {
		if _, err := s.repo.FindByUsername(ctx, *params.Username); err == nil {
			return nil, ErrUsernameTaken
		} else if !errors.Is(err, shared.ErrNotFound) {
			return nil, fmt.Errorf("signup username lookup: %w", err)
		}
	}

	hash, err := s.hasher.Hash(params.Password)
	if err != nil {
		if errors.Is(err, ErrEmptyPassword) {
			return nil, shared.ErrValidation
		}
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user, err := s.repo.Create(ctx, params.Email, params.Username, hash)
	if err != nil {
		if errors.Is(err, ErrEmailTaken) || errors.Is(err, ErrUsernameTaken) {
			return nil, err
		}
		return nil, fmt.Errorf("create user: %w", err)
	}
	return user, nil
}

// Login validates email/password credentials and mints an access token.
// A missing account and a wrong password return the identical error so
// the response cannot be used to enumerate registered emails.
func (s *Service) Login(ctx context.Context, email, password string) (string, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return "", shared.ErrInvalidCredentials
	}
	if !s.hasher.Verify(password, user.PasswordHash) {
		return "", shared.ErrInvalidCredentials
	}

	token, err := s.issuer.Issue(jwt.MapClaims{"sub": strconv.FormatInt(user.ID, 10)})
	if err != nil {
		return "", fmt.Errorf("issue token: %w", err)
	}
	return token, nil
}
