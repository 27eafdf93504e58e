package users

import (
	"context"
	"errors"
	"strings"

	"github.com/postboard/posts-service/internal/models"
)

var ErrEmailRequired = errors.New("users: email is required")

// Service encapsulates user-related business logic
type Service struct {
	repo UserRepository
}

func NewService(r UserRepository) *Service {
	return &Service{repo: r}
}

// Ensure returns the user with the given email, creating it when missing.
// The name defaults to the local part of the email.
func (s *Service) Ensure(ctx context.Context, email, name string) (*models.User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return nil, ErrEmailRequired
	}
	if name == "" {
		name, _, _ = strings.Cut(email, "@")
	}
	return s.repo.UpsertByEmail(ctx, &models.User{Email: email, Name: name})
}

func (s *Service) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.repo.GetByEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
}
