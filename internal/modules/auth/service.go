package auth

import (
	"context"
	"errors"
	"strings"
	"time"

	"sportrent/internal/domain"
	"sportrent/internal/repository"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type tokenIssuer interface {
	GenerateToken(userID string) (string, error)
}

type Service struct {
	users UserStore
	jwt   tokenIssuer
}

func NewService(users UserStore, jwt tokenIssuer) *Service {
	return &Service{users: users, jwt: jwt}
}

func (s *Service) Register(ctx context.Context, req RegisterRequest) (*domain.User, string, error) {
	email := strings.TrimSpace(strings.ToLower(req.Email))

	exists, err := s.users.ExistsByEmail(ctx, email)
	if err != nil {
		return nil, "", err
	}
	if exists {
		return nil, "", ErrEmailAlreadyExists
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}

	u := &domain.User{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: string(hash),
		Name:         strings.TrimSpace(req.Name),
		CreatedAt:    time.Now().UTC(),
	}

	if err := s.users.Create(ctx, u); err != nil {
		return nil, "", err
	}

	token, err := s.jwt.GenerateToken(u.ID)
	if err != nil {
		return nil, "", err
	}

	return u, token, nil
}

func (s *Service) Login(ctx context.Context, req LoginRequest) (*domain.User, string, error) {
	u, err := s.users.GetByEmail(ctx, req.Email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}

	if bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(req.Password)) != nil {
		return nil, "", ErrInvalidCredentials
	}

	token, err := s.jwt.GenerateToken(u.ID)
	if err != nil {
		return nil, "", err
	}

	return u, token, nil
}

func (s *Service) GetProfile(ctx context.Context, userID string) (*domain.User, error) {
	u, err := s.users.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}
