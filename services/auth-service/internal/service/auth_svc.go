package service

import (
	"context"
	"errors"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/RastaBela/ticketing-system/pkg/auth"
	"github.com/RastaBela/ticketing-system/services/auth-service/internal/domain"
)

var ErrInvalidCredentials = errors.New("invalid credentials")

type UserReader interface {
	ByEmail(ctx context.Context, email string) (*domain.AuthUser, error)
}

type AuthSvc struct {
	repo      UserReader
	expireMin int
}

func NewAuthSvc(r UserReader, expireMin int) *AuthSvc {
	if expireMin <= 0 {
		expireMin = 60
	}
	return &AuthSvc{repo: r, expireMin: expireMin}
}

// Login verifies credentials against the local replica; the users service is
// never consulted, convergence happens through user.* events alone.
func (s *AuthSvc) Login(ctx context.Context, email, password string) (*domain.AuthUser, string, error) {
	u, err := s.repo.ByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, "", ErrInvalidCredentials
		}
		return nil, "", err
	}
	if bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) != nil {
		return nil, "", ErrInvalidCredentials
	}
	token, err := auth.CreateAccessToken(u.ID, u.Role, u.Email, time.Duration(s.expireMin)*time.Minute)
	if err != nil {
		return nil, "", err
	}
	return u, token, nil
}
