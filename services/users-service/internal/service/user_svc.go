package service

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"github.com/RastaBela/ticketing-system/pkg/auth"
	"github.com/RastaBela/ticketing-system/pkg/events"
	"github.com/RastaBela/ticketing-system/services/users-service/internal/domain"
)

// UserStore is the persistence boundary; the gorm repository implements it.
type UserStore interface {
	Create(ctx context.Context, u *domain.User) error
	ByID(ctx context.Context, id string) (*domain.User, error)
	ByEmail(ctx context.Context, email string) (*domain.User, error)
	UpdateFields(ctx context.Context, id string, fields map[string]any) (*domain.User, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context) ([]domain.User, error)
}

type EventPublisher interface {
	PublishJSON(ctx context.Context, subject string, v any) error
}

type UserSvc struct {
	repo UserStore
	pub  EventPublisher
}

func NewUserSvc(r UserStore, pub EventPublisher) *UserSvc {
	return &UserSvc{repo: r, pub: pub}
}

// userEvent selects exactly the fields other services depend on, never more.
func userEvent(u *domain.User) events.User {
	return events.User{ID: u.ID, Email: u.Email, Password: u.Password, Role: u.Role}
}

func (s *UserSvc) Register(ctx context.Context, firstname, lastname, email, password, role string) (*domain.User, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}
	if role == "" {
		role = auth.RoleUser
	}
	u := &domain.User{
		Email:     strings.ToLower(email),
		Password:  string(hash),
		Firstname: firstname,
		Lastname:  lastname,
		Role:      strings.ToUpper(role),
	}
	if err := s.repo.Create(ctx, u); err != nil {
		return nil, err
	}
	// The row is committed; a publish failure must reach the caller so it can
	// decide to compensate, there is no reconciliation job republishing it.
	if err := s.pub.PublishJSON(ctx, events.SubjectUserCreated, userEvent(u)); err != nil {
		return u, fmt.Errorf("user %s created but event not published: %w", u.ID, err)
	}
	return u, nil
}

func (s *UserSvc) Update(ctx context.Context, id, firstname, lastname, email, password, role string) (*domain.User, error) {
	fields := map[string]any{}
	if firstname != "" {
		fields["firstname"] = firstname
	}
	if lastname != "" {
		fields["lastname"] = lastname
	}
	if email != "" {
		fields["email"] = strings.ToLower(email)
	}
	if role != "" {
		fields["role"] = strings.ToUpper(role)
	}
	if password != "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
		if err != nil {
			return nil, err
		}
		fields["password"] = string(hash)
	}
	u, err := s.repo.UpdateFields(ctx, id, fields)
	if err != nil {
		return nil, err
	}
	if err := s.pub.PublishJSON(ctx, events.SubjectUserUpdated, userEvent(u)); err != nil {
		return u, fmt.Errorf("user %s updated but event not published: %w", u.ID, err)
	}
	return u, nil
}

func (s *UserSvc) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}
	if err := s.pub.PublishJSON(ctx, events.SubjectUserDeleted, events.Deleted{ID: id}); err != nil {
		return fmt.Errorf("user %s deleted but event not published: %w", id, err)
	}
	return nil
}

func (s *UserSvc) Get(ctx context.Context, id string) (*domain.User, error) {
	return s.repo.ByID(ctx, id)
}

func (s *UserSvc) List(ctx context.Context) ([]domain.User, error) {
	return s.repo.List(ctx)
}
