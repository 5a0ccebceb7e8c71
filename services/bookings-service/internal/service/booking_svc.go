package service

import (
	"context"
	"fmt"

	"github.com/RastaBela/ticketing-system/pkg/events"
	"github.com/RastaBela/ticketing-system/services/bookings-service/internal/domain"
)

type BookingStore interface {
	Create(ctx context.Context, b *domain.Booking) error
	ByID(ctx context.Context, id string) (*domain.Booking, error)
	ConfirmIfPending(ctx context.Context, id string) (*domain.Booking, bool, error)
	ListByUser(ctx context.Context, userID string) ([]domain.Booking, error)
	List(ctx context.Context) ([]domain.Booking, error)
	Delete(ctx context.Context, id string) error
}

type EventReader interface {
	ByID(ctx context.Context, id string) (*domain.Event, error)
}

type EventPublisher interface {
	PublishJSON(ctx context.Context, subject string, v any) error
}

type BookingSvc struct {
	repo   BookingStore
	replic EventReader
	pub    EventPublisher
}

func NewBookingSvc(r BookingStore, replica EventReader, pub EventPublisher) *BookingSvc {
	return &BookingSvc{repo: r, replic: replica, pub: pub}
}

func bookingEvent(b *domain.Booking) events.BookingCreated {
	return events.BookingCreated{
		ID:         b.ID,
		EventID:    b.EventID,
		Quantity:   b.Quantity,
		TotalPrice: b.TotalPrice,
		Status:     b.Status,
		UserID:     b.UserID,
		Email:      b.UserEmail,
		Title:      b.EventTitle,
	}
}

type CreateBookingInput struct {
	UserID   string
	Email    string
	EventID  string
	Quantity int
}

// Create rejects the command before anything is committed when the mirrored
// event lacks capacity, so no compensating transaction is ever needed.
// availableTickets is deliberately not decremented here; the platform favors
// availability over strict reservation locking.
func (s *BookingSvc) Create(ctx context.Context, in CreateBookingInput) (*domain.Booking, error) {
	if in.Quantity <= 0 {
		return nil, fmt.Errorf("quantity must be positive")
	}
	ev, err := s.replic.ByID(ctx, in.EventID)
	if err != nil {
		return nil, err
	}
	if ev.AvailableTickets < in.Quantity {
		return nil, domain.ErrInsufficientTickets
	}

	b := &domain.Booking{
		EventID:    in.EventID,
		UserID:     in.UserID,
		UserEmail:  in.Email,
		EventTitle: ev.Title,
		Quantity:   in.Quantity,
		TotalPrice: ev.Price * float64(in.Quantity),
		Status:     domain.StatusPending,
	}
	if err := s.repo.Create(ctx, b); err != nil {
		return nil, err
	}

	// The booking is committed; publish failures must surface as a failed
	// command, there is no reconciliation job republishing missed events.
	if err := s.pub.PublishJSON(ctx, events.SubjectBookingCreated, bookingEvent(b)); err != nil {
		return b, fmt.Errorf("booking %s created but event not published: %w", b.ID, err)
	}
	if err := s.pub.PublishJSON(ctx, events.SubjectPaymentRequested, events.PaymentRequested{
		BookingID: b.ID,
		UserID:    b.UserID,
		Amount:    b.TotalPrice,
	}); err != nil {
		return b, fmt.Errorf("booking %s created but payment request not published: %w", b.ID, err)
	}
	return b, nil
}

// Confirm is the saga step driven by payment.completed. The transition
// happens at most once; only the call that makes it republishes the
// confirmation event, so duplicate deliveries do not fan out duplicates.
func (s *BookingSvc) Confirm(ctx context.Context, bookingID string) (*domain.Booking, bool, error) {
	b, changed, err := s.repo.ConfirmIfPending(ctx, bookingID)
	if err != nil {
		return nil, false, err
	}
	if !changed {
		return b, false, nil
	}
	if err := s.pub.PublishJSON(ctx, events.SubjectBookingCreated, bookingEvent(b)); err != nil {
		return b, true, fmt.Errorf("booking %s confirmed but event not published: %w", b.ID, err)
	}
	return b, true, nil
}

func (s *BookingSvc) Get(ctx context.Context, id string) (*domain.Booking, error) {
	return s.repo.ByID(ctx, id)
}

func (s *BookingSvc) ListByUser(ctx context.Context, userID string) ([]domain.Booking, error) {
	return s.repo.ListByUser(ctx, userID)
}

func (s *BookingSvc) List(ctx context.Context) ([]domain.Booking, error) {
	return s.repo.List(ctx)
}

func (s *BookingSvc) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}
