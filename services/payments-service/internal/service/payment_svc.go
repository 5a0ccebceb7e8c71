package service

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/omise/omise-go"
	"github.com/omise/omise-go/operations"

	"github.com/RastaBela/ticketing-system/pkg/events"
)

type EventPublisher interface {
	PublishJSON(ctx context.Context, subject string, v any) error
}

// PaymentSvc owns both payment paths: the simulated processor driven by
// payment.requested, and real card charges through Omise. Either path ends in
// a payment.completed or payment.failed event; the bookings service reacts to
// those, never to HTTP responses from here.
type PaymentSvc struct {
	omc *omise.Client
	pub EventPublisher
}

func NewPaymentSvc(omc *omise.Client, pub EventPublisher) *PaymentSvc {
	return &PaymentSvc{omc: omc, pub: pub}
}

func (s *PaymentSvc) publishCompleted(ctx context.Context, bookingID, userID string) error {
	return s.pub.PublishJSON(ctx, events.SubjectPaymentCompleted, events.PaymentCompleted{
		BookingID: bookingID,
		UserID:    userID,
		Status:    "COMPLETED",
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *PaymentSvc) publishFailed(ctx context.Context, bookingID, code, message string) error {
	return s.pub.PublishJSON(ctx, events.SubjectPaymentFailed, events.PaymentFailed{
		BookingID:      bookingID,
		FailureCode:    code,
		FailureMessage: message,
	})
}

// Process is the simulated processor: every requested payment succeeds. It
// exists so the saga can be exercised end to end without Omise credentials.
func (s *PaymentSvc) Process(ctx context.Context, req events.PaymentRequested) error {
	if req.BookingID == "" {
		return errors.New("missing bookingId")
	}
	log.Printf("[payments] processing payment for booking %s (amount %.2f)", req.BookingID, req.Amount)
	return s.publishCompleted(ctx, req.BookingID, req.UserID)
}

type CardChargeInput struct {
	BookingID string
	UserID    string
	Amount    int64
	Currency  string
	CardToken string
}

// ChargeCard creates a real Omise charge. Amount is in the currency's
// smallest unit. Terminal charge states publish the matching saga event;
// pending states wait for the webhook.
func (s *PaymentSvc) ChargeCard(ctx context.Context, in CardChargeInput) (*omise.Charge, error) {
	if in.Amount <= 0 || in.CardToken == "" || in.Currency == "" {
		return nil, errors.New("invalid params")
	}
	ch := &omise.Charge{}
	req := &operations.CreateCharge{
		Amount:   in.Amount,
		Currency: in.Currency,
		Card:     in.CardToken,
		Metadata: map[string]any{"booking_id": in.BookingID, "user_id": in.UserID},
	}
	if err := s.omc.Do(ch, req); err != nil {
		if perr := s.publishFailed(ctx, in.BookingID, "create_charge_error", err.Error()); perr != nil {
			log.Printf("[payments] publish payment.failed error: %v", perr)
		}
		return nil, err
	}

	switch string(ch.Status) {
	case "successful":
		if err := s.publishCompleted(ctx, in.BookingID, in.UserID); err != nil {
			return ch, fmt.Errorf("charge %s succeeded but event not published: %w", ch.ID, err)
		}
	case "failed":
		var fc, fm string
		if ch.FailureCode != nil {
			fc = *ch.FailureCode
		}
		if ch.FailureMessage != nil {
			fm = *ch.FailureMessage
		}
		if err := s.publishFailed(ctx, in.BookingID, fc, fm); err != nil {
			return ch, fmt.Errorf("charge %s failed but event not published: %w", ch.ID, err)
		}
	}
	return ch, nil
}

func (s *PaymentSvc) GetCharge(id string) (*omise.Charge, error) {
	ch := &omise.Charge{}
	if err := s.omc.Do(ch, &operations.RetrieveCharge{ChargeID: id}); err != nil {
		return nil, err
	}
	return ch, nil
}
