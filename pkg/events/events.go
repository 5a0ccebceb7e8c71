package events

// Subjects every service agrees on. Payload schemas are per-subject and always
// carry the entity's cross-service id.
const (
	SubjectUserCreated = "user.created"
	SubjectUserUpdated = "user.updated"
	SubjectUserDeleted = "user.deleted"

	SubjectEventCreated = "event.created"
	SubjectEventUpdated = "event.updated"
	SubjectEventDeleted = "event.deleted"

	SubjectBookingCreated = "booking.created"

	SubjectPaymentRequested = "payment.requested"
	SubjectPaymentCompleted = "payment.completed"
	SubjectPaymentFailed    = "payment.failed"
)

// Streams and the subject families they own.
const (
	StreamUsers    = "USERS"
	StreamEvents   = "EVENTS"
	StreamBookings = "BOOKINGS"
	StreamPayments = "PAYMENTS"
)

var StreamSubjects = map[string][]string{
	StreamUsers:    {"user.>"},
	StreamEvents:   {"event.>"},
	StreamBookings: {"booking.>"},
	StreamPayments: {"payment.>"},
}

// User is what the users service shares with the rest of the platform.
// Password is the bcrypt hash; the auth service needs it to verify logins
// against its replica.
type User struct {
	ID       string `json:"id"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Role     string `json:"role"`
}

// Event carries the full entity: the bookings service mirrors every field so
// new consumers can be added without touching the producer.
type Event struct {
	ID               string  `json:"id"`
	Title            string  `json:"title"`
	Description      string  `json:"description"`
	Price            float64 `json:"price"`
	Date             string  `json:"date"`
	AvailableTickets int     `json:"availableTickets"`
	OrganizerID      string  `json:"organizerId"`
	CreatedAt        string  `json:"createdAt"`
}

// BookingCreated is denormalized (email, title) so the notifications service
// can act without a round trip. The same shape doubles as the confirmation
// signal once a booking reaches CONFIRMED.
type BookingCreated struct {
	ID         string  `json:"id"`
	EventID    string  `json:"eventId"`
	Quantity   int     `json:"quantity"`
	TotalPrice float64 `json:"totalPrice"`
	Status     string  `json:"status"`
	UserID     string  `json:"userId"`
	Email      string  `json:"email"`
	Title      string  `json:"title"`
}

type PaymentRequested struct {
	BookingID string  `json:"bookingId"`
	UserID    string  `json:"userId"`
	Amount    float64 `json:"amount"`
}

// PaymentCompleted tolerates both the minimal {bookingId} shape and the richer
// one; consumers read only the fields they recognize.
type PaymentCompleted struct {
	BookingID string `json:"bookingId"`
	UserID    string `json:"userId,omitempty"`
	Status    string `json:"status,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
}

type PaymentFailed struct {
	BookingID      string `json:"bookingId"`
	FailureCode    string `json:"failureCode,omitempty"`
	FailureMessage string `json:"failureMessage,omitempty"`
}

// Deleted is the tombstone payload for user.deleted and event.deleted.
type Deleted struct {
	ID string `json:"id"`
}
