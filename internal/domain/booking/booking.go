package booking

import (
	"context"
	"time"
)

// Customer is the sanitized contact block of a booking request.
type Customer struct {
	Name    string
	Email   string
	Phone   string
	Address string
}

// Booking is one confirmed appointment on its way to the calendar.
type Booking struct {
	Customer Customer

	ServiceName    string
	ServicePrice   string
	Notes          string
	ReferralSource string

	Start time.Time
	End   time.Time
}

// EventWriter reserves a window on the external calendar and returns the
// calendar's event id. It does not enforce exclusivity.
type EventWriter interface {
	InsertEvent(ctx context.Context, resourceID string, b Booking) (string, error)
}

// Notifier delivers the customer confirmation. Failures never undo a booking.
type Notifier interface {
	SendBookingConfirmation(ctx context.Context, b Booking) error
}
