package booking

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/slot-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/slot-scheduler/internal/domain/booking"
	"github.com/BruksfildServices01/slot-scheduler/internal/httperr"
	ucAvailability "github.com/BruksfildServices01/slot-scheduler/internal/usecase/availability"
)

// ======================================================
// INPUT / OUTPUT
// ======================================================

type CreateBookingInput struct {
	ResourceID string
	Booking    domain.Booking
}

type CreateBookingResult struct {
	EventID string
}

// SlotGuard is satisfied by the availability conflict guard.
type SlotGuard interface {
	Ensure(ctx context.Context, in ucAvailability.CheckSlotInput) error
}

// ======================================================
// USE CASE
// ======================================================

type CreateBooking struct {
	guard    SlotGuard
	writer   domain.EventWriter
	notifier domain.Notifier
	audit    *audit.Dispatcher
	logger   *zap.Logger
}

func NewCreateBooking(
	guard SlotGuard,
	writer domain.EventWriter,
	notifier domain.Notifier,
	audit *audit.Dispatcher,
	logger *zap.Logger,
) *CreateBooking {
	return &CreateBooking{
		guard:    guard,
		writer:   writer,
		notifier: notifier,
		audit:    audit,
		logger:   logger,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *CreateBooking) Execute(
	ctx context.Context,
	in CreateBookingInput,
) (*CreateBookingResult, error) {

	b := in.Booking

	// --------------------------------------------------
	// 1. Input
	// --------------------------------------------------
	if err := validate(b); err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 2. Conflict guard, immediately before the write
	// --------------------------------------------------
	if err := uc.guard.Ensure(ctx, ucAvailability.CheckSlotInput{
		ResourceID: in.ResourceID,
		Start:      b.Start,
		End:        b.End,
	}); err != nil {
		if httperr.IsBusiness(err, httperr.CodeSlotConflict) {
			uc.audit.Dispatch(audit.Event{
				Action:     "booking_conflict",
				Entity:     "booking",
				ResourceID: in.ResourceID,
				Metadata:   slotMetadata(b),
			})
		}
		return nil, err
	}

	// --------------------------------------------------
	// 3. Calendar write
	// --------------------------------------------------
	eventID, err := uc.writer.InsertEvent(ctx, in.ResourceID, b)
	if err != nil {
		return nil, err
	}

	// --------------------------------------------------
	// 4. Confirmation, best effort
	// --------------------------------------------------
	if err := uc.notifier.SendBookingConfirmation(ctx, b); err != nil {
		uc.logger.Warn("booking confirmation not sent",
			zap.String("event_id", eventID),
			zap.Error(err),
		)
	}

	// --------------------------------------------------
	// 5. Audit
	// --------------------------------------------------
	uc.audit.Dispatch(audit.Event{
		Action:     "booking_created",
		Entity:     "booking",
		EntityID:   eventID,
		ResourceID: in.ResourceID,
		Metadata:   slotMetadata(b),
	})

	return &CreateBookingResult{EventID: eventID}, nil
}

func validate(b domain.Booking) error {
	missing := []string{}
	if strings.TrimSpace(b.Customer.Name) == "" {
		missing = append(missing, "name")
	}
	if strings.TrimSpace(b.Customer.Email) == "" {
		missing = append(missing, "email")
	}
	if strings.TrimSpace(b.Customer.Phone) == "" {
		missing = append(missing, "phone")
	}
	if strings.TrimSpace(b.Customer.Address) == "" {
		missing = append(missing, "address")
	}
	if strings.TrimSpace(b.ServiceName) == "" {
		missing = append(missing, "service")
	}
	if len(missing) > 0 {
		return httperr.Detailed(httperr.CodeInvalidInput, "missing "+strings.Join(missing, ", "))
	}

	if !b.Start.Before(b.End) {
		return httperr.Detailed(httperr.CodeInvalidInput, "slot start must be before end")
	}
	return nil
}

func slotMetadata(b domain.Booking) map[string]string {
	return map[string]string{
		"service": b.ServiceName,
		"start":   b.Start.Format(time.RFC3339),
		"end":     b.End.Format(time.RFC3339),
	}
}
