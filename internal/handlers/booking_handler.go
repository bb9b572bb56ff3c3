package handlers

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	domain "github.com/BruksfildServices01/slot-scheduler/internal/domain/booking"
	"github.com/BruksfildServices01/slot-scheduler/internal/httperr"
	ucBooking "github.com/BruksfildServices01/slot-scheduler/internal/usecase/booking"
	"github.com/BruksfildServices01/slot-scheduler/internal/validators"
)

////////////////////////////////////////////////////////
// HANDLER
////////////////////////////////////////////////////////

type BookingHandler struct {
	create     *ucBooking.CreateBooking
	resourceID string
	loc        *time.Location
	// duration fills in the end of legacy date + time requests.
	duration time.Duration
}

func NewBookingHandler(
	create *ucBooking.CreateBooking,
	resourceID string,
	loc *time.Location,
	duration time.Duration,
) *BookingHandler {
	return &BookingHandler{
		create:     create,
		resourceID: resourceID,
		loc:        loc,
		duration:   duration,
	}
}

////////////////////////////////////////////////////////
// DTOs
////////////////////////////////////////////////////////

type CreateBookingRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Name      string `json:"name"` // legacy

	Phone    string `json:"phone"`
	Email    string `json:"email"`
	Address  string `json:"address"`
	AptSuite string `json:"aptSuite"`

	ServiceType  string `json:"serviceType"`
	ServiceName  string `json:"serviceName"`
	ServicePrice string `json:"servicePrice"`

	SlotStart string `json:"slotStart"`
	SlotEnd   string `json:"slotEnd"`

	// legacy: YYYY-MM-DD + HH:mm in the business zone
	PreferredDate string `json:"preferredDate"`
	PreferredTime string `json:"preferredTime"`

	Notes          string `json:"notes"`
	Message        string `json:"message"` // legacy
	ReferralSource string `json:"referralSource"`
}

////////////////////////////////////////////////////////
// POST /api/booking
////////////////////////////////////////////////////////

func (h *BookingHandler) Create(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", "Malformed request body.")
		return
	}

	b, err := h.toBooking(req)
	if err != nil {
		httperr.FromError(c, err, "invalid_request")
		return
	}

	res, err := h.create.Execute(c.Request.Context(), ucBooking.CreateBookingInput{
		ResourceID: h.resourceID,
		Booking:    b,
	})
	if err != nil {
		_ = c.Error(err)
		httperr.FromError(c, err, "booking_failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Booking created successfully",
		"eventId": res.EventID,
	})
}

func (h *BookingHandler) toBooking(req CreateBookingRequest) (domain.Booking, error) {
	name := req.Name
	if name == "" && req.FirstName != "" && req.LastName != "" {
		name = req.FirstName + " " + req.LastName
	}

	address := validators.Sanitize(req.Address, validators.MaxAddress)
	if apt := validators.Sanitize(req.AptSuite, validators.MaxAptSuite); apt != "" && address != "" {
		address += ", " + apt
	}

	b := domain.Booking{
		Customer: domain.Customer{
			Name:    validators.Sanitize(name, validators.MaxName),
			Email:   validators.Sanitize(req.Email, validators.MaxEmail),
			Phone:   validators.Sanitize(req.Phone, validators.MaxPhone),
			Address: address,
		},
		ServiceName:    strings.TrimSpace(req.ServiceType),
		ServicePrice:   strings.TrimSpace(req.ServicePrice),
		ReferralSource: strings.TrimSpace(req.ReferralSource),
	}
	if s := strings.TrimSpace(req.ServiceName); s != "" && b.ServiceName != "" {
		b.ServiceName = s
	}

	notes := req.Notes
	if notes == "" {
		notes = req.Message
	}
	b.Notes = validators.Sanitize(notes, validators.MaxNotes)

	if b.Customer.Name == "" || b.Customer.Phone == "" || b.Customer.Email == "" ||
		b.Customer.Address == "" || b.ServiceName == "" {
		return b, httperr.Detailed(httperr.CodeInvalidInput, "all required fields must be filled")
	}
	if !validators.IsEmail(b.Customer.Email) {
		return b, httperr.Detailed(httperr.CodeInvalidInput, "email is not a valid address")
	}

	start, end, err := h.slotWindow(req)
	if err != nil {
		return b, err
	}
	b.Start, b.End = start, end

	return b, nil
}

func (h *BookingHandler) slotWindow(req CreateBookingRequest) (time.Time, time.Time, error) {
	switch {
	case req.SlotStart != "" && req.SlotEnd != "":
		start, err1 := time.Parse(time.RFC3339, req.SlotStart)
		end, err2 := time.Parse(time.RFC3339, req.SlotEnd)
		if err1 != nil || err2 != nil {
			return time.Time{}, time.Time{}, httperr.Detailed(httperr.CodeInvalidInput, "invalid date/time format")
		}
		return start, end, nil

	case req.PreferredDate != "" && req.PreferredTime != "":
		start, err := time.ParseInLocation("2006-01-02 15:04", req.PreferredDate+" "+req.PreferredTime, h.loc)
		if err != nil {
			return time.Time{}, time.Time{}, httperr.Detailed(httperr.CodeInvalidInput, "invalid date/time format")
		}
		return start, start.Add(h.duration), nil
	}

	return time.Time{}, time.Time{}, httperr.Detailed(httperr.CodeInvalidInput, "date and time must be provided")
}
