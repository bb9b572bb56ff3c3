package handlers

import (
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	domain "github.com/BruksfildServices01/slot-scheduler/internal/domain/availability"
	"github.com/BruksfildServices01/slot-scheduler/internal/httperr"
	"github.com/BruksfildServices01/slot-scheduler/internal/timezone"
	ucAvailability "github.com/BruksfildServices01/slot-scheduler/internal/usecase/availability"
)

////////////////////////////////////////////////////////
// HANDLER
////////////////////////////////////////////////////////

type AvailabilityHandler struct {
	calculate *ucAvailability.CalculateAvailability
	daySlots  *ucAvailability.GetDaySlots
	check     *ucAvailability.CheckSlot

	resourceID string
	rules      domain.Rules
	loc        *time.Location
	now        domain.Clock
	rangeDays  int
}

func NewAvailabilityHandler(
	calculate *ucAvailability.CalculateAvailability,
	daySlots *ucAvailability.GetDaySlots,
	check *ucAvailability.CheckSlot,
	resourceID string,
	rules domain.Rules,
	loc *time.Location,
	now domain.Clock,
	rangeDays int,
) *AvailabilityHandler {
	return &AvailabilityHandler{
		calculate:  calculate,
		daySlots:   daySlots,
		check:      check,
		resourceID: resourceID,
		rules:      rules,
		loc:        loc,
		now:        now,
		rangeDays:  rangeDays,
	}
}

////////////////////////////////////////////////////////
// DTOs
////////////////////////////////////////////////////////

type SlotResponse struct {
	ID    string `json:"id"`
	Start string `json:"start"`
	End   string `json:"end"`
	Time  string `json:"time"`
}

type DayAvailabilityResponse struct {
	Date           string `json:"date"`
	AvailableSlots int    `json:"availableSlots"`
}

////////////////////////////////////////////////////////
// GET /api/availability
////////////////////////////////////////////////////////

// Get serves detail mode when `date` is present and range mode otherwise.
func (h *AvailabilityHandler) Get(c *gin.Context) {
	if date := c.Query("date"); date != "" {
		h.day(c, date)
		return
	}
	h.rangeMap(c)
}

func (h *AvailabilityHandler) day(c *gin.Context, dateStr string) {
	date, err := timezone.ParseDate(dateStr, h.loc)
	if err != nil {
		httperr.BadRequest(c, httperr.CodeInvalidInput, "Invalid date format. Use YYYY-MM-DD.")
		return
	}

	rules, err := h.rulesFromQuery(c)
	if err != nil {
		httperr.BadRequest(c, httperr.CodeInvalidInput, err.Error())
		return
	}

	slots, err := h.daySlots.Execute(c.Request.Context(), ucAvailability.DaySlotsInput{
		ResourceID: h.resourceID,
		Date:       date,
		Rules:      rules,
	})
	if err != nil {
		_ = c.Error(err)
		httperr.FromError(c, err, "availability_failed")
		return
	}

	out := make([]SlotResponse, 0, len(slots))
	for _, s := range slots {
		out = append(out, SlotResponse{
			ID:    strconv.FormatInt(s.Start.UnixMilli(), 10),
			Start: s.Start.UTC().Format(time.RFC3339),
			End:   s.End.UTC().Format(time.RFC3339),
			Time:  timezone.FormatClock(s.Start, h.loc),
		})
	}

	c.JSON(http.StatusOK, gin.H{"slots": out})
}

func (h *AvailabilityHandler) rangeMap(c *gin.Context) {
	start := timezone.NextBusinessDay(h.now(), h.loc)
	if s := c.Query("startDate"); s != "" {
		d, err := timezone.ParseDate(s, h.loc)
		if err != nil {
			httperr.BadRequest(c, httperr.CodeInvalidInput, "Invalid startDate. Use YYYY-MM-DD.")
			return
		}
		start = d
	}

	end := start.AddDate(0, 0, h.rangeDays)
	if s := c.Query("endDate"); s != "" {
		d, err := timezone.ParseDate(s, h.loc)
		if err != nil {
			httperr.BadRequest(c, httperr.CodeInvalidInput, "Invalid endDate. Use YYYY-MM-DD.")
			return
		}
		end = d
	}

	availability, err := h.calculate.Execute(c.Request.Context(), ucAvailability.CalculateInput{
		ResourceID: h.resourceID,
		Options: domain.Options{
			StartDate: start,
			EndDate:   end,
			Rules:     h.rules,
		},
	})
	if err != nil {
		_ = c.Error(err)
		httperr.FromError(c, err, "availability_failed")
		return
	}

	out := make([]DayAvailabilityResponse, 0, len(availability))
	for date, n := range availability {
		out = append(out, DayAvailabilityResponse{Date: date, AvailableSlots: n})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Date < out[j].Date })

	c.JSON(http.StatusOK, out)
}

// rulesFromQuery applies the optional per request overrides on top of the
// configured rules.
func (h *AvailabilityHandler) rulesFromQuery(c *gin.Context) (domain.Rules, error) {
	rules := h.rules
	maxMinutes := int(domain.MaxRuleDuration / time.Minute)

	overrides := []struct {
		key   string
		max   int
		apply func(n int)
	}{
		{"duration", maxMinutes, func(n int) { rules.AppointmentDuration = time.Duration(n) * time.Minute }},
		{"buffer", maxMinutes, func(n int) { rules.BufferTime = time.Duration(n) * time.Minute }},
		{"hoursStart", 24, func(n int) { rules.BusinessHours.Start = n }},
		{"hoursEnd", 24, func(n int) { rules.BusinessHours.End = n }},
	}
	for _, o := range overrides {
		raw := c.Query(o.key)
		if raw == "" {
			continue
		}
		n, err := strconv.Atoi(raw)
		if err != nil {
			return rules, httperr.Detailed(httperr.CodeInvalidInput, o.key+" must be an integer")
		}
		if n < 0 || n > o.max {
			return rules, httperr.Detailed(httperr.CodeInvalidInput, fmt.Sprintf("%s must be within 0..%d", o.key, o.max))
		}
		o.apply(n)
	}

	return rules, nil
}

////////////////////////////////////////////////////////
// GET /api/availability/check
////////////////////////////////////////////////////////

func (h *AvailabilityHandler) Check(c *gin.Context) {
	start, err1 := time.Parse(time.RFC3339, c.Query("start"))
	end, err2 := time.Parse(time.RFC3339, c.Query("end"))
	if err1 != nil || err2 != nil {
		httperr.BadRequest(c, httperr.CodeInvalidInput, "start and end must be RFC 3339 timestamps.")
		return
	}

	ok, err := h.check.Execute(c.Request.Context(), ucAvailability.CheckSlotInput{
		ResourceID: h.resourceID,
		Start:      start,
		End:        end,
	})
	if err != nil {
		_ = c.Error(err)
		httperr.FromError(c, err, "availability_check_failed")
		return
	}

	c.JSON(http.StatusOK, gin.H{"available": ok})
}
