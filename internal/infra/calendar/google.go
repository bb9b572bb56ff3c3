package calendar

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	domain "github.com/BruksfildServices01/slot-scheduler/internal/domain/availability"
	"github.com/BruksfildServices01/slot-scheduler/internal/domain/booking"
	"github.com/BruksfildServices01/slot-scheduler/internal/httperr"
)

// Credentials is the OAuth bundle for the business calendar account.
type Credentials struct {
	ClientID     string
	ClientSecret string
	RefreshToken string
	CalendarID   string
}

// Missing lists the environment names of absent fields.
func (c Credentials) Missing() []string {
	var missing []string
	if strings.TrimSpace(c.CalendarID) == "" {
		missing = append(missing, "GOOGLE_CALENDAR_ID")
	}
	if strings.TrimSpace(c.ClientID) == "" {
		missing = append(missing, "GOOGLE_CLIENT_ID")
	}
	if strings.TrimSpace(c.ClientSecret) == "" {
		missing = append(missing, "GOOGLE_CLIENT_SECRET")
	}
	if strings.TrimSpace(c.RefreshToken) == "" {
		missing = append(missing, "GOOGLE_REFRESH_TOKEN")
	}
	return missing
}

func (c Credentials) Validate() error {
	if missing := c.Missing(); len(missing) > 0 {
		return httperr.Detailed(httperr.CodeConfiguration, "missing "+strings.Join(missing, ", "))
	}
	return nil
}

// GoogleCalendar reads busy blocks through the freebusy endpoint and writes
// bookings as events.
type GoogleCalendar struct {
	svc      *gcal.Service
	timezone string
	timeout  time.Duration
	logger   *zap.Logger
}

func NewGoogleCalendar(
	ctx context.Context,
	creds Credentials,
	timezone string,
	timeout time.Duration,
	logger *zap.Logger,
) (*GoogleCalendar, error) {
	if err := creds.Validate(); err != nil {
		return nil, err
	}

	conf := &oauth2.Config{
		ClientID:     creds.ClientID,
		ClientSecret: creds.ClientSecret,
		Endpoint:     google.Endpoint,
		Scopes:       []string{gcal.CalendarScope},
	}
	ts := conf.TokenSource(ctx, &oauth2.Token{RefreshToken: creds.RefreshToken})

	svc, err := gcal.NewService(ctx, option.WithTokenSource(ts))
	if err != nil {
		return nil, httperr.Wrap(httperr.CodeConfiguration, fmt.Errorf("calendar client: %w", err))
	}

	return NewGoogleCalendarFromService(svc, timezone, timeout, logger), nil
}

func NewGoogleCalendarFromService(
	svc *gcal.Service,
	timezone string,
	timeout time.Duration,
	logger *zap.Logger,
) *GoogleCalendar {
	return &GoogleCalendar{
		svc:      svc,
		timezone: timezone,
		timeout:  timeout,
		logger:   logger,
	}
}

func (g *GoogleCalendar) FetchBusy(
	ctx context.Context,
	resourceID string,
	windowStart time.Time,
	windowEnd time.Time,
) ([]domain.Interval, error) {

	ctx, cancel := g.withTimeout(ctx)
	defer cancel()

	req := &gcal.FreeBusyRequest{
		TimeMin: windowStart.Format(time.RFC3339),
		TimeMax: windowEnd.Format(time.RFC3339),
		Items:   []*gcal.FreeBusyRequestItem{{Id: resourceID}},
	}

	resp, err := g.svc.Freebusy.Query(req).Context(ctx).Do()
	if err != nil {
		return nil, upstream(ctx, fmt.Errorf("freebusy query: %w", err))
	}

	cal, ok := resp.Calendars[resourceID]
	if !ok {
		return nil, upstream(ctx, fmt.Errorf("calendar %q missing from freebusy response", resourceID))
	}
	if len(cal.Errors) > 0 {
		return nil, upstream(ctx, fmt.Errorf("calendar %q: %s", resourceID, cal.Errors[0].Reason))
	}

	out := make([]domain.Interval, 0, len(cal.Busy))
	for _, p := range cal.Busy {
		start, err := time.Parse(time.RFC3339, p.Start)
		if err != nil {
			return nil, upstream(ctx, fmt.Errorf("busy start %q: %w", p.Start, err))
		}
		end, err := time.Parse(time.RFC3339, p.End)
		if err != nil {
			return nil, upstream(ctx, fmt.Errorf("busy end %q: %w", p.End, err))
		}

		iv, err := domain.NewInterval(start, end)
		if err != nil {
			g.logger.Warn("ignoring empty busy block", zap.String("start", p.Start), zap.String("end", p.End))
			continue
		}
		out = append(out, iv)
	}

	g.logger.Debug("busy blocks fetched",
		zap.String("calendar", resourceID),
		zap.Time("from", windowStart),
		zap.Time("to", windowEnd),
		zap.Int("count", len(out)),
	)

	return out, nil
}

func (g *GoogleCalendar) InsertEvent(
	ctx context.Context,
	resourceID string,
	b booking.Booking,
) (string, error) {

	ctx, cancel := g.withTimeout(ctx)
	defer cancel()

	ev := &gcal.Event{
		Summary:     fmt.Sprintf("%s - %s", b.ServiceName, b.Customer.Name),
		Description: describe(b),
		Location:    b.Customer.Address,
		Start: &gcal.EventDateTime{
			DateTime: b.Start.Format(time.RFC3339),
			TimeZone: g.timezone,
		},
		End: &gcal.EventDateTime{
			DateTime: b.End.Format(time.RFC3339),
			TimeZone: g.timezone,
		},
		Attendees: []*gcal.EventAttendee{{Email: b.Customer.Email}},
		Reminders: &gcal.EventReminders{
			UseDefault: false,
			Overrides: []*gcal.EventReminder{
				{Method: "email", Minutes: 24 * 60},
				{Method: "popup", Minutes: 30},
			},
			ForceSendFields: []string{"UseDefault"},
		},
	}

	created, err := g.svc.Events.Insert(resourceID, ev).SendUpdates("all").Context(ctx).Do()
	if err != nil {
		return "", upstream(ctx, fmt.Errorf("insert event: %w", err))
	}

	return created.Id, nil
}

func (g *GoogleCalendar) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if g.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, g.timeout)
}

// upstream tags err as upstream_unavailable and keeps a context deadline
// visible to errors.Is.
func upstream(ctx context.Context, err error) error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		err = fmt.Errorf("%w: %v", ctxErr, err)
	}
	return httperr.Wrap(httperr.CodeUpstreamUnavailable, err)
}

func describe(b booking.Booking) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Service: %s\n", b.ServiceName)
	fmt.Fprintf(&sb, "Client: %s\n", b.Customer.Name)
	fmt.Fprintf(&sb, "Phone: %s\n", b.Customer.Phone)
	fmt.Fprintf(&sb, "Email: %s\n", b.Customer.Email)
	if b.Customer.Address != "" {
		fmt.Fprintf(&sb, "Address: %s\n", b.Customer.Address)
	}
	if b.ServicePrice != "" {
		fmt.Fprintf(&sb, "Price: %s\n", b.ServicePrice)
	}
	if b.ReferralSource != "" {
		fmt.Fprintf(&sb, "Referral: %s\n", b.ReferralSource)
	}
	if b.Notes != "" {
		fmt.Fprintf(&sb, "\nNotes: %s\n", b.Notes)
	}
	return strings.TrimSpace(sb.String())
}
