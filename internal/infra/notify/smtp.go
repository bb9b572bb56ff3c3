package notify

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"mime"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/BruksfildServices01/slot-scheduler/internal/domain/booking"
)

var referralLabels = map[string]string{
	"google":    "Google Search",
	"yelp":      "Yelp",
	"facebook":  "Facebook",
	"instagram": "Instagram",
	"referral":  "Referral from friend/family",
	"nextdoor":  "Nextdoor",
	"repeat":    "Repeat customer",
	"other":     "Other",
}

var confirmationTmpl = template.Must(template.New("confirmation").Parse(`<h2>Your Appointment is Confirmed</h2>
<p>Hi {{.Name}},</p>
<p>We've received your booking request for:</p>
<ul>
  <li><strong>Service:</strong> {{.Service}}</li>
  {{- if .Price}}
  <li><strong>Price:</strong> {{.Price}}</li>
  {{- end}}
  <li><strong>Date &amp; Time:</strong> {{.When}}</li>
  {{- if .Address}}
  <li><strong>Service Address:</strong> {{.Address}}</li>
  {{- end}}
  {{- if .Referral}}
  <li><strong>How you heard about us:</strong> {{.Referral}}</li>
  {{- end}}
</ul>
<p>A calendar invite has been sent to this email address.</p>
{{- if .Contact}}
<p>Questions or need to reschedule? Reply to this email or write to {{.Contact}}.</p>
{{- end}}
`))

type confirmationData struct {
	Name     string
	Service  string
	Price    string
	When     string
	Address  string
	Referral string
	Contact  string
}

type SMTPConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	// ReplyTo is the business inbox customers answer to.
	ReplyTo string
}

type sendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// SMTPNotifier mails the booking confirmation to the customer.
type SMTPNotifier struct {
	cfg      SMTPConfig
	loc      *time.Location
	timeout  time.Duration
	logger   *zap.Logger
	sendMail sendFunc
}

func NewSMTPNotifier(cfg SMTPConfig, loc *time.Location, logger *zap.Logger) *SMTPNotifier {
	return &SMTPNotifier{
		cfg:      cfg,
		loc:      loc,
		timeout:  15 * time.Second,
		logger:   logger,
		sendMail: smtp.SendMail,
	}
}

func (n *SMTPNotifier) SendBookingConfirmation(ctx context.Context, b booking.Booking) error {
	msg, err := n.buildMessage(b)
	if err != nil {
		return err
	}

	addr := net.JoinHostPort(n.cfg.Host, strconv.Itoa(n.cfg.Port))
	auth := smtp.PlainAuth("", n.cfg.User, n.cfg.Password, n.cfg.Host)

	// net/smtp has no context support; run it aside and stop waiting on
	// cancellation.
	done := make(chan error, 1)
	go func() {
		done <- n.sendMail(addr, auth, n.cfg.User, []string{b.Customer.Email}, msg)
	}()

	timer := time.NewTimer(n.timeout)
	defer timer.Stop()

	select {
	case err := <-done:
		if err != nil {
			return fmt.Errorf("send confirmation: %w", err)
		}
		n.logger.Debug("confirmation sent", zap.String("to", b.Customer.Email))
		return nil
	case <-ctx.Done():
		return fmt.Errorf("send confirmation: %w", ctx.Err())
	case <-timer.C:
		return fmt.Errorf("send confirmation: timed out after %s", n.timeout)
	}
}

func (n *SMTPNotifier) buildMessage(b booking.Booking) ([]byte, error) {
	referral := b.ReferralSource
	if label, ok := referralLabels[referral]; ok {
		referral = label
	}

	var body bytes.Buffer
	if err := confirmationTmpl.Execute(&body, confirmationData{
		Name:     b.Customer.Name,
		Service:  b.ServiceName,
		Price:    b.ServicePrice,
		When:     b.Start.In(n.loc).Format("Monday, January 2, 2006 at 3:04 PM MST"),
		Address:  b.Customer.Address,
		Referral: referral,
		Contact:  n.cfg.ReplyTo,
	}); err != nil {
		return nil, fmt.Errorf("render confirmation: %w", err)
	}

	var msg bytes.Buffer
	header := func(k, v string) {
		fmt.Fprintf(&msg, "%s: %s\r\n", k, v)
	}
	header("From", n.cfg.User)
	header("To", b.Customer.Email)
	if n.cfg.ReplyTo != "" {
		header("Reply-To", n.cfg.ReplyTo)
	}
	header("Subject", mime.QEncoding.Encode("utf-8", "Booking Confirmation - "+b.ServiceName))
	header("MIME-Version", "1.0")
	header("Content-Type", "text/html; charset=utf-8")
	msg.WriteString("\r\n")
	msg.WriteString(strings.ReplaceAll(body.String(), "\n", "\r\n"))

	return msg.Bytes(), nil
}

// LogNotifier stands in when no SMTP credentials are configured.
type LogNotifier struct {
	logger *zap.Logger
}

func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) SendBookingConfirmation(_ context.Context, b booking.Booking) error {
	n.logger.Info("smtp not configured, skipping confirmation",
		zap.String("to", b.Customer.Email),
		zap.Time("start", b.Start),
	)
	return nil
}
