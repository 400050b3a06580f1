package notify

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/prasadbobby/suraksha-backend/internal/models"
	"github.com/prasadbobby/suraksha-backend/internal/retry"
)

// sendGridClient is the slice of *sendgrid.Client the sender needs
type sendGridClient interface {
	SendWithContext(ctx context.Context, email *mail.SGMailV3) (*rest.Response, error)
}

// providerError is a non-2xx response from the email provider
type providerError struct {
	Status int
	Body   string
}

func (e *providerError) Error() string {
	return fmt.Sprintf("email provider error: %d %s", e.Status, e.Body)
}

// isEmailRateLimited classifies transient rate-limit failures worth retrying
func isEmailRateLimited(err error) bool {
	var perr *providerError
	if errors.As(err, &perr) {
		return perr.Status == 429 || strings.Contains(perr.Body, "rate_limit_exceeded")
	}
	return false
}

// needsDomainVerification detects the provider refusing to send because the
// from-address domain is not verified. A configuration problem, never retried.
func needsDomainVerification(err error) bool {
	var perr *providerError
	if !errors.As(err, &perr) {
		return false
	}
	return strings.Contains(perr.Body, "verify a domain") ||
		strings.Contains(perr.Body, "Sender Identity")
}

// EmailSender delivers emergency emails through SendGrid
type EmailSender struct {
	client      sendGridClient
	fromName    string
	fromEmail   string
	maxAttempts int
}

// NewEmailSender builds the email channel from SENDGRID_API_KEY,
// EMAIL_FROM and EMAIL_FROM_NAME. With no API key the channel reports
// itself unavailable and is skipped by the dispatcher.
func NewEmailSender() *EmailSender {
	apiKey := os.Getenv("SENDGRID_API_KEY")
	fromEmail := os.Getenv("EMAIL_FROM")
	if fromEmail == "" {
		fromEmail = "alerts@suraksha.app"
	}
	fromName := os.Getenv("EMAIL_FROM_NAME")
	if fromName == "" {
		fromName = "Suraksha Safety"
	}

	s := &EmailSender{
		fromName:    fromName,
		fromEmail:   fromEmail,
		maxAttempts: retry.DefaultMaxAttempts,
	}
	if apiKey == "" {
		log.Println("⚠️  SendGrid API key not provided - email notifications disabled")
		return s
	}
	s.client = sendgrid.NewSendClient(apiKey)
	log.Println("✅ SendGrid email service initialized")
	return s
}

func (s *EmailSender) Channel() models.Channel { return models.ChannelEmail }

func (s *EmailSender) Available() bool { return s.client != nil }

func (s *EmailSender) CanReach(contact *models.Contact) bool { return contact.Email != "" }

// Send builds the emergency message for the event and delivers it through
// the retry policy. Rate-limit responses are retried with backoff; any
// other provider rejection is returned as a structured failure.
func (s *EmailSender) Send(ctx context.Context, contact *models.Contact, user *models.User, event *models.Event) models.DispatchOutcome {
	from := mail.NewEmail(s.fromName, s.fromEmail)
	to := mail.NewEmail(contact.Name, contact.Email)
	subject, text, html := emailContent(user, event)
	msg := mail.NewSingleEmail(from, subject, to, text, html)

	var resp *rest.Response
	op := func() error {
		r, err := s.client.SendWithContext(ctx, msg)
		if err != nil {
			return err
		}
		if r.StatusCode >= 400 {
			return &providerError{Status: r.StatusCode, Body: r.Body}
		}
		resp = r
		return nil
	}

	if err := retry.Do(ctx, s.maxAttempts, op, isEmailRateLimited); err != nil {
		log.Printf("❌ Failed to send email to %s: %v", contact.Email, err)
		out := failed(contact, models.ChannelEmail, err)
		if needsDomainVerification(err) {
			log.Printf("⚠️  Domain verification required. Email to %s blocked by provider.", contact.Email)
			out.NeedsDomainVerification = true
		}
		return out
	}

	messageID := ""
	if ids := resp.Headers["X-Message-Id"]; len(ids) > 0 {
		messageID = ids[0]
	}
	log.Printf("✅ Emergency email sent to %s - Message ID: %s", contact.Email, messageID)
	return sent(contact, models.ChannelEmail, messageID)
}

// emailContent renders the subject, plain-text and HTML bodies for an event
func emailContent(user *models.User, event *models.Event) (subject, text, html string) {
	phone := user.Phone
	if phone == "" {
		phone = "Not provided"
	}

	locationText := ""
	locationHTML := ""
	if event.Location != nil {
		address := event.Location.Address
		if address == "" {
			address = "Address not available"
		}
		link := mapsLink(event.Location)
		locationText = fmt.Sprintf("\nLocation: %s (%f, %f)\nMap: %s\n",
			address, event.Location.Latitude, event.Location.Longitude, link)
		locationHTML = fmt.Sprintf(`
      <div style="background-color:#f0f9ff;padding:15px;border-radius:8px;margin:20px 0;border-left:4px solid #1e40af;">
        <h3 style="color:#1e40af;margin-top:0;">📍 Current Location:</h3>
        <p style="margin:5px 0;"><strong>Address:</strong> %s</p>
        <p style="margin:5px 0;"><strong>Coordinates:</strong> %f, %f</p>
        <p style="margin-top:10px;"><a href="%s" style="background-color:#1e40af;color:white;padding:8px 15px;text-decoration:none;border-radius:5px;">🗺️ View on Google Maps</a></p>
      </div>`, address, event.Location.Latitude, event.Location.Longitude, link)
	}

	if event.Kind == models.EventLocationShare {
		subject = fmt.Sprintf("📍 %s shared their location with you", user.Name)
		text = fmt.Sprintf("%s has shared their location with you via Suraksha Safety App.\n%s\nPhone: %s\nEmail: %s\n",
			user.Name, locationText, phone, user.Email)
		html = fmt.Sprintf(`
  <div style="font-family:Arial,sans-serif;max-width:600px;margin:0 auto;padding:20px;">
    <h2 style="color:#1e40af;">📍 %s shared their location</h2>
    <p><strong>%s</strong> is sharing their location with you through Suraksha Safety App.</p>
    %s
    <p style="font-size:12px;color:#6c757d;">Sent by Suraksha Safety App at %s</p>
  </div>`, user.Name, user.Name, locationHTML, event.CreatedAt.Format(time.RFC1123))
		return subject, text, html
	}

	subject = "🚨 EMERGENCY ALERT - Immediate Assistance Needed"
	text = fmt.Sprintf("EMERGENCY ALERT: %s has activated an emergency alert and needs immediate assistance.\nPhone: %s\nEmail: %s\n%s\nCall them immediately. If no response, contact local emergency services.\n",
		user.Name, phone, user.Email, locationText)
	html = fmt.Sprintf(`
  <div style="font-family:Arial,sans-serif;max-width:600px;margin:0 auto;padding:20px;">
    <div style="background-color:#dc2626;color:white;padding:20px;text-align:center;border-radius:8px 8px 0 0;">
      <h1 style="margin:0;font-size:24px;">🚨 EMERGENCY ALERT</h1>
    </div>
    <div style="padding:20px;border:2px solid #dc2626;border-top:none;border-radius:0 0 8px 8px;">
      <p style="font-size:18px;font-weight:bold;color:#dc2626;">
        <strong>%s</strong> has activated an emergency alert and needs immediate assistance.
      </p>
      <div style="background-color:#fef2f2;padding:15px;border-radius:8px;margin:20px 0;border-left:4px solid #dc2626;">
        <h3 style="color:#dc2626;margin-top:0;">👤 Contact Information:</h3>
        <p style="margin:5px 0;"><strong>Name:</strong> %s</p>
        <p style="margin:5px 0;"><strong>Phone:</strong> %s</p>
        <p style="margin:5px 0;"><strong>Email:</strong> %s</p>
      </div>
      %s
      <div style="background-color:#fff3cd;padding:15px;border-radius:8px;margin:20px 0;border-left:4px solid #ffc107;">
        <h3 style="color:#856404;margin-top:0;">⚠️ URGENT ACTION REQUIRED:</h3>
        <ol style="color:#856404;font-weight:bold;">
          <li>Call %s immediately at %s</li>
          <li>If no response, contact local emergency services (911/112)</li>
          <li>Share this location information with authorities</li>
        </ol>
      </div>
      <p style="font-size:12px;color:#6c757d;text-align:center;">This emergency alert was automatically sent by Suraksha Safety App at %s</p>
    </div>
  </div>`, user.Name, user.Name, phone, user.Email, locationHTML, user.Name, phone, event.CreatedAt.Format(time.RFC1123))
	return subject, text, html
}
