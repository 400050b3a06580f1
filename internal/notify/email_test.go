package notify

import (
	"context"
	"testing"
	"time"

	"github.com/sendgrid/rest"
	"github.com/sendgrid/sendgrid-go/helpers/mail"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prasadbobby/suraksha-backend/internal/models"
	"github.com/prasadbobby/suraksha-backend/internal/retry"
)

type fakeSendGrid struct {
	responses []*rest.Response
	calls     int
}

func (f *fakeSendGrid) SendWithContext(ctx context.Context, email *mail.SGMailV3) (*rest.Response, error) {
	resp := f.responses[f.calls]
	f.calls++
	return resp, nil
}

// stubRetrySleep records requested backoff delays instead of waiting them out
func stubRetrySleep(t *testing.T) *[]time.Duration {
	t.Helper()
	var delays []time.Duration
	orig := retry.Sleep
	retry.Sleep = func(ctx context.Context, d time.Duration) error {
		delays = append(delays, d)
		return nil
	}
	t.Cleanup(func() { retry.Sleep = orig })
	return &delays
}

func testEmailSender(client sendGridClient, maxAttempts int) *EmailSender {
	return &EmailSender{
		client:      client,
		fromName:    "Suraksha Safety",
		fromEmail:   "alerts@suraksha.app",
		maxAttempts: maxAttempts,
	}
}

func testSubject() *models.User {
	return &models.User{
		UserID: "user-1",
		Name:   "Priya Sharma",
		Email:  "priya@example.com",
		Phone:  "+919876543210",
	}
}

func testEmergencyEvent() *models.Event {
	return &models.Event{
		Kind: models.EventEmergencyAlert,
		Location: &models.GeoPoint{
			Latitude:  12.9716,
			Longitude: 77.5946,
			Address:   "MG Road, Bengaluru",
		},
		CreatedAt: time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC),
	}
}

func TestEmailSendSuccess(t *testing.T) {
	client := &fakeSendGrid{responses: []*rest.Response{{
		StatusCode: 202,
		Headers:    map[string][]string{"X-Message-Id": {"msg-123"}},
	}}}
	s := testEmailSender(client, 3)

	contact := &models.Contact{ContactID: "c1", Name: "Amit", Email: "amit@example.com"}
	out := s.Send(context.Background(), contact, testSubject(), testEmergencyEvent())

	assert.Equal(t, models.StatusSent, out.Status)
	assert.Equal(t, "msg-123", out.MessageID)
	assert.Equal(t, models.ChannelEmail, out.Channel)
	assert.Equal(t, 1, client.calls)
}

func TestEmailDomainVerificationNotRetried(t *testing.T) {
	client := &fakeSendGrid{responses: []*rest.Response{{
		StatusCode: 403,
		Body:       `{"error":{"name":"validation_error","message":"You must verify a domain before sending"}}`,
	}}}
	s := testEmailSender(client, 3)

	contact := &models.Contact{ContactID: "c1", Name: "Amit", Email: "amit@example.com"}
	out := s.Send(context.Background(), contact, testSubject(), testEmergencyEvent())

	assert.Equal(t, models.StatusFailed, out.Status)
	assert.True(t, out.NeedsDomainVerification)
	// Configuration problems must not be retried
	assert.Equal(t, 1, client.calls)
}

func TestEmailRateLimitRetriedUntilExhausted(t *testing.T) {
	delays := stubRetrySleep(t)
	client := &fakeSendGrid{responses: []*rest.Response{
		{StatusCode: 429, Body: "rate_limit_exceeded"},
		{StatusCode: 429, Body: "rate_limit_exceeded"},
	}}
	s := testEmailSender(client, 2)

	contact := &models.Contact{ContactID: "c1", Name: "Amit", Email: "amit@example.com"}
	out := s.Send(context.Background(), contact, testSubject(), testEmergencyEvent())

	assert.Equal(t, models.StatusFailed, out.Status)
	assert.Contains(t, out.Error, "rate limit exceeded after 2 attempts")
	assert.False(t, out.NeedsDomainVerification)
	assert.Equal(t, 2, client.calls)
	assert.Equal(t, []time.Duration{1 * time.Second}, *delays)
}

func TestEmailAvailability(t *testing.T) {
	assert.False(t, testEmailSender(nil, 3).Available())
	assert.True(t, testEmailSender(&fakeSendGrid{}, 3).Available())
}

func TestEmailCanReach(t *testing.T) {
	s := testEmailSender(&fakeSendGrid{}, 3)
	assert.True(t, s.CanReach(&models.Contact{Email: "amit@example.com"}))
	assert.False(t, s.CanReach(&models.Contact{Phone: "+919876543210"}))
}

func TestEmergencyEmailContent(t *testing.T) {
	subject, text, html := emailContent(testSubject(), testEmergencyEvent())

	assert.Contains(t, subject, "EMERGENCY ALERT")
	for _, body := range []string{text, html} {
		assert.Contains(t, body, "Priya Sharma")
		assert.Contains(t, body, "+919876543210")
		assert.Contains(t, body, "https://maps.google.com/maps?q=")
	}
	assert.Contains(t, html, "MG Road, Bengaluru")
}

func TestLocationShareEmailContent(t *testing.T) {
	event := testEmergencyEvent()
	event.Kind = models.EventLocationShare

	subject, text, html := emailContent(testSubject(), event)

	assert.Contains(t, subject, "shared their location")
	assert.Contains(t, text, "Priya Sharma")
	assert.Contains(t, html, "https://maps.google.com/maps?q=")
	assert.NotContains(t, subject, "EMERGENCY")
}

func TestEmailContentWithoutLocation(t *testing.T) {
	event := testEmergencyEvent()
	event.Location = nil

	_, text, html := emailContent(testSubject(), event)

	assert.NotContains(t, text, "maps.google.com")
	assert.NotContains(t, html, "maps.google.com")
	require.Contains(t, text, "Priya Sharma")
}
