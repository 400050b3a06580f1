package notify

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	twclient "github.com/twilio/twilio-go/client"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/prasadbobby/suraksha-backend/internal/models"
)

type fakeTwilio struct {
	sid   string
	err   error
	calls int
	last  *openapi.CreateMessageParams
}

func (f *fakeTwilio) CreateMessage(params *openapi.CreateMessageParams) (*openapi.ApiV2010Message, error) {
	f.calls++
	f.last = params
	if f.err != nil {
		return nil, f.err
	}
	return &openapi.ApiV2010Message{Sid: &f.sid}, nil
}

func testSMSSender(api twilioAPI, from string) *SMSSender {
	return &SMSSender{api: api, fromNumber: from, maxAttempts: 1}
}

func TestSMSSendSuccess(t *testing.T) {
	api := &fakeTwilio{sid: "SM123"}
	s := testSMSSender(api, "+15005550006")

	contact := &models.Contact{ContactID: "c1", Name: "Amit", Phone: "+919876543210"}
	out := s.Send(context.Background(), contact, testSubject(), testEmergencyEvent())

	assert.Equal(t, models.StatusSent, out.Status)
	assert.Equal(t, "SM123", out.MessageID)
	assert.Equal(t, models.ChannelSMS, out.Channel)
	assert.Equal(t, "+919876543210", *api.last.To)
	assert.Equal(t, "+15005550006", *api.last.From)
}

func TestSMSInvalidPhoneFails(t *testing.T) {
	api := &fakeTwilio{sid: "SM123"}
	s := testSMSSender(api, "+15005550006")

	contact := &models.Contact{ContactID: "c1", Name: "Amit", Phone: "9876543210"}
	out := s.Send(context.Background(), contact, testSubject(), testEmergencyEvent())

	assert.Equal(t, models.StatusFailed, out.Status)
	assert.Zero(t, api.calls)
}

func TestSMSRateLimitExhausted(t *testing.T) {
	api := &fakeTwilio{err: &twclient.TwilioRestError{Status: 429, Code: 20429, Message: "Too Many Requests"}}
	s := testSMSSender(api, "+15005550006")

	contact := &models.Contact{ContactID: "c1", Name: "Amit", Phone: "+919876543210"}
	out := s.Send(context.Background(), contact, testSubject(), testEmergencyEvent())

	assert.Equal(t, models.StatusFailed, out.Status)
	assert.Contains(t, out.Error, "rate limit exceeded after 1 attempts")
}

func TestSMSAvailability(t *testing.T) {
	assert.False(t, testSMSSender(nil, "+15005550006").Available())
	// An origin number is required even with credentials configured
	assert.False(t, testSMSSender(&fakeTwilio{}, "").Available())
	assert.True(t, testSMSSender(&fakeTwilio{}, "+15005550006").Available())
}

func TestSMSCanReach(t *testing.T) {
	s := testSMSSender(&fakeTwilio{}, "+15005550006")
	assert.True(t, s.CanReach(&models.Contact{Phone: "+919876543210"}))
	assert.False(t, s.CanReach(&models.Contact{Email: "amit@example.com"}))
}

func TestSMSText(t *testing.T) {
	text := smsText(testSubject(), testEmergencyEvent())
	assert.Contains(t, text, "EMERGENCY ALERT")
	assert.Contains(t, text, "Priya Sharma")
	assert.Contains(t, text, "https://maps.google.com/maps?q=")

	share := &models.Event{Kind: models.EventLocationShare, CreatedAt: time.Now()}
	text = smsText(testSubject(), share)
	assert.Contains(t, text, "shared their location")
	assert.NotContains(t, text, "maps.google.com")
}
