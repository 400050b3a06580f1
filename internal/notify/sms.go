package notify

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/twilio/twilio-go"
	twclient "github.com/twilio/twilio-go/client"
	openapi "github.com/twilio/twilio-go/rest/api/v2010"

	"github.com/prasadbobby/suraksha-backend/internal/models"
	"github.com/prasadbobby/suraksha-backend/internal/retry"
	"github.com/prasadbobby/suraksha-backend/pkg/utils"
)

// twilioAPI is the slice of the Twilio message API the sender needs
type twilioAPI interface {
	CreateMessage(params *openapi.CreateMessageParams) (*openapi.ApiV2010Message, error)
}

// isSMSRateLimited classifies Twilio throughput-limit rejections
func isSMSRateLimited(err error) bool {
	var terr *twclient.TwilioRestError
	if errors.As(err, &terr) {
		return terr.Status == 429 || terr.Code == 20429
	}
	return false
}

// SMSSender delivers emergency texts through Twilio
type SMSSender struct {
	api         twilioAPI
	fromNumber  string
	maxAttempts int
}

// NewSMSSender builds the SMS channel from TWILIO_ACCOUNT_SID,
// TWILIO_AUTH_TOKEN and TWILIO_PHONE_NUMBER. Without credentials or an
// origin number the channel reports itself unavailable.
func NewSMSSender() *SMSSender {
	accountSid := os.Getenv("TWILIO_ACCOUNT_SID")
	authToken := os.Getenv("TWILIO_AUTH_TOKEN")
	fromNumber := os.Getenv("TWILIO_PHONE_NUMBER")

	s := &SMSSender{
		fromNumber:  fromNumber,
		maxAttempts: retry.DefaultMaxAttempts,
	}
	if accountSid == "" || authToken == "" || !strings.HasPrefix(accountSid, "AC") {
		log.Println("⚠️  Twilio credentials not provided - SMS notifications disabled")
		return s
	}
	client := twilio.NewRestClientWithParams(twilio.ClientParams{
		Username: accountSid,
		Password: authToken,
	})
	s.api = client.Api
	log.Println("✅ Twilio SMS service initialized")
	return s
}

func (s *SMSSender) Channel() models.Channel { return models.ChannelSMS }

// Available requires both provider credentials and a configured origin
// number; a missing origin number is a capability gap, not an error.
func (s *SMSSender) Available() bool { return s.api != nil && s.fromNumber != "" }

func (s *SMSSender) CanReach(contact *models.Contact) bool { return contact.Phone != "" }

// Send delivers one emergency text. The destination number is normalized
// to E.164 first; an invalid number is a structured failure.
func (s *SMSSender) Send(ctx context.Context, contact *models.Contact, user *models.User, event *models.Event) models.DispatchOutcome {
	to, err := utils.NormalizePhone(contact.Phone)
	if err != nil {
		log.Printf("❌ Invalid phone number for %s: %v", contact.Name, err)
		return failed(contact, models.ChannelSMS, err)
	}

	params := &openapi.CreateMessageParams{}
	params.SetBody(smsText(user, event))
	params.SetFrom(s.fromNumber)
	params.SetTo(to)

	var resp *openapi.ApiV2010Message
	op := func() error {
		r, err := s.api.CreateMessage(params)
		if err != nil {
			return err
		}
		resp = r
		return nil
	}

	if err := retry.Do(ctx, s.maxAttempts, op, isSMSRateLimited); err != nil {
		log.Printf("❌ Failed to send SMS to %s: %v", to, err)
		return failed(contact, models.ChannelSMS, err)
	}

	messageID := ""
	if resp != nil && resp.Sid != nil {
		messageID = *resp.Sid
	}
	log.Printf("✅ Emergency SMS sent to %s", to)
	return sent(contact, models.ChannelSMS, messageID)
}

// smsText builds the short emergency text with name, phone and map link
func smsText(user *models.User, event *models.Event) string {
	phone := user.Phone
	if phone == "" {
		phone = "N/A"
	}

	location := ""
	if event.Location != nil {
		location = " Location: " + mapsLink(event.Location)
	}

	if event.Kind == models.EventLocationShare {
		return fmt.Sprintf("📍 %s shared their location with you.%s - Suraksha Safety App", user.Name, location)
	}
	return fmt.Sprintf("🚨 EMERGENCY ALERT: %s needs immediate help! Phone: %s%s - Suraksha Safety App", user.Name, phone, location)
}
