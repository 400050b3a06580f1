package notify

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strconv"
	"time"

	"firebase.google.com/go/messaging"

	"github.com/prasadbobby/suraksha-backend/internal/models"
)

var (
	errNoAccount = errors.New("no app account found")
	errNoToken   = errors.New("no notification token")
)

// TokenLookup resolves a contact's registered device token. Implemented by
// the user repository; contacts are matched to accounts by email.
type TokenLookup interface {
	DeviceTokenByEmail(ctx context.Context, email string) (string, error)
}

// fcmClient is the slice of *messaging.Client the sender needs
type fcmClient interface {
	Send(ctx context.Context, message *messaging.Message) (string, error)
}

// PushSender delivers push notifications through Firebase Cloud Messaging
type PushSender struct {
	client fcmClient
	tokens TokenLookup
}

// NewPushSender builds the push channel. A nil messaging client (Firebase
// not configured) makes the channel unavailable.
func NewPushSender(client *messaging.Client, tokens TokenLookup) *PushSender {
	s := &PushSender{tokens: tokens}
	if client == nil {
		log.Println("⚠️  Firebase Messaging not configured - push notifications disabled")
		return s
	}
	s.client = client
	return s
}

func (s *PushSender) Channel() models.Channel { return models.ChannelPush }

func (s *PushSender) Available() bool { return s.client != nil && s.tokens != nil }

// CanReach needs an email to match the contact against a registered account
func (s *PushSender) CanReach(contact *models.Contact) bool { return contact.Email != "" }

// Send looks up the contact's device token and delivers a structured push
// payload. A contact with no account or no token is a per-recipient
// failure, not fatal to the batch.
func (s *PushSender) Send(ctx context.Context, contact *models.Contact, user *models.User, event *models.Event) models.DispatchOutcome {
	token, err := s.tokens.DeviceTokenByEmail(ctx, contact.Email)
	if err != nil {
		log.Printf("👤 No user account found for %s", contact.Email)
		return failed(contact, models.ChannelPush, errNoAccount)
	}
	if token == "" {
		log.Printf("📱 No notification token for %s", contact.Email)
		return failed(contact, models.ChannelPush, errNoToken)
	}

	messageID, err := s.client.Send(ctx, pushMessage(token, user, event))
	if err != nil {
		log.Printf("❌ Failed to send push notification to %s: %v", contact.Email, err)
		return failed(contact, models.ChannelPush, err)
	}

	log.Printf("✅ Push notification sent to %s: %s", contact.Email, messageID)
	return sent(contact, models.ChannelPush, messageID)
}

// pushMessage builds the FCM payload for an event
func pushMessage(token string, user *models.User, event *models.Event) *messaging.Message {
	data := map[string]string{
		"type":      string(event.Kind),
		"userId":    user.UserID,
		"userName":  user.Name,
		"userPhone": user.Phone,
		"timestamp": event.CreatedAt.Format(time.RFC3339),
	}
	if event.Location != nil {
		data["latitude"] = strconv.FormatFloat(event.Location.Latitude, 'f', -1, 64)
		data["longitude"] = strconv.FormatFloat(event.Location.Longitude, 'f', -1, 64)
		data["address"] = event.Location.Address
	}

	var title, body string
	if event.Kind == models.EventLocationShare {
		title = fmt.Sprintf("📍 %s shared their location", user.Name)
		if event.IsLiveSharing {
			body = "Live location sharing is now active"
		} else {
			body = "Tap to view shared location"
		}
		data["isLiveSharing"] = strconv.FormatBool(event.IsLiveSharing)
	} else {
		title = "🚨 EMERGENCY ALERT"
		body = fmt.Sprintf("%s needs immediate help! Tap to view location and details.", user.Name)
		data["urgency"] = "high"
	}

	return &messaging.Message{
		Token: token,
		Notification: &messaging.Notification{
			Title: title,
			Body:  body,
		},
		Data: data,
		Android: &messaging.AndroidConfig{
			Priority: "high",
			Notification: &messaging.AndroidNotification{
				ChannelID: "emergency_alerts",
				Priority:  messaging.PriorityMax,
				Sound:     "default",
			},
		},
		APNS: &messaging.APNSConfig{
			Headers: map[string]string{
				"apns-priority": "10",
			},
			Payload: &messaging.APNSPayload{
				Aps: &messaging.Aps{
					Sound: "default",
				},
			},
		},
	}
}
