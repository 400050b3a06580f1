package notify

import (
	"context"
	"fmt"

	"github.com/prasadbobby/suraksha-backend/internal/models"
)

// Sender wraps one notification provider. Implementations never return
// errors for expected provider failures; those are folded into the
// DispatchOutcome so the orchestrator can continue with other contacts.
type Sender interface {
	// Channel identifies the medium this sender covers
	Channel() models.Channel
	// Available reports whether the provider credentials are configured
	Available() bool
	// CanReach reports whether the contact has the medium this channel needs
	CanReach(contact *models.Contact) bool
	// Send delivers one message and classifies the result
	Send(ctx context.Context, contact *models.Contact, user *models.User, event *models.Event) models.DispatchOutcome
}

// mapsLink builds a Google Maps link for the event location
func mapsLink(loc *models.GeoPoint) string {
	return fmt.Sprintf("https://maps.google.com/maps?q=%f,%f", loc.Latitude, loc.Longitude)
}

func sent(contact *models.Contact, channel models.Channel, messageID string) models.DispatchOutcome {
	return models.DispatchOutcome{
		ContactID: contact.ContactID,
		Channel:   channel,
		Status:    models.StatusSent,
		MessageID: messageID,
	}
}

func failed(contact *models.Contact, channel models.Channel, err error) models.DispatchOutcome {
	return models.DispatchOutcome{
		ContactID: contact.ContactID,
		Channel:   channel,
		Status:    models.StatusFailed,
		Error:     err.Error(),
	}
}
