package services

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prasadbobby/suraksha-backend/internal/models"
	"github.com/prasadbobby/suraksha-backend/internal/notify"
)

type fakeSender struct {
	mu      sync.Mutex
	channel models.Channel
	offline bool
	reach   func(*models.Contact) bool
	fail    map[string]string
	sent    []string
}

func (f *fakeSender) Channel() models.Channel { return f.channel }

func (f *fakeSender) Available() bool { return !f.offline }

func (f *fakeSender) CanReach(contact *models.Contact) bool { return f.reach(contact) }

func (f *fakeSender) Send(ctx context.Context, contact *models.Contact, user *models.User, event *models.Event) models.DispatchOutcome {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, contact.ContactID)
	if msg, ok := f.fail[contact.ContactID]; ok {
		return models.DispatchOutcome{
			ContactID: contact.ContactID,
			Channel:   f.channel,
			Status:    models.StatusFailed,
			Error:     msg,
		}
	}
	return models.DispatchOutcome{
		ContactID: contact.ContactID,
		Channel:   f.channel,
		Status:    models.StatusSent,
		MessageID: "msg-" + contact.ContactID,
	}
}

func hasEmail(c *models.Contact) bool { return c.Email != "" }

func hasPhone(c *models.Contact) bool { return c.Phone != "" }

func newTestDispatcher(senders ...notify.Sender) *DispatchService {
	s := NewDispatchService(senders)
	s.emailDelay = time.Millisecond
	s.timeout = 5 * time.Second
	return s
}

func dispatchUser() *models.User {
	return &models.User{UserID: "user-1", Name: "Priya Sharma", Email: "priya@example.com", Phone: "+919876543210"}
}

func alertEvent() *models.Event {
	return &models.Event{
		Kind:      models.EventEmergencyAlert,
		Location:  &models.GeoPoint{Latitude: 12.9716, Longitude: 77.5946},
		CreatedAt: time.Now(),
	}
}

func trusted(id, email, phone string) *models.Contact {
	return &models.Contact{
		ContactID:            id,
		UserID:               "user-1",
		Name:                 "Contact " + id,
		Email:                email,
		Phone:                phone,
		IsTrusted:            true,
		NotificationsEnabled: true,
	}
}

func assertCountInvariant(t *testing.T, record *models.NotificationRecord) {
	t.Helper()
	assert.Equal(t, record.Attempted, record.Sent+record.Failed+record.SkippedDuplicate)
	assert.Len(t, record.Outcomes, record.Sent+record.Failed)
	assert.Len(t, record.DedupedContacts, record.SkippedDuplicate)
}

func TestDispatchFansOutAcrossChannels(t *testing.T) {
	email := &fakeSender{channel: models.ChannelEmail, reach: hasEmail}
	sms := &fakeSender{channel: models.ChannelSMS, reach: hasPhone}
	s := newTestDispatcher(email, sms)

	// One contact already inside its cooldown window
	require.True(t, s.shareLimiter.Allow("user-1_c3", shareCooldown))

	contacts := []*models.Contact{
		trusted("c1", "a@example.com", "+919876500001"),
		trusted("c2", "b@example.com", ""),
		trusted("c3", "c@example.com", "+919876500003"),
	}
	record := s.Dispatch(context.Background(), dispatchUser(), contacts, alertEvent())

	// c1 reached on two channels, c2 on one, c3 holds a deduped slot
	assert.Equal(t, 4, record.Attempted)
	assert.Equal(t, 3, record.Sent)
	assert.Zero(t, record.Failed)
	assert.Equal(t, 1, record.SkippedDuplicate)
	assert.Equal(t, []string{"c3"}, record.DedupedContacts)
	assert.False(t, record.Duplicate)

	assert.ElementsMatch(t, []string{"c1", "c2"}, email.sent)
	assert.Equal(t, []string{"c1"}, sms.sent)
	assertCountInvariant(t, record)
}

func TestDispatchDedupSecondCall(t *testing.T) {
	email := &fakeSender{channel: models.ChannelEmail, reach: hasEmail}
	s := newTestDispatcher(email)

	contacts := []*models.Contact{trusted("c1", "a@example.com", "")}

	first := s.Dispatch(context.Background(), dispatchUser(), contacts, alertEvent())
	assert.Equal(t, 1, first.Sent)

	second := s.Dispatch(context.Background(), dispatchUser(), contacts, alertEvent())
	assert.True(t, second.Duplicate)
	assert.Equal(t, 1, second.SkippedDuplicate)
	assert.Equal(t, 1, second.Attempted)
	assert.Zero(t, second.Sent)
	assert.Len(t, email.sent, 1)
	assertCountInvariant(t, second)
}

func TestDispatchLiveShareGateShortCircuits(t *testing.T) {
	email := &fakeSender{channel: models.ChannelEmail, reach: hasEmail}
	s := newTestDispatcher(email)

	event := &models.Event{Kind: models.EventLocationShare, IsLiveSharing: true, CreatedAt: time.Now()}
	contacts := []*models.Contact{trusted("c1", "a@example.com", "")}

	first := s.Dispatch(context.Background(), dispatchUser(), contacts, event)
	assert.False(t, first.Duplicate)
	assert.Equal(t, 1, first.Sent)

	second := s.Dispatch(context.Background(), dispatchUser(), contacts, event)
	assert.True(t, second.Duplicate)
	assert.Zero(t, second.Attempted)
	assert.Empty(t, second.Outcomes)
	// The gate fires before any channel work
	assert.Len(t, email.sent, 1)
	assertCountInvariant(t, second)
}

func TestDispatchSkipsUnavailableChannel(t *testing.T) {
	email := &fakeSender{channel: models.ChannelEmail, reach: hasEmail}
	sms := &fakeSender{channel: models.ChannelSMS, reach: hasPhone, offline: true}
	s := newTestDispatcher(email, sms)

	contacts := []*models.Contact{trusted("c1", "a@example.com", "+919876500001")}
	record := s.Dispatch(context.Background(), dispatchUser(), contacts, alertEvent())

	assert.Equal(t, 1, record.Sent)
	assert.Zero(t, record.Failed)
	assert.Empty(t, sms.sent)
	assertCountInvariant(t, record)
}

func TestDispatchPartialFailureContinuesBatch(t *testing.T) {
	email := &fakeSender{
		channel: models.ChannelEmail,
		reach:   hasEmail,
		fail:    map[string]string{"c1": "rate limit exceeded after 3 attempts: too many requests"},
	}
	s := newTestDispatcher(email)

	contacts := []*models.Contact{
		trusted("c1", "a@example.com", ""),
		trusted("c2", "b@example.com", ""),
	}
	record := s.Dispatch(context.Background(), dispatchUser(), contacts, alertEvent())

	assert.Equal(t, 2, record.Attempted)
	assert.Equal(t, 1, record.Sent)
	assert.Equal(t, 1, record.Failed)
	assert.Len(t, email.sent, 2)

	var failedOut *models.DispatchOutcome
	for i := range record.Outcomes {
		if record.Outcomes[i].Status == models.StatusFailed {
			failedOut = &record.Outcomes[i]
		}
	}
	require.NotNil(t, failedOut)
	assert.Equal(t, "c1", failedOut.ContactID)
	assert.Contains(t, failedOut.Error, "rate limit exceeded")
	assertCountInvariant(t, record)
}

func TestDispatchDropsUntrustedAndOptedOut(t *testing.T) {
	email := &fakeSender{channel: models.ChannelEmail, reach: hasEmail}
	s := newTestDispatcher(email)

	untrusted := trusted("c1", "a@example.com", "")
	untrusted.IsTrusted = false
	optedOut := trusted("c2", "b@example.com", "")
	optedOut.NotificationsEnabled = false

	record := s.Dispatch(context.Background(), dispatchUser(), []*models.Contact{untrusted, optedOut}, alertEvent())

	assert.Zero(t, record.Attempted)
	assert.Zero(t, record.SkippedDuplicate)
	assert.False(t, record.Duplicate)
	assert.Empty(t, email.sent)
	assertCountInvariant(t, record)
}

func TestDispatchEmailPacedSerially(t *testing.T) {
	email := &fakeSender{channel: models.ChannelEmail, reach: hasEmail}
	s := newTestDispatcher(email)
	s.emailDelay = 20 * time.Millisecond

	contacts := []*models.Contact{
		trusted("c1", "a@example.com", ""),
		trusted("c2", "b@example.com", ""),
		trusted("c3", "c@example.com", ""),
	}

	start := time.Now()
	record := s.Dispatch(context.Background(), dispatchUser(), contacts, alertEvent())

	assert.Equal(t, 3, record.Sent)
	// Two inter-send gaps must elapse for three recipients
	assert.GreaterOrEqual(t, time.Since(start), 40*time.Millisecond)
	assert.Equal(t, []string{"c1", "c2", "c3"}, email.sent)
}

func TestDispatchDeadlineMarksRemainingFailed(t *testing.T) {
	email := &fakeSender{channel: models.ChannelEmail, reach: hasEmail}
	s := newTestDispatcher(email)
	s.emailDelay = 50 * time.Millisecond
	s.timeout = 60 * time.Millisecond

	contacts := []*models.Contact{
		trusted("c1", "a@example.com", ""),
		trusted("c2", "b@example.com", ""),
		trusted("c3", "c@example.com", ""),
	}
	record := s.Dispatch(context.Background(), dispatchUser(), contacts, alertEvent())

	assert.Equal(t, 3, record.Attempted)
	assert.GreaterOrEqual(t, record.Failed, 1)
	for _, out := range record.Outcomes {
		if out.Status == models.StatusFailed {
			assert.Equal(t, errDeadlineExceeded.Error(), out.Error)
		}
	}
	assertCountInvariant(t, record)
}
