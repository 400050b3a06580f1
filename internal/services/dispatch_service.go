package services

import (
	"context"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/prasadbobby/suraksha-backend/internal/limiter"
	"github.com/prasadbobby/suraksha-backend/internal/models"
	"github.com/prasadbobby/suraksha-backend/internal/notify"
)

const (
	// shareCooldown suppresses repeat notifications to the same contact
	shareCooldown = 30 * time.Second
	// liveCooldown gates live-sharing broadcasts per subject, collapsing
	// all recipients into one gate
	liveCooldown = 180 * time.Second
	// cooldownMaxAge bounds the limiter maps; stale entries are swept
	cooldownMaxAge = 10 * time.Minute

	// emailPaceDelay is the minimum spacing between consecutive email
	// sends; the provider's published limit is 2 requests/second and the
	// extra buffer covers network latency
	emailPaceDelay = 1 * time.Second

	// dispatchTimeout is the defensive deadline for one whole batch
	dispatchTimeout = 60 * time.Second
)

var errDeadlineExceeded = errors.New("dispatch deadline exceeded")

// DispatchService fans an event out to a set of contacts across every
// available channel, gated by the cooldown limiters, and aggregates the
// results into a NotificationRecord.
type DispatchService struct {
	senders      []notify.Sender
	shareLimiter *limiter.CooldownLimiter
	liveLimiter  *limiter.CooldownLimiter
	emailDelay   time.Duration
	timeout      time.Duration
}

func NewDispatchService(senders []notify.Sender) *DispatchService {
	return &DispatchService{
		senders:      senders,
		shareLimiter: limiter.NewCooldownLimiter(cooldownMaxAge),
		liveLimiter:  limiter.NewCooldownLimiter(cooldownMaxAge),
		emailDelay:   emailPaceDelay,
		timeout:      dispatchTimeout,
	}
}

// Dispatch runs one fan-out batch: gate, dispatch, aggregate. Failure of
// one contact or channel never aborts the batch; every send attempt ends
// up as a DispatchOutcome in the returned record.
func (s *DispatchService) Dispatch(ctx context.Context, user *models.User, contacts []*models.Contact, event *models.Event) *models.NotificationRecord {
	record := &models.NotificationRecord{}

	// Subject-wide gate for live sharing: one broadcast per window,
	// regardless of recipients
	if event.Kind == models.EventLocationShare && event.IsLiveSharing {
		if !s.liveLimiter.Allow(user.UserID+"_live_sharing", liveCooldown) {
			log.Printf("⚠️ Live sharing update too frequent for user %s, ignoring...", user.UserID)
			record.Duplicate = true
			return record
		}
	}

	// Partition contacts into eligible and deduped. Untrusted contacts and
	// contacts who opted out are dropped entirely and count nowhere.
	var eligible []*models.Contact
	for _, contact := range contacts {
		if !contact.IsTrusted || !contact.NotificationsEnabled {
			log.Printf("⚠️ Skipping %s - untrusted or notifications disabled", contact.Name)
			continue
		}
		if !s.shareLimiter.Allow(user.UserID+"_"+contact.ContactID, shareCooldown) {
			record.SkippedDuplicate++
			record.DedupedContacts = append(record.DedupedContacts, contact.ContactID)
			continue
		}
		eligible = append(eligible, contact)
	}

	if len(eligible) == 0 {
		if record.SkippedDuplicate > 0 {
			log.Printf("⚠️ All contacts already notified recently for user %s, ignoring...", user.UserID)
			record.Duplicate = true
		}
		record.Attempted = record.SkippedDuplicate
		return record
	}

	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	var (
		mu sync.Mutex
		wg sync.WaitGroup
	)
	collect := func(out models.DispatchOutcome) {
		mu.Lock()
		defer mu.Unlock()
		record.Outcomes = append(record.Outcomes, out)
		if out.Status == models.StatusSent {
			record.Sent++
		} else {
			record.Failed++
		}
	}

	// Channels run concurrently; within a channel recipients are processed
	// in order so the email channel can pace its provider.
	for _, sender := range s.senders {
		if !sender.Available() {
			continue
		}

		var targets []*models.Contact
		for _, contact := range eligible {
			if sender.CanReach(contact) {
				targets = append(targets, contact)
			}
		}
		if len(targets) == 0 {
			continue
		}

		wg.Add(1)
		go func(sender notify.Sender, targets []*models.Contact) {
			defer wg.Done()

			paced := sender.Channel() == models.ChannelEmail
			for i, contact := range targets {
				if paced && i > 0 {
					if err := pace(ctx, s.emailDelay); err != nil {
						for _, rest := range targets[i:] {
							collect(failedOutcome(rest, sender.Channel()))
						}
						return
					}
				}
				if ctx.Err() != nil {
					for _, rest := range targets[i:] {
						collect(failedOutcome(rest, sender.Channel()))
					}
					return
				}
				collect(sender.Send(ctx, contact, user, event))
			}
		}(sender, targets)
	}

	wg.Wait()

	record.Attempted = record.Sent + record.Failed + record.SkippedDuplicate
	log.Printf("📊 Dispatch summary for user %s: %d sent, %d failed, %d skipped duplicate",
		user.UserID, record.Sent, record.Failed, record.SkippedDuplicate)
	return record
}

func pace(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func failedOutcome(contact *models.Contact, channel models.Channel) models.DispatchOutcome {
	return models.DispatchOutcome{
		ContactID: contact.ContactID,
		Channel:   channel,
		Status:    models.StatusFailed,
		Error:     errDeadlineExceeded.Error(),
	}
}
