package models

// DispatchStatus is the terminal state of one send attempt
type DispatchStatus string

const (
	StatusSent   DispatchStatus = "sent"
	StatusFailed DispatchStatus = "failed"
)

// DispatchOutcome records what happened for one contact on one channel
type DispatchOutcome struct {
	ContactID               string         `firestore:"contactId" json:"contactId"`
	Channel                 Channel        `firestore:"channel" json:"channel"`
	Status                  DispatchStatus `firestore:"status" json:"status"`
	MessageID               string         `firestore:"messageId,omitempty" json:"messageId,omitempty"`
	Error                   string         `firestore:"error,omitempty" json:"error,omitempty"`
	NeedsDomainVerification bool           `firestore:"needsDomainVerification,omitempty" json:"needsDomainVerification,omitempty"`
}

// NotificationRecord aggregates one dispatch batch. It is immutable once
// the batch finishes and is persisted with the triggering alert/location.
//
// Invariant: Attempted == Sent + Failed + SkippedDuplicate.
type NotificationRecord struct {
	Attempted        int               `firestore:"attempted" json:"attempted"`
	Sent             int               `firestore:"sent" json:"sent"`
	Failed           int               `firestore:"failed" json:"failed"`
	SkippedDuplicate int               `firestore:"skippedDuplicate" json:"skippedDuplicate"`
	Duplicate        bool              `firestore:"duplicate" json:"isDuplicate"`
	Outcomes         []DispatchOutcome `firestore:"outcomes" json:"outcomes"`
	DedupedContacts  []string          `firestore:"dedupedContacts,omitempty" json:"dedupedContacts,omitempty"`
}
