package models

import "time"

// Channel identifies one notification medium
type Channel string

const (
	ChannelEmail Channel = "email"
	ChannelSMS   Channel = "sms"
	ChannelPush  Channel = "push"
)

// EventKind identifies what triggered a dispatch
type EventKind string

const (
	EventEmergencyAlert EventKind = "emergency_alert"
	EventLocationShare  EventKind = "location_share"
)

// GeoPoint is a coordinate pair with an optional resolved address
type GeoPoint struct {
	Latitude  float64 `firestore:"latitude" json:"latitude"`
	Longitude float64 `firestore:"longitude" json:"longitude"`
	Address   string  `firestore:"address" json:"address,omitempty"`
}

// Event is the immutable snapshot of a triggering event handed to the
// dispatcher. Location is nil when no coordinates were provided.
type Event struct {
	Kind          EventKind
	Location      *GeoPoint
	IsLiveSharing bool
	CreatedAt     time.Time
}
