package domain

import "github.com/google/uuid"

// FeedEventType defines the type of real-time feed event.
type FeedEventType string

const (
	EventNotificationsAdded FeedEventType = "NOTIFICATIONS_ADDED"
	EventFeedCleared        FeedEventType = "FEED_CLEARED"
)

// FeedEvent is the payload pushed over WebSocket to a user's open
// sessions when their notification feed changes.
type FeedEvent struct {
	Type    FeedEventType `json:"type"`
	UserID  uuid.UUID     `json:"-"` // routing only, not part of the payload
	Payload interface{}   `json:"payload,omitempty"`
	Unread  int           `json:"unread"`
}
