// Package notification is the append-only mailbox written by entry
// transitions. Rows are never deleted; the read flag is the only mutation.
package notification

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned when a notification id does not exist for the
// recipient.
var ErrNotFound = errors.New("notification not found")

// Notification is one message to one recipient. JSON field names match the
// original notifications collection.
type Notification struct {
	ID          string    `json:"id"`
	RecipientID string    `json:"userId"`
	Message     string    `json:"message"`
	ReadStatus  bool      `json:"readStatus"`
	CreatedAt   time.Time `json:"timestamp"`
	DedupeKey   string    `json:"-"`
}

// Store persists notifications.
type Store interface {
	// Insert writes a notification. When the dedupe key is already present
	// the write is a no-op and Insert reports false.
	Insert(ctx context.Context, n Notification) (bool, error)
	// ListForRecipient returns a recipient's notifications, newest first.
	ListForRecipient(ctx context.Context, recipientID string) ([]Notification, error)
	// MarkRead flips the read flag to true. Flipping an already-read
	// notification is a no-op. Returns ErrNotFound when the id does not
	// belong to the recipient.
	MarkRead(ctx context.Context, id, recipientID string) error
}
