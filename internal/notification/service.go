package notification

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Service creates and serves notifications.
type Service struct {
	store Store
}

// NewService creates a service backed by a notification store.
func NewService(store Store) *Service {
	return &Service{store: store}
}

// Notify appends a message to the recipient's mailbox. A non-empty dedupe key
// makes the write idempotent: a repeat with the same key is silently dropped.
func (s *Service) Notify(ctx context.Context, recipientID, message, dedupeKey string) error {
	_, err := s.store.Insert(ctx, Notification{
		ID:          uuid.NewString(),
		RecipientID: recipientID,
		Message:     message,
		DedupeKey:   dedupeKey,
		CreatedAt:   time.Now().UTC(),
	})
	return err
}

// ListForRecipient returns the recipient's notifications, newest first.
func (s *Service) ListForRecipient(ctx context.Context, recipientID string) ([]Notification, error) {
	return s.store.ListForRecipient(ctx, recipientID)
}

// MarkRead flips the one-way read flag.
func (s *Service) MarkRead(ctx context.Context, id, recipientID string) error {
	return s.store.MarkRead(ctx, id, recipientID)
}
