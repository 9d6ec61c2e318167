package notification

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/google/uuid"
)

func TestNotifyAndList(t *testing.T) {
	svc := NewService(NewMemoryStore())
	ctx := context.Background()

	require.NoError(t, svc.Notify(ctx, "student-1", "first", "e1:recorded"))
	time.Sleep(time.Millisecond)
	require.NoError(t, svc.Notify(ctx, "student-1", "second", "e1:accepted"))
	require.NoError(t, svc.Notify(ctx, "student-2", "other", ""))

	list, err := svc.ListForRecipient(ctx, "student-1")
	require.NoError(t, err)
	require.Len(t, list, 2)

	// Newest first.
	assert.Equal(t, "second", list[0].Message)
	assert.Equal(t, "first", list[1].Message)
	assert.False(t, list[0].ReadStatus)
}

func TestNotifyDedupe(t *testing.T) {
	svc := NewService(NewMemoryStore())
	ctx := context.Background()

	require.NoError(t, svc.Notify(ctx, "student-1", "decided", "e1:accepted"))
	require.NoError(t, svc.Notify(ctx, "student-1", "decided", "e1:accepted"))

	list, err := svc.ListForRecipient(ctx, "student-1")
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestNotifyEmptyKeyNeverDedupes(t *testing.T) {
	svc := NewService(NewMemoryStore())
	ctx := context.Background()

	require.NoError(t, svc.Notify(ctx, "student-1", "hello", ""))
	require.NoError(t, svc.Notify(ctx, "student-1", "hello", ""))

	list, err := svc.ListForRecipient(ctx, "student-1")
	require.NoError(t, err)
	assert.Len(t, list, 2)
}

func TestMarkRead(t *testing.T) {
	svc := NewService(NewMemoryStore())
	ctx := context.Background()

	require.NoError(t, svc.Notify(ctx, "student-1", "hello", ""))
	list, err := svc.ListForRecipient(ctx, "student-1")
	require.NoError(t, err)
	require.Len(t, list, 1)
	id := list[0].ID

	require.NoError(t, svc.MarkRead(ctx, id, "student-1"))

	list, err = svc.ListForRecipient(ctx, "student-1")
	require.NoError(t, err)
	assert.True(t, list[0].ReadStatus)

	// Idempotent.
	require.NoError(t, svc.MarkRead(ctx, id, "student-1"))

	// Ownership enforced.
	err = svc.MarkRead(ctx, id, "student-2")
	assert.ErrorIs(t, err, ErrNotFound)

	err = svc.MarkRead(ctx, uuid.NewString(), "student-1")
	assert.ErrorIs(t, err, ErrNotFound)
}
