package pickup

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func seedEvent(t *testing.T, store *MemoryStore) *PickupEvent {
	t.Helper()
	now := time.Date(2026, 3, 9, 11, 0, 0, 0, time.UTC)
	event := &PickupEvent{
		ID:        "ev-1",
		ClassID:   "class-1",
		Status:    EventInProgress,
		CreatedAt: now,
		Escalations: []StudentEscalation{
			{
				ID: "esc-1", EventID: "ev-1", StudentID: "s1", StudentName: "Amara",
				Status: StatusPrimaryNotified, Level: LevelPrimary,
				Attempts: []NotificationAttempt{
					{
						ID: "att-1", EscalationID: "esc-1", RecipientID: "p1",
						Role: "primary", SentAt: now, Deadline: now.Add(10 * time.Minute),
						Response: ResponsePending,
					},
				},
			},
			{
				ID: "esc-2", EventID: "ev-1", StudentID: "s2", StudentName: "Bisera",
				Status: StatusConfirmed, Level: LevelPrimary,
			},
		},
	}
	require.NoError(t, store.CreateEvent(context.Background(), event))
	return event
}

func TestMemoryStoreRoundTrip(t *testing.T) {
	store := NewMemoryStore()
	seedEvent(t, store)
	ctx := context.Background()

	event, err := store.GetEvent(ctx, "ev-1")
	require.NoError(t, err)
	assert.Len(t, event.Escalations, 2)
	// Escalations are ordered by student name.
	assert.Equal(t, "s1", event.Escalations[0].StudentID)

	_, err = store.GetEvent(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = store.GetEscalation(ctx, "ev-1", "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStoreVersionConflict(t *testing.T) {
	store := NewMemoryStore()
	seedEvent(t, store)
	ctx := context.Background()

	a, err := store.GetEscalation(ctx, "ev-1", "s1")
	require.NoError(t, err)
	b, err := store.GetEscalation(ctx, "ev-1", "s1")
	require.NoError(t, err)

	a.Status = StatusConfirmed
	require.NoError(t, store.SaveEscalation(ctx, a))
	assert.Equal(t, int64(1), a.Version)

	// The second reader still holds version 0.
	b.Status = StatusEscalated
	assert.ErrorIs(t, store.SaveEscalation(ctx, b), ErrVersionConflict)

	got, err := store.GetEscalation(ctx, "ev-1", "s1")
	require.NoError(t, err)
	assert.Equal(t, StatusConfirmed, got.Status)
}

func TestMemoryStoreReturnsCopies(t *testing.T) {
	store := NewMemoryStore()
	seedEvent(t, store)
	ctx := context.Background()

	esc, err := store.GetEscalation(ctx, "ev-1", "s1")
	require.NoError(t, err)
	esc.Status = StatusEscalated
	esc.Attempts[0].Response = ResponseTimeout

	fresh, err := store.GetEscalation(ctx, "ev-1", "s1")
	require.NoError(t, err)
	assert.Equal(t, StatusPrimaryNotified, fresh.Status)
	assert.Equal(t, ResponsePending, fresh.Attempts[0].Response)
}

func TestMemoryStoreDueEscalations(t *testing.T) {
	store := NewMemoryStore()
	event := seedEvent(t, store)
	ctx := context.Background()
	deadline := event.Escalations[0].Attempts[0].Deadline

	due, err := store.DueEscalations(ctx, deadline.Add(-time.Second))
	require.NoError(t, err)
	assert.Empty(t, due)

	// Deadline is inclusive.
	due, err = store.DueEscalations(ctx, deadline)
	require.NoError(t, err)
	require.Len(t, due, 1)
	assert.Equal(t, DueEscalation{EventID: "ev-1", StudentID: "s1"}, due[0])

	// Completed events are never swept.
	ev, err := store.GetEvent(ctx, "ev-1")
	require.NoError(t, err)
	ev.Status = EventCompleted
	require.NoError(t, store.SaveEvent(ctx, ev))

	due, err = store.DueEscalations(ctx, deadline.Add(time.Hour))
	require.NoError(t, err)
	assert.Empty(t, due)
}

func TestMemoryStoreListOpenEvents(t *testing.T) {
	store := NewMemoryStore()
	seedEvent(t, store)
	ctx := context.Background()

	ids, err := store.ListOpenEvents(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"ev-1"}, ids)

	ev, err := store.GetEvent(ctx, "ev-1")
	require.NoError(t, err)
	ev.Status = EventCompleted
	require.NoError(t, store.SaveEvent(ctx, ev))

	ids, err = store.ListOpenEvents(ctx)
	require.NoError(t, err)
	assert.Empty(t, ids)
}
