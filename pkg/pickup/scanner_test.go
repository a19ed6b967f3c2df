package pickup

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/amidulanjana/smart-classroom-sub000/pkg/roster"
	"github.com/amidulanjana/smart-classroom-sub000/pkg/system"
)

func TestScanRoutineAdvancesOverdueAttempts(t *testing.T) {
	store := NewMemoryStore()
	fr := roster.NewFakeRoster()
	fr.AddClass(roster.Class{ID: "class-1", Name: "3B"})
	fr.AddTeacher(roster.Teacher{ID: "teacher-1", Name: "R. Fernando"})
	fr.AddStudent("class-1", roster.Student{ID: "s1", Name: "Student s1", Active: true})
	fr.SetPrimary("s1", roster.Guardian{ID: "p1", Name: "G p1"})
	fr.SetSecondary("s1", roster.Guardian{ID: "sec1", Name: "G sec1"})

	notifier := &fakeNotifier{failFor: map[string]error{}}
	// A very short response timeout so the wall-clock ticker sees overdue
	// attempts within the test's runtime.
	engine := NewEngine(store, fr, notifier, nil, system.NewTestLogger(), EngineOptions{
		ResponseTimeout: 10 * time.Millisecond,
	})

	event, _, err := engine.StartEvent(context.Background(), StartRequest{
		ClassID:       "class-1",
		InitiatorID:   "teacher-1",
		NewPickupTime: time.Now().Add(time.Hour),
	})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		ScanRoutine{
			Log:      system.NewTestLogger(),
			Engine:   engine,
			Interval: 5 * time.Millisecond,
		}.Run(ctx)
		close(done)
	}()

	require.Eventually(t, func() bool {
		esc, err := store.GetEscalation(context.Background(), event.ID, "s1")
		return err == nil && esc.Status == StatusSecondaryNotified
	}, 2*time.Second, 5*time.Millisecond)

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("scan routine did not stop on context cancellation")
	}
}
