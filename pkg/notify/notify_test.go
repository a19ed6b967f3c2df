package notify

import (
	"context"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amidulanjana/smart-classroom-sub000/pkg/pickup"
	"github.com/amidulanjana/smart-classroom-sub000/pkg/system"
)

type stubChannel struct {
	name string
	err  error
	sent int
}

func (s *stubChannel) Name() string { return s.name }

func (s *stubChannel) Send(context.Context, pickup.Notification) error {
	if s.err != nil {
		return s.err
	}
	s.sent++
	return nil
}

func testNotification() pickup.Notification {
	return pickup.Notification{
		AttemptID:     "att-1",
		EventID:       "ev-1",
		StudentID:     "s1",
		StudentName:   "Amara",
		GuardianID:    "g1",
		GuardianName:  "D. Silva",
		GuardianEmail: "d.silva@example.com",
		Role:          "primary",
		Reason:        "water outage",
		NewPickupTime: time.Date(2026, 3, 9, 12, 30, 0, 0, time.UTC),
		Deadline:      time.Date(2026, 3, 9, 11, 40, 0, 0, time.UTC),
	}
}

func TestFanoutOneChannelSucceeds(t *testing.T) {
	push := &stubChannel{name: "push", err: errors.New("broker down")}
	mail := &stubChannel{name: "mail"}
	f := NewFanout(system.NewTestLogger(), push, mail)

	require.NoError(t, f.Send(context.Background(), testNotification()))
	assert.Equal(t, 1, mail.sent)
}

func TestFanoutAllChannelsFail(t *testing.T) {
	push := &stubChannel{name: "push", err: errors.New("broker down")}
	mail := &stubChannel{name: "mail", err: errors.New("smtp refused")}
	f := NewFanout(system.NewTestLogger(), push, mail)

	err := f.Send(context.Background(), testNotification())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "all notification channels failed")
}

func TestFanoutNotReachableIsNotAFailure(t *testing.T) {
	push := &stubChannel{name: "push"}
	mail := &stubChannel{name: "mail", err: ErrNotReachable}
	f := NewFanout(system.NewTestLogger(), push, mail)

	require.NoError(t, f.Send(context.Background(), testNotification()))
	assert.Equal(t, 1, push.sent)
}

func TestFanoutNoReachableChannel(t *testing.T) {
	mail := &stubChannel{name: "mail", err: ErrNotReachable}
	f := NewFanout(system.NewTestLogger(), mail)

	err := f.Send(context.Background(), testNotification())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no reachable notification channel")
}

func TestFanoutNoChannels(t *testing.T) {
	f := NewFanout(system.NewTestLogger())
	assert.Error(t, f.Send(context.Background(), testNotification()))
}

func TestRenderPickupMail(t *testing.T) {
	n := testNotification()
	body, err := RenderPickupMail(n)
	require.NoError(t, err)
	assert.Contains(t, body, "Amara")
	assert.Contains(t, body, "D. Silva")
	assert.Contains(t, body, "water outage")
	assert.NotContains(t, body, "Urgent")

	n.Escalation = true
	n.Role = "backup"
	body, err = RenderPickupMail(n)
	require.NoError(t, err)
	assert.Contains(t, body, "Urgent")
	assert.Contains(t, body, "backup")
}

func TestRenderPickupMailAlert(t *testing.T) {
	n := testNotification()
	n.Kind = pickup.KindAlert
	body, err := RenderPickupMail(n)
	require.NoError(t, err)
	assert.Contains(t, body, "no pickup arranged for Amara")
	assert.Contains(t, body, "call the")
}

func TestRenderPickupMailNotice(t *testing.T) {
	n := testNotification()
	n.Kind = pickup.KindNotice
	body, err := RenderPickupMail(n)
	require.NoError(t, err)
	assert.Contains(t, body, "Pickup for Amara is being handled")

	// A notice without a student is the class-wide completion message.
	n.StudentName = ""
	body, err = RenderPickupMail(n)
	require.NoError(t, err)
	assert.Contains(t, body, "All pickups for your class are resolved")
}

func TestMailChannelSkipsGuardiansWithoutAddress(t *testing.T) {
	ch := NewMailChannel(nil, system.NewTestLogger())
	n := testNotification()
	n.GuardianEmail = ""
	assert.ErrorIs(t, ch.Send(context.Background(), n), ErrNotReachable)
}

func TestNotificationSubject(t *testing.T) {
	n := testNotification()
	assert.Equal(t, "Early pickup needed for Amara", n.Subject())

	n.Escalation = true
	assert.Equal(t, "URGENT: Amara needs pickup by 12:30", n.Subject())

	n.Kind = pickup.KindAlert
	assert.Equal(t, "URGENT: nobody confirmed pickup for Amara", n.Subject())

	n.Kind = pickup.KindNotice
	assert.Equal(t, "Pickup for Amara is being handled", n.Subject())
	n.StudentName = ""
	assert.Equal(t, "All pickups for your class are resolved", n.Subject())
}
