package pickup

import (
	"context"
	"fmt"
	"time"

	"github.com/amidulanjana/smart-classroom-sub000/pkg/roster"
)

// Notification kinds. Asks await a response; alerts and notices are
// informational broadcasts that never create attempts.
const (
	KindAsk    = "ask"
	KindAlert  = "alert"
	KindNotice = "notice"
)

// Notification is the message handed to a Notifier for one attempt or
// informational broadcast. It carries everything a delivery channel needs to
// render the message without further lookups.
type Notification struct {
	AttemptID     string    `json:"attemptId"`
	EventID       string    `json:"eventId"`
	StudentID     string    `json:"studentId"`
	StudentName   string    `json:"studentName"`
	GuardianID    string    `json:"guardianId"`
	GuardianName  string    `json:"guardianName"`
	GuardianEmail string    `json:"-"`
	Role          string    `json:"role"`
	Kind          string    `json:"kind"`
	Reason        string    `json:"reason"`
	NewPickupTime time.Time `json:"newPickupTime"`
	Deadline      time.Time `json:"deadline,omitempty"`
	// Escalation marks asks that go out because earlier guardians did not
	// answer; channels render these with more urgency.
	Escalation bool `json:"escalation"`
}

// Subject renders the short line used by push titles and mail subjects.
func (n Notification) Subject() string {
	switch n.Kind {
	case KindAlert:
		return fmt.Sprintf("URGENT: nobody confirmed pickup for %s", n.StudentName)
	case KindNotice:
		if n.StudentName == "" {
			return "All pickups for your class are resolved"
		}
		return fmt.Sprintf("Pickup for %s is being handled", n.StudentName)
	}
	if n.Escalation {
		return fmt.Sprintf("URGENT: %s needs pickup by %s", n.StudentName, n.NewPickupTime.Format("15:04"))
	}
	return fmt.Sprintf("Early pickup needed for %s", n.StudentName)
}

// Notifier delivers a notification attempt over some channel. Delivery
// failures are reported to the caller but never block the escalation: a
// failed send degrades to a non-response and the deadline still applies.
type Notifier interface {
	Send(ctx context.Context, n Notification) error
}

// NotifierFunc adapts a function to the Notifier interface.
type NotifierFunc func(ctx context.Context, n Notification) error

func (f NotifierFunc) Send(ctx context.Context, n Notification) error { return f(ctx, n) }

func buildNotification(event *PickupEvent, esc *StudentEscalation, g *roster.Guardian, role, attemptID string, deadline time.Time) Notification {
	return Notification{
		AttemptID:     attemptID,
		EventID:       event.ID,
		StudentID:     esc.StudentID,
		StudentName:   esc.StudentName,
		GuardianID:    g.ID,
		GuardianName:  g.Name,
		GuardianEmail: g.Email,
		Role:          role,
		Kind:          KindAsk,
		Reason:        event.Reason,
		NewPickupTime: event.NewPickupTime,
		Deadline:      deadline,
		Escalation:    role != roster.RolePrimary,
	}
}
