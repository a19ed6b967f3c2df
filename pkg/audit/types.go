// SPDX-FileCopyrightText: 2026 smart-classroom authors
// SPDX-License-Identifier: Apache-2.0

package audit

import (
	"time"
)

// EventType identifies an action on the pickup audit trail. Every
// notification sent and every response applied gets its own entry; the trail
// is the record schools fall back on when a dismissal is disputed.
type EventType string

const (
	// Pickup event lifecycle.
	EventPickupCreated   EventType = "pickup.created"
	EventPickupStarted   EventType = "pickup.started"
	EventPickupCompleted EventType = "pickup.completed"

	// Per-student escalation progress.
	EventStudentNotified  EventType = "student.notified"
	EventStudentConfirmed EventType = "student.confirmed"
	EventStudentPickedUp  EventType = "student.picked_up"
	EventStudentEscalated EventType = "student.escalated"

	// Notification attempts.
	EventAttemptSent     EventType = "attempt.sent"
	EventAttemptAccepted EventType = "attempt.accepted"
	EventAttemptDeclined EventType = "attempt.declined"
	EventAttemptTimeout  EventType = "attempt.timeout"
	EventAttemptStale    EventType = "attempt.stale_response"
	EventDeliveryFailed  EventType = "attempt.delivery_failed"
	EventLevelSkipped    EventType = "level.skipped"

	// System events.
	EventSystemStartup  EventType = "system.startup"
	EventSystemShutdown EventType = "system.shutdown"

	// Audit meta events.
	EventAuditDropped EventType = "audit.dropped"
)

// Severity represents the severity level of an audit event.
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// Event is a single audit trail entry.
type Event struct {
	// ID is a unique identifier for this entry.
	ID string `json:"id"`

	// Type is the action that happened.
	Type EventType `json:"type"`

	// Severity indicates the importance of the entry.
	Severity Severity `json:"severity"`

	// Timestamp is when the action happened.
	Timestamp time.Time `json:"timestamp"`

	// Actor is who triggered the action: a teacher, a guardian, or the
	// timeout scanner ("system").
	Actor Actor `json:"actor"`

	// Target is the pickup record the action applies to.
	Target Target `json:"target"`

	// Details carries action-specific fields (role, deadline, outcome).
	Details map[string]interface{} `json:"details,omitempty"`
}

// Actor identifies who triggered an audit entry.
type Actor struct {
	// ID of the teacher or guardian, or "system" for scanner actions.
	ID string `json:"id"`

	// Kind is "teacher", "guardian", or "system".
	Kind string `json:"kind,omitempty"`

	// SourceIP is the request origin when the action came over the API.
	SourceIP string `json:"sourceIP,omitempty"`
}

// Target identifies the pickup record an entry applies to.
type Target struct {
	// EventID is the pickup event.
	EventID string `json:"eventId"`

	// StudentID is set for per-student actions.
	StudentID string `json:"studentId,omitempty"`

	// AttemptID is set for per-attempt actions.
	AttemptID string `json:"attemptId,omitempty"`

	// ClassID of the event, for trail filtering.
	ClassID string `json:"classId,omitempty"`
}

// SeverityForEventType returns the default severity for an event type.
func SeverityForEventType(eventType EventType) Severity {
	switch eventType {
	// A student nobody answered for needs human attention right now.
	case EventStudentEscalated, EventAuditDropped:
		return SeverityCritical

	case EventAttemptTimeout, EventAttemptDeclined, EventDeliveryFailed, EventAttemptStale:
		return SeverityWarning

	default:
		return SeverityInfo
	}
}

// IsSensitiveEvent reports whether an entry must never be dropped under
// backpressure. These are the entries disputes turn on.
func IsSensitiveEvent(eventType EventType) bool {
	switch eventType {
	case EventStudentConfirmed, EventStudentPickedUp, EventStudentEscalated,
		EventAttemptAccepted, EventAttemptDeclined:
		return true
	default:
		return false
	}
}
