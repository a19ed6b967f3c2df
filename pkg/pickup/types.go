package pickup

import (
	"time"
)

// PickupEvent status values.
const (
	EventInitiated  = "initiated"
	EventInProgress = "in_progress"
	EventCompleted  = "completed"
)

// StudentEscalation status values.
const (
	StatusPending           = "pending"
	StatusPrimaryNotified   = "primary_notified"
	StatusSecondaryNotified = "secondary_notified"
	StatusBackupNotified    = "backup_notified"
	StatusConfirmed         = "confirmed"
	StatusPickedUp          = "picked_up"
	StatusEscalated         = "escalated"
)

// Escalation levels index into the guardian chain.
const (
	LevelPrimary   = 0
	LevelSecondary = 1
	LevelBackup    = 2
)

// NotificationAttempt response values.
const (
	ResponsePending  = "pending"
	ResponseAccepted = "accepted"
	ResponseDeclined = "declined"
	ResponseTimeout  = "timeout"
)

// PickupEvent is one emergency dismissal for one class. It is the aggregate
// root: it exclusively owns its StudentEscalations and is never deleted (the
// whole aggregate is the audit record of who was asked and who answered).
type PickupEvent struct {
	ID              string     `gorm:"type:varchar(36);primaryKey" json:"id"`
	ClassID         string     `gorm:"type:varchar(36);index;not null" json:"classId"`
	InitiatorID     string     `gorm:"type:varchar(36);not null" json:"initiatorId"`
	Reason          string     `gorm:"type:text" json:"reason"`
	OriginalEndTime time.Time  `json:"originalEndTime"`
	NewPickupTime   time.Time  `json:"newPickupTime"`
	Status          string     `gorm:"type:varchar(16);index;not null" json:"status"`
	CreatedAt       time.Time  `json:"createdAt"`
	CompletedAt     *time.Time `json:"completedAt,omitempty"`

	Escalations []StudentEscalation `gorm:"foreignKey:EventID" json:"escalations"`
}

// StudentEscalation tracks one student's progress through the guardian chain
// within a PickupEvent. The set of escalations is fixed when the event is
// created and never mutated afterwards.
type StudentEscalation struct {
	ID              string     `gorm:"type:varchar(36);primaryKey" json:"id"`
	EventID         string     `gorm:"type:varchar(36);index;not null" json:"eventId"`
	StudentID       string     `gorm:"type:varchar(36);index;not null" json:"studentId"`
	StudentName     string     `gorm:"type:varchar(100)" json:"studentName"`
	Status          string     `gorm:"type:varchar(24);not null" json:"status"`
	Level           int        `json:"level"`
	ConfirmedBy     *string    `gorm:"type:varchar(36)" json:"confirmedBy,omitempty"`
	ConfirmedByRole string     `gorm:"type:varchar(16)" json:"confirmedByRole,omitempty"`
	ConfirmedAt     *time.Time `json:"confirmedAt,omitempty"`
	PickedUpAt      *time.Time `json:"pickedUpAt,omitempty"`
	// Version guards concurrent writers: saves carry the version they read
	// and fail with ErrVersionConflict if another writer got there first.
	Version   int64     `json:"-"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`

	// Attempts is the append-only notification history, oldest first.
	Attempts []NotificationAttempt `gorm:"foreignKey:EscalationID" json:"attempts"`
}

// Resolved reports whether the student no longer needs escalation work.
func (e *StudentEscalation) Resolved() bool {
	return e.Status == StatusConfirmed || e.Status == StatusPickedUp
}

// Terminal reports whether the escalation can never change again except for
// confirmed -> picked_up.
func (e *StudentEscalation) Terminal() bool {
	return e.Resolved() || e.Status == StatusEscalated
}

// PendingAttempts returns pointers into Attempts for every attempt still
// awaiting a response.
func (e *StudentEscalation) PendingAttempts() []*NotificationAttempt {
	var pending []*NotificationAttempt
	for i := range e.Attempts {
		if e.Attempts[i].Response == ResponsePending {
			pending = append(pending, &e.Attempts[i])
		}
	}
	return pending
}

// AttemptByID returns a pointer into Attempts, or nil.
func (e *StudentEscalation) AttemptByID(attemptID string) *NotificationAttempt {
	for i := range e.Attempts {
		if e.Attempts[i].ID == attemptID {
			return &e.Attempts[i]
		}
	}
	return nil
}

// PendingAttemptFor returns the pending attempt addressed to the guardian, or nil.
func (e *StudentEscalation) PendingAttemptFor(guardianID string) *NotificationAttempt {
	for i := range e.Attempts {
		if e.Attempts[i].RecipientID == guardianID && e.Attempts[i].Response == ResponsePending {
			return &e.Attempts[i]
		}
	}
	return nil
}

// NotificationAttempt is one ask sent to one guardian. Attempts are created
// by the engine when it advances to a level and closed exactly once, by the
// first accepted/declined response or by timeout.
type NotificationAttempt struct {
	ID            string     `gorm:"type:varchar(36);primaryKey" json:"id"`
	EscalationID  string     `gorm:"type:varchar(36);index;not null" json:"escalationId"`
	RecipientID   string     `gorm:"type:varchar(36);index;not null" json:"recipientId"`
	RecipientName string     `gorm:"type:varchar(100)" json:"recipientName"`
	Role          string     `gorm:"type:varchar(16);not null" json:"role"` // primary, secondary, backup
	SentAt        time.Time  `json:"sentAt"`
	Deadline      time.Time  `gorm:"index" json:"deadline"`
	Response      string     `gorm:"type:varchar(16);index;not null" json:"response"`
	RespondedAt   *time.Time `json:"respondedAt,omitempty"`
	// DeliveryError records a failed push/mail delivery. A failed delivery
	// degrades to a silent non-response; the deadline still advances the
	// escalation.
	DeliveryError string    `gorm:"type:text" json:"deliveryError,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

// StartSummary is the best-effort report returned to the initiating teacher
// immediately after StartEvent.
type StartSummary struct {
	EventID             string `json:"eventId"`
	Students            int    `json:"students"`
	NotificationsSent   int    `json:"notificationsSent"`
	NotificationsFailed int    `json:"notificationsFailed"`
	EscalatedImmediately int   `json:"escalatedImmediately"`
}

// RespondOutcome reports the effect of applying a guardian response.
type RespondOutcome struct {
	EventID   string `json:"eventId"`
	StudentID string `json:"studentId"`
	Status    string `json:"status"`
	// Stale is true when the response arrived after its attempt was already
	// closed by a competing response or timeout. Stale responses are benign
	// no-ops, not errors.
	Stale bool `json:"stale"`
}
