package pickup

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/amidulanjana/smart-classroom-sub000/pkg/audit"
	"github.com/amidulanjana/smart-classroom-sub000/pkg/metrics"
	"github.com/amidulanjana/smart-classroom-sub000/pkg/roster"
	"github.com/amidulanjana/smart-classroom-sub000/pkg/system"
)

// systemActor marks trail entries produced by the engine itself (timeouts,
// automatic advances) rather than a person.
const systemActor = "system"

// EngineOptions configures an Engine.
type EngineOptions struct {
	// ResponseTimeout is how long each guardian has to answer before the
	// escalation advances.
	ResponseTimeout time.Duration

	// Now overrides the clock. Tests use this; production leaves it nil.
	Now func() time.Time
}

// Engine walks each student's guardian chain: primary, then secondary, then
// the whole backup circle at once, until someone accepts or the chain is
// exhausted. All state changes to an escalation go through the engine, under
// a per-(event, student) lock, so exactly one response can win.
type Engine struct {
	store    Store
	roster   roster.Roster
	notifier Notifier
	auditor  audit.Recorder
	log      *zap.SugaredLogger
	timeout  time.Duration
	now      func() time.Time

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

// NewEngine creates an escalation engine. A nil auditor disables the trail
// (tests); production always passes the audit service.
func NewEngine(store Store, r roster.Roster, notifier Notifier, auditor audit.Recorder, log *zap.SugaredLogger, opts EngineOptions) *Engine {
	timeout := opts.ResponseTimeout
	if timeout <= 0 {
		timeout = 10 * time.Minute
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	if auditor == nil {
		auditor = audit.Nop{}
	}
	return &Engine{
		store:    store,
		roster:   r,
		notifier: notifier,
		auditor:  auditor,
		log:      log.Named("engine"),
		timeout:  timeout,
		now:      now,
		locks:    map[string]*sync.Mutex{},
	}
}

// lock serializes all work on one student within one event. Lock entries are
// never removed; the map is bounded by students-per-event times open events.
func (e *Engine) lock(eventID, studentID string) func() {
	key := eventID + "/" + studentID
	e.mu.Lock()
	l, ok := e.locks[key]
	if !ok {
		l = &sync.Mutex{}
		e.locks[key] = l
	}
	e.mu.Unlock()
	l.Lock()
	return l.Unlock
}

// StartRequest carries everything needed to open a pickup event.
type StartRequest struct {
	ClassID         string
	InitiatorID     string
	Reason          string
	OriginalEndTime time.Time
	NewPickupTime   time.Time
}

// StartEvent opens an emergency pickup event for a class and immediately
// dispatches the first round of notifications. The returned summary is
// best-effort delivery accounting for the initiating teacher; a failed
// delivery never fails the start.
func (e *Engine) StartEvent(ctx context.Context, req StartRequest) (*PickupEvent, *StartSummary, error) {
	if req.ClassID == "" || req.InitiatorID == "" {
		return nil, nil, errors.Wrap(ErrInvalidTransition, "classId and initiatorId are required")
	}
	class, err := e.roster.GetClass(ctx, req.ClassID)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "loading class %q", req.ClassID)
	}
	if class == nil {
		return nil, nil, errors.Wrapf(ErrNotFound, "class %q", req.ClassID)
	}
	if teacher, err := e.roster.GetTeacher(ctx, req.InitiatorID); err != nil {
		return nil, nil, errors.Wrapf(err, "loading teacher %q", req.InitiatorID)
	} else if teacher == nil {
		return nil, nil, errors.Wrapf(ErrNotFound, "teacher %q", req.InitiatorID)
	}

	students, err := e.roster.ActiveStudentsInClass(ctx, req.ClassID)
	if err != nil {
		return nil, nil, errors.Wrapf(err, "listing students of class %q", req.ClassID)
	}

	now := e.now()
	event := &PickupEvent{
		ID:              uuid.NewString(),
		ClassID:         req.ClassID,
		InitiatorID:     req.InitiatorID,
		Reason:          req.Reason,
		OriginalEndTime: req.OriginalEndTime,
		NewPickupTime:   req.NewPickupTime,
		Status:          EventInitiated,
		CreatedAt:       now,
	}
	for _, st := range students {
		event.Escalations = append(event.Escalations, StudentEscalation{
			ID:          uuid.NewString(),
			EventID:     event.ID,
			StudentID:   st.ID,
			StudentName: st.Name,
			Status:      StatusPending,
			Level:       LevelPrimary,
			CreatedAt:   now,
			UpdatedAt:   now,
		})
	}

	if err := e.store.CreateEvent(ctx, event); err != nil {
		return nil, nil, err
	}
	metrics.EventsCreated.WithLabelValues(req.ClassID).Inc()
	e.auditor.Record(ctx, audit.Event{
		Type:   audit.EventPickupCreated,
		Actor:  audit.Actor{ID: req.InitiatorID, Kind: "teacher"},
		Target: audit.Target{EventID: event.ID, ClassID: req.ClassID},
		Details: map[string]interface{}{
			"reason":        req.Reason,
			"newPickupTime": req.NewPickupTime,
			"students":      len(students),
		},
	})
	e.log.Infow("Pickup event created",
		"event", event.ID, "class", req.ClassID, "initiator", req.InitiatorID, "students", len(students))

	summary := &StartSummary{EventID: event.ID, Students: len(students)}
	for _, st := range students {
		metrics.EscalationsStarted.Inc()
		unlock := e.lock(event.ID, st.ID)
		esc, err := e.store.GetEscalation(ctx, event.ID, st.ID)
		if err != nil {
			unlock()
			return nil, nil, err
		}
		sent, failed, err := e.advance(ctx, event, esc, LevelPrimary)
		if err != nil {
			unlock()
			return nil, nil, err
		}
		if err := e.store.SaveEscalation(ctx, esc); err != nil {
			unlock()
			return nil, nil, err
		}
		unlock()
		summary.NotificationsSent += sent
		summary.NotificationsFailed += failed
		if esc.Status == StatusEscalated {
			summary.EscalatedImmediately++
		}
	}

	event.Status = EventInProgress
	if err := e.store.SaveEvent(ctx, event); err != nil {
		return nil, nil, err
	}
	e.auditor.Record(ctx, audit.Event{
		Type:   audit.EventPickupStarted,
		Actor:  audit.Actor{ID: req.InitiatorID, Kind: "teacher"},
		Target: audit.Target{EventID: event.ID, ClassID: req.ClassID},
		Details: map[string]interface{}{
			"notificationsSent":   summary.NotificationsSent,
			"notificationsFailed": summary.NotificationsFailed,
		},
	})

	// A class with no students is vacuously resolved the moment it starts.
	if err := e.checkCompletion(ctx, event.ID); err != nil {
		return nil, nil, err
	}

	out, err := e.store.GetEvent(ctx, event.ID)
	if err != nil {
		return nil, nil, err
	}
	return out, summary, nil
}

// advance moves an escalation to the given level: it resolves the guardians
// at that level, creates one pending attempt per guardian, and hands the
// notifications to the notifier. An unconfigured level is skipped with a
// zero-latency advance to the next; an exhausted chain marks the student
// escalated. Returns delivery counts. Caller holds the lock and saves.
func (e *Engine) advance(ctx context.Context, event *PickupEvent, esc *StudentEscalation, level int) (sent, failed int, err error) {
	for lvl := level; lvl <= LevelBackup; lvl++ {
		guardians, lookupErr := e.guardiansAt(ctx, esc.StudentID, lvl)
		if lookupErr != nil {
			return sent, failed, lookupErr
		}
		if len(guardians) == 0 {
			e.auditor.Record(ctx, audit.Event{
				Type:   audit.EventLevelSkipped,
				Actor:  audit.Actor{ID: systemActor, Kind: systemActor},
				Target: audit.Target{EventID: event.ID, StudentID: esc.StudentID},
				Details: map[string]interface{}{
					"level": lvl, "role": roleForLevel(lvl),
				},
			})
			e.log.Debugw("No guardian configured at level, skipping",
				system.EventFields(event.ID, esc.StudentID)...)
			continue
		}

		now := e.now()
		deadline := now.Add(e.timeout)
		role := roleForLevel(lvl)
		esc.Level = lvl
		esc.Status = statusForLevel(lvl)

		for i := range guardians {
			g := &guardians[i]
			attempt := NotificationAttempt{
				ID:            uuid.NewString(),
				EscalationID:  esc.ID,
				RecipientID:   g.ID,
				RecipientName: g.Name,
				Role:          role,
				SentAt:        now,
				Deadline:      deadline,
				Response:      ResponsePending,
				CreatedAt:     now,
			}

			n := buildNotification(event, esc, g, role, attempt.ID, deadline)
			if sendErr := e.notifier.Send(ctx, n); sendErr != nil {
				// Failed delivery degrades to silence; the deadline still
				// advances the escalation.
				attempt.DeliveryError = sendErr.Error()
				failed++
				metrics.NotificationsFailed.WithLabelValues(role).Inc()
				e.auditor.Record(ctx, audit.Event{
					Type:   audit.EventDeliveryFailed,
					Actor:  audit.Actor{ID: systemActor, Kind: systemActor},
					Target: audit.Target{EventID: event.ID, StudentID: esc.StudentID, AttemptID: attempt.ID},
					Details: map[string]interface{}{
						"guardian": g.ID, "role": role, "error": sendErr.Error(),
					},
				})
				e.log.Warnw("Notification delivery failed",
					"event", event.ID, "student", esc.StudentID, "guardian", g.ID, "role", role, "error", sendErr)
			} else {
				sent++
				metrics.NotificationsSent.WithLabelValues(role).Inc()
				e.auditor.Record(ctx, audit.Event{
					Type:   audit.EventAttemptSent,
					Actor:  audit.Actor{ID: systemActor, Kind: systemActor},
					Target: audit.Target{EventID: event.ID, StudentID: esc.StudentID, AttemptID: attempt.ID},
					Details: map[string]interface{}{
						"guardian": g.ID, "role": role, "deadline": deadline,
					},
				})
			}
			esc.Attempts = append(esc.Attempts, attempt)
		}

		e.auditor.Record(ctx, audit.Event{
			Type:   audit.EventStudentNotified,
			Actor:  audit.Actor{ID: systemActor, Kind: systemActor},
			Target: audit.Target{EventID: event.ID, StudentID: esc.StudentID},
			Details: map[string]interface{}{
				"level": lvl, "role": role, "guardians": len(guardians),
			},
		})
		return sent, failed, nil
	}

	e.markEscalated(ctx, event, esc)
	return sent, failed, nil
}

func (e *Engine) guardiansAt(ctx context.Context, studentID string, level int) ([]roster.Guardian, error) {
	switch level {
	case LevelPrimary:
		g, err := e.roster.PrimaryGuardianOf(ctx, studentID)
		if err != nil || g == nil {
			return nil, err
		}
		return []roster.Guardian{*g}, nil
	case LevelSecondary:
		g, err := e.roster.SecondaryGuardianOf(ctx, studentID)
		if err != nil || g == nil {
			return nil, err
		}
		return []roster.Guardian{*g}, nil
	default:
		return e.roster.BackupCircleOf(ctx, studentID)
	}
}

func (e *Engine) markEscalated(ctx context.Context, event *PickupEvent, esc *StudentEscalation) {
	esc.Status = StatusEscalated
	metrics.EscalationsUnresolved.Inc()
	e.auditor.Record(ctx, audit.Event{
		Type:   audit.EventStudentEscalated,
		Actor:  audit.Actor{ID: systemActor, Kind: systemActor},
		Target: audit.Target{EventID: event.ID, StudentID: esc.StudentID},
	})
	e.log.Warnw("Guardian chain exhausted, student escalated",
		system.EventFields(event.ID, esc.StudentID)...)

	// Urgent broadcast: the office needs a human on this now. Informational,
	// so delivery failures are logged and nothing else.
	if t, err := e.roster.GetTeacher(ctx, event.InitiatorID); err == nil && t != nil {
		e.sendInfo(ctx, event, esc, KindAlert, roster.Guardian{ID: t.ID, Name: t.Name, Email: t.Email}, "teacher")
	}
	e.notifyEarlierGuardians(ctx, event, esc, KindAlert)
}

// notifyEarlierGuardians sends an informational message to the student's
// primary and secondary guardians, where configured.
func (e *Engine) notifyEarlierGuardians(ctx context.Context, event *PickupEvent, esc *StudentEscalation, kind string) {
	if g, err := e.roster.PrimaryGuardianOf(ctx, esc.StudentID); err == nil && g != nil {
		e.sendInfo(ctx, event, esc, kind, *g, roster.RolePrimary)
	}
	if g, err := e.roster.SecondaryGuardianOf(ctx, esc.StudentID); err == nil && g != nil {
		e.sendInfo(ctx, event, esc, kind, *g, roster.RoleSecondary)
	}
}

// sendInfo delivers an informational broadcast. No attempt is created and no
// response is expected; failures are logged only.
func (e *Engine) sendInfo(ctx context.Context, event *PickupEvent, esc *StudentEscalation, kind string, g roster.Guardian, role string) {
	n := Notification{
		EventID:       event.ID,
		GuardianID:    g.ID,
		GuardianName:  g.Name,
		GuardianEmail: g.Email,
		Role:          role,
		Kind:          kind,
		Reason:        event.Reason,
		NewPickupTime: event.NewPickupTime,
		Escalation:    kind == KindAlert,
	}
	if esc != nil {
		n.StudentID = esc.StudentID
		n.StudentName = esc.StudentName
	}
	if err := e.notifier.Send(ctx, n); err != nil {
		e.log.Warnw("Informational notification failed",
			"event", event.ID, "recipient", g.ID, "role", role, "kind", kind, "error", err)
	}
}

// Respond applies a guardian's accept or decline. The first response to a
// pending attempt wins; anything later is reported as stale, never as an
// error, so a guardian tapping a minute too late sees "already handled"
// rather than a failure.
func (e *Engine) Respond(ctx context.Context, eventID, studentID, guardianID, attemptID string, accept bool) (*RespondOutcome, error) {
	unlock := e.lock(eventID, studentID)
	defer unlock()

	event, err := e.store.GetEvent(ctx, eventID)
	if err != nil {
		return nil, err
	}
	esc, err := e.store.GetEscalation(ctx, eventID, studentID)
	if err != nil {
		return nil, err
	}

	var attempt *NotificationAttempt
	if attemptID != "" {
		attempt = esc.AttemptByID(attemptID)
		if attempt == nil {
			return nil, errors.Wrapf(ErrNotFound, "attempt %q", attemptID)
		}
		if attempt.RecipientID != guardianID {
			return nil, errors.Wrapf(ErrInvalidTransition, "attempt %q is not addressed to guardian %q", attemptID, guardianID)
		}
	} else {
		attempt = esc.PendingAttemptFor(guardianID)
	}

	stale := esc.Terminal() || attempt == nil || attempt.Response != ResponsePending
	if stale {
		metrics.StaleResponses.Inc()
		target := audit.Target{EventID: eventID, StudentID: studentID}
		if attempt != nil {
			target.AttemptID = attempt.ID
		}
		e.auditor.Record(ctx, audit.Event{
			Type:    audit.EventAttemptStale,
			Actor:   audit.Actor{ID: guardianID, Kind: "guardian"},
			Target:  target,
			Details: map[string]interface{}{"accept": accept},
		})
		e.log.Infow("Stale guardian response ignored",
			"event", eventID, "student", studentID, "guardian", guardianID, "accept", accept)
		return &RespondOutcome{EventID: eventID, StudentID: studentID, Status: esc.Status, Stale: true}, nil
	}

	now := e.now()
	attempt.RespondedAt = &now

	if accept {
		attempt.Response = ResponseAccepted
		metrics.ResponsesReceived.WithLabelValues(ResponseAccepted).Inc()
		e.auditor.Record(ctx, audit.Event{
			Type:   audit.EventAttemptAccepted,
			Actor:  audit.Actor{ID: guardianID, Kind: "guardian"},
			Target: audit.Target{EventID: eventID, StudentID: studentID, AttemptID: attempt.ID},
		})

		// Siblings in a backup fan-out lose the race; their asks are
		// withdrawn so a second acceptance can only ever be stale.
		for _, sibling := range esc.PendingAttempts() {
			sibling.Response = ResponseTimeout
			sibling.RespondedAt = &now
		}

		esc.Status = StatusConfirmed
		esc.ConfirmedBy = &attempt.RecipientID
		esc.ConfirmedByRole = attempt.Role
		esc.ConfirmedAt = &now
		metrics.EscalationsConfirmed.WithLabelValues(attempt.Role).Inc()
		e.auditor.Record(ctx, audit.Event{
			Type:    audit.EventStudentConfirmed,
			Actor:   audit.Actor{ID: guardianID, Kind: "guardian"},
			Target:  audit.Target{EventID: eventID, StudentID: studentID},
			Details: map[string]interface{}{"role": attempt.Role},
		})
		e.log.Infow("Pickup confirmed",
			"event", eventID, "student", studentID, "guardian", guardianID, "role", attempt.Role)

		// When a backup steps in, tell the guardians who were asked first
		// that the pickup is handled.
		if attempt.Role == roster.RoleBackup {
			e.notifyEarlierGuardians(ctx, event, esc, KindNotice)
		}
	} else {
		attempt.Response = ResponseDeclined
		metrics.ResponsesReceived.WithLabelValues(ResponseDeclined).Inc()
		e.auditor.Record(ctx, audit.Event{
			Type:   audit.EventAttemptDeclined,
			Actor:  audit.Actor{ID: guardianID, Kind: "guardian"},
			Target: audit.Target{EventID: eventID, StudentID: studentID, AttemptID: attempt.ID},
		})
		e.log.Infow("Pickup declined",
			"event", eventID, "student", studentID, "guardian", guardianID, "role", attempt.Role)

		// In a backup fan-out one decline does not end the level; the
		// remaining circle members still have time.
		if len(esc.PendingAttempts()) == 0 {
			if _, _, err := e.advance(ctx, event, esc, esc.Level+1); err != nil {
				return nil, err
			}
		}
	}

	if err := e.store.SaveEscalation(ctx, esc); err != nil {
		return nil, err
	}
	if esc.Resolved() {
		if err := e.checkCompletion(ctx, eventID); err != nil {
			return nil, err
		}
	}
	return &RespondOutcome{EventID: eventID, StudentID: studentID, Status: esc.Status}, nil
}

// MarkPickedUp records the physical handover for a confirmed student. It is
// valid only from confirmed; any other status, including a repeated call on
// an already picked up student, is an invalid transition.
func (e *Engine) MarkPickedUp(ctx context.Context, eventID, studentID, actorID string) (*StudentEscalation, error) {
	unlock := e.lock(eventID, studentID)
	defer unlock()

	esc, err := e.store.GetEscalation(ctx, eventID, studentID)
	if err != nil {
		return nil, err
	}
	if esc.Status != StatusConfirmed {
		return nil, errors.Wrapf(ErrInvalidTransition, "cannot mark picked up from status %q", esc.Status)
	}

	now := e.now()
	esc.Status = StatusPickedUp
	esc.PickedUpAt = &now
	if err := e.store.SaveEscalation(ctx, esc); err != nil {
		return nil, err
	}
	metrics.StudentsPickedUp.Inc()
	e.auditor.Record(ctx, audit.Event{
		Type:   audit.EventStudentPickedUp,
		Actor:  audit.Actor{ID: actorID, Kind: "teacher"},
		Target: audit.Target{EventID: eventID, StudentID: studentID},
	})
	e.log.Infow("Student picked up", "event", eventID, "student", studentID, "by", actorID)
	return esc, nil
}

// GetStatus returns the full event aggregate.
func (e *Engine) GetStatus(ctx context.Context, eventID string) (*PickupEvent, error) {
	return e.store.GetEvent(ctx, eventID)
}

// ScanTimeouts sweeps all open events for pending attempts whose deadline is
// at or before now, closes them as timeouts, and advances the affected
// escalations. It is the engine's only clock-driven entry point: callers own
// the cadence, the engine owns the transitions. Returns the number of
// attempts it closed.
func (e *Engine) ScanTimeouts(ctx context.Context, now time.Time) (int, error) {
	metrics.ScanSweeps.Inc()
	due, err := e.store.DueEscalations(ctx, now)
	if err != nil {
		return 0, err
	}

	advanced := 0
	for _, d := range due {
		closed, err := e.timeoutEscalation(ctx, d.EventID, d.StudentID, now)
		if err != nil {
			// One stuck record must not stall the sweep for the rest.
			e.log.Errorw("Timeout advance failed",
				"event", d.EventID, "student", d.StudentID, "error", err)
			continue
		}
		advanced += closed
	}
	return advanced, nil
}

// timeoutEscalation closes every overdue pending attempt of one escalation
// and advances it when none remain open. Returns the number of attempts
// closed.
func (e *Engine) timeoutEscalation(ctx context.Context, eventID, studentID string, now time.Time) (int, error) {
	unlock := e.lock(eventID, studentID)
	defer unlock()

	event, err := e.store.GetEvent(ctx, eventID)
	if err != nil {
		return 0, err
	}
	esc, err := e.store.GetEscalation(ctx, eventID, studentID)
	if err != nil {
		return 0, err
	}
	// A response may have landed between the sweep query and taking the
	// lock; the reload above is authoritative.
	if esc.Terminal() {
		return 0, nil
	}

	closed := 0
	for _, attempt := range esc.PendingAttempts() {
		if attempt.Deadline.After(now) {
			continue
		}
		t := now
		attempt.Response = ResponseTimeout
		attempt.RespondedAt = &t
		closed++
		metrics.TimeoutsAdvanced.Inc()
		e.auditor.Record(ctx, audit.Event{
			Type:   audit.EventAttemptTimeout,
			Actor:  audit.Actor{ID: systemActor, Kind: systemActor},
			Target: audit.Target{EventID: eventID, StudentID: studentID, AttemptID: attempt.ID},
			Details: map[string]interface{}{
				"guardian": attempt.RecipientID, "role": attempt.Role, "deadline": attempt.Deadline,
			},
		})
	}
	if closed == 0 {
		return 0, nil
	}
	e.log.Infow("Attempts timed out",
		"event", eventID, "student", studentID, "closed", closed, "level", esc.Level)

	if len(esc.PendingAttempts()) == 0 {
		if _, _, err := e.advance(ctx, event, esc, esc.Level+1); err != nil {
			return closed, err
		}
	}
	// A timeout can only advance or escalate, never resolve, so there is no
	// completion to check here.
	return closed, e.store.SaveEscalation(ctx, esc)
}

// checkCompletion completes the event once every student is confirmed or
// picked up, and records the completion report. An escalated student never
// counts as resolved: the event stays in_progress until a human closes the
// gap, which is the designed outcome, not a stall.
func (e *Engine) checkCompletion(ctx context.Context, eventID string) error {
	// Two students can resolve at the same instant under different student
	// locks; completion itself is serialized on an event-level slot (the
	// empty student key) so only one caller flips the status and sends the
	// notice. The reload below then sees completed and returns.
	unlock := e.lock(eventID, "")
	defer unlock()

	event, err := e.store.GetEvent(ctx, eventID)
	if err != nil {
		return err
	}
	if event.Status == EventCompleted {
		return nil
	}
	escs, err := e.store.ListEscalations(ctx, eventID)
	if err != nil {
		return err
	}
	for i := range escs {
		if !escs[i].Resolved() {
			return nil
		}
	}

	now := e.now()
	event.Status = EventCompleted
	event.CompletedAt = &now
	if err := e.store.SaveEvent(ctx, event); err != nil {
		return err
	}

	report := BuildReport(event, escs)
	metrics.EventsCompleted.WithLabelValues(event.ClassID).Inc()
	e.auditor.Record(ctx, audit.Event{
		Type:   audit.EventPickupCompleted,
		Actor:  audit.Actor{ID: systemActor, Kind: systemActor},
		Target: audit.Target{EventID: eventID, ClassID: event.ClassID},
		Details: map[string]interface{}{
			"students":  report.Students,
			"pickedUp":  report.PickedUp,
			"confirmed": report.Confirmed,
			"escalated": report.Escalated,
			"duration":  report.Duration.String(),
		},
	})
	e.log.Infow("Pickup event completed",
		"event", eventID, "class", event.ClassID,
		"students", report.Students, "confirmed", report.Confirmed,
		"pickedUp", report.PickedUp, "escalated", report.Escalated,
		"duration", report.Duration)

	if t, err := e.roster.GetTeacher(ctx, event.InitiatorID); err == nil && t != nil {
		e.sendInfo(ctx, event, nil, KindNotice, roster.Guardian{ID: t.ID, Name: t.Name, Email: t.Email}, "teacher")
	}
	return nil
}

func roleForLevel(level int) string {
	switch level {
	case LevelPrimary:
		return roster.RolePrimary
	case LevelSecondary:
		return roster.RoleSecondary
	default:
		return roster.RoleBackup
	}
}

func statusForLevel(level int) string {
	switch level {
	case LevelPrimary:
		return StatusPrimaryNotified
	case LevelSecondary:
		return StatusSecondaryNotified
	default:
		return StatusBackupNotified
	}
}
