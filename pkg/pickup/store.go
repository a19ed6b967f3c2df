package pickup

import (
	"context"
	"sort"
	"sync"
	"time"
)

// DueEscalation identifies an escalation holding at least one pending
// notification attempt whose deadline has passed.
type DueEscalation struct {
	EventID   string
	StudentID string
}

// Store persists pickup events and their escalations. Implementations must
// enforce optimistic concurrency on SaveEscalation: a save whose Version does
// not match the stored record fails with ErrVersionConflict, and a successful
// save increments Version by one.
type Store interface {
	CreateEvent(ctx context.Context, event *PickupEvent) error
	GetEvent(ctx context.Context, eventID string) (*PickupEvent, error)
	SaveEvent(ctx context.Context, event *PickupEvent) error
	ListOpenEvents(ctx context.Context) ([]string, error)

	GetEscalation(ctx context.Context, eventID, studentID string) (*StudentEscalation, error)
	SaveEscalation(ctx context.Context, esc *StudentEscalation) error
	ListEscalations(ctx context.Context, eventID string) ([]StudentEscalation, error)

	// DueEscalations returns identifiers of escalations with a pending
	// attempt whose deadline is at or before now, across all open events.
	DueEscalations(ctx context.Context, now time.Time) ([]DueEscalation, error)
}

// MemoryStore is an in-memory Store used in tests and single-node setups.
type MemoryStore struct {
	mu          sync.RWMutex
	events      map[string]*PickupEvent
	escalations map[string]map[string]*StudentEscalation // eventID -> studentID
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		events:      map[string]*PickupEvent{},
		escalations: map[string]map[string]*StudentEscalation{},
	}
}

func (m *MemoryStore) CreateEvent(_ context.Context, event *PickupEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	ev := copyEvent(event)
	byStudent := map[string]*StudentEscalation{}
	for i := range event.Escalations {
		esc := copyEscalation(&event.Escalations[i])
		byStudent[esc.StudentID] = esc
	}
	ev.Escalations = nil
	m.events[ev.ID] = ev
	m.escalations[ev.ID] = byStudent
	return nil
}

func (m *MemoryStore) GetEvent(_ context.Context, eventID string) (*PickupEvent, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ev, ok := m.events[eventID]
	if !ok {
		return nil, ErrNotFound
	}
	out := copyEvent(ev)
	out.Escalations = m.sortedEscalationsLocked(eventID)
	return out, nil
}

func (m *MemoryStore) SaveEvent(_ context.Context, event *PickupEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.events[event.ID]; !ok {
		return ErrNotFound
	}
	ev := copyEvent(event)
	ev.Escalations = nil
	m.events[event.ID] = ev
	return nil
}

func (m *MemoryStore) ListOpenEvents(_ context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var ids []string
	for id, ev := range m.events {
		if ev.Status != EventCompleted {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids, nil
}

func (m *MemoryStore) GetEscalation(_ context.Context, eventID, studentID string) (*StudentEscalation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	byStudent, ok := m.escalations[eventID]
	if !ok {
		return nil, ErrNotFound
	}
	esc, ok := byStudent[studentID]
	if !ok {
		return nil, ErrNotFound
	}
	return copyEscalation(esc), nil
}

func (m *MemoryStore) SaveEscalation(_ context.Context, esc *StudentEscalation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	byStudent, ok := m.escalations[esc.EventID]
	if !ok {
		return ErrNotFound
	}
	current, ok := byStudent[esc.StudentID]
	if !ok {
		return ErrNotFound
	}
	if current.Version != esc.Version {
		return ErrVersionConflict
	}
	saved := copyEscalation(esc)
	saved.Version++
	saved.UpdatedAt = time.Now()
	byStudent[esc.StudentID] = saved
	esc.Version = saved.Version
	return nil
}

func (m *MemoryStore) ListEscalations(_ context.Context, eventID string) ([]StudentEscalation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if _, ok := m.escalations[eventID]; !ok {
		return nil, ErrNotFound
	}
	return m.sortedEscalationsLocked(eventID), nil
}

func (m *MemoryStore) DueEscalations(_ context.Context, now time.Time) ([]DueEscalation, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	var due []DueEscalation
	for eventID, ev := range m.events {
		if ev.Status == EventCompleted {
			continue
		}
		for studentID, esc := range m.escalations[eventID] {
			if esc.Terminal() {
				continue
			}
			for i := range esc.Attempts {
				a := &esc.Attempts[i]
				if a.Response == ResponsePending && !a.Deadline.After(now) {
					due = append(due, DueEscalation{EventID: eventID, StudentID: studentID})
					break
				}
			}
		}
	}
	sort.Slice(due, func(i, j int) bool {
		if due[i].EventID != due[j].EventID {
			return due[i].EventID < due[j].EventID
		}
		return due[i].StudentID < due[j].StudentID
	})
	return due, nil
}

func (m *MemoryStore) sortedEscalationsLocked(eventID string) []StudentEscalation {
	byStudent := m.escalations[eventID]
	out := make([]StudentEscalation, 0, len(byStudent))
	for _, esc := range byStudent {
		out = append(out, *copyEscalation(esc))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StudentName < out[j].StudentName })
	return out
}

func copyEvent(ev *PickupEvent) *PickupEvent {
	out := *ev
	if ev.CompletedAt != nil {
		t := *ev.CompletedAt
		out.CompletedAt = &t
	}
	return &out
}

func copyEscalation(esc *StudentEscalation) *StudentEscalation {
	out := *esc
	out.Attempts = make([]NotificationAttempt, len(esc.Attempts))
	copy(out.Attempts, esc.Attempts)
	for i := range out.Attempts {
		if esc.Attempts[i].RespondedAt != nil {
			t := *esc.Attempts[i].RespondedAt
			out.Attempts[i].RespondedAt = &t
		}
	}
	if esc.ConfirmedBy != nil {
		s := *esc.ConfirmedBy
		out.ConfirmedBy = &s
	}
	if esc.ConfirmedAt != nil {
		t := *esc.ConfirmedAt
		out.ConfirmedAt = &t
	}
	if esc.PickedUpAt != nil {
		t := *esc.PickedUpAt
		out.PickedUpAt = &t
	}
	return &out
}
