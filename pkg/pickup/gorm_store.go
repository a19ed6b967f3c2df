package pickup

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// GormStore persists pickup events in a relational database. Optimistic
// concurrency is enforced with a guarded UPDATE on the escalation's version
// column.
type GormStore struct {
	db  *gorm.DB
	log *zap.SugaredLogger
}

func NewGormStore(db *gorm.DB, log *zap.SugaredLogger) *GormStore {
	return &GormStore{db: db, log: log.Named("pickup-store")}
}

// Migrate creates or updates the pickup tables.
func (s *GormStore) Migrate() error {
	err := s.db.AutoMigrate(&PickupEvent{}, &StudentEscalation{}, &NotificationAttempt{})
	return errors.Wrap(err, "migrating pickup tables")
}

func (s *GormStore) CreateEvent(ctx context.Context, event *PickupEvent) error {
	err := s.db.WithContext(ctx).Create(event).Error
	return errors.Wrapf(err, "creating pickup event %q", event.ID)
}

func (s *GormStore) GetEvent(ctx context.Context, eventID string) (*PickupEvent, error) {
	var event PickupEvent
	err := s.db.WithContext(ctx).
		Preload("Escalations", func(db *gorm.DB) *gorm.DB { return db.Order("student_name") }).
		Preload("Escalations.Attempts", func(db *gorm.DB) *gorm.DB { return db.Order("sent_at") }).
		First(&event, "id = ?", eventID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "loading pickup event %q", eventID)
	}
	return &event, nil
}

func (s *GormStore) SaveEvent(ctx context.Context, event *PickupEvent) error {
	res := s.db.WithContext(ctx).Model(&PickupEvent{}).
		Where("id = ?", event.ID).
		Updates(map[string]interface{}{
			"status":       event.Status,
			"completed_at": event.CompletedAt,
		})
	if res.Error != nil {
		return errors.Wrapf(res.Error, "saving pickup event %q", event.ID)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *GormStore) ListOpenEvents(ctx context.Context) ([]string, error) {
	var ids []string
	err := s.db.WithContext(ctx).Model(&PickupEvent{}).
		Where("status <> ?", EventCompleted).
		Order("id").
		Pluck("id", &ids).Error
	return ids, errors.Wrap(err, "listing open pickup events")
}

func (s *GormStore) GetEscalation(ctx context.Context, eventID, studentID string) (*StudentEscalation, error) {
	var esc StudentEscalation
	err := s.db.WithContext(ctx).
		Preload("Attempts", func(db *gorm.DB) *gorm.DB { return db.Order("sent_at") }).
		First(&esc, "event_id = ? AND student_id = ?", eventID, studentID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrapf(err, "loading escalation for student %q in event %q", studentID, eventID)
	}
	return &esc, nil
}

func (s *GormStore) SaveEscalation(ctx context.Context, esc *StudentEscalation) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&StudentEscalation{}).
			Where("id = ? AND version = ?", esc.ID, esc.Version).
			Updates(map[string]interface{}{
				"status":            esc.Status,
				"level":             esc.Level,
				"confirmed_by":      esc.ConfirmedBy,
				"confirmed_by_role": esc.ConfirmedByRole,
				"confirmed_at":      esc.ConfirmedAt,
				"picked_up_at":      esc.PickedUpAt,
				"version":           esc.Version + 1,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			var count int64
			if err := tx.Model(&StudentEscalation{}).Where("id = ?", esc.ID).Count(&count).Error; err != nil {
				return err
			}
			if count == 0 {
				return ErrNotFound
			}
			return ErrVersionConflict
		}
		for i := range esc.Attempts {
			if err := tx.Save(&esc.Attempts[i]).Error; err != nil {
				return err
			}
		}
		return nil
	})
	if err == nil {
		esc.Version++
		return nil
	}
	if errors.Is(err, ErrNotFound) || errors.Is(err, ErrVersionConflict) {
		return err
	}
	return errors.Wrapf(err, "saving escalation %q", esc.ID)
}

func (s *GormStore) ListEscalations(ctx context.Context, eventID string) ([]StudentEscalation, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&PickupEvent{}).Where("id = ?", eventID).Count(&count).Error; err != nil {
		return nil, errors.Wrapf(err, "checking pickup event %q", eventID)
	}
	if count == 0 {
		return nil, ErrNotFound
	}
	var escs []StudentEscalation
	err := s.db.WithContext(ctx).
		Preload("Attempts", func(db *gorm.DB) *gorm.DB { return db.Order("sent_at") }).
		Where("event_id = ?", eventID).
		Order("student_name").
		Find(&escs).Error
	return escs, errors.Wrapf(err, "listing escalations for event %q", eventID)
}

func (s *GormStore) DueEscalations(ctx context.Context, now time.Time) ([]DueEscalation, error) {
	var due []DueEscalation
	err := s.db.WithContext(ctx).Model(&NotificationAttempt{}).
		Select("DISTINCT student_escalations.event_id, student_escalations.student_id").
		Joins("JOIN student_escalations ON student_escalations.id = notification_attempts.escalation_id").
		Joins("JOIN pickup_events ON pickup_events.id = student_escalations.event_id").
		Where("notification_attempts.response = ?", ResponsePending).
		Where("notification_attempts.deadline <= ?", now).
		Where("pickup_events.status <> ?", EventCompleted).
		Where("student_escalations.status NOT IN ?", []string{StatusConfirmed, StatusPickedUp, StatusEscalated}).
		Order("student_escalations.event_id, student_escalations.student_id").
		Scan(&due).Error
	return due, errors.Wrap(err, "listing due escalations")
}
