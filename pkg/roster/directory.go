// Package roster holds the referenced school entities (classes, students,
// teachers, guardians) and the guardian directory the escalation engine
// consults. The engine reads from this package; it never mutates it.
package roster

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// GuardianDirectory resolves, for a student, the ordered contact chain the
// escalation engine walks: one primary, one secondary, zero-or-more backup
// circle members ordered by priority. A nil guardian with a nil error means
// "nothing configured at this level".
type GuardianDirectory interface {
	PrimaryGuardianOf(ctx context.Context, studentID string) (*Guardian, error)
	SecondaryGuardianOf(ctx context.Context, studentID string) (*Guardian, error)
	BackupCircleOf(ctx context.Context, studentID string) ([]Guardian, error)
}

// Roster combines the guardian directory with the class/enrollment lookups the
// engine needs when an event starts.
type Roster interface {
	GuardianDirectory
	ActiveStudentsInClass(ctx context.Context, classID string) ([]Student, error)
	GetStudent(ctx context.Context, studentID string) (*Student, error)
	GetTeacher(ctx context.Context, teacherID string) (*Teacher, error)
	GetClass(ctx context.Context, classID string) (*Class, error)
}

// DBRoster is the MySQL-backed roster.
type DBRoster struct {
	db  *gorm.DB
	log *zap.SugaredLogger
}

// NewDBRoster creates a roster backed by the given gorm connection.
func NewDBRoster(db *gorm.DB, log *zap.SugaredLogger) *DBRoster {
	return &DBRoster{db: db, log: log}
}

// Migrate creates the roster tables.
func (r *DBRoster) Migrate() error {
	return r.db.AutoMigrate(&Class{}, &Student{}, &Enrollment{}, &Guardian{}, &GuardianLink{}, &Teacher{})
}

func (r *DBRoster) guardianInRole(ctx context.Context, studentID, role string) (*Guardian, error) {
	var link GuardianLink
	err := r.db.WithContext(ctx).
		Where("student_id = ? AND role = ? AND active = ?", studentID, role, true).
		Order("priority ASC").
		First(&link).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "looking up %s guardian link for student %s", role, studentID)
	}

	var guardian Guardian
	err = r.db.WithContext(ctx).
		Where("id = ? AND active = ?", link.GuardianID, true).
		First(&guardian).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Link points at a deactivated guardian; same as not configured.
			r.log.Debugw("Guardian link targets inactive guardian", "student", studentID, "guardian", link.GuardianID, "role", role)
			return nil, nil
		}
		return nil, errors.Wrapf(err, "loading guardian %s", link.GuardianID)
	}
	return &guardian, nil
}

// PrimaryGuardianOf returns the student's primary guardian, or nil if none is configured.
func (r *DBRoster) PrimaryGuardianOf(ctx context.Context, studentID string) (*Guardian, error) {
	return r.guardianInRole(ctx, studentID, RolePrimary)
}

// SecondaryGuardianOf returns the student's secondary guardian, or nil if none is configured.
func (r *DBRoster) SecondaryGuardianOf(ctx context.Context, studentID string) (*Guardian, error) {
	return r.guardianInRole(ctx, studentID, RoleSecondary)
}

// BackupCircleOf returns the student's active backup circle ordered by priority.
// The returned slice may be empty.
func (r *DBRoster) BackupCircleOf(ctx context.Context, studentID string) ([]Guardian, error) {
	var links []GuardianLink
	err := r.db.WithContext(ctx).
		Where("student_id = ? AND role = ? AND active = ?", studentID, RoleBackup, true).
		Order("priority ASC").
		Find(&links).Error
	if err != nil {
		return nil, errors.Wrapf(err, "listing backup circle for student %s", studentID)
	}

	circle := make([]Guardian, 0, len(links))
	for _, link := range links {
		var guardian Guardian
		err := r.db.WithContext(ctx).
			Where("id = ? AND active = ?", link.GuardianID, true).
			First(&guardian).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return nil, errors.Wrapf(err, "loading backup guardian %s", link.GuardianID)
		}
		circle = append(circle, guardian)
	}
	return circle, nil
}

// ActiveStudentsInClass returns the students actively enrolled in the class.
func (r *DBRoster) ActiveStudentsInClass(ctx context.Context, classID string) ([]Student, error) {
	var enrollments []Enrollment
	err := r.db.WithContext(ctx).
		Where("class_id = ? AND active = ?", classID, true).
		Find(&enrollments).Error
	if err != nil {
		return nil, errors.Wrapf(err, "listing enrollments for class %s", classID)
	}

	students := make([]Student, 0, len(enrollments))
	for _, enrollment := range enrollments {
		var student Student
		err := r.db.WithContext(ctx).
			Where("id = ? AND active = ?", enrollment.StudentID, true).
			First(&student).Error
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				continue
			}
			return nil, errors.Wrapf(err, "loading student %s", enrollment.StudentID)
		}
		students = append(students, student)
	}
	return students, nil
}

// GetStudent loads a single student by id; returns nil if unknown.
func (r *DBRoster) GetStudent(ctx context.Context, studentID string) (*Student, error) {
	var student Student
	err := r.db.WithContext(ctx).Where("id = ?", studentID).First(&student).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "loading student %s", studentID)
	}
	return &student, nil
}

// GetTeacher loads a single teacher by id; returns nil if unknown.
func (r *DBRoster) GetTeacher(ctx context.Context, teacherID string) (*Teacher, error) {
	var teacher Teacher
	err := r.db.WithContext(ctx).Where("id = ?", teacherID).First(&teacher).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "loading teacher %s", teacherID)
	}
	return &teacher, nil
}

// GetClass loads a single class by id; returns nil if unknown.
func (r *DBRoster) GetClass(ctx context.Context, classID string) (*Class, error) {
	var class Class
	err := r.db.WithContext(ctx).Where("id = ?", classID).First(&class).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, errors.Wrapf(err, "loading class %s", classID)
	}
	return &class, nil
}
