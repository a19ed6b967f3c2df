package roster

import (
	"context"
	"sync"
)

// FakeRoster is an in-memory Roster for tests and local development.
type FakeRoster struct {
	mu        sync.RWMutex
	classes   map[string]Class
	students  map[string]Student
	teachers  map[string]Teacher
	byClass   map[string][]string // classID -> student IDs in insertion order
	primary   map[string]Guardian
	secondary map[string]Guardian
	backup    map[string][]Guardian
}

// NewFakeRoster returns an empty fake roster.
func NewFakeRoster() *FakeRoster {
	return &FakeRoster{
		classes:   map[string]Class{},
		students:  map[string]Student{},
		teachers:  map[string]Teacher{},
		byClass:   map[string][]string{},
		primary:   map[string]Guardian{},
		secondary: map[string]Guardian{},
		backup:    map[string][]Guardian{},
	}
}

// AddClass registers a class.
func (f *FakeRoster) AddClass(class Class) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.classes[class.ID] = class
}

// AddTeacher registers a teacher.
func (f *FakeRoster) AddTeacher(teacher Teacher) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.teachers[teacher.ID] = teacher
}

// AddStudent registers a student and enrolls them in the class.
func (f *FakeRoster) AddStudent(classID string, student Student) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.students[student.ID] = student
	f.byClass[classID] = append(f.byClass[classID], student.ID)
}

// SetPrimary configures the student's primary guardian.
func (f *FakeRoster) SetPrimary(studentID string, guardian Guardian) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.primary[studentID] = guardian
}

// SetSecondary configures the student's secondary guardian.
func (f *FakeRoster) SetSecondary(studentID string, guardian Guardian) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.secondary[studentID] = guardian
}

// SetBackupCircle configures the student's backup circle in priority order.
func (f *FakeRoster) SetBackupCircle(studentID string, guardians ...Guardian) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.backup[studentID] = guardians
}

func (f *FakeRoster) PrimaryGuardianOf(_ context.Context, studentID string) (*Guardian, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if g, ok := f.primary[studentID]; ok {
		copied := g
		return &copied, nil
	}
	return nil, nil
}

func (f *FakeRoster) SecondaryGuardianOf(_ context.Context, studentID string) (*Guardian, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if g, ok := f.secondary[studentID]; ok {
		copied := g
		return &copied, nil
	}
	return nil, nil
}

func (f *FakeRoster) BackupCircleOf(_ context.Context, studentID string) ([]Guardian, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return append([]Guardian(nil), f.backup[studentID]...), nil
}

func (f *FakeRoster) ActiveStudentsInClass(_ context.Context, classID string) ([]Student, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	ids := f.byClass[classID]
	students := make([]Student, 0, len(ids))
	for _, id := range ids {
		if s, ok := f.students[id]; ok && s.Active {
			students = append(students, s)
		}
	}
	return students, nil
}

func (f *FakeRoster) GetStudent(_ context.Context, studentID string) (*Student, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if s, ok := f.students[studentID]; ok {
		copied := s
		return &copied, nil
	}
	return nil, nil
}

func (f *FakeRoster) GetTeacher(_ context.Context, teacherID string) (*Teacher, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if t, ok := f.teachers[teacherID]; ok {
		copied := t
		return &copied, nil
	}
	return nil, nil
}

func (f *FakeRoster) GetClass(_ context.Context, classID string) (*Class, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if c, ok := f.classes[classID]; ok {
		copied := c
		return &copied, nil
	}
	return nil, nil
}
