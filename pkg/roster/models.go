package roster

import (
	"time"
)

// Guardian roles within a student's pickup chain.
const (
	RolePrimary   = "primary"
	RoleSecondary = "secondary"
	RoleBackup    = "backup"
)

// Class represents a school class.
type Class struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(100);not null" json:"name"`
	TeacherID string    `gorm:"type:varchar(36);index" json:"teacherId"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Student represents an enrolled child.
type Student struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(100);not null" json:"name"`
	Active    bool      `gorm:"default:true" json:"active"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Enrollment links a student to a class. A student's escalation only runs for
// classes they were actively enrolled in when the event was created.
type Enrollment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	ClassID   string    `gorm:"type:varchar(36);index;not null" json:"classId"`
	StudentID string    `gorm:"type:varchar(36);index;not null" json:"studentId"`
	Active    bool      `gorm:"default:true" json:"active"`
	CreatedAt time.Time `json:"createdAt"`
}

// Guardian is a person who can be asked to pick up a student. Guardians are
// referenced, never owned, by the escalation engine.
type Guardian struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(100);not null" json:"name"`
	Email     string    `gorm:"type:varchar(100)" json:"email"`
	Phone     string    `gorm:"type:varchar(20)" json:"phone"`
	Active    bool      `gorm:"default:true" json:"active"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// GuardianLink assigns a guardian to a student in a given role. A student has
// at most one primary and one secondary link; backup links carry a priority
// (lower number is asked first in display ordering, all backups are notified
// simultaneously by the engine).
type GuardianLink struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	StudentID  string    `gorm:"type:varchar(36);index;not null" json:"studentId"`
	GuardianID string    `gorm:"type:varchar(36);index;not null" json:"guardianId"`
	Role       string    `gorm:"type:varchar(16);not null" json:"role"` // primary, secondary, backup
	Priority   int       `gorm:"default:0" json:"priority"`             // backup circle ordering
	Active     bool      `gorm:"default:true" json:"active"`
	CreatedAt  time.Time `json:"createdAt"`
}

// Teacher represents a staff member who can trigger an emergency dismissal.
type Teacher struct {
	ID        string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name      string    `gorm:"type:varchar(100);not null" json:"name"`
	Email     string    `gorm:"type:varchar(100)" json:"email"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}
