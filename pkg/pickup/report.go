package pickup

import "time"

// CompletionReport summarizes a finished pickup event: who confirmed, at
// which chain level, who was physically handed over, and who nobody answered
// for. It is derived entirely from the stored aggregate, so it can be rebuilt
// at any time.
type CompletionReport struct {
	EventID     string     `json:"eventId"`
	ClassID     string     `json:"classId"`
	Students    int        `json:"students"`
	PickedUp    int        `json:"pickedUp"`
	Confirmed   int        `json:"confirmed"`
	Escalated   int        `json:"escalated"`
	ByRole      map[string]int `json:"byRole"`
	Unresolved  []string   `json:"unresolved,omitempty"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	// Duration from event creation to completion.
	Duration time.Duration `json:"-"`
}

// BuildReport computes the completion report for an event.
func BuildReport(event *PickupEvent, escs []StudentEscalation) *CompletionReport {
	report := &CompletionReport{
		EventID:     event.ID,
		ClassID:     event.ClassID,
		Students:    len(escs),
		ByRole:      map[string]int{},
		CompletedAt: event.CompletedAt,
	}
	if event.CompletedAt != nil {
		report.Duration = event.CompletedAt.Sub(event.CreatedAt)
	}
	for i := range escs {
		esc := &escs[i]
		switch esc.Status {
		case StatusPickedUp:
			report.PickedUp++
			report.Confirmed++
		case StatusConfirmed:
			report.Confirmed++
		case StatusEscalated:
			report.Escalated++
			report.Unresolved = append(report.Unresolved, esc.StudentID)
		}
		if esc.ConfirmedByRole != "" {
			report.ByRole[esc.ConfirmedByRole]++
		}
	}
	return report
}
