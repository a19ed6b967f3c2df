package notify

import (
	"bytes"
	_ "embed"
	"html/template"

	"github.com/amidulanjana/smart-classroom-sub000/pkg/pickup"
)

// PickupMailParams feeds the pickup mail template.
type PickupMailParams struct {
	GuardianName  string
	StudentName   string
	Role          string
	Kind          string
	Reason        string
	NewPickupTime string
	Deadline      string
	Escalation    bool
}

var (
	pickupTemplate = template.New("pickup")

	//go:embed templates/pickup.html
	pickupTemplateRaw string
)

func init() {
	template.Must(pickupTemplate.Parse(pickupTemplateRaw))
}

// RenderPickupMail renders the HTML body for a pickup ask, urgent alert, or
// informational notice.
func RenderPickupMail(n pickup.Notification) (string, error) {
	params := PickupMailParams{
		GuardianName:  n.GuardianName,
		StudentName:   n.StudentName,
		Role:          n.Role,
		Kind:          n.Kind,
		Reason:        n.Reason,
		NewPickupTime: n.NewPickupTime.Format("Monday 15:04"),
		Deadline:      n.Deadline.Format("15:04"),
		Escalation:    n.Escalation,
	}
	var buf bytes.Buffer
	if err := pickupTemplate.Execute(&buf, params); err != nil {
		return "", err
	}
	return buf.String(), nil
}
