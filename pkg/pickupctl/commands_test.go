package pickupctl

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amidulanjana/smart-classroom-sub000/pkg/pickup"
	"github.com/amidulanjana/smart-classroom-sub000/pkg/roster"
)

func runCommand(t *testing.T, server string, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	root := NewRootCommand(&out)
	root.SetArgs(append([]string{"--server", server}, args...))
	root.SetOut(&out)
	root.SetErr(&out)
	err := root.Execute()
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := runCommand(t, "", "version")
	require.NoError(t, err)
	assert.Contains(t, out, "pickupctl")
}

func TestStartCommandRequiresFlags(t *testing.T) {
	_, err := runCommand(t, "http://localhost:1", "start")
	assert.Error(t, err)
}

func TestStartCommandRejectsBadPickupTime(t *testing.T) {
	_, err := runCommand(t, "http://localhost:1", "start",
		"--class", "class-1", "--teacher", "teacher-1", "--pickup-at", "tomorrow")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "RFC3339")
}

func TestStatusCommandRendersTable(t *testing.T) {
	confirmedBy := "guardian-1"
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(pickup.PickupEvent{
			ID:      "ev-1",
			ClassID: "class-1",
			Status:  pickup.EventInProgress,
			Escalations: []pickup.StudentEscalation{
				{
					StudentID:       "s1",
					StudentName:     "Alice",
					Status:          pickup.StatusConfirmed,
					Level:           pickup.LevelPrimary,
					ConfirmedBy:     &confirmedBy,
					ConfirmedByRole: roster.RolePrimary,
					Attempts:        []pickup.NotificationAttempt{{ID: "a1"}},
				},
				{StudentID: "s2", StudentName: "Bob", Status: pickup.StatusPending},
			},
		})
	}))
	defer server.Close()

	out, err := runCommand(t, server.URL, "status", "ev-1")
	require.NoError(t, err)
	assert.Contains(t, out, "Event ev-1")
	assert.Contains(t, out, "Alice")
	assert.Contains(t, out, "guardian-1 (primary)")
	assert.Contains(t, out, "Bob")
}

func TestRespondCommandReportsStale(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(pickup.RespondOutcome{
			EventID:   "ev-1",
			StudentID: "s1",
			Status:    pickup.StatusPickedUp,
			Stale:     true,
		})
	}))
	defer server.Close()

	out, err := runCommand(t, server.URL, "respond", "ev-1", "s1", "--guardian", "g1")
	require.NoError(t, err)
	assert.Contains(t, out, "stale")
	assert.Contains(t, out, "picked_up")
}
