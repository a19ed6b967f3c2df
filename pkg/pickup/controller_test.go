package pickup

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amidulanjana/smart-classroom-sub000/pkg/system"
)

func setupRouter(t *testing.T, f *fixture) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	ctrl := NewController(system.NewTestLogger(), f.engine, nil)
	rg := router.Group("api").Group(ctrl.BasePath(), ctrl.Handlers()...)
	require.NoError(t, ctrl.Register(rg))
	return router
}

func doJSON(t *testing.T, router *gin.Engine, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestControllerStartEvent(t *testing.T) {
	f := newFixture(t)
	f.addStudent("s1", "p1", "")
	router := setupRouter(t, f)

	w := doJSON(t, router, http.MethodPost, "/api/pickup/events", gin.H{
		"classId":       "class-1",
		"initiatorId":   "teacher-1",
		"reason":        "heating failure",
		"newPickupTime": f.clock.Now().Add(time.Hour).Format(time.RFC3339),
	})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp startEventResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, EventInProgress, resp.Event.Status)
	assert.Equal(t, 1, resp.Summary.NotificationsSent)
}

func TestControllerStartEventValidation(t *testing.T) {
	f := newFixture(t)
	router := setupRouter(t, f)

	tests := []struct {
		name string
		body gin.H
		want int
	}{
		{
			name: "missing class",
			body: gin.H{"initiatorId": "teacher-1", "newPickupTime": time.Now().Format(time.RFC3339)},
			want: http.StatusBadRequest,
		},
		{
			name: "missing pickup time",
			body: gin.H{"classId": "class-1", "initiatorId": "teacher-1"},
			want: http.StatusBadRequest,
		},
		{
			name: "unknown class",
			body: gin.H{"classId": "ghost", "initiatorId": "teacher-1", "newPickupTime": time.Now().Format(time.RFC3339)},
			want: http.StatusNotFound,
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w := doJSON(t, router, http.MethodPost, "/api/pickup/events", tc.body)
			assert.Equal(t, tc.want, w.Code, w.Body.String())
		})
	}
}

func TestControllerGetStatus(t *testing.T) {
	f := newFixture(t)
	f.addStudent("s1", "p1", "")
	router := setupRouter(t, f)
	event := f.start(t)

	w := doJSON(t, router, http.MethodGet, "/api/pickup/events/"+event.ID, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var got PickupEvent
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, event.ID, got.ID)
	require.Len(t, got.Escalations, 1)
	assert.Equal(t, StatusPrimaryNotified, got.Escalations[0].Status)

	w = doJSON(t, router, http.MethodGet, "/api/pickup/events/missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestControllerRespond(t *testing.T) {
	f := newFixture(t)
	f.addStudent("s1", "p1", "")
	router := setupRouter(t, f)
	event := f.start(t)
	base := fmt.Sprintf("/api/pickup/events/%s/students/s1", event.ID)

	w := doJSON(t, router, http.MethodPost, base+"/respond", gin.H{
		"guardianId": "p1",
		"accept":     true,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var outcome RespondOutcome
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &outcome))
	assert.Equal(t, StatusConfirmed, outcome.Status)
	assert.False(t, outcome.Stale)

	// The same answer again is a stale 200, not an error.
	w = doJSON(t, router, http.MethodPost, base+"/respond", gin.H{
		"guardianId": "p1",
		"accept":     true,
	})
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &outcome))
	assert.True(t, outcome.Stale)

	// accept is required, false must still bind.
	w = doJSON(t, router, http.MethodPost, base+"/respond", gin.H{"guardianId": "p1"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doJSON(t, router, http.MethodPost,
		fmt.Sprintf("/api/pickup/events/%s/students/ghost/respond", event.ID),
		gin.H{"guardianId": "p1", "accept": true})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestControllerMarkPickedUp(t *testing.T) {
	f := newFixture(t)
	f.addStudent("s1", "p1", "")
	router := setupRouter(t, f)
	event := f.start(t)
	base := fmt.Sprintf("/api/pickup/events/%s/students/s1", event.ID)

	// Before confirmation the handover is a conflict.
	w := doJSON(t, router, http.MethodPost, base+"/pickup", gin.H{"actorId": "teacher-1"})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = doJSON(t, router, http.MethodPost, base+"/respond", gin.H{"guardianId": "p1", "accept": true})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodPost, base+"/pickup", gin.H{"actorId": "teacher-1"})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var esc StudentEscalation
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &esc))
	assert.Equal(t, StatusPickedUp, esc.Status)
}

func TestControllerReport(t *testing.T) {
	f := newFixture(t)
	f.addStudent("s1", "p1", "")
	router := setupRouter(t, f)
	event := f.start(t)

	w := doJSON(t, router, http.MethodPost,
		fmt.Sprintf("/api/pickup/events/%s/students/s1/respond", event.ID),
		gin.H{"guardianId": "p1", "accept": true})
	require.Equal(t, http.StatusOK, w.Code)

	w = doJSON(t, router, http.MethodGet, "/api/pickup/events/"+event.ID+"/report", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var report CompletionReport
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &report))
	assert.Equal(t, 1, report.Students)
	assert.Equal(t, 1, report.Confirmed)
	assert.NotNil(t, report.CompletedAt)
}
