/*
Copyright 2026.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package audit

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amidulanjana/smart-classroom-sub000/pkg/system"
)

func TestWebhookSinkPostsEvent(t *testing.T) {
	var mu sync.Mutex
	var received []Event
	var authHeader string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		defer mu.Unlock()
		authHeader = r.Header.Get("Authorization")
		var e Event
		if err := json.NewDecoder(r.Body).Decode(&e); err == nil {
			received = append(received, e)
		}
		w.WriteHeader(http.StatusAccepted)
	}))
	defer server.Close()

	sink := NewWebhookSink(WebhookSinkConfig{
		URL:     server.URL,
		Headers: map[string]string{"Authorization": "Bearer district-token"},
	}, system.NewTestZapLogger())

	err := sink.Write(context.Background(), &Event{
		ID:     "aud-1",
		Type:   EventStudentEscalated,
		Target: Target{EventID: "ev-1", StudentID: "s1"},
	})
	require.NoError(t, err)

	mu.Lock()
	defer mu.Unlock()
	require.Len(t, received, 1)
	assert.Equal(t, EventStudentEscalated, received[0].Type)
	assert.Equal(t, "ev-1", received[0].Target.EventID)
	assert.Equal(t, "Bearer district-token", authHeader)

	written, failed := sink.Stats()
	assert.Equal(t, int64(1), written)
	assert.Zero(t, failed)
}

func TestWebhookSinkServerErrorIsReported(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
	}))
	defer server.Close()

	sink := NewWebhookSink(WebhookSinkConfig{URL: server.URL}, system.NewTestZapLogger())
	err := sink.Write(context.Background(), &Event{ID: "aud-1", Type: EventAttemptSent})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "502")

	_, failed := sink.Stats()
	assert.Equal(t, int64(1), failed)
}

func TestMultiSinkDeliversPastFailingSink(t *testing.T) {
	broken := &failingSink{}
	capture := &captureSink{}
	multi := NewMultiSink([]Sink{broken, capture}, system.NewTestZapLogger())

	err := multi.Write(context.Background(), &Event{ID: "aud-1", Type: EventAttemptSent})
	require.Error(t, err)
	assert.Len(t, capture.all(), 1)
}
