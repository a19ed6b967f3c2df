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
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"go.uber.org/zap"
)

// Sink defines the interface for audit event destinations.
type Sink interface {
	// Write sends an audit event to the sink.
	Write(ctx context.Context, event *Event) error

	// Close releases any resources held by the sink.
	Close() error

	// Name returns the sink's identifier.
	Name() string
}

// LogSink writes audit events to a structured logger. It is always present:
// even when Kafka is down, the trail survives in the service logs.
type LogSink struct {
	logger *zap.Logger
}

// NewLogSink creates a new LogSink.
func NewLogSink(logger *zap.Logger) *LogSink {
	return &LogSink{logger: logger.Named("audit")}
}

// Write logs the audit event.
func (s *LogSink) Write(_ context.Context, event *Event) error {
	fields := []zap.Field{
		zap.String("event_id", event.ID),
		zap.String("event_type", string(event.Type)),
		zap.String("severity", string(event.Severity)),
		zap.Time("timestamp", event.Timestamp),
		zap.String("actor", event.Actor.ID),
		zap.String("pickup_event", event.Target.EventID),
	}

	if event.Actor.Kind != "" {
		fields = append(fields, zap.String("actor_kind", event.Actor.Kind))
	}
	if event.Actor.SourceIP != "" {
		fields = append(fields, zap.String("actor_ip", event.Actor.SourceIP))
	}
	if event.Target.StudentID != "" {
		fields = append(fields, zap.String("student", event.Target.StudentID))
	}
	if event.Target.AttemptID != "" {
		fields = append(fields, zap.String("attempt", event.Target.AttemptID))
	}
	if event.Target.ClassID != "" {
		fields = append(fields, zap.String("class", event.Target.ClassID))
	}

	if len(event.Details) > 0 {
		if detailsJSON, err := json.Marshal(event.Details); err == nil {
			fields = append(fields, zap.String("details", string(detailsJSON)))
		}
	}

	s.logger.Info("audit_event", fields...)
	return nil
}

// Close is a no-op for LogSink.
func (s *LogSink) Close() error {
	return nil
}

// Name returns the sink identifier.
func (s *LogSink) Name() string {
	return "log"
}

// WebhookSink forwards audit events to an external HTTP endpoint, typically a
// district-level record keeper.
type WebhookSink struct {
	name          string
	url           string
	httpClient    *http.Client
	headers       map[string]string
	logger        *zap.Logger
	eventsWritten int64
	eventsFailed  int64
}

// WebhookSinkConfig configures a WebhookSink.
type WebhookSinkConfig struct {
	Name    string
	URL     string
	Headers map[string]string
	Timeout time.Duration
}

// NewWebhookSink creates a new WebhookSink.
func NewWebhookSink(cfg WebhookSinkConfig, logger *zap.Logger) *WebhookSink {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 5 * time.Second
	}

	sink := &WebhookSink{
		name:       cfg.Name,
		url:        cfg.URL,
		httpClient: &http.Client{Timeout: timeout},
		headers:    cfg.Headers,
		logger:     logger.Named("webhook-sink"),
	}

	sink.logger.Info("Webhook audit sink created",
		zap.String("name", cfg.Name),
		zap.String("url", cfg.URL),
		zap.Duration("timeout", timeout))

	return sink
}

// Write sends the audit event to the webhook.
func (s *WebhookSink) Write(ctx context.Context, event *Event) error {
	body, err := json.Marshal(event)
	if err != nil {
		s.eventsFailed++
		return fmt.Errorf("failed to marshal audit event: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url, bytes.NewReader(body))
	if err != nil {
		s.eventsFailed++
		return fmt.Errorf("failed to create request: %w", err)
	}

	req.Header.Set("Content-Type", "application/json")
	for k, v := range s.headers {
		req.Header.Set(k, v)
	}

	resp, err := s.httpClient.Do(req)
	if err != nil {
		s.eventsFailed++
		s.logger.Debug("webhook request failed",
			zap.String("url", s.url),
			zap.String("event_id", event.ID),
			zap.String("error", err.Error()))
		return fmt.Errorf("failed to send audit event to %s: %w", s.url, err)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 400 {
		s.eventsFailed++
		s.logger.Debug("webhook returned error",
			zap.String("url", s.url),
			zap.String("event_id", event.ID),
			zap.Int("status_code", resp.StatusCode))
		return fmt.Errorf("webhook %s returned error status: %d", s.url, resp.StatusCode)
	}

	s.eventsWritten++
	return nil
}

// Stats returns the webhook sink statistics.
func (s *WebhookSink) Stats() (written, failed int64) {
	return s.eventsWritten, s.eventsFailed
}

// Close is a no-op for WebhookSink.
func (s *WebhookSink) Close() error {
	s.logger.Info("closing webhook audit sink",
		zap.String("name", s.name),
		zap.Int64("events_written", s.eventsWritten),
		zap.Int64("events_failed", s.eventsFailed))
	return nil
}

// Name returns the sink identifier.
func (s *WebhookSink) Name() string {
	if s.name != "" {
		return s.name
	}
	return "webhook"
}

// MultiSink writes to multiple sinks sequentially.
type MultiSink struct {
	sinks  []Sink
	logger *zap.Logger
}

// NewMultiSink creates a sink that writes to multiple destinations.
func NewMultiSink(sinks []Sink, logger *zap.Logger) *MultiSink {
	return &MultiSink{
		sinks:  sinks,
		logger: logger,
	}
}

// Write sends the event to all sinks. A failing sink does not stop delivery
// to the others.
func (s *MultiSink) Write(ctx context.Context, event *Event) error {
	var lastErr error
	for _, sink := range s.sinks {
		if err := sink.Write(ctx, event); err != nil {
			// Use string representation to avoid noisy stacktraces for transient errors
			s.logger.Warn("audit sink write failed",
				zap.String("sink", sink.Name()),
				zap.String("error", err.Error()))
			lastErr = err
		}
	}
	return lastErr
}

// Close closes all sinks.
func (s *MultiSink) Close() error {
	var lastErr error
	for _, sink := range s.sinks {
		if err := sink.Close(); err != nil {
			lastErr = err
		}
	}
	return lastErr
}

// Name returns the sink identifier.
func (s *MultiSink) Name() string {
	return "multi"
}
