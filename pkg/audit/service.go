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
	"fmt"
	"os"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/amidulanjana/smart-classroom-sub000/pkg/config"
	"github.com/amidulanjana/smart-classroom-sub000/pkg/metrics"
)

// loadKafkaTLS reads the PEM material referenced by the TLS config section.
func loadKafkaTLS(cfg config.AuditTLS) (*KafkaTLSConfig, error) {
	out := &KafkaTLSConfig{
		Enabled:            true,
		InsecureSkipVerify: cfg.InsecureSkipVerify,
	}
	if cfg.CACertFile != "" {
		pem, err := os.ReadFile(cfg.CACertFile)
		if err != nil {
			return nil, fmt.Errorf("reading audit.tls.caCertFile: %w", err)
		}
		out.CACert = pem
	}
	if cfg.ClientCertFile != "" {
		pem, err := os.ReadFile(cfg.ClientCertFile)
		if err != nil {
			return nil, fmt.Errorf("reading audit.tls.clientCertFile: %w", err)
		}
		out.ClientCert = pem
	}
	if cfg.ClientKeyFile != "" {
		pem, err := os.ReadFile(cfg.ClientKeyFile)
		if err != nil {
			return nil, fmt.Errorf("reading audit.tls.clientKeyFile: %w", err)
		}
		out.ClientKey = pem
	}
	return out, nil
}

// Recorder is the write side of the audit trail. The escalation engine and
// the API record through this interface; tests substitute a capture.
type Recorder interface {
	Record(ctx context.Context, event Event)
}

// Nop is a Recorder that discards everything.
type Nop struct{}

func (Nop) Record(context.Context, Event) {}

// Service fans audit events out to the configured sinks. Writes are
// asynchronous through a bounded queue so a slow Kafka broker never blocks a
// guardian response; sensitive events bypass a full queue and are written
// synchronously because losing them is worse than a slow request.
type Service struct {
	sink   Sink
	logger *zap.Logger

	queue   chan Event
	wg      sync.WaitGroup
	closeMu sync.Mutex
	closed  bool
}

// NewService builds the audit service from configuration. The log sink is
// always attached; Kafka and the webhook are added when configured.
func NewService(cfg config.Audit, logger *zap.Logger) (*Service, error) {
	sinks := []Sink{NewLogSink(logger)}

	if cfg.Enabled && len(cfg.Brokers) > 0 {
		kafkaCfg := KafkaSinkConfig{
			Brokers: cfg.Brokers,
			Topic:   cfg.Topic,
		}
		if cfg.TLS.Enabled {
			tlsCfg, err := loadKafkaTLS(cfg.TLS)
			if err != nil {
				return nil, err
			}
			kafkaCfg.TLS = tlsCfg
		}
		if cfg.SASL.Mechanism != "" {
			kafkaCfg.SASL = &KafkaSASLConfig{
				Mechanism: cfg.SASL.Mechanism,
				Username:  cfg.SASL.Username,
				Password:  cfg.SASL.Password,
			}
		}
		kafkaSink, err := NewKafkaSink(kafkaCfg, logger)
		if err != nil {
			return nil, err
		}
		sinks = append(sinks, kafkaSink)
	}

	if cfg.WebhookURL != "" {
		var timeout time.Duration
		if cfg.WebhookTimeout != "" {
			d, err := time.ParseDuration(cfg.WebhookTimeout)
			if err != nil {
				return nil, fmt.Errorf("invalid audit.webhookTimeout %q: %v", cfg.WebhookTimeout, err)
			}
			timeout = d
		}
		sinks = append(sinks, NewWebhookSink(WebhookSinkConfig{
			URL:     cfg.WebhookURL,
			Headers: cfg.WebhookHeaders,
			Timeout: timeout,
		}, logger))
	}

	queueSize := cfg.QueueSize
	if queueSize <= 0 {
		queueSize = 10000
	}

	s := &Service{
		sink:   NewMultiSink(sinks, logger),
		logger: logger.Named("audit-service"),
		queue:  make(chan Event, queueSize),
	}

	s.wg.Add(1)
	go s.drain()

	s.logger.Info("audit service started",
		zap.Int("sinks", len(sinks)),
		zap.Int("queue_size", queueSize))
	return s, nil
}

// NewServiceWithSink builds a service around an explicit sink. Used in tests.
func NewServiceWithSink(sink Sink, queueSize int, logger *zap.Logger) *Service {
	if queueSize <= 0 {
		queueSize = 64
	}
	s := &Service{
		sink:   sink,
		logger: logger.Named("audit-service"),
		queue:  make(chan Event, queueSize),
	}
	s.wg.Add(1)
	go s.drain()
	return s
}

// Record stamps and enqueues an audit event. Missing ID, timestamp, and
// severity are filled in. Under backpressure, routine events are dropped and
// counted; sensitive events fall through to a synchronous write instead.
func (s *Service) Record(ctx context.Context, event Event) {
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	if event.Severity == "" {
		event.Severity = SeverityForEventType(event.Type)
	}

	select {
	case s.queue <- event:
		return
	default:
	}

	if IsSensitiveEvent(event.Type) {
		s.write(ctx, event)
		return
	}

	metrics.AuditEventsDropped.Inc()
	s.logger.Warn("audit queue full, event dropped",
		zap.String("event_type", string(event.Type)),
		zap.String("pickup_event", event.Target.EventID))
}

func (s *Service) drain() {
	defer s.wg.Done()
	for event := range s.queue {
		s.write(context.Background(), event)
	}
}

func (s *Service) write(ctx context.Context, event Event) {
	if err := s.sink.Write(ctx, &event); err != nil {
		// MultiSink already logged the failing sink.
		return
	}
	metrics.AuditEventsEmitted.WithLabelValues(s.sink.Name()).Inc()
}

// Close drains the queue and closes all sinks.
func (s *Service) Close() error {
	s.closeMu.Lock()
	if s.closed {
		s.closeMu.Unlock()
		return nil
	}
	s.closed = true
	s.closeMu.Unlock()

	close(s.queue)
	s.wg.Wait()
	return s.sink.Close()
}
