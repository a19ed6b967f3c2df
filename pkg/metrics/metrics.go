package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Pickup event lifecycle metrics
	EventsCreated = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pickup_events_created_total",
		Help: "Total number of emergency pickup events created",
	}, []string{"class"})
	EventsCompleted = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pickup_events_completed_total",
		Help: "Total number of pickup events that reached completed",
	}, []string{"class"})

	// Per-student escalation metrics
	EscalationsStarted = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "pickup_escalations_started_total",
		Help: "Total number of per-student escalations started",
	})
	EscalationsConfirmed = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pickup_escalations_confirmed_total",
		Help: "Total number of escalations confirmed, by confirming guardian role",
	}, []string{"role"})
	EscalationsUnresolved = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "pickup_escalations_unresolved_total",
		Help: "Total number of escalations that exhausted the guardian chain",
	})
	StudentsPickedUp = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "pickup_students_picked_up_total",
		Help: "Total number of students marked picked up",
	})

	// Notification attempt metrics
	NotificationsSent = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pickup_notifications_sent_total",
		Help: "Total number of notification asks sent, by recipient role",
	}, []string{"role"})
	NotificationsFailed = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pickup_notifications_failed_total",
		Help: "Total number of notification deliveries that failed, by recipient role",
	}, []string{"role"})
	ResponsesReceived = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pickup_responses_received_total",
		Help: "Total number of guardian responses applied, by outcome",
	}, []string{"outcome"})
	StaleResponses = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "pickup_stale_responses_total",
		Help: "Total number of guardian responses that arrived after their attempt was closed",
	})
	TimeoutsAdvanced = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "pickup_timeouts_advanced_total",
		Help: "Total number of pending attempts advanced by the timeout scanner",
	})
	ScanSweeps = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "pickup_scan_sweeps_total",
		Help: "Total number of timeout scanner sweeps",
	})

	// Notification channel metrics
	MailSendSuccess = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pickup_mail_send_success_total",
		Help: "Total number of successful mail sends",
	}, []string{"host"})
	MailSendFailure = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pickup_mail_send_failure_total",
		Help: "Total number of failed mail sends",
	}, []string{"host"})
	PushPublished = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "pickup_push_published_total",
		Help: "Total number of push payloads published to the MQTT broker",
	})
	PushFailed = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "pickup_push_failed_total",
		Help: "Total number of push publishes that failed",
	})

	// Audit trail metrics
	AuditEventsEmitted = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pickup_audit_events_emitted_total",
		Help: "Total number of audit events emitted, by sink",
	}, []string{"sink"})
	AuditEventsDropped = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "pickup_audit_events_dropped_total",
		Help: "Total number of audit events dropped because the queue was full",
	})
	AuditSinkErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "pickup_audit_sink_errors_total",
		Help: "Total number of audit sink write failures, by sink",
	}, []string{"sink"})
)

func init() {
	prometheus.MustRegister(EventsCreated)
	prometheus.MustRegister(EventsCompleted)
	prometheus.MustRegister(EscalationsStarted)
	prometheus.MustRegister(EscalationsConfirmed)
	prometheus.MustRegister(EscalationsUnresolved)
	prometheus.MustRegister(StudentsPickedUp)
	prometheus.MustRegister(NotificationsSent)
	prometheus.MustRegister(NotificationsFailed)
	prometheus.MustRegister(ResponsesReceived)
	prometheus.MustRegister(StaleResponses)
	prometheus.MustRegister(TimeoutsAdvanced)
	prometheus.MustRegister(ScanSweeps)
	prometheus.MustRegister(MailSendSuccess)
	prometheus.MustRegister(MailSendFailure)
	prometheus.MustRegister(PushPublished)
	prometheus.MustRegister(PushFailed)
	prometheus.MustRegister(AuditEventsEmitted)
	prometheus.MustRegister(AuditEventsDropped)
	prometheus.MustRegister(AuditSinkErrors)
}

// MetricsHandler returns an http.Handler exposing Prometheus metrics.
func MetricsHandler() http.Handler {
	return promhttp.Handler()
}
