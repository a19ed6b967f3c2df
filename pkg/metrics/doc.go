// Package metrics defines Prometheus metrics for the pickup backend,
// covering event lifecycle, per-student escalations, notification attempts,
// mail and push delivery, and the audit trail.
package metrics
