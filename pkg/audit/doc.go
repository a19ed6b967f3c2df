// Package audit records the pickup trail: every notification sent, every
// guardian response, every timeout and escalation. Entries fan out to a
// structured log sink and optionally to Kafka for district-level retention.
package audit
