// Package config handles service configuration loading from YAML files,
// covering the HTTP server, MySQL and Redis connections, the mail and push
// notification channels, the Kafka audit sink, and escalation timing.
package config
