package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v2"
)

type Server struct {
	ListenAddress  string   `yaml:"listenAddress"`
	TLSCertFile    string   `yaml:"tlsCertFile"`
	TLSKeyFile     string   `yaml:"tlsKeyFile"`
	TrustedProxies []string `yaml:"trustedProxies"` // IPs/CIDRS to trust for X-Forwarded-For headers (e.g., ["10.0.0.0/8", "127.0.0.1"])
}

type Database struct {
	// DSN is the MySQL data source name, e.g.
	// "user:pass@tcp(127.0.0.1:3306)/classroom?charset=utf8mb4&parseTime=True&loc=UTC".
	DSN             string `yaml:"dsn"`
	MaxOpenConns    int    `yaml:"maxOpenConns"`
	MaxIdleConns    int    `yaml:"maxIdleConns"`
	ConnMaxLifetime string `yaml:"connMaxLifetime"` // e.g. "1h"
}

type Redis struct {
	// Address of the redis server; empty disables the snapshot cache.
	Address  string `yaml:"address"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	// SnapshotTTL bounds staleness of cached event snapshots (e.g. "2s").
	SnapshotTTL string `yaml:"snapshotTTL"`
}

type Mail struct {
	Host               string `yaml:"host"`
	Port               int    `yaml:"port"`
	User               string `yaml:"user"`
	Password           string `yaml:"password"`
	SenderAddress      string `yaml:"senderAddress"`
	SenderName         string `yaml:"senderName"`
	InsecureSkipVerify bool   `yaml:"insecureSkipVerify"`
	RetryCount         int    `yaml:"retryCount"`
	RetryBackoffMs     int    `yaml:"retryBackoffMs"`
}

type Push struct {
	// BrokerURL of the MQTT broker the guardian apps subscribe to,
	// e.g. "tcp://mqtt.school.internal:1883".
	BrokerURL string `yaml:"brokerURL"`
	ClientID  string `yaml:"clientID"`
	Username  string `yaml:"username"`
	Password  string `yaml:"password"`
	// TopicPrefix for per-guardian topics; messages go to
	// "<topicPrefix>/<guardianID>". Defaults to "pickup/guardian".
	TopicPrefix string `yaml:"topicPrefix"`
	// QoS for published asks (0, 1 or 2). Defaults to 1.
	QoS byte `yaml:"qos"`
}

type AuditTLS struct {
	Enabled bool `yaml:"enabled"`
	// CACertFile, ClientCertFile and ClientKeyFile are paths to PEM files;
	// the client pair enables mTLS towards the brokers.
	CACertFile         string `yaml:"caCertFile"`
	ClientCertFile     string `yaml:"clientCertFile"`
	ClientKeyFile      string `yaml:"clientKeyFile"`
	InsecureSkipVerify bool   `yaml:"insecureSkipVerify"`
}

type AuditSASL struct {
	// Mechanism is "PLAIN", "SCRAM-SHA-256" or "SCRAM-SHA-512"; empty
	// disables SASL.
	Mechanism string `yaml:"mechanism"`
	Username  string `yaml:"username"`
	Password  string `yaml:"password"`
}

type Audit struct {
	Enabled bool      `yaml:"enabled"`
	Brokers []string  `yaml:"brokers"`
	Topic   string    `yaml:"topic"`
	TLS     AuditTLS  `yaml:"tls"`
	SASL    AuditSASL `yaml:"sasl"`
	// WebhookURL posts every event to an external endpoint, typically the
	// district record keeper; empty disables the webhook sink.
	WebhookURL     string            `yaml:"webhookURL"`
	WebhookHeaders map[string]string `yaml:"webhookHeaders"`
	WebhookTimeout string            `yaml:"webhookTimeout"` // e.g. "5s"
	// QueueSize of the in-process async event buffer.
	QueueSize int `yaml:"queueSize"`
}

type Escalation struct {
	// ResponseTimeout is how long a guardian has to answer an ask before the
	// escalation advances to the next level (e.g. "10m"). One value applies
	// per level; tests inject short values.
	ResponseTimeout string `yaml:"responseTimeout"`
	// ScanInterval is how often the timeout scanner sweeps for overdue
	// attempts (e.g. "30s").
	ScanInterval string `yaml:"scanInterval"`
}

type Config struct {
	Server     Server
	Database   Database
	Redis      Redis
	Mail       Mail
	Push       Push
	Audit      Audit
	Escalation Escalation
}

// Load loads the service configuration from a file path.
// If configPath is empty, defaults to "./config.yaml".
func Load(configPath ...string) (Config, error) {
	var path string

	// Use provided path or fall back to default
	if len(configPath) > 0 && configPath[0] != "" {
		path = configPath[0]
	} else {
		path = "./config.yaml"
	}

	var config Config

	content, err := os.ReadFile(path)
	if err != nil {
		return config, fmt.Errorf("trying to open pickup config file %s: %v", path, err)
	}

	err = yaml.Unmarshal(content, &config)
	if err != nil {
		return config, fmt.Errorf("error unmarshaling YAML %s: %v", path, err)
	}
	return config, nil
}

// Defaults fills unset fields with their defaults.
func (c *Config) Defaults() {
	if c.Server.ListenAddress == "" {
		c.Server.ListenAddress = ":8080"
	}
	if c.Database.MaxOpenConns == 0 {
		c.Database.MaxOpenConns = 25
	}
	if c.Database.MaxIdleConns == 0 {
		c.Database.MaxIdleConns = 5
	}
	if c.Redis.SnapshotTTL == "" {
		c.Redis.SnapshotTTL = "2s"
	}
	if c.Push.TopicPrefix == "" {
		c.Push.TopicPrefix = "pickup/guardian"
	}
	if c.Push.QoS == 0 {
		c.Push.QoS = 1
	}
	if c.Audit.QueueSize == 0 {
		c.Audit.QueueSize = 10000
	}
	if c.Escalation.ResponseTimeout == "" {
		c.Escalation.ResponseTimeout = "10m"
	}
	if c.Escalation.ScanInterval == "" {
		c.Escalation.ScanInterval = "30s"
	}
}

// ResponseTimeout parses the per-level response timeout.
func (c *Config) ResponseTimeout() (time.Duration, error) {
	d, err := time.ParseDuration(c.Escalation.ResponseTimeout)
	if err != nil {
		return 0, fmt.Errorf("invalid escalation.responseTimeout %q: %v", c.Escalation.ResponseTimeout, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("escalation.responseTimeout must be positive, got %q", c.Escalation.ResponseTimeout)
	}
	return d, nil
}

// ScanInterval parses the timeout scanner sweep interval.
func (c *Config) ScanInterval() (time.Duration, error) {
	d, err := time.ParseDuration(c.Escalation.ScanInterval)
	if err != nil {
		return 0, fmt.Errorf("invalid escalation.scanInterval %q: %v", c.Escalation.ScanInterval, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("escalation.scanInterval must be positive, got %q", c.Escalation.ScanInterval)
	}
	return d, nil
}
