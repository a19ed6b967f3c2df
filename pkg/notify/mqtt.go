package notify

import (
	"context"
	"encoding/json"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/amidulanjana/smart-classroom-sub000/pkg/config"
	"github.com/amidulanjana/smart-classroom-sub000/pkg/metrics"
	"github.com/amidulanjana/smart-classroom-sub000/pkg/pickup"
)

const publishTimeout = 3 * time.Second

// PushChannel publishes asks to the guardian app over MQTT. Each guardian
// has a private topic under the configured prefix; the app subscribes to it
// and renders the accept/decline prompt.
type PushChannel struct {
	client mqtt.Client
	prefix string
	qos    byte
	log    *zap.SugaredLogger
}

// NewPushChannel connects to the broker and returns the push channel.
func NewPushChannel(cfg config.Push, log *zap.SugaredLogger) (*PushChannel, error) {
	if cfg.BrokerURL == "" {
		return nil, errors.New("push broker URL is required")
	}

	opts := mqtt.NewClientOptions()
	opts.AddBroker(cfg.BrokerURL)
	opts.SetClientID(cfg.ClientID)
	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
		opts.SetPassword(cfg.Password)
	}
	opts.SetAutoReconnect(true)
	opts.SetKeepAlive(60 * time.Second)
	opts.SetConnectTimeout(5 * time.Second)

	client := mqtt.NewClient(opts)
	token := client.Connect()
	if !token.WaitTimeout(10*time.Second) || token.Error() != nil {
		err := token.Error()
		if err == nil {
			err = errors.New("connect timed out")
		}
		return nil, errors.Wrapf(err, "connecting to MQTT broker %s", cfg.BrokerURL)
	}

	log.Infow("Connected to push broker", "broker", cfg.BrokerURL, "topicPrefix", cfg.TopicPrefix)
	return &PushChannel{
		client: client,
		prefix: cfg.TopicPrefix,
		qos:    byte(cfg.QoS),
		log:    log.Named("push"),
	}, nil
}

// Name implements Channel.
func (p *PushChannel) Name() string { return "push" }

// Topic returns the per-guardian topic.
func (p *PushChannel) Topic(guardianID string) string {
	return p.prefix + "/" + guardianID
}

// Send publishes the notification to the guardian's topic.
func (p *PushChannel) Send(_ context.Context, n pickup.Notification) error {
	payload, err := json.Marshal(n)
	if err != nil {
		return errors.Wrap(err, "marshalling push payload")
	}

	token := p.client.Publish(p.Topic(n.GuardianID), p.qos, false, payload)
	if !token.WaitTimeout(publishTimeout) {
		metrics.PushFailed.Inc()
		return errors.Errorf("publish to %s timed out", p.Topic(n.GuardianID))
	}
	if err := token.Error(); err != nil {
		metrics.PushFailed.Inc()
		return errors.Wrapf(err, "publishing to %s", p.Topic(n.GuardianID))
	}

	metrics.PushPublished.Inc()
	p.log.Debugw("Push published",
		"guardian", n.GuardianID, "attempt", n.AttemptID, "escalation", n.Escalation)
	return nil
}

// Close disconnects from the broker.
func (p *PushChannel) Close() {
	p.client.Disconnect(250)
}
