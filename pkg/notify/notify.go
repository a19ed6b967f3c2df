// Package notify delivers escalation asks to guardians. Push over MQTT is
// the primary channel (the guardian app answers in one tap); mail is the
// fallback record. A Fanout combines channels so the engine sees a single
// Notifier.
package notify

import (
	"context"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/amidulanjana/smart-classroom-sub000/pkg/pickup"
)

// Channel is one delivery mechanism for a notification.
type Channel interface {
	// Name identifies the channel in logs.
	Name() string

	// Send delivers the notification. Returning ErrNotReachable means the
	// recipient has no address on this channel; that is not a delivery
	// failure.
	Send(ctx context.Context, n pickup.Notification) error
}

// ErrNotReachable marks a recipient with no address on a channel.
var ErrNotReachable = errors.New("recipient not reachable on this channel")

// Fanout sends each notification over every channel. Delivery counts as
// successful when at least one channel that can reach the recipient
// succeeds; the engine only needs to know whether the guardian could have
// been reached at all.
type Fanout struct {
	channels []Channel
	log      *zap.SugaredLogger
}

// NewFanout combines channels into a single Notifier.
func NewFanout(log *zap.SugaredLogger, channels ...Channel) *Fanout {
	return &Fanout{channels: channels, log: log.Named("notify")}
}

// Send implements pickup.Notifier.
func (f *Fanout) Send(ctx context.Context, n pickup.Notification) error {
	if len(f.channels) == 0 {
		return errors.New("no notification channels configured")
	}

	delivered := 0
	reachable := 0
	var lastErr error
	for _, ch := range f.channels {
		err := ch.Send(ctx, n)
		switch {
		case err == nil:
			delivered++
			reachable++
		case errors.Is(err, ErrNotReachable):
			f.log.Debugw("Guardian not reachable on channel",
				"channel", ch.Name(), "guardian", n.GuardianID, "attempt", n.AttemptID)
		default:
			reachable++
			lastErr = err
			f.log.Warnw("Channel delivery failed",
				"channel", ch.Name(), "guardian", n.GuardianID, "attempt", n.AttemptID, "error", err)
		}
	}

	if delivered > 0 {
		return nil
	}
	if reachable == 0 {
		return errors.Errorf("guardian %s has no reachable notification channel", n.GuardianID)
	}
	return errors.Wrap(lastErr, "all notification channels failed")
}
