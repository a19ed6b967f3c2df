package notify

import (
	"context"
	"crypto/tls"
	"math"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"
	"gopkg.in/gomail.v2"

	"github.com/amidulanjana/smart-classroom-sub000/pkg/config"
	"github.com/amidulanjana/smart-classroom-sub000/pkg/metrics"
	"github.com/amidulanjana/smart-classroom-sub000/pkg/pickup"
)

// MailSender sends mail over SMTP with retries.
type MailSender interface {
	Send(receivers []string, subject, body string) error
	GetHost() string
	GetPort() int
}

type mailSender struct {
	dialer         *gomail.Dialer
	senderAddress  string
	senderName     string
	retryCount     int
	retryBackoffMs int
	log            *zap.SugaredLogger
}

// NewMailSender builds the SMTP sender from configuration.
func NewMailSender(cfg config.Mail, log *zap.SugaredLogger) MailSender {
	log = log.Named("mail")
	log.Infow("Initializing mail sender", "host", cfg.Host, "port", cfg.Port, "user", cfg.User)

	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Password)
	if cfg.InsecureSkipVerify {
		log.Warn("InsecureSkipVerify is enabled for mail TLS connection")
		d.TLSConfig = &tls.Config{InsecureSkipVerify: true} //nolint:gosec // explicit opt-in
	}

	senderAddr := cfg.SenderAddress
	if senderAddr == "" {
		senderAddr = "noreply@school.local"
	}
	senderName := cfg.SenderName
	if senderName == "" {
		senderName = "School Pickup"
	}

	retryCount := cfg.RetryCount
	if retryCount <= 0 {
		retryCount = 3
	}
	retryBackoffMs := cfg.RetryBackoffMs
	if retryBackoffMs <= 0 {
		retryBackoffMs = 100
	}

	return &mailSender{
		dialer:         d,
		senderAddress:  senderAddr,
		senderName:     senderName,
		retryCount:     retryCount,
		retryBackoffMs: retryBackoffMs,
		log:            log,
	}
}

func (s *mailSender) Send(receivers []string, subject, body string) error {
	msg := gomail.NewMessage()
	msg.SetAddressHeader("From", s.senderAddress, s.senderName)
	msg.SetHeader("To", receivers...)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", body)

	var lastErr error
	backoffMs := s.retryBackoffMs

	for attempt := 0; attempt <= s.retryCount; attempt++ {
		err := s.dialer.DialAndSend(msg)
		if err == nil {
			metrics.MailSendSuccess.WithLabelValues(s.GetHost()).Inc()
			return nil
		}

		lastErr = err
		if attempt < s.retryCount {
			s.log.Warnw("Mail send failed, retrying",
				"attempt", attempt+1, "backoffMs", backoffMs, "error", err)
			time.Sleep(time.Duration(backoffMs) * time.Millisecond)
			backoffMs = int(math.Min(float64(backoffMs)*2, 32000))
		}
	}

	s.log.Errorw("Mail send failed after retries", "attempts", s.retryCount+1, "error", lastErr)
	metrics.MailSendFailure.WithLabelValues(s.GetHost()).Inc()
	return lastErr
}

func (s *mailSender) GetHost() string {
	return s.dialer.Host
}

func (s *mailSender) GetPort() int {
	return s.dialer.Port
}

// MailChannel renders a pickup ask as HTML mail. Mail cannot carry the
// one-tap response, so the body points the guardian at the app or the school
// office; it exists so an ask still lands somewhere when push fails.
type MailChannel struct {
	sender MailSender
	log    *zap.SugaredLogger
}

// NewMailChannel wraps a sender as a notification channel.
func NewMailChannel(sender MailSender, log *zap.SugaredLogger) *MailChannel {
	return &MailChannel{sender: sender, log: log.Named("mail-channel")}
}

// Name implements Channel.
func (m *MailChannel) Name() string { return "mail" }

// Send implements Channel.
func (m *MailChannel) Send(_ context.Context, n pickup.Notification) error {
	if n.GuardianEmail == "" {
		return ErrNotReachable
	}
	body, err := RenderPickupMail(n)
	if err != nil {
		return errors.Wrap(err, "rendering pickup mail")
	}
	return m.sender.Send([]string{n.GuardianEmail}, n.Subject(), body)
}
