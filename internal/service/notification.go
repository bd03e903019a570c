package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"
	"gopkg.in/gomail.v2"

	"atlas/internal/domain"
)

// Channel delivers a booking confirmation over one medium.
type Channel interface {
	Name() string
	Send(ctx context.Context, record *domain.BookingRecord) error
}

// NotificationService fans a booking confirmation out to every configured channel.
type NotificationService struct {
	channels []Channel
	logger   *zap.Logger
}

// Ensure NotificationService implements Notifier.
var _ Notifier = (*NotificationService)(nil)

// NewNotificationService creates a new NotificationService. With no channels it only logs.
func NewNotificationService(logger *zap.Logger, channels ...Channel) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{channels: channels, logger: logger}
}

// NotifyBookingCreated sends the confirmation on every channel.
// All channels are attempted; the returned error joins the failures.
func (s *NotificationService) NotifyBookingCreated(ctx context.Context, record *domain.BookingRecord) error {
	if len(s.channels) == 0 {
		s.logger.Info("booking notification skipped: no channels configured",
			zap.String("booking_id", record.ID),
			zap.String("reference", record.BookingReference),
		)
		return nil
	}

	var errs []error
	for _, ch := range s.channels {
		if err := ch.Send(ctx, record); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", ch.Name(), err))
			continue
		}
		s.logger.Debug("booking notification sent",
			zap.String("channel", ch.Name()),
			zap.String("booking_id", record.ID),
		)
	}
	if len(errs) > 0 {
		return fmt.Errorf("%w: %w", ErrNotificationFailed, errors.Join(errs...))
	}
	return nil
}

// ──────────────────────────────────────────────
// WEBHOOK
// ──────────────────────────────────────────────

// WebhookChannel POSTs the full booking as JSON to an HTTP endpoint.
type WebhookChannel struct {
	url    string
	client *http.Client
}

// NewWebhookChannel creates a WebhookChannel with the given request timeout.
func NewWebhookChannel(url string, timeout time.Duration) *WebhookChannel {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &WebhookChannel{url: url, client: &http.Client{Timeout: timeout}}
}

// Name implements Channel.
func (c *WebhookChannel) Name() string { return "webhook" }

// Send implements Channel. A non-2xx status is an error.
func (c *WebhookChannel) Send(ctx context.Context, record *domain.BookingRecord) error {
	body, err := json.Marshal(record)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("webhook responded %d", resp.StatusCode)
	}
	return nil
}

// ──────────────────────────────────────────────
// EMAIL
// ──────────────────────────────────────────────

// MailSender is satisfied by *gomail.Dialer.
type MailSender interface {
	DialAndSend(m ...*gomail.Message) error
}

// EmailChannel emails the guest a confirmation with the PDF voucher attached.
type EmailChannel struct {
	sender  MailSender
	from    string
	voucher *VoucherService
}

// NewEmailChannel creates an EmailChannel.
func NewEmailChannel(sender MailSender, from string, voucher *VoucherService) *EmailChannel {
	return &EmailChannel{sender: sender, from: from, voucher: voucher}
}

// NewSMTPSender creates a gomail dialer for the SMTP server.
func NewSMTPSender(host string, port int, username, password string) *gomail.Dialer {
	return gomail.NewDialer(host, port, username, password)
}

// Name implements Channel.
func (c *EmailChannel) Name() string { return "email" }

// Send implements Channel.
func (c *EmailChannel) Send(ctx context.Context, record *domain.BookingRecord) error {
	if record.Email == "" {
		return errors.New("booking has no email address")
	}

	m := c.BuildMessage(record)
	if err := ctx.Err(); err != nil {
		return err
	}
	return c.sender.DialAndSend(m)
}

// BuildMessage assembles the confirmation email.
func (c *EmailChannel) BuildMessage(record *domain.BookingRecord) *gomail.Message {
	m := gomail.NewMessage()
	m.SetHeader("From", c.from)
	m.SetAddressHeader("To", record.Email, record.Name)
	m.SetHeader("Subject", fmt.Sprintf("Your booking %s: %s", record.BookingReference, record.ExcursionTitle))
	m.SetBody("text/plain", c.voucher.Format(record))
	m.Attach("voucher-"+record.BookingReference+".pdf",
		gomail.SetCopyFunc(func(w io.Writer) error {
			return c.voucher.RenderPDF(record, w)
		}),
		gomail.SetHeader(map[string][]string{"Content-Type": {"application/pdf"}}),
	)
	return m
}
