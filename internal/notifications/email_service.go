package notifications

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"outletdesk/internal/shared/config"
	"outletdesk/pkg/logger"

	"golang.org/x/time/rate"
)

// EmailService delivers a rendered guest notification
type EmailService interface {
	SendNotification(ctx context.Context, notification *EmailNotification) error
}

// SMTPConfig holds SMTP configuration
type SMTPConfig struct {
	Host      string
	Port      int
	Username  string
	Password  string
	FromEmail string
	FromName  string
	UseTLS    bool
	Timeout   time.Duration
}

func NewSMTPConfig(cfg config.EmailConfig) *SMTPConfig {
	return &SMTPConfig{
		Host:      cfg.SMTPHost,
		Port:      cfg.SMTPPort,
		Username:  cfg.SMTPUsername,
		Password:  cfg.SMTPPassword,
		FromEmail: cfg.FromEmail,
		FromName:  cfg.FromName,
		UseTLS:    true,
		Timeout:   30 * time.Second,
	}
}

// Validate validates SMTP configuration
func (c *SMTPConfig) Validate() error {
	if c == nil {
		return errors.New("SMTP config is nil")
	}
	if c.Host == "" {
		return errors.New("SMTP host is required")
	}
	if c.Port <= 0 || c.Port > 65535 {
		return errors.New("SMTP port must be between 1 and 65535")
	}
	if c.Username == "" || c.Password == "" {
		return errors.New("SMTP username and password are required")
	}
	if c.FromEmail == "" {
		return errors.New("from email is required")
	}
	return nil
}

// SMTPEmailService sends notifications over SMTP with STARTTLS
type SMTPEmailService struct {
	config *SMTPConfig
	log    *logger.Logger
}

func NewSMTPEmailService(config *SMTPConfig) (*SMTPEmailService, error) {
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid SMTP configuration: %w", err)
	}
	return &SMTPEmailService{config: config, log: logger.GetDefault()}, nil
}

func (s *SMTPEmailService) SendNotification(ctx context.Context, notification *EmailNotification) error {
	htmlBody, textBody, err := renderNotification(notification)
	if err != nil {
		return fmt.Errorf("failed to generate email content: %w", err)
	}

	message := buildMessage(s.config.FromName, s.config.FromEmail, notification.RecipientEmail, notification.Subject, htmlBody, textBody, time.Now())
	auth := smtp.PlainAuth("", s.config.Username, s.config.Password, s.config.Host)
	addr := net.JoinHostPort(s.config.Host, strconv.Itoa(s.config.Port))

	if err := s.send(ctx, addr, auth, notification.RecipientEmail, message); err != nil {
		return fmt.Errorf("failed to send email: %w", err)
	}

	s.log.InfoContext(ctx, "email sent",
		"type", string(notification.Type),
		"to", notification.RecipientEmail,
	)
	return nil
}

func (s *SMTPEmailService) send(ctx context.Context, addr string, auth smtp.Auth, to string, message []byte) error {
	dialer := &net.Dialer{Timeout: s.config.Timeout}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to connect to SMTP server: %w", err)
	}
	if deadline, ok := ctx.Deadline(); ok {
		_ = conn.SetDeadline(deadline)
	} else {
		_ = conn.SetDeadline(time.Now().Add(s.config.Timeout))
	}

	client, err := smtp.NewClient(conn, s.config.Host)
	if err != nil {
		conn.Close()
		return err
	}
	defer client.Close()

	if s.config.UseTLS {
		if err := client.StartTLS(&tls.Config{ServerName: s.config.Host}); err != nil {
			return fmt.Errorf("failed to start TLS: %w", err)
		}
	}
	if err := client.Auth(auth); err != nil {
		return fmt.Errorf("failed to authenticate: %w", err)
	}
	if err := client.Mail(s.config.FromEmail); err != nil {
		return fmt.Errorf("failed to set sender: %w", err)
	}
	if err := client.Rcpt(to); err != nil {
		return fmt.Errorf("failed to set recipient: %w", err)
	}

	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("failed to get data writer: %w", err)
	}
	if _, err := w.Write(message); err != nil {
		return fmt.Errorf("failed to write message: %w", err)
	}
	if err := w.Close(); err != nil {
		return err
	}
	return client.Quit()
}

// buildMessage creates a multipart/alternative message with a text and an html part
func buildMessage(fromName, fromEmail, to, subject, htmlBody, textBody string, now time.Time) []byte {
	boundary := "outletdesk_" + strconv.FormatInt(now.UnixNano(), 10)

	var b strings.Builder
	fmt.Fprintf(&b, "From: %s <%s>\r\n", fromName, fromEmail)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", subject)
	b.WriteString("MIME-Version: 1.0\r\n")
	fmt.Fprintf(&b, "Date: %s\r\n", now.Format(time.RFC1123Z))
	fmt.Fprintf(&b, "Content-Type: multipart/alternative; boundary=%s\r\n\r\n", boundary)

	if textBody != "" {
		fmt.Fprintf(&b, "--%s\r\nContent-Type: text/plain; charset=UTF-8\r\n\r\n%s\r\n", boundary, textBody)
	}
	if htmlBody != "" {
		fmt.Fprintf(&b, "--%s\r\nContent-Type: text/html; charset=UTF-8\r\n\r\n%s\r\n", boundary, htmlBody)
	}
	fmt.Fprintf(&b, "--%s--\r\n", boundary)
	return []byte(b.String())
}

// LogEmailService renders notifications and logs them instead of sending; used when SMTP is not configured
type LogEmailService struct {
	log *logger.Logger
}

func NewLogEmailService() *LogEmailService {
	return &LogEmailService{log: logger.GetDefault()}
}

func (s *LogEmailService) SendNotification(ctx context.Context, notification *EmailNotification) error {
	_, textBody, err := renderNotification(notification)
	if err != nil {
		return err
	}
	s.log.InfoContext(ctx, "email not sent, SMTP disabled",
		"type", string(notification.Type),
		"to", notification.RecipientEmail,
		"subject", notification.Subject,
		"body", strings.TrimSpace(textBody),
	)
	return nil
}

// RateLimitedEmailService paces sends to the configured rate
type RateLimitedEmailService struct {
	next    EmailService
	limiter *rate.Limiter
}

func NewRateLimitedEmailService(next EmailService, perSecond float64) EmailService {
	if perSecond <= 0 {
		return next
	}
	burst := int(perSecond)
	if burst < 1 {
		burst = 1
	}
	return &RateLimitedEmailService{next: next, limiter: rate.NewLimiter(rate.Limit(perSecond), burst)}
}

func (s *RateLimitedEmailService) SendNotification(ctx context.Context, notification *EmailNotification) error {
	if err := s.limiter.Wait(ctx); err != nil {
		return err
	}
	return s.next.SendNotification(ctx, notification)
}
