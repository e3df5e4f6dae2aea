// Package mailer sends outbound mail for the contact form. The Sender
// interface keeps SMTP a swappable collaborator; the SMTP implementation
// does one bounded connect-auth-send pass with no retries.
package mailer

import (
	"context"
	"crypto/tls"
	"fmt"
	"net"
	"net/smtp"
	"strings"
	"time"

	"github.com/google/uuid"
)

// Message is a fully addressed plain-text email.
type Message struct {
	FromName string
	From     string
	To       string
	ReplyTo  string
	Subject  string
	Body     string
}

// Sender delivers a message using the given connection settings, or reports
// why it could not. Settings travel per call because they are resolved from
// the store and environment at request time, never cached.
type Sender interface {
	Send(ctx context.Context, cfg SMTPConfig, msg Message) error
}

// SMTPConfig is the resolved connection configuration for one send.
type SMTPConfig struct {
	Host     string
	Port     int
	Secure   bool // implicit TLS (465-style); otherwise STARTTLS when offered
	Username string
	Password string
}

// SMTP sends mail over a direct SMTP connection.
type SMTP struct {
	// DialTimeout bounds the TCP connect; the same deadline then covers the
	// whole SMTP conversation. Zero means 10 seconds.
	DialTimeout time.Duration
}

func (s *SMTP) timeout() time.Duration {
	if s.DialTimeout > 0 {
		return s.DialTimeout
	}
	return 10 * time.Second
}

// Send connects to cfg and delivers msg. The context and the dial timeout
// both bound the operation; the first failure surfaces immediately.
func (s *SMTP) Send(ctx context.Context, cfg SMTPConfig, msg Message) error {
	addr := net.JoinHostPort(cfg.Host, fmt.Sprintf("%d", cfg.Port))

	dialer := net.Dialer{Timeout: s.timeout()}
	conn, err := dialer.DialContext(ctx, "tcp", addr)
	if err != nil {
		return fmt.Errorf("smtp dial %s: %w", addr, err)
	}
	// One deadline for the whole conversation; no hung handshakes.
	deadline := time.Now().Add(s.timeout())
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	_ = conn.SetDeadline(deadline)

	if cfg.Secure {
		conn = tls.Client(conn, &tls.Config{ServerName: cfg.Host})
	}

	client, err := smtp.NewClient(conn, cfg.Host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("smtp handshake: %w", err)
	}
	defer client.Close()

	if !cfg.Secure {
		if ok, _ := client.Extension("STARTTLS"); ok {
			if err := client.StartTLS(&tls.Config{ServerName: cfg.Host}); err != nil {
				return fmt.Errorf("smtp starttls: %w", err)
			}
		}
	}

	if cfg.Username != "" {
		auth := smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
		if err := client.Auth(auth); err != nil {
			return fmt.Errorf("smtp auth: %w", err)
		}
	}

	if err := client.Mail(msg.From); err != nil {
		return fmt.Errorf("smtp mail from: %w", err)
	}
	if err := client.Rcpt(msg.To); err != nil {
		return fmt.Errorf("smtp rcpt to: %w", err)
	}
	w, err := client.Data()
	if err != nil {
		return fmt.Errorf("smtp data: %w", err)
	}
	if _, err := w.Write([]byte(Render(msg, cfg.Host))); err != nil {
		w.Close()
		return fmt.Errorf("smtp write: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("smtp close data: %w", err)
	}
	return client.Quit()
}

// Render serializes a message into RFC 5322 wire form with a generated
// Message-ID.
func Render(msg Message, host string) string {
	var b strings.Builder
	from := msg.From
	if msg.FromName != "" {
		from = fmt.Sprintf("%s <%s>", sanitizeHeader(msg.FromName), msg.From)
	}
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", msg.To)
	if msg.ReplyTo != "" {
		fmt.Fprintf(&b, "Reply-To: %s\r\n", sanitizeHeader(msg.ReplyTo))
	}
	fmt.Fprintf(&b, "Subject: %s\r\n", sanitizeHeader(msg.Subject))
	fmt.Fprintf(&b, "Message-ID: <%s@%s>\r\n", uuid.NewString(), host)
	fmt.Fprintf(&b, "Date: %s\r\n", time.Now().UTC().Format(time.RFC1123Z))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(msg.Body)
	b.WriteString("\r\n")
	return b.String()
}

// sanitizeHeader strips CR/LF so user input cannot inject extra headers.
func sanitizeHeader(v string) string {
	v = strings.ReplaceAll(v, "\r", " ")
	v = strings.ReplaceAll(v, "\n", " ")
	return strings.TrimSpace(v)
}
