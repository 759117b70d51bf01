// Package mail delivers one-time codes to users over SMTP. Delivery is
// best-effort by contract: callers log failures and move on, so nothing in
// here is allowed to matter to the primary transaction.
package mail

import (
	"bytes"
	"context"
	"crypto/tls"
	"fmt"
	"mime"
	"net"
	"net/mail"
	"net/smtp"
	"strings"
)

type Config struct {
	Host     string
	Port     int
	Username string
	Password string
	From     string
	FromName string
	UseTLS   bool // STARTTLS after connecting
	UseSSL   bool // implicit TLS on connect
}

// SMTPMailer sends plain-text email through a configured SMTP relay.
type SMTPMailer struct {
	cfg Config
}

func NewSMTPMailer(cfg Config) *SMTPMailer {
	return &SMTPMailer{cfg: cfg}
}

// SendEmail sends a plain-text message to a single recipient.
func (m *SMTPMailer) SendEmail(ctx context.Context, recipient, subject, body string) error {
	if m.cfg.Host == "" || m.cfg.Port == 0 || m.cfg.From == "" {
		return fmt.Errorf("mail: smtp not configured")
	}
	if _, err := mail.ParseAddress(recipient); err != nil {
		return fmt.Errorf("mail: invalid recipient %q: %w", recipient, err)
	}

	from := buildFromAddress(m.cfg.From, m.cfg.FromName)
	msg := buildMessage(from, recipient, subject, body)
	addr := fmt.Sprintf("%s:%d", m.cfg.Host, m.cfg.Port)

	var auth smtp.Auth
	if m.cfg.Username != "" || m.cfg.Password != "" {
		auth = smtp.PlainAuth("", m.cfg.Username, m.cfg.Password, m.cfg.Host)
	}

	client, err := m.dial(ctx, addr)
	if err != nil {
		return err
	}
	defer client.Close()

	if m.cfg.UseTLS && !m.cfg.UseSSL {
		if err := client.StartTLS(&tls.Config{ServerName: m.cfg.Host}); err != nil {
			return err
		}
	}

	if auth != nil {
		if ok, _ := client.Extension("AUTH"); ok {
			if err := client.Auth(auth); err != nil {
				return err
			}
		}
	}

	if err := client.Mail(m.cfg.From); err != nil {
		return err
	}
	if err := client.Rcpt(recipient); err != nil {
		return err
	}

	w, err := client.Data()
	if err != nil {
		return err
	}
	if _, err := w.Write(msg); err != nil {
		return err
	}
	if err := w.Close(); err != nil {
		return err
	}

	return client.Quit()
}

// dial connects honoring the context deadline; net/smtp itself has no
// context support.
func (m *SMTPMailer) dial(ctx context.Context, addr string) (*smtp.Client, error) {
	if m.cfg.UseSSL {
		d := tls.Dialer{Config: &tls.Config{ServerName: m.cfg.Host}}
		conn, err := d.DialContext(ctx, "tcp", addr)
		if err != nil {
			return nil, err
		}
		return smtp.NewClient(conn, m.cfg.Host)
	}

	var d net.Dialer
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return nil, err
	}
	return smtp.NewClient(conn, m.cfg.Host)
}

func buildFromAddress(from, name string) string {
	if strings.TrimSpace(name) == "" {
		return from
	}
	encoded := mime.QEncoding.Encode("UTF-8", name)
	return (&mail.Address{Name: encoded, Address: from}).String()
}

func buildMessage(from, to, subject, body string) []byte {
	var buf bytes.Buffer
	fmt.Fprintf(&buf, "From: %s\r\n", from)
	fmt.Fprintf(&buf, "To: %s\r\n", to)
	fmt.Fprintf(&buf, "Subject: %s\r\n", mime.QEncoding.Encode("UTF-8", subject))
	buf.WriteString("MIME-Version: 1.0\r\n")
	buf.WriteString("Content-Type: text/plain; charset=UTF-8\r\n")
	buf.WriteString("\r\n")
	buf.WriteString(body)
	return buf.Bytes()
}
