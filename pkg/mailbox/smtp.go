package mailbox

import (
	"context"
	"crypto/tls"
	"fmt"
	"log"
	"mime"
	"net"
	"net/smtp"
	"strings"
	"time"
)

// smtpSender delivers plain-text mail over SMTP with implicit TLS
// (port 465 style). One connection per send; the sender keeps no
// session state.
type smtpSender struct {
	addr     string
	username string
	password string
}

func newSMTPSender(addr, username, password string) *smtpSender {
	return &smtpSender{addr: addr, username: username, password: password}
}

func (s *smtpSender) Send(ctx context.Context, to, subject, body string) error {
	if err := s.send(ctx, to, subject, body); err != nil {
		return &TransportError{Op: "send", Err: err}
	}
	log.Printf("[Mailbox] Email sent to %s", to)
	return nil
}

func (s *smtpSender) send(ctx context.Context, to, subject, body string) error {
	host, _, err := net.SplitHostPort(s.addr)
	if err != nil {
		return fmt.Errorf("smtp address: %w", err)
	}

	dialer := &tls.Dialer{NetDialer: &net.Dialer{Timeout: 30 * time.Second}}
	conn, err := dialer.DialContext(ctx, "tcp", s.addr)
	if err != nil {
		return fmt.Errorf("dial: %w", err)
	}

	c, err := smtp.NewClient(conn, host)
	if err != nil {
		conn.Close()
		return fmt.Errorf("smtp handshake: %w", err)
	}
	defer c.Close()

	if err := c.Auth(smtp.PlainAuth("", s.username, s.password, host)); err != nil {
		return fmt.Errorf("auth: %w", err)
	}
	if err := c.Mail(s.username); err != nil {
		return fmt.Errorf("mail from: %w", err)
	}
	if err := c.Rcpt(to); err != nil {
		return fmt.Errorf("rcpt to: %w", err)
	}

	w, err := c.Data()
	if err != nil {
		return fmt.Errorf("data: %w", err)
	}
	if _, err := w.Write([]byte(formatMessage(s.username, to, subject, body))); err != nil {
		return fmt.Errorf("write body: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("close body: %w", err)
	}
	return c.Quit()
}

func formatMessage(from, to, subject, body string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "From: %s\r\n", from)
	fmt.Fprintf(&b, "To: %s\r\n", to)
	fmt.Fprintf(&b, "Subject: %s\r\n", mime.QEncoding.Encode("utf-8", subject))
	fmt.Fprintf(&b, "Date: %s\r\n", time.Now().UTC().Format(time.RFC1123Z))
	b.WriteString("MIME-Version: 1.0\r\n")
	b.WriteString("Content-Type: text/plain; charset=utf-8\r\n")
	b.WriteString("\r\n")
	b.WriteString(strings.ReplaceAll(body, "\n", "\r\n"))
	return b.String()
}
