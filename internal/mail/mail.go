// Package mail delivers notification mails, currently the password reset link.
package mail

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"html/template"
	"net"
	"net/smtp"
	"strconv"
	"strings"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/folio-cms/folio/internal/config"
)

// ErrNotConfigured is returned by SMTP when host or sender are missing.
var ErrNotConfigured = errors.New("mail not configured")

// Notifier sends one mail.
type Notifier interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// New returns an SMTP notifier, or a Log notifier when cfg.Host is empty.
func New(cfg config.Mail) Notifier {
	if cfg.Host == "" {
		return Log{}
	}

	return NewSMTP(cfg)
}

// SendFunc is the signature of smtp.SendMail.
type SendFunc func(addr string, a smtp.Auth, from string, to []string, msg []byte) error

// SMTP sends multipart mails through an SMTP relay.
type SMTP struct {
	cfg    config.Mail
	server string
	auth   smtp.Auth
	send   SendFunc
}

// NewSMTP returns a notifier using PLAIN auth when a username is set.
func NewSMTP(cfg config.Mail) *SMTP {
	var auth smtp.Auth
	if cfg.Username != "" {
		auth = smtp.PlainAuth("", cfg.Username, cfg.Password, cfg.Host)
	}

	return &SMTP{
		cfg:    cfg,
		server: net.JoinHostPort(cfg.Host, strconv.Itoa(cfg.Port)),
		auth:   auth,
		send:   smtp.SendMail,
	}
}

// IsConfigured returns true if host, port and sender are set.
func (s *SMTP) IsConfigured() bool {
	return s.cfg.Host != "" && s.cfg.Port != 0 && s.cfg.From != ""
}

// Send implements Notifier. net/smtp has no context support, so ctx is
// only checked before dialing.
func (s *SMTP) Send(ctx context.Context, to, subject, htmlBody string) error {
	if !s.IsConfigured() {
		return ErrNotConfigured
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	msg := s.message(to, subject, htmlBody)

	if err := s.send(s.server, s.auth, s.cfg.From, []string{to}, msg); err != nil {
		return fmt.Errorf("send mail to %s: %w", to, err)
	}

	return nil
}

func (s *SMTP) message(to, subject, htmlBody string) []byte {
	from := s.cfg.From
	if s.cfg.FromName != "" {
		from = fmt.Sprintf("%s <%s>", s.cfg.FromName, s.cfg.From)
	}

	boundary := "folio-" + strconv.FormatInt(time.Now().UnixNano(), 36)

	var msg bytes.Buffer
	fmt.Fprintf(&msg, "To: %s\r\n", to)
	fmt.Fprintf(&msg, "From: %s\r\n", from)
	fmt.Fprintf(&msg, "Subject: %s\r\n", subject)
	fmt.Fprintf(&msg, "MIME-Version: 1.0\r\n")
	fmt.Fprintf(&msg, "Content-Type: multipart/alternative; boundary=\"%s\"\r\n", boundary)
	fmt.Fprintf(&msg, "\r\n")

	// plain text fallback
	fmt.Fprintf(&msg, "--%s\r\n", boundary)
	fmt.Fprintf(&msg, "Content-Type: text/plain; charset=UTF-8\r\n\r\n")
	fmt.Fprintf(&msg, "%s\r\n\r\n", plainText(htmlBody))

	fmt.Fprintf(&msg, "--%s\r\n", boundary)
	fmt.Fprintf(&msg, "Content-Type: text/html; charset=UTF-8\r\n\r\n")
	fmt.Fprintf(&msg, "%s\r\n\r\n", htmlBody)
	fmt.Fprintf(&msg, "--%s--\r\n", boundary)

	return msg.Bytes()
}

// plainText strips tags well enough for the short mails sent here.
func plainText(html string) string {
	var (
		b     strings.Builder
		inTag bool
	)

	for _, r := range html {
		switch {
		case r == '<':
			inTag = true
		case r == '>':
			inTag = false
		case !inTag:
			b.WriteRune(r)
		}
	}

	return strings.TrimSpace(b.String())
}

// Log writes mails to the application log instead of sending them.
type Log struct{}

// Send implements Notifier.
func (Log) Send(_ context.Context, to, subject, htmlBody string) error {
	log.Warn().Str("to", to).Str("subject", subject).Str("body", plainText(htmlBody)).
		Msg("mail host not configured, mail written to log")

	return nil
}

// ResetData feeds the password reset template.
type ResetData struct {
	SiteTitle string
	ResetURL  string
	ExpiresIn time.Duration
}

// ResetSubject is the subject of password reset mails.
const ResetSubject = "Admin Password Reset Request"

var resetTemplate = template.Must(template.New("reset").Parse(passwordResetTemplate)) //nolint:gochecknoglobals

// RenderReset renders the password reset mail body.
func RenderReset(data ResetData) (string, error) {
	var buf bytes.Buffer
	if err := resetTemplate.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("render password reset template: %w", err)
	}

	return buf.String(), nil
}

const passwordResetTemplate = `<!DOCTYPE html>
<html>
<head>
    <meta charset="UTF-8">
    <title>Reset your {{.SiteTitle}} password</title>
</head>
<body style="font-family: sans-serif; line-height: 1.6; color: #333; max-width: 600px; margin: 0 auto; padding: 20px;">
    <p>You requested a password reset. Click the link below to securely create a new password:</p>
    <p><a href="{{.ResetURL}}"><strong>Reset Password</strong></a></p>
    <p>{{.ResetURL}}</p>
    <p>If you did not request this, please ignore it. This link expires in {{.ExpiresIn}}.</p>
</body>
</html>`
