// Package smtp delivers notification email over SMTP.
package smtp

import (
	"bytes"
	"context"
	"fmt"

	"github.com/wneessen/go-mail"

	"github.com/example/certbatch/internal/ports/secondary"
)

// DefaultFromName is the display name notifications are sent under.
const DefaultFromName = "Certificate Issuer"

// Config holds SMTP connection settings.
type Config struct {
	Host        string
	Port        int
	Username    string
	Password    string
	FromName    string
	FromAddress string // defaults to Username
}

// sender is the part of the go-mail client used to deliver messages.
type sender interface {
	DialAndSendWithContext(ctx context.Context, messages ...*mail.Msg) error
}

// Mailer implements secondary.Mailer.
type Mailer struct {
	client   sender
	fromName string
	fromAddr string
}

// New creates a Mailer that authenticates with PLAIN over mandatory TLS.
func New(cfg Config) (*Mailer, error) {
	if cfg.Host == "" {
		return nil, fmt.Errorf("smtp host is required")
	}
	port := cfg.Port
	if port == 0 {
		port = 587
	}

	opts := []mail.Option{
		mail.WithPort(port),
		mail.WithTLSPortPolicy(mail.TLSMandatory),
	}
	if cfg.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(cfg.Username),
			mail.WithPassword(cfg.Password),
		)
	}

	client, err := mail.NewClient(cfg.Host, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create smtp client: %w", err)
	}
	return newMailer(client, cfg), nil
}

func newMailer(client sender, cfg Config) *Mailer {
	fromName := cfg.FromName
	if fromName == "" {
		fromName = DefaultFromName
	}
	fromAddr := cfg.FromAddress
	if fromAddr == "" {
		fromAddr = cfg.Username
	}
	return &Mailer{client: client, fromName: fromName, fromAddr: fromAddr}
}

// Send delivers one message.
func (m *Mailer) Send(ctx context.Context, msg *secondary.Message) error {
	out, err := m.build(msg)
	if err != nil {
		return err
	}
	if err := m.client.DialAndSendWithContext(ctx, out); err != nil {
		return fmt.Errorf("failed to send email to %s: %w", msg.To, err)
	}
	return nil
}

func (m *Mailer) build(msg *secondary.Message) (*mail.Msg, error) {
	out := mail.NewMsg()
	if err := out.FromFormat(m.fromName, m.fromAddr); err != nil {
		return nil, fmt.Errorf("invalid sender address %q: %w", m.fromAddr, err)
	}
	if err := out.To(msg.To); err != nil {
		return nil, fmt.Errorf("invalid recipient address %q: %w", msg.To, err)
	}
	out.Subject(msg.Subject)

	switch {
	case msg.HTMLBody != "" && msg.TextBody != "":
		out.SetBodyString(mail.TypeTextPlain, msg.TextBody)
		out.AddAlternativeString(mail.TypeTextHTML, msg.HTMLBody)
	case msg.HTMLBody != "":
		out.SetBodyString(mail.TypeTextHTML, msg.HTMLBody)
	default:
		out.SetBodyString(mail.TypeTextPlain, msg.TextBody)
	}

	for _, a := range msg.Attachments {
		opts := []mail.FileOption{}
		if a.ContentType != "" {
			opts = append(opts, mail.WithFileContentType(mail.ContentType(a.ContentType)))
		}
		if err := out.AttachReader(a.FileName, bytes.NewReader(a.Content), opts...); err != nil {
			return nil, fmt.Errorf("failed to attach %s: %w", a.FileName, err)
		}
	}
	return out, nil
}

// Ensure Mailer implements the interface.
var _ secondary.Mailer = (*Mailer)(nil)
