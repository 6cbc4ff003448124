package secondary

import "context"

// Attachment is one file attached to an outgoing message.
type Attachment struct {
	FileName    string
	ContentType string
	Content     []byte
}

// Message is a rendered outgoing email.
type Message struct {
	To          string
	Subject     string
	HTMLBody    string
	TextBody    string
	Attachments []Attachment
}

// Mailer defines the secondary port for email delivery.
type Mailer interface {
	Send(ctx context.Context, msg *Message) error
}

// SecretResolver resolves a secret reference (e.g. an ARN or name) to its value.
type SecretResolver interface {
	Resolve(ctx context.Context, ref string) (string, error)
}
