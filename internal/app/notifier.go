package app

import (
	"bytes"
	"context"
	"fmt"
	"html/template"

	"github.com/example/certbatch/internal/core/destination"
	"github.com/example/certbatch/internal/ports/secondary"
)

const notificationSubject = "Your Certificates Are Ready"

var notificationHTML = template.Must(template.New("notification").Parse(
	`<p>Hello {{.Name}},</p>
<p>Certificates available at: <a href="{{.Link}}">{{.Link}}</a></p>
<p>ZIP attachment contains all PDF certificates.</p>
`))

// Notifier emails a recipient their folder link and certificate bundle.
type Notifier struct {
	mailer secondary.Mailer
}

// NewNotifier creates a Notifier with injected dependencies.
func NewNotifier(mailer secondary.Mailer) *Notifier {
	return &Notifier{mailer: mailer}
}

// Send delivers one message with the archive attached.
func (n *Notifier) Send(ctx context.Context, email, shareableReference string, archive []byte, recipientName string) error {
	var body bytes.Buffer
	err := notificationHTML.Execute(&body, struct {
		Name string
		Link string
	}{Name: recipientName, Link: shareableReference})
	if err != nil {
		return fmt.Errorf("failed to render notification: %w", err)
	}

	msg := &secondary.Message{
		To:       email,
		Subject:  notificationSubject,
		HTMLBody: body.String(),
		TextBody: fmt.Sprintf("Hello %s,\n\nCertificates available at: %s\n\nZIP attachment contains all PDF certificates.\n", recipientName, shareableReference),
		Attachments: []secondary.Attachment{{
			FileName:    destination.ArchiveFileName(recipientName),
			ContentType: "application/zip",
			Content:     archive,
		}},
	}

	return n.mailer.Send(ctx, msg)
}
