package port

import "context"

// Mail describes an outbound message.
type Mail struct {
	To      string
	Subject string
	Text    string
	HTML    string
}

// MailSender delivers transactional email and returns the provider delivery id.
type MailSender interface {
	Send(ctx context.Context, mail Mail) (string, error)
}
