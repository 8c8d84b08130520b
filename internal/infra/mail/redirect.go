package mail

import (
	"context"

	"github.com/AnndyBrock/real-estate-app/internal/core/port"
)

// DevRedirectSender rewrites every recipient to a fixed address. Used outside
// production so test signups never email real people.
type DevRedirectSender struct {
	inner     port.MailSender
	recipient string
}

// NewDevRedirectSender wraps a sender with recipient rewriting. An empty
// recipient returns the inner sender unchanged.
func NewDevRedirectSender(inner port.MailSender, recipient string) port.MailSender {
	if recipient == "" {
		return inner
	}
	return &DevRedirectSender{inner: inner, recipient: recipient}
}

func (s *DevRedirectSender) Send(ctx context.Context, mail port.Mail) (string, error) {
	mail.To = s.recipient
	return s.inner.Send(ctx, mail)
}
