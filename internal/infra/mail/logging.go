package mail

import (
	"context"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/AnndyBrock/real-estate-app/internal/core/port"
	"github.com/AnndyBrock/real-estate-app/internal/infra/logger"
)

// LoggingSender logs messages instead of delivering them. Useful for
// development environments without a mail provider key.
type LoggingSender struct {
	logger *zap.Logger
}

// NewLoggingSender constructs a development-friendly mail sender.
func NewLoggingSender(log *zap.Logger) *LoggingSender {
	if log == nil {
		log = zap.NewNop()
	}
	return &LoggingSender{logger: log}
}

// Send logs the message and fabricates a delivery id.
func (s *LoggingSender) Send(_ context.Context, mail port.Mail) (string, error) {
	deliveryID := uuid.NewString()

	s.logger.Info("mail delivery stubbed",
		zap.String("to", logger.MaskEmail(mail.To)),
		zap.String("subject", mail.Subject),
		zap.String("delivery_id", deliveryID),
	)

	return deliveryID, nil
}

var _ port.MailSender = (*LoggingSender)(nil)
