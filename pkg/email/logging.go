package email

import (
	"context"
	"log/slog"
	"time"

	"github.com/schoolpass-automations/automations/pkg/logger"
)

type loggingSender struct {
	next   EmailSender
	logger *slog.Logger
}

// WithLogging wraps next so every send is logged with its outcome.
func WithLogging(next EmailSender, l *slog.Logger) EmailSender {
	if l == nil {
		l = slog.Default()
	}
	return &loggingSender{next: next, logger: l.With(logger.Component("email"))}
}

func (s *loggingSender) SendEmail(ctx context.Context, params SendEmailParams) error {
	start := time.Now()
	err := s.next.SendEmail(ctx, params)

	attrs := []any{
		slog.String("send_to", params.SendTo),
		slog.String("subject", params.Subject),
		logger.Duration(time.Since(start)),
	}
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to send email", append(attrs, logger.Error(err))...)
		return err
	}
	s.logger.InfoContext(ctx, "email sent", attrs...)
	return nil
}
