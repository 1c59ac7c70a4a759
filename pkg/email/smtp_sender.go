package email

import (
	"context"
	"errors"
	"fmt"

	"github.com/wneessen/go-mail"
)

type smtpSender struct {
	cfg Config
}

// NewSMTPSender creates an SMTP-backed email sender. Authentication is used
// only when a username is configured.
func NewSMTPSender(cfg Config) (EmailSender, error) {
	if cfg.SMTP.Host == "" {
		return nil, fmt.Errorf("%w: SMTP host is required", ErrInvalidConfig)
	}
	if cfg.SMTP.Port <= 0 {
		return nil, fmt.Errorf("%w: SMTP port must be positive", ErrInvalidConfig)
	}
	if err := cfg.checkAddresses(); err != nil {
		return nil, err
	}
	return &smtpSender{cfg: cfg}, nil
}

func (s *smtpSender) SendEmail(ctx context.Context, params SendEmailParams) error {
	if err := params.Validate(); err != nil {
		return err
	}

	msg, err := s.message(params)
	if err != nil {
		return errors.Join(ErrFailedToSendEmail, err)
	}

	client, err := mail.NewClient(s.cfg.SMTP.Host, s.clientOptions()...)
	if err != nil {
		return errors.Join(ErrFailedToSendEmail, err)
	}

	if err := client.DialAndSendWithContext(ctx, msg); err != nil {
		return errors.Join(ErrFailedToSendEmail, err)
	}
	return nil
}

func (s *smtpSender) message(params SendEmailParams) (*mail.Msg, error) {
	msg := mail.NewMsg()
	if err := msg.From(s.cfg.SenderEmail); err != nil {
		return nil, fmt.Errorf("invalid sender: %w", err)
	}
	if err := msg.To(params.SendTo); err != nil {
		return nil, fmt.Errorf("invalid recipient: %w", err)
	}
	if s.cfg.SupportEmail != "" {
		if err := msg.ReplyTo(s.cfg.SupportEmail); err != nil {
			return nil, fmt.Errorf("invalid reply-to: %w", err)
		}
	}
	msg.Subject(params.Subject)
	msg.SetBodyString(mail.TypeTextHTML, params.BodyHTML)
	return msg, nil
}

func (s *smtpSender) clientOptions() []mail.Option {
	c := s.cfg.SMTP
	opts := []mail.Option{mail.WithPort(c.Port)}
	if c.Timeout > 0 {
		opts = append(opts, mail.WithTimeout(c.Timeout))
	}
	if c.UseTLS {
		opts = append(opts, mail.WithSSL())
	} else {
		opts = append(opts, mail.WithTLSPolicy(mail.TLSOpportunistic))
	}
	if c.Username != "" {
		opts = append(opts,
			mail.WithSMTPAuth(mail.SMTPAuthPlain),
			mail.WithUsername(c.Username),
			mail.WithPassword(c.Password),
		)
	}
	return opts
}
