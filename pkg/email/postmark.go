package email

import (
	"context"
	"fmt"
	"strings"

	"github.com/mrz1836/postmark"
)

// postmarkSender delivers through Postmark's transactional API.
type postmarkSender struct {
	client  *postmark.Client
	from    string
	replyTo string
}

// NewPostmarkSender returns a sender using the Postmark server and account
// tokens from cfg.
func NewPostmarkSender(cfg Config) (EmailSender, error) {
	if cfg.PostmarkServerToken == "" {
		return nil, fmt.Errorf("%w: PostmarkServerToken is required", ErrInvalidConfig)
	}
	if cfg.PostmarkAccountToken == "" {
		return nil, fmt.Errorf("%w: PostmarkAccountToken is required", ErrInvalidConfig)
	}
	if err := cfg.checkAddresses(); err != nil {
		return nil, err
	}

	client := postmark.NewClient(cfg.PostmarkServerToken, cfg.PostmarkAccountToken)
	if cfg.PostmarkBaseURL != "" {
		client.BaseURL = strings.TrimRight(cfg.PostmarkBaseURL, "/")
	}
	return &postmarkSender{client: client, from: cfg.SenderEmail, replyTo: cfg.SupportEmail}, nil
}

// SendEmail sends params as an HTML message. Tracking stays off since the
// reports are internal mail.
func (s *postmarkSender) SendEmail(ctx context.Context, params SendEmailParams) error {
	if err := params.Validate(); err != nil {
		return err
	}

	resp, err := s.client.SendEmail(ctx, postmark.Email{
		From:     s.from,
		ReplyTo:  s.replyTo,
		To:       params.SendTo,
		Subject:  params.Subject,
		Tag:      params.Tag,
		HTMLBody: params.BodyHTML,
	})
	switch {
	case err != nil:
		return fmt.Errorf("%w: %w", ErrFailedToSendEmail, err)
	case resp.ErrorCode != 0:
		return fmt.Errorf("%w: postmark error %d: %s", ErrFailedToSendEmail, resp.ErrorCode, resp.Message)
	}
	return nil
}
