// Package email sends HTML notification emails through a pluggable provider.
//
// Everything is built around the EmailSender interface. Three providers are
// available and selected with Config.Provider (EMAIL_PROVIDER):
//
//   - "smtp" (default) delivers through an SMTP relay using github.com/wneessen/go-mail
//   - "postmark" delivers through the Postmark API
//   - "dev" writes every message as an HTML file plus JSON metadata to a directory
//
// Typical use:
//
//	var cfg email.Config
//	config.MustLoad(&cfg)
//
//	sender, err := email.New(cfg)
//	if err != nil {
//		return err
//	}
//	sender = email.WithLogging(sender, log)
//
//	err = sender.SendEmail(ctx, email.SendEmailParams{
//		SendTo:   "transport@example.com",
//		Subject:  "[Springfield Elementary] Bus Manifest Report",
//		BodyHTML: html,
//	})
//
// Every provider validates SendEmailParams before delivery. Validation
// failures wrap ErrInvalidParams, configuration problems wrap ErrInvalidConfig
// and delivery failures wrap ErrFailedToSendEmail.
//
// Message bodies are usually produced from templ components with
// templates.Render.
package email
