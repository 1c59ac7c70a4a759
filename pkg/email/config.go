package email

import (
	"fmt"
	"strings"
	"time"
)

// Provider names an email delivery backend.
type Provider string

const (
	ProviderSMTP     Provider = "smtp"
	ProviderPostmark Provider = "postmark"
	ProviderDev      Provider = "dev"
)

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Provider) UnmarshalText(text []byte) error {
	switch v := Provider(strings.ToLower(strings.TrimSpace(string(text)))); v {
	case "":
		*p = ProviderSMTP
	case ProviderSMTP, ProviderPostmark, ProviderDev:
		*p = v
	default:
		return fmt.Errorf("%w: unknown provider %q", ErrInvalidConfig, string(text))
	}
	return nil
}

// Config holds email delivery configuration. Only the settings of the
// selected provider are validated.
type Config struct {
	Provider     Provider `env:"EMAIL_PROVIDER" envDefault:"smtp"`
	SenderEmail  string   `env:"SMTP_SEND_AS_EMAIL"`
	SupportEmail string   `env:"EMAIL_REPLY_TO"`

	SMTP SMTPConfig

	PostmarkServerToken  string `env:"POSTMARK_SERVER_TOKEN"`
	PostmarkAccountToken string `env:"POSTMARK_ACCOUNT_TOKEN"`
	PostmarkBaseURL      string `env:"POSTMARK_BASE_URL"` // empty means the public API

	DevDir string `env:"EMAIL_DEV_DIR" envDefault:"./tmp/emails"`
}

// SMTPConfig describes the SMTP relay. UseTLS selects implicit TLS;
// otherwise STARTTLS is used when the server offers it.
type SMTPConfig struct {
	Host     string        `env:"SMTP_HOST"`
	Port     int           `env:"SMTP_PORT" envDefault:"587"`
	UseTLS   bool          `env:"SMTP_USE_TLS" envDefault:"false"`
	Username string        `env:"SMTP_USERNAME"`
	Password string        `env:"SMTP_PASSWORD"`
	Timeout  time.Duration `env:"SMTP_TIMEOUT" envDefault:"30s"`
}

// New returns the sender for cfg.Provider.
func New(cfg Config) (EmailSender, error) {
	switch cfg.Provider {
	case ProviderSMTP, "":
		return NewSMTPSender(cfg)
	case ProviderPostmark:
		return NewPostmarkSender(cfg)
	case ProviderDev:
		return NewDevSender(cfg.DevDir), nil
	default:
		return nil, fmt.Errorf("%w: unknown provider %q", ErrInvalidConfig, cfg.Provider)
	}
}

// checkAddresses validates the From and optional Reply-To addresses shared
// by the network senders.
func (c Config) checkAddresses() error {
	switch {
	case c.SenderEmail == "":
		return fmt.Errorf("%w: SenderEmail is required", ErrInvalidConfig)
	case !emailRegex.MatchString(c.SenderEmail):
		return fmt.Errorf("%w: SenderEmail must be a valid email address", ErrInvalidConfig)
	case c.SupportEmail != "" && !emailRegex.MatchString(c.SupportEmail):
		return fmt.Errorf("%w: SupportEmail must be a valid email address", ErrInvalidConfig)
	}
	return nil
}
