package schoolpass

import (
	"fmt"
	"time"
)

// Config holds SchoolPass credentials and client tuning.
type Config struct {
	ConfigURL           string        `env:"SCHOOLPASS_CONFIG_URL" envDefault:"https://schoolpass.cloud/assets/runtime.config.json"`
	SchoolName          string        `env:"SCHOOLPASS_SCHOOL_NAME" envDefault:"SchoolPass Automations"`
	Username            string        `env:"SCHOOLPASS_USERNAME,required"`
	Password            string        `env:"SCHOOLPASS_PASSWORD,required"`
	PasswordMode        PasswordMode  `env:"SCHOOLPASS_PASSWORD_MODE" envDefault:"plain"`
	HTTPTimeout         time.Duration `env:"SCHOOLPASS_HTTP_TIMEOUT" envDefault:"30s"`
	MaxRateLimitRetries int           `env:"SCHOOLPASS_RATE_LIMIT_MAX_RETRIES" envDefault:"5"`
}

// Validate rejects settings the client cannot honour. Zero retries is valid
// and fails a request on its first 429.
func (c Config) Validate() error {
	if c.MaxRateLimitRetries < 0 {
		return fmt.Errorf("%w: SCHOOLPASS_RATE_LIMIT_MAX_RETRIES must not be negative, got %d", ErrInvalidConfig, c.MaxRateLimitRetries)
	}
	if c.HTTPTimeout < 0 {
		return fmt.Errorf("%w: SCHOOLPASS_HTTP_TIMEOUT must not be negative, got %s", ErrInvalidConfig, c.HTTPTimeout)
	}
	return nil
}
