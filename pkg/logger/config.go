package logger

// Config holds logger settings read from the environment.
type Config struct {
	Level  string `env:"LOG_LEVEL" envDefault:""`
	Format string `env:"LOG_FORMAT" envDefault:""`
}

// Options converts the config into logger options. Empty fields leave the
// environment defaults in place.
func (c Config) Options() []Option {
	var opts []Option
	if c.Format != "" {
		opts = append(opts, WithFormat(Format(c.Format)))
	}
	if c.Level != "" {
		opts = append(opts, WithLevelName(c.Level))
	}
	return opts
}
