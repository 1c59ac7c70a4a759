// Package config loads typed configuration from the process environment.
//
// Values are read into plain structs with `env` tags by
// github.com/caarlos0/env/v11. Before the first parse the default .env file
// in the working directory is loaded through github.com/joho/godotenv when it
// exists; LoadEnv loads explicit files instead. Each struct type is parsed
// once and cached for the life of the process.
//
//	type SMTPConfig struct {
//		Host string `env:"SMTP_HOST,required"`
//		Port int    `env:"SMTP_PORT" envDefault:"587"`
//	}
//
//	var smtp SMTPConfig
//	if err := config.Load(&smtp); err != nil {
//		return err
//	}
//
// Tests that change the environment between loads call ResetCache.
package config
