package commands

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/schoolpass-automations/automations/pkg/config"
	"github.com/schoolpass-automations/automations/pkg/environment"
	"github.com/schoolpass-automations/automations/pkg/logger"
	"github.com/schoolpass-automations/automations/pkg/queue"
	"github.com/schoolpass-automations/automations/pkg/requestid"
)

// AppConfig identifies the running service.
type AppConfig struct {
	Env  string `env:"APP_ENV" envDefault:"development"`
	Name string `env:"APP_NAME" envDefault:"schoolpass-automations"`
}

var (
	envFiles []string

	env environment.Environment
	log *slog.Logger
)

// Execute runs the root command.
func Execute() error {
	root := &cobra.Command{
		Use:           "automations",
		Short:         "SchoolPass automations",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if len(envFiles) > 0 {
				if err := config.LoadEnv(envFiles...); err != nil {
					return err
				}
			}

			var appCfg AppConfig
			if err := config.Load(&appCfg); err != nil {
				return err
			}
			var logCfg logger.Config
			if err := config.Load(&logCfg); err != nil {
				return err
			}

			env = environment.Resolve(appCfg.Env)
			opts := append([]logger.Option{logger.WithEnvironment(env, appCfg.Name)}, logCfg.Options()...)
			opts = append(opts, logger.WithContextExtractors(
				requestid.LoggerExtractor(),
				queue.LoggerExtractor(),
			))
			log = logger.New(opts...)
			logger.SetAsDefault(log)

			cmd.SetContext(environment.WithContext(cmd.Context(), env))
			return nil
		},
	}

	root.PersistentFlags().StringSliceVar(&envFiles, "env-file", nil, "dotenv files to load before reading the environment")
	root.AddCommand(serveCmd(), runCmd())

	if err := root.Execute(); err != nil {
		if log != nil {
			log.Error("command failed", logger.Error(err))
		} else {
			slog.Error("command failed", logger.Error(err))
		}
		return err
	}
	return nil
}
