package commands

import (
	"context"
	"errors"
	"log/slog"

	goredis "github.com/redis/go-redis/v9"

	"github.com/schoolpass-automations/automations/pkg/config"
	"github.com/schoolpass-automations/automations/pkg/email"
	"github.com/schoolpass-automations/automations/pkg/httpserver"
	"github.com/schoolpass-automations/automations/pkg/logger"
	"github.com/schoolpass-automations/automations/pkg/redis"
	"github.com/schoolpass-automations/automations/pkg/runlog"
	"github.com/schoolpass-automations/automations/pkg/schoolpass"
	"github.com/schoolpass-automations/automations/svc/busreport"
)

// app holds the components shared by serve and run.
type app struct {
	reportCfg busreport.Config
	report    *busreport.Service
	runs      runlog.Store
	redis     *goredis.Client
	checks    []httpserver.Check
}

// newApp wires run history and, when withReport is set, the report
// service. SchoolPass and email settings are only read in that case.
func newApp(ctx context.Context, log *slog.Logger, withReport bool) (*app, error) {
	var (
		reportCfg busreport.Config
		redisCfg  redis.Config
		runsCfg   runlog.Config
	)
	for _, load := range []func() error{
		func() error { return config.Load(&reportCfg) },
		func() error { return config.Load(&redisCfg) },
		func() error { return config.Load(&runsCfg) },
	} {
		if err := load(); err != nil {
			return nil, err
		}
	}

	a := &app{reportCfg: reportCfg}

	if redisCfg.Enabled() {
		client, err := redis.Connect(ctx, redisCfg)
		if err != nil {
			return nil, err
		}
		store, err := runlog.NewRedisStore(client, runsCfg)
		if err != nil {
			_ = client.Close()
			return nil, err
		}
		a.redis = client
		a.runs = store
		a.checks = append(a.checks, httpserver.Check{Name: "redis", Fn: redis.Healthcheck(client)})
		log.Info("run history stored in redis")
	} else {
		a.runs = runlog.NewMemoryStore(runsCfg.Capacity)
	}

	if withReport {
		if err := a.buildReport(log); err != nil {
			a.Close()
			return nil, err
		}
	}

	return a, nil
}

func (a *app) buildReport(log *slog.Logger) error {
	var (
		spCfg    schoolpass.Config
		emailCfg email.Config
	)
	if err := config.Load(&spCfg); err != nil {
		return err
	}
	if err := spCfg.Validate(); err != nil {
		return err
	}
	if err := config.Load(&emailCfg); err != nil {
		return err
	}

	sender, err := email.New(emailCfg)
	if err != nil {
		return err
	}

	factory := busreport.NewAPIFactory(spCfg, schoolpass.WithLogger(log))
	a.report, err = busreport.NewService(a.reportCfg, spCfg.SchoolName, factory, email.WithLogging(sender, log),
		busreport.WithLogger(log),
		busreport.WithRunStore(a.runs),
	)
	return err
}

func (a *app) Close() {
	if a.redis != nil {
		if err := a.redis.Close(); err != nil && !errors.Is(err, goredis.ErrClosed) {
			slog.Warn("failed to close redis client", logger.Error(err))
		}
	}
}
