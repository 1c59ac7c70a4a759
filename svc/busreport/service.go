package busreport

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/schoolpass-automations/automations/pkg/email"
	"github.com/schoolpass-automations/automations/pkg/email/templates"
	"github.com/schoolpass-automations/automations/pkg/logger"
	"github.com/schoolpass-automations/automations/pkg/queue"
	"github.com/schoolpass-automations/automations/pkg/runlog"
	"github.com/schoolpass-automations/automations/pkg/schoolpass"
)

// TaskName identifies the automation in the queue and in run history.
const TaskName = "bus_manifest_report"

// API is the part of the SchoolPass facade a run needs.
type API interface {
	Init(ctx context.Context) error
	ListBuses(ctx context.Context) ([]schoolpass.Bus, error)
	RunBoardingManifestReport(ctx context.Context, opts schoolpass.ReportOptions) ([]schoolpass.ManifestReportItem, error)
}

// APIFactory returns a new, uninitialized API. It is called once per run.
type APIFactory func() API

// NewAPIFactory builds facades for cfg.
func NewAPIFactory(cfg schoolpass.Config, opts ...schoolpass.Option) APIFactory {
	return func() API { return schoolpass.NewAPI(cfg, opts...) }
}

// Result is the outcome of a run.
type Result struct {
	Status runlog.Status
	Report Report
}

// Service runs the Bus Manifest Report.
type Service struct {
	cfg        Config
	schoolName string
	newAPI     APIFactory
	mailer     email.EmailSender
	runs       runlog.Store
	loc        *time.Location
	now        func() time.Time
	logger     *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithLogger sets the service logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithRunStore records every run in store.
func WithRunStore(store runlog.Store) Option {
	return func(s *Service) {
		if store != nil {
			s.runs = store
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

// NewService creates a Service. schoolName prefixes the email subject.
func NewService(cfg Config, schoolName string, newAPI APIFactory, mailer email.EmailSender, opts ...Option) (*Service, error) {
	if newAPI == nil {
		return nil, ErrAPIFactoryRequired
	}
	if mailer == nil {
		return nil, ErrMailerRequired
	}
	if cfg.ToEmail == "" {
		return nil, ErrRecipientRequired
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	s := &Service{
		cfg:        cfg,
		schoolName: schoolName,
		newAPI:     newAPI,
		mailer:     mailer,
		runs:       runlog.NewMemoryStore(0),
		loc:        loc,
		now:        time.Now,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.logger = s.logger.With(logger.Component(TaskName))

	return s, nil
}

// Location is the zone report dates are computed in.
func (s *Service) Location() *time.Location { return s.loc }

// Handler adapts the service to the queue worker.
func (s *Service) Handler() queue.Handler {
	return queue.NewNamedTaskHandler(TaskName, func(ctx context.Context) error {
		trigger, _ := queue.TriggerFromContext(ctx)
		_, err := s.Run(ctx, trigger)
		return err
	})
}

// Run performs one report run and records its outcome. A roster without
// buses is not an error: the run is recorded as skipped and no email is
// sent.
func (s *Service) Run(ctx context.Context, trigger queue.Trigger) (*Result, error) {
	run := runlog.Run{
		Automation: TaskName,
		Trigger:    trigger.String(),
		StartedAt:  s.now(),
		Recipient:  s.cfg.ToEmail,
	}
	if id, ok := queue.TaskIDFromContext(ctx); ok {
		run.TaskID = id.String()
	}

	log := s.logger.With(logger.Trigger(trigger.String()))
	log.InfoContext(ctx, "Starting task...")

	res, err := s.run(ctx, log)

	run.FinishedAt = s.now()
	if res != nil {
		run.Status = res.Status
		run.ReportDate = res.Report.Date
		run.Buses = len(res.Report.Buses)
		run.Students = res.Report.StudentTotal
		run.Unmatched = res.Report.Unmatched
	}
	if err != nil {
		run.Status = runlog.StatusFailed
		run.Error = err.Error()
		log.ErrorContext(ctx, "Orchestration Error", logger.Error(err), logger.Duration(run.Duration()))
	}

	if rerr := s.runs.Record(context.WithoutCancel(ctx), run); rerr != nil {
		log.WarnContext(ctx, "failed to record run", logger.Error(rerr))
	}

	if err != nil {
		return nil, err
	}
	return res, nil
}

func (s *Service) run(ctx context.Context, log *slog.Logger) (*Result, error) {
	api := s.newAPI()
	if err := api.Init(ctx); err != nil {
		return nil, err
	}

	buses, err := api.ListBuses(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrListBuses, err)
	}
	buses = FilterByTags(buses, s.cfg.Tags())

	today := s.now().In(s.loc)
	if len(buses) == 0 {
		log.InfoContext(ctx, "No buses found. Canceling task...")
		return &Result{Status: runlog.StatusSkipped, Report: Report{Date: DateMonthDayYear(today)}}, nil
	}

	opts := ReportOptions(buses, today)
	items, err := api.RunBoardingManifestReport(ctx, opts)
	if err != nil {
		log.ErrorContext(ctx, "report request failed",
			logger.Operation("RunBoardingManifestReport"),
			logger.Input(opts),
			logger.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrRunReport, err)
	}

	report := Aggregate(buses, items)
	report.Date = DateMonthDayYear(today)
	if report.Unmatched > 0 {
		log.DebugContext(ctx, "manifest rows without a matching bus",
			slog.Int("unmatched", report.Unmatched))
	}

	body, err := templates.Render(ctx, ReportEmail(s.schoolName, report))
	if err != nil {
		return nil, errors.Join(ErrRender, err)
	}

	params := email.SendEmailParams{
		SendTo:   s.cfg.ToEmail,
		Subject:  fmt.Sprintf("[%s] Bus Manifest Report", s.schoolName),
		BodyHTML: body,
		Tag:      TaskName,
	}
	if err := s.mailer.SendEmail(ctx, params); err != nil {
		log.ErrorContext(ctx, "failed to send report",
			logger.Operation("SendEmail"),
			logger.Input(map[string]string{"to": params.SendTo, "subject": params.Subject}),
			logger.Error(err))
		return nil, fmt.Errorf("%w: %w", ErrSendReport, err)
	}

	log.InfoContext(ctx, "Task completed successfully!",
		slog.Int("buses", len(report.Buses)),
		slog.Int("students", report.StudentTotal))

	return &Result{Status: runlog.StatusSuccess, Report: report}, nil
}

// ReportOptions builds the manifest request for buses on day.
func ReportOptions(buses []schoolpass.Bus, day time.Time) schoolpass.ReportOptions {
	date := DateYearMonthDay(day)
	return schoolpass.ReportOptions{
		Sites:          "All",
		BusType:        "1",
		FromDate:       date,
		ToDate:         date,
		ReportGrouping: "0",
		Buses:          busIDs(buses),
		Grades:         "",
		BusPasses:      "",
		SortOrder:      "0",
		ReportType:     0,
	}
}
