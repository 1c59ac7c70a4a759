package queue

import (
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
)

// Schedule determines when a periodic task should run
type Schedule interface {
	Next(from time.Time) time.Time
	String() string
}

// cronParser accepts five-field expressions and six-field ones with a
// leading seconds field.
var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

type cronSchedule struct {
	spec  string
	sched cron.Schedule
	loc   *time.Location
}

func (s cronSchedule) Next(from time.Time) time.Time {
	if s.loc != nil {
		from = from.In(s.loc)
	}
	return s.sched.Next(from)
}

func (s cronSchedule) String() string {
	if s.loc != nil {
		return fmt.Sprintf("cron %q in %s", s.spec, s.loc)
	}
	return fmt.Sprintf("cron %q", s.spec)
}

// Cron parses a cron expression such as "0 0 15 * * 1-5" (seconds first) or
// "0 15 * * 1-5". Descriptors like "@daily" are accepted too. A nil loc
// evaluates the expression in the location of the time passed to Next.
func Cron(spec string, loc *time.Location) (Schedule, error) {
	sched, err := cronParser.Parse(spec)
	if err != nil {
		return nil, fmt.Errorf("%w: %q: %w", ErrInvalidSchedule, spec, err)
	}
	return cronSchedule{spec: spec, sched: sched, loc: loc}, nil
}

// MustCron is like Cron but panics on an invalid expression.
func MustCron(spec string, loc *time.Location) Schedule {
	s, err := Cron(spec, loc)
	if err != nil {
		panic(err)
	}
	return s
}

// intervalSchedule runs at fixed intervals
type intervalSchedule struct {
	every time.Duration
}

func (s intervalSchedule) Next(from time.Time) time.Time {
	return from.Add(s.every)
}

func (s intervalSchedule) String() string {
	return fmt.Sprintf("every %v", s.every)
}

// EveryInterval creates a schedule that runs at fixed intervals
func EveryInterval(d time.Duration) Schedule {
	return intervalSchedule{every: d}
}

// dailySchedule runs once per day at specified time
type dailySchedule struct {
	hour   int
	minute int
}

func (s dailySchedule) Next(from time.Time) time.Time {
	next := time.Date(from.Year(), from.Month(), from.Day(), s.hour, s.minute, 0, 0, from.Location())
	if !next.After(from) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}

func (s dailySchedule) String() string {
	return fmt.Sprintf("daily at %02d:%02d", s.hour, s.minute)
}

// DailyAt creates a schedule that runs daily at specified time
func DailyAt(hour, minute int) Schedule {
	return dailySchedule{hour: hour, minute: minute}
}
