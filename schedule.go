package threadtask

import (
	"time"

	"github.com/teambition/rrule-go"
)

// Weekday selectors for Schedule.AtDays, kept from the teacher's
// schedule.go.
const (
	Monday    = 0
	Tuesday   = 1
	Wednesday = 2
	Thursday  = 3
	Friday    = 4
	Saturday  = 5
	Sunday    = 6
)

var weekdays = map[int]rrule.Weekday{
	Monday:    rrule.MO,
	Tuesday:   rrule.TU,
	Wednesday: rrule.WE,
	Thursday:  rrule.TH,
	Friday:    rrule.FR,
	Saturday:  rrule.SA,
	Sunday:    rrule.SU,
}

// Schedule is a recurrence rule builder, used by ScheduleTask to drive a
// Periodic-like Task from an rrule instead of a fixed interval. Grounded
// on the teacher's schedule.go (github.com/teambition/rrule-go), here
// retargeted from "next job launch time" to "next occurrence for an
// in-process recurring Task".
type Schedule struct {
	freq     rrule.Frequency
	interval int
	days     []rrule.Weekday
	hours    []int
	minutes  []int
}

// EveryDay starts a daily recurrence.
func EveryDay() *Schedule { return &Schedule{freq: rrule.DAILY, interval: 1} }

// EveryWeek starts a weekly recurrence.
func EveryWeek() *Schedule { return &Schedule{freq: rrule.WEEKLY, interval: 1} }

// EveryMonth starts a monthly recurrence.
func EveryMonth() *Schedule { return &Schedule{freq: rrule.MONTHLY, interval: 1} }

// EveryHour starts an hourly recurrence.
func EveryHour() *Schedule { return &Schedule{freq: rrule.HOURLY, interval: 1} }

// Interval overrides the step between occurrences (e.g. EveryWeek().Interval(2)
// for fortnightly). Interval(0) is a no-op rather than a footgun that
// zeroes the rrule step: Or keeps whichever the EveryX constructor set.
func (s *Schedule) Interval(interval int) *Schedule {
	s.interval = Or(interval, s.interval)
	return s
}

// AtDays restricts the recurrence to the given weekdays.
func (s *Schedule) AtDays(days ...int) *Schedule {
	for _, day := range days {
		if wd, ok := weekdays[day]; ok {
			s.days = append(s.days, wd)
		}
	}
	return s
}

// AtHours restricts the recurrence to the given hours of day.
func (s *Schedule) AtHours(hours ...int) *Schedule {
	s.hours = hours
	return s
}

// AtMinutes restricts the recurrence to the given minutes of hour.
func (s *Schedule) AtMinutes(minutes ...int) *Schedule {
	s.minutes = minutes
	return s
}

func (s *Schedule) toRRule(from time.Time) (*rrule.RRule, error) {
	return rrule.NewRRule(rrule.ROption{
		Freq:      s.freq,
		Interval:  s.interval,
		Byweekday: s.days,
		Byhour:    s.hours,
		Byminute:  s.minutes,
		Dtstart:   from,
	})
}

// ScheduleTask creates a Periodic-like Task whose per-iteration delay is
// the time until the schedule's next occurrence, generalizing Periodic's
// fixed interval the same way CronPeriodic does, but from an rrule
// instead of a cron expression.
func ScheduleTask(schedule *Schedule, action ActionFunc, opts ...Option) (*Task, error) {
	rule, err := schedule.toRRule(time.Now())
	if err != nil {
		return nil, err
	}
	t := newTask(kindPeriodic, action, opts)
	t.nextOccurrence = func(from time.Time) time.Time {
		return rule.After(from, false)
	}
	return t, nil
}
