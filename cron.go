package threadtask

import (
	"time"

	"github.com/robfig/cron/v3"
)

// cronParser mirrors the teacher's job.go: minute/hour/dom/month/dow
// fields plus the handful of descriptors ("@daily", ...).
var cronParser = cron.NewParser(
	cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

func nextCronOccurrence(spec string, from time.Time) (time.Time, error) {
	schedule, err := cronParser.Parse(spec)
	if err != nil {
		return time.Time{}, err
	}
	return schedule.Next(from), nil
}
