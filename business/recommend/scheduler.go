package recommend

import (
	"context"
	"errors"
	"fmt"
	"time"

	"caseAssist/pkg/logger"

	"github.com/google/uuid"
)

type Schedule string

const (
	ScheduleDaily   Schedule = "daily"
	ScheduleWeekly  Schedule = "weekly"
	ScheduleMonthly Schedule = "monthly"
	ScheduleOff     Schedule = "off"
)

func ParseSchedule(s string) (Schedule, error) {
	switch sch := Schedule(s); sch {
	case ScheduleDaily, ScheduleWeekly, ScheduleMonthly, ScheduleOff:
		return sch, nil
	default:
		return "", &ConfigurationError{Reason: fmt.Sprintf("unknown retrain schedule %q", s)}
	}
}

// Next is the first trigger time after from.
func (s Schedule) Next(from time.Time) (time.Time, bool) {
	switch s {
	case ScheduleDaily:
		return from.Add(24 * time.Hour), true
	case ScheduleWeekly:
		return from.Add(7 * 24 * time.Hour), true
	case ScheduleMonthly:
		return from.AddDate(0, 1, 0), true
	default:
		return time.Time{}, false
	}
}

type Retrainer interface {
	Retrain(ctx context.Context, trigger Trigger) (UpdateResult, error)
}

// Scheduler fires scheduled retrains until its context ends.
type Scheduler struct {
	retrainer Retrainer
	schedule  Schedule

	now   func() time.Time
	after func(d time.Duration) <-chan time.Time
}

func NewScheduler(retrainer Retrainer, schedule Schedule) *Scheduler {
	return &Scheduler{
		retrainer: retrainer,
		schedule:  schedule,
		now:       time.Now,
		after:     time.After,
	}
}

// Run blocks until ctx is done. A trigger that finds a run in progress is
// skipped.
func (s *Scheduler) Run(ctx context.Context) error {
	if _, ok := s.schedule.Next(s.now()); !ok {
		logger.Info("Scheduled retraining disabled")
		<-ctx.Done()
		return nil
	}

	logger.Info("Scheduled retraining enabled", "schedule", s.schedule)

	for {
		now := s.now()
		next, _ := s.schedule.Next(now)

		select {
		case <-ctx.Done():
			return nil
		case <-s.after(next.Sub(now)):
			s.tick(ctx)
		}
	}
}

func (s *Scheduler) tick(ctx context.Context) {
	ctx = WithTraceID(ctx, uuid.NewString())

	res, err := s.retrainer.Retrain(ctx, TriggerScheduled)
	switch {
	case errors.Is(err, ErrRetrainInProgress):
		logger.Info("Scheduled retrain skipped, a run is already in progress", "trace_id", TraceIDFromContext(ctx))
	case err != nil:
		logger.Error("Scheduled retrain failed", "trace_id", TraceIDFromContext(ctx), "error", err)
	default:
		logger.Info("Scheduled retrain finished",
			"trace_id", TraceIDFromContext(ctx),
			"accepted", res.Accepted,
			"reason", res.Reason,
			"model_version", res.Version,
		)
	}
}
