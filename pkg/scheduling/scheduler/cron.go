package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/lucamtudor/rxiosmoe/pkg/cancel"
	rxcontext "github.com/lucamtudor/rxiosmoe/pkg/common/context"
	"github.com/lucamtudor/rxiosmoe/pkg/common/errors"
	"github.com/lucamtudor/rxiosmoe/pkg/common/validation"
)

// cronParser accepts five or six fields (leading seconds optional) and
// descriptors such as @hourly or @every 5m.
var cronParser = cron.NewParser(
	cron.SecondOptional | cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow | cron.Descriptor,
)

// ParseCron validates expr and returns its schedule.
func ParseCron(expr string) (cron.Schedule, error) {
	if err := validation.ValidateNotEmpty("scheduler", "cron", expr); err != nil {
		return nil, err
	}
	schedule, err := cronParser.Parse(expr)
	if err != nil {
		return nil, errors.NewValidationError("scheduler", "cron", expr, err.Error()).
			WithHint("use 5 or 6 fields, or a descriptor such as @hourly")
	}
	return schedule, nil
}

// ScheduleCron runs a on w at every activation of the cron expression expr
// until the returned handle or the worker is cancelled. An expression with
// no activation at all, such as February 30th, is a validation error.
func ScheduleCron(w Worker, expr string, a Action) (cancel.Handle, error) {
	if a == nil {
		return nil, validation.ValidateNotNil("scheduler", "action", nil)
	}
	schedule, err := ParseCron(expr)
	if err != nil {
		return nil, err
	}
	if schedule.Next(time.Now()).IsZero() {
		return nil, errors.NewValidationError("scheduler", "cron", expr, "expression never fires").
			WithHint("check the day of month against the month")
	}
	return scheduleCron(w, schedule, a)
}

// scheduleCron runs a at every activation of schedule. It stops once the
// schedule has no further activation.
func scheduleCron(w Worker, schedule cron.Schedule, a Action) (cancel.Handle, error) {
	serial := &cancel.Serial{}

	var tick Action
	tick = func(ctx context.Context) {
		if serial.IsCancelled() {
			return
		}
		a(ctx)
		if serial.IsCancelled() || rxcontext.IsInterrupted(ctx) {
			return
		}

		next := schedule.Next(time.Now())
		if next.IsZero() {
			serial.Cancel()
			return
		}
		h, err := w.ScheduleAfter(tick, time.Until(next))
		if err != nil {
			serial.Cancel()
			reportError(w, errors.NewOperationError("scheduler", "ScheduleCron", err))
			return
		}
		serial.Set(h)
	}

	next := schedule.Next(time.Now())
	if next.IsZero() {
		serial.Cancel()
		return serial, nil
	}
	h, err := w.ScheduleAfter(tick, time.Until(next))
	if err != nil {
		return nil, err
	}
	startSerial(w, serial, h)
	return serial, nil
}
