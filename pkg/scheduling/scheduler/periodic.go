package scheduler

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/lucamtudor/rxiosmoe/pkg/cancel"
	rxcontext "github.com/lucamtudor/rxiosmoe/pkg/common/context"
	"github.com/lucamtudor/rxiosmoe/pkg/common/errors"
	"github.com/lucamtudor/rxiosmoe/pkg/common/validation"
)

// SchedulePeriodically runs a on w after initialDelay and then every period
// until the returned handle or the worker is cancelled. Each run is
// scheduled relative to the first due time, so a slow action does not push
// later runs back. If the schedule falls more than one period behind it is
// re-anchored to the current time.
//
// If a later run cannot be scheduled the handle is cancelled and the error
// goes to the scheduler's ErrorHandler.
func SchedulePeriodically(w Worker, a Action, initialDelay, period time.Duration) (cancel.Handle, error) {
	if a == nil {
		return nil, validation.ValidateNotNil("scheduler", "action", nil)
	}
	if err := validation.ValidatePositiveDuration("scheduler", "period", period); err != nil {
		return nil, err
	}

	serial := &cancel.Serial{}
	anchor := time.Now().Add(initialDelay)
	var runs int64

	var tick Action
	tick = func(ctx context.Context) {
		if serial.IsCancelled() {
			return
		}
		a(ctx)
		if serial.IsCancelled() || rxcontext.IsInterrupted(ctx) {
			return
		}

		runs++
		now := time.Now()
		next := anchor.Add(time.Duration(runs) * period)
		if now.Sub(next) > period {
			anchor, runs = now, 0
			next = now.Add(period)
		}

		h, err := w.ScheduleAfter(tick, next.Sub(now))
		if err != nil {
			serial.Cancel()
			reportError(w, errors.NewOperationError("scheduler", "SchedulePeriodically", err))
			return
		}
		serial.Set(h)
	}

	h, err := w.ScheduleAfter(tick, initialDelay)
	if err != nil {
		return nil, err
	}
	startSerial(w, serial, h)
	return serial, nil
}

// startSerial installs the first handle of a repeating action. The first
// run may already have set its successor. A worker that was shut down
// never runs anything, so the serial is cancelled right away.
func startSerial(w Worker, serial *cancel.Serial, first cancel.Handle) {
	serial.SetFirst(first)
	if w.IsShutdown() {
		serial.Cancel()
	}
}

type errorReporter interface {
	handleError(err error)
}

// reportError sends a failure with no caller left to the worker's
// scheduler, or to the global logger for workers from other schedulers.
func reportError(w Worker, err error) {
	if r, ok := w.(errorReporter); ok {
		r.handleError(err)
		return
	}
	log.Error().Err(err).Msg("repeating action stopped")
}
