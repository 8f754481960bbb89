package opqueue

import (
	"runtime/debug"

	"github.com/lucamtudor/rxiosmoe/pkg/common/errors"
)

func (q *operationQueue) logPanic(op *Operation, recovered interface{}) {
	ev := q.logger.Error()
	if err, ok := recovered.(error); ok {
		ev = ev.Err(err)
		if errors.IsFatal(err) {
			ev = ev.Bool("fatal", true)
		}
	} else {
		ev = ev.Interface("panic", recovered)
	}
	ev.Bytes("stack", debug.Stack()).Msg("uncaught panic in operation")
}
