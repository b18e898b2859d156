// Package async provides safe execution of fire-and-forget background
// tasks: panic recovery, per-task timeouts, and error logging. Use
// SafeGo instead of a bare `go func()` for best-effort side effects such
// as activity tracking, whose failures must never reach the caller.
package async

import (
	"context"
	"runtime/debug"
	"time"

	"github.com/sirupsen/logrus"
)

// SafeGo runs fn in a goroutine with a timeout-bounded context, panic
// recovery, and error logging. Failures are logged and optionally
// reported through onError; they never propagate to the caller.
func SafeGo(parentCtx context.Context, timeout time.Duration, taskName string, log *logrus.Logger, onError func(error), fn func(context.Context) error) {
	if log == nil {
		log = logrus.StandardLogger()
	}

	go func() {
		ctx, cancel := context.WithTimeout(parentCtx, timeout)
		defer cancel()

		defer func() {
			if r := recover(); r != nil {
				log.WithFields(logrus.Fields{
					"task":  taskName,
					"panic": r,
					"stack": string(debug.Stack()),
				}).Error("background task panicked")
			}
		}()

		if err := fn(ctx); err != nil {
			log.WithError(err).WithField("task", taskName).Warn("background task failed")
			if onError != nil {
				onError(err)
			}
		}
	}()
}
