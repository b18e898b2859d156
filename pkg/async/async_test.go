package async

import (
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

func quietLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

func TestSafeGoRunsTask(t *testing.T) {
	done := make(chan struct{})

	SafeGo(context.Background(), time.Second, "test task", quietLogger(), nil, func(context.Context) error {
		close(done)
		return nil
	})

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Task never ran")
	}
}

func TestSafeGoReportsErrors(t *testing.T) {
	errCh := make(chan error, 1)

	SafeGo(context.Background(), time.Second, "failing task", quietLogger(), func(err error) {
		errCh <- err
	}, func(context.Context) error {
		return errors.New("task failed")
	})

	select {
	case err := <-errCh:
		if err == nil || err.Error() != "task failed" {
			t.Errorf("Unexpected error: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("onError never called")
	}
}

func TestSafeGoRecoversPanic(t *testing.T) {
	ran := make(chan struct{})

	SafeGo(context.Background(), time.Second, "panicking task", quietLogger(), nil, func(context.Context) error {
		defer close(ran)
		panic("task bug")
	})

	select {
	case <-ran:
	case <-time.After(2 * time.Second):
		t.Fatal("Task never ran")
	}

	// Give the recover path a moment; the test passes by not crashing.
	time.Sleep(50 * time.Millisecond)
}

func TestSafeGoTimeoutCancelsContext(t *testing.T) {
	canceled := make(chan struct{})

	SafeGo(context.Background(), 50*time.Millisecond, "slow task", quietLogger(), nil, func(ctx context.Context) error {
		<-ctx.Done()
		close(canceled)
		return ctx.Err()
	})

	select {
	case <-canceled:
	case <-time.After(2 * time.Second):
		t.Fatal("Context never canceled")
	}
}
