package shutdownqueue

import (
	"context"
	"errors"
	"strings"
	"sync/atomic"
	"testing"
	"time"
)

// resetQueue clears the package state between tests.
func resetQueue(t *testing.T) {
	t.Helper()
	t.Cleanup(func() {
		mu.Lock()
		tasks = nil
		closed = false
		mu.Unlock()
	})
}

//nolint:paralleltest
func TestAddNilTaskIsNoop(t *testing.T) {
	resetQueue(t)

	Add(nil)

	err := Shutdown(context.Background())
	if err != nil {
		t.Fatalf("expected nil after adding nil task; got %v", err)
	}
}

//nolint:paralleltest
func TestLIFOOrder(t *testing.T) {
	resetQueue(t)

	var order []int

	for i := 1; i <= 3; i++ {
		n := i
		Add(func(ctx context.Context) error {
			order = append(order, n)
			return nil
		})
	}

	err := Shutdown(context.Background())
	if err != nil {
		t.Fatalf("Shutdown error: %v", err)
	}

	want := []int{3, 2, 1}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("order mismatch: got %v, want %v", order, want)
		}
	}
}

//nolint:paralleltest
func TestPanicRecoveredAndDrainContinues(t *testing.T) {
	resetQueue(t)

	var ranAfterPanic atomic.Bool

	Add(func(ctx context.Context) error { return nil })
	Add(func(ctx context.Context) error { panic("boom") })
	Add(func(ctx context.Context) error {
		ranAfterPanic.Store(true)
		return nil
	})

	err := Shutdown(context.Background())
	if err == nil || !strings.Contains(err.Error(), "panic in shutdown task: boom") {
		t.Fatalf("expected panic in aggregated error; got %v", err)
	}

	if !ranAfterPanic.Load() {
		t.Fatalf("expected tasks after the panic to still run")
	}
}

//nolint:paralleltest
func TestCancelStopsDrain(t *testing.T) {
	resetQueue(t)

	var ranLater atomic.Bool

	gateReady := make(chan struct{})

	Add(func(ctx context.Context) error {
		ranLater.Store(true)
		return nil
	})
	Add(func(ctx context.Context) error {
		close(gateReady)
		<-ctx.Done()
		return nil
	})

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)

	go func() { errCh <- Shutdown(ctx) }()

	<-gateReady
	cancel()

	err := <-errCh
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled in aggregate; got %v", err)
	}

	if ranLater.Load() {
		t.Fatalf("expected remaining tasks to be skipped after cancel")
	}
}

//nolint:paralleltest
func TestIdempotentAndAddAfterShutdownIgnored(t *testing.T) {
	resetQueue(t)

	var count atomic.Int32

	Add(func(ctx context.Context) error {
		count.Add(1)
		return nil
	})

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()

	if err := Shutdown(ctx); err != nil {
		t.Fatalf("Shutdown #1 error: %v", err)
	}

	// Registered after shutdown: must never run.
	Add(func(ctx context.Context) error {
		count.Add(100)
		return nil
	})

	if err := Shutdown(ctx); err != nil {
		t.Fatalf("Shutdown #2 error: %v", err)
	}

	if got := count.Load(); got != 1 {
		t.Fatalf("expected exactly one task run; got %d", got)
	}
}

//nolint:paralleltest
func TestTaskErrorsAreJoined(t *testing.T) {
	resetQueue(t)

	err1 := errors.New("alpha")
	err2 := errors.New("beta")

	Add(func(ctx context.Context) error { return err1 })
	Add(func(ctx context.Context) error { return err2 })

	err := Shutdown(context.Background())
	if !errors.Is(err, err1) || !errors.Is(err, err2) {
		t.Fatalf("expected both errors in aggregate; got %v", err)
	}
}
