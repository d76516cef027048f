package worker

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestTickerLoopRunOnStart(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	var ticks atomic.Int32

	done := make(chan error, 1)

	go func() {
		done <- TickerLoop(ctx, TickerConfig{
			Name:       "test",
			Interval:   time.Hour,
			RunOnStart: true,
			OnTick: func(_ context.Context) {
				ticks.Add(1)
			},
		})
	}()

	waitFor(t, func() bool { return ticks.Load() == 1 })
	cancel()

	if err := <-done; !errors.Is(err, context.Canceled) {
		t.Fatalf("expected canceled, got %v", err)
	}
}

func TestTickerLoopTicks(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var ticks atomic.Int32

	stopped := false

	done := make(chan error, 1)

	go func() {
		done <- TickerLoop(ctx, TickerConfig{
			Name:     "test",
			Interval: 5 * time.Millisecond,
			OnTick: func(_ context.Context) {
				ticks.Add(1)
			},
			OnStop: func() { stopped = true },
		})
	}()

	waitFor(t, func() bool { return ticks.Load() >= 2 })
	cancel()
	<-done

	if !stopped {
		t.Fatal("OnStop not called")
	}
}

func waitFor(t *testing.T, cond func() bool) {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}

		time.Sleep(time.Millisecond)
	}

	t.Fatal("condition not met in time")
}
