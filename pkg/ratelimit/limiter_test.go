package ratelimit

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/juju/clock"
	"github.com/juju/clock/testclock"
)

func TestWaitSpacesConcurrentCallers(t *testing.T) {
	const (
		interval = 20 * time.Millisecond
		callers  = 8
		// scheduler slack between a grant and the timestamp taken after it
		slack = 10 * time.Millisecond
	)
	l := New(interval, clock.WallClock)

	var (
		mu    sync.Mutex
		stamp []time.Time
		wg    sync.WaitGroup
	)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := l.Wait(context.Background()); err != nil {
				t.Errorf("Wait: %v", err)
				return
			}
			mu.Lock()
			stamp = append(stamp, time.Now())
			mu.Unlock()
		}()
	}
	wg.Wait()

	if len(stamp) != callers {
		t.Fatalf("got %d grants, want %d", len(stamp), callers)
	}
	sort.Slice(stamp, func(i, j int) bool { return stamp[i].Before(stamp[j]) })
	for i := 1; i < len(stamp); i++ {
		if gap := stamp[i].Sub(stamp[i-1]); gap < interval-slack {
			t.Fatalf("grants %d and %d only %v apart, want >= %v", i-1, i, gap, interval)
		}
	}
	if total := stamp[len(stamp)-1].Sub(stamp[0]); total < time.Duration(callers-1)*interval-slack {
		t.Fatalf("all grants took %v, want >= %v", total, time.Duration(callers-1)*interval)
	}
}

func TestWaitBlocksUntilIntervalElapses(t *testing.T) {
	clk := testclock.NewClock(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	l := New(time.Second, clk)

	if err := l.Wait(context.Background()); err != nil {
		t.Fatalf("first Wait should be immediate: %v", err)
	}

	done := make(chan error, 1)
	go func() { done <- l.Wait(context.Background()) }()

	select {
	case <-done:
		t.Fatal("second Wait returned before the interval elapsed")
	case <-time.After(20 * time.Millisecond):
	}

	if err := clk.WaitAdvance(time.Second, time.Second, 1); err != nil {
		t.Fatalf("WaitAdvance: %v", err)
	}
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("second Wait: %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("second Wait did not return after advancing the clock")
	}
}

func TestWaitSkipsWhenIntervalAlreadyPassed(t *testing.T) {
	clk := testclock.NewClock(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	l := New(time.Second, clk)

	if err := l.Wait(context.Background()); err != nil {
		t.Fatal(err)
	}
	clk.Advance(2 * time.Second)

	done := make(chan error, 1)
	go func() { done <- l.Wait(context.Background()) }()
	select {
	case err := <-done:
		if err != nil {
			t.Fatal(err)
		}
	case <-time.After(time.Second):
		t.Fatal("Wait blocked although the interval had passed")
	}
}

func TestWaitHonoursContext(t *testing.T) {
	clk := testclock.NewClock(time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC))
	l := New(time.Minute, clk)
	if err := l.Wait(context.Background()); err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- l.Wait(ctx) }()
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("expected context.Canceled, got %v", err)
		}
	case <-time.After(time.Second):
		t.Fatal("Wait ignored cancellation")
	}
}

func TestZeroIntervalNeverWaits(t *testing.T) {
	l := New(0, nil)
	start := time.Now()
	for i := 0; i < 100; i++ {
		if err := l.Wait(context.Background()); err != nil {
			t.Fatal(err)
		}
	}
	if elapsed := time.Since(start); elapsed > 100*time.Millisecond {
		t.Fatalf("zero interval waited %v", elapsed)
	}
	if New(-time.Second, nil).Interval() != 0 {
		t.Fatal("negative interval should clamp to zero")
	}
}
