package pool

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestMap_CollectsInOrder(t *testing.T) {
	items := []int{1, 2, 3, 4, 5}

	results := Map(context.Background(), 2, items, func(_ context.Context, n int) (int, error) {
		time.Sleep(time.Duration(6-n) * time.Millisecond)
		return n * n, nil
	})

	if len(results) != len(items) {
		t.Fatalf("expected %d results, got %d", len(items), len(results))
	}
	for i, r := range results {
		if r.Err != nil {
			t.Errorf("unexpected error at %d: %v", i, r.Err)
		}
		if r.Index != i || r.Value != items[i]*items[i] {
			t.Errorf("result %d = %+v", i, r)
		}
	}
}

func TestMap_PartialFailure(t *testing.T) {
	items := []string{"url1", "error", "url3", "url4"}

	results := Map(context.Background(), 2, items, func(_ context.Context, s string) (string, error) {
		if s == "error" {
			return "", errors.New("fetch error")
		}
		return s, nil
	})

	values, failed := Split(results)
	if len(values) != 3 {
		t.Errorf("expected 3 successes, got %d", len(values))
	}
	if len(failed) != 1 || failed[0].Index != 1 {
		t.Errorf("expected failure at index 1, got %+v", failed)
	}
}

func TestMap_RespectsLimit(t *testing.T) {
	var inFlight, peak atomic.Int32
	items := make([]int, 20)

	Map(context.Background(), 3, items, func(_ context.Context, _ int) (struct{}, error) {
		n := inFlight.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		inFlight.Add(-1)
		return struct{}{}, nil
	})

	if peak.Load() > 3 {
		t.Errorf("expected at most 3 concurrent calls, saw %d", peak.Load())
	}
}

func TestMap_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var calls atomic.Int32
	results := Map(ctx, 2, []int{1, 2, 3}, func(_ context.Context, n int) (int, error) {
		calls.Add(1)
		return n, nil
	})

	if calls.Load() != 0 {
		t.Errorf("expected no calls after cancellation, got %d", calls.Load())
	}
	for _, r := range results {
		if !errors.Is(r.Err, context.Canceled) {
			t.Errorf("expected context.Canceled, got %v", r.Err)
		}
	}
}

func TestMap_Empty(t *testing.T) {
	results := Map(context.Background(), 4, []int(nil), func(_ context.Context, n int) (int, error) {
		return n, nil
	})
	if len(results) != 0 {
		t.Errorf("expected no results, got %d", len(results))
	}
}

func TestClamp(t *testing.T) {
	if Clamp(0) != DefaultSize() {
		t.Error("zero should select the default size")
	}
	if Clamp(500) != MaxSize {
		t.Errorf("expected cap at %d", MaxSize)
	}
	if Clamp(7) != 7 {
		t.Error("in-range size should be kept")
	}
}
