package call

import (
	"context"
	"errors"
	"testing"
	"time"
)

var errBoom = errors.New("boom")

func TestTrySuccess(t *testing.T) {
	got, err := Try(context.Background(), Config{Timeout: time.Second}, func(ctx context.Context) (string, error) {
		return "ok", nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "ok" {
		t.Errorf("got %q, want %q", got, "ok")
	}
}

func TestTryRetriesOnceWhenTransient(t *testing.T) {
	calls := 0
	got, err := Try(context.Background(), Config{
		Timeout: time.Second,
		Retry:   func(error) bool { return true },
	}, func(ctx context.Context) (int, error) {
		calls++
		if calls == 1 {
			return 0, errBoom
		}
		return 42, nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != 42 {
		t.Errorf("got %d, want 42", got)
	}
	if calls != 2 {
		t.Errorf("fn called %d times, want 2", calls)
	}
}

func TestTryNoRetryWhenNotTransient(t *testing.T) {
	calls := 0
	_, err := Try(context.Background(), Config{
		Timeout: time.Second,
		Retry:   func(err error) bool { return false },
	}, func(ctx context.Context) (int, error) {
		calls++
		return 0, errBoom
	})
	if !errors.Is(err, errBoom) {
		t.Fatalf("got %v, want errBoom", err)
	}
	if calls != 1 {
		t.Errorf("fn called %d times, want 1", calls)
	}
}

func TestTryRetryCapIsOne(t *testing.T) {
	calls := 0
	_, err := Try(context.Background(), Config{
		Retry: func(error) bool { return true },
	}, func(ctx context.Context) (int, error) {
		calls++
		return 0, errBoom
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if calls != 2 {
		t.Errorf("fn called %d times, want 2", calls)
	}
}

func TestTryTimeoutReachesFn(t *testing.T) {
	_, err := Try(context.Background(), Config{Timeout: 10 * time.Millisecond}, func(ctx context.Context) (int, error) {
		select {
		case <-ctx.Done():
			return 0, ctx.Err()
		case <-time.After(5 * time.Second):
			return 1, nil
		}
	})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Fatalf("got %v, want deadline exceeded", err)
	}
}

func TestTryCancelledParentSuppressesRetry(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	_, err := Try(ctx, Config{
		Retry: func(error) bool { return true },
	}, func(ctx context.Context) (int, error) {
		calls++
		cancel()
		return 0, errBoom
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if calls != 1 {
		t.Errorf("fn called %d times, want 1 (no retry after cancel)", calls)
	}
}

func TestTryZeroTimeoutUsesCallerContext(t *testing.T) {
	got, err := Try(context.Background(), Config{}, func(ctx context.Context) (string, error) {
		if _, bounded := ctx.Deadline(); bounded {
			t.Error("zero timeout must not impose a deadline")
		}
		return "ok", nil
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "ok" {
		t.Errorf("got %q, want %q", got, "ok")
	}
}
