package httputil

import (
	"context"
	"errors"
	"testing"
	"time"
)

var errTransient = errors.New("transient")

func TestRetry(t *testing.T) {
	tests := []struct {
		name      string
		attempts  int
		failures  int
		retryable bool
		wantCalls int
		wantErr   bool
	}{
		{"successFirstTry", 3, 0, true, 1, false},
		{"retryThenSucceed", 3, 2, true, 3, false},
		{"exhausted", 2, 5, true, 2, true},
		{"nonRetryableStops", 3, 5, false, 1, true},
		{"singleAttempt", 1, 1, true, 1, true},
		{"zeroAttemptsRunsOnce", 0, 0, true, 1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := Retry(context.Background(), tt.attempts, time.Millisecond, func() error {
				calls++
				if calls <= tt.failures {
					if tt.retryable {
						return &RetryableError{Err: errTransient}
					}
					return errTransient
				}
				return nil
			})
			if calls != tt.wantCalls {
				t.Errorf("calls = %d, want %d", calls, tt.wantCalls)
			}
			if (err != nil) != tt.wantErr {
				t.Errorf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, errTransient) {
				t.Errorf("err should wrap the cause: %v", err)
			}
		})
	}
}

func TestRetryContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := Retry(ctx, 3, time.Hour, func() error {
		return &RetryableError{Err: errTransient}
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestRetryDoublesDelay(t *testing.T) {
	const base = 20 * time.Millisecond
	var calls []time.Time
	_ = Retry(context.Background(), 3, base, func() error {
		calls = append(calls, time.Now())
		return &RetryableError{Err: errTransient}
	})
	if len(calls) != 3 {
		t.Fatalf("calls = %d, want 3", len(calls))
	}
	if gap := calls[1].Sub(calls[0]); gap < base {
		t.Errorf("first wait = %v, want >= %v", gap, base)
	}
	if gap := calls[2].Sub(calls[1]); gap < 2*base {
		t.Errorf("second wait = %v, want >= %v", gap, 2*base)
	}
}
