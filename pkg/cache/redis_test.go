package cache

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"
)

func TestNewRedisCacheUnreachable(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	_, err := NewRedisCache(ctx, "127.0.0.1:1")
	if !errors.Is(err, ErrUnavailable) {
		t.Fatalf("err = %v, want ErrUnavailable", err)
	}
}

var errRefused = &net.OpError{Op: "dial", Net: "tcp", Err: errors.New("connection refused")}

func TestTransient(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"network", errRefused, true},
		{"wrapped network", errors.Join(errors.New("get"), errRefused), true},
		{"reply", errors.New("WRONGTYPE Operation against a key holding the wrong kind of value"), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := transient(tt.err); got != tt.want {
				t.Errorf("transient(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestWithRetry(t *testing.T) {
	retryDelay = time.Millisecond
	t.Cleanup(func() { retryDelay = 100 * time.Millisecond })

	reply := errors.New("WRONGTYPE")
	tests := []struct {
		name      string
		fn        func(calls int) error
		wantCalls int
		wantErr   error
	}{
		{"success", func(int) error { return nil }, 1, nil},
		{"reply is final", func(int) error { return reply }, 1, reply},
		{"recovers", func(calls int) error {
			if calls < 2 {
				return errRefused
			}
			return nil
		}, 2, nil},
		{"exhausted", func(int) error { return errRefused }, redisAttempts, errRefused},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			calls := 0
			err := withRetry(context.Background(), func() error {
				calls++
				return tt.fn(calls)
			})
			if !errors.Is(err, tt.wantErr) && err != tt.wantErr {
				t.Errorf("withRetry() = %v, want %v", err, tt.wantErr)
			}
			if calls != tt.wantCalls {
				t.Errorf("calls = %d, want %d", calls, tt.wantCalls)
			}
		})
	}
}

func TestWithRetryCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := withRetry(ctx, func() error { return errRefused })
	if err != context.Canceled {
		t.Errorf("withRetry() = %v, want context.Canceled", err)
	}
}
