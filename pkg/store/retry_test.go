package store

import (
	"errors"
	"testing"
	"time"
)

var fastBackoff = backoffPolicy{
	attempts: 4,
	base:     time.Millisecond,
	cap:      4 * time.Millisecond,
}

func TestTransientErr(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"busy", errors.New("SQLITE_BUSY: database is busy (5)"), true},
		{"locked", errors.New("SQLITE_LOCKED (6)"), true},
		{"short read", errors.New("disk I/O error: IOERR_SHORT_READ (522)"), true},
		{"locked text", errors.New("database is locked"), true},
		{"table locked text", errors.New("database table is locked"), true},
		{"constraint", errors.New("UNIQUE constraint failed: habits.name"), false},
		{"plain", errors.New("no such table: habits"), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := transientErr(tc.err); got != tc.want {
				t.Fatalf("transientErr(%v) = %v, want %v", tc.err, got, tc.want)
			}
		})
	}
}

func TestWithBackoff_SucceedsAfterTransient(t *testing.T) {
	calls := 0
	err := withBackoff(fastBackoff, func() error {
		calls++
		if calls < 3 {
			return errors.New("SQLITE_BUSY (5)")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("withBackoff: %v", err)
	}
	if calls != 3 {
		t.Fatalf("fn called %d times, want 3", calls)
	}
}

func TestWithBackoff_PermanentErrorReturnsImmediately(t *testing.T) {
	calls := 0
	permanent := errors.New("UNIQUE constraint failed")
	err := withBackoff(fastBackoff, func() error {
		calls++
		return permanent
	})
	if !errors.Is(err, permanent) {
		t.Fatalf("err = %v, want the permanent error", err)
	}
	if calls != 1 {
		t.Fatalf("fn called %d times, want 1", calls)
	}
}

func TestWithBackoff_BudgetExhausted(t *testing.T) {
	calls := 0
	err := withBackoff(fastBackoff, func() error {
		calls++
		return errors.New("database is locked")
	})
	if err == nil {
		t.Fatal("withBackoff should return the last error")
	}
	if calls != fastBackoff.attempts {
		t.Fatalf("fn called %d times, want %d", calls, fastBackoff.attempts)
	}
}

func TestBackoffSleep_Bounds(t *testing.T) {
	p := writeBackoff
	for attempt := 0; attempt < 6; attempt++ {
		d := p.sleep(attempt)
		if d < p.base {
			t.Fatalf("sleep(%d) = %v, below base %v", attempt, d, p.base)
		}
		if d > p.cap+p.base {
			t.Fatalf("sleep(%d) = %v, above cap+jitter %v", attempt, d, p.cap+p.base)
		}
	}
}
