package testfixtures

import (
	"testing"
	"time"
)

func TestClockDefaultsToReferenceTime(t *testing.T) {
	clock := NewClock(time.Time{})
	if !clock.Now().Equal(ReferenceTime()) {
		t.Fatalf("expected ReferenceTime, got %v", clock.Now())
	}
	if ReferenceTime().Weekday() != time.Wednesday {
		t.Fatalf("reference time should fall on a Wednesday, got %v", ReferenceTime().Weekday())
	}
}

func TestClockAdvanceAndSet(t *testing.T) {
	start := time.Date(2025, time.September, 1, 8, 0, 0, 0, time.UTC)
	clock := NewClock(start)

	if got := clock.Advance(11 * time.Minute); !got.Equal(start.Add(11 * time.Minute)) {
		t.Fatalf("advance returned %v", got)
	}

	clock.Set(start.Add(time.Hour))
	if got := clock.Now(); !got.Equal(start.Add(time.Hour)) {
		t.Fatalf("expected %v, got %v", start.Add(time.Hour), got)
	}
}

func TestClockNowFuncFollowsClock(t *testing.T) {
	clock := NewClock(time.Time{})
	nowFn := clock.NowFunc()

	clock.Advance(time.Minute)
	if got := nowFn(); !got.Equal(ReferenceTime().Add(time.Minute)) {
		t.Fatalf("expected advanced time, got %v", got)
	}

	var nilClock *Clock
	if nilClock.NowFunc() == nil {
		t.Fatalf("nil clock should fall back to time.Now")
	}
}
