package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestDailySpec(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"20:00", "0 0 20 * * *", false},
		{"07:05", "0 5 7 * * *", false},
		{"0:59", "0 59 0 * * *", false},
		{"24:00", "", true},
		{"12:60", "", true},
		{"noon", "", true},
		{"ab:cd", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := DailySpec(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("DailySpec(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("DailySpec(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestScheduleRegistersEntries(t *testing.T) {
	s := New(context.Background(), time.UTC)

	if _, err := s.ScheduleDaily("reminder", "20:00", func(context.Context) error { return nil }); err != nil {
		t.Fatal(err)
	}
	if _, err := s.ScheduleInterval("poll", time.Minute, func(context.Context) error { return nil }); err != nil {
		t.Fatal(err)
	}
	if _, err := s.ScheduleDaily("bad", "25:00", func(context.Context) error { return nil }); err == nil {
		t.Error("expected error for 25:00")
	}
	if _, err := s.ScheduleInterval("bad", 0, func(context.Context) error { return nil }); err == nil {
		t.Error("expected error for zero interval")
	}
	if s.Entries() != 2 {
		t.Errorf("Entries() = %d, want 2", s.Entries())
	}
}

func TestIntervalJobRunsAndSurvivesErrors(t *testing.T) {
	s := New(context.Background(), time.UTC)
	var calls atomic.Int32
	if _, err := s.ScheduleInterval("tick", time.Second, func(context.Context) error {
		calls.Add(1)
		return errors.New("transient")
	}); err != nil {
		t.Fatal(err)
	}

	s.Start()
	deadline := time.Now().Add(3 * time.Second)
	for calls.Load() < 2 && time.Now().Before(deadline) {
		time.Sleep(50 * time.Millisecond)
	}
	s.Stop()

	if calls.Load() < 2 {
		t.Errorf("job ran %d times, want at least 2", calls.Load())
	}
}

func TestJobsSkipAfterContextCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	s := New(ctx, time.UTC)
	var calls atomic.Int32
	job := s.wrap("x", func(context.Context) error { calls.Add(1); return nil })

	job()
	cancel()
	job()

	if calls.Load() != 1 {
		t.Errorf("calls = %d, want 1", calls.Load())
	}
}
