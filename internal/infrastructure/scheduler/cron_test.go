package scheduler

import (
	"context"
	"testing"
	"time"
)

func TestCronSchedulerFiresJob(t *testing.T) {
	t.Parallel()

	fired := make(chan time.Time, 1)
	sched := NewCronScheduler("@every 10ms", time.UTC)

	ctx := context.Background()
	if err := sched.Start(ctx, func(at time.Time) {
		select {
		case fired <- at:
		default:
		}
	}); err != nil {
		t.Fatalf("Start error: %v", err)
	}

	select {
	case <-fired:
	case <-time.After(5 * time.Second):
		t.Fatal("job never fired")
	}

	if err := sched.Stop(ctx); err != nil {
		t.Fatalf("Stop error: %v", err)
	}
}

func TestCronSchedulerEmptySpecDisabled(t *testing.T) {
	t.Parallel()

	sched := NewCronScheduler("", time.UTC)

	if err := sched.Start(context.Background(), func(time.Time) {}); err != nil {
		t.Fatalf("Start error: %v", err)
	}
	if sched.runner != nil {
		t.Fatal("disabled scheduler must not start a cron loop")
	}
}

func TestCronSchedulerBadSpec(t *testing.T) {
	t.Parallel()

	sched := NewCronScheduler("not a cron spec", time.UTC)

	if err := sched.Start(context.Background(), func(time.Time) {}); err == nil {
		t.Fatal("expected error for invalid spec")
	}
}
