package scraper

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"
)

// triggerEventually retries until the worker has finished the previous run.
func triggerEventually(t *testing.T, runner *Runner) string {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for {
		id, err := runner.Trigger()
		if err == nil {
			return id
		}
		if time.Now().After(deadline) {
			t.Fatalf("trigger never accepted: %v", err)
		}
		time.Sleep(5 * time.Millisecond)
	}
}

func TestTriggerQueuesExactlyOneRun(t *testing.T) {
	t.Parallel()

	runner := NewRunner(nil, RunConfig{}, nil)

	id, err := runner.Trigger()
	if err != nil {
		t.Fatalf("first trigger: %v", err)
	}
	if id == "" {
		t.Fatal("expected a run id")
	}

	if _, err := runner.Trigger(); !errors.Is(err, ErrRunInProgress) {
		t.Fatalf("expected ErrRunInProgress, got %v", err)
	}
}

func TestTriggerRejectedWhileRunning(t *testing.T) {
	t.Parallel()

	s := newSite(t)
	started := make(chan struct{})
	release := make(chan struct{})
	s.server.Config.Handler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		close(started)
		<-release
		w.WriteHeader(http.StatusInternalServerError)
	})

	store := newMemStore()
	runner := NewRunner(newTestCrawler(s, store), RunConfig{ListingURL: s.url("/list"), PostLimit: 1}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	runner.Start(ctx)

	if _, err := runner.Trigger(); err != nil {
		t.Fatalf("first trigger: %v", err)
	}

	select {
	case <-started:
	case <-time.After(5 * time.Second):
		t.Fatal("run did not start")
	}

	if _, err := runner.Trigger(); !errors.Is(err, ErrRunInProgress) {
		t.Fatalf("expected ErrRunInProgress while running, got %v", err)
	}

	close(release)
	cancel()
	runner.Wait()
}

func TestTriggerAcceptedAfterRunCompletes(t *testing.T) {
	t.Parallel()

	s := newSite(t)
	s.pages["/list"] = listingFixture(nil, "")

	store := newMemStore()
	runner := NewRunner(newTestCrawler(s, store), RunConfig{ListingURL: s.url("/list"), PostLimit: 1}, nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	runner.Start(ctx)

	if _, err := runner.Trigger(); err != nil {
		t.Fatalf("first trigger: %v", err)
	}

	// The empty-listing run finishes quickly; the worker must end up idle.
	triggerEventually(t, runner)

	cancel()
	runner.Wait()
}
