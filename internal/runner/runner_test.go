package runner

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"frigatectl/internal/services"
)

func collect(t *testing.T, events <-chan Event) []Event {
	t.Helper()
	var out []Event
	for ev := range events {
		out = append(out, ev)
	}
	return out
}

func terminalOf(t *testing.T, events []Event) Event {
	t.Helper()
	if len(events) == 0 {
		t.Fatal("no events received")
	}
	last := events[len(events)-1]
	if !last.Terminal() {
		t.Fatalf("last event is not terminal: %+v", last)
	}
	for _, ev := range events[:len(events)-1] {
		if ev.Terminal() {
			t.Fatalf("terminal event before end of stream: %+v", ev)
		}
	}
	return last
}

func TestRunnerSucceedsAndOrdersProgress(t *testing.T) {
	r := New(Options{})
	op := Operation{
		Kind: "demo",
		Steps: []Step{
			{Name: "first", Run: func(ctx context.Context, report *Reporter) error {
				report.Line("a")
				report.Line("b")
				return nil
			}},
			{Name: "second", Run: func(ctx context.Context, report *Reporter) error {
				report.Line("c")
				return nil
			}},
		},
	}

	events, err := r.Start(context.Background(), op)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	all := collect(t, events)
	last := terminalOf(t, all)
	if last.Type != EventSucceeded {
		t.Fatalf("terminal = %+v, want success", last)
	}
	if r.State() != StateSucceeded {
		t.Errorf("state = %v, want succeeded", r.State())
	}

	var lines []string
	for _, ev := range all {
		if ev.Type == EventProgress {
			lines = append(lines, ev.Line)
		}
	}
	if fmt.Sprint(lines) != "[a b c]" {
		t.Errorf("progress lines out of order: %v", lines)
	}
}

func TestRunnerFailFastSkipsLaterSteps(t *testing.T) {
	boom := errors.New("boom")
	ran := false
	r := New(Options{})
	op := Operation{
		Kind: "demo",
		Steps: []Step{
			{Name: "breaks", Run: func(ctx context.Context, report *Reporter) error {
				return boom
			}},
			{Name: "skipped", Run: func(ctx context.Context, report *Reporter) error {
				ran = true
				return nil
			}},
		},
	}

	events, err := r.Start(context.Background(), op)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	last := terminalOf(t, collect(t, events))
	if last.Type != EventFailed || !errors.Is(last.Err, boom) {
		t.Fatalf("terminal = %+v, want failure wrapping boom", last)
	}
	if last.Step != "breaks" {
		t.Errorf("terminal step = %q, want breaks", last.Step)
	}
	if ran {
		t.Error("step after failure ran")
	}
	if r.State() != StateFailed {
		t.Errorf("state = %v, want failed", r.State())
	}
}

func TestRunnerRecoversFromPanic(t *testing.T) {
	r := New(Options{})
	op := Operation{
		Kind: "demo",
		Steps: []Step{
			{Name: "panics", Run: func(ctx context.Context, report *Reporter) error {
				panic("unexpected")
			}},
		},
	}
	events, err := r.Start(context.Background(), op)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	last := terminalOf(t, collect(t, events))
	if last.Type != EventFailed || last.Err == nil {
		t.Fatalf("terminal = %+v, want failure", last)
	}
}

func TestRunnerRejectsConcurrentStart(t *testing.T) {
	release := make(chan struct{})
	started := make(chan struct{})
	r := New(Options{})
	op := Operation{
		Kind: "slow",
		Steps: []Step{
			{Name: "wait", Run: func(ctx context.Context, report *Reporter) error {
				close(started)
				<-release
				return nil
			}},
		},
	}

	events, err := r.Start(context.Background(), op)
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	<-started

	if _, err := r.Start(context.Background(), Operation{Kind: "second"}); !services.IsPrecondition(err) {
		t.Fatalf("second Start err = %v, want precondition marker", err)
	}

	close(release)
	terminalOf(t, collect(t, events))

	// A terminal state permits the next invocation.
	events, err = r.Start(context.Background(), Operation{Kind: "third"})
	if err != nil {
		t.Fatalf("Start after terminal: %v", err)
	}
	terminalOf(t, collect(t, events))
}

func TestRunnerGuardExcludesSecondRunner(t *testing.T) {
	lockPath := filepath.Join(t.TempDir(), "op.lock")
	release := make(chan struct{})
	started := make(chan struct{})

	first := New(Options{Guard: NewGuard(lockPath)})
	events, err := first.Start(context.Background(), Operation{
		Kind: "slow",
		Steps: []Step{
			{Name: "wait", Run: func(ctx context.Context, report *Reporter) error {
				close(started)
				<-release
				return nil
			}},
		},
	})
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	<-started

	second := New(Options{Guard: NewGuard(lockPath)})
	if _, err := second.Start(context.Background(), Operation{Kind: "other"}); !services.IsPrecondition(err) {
		t.Fatalf("second runner Start err = %v, want precondition marker", err)
	}

	close(release)
	terminalOf(t, collect(t, events))
}

func TestRunnerEmergencyOperationRunsWhileGuardHeld(t *testing.T) {
	lockPath := filepath.Join(t.TempDir(), "op.lock")
	release := make(chan struct{})
	started := make(chan struct{})

	first := New(Options{Guard: NewGuard(lockPath)})
	firstEvents, err := first.Start(context.Background(), Operation{
		Kind: "rebuild",
		Steps: []Step{
			{Name: "wait", Run: func(ctx context.Context, report *Reporter) error {
				close(started)
				<-release
				return nil
			}},
		},
	})
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	<-started

	// The override runs to completion while the first operation still holds
	// the guard.
	second := New(Options{Guard: NewGuard(lockPath)})
	events, err := second.Start(context.Background(), Operation{
		Kind:      "stop",
		Emergency: true,
		Steps: []Step{
			{Name: "halt", Run: func(ctx context.Context, report *Reporter) error {
				return nil
			}},
		},
	})
	if err != nil {
		t.Fatalf("emergency Start: %v", err)
	}
	if term := terminalOf(t, collect(t, events)); term.Type != EventSucceeded {
		t.Fatalf("emergency terminal = %v, want success", term)
	}

	// Finishing the override must not release the first operation's hold.
	third := New(Options{Guard: NewGuard(lockPath)})
	if _, err := third.Start(context.Background(), Operation{Kind: "other"}); !services.IsPrecondition(err) {
		t.Fatalf("third runner Start err = %v, want precondition marker", err)
	}

	close(release)
	terminalOf(t, collect(t, firstEvents))
}

func TestRunnerZeroesCredentialAtTerminal(t *testing.T) {
	cred := NewCredential("hunter2")
	r := New(Options{})
	events, err := r.Start(context.Background(), Operation{
		Kind:       "priv",
		Credential: cred,
		Steps: []Step{
			{Name: "uses", Run: func(ctx context.Context, report *Reporter) error {
				if cred.Secret() != "hunter2" {
					t.Error("secret unavailable during the operation")
				}
				return nil
			}},
		},
	})
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	terminalOf(t, collect(t, events))
	if cred.Secret() != "" {
		t.Error("secret survived the terminal state")
	}
	if got := fmt.Sprint(cred); got != "credential(redacted)" {
		t.Errorf("formatted credential = %q", got)
	}
}

func TestRunnerCancelledContextFails(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r := New(Options{})
	events, err := r.Start(ctx, Operation{
		Kind: "demo",
		Steps: []Step{
			{Name: "never", Run: func(ctx context.Context, report *Reporter) error {
				t.Error("step ran under a cancelled context")
				return nil
			}},
		},
	})
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	last := terminalOf(t, collect(t, events))
	if last.Type != EventFailed || !errors.Is(last.Err, context.Canceled) {
		t.Fatalf("terminal = %+v, want cancellation failure", last)
	}
}

type memoryJournal struct {
	mu   sync.Mutex
	recs []Record
}

func (j *memoryJournal) Record(_ context.Context, rec Record) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.recs = append(j.recs, rec)
	return nil
}

func TestRunnerJournalsTerminalRecord(t *testing.T) {
	journal := &memoryJournal{}
	r := New(Options{Journal: journal})
	events, err := r.Start(context.Background(), Operation{
		Kind: "journaled",
		Steps: []Step{
			{Name: "noop", Run: func(ctx context.Context, report *Reporter) error {
				return nil
			}},
		},
	})
	if err != nil {
		t.Fatalf("Start: %v", err)
	}
	terminalOf(t, collect(t, events))

	journal.mu.Lock()
	defer journal.mu.Unlock()
	if len(journal.recs) != 1 {
		t.Fatalf("records = %d, want 1", len(journal.recs))
	}
	rec := journal.recs[0]
	if rec.Kind != "journaled" || rec.State != StateSucceeded || rec.ID == "" {
		t.Errorf("record = %+v", rec)
	}
	if rec.FinishedAt.Before(rec.StartedAt) || time.Since(rec.StartedAt) > time.Minute {
		t.Errorf("record timestamps = %+v", rec)
	}
}
