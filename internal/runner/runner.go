package runner

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"frigatectl/internal/logging"
	"frigatectl/internal/services"
)

// State is the runner lifecycle. The runner moves Idle -> Running exactly
// once per invocation and Running -> Succeeded or Running -> Failed exactly
// once, never backwards.
type State int32

const (
	StateIdle State = iota
	StateRunning
	StateSucceeded
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateRunning:
		return "running"
	case StateSucceeded:
		return "succeeded"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Terminal reports whether the state ends an invocation.
func (s State) Terminal() bool {
	return s == StateSucceeded || s == StateFailed
}

// EventType classifies runner events.
type EventType int

const (
	EventStepStarted EventType = iota
	EventProgress
	EventSucceeded
	EventFailed
)

// Event is one entry of an invocation's ordered event stream: step
// boundaries, progress lines, and exactly one terminal event before the
// stream closes.
type Event struct {
	Type EventType
	Step string
	Line string
	Err  error
}

// Terminal reports whether the event ends the stream.
func (e Event) Terminal() bool {
	return e.Type == EventSucceeded || e.Type == EventFailed
}

// Record summarizes a finished invocation for the journal.
type Record struct {
	ID         string
	Kind       string
	State      State
	Detail     string
	StartedAt  time.Time
	FinishedAt time.Time
}

// Journal receives the terminal record of every invocation. Implementations
// must tolerate being called from the runner goroutine.
type Journal interface {
	Record(ctx context.Context, rec Record) error
}

// Options configures a Runner. All fields are optional.
type Options struct {
	// Guard serializes invocations across processes. A nil guard still
	// serializes invocations within this process.
	Guard *Guard
	// Journal records terminal outcomes.
	Journal Journal
	Logger  *slog.Logger
}

// Runner executes operations on a background goroutine while the caller
// consumes the event stream. At most one operation runs at a time; starting a
// second one while the first is in flight is rejected without side effects.
type Runner struct {
	guard   *Guard
	journal Journal
	logger  *slog.Logger

	mu        sync.Mutex
	state     State
	id        string
	kind      string
	guardHeld bool
}

// New creates an idle runner.
func New(opts Options) *Runner {
	logger := opts.Logger
	if logger == nil {
		logger = logging.NewNop()
	}
	return &Runner{
		guard:   opts.Guard,
		journal: opts.Journal,
		logger:  logging.NewComponentLogger(logger, "runner"),
		state:   StateIdle,
	}
}

// State returns the current lifecycle state.
func (r *Runner) State() State {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.state
}

// InvocationID returns the identifier of the current or most recent
// invocation, or "" before the first start.
func (r *Runner) InvocationID() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.id
}

// Start launches the operation on a background goroutine and returns its
// event stream. The stream carries the operation's progress in order and is
// closed right after its single terminal event. Start fails, and runs
// nothing, when another operation is already in flight, unless the operation
// is marked Emergency.
func (r *Runner) Start(ctx context.Context, op Operation) (<-chan Event, error) {
	r.mu.Lock()
	if r.state == StateRunning {
		r.mu.Unlock()
		return nil, services.Wrap(services.ErrPrecondition, "runner", "start",
			fmt.Sprintf("operation %s is already running", r.kind), nil)
	}
	if r.guard != nil && !op.Emergency {
		if err := r.guard.TryAcquire(); err != nil {
			r.mu.Unlock()
			return nil, err
		}
		r.guardHeld = true
	}
	r.state = StateRunning
	r.id = uuid.NewString()
	r.kind = op.Kind
	id := r.id
	r.mu.Unlock()

	ctx = services.WithOperationID(ctx, id)
	ctx = services.WithOperationKind(ctx, op.Kind)

	events := make(chan Event, 64)
	go r.run(ctx, op, id, events)
	return events, nil
}

func (r *Runner) run(ctx context.Context, op Operation, id string, events chan Event) {
	logger := logging.WithContext(ctx, r.logger)
	startedAt := time.Now()
	terminal := Event{Type: EventSucceeded}

	defer func() {
		if v := recover(); v != nil {
			terminal = Event{Type: EventFailed, Err: fmt.Errorf("operation panicked: %v", v)}
		}
		r.finish(ctx, op, id, startedAt, terminal, events)
	}()

	logger.Info("operation started",
		logging.String("kind", op.Kind),
		logging.Int("steps", len(op.Steps)))

	for _, step := range op.Steps {
		if err := ctx.Err(); err != nil {
			terminal = Event{Type: EventFailed, Step: step.Name, Err: err}
			return
		}
		events <- Event{Type: EventStepStarted, Step: step.Name}
		report := &Reporter{events: events, step: step.Name, logger: logger}
		if err := step.Run(ctx, report); err != nil {
			logger.Error("step failed",
				logging.String("step", step.Name),
				logging.Error(err))
			terminal = Event{Type: EventFailed, Step: step.Name, Err: err}
			return
		}
	}
}

func (r *Runner) finish(ctx context.Context, op Operation, id string, startedAt time.Time, terminal Event, events chan Event) {
	if op.Credential != nil {
		op.Credential.Zero()
	}

	state := StateSucceeded
	detail := ""
	if terminal.Type == EventFailed {
		state = StateFailed
		if terminal.Err != nil {
			detail = terminal.Err.Error()
		}
	}

	r.mu.Lock()
	r.state = state
	held := r.guardHeld
	r.guardHeld = false
	r.mu.Unlock()
	if held {
		r.guard.Release()
	}

	if r.journal != nil {
		rec := Record{
			ID:         id,
			Kind:       op.Kind,
			State:      state,
			Detail:     detail,
			StartedAt:  startedAt,
			FinishedAt: time.Now(),
		}
		if err := r.journal.Record(ctx, rec); err != nil {
			r.logger.Warn("journal record failed", logging.Error(err))
		}
	}

	logging.WithContext(ctx, r.logger).Info("operation finished",
		logging.String("kind", op.Kind),
		logging.String("state", state.String()),
		logging.Duration("elapsed", time.Since(startedAt)))

	events <- terminal
	close(events)
}
