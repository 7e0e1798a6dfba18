package runner

import (
	"context"
	"fmt"
	"log/slog"

	"frigatectl/internal/logging"
)

// Step is one unit of an operation. Run either completes the unit or returns
// the error that fails the whole operation; later steps never execute after a
// failure.
type Step struct {
	Name string
	Run  func(ctx context.Context, report *Reporter) error
}

// Operation is a named fail-fast step sequence. Credential, when set, is
// available to steps for privileged commands and is wiped as soon as the
// operation reaches a terminal state. Emergency operations skip the
// host-wide guard so they can run while another operation is mid-flight;
// only stopping the container qualifies.
type Operation struct {
	Kind       string
	Steps      []Step
	Credential *Credential
	Emergency  bool
}

// Reporter forwards a step's progress lines to the operation's event stream
// in emission order.
type Reporter struct {
	events chan<- Event
	step   string
	logger *slog.Logger
}

// Line emits one progress line.
func (r *Reporter) Line(line string) {
	r.logger.Debug("progress", logging.String("step", r.step), logging.String("line", line))
	r.events <- Event{Type: EventProgress, Step: r.step, Line: line}
}

// Linef emits one formatted progress line.
func (r *Reporter) Linef(format string, args ...any) {
	r.Line(fmt.Sprintf(format, args...))
}
