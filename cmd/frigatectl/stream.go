package main

import (
	"context"
	"fmt"
	"io"

	"frigatectl/internal/ops"
	"frigatectl/internal/runner"
)

// runOperation starts the operation on a fresh runner and relays its event
// stream to out until the terminal event. The returned error is the
// operation's failure, if any.
func runOperation(ctx context.Context, cmdCtx *commandContext, op runner.Operation, out io.Writer) error {
	r, cleanup := cmdCtx.newRunner()
	defer cleanup()

	events, err := r.Start(ctx, op)
	if err != nil {
		return err
	}
	return relayEvents(events, out)
}

func relayEvents(events <-chan runner.Event, out io.Writer) error {
	var failure error
	for ev := range events {
		switch ev.Type {
		case runner.EventStepStarted:
			fmt.Fprintf(out, "==> %s\n", ev.Step)
		case runner.EventProgress:
			fmt.Fprintf(out, "    %s\n", ev.Line)
		case runner.EventSucceeded:
			fmt.Fprintln(out, "done")
		case runner.EventFailed:
			failure = ev.Err
		}
	}
	return failure
}

// buildOperation maps a container command name to its operation.
func buildOperation(builder *ops.Builder, kind string) (runner.Operation, bool) {
	switch kind {
	case ops.OpStart:
		return builder.Start(), true
	case ops.OpStop:
		return builder.Stop(), true
	case ops.OpRestart:
		return builder.Restart(), true
	case ops.OpRebuild:
		return builder.Rebuild(), true
	case ops.OpRemove:
		return builder.Remove(), true
	default:
		return runner.Operation{}, false
	}
}
