package services

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"sync"
)

// Command describes a single external invocation.
type Command struct {
	Name  string
	Args  []string
	Dir   string
	Stdin string
}

// Display returns the command line suitable for progress output. Stdin content
// is never included so credentials piped to sudo stay out of the console.
func (c Command) Display() string {
	if len(c.Args) == 0 {
		return c.Name
	}
	return c.Name + " " + strings.Join(c.Args, " ")
}

// Executor abstracts command execution for testability.
type Executor interface {
	Run(ctx context.Context, cmd Command, onLine func(string)) error
}

// CommandExecutor runs commands via os/exec, forwarding combined stdout and
// stderr output line by line in the order the process produced it per stream.
type CommandExecutor struct{}

func (CommandExecutor) Run(ctx context.Context, command Command, onLine func(string)) error {
	cmd := exec.CommandContext(ctx, command.Name, command.Args...) //nolint:gosec
	if command.Dir != "" {
		cmd.Dir = command.Dir
	}
	if command.Stdin != "" {
		cmd.Stdin = strings.NewReader(command.Stdin)
	}

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return fmt.Errorf("stdout pipe: %w", err)
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return fmt.Errorf("stderr pipe: %w", err)
	}
	if err := cmd.Start(); err != nil {
		return fmt.Errorf("start command: %w", err)
	}

	var wg sync.WaitGroup
	var scanErr error
	var once sync.Once

	scan := func(r io.Reader, forward func(string)) {
		defer wg.Done()
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			forward(scanner.Text())
		}
		if err := scanner.Err(); err != nil {
			once.Do(func() {
				scanErr = err
			})
		}
	}

	forward := func(line string) {
		if onLine != nil {
			onLine(line)
			return
		}
		fmt.Fprintln(os.Stderr, line)
	}

	wg.Add(2)
	go scan(stdout, forward)
	go scan(stderr, forward)

	wg.Wait()
	if scanErr != nil {
		_ = cmd.Process.Kill()
		return fmt.Errorf("scan output: %w", scanErr)
	}

	if err := cmd.Wait(); err != nil {
		return fmt.Errorf("wait command: %w", err)
	}
	return nil
}

// Output runs the command without streaming and returns its stdout, for short
// query-style invocations (inspect, status) used by the poller.
func Output(ctx context.Context, command Command) ([]byte, error) {
	cmd := exec.CommandContext(ctx, command.Name, command.Args...) //nolint:gosec
	if command.Dir != "" {
		cmd.Dir = command.Dir
	}
	if command.Stdin != "" {
		cmd.Stdin = strings.NewReader(command.Stdin)
	}
	return cmd.Output()
}
