// Package docker wraps the docker CLI for container lifecycle management.
package docker

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"frigatectl/internal/services"
)

// ContainerState is the engine-reported status of a named container.
type ContainerState string

const (
	// StateAbsent means no container with the name exists.
	StateAbsent     ContainerState = "absent"
	StateCreated    ContainerState = "created"
	StateRunning    ContainerState = "running"
	StatePaused     ContainerState = "paused"
	StateRestarting ContainerState = "restarting"
	StateExited     ContainerState = "exited"
	StateDead       ContainerState = "dead"
)

// Running reports whether the container is up.
func (s ContainerState) Running() bool {
	return s == StateRunning
}

// Exists reports whether a container with the name is known to the engine.
func (s ContainerState) Exists() bool {
	return s != StateAbsent && s != ""
}

// Client issues docker CLI commands through an Executor.
type Client struct {
	bin    string
	exec   services.Executor
	output func(context.Context, services.Command) ([]byte, error)
}

// NewClient creates a client using the given docker binary.
func NewClient(bin string, executor services.Executor) *Client {
	if executor == nil {
		executor = services.CommandExecutor{}
	}
	return &Client{bin: bin, exec: executor, output: services.Output}
}

// DaemonAvailable checks that the engine answers. It distinguishes a missing
// binary or unreachable daemon from container-level errors.
func (c *Client) DaemonAvailable(ctx context.Context) error {
	_, err := c.output(ctx, services.Command{
		Name: c.bin,
		Args: []string{"info", "--format", "{{.ServerVersion}}"},
	})
	if err != nil {
		return services.Wrap(services.ErrExternalTool, "docker", "info",
			"docker daemon is not reachable", flattenExitError(err))
	}
	return nil
}

// State inspects the named container. A name unknown to the engine reports
// StateAbsent without error.
func (c *Client) State(ctx context.Context, name string) (ContainerState, error) {
	out, err := c.output(ctx, services.Command{
		Name: c.bin,
		Args: []string{"inspect", "--format", "{{.State.Status}}", name},
	})
	if err != nil {
		if isNoSuchObject(err) {
			return StateAbsent, nil
		}
		return "", services.Wrap(services.ErrExternalTool, "docker", "inspect", name, flattenExitError(err))
	}
	state := ContainerState(strings.TrimSpace(string(out)))
	if state == "" {
		return "", services.Wrap(services.ErrExternalTool, "docker", "inspect",
			fmt.Sprintf("empty state for container %s", name), nil)
	}
	return state, nil
}

// ImageExists reports whether the tagged image is present locally.
func (c *Client) ImageExists(ctx context.Context, tag string) (bool, error) {
	out, err := c.output(ctx, services.Command{
		Name: c.bin,
		Args: []string{"images", "--quiet", tag},
	})
	if err != nil {
		return false, services.Wrap(services.ErrExternalTool, "docker", "images", tag, flattenExitError(err))
	}
	return strings.TrimSpace(string(out)) != "", nil
}

// Start starts an existing container.
func (c *Client) Start(ctx context.Context, name string, onLine func(string)) error {
	return c.run(ctx, "start", onLine, "start", name)
}

// Stop stops a running container.
func (c *Client) Stop(ctx context.Context, name string, onLine func(string)) error {
	return c.run(ctx, "stop", onLine, "stop", name)
}

// Restart restarts an existing container.
func (c *Client) Restart(ctx context.Context, name string, onLine func(string)) error {
	return c.run(ctx, "restart", onLine, "restart", name)
}

// Remove deletes a container, stopping it first if needed.
func (c *Client) Remove(ctx context.Context, name string, onLine func(string)) error {
	return c.run(ctx, "remove", onLine, "rm", "--force", name)
}

// Build builds the image for dir's Dockerfile under the given tag.
func (c *Client) Build(ctx context.Context, dir, tag string, onLine func(string)) error {
	return c.run(ctx, "build", onLine, "build", "--tag", tag, dir)
}

// RunSpec describes the container created by RunContainer.
type RunSpec struct {
	Name    string
	Image   string
	Ports   []string
	Volumes []string
	Devices []string
	ShmSize string
	Restart string
	Env     []string
}

// RunContainer creates and starts a detached container from the spec.
func (c *Client) RunContainer(ctx context.Context, spec RunSpec, onLine func(string)) error {
	args := []string{"run", "--detach", "--name", spec.Name}
	if spec.Restart != "" {
		args = append(args, "--restart", spec.Restart)
	}
	if spec.ShmSize != "" {
		args = append(args, "--shm-size", spec.ShmSize)
	}
	for _, port := range spec.Ports {
		args = append(args, "--publish", port)
	}
	for _, volume := range spec.Volumes {
		args = append(args, "--volume", volume)
	}
	for _, device := range spec.Devices {
		args = append(args, "--device", device)
	}
	for _, env := range spec.Env {
		args = append(args, "--env", env)
	}
	args = append(args, spec.Image)
	return c.run(ctx, "run", onLine, args...)
}

// Logs streams container logs. tail limits the backlog; zero streams the
// engine default.
func (c *Client) Logs(ctx context.Context, name string, follow bool, tail int, onLine func(string)) error {
	args := []string{"logs"}
	if follow {
		args = append(args, "--follow")
	}
	if tail > 0 {
		args = append(args, "--tail", fmt.Sprint(tail))
	}
	args = append(args, name)
	return c.run(ctx, "logs", onLine, args...)
}

func (c *Client) run(ctx context.Context, op string, onLine func(string), args ...string) error {
	err := c.exec.Run(ctx, services.Command{Name: c.bin, Args: args}, onLine)
	if err != nil {
		return services.Wrap(services.ErrExternalTool, "docker", op, "", err)
	}
	return nil
}

func isNoSuchObject(err error) bool {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) {
		return strings.Contains(strings.ToLower(string(exitErr.Stderr)), "no such object")
	}
	return false
}

// flattenExitError folds captured stderr into the error text so inspection
// failures carry the engine's message.
func flattenExitError(err error) error {
	var exitErr *exec.ExitError
	if errors.As(err, &exitErr) && len(exitErr.Stderr) > 0 {
		return fmt.Errorf("%w: %s", err, strings.TrimSpace(string(exitErr.Stderr)))
	}
	return err
}
