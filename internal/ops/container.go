package ops

import (
	"context"
	"fmt"

	"frigatectl/internal/runner"
	"frigatectl/internal/services"
	"frigatectl/internal/services/docker"
)

// OpStart is the operation kind for starting the container.
const (
	OpStart   = "start"
	OpStop    = "stop"
	OpRestart = "restart"
	OpRebuild = "rebuild"
	OpRemove  = "remove"
)

// Start builds the start operation. A container that is already running
// short-circuits to success; a name the engine does not know is a
// precondition failure directing the user to rebuild, because starting
// nothing silently would mask a missing installation.
func (b *Builder) Start() runner.Operation {
	name := b.deps.Cfg.Container.Name
	return runner.Operation{
		Kind: OpStart,
		Steps: []runner.Step{
			timedStep("start container", b.opTimeout(), func(ctx context.Context, report *runner.Reporter) error {
				state, err := b.deps.Docker.State(ctx, name)
				if err != nil {
					return err
				}
				if state.Running() {
					report.Linef("container %s is already running", name)
					return nil
				}
				if !state.Exists() {
					return services.Wrap(services.ErrPrecondition, "ops", OpStart,
						fmt.Sprintf("container %s does not exist; run rebuild first", name), nil)
				}
				report.Linef("starting container %s", name)
				return b.deps.Docker.Start(ctx, name, report.Line)
			}),
		},
	}
}

// Stop builds the stop operation. An absent or already-stopped container is
// success, not an error; the goal state is "not running". Stop is marked
// Emergency so it can interrupt a host where another operation holds the
// guard, for example a rebuild that went sideways.
func (b *Builder) Stop() runner.Operation {
	name := b.deps.Cfg.Container.Name
	return runner.Operation{
		Kind:      OpStop,
		Emergency: true,
		Steps: []runner.Step{
			timedStep("stop container", b.opTimeout(), func(ctx context.Context, report *runner.Reporter) error {
				state, err := b.deps.Docker.State(ctx, name)
				if err != nil {
					return err
				}
				if !state.Exists() {
					report.Linef("container %s does not exist; nothing to stop", name)
					return nil
				}
				if !state.Running() {
					report.Linef("container %s is already stopped", name)
					return nil
				}
				report.Linef("stopping container %s", name)
				return b.deps.Docker.Stop(ctx, name, report.Line)
			}),
		},
	}
}

// Restart builds the restart operation. An unknown container name is a
// precondition failure and no engine command is issued for it.
func (b *Builder) Restart() runner.Operation {
	name := b.deps.Cfg.Container.Name
	return runner.Operation{
		Kind: OpRestart,
		Steps: []runner.Step{
			timedStep("restart container", b.opTimeout(), func(ctx context.Context, report *runner.Reporter) error {
				state, err := b.deps.Docker.State(ctx, name)
				if err != nil {
					return err
				}
				if !state.Exists() {
					return services.Wrap(services.ErrPrecondition, "ops", OpRestart,
						fmt.Sprintf("container %s does not exist; run rebuild first", name), nil)
				}
				report.Linef("restarting container %s", name)
				return b.deps.Docker.Restart(ctx, name, report.Line)
			}),
		},
	}
}

// Remove builds the remove operation, tolerant of an absent container.
func (b *Builder) Remove() runner.Operation {
	name := b.deps.Cfg.Container.Name
	return runner.Operation{
		Kind: OpRemove,
		Steps: []runner.Step{
			timedStep("remove container", b.opTimeout(), func(ctx context.Context, report *runner.Reporter) error {
				state, err := b.deps.Docker.State(ctx, name)
				if err != nil {
					return err
				}
				if !state.Exists() {
					report.Linef("container %s does not exist; nothing to remove", name)
					return nil
				}
				report.Linef("removing container %s", name)
				return b.deps.Docker.Remove(ctx, name, report.Line)
			}),
		},
	}
}

// Rebuild builds the full teardown-build-run sequence: stop and remove the
// old container when present, rebuild the image from the fetched repository,
// and run a fresh container wired to the discovered accelerators.
func (b *Builder) Rebuild() runner.Operation {
	cfg := b.deps.Cfg
	name := cfg.Container.Name
	return runner.Operation{
		Kind: OpRebuild,
		Steps: []runner.Step{
			timedStep("check build repository", b.opTimeout(), func(ctx context.Context, report *runner.Reporter) error {
				dir := cfg.FrigateDir()
				if !b.deps.Git.IsRepo(dir) {
					return services.Wrap(services.ErrPrecondition, "ops", OpRebuild,
						fmt.Sprintf("%s is not a repository; run setup clone first", dir), nil)
				}
				report.Linef("building from %s", dir)
				return nil
			}),
			timedStep("tear down old container", b.opTimeout(), func(ctx context.Context, report *runner.Reporter) error {
				state, err := b.deps.Docker.State(ctx, name)
				if err != nil {
					return err
				}
				if !state.Exists() {
					report.Linef("no existing container %s", name)
					return nil
				}
				if state.Running() {
					report.Linef("stopping container %s", name)
					if err := b.deps.Docker.Stop(ctx, name, report.Line); err != nil {
						return err
					}
				}
				report.Linef("removing container %s", name)
				return b.deps.Docker.Remove(ctx, name, report.Line)
			}),
			timedStep("build image", b.buildTimeout(), func(ctx context.Context, report *runner.Reporter) error {
				report.Linef("building image %s", cfg.Container.Image)
				return b.deps.Docker.Build(ctx, cfg.FrigateDir(), cfg.Container.Image, report.Line)
			}),
			timedStep("run container", b.opTimeout(), func(ctx context.Context, report *runner.Reporter) error {
				spec, err := b.runSpec()
				if err != nil {
					return err
				}
				report.Linef("creating container %s with %d accelerator devices", name, len(spec.Devices))
				return b.deps.Docker.RunContainer(ctx, spec, report.Line)
			}),
		},
	}
}

func (b *Builder) runSpec() (docker.RunSpec, error) {
	cfg := b.deps.Cfg
	nodes, err := b.deps.Scanner.Scan()
	if err != nil {
		return docker.RunSpec{}, err
	}
	spec := docker.RunSpec{
		Name:    cfg.Container.Name,
		Image:   cfg.Container.Image,
		Ports:   cfg.Container.Ports,
		Volumes: cfg.Container.Volumes,
		Devices: append(nodes, cfg.Container.Devices...),
		ShmSize: cfg.Container.ShmSize,
		Restart: "unless-stopped",
	}
	return spec, nil
}
