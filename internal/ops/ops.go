// Package ops assembles the maintenance operations: fail-fast step sequences
// over the container engine, the build repository, and the package manager.
// Preconditions are evaluated before any external command spawns, so an
// operation that cannot apply reports why instead of half-running.
package ops

import (
	"context"
	"time"

	"frigatectl/internal/config"
	"frigatectl/internal/devices"
	"frigatectl/internal/frigate"
	"frigatectl/internal/runner"
	"frigatectl/internal/services/docker"
	"frigatectl/internal/setup"
)

// ContainerEngine is the slice of the docker client the operations use.
type ContainerEngine interface {
	State(ctx context.Context, name string) (docker.ContainerState, error)
	Start(ctx context.Context, name string, onLine func(string)) error
	Stop(ctx context.Context, name string, onLine func(string)) error
	Restart(ctx context.Context, name string, onLine func(string)) error
	Remove(ctx context.Context, name string, onLine func(string)) error
	Build(ctx context.Context, dir, tag string, onLine func(string)) error
	RunContainer(ctx context.Context, spec docker.RunSpec, onLine func(string)) error
}

// RepoFetcher is the slice of the git client the operations use.
type RepoFetcher interface {
	IsRepo(dir string) bool
	Clone(ctx context.Context, url, branch, dest string, onLine func(string)) error
	Pull(ctx context.Context, dir string, onLine func(string)) error
}

// PackageInstaller is the slice of the apt client the operations use.
type PackageInstaller interface {
	Update(ctx context.Context, password string, onLine func(string)) error
	Install(ctx context.Context, password string, packages []string, onLine func(string)) error
	AddKeyring(ctx context.Context, password, curlBin, gpgBin, url, keyringPath string, onLine func(string)) error
	AddRepository(ctx context.Context, password, entry, listPath string, onLine func(string)) error
}

// Deps bundles everything the operation builders need.
type Deps struct {
	Cfg     *config.Config
	Docker  ContainerEngine
	Git     RepoFetcher
	Apt     PackageInstaller
	Scanner *devices.Scanner
	Store   *frigate.Store
	Markers *setup.Markers
}

// Builder constructs operations from the shared dependencies.
type Builder struct {
	deps Deps
}

// NewBuilder creates a builder.
func NewBuilder(deps Deps) *Builder {
	return &Builder{deps: deps}
}

func (b *Builder) opTimeout() time.Duration {
	return secondsOr(b.deps.Cfg.Container.OpTimeout, 120)
}

func (b *Builder) buildTimeout() time.Duration {
	return secondsOr(b.deps.Cfg.Container.BuildTimeout, 3600)
}

func (b *Builder) cloneTimeout() time.Duration {
	return secondsOr(b.deps.Cfg.Repo.CloneTimeout, 1800)
}

func (b *Builder) installTimeout() time.Duration {
	return secondsOr(b.deps.Cfg.Packages.InstallTimeout, 1800)
}

func secondsOr(seconds int, fallback int) time.Duration {
	if seconds <= 0 {
		seconds = fallback
	}
	return time.Duration(seconds) * time.Second
}

// timedStep wraps a step body with a deadline so a hung external tool cannot
// stall the operation forever.
func timedStep(name string, timeout time.Duration, run func(ctx context.Context, report *runner.Reporter) error) runner.Step {
	return runner.Step{
		Name: name,
		Run: func(ctx context.Context, report *runner.Reporter) error {
			stepCtx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()
			return run(stepCtx, report)
		},
	}
}
