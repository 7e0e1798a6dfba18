package ops

import (
	"context"
	"fmt"
	"strings"

	"frigatectl/internal/deps"
	"frigatectl/internal/runner"
	"frigatectl/internal/services"
)

const (
	OpCheckDeps     = "check-dependencies"
	OpClone         = "clone"
	OpUpdate        = "update"
	OpInstallDocker = "install-docker"
	OpInstallDriver = "install-driver"
)

// CheckDependencies builds the operation that verifies every required
// external tool is installed before anything else runs.
func (b *Builder) CheckDependencies() runner.Operation {
	cfg := b.deps.Cfg
	return runner.Operation{
		Kind: OpCheckDeps,
		Steps: []runner.Step{
			{
				Name: "check external tools",
				Run: func(ctx context.Context, report *runner.Reporter) error {
					statuses := deps.CheckSystemDeps(cfg)
					for _, status := range statuses {
						if status.Available {
							report.Linef("%s: ok (%s)", status.Name, status.Command)
						} else {
							report.Linef("%s: missing (%s)", status.Name, status.Detail)
						}
					}
					if missing := deps.MissingRequired(statuses); len(missing) > 0 {
						return services.Wrap(services.ErrPrecondition, "ops", OpCheckDeps,
							fmt.Sprintf("missing required tools: %s", strings.Join(missing, ", ")), nil)
					}
					return nil
				},
			},
		},
	}
}

// CloneRepo builds the operation that fetches the build repository and pins
// the stack version. An existing checkout short-circuits to success.
func (b *Builder) CloneRepo() runner.Operation {
	cfg := b.deps.Cfg
	return runner.Operation{
		Kind: OpClone,
		Steps: []runner.Step{
			timedStep("clone repository", b.cloneTimeout(), func(ctx context.Context, report *runner.Reporter) error {
				dir := cfg.FrigateDir()
				if b.deps.Git.IsRepo(dir) {
					report.Linef("%s already contains a checkout", dir)
					return nil
				}
				report.Linef("cloning %s (branch %s) into %s", cfg.Repo.URL, cfg.Repo.Branch, dir)
				return b.deps.Git.Clone(ctx, cfg.Repo.URL, cfg.Repo.Branch, dir, report.Line)
			}),
			{
				Name: "pin version",
				Run: func(ctx context.Context, report *runner.Reporter) error {
					report.Linef("pinning version %s", cfg.Repo.PinnedVersion)
					return b.deps.Markers.WriteVersion(cfg.Repo.PinnedVersion)
				},
			},
		},
	}
}

// UpdateRepo builds the operation that fast-forwards an existing checkout.
// A missing checkout is a precondition failure, not an implicit clone.
func (b *Builder) UpdateRepo() runner.Operation {
	cfg := b.deps.Cfg
	return runner.Operation{
		Kind: OpUpdate,
		Steps: []runner.Step{
			timedStep("update repository", b.cloneTimeout(), func(ctx context.Context, report *runner.Reporter) error {
				dir := cfg.FrigateDir()
				if !b.deps.Git.IsRepo(dir) {
					return services.Wrap(services.ErrPrecondition, "ops", OpUpdate,
						fmt.Sprintf("%s is not a repository; run setup clone first", dir), nil)
				}
				report.Linef("updating %s", dir)
				return b.deps.Git.Pull(ctx, dir, report.Line)
			}),
		},
	}
}

// InstallDocker builds the privileged operation that registers the engine's
// apt repository and installs the engine packages. The credential rides on
// the operation so the runner wipes it at the terminal state.
func (b *Builder) InstallDocker(cred *runner.Credential) runner.Operation {
	cfg := b.deps.Cfg
	return runner.Operation{
		Kind:       OpInstallDocker,
		Credential: cred,
		Steps: []runner.Step{
			timedStep("register package repository", b.installTimeout(), func(ctx context.Context, report *runner.Reporter) error {
				report.Linef("installing signing key to %s", cfg.Packages.KeyringPath)
				err := b.deps.Apt.AddKeyring(ctx, cred.Secret(),
					cfg.CurlBinary(), cfg.GpgBinary(),
					cfg.Packages.KeyringURL, cfg.Packages.KeyringPath, report.Line)
				if err != nil {
					return err
				}
				entry := b.repositoryEntry()
				report.Linef("registering repository in %s", cfg.Packages.RepoListPath)
				return b.deps.Apt.AddRepository(ctx, cred.Secret(), entry, cfg.Packages.RepoListPath, report.Line)
			}),
			timedStep("refresh package index", b.installTimeout(), func(ctx context.Context, report *runner.Reporter) error {
				return b.deps.Apt.Update(ctx, cred.Secret(), report.Line)
			}),
			timedStep("install engine packages", b.installTimeout(), func(ctx context.Context, report *runner.Reporter) error {
				report.Linef("installing %s", strings.Join(cfg.Packages.DockerPackages, " "))
				return b.deps.Apt.Install(ctx, cred.Secret(), cfg.Packages.DockerPackages, report.Line)
			}),
		},
	}
}

// InstallDriver builds the privileged operation that installs the
// accelerator driver packages.
func (b *Builder) InstallDriver(cred *runner.Credential) runner.Operation {
	cfg := b.deps.Cfg
	return runner.Operation{
		Kind:       OpInstallDriver,
		Credential: cred,
		Steps: []runner.Step{
			timedStep("refresh package index", b.installTimeout(), func(ctx context.Context, report *runner.Reporter) error {
				return b.deps.Apt.Update(ctx, cred.Secret(), report.Line)
			}),
			timedStep("install driver packages", b.installTimeout(), func(ctx context.Context, report *runner.Reporter) error {
				report.Linef("installing %s", strings.Join(cfg.Packages.DriverPackages, " "))
				return b.deps.Apt.Install(ctx, cred.Secret(), cfg.Packages.DriverPackages, report.Line)
			}),
		},
	}
}

// repositoryEntry derives the sources.list line from the keyring settings.
// The architecture and release codename resolve on the target host.
func (b *Builder) repositoryEntry() string {
	cfg := b.deps.Cfg
	base := strings.TrimSuffix(cfg.Packages.KeyringURL, "/gpg")
	return fmt.Sprintf(
		"deb [arch=$(dpkg --print-architecture) signed-by=%s] %s $(. /etc/os-release && echo $VERSION_CODENAME) stable",
		cfg.Packages.KeyringPath, base)
}
