// Package preflight provides readiness checks for the filesystem paths and
// the container engine the installer depends on. The doctor command runs the
// full set; mutating operations run the subset they need before spawning any
// external command.
package preflight

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/sys/unix"

	"frigatectl/internal/config"
	"frigatectl/internal/deps"
	"frigatectl/internal/frigate"
	"frigatectl/internal/services/docker"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// CheckDirectoryAccess verifies that the directory exists and is readable,
// writable, and traversable.
func CheckDirectoryAccess(name, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Result{Name: name, Detail: fmt.Sprintf("%s (error: does not exist)", path)}
		}
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: stat: %v)", path, err)}
	}
	if !info.IsDir() {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: is not a directory)", path)}
	}
	if err := unix.Access(path, unix.R_OK|unix.W_OK|unix.X_OK); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: insufficient permissions: %v)", path, err)}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (read/write ok)", path)}
}

// CheckDiskSpace verifies that the filesystem holding path has at least
// minBytes available. Image builds fail late and expensively without this.
func CheckDiskSpace(name, path string, minBytes uint64) Result {
	var stat unix.Statfs_t
	if err := unix.Statfs(path, &stat); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (error: statfs: %v)", path, err)}
	}
	available := stat.Bavail * uint64(stat.Bsize)
	if available < minBytes {
		return Result{Name: name, Detail: fmt.Sprintf("%s (%.1f GiB free, need %.1f GiB)",
			path, gib(available), gib(minBytes))}
	}
	return Result{Name: name, Passed: true, Detail: fmt.Sprintf("%s (%.1f GiB free)", path, gib(available))}
}

// CheckConfigDocument verifies that the configuration file exists, parses,
// and validates.
func CheckConfigDocument(store *frigate.Store) Result {
	const name = "Configuration"
	cfg, err := store.Load()
	if err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	if err := cfg.Validate(); err != nil {
		return Result{Name: name, Detail: fmt.Sprintf("%s (invalid: %v)", store.Path(), err)}
	}
	return Result{Name: name, Passed: true, Detail: store.Path()}
}

// CheckDockerDaemon verifies that the container engine answers.
func CheckDockerDaemon(ctx context.Context, client *docker.Client) Result {
	const name = "Docker daemon"
	if err := client.DaemonAvailable(ctx); err != nil {
		return Result{Name: name, Detail: err.Error()}
	}
	return Result{Name: name, Passed: true, Detail: "reachable"}
}

// CheckBinaries folds the shared dependency statuses into preflight results.
func CheckBinaries(cfg *config.Config) []Result {
	statuses := deps.CheckSystemDeps(cfg)
	results := make([]Result, 0, len(statuses))
	for _, status := range statuses {
		detail := status.Command
		if !status.Available {
			detail = status.Detail
		}
		results = append(results, Result{
			Name:   status.Name,
			Passed: status.Available,
			Detail: detail,
		})
	}
	return results
}

// MinimumBuildBytes is the free space required before an image build.
const MinimumBuildBytes = 10 << 30

// RunAll executes the full check set for the doctor command.
func RunAll(ctx context.Context, cfg *config.Config, store *frigate.Store, dockerClient *docker.Client) []Result {
	if cfg == nil {
		return nil
	}
	results := CheckBinaries(cfg)
	results = append(results, CheckDirectoryAccess("App directory", cfg.Paths.AppRoot))
	results = append(results, CheckDiskSpace("Disk space", cfg.Paths.AppRoot, MinimumBuildBytes))
	if store != nil {
		results = append(results, CheckConfigDocument(store))
	}
	if dockerClient != nil {
		results = append(results, CheckDockerDaemon(ctx, dockerClient))
	}
	return results
}

func gib(bytes uint64) float64 {
	return float64(bytes) / float64(1<<30)
}
