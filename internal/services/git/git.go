// Package git wraps the git CLI for repository provisioning.
package git

import (
	"context"
	"os"
	"path/filepath"

	"frigatectl/internal/services"
)

// Client issues git commands through an Executor.
type Client struct {
	bin  string
	exec services.Executor
}

// NewClient creates a client using the given git binary.
func NewClient(bin string, executor services.Executor) *Client {
	if executor == nil {
		executor = services.CommandExecutor{}
	}
	return &Client{bin: bin, exec: executor}
}

// IsRepo reports whether dir is the root of a git working tree.
func (c *Client) IsRepo(dir string) bool {
	info, err := os.Stat(filepath.Join(dir, ".git"))
	return err == nil && info.IsDir()
}

// Clone clones a single branch of url into dest.
func (c *Client) Clone(ctx context.Context, url, branch, dest string, onLine func(string)) error {
	args := []string{"clone", "--progress"}
	if branch != "" {
		args = append(args, "--branch", branch, "--single-branch")
	}
	args = append(args, url, dest)
	return c.run(ctx, "clone", "", onLine, args...)
}

// Pull fast-forwards the working tree in dir.
func (c *Client) Pull(ctx context.Context, dir string, onLine func(string)) error {
	return c.run(ctx, "pull", dir, onLine, "pull", "--ff-only")
}

// Head returns the abbreviated commit the working tree in dir points at.
func (c *Client) Head(ctx context.Context, dir string) (string, error) {
	out, err := services.Output(ctx, services.Command{
		Name: c.bin,
		Args: []string{"rev-parse", "--short", "HEAD"},
		Dir:  dir,
	})
	if err != nil {
		return "", services.Wrap(services.ErrExternalTool, "git", "rev-parse", dir, err)
	}
	return string(trimLine(out)), nil
}

func (c *Client) run(ctx context.Context, op, dir string, onLine func(string), args ...string) error {
	err := c.exec.Run(ctx, services.Command{Name: c.bin, Args: args, Dir: dir}, onLine)
	if err != nil {
		return services.Wrap(services.ErrExternalTool, "git", op, "", err)
	}
	return nil
}

func trimLine(out []byte) []byte {
	for len(out) > 0 {
		last := out[len(out)-1]
		if last != '\n' && last != '\r' {
			break
		}
		out = out[:len(out)-1]
	}
	return out
}
