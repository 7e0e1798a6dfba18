// Package apt wraps apt-get and the keyring plumbing for package
// installation. Every mutating command runs under sudo with the password
// piped to stdin; the password never appears in an argument list or in
// progress output.
package apt

import (
	"context"
	"fmt"
	"path/filepath"

	"frigatectl/internal/services"
)

// Client issues privileged package-management commands through an Executor.
type Client struct {
	aptGet string
	exec   services.Executor
}

// NewClient creates a client using the given apt-get binary.
func NewClient(aptGet string, executor services.Executor) *Client {
	if executor == nil {
		executor = services.CommandExecutor{}
	}
	return &Client{aptGet: aptGet, exec: executor}
}

// Sudo builds a sudo -S invocation with the password on stdin. The -p ""
// suppresses sudo's prompt so it does not interleave with progress output.
func Sudo(password, name string, args ...string) services.Command {
	full := append([]string{"-S", "-p", "", name}, args...)
	return services.Command{
		Name:  "sudo",
		Args:  full,
		Stdin: password + "\n",
	}
}

// Update refreshes the package index.
func (c *Client) Update(ctx context.Context, password string, onLine func(string)) error {
	return c.run(ctx, "update", onLine, Sudo(password, c.aptGet, "update"))
}

// Install installs the named packages non-interactively.
func (c *Client) Install(ctx context.Context, password string, packages []string, onLine func(string)) error {
	if len(packages) == 0 {
		return nil
	}
	args := append([]string{"install", "--yes"}, packages...)
	return c.run(ctx, "install", onLine, Sudo(password, c.aptGet, args...))
}

// AddKeyring downloads a repository signing key and installs it dearmored at
// keyringPath, creating the keyring directory first.
func (c *Client) AddKeyring(ctx context.Context, password, curlBin, gpgBin, url, keyringPath string, onLine func(string)) error {
	dir := filepath.Dir(keyringPath)
	if err := c.run(ctx, "keyring", onLine,
		Sudo(password, "install", "-m", "0755", "-d", dir)); err != nil {
		return err
	}
	pipeline := fmt.Sprintf("%s -fsSL %s | %s --dearmor --yes -o %s",
		curlBin, url, gpgBin, keyringPath)
	if err := c.run(ctx, "keyring", onLine,
		Sudo(password, "sh", "-c", pipeline)); err != nil {
		return err
	}
	return c.run(ctx, "keyring", onLine,
		Sudo(password, "chmod", "a+r", keyringPath))
}

// AddRepository writes a sources.list.d entry.
func (c *Client) AddRepository(ctx context.Context, password, entry, listPath string, onLine func(string)) error {
	script := fmt.Sprintf("echo %q > %s", entry, listPath)
	return c.run(ctx, "repository", onLine, Sudo(password, "sh", "-c", script))
}

func (c *Client) run(ctx context.Context, op string, onLine func(string), cmd services.Command) error {
	if err := c.exec.Run(ctx, cmd, onLine); err != nil {
		return services.Wrap(services.ErrExternalTool, "apt", op, "", err)
	}
	return nil
}
