package runner

import (
	"fmt"
	"os"
	"sync"

	"golang.org/x/term"
)

// Credential holds a privileged password for the lifetime of a single
// operation. The secret is captured once, handed to commands via stdin only,
// and wiped when the operation reaches a terminal state. It is never logged
// and never written to disk.
type Credential struct {
	mu     sync.Mutex
	secret []byte
}

// NewCredential wraps an already-captured secret.
func NewCredential(secret string) *Credential {
	return &Credential{secret: []byte(secret)}
}

// PromptCredential reads a password from the terminal with echo disabled.
func PromptCredential(prompt string) (*Credential, error) {
	fmt.Fprint(os.Stderr, prompt)
	secret, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return nil, fmt.Errorf("read password: %w", err)
	}
	return &Credential{secret: secret}, nil
}

// Secret returns the current secret, or "" after Zero.
func (c *Credential) Secret() string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return string(c.secret)
}

// Zero overwrites and drops the secret. Safe to call more than once.
func (c *Credential) Zero() {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := range c.secret {
		c.secret[i] = 0
	}
	c.secret = nil
}

// String keeps the secret out of fmt-formatted output.
func (c *Credential) String() string {
	return "credential(redacted)"
}
