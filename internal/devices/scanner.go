// Package devices discovers MemryX accelerator device nodes and watches for
// hotplug events.
package devices

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"
)

// Scanner enumerates accelerator device nodes by glob pattern. Feature
// endpoints that share the node prefix are excluded so the count matches the
// number of usable accelerators.
type Scanner struct {
	pattern string
	exclude string
}

// NewScanner creates a scanner. An empty exclude disables filtering.
func NewScanner(pattern, exclude string) *Scanner {
	return &Scanner{pattern: pattern, exclude: exclude}
}

// Scan returns the matching device node paths in sorted order.
func (s *Scanner) Scan() ([]string, error) {
	matches, err := filepath.Glob(s.pattern)
	if err != nil {
		return nil, fmt.Errorf("scan devices %q: %w", s.pattern, err)
	}
	nodes := make([]string, 0, len(matches))
	for _, match := range matches {
		if s.exclude != "" && strings.Contains(filepath.Base(match), s.exclude) {
			continue
		}
		nodes = append(nodes, match)
	}
	sort.Strings(nodes)
	return nodes, nil
}

// Count returns the number of usable accelerator nodes.
func (s *Scanner) Count() (int, error) {
	nodes, err := s.Scan()
	if err != nil {
		return 0, err
	}
	return len(nodes), nil
}
